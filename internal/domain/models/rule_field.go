package models

import "strconv"

// RuleField names the wine attribute a custom alert rule inspects.
type RuleField string

const (
	FieldName            RuleField = "name"
	FieldType            RuleField = "type"
	FieldAppellation     RuleField = "appellation"
	FieldVintage         RuleField = "vintage"
	FieldProducer        RuleField = "producer"
	FieldRegion          RuleField = "region"
	FieldSupplier        RuleField = "supplier"
	FieldLocation        RuleField = "location"
	FieldQuantity        RuleField = "quantity"
	FieldMinStock        RuleField = "minStock"
	FieldMaxStock        RuleField = "maxStock"
	FieldInitialQuantity RuleField = "initialQuantity"
	FieldSellPrice       RuleField = "sellPrice"
)

// FieldValue is an attribute read off a wine, either text or a number.
type FieldValue struct {
	Text    string
	Number  float64
	Numeric bool
}

func textField(s string) FieldValue { return FieldValue{Text: s} }

func numberField(n int) FieldValue {
	return FieldValue{Text: strconv.Itoa(n), Number: float64(n), Numeric: true}
}

// String returns the attribute in textual form.
func (v FieldValue) String() string {
	return v.Text
}

// Float returns the attribute coerced to a number.
func (v FieldValue) Float() float64 {
	if v.Numeric {
		return v.Number
	}
	return ToNumber(v.Text)
}

var ruleFieldAccessors = map[RuleField]func(Wine) FieldValue{
	FieldName:            func(w Wine) FieldValue { return textField(w.Name) },
	FieldType:            func(w Wine) FieldValue { return textField(string(w.Type)) },
	FieldAppellation:     func(w Wine) FieldValue { return textField(w.Appellation) },
	FieldVintage:         func(w Wine) FieldValue { return textField(w.Vintage) },
	FieldProducer:        func(w Wine) FieldValue { return textField(w.Producer) },
	FieldRegion:          func(w Wine) FieldValue { return textField(w.Region) },
	FieldSupplier:        func(w Wine) FieldValue { return textField(w.Supplier) },
	FieldLocation:        func(w Wine) FieldValue { return textField(w.Location) },
	FieldQuantity:        func(w Wine) FieldValue { return numberField(w.Quantity) },
	FieldMinStock:        func(w Wine) FieldValue { return numberField(w.MinStock) },
	FieldMaxStock:        func(w Wine) FieldValue { return numberField(w.MaxStock) },
	FieldInitialQuantity: func(w Wine) FieldValue { return numberField(w.InitialQuantity) },
	FieldSellPrice:       func(w Wine) FieldValue { return numberField(w.SellPrice) },
}

// Valid reports whether f is one of the comparable wine attributes.
func (f RuleField) Valid() bool {
	_, ok := ruleFieldAccessors[f]
	return ok
}

// Extract reads the attribute from w. The boolean is false for an unknown field.
func (f RuleField) Extract(w Wine) (FieldValue, bool) {
	accessor, ok := ruleFieldAccessors[f]
	if !ok {
		return FieldValue{}, false
	}
	return accessor(w), true
}
