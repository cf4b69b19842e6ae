package alerts

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mamadbah2/vinstock/internal/domain/models"
)

// CustomAlert pairs a wine with a rule it satisfies.
type CustomAlert struct {
	Wine models.Wine      `json:"wine"`
	Rule models.AlertRule `json:"rule"`
}

// Result holds the four alert sets derived from the inventory.
type Result struct {
	StockOut  []models.Wine `json:"stockOut"`
	LowStock  []models.Wine `json:"lowStock"`
	OverStock []models.Wine `json:"overStock"`
	Custom    []CustomAlert `json:"custom"`
}

// Total counts every raised alert.
func (r Result) Total() int {
	return len(r.StockOut) + len(r.LowStock) + len(r.OverStock) + len(r.Custom)
}

// Evaluate classifies wines against their thresholds and the custom rules.
// It never fails: rules with an unknown field or operator simply match nothing.
func Evaluate(wines []models.Wine, rules []models.AlertRule) Result {
	result := Result{
		StockOut:  []models.Wine{},
		LowStock:  []models.Wine{},
		OverStock: []models.Wine{},
		Custom:    []CustomAlert{},
	}

	for _, w := range wines {
		switch {
		case w.IsStockOut():
			result.StockOut = append(result.StockOut, w)
		case w.IsLowStock():
			result.LowStock = append(result.LowStock, w)
		}
		if w.IsOverStock() {
			result.OverStock = append(result.OverStock, w)
		}
	}

	for _, w := range wines {
		for _, rule := range rules {
			if Matches(w, rule) {
				result.Custom = append(result.Custom, CustomAlert{Wine: w, Rule: rule})
			}
		}
	}

	return result
}

// Matches applies a single rule to a wine.
func Matches(w models.Wine, rule models.AlertRule) bool {
	field, ok := rule.Field.Extract(w)
	if !ok {
		return false
	}

	switch rule.Operator {
	case models.OperatorLess:
		return field.Float() < rule.Value.Float()
	case models.OperatorGreater:
		return field.Float() > rule.Value.Float()
	case models.OperatorEqual:
		return lower(field.String()) == lower(rule.Value.String())
	case models.OperatorContains:
		return strings.Contains(lower(field.String()), lower(rule.Value.String()))
	default:
		return false
	}
}

func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}
