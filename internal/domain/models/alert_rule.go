package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RuleOperator enumerates the comparisons a custom alert rule can apply.
type RuleOperator string

const (
	OperatorLess     RuleOperator = "less"
	OperatorGreater  RuleOperator = "greater"
	OperatorEqual    RuleOperator = "equal"
	OperatorContains RuleOperator = "contains"
)

// Valid reports whether o is a supported operator.
func (o RuleOperator) Valid() bool {
	switch o {
	case OperatorLess, OperatorGreater, OperatorEqual, OperatorContains:
		return true
	}
	return false
}

// AlertRule is a user-defined predicate over one wine attribute.
type AlertRule struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Field    RuleField    `json:"field"`
	Operator RuleOperator `json:"operator"`
	Value    RuleValue    `json:"value"`
	Message  string       `json:"message"`
	Color    string       `json:"color"`
}

// DefaultRuleColor is the display hint used when the rule form leaves it empty.
const DefaultRuleColor = "#8B4513"

// RuleValue is the comparison operand of a rule. It keeps whether the operand
// was entered as a number or as text, since both shapes are persisted.
type RuleValue struct {
	text    string
	number  float64
	numeric bool
}

// TextValue builds a textual operand.
func TextValue(s string) RuleValue {
	return RuleValue{text: s}
}

// NumberValue builds a numeric operand.
func NumberValue(n float64) RuleValue {
	return RuleValue{number: n, numeric: true}
}

// IsNumeric reports whether the operand was stored as a number.
func (v RuleValue) IsNumeric() bool {
	return v.numeric
}

// String returns the operand in its textual form.
func (v RuleValue) String() string {
	if v.numeric {
		return FormatNumber(v.number)
	}
	return v.text
}

// Float returns the operand coerced to a number; text that is not numeric
// yields NaN.
func (v RuleValue) Float() float64 {
	if v.numeric {
		return v.number
	}
	return ToNumber(v.text)
}

// Empty reports a missing operand: blank text or NaN. Zero is a value.
func (v RuleValue) Empty() bool {
	if v.numeric {
		return math.IsNaN(v.number)
	}
	return strings.TrimSpace(v.text) == ""
}

// MarshalJSON keeps numbers as JSON numbers and text as JSON strings.
func (v RuleValue) MarshalJSON() ([]byte, error) {
	if v.numeric && !math.IsNaN(v.number) && !math.IsInf(v.number, 0) {
		return []byte(strconv.FormatFloat(v.number, 'f', -1, 64)), nil
	}
	return json.Marshal(v.String())
}

// UnmarshalJSON accepts either a JSON string or a JSON number.
func (v *RuleValue) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")):
		*v = RuleValue{}
		return nil
	case trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*v = TextValue(s)
		return nil
	default:
		var n float64
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return fmt.Errorf("rule value must be a string or a number: %w", err)
		}
		*v = NumberValue(n)
		return nil
	}
}
