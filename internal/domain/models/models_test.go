package models

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToNumber(t *testing.T) {
	cases := map[string]float64{
		"":            0,
		"   ":         0,
		"42":          42,
		" 12 ":        12,
		"-3.5":        -3.5,
		".5":          0.5,
		"1.":          1,
		"1e3":         1000,
		"0x1F":        31,
		"0b101":       5,
		"0o17":        15,
		"Infinity":    math.Inf(1),
		"-Infinity":   math.Inf(-1),
		"\uFEFF12":    12,
		" \uFEFF 7\n": 7,
	}
	for input, want := range cases {
		assert.Equal(t, want, ToNumber(input), "input %q", input)
	}

	for _, input := range []string{"abc", "12abc", "1_000", "inf", "NaN", "-0x10", "0x", "Bordeaux"} {
		assert.True(t, math.IsNaN(ToNumber(input)), "input %q should be NaN", input)
	}
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "24", FormatNumber(24))
	assert.Equal(t, "2.5", FormatNumber(2.5))
	assert.Equal(t, "NaN", FormatNumber(math.NaN()))
	assert.Equal(t, "Infinity", FormatNumber(math.Inf(1)))
}

func TestRuleValueJSON(t *testing.T) {
	var rule AlertRule
	require.NoError(t, json.Unmarshal([]byte(`{"id":"r1","field":"quantity","operator":"less","value":"10"}`), &rule))
	assert.False(t, rule.Value.IsNumeric())
	assert.Equal(t, "10", rule.Value.String())
	assert.Equal(t, float64(10), rule.Value.Float())

	require.NoError(t, json.Unmarshal([]byte(`{"value":7.5}`), &rule))
	assert.True(t, rule.Value.IsNumeric())
	assert.Equal(t, "7.5", rule.Value.String())

	out, err := json.Marshal(AlertRule{Value: NumberValue(12)})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"value":12`)

	out, err = json.Marshal(AlertRule{Value: TextValue("Bordeaux")})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"value":"Bordeaux"`)

	assert.Error(t, json.Unmarshal([]byte(`{"value":true}`), &rule))
}

func TestRuleValueEmpty(t *testing.T) {
	assert.True(t, TextValue("").Empty())
	assert.True(t, TextValue("   ").Empty())
	assert.True(t, NumberValue(math.NaN()).Empty())
	assert.False(t, NumberValue(0).Empty())
	assert.False(t, TextValue("0").Empty())
	assert.False(t, NumberValue(3).Empty())
}

func TestRuleFieldExtract(t *testing.T) {
	wine := SeedCatalog(time.Now())[0]

	v, ok := FieldQuantity.Extract(wine)
	require.True(t, ok)
	assert.True(t, v.Numeric)
	assert.Equal(t, "24", v.String())
	assert.Equal(t, float64(24), v.Float())

	v, ok = FieldRegion.Extract(wine)
	require.True(t, ok)
	assert.Equal(t, "Bordeaux", v.String())
	assert.True(t, math.IsNaN(v.Float()))

	v, ok = FieldVintage.Extract(wine)
	require.True(t, ok)
	assert.Equal(t, float64(2015), v.Float())

	_, ok = RuleField("dateAdded").Extract(wine)
	assert.False(t, ok)
	assert.False(t, RuleField("id").Valid())
}

func TestEnumerations(t *testing.T) {
	assert.True(t, WineRose.Valid())
	assert.False(t, WineType("Orange").Valid())
	assert.True(t, FlowExpired.Valid())
	assert.False(t, TransactionType("Don").Valid())
	assert.True(t, FlowSale.IsSale())
	assert.False(t, FlowBreak.IsSale())
	assert.True(t, OperatorContains.Valid())
	assert.False(t, RuleOperator("between").Valid())
	assert.True(t, RoleAdmin.CanDelete())
	assert.False(t, RoleSeller.CanDelete())
	assert.Equal(t, "Mamadou Vendeur", RoleSeller.DefaultUserName())
}

func TestStockClassification(t *testing.T) {
	empty := Wine{Quantity: 0, MinStock: 0, MaxStock: 10}
	assert.True(t, empty.IsStockOut())
	assert.False(t, empty.IsLowStock())

	low := Wine{Quantity: 2, MinStock: 3, MaxStock: 24}
	assert.True(t, low.IsLowStock())
	assert.False(t, low.IsStockOut())
	assert.False(t, low.IsOverStock())

	full := Wine{Quantity: 24, MinStock: 3, MaxStock: 24}
	assert.True(t, full.IsOverStock())
}

func TestSeedCatalog(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	wines := SeedCatalog(now)
	require.Len(t, wines, 4)
	for _, w := range wines {
		assert.Equal(t, w.Quantity, w.InitialQuantity)
		assert.Equal(t, now, w.DateAdded)
		assert.True(t, w.Type.Valid())
	}
}
