package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTaxCalculator_AnnualTax(t *testing.T) {
	calc := NewTaxCalculator()

	tests := []struct {
		annual string
		want   string
	}{
		{"-1000", "0"},
		{"0", "0"},
		{"250000", "0"},
		{"360000", "16500"},
		{"400000", "22500"},
		{"600000", "62500"},
		{"800000", "102500"},
		{"1000000", "152500"},
		{"2000000", "402500"},
		{"3000000", "702500"},
		{"8000000", "2202500"},
		{"10000000", "2902500"},
	}

	for _, tt := range tests {
		t.Run(tt.annual, func(t *testing.T) {
			assertDecimal(t, tt.want, calc.AnnualTax(decimal.RequireFromString(tt.annual)))
		})
	}
}

func TestTaxCalculator_MonthlyTax(t *testing.T) {
	calc := NewTaxCalculator()

	assertDecimal(t, "0", calc.MonthlyTax(decimal.NewFromInt(20000)))
	assertDecimal(t, "1375", calc.MonthlyTax(decimal.NewFromInt(30000)))
	assertDecimal(t, "5208.33", calc.MonthlyTax(decimal.NewFromInt(50000)).Round(2))
}

func TestTaxCalculator_NonNegativeAndNonDecreasing(t *testing.T) {
	calc := NewTaxCalculator()

	previous := decimal.Zero
	step := decimal.NewFromInt(500)
	limit := decimal.NewFromInt(1_000_000)
	for salary := decimal.Zero; salary.LessThanOrEqual(limit); salary = salary.Add(step) {
		got := calc.MonthlyTax(salary)
		assert.False(t, got.IsNegative(), "negative tax at %s", salary)
		assert.True(t, got.GreaterThanOrEqual(previous), "tax decreased at %s", salary)
		previous = got
	}
}
