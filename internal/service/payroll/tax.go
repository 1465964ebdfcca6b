package payroll

import (
	"github.com/shopspring/decimal"
)

var monthsPerYear = decimal.NewFromInt(12)

// taxBand is the tax due at the band's lower bound plus the marginal rate on
// the excess over it.
type taxBand struct {
	Base decimal.Decimal
	Rate decimal.Decimal
}

func band(base int64, rate string) taxBand {
	return taxBand{Base: decimal.NewFromInt(base), Rate: decimal.RequireFromString(rate)}
}

var annualTaxSchedule = MustBracketTable(FallbackFirst,
	between(0, 250_000, band(0, "0")),
	between(250_000, 400_000, band(0, "0.15")),
	between(400_000, 800_000, band(22_500, "0.20")),
	between(800_000, 2_000_000, band(102_500, "0.25")),
	between(2_000_000, 8_000_000, band(402_500, "0.30")),
	andOver(8_000_000, band(2_202_500, "0.35")),
)

// TaxCalculator withholds income tax on an annualized monthly salary.
type TaxCalculator struct {
	schedule BracketTable[taxBand]
}

func NewTaxCalculator() *TaxCalculator {
	return &TaxCalculator{schedule: annualTaxSchedule}
}

// AnnualTax applies the progressive schedule to an annual income.
func (c *TaxCalculator) AnnualTax(annualIncome decimal.Decimal) decimal.Decimal {
	row := c.schedule.Lookup(annualIncome)
	excess := decimal.Max(decimal.Zero, annualIncome.Sub(row.Low))
	return decimal.Max(decimal.Zero, row.Values.Base.Add(excess.Mul(row.Values.Rate)))
}

// MonthlyTax annualizes the salary, applies the schedule and returns one
// twelfth of the annual tax.
func (c *TaxCalculator) MonthlyTax(monthlySalary decimal.Decimal) decimal.Decimal {
	return c.AnnualTax(monthlySalary.Mul(monthsPerYear)).Div(monthsPerYear)
}
