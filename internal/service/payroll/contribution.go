package payroll

import (
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// ContributionCalculator computes one statutory contribution from a monthly
// salary. Implementations are pure and safe for concurrent use.
type ContributionCalculator interface {
	EmployeeContribution(monthlySalary decimal.Decimal) decimal.Decimal
	Share(monthlySalary decimal.Decimal) payroll.ContributionShare
}

var (
	two = decimal.NewFromInt(2)

	sssEmployeeRate = decimal.RequireFromString("0.045")
	sssEmployerRate = decimal.RequireFromString("0.085")

	pagIBIGCap = decimal.NewFromInt(5000)
)

// ========== SSS ==========

type sssRow struct {
	SalaryCredit decimal.Decimal
	Employee     decimal.Decimal
	Employer     decimal.Decimal
}

func sssShare(salaryCredit int64) sssRow {
	msc := decimal.NewFromInt(salaryCredit)
	return sssRow{
		SalaryCredit: msc,
		Employee:     msc.Mul(sssEmployeeRate),
		Employer:     msc.Mul(sssEmployerRate),
	}
}

// sssTable: below 3,250 maps to a 3,000 salary credit, then every 500-wide
// range maps to its midpoint credit, up to 24,750 and over at 25,000.
var sssTable = func() BracketTable[sssRow] {
	rows := []Bracket[sssRow]{between(0, 3250, sssShare(3000))}
	for low := int64(3250); low < 24750; low += 500 {
		rows = append(rows, between(low, low+500, sssShare(low+250)))
	}
	rows = append(rows, andOver(24750, sssShare(25000)))
	return MustBracketTable(FallbackLast, rows...)
}()

type SSSCalculator struct {
	table BracketTable[sssRow]
}

func NewSSSCalculator() *SSSCalculator {
	return &SSSCalculator{table: sssTable}
}

func (c *SSSCalculator) EmployeeContribution(monthlySalary decimal.Decimal) decimal.Decimal {
	return c.table.Lookup(monthlySalary).Values.Employee
}

func (c *SSSCalculator) Share(monthlySalary decimal.Decimal) payroll.ContributionShare {
	row := c.table.Lookup(monthlySalary).Values
	return payroll.ContributionShare{Basis: row.SalaryCredit, Employee: row.Employee, Employer: row.Employer}
}

// ========== PHILHEALTH ==========

// healthRow carries either a fixed monthly premium or a premium rate on salary.
type healthRow struct {
	FixedPremium decimal.Decimal
	Rate         decimal.Decimal
}

var philHealthTable = MustBracketTable(FallbackFirst,
	between(0, 10000, healthRow{FixedPremium: decimal.NewFromInt(300)}),
	between(10000, 60000, healthRow{Rate: decimal.RequireFromString("0.03")}),
	andOver(60000, healthRow{FixedPremium: decimal.NewFromInt(1800)}),
)

type PhilHealthCalculator struct {
	table BracketTable[healthRow]
}

func NewPhilHealthCalculator() *PhilHealthCalculator {
	return &PhilHealthCalculator{table: philHealthTable}
}

// Premium returns the total monthly premium, shared equally by employee and
// employer.
func (c *PhilHealthCalculator) Premium(monthlySalary decimal.Decimal) decimal.Decimal {
	row := c.table.Lookup(monthlySalary).Values
	if row.Rate.IsZero() {
		return row.FixedPremium
	}
	return monthlySalary.Mul(row.Rate)
}

func (c *PhilHealthCalculator) EmployeeContribution(monthlySalary decimal.Decimal) decimal.Decimal {
	return c.Premium(monthlySalary).Div(two)
}

func (c *PhilHealthCalculator) Share(monthlySalary decimal.Decimal) payroll.ContributionShare {
	premium := c.Premium(monthlySalary)
	employee := premium.Div(two)
	return payroll.ContributionShare{Basis: premium, Employee: employee, Employer: premium.Sub(employee)}
}

// ========== PAG-IBIG ==========

type housingRow struct {
	EmployeeRate decimal.Decimal
	EmployerRate decimal.Decimal
}

var pagIBIGTable = MustBracketTable(FallbackFirst,
	between(0, 1500, housingRow{
		EmployeeRate: decimal.RequireFromString("0.01"),
		EmployerRate: decimal.RequireFromString("0.02"),
	}),
	andOver(1500, housingRow{
		EmployeeRate: decimal.RequireFromString("0.02"),
		EmployerRate: decimal.RequireFromString("0.02"),
	}),
)

type PagIBIGCalculator struct {
	table BracketTable[housingRow]
	cap   decimal.Decimal
}

func NewPagIBIGCalculator() *PagIBIGCalculator {
	return &PagIBIGCalculator{table: pagIBIGTable, cap: pagIBIGCap}
}

// Base returns the salary the rates apply to: the salary capped at the
// ceiling and floored at zero.
func (c *PagIBIGCalculator) Base(monthlySalary decimal.Decimal) decimal.Decimal {
	return decimal.Max(decimal.Zero, decimal.Min(monthlySalary, c.cap))
}

func (c *PagIBIGCalculator) EmployeeContribution(monthlySalary decimal.Decimal) decimal.Decimal {
	row := c.table.Lookup(monthlySalary).Values
	return c.Base(monthlySalary).Mul(row.EmployeeRate)
}

func (c *PagIBIGCalculator) Share(monthlySalary decimal.Decimal) payroll.ContributionShare {
	row := c.table.Lookup(monthlySalary).Values
	base := c.Base(monthlySalary)
	return payroll.ContributionShare{
		Basis:    base,
		Employee: base.Mul(row.EmployeeRate),
		Employer: base.Mul(row.EmployerRate),
	}
}
