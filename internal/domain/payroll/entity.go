package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// WorkingDaysPerMonth divides the monthly rate into a daily rate.
	WorkingDaysPerMonth = 22
	// HoursPerDay divides the daily rate into an hourly rate.
	HoursPerDay = 8
	// MoneyPlaces is the number of decimal places kept on a PayrollResult.
	MoneyPlaces = 2
)

// Period is an inclusive date range.
type Period struct {
	Start time.Time
	End   time.Time
}

// Days returns the inclusive calendar-day length of the period.
func (p Period) Days() int {
	start := dateOnly(p.Start)
	end := dateOnly(p.End)
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

// Category tags a payroll line. Deduction-like categories reduce net pay.
type Category string

const (
	CategoryEarning      Category = "earning"
	CategoryAllowance    Category = "allowance"
	CategoryDeduction    Category = "deduction"
	CategoryContribution Category = "contribution"
	CategoryTax          Category = "tax"
)

// IsDeduction reports whether amounts of this category are subtracted from
// gross pay.
func (c Category) IsDeduction() bool {
	switch c {
	case CategoryDeduction, CategoryContribution, CategoryTax:
		return true
	}
	return false
}

// Line is one itemized amount on a payslip.
type Line struct {
	Code     string
	Label    string
	Category Category
	Amount   decimal.Decimal
}

// Signed returns the amount with the sign it has on net pay.
func (l Line) Signed() decimal.Decimal {
	if l.Category.IsDeduction() {
		return l.Amount.Neg()
	}
	return l.Amount
}

// Line codes.
const (
	LineBasicPay           = "basic_pay"
	LineRiceSubsidy        = "rice_subsidy"
	LinePhoneAllowance     = "phone_allowance"
	LineClothingAllowance  = "clothing_allowance"
	LineLateDeduction      = "late_deduction"
	LineUndertimeDeduction = "undertime_deduction"
	LineUnpaidLeave        = "unpaid_leave_deduction"
	LineSSS                = "sss"
	LinePhilHealth         = "philhealth"
	LinePagIBIG            = "pagibig"
	LineWithholdingTax     = "withholding_tax"
)

// AttendanceSummary is the aggregate of a period's attendance entries.
type AttendanceSummary struct {
	DaysWorked         int
	TotalHours         decimal.Decimal
	LateDeduction      decimal.Decimal
	UndertimeDeduction decimal.Decimal
}

// Allowances are the fixed monthly allowances of a position tier.
type Allowances struct {
	Tier     string
	Rice     decimal.Decimal
	Phone    decimal.Decimal
	Clothing decimal.Decimal
}

// Total returns the sum of the three allowances.
func (a Allowances) Total() decimal.Decimal {
	return a.Rice.Add(a.Phone).Add(a.Clothing)
}

// Contributions holds the employee-side statutory contributions.
type Contributions struct {
	SSS        decimal.Decimal
	PhilHealth decimal.Decimal
	PagIBIG    decimal.Decimal
}

// Total returns the sum of the three contributions.
func (c Contributions) Total() decimal.Decimal {
	return c.SSS.Add(c.PhilHealth).Add(c.PagIBIG)
}

// ResultInput carries the unrounded component outputs that make up a
// PayrollResult.
type ResultInput struct {
	EmployeeID           int64
	EmployeeName         string
	Position             string
	Period               Period
	MonthlyRate          decimal.Decimal
	FallbackSalaryUsed   bool
	DailyRate            decimal.Decimal
	Attendance           AttendanceSummary
	Allowances           Allowances
	UnpaidLeaveDays      int
	UnpaidLeaveDeduction decimal.Decimal
	Contributions        Contributions
	Tax                  decimal.Decimal
}

// PayrollResult is the itemized paycheck of one employee for one period.
// Build it with NewPayrollResult; it is not modified afterwards.
type PayrollResult struct {
	EmployeeID         int64
	EmployeeName       string
	Position           string
	Period             Period
	FallbackSalaryUsed bool
	AllowanceTier      string

	MonthlyRate      decimal.Decimal
	DailyRate        decimal.Decimal
	DaysWorked       int
	TotalHoursWorked decimal.Decimal
	BasicPay         decimal.Decimal

	RiceSubsidy       decimal.Decimal
	PhoneAllowance    decimal.Decimal
	ClothingAllowance decimal.Decimal
	TotalAllowances   decimal.Decimal
	GrossPay          decimal.Decimal

	LateDeduction        decimal.Decimal
	UndertimeDeduction   decimal.Decimal
	UnpaidLeaveDays      int
	UnpaidLeaveDeduction decimal.Decimal
	SSS                  decimal.Decimal
	PhilHealth           decimal.Decimal
	PagIBIG              decimal.Decimal
	Tax                  decimal.Decimal
	TotalDeductions      decimal.Decimal

	NetPay decimal.Decimal
}

// NewPayrollResult rounds every money line of in to MoneyPlaces and derives the
// totals from the rounded lines, so the printed lines always add up.
// NetPay is not clamped at zero.
func NewPayrollResult(in ResultInput) PayrollResult {
	r := PayrollResult{
		EmployeeID:         in.EmployeeID,
		EmployeeName:       in.EmployeeName,
		Position:           in.Position,
		Period:             in.Period,
		FallbackSalaryUsed: in.FallbackSalaryUsed,
		AllowanceTier:      in.Allowances.Tier,

		MonthlyRate:      money(in.MonthlyRate),
		DailyRate:        money(in.DailyRate),
		DaysWorked:       in.Attendance.DaysWorked,
		TotalHoursWorked: in.Attendance.TotalHours.Round(MoneyPlaces),
		BasicPay:         money(in.DailyRate.Mul(decimal.NewFromInt(int64(in.Attendance.DaysWorked)))),

		RiceSubsidy:       money(in.Allowances.Rice),
		PhoneAllowance:    money(in.Allowances.Phone),
		ClothingAllowance: money(in.Allowances.Clothing),

		LateDeduction:        money(in.Attendance.LateDeduction),
		UndertimeDeduction:   money(in.Attendance.UndertimeDeduction),
		UnpaidLeaveDays:      in.UnpaidLeaveDays,
		UnpaidLeaveDeduction: money(in.UnpaidLeaveDeduction),
		SSS:                  money(in.Contributions.SSS),
		PhilHealth:           money(in.Contributions.PhilHealth),
		PagIBIG:              money(in.Contributions.PagIBIG),
		Tax:                  money(in.Tax),
	}

	r.TotalAllowances = r.RiceSubsidy.Add(r.PhoneAllowance).Add(r.ClothingAllowance)
	r.GrossPay = r.BasicPay.Add(r.TotalAllowances)
	r.TotalDeductions = r.LateDeduction.
		Add(r.UndertimeDeduction).
		Add(r.UnpaidLeaveDeduction).
		Add(r.SSS).
		Add(r.PhilHealth).
		Add(r.PagIBIG).
		Add(r.Tax)
	r.NetPay = r.GrossPay.Sub(r.TotalDeductions)
	return r
}

// Lines returns the itemized view of the result in payslip order.
func (r PayrollResult) Lines() []Line {
	return []Line{
		{Code: LineBasicPay, Label: "Basic Pay", Category: CategoryEarning, Amount: r.BasicPay},
		{Code: LineRiceSubsidy, Label: "Rice Subsidy", Category: CategoryAllowance, Amount: r.RiceSubsidy},
		{Code: LinePhoneAllowance, Label: "Phone Allowance", Category: CategoryAllowance, Amount: r.PhoneAllowance},
		{Code: LineClothingAllowance, Label: "Clothing Allowance", Category: CategoryAllowance, Amount: r.ClothingAllowance},
		{Code: LineLateDeduction, Label: "Late Deduction", Category: CategoryDeduction, Amount: r.LateDeduction},
		{Code: LineUndertimeDeduction, Label: "Undertime Deduction", Category: CategoryDeduction, Amount: r.UndertimeDeduction},
		{Code: LineUnpaidLeave, Label: "Unpaid Leave", Category: CategoryDeduction, Amount: r.UnpaidLeaveDeduction},
		{Code: LineSSS, Label: "SSS", Category: CategoryContribution, Amount: r.SSS},
		{Code: LinePhilHealth, Label: "PhilHealth", Category: CategoryContribution, Amount: r.PhilHealth},
		{Code: LinePagIBIG, Label: "Pag-IBIG", Category: CategoryContribution, Amount: r.PagIBIG},
		{Code: LineWithholdingTax, Label: "Withholding Tax", Category: CategoryTax, Amount: r.Tax},
	}
}

// BatchResult is the outcome of calculating one period for many employees.
type BatchResult struct {
	RunID           string
	Period          Period
	Results         []PayrollResult
	Failures        []BatchFailure
	TotalGross      decimal.Decimal
	TotalDeductions decimal.Decimal
	TotalNet        decimal.Decimal
}

// BatchFailure records why one employee of a batch could not be calculated.
type BatchFailure struct {
	EmployeeID int64
	Err        error
}

// MaxMonthlySalary is the largest salary the engine accepts as input.
var MaxMonthlySalary = decimal.New(1, 12)

// MaxSalaryPlaces bounds the fractional digits of an accepted salary.
const MaxSalaryPlaces = 10

// SalaryWithinLimits reports whether d is small enough, in magnitude and in
// precision, to calculate with. The exponent is checked before any comparison
// so a value such as 1e2000000 is never rescaled.
func SalaryWithinLimits(d decimal.Decimal) bool {
	if d.Exponent() < -MaxSalaryPlaces {
		return false
	}
	maxDigits := int64(MaxMonthlySalary.NumDigits()) + int64(MaxMonthlySalary.Exponent())
	if int64(d.NumDigits())+int64(d.Exponent()) > maxDigits {
		return false
	}
	return d.Abs().LessThanOrEqual(MaxMonthlySalary)
}

func money(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ContributionShare is one statutory contribution split between employee and
// employer. Basis is the amount the rate applies to: the monthly salary credit
// for SSS, the monthly premium for PhilHealth and the capped base for Pag-IBIG.
type ContributionShare struct {
	Basis    decimal.Decimal
	Employee decimal.Decimal
	Employer decimal.Decimal
}

// ContributionPreview shows the statutory contributions and tax of a salary
// without attendance or leave.
type ContributionPreview struct {
	MonthlySalary decimal.Decimal
	SSS           ContributionShare
	PhilHealth    ContributionShare
	PagIBIG       ContributionShare
	Tax           decimal.Decimal
}
