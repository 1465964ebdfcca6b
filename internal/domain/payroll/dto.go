package payroll

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// ========== CALCULATION DTOs ==========

type CalculatePayrollRequest struct {
	EmployeeID  int64  `json:"employee_id"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
}

// Validate checks the request shape and returns the parsed period. Ordering of
// the period and the sign of the employee id are checked by the engine.
func (r *CalculatePayrollRequest) Validate() (Period, error) {
	return parsePeriod(r.PeriodStart, r.PeriodEnd)
}

type RunPayrollRequest struct {
	EmployeeIDs []int64 `json:"employee_ids"`
	PeriodStart string  `json:"period_start"`
	PeriodEnd   string  `json:"period_end"`
}

func (r *RunPayrollRequest) Validate() (Period, error) {
	var errs validator.ValidationErrors

	if len(r.EmployeeIDs) == 0 {
		errs = append(errs, validator.ValidationError{Field: "employee_ids", Message: "at least one employee is required"})
	}

	period, err := parsePeriod(r.PeriodStart, r.PeriodEnd)
	if err != nil {
		if periodErrs, ok := err.(validator.ValidationErrors); ok {
			errs = append(errs, periodErrs...)
		}
	}

	if len(errs) > 0 {
		return Period{}, errs
	}
	return period, nil
}

func parsePeriod(startStr, endStr string) (Period, error) {
	var errs validator.ValidationErrors

	start, ok := validator.IsValidDate(startStr)
	if !ok {
		errs = append(errs, validator.ValidationError{Field: "period_start", Message: "must be a date in YYYY-MM-DD format"})
	}
	end, ok := validator.IsValidDate(endStr)
	if !ok {
		errs = append(errs, validator.ValidationError{Field: "period_end", Message: "must be a date in YYYY-MM-DD format"})
	}

	if len(errs) > 0 {
		return Period{}, errs
	}
	return Period{Start: start, End: end}, nil
}

type LineResponse struct {
	Code     string          `json:"code"`
	Label    string          `json:"label"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Signed   decimal.Decimal `json:"signed_amount"`
}

type PayrollResultResponse struct {
	EmployeeID         int64  `json:"employee_id"`
	EmployeeName       string `json:"employee_name,omitempty"`
	Position           string `json:"position,omitempty"`
	PeriodStart        string `json:"period_start"`
	PeriodEnd          string `json:"period_end"`
	FallbackSalaryUsed bool   `json:"fallback_salary_used"`
	AllowanceTier      string `json:"allowance_tier"`

	MonthlyRate      decimal.Decimal `json:"monthly_rate"`
	DailyRate        decimal.Decimal `json:"daily_rate"`
	DaysWorked       int             `json:"days_worked"`
	TotalHoursWorked decimal.Decimal `json:"total_hours_worked"`
	BasicPay         decimal.Decimal `json:"basic_pay"`

	RiceSubsidy       decimal.Decimal `json:"rice_subsidy"`
	PhoneAllowance    decimal.Decimal `json:"phone_allowance"`
	ClothingAllowance decimal.Decimal `json:"clothing_allowance"`
	TotalAllowances   decimal.Decimal `json:"total_allowances"`
	GrossPay          decimal.Decimal `json:"gross_pay"`

	LateDeduction        decimal.Decimal `json:"late_deduction"`
	UndertimeDeduction   decimal.Decimal `json:"undertime_deduction"`
	UnpaidLeaveDays      int             `json:"unpaid_leave_days"`
	UnpaidLeaveDeduction decimal.Decimal `json:"unpaid_leave_deduction"`
	SSS                  decimal.Decimal `json:"sss"`
	PhilHealth           decimal.Decimal `json:"philhealth"`
	PagIBIG              decimal.Decimal `json:"pagibig"`
	Tax                  decimal.Decimal `json:"tax"`
	TotalDeductions      decimal.Decimal `json:"total_deductions"`

	NetPay decimal.Decimal `json:"net_pay"`
	Lines  []LineResponse  `json:"lines"`
}

func NewPayrollResultResponse(r PayrollResult) PayrollResultResponse {
	lines := r.Lines()
	lineResponses := make([]LineResponse, 0, len(lines))
	for _, l := range lines {
		lineResponses = append(lineResponses, LineResponse{
			Code:     l.Code,
			Label:    l.Label,
			Category: string(l.Category),
			Amount:   l.Amount,
			Signed:   l.Signed(),
		})
	}

	return PayrollResultResponse{
		EmployeeID:           r.EmployeeID,
		EmployeeName:         r.EmployeeName,
		Position:             r.Position,
		PeriodStart:          FormatDate(r.Period.Start),
		PeriodEnd:            FormatDate(r.Period.End),
		FallbackSalaryUsed:   r.FallbackSalaryUsed,
		AllowanceTier:        r.AllowanceTier,
		MonthlyRate:          r.MonthlyRate,
		DailyRate:            r.DailyRate,
		DaysWorked:           r.DaysWorked,
		TotalHoursWorked:     r.TotalHoursWorked,
		BasicPay:             r.BasicPay,
		RiceSubsidy:          r.RiceSubsidy,
		PhoneAllowance:       r.PhoneAllowance,
		ClothingAllowance:    r.ClothingAllowance,
		TotalAllowances:      r.TotalAllowances,
		GrossPay:             r.GrossPay,
		LateDeduction:        r.LateDeduction,
		UndertimeDeduction:   r.UndertimeDeduction,
		UnpaidLeaveDays:      r.UnpaidLeaveDays,
		UnpaidLeaveDeduction: r.UnpaidLeaveDeduction,
		SSS:                  r.SSS,
		PhilHealth:           r.PhilHealth,
		PagIBIG:              r.PagIBIG,
		Tax:                  r.Tax,
		TotalDeductions:      r.TotalDeductions,
		NetPay:               r.NetPay,
		Lines:                lineResponses,
	}
}

// ========== BATCH DTOs ==========

type BatchFailureResponse struct {
	EmployeeID int64  `json:"employee_id"`
	Error      string `json:"error"`
}

type BatchResultResponse struct {
	RunID           string                  `json:"run_id"`
	PeriodStart     string                  `json:"period_start"`
	PeriodEnd       string                  `json:"period_end"`
	EmployeeCount   int                     `json:"employee_count"`
	FailedCount     int                     `json:"failed_count"`
	TotalGross      decimal.Decimal         `json:"total_gross"`
	TotalDeductions decimal.Decimal         `json:"total_deductions"`
	TotalNet        decimal.Decimal         `json:"total_net"`
	Results         []PayrollResultResponse `json:"results"`
	Failures        []BatchFailureResponse  `json:"failures,omitempty"`
}

func NewBatchResultResponse(b BatchResult) BatchResultResponse {
	results := make([]PayrollResultResponse, 0, len(b.Results))
	for _, r := range b.Results {
		results = append(results, NewPayrollResultResponse(r))
	}

	var failures []BatchFailureResponse
	for _, f := range b.Failures {
		failures = append(failures, BatchFailureResponse{EmployeeID: f.EmployeeID, Error: f.Err.Error()})
	}

	return BatchResultResponse{
		RunID:           b.RunID,
		PeriodStart:     FormatDate(b.Period.Start),
		PeriodEnd:       FormatDate(b.Period.End),
		EmployeeCount:   len(b.Results),
		FailedCount:     len(b.Failures),
		TotalGross:      b.TotalGross,
		TotalDeductions: b.TotalDeductions,
		TotalNet:        b.TotalNet,
		Results:         results,
		Failures:        failures,
	}
}

// ========== PREVIEW DTOs ==========

type ContributionShareResponse struct {
	Basis    decimal.Decimal `json:"basis"`
	Employee decimal.Decimal `json:"employee"`
	Employer decimal.Decimal `json:"employer"`
}

type ContributionPreviewResponse struct {
	MonthlySalary decimal.Decimal           `json:"monthly_salary"`
	SSS           ContributionShareResponse `json:"sss"`
	PhilHealth    ContributionShareResponse `json:"philhealth"`
	PagIBIG       ContributionShareResponse `json:"pagibig"`
	Tax           decimal.Decimal           `json:"tax"`
}

func NewContributionPreviewResponse(p ContributionPreview) ContributionPreviewResponse {
	share := func(s ContributionShare) ContributionShareResponse {
		return ContributionShareResponse{
			Basis:    s.Basis.Round(MoneyPlaces),
			Employee: s.Employee.Round(MoneyPlaces),
			Employer: s.Employer.Round(MoneyPlaces),
		}
	}
	return ContributionPreviewResponse{
		MonthlySalary: p.MonthlySalary.Round(MoneyPlaces),
		SSS:           share(p.SSS),
		PhilHealth:    share(p.PhilHealth),
		PagIBIG:       share(p.PagIBIG),
		Tax:           p.Tax.Round(MoneyPlaces),
	}
}

// FormatDate renders a period bound the way the API accepts it.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}
