package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// Settings are the company-wide payroll rules the engine runs with.
type Settings struct {
	StandardTimeIn        attendance.ClockTime
	StandardTimeOut       attendance.ClockTime
	GraceMinutes          int
	FallbackMonthlySalary decimal.Decimal
	UnpaidLeaveType       string
	// Location is the zone the standard times are read in. Nil keeps the zone
	// of the attendance timestamps.
	Location *time.Location
}

func DefaultSettings() Settings {
	return Settings{
		StandardTimeIn:        attendance.ClockTime{Hour: 8},
		StandardTimeOut:       attendance.ClockTime{Hour: 17},
		GraceMinutes:          15,
		FallbackMonthlySalary: decimal.NewFromInt(25000),
		UnpaidLeaveType:       leave.UnpaidLeaveType,
		Location:              time.UTC,
	}
}

type PayrollServiceImpl struct {
	profiles    payroll.SalaryProfileReader
	attendances payroll.AttendanceReader
	leaves      payroll.LeaveReader
	settings    Settings

	aggregator *AttendanceAggregator
	leave      *LeaveDeductionCalculator
	allowances *AllowanceResolver
	sss        *SSSCalculator
	philHealth *PhilHealthCalculator
	pagIBIG    *PagIBIGCalculator
	tax        *TaxCalculator
}

func NewPayrollService(
	profiles payroll.SalaryProfileReader,
	attendances payroll.AttendanceReader,
	leaves payroll.LeaveReader,
	settings Settings,
) payroll.PayrollService {
	return newPayrollService(profiles, attendances, leaves, settings)
}

func newPayrollService(
	profiles payroll.SalaryProfileReader,
	attendances payroll.AttendanceReader,
	leaves payroll.LeaveReader,
	settings Settings,
) *PayrollServiceImpl {
	return &PayrollServiceImpl{
		profiles:    profiles,
		attendances: attendances,
		leaves:      leaves,
		settings:    settings,
		aggregator:  NewAttendanceAggregator(settings.StandardTimeIn, settings.StandardTimeOut, settings.GraceMinutes, settings.Location),
		leave:       NewLeaveDeductionCalculator(settings.UnpaidLeaveType),
		allowances:  NewAllowanceResolver(),
		sss:         NewSSSCalculator(),
		philHealth:  NewPhilHealthCalculator(),
		pagIBIG:     NewPagIBIGCalculator(),
		tax:         NewTaxCalculator(),
	}
}

// ========== CALCULATION ==========

func (s *PayrollServiceImpl) Calculate(ctx context.Context, employeeID int64, period payroll.Period) (payroll.PayrollResult, error) {
	if err := validateInput(employeeID, period); err != nil {
		return payroll.PayrollResult{}, err
	}

	profile, err := s.profiles.GetSalaryProfile(ctx, employeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return payroll.PayrollResult{}, &payroll.CalculationError{
				EmployeeID: employeeID,
				Reason:     "employee not found",
				Err:        fmt.Errorf("%w: %w", payroll.ErrEmployeeNotFound, err),
			}
		}
		return payroll.PayrollResult{}, dataSourceError(employeeID, "load salary profile", err)
	}

	monthlyRate := profile.MonthlyBaseSalary
	fallbackUsed := false
	if !monthlyRate.IsPositive() {
		slog.Warn("Employee has no usable base salary, using fallback salary",
			"employee_id", employeeID,
			"base_salary", monthlyRate.String(),
			"fallback_salary", s.settings.FallbackMonthlySalary.String(),
		)
		monthlyRate = s.settings.FallbackMonthlySalary
		fallbackUsed = true
	}
	dailyRate := DailyRate(monthlyRate)

	entries, err := s.attendances.ListAttendanceEntries(ctx, employeeID, period.Start, period.End)
	if err != nil {
		return payroll.PayrollResult{}, dataSourceError(employeeID, "list attendance", err)
	}
	summary := s.aggregator.Aggregate(entriesWithin(employeeID, entries, period), dailyRate)

	allowances := s.allowances.Resolve(profile.PositionClassification)

	approved, err := s.leaves.ListApprovedLeaves(ctx, employeeID, period.Start, period.End)
	if err != nil {
		return payroll.PayrollResult{}, dataSourceError(employeeID, "list approved leaves", err)
	}
	s.logLeavesBeyondPeriod(employeeID, approved, period)

	result := payroll.NewPayrollResult(payroll.ResultInput{
		EmployeeID:           employeeID,
		EmployeeName:         profile.FullName,
		Position:             profile.PositionClassification,
		Period:               period,
		MonthlyRate:          monthlyRate,
		FallbackSalaryUsed:   fallbackUsed,
		DailyRate:            dailyRate,
		Attendance:           summary,
		Allowances:           allowances,
		UnpaidLeaveDays:      s.leave.UnpaidDays(approved),
		UnpaidLeaveDeduction: s.leave.UnpaidDeduction(approved, dailyRate),
		Contributions: payroll.Contributions{
			SSS:        s.sss.EmployeeContribution(monthlyRate),
			PhilHealth: s.philHealth.EmployeeContribution(monthlyRate),
			PagIBIG:    s.pagIBIG.EmployeeContribution(monthlyRate),
		},
		Tax: s.tax.MonthlyTax(monthlyRate),
	})

	slog.Debug("Calculated payroll",
		"employee_id", employeeID,
		"days_worked", result.DaysWorked,
		"gross_pay", result.GrossPay.String(),
		"net_pay", result.NetPay.String(),
	)

	return result, nil
}

// ========== PREVIEW ==========

func (s *PayrollServiceImpl) PreviewContributions(monthlySalary decimal.Decimal) (payroll.ContributionPreview, error) {
	if monthlySalary.IsNegative() {
		return payroll.ContributionPreview{}, payroll.NewInputError(0, "salary", "must not be negative", payroll.ErrInvalidSalary)
	}
	if !payroll.SalaryWithinLimits(monthlySalary) {
		return payroll.ContributionPreview{}, payroll.NewInputError(0, "salary", salaryLimitReason, payroll.ErrInvalidSalary)
	}

	return payroll.ContributionPreview{
		MonthlySalary: monthlySalary,
		SSS:           s.sss.Share(monthlySalary),
		PhilHealth:    s.philHealth.Share(monthlySalary),
		PagIBIG:       s.pagIBIG.Share(monthlySalary),
		Tax:           s.tax.MonthlyTax(monthlySalary),
	}, nil
}

// ========== HELPERS ==========

var salaryLimitReason = fmt.Sprintf("must be at most %s with at most %d decimal places",
	payroll.MaxMonthlySalary.String(), payroll.MaxSalaryPlaces)

func validateInput(employeeID int64, period payroll.Period) error {
	if employeeID <= 0 {
		return payroll.NewInputError(employeeID, "employee_id", "must be a positive integer", payroll.ErrInvalidEmployeeID)
	}
	return validatePeriod(employeeID, period)
}

func validatePeriod(employeeID int64, period payroll.Period) error {
	if period.Start.IsZero() {
		return payroll.NewInputError(employeeID, "period_start", "is required", payroll.ErrInvalidPeriod)
	}
	if period.End.IsZero() {
		return payroll.NewInputError(employeeID, "period_end", "is required", payroll.ErrInvalidPeriod)
	}
	if period.End.Before(period.Start) {
		return payroll.NewInputError(employeeID, "period_end", "must not be before period_start", payroll.ErrInvalidPeriod)
	}
	return nil
}

func dataSourceError(employeeID int64, op string, err error) error {
	return &payroll.CalculationError{
		EmployeeID: employeeID,
		Reason:     op + " failed",
		Err:        fmt.Errorf("%w: %w", payroll.ErrDataSource, err),
	}
}

// entriesWithin drops entries dated outside the period.
func entriesWithin(employeeID int64, entries []attendance.Entry, period payroll.Period) []attendance.Entry {
	kept := make([]attendance.Entry, 0, len(entries))
	for _, e := range entries {
		if !e.Within(period.Start, period.End) {
			slog.Debug("Skipping attendance entry outside payroll period",
				"employee_id", employeeID,
				"date", e.Date.Format("2006-01-02"),
			)
			continue
		}
		kept = append(kept, e)
	}
	return kept
}

// logLeavesBeyondPeriod flags unpaid leave that is charged in full although
// it runs past the period, so a neighbouring period may charge it again.
func (s *PayrollServiceImpl) logLeavesBeyondPeriod(employeeID int64, leaves []leave.ApprovedLeave, period payroll.Period) {
	for _, l := range leaves {
		if !s.leave.Charges(l) || !l.ExtendsBeyond(period.Start, period.End) {
			continue
		}
		slog.Debug("Unpaid leave extends beyond payroll period",
			"employee_id", employeeID,
			"leave_start", l.StartDate.Format("2006-01-02"),
			"leave_end", l.EndDate.Format("2006-01-02"),
			"period_start", payroll.FormatDate(period.Start),
			"period_end", payroll.FormatDate(period.End),
		)
	}
}

// ========== SNAPSHOT ==========

// SnapshotFunc runs fn with a context whose reads all see one consistent view
// of the data source.
type SnapshotFunc func(ctx context.Context, fn func(ctx context.Context) error) error

type snapshotService struct {
	payroll.PayrollService
	snapshot SnapshotFunc
}

// WithSnapshot makes every Calculate read its salary profile, attendance and
// leave from a single snapshot.
func WithSnapshot(service payroll.PayrollService, snapshot SnapshotFunc) payroll.PayrollService {
	return &snapshotService{PayrollService: service, snapshot: snapshot}
}

func (s *snapshotService) Calculate(ctx context.Context, employeeID int64, period payroll.Period) (payroll.PayrollResult, error) {
	if err := validateInput(employeeID, period); err != nil {
		return payroll.PayrollResult{}, err
	}

	var result payroll.PayrollResult
	err := s.snapshot(ctx, func(ctx context.Context) error {
		var err error
		result, err = s.PayrollService.Calculate(ctx, employeeID, period)
		return err
	})
	if err != nil {
		var calcErr *payroll.CalculationError
		if errors.As(err, &calcErr) {
			return payroll.PayrollResult{}, err
		}
		return payroll.PayrollResult{}, dataSourceError(employeeID, "open snapshot", err)
	}
	return result, nil
}
