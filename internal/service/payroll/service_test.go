package payroll

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===== FAKES =====

type fakeProfiles struct {
	mu       sync.Mutex
	profiles map[int64]employee.SalaryProfile
	err      error
	calls    int
}

func (f *fakeProfiles) GetSalaryProfile(ctx context.Context, employeeID int64) (employee.SalaryProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return employee.SalaryProfile{}, f.err
	}
	profile, ok := f.profiles[employeeID]
	if !ok {
		return employee.SalaryProfile{}, employee.ErrEmployeeNotFound
	}
	return profile, nil
}

type fakeAttendance struct {
	mu      sync.Mutex
	entries map[int64][]attendance.Entry
	err     error
	calls   int
}

func (f *fakeAttendance) ListAttendanceEntries(ctx context.Context, employeeID int64, start, end time.Time) ([]attendance.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.entries[employeeID], nil
}

type fakeLeaves struct {
	mu     sync.Mutex
	leaves map[int64][]leave.ApprovedLeave
	err    error
	calls  int
}

func (f *fakeLeaves) ListApprovedLeaves(ctx context.Context, employeeID int64, start, end time.Time) ([]leave.ApprovedLeave, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.leaves[employeeID], nil
}

type fixture struct {
	profiles    *fakeProfiles
	attendances *fakeAttendance
	leaves      *fakeLeaves
	service     *PayrollServiceImpl
}

func newFixture() *fixture {
	f := &fixture{
		profiles:    &fakeProfiles{profiles: map[int64]employee.SalaryProfile{}},
		attendances: &fakeAttendance{entries: map[int64][]attendance.Entry{}},
		leaves:      &fakeLeaves{leaves: map[int64][]leave.ApprovedLeave{}},
	}
	f.service = newPayrollService(f.profiles, f.attendances, f.leaves, DefaultSettings())
	return f
}

func (f *fixture) addEmployee(id int64, salary int64, position string) {
	f.profiles.profiles[id] = employee.SalaryProfile{
		EmployeeID:             id,
		FullName:               "Employee",
		MonthlyBaseSalary:      decimal.NewFromInt(salary),
		PositionClassification: position,
	}
}

var january = payroll.Period{
	Start: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
	End:   time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC),
}

// onTimeDays returns n consecutive on-time workdays starting at the period start.
func onTimeDays(n int) []attendance.Entry {
	entries := make([]attendance.Entry, 0, n)
	for i := 0; i < n; i++ {
		entries = append(entries, workday(january.Start.AddDate(0, 0, i), "08:00", "17:00"))
	}
	return entries
}

// ===== CALCULATE =====

func TestPayrollService_Calculate_EndToEnd(t *testing.T) {
	f := newFixture()
	f.addEmployee(1, 30000, "Software Engineer")
	f.attendances.entries[1] = onTimeDays(22)

	result, err := f.service.Calculate(context.Background(), 1, january)
	require.NoError(t, err)

	assertDecimal(t, "30000", result.MonthlyRate)
	assertDecimal(t, "1363.64", result.DailyRate)
	assert.Equal(t, 22, result.DaysWorked)
	assertDecimal(t, "198", result.TotalHoursWorked)
	assertDecimal(t, "30000", result.BasicPay)

	assert.Equal(t, "default", result.AllowanceTier)
	assertDecimal(t, "1500", result.RiceSubsidy)
	assertDecimal(t, "500", result.PhoneAllowance)
	assertDecimal(t, "500", result.ClothingAllowance)
	assertDecimal(t, "2500", result.TotalAllowances)
	assertDecimal(t, "32500", result.GrossPay)

	assertDecimal(t, "0", result.LateDeduction)
	assertDecimal(t, "0", result.UndertimeDeduction)
	assertDecimal(t, "0", result.UnpaidLeaveDeduction)
	assertDecimal(t, "1125", result.SSS)
	assertDecimal(t, "450", result.PhilHealth)
	assertDecimal(t, "100", result.PagIBIG)
	assertDecimal(t, "1375", result.Tax)
	assertDecimal(t, "3050", result.TotalDeductions)
	assertDecimal(t, "29450", result.NetPay)
	assert.False(t, result.FallbackSalaryUsed)
}

func TestPayrollService_Calculate_LateDay(t *testing.T) {
	f := newFixture()
	f.addEmployee(1, 30000, "Software Engineer")
	entries := onTimeDays(22)
	entries[4] = workday(entries[4].Date, "08:30", "17:00")
	f.attendances.entries[1] = entries

	result, err := f.service.Calculate(context.Background(), 1, january)
	require.NoError(t, err)

	assertDecimal(t, "85.23", result.LateDeduction)
	assertDecimal(t, "0", result.UndertimeDeduction)
	assertDecimal(t, "32500", result.GrossPay)
	assertDecimal(t, "3135.23", result.TotalDeductions)
	assertDecimal(t, "29364.77", result.NetPay)
}

func TestPayrollService_Calculate_ReadsAttendanceInCompanyTimeZone(t *testing.T) {
	manila := time.FixedZone("PHT", 8*60*60)
	settings := DefaultSettings()
	settings.Location = manila

	f := newFixture()
	f.service = newPayrollService(f.profiles, f.attendances, f.leaves, settings)
	f.addEmployee(1, 30000, "Software Engineer")

	// The store hands clock times back in UTC.
	entries := make([]attendance.Entry, 0, 22)
	for i := 0; i < 22; i++ {
		timeIn := "08:00"
		if i == 4 {
			timeIn = "08:30"
		}
		local := workday(time.Date(2025, time.January, 1+i, 0, 0, 0, 0, manila), timeIn, "17:00")
		in, out := local.TimeIn.UTC(), local.TimeOut.UTC()
		entries = append(entries, attendance.Entry{Date: january.Start.AddDate(0, 0, i), TimeIn: &in, TimeOut: &out})
	}
	f.attendances.entries[1] = entries

	result, err := f.service.Calculate(context.Background(), 1, january)
	require.NoError(t, err)

	assertDecimal(t, "85.23", result.LateDeduction)
	assertDecimal(t, "0", result.UndertimeDeduction)
	assertDecimal(t, "29364.77", result.NetPay)
}

func TestPayrollService_Calculate_EmptyPeriod(t *testing.T) {
	f := newFixture()
	f.addEmployee(1, 30000, "Software Engineer")

	result, err := f.service.Calculate(context.Background(), 1, january)
	require.NoError(t, err)

	assert.Equal(t, 0, result.DaysWorked)
	assertDecimal(t, "0", result.BasicPay)
	assertDecimal(t, "0", result.LateDeduction)
	assertDecimal(t, "0", result.UndertimeDeduction)
	assertDecimal(t, "0", result.UnpaidLeaveDeduction)

	contributionsAndTax := result.SSS.Add(result.PhilHealth).Add(result.PagIBIG).Add(result.Tax)
	assertDecimal(t, result.TotalAllowances.Sub(contributionsAndTax).String(), result.NetPay)
	assertDecimal(t, "-550", result.NetPay)
}

func TestPayrollService_Calculate_UnpaidLeave(t *testing.T) {
	f := newFixture()
	f.addEmployee(1, 30000, "Team Leader")
	f.attendances.entries[1] = onTimeDays(20)
	f.leaves.leaves[1] = []leave.ApprovedLeave{
		leaveOf("unpaid", january.Start.AddDate(0, 0, 20), 2, leave.LeaveRequestStatusApproved),
		leaveOf("vacation", january.Start.AddDate(0, 0, 25), 1, leave.LeaveRequestStatusApproved),
	}

	result, err := f.service.Calculate(context.Background(), 1, january)
	require.NoError(t, err)

	assert.Equal(t, "leader", result.AllowanceTier)
	assert.Equal(t, 2, result.UnpaidLeaveDays)
	assertDecimal(t, "2727.27", result.UnpaidLeaveDeduction)
	assertDecimal(t, "27272.73", result.BasicPay)
}

func TestPayrollService_Calculate_DropsEntriesOutsidePeriod(t *testing.T) {
	f := newFixture()
	f.addEmployee(1, 30000, "Software Engineer")
	f.attendances.entries[1] = append(onTimeDays(2),
		workday(january.End.AddDate(0, 0, 1), "09:00", "17:00"),
		workday(january.Start.AddDate(0, 0, -1), "08:00", "17:00"),
	)

	result, err := f.service.Calculate(context.Background(), 1, january)
	require.NoError(t, err)

	assert.Equal(t, 2, result.DaysWorked)
	assertDecimal(t, "0", result.LateDeduction)
}

func TestPayrollService_Calculate_LogsLeaveBeyondPeriod(t *testing.T) {
	var logs bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(previous) })

	f := newFixture()
	f.addEmployee(1, 30000, "Software Engineer")
	f.leaves.leaves[1] = []leave.ApprovedLeave{
		leaveOf("unpaid", january.End.AddDate(0, 0, -1), 4, leave.LeaveRequestStatusApproved),
		leaveOf("vacation", january.Start.AddDate(0, 0, -2), 4, leave.LeaveRequestStatusApproved),
		leaveOf("unpaid", january.Start.AddDate(0, 0, 9), 2, leave.LeaveRequestStatusApproved),
	}

	result, err := f.service.Calculate(context.Background(), 1, january)
	require.NoError(t, err)

	assert.Equal(t, 6, result.UnpaidLeaveDays)
	assert.Equal(t, 1, bytes.Count(logs.Bytes(), []byte("Unpaid leave extends beyond payroll period")))
	assert.Contains(t, logs.String(), `"leave_end":"2025-02-02"`)
}

func TestPayrollService_Calculate_FallbackSalary(t *testing.T) {
	f := newFixture()
	f.addEmployee(1, 0, "Software Engineer")

	result, err := f.service.Calculate(context.Background(), 1, january)
	require.NoError(t, err)

	assert.True(t, result.FallbackSalaryUsed)
	assertDecimal(t, "25000", result.MonthlyRate)
	assertDecimal(t, "1125", result.SSS)
	assertDecimal(t, "375", result.PhilHealth)
}

func TestPayrollService_Calculate_NegativeNetIsNotClamped(t *testing.T) {
	f := newFixture()
	f.addEmployee(1, 30000, "Software Engineer")
	f.attendances.entries[1] = onTimeDays(1)
	f.leaves.leaves[1] = []leave.ApprovedLeave{
		leaveOf("unpaid", january.Start.AddDate(0, 0, 1), 20, leave.LeaveRequestStatusApproved),
	}

	result, err := f.service.Calculate(context.Background(), 1, january)
	require.NoError(t, err)

	assert.True(t, result.NetPay.IsNegative())
	assertDecimal(t, result.GrossPay.Sub(result.TotalDeductions).String(), result.NetPay)
}

func TestPayrollService_Calculate_InvalidInput(t *testing.T) {
	tests := []struct {
		name       string
		employeeID int64
		period     payroll.Period
		sentinel   error
		field      string
	}{
		{
			name:       "end before start",
			employeeID: 1,
			period:     payroll.Period{Start: january.End, End: january.Start},
			sentinel:   payroll.ErrInvalidPeriod,
			field:      "period_end",
		},
		{
			name:       "missing start",
			employeeID: 1,
			period:     payroll.Period{End: january.End},
			sentinel:   payroll.ErrInvalidPeriod,
			field:      "period_start",
		},
		{
			name:       "zero employee id",
			employeeID: 0,
			period:     january,
			sentinel:   payroll.ErrInvalidEmployeeID,
			field:      "employee_id",
		},
		{
			name:       "negative employee id",
			employeeID: -4,
			period:     january,
			sentinel:   payroll.ErrInvalidEmployeeID,
			field:      "employee_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.addEmployee(1, 30000, "Staff")

			_, err := f.service.Calculate(context.Background(), tt.employeeID, tt.period)
			require.Error(t, err)

			assert.ErrorIs(t, err, tt.sentinel)
			var calcErr *payroll.CalculationError
			require.ErrorAs(t, err, &calcErr)
			assert.Equal(t, tt.field, calcErr.Field)

			assert.Equal(t, 0, f.profiles.calls)
			assert.Equal(t, 0, f.attendances.calls)
			assert.Equal(t, 0, f.leaves.calls)
		})
	}
}

func TestPayrollService_Calculate_SingleDayPeriod(t *testing.T) {
	f := newFixture()
	f.addEmployee(1, 30000, "Staff")
	f.attendances.entries[1] = onTimeDays(1)

	day := payroll.Period{Start: january.Start, End: january.Start}
	result, err := f.service.Calculate(context.Background(), 1, day)
	require.NoError(t, err)

	assert.Equal(t, 1, result.DaysWorked)
}

func TestPayrollService_Calculate_EmployeeNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.service.Calculate(context.Background(), 42, january)
	require.Error(t, err)

	assert.ErrorIs(t, err, payroll.ErrEmployeeNotFound)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	var calcErr *payroll.CalculationError
	require.ErrorAs(t, err, &calcErr)
	assert.Equal(t, int64(42), calcErr.EmployeeID)
	assert.Equal(t, 0, f.attendances.calls)
}

func TestPayrollService_Calculate_DataSourceErrors(t *testing.T) {
	boom := errors.New("connection reset")

	t.Run("profile", func(t *testing.T) {
		f := newFixture()
		f.profiles.err = boom

		_, err := f.service.Calculate(context.Background(), 1, january)

		assert.ErrorIs(t, err, payroll.ErrDataSource)
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, payroll.ErrEmployeeNotFound)
	})

	t.Run("attendance", func(t *testing.T) {
		f := newFixture()
		f.addEmployee(1, 30000, "Staff")
		f.attendances.err = boom

		_, err := f.service.Calculate(context.Background(), 1, january)

		assert.ErrorIs(t, err, payroll.ErrDataSource)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 0, f.leaves.calls)
	})

	t.Run("leaves", func(t *testing.T) {
		f := newFixture()
		f.addEmployee(1, 30000, "Staff")
		f.leaves.err = boom

		_, err := f.service.Calculate(context.Background(), 1, january)

		assert.ErrorIs(t, err, payroll.ErrDataSource)
		assert.ErrorIs(t, err, boom)
	})
}

// ===== PREVIEW =====

func TestPayrollService_PreviewContributions(t *testing.T) {
	f := newFixture()

	preview, err := f.service.PreviewContributions(decimal.NewFromInt(30000))
	require.NoError(t, err)

	assertDecimal(t, "30000", preview.MonthlySalary)
	assertDecimal(t, "25000", preview.SSS.Basis)
	assertDecimal(t, "1125", preview.SSS.Employee)
	assertDecimal(t, "2125", preview.SSS.Employer)
	assertDecimal(t, "900", preview.PhilHealth.Basis)
	assertDecimal(t, "450", preview.PhilHealth.Employee)
	assertDecimal(t, "5000", preview.PagIBIG.Basis)
	assertDecimal(t, "100", preview.PagIBIG.Employee)
	assertDecimal(t, "100", preview.PagIBIG.Employer)
	assertDecimal(t, "1375", preview.Tax)
}

func TestPayrollService_PreviewContributions_NegativeSalary(t *testing.T) {
	f := newFixture()

	_, err := f.service.PreviewContributions(decimal.NewFromInt(-1))

	assert.ErrorIs(t, err, payroll.ErrInvalidSalary)
}

func TestPayrollService_PreviewContributions_OutOfRange(t *testing.T) {
	f := newFixture()

	for _, salary := range []decimal.Decimal{
		decimal.New(1, 2000000),
		decimal.New(1, -2000000),
		decimal.New(1, 13),
	} {
		start := time.Now()
		_, err := f.service.PreviewContributions(salary)

		var calcErr *payroll.CalculationError
		require.ErrorAs(t, err, &calcErr)
		assert.Equal(t, "salary", calcErr.Field)
		assert.ErrorIs(t, err, payroll.ErrInvalidSalary)
		assert.Less(t, time.Since(start), time.Second)
	}

	_, err := f.service.PreviewContributions(payroll.MaxMonthlySalary)
	assert.NoError(t, err)
}

// ===== SNAPSHOT =====

type snapshotKey struct{}

type snapshotProfiles struct {
	fakeProfiles
	sawSnapshot bool
}

func (f *snapshotProfiles) GetSalaryProfile(ctx context.Context, employeeID int64) (employee.SalaryProfile, error) {
	f.sawSnapshot = ctx.Value(snapshotKey{}) != nil
	return f.fakeProfiles.GetSalaryProfile(ctx, employeeID)
}

func TestWithSnapshot_Calculate(t *testing.T) {
	profiles := &snapshotProfiles{fakeProfiles: fakeProfiles{profiles: map[int64]employee.SalaryProfile{
		1: {EmployeeID: 1, MonthlyBaseSalary: decimal.NewFromInt(30000)},
	}}}
	inner := NewPayrollService(profiles, &fakeAttendance{}, &fakeLeaves{}, DefaultSettings())

	opened := 0
	svc := WithSnapshot(inner, func(ctx context.Context, fn func(ctx context.Context) error) error {
		opened++
		return fn(context.WithValue(ctx, snapshotKey{}, true))
	})

	result, err := svc.Calculate(context.Background(), 1, january)
	require.NoError(t, err)
	assertDecimal(t, "1125", result.SSS)
	assert.True(t, profiles.sawSnapshot)
	assert.Equal(t, 1, opened)

	_, err = svc.Calculate(context.Background(), 1, payroll.Period{})
	assert.ErrorIs(t, err, payroll.ErrInvalidPeriod)
	assert.Equal(t, 1, opened)
}

func TestWithSnapshot_BeginFailure(t *testing.T) {
	inner := newFixture().service
	svc := WithSnapshot(inner, func(ctx context.Context, fn func(ctx context.Context) error) error {
		return errors.New("too many connections")
	})

	_, err := svc.Calculate(context.Background(), 1, january)

	assert.ErrorIs(t, err, payroll.ErrDataSource)
}

func TestWithSnapshot_PassesThroughCalculationErrors(t *testing.T) {
	svc := WithSnapshot(newFixture().service, func(ctx context.Context, fn func(ctx context.Context) error) error {
		return fn(ctx)
	})

	_, err := svc.Calculate(context.Background(), 99, january)

	assert.ErrorIs(t, err, payroll.ErrEmployeeNotFound)
	assert.NotErrorIs(t, err, payroll.ErrDataSource)
}
