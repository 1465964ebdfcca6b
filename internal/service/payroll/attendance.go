package payroll

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

var (
	hoursPerDay     = decimal.NewFromInt(payroll.HoursPerDay)
	minutesPerHour  = decimal.NewFromInt(60)
	workingDaysRate = decimal.NewFromInt(payroll.WorkingDaysPerMonth)
)

// AttendanceAggregator folds a period's attendance entries into days worked,
// hours and time-based deductions against a fixed daily schedule.
type AttendanceAggregator struct {
	standardIn  attendance.ClockTime
	standardOut attendance.ClockTime
	grace       time.Duration
	loc         *time.Location
}

// NewAttendanceAggregator builds an aggregator whose schedule is read in loc.
// Clock-in and clock-out times are converted to loc before they are compared,
// so a nil loc compares them in whatever zone the store returned.
func NewAttendanceAggregator(standardIn, standardOut attendance.ClockTime, graceMinutes int, loc *time.Location) *AttendanceAggregator {
	return &AttendanceAggregator{
		standardIn:  standardIn,
		standardOut: standardOut,
		grace:       time.Duration(graceMinutes) * time.Minute,
		loc:         loc,
	}
}

// Aggregate sums all entries. Entries without a time in are skipped. Late time
// is measured from the scheduled start, and only once the grace period has
// passed.
func (a *AttendanceAggregator) Aggregate(entries []attendance.Entry, dailyRate decimal.Decimal) payroll.AttendanceSummary {
	hourlyRate := dailyRate.Div(hoursPerDay)
	summary := payroll.AttendanceSummary{
		TotalHours:         decimal.Zero,
		LateDeduction:      decimal.Zero,
		UndertimeDeduction: decimal.Zero,
	}

	for _, entry := range entries {
		if !entry.HasTimeIn() {
			continue
		}
		summary.DaysWorked++
		summary.TotalHours = summary.TotalHours.Add(entry.WorkedHours())

		if minutes := a.lateMinutes(*entry.TimeIn); minutes > 0 {
			summary.LateDeduction = summary.LateDeduction.Add(minutesCost(minutes, hourlyRate))
		}

		if entry.HasTimeOut() {
			if minutes := a.undertimeMinutes(*entry.TimeOut); minutes > 0 {
				summary.UndertimeDeduction = summary.UndertimeDeduction.Add(minutesCost(minutes, hourlyRate))
			}
		}
	}

	return summary
}

func (a *AttendanceAggregator) lateMinutes(timeIn time.Time) int64 {
	timeIn = a.local(timeIn)
	start := a.standardIn.On(timeIn)
	if !timeIn.After(start.Add(a.grace)) {
		return 0
	}
	return int64(timeIn.Sub(start) / time.Minute)
}

func (a *AttendanceAggregator) undertimeMinutes(timeOut time.Time) int64 {
	timeOut = a.local(timeOut)
	end := a.standardOut.On(timeOut)
	if !timeOut.Before(end) {
		return 0
	}
	return int64(end.Sub(timeOut) / time.Minute)
}

func (a *AttendanceAggregator) local(t time.Time) time.Time {
	if a.loc == nil {
		return t
	}
	return t.In(a.loc)
}

func minutesCost(minutes int64, hourlyRate decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(minutes).Div(minutesPerHour).Mul(hourlyRate)
}

// DailyRate converts a monthly salary into the rate for one working day.
func DailyRate(monthlySalary decimal.Decimal) decimal.Decimal {
	return monthlySalary.Div(workingDaysRate)
}
