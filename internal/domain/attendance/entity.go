package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entry is one daily attendance row as supplied by the attendance store.
// Both times are optional; a row with neither still carries its date.
type Entry struct {
	Date    time.Time
	TimeIn  *time.Time
	TimeOut *time.Time
}

var secondsPerHour = decimal.NewFromInt(3600)

// HasTimeIn reports whether the employee clocked in on this entry.
func (e Entry) HasTimeIn() bool {
	return e.TimeIn != nil && !e.TimeIn.IsZero()
}

// HasTimeOut reports whether the employee clocked out on this entry.
func (e Entry) HasTimeOut() bool {
	return e.TimeOut != nil && !e.TimeOut.IsZero()
}

// WorkedHours returns TimeOut - TimeIn in decimal hours. It is zero when either
// side is missing or when TimeOut is before TimeIn.
func (e Entry) WorkedHours() decimal.Decimal {
	if !e.HasTimeIn() || !e.HasTimeOut() {
		return decimal.Zero
	}
	d := e.TimeOut.Sub(*e.TimeIn)
	if d <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(d / time.Second)).Div(secondsPerHour)
}

// Within reports whether the entry date falls inside [start, end], compared by
// calendar day.
func (e Entry) Within(start, end time.Time) bool {
	d := dateOnly(e.Date)
	return !d.Before(dateOnly(start)) && !d.After(dateOnly(end))
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ClockTime is a time of day without a date, such as a scheduled start.
type ClockTime struct {
	Hour   int
	Minute int
}

// ParseClockTime parses a 24-hour "HH:MM" string.
func ParseClockTime(s string) (ClockTime, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return ClockTime{}, err
	}
	return ClockTime{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// On places the clock time on the calendar day of ref, in ref's location.
func (c ClockTime) On(ref time.Time) time.Time {
	y, m, d := ref.Date()
	return time.Date(y, m, d, c.Hour, c.Minute, 0, 0, ref.Location())
}

// Before reports whether c is earlier in the day than other.
func (c ClockTime) Before(other ClockTime) bool {
	return c.Hour*60+c.Minute < other.Hour*60+other.Minute
}

func (c ClockTime) String() string {
	return time.Date(0, 1, 1, c.Hour, c.Minute, 0, 0, time.UTC).Format("15:04")
}
