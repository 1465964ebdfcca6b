package leave

import (
	"strings"
	"time"
)

type LeaveRequestStatus string

const (
	LeaveRequestStatusWaitingApproval LeaveRequestStatus = "waiting_approval"
	LeaveRequestStatusApproved        LeaveRequestStatus = "approved"
	LeaveRequestStatusRejected        LeaveRequestStatus = "rejected"
	LeaveRequestStatusCancelled       LeaveRequestStatus = "cancelled"
)

// UnpaidLeaveType is the default tag of the only leave type that reduces pay.
const UnpaidLeaveType = "unpaid"

// ApprovedLeave is an approved leave request overlapping a payroll period.
type ApprovedLeave struct {
	EmployeeID int64
	LeaveType  string
	StartDate  time.Time
	EndDate    time.Time
	Status     LeaveRequestStatus
}

// Days returns the inclusive number of calendar days between StartDate and
// EndDate. A request whose end precedes its start counts zero days.
func (l ApprovedLeave) Days() int {
	start := dateOnly(l.StartDate)
	end := dateOnly(l.EndDate)
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

// ExtendsBeyond reports whether the leave starts before start or ends after
// end, compared by calendar day.
func (l ApprovedLeave) ExtendsBeyond(start, end time.Time) bool {
	return dateOnly(l.StartDate).Before(dateOnly(start)) || dateOnly(l.EndDate).After(dateOnly(end))
}

// IsApproved treats an empty status as approved, since readers only return
// approved requests.
func (l ApprovedLeave) IsApproved() bool {
	return l.Status == "" || l.Status == LeaveRequestStatusApproved
}

// IsType compares leave type tags ignoring case and surrounding spaces.
func (l ApprovedLeave) IsType(tag string) bool {
	return strings.EqualFold(strings.TrimSpace(l.LeaveType), strings.TrimSpace(tag))
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
