package leave

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApprovedLeave_Days(t *testing.T) {
	start := time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 1, ApprovedLeave{StartDate: start, EndDate: start}.Days())
	assert.Equal(t, 5, ApprovedLeave{StartDate: start, EndDate: start.AddDate(0, 0, 4)}.Days())
	assert.Equal(t, 5, ApprovedLeave{StartDate: start.Add(9 * time.Hour), EndDate: start.AddDate(0, 0, 4)}.Days())
	assert.Equal(t, 0, ApprovedLeave{StartDate: start, EndDate: start.AddDate(0, 0, -1)}.Days())
}

func TestApprovedLeave_ExtendsBeyond(t *testing.T) {
	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC)

	inside := ApprovedLeave{StartDate: start, EndDate: end.Add(17 * time.Hour)}
	before := ApprovedLeave{StartDate: start.AddDate(0, 0, -2), EndDate: start.AddDate(0, 0, 1)}
	after := ApprovedLeave{StartDate: end.AddDate(0, 0, -1), EndDate: end.AddDate(0, 0, 2)}

	assert.False(t, inside.ExtendsBeyond(start, end))
	assert.True(t, before.ExtendsBeyond(start, end))
	assert.True(t, after.ExtendsBeyond(start, end))
}

func TestApprovedLeave_IsApproved(t *testing.T) {
	assert.True(t, ApprovedLeave{}.IsApproved())
	assert.True(t, ApprovedLeave{Status: LeaveRequestStatusApproved}.IsApproved())
	assert.False(t, ApprovedLeave{Status: LeaveRequestStatusWaitingApproval}.IsApproved())
	assert.False(t, ApprovedLeave{Status: LeaveRequestStatusCancelled}.IsApproved())
}

func TestApprovedLeave_IsType(t *testing.T) {
	l := ApprovedLeave{LeaveType: " Unpaid"}

	assert.True(t, l.IsType("unpaid"))
	assert.True(t, l.IsType("UNPAID "))
	assert.False(t, l.IsType("sick"))
}
