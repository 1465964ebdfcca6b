package payroll

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/leave"
)

// SalaryProfileReader loads the salary profile of an employee.
// It returns employee.ErrEmployeeNotFound when the employee does not exist.
type SalaryProfileReader interface {
	GetSalaryProfile(ctx context.Context, employeeID int64) (employee.SalaryProfile, error)
}

// AttendanceReader lists attendance entries dated within [start, end].
type AttendanceReader interface {
	ListAttendanceEntries(ctx context.Context, employeeID int64, start, end time.Time) ([]attendance.Entry, error)
}

// LeaveReader lists approved leave requests overlapping [start, end].
type LeaveReader interface {
	ListApprovedLeaves(ctx context.Context, employeeID int64, start, end time.Time) ([]leave.ApprovedLeave, error)
}
