package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) payroll.LeaveReader {
	return &leaveRequestRepositoryImpl{db: db}
}

// ListApprovedLeaves implements payroll.LeaveReader. The leave type tag is the
// type's code, or its name when no code is set.
func (r *leaveRequestRepositoryImpl) ListApprovedLeaves(ctx context.Context, employeeID int64, start, end time.Time) ([]leave.ApprovedLeave, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT lr.employee_id, COALESCE(lt.code, lt.name), lr.start_date, lr.end_date, lr.status
		FROM leave_requests lr
		JOIN leave_types lt ON lt.id = lr.leave_type_id
		WHERE lr.employee_id = $1
		  AND lr.status = $2
		  AND lr.start_date <= $4
		  AND lr.end_date >= $3
		ORDER BY lr.start_date ASC
	`

	rows, err := q.Query(ctx, query, employeeID, string(leave.LeaveRequestStatusApproved), start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved leaves for employee %d: %w", employeeID, err)
	}
	defer rows.Close()

	var leaves []leave.ApprovedLeave
	for rows.Next() {
		var (
			l      leave.ApprovedLeave
			status string
		)
		if err := rows.Scan(&l.EmployeeID, &l.LeaveType, &l.StartDate, &l.EndDate, &status); err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		l.Status = leave.LeaveRequestStatus(status)
		leaves = append(leaves, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leave request rows: %w", err)
	}

	return leaves, nil
}
