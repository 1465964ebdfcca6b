package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) payroll.AttendanceReader {
	return &attendanceRepository{db: db}
}

// ListAttendanceEntries implements payroll.AttendanceReader.
func (a *attendanceRepository) ListAttendanceEntries(ctx context.Context, employeeID int64, start, end time.Time) ([]attendance.Entry, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT date, clock_in, clock_out
		FROM attendances
		WHERE employee_id = $1
		  AND date BETWEEN $2 AND $3
		ORDER BY date ASC, clock_in ASC NULLS LAST
	`

	rows, err := q.Query(ctx, query, employeeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance for employee %d: %w", employeeID, err)
	}
	defer rows.Close()

	var entries []attendance.Entry
	for rows.Next() {
		var entry attendance.Entry
		if err := rows.Scan(&entry.Date, &entry.TimeIn, &entry.TimeOut); err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attendance rows: %w", err)
	}

	return entries, nil
}
