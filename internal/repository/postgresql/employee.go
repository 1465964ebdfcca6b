package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) payroll.SalaryProfileReader {
	return &employeeRepositoryImpl{db: db}
}

// GetSalaryProfile implements payroll.SalaryProfileReader. A missing base
// salary is returned as zero.
func (e *employeeRepositoryImpl) GetSalaryProfile(ctx context.Context, employeeID int64) (employee.SalaryProfile, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT e.id, e.full_name, e.base_salary, COALESCE(p.name, '')
		FROM employees e
		LEFT JOIN positions p ON p.id = e.position_id
		WHERE e.id = $1 AND e.deleted_at IS NULL
	`

	var (
		profile    employee.SalaryProfile
		baseSalary *decimal.Decimal
	)
	err := q.QueryRow(ctx, query, employeeID).Scan(
		&profile.EmployeeID,
		&profile.FullName,
		&baseSalary,
		&profile.PositionClassification,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.SalaryProfile{}, employee.ErrEmployeeNotFound
		}
		return employee.SalaryProfile{}, fmt.Errorf("failed to get salary profile for employee %d: %w", employeeID, err)
	}

	profile.MonthlyBaseSalary = decimal.Zero
	if baseSalary != nil {
		profile.MonthlyBaseSalary = *baseSalary
	}

	return profile, nil
}
