package payroll

import (
	"context"

	"github.com/shopspring/decimal"
)

type PayrollService interface {
	// Calculate builds the itemized paycheck of one employee for one period.
	Calculate(ctx context.Context, employeeID int64, period Period) (PayrollResult, error)
	// PreviewContributions computes contributions and tax for a monthly salary.
	PreviewContributions(monthlySalary decimal.Decimal) (ContributionPreview, error)
}

type BatchService interface {
	Run(ctx context.Context, employeeIDs []int64, period Period) (BatchResult, error)
}
