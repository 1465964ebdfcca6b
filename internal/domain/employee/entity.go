package employee

import (
	"github.com/shopspring/decimal"
)

// SalaryProfile is the read model the payroll engine needs from the employee
// store.
type SalaryProfile struct {
	EmployeeID             int64
	FullName               string
	MonthlyBaseSalary      decimal.Decimal
	PositionClassification string
}
