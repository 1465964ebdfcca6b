package payroll

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidPeriod     = errors.New("invalid payroll period")
	ErrInvalidEmployeeID = errors.New("invalid employee id")
	ErrInvalidSalary     = errors.New("invalid salary")
	ErrEmployeeNotFound  = errors.New("employee not found")
	ErrDataSource        = errors.New("payroll data source unavailable")
	ErrEmptyBatch        = errors.New("payroll run has no employees")
)

// CalculationError is returned by the payroll engine for every failure. It
// names the employee and, for input errors, the offending field.
type CalculationError struct {
	EmployeeID int64
	Field      string
	Reason     string
	Err        error
}

func (e *CalculationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("payroll for employee %d: %s: %s", e.EmployeeID, e.Field, e.Reason)
	}
	return fmt.Sprintf("payroll for employee %d: %s", e.EmployeeID, e.Reason)
}

func (e *CalculationError) Unwrap() error {
	return e.Err
}

// NewInputError builds a CalculationError for an invalid request field.
func NewInputError(employeeID int64, field, reason string, sentinel error) *CalculationError {
	return &CalculationError{EmployeeID: employeeID, Field: field, Reason: reason, Err: sentinel}
}
