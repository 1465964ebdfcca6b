package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Input errors reported by the payroll engine name the offending field
	var calcErr *payroll.CalculationError
	if errors.As(err, &calcErr) && calcErr.Field != "" {
		ValidationError(w, map[string]string{calcErr.Field: calcErr.Reason})
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrPayrollAccessRequired):
		Forbidden(w, "Payroll access required")

	// Payroll domain errors
	case errors.Is(err, payroll.ErrInvalidPeriod),
		errors.Is(err, payroll.ErrInvalidEmployeeID),
		errors.Is(err, payroll.ErrInvalidSalary),
		errors.Is(err, payroll.ErrEmptyBatch):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, payroll.ErrEmployeeNotFound), errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, payroll.ErrDataSource):
		slog.Error("Payroll data source failure", "error", err)
		BadGateway(w, "Payroll data is temporarily unavailable")

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
