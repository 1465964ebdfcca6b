package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type PayrollHandler interface {
	// Calculation
	Calculate(w http.ResponseWriter, r *http.Request)
	GetEmployeePayroll(w http.ResponseWriter, r *http.Request)

	// Runs
	RunPayroll(w http.ResponseWriter, r *http.Request)

	// Preview
	PreviewContributions(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
	batchService   payroll.BatchService
}

func NewPayrollHandler(payrollService payroll.PayrollService, batchService payroll.BatchService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService, batchService: batchService}
}

// ========== CALCULATION ==========

func (h *payrollHandlerImpl) Calculate(w http.ResponseWriter, r *http.Request) {
	var req payroll.CalculatePayrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	period, err := req.Validate()
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.payrollService.Calculate(r.Context(), req.EmployeeID, period)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, payroll.NewPayrollResultResponse(result))
}

func (h *payrollHandlerImpl) GetEmployeePayroll(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := validator.ParsePositiveInt64(chi.URLParam(r, "employeeId"))
	if !ok {
		response.HandleError(w, validator.ValidationErrors{
			{Field: "employee_id", Message: "must be a positive integer"},
		})
		return
	}

	req := payroll.CalculatePayrollRequest{
		EmployeeID:  employeeID,
		PeriodStart: r.URL.Query().Get("start"),
		PeriodEnd:   r.URL.Query().Get("end"),
	}
	period, err := req.Validate()
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.payrollService.Calculate(r.Context(), employeeID, period)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, payroll.NewPayrollResultResponse(result))
}

// ========== RUNS ==========

func (h *payrollHandlerImpl) RunPayroll(w http.ResponseWriter, r *http.Request) {
	var req payroll.RunPayrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	period, err := req.Validate()
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.batchService.Run(r.Context(), req.EmployeeIDs, period)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll run completed", payroll.NewBatchResultResponse(result))
}

// ========== PREVIEW ==========

const maxSalaryLength = 32

func (h *payrollHandlerImpl) PreviewContributions(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("salary")
	if len(raw) > maxSalaryLength {
		response.HandleError(w, validator.ValidationErrors{
			{Field: "salary", Message: "is too long"},
		})
		return
	}

	salary, err := decimal.NewFromString(raw)
	if err != nil {
		response.HandleError(w, validator.ValidationErrors{
			{Field: "salary", Message: "must be a number"},
		})
		return
	}
	if !payroll.SalaryWithinLimits(salary) {
		response.HandleError(w, validator.ValidationErrors{
			{Field: "salary", Message: "is out of range"},
		})
		return
	}

	result, err := h.payrollService.PreviewContributions(salary)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, payroll.NewContributionPreviewResponse(result))
}
