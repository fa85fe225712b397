package response

import (
	"errors"
	"net/http"

	"github.com/gajihub/payroll-engine-go/internal/domain/adjustment"
	"github.com/gajihub/payroll-engine-go/internal/domain/company"
	"github.com/gajihub/payroll-engine-go/internal/domain/employee"
	"github.com/gajihub/payroll-engine-go/internal/domain/payroll"
	"github.com/gajihub/payroll-engine-go/internal/domain/tax"
	"github.com/gajihub/payroll-engine-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Company / employee errors
	case errors.Is(err, company.ErrCompanyNotFound):
		NotFound(w, "Company not found")
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrNoBasicSalary):
		BadRequest(w, "Employee has no basic salary configured", nil)
	case errors.Is(err, employee.ErrEmployeeNotActive):
		BadRequest(w, "Employee is not active", nil)
	case errors.Is(err, employee.ErrOutsideEmployment):
		BadRequest(w, "Period is outside the employee's employment window", nil)

	// Payroll errors
	case errors.Is(err, payroll.ErrPayrollSettingNotFound):
		NotFound(w, "Payroll settings not found")
	case errors.Is(err, payroll.ErrAllowanceNotFound):
		NotFound(w, "Allowance not found")
	case errors.Is(err, payroll.ErrPayrollRecordNotFound):
		NotFound(w, "Payroll record not found")
	case errors.Is(err, payroll.ErrPayrollRecordAlreadyExists):
		Conflict(w, "Payroll record already exists for this period")
	case errors.Is(err, payroll.ErrPayrollRecordPaid):
		Conflict(w, "Paid payroll records are immutable")
	case errors.Is(err, payroll.ErrInvalidTransition):
		Conflict(w, "Action is not allowed in the record's current status")
	case errors.Is(err, payroll.ErrRejectionReasonRequired):
		BadRequest(w, "Rejection reason is required", nil)
	case errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, "Invalid payroll period", nil)
	case errors.Is(err, payroll.ErrNegativeNetPay):
		BadRequest(w, "Net pay is negative; adjust deductions before validating", nil)
	case errors.Is(err, payroll.ErrContributionExceedsCap):
		BadRequest(w, "A contribution component exceeds the configured cap; recalculate the record", nil)

	// Adjustment errors
	case errors.Is(err, adjustment.ErrAdjustmentNotFound):
		NotFound(w, "Adjustment not found")
	case errors.Is(err, adjustment.ErrAlreadyProcessed):
		Conflict(w, "Adjustment already processed")
	case errors.Is(err, adjustment.ErrAlreadyAmortized):
		Conflict(w, "Loan is fully amortized")
	case errors.Is(err, adjustment.ErrReasonRequired):
		BadRequest(w, "Rejection reason is required", nil)
	case errors.Is(err, adjustment.ErrInvalidLoanFields):
		BadRequest(w, "Loan adjustments need a positive total and installment amount", nil)

	// Tax configuration errors
	case errors.Is(err, tax.ErrPTKPNotFound):
		BadRequest(w, "Unknown PTKP status", nil)
	case errors.Is(err, tax.ErrTERCategoryUnknown):
		BadRequest(w, "Unknown TER category", nil)
	case errors.Is(err, tax.ErrTaxTableIncomplete):
		InternalServerError(w, "Tax tables are misconfigured")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
