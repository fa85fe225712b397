package adjustment

import (
	"github.com/gajihub/payroll-engine-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateAdjustmentRequest struct {
	EmployeeID        string           `json:"employee_id"`
	Type              string           `json:"type"`
	Description       string           `json:"description"`
	Amount            decimal.Decimal  `json:"amount"`
	IsRecurring       *bool            `json:"is_recurring,omitempty"`
	Frequency         *string          `json:"frequency,omitempty"`
	EffectiveDate     string           `json:"effective_date"`
	RecurringEndDate  *string          `json:"recurring_end_date,omitempty"`
	TotalLoanAmount   *decimal.Decimal `json:"total_loan_amount,omitempty"`
	InstallmentAmount *decimal.Decimal `json:"installment_amount,omitempty"`
}

func (r *CreateAdjustmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	t := Type(r.Type)
	switch t {
	case TypeBonus, TypeDeduction, TypeLoan, TypeAdvance:
	default:
		errs = append(errs, validator.ValidationError{Field: "type", Message: "must be one of bonus, deduction, loan, advance"})
	}
	if r.Amount.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be non-negative"})
	}
	if _, ok := validator.IsValidDate(r.EffectiveDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "effective_date", Message: "must be a valid YYYY-MM-DD date"})
	}
	if r.RecurringEndDate != nil {
		if _, ok := validator.IsValidDate(*r.RecurringEndDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "recurring_end_date", Message: "must be a valid YYYY-MM-DD date"})
		}
	}
	if t.IsAmortized() {
		if r.TotalLoanAmount == nil || r.InstallmentAmount == nil {
			errs = append(errs, validator.ValidationError{Field: "total_loan_amount", Message: "total_loan_amount and installment_amount are required for loan/advance"})
		} else {
			if !r.TotalLoanAmount.IsPositive() {
				errs = append(errs, validator.ValidationError{Field: "total_loan_amount", Message: "must be positive"})
			}
			if !r.InstallmentAmount.IsPositive() {
				errs = append(errs, validator.ValidationError{Field: "installment_amount", Message: "must be positive"})
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RejectAdjustmentRequest struct {
	Reason string `json:"reason"`
}

func (r *RejectAdjustmentRequest) Validate() error {
	if validator.IsEmpty(r.Reason) {
		return validator.ValidationErrors{{Field: "reason", Message: "is required"}}
	}
	return nil
}

type AdjustmentResponse struct {
	ID                 string           `json:"id"`
	CompanyID          string           `json:"company_id"`
	EmployeeID         string           `json:"employee_id"`
	Type               string           `json:"type"`
	Description        string           `json:"description,omitempty"`
	Amount             decimal.Decimal  `json:"amount"`
	IsRecurring        bool             `json:"is_recurring"`
	Frequency          *string          `json:"frequency,omitempty"`
	EffectiveDate      string           `json:"effective_date"`
	RecurringEndDate   *string          `json:"recurring_end_date,omitempty"`
	TotalLoanAmount    *decimal.Decimal `json:"total_loan_amount,omitempty"`
	InstallmentAmount  *decimal.Decimal `json:"installment_amount,omitempty"`
	TotalInstallments  int              `json:"total_installments,omitempty"`
	CurrentInstallment int              `json:"current_installment,omitempty"`
	RemainingBalance   *decimal.Decimal `json:"remaining_balance,omitempty"`
	Status             string           `json:"status"`
	RejectionReason    *string          `json:"rejection_reason,omitempty"`
}
