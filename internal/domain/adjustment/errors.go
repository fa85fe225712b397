package adjustment

import "errors"

var (
	ErrAdjustmentNotFound   = errors.New("payroll adjustment not found")
	ErrAlreadyProcessed     = errors.New("adjustment already approved or rejected")
	ErrAlreadyAmortized     = errors.New("loan fully amortized, no installments remain")
	ErrReasonRequired       = errors.New("rejection requires a reason")
	ErrInvalidLoanFields    = errors.New("loan adjustments require total_loan_amount and installment_amount")
	ErrNotAmortizedType     = errors.New("adjustment type does not amortize")
	ErrInstallmentNotActive = errors.New("adjustment is not approved for installment processing")
)
