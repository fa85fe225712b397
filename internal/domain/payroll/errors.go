package payroll

import "errors"

var (
	ErrPayrollSettingNotFound     = errors.New("payroll setting not found")
	ErrAllowanceNotFound          = errors.New("allowance not found")
	ErrPayrollRecordNotFound      = errors.New("payroll record not found")
	ErrPayrollRecordAlreadyExists = errors.New("payroll record already exists for this period")
	ErrPayrollRecordPaid          = errors.New("payroll record already paid, cannot modify")
	ErrInvalidTransition          = errors.New("invalid payroll lifecycle transition")
	ErrRejectionReasonRequired    = errors.New("rejection requires a reason")
	ErrInvalidPeriod              = errors.New("invalid payroll period")
	ErrNegativeNetPay             = errors.New("computed net pay is negative")
	ErrContributionExceedsCap     = errors.New("contribution exceeds the configured cap")
)
