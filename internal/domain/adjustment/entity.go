package adjustment

import (
	"time"

	"github.com/shopspring/decimal"
)

// Type enum
type Type string

const (
	TypeBonus     Type = "bonus"
	TypeDeduction Type = "deduction"
	TypeLoan      Type = "loan"
	TypeAdvance   Type = "advance"
)

// IsAmortized reports whether the type carries a running loan balance.
func (t Type) IsAmortized() bool {
	return t == TypeLoan || t == TypeAdvance
}

// Status enum
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Frequency enum for recurring adjustments.
type Frequency string

const (
	FrequencyMonthly Frequency = "monthly"
)

// Adjustment - a one-off or recurring payroll mutation for an employee.
// Loan/advance types amortize: the period charge is always
// InstallmentAmount, never the nominal Amount.
type Adjustment struct {
	ID          string
	CompanyID   string
	EmployeeID  string
	Type        Type
	Description string
	Amount      decimal.Decimal

	IsRecurring      bool
	Frequency        *Frequency
	EffectiveDate    time.Time
	RecurringEndDate *time.Time

	TotalLoanAmount    *decimal.Decimal
	InstallmentAmount  *decimal.Decimal
	TotalInstallments  int
	CurrentInstallment int
	RemainingBalance   *decimal.Decimal

	Status          Status
	RejectionReason *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// FullyPaid reports whether every installment has been processed.
func (a Adjustment) FullyPaid() bool {
	return a.Type.IsAmortized() && a.TotalInstallments > 0 && a.CurrentInstallment >= a.TotalInstallments
}

// AppliesTo reports whether the adjustment charges the given period window.
func (a Adjustment) AppliesTo(periodStart, periodEnd time.Time) bool {
	if a.EffectiveDate.After(periodEnd) {
		return false
	}
	if a.IsRecurring {
		return a.RecurringEndDate == nil || !a.RecurringEndDate.Before(periodStart)
	}
	// One-off: charged only in the period its effective date falls in.
	return !a.EffectiveDate.Before(periodStart)
}

// PeriodCharge is the signed amount the adjustment contributes to gross pay
// for a qualifying period. Amortized types never enter gross.
func (a Adjustment) PeriodCharge() decimal.Decimal {
	switch a.Type {
	case TypeBonus:
		return a.Amount
	case TypeDeduction:
		return a.Amount.Neg()
	default:
		return decimal.Zero
	}
}
