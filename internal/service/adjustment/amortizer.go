package adjustment

import (
	"github.com/gajihub/payroll-engine-go/internal/domain/adjustment"
	"github.com/shopspring/decimal"
)

// InstallmentCount derives how many periods a loan spans:
// ceil(totalLoan / installment).
func InstallmentCount(totalLoan, installment decimal.Decimal) int {
	if !installment.IsPositive() {
		return 0
	}
	return int(totalLoan.Div(installment).Ceil().IntPart())
}

// ApplyInstallment processes exactly one installment: increments the
// counter and recomputes the remaining balance from the loan total, so the
// balance can never drift negative. Returns ErrAlreadyAmortized once every
// installment has been processed.
func ApplyInstallment(adj adjustment.Adjustment) (adjustment.Adjustment, error) {
	if !adj.Type.IsAmortized() {
		return adjustment.Adjustment{}, adjustment.ErrNotAmortizedType
	}
	if adj.Status != adjustment.StatusApproved {
		return adjustment.Adjustment{}, adjustment.ErrInstallmentNotActive
	}
	if adj.TotalLoanAmount == nil || adj.InstallmentAmount == nil {
		return adjustment.Adjustment{}, adjustment.ErrInvalidLoanFields
	}
	if adj.FullyPaid() {
		return adjustment.Adjustment{}, adjustment.ErrAlreadyAmortized
	}

	adj.CurrentInstallment++
	remaining := adj.TotalLoanAmount.Sub(adj.InstallmentAmount.Mul(decimal.NewFromInt(int64(adj.CurrentInstallment))))
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	adj.RemainingBalance = &remaining

	return adj, nil
}
