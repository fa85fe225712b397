package adjustment

import "context"

// Repository - persistence for payroll adjustments. Scoped by companyID.
type Repository interface {
	Create(ctx context.Context, adj Adjustment) (Adjustment, error)
	GetByID(ctx context.Context, id string, companyID string) (Adjustment, error)
	GetByEmployeeID(ctx context.Context, employeeID string, companyID string, statuses []Status) ([]Adjustment, error)
	UpdateStatus(ctx context.Context, adj Adjustment) (Adjustment, error)
	// UpdateAmortization writes the installment counters and balance; callers
	// run it inside the transaction that owns the enclosing approval.
	UpdateAmortization(ctx context.Context, adj Adjustment) (Adjustment, error)
}
