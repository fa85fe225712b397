package adjustment

import "context"

// Service is the adjustment lifecycle surface exposed to handlers.
// Approval releases an adjustment into calculations; loan installments
// advance when a payroll record charging them is approved.
type Service interface {
	Create(ctx context.Context, req CreateAdjustmentRequest) (AdjustmentResponse, error)
	GetByID(ctx context.Context, id string) (AdjustmentResponse, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]AdjustmentResponse, error)
	Approve(ctx context.Context, id string) (AdjustmentResponse, error)
	Reject(ctx context.Context, id string, req RejectAdjustmentRequest) (AdjustmentResponse, error)
}
