package payroll

import "context"

// Service is the calculation and lifecycle surface exposed to handlers.
// Company scoping comes from the JWT claims in ctx.
type Service interface {
	// Settings
	GetSettings(ctx context.Context) (SettingResponse, error)
	UpdateSettings(ctx context.Context, req UpdateSettingRequest) (SettingResponse, error)

	// Allowances
	CreateAllowance(ctx context.Context, req CreateAllowanceRequest) (AllowanceResponse, error)
	ListEmployeeAllowances(ctx context.Context, employeeID string) ([]AllowanceResponse, error)
	DeleteAllowance(ctx context.Context, id string) error

	// Calculation
	Calculate(ctx context.Context, req CalculateRequest) (Breakdown, error)
	Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error)

	// Records
	GetRecord(ctx context.Context, id string) (RecordResponse, error)
	ListRecords(ctx context.Context, filter RecordFilter) (ListRecordResponse, error)
	Recalculate(ctx context.Context, id string) (RecordResponse, error)
	Transition(ctx context.Context, id string, req TransitionRequest) (RecordResponse, error)
}
