package payroll

import "context"

// SettingRepository persists per-company payroll configuration.
type SettingRepository interface {
	GetByCompanyID(ctx context.Context, companyID string) (Setting, error)
	Create(ctx context.Context, setting Setting) (Setting, error)
	Update(ctx context.Context, setting Setting) (Setting, error)
}

// AllowanceRepository provides the allowances feeding a calculation.
// All methods are scoped by companyID to prevent cross-company access.
type AllowanceRepository interface {
	Create(ctx context.Context, allowance Allowance) (Allowance, error)
	GetByID(ctx context.Context, id string, companyID string) (Allowance, error)
	GetByEmployeeID(ctx context.Context, employeeID string, companyID string) ([]Allowance, error)
	Delete(ctx context.Context, id string, companyID string) error
}

// RecordRepository persists computed payroll records.
type RecordRepository interface {
	Create(ctx context.Context, record Record) (Record, error)
	GetByID(ctx context.Context, id string, companyID string) (Record, error)
	GetByEmployeePeriod(ctx context.Context, employeeID string, period Period, companyID string) (Record, error)
	List(ctx context.Context, companyID string, filter RecordFilter) ([]Record, int64, error)
	UpdateBreakdown(ctx context.Context, record Record) (Record, error)
	// UpdateStatus moves a record from one lifecycle status to another. The
	// write only lands when the row still holds the from status; a record
	// moved by a concurrent transition yields ErrInvalidTransition.
	UpdateStatus(ctx context.Context, id string, companyID string, from Status, to Status, reason *string, actorID *string) (Record, error)
}
