package tax

import "context"

// Repository is the read-only lookup surface over the statutory tables.
// Tables are externally supplied configuration data; writes happen through
// migrations/seeding, not through this interface.
type Repository interface {
	GetPTKPByStatus(ctx context.Context, status PTKPStatus) (PTKP, error)
	ListPTKP(ctx context.Context) ([]PTKP, error)
	ListBrackets(ctx context.Context) ([]Bracket, error)
	ListTERBands(ctx context.Context, category TERCategory) ([]TERBand, error)
}
