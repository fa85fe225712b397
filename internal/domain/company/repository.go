package company

import "context"

type CompanyRepository interface {
	GetByID(ctx context.Context, id string) (Company, error)
	Exists(ctx context.Context, id string) (bool, error)
}
