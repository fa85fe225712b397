package company

import "time"

// Company - existence check only; company administration lives outside this
// service.
type Company struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
