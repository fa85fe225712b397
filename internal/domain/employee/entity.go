package employee

import (
	"time"

	"github.com/gajihub/payroll-engine-go/internal/domain/tax"
	"github.com/shopspring/decimal"
)

type EmploymentStatus string

const (
	EmploymentStatusActive   EmploymentStatus = "active"
	EmploymentStatusInactive EmploymentStatus = "inactive"
	EmploymentStatusResigned EmploymentStatus = "resigned"
)

// Employee is the master-data shape the calculation engine consumes.
// Employee administration itself lives outside this service.
type Employee struct {
	ID               string
	CompanyID        string
	FullName         string
	BasicSalary      decimal.Decimal
	PTKPStatus       tax.PTKPStatus
	EmploymentStatus EmploymentStatus
	HireDate         time.Time
	ResignationDate  *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ActiveWindowCovers reports whether the employee was employed at any point
// of the period.
func (e Employee) ActiveWindowCovers(periodStart, periodEnd time.Time) bool {
	if e.HireDate.After(periodEnd) {
		return false
	}
	if e.ResignationDate != nil && e.ResignationDate.Before(periodStart) {
		return false
	}
	return true
}
