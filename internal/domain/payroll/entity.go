package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// Period identifies one payroll month.
type Period struct {
	Year  int
	Month int
}

func (p Period) Start() time.Time {
	return time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
}

func (p Period) End() time.Time {
	return p.Start().AddDate(0, 1, -1)
}

// CalendarDays returns the number of days in the period's month.
func (p Period) CalendarDays() int {
	return p.End().Day()
}

// WorkingDays counts Monday..Friday in the period's month.
func (p Period) WorkingDays() int {
	days := 0
	for d := p.Start(); d.Month() == time.Month(p.Month); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			days++
		}
	}
	return days
}

func (p Period) IsValid() bool {
	return p.Year >= 2000 && p.Year <= 2100 && p.Month >= 1 && p.Month <= 12
}

// ProrateMethod enum
type ProrateMethod string

const (
	ProrateCalendarDays ProrateMethod = "calendar_days"
	ProrateWorkingDays  ProrateMethod = "working_days"
)

// RoundingMethod enum
type RoundingMethod string

const (
	RoundingRound RoundingMethod = "round"
	RoundingFloor RoundingMethod = "floor"
	RoundingCeil  RoundingMethod = "ceil"
)

// ContributionRate is one social-insurance component of a company setting.
// Cap is the maximum salary base the rates apply to; nil means uncapped.
type ContributionRate struct {
	Name         string
	EmployeeRate decimal.Decimal
	EmployerRate decimal.Decimal
	Cap          *decimal.Decimal
}

// Setting - company payroll configuration. Exactly one row per company.
type Setting struct {
	ID        string
	CompanyID string

	HealthEmployeeRate decimal.Decimal
	HealthEmployerRate decimal.Decimal
	HealthCap          *decimal.Decimal

	OldAgeEmployeeRate decimal.Decimal
	OldAgeEmployerRate decimal.Decimal
	OldAgeCap          *decimal.Decimal

	PensionEmployeeRate decimal.Decimal
	PensionEmployerRate decimal.Decimal
	PensionCap          *decimal.Decimal

	// Employer-only flat rates, applied to gross.
	AccidentRate decimal.Decimal
	DeathRate    decimal.Decimal

	UseEffectiveRateMethod bool

	PositionCostRate decimal.Decimal
	PositionCostCap  decimal.Decimal

	OvertimeFirstHourMultiplier decimal.Decimal
	OvertimeNextHourMultiplier  decimal.Decimal

	CutoffDay     int
	PaymentDay    int
	ProrateMethod ProrateMethod

	Currency          string
	RoundingMethod    RoundingMethod
	RoundingPrecision int32

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ContributionRates lists the setting's capped employee/employer components
// in calculation order.
func (s Setting) ContributionRates() []ContributionRate {
	return []ContributionRate{
		{Name: "health", EmployeeRate: s.HealthEmployeeRate, EmployerRate: s.HealthEmployerRate, Cap: s.HealthCap},
		{Name: "old_age", EmployeeRate: s.OldAgeEmployeeRate, EmployerRate: s.OldAgeEmployerRate, Cap: s.OldAgeCap},
		{Name: "pension", EmployeeRate: s.PensionEmployeeRate, EmployerRate: s.PensionEmployerRate, Cap: s.PensionCap},
	}
}

// FlatRates lists the employer-only components.
func (s Setting) FlatRates() []ContributionRate {
	return []ContributionRate{
		{Name: "workplace_accident", EmployerRate: s.AccidentRate},
		{Name: "death_benefit", EmployerRate: s.DeathRate},
	}
}

// Round applies the setting's rounding policy to a monetary amount.
func (s Setting) Round(d decimal.Decimal) decimal.Decimal {
	switch s.RoundingMethod {
	case RoundingFloor:
		return d.RoundFloor(s.RoundingPrecision)
	case RoundingCeil:
		return d.RoundCeil(s.RoundingPrecision)
	default:
		return d.Round(s.RoundingPrecision)
	}
}

// AllowanceBase enum - named calculation base for percentage allowances.
type AllowanceBase string

const (
	AllowanceBaseBasicSalary AllowanceBase = "basic_salary"
	AllowanceBaseGross       AllowanceBase = "gross"
)

// Allowance belongs to an employee, or is a reusable company template when
// EmployeeID is nil.
type Allowance struct {
	ID                   string
	CompanyID            string
	EmployeeID           *string
	Name                 string
	Amount               *decimal.Decimal
	Percentage           *decimal.Decimal
	CalculationBase      AllowanceBase
	IsTaxable            bool
	IsContributionObject bool
	IsProrated           bool
	EffectiveDate        time.Time
	EndDate              *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// AppliesTo reports whether the allowance's effective window covers the period.
func (a Allowance) AppliesTo(p Period) bool {
	if a.EffectiveDate.After(p.End()) {
		return false
	}
	if a.EndDate != nil && a.EndDate.Before(p.Start()) {
		return false
	}
	return true
}

// Status enum for the payroll record lifecycle.
type Status string

const (
	StatusDraft      Status = "draft"
	StatusCalculated Status = "calculated"
	StatusValidated  Status = "validated"
	StatusSubmitted  Status = "submitted"
	StatusApproved   Status = "approved"
	StatusRejected   Status = "rejected"
	StatusPaid       Status = "paid"
)

// ContributionComponent is one computed contribution line of a record.
type ContributionComponent struct {
	Name          string          `json:"name"`
	EmployeeShare decimal.Decimal `json:"employee_share"`
	EmployerShare decimal.Decimal `json:"employer_share"`
}

// TaxMethod enum
type TaxMethod string

const (
	TaxMethodEffectiveRate TaxMethod = "effective_rate"
	TaxMethodProgressive   TaxMethod = "progressive"
)

// Record - computed payroll result, one per (employee, period).
type Record struct {
	ID          string
	EmployeeID  string
	CompanyID   string
	PeriodMonth int
	PeriodYear  int

	BasicSalary     decimal.Decimal
	AllowanceTotal  decimal.Decimal
	AllowanceDetail map[string]decimal.Decimal
	AdjustmentTotal decimal.Decimal
	GrossSalary     decimal.Decimal

	Contributions         []ContributionComponent
	EmployeeContribution  decimal.Decimal
	EmployerContribution  decimal.Decimal
	PositionCost          decimal.Decimal
	TaxableBase           decimal.Decimal
	TaxMethod             TaxMethod
	TaxAmount             decimal.Decimal
	LoanInstallmentTotal  decimal.Decimal
	LoanInstallmentDetail map[string]decimal.Decimal
	NetSalary             decimal.Decimal

	Status          Status
	RejectionReason *string
	ApprovedBy      *string
	ApprovedAt      *time.Time
	PaidAt          *time.Time
	PaidBy          *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined fields
	EmployeeName *string
}

func (r Record) Period() Period {
	return Period{Year: r.PeriodYear, Month: r.PeriodMonth}
}
