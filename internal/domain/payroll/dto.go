package payroll

import (
	"github.com/gajihub/payroll-engine-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== SETTING DTOs ==========

type SettingResponse struct {
	ID                     string           `json:"id"`
	CompanyID              string           `json:"company_id"`
	HealthEmployeeRate     decimal.Decimal  `json:"health_employee_rate"`
	HealthEmployerRate     decimal.Decimal  `json:"health_employer_rate"`
	HealthCap              *decimal.Decimal `json:"health_cap,omitempty"`
	OldAgeEmployeeRate     decimal.Decimal  `json:"old_age_employee_rate"`
	OldAgeEmployerRate     decimal.Decimal  `json:"old_age_employer_rate"`
	OldAgeCap              *decimal.Decimal `json:"old_age_cap,omitempty"`
	PensionEmployeeRate    decimal.Decimal  `json:"pension_employee_rate"`
	PensionEmployerRate    decimal.Decimal  `json:"pension_employer_rate"`
	PensionCap             *decimal.Decimal `json:"pension_cap,omitempty"`
	AccidentRate           decimal.Decimal  `json:"accident_rate"`
	DeathRate              decimal.Decimal  `json:"death_rate"`
	UseEffectiveRateMethod bool             `json:"use_effective_rate_method"`
	PositionCostRate       decimal.Decimal  `json:"position_cost_rate"`
	PositionCostCap        decimal.Decimal  `json:"position_cost_cap"`
	CutoffDay              int              `json:"cutoff_day"`
	PaymentDay             int              `json:"payment_day"`
	ProrateMethod          string           `json:"prorate_method"`
	Currency               string           `json:"currency"`
	RoundingMethod         string           `json:"rounding_method"`
	RoundingPrecision      int32            `json:"rounding_precision"`
}

type UpdateSettingRequest struct {
	HealthEmployeeRate     *decimal.Decimal `json:"health_employee_rate,omitempty"`
	HealthEmployerRate     *decimal.Decimal `json:"health_employer_rate,omitempty"`
	HealthCap              *decimal.Decimal `json:"health_cap,omitempty"`
	OldAgeEmployeeRate     *decimal.Decimal `json:"old_age_employee_rate,omitempty"`
	OldAgeEmployerRate     *decimal.Decimal `json:"old_age_employer_rate,omitempty"`
	OldAgeCap              *decimal.Decimal `json:"old_age_cap,omitempty"`
	PensionEmployeeRate    *decimal.Decimal `json:"pension_employee_rate,omitempty"`
	PensionEmployerRate    *decimal.Decimal `json:"pension_employer_rate,omitempty"`
	PensionCap             *decimal.Decimal `json:"pension_cap,omitempty"`
	AccidentRate           *decimal.Decimal `json:"accident_rate,omitempty"`
	DeathRate              *decimal.Decimal `json:"death_rate,omitempty"`
	UseEffectiveRateMethod *bool            `json:"use_effective_rate_method,omitempty"`
	PositionCostRate       *decimal.Decimal `json:"position_cost_rate,omitempty"`
	PositionCostCap        *decimal.Decimal `json:"position_cost_cap,omitempty"`
	CutoffDay              *int             `json:"cutoff_day,omitempty"`
	PaymentDay             *int             `json:"payment_day,omitempty"`
	ProrateMethod          *string          `json:"prorate_method,omitempty"`
	RoundingMethod         *string          `json:"rounding_method,omitempty"`
	RoundingPrecision      *int32           `json:"rounding_precision,omitempty"`
}

func (r *UpdateSettingRequest) Validate() error {
	var errs validator.ValidationErrors

	rates := map[string]*decimal.Decimal{
		"health_employee_rate":  r.HealthEmployeeRate,
		"health_employer_rate":  r.HealthEmployerRate,
		"old_age_employee_rate": r.OldAgeEmployeeRate,
		"old_age_employer_rate": r.OldAgeEmployerRate,
		"pension_employee_rate": r.PensionEmployeeRate,
		"pension_employer_rate": r.PensionEmployerRate,
		"accident_rate":         r.AccidentRate,
		"death_rate":            r.DeathRate,
		"position_cost_rate":    r.PositionCostRate,
	}
	for field, rate := range rates {
		if rate != nil && (rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1))) {
			errs = append(errs, validator.ValidationError{Field: field, Message: "must be a fraction between 0 and 1"})
		}
	}
	if r.CutoffDay != nil && (*r.CutoffDay < 1 || *r.CutoffDay > 28) {
		errs = append(errs, validator.ValidationError{Field: "cutoff_day", Message: "must be between 1 and 28"})
	}
	if r.PaymentDay != nil && (*r.PaymentDay < 1 || *r.PaymentDay > 28) {
		errs = append(errs, validator.ValidationError{Field: "payment_day", Message: "must be between 1 and 28"})
	}
	if r.ProrateMethod != nil && *r.ProrateMethod != string(ProrateCalendarDays) && *r.ProrateMethod != string(ProrateWorkingDays) {
		errs = append(errs, validator.ValidationError{Field: "prorate_method", Message: "must be 'calendar_days' or 'working_days'"})
	}
	if r.RoundingMethod != nil {
		switch RoundingMethod(*r.RoundingMethod) {
		case RoundingRound, RoundingFloor, RoundingCeil:
		default:
			errs = append(errs, validator.ValidationError{Field: "rounding_method", Message: "must be 'round', 'floor' or 'ceil'"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========== ALLOWANCE DTOs ==========

type CreateAllowanceRequest struct {
	EmployeeID           *string          `json:"employee_id,omitempty"`
	Name                 string           `json:"name"`
	Amount               *decimal.Decimal `json:"amount,omitempty"`
	Percentage           *decimal.Decimal `json:"percentage,omitempty"`
	CalculationBase      *string          `json:"calculation_base,omitempty"`
	IsTaxable            *bool            `json:"is_taxable,omitempty"`
	IsContributionObject *bool            `json:"is_contribution_object,omitempty"`
	IsProrated           *bool            `json:"is_prorated,omitempty"`
	EffectiveDate        string           `json:"effective_date"`
	EndDate              *string          `json:"end_date,omitempty"`
}

func (r *CreateAllowanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "is required"})
	}
	if r.Amount == nil && r.Percentage == nil {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "either amount or percentage is required"})
	}
	if r.Amount != nil && r.Percentage != nil {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "amount and percentage are mutually exclusive"})
	}
	if r.Amount != nil && r.Amount.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be non-negative"})
	}
	if r.Percentage != nil {
		if r.Percentage.IsNegative() || r.Percentage.GreaterThan(decimal.NewFromInt(1)) {
			errs = append(errs, validator.ValidationError{Field: "percentage", Message: "must be a fraction between 0 and 1"})
		}
		if r.CalculationBase == nil {
			errs = append(errs, validator.ValidationError{Field: "calculation_base", Message: "is required for percentage allowances"})
		}
	}
	if r.CalculationBase != nil && *r.CalculationBase != string(AllowanceBaseBasicSalary) && *r.CalculationBase != string(AllowanceBaseGross) {
		errs = append(errs, validator.ValidationError{Field: "calculation_base", Message: "must be 'basic_salary' or 'gross'"})
	}
	if _, ok := validator.IsValidDate(r.EffectiveDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "effective_date", Message: "must be a valid YYYY-MM-DD date"})
	}
	if r.EndDate != nil {
		if _, ok := validator.IsValidDate(*r.EndDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must be a valid YYYY-MM-DD date"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AllowanceResponse struct {
	ID                   string           `json:"id"`
	CompanyID            string           `json:"company_id"`
	EmployeeID           *string          `json:"employee_id,omitempty"`
	Name                 string           `json:"name"`
	Amount               *decimal.Decimal `json:"amount,omitempty"`
	Percentage           *decimal.Decimal `json:"percentage,omitempty"`
	CalculationBase      string           `json:"calculation_base,omitempty"`
	IsTaxable            bool             `json:"is_taxable"`
	IsContributionObject bool             `json:"is_contribution_object"`
	IsProrated           bool             `json:"is_prorated"`
	EffectiveDate        string           `json:"effective_date"`
	EndDate              *string          `json:"end_date,omitempty"`
}

// ========== CALCULATION DTOs ==========

// AllowanceLine is one resolved allowance inside a breakdown.
type AllowanceLine struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// Breakdown is the full computed result for one employee and period.
// Returned by the pure calculate preview and embedded in persisted records.
type Breakdown struct {
	EmployeeID  string `json:"employee_id"`
	PeriodMonth int    `json:"period_month"`
	PeriodYear  int    `json:"period_year"`

	BasicSalary     decimal.Decimal `json:"basic_salary"`
	Allowances      []AllowanceLine `json:"allowances"`
	AllowanceTotal  decimal.Decimal `json:"allowance_total"`
	AdjustmentTotal decimal.Decimal `json:"adjustment_total"`
	GrossSalary     decimal.Decimal `json:"gross_salary"`

	Contributions        []ContributionComponent `json:"contributions"`
	EmployeeContribution decimal.Decimal         `json:"employee_contribution"`
	EmployerContribution decimal.Decimal         `json:"employer_contribution"`

	PositionCost decimal.Decimal `json:"position_cost"`
	TaxableBase  decimal.Decimal `json:"taxable_base"`
	TaxMethod    TaxMethod       `json:"tax_method"`
	TaxAmount    decimal.Decimal `json:"tax_amount"`

	LoanInstallments     map[string]decimal.Decimal `json:"loan_installments,omitempty"`
	LoanInstallmentTotal decimal.Decimal            `json:"loan_installment_total"`

	NetSalary decimal.Decimal `json:"net_salary"`
}

type CalculateRequest struct {
	EmployeeID      string `json:"employee_id"`
	PeriodMonth     int    `json:"period_month"`
	PeriodYear      int    `json:"period_year"`
	UnpaidLeaveDays int    `json:"unpaid_leave_days,omitempty"`
}

func (r *CalculateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if p := (Period{Year: r.PeriodYear, Month: r.PeriodMonth}); !p.IsValid() {
		errs = append(errs, validator.ValidationError{Field: "period", Message: "invalid year/month"})
	}
	if r.UnpaidLeaveDays < 0 {
		errs = append(errs, validator.ValidationError{Field: "unpaid_leave_days", Message: "must not be negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type GenerateRequest struct {
	PeriodMonth int `json:"period_month"`
	PeriodYear  int `json:"period_year"`
}

func (r *GenerateRequest) Validate() error {
	if p := (Period{Year: r.PeriodYear, Month: r.PeriodMonth}); !p.IsValid() {
		return validator.ValidationErrors{{Field: "period", Message: "invalid year/month"}}
	}
	return nil
}

// GenerateDetail reports the outcome for one employee of a batch run.
type GenerateDetail struct {
	EmployeeID string  `json:"employee_id"`
	RecordID   *string `json:"record_id,omitempty"`
	Error      *string `json:"error,omitempty"`
}

type GenerateResponse struct {
	PeriodMonth int              `json:"period_month"`
	PeriodYear  int              `json:"period_year"`
	Generated   int              `json:"generated"`
	Errors      int              `json:"errors"`
	Details     []GenerateDetail `json:"details"`
}

// ========== RECORD DTOs ==========

type TransitionRequest struct {
	Action string  `json:"action"`
	Reason *string `json:"reason,omitempty"`
}

func (r *TransitionRequest) Validate() error {
	switch Action(r.Action) {
	case ActionValidate, ActionSubmit, ActionApprove, ActionReject, ActionMarkPaid:
	default:
		return validator.ValidationErrors{{Field: "action", Message: "must be one of validate, submit, approve, reject, mark_paid"}}
	}
	if Action(r.Action) == ActionReject && (r.Reason == nil || validator.IsEmpty(*r.Reason)) {
		return validator.ValidationErrors{{Field: "reason", Message: "is required when rejecting"}}
	}
	return nil
}

type RecordFilter struct {
	PeriodMonth *int
	PeriodYear  *int
	Status      *string
	EmployeeID  *string
	Page        int
	Limit       int
}

type RecordResponse struct {
	ID                   string                     `json:"id"`
	EmployeeID           string                     `json:"employee_id"`
	EmployeeName         string                     `json:"employee_name,omitempty"`
	CompanyID            string                     `json:"company_id"`
	PeriodMonth          int                        `json:"period_month"`
	PeriodYear           int                        `json:"period_year"`
	BasicSalary          decimal.Decimal            `json:"basic_salary"`
	AllowanceTotal       decimal.Decimal            `json:"allowance_total"`
	AllowanceDetail      map[string]decimal.Decimal `json:"allowance_detail,omitempty"`
	AdjustmentTotal      decimal.Decimal            `json:"adjustment_total"`
	GrossSalary          decimal.Decimal            `json:"gross_salary"`
	Contributions        []ContributionComponent    `json:"contributions"`
	EmployeeContribution decimal.Decimal            `json:"employee_contribution"`
	EmployerContribution decimal.Decimal            `json:"employer_contribution"`
	PositionCost         decimal.Decimal            `json:"position_cost"`
	TaxableBase          decimal.Decimal            `json:"taxable_base"`
	TaxMethod            string                     `json:"tax_method"`
	TaxAmount            decimal.Decimal            `json:"tax_amount"`
	LoanInstallmentTotal decimal.Decimal            `json:"loan_installment_total"`
	NetSalary            decimal.Decimal            `json:"net_salary"`
	Status               string                     `json:"status"`
	RejectionReason      *string                    `json:"rejection_reason,omitempty"`
	ApprovedAt           *string                    `json:"approved_at,omitempty"`
	PaidAt               *string                    `json:"paid_at,omitempty"`
}

type ListRecordResponse struct {
	Data       []RecordResponse `json:"data"`
	TotalCount int64            `json:"total_count"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
}
