package payroll

import (
	"context"
	"fmt"
	"time"

	"github.com/gajihub/payroll-engine-go/internal/domain/adjustment"
	"github.com/gajihub/payroll-engine-go/internal/domain/employee"
	"github.com/gajihub/payroll-engine-go/internal/domain/payroll"
	taxEngine "github.com/gajihub/payroll-engine-go/internal/service/tax"
	"github.com/shopspring/decimal"
)

// Calculator turns salary components, contribution rates and tax tables into
// a net-pay breakdown for one employee and period. It is a pure computation
// over its input; nothing is persisted here.
type Calculator struct {
	taxEngine *taxEngine.Engine
}

func NewCalculator(engine *taxEngine.Engine) *Calculator {
	return &Calculator{taxEngine: engine}
}

// CalculationInput bundles everything one calculation needs. Adjustments
// should already be filtered to approved ones; the calculator applies the
// period-window checks itself.
type CalculationInput struct {
	Employee        employee.Employee
	Period          payroll.Period
	Setting         payroll.Setting
	Allowances      []payroll.Allowance
	Adjustments     []adjustment.Adjustment
	UnpaidLeaveDays int
}

// Calculate runs the full pipeline: proration, two-pass allowance
// resolution, signed non-loan adjustments, capped contributions, the tax
// engine, and loan installment charges.
func (c *Calculator) Calculate(ctx context.Context, in CalculationInput) (payroll.Breakdown, error) {
	if in.Employee.BasicSalary.IsZero() {
		return payroll.Breakdown{}, employee.ErrNoBasicSalary
	}
	if !in.Period.IsValid() {
		return payroll.Breakdown{}, payroll.ErrInvalidPeriod
	}
	if !in.Employee.ActiveWindowCovers(in.Period.Start(), in.Period.End()) {
		return payroll.Breakdown{}, employee.ErrOutsideEmployment
	}

	factor := prorationFactor(in.Employee, in.Period, in.Setting.ProrateMethod, in.UnpaidLeaveDays)
	basic := in.Employee.BasicSalary.Mul(factor)

	lines, allowanceTotal, nonTaxableTotal := resolveAllowances(in.Allowances, in.Period, basic, factor)

	adjustmentTotal := decimal.Zero
	for _, adj := range in.Adjustments {
		if adj.Status != adjustment.StatusApproved || adj.Type.IsAmortized() {
			continue
		}
		if adj.AppliesTo(in.Period.Start(), in.Period.End()) {
			adjustmentTotal = adjustmentTotal.Add(adj.PeriodCharge())
		}
	}

	gross := basic.Add(allowanceTotal).Add(adjustmentTotal)

	contributions, employeeTotal, employerTotal := calculateContributions(gross, in.Setting)

	positionCost := decimal.Min(gross.Mul(in.Setting.PositionCostRate), in.Setting.PositionCostCap)

	taxable := gross.Sub(nonTaxableTotal).Sub(employeeTotal).Sub(positionCost)
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}

	taxResult, err := c.taxEngine.MonthlyWithholding(ctx, in.Employee.PTKPStatus, taxable, in.Setting.UseEffectiveRateMethod)
	if err != nil {
		return payroll.Breakdown{}, fmt.Errorf("tax calculation for employee %s: %w", in.Employee.ID, err)
	}
	taxAmount := in.Setting.Round(taxResult.Tax)

	installments, installmentTotal := loanInstallments(in.Adjustments, in.Period)

	net := in.Setting.Round(gross.Sub(employeeTotal).Sub(taxAmount).Sub(installmentTotal))

	return payroll.Breakdown{
		EmployeeID:           in.Employee.ID,
		PeriodMonth:          in.Period.Month,
		PeriodYear:           in.Period.Year,
		BasicSalary:          basic,
		Allowances:           lines,
		AllowanceTotal:       allowanceTotal,
		AdjustmentTotal:      adjustmentTotal,
		GrossSalary:          gross,
		Contributions:        contributions,
		EmployeeContribution: employeeTotal,
		EmployerContribution: employerTotal,
		PositionCost:         positionCost,
		TaxableBase:          taxable,
		TaxMethod:            taxResult.Method,
		TaxAmount:            taxAmount,
		LoanInstallments:     installments,
		LoanInstallmentTotal: installmentTotal,
		NetSalary:            net,
	}, nil
}

// prorationFactor scales the basic salary by worked/total units for partial
// periods (mid-period hire or resignation, unpaid leave days). Units are
// calendar or working days per the company setting.
func prorationFactor(emp employee.Employee, p payroll.Period, method payroll.ProrateMethod, unpaidLeaveDays int) decimal.Decimal {
	var total int
	if method == payroll.ProrateWorkingDays {
		total = p.WorkingDays()
	} else {
		total = p.CalendarDays()
	}
	if total == 0 {
		return decimal.Zero
	}

	worked := 0
	for d := p.Start(); !d.After(p.End()); d = d.AddDate(0, 0, 1) {
		if method == payroll.ProrateWorkingDays {
			if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
				continue
			}
		}
		if d.Before(emp.HireDate) {
			continue
		}
		if emp.ResignationDate != nil && d.After(*emp.ResignationDate) {
			continue
		}
		worked++
	}
	worked -= unpaidLeaveDays
	if worked < 0 {
		worked = 0
	}
	if worked >= total {
		return decimal.NewFromInt(1)
	}
	return decimal.NewFromInt(int64(worked)).Div(decimal.NewFromInt(int64(total)))
}

// resolveAllowances runs the two-pass resolution: amount-based and
// percentage-of-basic first, percentage-of-gross against basic plus the
// pass-one total. Returns the lines, the total, and the non-taxable share.
func resolveAllowances(allowances []payroll.Allowance, p payroll.Period, basic decimal.Decimal, factor decimal.Decimal) ([]payroll.AllowanceLine, decimal.Decimal, decimal.Decimal) {
	var lines []payroll.AllowanceLine
	passOne := decimal.Zero
	nonTaxable := decimal.Zero

	var grossBased []payroll.Allowance

	for _, a := range allowances {
		if !a.AppliesTo(p) {
			continue
		}
		switch {
		case a.Amount != nil:
			amount := *a.Amount
			if a.IsProrated {
				amount = amount.Mul(factor)
			}
			lines = append(lines, payroll.AllowanceLine{Name: a.Name, Amount: amount})
			passOne = passOne.Add(amount)
			if !a.IsTaxable {
				nonTaxable = nonTaxable.Add(amount)
			}
		case a.Percentage != nil && a.CalculationBase == payroll.AllowanceBaseBasicSalary:
			amount := basic.Mul(*a.Percentage)
			lines = append(lines, payroll.AllowanceLine{Name: a.Name, Amount: amount})
			passOne = passOne.Add(amount)
			if !a.IsTaxable {
				nonTaxable = nonTaxable.Add(amount)
			}
		case a.Percentage != nil && a.CalculationBase == payroll.AllowanceBaseGross:
			grossBased = append(grossBased, a)
		}
	}

	// Pass two: percentage-of-gross resolves against basic + pass-one total,
	// replacing the old fixed-multiplier gross approximation.
	total := passOne
	passOneGross := basic.Add(passOne)
	for _, a := range grossBased {
		amount := passOneGross.Mul(*a.Percentage)
		lines = append(lines, payroll.AllowanceLine{Name: a.Name, Amount: amount})
		total = total.Add(amount)
		if !a.IsTaxable {
			nonTaxable = nonTaxable.Add(amount)
		}
	}

	return lines, total, nonTaxable
}

// calculateContributions computes each capped employee/employer component
// plus the flat employer-only ones. base = min(gross, cap).
func calculateContributions(gross decimal.Decimal, setting payroll.Setting) ([]payroll.ContributionComponent, decimal.Decimal, decimal.Decimal) {
	var components []payroll.ContributionComponent
	employeeTotal := decimal.Zero
	employerTotal := decimal.Zero

	for _, rate := range setting.ContributionRates() {
		base := gross
		if rate.Cap != nil && base.GreaterThan(*rate.Cap) {
			base = *rate.Cap
		}
		comp := payroll.ContributionComponent{
			Name:          rate.Name,
			EmployeeShare: base.Mul(rate.EmployeeRate),
			EmployerShare: base.Mul(rate.EmployerRate),
		}
		components = append(components, comp)
		employeeTotal = employeeTotal.Add(comp.EmployeeShare)
		employerTotal = employerTotal.Add(comp.EmployerShare)
	}

	for _, rate := range setting.FlatRates() {
		base := gross
		if rate.Cap != nil && base.GreaterThan(*rate.Cap) {
			base = *rate.Cap
		}
		comp := payroll.ContributionComponent{
			Name:          rate.Name,
			EmployeeShare: decimal.Zero,
			EmployerShare: base.Mul(rate.EmployerRate),
		}
		components = append(components, comp)
		employerTotal = employerTotal.Add(comp.EmployerShare)
	}

	return components, employeeTotal, employerTotal
}

// verifyContributionCaps checks stored contribution lines against the current
// setting. A share above cap x rate means the record was computed under a
// different configuration and has to be recalculated before it validates.
func verifyContributionCaps(components []payroll.ContributionComponent, setting payroll.Setting) error {
	rates := make(map[string]payroll.ContributionRate)
	for _, r := range setting.ContributionRates() {
		rates[r.Name] = r
	}
	for _, r := range setting.FlatRates() {
		rates[r.Name] = r
	}

	for _, comp := range components {
		rate, ok := rates[comp.Name]
		if !ok || rate.Cap == nil {
			continue
		}
		if comp.EmployeeShare.GreaterThan(rate.Cap.Mul(rate.EmployeeRate)) ||
			comp.EmployerShare.GreaterThan(rate.Cap.Mul(rate.EmployerRate)) {
			return fmt.Errorf("%s: %w", comp.Name, payroll.ErrContributionExceedsCap)
		}
	}
	return nil
}

// loanInstallments collects the period charges of approved, unexhausted
// loan/advance adjustments. The charge is always the installment amount,
// never the adjustment's nominal amount.
func loanInstallments(adjustments []adjustment.Adjustment, p payroll.Period) (map[string]decimal.Decimal, decimal.Decimal) {
	charges := make(map[string]decimal.Decimal)
	total := decimal.Zero
	for _, adj := range adjustments {
		if adj.Status != adjustment.StatusApproved || !adj.Type.IsAmortized() {
			continue
		}
		if adj.FullyPaid() || adj.InstallmentAmount == nil {
			continue
		}
		if !adj.AppliesTo(p.Start(), p.End()) {
			continue
		}
		charges[adj.ID] = *adj.InstallmentAmount
		total = total.Add(*adj.InstallmentAmount)
	}
	if len(charges) == 0 {
		return nil, decimal.Zero
	}
	return charges, total
}
