package payroll

import (
	"context"
	"testing"
	"time"

	"github.com/gajihub/payroll-engine-go/internal/domain/adjustment"
	"github.com/gajihub/payroll-engine-go/internal/domain/employee"
	"github.com/gajihub/payroll-engine-go/internal/domain/payroll"
	"github.com/gajihub/payroll-engine-go/internal/domain/tax"
	"github.com/gajihub/payroll-engine-go/internal/fixtures"
	taxEngine "github.com/gajihub/payroll-engine-go/internal/service/tax"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTaxRepo struct {
	ptkp     map[tax.PTKPStatus]tax.PTKP
	brackets []tax.Bracket
	bands    map[tax.TERCategory][]tax.TERBand
}

func newStubTaxRepo() *stubTaxRepo {
	repo := &stubTaxRepo{
		ptkp:     make(map[tax.PTKPStatus]tax.PTKP),
		brackets: fixtures.DefaultBrackets(),
		bands:    make(map[tax.TERCategory][]tax.TERBand),
	}
	for _, p := range fixtures.DefaultPTKPTable() {
		repo.ptkp[p.Status] = p
	}
	for _, cat := range []tax.TERCategory{tax.TERCategoryA, tax.TERCategoryB, tax.TERCategoryC} {
		repo.bands[cat] = fixtures.DefaultTERBands(cat)
	}
	return repo
}

func (r *stubTaxRepo) GetPTKPByStatus(_ context.Context, status tax.PTKPStatus) (tax.PTKP, error) {
	p, ok := r.ptkp[status]
	if !ok {
		return tax.PTKP{}, tax.ErrPTKPNotFound
	}
	return p, nil
}

func (r *stubTaxRepo) ListPTKP(_ context.Context) ([]tax.PTKP, error) {
	var out []tax.PTKP
	for _, p := range r.ptkp {
		out = append(out, p)
	}
	return out, nil
}

func (r *stubTaxRepo) ListBrackets(_ context.Context) ([]tax.Bracket, error) {
	return r.brackets, nil
}

func (r *stubTaxRepo) ListTERBands(_ context.Context, category tax.TERCategory) ([]tax.TERBand, error) {
	return r.bands[category], nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func newCalculator() *Calculator {
	return NewCalculator(taxEngine.NewEngine(newStubTaxRepo()))
}

// A setting with only the 1% employee health contribution enabled, no
// position cost, progressive tax, whole-currency rounding.
func minimalSetting() payroll.Setting {
	return payroll.Setting{
		HealthEmployeeRate: dec("0.01"),
		ProrateMethod:      payroll.ProrateCalendarDays,
		Currency:           "IDR",
		RoundingMethod:     payroll.RoundingRound,
		RoundingPrecision:  0,
	}
}

func testEmployee(salary string) employee.Employee {
	return employee.Employee{
		ID:               uuid.NewString(),
		CompanyID:        uuid.NewString(),
		FullName:         "Budi Santoso",
		BasicSalary:      dec(salary),
		PTKPStatus:       tax.PTKPTK0,
		EmploymentStatus: employee.EmploymentStatusActive,
		HireDate:         time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func fixedAllowance(name, amount string, taxable bool) payroll.Allowance {
	return payroll.Allowance{
		ID:            uuid.NewString(),
		Name:          name,
		Amount:        decPtr(amount),
		IsTaxable:     taxable,
		EffectiveDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestCalculate_FullPipeline(t *testing.T) {
	calc := newCalculator()

	breakdown, err := calc.Calculate(context.Background(), CalculationInput{
		Employee:   testEmployee("10000000"),
		Period:     payroll.Period{Year: 2026, Month: 6},
		Setting:    minimalSetting(),
		Allowances: []payroll.Allowance{fixedAllowance("Tunjangan Makan", "500000", true)},
	})
	require.NoError(t, err)

	assert.True(t, breakdown.GrossSalary.Equal(dec("10500000")), "gross = %s", breakdown.GrossSalary)
	assert.True(t, breakdown.EmployeeContribution.Equal(dec("105000")), "contribution = %s", breakdown.EmployeeContribution)
	assert.True(t, breakdown.TaxableBase.Equal(dec("10395000")), "taxable = %s", breakdown.TaxableBase)

	// Annualized 124,740,000 minus TK/0 PTKP leaves 70,740,000: 3M for the
	// first bracket plus 15% of the rest, de-annualized to 384,250.
	assert.Equal(t, payroll.TaxMethodProgressive, breakdown.TaxMethod)
	assert.True(t, breakdown.TaxAmount.Equal(dec("384250")), "tax = %s", breakdown.TaxAmount)
	assert.True(t, breakdown.NetSalary.Equal(dec("10010750")), "net = %s", breakdown.NetSalary)
}

func TestCalculate_ContributionCap(t *testing.T) {
	calc := newCalculator()
	setting := minimalSetting()
	setting.HealthCap = decPtr("8000000")

	breakdown, err := calc.Calculate(context.Background(), CalculationInput{
		Employee: testEmployee("10000000"),
		Period:   payroll.Period{Year: 2026, Month: 6},
		Setting:  setting,
	})
	require.NoError(t, err)

	// Base is min(gross, cap): 1% of 8,000,000.
	assert.True(t, breakdown.EmployeeContribution.Equal(dec("80000")), "contribution = %s", breakdown.EmployeeContribution)
}

func TestCalculate_PositionCostCapped(t *testing.T) {
	calc := newCalculator()
	setting := minimalSetting()
	setting.PositionCostRate = dec("0.05")
	setting.PositionCostCap = dec("500000")

	breakdown, err := calc.Calculate(context.Background(), CalculationInput{
		Employee: testEmployee("12000000"),
		Period:   payroll.Period{Year: 2026, Month: 6},
		Setting:  setting,
	})
	require.NoError(t, err)

	// 5% of 12M is 600k, capped at 500k.
	assert.True(t, breakdown.PositionCost.Equal(dec("500000")), "position cost = %s", breakdown.PositionCost)
}

func TestCalculate_GrossPercentageUsesResolvedBase(t *testing.T) {
	calc := newCalculator()

	grossAllowance := payroll.Allowance{
		ID:              uuid.NewString(),
		Name:            "Tunjangan Kinerja",
		Percentage:      decPtr("0.1"),
		CalculationBase: payroll.AllowanceBaseGross,
		IsTaxable:       true,
		EffectiveDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	breakdown, err := calc.Calculate(context.Background(), CalculationInput{
		Employee: testEmployee("10000000"),
		Period:   payroll.Period{Year: 2026, Month: 6},
		Setting:  minimalSetting(),
		Allowances: []payroll.Allowance{
			fixedAllowance("Tunjangan Makan", "500000", true),
			grossAllowance,
		},
	})
	require.NoError(t, err)

	// 10% of basic plus first-pass total (10.5M), not of a bootstrapped
	// multiple of basic.
	assert.True(t, breakdown.AllowanceTotal.Equal(dec("1550000")), "allowances = %s", breakdown.AllowanceTotal)
	assert.True(t, breakdown.GrossSalary.Equal(dec("11550000")), "gross = %s", breakdown.GrossSalary)
}

func TestCalculate_NonTaxableAllowanceExcludedFromTaxableBase(t *testing.T) {
	calc := newCalculator()

	breakdown, err := calc.Calculate(context.Background(), CalculationInput{
		Employee:   testEmployee("10000000"),
		Period:     payroll.Period{Year: 2026, Month: 6},
		Setting:    minimalSetting(),
		Allowances: []payroll.Allowance{fixedAllowance("Penggantian Transport", "500000", false)},
	})
	require.NoError(t, err)

	// In gross, out of taxable: 10,500,000 gross, taxable excludes the
	// non-taxable 500k on top of the contribution.
	assert.True(t, breakdown.GrossSalary.Equal(dec("10500000")))
	assert.True(t, breakdown.TaxableBase.Equal(dec("9895000")), "taxable = %s", breakdown.TaxableBase)
}

func TestCalculate_ProratesMidPeriodHire(t *testing.T) {
	calc := newCalculator()

	emp := testEmployee("10000000")
	emp.HireDate = time.Date(2026, 6, 16, 0, 0, 0, 0, time.UTC)

	breakdown, err := calc.Calculate(context.Background(), CalculationInput{
		Employee: emp,
		Period:   payroll.Period{Year: 2026, Month: 6},
		Setting:  minimalSetting(),
	})
	require.NoError(t, err)

	// Hired on the 16th of a 30-day month: 15 of 30 calendar days.
	assert.True(t, breakdown.BasicSalary.Equal(dec("5000000")), "basic = %s", breakdown.BasicSalary)
}

func TestCalculate_ProratesUnpaidLeaveDays(t *testing.T) {
	calc := newCalculator()

	breakdown, err := calc.Calculate(context.Background(), CalculationInput{
		Employee:        testEmployee("10000000"),
		Period:          payroll.Period{Year: 2026, Month: 6},
		Setting:         minimalSetting(),
		UnpaidLeaveDays: 6,
	})
	require.NoError(t, err)

	// 6 unpaid days in a 30-day month: 24 of 30 calendar days.
	assert.True(t, breakdown.BasicSalary.Equal(dec("8000000")), "basic = %s", breakdown.BasicSalary)
}

func TestVerifyContributionCaps(t *testing.T) {
	setting := minimalSetting()
	setting.HealthCap = decPtr("8000000")

	// Computed under the current cap: 8,000,000 x 1%.
	within := []payroll.ContributionComponent{
		{Name: "health", EmployeeShare: dec("80000"), EmployerShare: decimal.Zero},
	}
	assert.NoError(t, verifyContributionCaps(within, setting))

	// Computed before the cap was lowered: 10,000,000 x 1%.
	stale := []payroll.ContributionComponent{
		{Name: "health", EmployeeShare: dec("100000"), EmployerShare: decimal.Zero},
	}
	assert.ErrorIs(t, verifyContributionCaps(stale, setting), payroll.ErrContributionExceedsCap)

	// Uncapped components never trip the check.
	uncapped := []payroll.ContributionComponent{
		{Name: "workplace_accident", EmployeeShare: decimal.Zero, EmployerShare: dec("999999")},
	}
	assert.NoError(t, verifyContributionCaps(uncapped, setting))
}

func TestCalculate_LoanChargedAtNetNotGross(t *testing.T) {
	calc := newCalculator()

	freq := adjustment.FrequencyMonthly
	loan := adjustment.Adjustment{
		ID:                uuid.NewString(),
		Type:              adjustment.TypeLoan,
		Status:            adjustment.StatusApproved,
		IsRecurring:       true,
		Frequency:         &freq,
		EffectiveDate:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		TotalLoanAmount:   decPtr("5000000"),
		InstallmentAmount: decPtr("500000"),
		TotalInstallments: 10,
	}
	bonus := adjustment.Adjustment{
		ID:            uuid.NewString(),
		Type:          adjustment.TypeBonus,
		Status:        adjustment.StatusApproved,
		Amount:        dec("1000000"),
		EffectiveDate: time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC),
	}

	breakdown, err := calc.Calculate(context.Background(), CalculationInput{
		Employee:    testEmployee("10000000"),
		Period:      payroll.Period{Year: 2026, Month: 6},
		Setting:     minimalSetting(),
		Adjustments: []adjustment.Adjustment{loan, bonus},
	})
	require.NoError(t, err)

	// The bonus raises gross; the loan only shows up as a net deduction.
	assert.True(t, breakdown.AdjustmentTotal.Equal(dec("1000000")))
	assert.True(t, breakdown.GrossSalary.Equal(dec("11000000")), "gross = %s", breakdown.GrossSalary)
	assert.True(t, breakdown.LoanInstallmentTotal.Equal(dec("500000")))
	require.Contains(t, breakdown.LoanInstallments, loan.ID)
	assert.True(t, breakdown.LoanInstallments[loan.ID].Equal(dec("500000")))
}

func TestCalculate_ExhaustedLoanNotCharged(t *testing.T) {
	calc := newCalculator()

	freq := adjustment.FrequencyMonthly
	loan := adjustment.Adjustment{
		ID:                 uuid.NewString(),
		Type:               adjustment.TypeAdvance,
		Status:             adjustment.StatusApproved,
		IsRecurring:        true,
		Frequency:          &freq,
		EffectiveDate:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		TotalLoanAmount:    decPtr("1000000"),
		InstallmentAmount:  decPtr("500000"),
		TotalInstallments:  2,
		CurrentInstallment: 2,
	}

	breakdown, err := calc.Calculate(context.Background(), CalculationInput{
		Employee:    testEmployee("10000000"),
		Period:      payroll.Period{Year: 2026, Month: 6},
		Setting:     minimalSetting(),
		Adjustments: []adjustment.Adjustment{loan},
	})
	require.NoError(t, err)

	assert.True(t, breakdown.LoanInstallmentTotal.IsZero())
	assert.Empty(t, breakdown.LoanInstallments)
}

func TestCalculate_NegativeNetIsReturned(t *testing.T) {
	calc := newCalculator()

	deduction := adjustment.Adjustment{
		ID:            uuid.NewString(),
		Type:          adjustment.TypeDeduction,
		Status:        adjustment.StatusApproved,
		Amount:        dec("9500000"),
		EffectiveDate: time.Date(2026, 6, 5, 0, 0, 0, 0, time.UTC),
	}
	freq := adjustment.FrequencyMonthly
	loan := adjustment.Adjustment{
		ID:                uuid.NewString(),
		Type:              adjustment.TypeLoan,
		Status:            adjustment.StatusApproved,
		IsRecurring:       true,
		Frequency:         &freq,
		EffectiveDate:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		TotalLoanAmount:   decPtr("6000000"),
		InstallmentAmount: decPtr("600000"),
		TotalInstallments: 10,
	}

	breakdown, err := calc.Calculate(context.Background(), CalculationInput{
		Employee:    testEmployee("10000000"),
		Period:      payroll.Period{Year: 2026, Month: 6},
		Setting:     minimalSetting(),
		Adjustments: []adjustment.Adjustment{deduction, loan},
	})
	require.NoError(t, err)

	// The calculator reports the negative figure; the lifecycle's validate
	// step is what blocks it.
	assert.True(t, breakdown.NetSalary.IsNegative(), "net = %s", breakdown.NetSalary)
}

func TestCalculate_Guards(t *testing.T) {
	calc := newCalculator()
	ctx := context.Background()

	noSalary := testEmployee("10000000")
	noSalary.BasicSalary = decimal.Zero
	_, err := calc.Calculate(ctx, CalculationInput{
		Employee: noSalary,
		Period:   payroll.Period{Year: 2026, Month: 6},
		Setting:  minimalSetting(),
	})
	assert.ErrorIs(t, err, employee.ErrNoBasicSalary)

	_, err = calc.Calculate(ctx, CalculationInput{
		Employee: testEmployee("10000000"),
		Period:   payroll.Period{Year: 2026, Month: 13},
		Setting:  minimalSetting(),
	})
	assert.ErrorIs(t, err, payroll.ErrInvalidPeriod)

	beforeHire := testEmployee("10000000")
	beforeHire.HireDate = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	_, err = calc.Calculate(ctx, CalculationInput{
		Employee: beforeHire,
		Period:   payroll.Period{Year: 2026, Month: 6},
		Setting:  minimalSetting(),
	})
	assert.ErrorIs(t, err, employee.ErrOutsideEmployment)
}
