package tax

import (
	"context"
	"testing"

	"github.com/gajihub/payroll-engine-go/internal/domain/payroll"
	"github.com/gajihub/payroll-engine-go/internal/domain/tax"
	"github.com/gajihub/payroll-engine-go/internal/fixtures"
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

func TestProgressive_MarginalWalk(t *testing.T) {
	engine := NewEngine(newStubTaxRepo())

	// 9,895,000/month -> 118,740,000/year -> PKP 64,740,000 after TK/0 PTKP.
	// 60M at 5% plus 4.74M at 15% = 3,711,000/year = 309,250/month.
	result, err := engine.MonthlyWithholding(context.Background(), tax.PTKPTK0, dec("9895000"), false)
	require.NoError(t, err)

	assert.Equal(t, payroll.TaxMethodProgressive, result.Method)
	assert.True(t, result.AnnualTaxableNet.Equal(dec("64740000")), "PKP = %s", result.AnnualTaxableNet)
	assert.True(t, result.Tax.Equal(dec("309250")), "tax = %s", result.Tax)
}

func TestProgressive_BracketBoundaryUsesUpperRateMarginally(t *testing.T) {
	engine := NewEngine(newStubTaxRepo())

	// Annual PKP lands exactly on the 60M boundary: the whole amount stays
	// in the 5% slice, so tax is 3,000,000/year.
	result, err := engine.MonthlyWithholding(context.Background(), tax.PTKPTK0, dec("9500000"), false)
	require.NoError(t, err)

	assert.True(t, result.AnnualTaxableNet.Equal(dec("60000000")))
	assert.True(t, result.Tax.Equal(dec("250000")), "tax = %s", result.Tax)
}

func TestProgressive_FloorsPKPToWholeThousands(t *testing.T) {
	engine := NewEngine(newStubTaxRepo())

	// 9,895,100/month annualizes to 118,741,200; PKP 64,741,200 floors to
	// 64,741,000.
	result, err := engine.MonthlyWithholding(context.Background(), tax.PTKPTK0, dec("9895100"), false)
	require.NoError(t, err)

	assert.True(t, result.AnnualTaxableNet.Equal(dec("64741000")), "PKP = %s", result.AnnualTaxableNet)
	assert.True(t, result.Tax.Equal(dec("309262.5")), "tax = %s", result.Tax)
}

func TestProgressive_BelowPTKPOwesNothing(t *testing.T) {
	engine := NewEngine(newStubTaxRepo())

	result, err := engine.MonthlyWithholding(context.Background(), tax.PTKPTK0, dec("4000000"), false)
	require.NoError(t, err)

	assert.True(t, result.AnnualTaxableNet.IsZero())
	assert.True(t, result.Tax.IsZero())
}

func TestProgressive_UnknownStatus(t *testing.T) {
	engine := NewEngine(newStubTaxRepo())

	_, err := engine.MonthlyWithholding(context.Background(), tax.PTKPStatus("X/9"), dec("10000000"), false)
	assert.ErrorIs(t, err, tax.ErrPTKPNotFound)
}

func TestEffectiveRate_FlatNotMarginal(t *testing.T) {
	engine := NewEngine(newStubTaxRepo())

	// TK/0 is category A; 10,000,000 falls in the 1.5% band. Flat rate on
	// the whole base, not a marginal walk.
	result, err := engine.MonthlyWithholding(context.Background(), tax.PTKPTK0, dec("10000000"), true)
	require.NoError(t, err)

	assert.Equal(t, payroll.TaxMethodEffectiveRate, result.Method)
	require.NotNil(t, result.TERCategory)
	assert.Equal(t, tax.TERCategoryA, *result.TERCategory)
	assert.True(t, result.AppliedRate.Equal(dec("0.015")))
	assert.True(t, result.Tax.Equal(dec("150000")), "tax = %s", result.Tax)
}

func TestEffectiveRate_ZeroBandAtLowIncome(t *testing.T) {
	engine := NewEngine(newStubTaxRepo())

	result, err := engine.MonthlyWithholding(context.Background(), tax.PTKPTK0, dec("5000000"), true)
	require.NoError(t, err)

	assert.True(t, result.Tax.IsZero())
}

func TestEffectiveRate_CategoryMapping(t *testing.T) {
	engine := NewEngine(newStubTaxRepo())
	ctx := context.Background()

	cases := []struct {
		status tax.PTKPStatus
		want   tax.TERCategory
	}{
		{tax.PTKPTK0, tax.TERCategoryA},
		{tax.PTKPK1, tax.TERCategoryB},
		{tax.PTKPK3, tax.TERCategoryC},
		{tax.PTKPKI0, tax.TERCategoryC},
	}
	for _, c := range cases {
		result, err := engine.MonthlyWithholding(ctx, c.status, dec("20000000"), true)
		require.NoError(t, err, "status %s", c.status)
		require.NotNil(t, result.TERCategory)
		assert.Equal(t, c.want, *result.TERCategory, "status %s", c.status)
	}
}

func TestEffectiveRate_NegativeBaseClampsToZero(t *testing.T) {
	engine := NewEngine(newStubTaxRepo())

	result, err := engine.MonthlyWithholding(context.Background(), tax.PTKPTK0, dec("-100"), true)
	require.NoError(t, err)
	assert.True(t, result.Tax.IsZero())
}

func TestValidateBrackets_RejectsBrokenTables(t *testing.T) {
	assert.ErrorIs(t, ValidateBrackets(nil), tax.ErrTaxTableIncomplete)

	gapped := []tax.Bracket{
		{MinIncome: dec("0"), MaxIncome: decPtr("60000000"), Rate: dec("0.05")},
		{MinIncome: dec("70000000"), MaxIncome: nil, Rate: dec("0.15")},
	}
	assert.ErrorIs(t, ValidateBrackets(gapped), tax.ErrTaxTableIncomplete)

	closedFinal := []tax.Bracket{
		{MinIncome: dec("0"), MaxIncome: decPtr("60000000"), Rate: dec("0.05")},
	}
	assert.ErrorIs(t, ValidateBrackets(closedFinal), tax.ErrTaxTableIncomplete)

	assert.NoError(t, ValidateBrackets(fixtures.DefaultBrackets()))
}

func TestValidateTERBands_RejectsBrokenTables(t *testing.T) {
	assert.ErrorIs(t, ValidateTERBands(nil), tax.ErrTaxTableIncomplete)

	for _, cat := range []tax.TERCategory{tax.TERCategoryA, tax.TERCategoryB, tax.TERCategoryC} {
		assert.NoError(t, ValidateTERBands(fixtures.DefaultTERBands(cat)), "category %s", cat)
	}
}

func TestProgressive_TaxNeverDecreasesWithIncome(t *testing.T) {
	engine := NewEngine(newStubTaxRepo())
	ctx := context.Background()

	// Sweep monthly bases across all four brackets in 250k steps; more
	// income never means less tax.
	prev := decimal.Zero
	base := dec("1000000")
	step := dec("250000")
	for i := 0; i < 250; i++ {
		result, err := engine.MonthlyWithholding(ctx, tax.PTKPTK0, base, false)
		require.NoError(t, err, "base %s", base)
		assert.True(t, result.Tax.GreaterThanOrEqual(prev),
			"base %s: tax %s dropped below %s", base, result.Tax, prev)
		prev = result.Tax
		base = base.Add(step)
	}
}

func TestEffectiveRate_RateNeverDecreasesWithinCategory(t *testing.T) {
	engine := NewEngine(newStubTaxRepo())
	ctx := context.Background()

	statuses := map[tax.TERCategory]tax.PTKPStatus{
		tax.TERCategoryA: tax.PTKPTK0,
		tax.TERCategoryB: tax.PTKPK1,
		tax.TERCategoryC: tax.PTKPK3,
	}

	for cat, status := range statuses {
		prev := decimal.Zero
		base := dec("1000000")
		step := dec("500000")
		for i := 0; i < 100; i++ {
			result, err := engine.MonthlyWithholding(ctx, status, base, true)
			require.NoError(t, err, "category %s base %s", cat, base)
			assert.True(t, result.AppliedRate.GreaterThanOrEqual(prev),
				"category %s base %s: rate %s dropped below %s", cat, base, result.AppliedRate, prev)
			prev = result.AppliedRate
			base = base.Add(step)
		}
	}
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}
