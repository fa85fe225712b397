package tax

import (
	"context"
	"fmt"
	"sort"

	"github.com/gajihub/payroll-engine-go/internal/domain/payroll"
	"github.com/gajihub/payroll-engine-go/internal/domain/tax"
	"github.com/shopspring/decimal"
)

// Engine computes the monthly withholding tax for a taxable base, using
// either the effective-rate (TER) table or the progressive-annualized
// bracket table. Table gaps fail loudly; the engine never falls back to
// zero tax.
type Engine struct {
	taxRepo tax.Repository
}

func NewEngine(taxRepo tax.Repository) *Engine {
	return &Engine{taxRepo: taxRepo}
}

// Result carries the withholding figure plus the intermediate values a
// payslip breakdown reports.
type Result struct {
	Method           payroll.TaxMethod
	TERCategory      *tax.TERCategory
	AppliedRate      decimal.Decimal
	AnnualTaxable    decimal.Decimal
	PTKPAnnual       decimal.Decimal
	AnnualTaxableNet decimal.Decimal
	Tax              decimal.Decimal
}

// MonthlyWithholding computes the withholding for one period.
// monthlyTaxable is gross minus employee contributions minus the capped
// position cost.
func (e *Engine) MonthlyWithholding(ctx context.Context, status tax.PTKPStatus, monthlyTaxable decimal.Decimal, useEffectiveRate bool) (Result, error) {
	if monthlyTaxable.IsNegative() {
		monthlyTaxable = decimal.Zero
	}
	if useEffectiveRate {
		return e.effectiveRate(ctx, status, monthlyTaxable)
	}
	return e.progressive(ctx, status, monthlyTaxable)
}

// effectiveRate applies a single flat rate from the TER band matching the
// monthly taxable base. Not marginal: tax = base x rate.
func (e *Engine) effectiveRate(ctx context.Context, status tax.PTKPStatus, monthlyTaxable decimal.Decimal) (Result, error) {
	category, err := tax.CategoryForStatus(status)
	if err != nil {
		return Result{}, err
	}

	bands, err := e.taxRepo.ListTERBands(ctx, category)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load TER bands: %w", err)
	}
	if err := ValidateTERBands(bands); err != nil {
		return Result{}, err
	}

	for _, band := range bands {
		if band.Contains(monthlyTaxable) {
			return Result{
				Method:      payroll.TaxMethodEffectiveRate,
				TERCategory: &category,
				AppliedRate: band.Rate,
				Tax:         monthlyTaxable.Mul(band.Rate),
			}, nil
		}
	}

	// Below the first band's floor nothing is owed. Above the last band the
	// table is broken; validation already requires an open-ended final band,
	// so that only happens with an empty table.
	if monthlyTaxable.LessThan(bands[0].MinIncome) {
		return Result{
			Method:      payroll.TaxMethodEffectiveRate,
			TERCategory: &category,
			Tax:         decimal.Zero,
		}, nil
	}
	return Result{}, fmt.Errorf("no TER band for category %s covers %s: %w", category, monthlyTaxable, tax.ErrTaxTableIncomplete)
}

var (
	oneThousand = decimal.NewFromInt(1000)
	twelve      = decimal.NewFromInt(12)
)

// progressive annualizes the monthly base, subtracts the annual PTKP
// exemption, floors the taxable base to whole thousands and walks the
// bracket table as a true marginal schedule. The annual tax is divided by
// 12 for the period's withholding.
func (e *Engine) progressive(ctx context.Context, status tax.PTKPStatus, monthlyTaxable decimal.Decimal) (Result, error) {
	ptkp, err := e.taxRepo.GetPTKPByStatus(ctx, status)
	if err != nil {
		return Result{}, err
	}

	brackets, err := e.taxRepo.ListBrackets(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load tax brackets: %w", err)
	}
	if err := ValidateBrackets(brackets); err != nil {
		return Result{}, err
	}

	annual := monthlyTaxable.Mul(twelve)
	pkp := annual.Sub(ptkp.AnnualAmount)
	if pkp.IsNegative() {
		pkp = decimal.Zero
	}
	// Statutory rounding: annual taxable income is floored to whole thousands.
	pkp = pkp.Div(oneThousand).Floor().Mul(oneThousand)

	annualTax := marginalTax(pkp, brackets)

	return Result{
		Method:           payroll.TaxMethodProgressive,
		AnnualTaxable:    annual,
		PTKPAnnual:       ptkp.AnnualAmount,
		AnnualTaxableNet: pkp,
		Tax:              annualTax.Div(twelve).Round(2),
	}, nil
}

// marginalTax walks ascending brackets, taxing each income slice at its
// bracket's rate. Brackets must be validated (sorted, contiguous,
// open-ended final row) before calling.
func marginalTax(pkp decimal.Decimal, brackets []tax.Bracket) decimal.Decimal {
	total := decimal.Zero
	for _, b := range brackets {
		if !pkp.GreaterThan(b.MinIncome) {
			break
		}
		upper := pkp
		if b.MaxIncome != nil && b.MaxIncome.LessThan(pkp) {
			upper = *b.MaxIncome
		}
		total = total.Add(upper.Sub(b.MinIncome).Mul(b.Rate))
	}
	return total
}

// ValidateBrackets checks the progressive table is non-empty, sorted,
// contiguous and ends with an open-ended row.
func ValidateBrackets(brackets []tax.Bracket) error {
	if len(brackets) == 0 {
		return fmt.Errorf("progressive bracket table is empty: %w", tax.ErrTaxTableIncomplete)
	}
	sorted := sort.SliceIsSorted(brackets, func(i, j int) bool {
		return brackets[i].MinIncome.LessThan(brackets[j].MinIncome)
	})
	if !sorted {
		return fmt.Errorf("progressive brackets are not sorted: %w", tax.ErrTaxTableIncomplete)
	}
	for i, b := range brackets {
		if i == len(brackets)-1 {
			if b.MaxIncome != nil {
				return fmt.Errorf("final bracket must be open-ended: %w", tax.ErrTaxTableIncomplete)
			}
			continue
		}
		if b.MaxIncome == nil {
			return fmt.Errorf("only the final bracket may be open-ended: %w", tax.ErrTaxTableIncomplete)
		}
		if !b.MaxIncome.Equal(brackets[i+1].MinIncome) {
			return fmt.Errorf("bracket gap between %s and %s: %w", b.MaxIncome, brackets[i+1].MinIncome, tax.ErrTaxTableIncomplete)
		}
	}
	return nil
}

// ValidateTERBands checks one category's bands the same way.
func ValidateTERBands(bands []tax.TERBand) error {
	if len(bands) == 0 {
		return fmt.Errorf("TER band table is empty: %w", tax.ErrTaxTableIncomplete)
	}
	sorted := sort.SliceIsSorted(bands, func(i, j int) bool {
		return bands[i].MinIncome.LessThan(bands[j].MinIncome)
	})
	if !sorted {
		return fmt.Errorf("TER bands are not sorted: %w", tax.ErrTaxTableIncomplete)
	}
	for i, b := range bands {
		if i == len(bands)-1 {
			if b.MaxIncome != nil {
				return fmt.Errorf("final TER band must be open-ended: %w", tax.ErrTaxTableIncomplete)
			}
			continue
		}
		if b.MaxIncome == nil {
			return fmt.Errorf("only the final TER band may be open-ended: %w", tax.ErrTaxTableIncomplete)
		}
		if !b.MaxIncome.Equal(bands[i+1].MinIncome) {
			return fmt.Errorf("TER band gap between %s and %s: %w", b.MaxIncome, bands[i+1].MinIncome, tax.ErrTaxTableIncomplete)
		}
	}
	return nil
}
