package tax

import (
	"context"
	"fmt"

	"github.com/gajihub/payroll-engine-go/internal/domain/tax"
	"github.com/shopspring/decimal"
)

// Read-only views over the statutory tables, exposed so clients can show
// the rates a calculation will use.

type PTKPEntry struct {
	Status       string          `json:"status"`
	AnnualAmount decimal.Decimal `json:"annual_amount"`
}

type BracketEntry struct {
	MinIncome decimal.Decimal  `json:"min_income"`
	MaxIncome *decimal.Decimal `json:"max_income,omitempty"`
	Rate      decimal.Decimal  `json:"rate"`
}

type TERBandEntry struct {
	Category  string           `json:"category"`
	MinIncome decimal.Decimal  `json:"min_income"`
	MaxIncome *decimal.Decimal `json:"max_income,omitempty"`
	Rate      decimal.Decimal  `json:"rate"`
}

func (e *Engine) PTKPTable(ctx context.Context) ([]PTKPEntry, error) {
	rates, err := e.taxRepo.ListPTKP(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load PTKP table: %w", err)
	}

	entries := make([]PTKPEntry, 0, len(rates))
	for _, p := range rates {
		entries = append(entries, PTKPEntry{Status: string(p.Status), AnnualAmount: p.AnnualAmount})
	}
	return entries, nil
}

func (e *Engine) Brackets(ctx context.Context) ([]BracketEntry, error) {
	brackets, err := e.taxRepo.ListBrackets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load tax brackets: %w", err)
	}
	if err := ValidateBrackets(brackets); err != nil {
		return nil, err
	}

	entries := make([]BracketEntry, 0, len(brackets))
	for _, b := range brackets {
		entries = append(entries, BracketEntry{MinIncome: b.MinIncome, MaxIncome: b.MaxIncome, Rate: b.Rate})
	}
	return entries, nil
}

func (e *Engine) TERBands(ctx context.Context, category tax.TERCategory) ([]TERBandEntry, error) {
	bands, err := e.taxRepo.ListTERBands(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to load TER bands: %w", err)
	}
	if err := ValidateTERBands(bands); err != nil {
		return nil, err
	}

	entries := make([]TERBandEntry, 0, len(bands))
	for _, b := range bands {
		entries = append(entries, TERBandEntry{
			Category:  string(b.Category),
			MinIncome: b.MinIncome,
			MaxIncome: b.MaxIncome,
			Rate:      b.Rate,
		})
	}
	return entries, nil
}
