package postgresql

import (
	"context"
	"fmt"

	"github.com/gajihub/payroll-engine-go/internal/domain/tax"
	"github.com/gajihub/payroll-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type taxRepository struct {
	db *database.DB
}

func NewTaxRepository(db *database.DB) tax.Repository {
	return &taxRepository{db: db}
}

func (r *taxRepository) GetPTKPByStatus(ctx context.Context, status tax.PTKPStatus) (tax.PTKP, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT id, status, annual_amount, created_at, updated_at FROM ptkp_rates WHERE status = $1`

	var p tax.PTKP
	err := q.QueryRow(ctx, query, status).Scan(&p.ID, &p.Status, &p.AnnualAmount, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return tax.PTKP{}, tax.ErrPTKPNotFound
		}
		return tax.PTKP{}, fmt.Errorf("failed to get PTKP rate: %w", err)
	}

	return p, nil
}

func (r *taxRepository) ListPTKP(ctx context.Context) ([]tax.PTKP, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT id, status, annual_amount, created_at, updated_at FROM ptkp_rates ORDER BY annual_amount ASC`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list PTKP rates: %w", err)
	}
	defer rows.Close()

	var rates []tax.PTKP
	for rows.Next() {
		var p tax.PTKP
		if err := rows.Scan(&p.ID, &p.Status, &p.AnnualAmount, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan PTKP rate: %w", err)
		}
		rates = append(rates, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate PTKP rates: %w", err)
	}

	return rates, nil
}

func (r *taxRepository) ListBrackets(ctx context.Context) ([]tax.Bracket, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, min_income, max_income, rate, created_at, updated_at
		FROM tax_brackets
		ORDER BY min_income ASC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tax brackets: %w", err)
	}
	defer rows.Close()

	var brackets []tax.Bracket
	for rows.Next() {
		var b tax.Bracket
		if err := rows.Scan(&b.ID, &b.MinIncome, &b.MaxIncome, &b.Rate, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tax bracket: %w", err)
		}
		brackets = append(brackets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tax brackets: %w", err)
	}

	return brackets, nil
}

func (r *taxRepository) ListTERBands(ctx context.Context, category tax.TERCategory) ([]tax.TERBand, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, category, min_income, max_income, rate, created_at, updated_at
		FROM ter_bands
		WHERE category = $1
		ORDER BY min_income ASC
	`

	rows, err := q.Query(ctx, query, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list TER bands: %w", err)
	}
	defer rows.Close()

	var bands []tax.TERBand
	for rows.Next() {
		var b tax.TERBand
		if err := rows.Scan(&b.ID, &b.Category, &b.MinIncome, &b.MaxIncome, &b.Rate, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan TER band: %w", err)
		}
		bands = append(bands, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate TER bands: %w", err)
	}

	return bands, nil
}
