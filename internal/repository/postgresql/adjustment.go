package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/gajihub/payroll-engine-go/internal/domain/adjustment"
	"github.com/gajihub/payroll-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type adjustmentRepository struct {
	db *database.DB
}

func NewAdjustmentRepository(db *database.DB) adjustment.Repository {
	return &adjustmentRepository{db: db}
}

const adjustmentColumns = `
	id, company_id, employee_id, type, description, amount,
	is_recurring, frequency, effective_date, recurring_end_date,
	total_loan_amount, installment_amount, total_installments,
	current_installment, remaining_balance,
	status, rejection_reason, created_at, updated_at
`

func scanAdjustment(row pgx.Row) (adjustment.Adjustment, error) {
	var a adjustment.Adjustment
	err := row.Scan(
		&a.ID, &a.CompanyID, &a.EmployeeID, &a.Type, &a.Description, &a.Amount,
		&a.IsRecurring, &a.Frequency, &a.EffectiveDate, &a.RecurringEndDate,
		&a.TotalLoanAmount, &a.InstallmentAmount, &a.TotalInstallments,
		&a.CurrentInstallment, &a.RemainingBalance,
		&a.Status, &a.RejectionReason, &a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

func (r *adjustmentRepository) Create(ctx context.Context, adj adjustment.Adjustment) (adjustment.Adjustment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO adjustments (
			company_id, employee_id, type, description, amount,
			is_recurring, frequency, effective_date, recurring_end_date,
			total_loan_amount, installment_amount, total_installments,
			current_installment, remaining_balance, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING ` + adjustmentColumns

	created, err := scanAdjustment(q.QueryRow(ctx, query,
		adj.CompanyID, adj.EmployeeID, adj.Type, adj.Description, adj.Amount,
		adj.IsRecurring, adj.Frequency, adj.EffectiveDate, adj.RecurringEndDate,
		adj.TotalLoanAmount, adj.InstallmentAmount, adj.TotalInstallments,
		adj.CurrentInstallment, adj.RemainingBalance, adj.Status,
	))
	if err != nil {
		return adjustment.Adjustment{}, fmt.Errorf("failed to create adjustment: %w", err)
	}

	return created, nil
}

func (r *adjustmentRepository) GetByID(ctx context.Context, id string, companyID string) (adjustment.Adjustment, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + adjustmentColumns + ` FROM adjustments WHERE id = $1 AND company_id = $2`

	a, err := scanAdjustment(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return adjustment.Adjustment{}, adjustment.ErrAdjustmentNotFound
		}
		return adjustment.Adjustment{}, fmt.Errorf("failed to get adjustment: %w", err)
	}

	return a, nil
}

func (r *adjustmentRepository) GetByEmployeeID(ctx context.Context, employeeID string, companyID string, statuses []adjustment.Status) ([]adjustment.Adjustment, error) {
	q := GetQuerier(ctx, r.db)

	whereParts := []string{"employee_id = $1", "company_id = $2"}
	args := []interface{}{employeeID, companyID}

	if len(statuses) > 0 {
		placeholders := make([]string, 0, len(statuses))
		for i, status := range statuses {
			placeholders = append(placeholders, fmt.Sprintf("$%d", i+3))
			args = append(args, status)
		}
		whereParts = append(whereParts, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ", ")))
	}

	query := fmt.Sprintf(`
		SELECT %s FROM adjustments
		WHERE %s
		ORDER BY effective_date ASC, created_at ASC
	`, adjustmentColumns, strings.Join(whereParts, " AND "))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list adjustments: %w", err)
	}
	defer rows.Close()

	var adjustments []adjustment.Adjustment
	for rows.Next() {
		a, err := scanAdjustment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan adjustment: %w", err)
		}
		adjustments = append(adjustments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate adjustments: %w", err)
	}

	return adjustments, nil
}

func (r *adjustmentRepository) UpdateStatus(ctx context.Context, adj adjustment.Adjustment) (adjustment.Adjustment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE adjustments
		SET status = $3, rejection_reason = $4, updated_at = NOW()
		WHERE id = $1 AND company_id = $2
		RETURNING ` + adjustmentColumns

	updated, err := scanAdjustment(q.QueryRow(ctx, query, adj.ID, adj.CompanyID, adj.Status, adj.RejectionReason))
	if err != nil {
		if err == pgx.ErrNoRows {
			return adjustment.Adjustment{}, adjustment.ErrAdjustmentNotFound
		}
		return adjustment.Adjustment{}, fmt.Errorf("failed to update adjustment status: %w", err)
	}

	return updated, nil
}

func (r *adjustmentRepository) UpdateAmortization(ctx context.Context, adj adjustment.Adjustment) (adjustment.Adjustment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE adjustments
		SET current_installment = $3, remaining_balance = $4, updated_at = NOW()
		WHERE id = $1 AND company_id = $2
		RETURNING ` + adjustmentColumns

	updated, err := scanAdjustment(q.QueryRow(ctx, query, adj.ID, adj.CompanyID, adj.CurrentInstallment, adj.RemainingBalance))
	if err != nil {
		if err == pgx.ErrNoRows {
			return adjustment.Adjustment{}, adjustment.ErrAdjustmentNotFound
		}
		return adjustment.Adjustment{}, fmt.Errorf("failed to update adjustment amortization: %w", err)
	}

	return updated, nil
}
