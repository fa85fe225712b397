package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gajihub/payroll-engine-go/internal/domain/payroll"
	"github.com/gajihub/payroll-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

// ========== SETTINGS ==========

type payrollSettingRepository struct {
	db *database.DB
}

func NewPayrollSettingRepository(db *database.DB) payroll.SettingRepository {
	return &payrollSettingRepository{db: db}
}

const settingColumns = `
	id, company_id,
	health_employee_rate, health_employer_rate, health_cap,
	old_age_employee_rate, old_age_employer_rate, old_age_cap,
	pension_employee_rate, pension_employer_rate, pension_cap,
	accident_rate, death_rate, use_effective_rate_method,
	position_cost_rate, position_cost_cap,
	overtime_first_hour_multiplier, overtime_next_hour_multiplier,
	cutoff_day, payment_day, prorate_method,
	currency, rounding_method, rounding_precision,
	created_at, updated_at
`

func scanSetting(row pgx.Row) (payroll.Setting, error) {
	var s payroll.Setting
	err := row.Scan(
		&s.ID, &s.CompanyID,
		&s.HealthEmployeeRate, &s.HealthEmployerRate, &s.HealthCap,
		&s.OldAgeEmployeeRate, &s.OldAgeEmployerRate, &s.OldAgeCap,
		&s.PensionEmployeeRate, &s.PensionEmployerRate, &s.PensionCap,
		&s.AccidentRate, &s.DeathRate, &s.UseEffectiveRateMethod,
		&s.PositionCostRate, &s.PositionCostCap,
		&s.OvertimeFirstHourMultiplier, &s.OvertimeNextHourMultiplier,
		&s.CutoffDay, &s.PaymentDay, &s.ProrateMethod,
		&s.Currency, &s.RoundingMethod, &s.RoundingPrecision,
		&s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

func (r *payrollSettingRepository) GetByCompanyID(ctx context.Context, companyID string) (payroll.Setting, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + settingColumns + ` FROM payroll_settings WHERE company_id = $1`

	s, err := scanSetting(q.QueryRow(ctx, query, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Setting{}, payroll.ErrPayrollSettingNotFound
		}
		return payroll.Setting{}, fmt.Errorf("failed to get payroll settings: %w", err)
	}

	return s, nil
}

func (r *payrollSettingRepository) Create(ctx context.Context, setting payroll.Setting) (payroll.Setting, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_settings (
			company_id,
			health_employee_rate, health_employer_rate, health_cap,
			old_age_employee_rate, old_age_employer_rate, old_age_cap,
			pension_employee_rate, pension_employer_rate, pension_cap,
			accident_rate, death_rate, use_effective_rate_method,
			position_cost_rate, position_cost_cap,
			overtime_first_hour_multiplier, overtime_next_hour_multiplier,
			cutoff_day, payment_day, prorate_method,
			currency, rounding_method, rounding_precision
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
		ON CONFLICT (company_id) DO NOTHING
		RETURNING ` + settingColumns

	s, err := scanSetting(q.QueryRow(ctx, query,
		setting.CompanyID,
		setting.HealthEmployeeRate, setting.HealthEmployerRate, setting.HealthCap,
		setting.OldAgeEmployeeRate, setting.OldAgeEmployerRate, setting.OldAgeCap,
		setting.PensionEmployeeRate, setting.PensionEmployerRate, setting.PensionCap,
		setting.AccidentRate, setting.DeathRate, setting.UseEffectiveRateMethod,
		setting.PositionCostRate, setting.PositionCostCap,
		setting.OvertimeFirstHourMultiplier, setting.OvertimeNextHourMultiplier,
		setting.CutoffDay, setting.PaymentDay, setting.ProrateMethod,
		setting.Currency, setting.RoundingMethod, setting.RoundingPrecision,
	))
	if err != nil {
		// Concurrent first access: another request seeded the row between our
		// read and this insert. Fall back to the winner's row.
		if err == pgx.ErrNoRows {
			return r.GetByCompanyID(ctx, setting.CompanyID)
		}
		return payroll.Setting{}, fmt.Errorf("failed to create payroll settings: %w", err)
	}

	return s, nil
}

func (r *payrollSettingRepository) Update(ctx context.Context, setting payroll.Setting) (payroll.Setting, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_settings SET
			health_employee_rate = $2, health_employer_rate = $3, health_cap = $4,
			old_age_employee_rate = $5, old_age_employer_rate = $6, old_age_cap = $7,
			pension_employee_rate = $8, pension_employer_rate = $9, pension_cap = $10,
			accident_rate = $11, death_rate = $12, use_effective_rate_method = $13,
			position_cost_rate = $14, position_cost_cap = $15,
			overtime_first_hour_multiplier = $16, overtime_next_hour_multiplier = $17,
			cutoff_day = $18, payment_day = $19, prorate_method = $20,
			currency = $21, rounding_method = $22, rounding_precision = $23,
			updated_at = NOW()
		WHERE company_id = $1
		RETURNING ` + settingColumns

	s, err := scanSetting(q.QueryRow(ctx, query,
		setting.CompanyID,
		setting.HealthEmployeeRate, setting.HealthEmployerRate, setting.HealthCap,
		setting.OldAgeEmployeeRate, setting.OldAgeEmployerRate, setting.OldAgeCap,
		setting.PensionEmployeeRate, setting.PensionEmployerRate, setting.PensionCap,
		setting.AccidentRate, setting.DeathRate, setting.UseEffectiveRateMethod,
		setting.PositionCostRate, setting.PositionCostCap,
		setting.OvertimeFirstHourMultiplier, setting.OvertimeNextHourMultiplier,
		setting.CutoffDay, setting.PaymentDay, setting.ProrateMethod,
		setting.Currency, setting.RoundingMethod, setting.RoundingPrecision,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Setting{}, payroll.ErrPayrollSettingNotFound
		}
		return payroll.Setting{}, fmt.Errorf("failed to update payroll settings: %w", err)
	}

	return s, nil
}

// ========== ALLOWANCES ==========

type allowanceRepository struct {
	db *database.DB
}

func NewAllowanceRepository(db *database.DB) payroll.AllowanceRepository {
	return &allowanceRepository{db: db}
}

const allowanceColumns = `
	id, company_id, employee_id, name, amount, percentage, calculation_base,
	is_taxable, is_contribution_object, is_prorated,
	effective_date, end_date, created_at, updated_at
`

func scanAllowance(row pgx.Row) (payroll.Allowance, error) {
	var a payroll.Allowance
	err := row.Scan(
		&a.ID, &a.CompanyID, &a.EmployeeID, &a.Name, &a.Amount, &a.Percentage, &a.CalculationBase,
		&a.IsTaxable, &a.IsContributionObject, &a.IsProrated,
		&a.EffectiveDate, &a.EndDate, &a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

func (r *allowanceRepository) Create(ctx context.Context, allowance payroll.Allowance) (payroll.Allowance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO allowances (
			company_id, employee_id, name, amount, percentage, calculation_base,
			is_taxable, is_contribution_object, is_prorated, effective_date, end_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + allowanceColumns

	a, err := scanAllowance(q.QueryRow(ctx, query,
		allowance.CompanyID, allowance.EmployeeID, allowance.Name,
		allowance.Amount, allowance.Percentage, allowance.CalculationBase,
		allowance.IsTaxable, allowance.IsContributionObject, allowance.IsProrated,
		allowance.EffectiveDate, allowance.EndDate,
	))
	if err != nil {
		return payroll.Allowance{}, fmt.Errorf("failed to create allowance: %w", err)
	}

	return a, nil
}

func (r *allowanceRepository) GetByID(ctx context.Context, id string, companyID string) (payroll.Allowance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + allowanceColumns + ` FROM allowances WHERE id = $1 AND company_id = $2`

	a, err := scanAllowance(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Allowance{}, payroll.ErrAllowanceNotFound
		}
		return payroll.Allowance{}, fmt.Errorf("failed to get allowance: %w", err)
	}

	return a, nil
}

// GetByEmployeeID returns employee-specific allowances plus the company-wide
// templates (employee_id IS NULL).
func (r *allowanceRepository) GetByEmployeeID(ctx context.Context, employeeID string, companyID string) ([]payroll.Allowance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + allowanceColumns + `
		FROM allowances
		WHERE company_id = $2 AND (employee_id = $1 OR employee_id IS NULL)
		ORDER BY created_at ASC
	`

	rows, err := q.Query(ctx, query, employeeID, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list allowances: %w", err)
	}
	defer rows.Close()

	var allowances []payroll.Allowance
	for rows.Next() {
		a, err := scanAllowance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan allowance: %w", err)
		}
		allowances = append(allowances, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate allowances: %w", err)
	}

	return allowances, nil
}

func (r *allowanceRepository) Delete(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	query := `DELETE FROM allowances WHERE id = $1 AND company_id = $2 RETURNING id`

	var deletedID string
	err := q.QueryRow(ctx, query, id, companyID).Scan(&deletedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.ErrAllowanceNotFound
		}
		return fmt.Errorf("failed to delete allowance: %w", err)
	}

	return nil
}

// ========== PAYROLL RECORDS ==========

type payrollRecordRepository struct {
	db *database.DB
}

func NewPayrollRecordRepository(db *database.DB) payroll.RecordRepository {
	return &payrollRecordRepository{db: db}
}

const recordColumns = `
	pr.id, pr.employee_id, pr.company_id, pr.period_month, pr.period_year,
	pr.basic_salary, pr.allowance_total, pr.allowance_detail, pr.adjustment_total, pr.gross_salary,
	pr.contributions, pr.employee_contribution, pr.employer_contribution,
	pr.position_cost, pr.taxable_base, pr.tax_method, pr.tax_amount,
	pr.loan_installment_total, pr.loan_installment_detail, pr.net_salary,
	pr.status, pr.rejection_reason, pr.approved_by, pr.approved_at, pr.paid_at, pr.paid_by,
	pr.created_at, pr.updated_at
`

func scanRecord(row pgx.Row, withEmployeeName bool) (payroll.Record, error) {
	var rec payroll.Record
	var allowanceBytes, contributionBytes, loanBytes []byte

	dest := []interface{}{
		&rec.ID, &rec.EmployeeID, &rec.CompanyID, &rec.PeriodMonth, &rec.PeriodYear,
		&rec.BasicSalary, &rec.AllowanceTotal, &allowanceBytes, &rec.AdjustmentTotal, &rec.GrossSalary,
		&contributionBytes, &rec.EmployeeContribution, &rec.EmployerContribution,
		&rec.PositionCost, &rec.TaxableBase, &rec.TaxMethod, &rec.TaxAmount,
		&rec.LoanInstallmentTotal, &loanBytes, &rec.NetSalary,
		&rec.Status, &rec.RejectionReason, &rec.ApprovedBy, &rec.ApprovedAt, &rec.PaidAt, &rec.PaidBy,
		&rec.CreatedAt, &rec.UpdatedAt,
	}
	if withEmployeeName {
		dest = append(dest, &rec.EmployeeName)
	}

	if err := row.Scan(dest...); err != nil {
		return payroll.Record{}, err
	}

	_ = json.Unmarshal(allowanceBytes, &rec.AllowanceDetail)
	_ = json.Unmarshal(contributionBytes, &rec.Contributions)
	if len(loanBytes) > 0 {
		_ = json.Unmarshal(loanBytes, &rec.LoanInstallmentDetail)
	}

	return rec, nil
}

func (r *payrollRecordRepository) Create(ctx context.Context, record payroll.Record) (payroll.Record, error) {
	q := GetQuerier(ctx, r.db)

	allowanceJSON, _ := json.Marshal(record.AllowanceDetail)
	contributionJSON, _ := json.Marshal(record.Contributions)
	loanJSON, _ := json.Marshal(record.LoanInstallmentDetail)

	query := `
		INSERT INTO payroll_records (
			employee_id, company_id, period_month, period_year,
			basic_salary, allowance_total, allowance_detail, adjustment_total, gross_salary,
			contributions, employee_contribution, employer_contribution,
			position_cost, taxable_base, tax_method, tax_amount,
			loan_installment_total, loan_installment_detail, net_salary, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING ` + strings.ReplaceAll(recordColumns, "pr.", "")

	rec, err := scanRecord(q.QueryRow(ctx, query,
		record.EmployeeID, record.CompanyID, record.PeriodMonth, record.PeriodYear,
		record.BasicSalary, record.AllowanceTotal, allowanceJSON, record.AdjustmentTotal, record.GrossSalary,
		contributionJSON, record.EmployeeContribution, record.EmployerContribution,
		record.PositionCost, record.TaxableBase, record.TaxMethod, record.TaxAmount,
		record.LoanInstallmentTotal, loanJSON, record.NetSalary, record.Status,
	), false)
	if err != nil {
		if strings.Contains(err.Error(), "uk_payroll_record_employee_period") {
			return payroll.Record{}, payroll.ErrPayrollRecordAlreadyExists
		}
		return payroll.Record{}, fmt.Errorf("failed to create payroll record: %w", err)
	}

	return rec, nil
}

func (r *payrollRecordRepository) GetByID(ctx context.Context, id string, companyID string) (payroll.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + recordColumns + `, e.full_name as employee_name
		FROM payroll_records pr
		JOIN employees e ON pr.employee_id = e.id
		WHERE pr.id = $1 AND pr.company_id = $2
	`

	rec, err := scanRecord(q.QueryRow(ctx, query, id, companyID), true)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Record{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.Record{}, fmt.Errorf("failed to get payroll record: %w", err)
	}

	return rec, nil
}

func (r *payrollRecordRepository) GetByEmployeePeriod(ctx context.Context, employeeID string, period payroll.Period, companyID string) (payroll.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + recordColumns + `
		FROM payroll_records pr
		WHERE pr.employee_id = $1 AND pr.period_month = $2 AND pr.period_year = $3 AND pr.company_id = $4
	`

	rec, err := scanRecord(q.QueryRow(ctx, query, employeeID, period.Month, period.Year, companyID), false)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Record{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.Record{}, fmt.Errorf("failed to get payroll record: %w", err)
	}

	return rec, nil
}

func (r *payrollRecordRepository) List(ctx context.Context, companyID string, filter payroll.RecordFilter) ([]payroll.Record, int64, error) {
	q := GetQuerier(ctx, r.db)

	whereParts := []string{"pr.company_id = $1"}
	args := []interface{}{companyID}
	argIdx := 2

	if filter.PeriodMonth != nil {
		whereParts = append(whereParts, fmt.Sprintf("pr.period_month = $%d", argIdx))
		args = append(args, *filter.PeriodMonth)
		argIdx++
	}
	if filter.PeriodYear != nil {
		whereParts = append(whereParts, fmt.Sprintf("pr.period_year = $%d", argIdx))
		args = append(args, *filter.PeriodYear)
		argIdx++
	}
	if filter.Status != nil {
		whereParts = append(whereParts, fmt.Sprintf("pr.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.EmployeeID != nil {
		whereParts = append(whereParts, fmt.Sprintf("pr.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}

	where := strings.Join(whereParts, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM payroll_records pr WHERE ` + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payroll records: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s, e.full_name as employee_name
		FROM payroll_records pr
		JOIN employees e ON pr.employee_id = e.id
		WHERE %s
		ORDER BY pr.period_year DESC, pr.period_month DESC, e.full_name ASC
		LIMIT $%d OFFSET $%d
	`, recordColumns, where, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payroll records: %w", err)
	}
	defer rows.Close()

	var records []payroll.Record
	for rows.Next() {
		rec, err := scanRecord(rows, true)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate payroll records: %w", err)
	}

	return records, total, nil
}

func (r *payrollRecordRepository) UpdateBreakdown(ctx context.Context, record payroll.Record) (payroll.Record, error) {
	q := GetQuerier(ctx, r.db)

	allowanceJSON, _ := json.Marshal(record.AllowanceDetail)
	contributionJSON, _ := json.Marshal(record.Contributions)
	loanJSON, _ := json.Marshal(record.LoanInstallmentDetail)

	query := `
		UPDATE payroll_records SET
			basic_salary = $3, allowance_total = $4, allowance_detail = $5,
			adjustment_total = $6, gross_salary = $7,
			contributions = $8, employee_contribution = $9, employer_contribution = $10,
			position_cost = $11, taxable_base = $12, tax_method = $13, tax_amount = $14,
			loan_installment_total = $15, loan_installment_detail = $16, net_salary = $17,
			status = $18, rejection_reason = NULL, updated_at = NOW()
		WHERE id = $1 AND company_id = $2
		RETURNING ` + strings.ReplaceAll(recordColumns, "pr.", "")

	rec, err := scanRecord(q.QueryRow(ctx, query,
		record.ID, record.CompanyID,
		record.BasicSalary, record.AllowanceTotal, allowanceJSON,
		record.AdjustmentTotal, record.GrossSalary,
		contributionJSON, record.EmployeeContribution, record.EmployerContribution,
		record.PositionCost, record.TaxableBase, record.TaxMethod, record.TaxAmount,
		record.LoanInstallmentTotal, loanJSON, record.NetSalary,
		record.Status,
	), false)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Record{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.Record{}, fmt.Errorf("failed to update payroll record: %w", err)
	}

	return rec, nil
}

func (r *payrollRecordRepository) UpdateStatus(ctx context.Context, id string, companyID string, from payroll.Status, to payroll.Status, reason *string, actorID *string) (payroll.Record, error) {
	q := GetQuerier(ctx, r.db)

	setParts := []string{"status = $3", "updated_at = NOW()"}
	args := []interface{}{id, companyID, to, from}
	argIdx := 5

	switch to {
	case payroll.StatusApproved:
		setParts = append(setParts, "approved_at = NOW()", fmt.Sprintf("approved_by = $%d", argIdx))
		args = append(args, actorID)
		argIdx++
	case payroll.StatusPaid:
		setParts = append(setParts, "paid_at = NOW()", fmt.Sprintf("paid_by = $%d", argIdx))
		args = append(args, actorID)
		argIdx++
	case payroll.StatusRejected:
		setParts = append(setParts, fmt.Sprintf("rejection_reason = $%d", argIdx))
		args = append(args, reason)
		argIdx++
	}

	query := fmt.Sprintf(`
		UPDATE payroll_records pr SET %s
		WHERE pr.id = $1 AND pr.company_id = $2 AND pr.status = $4
		RETURNING %s
	`, strings.Join(setParts, ", "), strings.ReplaceAll(recordColumns, "pr.", ""))

	rec, err := scanRecord(q.QueryRow(ctx, query, args...), false)
	if err != nil {
		if err == pgx.ErrNoRows {
			// Callers read the record first, so a missing row here means the
			// status changed underneath us since that read.
			return payroll.Record{}, payroll.ErrInvalidTransition
		}
		return payroll.Record{}, fmt.Errorf("failed to update payroll record status: %w", err)
	}

	return rec, nil
}
