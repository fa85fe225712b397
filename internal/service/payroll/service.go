package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gajihub/payroll-engine-go/internal/domain/adjustment"
	"github.com/gajihub/payroll-engine-go/internal/domain/company"
	"github.com/gajihub/payroll-engine-go/internal/domain/employee"
	"github.com/gajihub/payroll-engine-go/internal/domain/payroll"
	"github.com/gajihub/payroll-engine-go/internal/fixtures"
	"github.com/gajihub/payroll-engine-go/internal/pkg/database"
	"github.com/gajihub/payroll-engine-go/internal/repository/postgresql"
	adjservice "github.com/gajihub/payroll-engine-go/internal/service/adjustment"
	"github.com/go-chi/jwtauth/v5"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type PayrollServiceImpl struct {
	db             *database.DB
	settingRepo    payroll.SettingRepository
	allowanceRepo  payroll.AllowanceRepository
	recordRepo     payroll.RecordRepository
	adjustmentRepo adjustment.Repository
	employeeRepo   employee.EmployeeRepository
	companyRepo    company.CompanyRepository
	calculator     *Calculator
}

func NewPayrollService(
	db *database.DB,
	settingRepo payroll.SettingRepository,
	allowanceRepo payroll.AllowanceRepository,
	recordRepo payroll.RecordRepository,
	adjustmentRepo adjustment.Repository,
	employeeRepo employee.EmployeeRepository,
	companyRepo company.CompanyRepository,
	calculator *Calculator,
) payroll.Service {
	return &PayrollServiceImpl{
		db:             db,
		settingRepo:    settingRepo,
		allowanceRepo:  allowanceRepo,
		recordRepo:     recordRepo,
		adjustmentRepo: adjustmentRepo,
		employeeRepo:   employeeRepo,
		companyRepo:    companyRepo,
		calculator:     calculator,
	}
}

// Helper to get company_id from JWT context
func getClaimsFromContext(ctx context.Context) (companyID string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", fmt.Errorf("company_id claim is missing or invalid")
	}

	return companyID, nil
}

// getActorFromContext returns the acting user's id when present in the token.
func getActorFromContext(ctx context.Context) *string {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return nil
	}
	if userID, ok := claims["user_id"].(string); ok && userID != "" {
		return &userID
	}
	if sub, ok := claims["sub"].(string); ok && sub != "" {
		return &sub
	}
	return nil
}

// ========== SETTINGS ==========

// getOrCreateSetting returns the company's settings, lazily seeding the
// statutory defaults on first access.
func (s *PayrollServiceImpl) getOrCreateSetting(ctx context.Context, companyID string) (payroll.Setting, error) {
	setting, err := s.settingRepo.GetByCompanyID(ctx, companyID)
	if err == nil {
		return setting, nil
	}
	if !errors.Is(err, payroll.ErrPayrollSettingNotFound) {
		return payroll.Setting{}, err
	}

	exists, err := s.companyRepo.Exists(ctx, companyID)
	if err != nil {
		return payroll.Setting{}, err
	}
	if !exists {
		return payroll.Setting{}, company.ErrCompanyNotFound
	}

	return s.settingRepo.Create(ctx, fixtures.DefaultSetting(companyID))
}

func (s *PayrollServiceImpl) GetSettings(ctx context.Context) (payroll.SettingResponse, error) {
	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.SettingResponse{}, err
	}

	setting, err := s.getOrCreateSetting(ctx, companyID)
	if err != nil {
		return payroll.SettingResponse{}, err
	}

	return mapSettingToResponse(setting), nil
}

func (s *PayrollServiceImpl) UpdateSettings(ctx context.Context, req payroll.UpdateSettingRequest) (payroll.SettingResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.SettingResponse{}, err
	}

	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.SettingResponse{}, err
	}

	setting, err := s.getOrCreateSetting(ctx, companyID)
	if err != nil {
		return payroll.SettingResponse{}, err
	}

	applySettingUpdate(&setting, req)

	updated, err := s.settingRepo.Update(ctx, setting)
	if err != nil {
		return payroll.SettingResponse{}, err
	}

	return mapSettingToResponse(updated), nil
}

func applySettingUpdate(setting *payroll.Setting, req payroll.UpdateSettingRequest) {
	if req.HealthEmployeeRate != nil {
		setting.HealthEmployeeRate = *req.HealthEmployeeRate
	}
	if req.HealthEmployerRate != nil {
		setting.HealthEmployerRate = *req.HealthEmployerRate
	}
	if req.HealthCap != nil {
		setting.HealthCap = req.HealthCap
	}
	if req.OldAgeEmployeeRate != nil {
		setting.OldAgeEmployeeRate = *req.OldAgeEmployeeRate
	}
	if req.OldAgeEmployerRate != nil {
		setting.OldAgeEmployerRate = *req.OldAgeEmployerRate
	}
	if req.OldAgeCap != nil {
		setting.OldAgeCap = req.OldAgeCap
	}
	if req.PensionEmployeeRate != nil {
		setting.PensionEmployeeRate = *req.PensionEmployeeRate
	}
	if req.PensionEmployerRate != nil {
		setting.PensionEmployerRate = *req.PensionEmployerRate
	}
	if req.PensionCap != nil {
		setting.PensionCap = req.PensionCap
	}
	if req.AccidentRate != nil {
		setting.AccidentRate = *req.AccidentRate
	}
	if req.DeathRate != nil {
		setting.DeathRate = *req.DeathRate
	}
	if req.UseEffectiveRateMethod != nil {
		setting.UseEffectiveRateMethod = *req.UseEffectiveRateMethod
	}
	if req.PositionCostRate != nil {
		setting.PositionCostRate = *req.PositionCostRate
	}
	if req.PositionCostCap != nil {
		setting.PositionCostCap = *req.PositionCostCap
	}
	if req.CutoffDay != nil {
		setting.CutoffDay = *req.CutoffDay
	}
	if req.PaymentDay != nil {
		setting.PaymentDay = *req.PaymentDay
	}
	if req.ProrateMethod != nil {
		setting.ProrateMethod = payroll.ProrateMethod(*req.ProrateMethod)
	}
	if req.RoundingMethod != nil {
		setting.RoundingMethod = payroll.RoundingMethod(*req.RoundingMethod)
	}
	if req.RoundingPrecision != nil {
		setting.RoundingPrecision = *req.RoundingPrecision
	}
}

// ========== ALLOWANCES ==========

func (s *PayrollServiceImpl) CreateAllowance(ctx context.Context, req payroll.CreateAllowanceRequest) (payroll.AllowanceResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.AllowanceResponse{}, err
	}

	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.AllowanceResponse{}, err
	}

	if req.EmployeeID != nil {
		if _, err := s.employeeRepo.GetByID(ctx, *req.EmployeeID, companyID); err != nil {
			return payroll.AllowanceResponse{}, err
		}
	}

	effectiveDate, _ := time.Parse("2006-01-02", req.EffectiveDate)

	allowance := payroll.Allowance{
		CompanyID:     companyID,
		EmployeeID:    req.EmployeeID,
		Name:          req.Name,
		Amount:        req.Amount,
		Percentage:    req.Percentage,
		IsTaxable:     true,
		EffectiveDate: effectiveDate,
	}
	if req.CalculationBase != nil {
		allowance.CalculationBase = payroll.AllowanceBase(*req.CalculationBase)
	}
	if req.IsTaxable != nil {
		allowance.IsTaxable = *req.IsTaxable
	}
	if req.IsContributionObject != nil {
		allowance.IsContributionObject = *req.IsContributionObject
	}
	if req.IsProrated != nil {
		allowance.IsProrated = *req.IsProrated
	}
	if req.EndDate != nil {
		end, _ := time.Parse("2006-01-02", *req.EndDate)
		allowance.EndDate = &end
	}

	created, err := s.allowanceRepo.Create(ctx, allowance)
	if err != nil {
		return payroll.AllowanceResponse{}, err
	}

	return mapAllowanceToResponse(created), nil
}

func (s *PayrollServiceImpl) ListEmployeeAllowances(ctx context.Context, employeeID string) ([]payroll.AllowanceResponse, error) {
	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := s.employeeRepo.GetByID(ctx, employeeID, companyID); err != nil {
		return nil, err
	}

	allowances, err := s.allowanceRepo.GetByEmployeeID(ctx, employeeID, companyID)
	if err != nil {
		return nil, err
	}

	result := make([]payroll.AllowanceResponse, 0, len(allowances))
	for _, a := range allowances {
		result = append(result, mapAllowanceToResponse(a))
	}
	return result, nil
}

func (s *PayrollServiceImpl) DeleteAllowance(ctx context.Context, id string) error {
	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	if _, err := s.allowanceRepo.GetByID(ctx, id, companyID); err != nil {
		return err
	}

	return s.allowanceRepo.Delete(ctx, id, companyID)
}

// ========== CALCULATION ==========

// buildInput loads everything one employee's calculation needs.
func (s *PayrollServiceImpl) buildInput(ctx context.Context, emp employee.Employee, period payroll.Period, setting payroll.Setting) (CalculationInput, error) {
	allowances, err := s.allowanceRepo.GetByEmployeeID(ctx, emp.ID, emp.CompanyID)
	if err != nil {
		return CalculationInput{}, err
	}

	adjustments, err := s.adjustmentRepo.GetByEmployeeID(ctx, emp.ID, emp.CompanyID, []adjustment.Status{adjustment.StatusApproved})
	if err != nil {
		return CalculationInput{}, err
	}

	return CalculationInput{
		Employee:    emp,
		Period:      period,
		Setting:     setting,
		Allowances:  allowances,
		Adjustments: adjustments,
	}, nil
}

// Calculate runs the pipeline for one employee without persisting anything.
func (s *PayrollServiceImpl) Calculate(ctx context.Context, req payroll.CalculateRequest) (payroll.Breakdown, error) {
	if err := req.Validate(); err != nil {
		return payroll.Breakdown{}, err
	}

	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.Breakdown{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID, companyID)
	if err != nil {
		return payroll.Breakdown{}, err
	}
	if emp.EmploymentStatus != employee.EmploymentStatusActive {
		return payroll.Breakdown{}, employee.ErrEmployeeNotActive
	}

	setting, err := s.getOrCreateSetting(ctx, companyID)
	if err != nil {
		return payroll.Breakdown{}, err
	}

	period := payroll.Period{Year: req.PeriodYear, Month: req.PeriodMonth}
	input, err := s.buildInput(ctx, emp, period, setting)
	if err != nil {
		return payroll.Breakdown{}, err
	}
	input.UnpaidLeaveDays = req.UnpaidLeaveDays

	return s.calculator.Calculate(ctx, input)
}

// Generate runs the pipeline for every active employee and persists one
// record per employee. A failing employee never aborts the batch; the
// outcome per employee is reported in the response.
func (s *PayrollServiceImpl) Generate(ctx context.Context, req payroll.GenerateRequest) (payroll.GenerateResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.GenerateResponse{}, err
	}

	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.GenerateResponse{}, err
	}

	setting, err := s.getOrCreateSetting(ctx, companyID)
	if err != nil {
		return payroll.GenerateResponse{}, err
	}

	employees, err := s.employeeRepo.GetActiveByCompanyID(ctx, companyID)
	if err != nil {
		return payroll.GenerateResponse{}, err
	}

	period := payroll.Period{Year: req.PeriodYear, Month: req.PeriodMonth}
	resp := payroll.GenerateResponse{
		PeriodMonth: req.PeriodMonth,
		PeriodYear:  req.PeriodYear,
	}

	for _, emp := range employees {
		detail := payroll.GenerateDetail{EmployeeID: emp.ID}

		record, err := s.generateOne(ctx, emp, period, setting)
		if err != nil {
			msg := err.Error()
			detail.Error = &msg
			resp.Errors++
		} else {
			detail.RecordID = &record.ID
			resp.Generated++
		}
		resp.Details = append(resp.Details, detail)
	}

	return resp, nil
}

func (s *PayrollServiceImpl) generateOne(ctx context.Context, emp employee.Employee, period payroll.Period, setting payroll.Setting) (payroll.Record, error) {
	if _, err := s.recordRepo.GetByEmployeePeriod(ctx, emp.ID, period, emp.CompanyID); err == nil {
		return payroll.Record{}, payroll.ErrPayrollRecordAlreadyExists
	} else if !errors.Is(err, payroll.ErrPayrollRecordNotFound) {
		return payroll.Record{}, err
	}

	input, err := s.buildInput(ctx, emp, period, setting)
	if err != nil {
		return payroll.Record{}, err
	}

	breakdown, err := s.calculator.Calculate(ctx, input)
	if err != nil {
		return payroll.Record{}, err
	}

	record := recordFromBreakdown(emp.CompanyID, breakdown)
	record.Status = payroll.StatusCalculated

	return s.recordRepo.Create(ctx, record)
}

// ========== RECORDS ==========

func (s *PayrollServiceImpl) GetRecord(ctx context.Context, id string) (payroll.RecordResponse, error) {
	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.RecordResponse{}, err
	}

	record, err := s.recordRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return payroll.RecordResponse{}, err
	}

	return mapRecordToResponse(record), nil
}

func (s *PayrollServiceImpl) ListRecords(ctx context.Context, filter payroll.RecordFilter) (payroll.ListRecordResponse, error) {
	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.ListRecordResponse{}, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}

	records, total, err := s.recordRepo.List(ctx, companyID, filter)
	if err != nil {
		return payroll.ListRecordResponse{}, err
	}

	data := make([]payroll.RecordResponse, 0, len(records))
	for _, r := range records {
		data = append(data, mapRecordToResponse(r))
	}

	return payroll.ListRecordResponse{
		Data:       data,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// Recalculate recomputes a draft, calculated or rejected record against the
// current settings, allowances and adjustments.
func (s *PayrollServiceImpl) Recalculate(ctx context.Context, id string) (payroll.RecordResponse, error) {
	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.RecordResponse{}, err
	}

	record, err := s.recordRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return payroll.RecordResponse{}, err
	}
	if record.Status == payroll.StatusPaid {
		return payroll.RecordResponse{}, payroll.ErrPayrollRecordPaid
	}
	if !payroll.CanRecalculate(record.Status) {
		return payroll.RecordResponse{}, payroll.ErrInvalidTransition
	}

	emp, err := s.employeeRepo.GetByID(ctx, record.EmployeeID, companyID)
	if err != nil {
		return payroll.RecordResponse{}, err
	}

	setting, err := s.getOrCreateSetting(ctx, companyID)
	if err != nil {
		return payroll.RecordResponse{}, err
	}

	input, err := s.buildInput(ctx, emp, record.Period(), setting)
	if err != nil {
		return payroll.RecordResponse{}, err
	}

	breakdown, err := s.calculator.Calculate(ctx, input)
	if err != nil {
		return payroll.RecordResponse{}, err
	}

	applyBreakdown(&record, breakdown)
	record.Status = payroll.StatusCalculated
	record.RejectionReason = nil

	updated, err := s.recordRepo.UpdateBreakdown(ctx, record)
	if err != nil {
		return payroll.RecordResponse{}, err
	}

	return mapRecordToResponse(updated), nil
}

// Transition applies a lifecycle action. Approval additionally processes one
// installment on every loan the record charges, in the same transaction as
// the status write; a paid record never changes again.
func (s *PayrollServiceImpl) Transition(ctx context.Context, id string, req payroll.TransitionRequest) (payroll.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.RecordResponse{}, err
	}

	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.RecordResponse{}, err
	}

	action := payroll.Action(req.Action)
	actor := getActorFromContext(ctx)

	var updated payroll.Record
	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		record, err := s.recordRepo.GetByID(txCtx, id, companyID)
		if err != nil {
			return err
		}

		next, err := payroll.NextStatus(record.Status, action)
		if err != nil {
			return err
		}

		// Validation is the sanity pass: a record with negative net pay or
		// contributions above the current caps never becomes validated.
		if action == payroll.ActionValidate {
			if record.NetSalary.IsNegative() {
				return payroll.ErrNegativeNetPay
			}
			setting, err := s.getOrCreateSetting(txCtx, companyID)
			if err != nil {
				return err
			}
			if err := verifyContributionCaps(record.Contributions, setting); err != nil {
				return err
			}
		}

		if action == payroll.ActionApprove {
			if err := s.amortizeRecordLoans(txCtx, record); err != nil {
				return err
			}
		}

		var reason *string
		if action == payroll.ActionReject {
			reason = req.Reason
		}

		updated, err = s.recordRepo.UpdateStatus(txCtx, id, companyID, record.Status, next, reason, actor)
		return err
	})
	if err != nil {
		return payroll.RecordResponse{}, err
	}

	return mapRecordToResponse(updated), nil
}

// amortizeRecordLoans advances each loan charged by the record by one
// installment. Any amortizer error fails the approval: the record already
// deducted the installment from net, so a loan that cannot absorb it means
// the record is stale and must be recalculated.
func (s *PayrollServiceImpl) amortizeRecordLoans(ctx context.Context, record payroll.Record) error {
	for adjID := range record.LoanInstallmentDetail {
		adj, err := s.adjustmentRepo.GetByID(ctx, adjID, record.CompanyID)
		if err != nil {
			return fmt.Errorf("loan %s: %w", adjID, err)
		}

		adj, err = adjservice.ApplyInstallment(adj)
		if err != nil {
			return fmt.Errorf("loan %s: %w", adjID, err)
		}

		if _, err := s.adjustmentRepo.UpdateAmortization(ctx, adj); err != nil {
			return fmt.Errorf("loan %s: %w", adjID, err)
		}
	}
	return nil
}

// ========== MAPPERS ==========

func mapSettingToResponse(s payroll.Setting) payroll.SettingResponse {
	return payroll.SettingResponse{
		ID:                     s.ID,
		CompanyID:              s.CompanyID,
		HealthEmployeeRate:     s.HealthEmployeeRate,
		HealthEmployerRate:     s.HealthEmployerRate,
		HealthCap:              s.HealthCap,
		OldAgeEmployeeRate:     s.OldAgeEmployeeRate,
		OldAgeEmployerRate:     s.OldAgeEmployerRate,
		OldAgeCap:              s.OldAgeCap,
		PensionEmployeeRate:    s.PensionEmployeeRate,
		PensionEmployerRate:    s.PensionEmployerRate,
		PensionCap:             s.PensionCap,
		AccidentRate:           s.AccidentRate,
		DeathRate:              s.DeathRate,
		UseEffectiveRateMethod: s.UseEffectiveRateMethod,
		PositionCostRate:       s.PositionCostRate,
		PositionCostCap:        s.PositionCostCap,
		CutoffDay:              s.CutoffDay,
		PaymentDay:             s.PaymentDay,
		ProrateMethod:          string(s.ProrateMethod),
		Currency:               s.Currency,
		RoundingMethod:         string(s.RoundingMethod),
		RoundingPrecision:      s.RoundingPrecision,
	}
}

func mapAllowanceToResponse(a payroll.Allowance) payroll.AllowanceResponse {
	resp := payroll.AllowanceResponse{
		ID:                   a.ID,
		CompanyID:            a.CompanyID,
		EmployeeID:           a.EmployeeID,
		Name:                 a.Name,
		Amount:               a.Amount,
		Percentage:           a.Percentage,
		CalculationBase:      string(a.CalculationBase),
		IsTaxable:            a.IsTaxable,
		IsContributionObject: a.IsContributionObject,
		IsProrated:           a.IsProrated,
		EffectiveDate:        a.EffectiveDate.Format("2006-01-02"),
	}
	if a.EndDate != nil {
		end := a.EndDate.Format("2006-01-02")
		resp.EndDate = &end
	}
	return resp
}

func recordFromBreakdown(companyID string, b payroll.Breakdown) payroll.Record {
	record := payroll.Record{
		EmployeeID:  b.EmployeeID,
		CompanyID:   companyID,
		PeriodMonth: b.PeriodMonth,
		PeriodYear:  b.PeriodYear,
	}
	applyBreakdown(&record, b)
	return record
}

func applyBreakdown(record *payroll.Record, b payroll.Breakdown) {
	detail := make(map[string]decimal.Decimal, len(b.Allowances))
	for _, line := range b.Allowances {
		detail[line.Name] = line.Amount
	}

	record.BasicSalary = b.BasicSalary
	record.AllowanceTotal = b.AllowanceTotal
	record.AllowanceDetail = detail
	record.AdjustmentTotal = b.AdjustmentTotal
	record.GrossSalary = b.GrossSalary
	record.Contributions = b.Contributions
	record.EmployeeContribution = b.EmployeeContribution
	record.EmployerContribution = b.EmployerContribution
	record.PositionCost = b.PositionCost
	record.TaxableBase = b.TaxableBase
	record.TaxMethod = b.TaxMethod
	record.TaxAmount = b.TaxAmount
	record.LoanInstallmentTotal = b.LoanInstallmentTotal
	record.LoanInstallmentDetail = b.LoanInstallments
	record.NetSalary = b.NetSalary
}

func mapRecordToResponse(r payroll.Record) payroll.RecordResponse {
	resp := payroll.RecordResponse{
		ID:                   r.ID,
		EmployeeID:           r.EmployeeID,
		CompanyID:            r.CompanyID,
		PeriodMonth:          r.PeriodMonth,
		PeriodYear:           r.PeriodYear,
		BasicSalary:          r.BasicSalary,
		AllowanceTotal:       r.AllowanceTotal,
		AllowanceDetail:      r.AllowanceDetail,
		AdjustmentTotal:      r.AdjustmentTotal,
		GrossSalary:          r.GrossSalary,
		Contributions:        r.Contributions,
		EmployeeContribution: r.EmployeeContribution,
		EmployerContribution: r.EmployerContribution,
		PositionCost:         r.PositionCost,
		TaxableBase:          r.TaxableBase,
		TaxMethod:            string(r.TaxMethod),
		TaxAmount:            r.TaxAmount,
		LoanInstallmentTotal: r.LoanInstallmentTotal,
		NetSalary:            r.NetSalary,
		Status:               string(r.Status),
		RejectionReason:      r.RejectionReason,
	}
	if r.EmployeeName != nil {
		resp.EmployeeName = *r.EmployeeName
	}
	if r.ApprovedAt != nil {
		ts := r.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &ts
	}
	if r.PaidAt != nil {
		ts := r.PaidAt.Format(time.RFC3339)
		resp.PaidAt = &ts
	}
	return resp
}
