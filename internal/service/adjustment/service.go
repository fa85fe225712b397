package adjustment

import (
	"context"
	"fmt"
	"time"

	"github.com/gajihub/payroll-engine-go/internal/domain/adjustment"
	"github.com/gajihub/payroll-engine-go/internal/domain/employee"
	"github.com/gajihub/payroll-engine-go/internal/pkg/database"
	"github.com/gajihub/payroll-engine-go/internal/repository/postgresql"
	"github.com/go-chi/jwtauth/v5"
	"github.com/jackc/pgx/v5"
)

type AdjustmentServiceImpl struct {
	db             *database.DB
	adjustmentRepo adjustment.Repository
	employeeRepo   employee.EmployeeRepository
}

func NewAdjustmentService(
	db *database.DB,
	adjustmentRepo adjustment.Repository,
	employeeRepo employee.EmployeeRepository,
) adjustment.Service {
	return &AdjustmentServiceImpl{
		db:             db,
		adjustmentRepo: adjustmentRepo,
		employeeRepo:   employeeRepo,
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

func (s *AdjustmentServiceImpl) Create(ctx context.Context, req adjustment.CreateAdjustmentRequest) (adjustment.AdjustmentResponse, error) {
	if err := req.Validate(); err != nil {
		return adjustment.AdjustmentResponse{}, err
	}

	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return adjustment.AdjustmentResponse{}, err
	}

	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID, companyID); err != nil {
		return adjustment.AdjustmentResponse{}, err
	}

	effectiveDate, _ := time.Parse("2006-01-02", req.EffectiveDate)

	adj := adjustment.Adjustment{
		CompanyID:     companyID,
		EmployeeID:    req.EmployeeID,
		Type:          adjustment.Type(req.Type),
		Description:   req.Description,
		Amount:        req.Amount,
		EffectiveDate: effectiveDate,
		Status:        adjustment.StatusPending,
	}

	if req.IsRecurring != nil && *req.IsRecurring {
		adj.IsRecurring = true
		freq := adjustment.FrequencyMonthly
		if req.Frequency != nil {
			freq = adjustment.Frequency(*req.Frequency)
		}
		adj.Frequency = &freq
	}
	if req.RecurringEndDate != nil {
		end, _ := time.Parse("2006-01-02", *req.RecurringEndDate)
		adj.RecurringEndDate = &end
	}

	// Loan/advance types amortize: derive the installment schedule and force
	// monthly recurrence until the last installment's period.
	if adj.Type.IsAmortized() {
		adj.TotalLoanAmount = req.TotalLoanAmount
		adj.InstallmentAmount = req.InstallmentAmount
		adj.TotalInstallments = InstallmentCount(*req.TotalLoanAmount, *req.InstallmentAmount)
		adj.CurrentInstallment = 0
		balance := *req.TotalLoanAmount
		adj.RemainingBalance = &balance

		adj.IsRecurring = true
		freq := adjustment.FrequencyMonthly
		adj.Frequency = &freq
		end := effectiveDate.AddDate(0, adj.TotalInstallments, 0)
		adj.RecurringEndDate = &end
	}

	created, err := s.adjustmentRepo.Create(ctx, adj)
	if err != nil {
		return adjustment.AdjustmentResponse{}, err
	}

	return mapToResponse(created), nil
}

func (s *AdjustmentServiceImpl) GetByID(ctx context.Context, id string) (adjustment.AdjustmentResponse, error) {
	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return adjustment.AdjustmentResponse{}, err
	}

	adj, err := s.adjustmentRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return adjustment.AdjustmentResponse{}, err
	}

	return mapToResponse(adj), nil
}

func (s *AdjustmentServiceImpl) ListByEmployee(ctx context.Context, employeeID string) ([]adjustment.AdjustmentResponse, error) {
	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	adjustments, err := s.adjustmentRepo.GetByEmployeeID(ctx, employeeID, companyID, nil)
	if err != nil {
		return nil, err
	}

	result := make([]adjustment.AdjustmentResponse, 0, len(adjustments))
	for _, adj := range adjustments {
		result = append(result, mapToResponse(adj))
	}
	return result, nil
}

// Approve releases a pending adjustment into calculations. Loan balances
// are untouched here; installments advance only when a payroll record that
// charges them is approved.
func (s *AdjustmentServiceImpl) Approve(ctx context.Context, id string) (adjustment.AdjustmentResponse, error) {
	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return adjustment.AdjustmentResponse{}, err
	}

	var updated adjustment.Adjustment
	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		adj, err := s.adjustmentRepo.GetByID(txCtx, id, companyID)
		if err != nil {
			return err
		}
		if adj.Status != adjustment.StatusPending {
			return adjustment.ErrAlreadyProcessed
		}

		adj.Status = adjustment.StatusApproved
		updated, err = s.adjustmentRepo.UpdateStatus(txCtx, adj)
		return err
	})
	if err != nil {
		return adjustment.AdjustmentResponse{}, err
	}

	return mapToResponse(updated), nil
}

func (s *AdjustmentServiceImpl) Reject(ctx context.Context, id string, req adjustment.RejectAdjustmentRequest) (adjustment.AdjustmentResponse, error) {
	if err := req.Validate(); err != nil {
		return adjustment.AdjustmentResponse{}, err
	}

	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return adjustment.AdjustmentResponse{}, err
	}

	adj, err := s.adjustmentRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return adjustment.AdjustmentResponse{}, err
	}
	if adj.Status != adjustment.StatusPending {
		return adjustment.AdjustmentResponse{}, adjustment.ErrAlreadyProcessed
	}

	adj.Status = adjustment.StatusRejected
	adj.RejectionReason = &req.Reason

	updated, err := s.adjustmentRepo.UpdateStatus(ctx, adj)
	if err != nil {
		return adjustment.AdjustmentResponse{}, err
	}

	return mapToResponse(updated), nil
}

func mapToResponse(adj adjustment.Adjustment) adjustment.AdjustmentResponse {
	resp := adjustment.AdjustmentResponse{
		ID:                 adj.ID,
		CompanyID:          adj.CompanyID,
		EmployeeID:         adj.EmployeeID,
		Type:               string(adj.Type),
		Description:        adj.Description,
		Amount:             adj.Amount,
		IsRecurring:        adj.IsRecurring,
		EffectiveDate:      adj.EffectiveDate.Format("2006-01-02"),
		TotalLoanAmount:    adj.TotalLoanAmount,
		InstallmentAmount:  adj.InstallmentAmount,
		TotalInstallments:  adj.TotalInstallments,
		CurrentInstallment: adj.CurrentInstallment,
		RemainingBalance:   adj.RemainingBalance,
		Status:             string(adj.Status),
		RejectionReason:    adj.RejectionReason,
	}
	if adj.Frequency != nil {
		freq := string(*adj.Frequency)
		resp.Frequency = &freq
	}
	if adj.RecurringEndDate != nil {
		end := adj.RecurringEndDate.Format("2006-01-02")
		resp.RecurringEndDate = &end
	}
	return resp
}
