package adjustment

import (
	"testing"
	"time"

	"github.com/gajihub/payroll-engine-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func fieldsOf(t *testing.T, err error) map[string]bool {
	t.Helper()
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := make(map[string]bool, len(verrs))
	for _, e := range verrs {
		fields[e.Field] = true
	}
	return fields
}

func TestCreateAdjustmentRequest_Validate(t *testing.T) {
	t.Run("bonus", func(t *testing.T) {
		req := CreateAdjustmentRequest{
			EmployeeID:    "0192aef3-4c6e-7890-a1b2-c3d4e5f60789",
			Type:          "bonus",
			Amount:        decimal.RequireFromString("1000000"),
			EffectiveDate: "2026-06-01",
		}
		assert.NoError(t, req.Validate())
	})

	t.Run("loan with installment plan", func(t *testing.T) {
		req := CreateAdjustmentRequest{
			EmployeeID:        "0192aef3-4c6e-7890-a1b2-c3d4e5f60789",
			Type:              "loan",
			EffectiveDate:     "2026-06-01",
			TotalLoanAmount:   decPtr("5000000"),
			InstallmentAmount: decPtr("500000"),
		}
		assert.NoError(t, req.Validate())
	})

	t.Run("loan without installment fields", func(t *testing.T) {
		req := CreateAdjustmentRequest{
			EmployeeID:    "0192aef3-4c6e-7890-a1b2-c3d4e5f60789",
			Type:          "advance",
			EffectiveDate: "2026-06-01",
		}
		fields := fieldsOf(t, req.Validate())
		assert.True(t, fields["total_loan_amount"])
	})

	t.Run("loan with non-positive plan amounts", func(t *testing.T) {
		req := CreateAdjustmentRequest{
			EmployeeID:        "0192aef3-4c6e-7890-a1b2-c3d4e5f60789",
			Type:              "loan",
			EffectiveDate:     "2026-06-01",
			TotalLoanAmount:   decPtr("0"),
			InstallmentAmount: decPtr("-500000"),
		}
		fields := fieldsOf(t, req.Validate())
		assert.True(t, fields["total_loan_amount"])
		assert.True(t, fields["installment_amount"])
	})

	t.Run("unknown type and bad dates", func(t *testing.T) {
		end := "June 30th"
		req := CreateAdjustmentRequest{
			Type:             "overtime",
			EffectiveDate:    "2026-6-1",
			RecurringEndDate: &end,
		}
		fields := fieldsOf(t, req.Validate())
		assert.True(t, fields["employee_id"])
		assert.True(t, fields["type"])
		assert.True(t, fields["effective_date"])
		assert.True(t, fields["recurring_end_date"])
	})

	t.Run("negative amount", func(t *testing.T) {
		req := CreateAdjustmentRequest{
			EmployeeID:    "0192aef3-4c6e-7890-a1b2-c3d4e5f60789",
			Type:          "deduction",
			Amount:        decimal.RequireFromString("-100000"),
			EffectiveDate: "2026-06-01",
		}
		fields := fieldsOf(t, req.Validate())
		assert.True(t, fields["amount"])
	})
}

func TestRejectAdjustmentRequest_Validate(t *testing.T) {
	assert.NoError(t, (&RejectAdjustmentRequest{Reason: "duplicate request"}).Validate())
	assert.Error(t, (&RejectAdjustmentRequest{}).Validate())
	assert.Error(t, (&RejectAdjustmentRequest{Reason: "  "}).Validate())
}

func TestAdjustment_AppliesTo(t *testing.T) {
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	freq := FrequencyMonthly

	t.Run("one-off inside the period", func(t *testing.T) {
		adj := Adjustment{Type: TypeBonus, EffectiveDate: time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)}
		assert.True(t, adj.AppliesTo(start, end))
	})

	t.Run("one-off from an earlier period", func(t *testing.T) {
		adj := Adjustment{Type: TypeBonus, EffectiveDate: time.Date(2026, 5, 15, 0, 0, 0, 0, time.UTC)}
		assert.False(t, adj.AppliesTo(start, end))
	})

	t.Run("one-off from a later period", func(t *testing.T) {
		adj := Adjustment{Type: TypeBonus, EffectiveDate: time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)}
		assert.False(t, adj.AppliesTo(start, end))
	})

	t.Run("recurring without end date", func(t *testing.T) {
		adj := Adjustment{
			Type:          TypeLoan,
			IsRecurring:   true,
			Frequency:     &freq,
			EffectiveDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		}
		assert.True(t, adj.AppliesTo(start, end))
	})

	t.Run("recurring ended before the period", func(t *testing.T) {
		rend := time.Date(2026, 5, 31, 0, 0, 0, 0, time.UTC)
		adj := Adjustment{
			Type:             TypeLoan,
			IsRecurring:      true,
			Frequency:        &freq,
			EffectiveDate:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			RecurringEndDate: &rend,
		}
		assert.False(t, adj.AppliesTo(start, end))
	})
}

func TestAdjustment_PeriodCharge(t *testing.T) {
	bonus := Adjustment{Type: TypeBonus, Amount: decimal.RequireFromString("750000")}
	assert.True(t, bonus.PeriodCharge().Equal(decimal.RequireFromString("750000")))

	deduction := Adjustment{Type: TypeDeduction, Amount: decimal.RequireFromString("200000")}
	assert.True(t, deduction.PeriodCharge().Equal(decimal.RequireFromString("-200000")))

	// Loans never enter gross; their charge is the installment, handled
	// separately.
	loan := Adjustment{Type: TypeLoan, Amount: decimal.RequireFromString("5000000")}
	assert.True(t, loan.PeriodCharge().IsZero())
}

func TestAdjustment_FullyPaid(t *testing.T) {
	loan := Adjustment{Type: TypeLoan, TotalInstallments: 10, CurrentInstallment: 9}
	assert.False(t, loan.FullyPaid())

	loan.CurrentInstallment = 10
	assert.True(t, loan.FullyPaid())

	bonus := Adjustment{Type: TypeBonus, TotalInstallments: 1, CurrentInstallment: 1}
	assert.False(t, bonus.FullyPaid())
}
