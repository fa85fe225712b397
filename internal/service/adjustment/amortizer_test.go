package adjustment

import (
	"testing"
	"time"

	"github.com/gajihub/payroll-engine-go/internal/domain/adjustment"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func testLoan(total, installment string, installments int) adjustment.Adjustment {
	freq := adjustment.FrequencyMonthly
	return adjustment.Adjustment{
		ID:                uuid.NewString(),
		Type:              adjustment.TypeLoan,
		Status:            adjustment.StatusApproved,
		IsRecurring:       true,
		Frequency:         &freq,
		EffectiveDate:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		TotalLoanAmount:   decPtr(total),
		InstallmentAmount: decPtr(installment),
		TotalInstallments: installments,
	}
}

func TestInstallmentCount(t *testing.T) {
	tests := []struct {
		name        string
		total       string
		installment string
		want        int
	}{
		{name: "exact division", total: "5000000", installment: "500000", want: 10},
		{name: "remainder rounds up", total: "5000000", installment: "600000", want: 9},
		{name: "single installment", total: "400000", installment: "500000", want: 1},
		{name: "zero installment", total: "5000000", installment: "0", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InstallmentCount(dec(tt.total), dec(tt.installment))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyInstallment_RunsToZeroExactly(t *testing.T) {
	loan := testLoan("1500000", "500000", 3)

	var err error
	for i := 1; i <= 3; i++ {
		loan, err = ApplyInstallment(loan)
		require.NoError(t, err)
		assert.Equal(t, i, loan.CurrentInstallment)
	}

	require.NotNil(t, loan.RemainingBalance)
	assert.True(t, loan.RemainingBalance.IsZero(), "balance = %s", loan.RemainingBalance)
	assert.True(t, loan.FullyPaid())
}

func TestApplyInstallment_FinalInstallmentClampsBalance(t *testing.T) {
	// 1.3M over 500k installments: three periods, last one only collects the
	// 300k remainder so the balance must clamp at zero rather than go to
	// -200k.
	loan := testLoan("1300000", "500000", InstallmentCount(dec("1300000"), dec("500000")))
	require.Equal(t, 3, loan.TotalInstallments)

	var err error
	loan, err = ApplyInstallment(loan)
	require.NoError(t, err)
	assert.True(t, loan.RemainingBalance.Equal(dec("800000")))

	loan, err = ApplyInstallment(loan)
	require.NoError(t, err)
	assert.True(t, loan.RemainingBalance.Equal(dec("300000")))

	loan, err = ApplyInstallment(loan)
	require.NoError(t, err)
	assert.True(t, loan.RemainingBalance.IsZero(), "balance = %s", loan.RemainingBalance)
}

func TestApplyInstallment_RejectsExhaustedLoan(t *testing.T) {
	loan := testLoan("1000000", "500000", 2)
	loan.CurrentInstallment = 2

	_, err := ApplyInstallment(loan)
	assert.ErrorIs(t, err, adjustment.ErrAlreadyAmortized)
}

func TestApplyInstallment_RejectsNonLoanTypes(t *testing.T) {
	bonus := adjustment.Adjustment{
		ID:            uuid.NewString(),
		Type:          adjustment.TypeBonus,
		Status:        adjustment.StatusApproved,
		Amount:        dec("1000000"),
		EffectiveDate: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	}

	_, err := ApplyInstallment(bonus)
	assert.ErrorIs(t, err, adjustment.ErrNotAmortizedType)
}

func TestApplyInstallment_RejectsPendingLoan(t *testing.T) {
	loan := testLoan("1000000", "500000", 2)
	loan.Status = adjustment.StatusPending

	_, err := ApplyInstallment(loan)
	assert.ErrorIs(t, err, adjustment.ErrInstallmentNotActive)
}

func TestApplyInstallment_RejectsMissingLoanFields(t *testing.T) {
	loan := testLoan("1000000", "500000", 2)
	loan.InstallmentAmount = nil

	_, err := ApplyInstallment(loan)
	assert.ErrorIs(t, err, adjustment.ErrInvalidLoanFields)
}
