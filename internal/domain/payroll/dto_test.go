package payroll

import (
	"testing"

	"github.com/gajihub/payroll-engine-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int      { return &i }

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

func TestUpdateSettingRequest_Validate(t *testing.T) {
	t.Run("empty request is valid", func(t *testing.T) {
		req := UpdateSettingRequest{}
		assert.NoError(t, req.Validate())
	})

	t.Run("rates must be fractions", func(t *testing.T) {
		req := UpdateSettingRequest{
			HealthEmployeeRate: decPtr("1.5"),
			AccidentRate:       decPtr("-0.01"),
		}
		fields := fieldsOf(t, req.Validate())
		assert.True(t, fields["health_employee_rate"])
		assert.True(t, fields["accident_rate"])
	})

	t.Run("cutoff and payment day range", func(t *testing.T) {
		req := UpdateSettingRequest{CutoffDay: intPtr(0), PaymentDay: intPtr(29)}
		fields := fieldsOf(t, req.Validate())
		assert.True(t, fields["cutoff_day"])
		assert.True(t, fields["payment_day"])
	})

	t.Run("enums", func(t *testing.T) {
		req := UpdateSettingRequest{
			ProrateMethod:  strPtr("business_days"),
			RoundingMethod: strPtr("banker"),
		}
		fields := fieldsOf(t, req.Validate())
		assert.True(t, fields["prorate_method"])
		assert.True(t, fields["rounding_method"])
	})
}

func TestCreateAllowanceRequest_Validate(t *testing.T) {
	valid := func() CreateAllowanceRequest {
		return CreateAllowanceRequest{
			Name:          "Tunjangan Makan",
			Amount:        decPtr("500000"),
			EffectiveDate: "2026-01-01",
		}
	}

	t.Run("fixed amount allowance", func(t *testing.T) {
		req := valid()
		assert.NoError(t, req.Validate())
	})

	t.Run("amount and percentage are exclusive", func(t *testing.T) {
		req := valid()
		req.Percentage = decPtr("0.1")
		req.CalculationBase = strPtr(string(AllowanceBaseGross))
		fields := fieldsOf(t, req.Validate())
		assert.True(t, fields["amount"])
	})

	t.Run("neither amount nor percentage", func(t *testing.T) {
		req := valid()
		req.Amount = nil
		fields := fieldsOf(t, req.Validate())
		assert.True(t, fields["amount"])
	})

	t.Run("percentage requires a base", func(t *testing.T) {
		req := valid()
		req.Amount = nil
		req.Percentage = decPtr("0.1")
		fields := fieldsOf(t, req.Validate())
		assert.True(t, fields["calculation_base"])
	})

	t.Run("unknown base", func(t *testing.T) {
		req := valid()
		req.CalculationBase = strPtr("net")
		fields := fieldsOf(t, req.Validate())
		assert.True(t, fields["calculation_base"])
	})

	t.Run("bad dates", func(t *testing.T) {
		req := valid()
		req.EffectiveDate = "01/01/2026"
		req.EndDate = strPtr("2026-13-40")
		fields := fieldsOf(t, req.Validate())
		assert.True(t, fields["effective_date"])
		assert.True(t, fields["end_date"])
	})
}

func TestCalculateRequest_Validate(t *testing.T) {
	req := CalculateRequest{EmployeeID: "0192aef3-4c6e-7890-a1b2-c3d4e5f60789", PeriodMonth: 6, PeriodYear: 2026}
	assert.NoError(t, req.Validate())

	req = CalculateRequest{EmployeeID: "0192aef3-4c6e-7890-a1b2-c3d4e5f60789", PeriodMonth: 6, PeriodYear: 2026, UnpaidLeaveDays: 4}
	assert.NoError(t, req.Validate())

	req = CalculateRequest{PeriodMonth: 0, PeriodYear: 2026}
	fields := fieldsOf(t, req.Validate())
	assert.True(t, fields["employee_id"])
	assert.True(t, fields["period"])

	req = CalculateRequest{EmployeeID: "0192aef3-4c6e-7890-a1b2-c3d4e5f60789", PeriodMonth: 6, PeriodYear: 2026, UnpaidLeaveDays: -1}
	fields = fieldsOf(t, req.Validate())
	assert.True(t, fields["unpaid_leave_days"])
}

func TestGenerateRequest_Validate(t *testing.T) {
	assert.NoError(t, (&GenerateRequest{PeriodMonth: 12, PeriodYear: 2026}).Validate())
	assert.Error(t, (&GenerateRequest{PeriodMonth: 13, PeriodYear: 2026}).Validate())
	assert.Error(t, (&GenerateRequest{PeriodMonth: 1, PeriodYear: 1999}).Validate())
}

func TestTransitionRequest_Validate(t *testing.T) {
	assert.NoError(t, (&TransitionRequest{Action: "approve"}).Validate())
	assert.NoError(t, (&TransitionRequest{Action: "reject", Reason: strPtr("net pay mismatch")}).Validate())

	assert.Error(t, (&TransitionRequest{Action: "archive"}).Validate())
	assert.Error(t, (&TransitionRequest{Action: "reject"}).Validate())
	assert.Error(t, (&TransitionRequest{Action: "reject", Reason: strPtr("   ")}).Validate())
}
