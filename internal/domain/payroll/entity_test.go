package payroll

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPeriod_Bounds(t *testing.T) {
	p := Period{Year: 2026, Month: 2}

	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), p.Start())
	assert.Equal(t, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), p.End())
	assert.Equal(t, 28, p.CalendarDays())

	leap := Period{Year: 2028, Month: 2}
	assert.Equal(t, 29, leap.CalendarDays())
}

func TestPeriod_WorkingDays(t *testing.T) {
	// June 2026 starts on a Monday: 22 weekdays.
	assert.Equal(t, 22, Period{Year: 2026, Month: 6}.WorkingDays())
	// February 2026 starts on a Sunday: 20 weekdays.
	assert.Equal(t, 20, Period{Year: 2026, Month: 2}.WorkingDays())
}

func TestPeriod_IsValid(t *testing.T) {
	assert.True(t, Period{Year: 2026, Month: 1}.IsValid())
	assert.True(t, Period{Year: 2026, Month: 12}.IsValid())

	assert.False(t, Period{Year: 2026, Month: 0}.IsValid())
	assert.False(t, Period{Year: 2026, Month: 13}.IsValid())
	assert.False(t, Period{Year: 1999, Month: 6}.IsValid())
}

func TestSetting_Round(t *testing.T) {
	amount := decimal.RequireFromString("384250.5")

	round := Setting{RoundingMethod: RoundingRound, RoundingPrecision: 0}
	assert.True(t, round.Round(amount).Equal(decimal.RequireFromString("384251")))

	floor := Setting{RoundingMethod: RoundingFloor, RoundingPrecision: 0}
	assert.True(t, floor.Round(amount).Equal(decimal.RequireFromString("384250")))

	ceil := Setting{RoundingMethod: RoundingCeil, RoundingPrecision: 0}
	assert.True(t, ceil.Round(amount).Equal(decimal.RequireFromString("384251")))

	cents := Setting{RoundingMethod: RoundingRound, RoundingPrecision: 2}
	assert.True(t, cents.Round(decimal.RequireFromString("384250.567")).Equal(decimal.RequireFromString("384250.57")))
}

func TestAllowance_AppliesTo(t *testing.T) {
	p := Period{Year: 2026, Month: 6}

	active := Allowance{EffectiveDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	assert.True(t, active.AppliesTo(p))

	// Effective mid-period still counts for that period.
	midPeriod := Allowance{EffectiveDate: time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)}
	assert.True(t, midPeriod.AppliesTo(p))

	future := Allowance{EffectiveDate: time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)}
	assert.False(t, future.AppliesTo(p))

	endedBefore := time.Date(2026, 5, 31, 0, 0, 0, 0, time.UTC)
	expired := Allowance{
		EffectiveDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       &endedBefore,
	}
	assert.False(t, expired.AppliesTo(p))
}
