package tax

import (
	"time"

	"github.com/shopspring/decimal"
)

// PTKPStatus - statutory marital/dependent code.
type PTKPStatus string

const (
	PTKPTK0 PTKPStatus = "TK/0"
	PTKPTK1 PTKPStatus = "TK/1"
	PTKPTK2 PTKPStatus = "TK/2"
	PTKPTK3 PTKPStatus = "TK/3"
	PTKPK0  PTKPStatus = "K/0"
	PTKPK1  PTKPStatus = "K/1"
	PTKPK2  PTKPStatus = "K/2"
	PTKPK3  PTKPStatus = "K/3"
	PTKPKI0 PTKPStatus = "K/I/0"
	PTKPKI1 PTKPStatus = "K/I/1"
	PTKPKI2 PTKPStatus = "K/I/2"
	PTKPKI3 PTKPStatus = "K/I/3"
)

// PTKP - annual non-taxable income for a status. Status is globally unique.
type PTKP struct {
	ID           string
	Status       PTKPStatus
	AnnualAmount decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Bracket - one row of the progressive annual table. MaxIncome nil means the
// bracket is open-ended; rows are ordered, contiguous and non-overlapping
// with [MinIncome, MaxIncome) semantics.
type Bracket struct {
	ID        string
	MinIncome decimal.Decimal
	MaxIncome *decimal.Decimal
	Rate      decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Contains reports whether income falls in this bracket
// (lower-bound-inclusive, upper-bound-exclusive).
func (b Bracket) Contains(income decimal.Decimal) bool {
	if income.LessThan(b.MinIncome) {
		return false
	}
	return b.MaxIncome == nil || income.LessThan(*b.MaxIncome)
}

// TERCategory - effective-rate bucket derived from PTKP status.
type TERCategory string

const (
	TERCategoryA TERCategory = "A"
	TERCategoryB TERCategory = "B"
	TERCategoryC TERCategory = "C"
)

// terCategoryByStatus is the fixed statutory mapping from PTKP status to TER
// category. Combined-income statuses follow the highest bucket.
var terCategoryByStatus = map[PTKPStatus]TERCategory{
	PTKPTK0: TERCategoryA,
	PTKPTK1: TERCategoryA,
	PTKPK0:  TERCategoryA,
	PTKPTK2: TERCategoryB,
	PTKPTK3: TERCategoryB,
	PTKPK1:  TERCategoryB,
	PTKPK2:  TERCategoryB,
	PTKPK3:  TERCategoryC,
	PTKPKI0: TERCategoryC,
	PTKPKI1: TERCategoryC,
	PTKPKI2: TERCategoryC,
	PTKPKI3: TERCategoryC,
}

// CategoryForStatus maps a PTKP status to its TER category.
func CategoryForStatus(status PTKPStatus) (TERCategory, error) {
	cat, ok := terCategoryByStatus[status]
	if !ok {
		return "", ErrTERCategoryUnknown
	}
	return cat, nil
}

// TERBand - one monthly effective-rate row. Bands of a category are ordered,
// contiguous and non-overlapping; the final band has MaxIncome nil.
type TERBand struct {
	ID        string
	Category  TERCategory
	MinIncome decimal.Decimal
	MaxIncome *decimal.Decimal
	Rate      decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (b TERBand) Contains(income decimal.Decimal) bool {
	if income.LessThan(b.MinIncome) {
		return false
	}
	return b.MaxIncome == nil || income.LessThan(*b.MaxIncome)
}
