package fixtures

import (
	"github.com/gajihub/payroll-engine-go/internal/domain/payroll"
	"github.com/gajihub/payroll-engine-go/internal/domain/tax"
	"github.com/shopspring/decimal"
)

// ==========================================
// HELPER FUNCTIONS
// ==========================================

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ==========================================
// COMPANY PAYROLL SETTING DEFAULTS
// ==========================================

// DefaultSetting returns the statutory baseline configuration a company
// starts from when it has never saved its own settings: 2024 contribution
// rates and caps, 5% position cost capped at 500k/month, effective-rate
// withholding on, full-month currency rounding.
func DefaultSetting(companyID string) payroll.Setting {
	return payroll.Setting{
		CompanyID: companyID,

		HealthEmployeeRate: dec("0.01"),
		HealthEmployerRate: dec("0.04"),
		HealthCap:          decPtr("12000000"),

		OldAgeEmployeeRate: dec("0.02"),
		OldAgeEmployerRate: dec("0.037"),
		OldAgeCap:          nil,

		PensionEmployeeRate: dec("0.01"),
		PensionEmployerRate: dec("0.02"),
		PensionCap:          decPtr("10042300"),

		AccidentRate: dec("0.0024"),
		DeathRate:    dec("0.003"),

		UseEffectiveRateMethod: true,

		PositionCostRate: dec("0.05"),
		PositionCostCap:  dec("500000"),

		OvertimeFirstHourMultiplier: dec("1.5"),
		OvertimeNextHourMultiplier:  dec("2"),

		CutoffDay:     25,
		PaymentDay:    28,
		ProrateMethod: payroll.ProrateCalendarDays,

		Currency:          "IDR",
		RoundingMethod:    payroll.RoundingRound,
		RoundingPrecision: 0,
	}
}

// ==========================================
// STATUTORY TAX TABLES
// ==========================================

// DefaultPTKPTable is the annual exemption table keyed by family status.
// Married statuses add 4.5M over single; the spouse-income variants add the
// single base on top; each dependent (max 3) adds another 4.5M.
func DefaultPTKPTable() []tax.PTKP {
	entries := []struct {
		status tax.PTKPStatus
		amount string
	}{
		{tax.PTKPTK0, "54000000"},
		{tax.PTKPTK1, "58500000"},
		{tax.PTKPTK2, "63000000"},
		{tax.PTKPTK3, "67500000"},
		{tax.PTKPK0, "58500000"},
		{tax.PTKPK1, "63000000"},
		{tax.PTKPK2, "67500000"},
		{tax.PTKPK3, "72000000"},
		{tax.PTKPKI0, "112500000"},
		{tax.PTKPKI1, "117000000"},
		{tax.PTKPKI2, "121500000"},
		{tax.PTKPKI3, "126000000"},
	}

	table := make([]tax.PTKP, 0, len(entries))
	for _, e := range entries {
		table = append(table, tax.PTKP{
			Status:       e.status,
			AnnualAmount: dec(e.amount),
		})
	}
	return table
}

// DefaultBrackets is the progressive annual schedule effective since the
// 2022 harmonization law. The last bracket is open-ended.
func DefaultBrackets() []tax.Bracket {
	return []tax.Bracket{
		{MinIncome: dec("0"), MaxIncome: decPtr("60000000"), Rate: dec("0.05")},
		{MinIncome: dec("60000000"), MaxIncome: decPtr("250000000"), Rate: dec("0.15")},
		{MinIncome: dec("250000000"), MaxIncome: decPtr("500000000"), Rate: dec("0.25")},
		{MinIncome: dec("500000000"), MaxIncome: decPtr("5000000000"), Rate: dec("0.30")},
		{MinIncome: dec("5000000000"), MaxIncome: nil, Rate: dec("0.35")},
	}
}

// DefaultTERBands returns a compact per-category monthly effective-rate
// table for development seeds. Bands are contiguous and the last one in
// each category is open-ended. Production deployments load the full
// regulation tables through migrations instead.
func DefaultTERBands(category tax.TERCategory) []tax.TERBand {
	var rows []struct{ min, max, rate string }

	switch category {
	case tax.TERCategoryA:
		rows = []struct{ min, max, rate string }{
			{"0", "5400000", "0"},
			{"5400000", "6500000", "0.005"},
			{"6500000", "8500000", "0.01"},
			{"8500000", "10050000", "0.015"},
			{"10050000", "12500000", "0.02"},
			{"12500000", "16000000", "0.025"},
			{"16000000", "19750000", "0.04"},
			{"19750000", "26450000", "0.06"},
			{"26450000", "34950000", "0.09"},
			{"34950000", "62200000", "0.14"},
			{"62200000", "", "0.34"},
		}
	case tax.TERCategoryB:
		rows = []struct{ min, max, rate string }{
			{"0", "6200000", "0"},
			{"6200000", "7500000", "0.005"},
			{"7500000", "9650000", "0.01"},
			{"9650000", "11600000", "0.015"},
			{"11600000", "14150000", "0.02"},
			{"14150000", "18450000", "0.03"},
			{"18450000", "23350000", "0.05"},
			{"23350000", "31400000", "0.08"},
			{"31400000", "42050000", "0.12"},
			{"42050000", "71200000", "0.18"},
			{"71200000", "", "0.34"},
		}
	case tax.TERCategoryC:
		rows = []struct{ min, max, rate string }{
			{"0", "6600000", "0"},
			{"6600000", "8100000", "0.005"},
			{"8100000", "10950000", "0.01"},
			{"10950000", "13750000", "0.02"},
			{"13750000", "17450000", "0.03"},
			{"17450000", "22700000", "0.05"},
			{"22700000", "30100000", "0.08"},
			{"30100000", "41100000", "0.12"},
			{"41100000", "69700000", "0.18"},
			{"69700000", "", "0.34"},
		}
	default:
		return nil
	}

	bands := make([]tax.TERBand, 0, len(rows))
	for _, r := range rows {
		band := tax.TERBand{
			Category:  category,
			MinIncome: dec(r.min),
			Rate:      dec(r.rate),
		}
		if r.max != "" {
			band.MaxIncome = decPtr(r.max)
		}
		bands = append(bands, band)
	}
	return bands
}
