package calculation

import (
	"github.com/rpgo/etfpension/internal/domain"
	"github.com/shopspring/decimal"
)

// TAX CALCULATION ASSUMPTIONS:
//
// 1. Capital gains: Abgeltungsteuer 25% plus 5.5% Solidaritätszuschlag on
//    the tax, 26.375% in total. Church tax is not modelled.
//
// 2. Teilfreistellung: 30% of fund income is exempt for equity funds, 15% for
//    mixed funds, nothing for other funds.
//
// 3. Vorabpauschale: Basisertrag = value at start of year × Basiszins × 0.7,
//    capped at the actual gain of the year. The Sparerpauschbetrag is not
//    offset against it.
//
// 4. Funded pension: capital payouts after 12 years and age 62 are taxed on
//    half of the gain; annuities on the Ertragsanteil for the age at which
//    payments start. Both use the flat capital gains rate as a stand-in for
//    the personal income tax rate.

var (
	monthsPerYear = decimal.NewFromInt(12)
	one           = decimal.NewFromInt(1)
	hundred       = decimal.NewFromInt(100)

	// CapitalGainsTaxRate is 25% Abgeltungsteuer + 5.5% Soli on it.
	CapitalGainsTaxRate = decimal.RequireFromString("0.26375")

	// BasisertragFactor scales the Basiszins when computing the Vorabpauschale.
	BasisertragFactor = decimal.RequireFromString("0.7")

	// CapitalPayoutTaxableShare is the share of a capital payout's gain that is taxed.
	CapitalPayoutTaxableShare = decimal.RequireFromString("0.5")
)

// balancePrecision bounds the fractional digits carried between months.
const balancePrecision = 16

// DefaultErtragsanteil is used for retirement ages missing from the table.
const DefaultErtragsanteil = 17

// ertragsanteilTable maps the age at which annuity payments start to the
// taxable percentage of each payment.
var ertragsanteilTable = []struct {
	Age     int
	Percent int
}{
	{60, 20},
	{62, 19},
	{65, 18},
	{67, 17},
	{70, 15},
	{75, 11},
	{80, 7},
}

// ErtragsanteilPercent returns the taxable percentage of an annuity starting
// at the given age. Only the listed ages are recognised; every other age gets
// DefaultErtragsanteil.
func ErtragsanteilPercent(age int) int {
	for _, row := range ertragsanteilTable {
		if row.Age == age {
			return row.Percent
		}
	}
	return DefaultErtragsanteil
}

// ErtragsanteilFraction is ErtragsanteilPercent as a fraction.
func ErtragsanteilFraction(age int) decimal.Decimal {
	return decimal.NewFromInt(int64(ErtragsanteilPercent(age))).Div(hundred)
}

// PartialExemption returns the Teilfreistellung fraction for a fund type.
func PartialExemption(ft domain.FundType) decimal.Decimal {
	switch ft {
	case domain.FundTypeEquity:
		return decimal.RequireFromString("0.30")
	case domain.FundTypeMixed:
		return decimal.RequireFromString("0.15")
	default:
		return decimal.Zero
	}
}

// VorabpauschaleTax computes the advance lump-sum tax for one year of an
// accumulating fund.
func VorabpauschaleTax(startValue, endValue, baseInterestRate, exemption decimal.Decimal) decimal.Decimal {
	yearlyReturn := endValue.Sub(startValue)
	basisertrag := startValue.Mul(baseInterestRate).Mul(BasisertragFactor)
	taxable := decimal.Min(yearlyReturn, basisertrag)
	if !taxable.IsPositive() {
		return decimal.Zero
	}
	return taxable.Mul(one.Sub(exemption)).Mul(CapitalGainsTaxRate)
}

// GainsTax taxes a gain after partial exemption and allowance. It returns the
// tax and the part of the allowance that was used up.
func GainsTax(gain, exemption, allowance decimal.Decimal) (tax, allowanceUsed decimal.Decimal) {
	reduced := gain.Mul(one.Sub(exemption))
	allowanceUsed = decimal.Max(decimal.Zero, decimal.Min(reduced, allowance))
	taxable := decimal.Max(decimal.Zero, reduced.Sub(allowance))
	return taxable.Mul(CapitalGainsTaxRate), allowanceUsed
}

// PensionPayoutTax taxes the gain of a funded pension at payout. A loss
// yields a negative tax, which is credited to the payout.
func PensionPayoutTax(profit decimal.Decimal, mode domain.PayoutMode, retirementAge int) decimal.Decimal {
	share := CapitalPayoutTaxableShare
	if mode == domain.PayoutAnnuity {
		share = ErtragsanteilFraction(retirementAge)
	}
	return profit.Mul(share).Mul(CapitalGainsTaxRate)
}
