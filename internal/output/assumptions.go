package output

import (
	"fmt"

	"github.com/rpgo/etfpension/internal/calculation"
	"github.com/rpgo/etfpension/internal/domain"
	"github.com/shopspring/decimal"
)

// DefaultAssumptions lists the tax rules every run applies.
var DefaultAssumptions = []string{
	"Capital gains tax: 26.375% (25% plus solidarity surcharge)",
	"Accumulating ETFs: Vorabpauschale taxed at each year end",
	"Distributing ETFs: dividends taxed at each year end above the saver's allowance",
	"ETF sale: gain taxed after partial exemption and allowance",
	"Pension capital payout: half of the profit taxed at the capital gains rate",
	"Pension annuity: profit taxed at the Ertragsanteil of the retirement age",
}

// GenerateAssumptions describes the inputs actually used for a run.
func GenerateAssumptions(etf domain.ResolvedETFConfig, pension domain.ResolvedPensionConfig) []string {
	mode := "distributing"
	if etf.Accumulating {
		mode = "accumulating"
	}
	return []string{
		fmt.Sprintf("ETF: %s %s fund, partial exemption %s, allowance %s (%s policy)",
			mode, etf.FundType, FormatRate(calculation.PartialExemption(etf.FundType)), FormatCurrency(etf.TaxAllowance), etf.AllowancePolicy),
		fmt.Sprintf("ETF: TER %s, base interest rate %s", FormatRate(etf.TER), FormatRate(etf.BaseInterestRate)),
		fmt.Sprintf("Pension: TER %s, insurance fee %s, %s payout at %d",
			FormatRate(pension.TER), FormatRate(pension.InsuranceFeeRate), pension.PayoutMode(), pension.RetirementAge),
		fmt.Sprintf("Pension: Ertragsanteil %d%%", calculation.ErtragsanteilPercent(pension.RetirementAge)),
	}
}

var decimalHundred = decimal.NewFromInt(100)
