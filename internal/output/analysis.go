package output

import (
	"github.com/rpgo/etfpension/internal/domain"
	"github.com/shopspring/decimal"
)

// Recommendation encapsulates which vehicle ended ahead and by how much.
type Recommendation struct {
	Vehicle          string          `json:"vehicle"`
	Margin           decimal.Decimal `json:"margin"`
	PercentageChange decimal.Decimal `json:"percentage_change"` // relative to the weaker final amount
}

// AnalyzeComparison picks the vehicle with the higher final amount.
// Extracted from the console formatters for testability.
func AnalyzeComparison(results *domain.Comparison) Recommendation {
	if results == nil {
		return Recommendation{}
	}
	winner, loser := results.ETF, results.Pension
	if results.Better == domain.VehiclePension {
		winner, loser = results.Pension, results.ETF
	}
	margin := winner.FinalAmount.Sub(loser.FinalAmount)
	pct := decimal.Zero
	if !loser.FinalAmount.IsZero() {
		pct = margin.Div(loser.FinalAmount.Abs()).Mul(decimalHundred)
	}
	return Recommendation{Vehicle: results.Better, Margin: margin, PercentageChange: pct}
}
