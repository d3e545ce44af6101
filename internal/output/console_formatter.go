package output

import (
	"bytes"
	"fmt"

	"github.com/rpgo/etfpension/internal/domain"
)

// ConsoleFormatter provides a concise console style summary via the formatter interface.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(results *domain.Comparison) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "ETF VS FUNDED PENSION")
	fmt.Fprintln(&buf, "================================")
	fmt.Fprintf(&buf, "Horizon: %d months (%s)\n", results.Months, horizonSource(results))
	fmt.Fprintln(&buf)
	fmt.Fprintf(&buf, "%-10s %16s %16s %16s %16s\n", "Vehicle", "Final", "Invested", "Tax", "Profit")
	for _, r := range []domain.SimulationResult{results.ETF, results.Pension} {
		fmt.Fprintf(&buf, "%-10s %16s %16s %16s %16s\n",
			r.Vehicle,
			FormatCurrency(r.FinalAmount),
			FormatCurrency(r.TotalInvested),
			FormatCurrency(r.TotalTaxPaid),
			FormatCurrency(r.Profit()),
		)
	}
	rec := AnalyzeComparison(results)
	if rec.Vehicle != "" {
		fmt.Fprintln(&buf)
		fmt.Fprintf(&buf, "Better: %s (Δ %s / %s)\n", rec.Vehicle, FormatCurrency(rec.Margin), FormatPercentage(rec.PercentageChange))
	}
	return buf.Bytes(), nil
}

func horizonSource(results *domain.Comparison) string {
	if !results.UsedHistory {
		return "fixed yearly interest"
	}
	if results.AverageReturn != nil {
		return "return series, mean monthly return " + FormatRate(*results.AverageReturn)
	}
	return "return series"
}
