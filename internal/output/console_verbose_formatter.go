package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rpgo/etfpension/internal/domain"
)

// ConsoleVerboseFormatter renders the detailed console report with a
// year by year table per vehicle.
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string { return "console-verbose" }

func (c ConsoleVerboseFormatter) Format(results *domain.Comparison) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, "=================================================================================")
	fmt.Fprintln(&buf, "DETAILED ETF VS FUNDED PENSION ANALYSIS")
	fmt.Fprintln(&buf, "=================================================================================")
	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
	assumptions := results.Assumptions
	if len(assumptions) == 0 {
		assumptions = DefaultAssumptions
	}
	for _, a := range assumptions {
		fmt.Fprintf(&buf, "• %s\n", a)
	}
	fmt.Fprintln(&buf)
	fmt.Fprintf(&buf, "Horizon: %d months (%s)\n", results.Months, horizonSource(results))
	fmt.Fprintln(&buf)

	for i, r := range []domain.SimulationResult{results.ETF, results.Pension} {
		fmt.Fprintf(&buf, "VEHICLE %d: %s\n", i+1, strings.ToUpper(r.Vehicle))
		fmt.Fprintln(&buf, strings.Repeat("=", 50))
		writeYearTable(&buf, r)
		fmt.Fprintln(&buf)
		fmt.Fprintf(&buf, "  Final Amount:     %s\n", FormatCurrency(r.FinalAmount))
		fmt.Fprintf(&buf, "  Total Invested:   %s\n", FormatCurrency(r.TotalInvested))
		fmt.Fprintf(&buf, "  Total Tax Paid:   %s\n", FormatCurrency(r.TotalTaxPaid))
		fmt.Fprintf(&buf, "  Profit After Tax: %s\n", FormatCurrency(r.Profit()))
		fmt.Fprintln(&buf)
	}

	rec := AnalyzeComparison(results)
	if rec.Vehicle != "" {
		fmt.Fprintln(&buf, "SUMMARY")
		fmt.Fprintln(&buf, "=======")
		fmt.Fprintf(&buf, "Better vehicle: %s\n", rec.Vehicle)
		fmt.Fprintf(&buf, "Difference (ETF - pension): %s\n", FormatCurrency(results.Difference))
		fmt.Fprintf(&buf, "Advantage: %s (%s)\n", FormatCurrency(rec.Margin), FormatPercentage(rec.PercentageChange))
	}

	return buf.Bytes(), nil
}

func writeYearTable(buf *bytes.Buffer, r domain.SimulationResult) {
	fmt.Fprintf(buf, "%6s %6s %16s %16s %16s\n", "Year", "Month", "Balance", "Invested", "Tax Paid")
	fmt.Fprintln(buf, strings.Repeat("-", 64))
	for _, y := range r.Years {
		fmt.Fprintf(buf, "%6d %6d %16s %16s %16s\n",
			y.Year, y.Month, FormatCurrency(y.Balance), FormatCurrency(y.Invested), FormatCurrency(y.TaxPaid))
	}
}
