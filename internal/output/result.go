package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/rpgo/etfpension/internal/domain"
)

// RenderResult writes a single vehicle run to w. Only the console, json and
// csv formats (and their aliases) apply to a single run; the verbose console
// format is accepted as console.
func RenderResult(w io.Writer, r domain.SimulationResult, format string) error {
	var (
		data []byte
		err  error
	)
	switch name := NormalizeFormatName(format); name {
	case "console", "console-verbose":
		data = formatResultConsole(r)
	case "json":
		data, err = json.MarshalIndent(r, "", "  ")
	case "csv", "detailed-csv":
		data, err = formatResultCSV(r)
	default:
		return fmt.Errorf("%w for a single run: %q. Try one of: console, json, csv", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func formatResultConsole(r domain.SimulationResult) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s SIMULATION (%d months)\n", strings.ToUpper(r.Vehicle), r.Months)
	fmt.Fprintln(&buf, strings.Repeat("=", 50))
	writeYearTable(&buf, r)
	fmt.Fprintln(&buf)
	fmt.Fprintf(&buf, "Total Tax Paid:   %s\n", FormatCurrency(r.TotalTaxPaid))
	fmt.Fprintf(&buf, "Profit After Tax: %s\n", FormatCurrency(r.Profit()))
	fmt.Fprintf(&buf, "Total Invested:   %s\n", FormatCurrency(r.TotalInvested))
	fmt.Fprintf(&buf, "Final Amount:     %s\n", FormatCurrency(r.FinalAmount))
	return buf.Bytes()
}

func formatResultCSV(r domain.SimulationResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write([]string{"Year", "Month", "Balance", "Invested", "TaxPaid"}); err != nil {
		return nil, err
	}
	for _, y := range r.Years {
		row := []string{intToString(y.Year), intToString(y.Month), y.Balance.StringFixed(2), y.Invested.StringFixed(2), y.TaxPaid.StringFixed(2)}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
