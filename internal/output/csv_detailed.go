package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rpgo/etfpension/internal/domain"
)

// CSVDetailedExporter provides the yearly snapshots of both vehicles.
type CSVDetailedExporter struct{}

func (c CSVDetailedExporter) Name() string { return "detailed-csv" }

func (c CSVDetailedExporter) Format(results *domain.Comparison) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Vehicle", "Year", "Month", "Balance", "Invested", "TaxPaid", "Final"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, r := range []domain.SimulationResult{results.ETF, results.Pension} {
		for i, yr := range r.Years {
			row := []string{
				r.Vehicle,
				intToString(yr.Year),
				intToString(yr.Month),
				yr.Balance.StringFixed(2),
				yr.Invested.StringFixed(2),
				yr.TaxPaid.StringFixed(2),
				boolToString(i == len(r.Years)-1),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
