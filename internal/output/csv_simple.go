package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rpgo/etfpension/internal/domain"
)

// CSVSummarizer implements the simple summary CSV output (one row per vehicle).
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(results *domain.Comparison) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Vehicle", "Months", "FinalAmount", "TotalInvested", "TotalTaxPaid", "Profit", "Better"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, r := range []domain.SimulationResult{results.ETF, results.Pension} {
		row := []string{
			r.Vehicle,
			intToString(r.Months),
			r.FinalAmount.StringFixed(2),
			r.TotalInvested.StringFixed(2),
			r.TotalTaxPaid.StringFixed(2),
			r.Profit().StringFixed(2),
			boolToString(r.Vehicle == results.Better),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
