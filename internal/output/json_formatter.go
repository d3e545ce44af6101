package output

import (
	json "github.com/goccy/go-json"

	"github.com/rpgo/etfpension/internal/domain"
)

// JSONFormatter serializes the comparison as pretty-printed JSON, with the
// recommendation appended.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(results *domain.Comparison) ([]byte, error) {
	report := struct {
		*domain.Comparison
		Recommendation Recommendation `json:"recommendation"`
	}{results, AnalyzeComparison(results)}
	return json.MarshalIndent(report, "", "  ")
}
