package output

import (
	"bytes"
	_ "embed"
	"html/template"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/rpgo/etfpension/internal/domain"
)

// HTMLFormatter produces a standalone HTML report.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"curr":  FormatCurrency,
	"pct":   FormatPercentage,
	"rate":  FormatRate,
	"upper": strings.ToUpper,
	"json": func(v interface{}) template.JS {
		b, _ := json.Marshal(v)
		return template.JS(b)
	},
}).Parse(htmlTemplateSource))

func (h HTMLFormatter) Format(results *domain.Comparison) ([]byte, error) {
	var buf bytes.Buffer

	// Use assumptions from results if available, otherwise fall back to defaults
	assumptions := results.Assumptions
	if len(assumptions) == 0 {
		assumptions = DefaultAssumptions
	}

	data := struct {
		*domain.Comparison
		Recommendation Recommendation
		Assumptions    []string
		Vehicles       []domain.SimulationResult
	}{results, AnalyzeComparison(results), assumptions, []domain.SimulationResult{results.ETF, results.Pension}}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
