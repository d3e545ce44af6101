package output

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rpgo/etfpension/internal/domain"
)

// Formatter renders a comparison. Implementations are pure.
type Formatter interface {
	Format(results *domain.Comparison) ([]byte, error)
	// Name is the canonical format name the formatter is registered under.
	Name() string
}

// registration binds a formatter to the extension of its report file.
type registration struct {
	formatter Formatter
	ext       string
}

// registry maps canonical names to formatters; aliases resolves the
// user-facing synonyms to those names.
var (
	registry = map[string]registration{}
	aliases  = map[string]string{
		"text":         "console",
		"txt":          "console",
		"verbose":      "console-verbose",
		"yearly":       "console-verbose",
		"csv-summary":  "csv",
		"csv-detailed": "detailed-csv",
		"html-report":  "html",
		"json-pretty":  "json",
	}
	// bundles name groups of reports written together by GenerateReport.
	bundles = map[string][]string{
		"all": {"console-verbose", "detailed-csv"},
	}
)

func register(f Formatter, ext string) {
	registry[f.Name()] = registration{formatter: f, ext: ext}
}

func init() {
	register(ConsoleFormatter{}, "txt")
	register(ConsoleVerboseFormatter{}, "txt")
	register(CSVSummarizer{}, "csv")
	register(CSVDetailedExporter{}, "csv")
	register(HTMLFormatter{}, "html")
	register(JSONFormatter{}, "json")
}

// NormalizeFormatName lowers and resolves aliases.
func NormalizeFormatName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := aliases[n]; ok {
		return canonical
	}
	return n
}

func resolve(name string) (registration, bool) {
	r, ok := registry[NormalizeFormatName(name)]
	return r, ok
}

// GetFormatterByName returns the formatter registered under name or one of
// its aliases, or nil.
func GetFormatterByName(name string) Formatter {
	if r, ok := resolve(name); ok {
		return r.formatter
	}
	return nil
}

// WriteFormatted formats results into etfpension_report_<timestamp>.<ext>
// in the working directory and returns the file name. The timestamp is the
// comparison's generation time.
func WriteFormatted(f Formatter, results *domain.Comparison, ext string) (string, error) {
	data, err := f.Format(results)
	if err != nil {
		return "", err
	}
	stamp := results.GeneratedAt
	if stamp.IsZero() {
		stamp = time.Now()
	}
	filename := fmt.Sprintf("etfpension_report_%s.%s", stamp.Format("20060102_150405"), ext)
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", err
	}
	return filename, nil
}

// AvailableFormatterNames returns the canonical formatter names.
func AvailableFormatterNames() []string {
	return sortedKeys(registry)
}

// AvailableFormatAliases returns the supported alias keys.
func AvailableFormatAliases() []string {
	return sortedKeys(aliases)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
