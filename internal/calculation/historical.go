package calculation

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/rpgo/etfpension/internal/domain"
	"github.com/rpgo/etfpension/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// Column names of the MSCI World export the provider was first written for.
const (
	DefaultDateColumn  = "Date"
	DefaultValueColumn = "MSCI World"
)

var (
	ErrEmptySeries      = errors.New("historical series needs at least two data points")
	ErrNonPositiveValue = errors.New("index value must be positive")
	ErrNotChronological = errors.New("dates must be strictly increasing")
)

// HistoricalStatistics summarises the monthly returns of a series.
type HistoricalStatistics struct {
	Mean   decimal.Decimal `json:"mean"`
	StdDev decimal.Decimal `json:"std_dev"`
	Min    decimal.Decimal `json:"min"`
	Max    decimal.Decimal `json:"max"`
	Count  int             `json:"count"`
}

// HistoricalRateProvider turns a series of index values into monthly
// returns. It is read-only after construction.
type HistoricalRateProvider struct {
	source  string
	points  []domain.PricePoint
	returns []decimal.Decimal
	mean    decimal.Decimal
}

// NewHistoricalRateProvider loads the CSV file at path using the default
// value column (falling back to the second column).
func NewHistoricalRateProvider(path string) (*HistoricalRateProvider, error) {
	return NewHistoricalRateProviderWithColumn(path, "")
}

// NewHistoricalRateProviderWithColumn loads the CSV file at path, reading
// index values from valueColumn.
func NewHistoricalRateProviderWithColumn(path, valueColumn string) (*HistoricalRateProvider, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	p, err := NewHistoricalRateProviderFromReader(file, valueColumn)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	p.source = path
	return p, nil
}

// NewHistoricalRateProviderFromReader parses CSV rows from r. The first row
// is a header. The date column is "Date" or, if absent, the first column;
// the value column is valueColumn, then "MSCI World", then the second column.
// When every date parses, rows must be strictly chronological. Otherwise the
// dates are kept as labels only and the file order is taken as given.
func NewHistoricalRateProviderFromReader(r io.Reader, valueColumn string) (*HistoricalRateProvider, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("invalid CSV format: expected at least 2 columns")
	}

	dateIdx := columnIndex(header, DefaultDateColumn, 0)
	var valueIdx int
	if valueColumn != "" {
		valueIdx = columnIndex(header, valueColumn, -1)
		if valueIdx < 0 {
			return nil, fmt.Errorf("value column %q not found in header %v", valueColumn, header)
		}
	} else {
		valueIdx = columnIndex(header, DefaultValueColumn, 1)
		if valueIdx == dateIdx {
			valueIdx = 0
		}
	}

	var (
		points  []domain.PricePoint
		rows    []int
		datesOK = true
	)
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read data row %d: %w", line, err)
		}
		if isBlank(record) {
			continue
		}
		if len(record) <= dateIdx || len(record) <= valueIdx {
			return nil, fmt.Errorf("row %d: expected at least %d columns, got %d", line, max(dateIdx, valueIdx)+1, len(record))
		}

		// MSCI exports use comma thousands separators.
		value, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(record[valueIdx]), ",", ""))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid index value %q: %w", line, record[valueIdx], err)
		}
		if !value.IsPositive() {
			return nil, fmt.Errorf("row %d: %w, got %s", line, ErrNonPositiveValue, value)
		}

		date := strings.TrimSpace(record[dateIdx])
		t, err := dateutil.ParseDate(date)
		if err != nil {
			datesOK = false
		}
		points = append(points, domain.PricePoint{Date: date, Time: t, Value: value})
		rows = append(rows, line)
	}

	if !datesOK {
		// Unrecognised date formats are kept as labels in file order.
		for i := range points {
			points[i].Time = time.Time{}
		}
		return NewHistoricalRateProviderFromPoints(points)
	}
	for i := 1; i < len(points); i++ {
		if !points[i].Time.After(points[i-1].Time) {
			return nil, fmt.Errorf("row %d: %w (%s follows %s)", rows[i], ErrNotChronological, points[i].Date, points[i-1].Date)
		}
	}
	return NewHistoricalRateProviderFromPoints(points)
}

// NewHistoricalRateProviderFromPoints builds a provider from already parsed
// points, which must be in time order with positive values.
func NewHistoricalRateProviderFromPoints(points []domain.PricePoint) (*HistoricalRateProvider, error) {
	if len(points) < 2 {
		return nil, ErrEmptySeries
	}

	returns := make([]decimal.Decimal, 0, len(points)-1)
	for i := 0; i < len(points)-1; i++ {
		current := points[i].Value
		if !current.IsPositive() {
			return nil, fmt.Errorf("point %d: %w", i, ErrNonPositiveValue)
		}
		next := points[i+1].Value
		returns = append(returns, next.Sub(current).Div(current))
	}

	var sum decimal.Decimal
	for _, r := range returns {
		sum = sum.Add(r)
	}

	return &HistoricalRateProvider{
		points:  append([]domain.PricePoint(nil), points...),
		returns: returns,
		mean:    sum.Div(decimal.NewFromInt(int64(len(returns)))),
	}, nil
}

// Source returns the file the provider was loaded from, if any.
func (p *HistoricalRateProvider) Source() string { return p.source }

// Len returns the number of stored price points.
func (p *HistoricalRateProvider) Len() int { return len(p.points) }

// Available returns the number of monthly returns the history provides.
func (p *HistoricalRateProvider) Available() int { return len(p.returns) }

// Period returns the dates of the first and last price point. Both are zero
// when the file's dates were not recognised.
func (p *HistoricalRateProvider) Period() (time.Time, time.Time) {
	return p.points[0].Time, p.points[len(p.points)-1].Time
}

// Span returns the calendar months covered by the series. It equals
// Available() for a gap-free monthly series, and without dates.
func (p *HistoricalRateProvider) Span() int {
	first, last := p.Period()
	if first.IsZero() || last.IsZero() {
		return p.Available()
	}
	return dateutil.MonthsBetween(first, last)
}

// Points returns a copy of the stored price points.
func (p *HistoricalRateProvider) Points() []domain.PricePoint {
	return append([]domain.PricePoint(nil), p.points...)
}

// Returns returns a copy of the full return history, oldest first.
func (p *HistoricalRateProvider) Returns() []decimal.Decimal {
	return append([]decimal.Decimal(nil), p.returns...)
}

// CalculateAverageInterest returns the arithmetic mean of all monthly
// returns. It is the value used to pad requests longer than the history.
func (p *HistoricalRateProvider) CalculateAverageInterest() decimal.Decimal {
	return p.mean
}

// GetMonthlyInterestRates returns exactly months returns, oldest first. The
// most recent min(months, Available()) historical returns form the tail; if
// more months are requested than the history holds, the front is padded with
// the average return.
func (p *HistoricalRateProvider) GetMonthlyInterestRates(months int) []decimal.Decimal {
	if months <= 0 {
		return nil
	}
	rates := make([]decimal.Decimal, 0, months)

	available := len(p.returns)
	for i := 0; i < months-available; i++ {
		rates = append(rates, p.mean)
	}

	take := min(months, available)
	return append(rates, p.returns[available-take:]...)
}

// Statistics summarises the return history.
func (p *HistoricalRateProvider) Statistics() HistoricalStatistics {
	return summarizeReturns(p.returns)
}

// summarizeReturns computes the population statistics of a non-empty series.
func summarizeReturns(returns []decimal.Decimal) HistoricalStatistics {
	var sum decimal.Decimal
	for _, r := range returns {
		sum = sum.Add(r)
	}
	count := decimal.NewFromInt(int64(len(returns)))
	mean := sum.Div(count)

	lo, hi := returns[0], returns[0]
	var varianceSum decimal.Decimal
	for _, r := range returns {
		lo = decimal.Min(lo, r)
		hi = decimal.Max(hi, r)
		diff := r.Sub(mean)
		varianceSum = varianceSum.Add(diff.Mul(diff))
	}
	variance := varianceSum.Div(count)
	// Convert to float for sqrt calculation
	varianceFloat, _ := variance.Float64()

	return HistoricalStatistics{
		Mean:   mean,
		StdDev: decimal.NewFromFloat(math.Sqrt(varianceFloat)),
		Min:    lo,
		Max:    hi,
		Count:  len(returns),
	}
}

func columnIndex(header []string, name string, fallback int) int {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")), name) {
			return i
		}
	}
	return fallback
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
