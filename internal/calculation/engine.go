package calculation

import (
	"context"
	"fmt"
	"sync"

	"github.com/rpgo/etfpension/internal/domain"
	"github.com/shopspring/decimal"
)

// ComparisonEngine runs the ETF and the funded pension side by side on the
// same horizon and return assumptions.
type ComparisonEngine struct {
	Logger Logger
}

// NewComparisonEngine creates a new comparison engine
func NewComparisonEngine() *ComparisonEngine {
	return &ComparisonEngine{Logger: NopLogger{}}
}

// SetLogger sets the logger for the engine. If nil is provided, a no-op logger is used.
func (ce *ComparisonEngine) SetLogger(l Logger) { ce.Logger = loggerOrNop(l) }

// ReturnSeries resolves the monthly return series of a configuration. It
// returns nil in fixed-rate mode. When the series comes from historical data
// the average monthly return is returned as well.
func (ce *ComparisonEngine) ReturnSeries(config *domain.Configuration) ([]decimal.Decimal, *decimal.Decimal, error) {
	if len(config.MonthlyReturns) > 0 {
		return config.MonthlyReturns, nil, nil
	}
	if config.HistoricalData == "" {
		return nil, nil, nil
	}

	provider, err := NewHistoricalRateProviderWithColumn(config.HistoricalData, config.ValueColumn)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load historical data: %w", err)
	}
	months := config.Horizon()
	if months <= 0 {
		return nil, nil, fmt.Errorf("horizon must be positive, got %d months", months)
	}
	if months > provider.Available() {
		loggerOrNop(ce.Logger).Warnf("requested %d months but %s only covers %d; padding with the average return",
			months, config.HistoricalData, provider.Available())
	}
	avg := provider.CalculateAverageInterest()
	return provider.GetMonthlyInterestRates(months), &avg, nil
}

// RunComparison simulates both vehicles and summarises which ends higher.
func (ce *ComparisonEngine) RunComparison(ctx context.Context, config *domain.Configuration) (*domain.Comparison, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	series, avg, err := ce.ReturnSeries(config)
	if err != nil {
		return nil, err
	}

	months := config.Horizon()
	if len(series) == 0 {
		if pensionMonths := config.Pension.Resolve().Months(); months != pensionMonths {
			return nil, fmt.Errorf("horizon of %d months does not match the pension horizon of %d months", months, pensionMonths)
		}
	} else {
		months = len(series)
	}
	if months <= 0 {
		return nil, fmt.Errorf("horizon must be positive, got %d months", months)
	}

	etf := NewETFSimulator(config.ETF)
	etf.SetLogger(ce.Logger)
	pension := NewPensionSimulator(config.Pension)
	pension.SetLogger(ce.Logger)

	var (
		wg                   sync.WaitGroup
		etfResult, penResult domain.SimulationResult
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		etfResult = etf.RunSimulation(months, series)
	}()
	go func() {
		defer wg.Done()
		penResult = pension.RunSimulation(series)
	}()
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	diff := etfResult.FinalAmount.Sub(penResult.FinalAmount)
	better := domain.VehicleETF
	if diff.IsNegative() {
		better = domain.VehiclePension
	}
	loggerOrNop(ce.Logger).Infof("compared %d months: etf=%s pension=%s", months,
		etfResult.FinalAmount.StringFixed(2), penResult.FinalAmount.StringFixed(2))

	return &domain.Comparison{
		ETF:           etfResult,
		Pension:       penResult,
		Difference:    diff,
		Better:        better,
		Months:        months,
		UsedHistory:   len(series) > 0,
		AverageReturn: avg,
		GeneratedAt:   nowFunc(),
	}, nil
}
