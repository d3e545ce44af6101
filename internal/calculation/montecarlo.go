package calculation

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"github.com/rpgo/etfpension/internal/domain"
	"github.com/shopspring/decimal"
)

// maxConcurrentSimulations limits the goroutines running at once.
const maxConcurrentSimulations = 10

// minSampledReturn keeps statistically drawn returns above a total loss.
var minSampledReturn = decimal.RequireFromString("-0.99")

// MonteCarloConfig holds configuration for Monte Carlo simulations
type MonteCarloConfig struct {
	NumSimulations int
	Months         int
	Seed           int64
	UseHistorical  bool // If true, resample observed returns; if false, draw from a normal fit of them
}

// MonteCarloSimulator runs both vehicles on many return paths derived from
// one observed return series.
type MonteCarloSimulator struct {
	Returns        []decimal.Decimal
	NumSimulations int
	Months         int
	Seed           int64
	UseHistorical  bool
	Logger         Logger

	mean, stdDev float64
}

// MonteCarloResult represents the results of a Monte Carlo simulation
type MonteCarloResult struct {
	Outcomes         []MonteCarloOutcome `json:"outcomes"`
	ETFWinRate       decimal.Decimal     `json:"etf_win_rate"` // percent of paths where the ETF ends ahead
	MedianDifference decimal.Decimal     `json:"median_difference"`
	ETF              PercentileRanges    `json:"etf"`
	Pension          PercentileRanges    `json:"pension"`
	Difference       PercentileRanges    `json:"difference"`
	NumSimulations   int                 `json:"num_simulations"`
	Months           int                 `json:"months"`
	Seed             int64               `json:"seed"`
	UseHistorical    bool                `json:"use_historical"`
}

// MonteCarloOutcome is one simulated path.
type MonteCarloOutcome struct {
	ETFFinal     decimal.Decimal `json:"etf_final"`
	PensionFinal decimal.Decimal `json:"pension_final"`
	Difference   decimal.Decimal `json:"difference"`
	ETFBetter    bool            `json:"etf_better"`
}

// PercentileRanges represents percentile ranges for Monte Carlo results
type PercentileRanges struct {
	P10 decimal.Decimal `json:"p10"`
	P25 decimal.Decimal `json:"p25"`
	P50 decimal.Decimal `json:"p50"`
	P75 decimal.Decimal `json:"p75"`
	P90 decimal.Decimal `json:"p90"`
}

// NewMonteCarloSimulator creates a new Monte Carlo simulator sampling from
// returns. A zero seed is replaced by a fresh one.
func NewMonteCarloSimulator(returns []decimal.Decimal, config MonteCarloConfig) (*MonteCarloSimulator, error) {
	if len(returns) < 2 {
		return nil, fmt.Errorf("monte carlo needs at least two observed returns, got %d", len(returns))
	}
	if config.NumSimulations <= 0 {
		return nil, fmt.Errorf("number of simulations must be positive, got %d", config.NumSimulations)
	}
	if config.Months <= 0 {
		return nil, fmt.Errorf("months must be positive, got %d", config.Months)
	}
	if config.Seed == 0 {
		config.Seed = seedFunc()
	}

	stats := summarizeReturns(returns)

	return &MonteCarloSimulator{
		Returns:        append([]decimal.Decimal(nil), returns...),
		NumSimulations: config.NumSimulations,
		Months:         config.Months,
		Seed:           config.Seed,
		UseHistorical:  config.UseHistorical,
		Logger:         NopLogger{},
		mean:           stats.Mean.InexactFloat64(),
		stdDev:         stats.StdDev.InexactFloat64(),
	}, nil
}

// SetLogger sets the logger. If nil is provided, a no-op logger is used.
func (mcs *MonteCarloSimulator) SetLogger(l Logger) { mcs.Logger = loggerOrNop(l) }

// RunSimulation executes the Monte Carlo simulation. Each path has its own
// random source derived from the seed, so results do not depend on
// scheduling.
func (mcs *MonteCarloSimulator) RunSimulation(ctx context.Context, etf domain.ETFConfig, pension domain.PensionConfig) (*MonteCarloResult, error) {
	// Run simulations in parallel
	results := make([]MonteCarloOutcome, mcs.NumSimulations)
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, maxConcurrentSimulations)

	for i := 0; i < mcs.NumSimulations; i++ {
		wg.Add(1)
		go func(simIndex int) {
			defer wg.Done()
			semaphore <- struct{}{}        // Acquire semaphore
			defer func() { <-semaphore }() // Release semaphore
			if ctx.Err() != nil {
				return
			}
			results[simIndex] = mcs.runSingleSimulation(simIndex, etf, pension)
		}(i)
	}

	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	etfFinals := make([]decimal.Decimal, len(results))
	pensionFinals := make([]decimal.Decimal, len(results))
	diffs := make([]decimal.Decimal, len(results))
	wins := 0
	for i, r := range results {
		etfFinals[i], pensionFinals[i], diffs[i] = r.ETFFinal, r.PensionFinal, r.Difference
		if r.ETFBetter {
			wins++
		}
	}
	winRate := decimal.NewFromInt(int64(wins)).Div(decimal.NewFromInt(int64(len(results)))).Mul(hundred)
	diffRanges := calculatePercentileRanges(diffs)

	loggerOrNop(mcs.Logger).Infof("monte carlo: %d paths of %d months, etf ahead in %s%%", mcs.NumSimulations, mcs.Months, winRate.StringFixed(1))

	return &MonteCarloResult{
		Outcomes:         results,
		ETFWinRate:       winRate,
		MedianDifference: diffRanges.P50,
		ETF:              calculatePercentileRanges(etfFinals),
		Pension:          calculatePercentileRanges(pensionFinals),
		Difference:       diffRanges,
		NumSimulations:   mcs.NumSimulations,
		Months:           mcs.Months,
		Seed:             mcs.Seed,
		UseHistorical:    mcs.UseHistorical,
	}, nil
}

// runSingleSimulation runs both vehicles on one sampled path.
func (mcs *MonteCarloSimulator) runSingleSimulation(simIndex int, etf domain.ETFConfig, pension domain.PensionConfig) MonteCarloOutcome {
	rng := rand.New(rand.NewSource(mcs.Seed + int64(simIndex)))
	path := mcs.samplePath(rng)

	etfResult := NewETFSimulator(etf).RunSimulation(mcs.Months, path)
	pensionResult := NewPensionSimulator(pension).RunSimulation(path)
	diff := etfResult.FinalAmount.Sub(pensionResult.FinalAmount)

	return MonteCarloOutcome{
		ETFFinal:     etfResult.FinalAmount,
		PensionFinal: pensionResult.FinalAmount,
		Difference:   diff,
		ETFBetter:    !diff.IsNegative(),
	}
}

func (mcs *MonteCarloSimulator) samplePath(rng *rand.Rand) []decimal.Decimal {
	path := make([]decimal.Decimal, mcs.Months)
	for i := range path {
		if mcs.UseHistorical {
			path[i] = mcs.Returns[rng.Intn(len(mcs.Returns))]
			continue
		}
		r := decimal.NewFromFloat(mcs.mean + mcs.stdDev*rng.NormFloat64())
		path[i] = decimal.Max(r, minSampledReturn)
	}
	return path
}

// calculatePercentileRanges calculates percentile ranges of values
func calculatePercentileRanges(values []decimal.Decimal) PercentileRanges {
	sorted := append([]decimal.Decimal(nil), values...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })

	n := len(sorted)
	if n == 0 {
		return PercentileRanges{}
	}
	return PercentileRanges{
		P10: sorted[n/10],
		P25: sorted[n/4],
		P50: sorted[n/2],
		P75: sorted[3*n/4],
		P90: sorted[9*n/10],
	}
}

// MonteCarloReturns returns the observed series a Monte Carlo run samples
// from: the explicit monthly returns of config or the full history of its
// historical data file.
func MonteCarloReturns(config *domain.Configuration) ([]decimal.Decimal, error) {
	if len(config.MonthlyReturns) > 0 {
		return config.MonthlyReturns, nil
	}
	if config.HistoricalData == "" {
		return nil, fmt.Errorf("monte carlo needs historical_data or monthly_returns")
	}
	provider, err := NewHistoricalRateProviderWithColumn(config.HistoricalData, config.ValueColumn)
	if err != nil {
		return nil, fmt.Errorf("failed to load historical data: %w", err)
	}
	return provider.Returns(), nil
}
