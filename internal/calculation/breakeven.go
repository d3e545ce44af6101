package calculation

import (
	"context"
	"errors"
	"fmt"

	"github.com/rpgo/etfpension/internal/domain"
	"github.com/shopspring/decimal"
)

// ErrNoBreakEven means the pension cannot match the ETF inside the searched fee range.
var ErrNoBreakEven = errors.New("no break-even insurance fee in range")

// maxBreakEvenFee bounds the fee search at 10% a year.
var maxBreakEvenFee = decimal.RequireFromString("0.10")

// BreakEvenResult contains the insurance fee at which both vehicles end equal
type BreakEvenResult struct {
	InsuranceFeeRate  decimal.Decimal `json:"insurance_fee_rate"`
	ConfiguredFeeRate decimal.Decimal `json:"configured_fee_rate"`
	ETFFinal          decimal.Decimal `json:"etf_final"`
	PensionFinal      decimal.Decimal `json:"pension_final"`
	Iterations        int             `json:"iterations"`
}

// CalculateBreakEvenFeeRate searches the yearly insurance fee at which the
// pension's final amount equals the ETF's, all other inputs unchanged. The
// pension's outcome falls as the fee rises, so a bisection over [0, 10%]
// converges on the unique crossing.
func (ce *ComparisonEngine) CalculateBreakEvenFeeRate(ctx context.Context, config *domain.Configuration) (*BreakEvenResult, error) {
	series, _, err := ce.ReturnSeries(config)
	if err != nil {
		return nil, err
	}
	months := config.Horizon()
	if len(series) > 0 {
		months = len(series)
	}
	target := NewETFSimulator(config.ETF).RunSimulation(months, series).FinalAmount

	pensionAt := func(fee decimal.Decimal) decimal.Decimal {
		cfg := config.Pension
		cfg.InsuranceFeeRate = &fee
		return NewPensionSimulator(cfg).RunSimulation(series).FinalAmount
	}

	minRate := decimal.Zero
	maxRate := maxBreakEvenFee
	if pensionAt(minRate).LessThan(target) || pensionAt(maxRate).GreaterThan(target) {
		return nil, fmt.Errorf("%w [0, %s] against an ETF final amount of %s", ErrNoBreakEven, maxRate, target.StringFixed(2))
	}

	tolerance := decimal.NewFromFloat(0.01) // Within one cent
	maxIterations := 60
	two := decimal.NewFromInt(2)

	var (
		testRate, pensionFinal decimal.Decimal
		iterations             int
	)
	for iterations = 1; iterations <= maxIterations; iterations++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		testRate = minRate.Add(maxRate).Div(two)
		pensionFinal = pensionAt(testRate)
		diff := pensionFinal.Sub(target)

		// Check if we're within tolerance
		if diff.Abs().LessThan(tolerance) {
			break
		}
		if diff.IsPositive() {
			// Pension still ahead, a higher fee is needed
			minRate = testRate
		} else {
			maxRate = testRate
		}
	}
	if iterations > maxIterations {
		iterations = maxIterations
	}

	loggerOrNop(ce.Logger).Debugf("break-even fee %s after %d iterations", testRate.StringFixed(6), iterations)

	return &BreakEvenResult{
		InsuranceFeeRate:  testRate,
		ConfiguredFeeRate: config.Pension.Resolve().InsuranceFeeRate,
		ETFFinal:          target,
		PensionFinal:      pensionFinal,
		Iterations:        iterations,
	}, nil
}

// CrossoverResult describes where the year-end balances of two runs cross
type CrossoverResult struct {
	// Year whose close first shows the new leader (1-based)
	Year int `json:"year"`

	// Fraction (0..1) of that year at which the balances are equal, by
	// linear interpolation of the difference
	Fraction decimal.Decimal `json:"fraction_of_year"`

	// Month of the whole horizon in which the crossing falls (1-based)
	Month int `json:"month"`

	// Balance at the crossing (equal for both runs)
	Balance decimal.Decimal `json:"balance"`

	// Leader is "a" or "b", the run ahead after the crossing
	Leader string `json:"leader"`
}

// CalculateBalanceCrossover finds the first crossover (if any) between the
// year-end balances of runs a and b. Snapshots must be aligned by index. If
// no crossover is found, returns nil, nil.
func CalculateBalanceCrossover(a, b []domain.YearSnapshot) (*CrossoverResult, error) {
	if len(a) == 0 || len(b) == 0 {
		return nil, fmt.Errorf("one or both runs have no yearly snapshots")
	}
	n := min(len(a), len(b))

	// Before the first month both balances are zero.
	prevDiff, prevA, prevMonth := decimal.Zero, decimal.Zero, 0
	for i := 0; i < n; i++ {
		currDiff := a[i].Balance.Sub(b[i].Balance)

		if i > 0 && prevDiff.Mul(currDiff).IsNegative() {
			// diff(t) = prevDiff + t*(currDiff - prevDiff), solve for t
			fraction := prevDiff.Neg().Div(currDiff.Sub(prevDiff))
			span := decimal.NewFromInt(int64(a[i].Month - prevMonth))
			month := prevMonth + int(fraction.Mul(span).Ceil().IntPart())
			balance := prevA.Add(a[i].Balance.Sub(prevA).Mul(fraction))

			leader := "a"
			if currDiff.IsNegative() {
				leader = "b"
			}
			return &CrossoverResult{
				Year:     a[i].Year,
				Fraction: fraction,
				Month:    max(month, prevMonth+1),
				Balance:  balance,
				Leader:   leader,
			}, nil
		}
		if !currDiff.IsZero() {
			prevDiff = currDiff
		}
		prevA, prevMonth = a[i].Balance, a[i].Month
	}
	return nil, nil
}
