package calculation

import (
	"context"
	"testing"

	"github.com/rpgo/etfpension/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshots(balances ...int64) []domain.YearSnapshot {
	out := make([]domain.YearSnapshot, len(balances))
	for i, b := range balances {
		out[i] = domain.YearSnapshot{Year: i + 1, Month: (i + 1) * 12, Balance: decimal.NewFromInt(b)}
	}
	return out
}

func TestCalculateBreakEvenFeeRate(t *testing.T) {
	result, err := NewComparisonEngine().CalculateBreakEvenFeeRate(context.Background(), comparisonConfig())
	require.NoError(t, err)

	assert.True(t, result.InsuranceFeeRate.IsPositive())
	assert.True(t, result.InsuranceFeeRate.LessThan(d("0.008")), "ETF wins at 0.8%%, so the break-even fee is lower: %s", result.InsuranceFeeRate)
	assert.True(t, result.ConfiguredFeeRate.Equal(d("0.008")))
	assertCents(t, "14925.43", result.ETFFinal)
	assert.True(t, result.PensionFinal.Sub(result.ETFFinal).Abs().LessThan(d("0.01")))
	assert.Greater(t, result.Iterations, 0)

	// Plugging the fee back in reproduces an even comparison.
	cfg := comparisonConfig()
	cfg.Pension.InsuranceFeeRate = &result.InsuranceFeeRate
	cmp, err := NewComparisonEngine().RunComparison(context.Background(), cfg)
	require.NoError(t, err)
	assert.True(t, cmp.Difference.Abs().LessThan(d("0.01")))
}

func TestCalculateBreakEvenFeeRateOutOfRange(t *testing.T) {
	cfg := comparisonConfig()
	cfg.Pension.TER = d("0.5")

	_, err := NewComparisonEngine().CalculateBreakEvenFeeRate(context.Background(), cfg)
	assert.ErrorIs(t, err, ErrNoBreakEven)
}

func TestCalculateBreakEvenFeeRateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewComparisonEngine().CalculateBreakEvenFeeRate(ctx, comparisonConfig())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCalculateBalanceCrossover(t *testing.T) {
	result, err := CalculateBalanceCrossover(snapshots(10, 20, 40), snapshots(15, 25, 30))
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, 3, result.Year)
	assert.Equal(t, 28, result.Month)
	assert.Equal(t, "a", result.Leader)
	assert.Equal(t, "0.33", result.Fraction.StringFixed(2))
	assert.Equal(t, "26.67", result.Balance.StringFixed(2))
}

func TestCalculateBalanceCrossoverToB(t *testing.T) {
	result, err := CalculateBalanceCrossover(snapshots(20, 30), snapshots(10, 40))
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 2, result.Year)
	assert.Equal(t, "b", result.Leader)
	assert.Equal(t, 18, result.Month)
}

func TestCalculateBalanceCrossoverNone(t *testing.T) {
	result, err := CalculateBalanceCrossover(snapshots(10, 20, 30), snapshots(5, 10, 15))
	require.NoError(t, err)
	assert.Nil(t, result)

	_, err = CalculateBalanceCrossover(nil, snapshots(1))
	assert.Error(t, err)
}
