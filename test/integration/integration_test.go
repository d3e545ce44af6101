package integration

import (
	"context"
	"testing"

	"github.com/rpgo/etfpension/internal/calculation"
	"github.com/rpgo/etfpension/internal/config"
	"github.com/rpgo/etfpension/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndToEndCalculation(t *testing.T) {
	// Test that we can load a configuration and run calculations
	parser := config.NewInputParser()
	config, err := parser.LoadFromFile("../testdata/example_config.yaml")
	require.NoError(t, err)
	require.NotNil(t, config)
	assert.Equal(t, 120, config.Horizon())

	engine := calculation.NewComparisonEngine()
	results, err := engine.RunComparison(context.Background(), config)
	require.NoError(t, err)

	assert.Equal(t, 120, results.Months)
	assert.False(t, results.UsedHistory)
	assert.Equal(t, domain.VehicleETF, results.Better)
	assert.Equal(t, "14925.43", results.ETF.FinalAmount.StringFixed(2))
	assert.Equal(t, "14537.28", results.Pension.FinalAmount.StringFixed(2))
	assert.True(t, results.ETF.TotalInvested.Equal(decimal.NewFromInt(12000)))
	assert.True(t, results.Difference.Equal(results.ETF.FinalAmount.Sub(results.Pension.FinalAmount)))
}

func TestHistoricalComparison(t *testing.T) {
	parser := config.NewInputParser()
	config, err := parser.LoadFromFile("../testdata/historical_config.yaml")
	require.NoError(t, err)

	engine := calculation.NewComparisonEngine()
	results, err := engine.RunComparison(context.Background(), config)
	require.NoError(t, err)

	assert.True(t, results.UsedHistory)
	require.NotNil(t, results.AverageReturn)
	assert.Equal(t, 36, results.Months)
	assert.Equal(t, 36, results.ETF.Months)
	assert.Equal(t, 36, results.Pension.Months)
	assert.True(t, results.ETF.TotalInvested.Equal(decimal.NewFromInt(9000)))
	assert.True(t, results.Pension.TotalInvested.Equal(decimal.NewFromInt(9000)))
	assert.Len(t, results.ETF.Years, 3)

	// The same series drives both vehicles.
	provider, err := calculation.NewHistoricalRateProvider("../testdata/msci_world.csv")
	require.NoError(t, err)
	assert.Equal(t, 37, provider.Len())
	assert.True(t, results.AverageReturn.Equal(provider.CalculateAverageInterest()))
}

func TestHistoricalProviderPadding(t *testing.T) {
	provider, err := calculation.NewHistoricalRateProvider("../testdata/msci_world.csv")
	require.NoError(t, err)

	rates := provider.GetMonthlyInterestRates(48)
	require.Len(t, rates, 48)
	for i := 0; i < 12; i++ {
		assert.True(t, rates[i].Equal(provider.CalculateAverageInterest()), "month %d", i)
	}
	assert.Equal(t, provider.Returns(), rates[12:])
}

func TestConfigurationValidation(t *testing.T) {
	parser := config.NewInputParser()

	// Test valid configuration
	config, err := parser.LoadFromFile("../testdata/example_config.yaml")
	require.NoError(t, err)
	require.NotNil(t, config)

	// Test that validation works
	assert.NoError(t, parser.ValidateConfiguration(config))

	config.Pension.CurrentAge = 0
	assert.Error(t, parser.ValidateConfiguration(config))
}
