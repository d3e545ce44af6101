package domain

import "github.com/shopspring/decimal"

// Configuration is the top level comparison input, typically read from YAML.
type Configuration struct {
	// HorizonMonths overrides the run length. When zero the pension horizon
	// (retirement age minus current age) is used for both vehicles.
	HorizonMonths int `yaml:"horizon_months,omitempty" json:"horizon_months,omitempty"`

	// HistoricalData is a CSV of (date, index value) rows. When set, both
	// vehicles run on the derived monthly returns instead of a fixed rate.
	HistoricalData string `yaml:"historical_data,omitempty" json:"historical_data,omitempty"`
	ValueColumn    string `yaml:"value_column,omitempty" json:"value_column,omitempty"`

	// MonthlyReturns is an explicit return series, oldest first. It takes
	// precedence over HistoricalData.
	MonthlyReturns []decimal.Decimal `yaml:"monthly_returns,omitempty" json:"monthly_returns,omitempty"`

	ETF     ETFConfig     `yaml:"etf" json:"etf"`
	Pension PensionConfig `yaml:"pension" json:"pension"`
}

// Horizon returns the number of months both vehicles are simulated for in
// fixed-rate mode.
func (c *Configuration) Horizon() int {
	if c.HorizonMonths > 0 {
		return c.HorizonMonths
	}
	return c.Pension.Resolve().Months()
}
