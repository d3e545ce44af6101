package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rpgo/etfpension/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// maxHorizonMonths caps the simulated horizon at 100 years.
const maxHorizonMonths = 1200

// InputParser handles parsing of input configuration files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads configuration from a YAML (or JSON) file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	config, err := ip.Parse(data)
	if err != nil {
		return nil, err
	}
	// Historical data paths are relative to the configuration file.
	if config.HistoricalData != "" && !filepath.IsAbs(config.HistoricalData) {
		config.HistoricalData = filepath.Join(filepath.Dir(filename), config.HistoricalData)
	}
	return config, nil
}

// Parse decodes and validates a YAML (or JSON) document.
func (ip *InputParser) Parse(data []byte) (*domain.Configuration, error) {
	var config domain.Configuration
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// ValidateConfiguration validates the loaded configuration
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if err := config.ETF.Validate(); err != nil {
		return fmt.Errorf("etf: %w", err)
	}
	if err := config.Pension.Validate(); err != nil {
		return fmt.Errorf("pension: %w", err)
	}

	if config.HorizonMonths < 0 || config.HorizonMonths > maxHorizonMonths {
		return fmt.Errorf("horizon months must be between 0 and %d", maxHorizonMonths)
	}

	usesSeries := len(config.MonthlyReturns) > 0 || config.HistoricalData != ""
	if !usesSeries && config.HorizonMonths > 0 {
		if pensionMonths := config.Pension.Resolve().Months(); config.HorizonMonths != pensionMonths {
			return fmt.Errorf("horizon months (%d) must match the pension horizon (%d) when no return series is given",
				config.HorizonMonths, pensionMonths)
		}
	}

	for i, r := range config.MonthlyReturns {
		if r.LessThanOrEqual(decimal.NewFromInt(-1)) {
			return fmt.Errorf("monthly return %d must be greater than -100%%", i)
		}
	}

	if config.ValueColumn != "" && config.HistoricalData == "" {
		return fmt.Errorf("value column requires historical data")
	}

	return nil
}

// CreateExampleConfiguration creates an example configuration
func (ip *InputParser) CreateExampleConfiguration() *domain.Configuration {
	accumulating := true
	capitalPayout := true
	retirementAge := 67
	fee := decimal.NewFromFloat(0.008)

	return &domain.Configuration{
		ETF: domain.ETFConfig{
			TER:             decimal.NewFromFloat(0.002),
			YearlyInterest:  decimal.NewFromFloat(0.07),
			MonthlyInput:    decimal.NewFromInt(200),
			Accumulating:    &accumulating,
			FundType:        domain.FundTypeEquity,
			AllowancePolicy: domain.AllowanceRenew,
		},
		Pension: domain.PensionConfig{
			TER:              decimal.NewFromFloat(0.002),
			YearlyInterest:   decimal.NewFromFloat(0.07),
			MonthlyInput:     decimal.NewFromInt(200),
			CurrentAge:       35,
			InsuranceFeeRate: &fee,
			RetirementAge:    &retirementAge,
			CapitalPayout:    &capitalPayout,
		},
	}
}

// SaveConfiguration writes config as YAML to filename.
func (ip *InputParser) SaveConfiguration(config *domain.Configuration, filename string) error {
	b, err := ip.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, b, 0644)
}

// Marshal encodes config as YAML.
func (ip *InputParser) Marshal(config *domain.Configuration) ([]byte, error) {
	b, err := yaml.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	return b, nil
}
