package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Defaults applied to optional ETF fields.
const (
	DefaultDividendYield    = 0.02   // 2% p.a.
	DefaultAccumulating     = true   // thesaurierend
	DefaultTaxAllowance     = 1000   // Sparerpauschbetrag, EUR per year
	DefaultBaseInterestRate = 0.0337 // Basiszins for the Vorabpauschale
	DefaultFundType         = FundTypeEquity
	DefaultAllowancePolicy  = AllowanceRenew
)

// Defaults applied to optional pension fields.
const (
	DefaultInsuranceFeeRate = 0.008 // 0.8% p.a.
	DefaultRetirementAge    = 67
	DefaultCapitalPayout    = true
)

// FundType controls the Teilfreistellung applied to fund gains.
type FundType string

const (
	FundTypeEquity FundType = "equity" // Aktienfonds, 30%
	FundTypeMixed  FundType = "mixed"  // Mischfonds, 15%
	FundTypeOther  FundType = "other"  // no partial exemption
)

// Valid reports whether t is a known fund type.
func (t FundType) Valid() bool {
	switch t {
	case FundTypeEquity, FundTypeMixed, FundTypeOther:
		return true
	}
	return false
}

// AllowancePolicy decides how much of the annual tax-free allowance is
// subtracted again from the gain realised at the final sale.
type AllowancePolicy string

const (
	// AllowanceRenew subtracts the full annual allowance at sale, even if the
	// sale year's allowance was already consumed by dividends.
	AllowanceRenew AllowancePolicy = "renew"
	// AllowanceRemaining subtracts only the part left over after the last
	// annual tax event.
	AllowanceRemaining AllowancePolicy = "remaining"
	// AllowanceNone applies no allowance at sale.
	AllowanceNone AllowancePolicy = "none"
)

// Valid reports whether p is a known policy.
func (p AllowancePolicy) Valid() bool {
	switch p {
	case AllowanceRenew, AllowanceRemaining, AllowanceNone:
		return true
	}
	return false
}

// PayoutMode is how a funded pension pays out at retirement.
type PayoutMode string

const (
	PayoutCapital PayoutMode = "capital"
	PayoutAnnuity PayoutMode = "annuity"
)

// ETFConfig holds the parameters of a direct ETF savings plan. Optional fields
// are pointers; nil means "use the default".
type ETFConfig struct {
	TER            decimal.Decimal `yaml:"ter" json:"ter"`
	YearlyInterest decimal.Decimal `yaml:"yearly_interest" json:"yearly_interest"`
	MonthlyInput   decimal.Decimal `yaml:"monthly_input" json:"monthly_input"`

	DividendYield    *decimal.Decimal `yaml:"dividend_yield,omitempty" json:"dividend_yield,omitempty"`
	Accumulating     *bool            `yaml:"accumulating,omitempty" json:"accumulating,omitempty"`
	TaxAllowance     *decimal.Decimal `yaml:"tax_allowance,omitempty" json:"tax_allowance,omitempty"`
	BaseInterestRate *decimal.Decimal `yaml:"base_interest_rate,omitempty" json:"base_interest_rate,omitempty"`
	FundType         FundType         `yaml:"fund_type,omitempty" json:"fund_type,omitempty"`
	AllowancePolicy  AllowancePolicy  `yaml:"allowance_policy,omitempty" json:"allowance_policy,omitempty"`
}

// ResolvedETFConfig is an ETFConfig with every default filled in.
type ResolvedETFConfig struct {
	TER              decimal.Decimal
	YearlyInterest   decimal.Decimal
	MonthlyInput     decimal.Decimal
	DividendYield    decimal.Decimal
	Accumulating     bool
	TaxAllowance     decimal.Decimal
	BaseInterestRate decimal.Decimal
	FundType         FundType
	AllowancePolicy  AllowancePolicy
}

// Resolve fills in defaults for every unset optional field.
func (c ETFConfig) Resolve() ResolvedETFConfig {
	r := ResolvedETFConfig{
		TER:              c.TER,
		YearlyInterest:   c.YearlyInterest,
		MonthlyInput:     c.MonthlyInput,
		DividendYield:    decimal.NewFromFloat(DefaultDividendYield),
		Accumulating:     DefaultAccumulating,
		TaxAllowance:     decimal.NewFromInt(DefaultTaxAllowance),
		BaseInterestRate: decimal.NewFromFloat(DefaultBaseInterestRate),
		FundType:         DefaultFundType,
		AllowancePolicy:  DefaultAllowancePolicy,
	}
	if c.DividendYield != nil {
		r.DividendYield = *c.DividendYield
	}
	if c.Accumulating != nil {
		r.Accumulating = *c.Accumulating
	}
	if c.TaxAllowance != nil {
		r.TaxAllowance = *c.TaxAllowance
	}
	if c.BaseInterestRate != nil {
		r.BaseInterestRate = *c.BaseInterestRate
	}
	if c.FundType != "" {
		r.FundType = c.FundType
	}
	if c.AllowancePolicy != "" {
		r.AllowancePolicy = c.AllowancePolicy
	}
	return r
}

// Validate checks the ETF parameters for values the simulator cannot
// meaningfully work with.
func (c *ETFConfig) Validate() error {
	if err := validateCommon(c.TER, c.YearlyInterest, c.MonthlyInput); err != nil {
		return err
	}
	if c.DividendYield != nil && c.DividendYield.IsNegative() {
		return fmt.Errorf("dividend yield cannot be negative")
	}
	if c.TaxAllowance != nil && c.TaxAllowance.IsNegative() {
		return fmt.Errorf("tax allowance cannot be negative")
	}
	if c.BaseInterestRate != nil && c.BaseInterestRate.IsNegative() {
		return fmt.Errorf("base interest rate cannot be negative")
	}
	if c.FundType != "" && !c.FundType.Valid() {
		return fmt.Errorf("fund type must be 'equity', 'mixed' or 'other', got %q", c.FundType)
	}
	if c.AllowancePolicy != "" && !c.AllowancePolicy.Valid() {
		return fmt.Errorf("allowance policy must be 'renew', 'remaining' or 'none', got %q", c.AllowancePolicy)
	}
	return nil
}

// PensionConfig holds the parameters of an insurance-wrapped funded pension.
type PensionConfig struct {
	TER            decimal.Decimal `yaml:"ter" json:"ter"`
	YearlyInterest decimal.Decimal `yaml:"yearly_interest" json:"yearly_interest"`
	MonthlyInput   decimal.Decimal `yaml:"monthly_input" json:"monthly_input"`
	CurrentAge     int             `yaml:"current_age" json:"current_age"`

	InsuranceFeeRate *decimal.Decimal `yaml:"insurance_fee_rate,omitempty" json:"insurance_fee_rate,omitempty"`
	RetirementAge    *int             `yaml:"retirement_age,omitempty" json:"retirement_age,omitempty"`
	CapitalPayout    *bool            `yaml:"capital_payout,omitempty" json:"capital_payout,omitempty"`
}

// ResolvedPensionConfig is a PensionConfig with every default filled in.
type ResolvedPensionConfig struct {
	TER              decimal.Decimal
	YearlyInterest   decimal.Decimal
	MonthlyInput     decimal.Decimal
	CurrentAge       int
	InsuranceFeeRate decimal.Decimal
	RetirementAge    int
	CapitalPayout    bool
}

// PayoutMode returns the payout mode selected by CapitalPayout.
func (r ResolvedPensionConfig) PayoutMode() PayoutMode {
	if r.CapitalPayout {
		return PayoutCapital
	}
	return PayoutAnnuity
}

// Months returns the contribution horizon in months.
func (r ResolvedPensionConfig) Months() int {
	return (r.RetirementAge - r.CurrentAge) * 12
}

// Resolve fills in defaults for every unset optional field.
func (c PensionConfig) Resolve() ResolvedPensionConfig {
	r := ResolvedPensionConfig{
		TER:              c.TER,
		YearlyInterest:   c.YearlyInterest,
		MonthlyInput:     c.MonthlyInput,
		CurrentAge:       c.CurrentAge,
		InsuranceFeeRate: decimal.NewFromFloat(DefaultInsuranceFeeRate),
		RetirementAge:    DefaultRetirementAge,
		CapitalPayout:    DefaultCapitalPayout,
	}
	if c.InsuranceFeeRate != nil {
		r.InsuranceFeeRate = *c.InsuranceFeeRate
	}
	if c.RetirementAge != nil {
		r.RetirementAge = *c.RetirementAge
	}
	if c.CapitalPayout != nil {
		r.CapitalPayout = *c.CapitalPayout
	}
	return r
}

// Validate checks the pension parameters.
func (c *PensionConfig) Validate() error {
	if err := validateCommon(c.TER, c.YearlyInterest, c.MonthlyInput); err != nil {
		return err
	}
	if c.CurrentAge <= 0 {
		return fmt.Errorf("current age must be positive")
	}
	if c.InsuranceFeeRate != nil && (c.InsuranceFeeRate.IsNegative() || c.InsuranceFeeRate.GreaterThanOrEqual(decimal.NewFromInt(1))) {
		return fmt.Errorf("insurance fee rate must be between 0 and 100%%")
	}
	r := c.Resolve()
	if r.RetirementAge <= r.CurrentAge {
		return fmt.Errorf("retirement age (%d) must be after current age (%d)", r.RetirementAge, r.CurrentAge)
	}
	return nil
}

func validateCommon(ter, yearlyInterest, monthlyInput decimal.Decimal) error {
	if ter.IsNegative() || ter.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("TER must be between 0 and 100%%")
	}
	if yearlyInterest.LessThan(decimal.NewFromInt(-1)) {
		return fmt.Errorf("yearly interest cannot be less than -100%%")
	}
	if monthlyInput.IsNegative() {
		return fmt.Errorf("monthly input cannot be negative")
	}
	return nil
}
