package calculation

import (
	"github.com/rpgo/etfpension/internal/domain"
	"github.com/shopspring/decimal"
)

// ETFSimulator projects a monthly ETF savings plan under German taxation.
type ETFSimulator struct {
	cfg       domain.ResolvedETFConfig
	exemption decimal.Decimal
	Logger    Logger
}

// NewETFSimulator resolves the defaults of cfg and returns a simulator.
func NewETFSimulator(cfg domain.ETFConfig) *ETFSimulator {
	resolved := cfg.Resolve()
	return &ETFSimulator{
		cfg:       resolved,
		exemption: PartialExemption(resolved.FundType),
		Logger:    NopLogger{},
	}
}

// SetLogger sets the logger. If nil is provided, a no-op logger is used.
func (s *ETFSimulator) SetLogger(l Logger) { s.Logger = loggerOrNop(l) }

// Config returns the resolved configuration.
func (s *ETFSimulator) Config() domain.ResolvedETFConfig { return s.cfg }

// PartialExemption returns the Teilfreistellung applied by this simulator.
func (s *ETFSimulator) PartialExemption() decimal.Decimal { return s.exemption }

// RunSimulation runs the plan for months months at the configured yearly
// interest, or, when returns is non-empty, for len(returns) months using one
// gross return per month. Taxes are settled at the close of every twelfth
// month and once more when the position is sold after the last month.
func (s *ETFSimulator) RunSimulation(months int, returns []decimal.Decimal) domain.SimulationResult {
	log := loggerOrNop(s.Logger)
	useSeries := len(returns) > 0
	if useSeries {
		months = len(returns)
	}

	fixedRate := s.cfg.YearlyInterest.Mul(one.Sub(s.cfg.TER)).Div(monthsPerYear)
	monthlyTER := s.cfg.TER.Div(monthsPerYear)
	monthlyDividendYield := s.cfg.DividendYield.Div(monthsPerYear)

	var (
		invested, balance, dividends, taxPaid decimal.Decimal
		yearStart, allowanceUsed              decimal.Decimal
		years                                 []domain.YearSnapshot
	)

	for i := 0; i < months; i++ {
		invested = invested.Add(s.cfg.MonthlyInput)
		balance = balance.Add(s.cfg.MonthlyInput)

		rate := fixedRate
		if useSeries {
			rate = returns[i].Sub(monthlyTER)
		}
		balance = balance.Mul(one.Add(rate)).Round(balancePrecision)

		if !s.cfg.Accumulating {
			dividends = dividends.Add(balance.Mul(monthlyDividendYield)).Round(balancePrecision)
		}

		// The year's reference value is taken after its first month has been applied.
		if i%12 == 0 {
			yearStart = balance
		}

		if (i+1)%12 == 0 {
			var tax decimal.Decimal
			if s.cfg.Accumulating {
				tax = VorabpauschaleTax(yearStart, balance, s.cfg.BaseInterestRate, s.exemption)
				allowanceUsed = decimal.Zero
			} else {
				tax, allowanceUsed = GainsTax(dividends, s.exemption, s.cfg.TaxAllowance)
			}
			balance = balance.Sub(tax).Round(balancePrecision)
			taxPaid = taxPaid.Add(tax)
			dividends = decimal.Zero

			log.Debugf("etf year %d: balance=%s tax=%s", (i+1)/12, balance.StringFixed(2), tax.StringFixed(2))
			years = append(years, domain.YearSnapshot{
				Year:     (i + 1) / 12,
				Month:    i + 1,
				Balance:  balance,
				Invested: invested,
				TaxPaid:  taxPaid,
			})
		}
	}

	// A sale after a partial year falls into a tax year with no annual event.
	if months%12 != 0 {
		allowanceUsed = decimal.Zero
	}
	profit := balance.Sub(invested)
	saleTax, _ := GainsTax(profit, s.exemption, s.saleAllowance(allowanceUsed))
	balance = balance.Sub(saleTax)
	taxPaid = taxPaid.Add(saleTax)
	log.Debugf("etf sale after %d months: profit=%s tax=%s", months, profit.StringFixed(2), saleTax.StringFixed(2))

	years = appendFinalSnapshot(years, months, balance, invested, taxPaid)

	return domain.SimulationResult{
		Vehicle:       domain.VehicleETF,
		FinalAmount:   balance,
		TotalInvested: invested,
		TotalTaxPaid:  taxPaid,
		Months:        months,
		Years:         years,
	}
}

// saleAllowance returns the allowance offset against the gain at sale, given
// the allowance already used in the sale's tax year.
func (s *ETFSimulator) saleAllowance(usedInSaleYear decimal.Decimal) decimal.Decimal {
	switch s.cfg.AllowancePolicy {
	case domain.AllowanceNone:
		return decimal.Zero
	case domain.AllowanceRemaining:
		return decimal.Max(decimal.Zero, s.cfg.TaxAllowance.Sub(usedInSaleYear))
	default:
		return s.cfg.TaxAllowance
	}
}

// appendFinalSnapshot replaces or appends the snapshot of the last month so
// that the final entry always reflects the post-sale state.
func appendFinalSnapshot(years []domain.YearSnapshot, months int, balance, invested, taxPaid decimal.Decimal) []domain.YearSnapshot {
	final := domain.YearSnapshot{
		Year:     (months + 11) / 12,
		Month:    months,
		Balance:  balance,
		Invested: invested,
		TaxPaid:  taxPaid,
	}
	if n := len(years); n > 0 && years[n-1].Month == months {
		years[n-1] = final
		return years
	}
	if months == 0 {
		return years
	}
	return append(years, final)
}
