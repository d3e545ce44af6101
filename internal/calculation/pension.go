package calculation

import (
	"github.com/rpgo/etfpension/internal/domain"
	"github.com/shopspring/decimal"
)

// PensionSimulator projects an insurance-wrapped funded pension
// (fondsgebundene Rentenversicherung). Gains are untaxed while saving and
// taxed once at payout.
type PensionSimulator struct {
	cfg    domain.ResolvedPensionConfig
	Logger Logger
}

// NewPensionSimulator resolves the defaults of cfg and returns a simulator.
func NewPensionSimulator(cfg domain.PensionConfig) *PensionSimulator {
	return &PensionSimulator{
		cfg:    cfg.Resolve(),
		Logger: NopLogger{},
	}
}

// SetLogger sets the logger. If nil is provided, a no-op logger is used.
func (s *PensionSimulator) SetLogger(l Logger) { s.Logger = loggerOrNop(l) }

// Config returns the resolved configuration.
func (s *PensionSimulator) Config() domain.ResolvedPensionConfig { return s.cfg }

// RunSimulation runs the pension until retirement at the configured yearly
// interest, or, when returns is non-empty, for len(returns) months using one
// gross return per month.
func (s *PensionSimulator) RunSimulation(returns []decimal.Decimal) domain.SimulationResult {
	log := loggerOrNop(s.Logger)
	useSeries := len(returns) > 0
	months := s.cfg.Months()
	if useSeries {
		months = len(returns)
	}

	fixedRate := s.cfg.YearlyInterest.Mul(one.Sub(s.cfg.TER)).Div(monthsPerYear)
	monthlyTER := s.cfg.TER.Div(monthsPerYear)
	monthlyFee := s.cfg.InsuranceFeeRate.Div(monthsPerYear)

	var (
		invested, balance, fees decimal.Decimal
		years                   []domain.YearSnapshot
	)

	for i := 0; i < months; i++ {
		invested = invested.Add(s.cfg.MonthlyInput)
		balance = balance.Add(s.cfg.MonthlyInput)

		rate := fixedRate
		if useSeries {
			rate = returns[i].Sub(monthlyTER)
		}
		balance = balance.Mul(one.Add(rate)).Round(balancePrecision)

		fee := balance.Mul(monthlyFee)
		balance = balance.Sub(fee).Round(balancePrecision)
		fees = fees.Add(fee)

		if (i+1)%12 == 0 {
			years = append(years, domain.YearSnapshot{
				Year:     (i + 1) / 12,
				Month:    i + 1,
				Balance:  balance,
				Invested: invested,
				TaxPaid:  decimal.Zero,
			})
		}
	}

	profit := balance.Sub(invested)
	mode := s.cfg.PayoutMode()
	tax := PensionPayoutTax(profit, mode, s.cfg.RetirementAge)
	balance = balance.Sub(tax)
	log.Debugf("pension %s payout after %d months: profit=%s fees=%s tax=%s",
		mode, months, profit.StringFixed(2), fees.StringFixed(2), tax.StringFixed(2))

	years = appendFinalSnapshot(years, months, balance, invested, tax)

	return domain.SimulationResult{
		Vehicle:       domain.VehiclePension,
		FinalAmount:   balance,
		TotalInvested: invested,
		TotalTaxPaid:  tax,
		Months:        months,
		Years:         years,
	}
}
