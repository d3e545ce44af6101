package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rpgo/etfpension/internal/calculation"
	"github.com/rpgo/etfpension/internal/config"
	"github.com/rpgo/etfpension/internal/domain"
	"github.com/rpgo/etfpension/internal/output"
	"github.com/rpgo/etfpension/internal/server"
	"github.com/rpgo/etfpension/pkg/dateutil"
)

type loggerFactory func(cmd *cobra.Command) calculation.Logger

func newCompareCmd(logger loggerFactory) *cobra.Command {
	var configFile, format, outFile string

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Run both vehicles from a configuration file and compare them",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewInputParser().LoadFromFile(configFile)
			if err != nil {
				return err
			}

			engine := calculation.NewComparisonEngine()
			engine.SetLogger(logger(cmd))
			cmp, err := engine.RunComparison(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("comparison failed: %w", err)
			}
			cmp.Assumptions = output.GenerateAssumptions(cfg.ETF.Resolve(), cfg.Pension.Resolve())

			return withOutput(cmd, outFile, func(w io.Writer) error {
				return output.Render(w, cmp, format)
			})
		},
	}
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "YAML configuration file")
	cmd.Flags().StringVarP(&format, "format", "f", "console", "output format (see 'formats')")
	cmd.Flags().StringVarP(&outFile, "output", "o", "", "write the report to this file instead of stdout")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}

func newMonteCarloCmd(logger loggerFactory) *cobra.Command {
	var (
		configFile, format string
		simulations        int
		seed               int64
		statistical        bool
	)

	cmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "Compare both vehicles on many return paths resampled from history",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewInputParser().LoadFromFile(configFile)
			if err != nil {
				return err
			}
			returns, err := calculation.MonteCarloReturns(cfg)
			if err != nil {
				return err
			}

			mcs, err := calculation.NewMonteCarloSimulator(returns, calculation.MonteCarloConfig{
				NumSimulations: simulations,
				Months:         cfg.Horizon(),
				Seed:           seed,
				UseHistorical:  !statistical,
			})
			if err != nil {
				return err
			}
			mcs.SetLogger(logger(cmd))
			result, err := mcs.RunSimulation(cmd.Context(), cfg.ETF, cfg.Pension)
			if err != nil {
				return fmt.Errorf("monte carlo failed: %w", err)
			}

			out := cmd.OutOrStdout()
			switch output.NormalizeFormatName(format) {
			case "json":
				result.Outcomes = nil
				b, err := json.MarshalIndent(result, "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, string(b))
				return err
			case "console":
				mode := "resampled history"
				if statistical {
					mode = "normal fit of history"
				}
				fmt.Fprintf(out, "MONTE CARLO: %d paths of %d months (%s, seed %d)\n", result.NumSimulations, result.Months, mode, result.Seed)
				fmt.Fprintf(out, "ETF ahead in %s of paths\n", output.FormatPercentage(result.ETFWinRate))
				fmt.Fprintf(out, "%-12s %16s %16s %16s\n", "Percentile", "ETF", "Pension", "Difference")
				rows := []struct {
					name           string
					etf, pen, diff decimal.Decimal
				}{
					{"P10", result.ETF.P10, result.Pension.P10, result.Difference.P10},
					{"P25", result.ETF.P25, result.Pension.P25, result.Difference.P25},
					{"P50", result.ETF.P50, result.Pension.P50, result.Difference.P50},
					{"P75", result.ETF.P75, result.Pension.P75, result.Difference.P75},
					{"P90", result.ETF.P90, result.Pension.P90, result.Difference.P90},
				}
				for _, r := range rows {
					fmt.Fprintf(out, "%-12s %16s %16s %16s\n", r.name, output.FormatCurrency(r.etf), output.FormatCurrency(r.pen), output.FormatCurrency(r.diff))
				}
				return nil
			default:
				return fmt.Errorf("%w: %q. Try one of: console, json", output.ErrUnsupportedFormat, format)
			}
		},
	}
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "YAML configuration file with historical_data or monthly_returns")
	cmd.Flags().IntVarP(&simulations, "simulations", "n", 1000, "number of simulated paths")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 picks one)")
	cmd.Flags().BoolVar(&statistical, "statistical", false, "draw returns from a normal fit instead of resampling")
	cmd.Flags().StringVarP(&format, "format", "f", "console", "output format: console or json")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}

func newBreakEvenCmd(logger loggerFactory) *cobra.Command {
	var configFile, format string

	cmd := &cobra.Command{
		Use:   "breakeven",
		Short: "Find the insurance fee at which the pension matches the ETF",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewInputParser().LoadFromFile(configFile)
			if err != nil {
				return err
			}

			engine := calculation.NewComparisonEngine()
			engine.SetLogger(logger(cmd))
			result, err := engine.CalculateBreakEvenFeeRate(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch output.NormalizeFormatName(format) {
			case "json":
				b, err := json.MarshalIndent(result, "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, string(b))
				return err
			case "console":
				fmt.Fprintf(out, "Break-even insurance fee: %s (configured %s)\n",
					output.FormatRate(result.InsuranceFeeRate), output.FormatRate(result.ConfiguredFeeRate))
				fmt.Fprintf(out, "ETF final: %s  Pension final: %s\n",
					output.FormatCurrency(result.ETFFinal), output.FormatCurrency(result.PensionFinal))
				return nil
			default:
				return fmt.Errorf("%w: %q. Try one of: console, json", output.ErrUnsupportedFormat, format)
			}
		},
	}
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "YAML configuration file")
	cmd.Flags().StringVarP(&format, "format", "f", "console", "output format: console or json")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}

func newETFCmd(logger loggerFactory) *cobra.Command {
	var (
		ter, interest, monthly, allowance, baseRate, dividendYield string
		fundType, policy, historical, column, format               string
		months                                                     int
		distributing                                               bool
	)

	cmd := &cobra.Command{
		Use:   "etf",
		Short: "Simulate an ETF savings plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseDecimals(map[string]string{
				"ter": ter, "interest": interest, "monthly": monthly,
				"allowance": allowance, "base-rate": baseRate, "dividend-yield": dividendYield,
			})
			if err != nil {
				return err
			}
			accumulating := !distributing
			cfg := domain.ETFConfig{
				TER:              values["ter"],
				YearlyInterest:   values["interest"],
				MonthlyInput:     values["monthly"],
				Accumulating:     &accumulating,
				FundType:         domain.FundType(fundType),
				AllowancePolicy:  domain.AllowancePolicy(policy),
				TaxAllowance:     ptr(values["allowance"]),
				BaseInterestRate: ptr(values["base-rate"]),
				DividendYield:    ptr(values["dividend-yield"]),
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			series, err := loadSeries(historical, column, months)
			if err != nil {
				return err
			}
			if len(series) == 0 && months <= 0 {
				return fmt.Errorf("--months must be positive unless --historical is given")
			}

			sim := calculation.NewETFSimulator(cfg)
			sim.SetLogger(logger(cmd))
			return output.RenderResult(cmd.OutOrStdout(), sim.RunSimulation(months, series), format)
		},
	}
	f := cmd.Flags()
	f.StringVar(&ter, "ter", "0.002", "total expense ratio per year")
	f.StringVar(&interest, "interest", "0.05", "gross yearly interest")
	f.StringVar(&monthly, "monthly", "100", "monthly contribution in EUR")
	f.IntVar(&months, "months", 0, "number of months (defaults to the history length with --historical)")
	f.BoolVar(&distributing, "distributing", false, "simulate a distributing fund instead of an accumulating one")
	f.StringVar(&fundType, "fund-type", string(domain.DefaultFundType), "equity, mixed or other")
	f.StringVar(&policy, "allowance-policy", string(domain.DefaultAllowancePolicy), "allowance at sale: renew, remaining or none")
	f.StringVar(&allowance, "allowance", decimal.NewFromInt(domain.DefaultTaxAllowance).String(), "yearly saver's allowance in EUR")
	f.StringVar(&baseRate, "base-rate", decimal.NewFromFloat(domain.DefaultBaseInterestRate).String(), "Basiszins used for the Vorabpauschale")
	f.StringVar(&dividendYield, "dividend-yield", decimal.NewFromFloat(domain.DefaultDividendYield).String(), "yearly dividend yield of a distributing fund")
	f.StringVar(&historical, "historical", "", "CSV of index values to derive monthly returns from")
	f.StringVar(&column, "column", "", "value column of the historical CSV")
	f.StringVarP(&format, "format", "f", "console", "output format: console, json or csv")
	return cmd
}

func newPensionCmd(logger loggerFactory) *cobra.Command {
	var (
		ter, interest, monthly, fee, historical, column, format string
		birthDate                                               string
		age, retirementAge, months                              int
		annuity                                                 bool
	)

	cmd := &cobra.Command{
		Use:   "pension",
		Short: "Simulate a funded pension until retirement",
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseDecimals(map[string]string{
				"ter": ter, "interest": interest, "monthly": monthly, "fee": fee,
			})
			if err != nil {
				return err
			}
			if birthDate != "" {
				born, err := dateutil.ParseDate(birthDate)
				if err != nil {
					return fmt.Errorf("invalid --birth-date: %w", err)
				}
				age = dateutil.Age(born, calculation.Now())
			}
			capital := !annuity
			cfg := domain.PensionConfig{
				TER:              values["ter"],
				YearlyInterest:   values["interest"],
				MonthlyInput:     values["monthly"],
				CurrentAge:       age,
				InsuranceFeeRate: ptr(values["fee"]),
				RetirementAge:    &retirementAge,
				CapitalPayout:    &capital,
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			if months <= 0 {
				months = cfg.Resolve().Months()
			}
			series, err := loadSeries(historical, column, months)
			if err != nil {
				return err
			}

			sim := calculation.NewPensionSimulator(cfg)
			sim.SetLogger(logger(cmd))
			return output.RenderResult(cmd.OutOrStdout(), sim.RunSimulation(series), format)
		},
	}
	f := cmd.Flags()
	f.StringVar(&ter, "ter", "0.002", "total expense ratio per year")
	f.StringVar(&interest, "interest", "0.05", "gross yearly interest")
	f.StringVar(&monthly, "monthly", "100", "monthly contribution in EUR")
	f.StringVar(&fee, "fee", decimal.NewFromFloat(domain.DefaultInsuranceFeeRate).String(), "yearly insurance fee rate")
	f.IntVar(&age, "age", 0, "current age")
	f.StringVar(&birthDate, "birth-date", "", "date of birth, used instead of --age")
	f.IntVar(&retirementAge, "retirement-age", domain.DefaultRetirementAge, "retirement age")
	f.IntVar(&months, "months", 0, "months of history to use with --historical (defaults to the pension horizon)")
	f.BoolVar(&annuity, "annuity", false, "take an annuity instead of a capital payout")
	f.StringVar(&historical, "historical", "", "CSV of index values to derive monthly returns from")
	f.StringVar(&column, "column", "", "value column of the historical CSV")
	f.StringVarP(&format, "format", "f", "console", "output format: console, json or csv")
	cmd.MarkFlagsOneRequired("age", "birth-date")
	cmd.MarkFlagsMutuallyExclusive("age", "birth-date")
	return cmd
}

func newRatesCmd() *cobra.Command {
	var (
		historical, column, format string
		months                     int
	)

	cmd := &cobra.Command{
		Use:   "rates",
		Short: "Show the monthly returns derived from a historical CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, err := calculation.NewHistoricalRateProviderWithColumn(historical, column)
			if err != nil {
				return err
			}
			if months <= 0 {
				months = provider.Available()
			}
			rates := provider.GetMonthlyInterestRates(months)
			stats := provider.Statistics()
			out := cmd.OutOrStdout()

			switch output.NormalizeFormatName(format) {
			case "json":
				b, err := json.MarshalIndent(struct {
					Source     string                           `json:"source"`
					Points     int                              `json:"points"`
					Statistics calculation.HistoricalStatistics `json:"statistics"`
					Rates      []decimal.Decimal                `json:"rates"`
				}{provider.Source(), provider.Len(), stats, rates}, "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, string(b))
				return err
			case "console":
				fmt.Fprintf(out, "Source: %s (%d points, %d returns)\n", provider.Source(), provider.Len(), stats.Count)
				if first, last := provider.Period(); !first.IsZero() {
					fmt.Fprintf(out, "Period: %s to %s (%d months)\n", first.Format("2006-01-02"), last.Format("2006-01-02"), provider.Span())
				} else {
					fmt.Fprintf(out, "Period: dates not recognised, file order assumed\n")
				}
				fmt.Fprintf(out, "Mean: %s  StdDev: %s  Min: %s  Max: %s\n",
					output.FormatRate(stats.Mean), output.FormatRate(stats.StdDev), output.FormatRate(stats.Min), output.FormatRate(stats.Max))
				if months > provider.Available() {
					fmt.Fprintf(out, "First %d months padded with the mean return\n", months-provider.Available())
				}
				for i, r := range rates {
					fmt.Fprintf(out, "%4d %s\n", i+1, r.StringFixed(6))
				}
				return nil
			default:
				return fmt.Errorf("%w: %q. Try one of: console, json", output.ErrUnsupportedFormat, format)
			}
		},
	}
	cmd.Flags().StringVar(&historical, "historical", "", "CSV of index values")
	cmd.Flags().StringVar(&column, "column", "", "value column (default \"MSCI World\", then the second column)")
	cmd.Flags().IntVar(&months, "months", 0, "number of monthly returns to print (default: all)")
	cmd.Flags().StringVarP(&format, "format", "f", "console", "output format: console or json")
	_ = cmd.MarkFlagRequired("historical")
	return cmd
}

func newExampleCmd() *cobra.Command {
	var outFile string

	cmd := &cobra.Command{
		Use:   "example",
		Short: "Print an example configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			parser := config.NewInputParser()
			example := parser.CreateExampleConfiguration()
			if outFile != "" {
				if err := parser.SaveConfiguration(example, outFile); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Example configuration written to %s\n", outFile)
				return nil
			}
			b, err := parser.Marshal(example)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	}
	cmd.Flags().StringVarP(&outFile, "output", "o", "", "write the example to this file")
	return cmd
}

func newServeCmd(logger loggerFactory) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the simulators over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if port := os.Getenv("PORT"); port != "" && !cmd.Flags().Changed("addr") {
				addr = ":" + port
			}
			log := logger(cmd)
			engine := calculation.NewComparisonEngine()
			engine.SetLogger(log)
			return server.New(engine, log).ListenAndServe(addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address (PORT overrides the default)")
	return cmd
}

func newFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List report formats and their aliases",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Formats: %s\n", strings.Join(output.AvailableFormatterNames(), ", "))
			fmt.Fprintf(out, "Aliases: %s\n", strings.Join(output.AvailableFormatAliases(), ", "))
		},
	}
}

// withOutput runs write against the named file, or stdout when name is empty.
func withOutput(cmd *cobra.Command, name string, write func(io.Writer) error) error {
	if name == "" {
		return write(cmd.OutOrStdout())
	}
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func loadSeries(path, column string, months int) ([]decimal.Decimal, error) {
	if path == "" {
		return nil, nil
	}
	provider, err := calculation.NewHistoricalRateProviderWithColumn(path, column)
	if err != nil {
		return nil, err
	}
	if months <= 0 {
		return provider.Returns(), nil
	}
	return provider.GetMonthlyInterestRates(months), nil
}

func parseDecimals(raw map[string]string) (map[string]decimal.Decimal, error) {
	values := make(map[string]decimal.Decimal, len(raw))
	for name, s := range raw {
		d, err := decimal.NewFromString(strings.TrimSpace(s))
		if err != nil {
			return nil, fmt.Errorf("invalid --%s %q: %w", name, s, err)
		}
		values[name] = d
	}
	return values, nil
}

func ptr[T any](v T) *T { return &v }
