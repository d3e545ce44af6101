package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/etfpension/internal/calculation"
	"github.com/rpgo/etfpension/internal/output"
)

const testConfig = `etf:
  ter: 0.002
  yearly_interest: 0.05
  monthly_input: 100
pension:
  ter: 0.002
  yearly_interest: 0.05
  monthly_input: 100
  current_age: 57
`

const testPrices = `Date,MSCI World
2024-01-31,100
2024-02-29,110
2024-03-31,99
2024-04-30,108.9
`

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestCompareCommand(t *testing.T) {
	cfg := writeFile(t, "config.yaml", testConfig)

	out, _, err := run(t, "compare", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "ETF VS FUNDED PENSION")
	assert.Contains(t, out, "Better: etf")

	out, _, err = run(t, "compare", "-c", cfg, "-f", "csv")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "etf,120,14925.43,12000.00,"), lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "pension,120,14537.28,12000.00,"), lines[2])
}

func TestCompareCommandWritesFile(t *testing.T) {
	cfg := writeFile(t, "config.yaml", testConfig)
	target := filepath.Join(t.TempDir(), "report.json")

	out, _, err := run(t, "compare", "-c", cfg, "-f", "json", "-o", target)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"better": "etf"`)
}

func TestCompareCommandErrors(t *testing.T) {
	_, _, err := run(t, "compare")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `required flag(s) "config" not set`)

	cfg := writeFile(t, "config.yaml", testConfig)
	_, _, err = run(t, "compare", "-c", cfg, "-f", "pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported report format")
}

func TestCompareVerboseLogs(t *testing.T) {
	cfg := writeFile(t, "config.yaml", testConfig)

	_, stderr, err := run(t, "--verbose", "compare", "-c", cfg)
	require.NoError(t, err)
	assert.Contains(t, stderr, "level=DEBUG")
	assert.Contains(t, stderr, "compared 120 months")

	_, stderr, err = run(t, "compare", "-c", cfg)
	require.NoError(t, err)
	assert.Empty(t, stderr)
}

func TestETFCommand(t *testing.T) {
	out, _, err := run(t, "etf", "--months", "120", "-f", "csv")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 11)
	assert.True(t, strings.HasPrefix(lines[10], "10,120,14925.43,12000.00,618.67"), lines[10])

	out, _, err = run(t, "etf", "--months", "120", "--distributing")
	require.NoError(t, err)
	assert.Contains(t, out, "ETF SIMULATION (120 months)")
	assert.Contains(t, out, "Profit After Tax:")

	out, _, err = run(t, "etf", "--months", "120", "--distributing", "-f", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "15186.43")
}

func TestETFCommandValidation(t *testing.T) {
	_, _, err := run(t, "etf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--months must be positive")

	_, _, err = run(t, "etf", "--months", "12", "--ter", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid --ter "abc"`)

	_, _, err = run(t, "etf", "--months", "12", "--fund-type", "bond")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fund type must be")
}

func TestETFCommandHistorical(t *testing.T) {
	prices := writeFile(t, "msci.csv", testPrices)

	out, _, err := run(t, "etf", "--historical", prices, "-f", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"months": 3`)
	assert.Contains(t, out, `"total_invested": "300"`)
}

func TestPensionCommand(t *testing.T) {
	out, _, err := run(t, "pension", "--age", "57", "-f", "csv")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 11)
	assert.True(t, strings.HasPrefix(lines[10], "10,120,14537.28,12000.00,385.43"), lines[10])

	out, _, err = run(t, "pension", "--age", "57", "--annuity", "-f", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "14791.67")

	calculation.SetNowFunc(func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) })
	defer calculation.SetNowFunc(nil)
	byBirth, _, err := run(t, "pension", "--birth-date", "1968-01-15", "--annuity", "-f", "csv")
	require.NoError(t, err)
	assert.Equal(t, out, byBirth)

	_, _, err = run(t, "pension")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one of the flags in the group [age birth-date] is required")

	_, _, err = run(t, "pension", "--birth-date", "someday")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --birth-date")
}

func TestRatesCommand(t *testing.T) {
	prices := writeFile(t, "msci.csv", testPrices)

	out, _, err := run(t, "rates", "--historical", prices, "--months", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "(4 points, 3 returns)")
	assert.Contains(t, out, "Period: 2024-01-31 to 2024-04-30 (3 months)")
	assert.Contains(t, out, "First 2 months padded with the mean return")
	assert.Contains(t, out, "   1 0.033333")
	assert.Contains(t, out, "   5 0.100000")

	out, _, err = run(t, "rates", "--historical", prices, "-f", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"points": 4`)

	dayFirst := writeFile(t, "dayfirst.csv", "Date,MSCI World\n31-01-2024,100\n29-02-2024,110\n")
	out, _, err = run(t, "rates", "--historical", dayFirst)
	require.NoError(t, err)
	assert.Contains(t, out, "Period: dates not recognised, file order assumed")
	assert.Contains(t, out, "   1 0.100000")
}

func TestExampleCommand(t *testing.T) {
	out, _, err := run(t, "example")
	require.NoError(t, err)
	assert.Contains(t, out, "etf:")
	assert.Contains(t, out, "current_age: 35")

	target := filepath.Join(t.TempDir(), "example.yaml")
	_, _, err = run(t, "example", "-o", target)
	require.NoError(t, err)

	out, _, err = run(t, "compare", "-c", target, "-f", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "Horizon: 384 months")
}

func TestFormatsCommand(t *testing.T) {
	out, _, err := run(t, "formats")
	require.NoError(t, err)
	assert.Contains(t, out, "Formats: console, console-verbose, csv, detailed-csv, html, json")
	assert.Contains(t, out, "json-pretty")
}

func TestMonteCarloCommand(t *testing.T) {
	prices := writeFile(t, "msci.csv", testPrices)
	cfg := writeFile(t, "mc.yaml", "historical_data: "+prices+"\nhorizon_months: 24\n"+testConfig)

	out, _, err := run(t, "montecarlo", "-c", cfg, "-n", "20", "--seed", "9")
	require.NoError(t, err)
	assert.Contains(t, out, "MONTE CARLO: 20 paths of 24 months (resampled history, seed 9)")
	assert.Contains(t, out, "P50")

	out, _, err = run(t, "montecarlo", "-c", cfg, "-n", "20", "--seed", "9", "--statistical", "-f", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"num_simulations": 20`)
	assert.Contains(t, out, `"use_historical": false`)
	assert.NotContains(t, out, `"outcomes": [`)

	fixed := writeFile(t, "fixed.yaml", testConfig)
	_, _, err = run(t, "montecarlo", "-c", fixed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "needs historical_data or monthly_returns")
}

func TestBreakEvenCommand(t *testing.T) {
	cfg := writeFile(t, "config.yaml", testConfig)

	out, _, err := run(t, "breakeven", "-c", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Break-even insurance fee:")
	assert.Contains(t, out, "(configured 0.80%)")

	out, _, err = run(t, "breakeven", "-c", cfg, "-f", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"configured_fee_rate": "0.008"`)

	_, _, err = run(t, "breakeven", "-c", cfg, "-f", "html")
	assert.ErrorIs(t, err, output.ErrUnsupportedFormat)
}
