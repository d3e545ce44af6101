package output

import (
	"strings"
	"testing"

	"github.com/rpgo/etfpension/internal/domain"
	"github.com/shopspring/decimal"
)

func TestAnalyzeComparison_SelectsBetterVehicle(t *testing.T) {
	comparison := buildTestComparison()

	rec := AnalyzeComparison(comparison)
	if rec.Vehicle != domain.VehicleETF {
		t.Fatalf("expected etf, got %q", rec.Vehicle)
	}
	if !rec.Margin.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("margin = %s, want 1000", rec.Margin)
	}
	if !rec.PercentageChange.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("percentage = %s, want 10", rec.PercentageChange)
	}
}

func TestAnalyzeComparison_PensionAhead(t *testing.T) {
	comparison := buildTestComparison()
	comparison.ETF.FinalAmount = decimal.NewFromInt(8000)
	comparison.Difference = decimal.NewFromInt(-2000)
	comparison.Better = domain.VehiclePension

	rec := AnalyzeComparison(comparison)
	if rec.Vehicle != domain.VehiclePension {
		t.Fatalf("expected pension, got %q", rec.Vehicle)
	}
	if !rec.Margin.Equal(decimal.NewFromInt(2000)) {
		t.Fatalf("margin = %s, want 2000", rec.Margin)
	}
	if !rec.PercentageChange.Equal(decimal.NewFromInt(25)) {
		t.Fatalf("percentage = %s, want 25", rec.PercentageChange)
	}
}

func TestAnalyzeComparison_Nil(t *testing.T) {
	if rec := AnalyzeComparison(nil); rec.Vehicle != "" {
		t.Fatalf("expected empty recommendation, got %+v", rec)
	}
}

func TestGenerateAssumptions(t *testing.T) {
	etf := domain.ETFConfig{TER: decimal.RequireFromString("0.002"), YearlyInterest: decimal.RequireFromString("0.05"), MonthlyInput: decimal.NewFromInt(100)}
	pension := domain.PensionConfig{TER: decimal.RequireFromString("0.002"), YearlyInterest: decimal.RequireFromString("0.05"), MonthlyInput: decimal.NewFromInt(100), CurrentAge: 40}

	got := GenerateAssumptions(etf.Resolve(), pension.Resolve())
	if len(got) != 4 {
		t.Fatalf("expected 4 assumptions, got %d", len(got))
	}
	if !strings.Contains(got[0], "accumulating equity fund, partial exemption 30.00%") {
		t.Fatalf("unexpected etf assumption %q", got[0])
	}
	if got[2] != "Pension: TER 0.20%, insurance fee 0.80%, capital payout at 67" {
		t.Fatalf("unexpected pension assumption %q", got[2])
	}
	if got[3] != "Pension: Ertragsanteil 17%" {
		t.Fatalf("unexpected Ertragsanteil %q", got[3])
	}
}
