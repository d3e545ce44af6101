package output_test

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	stddec "github.com/shopspring/decimal"

	"github.com/rpgo/etfpension/internal/domain"
	"github.com/rpgo/etfpension/internal/output"
)

func sampleComparison() *domain.Comparison {
	return &domain.Comparison{
		ETF:        domain.SimulationResult{Vehicle: domain.VehicleETF, FinalAmount: stddec.NewFromInt(100), TotalInvested: stddec.NewFromInt(90), Months: 12},
		Pension:    domain.SimulationResult{Vehicle: domain.VehiclePension, FinalAmount: stddec.NewFromInt(95), TotalInvested: stddec.NewFromInt(90), Months: 12},
		Difference: stddec.NewFromInt(5),
		Better:     domain.VehicleETF,
		Months:     12,
	}
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	if err := output.Render(&buf, sampleComparison(), "csv-summary"); err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "Vehicle,Months,FinalAmount") {
		t.Fatalf("unexpected csv output: %s", buf.String())
	}
}

func TestRenderUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := output.Render(&buf, sampleComparison(), "xml"); err == nil {
		t.Fatalf("expected error for xml")
	}
	if buf.Len() != 0 {
		t.Fatalf("nothing should be written on error")
	}
}

func TestReportGenerator_JSON_CSV(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	sc := sampleComparison()
	name, err := output.GenerateReport(sc, "json")
	if err != nil {
		t.Fatalf("GenerateReport json error: %v", err)
	}
	if !strings.HasSuffix(name, ".json") {
		t.Fatalf("json report written to %q", name)
	}
	name, err = output.GenerateReport(sc, "csv")
	if err != nil {
		t.Fatalf("GenerateReport csv error: %v", err)
	}
	if !strings.HasSuffix(name, ".csv") {
		t.Fatalf("csv report written to %q", name)
	}
	if _, err := os.Stat(name); err != nil {
		t.Fatalf("report file missing: %v", err)
	}
	names, err := output.GenerateReport(sc, "all")
	if err != nil {
		t.Fatalf("GenerateReport all error: %v", err)
	}
	if parts := strings.Split(names, ","); len(parts) != 2 {
		t.Fatalf("expected two files for all, got %q", names)
	}

	sc.GeneratedAt = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	name, err = output.GenerateReport(sc, "yearly")
	if err != nil {
		t.Fatalf("GenerateReport yearly error: %v", err)
	}
	if name != "etfpension_report_20250102_030405.txt" {
		t.Fatalf("report named %q, want the generation timestamp", name)
	}
}
