package output

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestRenderResultConsole(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderResult(&buf, buildTestComparison().ETF, "text"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	content := buf.String()
	if !strings.HasPrefix(content, "ETF SIMULATION (96 months)") {
		t.Fatalf("unexpected heading %q", firstLine(content))
	}
	for _, want := range []string{"Total Tax Paid:", "Profit After Tax:", "Total Invested:", "Final Amount:"} {
		if !strings.Contains(content, want) {
			t.Fatalf("missing %q in %s", want, content)
		}
	}
}

func TestRenderResultCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderResult(&buf, buildTestComparison().Pension, "csv"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 || lines[2] != "8,96,10000.00,9600.00,10.00" {
		t.Fatalf("unexpected csv %q", buf.String())
	}
}

func TestRenderResultJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderResult(&buf, buildTestComparison().ETF, "json"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), `"vehicle": "etf"`) {
		t.Fatalf("unexpected json %s", buf.String())
	}
}

func TestRenderResultUnsupported(t *testing.T) {
	var buf bytes.Buffer
	err := RenderResult(&buf, buildTestComparison().ETF, "html")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}
