package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Vehicle names used in results and reports.
const (
	VehicleETF     = "etf"
	VehiclePension = "pension"
)

// YearSnapshot records the state of a run at the close of a simulated year
// (or at the final month when the run ends mid-year).
type YearSnapshot struct {
	Year     int             `json:"year"`
	Month    int             `json:"month"`
	Balance  decimal.Decimal `json:"balance"`
	Invested decimal.Decimal `json:"invested"`
	TaxPaid  decimal.Decimal `json:"tax_paid"`
}

// SimulationResult is the outcome of one simulation run.
type SimulationResult struct {
	Vehicle       string          `json:"vehicle"`
	FinalAmount   decimal.Decimal `json:"final_amount"`
	TotalInvested decimal.Decimal `json:"total_invested"`
	TotalTaxPaid  decimal.Decimal `json:"total_tax_paid"`
	Months        int             `json:"months"`
	Years         []YearSnapshot  `json:"years,omitempty"`
}

// Profit is the net gain after all taxes.
func (r SimulationResult) Profit() decimal.Decimal {
	return r.FinalAmount.Sub(r.TotalInvested)
}

// PricePoint is one row of a historical index series.
type PricePoint struct {
	Date  string          `json:"date"`
	Time  time.Time       `json:"time"`
	Value decimal.Decimal `json:"value"`
}

// Comparison holds the side by side results of both vehicles run over the
// same horizon and return assumptions.
type Comparison struct {
	ETF           SimulationResult `json:"etf"`
	Pension       SimulationResult `json:"pension"`
	Difference    decimal.Decimal  `json:"difference"` // ETF minus pension final amount
	Better        string           `json:"better"`
	Months        int              `json:"months"`
	UsedHistory   bool             `json:"used_history"`
	AverageReturn *decimal.Decimal `json:"average_return,omitempty"` // mean monthly return when historical data was used
	GeneratedAt   time.Time        `json:"generated_at"`
	Assumptions   []string         `json:"assumptions,omitempty"`
}
