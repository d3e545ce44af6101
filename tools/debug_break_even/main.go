package main

import (
	"context"
	"fmt"
	"os"

	calc "github.com/rpgo/etfpension/internal/calculation"
	"github.com/rpgo/etfpension/internal/config"
	"github.com/rpgo/etfpension/internal/domain"
)

// debug_break_even prints both vehicles' balances at every year end and the
// first point at which the leader changes.
func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: debug_break_even <config-file>")
		return
	}
	f := os.Args[1]
	p := config.NewInputParser()
	cfg, err := p.LoadFromFile(f)
	if err != nil {
		panic(err)
	}
	engine := calc.NewComparisonEngine()
	res, err := engine.RunComparison(context.Background(), cfg)
	if err != nil {
		panic(err)
	}

	etf, pension := res.ETF.Years, res.Pension.Years
	n := min(len(etf), len(pension))
	if n == 0 {
		fmt.Println("no yearly data")
		return
	}

	fmt.Println("Year,Month,Invested,ETF_Balance,ETF_TaxPaid,Pension_Balance,Diff")
	for i := 0; i < n; i++ {
		e, pn := etf[i], pension[i]
		fmt.Printf("%d,%d,%s,%s,%s,%s,%s\n", e.Year, e.Month, e.Invested.StringFixed(0),
			e.Balance.StringFixed(2), e.TaxPaid.StringFixed(2), pn.Balance.StringFixed(2), e.Balance.Sub(pn.Balance).StringFixed(2))
	}

	// The last row is after the sale and payout taxes.
	fmt.Printf("\nFinal: etf=%s pension=%s better=%s\n", res.ETF.FinalAmount.StringFixed(2), res.Pension.FinalAmount.StringFixed(2), res.Better)
	cross, err := calc.CalculateBalanceCrossover(etf, pension)
	if err != nil {
		panic(err)
	}
	if cross == nil {
		fmt.Println("BreakEven: none")
		return
	}
	leader := domain.VehicleETF
	if cross.Leader == "b" {
		leader = domain.VehiclePension
	}
	fmt.Printf("BreakEven: %s takes the lead in month %d (year %d, %s through it) at %s\n",
		leader, cross.Month, cross.Year, cross.Fraction.StringFixed(2), cross.Balance.StringFixed(2))
}
