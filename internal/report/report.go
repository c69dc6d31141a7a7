package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/olekukonko/tablewriter"

	"github.com/contactkeval/strangle-replay/internal/backtest/engine"
)

func WriteJSON(rep *engine.Report, outdir string) error {
	b, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outdir, "trades.json"), b, 0644)
}

func WriteCSV(trades []engine.Trade, outdir string) error {
	f, err := os.Create(filepath.Join(outdir, "trades.csv"))
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()
	headers := []string{"open_date", "close_date", "opening_price", "final_price", "upper_strike", "lower_strike", "call_premium", "put_premium", "total_premium", "option_cost", "trade_result", "trade_result_pct", "exceeded", "close_within", "early_exit", "days_held", "initial_volatility"}
	if err := w.Write(headers); err != nil {
		return err
	}
	for _, t := range trades {
		row := []string{
			t.OpenDate.Format("2006-01-02"),
			t.CloseDate.Format("2006-01-02"),
			fmt.Sprintf("%.2f", t.OpeningPrice),
			fmt.Sprintf("%.2f", t.FinalPrice),
			fmt.Sprintf("%.2f", t.UpperStrike),
			fmt.Sprintf("%.2f", t.LowerStrike),
			fmt.Sprintf("%.2f", t.CallPremium),
			fmt.Sprintf("%.2f", t.PutPremium),
			fmt.Sprintf("%.2f", t.TotalPremium),
			fmt.Sprintf("%.2f", t.OptionCost),
			fmt.Sprintf("%.2f", t.Result),
			fmt.Sprintf("%.2f", t.ResultPct),
			fmt.Sprintf("%t", t.Exceeded),
			fmt.Sprintf("%t", t.CloseWithin),
			fmt.Sprintf("%t", t.EarlyExit),
			fmt.Sprintf("%d", t.DaysHeld),
			fmt.Sprintf("%.2f", t.InitialVolatility),
		}
		_ = w.Write(row)
	}
	return nil
}

// RenderTrades prints the trade list as a console table.
func RenderTrades(out io.Writer, trades []engine.Trade) {
	table := tablewriter.NewWriter(out)
	table.Header("Open", "Close", "Spot", "Final", "Lower", "Upper", "Premium", "Result", "Result%", "Exit", "Days")

	for _, t := range trades {
		exit := "expiry"
		if t.EarlyExit {
			exit = "early"
		}
		table.Append(
			t.OpenDate.Format("2006-01-02"),
			t.CloseDate.Format("2006-01-02"),
			fmt.Sprintf("%.2f", t.OpeningPrice),
			fmt.Sprintf("%.2f", t.FinalPrice),
			fmt.Sprintf("%.2f", t.LowerStrike),
			fmt.Sprintf("%.2f", t.UpperStrike),
			fmt.Sprintf("%.2f", t.TotalPremium),
			fmt.Sprintf("%.2f", t.Result),
			fmt.Sprintf("%.1f%%", t.ResultPct),
			exit,
			fmt.Sprintf("%d", t.DaysHeld),
		)
	}
	table.Render()
}

// RenderSummary prints the aggregate statistics as a console table.
func RenderSummary(out io.Writer, s engine.Summary) {
	rr := fmt.Sprintf("%.2f", s.RiskReward)
	if s.RiskRewardInfinite {
		rr = "INF"
	}

	table := tablewriter.NewWriter(out)
	table.Header("Metric", "Value")
	rows := [][]string{
		{"Total trades", fmt.Sprintf("%d", s.TotalTrades)},
		{"Never exceeded", fmt.Sprintf("%d (%.1f%%)", s.NeverExceeded, s.NeverExceededPct)},
		{"Exceeded", fmt.Sprintf("%d (%.1f%%)", s.Exceeded, s.ExceededPct)},
		{"Exceeded, closed within", fmt.Sprintf("%d (%.1f%% of exceeded)", s.ExceededWithin, s.ExceededWithinPct)},
		{"Both sides, closed within", fmt.Sprintf("%d (%.1f%% of recovered)", s.ExceededBothWithin, s.ExceededBothPct)},
		{"Closed within band", fmt.Sprintf("%d (%.1f%%)", s.ClosedWithin, s.ClosedWithinPct)},
		{"Early exits", fmt.Sprintf("%d (%.1f%%)", s.EarlyExits, s.EarlyExitsPct)},
		{"Avg days held", fmt.Sprintf("%.1f", s.AvgDaysHeld)},
		{"Total result", fmt.Sprintf("%.2f", s.TotalResult)},
		{"Avg result / trade", fmt.Sprintf("%.2f (%.1f%%)", s.AvgResult, s.AvgResultPct)},
		{"Win rate", fmt.Sprintf("%.1f%% (%d/%d)", s.WinRate, s.ProfitableTrades, s.TotalTrades)},
		{"Avg win / avg loss", fmt.Sprintf("%.2f / %.2f", s.AvgWin, s.AvgLoss)},
		{"Risk/reward", rr},
	}
	for _, r := range rows {
		table.Append(r[0], r[1])
	}
	table.Render()
}
