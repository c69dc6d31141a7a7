package engine

import "math"

// Summary aggregates a trade list into the statistics block. Percentages
// are 0..100; breach sub-rates are conditional on their parent population
// (within-rate over breached trades, both-sides-rate over recovered ones).
type Summary struct {
	TotalTrades int `json:"total_trades"`

	NeverExceeded      int     `json:"never_exceeded"`
	NeverExceededPct   float64 `json:"never_exceeded_pct"`
	Exceeded           int     `json:"exceeded"`
	ExceededPct        float64 `json:"exceeded_pct"`
	ExceededWithin     int     `json:"exceeded_within"`
	ExceededWithinPct  float64 `json:"exceeded_within_pct"`
	ExceededBothWithin int     `json:"exceeded_within_both"`
	ExceededBothPct    float64 `json:"exceeded_within_both_pct"`
	ExceededUpperOnly  int     `json:"exceeded_upper_only"`
	ExceededLowerOnly  int     `json:"exceeded_lower_only"`
	ExceededBothSides  int     `json:"exceeded_both_sides"`

	ClosedWithin     int     `json:"closed_within"`
	ClosedWithinPct  float64 `json:"closed_within_pct"`
	ClosedOutside    int     `json:"closed_outside"`
	ClosedOutsidePct float64 `json:"closed_outside_pct"`

	EarlyExits    int     `json:"early_exits"`
	EarlyExitsPct float64 `json:"early_exits_pct"`
	AvgDaysHeld   float64 `json:"avg_days_held"`

	TotalResult      float64 `json:"total_result"`
	AvgResult        float64 `json:"avg_result"`
	AvgResultPct     float64 `json:"avg_result_pct"`
	ProfitableTrades int     `json:"profitable_trades"`
	LosingTrades     int     `json:"losing_trades"`
	WinRate          float64 `json:"win_rate"`
	AvgWin           float64 `json:"avg_win"`
	AvgLoss          float64 `json:"avg_loss"`

	// RiskReward is |AvgWin / AvgLoss|. When the mean loss is exactly zero
	// (no losing trades, or only break-even ones) the ratio is unbounded;
	// RiskRewardInfinite marks that instead of emitting Inf, which JSON
	// cannot carry.
	RiskReward         float64 `json:"risk_reward"`
	RiskRewardInfinite bool    `json:"risk_reward_infinite"`
}

// Summarize reduces a trade list to its Summary. An empty list is the
// no-trades outcome, not a zero-valued summary.
func Summarize(trades []Trade) (Summary, error) {
	if len(trades) == 0 {
		return Summary{}, ErrNoValidTrades
	}

	var s Summary
	s.TotalTrades = len(trades)
	n := float64(len(trades))

	var sumWin, sumLoss, sumDays, sumPct float64
	for _, t := range trades {
		switch {
		case !t.Exceeded:
			s.NeverExceeded++
		default:
			s.Exceeded++
			if t.CloseWithin {
				s.ExceededWithin++
				if t.ExceededBoth {
					s.ExceededBothWithin++
				}
			}
			switch {
			case t.ExceededBoth:
				s.ExceededBothSides++
			case t.ExceededUpper:
				s.ExceededUpperOnly++
			case t.ExceededLower:
				s.ExceededLowerOnly++
			}
		}

		if t.CloseWithin {
			s.ClosedWithin++
		} else {
			s.ClosedOutside++
		}
		if t.EarlyExit {
			s.EarlyExits++
		}

		s.TotalResult += t.Result
		sumPct += t.ResultPct
		sumDays += float64(t.DaysHeld)

		// A flat trade counts as a loss: it tied up margin for nothing.
		if t.Result > 0 {
			s.ProfitableTrades++
			sumWin += t.Result
		} else {
			s.LosingTrades++
			sumLoss += t.Result
		}
	}

	s.NeverExceededPct = float64(s.NeverExceeded) / n * 100
	s.ExceededPct = float64(s.Exceeded) / n * 100
	s.ClosedWithinPct = float64(s.ClosedWithin) / n * 100
	s.ClosedOutsidePct = float64(s.ClosedOutside) / n * 100
	s.EarlyExitsPct = float64(s.EarlyExits) / n * 100
	s.AvgDaysHeld = sumDays / n
	s.AvgResult = s.TotalResult / n
	s.AvgResultPct = sumPct / n
	s.WinRate = float64(s.ProfitableTrades) / n * 100

	if s.Exceeded > 0 {
		s.ExceededWithinPct = float64(s.ExceededWithin) / float64(s.Exceeded) * 100
	}
	if s.ExceededWithin > 0 {
		s.ExceededBothPct = float64(s.ExceededBothWithin) / float64(s.ExceededWithin) * 100
	}
	if s.ProfitableTrades > 0 {
		s.AvgWin = sumWin / float64(s.ProfitableTrades)
	}
	if s.LosingTrades > 0 {
		s.AvgLoss = sumLoss / float64(s.LosingTrades)
	}

	if s.AvgLoss != 0 {
		s.RiskReward = math.Abs(s.AvgWin / s.AvgLoss)
	} else {
		// No money lost on average, break-even included: the ratio is
		// unbounded.
		s.RiskRewardInfinite = true
	}

	return s, nil
}
