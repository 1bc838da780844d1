// Package portfolio composes a cloned portfolio from the disclosure table and
// the aligned trailing returns.
package portfolio

import (
	"fmt"
	"sort"
	"time"

	"HedgeMirror/internal/model"
	"HedgeMirror/internal/strategy"
)

// Options controls return alignment.
type Options struct {
	TieBreak TieBreak
	MaxGap   time.Duration // 0 = unlimited
}

// Compose joins each disclosure row with the return observation nearest its
// evaluation date, weighs every period with policy and sums weighted returns.
//
// Weights are computed before unpriced rows are dropped, so with
// strategy.AllDisclosed the surviving weights of a period can sum to less than 1.
// The first chronological period's return is always undefined.
func Compose(table *model.DisclosureTable, returns *model.PriceReturns, policy strategy.Policy, opts Options) (*model.Portfolio, error) {
	var order []string
	groups := make(map[string][]model.Position)
	for _, row := range table.Rows {
		p := model.Position{Disclosure: row, ReturnPct: model.Undefined(), Weight: model.Undefined()}
		if pt, ok := Nearest(returns.ByTicker[row.Ticker], row.EvalDate, opts.TieBreak, opts.MaxGap); ok {
			p.AsOf = pt.AsOf
			p.ReturnPct = pt.ReturnPct
		}
		if _, ok := groups[row.Period]; !ok {
			order = append(order, row.Period)
		}
		groups[row.Period] = append(groups[row.Period], p)
	}

	out := &model.Portfolio{Approach: policy.Name()}
	for _, label := range order {
		positions := groups[label]
		weights := policy.Weigh(positions)
		if len(weights) != len(positions) {
			return nil, fmt.Errorf("policy %s returned %d weights for %d positions", policy.Name(), len(weights), len(positions))
		}
		for i := range positions {
			positions[i].Weight = weights[i]
		}
		out.Periods = append(out.Periods, periodReturns(label, positions)...)
		for _, p := range positions {
			if p.Priced() {
				out.Positions = append(out.Positions, p)
			}
		}
	}

	sort.SliceStable(out.Periods, func(i, j int) bool { return out.Periods[i].EvalDate.Before(out.Periods[j].EvalDate) })
	if len(out.Periods) > 0 {
		out.Periods[0].ReturnPct = model.Undefined()
	}
	return out, nil
}

// periodReturns sums weight*return per evaluation date of one period label.
func periodReturns(label string, positions []model.Position) []model.PeriodReturn {
	var dates []time.Time
	sums := make(map[time.Time]float64)
	counted := make(map[time.Time]bool)
	for _, p := range positions {
		if _, ok := sums[p.EvalDate]; !ok {
			dates = append(dates, p.EvalDate)
			sums[p.EvalDate] = 0
		}
		if p.Priced() && model.Defined(p.Weight) {
			sums[p.EvalDate] += p.Weight * p.ReturnPct
			counted[p.EvalDate] = true
		}
	}

	out := make([]model.PeriodReturn, 0, len(dates))
	for _, d := range dates {
		r := model.PeriodReturn{Period: label, EvalDate: d, ReturnPct: model.Undefined()}
		if counted[d] {
			r.ReturnPct = sums[d]
		}
		out = append(out, r)
	}
	return out
}
