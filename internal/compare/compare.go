// Package compare lines up portfolio returns against the benchmark and
// projects the growth of a hypothetical investment.
package compare

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"HedgeMirror/internal/model"
	"HedgeMirror/internal/portfolio"
)

// Compare merges the period returns of every portfolio (outer union on the
// evaluation date) and matches each date with the nearest benchmark return.
// Outperformance is only filled when exactly one approach is compared.
// All numbers are rounded to 2 decimals; rows are sorted by date.
func Compare(fund string, portfolios []*model.Portfolio, returns *model.PriceReturns, opts portfolio.Options) (*model.Comparison, error) {
	if len(portfolios) == 0 {
		return nil, errors.New("no portfolios to compare")
	}

	cmp := &model.Comparison{Fund: fund, Benchmark: returns.Benchmark}
	seen := make(map[string]bool)
	rows := make(map[time.Time]*model.ComparisonRow)
	for _, pf := range portfolios {
		if seen[pf.Approach] {
			return nil, fmt.Errorf("duplicate approach %q", pf.Approach)
		}
		seen[pf.Approach] = true
		cmp.Approaches = append(cmp.Approaches, pf.Approach)

		for _, pr := range pf.Periods {
			r, ok := rows[pr.EvalDate]
			if !ok {
				r = &model.ComparisonRow{EvalDate: pr.EvalDate, Period: pr.Period, Returns: make(map[string]float64)}
				rows[pr.EvalDate] = r
			}
			r.Returns[pf.Approach] = pr.ReturnPct
		}
	}

	single := len(cmp.Approaches) == 1
	for _, r := range rows {
		for _, a := range cmp.Approaches {
			if _, ok := r.Returns[a]; !ok {
				r.Returns[a] = model.Undefined()
			}
		}

		r.Benchmark = model.Undefined()
		if pt, ok := portfolio.Nearest(returns.BenchmarkSeries, r.EvalDate, opts.TieBreak, opts.MaxGap); ok {
			r.Benchmark = pt.ReturnPct
		}

		r.Outperformance = model.Undefined()
		if single {
			if p := r.Returns[cmp.Approaches[0]]; model.Defined(p) && model.Defined(r.Benchmark) {
				r.Outperformance = Round2(p - r.Benchmark)
			}
		}

		for a, v := range r.Returns {
			r.Returns[a] = Round2(v)
		}
		r.Benchmark = Round2(r.Benchmark)
		cmp.Rows = append(cmp.Rows, *r)
	}

	sort.Slice(cmp.Rows, func(i, j int) bool { return cmp.Rows[i].EvalDate.Before(cmp.Rows[j].EvalDate) })
	return cmp, nil
}

// Round2 rounds half away from zero to 2 decimals, keeping NaN.
func Round2(x float64) float64 {
	if !model.Defined(x) {
		return x
	}
	return decimal.NewFromFloat(x).Round(2).InexactFloat64()
}
