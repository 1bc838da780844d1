package compare

import (
	"HedgeMirror/internal/calculator"
	"HedgeMirror/internal/model"
)

// DefaultPrincipal is the hypothetical initial investment.
const DefaultPrincipal = 10000

// Growth compounds principal through every period of cmp, once per approach
// and once for the benchmark. Undefined returns count as 0%.
func Growth(cmp *model.Comparison, principal float64) *model.Growth {
	columns := Columns(cmp)
	g := &model.Growth{Principal: principal, Columns: columns}

	running := make([]float64, len(columns))
	for i := range running {
		running[i] = principal
	}
	for _, r := range cmp.Rows {
		row := model.GrowthRow{EvalDate: r.EvalDate, Values: make(map[string]float64, len(columns))}
		for i, c := range columns {
			ret := r.Benchmark
			if i < len(cmp.Approaches) {
				ret = r.Returns[c]
			}
			if !model.Defined(ret) {
				ret = 0
			}
			running[i] *= 1 + ret/100
			row.Values[c] = Round2(running[i])
		}
		g.Rows = append(g.Rows, row)
	}
	return g
}

// Columns lists the approaches followed by the benchmark symbol.
func Columns(cmp *model.Comparison) []string {
	cols := append([]string(nil), cmp.Approaches...)
	return append(cols, cmp.Benchmark)
}

// Summarize computes per-column statistics; approaches are scored against the benchmark.
func Summarize(cmp *model.Comparison) []model.ColumnStats {
	bench := make([]float64, len(cmp.Rows))
	for i, r := range cmp.Rows {
		bench[i] = r.Benchmark
	}

	var out []model.ColumnStats
	for _, a := range cmp.Approaches {
		xs := make([]float64, len(cmp.Rows))
		for i, r := range cmp.Rows {
			xs[i] = r.Returns[a]
		}
		out = append(out, calculator.SummarizeColumn(a, xs, bench))
	}
	return append(out, calculator.SummarizeColumn(cmp.Benchmark, bench, nil))
}
