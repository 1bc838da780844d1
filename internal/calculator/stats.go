package calculator

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"HedgeMirror/internal/model"
)

// SummarizeColumn computes period statistics for one return column.
// Undefined entries are skipped. bench may be nil; when given, it must be
// aligned with returns and is used for the hit rate.
func SummarizeColumn(name string, returns, bench []float64) model.ColumnStats {
	var xs []float64
	wins, compared := 0, 0
	for i, r := range returns {
		if !model.Defined(r) {
			continue
		}
		xs = append(xs, r)
		if bench != nil && i < len(bench) && model.Defined(bench[i]) {
			compared++
			if r > bench[i] {
				wins++
			}
		}
	}

	st := model.ColumnStats{
		Column:        name,
		Periods:       len(xs),
		MeanPct:       math.NaN(),
		StdDevPct:     math.NaN(),
		CumulativePct: math.NaN(),
		HitRate:       math.NaN(),
	}
	if len(xs) == 0 {
		return st
	}

	st.MeanPct = stat.Mean(xs, nil)
	if len(xs) > 1 {
		st.StdDevPct = stat.StdDev(xs, nil)
	}

	factors := make([]float64, len(xs))
	for i, x := range xs {
		factors[i] = 1 + x/100
	}
	st.CumulativePct = (floats.Prod(factors) - 1) * 100

	if compared > 0 {
		st.HitRate = float64(wins) / float64(compared)
	}
	return st
}
