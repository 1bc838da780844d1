package model

import "time"

// ComparisonRow holds one evaluation date of the comparison table.
type ComparisonRow struct {
	EvalDate       time.Time
	Period         string
	Returns        map[string]float64 // approach -> return pct, NaN when undefined
	Benchmark      float64
	Outperformance float64 // NaN unless exactly one approach is compared
}

// Comparison is the final table of an evaluation run. It is never mutated after construction.
type Comparison struct {
	Fund       string
	Approaches []string
	Benchmark  string
	Rows       []ComparisonRow
}

// GrowthRow is the hypothetical account value per column after one period.
type GrowthRow struct {
	EvalDate time.Time
	Values   map[string]float64
}

// Growth is the cumulative value of a principal invested per approach and in the benchmark.
type Growth struct {
	Principal float64
	Columns   []string
	Rows      []GrowthRow
}

// ColumnStats summarizes one return column of a comparison.
type ColumnStats struct {
	Column        string
	Periods       int
	MeanPct       float64
	StdDevPct     float64
	CumulativePct float64
	HitRate       float64 // share of periods beating the benchmark, NaN for the benchmark itself
}
