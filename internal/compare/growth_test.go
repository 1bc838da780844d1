package compare

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"HedgeMirror/internal/model"
)

func comparison() *model.Comparison {
	return &model.Comparison{
		Fund:       "Fund",
		Approaches: []string{"simple"},
		Benchmark:  "VOO",
		Rows: []model.ComparisonRow{
			{EvalDate: d1, Returns: map[string]float64{"simple": math.NaN()}, Benchmark: 2, Outperformance: math.NaN()},
			{EvalDate: d2, Returns: map[string]float64{"simple": 5}, Benchmark: -10, Outperformance: 15},
		},
	}
}

func TestGrowth(t *testing.T) {
	g := Growth(comparison(), 10000)
	assert.Equal(t, 10000.0, g.Principal)
	assert.Equal(t, []string{"simple", "VOO"}, g.Columns)
	require.Len(t, g.Rows, 2)

	assert.Equal(t, 10000.00, g.Rows[0].Values["simple"])
	assert.Equal(t, 10500.00, g.Rows[1].Values["simple"])
	assert.Equal(t, 10200.00, g.Rows[0].Values["VOO"])
	assert.Equal(t, 9180.00, g.Rows[1].Values["VOO"])
	assert.Equal(t, d2, g.Rows[1].EvalDate)
}

func TestGrowth_Idempotent(t *testing.T) {
	cmp := comparison()
	first := Growth(cmp, 2500)
	second := Growth(cmp, 2500)
	assert.Equal(t, first, second)
	assert.True(t, math.IsNaN(cmp.Rows[0].Returns["simple"]), "input is not modified")
}

func TestGrowth_Empty(t *testing.T) {
	g := Growth(&model.Comparison{Approaches: []string{"a", "b"}, Benchmark: "VOO"}, 100)
	assert.Equal(t, []string{"a", "b", "VOO"}, g.Columns)
	assert.Empty(t, g.Rows)
}

func TestSummarize(t *testing.T) {
	stats := Summarize(comparison())
	require.Len(t, stats, 2)

	assert.Equal(t, "simple", stats[0].Column)
	assert.Equal(t, 1, stats[0].Periods)
	assert.InDelta(t, 5.0, stats[0].MeanPct, 1e-9)
	assert.InDelta(t, 1.0, stats[0].HitRate, 1e-9)

	assert.Equal(t, "VOO", stats[1].Column)
	assert.Equal(t, 2, stats[1].Periods)
	assert.InDelta(t, (1.02*0.9-1)*100, stats[1].CumulativePct, 1e-9)
	assert.True(t, math.IsNaN(stats[1].HitRate))
}
