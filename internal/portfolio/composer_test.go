package portfolio

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"HedgeMirror/internal/model"
	"HedgeMirror/internal/strategy"
)

var (
	q1 = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	q2 = time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC)
	q3 = time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC)
)

const weeks = 13

func row(ticker string, date time.Time, shares, value, change float64) model.Disclosure {
	return model.Disclosure{
		Ticker: ticker, FilingDate: date, Shares: shares, Value: value, Change: change,
		EvalDate: date.AddDate(0, 0, 7*weeks), Period: model.PeriodLabel(date),
	}
}

func point(ticker string, asOf time.Time, ret float64) model.ReturnPoint {
	return model.ReturnPoint{Ticker: ticker, AsOf: asOf, ReturnPct: ret}
}

// scenarioTable: AAA 100 -> 150 shares ($10,000), BBB new with 50 shares ($5,000).
func scenarioTable() *model.DisclosureTable {
	return &model.DisclosureTable{
		Fund:  "Fund",
		Weeks: weeks,
		Dates: []time.Time{q1, q2},
		Rows: []model.Disclosure{
			row("AAA", q1, 100, 8000, math.NaN()),
			row("AAA", q2, 150, 10000, 50),
			row("BBB", q2, 50, 5000, 50),
		},
	}
}

func TestCompose_Scenario(t *testing.T) {
	const rAAA, rBBB = 6.0, -3.0
	eval := q2.AddDate(0, 0, 7*weeks)
	returns := &model.PriceReturns{ByTicker: map[string][]model.ReturnPoint{
		"AAA": {point("AAA", q2, 1), point("AAA", eval, rAAA)},
		"BBB": {point("BBB", eval, rBBB)},
	}}

	pf, err := Compose(scenarioTable(), returns, strategy.ValueWeighted{}, Options{})
	require.NoError(t, err)
	assert.Equal(t, "simple", pf.Approach)

	require.Len(t, pf.Periods, 2)
	assert.Equal(t, "q1_2023", pf.Periods[0].Period)
	assert.True(t, math.IsNaN(pf.Periods[0].ReturnPct), "seed period is undefined")

	assert.Equal(t, "q2_2023", pf.Periods[1].Period)
	assert.Equal(t, eval, pf.Periods[1].EvalDate)
	assert.InDelta(t, 10000.0/15000*rAAA+5000.0/15000*rBBB, pf.Periods[1].ReturnPct, 1e-9)

	weightSum := 0.0
	for _, p := range pf.Positions {
		if p.Period == "q2_2023" {
			weightSum += p.Weight
			switch p.Ticker {
			case "AAA":
				assert.InDelta(t, 0.667, p.Weight, 1e-3)
			case "BBB":
				assert.InDelta(t, 0.333, p.Weight, 1e-3)
			}
		}
	}
	assert.InDelta(t, 1.0, weightSum, 1e-6)
}

func TestCompose_UnpricedRowDropped(t *testing.T) {
	eval := q2.AddDate(0, 0, 7*weeks)
	returns := &model.PriceReturns{ByTicker: map[string][]model.ReturnPoint{
		"AAA": {point("AAA", eval, 6)},
		// BBB has no price data
	}}

	pf, err := Compose(scenarioTable(), returns, strategy.ValueWeighted{}, Options{})
	require.NoError(t, err)

	for _, p := range pf.Positions {
		assert.NotEqual(t, "BBB", p.Ticker)
	}
	// BBB is not a zero return: it simply contributes nothing, while its
	// value still sits in the default denominator.
	assert.InDelta(t, 10000.0/15000*6, pf.Periods[1].ReturnPct, 1e-9)

	pricedOnly, err := Compose(scenarioTable(), returns, strategy.ValueWeighted{Denominator: strategy.PricedOnly}, Options{})
	require.NoError(t, err)
	assert.InDelta(t, 6.0, pricedOnly.Periods[1].ReturnPct, 1e-9)
}

func TestCompose_PeriodWithoutPricesIsUndefined(t *testing.T) {
	table := scenarioTable()
	table.Dates = append(table.Dates, q3)
	table.Rows = append(table.Rows, row("CCC", q3, 10, 1000, 10))

	eval := q2.AddDate(0, 0, 7*weeks)
	returns := &model.PriceReturns{ByTicker: map[string][]model.ReturnPoint{
		"AAA": {point("AAA", eval, 6)},
		"BBB": {point("BBB", eval, 3)},
	}}
	pf, err := Compose(table, returns, strategy.ValueWeighted{}, Options{})
	require.NoError(t, err)
	require.Len(t, pf.Periods, 3)
	assert.Equal(t, "q3_2023", pf.Periods[2].Period)
	assert.True(t, math.IsNaN(pf.Periods[2].ReturnPct))
}

func TestCompose_ZeroValuePeriod(t *testing.T) {
	table := scenarioTable()
	table.Rows[1].Value = 0
	table.Rows[2].Value = 0
	eval := q2.AddDate(0, 0, 7*weeks)
	returns := &model.PriceReturns{ByTicker: map[string][]model.ReturnPoint{
		"AAA": {point("AAA", eval, 6)},
		"BBB": {point("BBB", eval, 3)},
	}}
	pf, err := Compose(table, returns, strategy.ValueWeighted{}, Options{})
	require.NoError(t, err)
	assert.True(t, math.IsNaN(pf.Periods[1].ReturnPct))
	for _, p := range pf.Positions {
		if p.Period == "q2_2023" {
			assert.True(t, math.IsNaN(p.Weight))
		}
	}
}

type shortPolicy struct{}

func (shortPolicy) Name() string                        { return "short" }
func (shortPolicy) Weigh(ps []model.Position) []float64 { return nil }

func TestCompose_PolicyContract(t *testing.T) {
	_, err := Compose(scenarioTable(), &model.PriceReturns{}, shortPolicy{}, Options{})
	assert.Error(t, err)
}

func TestNearest_TieBreak(t *testing.T) {
	target := q2
	series := []model.ReturnPoint{
		point("AAA", target.AddDate(0, 0, -3), 1),
		point("AAA", target.AddDate(0, 0, 3), 2),
	}

	p, ok := Nearest(series, target, TieEarlier, 0)
	require.True(t, ok)
	assert.Equal(t, 1.0, p.ReturnPct)

	p, ok = Nearest(series, target, TieLater, 0)
	require.True(t, ok)
	assert.Equal(t, 2.0, p.ReturnPct)
}

func TestNearest(t *testing.T) {
	series := []model.ReturnPoint{
		point("AAA", q1, 1),
		point("AAA", q1.AddDate(0, 0, 7), 2),
		point("AAA", q1.AddDate(0, 0, 14), 3),
	}
	tests := []struct {
		name   string
		target time.Time
		gap    time.Duration
		want   float64
		ok     bool
	}{
		{"exact", q1.AddDate(0, 0, 7), 0, 2, true},
		{"closer to earlier", q1.AddDate(0, 0, 9), 0, 2, true},
		{"closer to later", q1.AddDate(0, 0, 12), 0, 3, true},
		{"before series", q1.AddDate(0, 0, -30), 0, 1, true},
		{"after series", q1.AddDate(1, 0, 0), 0, 3, true},
		{"after series beyond gap", q1.AddDate(1, 0, 0), 7 * 24 * time.Hour, 0, false},
		{"within gap", q1.AddDate(0, 0, 16), 7 * 24 * time.Hour, 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := Nearest(series, tt.target, TieEarlier, tt.gap)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, p.ReturnPct)
			}
		})
	}

	_, ok := Nearest(nil, q1, TieEarlier, 0)
	assert.False(t, ok)
}

func TestParseTieBreak(t *testing.T) {
	tb, err := ParseTieBreak("")
	require.NoError(t, err)
	assert.Equal(t, TieEarlier, tb)

	tb, err = ParseTieBreak("LATER")
	require.NoError(t, err)
	assert.Equal(t, TieLater, tb)
	assert.Equal(t, "later", tb.String())

	_, err = ParseTieBreak("closest")
	assert.Error(t, err)
}
