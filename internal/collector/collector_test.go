package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"HedgeMirror/internal/model"
)

var (
	seed   = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	second = time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC)
)

func testTable(weeks int) *model.DisclosureTable {
	row := func(ticker string, date time.Time, change float64) model.Disclosure {
		return model.Disclosure{
			Ticker: ticker, FilingDate: date, Shares: 1, Value: 1, Change: change,
			EvalDate: date.AddDate(0, 0, 7*weeks), Period: model.PeriodLabel(date),
		}
	}
	return &model.DisclosureTable{
		Fund:  "Fund",
		Weeks: weeks,
		Dates: []time.Time{seed, second},
		Rows: []model.Disclosure{
			row("AAA", seed, model.Undefined()),
			row("SEED", seed, model.Undefined()),
			row("AAA", second, 50),
			row("BBB", second, 50),
			row("CUT", second, -10),
			row("SHORT", second, 5),
		},
	}
}

func TestAlign(t *testing.T) {
	mock := &MockFetcher{Table: model.PriceTable{
		"AAA":   GenerateWeeklyBars(second, 20, 100, 0.01),
		"BBB":   GenerateWeeklyBars(second, 20, 50, -0.01),
		"SHORT": GenerateWeeklyBars(second, 3, 10, 0),
		"VOO":   GenerateWeeklyBars(second, 20, 300, 0.005),
	}}
	c := NewCollector(mock, "", 4, zerolog.Nop())

	out, err := c.Align(context.Background(), testTable(4))
	require.NoError(t, err)

	// Only positive changes after the seed date are requested, then the benchmark alone.
	require.Len(t, mock.Calls, 2)
	assert.Equal(t, []string{"AAA", "BBB", "SHORT"}, mock.Calls[0])
	assert.Equal(t, []string{"VOO"}, mock.Calls[1])

	assert.Equal(t, second, out.Start)
	assert.Equal(t, second.AddDate(0, 0, 28), out.End)
	assert.Equal(t, "VOO", out.Benchmark)

	require.Contains(t, out.ByTicker, "AAA")
	require.Contains(t, out.ByTicker, "BBB")
	assert.NotContains(t, out.ByTicker, "SHORT")
	require.Len(t, out.Warnings, 1)
	assert.Equal(t, "SHORT", out.Warnings[0].Ticker)

	// Bars inside the window: weeks 0..4, so a 4-week look-back leaves one point.
	require.Len(t, out.ByTicker["AAA"], 1)
	p := out.ByTicker["AAA"][0]
	assert.Equal(t, second.AddDate(0, 0, 28), p.AsOf)
	assert.InDelta(t, (1.01*1.01*1.01*1.01-1)*100, p.ReturnPct, 1e-9)
	require.Len(t, out.BenchmarkSeries, 1)
}

func TestAlign_MissingTickerIsWarning(t *testing.T) {
	mock := &MockFetcher{Table: model.PriceTable{
		"AAA": GenerateWeeklyBars(second, 20, 100, 0.01),
		"VOO": GenerateWeeklyBars(second, 20, 300, 0.005),
	}}
	out, err := NewCollector(mock, "VOO", 4, zerolog.Nop()).Align(context.Background(), testTable(4))
	require.NoError(t, err)
	assert.NotContains(t, out.ByTicker, "BBB")

	var tickers []string
	for _, w := range out.Warnings {
		tickers = append(tickers, w.Ticker)
	}
	assert.ElementsMatch(t, []string{"BBB", "SHORT"}, tickers)
}

func TestAlign_BenchmarkUnavailable(t *testing.T) {
	tests := []struct {
		name  string
		table model.PriceTable
	}{
		{"missing", model.PriceTable{"AAA": GenerateWeeklyBars(second, 20, 100, 0.01)}},
		{"too short", model.PriceTable{"VOO": GenerateWeeklyBars(second, 2, 100, 0.01)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCollector(&MockFetcher{Table: tt.table}, "VOO", 4, zerolog.Nop()).
				Align(context.Background(), testTable(4))
			assert.ErrorIs(t, err, model.ErrDataUnavailable)
		})
	}
}

func TestAlign_SourceFailureIsFatal(t *testing.T) {
	boom := errors.New("connection reset")
	_, err := NewCollector(&MockFetcher{Err: boom}, "VOO", 4, zerolog.Nop()).
		Align(context.Background(), testTable(4))
	assert.ErrorIs(t, err, boom)
}

func TestAlign_NeedsTwoDates(t *testing.T) {
	table := &model.DisclosureTable{Weeks: 4, Dates: []time.Time{seed}}
	_, err := NewCollector(&MockFetcher{}, "VOO", 4, zerolog.Nop()).Align(context.Background(), table)
	assert.ErrorIs(t, err, model.ErrDataIntegrity)
}
