// Package collector fetches weekly prices for the fund's buys and the
// benchmark and turns them into trailing-return series.
package collector

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"HedgeMirror/internal/calculator"
	"HedgeMirror/internal/model"
)

// DefaultBenchmark is a broad-market S&P 500 ETF.
const DefaultBenchmark = "VOO"

// Collector aligns price history with a disclosure table.
type Collector struct {
	Source    PriceSource
	Benchmark string
	Weeks     int
	Logger    zerolog.Logger
}

// NewCollector creates a new Collector.
func NewCollector(source PriceSource, benchmark string, weeks int, logger zerolog.Logger) *Collector {
	if benchmark == "" {
		benchmark = DefaultBenchmark
	}
	return &Collector{Source: source, Benchmark: benchmark, Weeks: weeks, Logger: logger}
}

// Align fetches weekly prices from the first usable filing date through the
// latest evaluation date and computes trailing returns for every bought
// ticker and for the benchmark. Tickers without enough history are reported
// as warnings and left out; a missing benchmark is fatal.
//
// A positive share change can come from a stock split rather than a purchase.
// No adjustment is made beyond what the price source already applies.
func (c *Collector) Align(ctx context.Context, table *model.DisclosureTable) (*model.PriceReturns, error) {
	weeks := c.Weeks
	if weeks <= 0 {
		weeks = table.Weeks
	}
	start, err := table.FirstUsableDate()
	if err != nil {
		return nil, err
	}
	end := table.LastEvalDate()

	out := &model.PriceReturns{
		Weeks:     weeks,
		Start:     start,
		End:       end,
		Benchmark: c.Benchmark,
		ByTicker:  make(map[string][]model.ReturnPoint),
	}

	tickers := table.BuyTickers()
	if len(tickers) > 0 {
		prices, err := c.Source.Fetch(ctx, tickers, start, end, model.IntervalWeekly)
		if err != nil {
			return nil, fmt.Errorf("fetch prices from %s: %w", c.Source.Name(), err)
		}
		for _, t := range tickers {
			bars, ok := prices[t]
			if !ok || len(bars) == 0 {
				out.Warnings = append(out.Warnings, model.Warning{Ticker: t, Reason: "no price data"})
				c.Logger.Warn().Str("ticker", t).Msg("no price data, rows excluded")
				continue
			}
			points, err := calculator.TrailingReturns(t, bars, weeks)
			if err != nil {
				out.Warnings = append(out.Warnings, model.Warning{Ticker: t, Reason: err.Error()})
				c.Logger.Warn().Str("ticker", t).Int("bars", len(bars)).Err(err).Msg("price series too short, rows excluded")
				continue
			}
			out.ByTicker[t] = points
		}
	}

	bench, err := c.Source.Fetch(ctx, []string{c.Benchmark}, start, end, model.IntervalWeekly)
	if err != nil {
		return nil, fmt.Errorf("%w: benchmark %s: %v", model.ErrDataUnavailable, c.Benchmark, err)
	}
	bars, ok := bench[c.Benchmark]
	if !ok || len(bars) == 0 {
		return nil, fmt.Errorf("%w: benchmark %s: no price data", model.ErrDataUnavailable, c.Benchmark)
	}
	out.BenchmarkSeries, err = calculator.TrailingReturns(c.Benchmark, bars, weeks)
	if err != nil {
		return nil, fmt.Errorf("%w: benchmark %s: %v", model.ErrDataUnavailable, c.Benchmark, err)
	}

	c.Logger.Info().
		Str("source", c.Source.Name()).
		Time("start", start).
		Time("end", end).
		Int("requested", len(tickers)).
		Int("priced", len(out.ByTicker)).
		Int("warnings", len(out.Warnings)).
		Msg("prices aligned")

	return out, nil
}
