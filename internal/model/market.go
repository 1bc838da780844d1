package model

import "time"

// Interval is the bar spacing requested from a price source.
type Interval string

const (
	IntervalDaily  Interval = "1d"
	IntervalWeekly Interval = "1wk"
)

// Bar is a single price observation.
type Bar struct {
	Time     time.Time
	Close    float64
	AdjClose float64
}

// Price returns the adjusted close, falling back to the raw close.
func (b Bar) Price() float64 {
	if b.AdjClose > 0 {
		return b.AdjClose
	}
	return b.Close
}

// PriceTable maps a symbol to its chronologically ordered bars.
// Symbols a source could not supply are absent.
type PriceTable map[string][]Bar

// ReturnPoint is a trailing n-week percentage return as of a date.
type ReturnPoint struct {
	Ticker    string
	AsOf      time.Time
	ReturnPct float64
}

// PriceReturns is the aligner output.
type PriceReturns struct {
	Weeks           int
	Start           time.Time
	End             time.Time
	Benchmark       string
	ByTicker        map[string][]ReturnPoint
	BenchmarkSeries []ReturnPoint
	Warnings        []Warning
}
