package model

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Disclosure is one normalized holding row of a periodic (13F) filing.
type Disclosure struct {
	Ticker     string
	FilingDate time.Time
	Class      string
	Shares     float64
	Value      float64 // currency units, already scaled by the value multiplier
	Change     float64 // NaN for the seed period
	EvalDate   time.Time
	Period     string // e.g. "q1_2023"
}

// IsBuy reports whether the share count increased versus the prior filing.
func (d Disclosure) IsBuy() bool {
	return Defined(d.Change) && d.Change > 0
}

// DisclosureTable is the loader output: rows sorted by (FilingDate, Ticker).
type DisclosureTable struct {
	Fund  string
	Weeks int
	Rows  []Disclosure
	Dates []time.Time // distinct filing dates, ascending
}

// SeedDate returns the earliest filing date.
func (t *DisclosureTable) SeedDate() time.Time {
	if len(t.Dates) == 0 {
		return time.Time{}
	}
	return t.Dates[0]
}

// FirstUsableDate returns the second-earliest filing date, the first one that carries a change signal.
func (t *DisclosureTable) FirstUsableDate() (time.Time, error) {
	if len(t.Dates) < 2 {
		return time.Time{}, fmt.Errorf("%w: need at least 2 filing dates, got %d", ErrDataIntegrity, len(t.Dates))
	}
	return t.Dates[1], nil
}

// LastEvalDate returns the latest evaluation date across all rows.
func (t *DisclosureTable) LastEvalDate() time.Time {
	var last time.Time
	for _, r := range t.Rows {
		if r.EvalDate.After(last) {
			last = r.EvalDate
		}
	}
	return last
}

// BuyTickers returns the sorted distinct tickers with a positive share change in any period.
func (t *DisclosureTable) BuyTickers() []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range t.Rows {
		if r.IsBuy() && !seen[r.Ticker] {
			seen[r.Ticker] = true
			out = append(out, r.Ticker)
		}
	}
	sort.Strings(out)
	return out
}

// PeriodLabel formats the calendar quarter of t, e.g. "q2_2023".
func PeriodLabel(t time.Time) string {
	q := (int(t.Month())-1)/3 + 1
	return fmt.Sprintf("q%d_%d", q, t.Year())
}

// Defined reports whether x carries a value (is not NaN).
func Defined(x float64) bool {
	return !math.IsNaN(x)
}

// Undefined returns the marker used for absent numeric values.
func Undefined() float64 {
	return math.NaN()
}
