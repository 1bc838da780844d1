// Package disclosure normalizes periodic holdings snapshots into a single
// chronological table with share changes and evaluation dates.
package disclosure

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"HedgeMirror/internal/model"
)

// DefaultWeeks is one fiscal quarter.
const DefaultWeeks = 13

// DefaultValueMultiplier converts 13F values reported in thousands.
const DefaultValueMultiplier = 1000

// excludedClass matches expiring options and units.
var excludedClass = regexp.MustCompile(`(?i)EXP|UNIT`)

// Loader reads a Store and produces the normalized disclosure table.
type Loader struct {
	Fund            string
	Store           Store
	Weeks           int
	ValueMultiplier float64
	Logger          zerolog.Logger
}

// NewLoader creates a Loader with the default holding period and value multiplier.
func NewLoader(fund string, store Store, logger zerolog.Logger) *Loader {
	return &Loader{
		Fund:            fund,
		Store:           store,
		Weeks:           DefaultWeeks,
		ValueMultiplier: DefaultValueMultiplier,
		Logger:          logger,
	}
}

type rowKey struct {
	ticker string
	date   time.Time
}

// Load concatenates every snapshot, filters and parses the rows, and derives
// share change, evaluation date and period label.
func (l *Loader) Load(ctx context.Context) (*model.DisclosureTable, error) {
	if l.Weeks <= 0 {
		return nil, fmt.Errorf("holding period must be positive, got %d weeks", l.Weeks)
	}
	mult := l.ValueMultiplier
	if mult == 0 {
		mult = DefaultValueMultiplier
	}

	snaps, err := l.Store.Snapshots(ctx)
	if err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return nil, fmt.Errorf("%w: no disclosure snapshots found", model.ErrDataIntegrity)
	}

	index := make(map[rowKey]int)
	var rows []model.Disclosure
	dropped := 0
	for _, snap := range snaps {
		for _, h := range snap.Holdings {
			ticker := strings.ToUpper(strings.TrimSpace(h.Ticker))
			if ticker == "" || excludedClass.MatchString(h.Class) {
				dropped++
				continue
			}
			shares, err := ParseNumber(h.Shares)
			if err != nil {
				return nil, fmt.Errorf("%w: %s %s shares: %v", model.ErrDataIntegrity, snap.Source, ticker, err)
			}
			value, err := ParseNumber(h.Value)
			if err != nil {
				return nil, fmt.Errorf("%w: %s %s value: %v", model.ErrDataIntegrity, snap.Source, ticker, err)
			}
			value *= mult

			key := rowKey{ticker, snap.FilingDate}
			if i, ok := index[key]; ok {
				rows[i].Shares += shares
				rows[i].Value += value
				continue
			}
			index[key] = len(rows)
			rows = append(rows, model.Disclosure{
				Ticker:     ticker,
				FilingDate: snap.FilingDate,
				Class:      strings.TrimSpace(h.Class),
				Shares:     shares,
				Value:      value,
				EvalDate:   snap.FilingDate.AddDate(0, 0, 7*l.Weeks),
				Period:     model.PeriodLabel(snap.FilingDate),
			})
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].FilingDate.Equal(rows[j].FilingDate) {
			return rows[i].FilingDate.Before(rows[j].FilingDate)
		}
		return rows[i].Ticker < rows[j].Ticker
	})

	dates := distinctDates(rows)
	if len(dates) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 distinct filing dates, got %d", model.ErrDataIntegrity, len(dates))
	}
	deriveChanges(rows, dates)

	l.Logger.Info().
		Int("snapshots", len(snaps)).
		Int("rows", len(rows)).
		Int("dropped", dropped).
		Int("dates", len(dates)).
		Msg("disclosures loaded")

	return &model.DisclosureTable{Fund: l.Fund, Weeks: l.Weeks, Rows: rows, Dates: dates}, nil
}

// ParseNumber parses a thousands-separated number such as "1,234.5".
func ParseNumber(s string) (float64, error) {
	clean := strings.NewReplacer(",", "", " ", "", "$", "").Replace(strings.TrimSpace(s))
	if clean == "" {
		return 0, fmt.Errorf("empty number")
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", s, err)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("negative number %q", s)
	}
	return d.InexactFloat64(), nil
}

func distinctDates(rows []model.Disclosure) []time.Time {
	var dates []time.Time
	for _, r := range rows {
		if len(dates) == 0 || !dates[len(dates)-1].Equal(r.FilingDate) {
			dates = append(dates, r.FilingDate)
		}
	}
	return dates
}

// deriveChanges fills Change on rows sorted by (date, ticker). A ticker held at
// the immediately preceding filing date gets the difference; otherwise the
// full share count. Every row of the seed date stays undefined.
func deriveChanges(rows []model.Disclosure, dates []time.Time) {
	dateIdx := make(map[time.Time]int, len(dates))
	for i, d := range dates {
		dateIdx[d] = i
	}

	type last struct {
		dateIdx int
		shares  float64
	}
	prev := make(map[string]last)
	for i := range rows {
		r := &rows[i]
		di := dateIdx[r.FilingDate]
		p, seen := prev[r.Ticker]
		switch {
		case di == 0:
			r.Change = model.Undefined()
		case seen && p.dateIdx == di-1:
			r.Change = r.Shares - p.shares
		default:
			r.Change = r.Shares
		}
		prev[r.Ticker] = last{dateIdx: di, shares: r.Shares}
	}
}
