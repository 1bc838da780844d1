package collector

import (
	"context"
	"time"

	"HedgeMirror/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Table model.PriceTable
	Err   error
	Calls [][]string
}

func (m *MockFetcher) Name() string { return "mock" }

// Fetch returns the configured bars that fall inside [start, end].
func (m *MockFetcher) Fetch(_ context.Context, symbols []string, start, end time.Time, _ model.Interval) (model.PriceTable, error) {
	m.Calls = append(m.Calls, append([]string(nil), symbols...))
	if m.Err != nil {
		return nil, m.Err
	}
	out := make(model.PriceTable)
	for _, s := range symbols {
		bars, ok := m.Table[s]
		if !ok {
			continue
		}
		var in []model.Bar
		for _, b := range bars {
			if !b.Time.Before(start) && !b.Time.After(end) {
				in = append(in, b)
			}
		}
		if len(in) > 0 {
			out[s] = in
		}
	}
	return out, nil
}

// GenerateWeeklyBars builds a weekly series starting at start where each
// bar's price is basePrice*(1+growth)^i.
func GenerateWeeklyBars(start time.Time, count int, basePrice, growth float64) []model.Bar {
	bars := make([]model.Bar, count)
	p := basePrice
	for i := 0; i < count; i++ {
		bars[i] = model.Bar{Time: start.AddDate(0, 0, 7*i), Close: p, AdjClose: p}
		p *= 1 + growth
	}
	return bars
}
