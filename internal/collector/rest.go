package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"HedgeMirror/internal/model"
)

// RESTFetcher implements PriceSource against a self-hosted bars API.
type RESTFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	Logger  zerolog.Logger
}

// NewRESTFetcher creates a new fetcher with optional proxy support.
func NewRESTFetcher(baseURL, apiKey, proxyURL string, timeout time.Duration, logger zerolog.Logger) *RESTFetcher {
	return &RESTFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL, timeout),
		Logger:  logger,
	}
}

func (f *RESTFetcher) Name() string { return "rest" }

// restBar is the expected JSON shape from the bars API.
type restBar struct {
	Timestamp int64   `json:"timestamp"`
	Close     float64 `json:"close"`
	AdjClose  float64 `json:"adj_close"`
}

func (f *RESTFetcher) Fetch(ctx context.Context, symbols []string, start, end time.Time, interval model.Interval) (model.PriceTable, error) {
	out := make(model.PriceTable, len(symbols))
	for _, s := range symbols {
		bars, err := f.fetchSymbol(ctx, s, start, end, interval)
		if err == errNoData {
			f.Logger.Warn().Str("ticker", s).Msg("bars API returned no data")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("rest %s: %w", s, err)
		}
		out[s] = bars
	}
	return out, nil
}

func (f *RESTFetcher) fetchSymbol(ctx context.Context, symbol string, start, end time.Time, interval model.Interval) ([]model.Bar, error) {
	if interval != model.IntervalWeekly {
		return f.fetchBars(ctx, f.endpoint("daily", symbol, start, end))
	}
	// Try weekly endpoint first; if the API only provides daily, aggregate internally.
	bars, err := f.fetchBars(ctx, f.endpoint("weekly", symbol, start, end))
	if err == nil || err == errNoData {
		return bars, err
	}
	dailyBars, dailyErr := f.fetchBars(ctx, f.endpoint("daily", symbol, start, end))
	if dailyErr != nil {
		if dailyErr == errNoData {
			return nil, errNoData
		}
		return nil, fmt.Errorf("weekly fetch failed: %w; daily fallback also failed: %w", err, dailyErr)
	}
	return aggregateDailyToWeekly(dailyBars), nil
}

func (f *RESTFetcher) endpoint(kind, symbol string, start, end time.Time) string {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("from", start.Format("2006-01-02"))
	q.Set("to", end.Format("2006-01-02"))
	return fmt.Sprintf("%s/api/v1/bars/%s?%s", f.BaseURL, kind, q.Encode())
}

func (f *RESTFetcher) fetchBars(ctx context.Context, endpoint string) ([]model.Bar, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch bars: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, errNoData
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fetch bars: status %d, body: %s", resp.StatusCode, string(body))
	}
	var raw []restBar
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode bars: %w", err)
	}
	if len(raw) == 0 {
		return nil, errNoData
	}
	bars := make([]model.Bar, len(raw))
	for i, rb := range raw {
		bars[i] = model.Bar{Time: time.Unix(rb.Timestamp, 0).UTC(), Close: rb.Close, AdjClose: rb.AdjClose}
	}
	// Ensure chronological order
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

// aggregateDailyToWeekly keeps the last bar of every ISO week.
func aggregateDailyToWeekly(daily []model.Bar) []model.Bar {
	if len(daily) == 0 {
		return nil
	}
	var weekly []model.Bar
	week := daily[0]
	for _, d := range daily[1:] {
		cy, cw := week.Time.ISOWeek()
		y, w := d.Time.ISOWeek()
		if y != cy || w != cw {
			weekly = append(weekly, week)
		}
		week = d
	}
	return append(weekly, week)
}
