package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"HedgeMirror/internal/model"
)

const chartJSON = `{"chart":{"result":[{
  "timestamp":[1680480000,1681084800,1681689600],
  "indicators":{
    "quote":[{"close":[101.0,null,103.0]}],
    "adjclose":[{"adjclose":[100.0,null,102.0]}]
  }}],"error":null}}`

const notFoundJSON = `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`

func TestYahooFetcher_Fetch(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		switch {
		case strings.HasSuffix(r.URL.Path, "/AAA"):
			assert.Equal(t, "1wk", r.URL.Query().Get("interval"))
			assert.Equal(t, fmt.Sprint(second.Unix()), r.URL.Query().Get("period1"))
			fmt.Fprint(w, chartJSON)
		case strings.HasSuffix(r.URL.Path, "/GONE"):
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, notFoundJSON)
		default:
			fmt.Fprint(w, notFoundJSON)
		}
	}))
	defer srv.Close()

	f := NewYahooFetcher("", 5*time.Second, zerolog.Nop())
	f.BaseURL = srv.URL

	table, err := f.Fetch(context.Background(), []string{"AAA", "GONE", "DELISTED"}, second, second.AddDate(0, 3, 0), model.IntervalWeekly)
	require.NoError(t, err)
	require.Len(t, table, 1)

	bars := table["AAA"]
	require.Len(t, bars, 2, "null bar skipped")
	assert.Equal(t, time.Unix(1680480000, 0).UTC(), bars[0].Time)
	assert.Equal(t, 100.0, bars[0].Price())
	assert.Equal(t, 103.0, bars[1].Close)
	assert.Len(t, paths, 3)
}

func TestYahooFetcher_MapsSymbols(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Path
		fmt.Fprint(w, chartJSON)
	}))
	defer srv.Close()

	f := NewYahooFetcher("", 0, zerolog.Nop())
	f.BaseURL = srv.URL
	table, err := f.Fetch(context.Background(), []string{"SPX"}, second, second.AddDate(0, 3, 0), model.IntervalWeekly)
	require.NoError(t, err)
	assert.Contains(t, table, "SPX")
	assert.Equal(t, "/v8/finance/chart/^GSPC", got)
}

func TestYahooFetcher_ServerErrorIsFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	f := NewYahooFetcher("", 0, zerolog.Nop())
	f.BaseURL = srv.URL
	_, err := f.Fetch(context.Background(), []string{"AAA"}, second, second.AddDate(0, 3, 0), model.IntervalWeekly)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}
