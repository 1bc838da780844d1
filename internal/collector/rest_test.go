package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"HedgeMirror/internal/model"
)

func TestRESTFetcher_Weekly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "/api/v1/bars/weekly", r.URL.Path)
		assert.Equal(t, "2023-04-01", r.URL.Query().Get("from"))
		fmt.Fprint(w, `[{"timestamp":1681084800,"close":11,"adj_close":10.5},{"timestamp":1680480000,"close":10,"adj_close":9.5}]`)
	}))
	defer srv.Close()

	f := NewRESTFetcher(srv.URL, "secret", "", time.Second, zerolog.Nop())
	table, err := f.Fetch(context.Background(), []string{"AAA"}, second, second.AddDate(0, 1, 0), model.IntervalWeekly)
	require.NoError(t, err)
	bars := table["AAA"]
	require.Len(t, bars, 2)
	assert.True(t, bars[0].Time.Before(bars[1].Time))
	assert.Equal(t, 9.5, bars[0].Price())
}

func TestRESTFetcher_DailyFallback(t *testing.T) {
	// Mon..Fri of two ISO weeks.
	monday := time.Date(2023, 4, 3, 0, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/bars/weekly" {
			http.Error(w, "unsupported", http.StatusBadRequest)
			return
		}
		fmt.Fprint(w, "[")
		for i := 0; i < 10; i++ {
			d := monday.AddDate(0, 0, i+2*(i/5))
			if i > 0 {
				fmt.Fprint(w, ",")
			}
			fmt.Fprintf(w, `{"timestamp":%d,"close":%d}`, d.Unix(), 100+i)
		}
		fmt.Fprint(w, "]")
	}))
	defer srv.Close()

	f := NewRESTFetcher(srv.URL, "", "", time.Second, zerolog.Nop())
	table, err := f.Fetch(context.Background(), []string{"AAA"}, monday, monday.AddDate(0, 0, 14), model.IntervalWeekly)
	require.NoError(t, err)
	bars := table["AAA"]
	require.Len(t, bars, 2)
	assert.Equal(t, 104.0, bars[0].Close)
	assert.Equal(t, 109.0, bars[1].Close)
}

func TestRESTFetcher_NotFoundIsAbsent(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	f := NewRESTFetcher(srv.URL, "", "", time.Second, zerolog.Nop())
	table, err := f.Fetch(context.Background(), []string{"AAA"}, second, second.AddDate(0, 1, 0), model.IntervalWeekly)
	require.NoError(t, err)
	assert.Empty(t, table)
}

func TestAggregateDailyToWeekly(t *testing.T) {
	assert.Nil(t, aggregateDailyToWeekly(nil))

	fri := time.Date(2023, 4, 7, 0, 0, 0, 0, time.UTC)
	bars := []model.Bar{
		{Time: fri.AddDate(0, 0, -1), Close: 1},
		{Time: fri, Close: 2},
		{Time: fri.AddDate(0, 0, 3), Close: 3},
	}
	weekly := aggregateDailyToWeekly(bars)
	require.Len(t, weekly, 2)
	assert.Equal(t, 2.0, weekly[0].Close)
	assert.Equal(t, 3.0, weekly[1].Close)
}
