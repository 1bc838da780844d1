package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"HedgeMirror/internal/collector"
	"HedgeMirror/internal/disclosure"
	"HedgeMirror/internal/fund"
	"HedgeMirror/internal/model"
)

var (
	q1 = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	q2 = time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC)
)

type captureSender struct {
	sent []string
}

func (c *captureSender) SendWithRetry(_ context.Context, text string, _ int) error {
	c.sent = append(c.sent, text)
	return nil
}

func testFund(name string, prices model.PriceTable) *fund.HedgeFund {
	store := &disclosure.MemoryStore{Items: []disclosure.Snapshot{
		{FilingDate: q1, Holdings: []disclosure.Holding{{Ticker: "AAA", Shares: "100", Value: "8"}}},
		{FilingDate: q2, Holdings: []disclosure.Holding{{Ticker: "AAA", Shares: "150", Value: "10"}}},
	}}
	return fund.New(name, store, fund.WithWeeks(4), fund.WithSource(&collector.MockFetcher{Table: prices}))
}

func newTestScheduler(t *testing.T) (*Scheduler, *captureSender) {
	prices := model.PriceTable{
		"AAA": collector.GenerateWeeklyBars(q2, 10, 100, 0.01),
		"VOO": collector.GenerateWeeklyBars(q2, 10, 400, 0),
	}
	reg, err := fund.NewRegistry(
		testFund("Alpha", prices),
		testFund("Broken", model.PriceTable{"AAA": prices["AAA"]}),
	)
	require.NoError(t, err)
	sender := &captureSender{}
	return NewScheduler(context.Background(), reg, sender, 0, zerolog.Nop()), sender
}

func TestRunAll(t *testing.T) {
	s, sender := newTestScheduler(t)
	s.RunAll()

	require.Len(t, sender.sent, 2)
	assert.Contains(t, sender.sent[0], "<b>Alpha</b> vs VOO")
	assert.Contains(t, sender.sent[0], "Growth of $10,000.00")
	assert.Contains(t, sender.sent[0], "Summary")
	assert.Contains(t, sender.sent[1], "❌ fund Broken: align")
}

func TestHandleCommand(t *testing.T) {
	s, _ := newTestScheduler(t)
	ctx := context.Background()

	assert.Contains(t, s.HandleCommand(ctx, "/funds"), "Alpha")
	assert.Contains(t, s.HandleCommand(ctx, "/evaluate Alpha"), "<b>Alpha</b> vs VOO")
	assert.Contains(t, s.HandleCommand(ctx, "/evaluate"), "Usage")
	assert.Contains(t, s.HandleCommand(ctx, "/evaluate Nope"), `Unknown fund "Nope"`)
	assert.Contains(t, s.HandleCommand(ctx, "hello"), "Available commands")
}

func TestRegister(t *testing.T) {
	s, _ := newTestScheduler(t)
	require.NoError(t, s.Register(""))
	assert.Len(t, s.Cron.Entries(), 1)
	assert.Error(t, s.Register("not a cron"))
}
