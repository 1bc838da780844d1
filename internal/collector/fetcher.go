package collector

import (
	"context"
	"errors"
	"time"

	"HedgeMirror/internal/model"
)

// errNoData marks a symbol the source has no history for. Fetchers translate
// it into an absent table entry rather than a failure.
var errNoData = errors.New("no data")

// PriceSource fetches adjusted closing prices for a set of symbols.
// Symbols the source cannot supply are absent from the returned table;
// transport failures are returned as errors.
type PriceSource interface {
	Fetch(ctx context.Context, symbols []string, start, end time.Time, interval model.Interval) (model.PriceTable, error)
	Name() string
}
