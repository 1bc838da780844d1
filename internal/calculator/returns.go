package calculator

import (
	"errors"

	"HedgeMirror/internal/model"
)

// PctChange returns (prices[i]/prices[i-period] - 1) * 100 for every i >= period.
// The first period entries have no prior and are omitted, so the result has
// len(prices)-period entries.
func PctChange(prices []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}
	if len(prices) <= period {
		return nil, errors.New("not enough data for trailing return")
	}
	out := make([]float64, 0, len(prices)-period)
	for i := period; i < len(prices); i++ {
		base := prices[i-period]
		if base == 0 {
			out = append(out, model.Undefined())
			continue
		}
		out = append(out, (prices[i]/base-1)*100)
	}
	return out, nil
}

// TrailingReturns computes the weeks-long trailing return of a weekly bar
// series, one point per bar that has a full look-back window.
func TrailingReturns(ticker string, bars []model.Bar, weeks int) ([]model.ReturnPoint, error) {
	changes, err := PctChange(extractPrices(bars), weeks)
	if err != nil {
		return nil, err
	}
	points := make([]model.ReturnPoint, 0, len(changes))
	for i, c := range changes {
		if !model.Defined(c) {
			continue
		}
		points = append(points, model.ReturnPoint{
			Ticker:    ticker,
			AsOf:      bars[i+weeks].Time,
			ReturnPct: c,
		})
	}
	if len(points) == 0 {
		return nil, errors.New("no defined trailing returns")
	}
	return points, nil
}

func extractPrices(bars []model.Bar) []float64 {
	prices := make([]float64, len(bars))
	for i, b := range bars {
		prices[i] = b.Price()
	}
	return prices
}
