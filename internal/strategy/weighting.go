package strategy

import "HedgeMirror/internal/model"

// ValueWeighted mirrors the fund: each row weighs its disclosed value over
// the period's total disclosed value.
type ValueWeighted struct {
	Denominator Denominator
}

func (ValueWeighted) Name() string { return "simple" }

func (v ValueWeighted) Weigh(positions []model.Position) []float64 {
	return proportional(positions, v.Denominator.includes, func(p model.Position) float64 { return p.Value })
}

// EqualWeighted gives every row of the period the same weight.
type EqualWeighted struct {
	Denominator Denominator
}

func (EqualWeighted) Name() string { return "equal" }

func (e EqualWeighted) Weigh(positions []model.Position) []float64 {
	return proportional(positions, e.Denominator.includes, func(model.Position) float64 { return 1 })
}

// BuysOnly is value-weighted over the rows whose share count increased;
// held or trimmed positions get no weight.
type BuysOnly struct {
	Denominator Denominator
}

func (BuysOnly) Name() string { return "buys" }

func (b BuysOnly) Weigh(positions []model.Position) []float64 {
	include := func(p model.Position) bool { return p.IsBuy() && b.Denominator.includes(p) }
	return proportional(positions, include, func(p model.Position) float64 { return p.Value })
}
