package model

import "time"

// Position is a disclosure row joined with its nearest return observation.
type Position struct {
	Disclosure
	AsOf      time.Time // zero when no observation matched
	ReturnPct float64   // NaN when no observation matched
	Weight    float64   // NaN when the period has no weighting basis
}

// Priced reports whether the position found a return observation.
func (p Position) Priced() bool {
	return Defined(p.ReturnPct)
}

// PeriodReturn is the weighted return of one filing period.
type PeriodReturn struct {
	Period    string
	EvalDate  time.Time
	ReturnPct float64 // NaN when undefined
}

// Portfolio is one named approach composed from a disclosure table.
type Portfolio struct {
	Approach  string
	Positions []Position
	Periods   []PeriodReturn
}
