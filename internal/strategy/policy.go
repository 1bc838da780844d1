// Package strategy holds the weighting policies a cloned portfolio can use.
package strategy

import (
	"fmt"
	"sort"
	"strings"

	"HedgeMirror/internal/model"
)

// Policy turns the positions of one filing period into per-row weights.
// Weigh must return one weight per position, NaN where a row has no weight.
type Policy interface {
	Name() string
	Weigh(positions []model.Position) []float64
}

// Denominator selects which rows a period's weights are normalized over.
type Denominator string

const (
	// AllDisclosed divides by every row in the period, priced or not, so the
	// weights of priced rows can sum to less than 1.
	AllDisclosed Denominator = "all"
	// PricedOnly divides by the rows that found a return observation.
	PricedOnly Denominator = "priced"
)

// ParseDenominator accepts "all" or "priced"; empty means AllDisclosed.
func ParseDenominator(s string) (Denominator, error) {
	switch Denominator(strings.ToLower(strings.TrimSpace(s))) {
	case "", AllDisclosed:
		return AllDisclosed, nil
	case PricedOnly:
		return PricedOnly, nil
	default:
		return "", fmt.Errorf("unknown weighting denominator %q", s)
	}
}

func (d Denominator) includes(p model.Position) bool {
	return d != PricedOnly || p.Priced()
}

// Registry of policy names to constructors.
var registry = map[string]func(Denominator) Policy{
	"simple": func(d Denominator) Policy { return ValueWeighted{Denominator: d} },
	"equal":  func(d Denominator) Policy { return EqualWeighted{Denominator: d} },
	"buys":   func(d Denominator) Policy { return BuysOnly{Denominator: d} },
}

// Lookup returns the named policy.
func Lookup(name string, d Denominator) (Policy, error) {
	ctor, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown approach %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return ctor(d), nil
}

// Names lists the registered policy names.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// proportional weights each included row by basis(row) / Σ basis(included rows).
func proportional(positions []model.Position, include func(model.Position) bool, basis func(model.Position) float64) []float64 {
	weights := make([]float64, len(positions))
	total := 0.0
	for _, p := range positions {
		if include(p) {
			total += basis(p)
		}
	}
	for i, p := range positions {
		if total == 0 || !include(p) {
			weights[i] = model.Undefined()
			continue
		}
		weights[i] = basis(p) / total
	}
	return weights
}
