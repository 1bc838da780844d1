package portfolio

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"HedgeMirror/internal/model"
)

// TieBreak picks between two observations equally distant from the target.
type TieBreak int

const (
	// TieEarlier prefers the observation before the target date.
	TieEarlier TieBreak = iota
	// TieLater prefers the observation after the target date.
	TieLater
)

// ParseTieBreak accepts "earlier" or "later"; empty means TieEarlier.
func ParseTieBreak(s string) (TieBreak, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "earlier":
		return TieEarlier, nil
	case "later":
		return TieLater, nil
	default:
		return TieEarlier, fmt.Errorf("unknown tie break %q", s)
	}
}

func (t TieBreak) String() string {
	if t == TieLater {
		return "later"
	}
	return "earlier"
}

// Nearest returns the point of an AsOf-sorted series closest to target.
// maxGap <= 0 means any distance is accepted.
func Nearest(points []model.ReturnPoint, target time.Time, tie TieBreak, maxGap time.Duration) (model.ReturnPoint, bool) {
	if len(points) == 0 {
		return model.ReturnPoint{}, false
	}
	// First point at or after target.
	i := sort.Search(len(points), func(i int) bool { return !points[i].AsOf.Before(target) })

	var best model.ReturnPoint
	switch {
	case i == 0:
		best = points[0]
	case i == len(points):
		best = points[len(points)-1]
	default:
		before, after := points[i-1], points[i]
		db, da := target.Sub(before.AsOf), after.AsOf.Sub(target)
		switch {
		case db < da:
			best = before
		case da < db:
			best = after
		case tie == TieLater:
			best = after
		default:
			best = before
		}
	}

	if maxGap > 0 && absDuration(best.AsOf.Sub(target)) > maxGap {
		return model.ReturnPoint{}, false
	}
	return best, true
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
