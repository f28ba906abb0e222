package analysis

import (
	"math"

	"bookgen/internal/engine"
)

// Shifted-logistic win/draw/loss model over centipawn scores. The shift
// pushes near-zero evaluations toward the draw bucket instead of splitting
// them 50/50 between the two sides.
const (
	wdlSlope = 0.00368208
	wdlShift = 100.0
)

// WinChance maps a score to the mover's probability of winning, in [0, 1].
func WinChance(s engine.Score) float64 {
	if s.IsMate {
		if s.Mate > 0 {
			return 1
		}
		return 0
	}
	return logistic(float64(s.CP) - wdlShift)
}

// LossChance is the mover's probability of losing.
func LossChance(s engine.Score) float64 {
	if s.IsMate {
		if s.Mate > 0 {
			return 0
		}
		return 1
	}
	return logistic(-float64(s.CP) - wdlShift)
}

// DrawChance is whatever probability the win and loss buckets leave over.
func DrawChance(s engine.Score) float64 {
	d := 1 - WinChance(s) - LossChance(s)
	if d < 0 {
		return 0
	}
	return d
}

// NoLossChance is the mover's probability of winning or drawing.
func NoLossChance(s engine.Score) float64 {
	return 1 - LossChance(s)
}

func logistic(cp float64) float64 {
	return 1 / (1 + math.Exp(-wdlSlope*cp))
}
