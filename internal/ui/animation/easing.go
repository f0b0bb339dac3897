package animation

import (
	"math"

	"safecalc/internal/core/breathing"
)

// TargetScale returns where the circle heads during phase. Hold and rest
// keep the current size.
func TargetScale(phase breathing.Phase, current float32, config Config) float32 {
	switch phase {
	case breathing.PhaseIn:
		return config.MaxScale
	case breathing.PhaseOut:
		return config.MinScale
	default:
		return current
	}
}

// Ease maps linear progress in [0,1] onto a sine ease-in-out curve.
func Ease(progress float32) float32 {
	if progress <= 0 {
		return 0
	}
	if progress >= 1 {
		return 1
	}
	return float32(0.5 - 0.5*math.Cos(math.Pi*float64(progress)))
}

// Interpolate returns the eased value between from and to.
func Interpolate(from, to, progress float32) float32 {
	return from + (to-from)*Ease(progress)
}
