package behavior

import (
	"math/rand"

	"github.com/teslashibe/go-behavior/pkg/catalog"
)

// pick draws a uniform value per entry, keeps those at or below the entry's
// probability and returns one of them uniformly.
func pick(rng *rand.Rand, entries []catalog.Entry) (catalog.Entry, bool) {
	var firing []catalog.Entry
	for _, en := range entries {
		if rng.Float64() <= en.Probability {
			firing = append(firing, en)
		}
	}
	if len(firing) == 0 {
		return catalog.Entry{}, false
	}
	return firing[rng.Intn(len(firing))], true
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// entries returns the named list, or nothing when the catalog lacks it.
func (e *Engine) entries(list string) []catalog.Entry {
	if e.catalog == nil {
		return nil
	}
	entries, err := e.catalog.List(list)
	if err != nil {
		return nil
	}
	return entries
}

func (e *Engine) fireGesture() {
	if !e.countdown(counterGesture) {
		return
	}
	g, ok := pick(e.rng, e.entries(e.gestures))
	if !ok {
		return
	}
	speed := uniform(e.rng, g.SpeedMin, g.SpeedMax)
	magnitude := uniform(e.rng, g.MagnitudeMin, g.MagnitudeMax)

	e.logger.Debug("gesture", "name", g.Name, "speed", speed, "magnitude", magnitude)
	e.metrics.animation("gesture", g.Name)
	e.report("gesture", e.out.Gesture(g.Name, false, speed, magnitude))
}

func (e *Engine) fireExpression() {
	if !e.countdown(counterExpression) {
		return
	}
	x, ok := pick(e.rng, e.entries(e.expressions))
	if !ok {
		return
	}
	magnitude := uniform(e.rng, x.MagnitudeMin, x.MagnitudeMax)
	duration := seconds(uniform(e.rng, x.DurationMin, x.DurationMax))

	e.logger.Debug("expression", "name", x.Name, "magnitude", magnitude, "duration", duration)
	e.metrics.animation("expression", x.Name)
	e.report("emotion", e.out.Emotion(x.Name, magnitude, duration))
}
