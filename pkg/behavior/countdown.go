package behavior

import "math/rand"

// Range is a [Min, Max] interval in seconds.
type Range struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

// Clamped returns r with Max raised to Min when the bounds are inverted.
func (r Range) Clamped() Range {
	if r.Max < r.Min {
		r.Max = r.Min
	}
	return r
}

// Ticks converts the range to whole ticks at rate Hz, truncating both bounds.
func (r Range) Ticks(rate float64) (lo, hi int) {
	r = r.Clamped()
	return int(r.Min * rate), int(r.Max * rate)
}

// Countdown is a tick counter re-armed to a random length each time it fires.
type Countdown struct {
	Remaining int
}

// Arm draws a new length uniformly from r (inclusive, in ticks at rate Hz).
// Lengths below one tick are raised to one so the countdown always fires.
func (c *Countdown) Arm(rng *rand.Rand, r Range, rate float64) {
	lo, hi := r.Ticks(rate)
	n := lo
	if hi > lo {
		n += rng.Intn(hi - lo + 1)
	}
	if n < 1 {
		n = 1
	}
	c.Remaining = n
}

// Tick counts down one tick and reports whether the countdown reached zero.
// The caller is expected to re-arm a fired countdown before the next tick.
func (c *Countdown) Tick() bool {
	if c.Remaining > 0 {
		c.Remaining--
	}
	return c.Remaining == 0
}

// counterID names the engine's randomized countdowns.
type counterID int

const (
	counterSaliency counterID = iota
	counterFaces
	counterEyes
	counterAudience
	counterGesture
	counterExpression
	counterAllFacesStart
	counterAllFacesDuration
	numCounters
)

var counterNames = [numCounters]string{
	"saliency", "faces", "eyes", "audience", "gesture", "expression", "all_faces_start", "all_faces_duration",
}

func (id counterID) String() string { return counterNames[id] }
