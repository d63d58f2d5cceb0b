package behavior

import (
	"errors"

	"github.com/teslashibe/go-behavior/pkg/perception"
)

// Fixed speeds for the leading command of every gaze mode.
const (
	gazeSpeed = 5.0
	headSpeed = 3.0
)

// GazeCoordinator turns a target position into gaze and head commands according
// to the active GazeMode. In the lead/lag modes the lagging actuator follows the
// last target after a delay, and keeps following at that interval.
type GazeCoordinator struct {
	out   MotionOutput
	mode  GazeMode
	pos   perception.Vec3
	known bool
	delay int
}

// NewGazeCoordinator returns a coordinator in GazeOnly mode.
func NewGazeCoordinator(out MotionOutput) *GazeCoordinator {
	return &GazeCoordinator{out: out, mode: GazeOnly}
}

// Mode returns the active gaze mode.
func (g *GazeCoordinator) Mode() GazeMode { return g.mode }

// Target returns the last target and whether one has been set.
func (g *GazeCoordinator) Target() (perception.Vec3, bool) { return g.pos, g.known }

// Delay returns the remaining follow delay in ticks.
func (g *GazeCoordinator) Delay() int { return g.delay }

// SetMode switches modes. It is a no-op when mode is already active. Entering a
// lead/lag mode arms the follow delay with delayTicks.
func (g *GazeCoordinator) SetMode(mode GazeMode, delayTicks int) bool {
	if mode == g.mode {
		return false
	}
	g.mode = mode
	if mode.lagging() {
		g.delay = delayTicks
	}
	return true
}

// Update records pos as the current target and emits the leading command(s).
func (g *GazeCoordinator) Update(pos perception.Vec3) error {
	g.pos, g.known = pos, true

	switch g.mode {
	case GazeOnly, GazeLeadsHead:
		return g.out.GazeTarget(pos, gazeSpeed)
	case HeadOnly, HeadLeadsGaze:
		return g.out.HeadTarget(pos, headSpeed)
	case GazeAndHead:
		return errors.Join(
			g.out.GazeTarget(pos, gazeSpeed),
			g.out.HeadTarget(pos, headSpeed),
		)
	}
	return nil
}

// Tick advances the follow delay. When it expires in a lead/lag mode the lagging
// actuator moves to the last target at followSpeed and the delay re-arms.
func (g *GazeCoordinator) Tick(delayTicks int, followSpeed float64) error {
	if g.delay <= 0 || !g.known {
		return nil
	}
	g.delay--
	if g.delay > 0 {
		return nil
	}

	switch g.mode {
	case GazeLeadsHead:
		g.delay = delayTicks
		return g.out.HeadTarget(g.pos, followSpeed)
	case HeadLeadsGaze:
		g.delay = delayTicks
		return g.out.GazeTarget(g.pos, followSpeed)
	}
	return nil
}

// Reset re-arms the follow delay if a lead/lag mode is active.
func (g *GazeCoordinator) Reset(delayTicks int) {
	if g.mode.lagging() {
		g.delay = delayTicks
	}
}
