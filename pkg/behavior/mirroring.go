package behavior

import "github.com/teslashibe/go-behavior/pkg/perception"

func (m MirroringMode) brows() bool {
	switch m {
	case MirrorEyebrows, MirrorEyes, MirrorMouthEyebrows, MirrorAll:
		return true
	}
	return false
}

func (m MirroringMode) lids() bool {
	switch m {
	case MirrorEyelids, MirrorEyes, MirrorMouthEyelids, MirrorAll:
		return true
	}
	return false
}

// MirrorAll covers brows and lids but not the mouth.
func (m MirroringMode) mouth() bool {
	switch m {
	case MirrorMouth, MirrorMouthEyebrows, MirrorMouthEyelids:
		return true
	}
	return false
}

// MirrorCoefficients maps the facial action values of f onto blend-shape
// coefficients for the channel groups mode enables.
func MirrorCoefficients(mode MirroringMode, f perception.Face) (names []string, values []float64) {
	add := func(name string, v float64) {
		names = append(names, name)
		values = append(values, v)
	}

	if mode.brows() {
		add("brow_outer_UP.L", f.BrowLeft)
		add("brow_inner_UP.L", f.BrowLeft*0.8)
		add("brow_outer_DN.L", 1-f.BrowLeft)
		add("brow_outer_up.R", f.BrowRight)
		add("brow_inner_UP.R", f.BrowRight*0.8)
		add("brow_outer_DN.R", 1-f.BrowRight)
	}
	if mode.lids() {
		closed := ((1 - f.EyelidLeft) + (1 - f.EyelidRight)) / 2
		add("eye-blink.UP.R", closed)
		add("eye-blink.UP.L", closed)
		add("eye-blink.LO.R", closed)
		add("eye-blink.LO.L", closed)
	}
	if mode.mouth() {
		add("lip-JAW.DN", f.MouthOpen)
	}
	return names, values
}

// mirror copies the current face onto the robot face while mirroring is active.
// The actuator mode itself is only switched by setMirroring.
func (e *Engine) mirror(f perception.Face) {
	if e.mirroring == MirrorIdle {
		return
	}
	names, values := MirrorCoefficients(e.mirroring, f)
	e.report("blend_shapes", e.out.BlendShapes(names, values))
}
