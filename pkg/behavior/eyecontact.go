package behavior

import "github.com/teslashibe/go-behavior/pkg/perception"

// Face geometry relative to the sensed face center, in meters.
const (
	faceFrontOffset = 0.05 // targets sit in front of the center, toward the robot
	eyeSideOffset   = 0.03
	eyeHeight       = 0.06
	mouthDrop       = 0.04
)

// FaceTargets are the points eye contact can aim at on one face.
type FaceTargets struct {
	Center   perception.Vec3
	LeftEye  perception.Vec3
	RightEye perception.Vec3
	Mouth    perception.Vec3
}

// EyeContactTargets computes the eye and mouth points for a face centered at c.
func EyeContactTargets(c perception.Vec3) FaceTargets {
	return FaceTargets{
		Center:   c,
		LeftEye:  c.Add(-faceFrontOffset, eyeSideOffset, eyeHeight),
		RightEye: c.Add(-faceFrontOffset, -eyeSideOffset, eyeHeight),
		Mouth:    c.Add(-faceFrontOffset, 0, -mouthDrop),
	}
}

// Eye indices used by the alternating modes.
const (
	eyeLeft = iota
	eyeRight
	eyeMouth
)

// eyeContactTarget picks the point to look at on f and advances the
// alternation index when the eyes countdown fires.
func (e *Engine) eyeContactTarget(f perception.Face) perception.Vec3 {
	t := EyeContactTargets(f.Position)

	switch e.eyeContact {
	case EyeContactLeftEye:
		return t.LeftEye
	case EyeContactRightEye:
		return t.RightEye
	case EyeContactBothEyes:
		if e.countdown(counterEyes) {
			if e.eye == eyeRight {
				e.eye = eyeLeft
			} else {
				e.eye = eyeRight
			}
		}
		if e.eye == eyeLeft {
			return t.LeftEye
		}
		return t.RightEye
	case EyeContactTriangle:
		if e.countdown(counterEyes) {
			e.eye = (e.eye + 1) % 3
		}
		switch e.eye {
		case eyeLeft:
			return t.LeftEye
		case eyeRight:
			return t.RightEye
		default:
			return t.Mouth
		}
	}
	return t.Center
}
