package behavior

// stateProfile is everything a state configures on entry.
type stateProfile struct {
	lookAt     LookAtMode
	eyeContact EyeContactMode
	mirroring  MirroringMode
	gaze       GazeMode

	wideAngle SamplingRate
	realSense SamplingRate

	// stampTalk marks the entry as talk activity for the decay check.
	stampTalk bool
}

func hz(pipeline, detect float64) SamplingRate {
	return SamplingRate{PipelineRate: pipeline, DetectRate: detect}
}

// restingRate is used by the eye cameras in every state and by all channels while sleeping.
var restingRate = hz(1, 1)

var profiles = [...]stateProfile{
	StateSleeping: {
		lookAt: LookAtIdle, eyeContact: EyeContactIdle, mirroring: MirrorIdle, gaze: GazeOnly,
		wideAngle: restingRate, realSense: restingRate,
	},
	StateIdle: {
		lookAt: LookAtIdle, eyeContact: EyeContactIdle, mirroring: MirrorIdle, gaze: GazeOnly,
		wideAngle: hz(10, 10), realSense: hz(10, 20),
	},
	StateInterested: {
		lookAt: LookAtSaliency, eyeContact: EyeContactIdle, mirroring: MirrorIdle, gaze: GazeOnly,
		wideAngle: hz(20, 10), realSense: hz(20, 20),
	},
	StateFocused: {
		lookAt: LookAtHand, eyeContact: EyeContactIdle, mirroring: MirrorIdle, gaze: GazeAndHead,
		wideAngle: hz(20, 20), realSense: hz(20, 20),
	},
	StateSpeaking: {
		lookAt: LookAtAvoid, eyeContact: EyeContactIdle, mirroring: MirrorIdle, gaze: GazeLeadsHead,
		wideAngle: hz(20, 10), realSense: hz(20, 20),
		stampTalk: true,
	},
	StateListening: {
		lookAt: LookAtOneFace, eyeContact: EyeContactBothEyes, mirroring: MirrorIdle, gaze: HeadLeadsGaze,
		wideAngle: hz(20, 20), realSense: hz(20, 20),
		stampTalk: true,
	},
	StatePresenting: {
		lookAt: LookAtAudience, eyeContact: EyeContactIdle, mirroring: MirrorIdle, gaze: GazeAndHead,
		wideAngle: hz(20, 10), realSense: hz(20, 20),
	},
}

// samplingRates returns the rate for every channel in Channels.
func (p stateProfile) samplingRates() map[string]SamplingRate {
	return map[string]SamplingRate{
		ChannelLeftEye:   restingRate,
		ChannelRightEye:  restingRate,
		ChannelWideAngle: p.wideAngle,
		ChannelRealSense: p.realSense,
	}
}

// GestureList names the gesture list a state draws from.
func GestureList(s ActivityState) string { return s.String() + "_gestures" }

// ExpressionList names the expression list a state draws from.
func ExpressionList(s ActivityState) string { return s.String() + "_expressions" }

// Profile is what entering a state applies.
type Profile struct {
	State       ActivityState
	LookAt      LookAtMode
	EyeContact  EyeContactMode
	Mirroring   MirroringMode
	Gaze        GazeMode
	Rates       map[string]SamplingRate
	Gestures    string
	Expressions string
}

// ProfileOf returns the entry profile of s.
func ProfileOf(s ActivityState) Profile {
	p := profiles[s]
	return Profile{
		State:       s,
		LookAt:      p.lookAt,
		EyeContact:  p.eyeContact,
		Mirroring:   p.mirroring,
		Gaze:        p.gaze,
		Rates:       p.samplingRates(),
		Gestures:    GestureList(s),
		Expressions: ExpressionList(s),
	}
}
