package behavior

import "testing"

func TestProfileOf(t *testing.T) {
	tests := []struct {
		state      ActivityState
		lookAt     LookAtMode
		eyeContact EyeContactMode
		gaze       GazeMode
		wide       SamplingRate
		real       SamplingRate
	}{
		{StateSleeping, LookAtIdle, EyeContactIdle, GazeOnly, SamplingRate{1, 1}, SamplingRate{1, 1}},
		{StateIdle, LookAtIdle, EyeContactIdle, GazeOnly, SamplingRate{10, 10}, SamplingRate{10, 20}},
		{StateInterested, LookAtSaliency, EyeContactIdle, GazeOnly, SamplingRate{20, 10}, SamplingRate{20, 20}},
		{StateFocused, LookAtHand, EyeContactIdle, GazeAndHead, SamplingRate{20, 20}, SamplingRate{20, 20}},
		{StateSpeaking, LookAtAvoid, EyeContactIdle, GazeLeadsHead, SamplingRate{20, 10}, SamplingRate{20, 20}},
		{StateListening, LookAtOneFace, EyeContactBothEyes, HeadLeadsGaze, SamplingRate{20, 20}, SamplingRate{20, 20}},
		{StatePresenting, LookAtAudience, EyeContactIdle, GazeAndHead, SamplingRate{20, 10}, SamplingRate{20, 20}},
	}
	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			p := ProfileOf(tt.state)
			if p.LookAt != tt.lookAt || p.EyeContact != tt.eyeContact || p.Gaze != tt.gaze {
				t.Errorf("modes = %v/%v/%v", p.LookAt, p.EyeContact, p.Gaze)
			}
			if p.Mirroring != MirrorIdle {
				t.Errorf("Mirroring = %v, want idle", p.Mirroring)
			}
			if p.Rates[ChannelWideAngle] != tt.wide || p.Rates[ChannelRealSense] != tt.real {
				t.Errorf("rates = %+v", p.Rates)
			}
			if p.Rates[ChannelLeftEye] != (SamplingRate{1, 1}) || p.Rates[ChannelRightEye] != (SamplingRate{1, 1}) {
				t.Errorf("eye camera rates = %+v", p.Rates)
			}
			if p.Gestures != tt.state.String()+"_gestures" {
				t.Errorf("Gestures = %q", p.Gestures)
			}
		})
	}
}
