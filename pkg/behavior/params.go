package behavior

import (
	"fmt"
	"math"
	"time"
)

// Params are the live-tunable engine parameters. Times are seconds.
type Params struct {
	// Enabled is the master enable flag. It is advisory: the engine keeps ticking.
	Enabled bool `yaml:"enable_flag" json:"enable_flag"`

	// TickRate is the scheduler frequency in Hz.
	TickRate float64 `yaml:"tick_rate" json:"tick_rate"`

	// Retention is how long perceived entities survive without a refresh.
	Retention float64 `yaml:"retention_seconds" json:"retention_seconds"`

	SaliencyTime   Range `yaml:"saliency_time" json:"saliency_time"`
	FacesTime      Range `yaml:"faces_time" json:"faces_time"`
	EyesTime       Range `yaml:"eyes_time" json:"eyes_time"`
	AudienceTime   Range `yaml:"audience_time" json:"audience_time"`
	GestureTime    Range `yaml:"gesture_time" json:"gesture_time"`
	ExpressionTime Range `yaml:"expression_time" json:"expression_time"`

	HandStateDecay float64 `yaml:"hand_state_decay" json:"hand_state_decay"`
	FaceStateDecay float64 `yaml:"face_state_decay" json:"face_state_decay"`

	GazeDelay float64 `yaml:"gaze_delay" json:"gaze_delay"`
	GazeSpeed float64 `yaml:"gaze_speed" json:"gaze_speed"`

	AllFacesStartTime Range `yaml:"all_faces_start_time" json:"all_faces_start_time"`
	AllFacesDuration  Range `yaml:"all_faces_duration" json:"all_faces_duration"`

	// AnnounceStates speaks the new state name on every transition (debug aid).
	AnnounceStates bool `yaml:"announce_states" json:"announce_states"`
}

// DefaultParams returns the stock parameter set.
func DefaultParams() Params {
	window := Range{Min: 0.1, Max: 3.0}
	return Params{
		Enabled:           true,
		TickRate:          10,
		Retention:         1.0,
		SaliencyTime:      window,
		FacesTime:         window,
		EyesTime:          window,
		AudienceTime:      window,
		GestureTime:       window,
		ExpressionTime:    window,
		HandStateDecay:    2.0,
		FaceStateDecay:    2.0,
		GazeDelay:         1.0,
		GazeSpeed:         0.5,
		AllFacesStartTime: Range{Min: 4.0, Max: 6.0},
		AllFacesDuration:  Range{Min: 2.0, Max: 4.0},
	}
}

// Validate rejects parameter sets the scheduler cannot run with.
func (p Params) Validate() error {
	if !validTickRate(p.TickRate) {
		return fmt.Errorf("tick_rate must be a positive rate of at most %v Hz, got %v", maxTickRate, p.TickRate)
	}
	if !validRetention(p.Retention) {
		return fmt.Errorf("retention_seconds must not be negative, got %v", p.Retention)
	}
	return nil
}

// maxTickRate keeps the tick period at one microsecond or more.
const maxTickRate = 1e6

// validTickRate reports whether rate gives a finite, positive tick period.
func validTickRate(rate float64) bool {
	return !math.IsNaN(rate) && rate > 0 && rate <= maxTickRate
}

func validRetention(s float64) bool {
	return !math.IsNaN(s) && !math.IsInf(s, 0) && s >= 0
}

// Interval is the tick period.
func (p Params) Interval() time.Duration {
	return time.Duration(float64(time.Second) / p.TickRate)
}

func (p Params) retention() time.Duration {
	return seconds(p.Retention)
}

// gazeDelayTicks is the follow delay for the lead/lag gaze modes.
func (p Params) gazeDelayTicks() int {
	return int(p.GazeDelay * p.TickRate)
}

func (p *Params) rangeFor(id counterID) *Range {
	switch id {
	case counterSaliency:
		return &p.SaliencyTime
	case counterFaces:
		return &p.FacesTime
	case counterEyes:
		return &p.EyesTime
	case counterAudience:
		return &p.AudienceTime
	case counterGesture:
		return &p.GestureTime
	case counterExpression:
		return &p.ExpressionTime
	case counterAllFacesStart:
		return &p.AllFacesStartTime
	case counterAllFacesDuration:
		return &p.AllFacesDuration
	}
	panic(fmt.Sprintf("behavior: no range for counter %d", id))
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// ParamUpdate is a partial live reconfiguration. Nil fields are left alone.
// Mode overrides are applied last, after all numeric parameters.
type ParamUpdate struct {
	Enabled   *bool    `yaml:"enable_flag,omitempty" json:"enable_flag,omitempty"`
	TickRate  *float64 `yaml:"tick_rate,omitempty" json:"tick_rate,omitempty"`
	Retention *float64 `yaml:"retention_seconds,omitempty" json:"retention_seconds,omitempty"`

	SaliencyTime   *Range `yaml:"saliency_time,omitempty" json:"saliency_time,omitempty"`
	FacesTime      *Range `yaml:"faces_time,omitempty" json:"faces_time,omitempty"`
	EyesTime       *Range `yaml:"eyes_time,omitempty" json:"eyes_time,omitempty"`
	AudienceTime   *Range `yaml:"audience_time,omitempty" json:"audience_time,omitempty"`
	GestureTime    *Range `yaml:"gesture_time,omitempty" json:"gesture_time,omitempty"`
	ExpressionTime *Range `yaml:"expression_time,omitempty" json:"expression_time,omitempty"`

	HandStateDecay *float64 `yaml:"hand_state_decay,omitempty" json:"hand_state_decay,omitempty"`
	FaceStateDecay *float64 `yaml:"face_state_decay,omitempty" json:"face_state_decay,omitempty"`
	GazeDelay      *float64 `yaml:"gaze_delay,omitempty" json:"gaze_delay,omitempty"`
	GazeSpeed      *float64 `yaml:"gaze_speed,omitempty" json:"gaze_speed,omitempty"`

	AllFacesStartTime *Range `yaml:"all_faces_start_time,omitempty" json:"all_faces_start_time,omitempty"`
	AllFacesDuration  *Range `yaml:"all_faces_duration,omitempty" json:"all_faces_duration,omitempty"`

	AnnounceStates *bool `yaml:"announce_states,omitempty" json:"announce_states,omitempty"`

	// ReloadAnimations reloads the animation catalog before anything else.
	ReloadAnimations bool `yaml:"reload_animations,omitempty" json:"reload_animations,omitempty"`

	EyeContact *EyeContactMode `yaml:"eyecontact_state,omitempty" json:"eyecontact_state,omitempty"`
	LookAt     *LookAtMode     `yaml:"lookat_state,omitempty" json:"lookat_state,omitempty"`
	Mirroring  *MirroringMode  `yaml:"mirroring_state,omitempty" json:"mirroring_state,omitempty"`
	Gaze       *GazeMode       `yaml:"gaze_state,omitempty" json:"gaze_state,omitempty"`
	State      *ActivityState  `yaml:"state,omitempty" json:"state,omitempty"`
}

// FullUpdate turns a complete parameter set into an update that sets every numeric field.
func FullUpdate(p Params) ParamUpdate {
	return ParamUpdate{
		Enabled:           &p.Enabled,
		TickRate:          &p.TickRate,
		Retention:         &p.Retention,
		SaliencyTime:      &p.SaliencyTime,
		FacesTime:         &p.FacesTime,
		EyesTime:          &p.EyesTime,
		AudienceTime:      &p.AudienceTime,
		GestureTime:       &p.GestureTime,
		ExpressionTime:    &p.ExpressionTime,
		HandStateDecay:    &p.HandStateDecay,
		FaceStateDecay:    &p.FaceStateDecay,
		GazeDelay:         &p.GazeDelay,
		GazeSpeed:         &p.GazeSpeed,
		AllFacesStartTime: &p.AllFacesStartTime,
		AllFacesDuration:  &p.AllFacesDuration,
		AnnounceStates:    &p.AnnounceStates,
	}
}

// rangeUpdates pairs each optional range in u with its counter, in application order.
func (u *ParamUpdate) rangeUpdates() []struct {
	id counterID
	r  *Range
} {
	return []struct {
		id counterID
		r  *Range
	}{
		{counterSaliency, u.SaliencyTime},
		{counterFaces, u.FacesTime},
		{counterEyes, u.EyesTime},
		{counterAudience, u.AudienceTime},
		{counterGesture, u.GestureTime},
		{counterExpression, u.ExpressionTime},
		{counterAllFacesStart, u.AllFacesStartTime},
		{counterAllFacesDuration, u.AllFacesDuration},
	}
}
