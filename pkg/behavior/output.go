package behavior

import (
	"time"

	"github.com/teslashibe/go-behavior/pkg/perception"
)

// Actuator animation modes.
const (
	AnimationModeDefault    uint8 = 0   // built-in animation drives the face
	AnimationModeBlendShape uint8 = 148 // blend-shape coefficients override the face
)

// Sensor channels whose sampling rates follow the activity state.
const (
	ChannelLeftEye   = "lefteye"
	ChannelRightEye  = "righteye"
	ChannelWideAngle = "wideangle"
	ChannelRealSense = "realsense"
)

// Channels lists the sensor channels in push order.
var Channels = []string{ChannelLeftEye, ChannelRightEye, ChannelWideAngle, ChannelRealSense}

// SamplingRate is the per-channel perception configuration.
type SamplingRate struct {
	PipelineRate float64 `json:"pipeline_rate" yaml:"pipeline_rate"`
	DetectRate   float64 `json:"detect_rate" yaml:"detect_rate"`
}

// StateDisplay is the mode summary published after state changes.
type StateDisplay struct {
	State      ActivityState  `json:"state"`
	LookAt     LookAtMode     `json:"lookat"`
	EyeContact EyeContactMode `json:"eyecontact"`
	Mirroring  MirroringMode  `json:"mirroring"`
	Gaze       GazeMode       `json:"gaze"`
}

// MotionOutput receives gaze and head targets.
type MotionOutput interface {
	GazeTarget(pos perception.Vec3, speed float64) error
	HeadTarget(pos perception.Vec3, speed float64) error
}

// AnimationOutput receives face animation commands.
type AnimationOutput interface {
	Emotion(name string, magnitude float64, duration time.Duration) error
	Gesture(name string, repeat bool, speed, magnitude float64) error
	AnimationMode(mode uint8) error
	BlendShapes(names []string, values []float64) error
}

// PerceptionConfigurer receives sampling-rate changes for upstream sensor channels.
type PerceptionConfigurer interface {
	SamplingRate(channel string, rate SamplingRate) error
}

// Announcer receives informational notifications.
type Announcer interface {
	Say(text string) error
	StateDisplay(d StateDisplay) error
	HandEvent(event string) error
}

// Output is everything the engine emits.
type Output interface {
	MotionOutput
	AnimationOutput
	PerceptionConfigurer
	Announcer
}

// NopOutput discards all commands.
type NopOutput struct{}

func (NopOutput) GazeTarget(perception.Vec3, float64) error    { return nil }
func (NopOutput) HeadTarget(perception.Vec3, float64) error    { return nil }
func (NopOutput) Emotion(string, float64, time.Duration) error { return nil }
func (NopOutput) Gesture(string, bool, float64, float64) error { return nil }
func (NopOutput) AnimationMode(uint8) error                    { return nil }
func (NopOutput) BlendShapes([]string, []float64) error        { return nil }
func (NopOutput) SamplingRate(string, SamplingRate) error      { return nil }
func (NopOutput) Say(string) error                             { return nil }
func (NopOutput) StateDisplay(StateDisplay) error              { return nil }
func (NopOutput) HandEvent(string) error                       { return nil }

var _ Output = NopOutput{}
