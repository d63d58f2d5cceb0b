package behavior

import (
	"time"

	"github.com/teslashibe/go-behavior/pkg/perception"
)

// Event is an input the engine loop applies between ticks.
type Event interface {
	kind() string
	apply(e *Engine)
}

// FaceSighting delivers a face sample.
type FaceSighting struct {
	Face perception.Face
}

// HandSighting delivers a hand sample.
type HandSighting struct {
	Hand perception.Hand
}

// SaliencySighting delivers a saliency vector.
type SaliencySighting struct {
	Saliency perception.Saliency
}

// AudioDirection is a sound direction estimate. It is accepted and ignored.
type AudioDirection struct {
	Direction perception.Vec3
	Timestamp time.Time
}

// MotionVector is a motion detection. It is accepted and ignored.
type MotionVector struct {
	Direction perception.Vec3
	Magnitude float64
	Timestamp time.Time
}

// ConversationStarted signals that someone started talking to the robot.
type ConversationStarted struct{}

// Speech phases reported by the speech output.
const (
	SpeechStart = "start"
	SpeechStop  = "stop"
)

// SpeechEvent signals the robot starting or stopping speech.
type SpeechEvent struct {
	Phase string
}

// Announce sends a debug text announcement.
type Announce struct {
	Text string
}

func (FaceSighting) kind() string        { return "face" }
func (HandSighting) kind() string        { return "hand" }
func (SaliencySighting) kind() string    { return "saliency" }
func (AudioDirection) kind() string      { return "audio_direction" }
func (MotionVector) kind() string        { return "motion" }
func (ConversationStarted) kind() string { return "chat" }
func (SpeechEvent) kind() string         { return "speech" }
func (Announce) kind() string            { return "say" }
func (ParamUpdate) kind() string         { return "config" }

func (ev FaceSighting) apply(e *Engine)     { e.onFace(ev.Face) }
func (ev HandSighting) apply(e *Engine)     { e.onHand(ev.Hand) }
func (ev SaliencySighting) apply(e *Engine) { e.onSaliency(ev.Saliency) }
func (AudioDirection) apply(*Engine)        {}
func (MotionVector) apply(*Engine)          {}
func (ConversationStarted) apply(e *Engine) { e.onConversation() }
func (ev SpeechEvent) apply(e *Engine)      { e.onSpeech(ev.Phase) }
func (ev Announce) apply(e *Engine)         { e.report("say", e.out.Say(ev.Text)) }
func (u ParamUpdate) apply(e *Engine)       { e.configure(u) }
