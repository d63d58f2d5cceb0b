package protocol

import (
	"slices"
	"time"

	"github.com/teslashibe/go-behavior/pkg/perception"
)

// IsInbound reports whether t is accepted on the ingest stream.
func IsInbound(t MessageType) bool { return slices.Contains(Inbound, t) }

// IsOutbound reports whether t is published on the command stream.
func IsOutbound(t MessageType) bool { return slices.Contains(Outbound, t) }

// =============================================================================
// Helper functions for creating messages
// =============================================================================

// NewFaceMessage creates a face sighting message
func NewFaceMessage(f perception.Face) (*Message, error) {
	return NewMessage(TypeFace, FaceData{
		ID:          int64(f.ID),
		Position:    f.Position,
		TS:          Millis(f.Timestamp),
		BrowLeft:    f.BrowLeft,
		BrowRight:   f.BrowRight,
		EyelidLeft:  f.EyelidLeft,
		EyelidRight: f.EyelidRight,
		MouthOpen:   f.MouthOpen,
	})
}

// NewHandMessage creates a hand sighting message
func NewHandMessage(h perception.Hand) (*Message, error) {
	return NewMessage(TypeHand, HandData{Position: h.Position, TS: Millis(h.Timestamp)})
}

// NewSaliencyMessage creates a saliency message
func NewSaliencyMessage(v perception.Saliency) (*Message, error) {
	return NewMessage(TypeSaliency, SaliencyData{Direction: v.Direction, TS: Millis(v.Timestamp)})
}

// NewChatMessage creates a conversation-started message
func NewChatMessage() (*Message, error) {
	return NewMessage(TypeChat, nil)
}

// NewSpeechMessage creates a speech start/stop message
func NewSpeechMessage(phase string) (*Message, error) {
	return NewMessage(TypeSpeech, SpeechData{Phase: phase})
}

// NewConfigMessage creates a live parameter update message
func NewConfigMessage(update interface{}) (*Message, error) {
	return NewMessage(TypeConfig, update)
}

// NewGazeMessage creates a gaze target message
func NewGazeMessage(pos perception.Vec3, speed float64) (*Message, error) {
	return NewMessage(TypeGaze, TargetData{X: pos.X, Y: pos.Y, Z: pos.Z, Speed: speed})
}

// NewHeadMessage creates a head target message
func NewHeadMessage(pos perception.Vec3, speed float64) (*Message, error) {
	return NewMessage(TypeHead, TargetData{X: pos.X, Y: pos.Y, Z: pos.Z, Speed: speed})
}

// NewEmotionMessage creates an expression message
func NewEmotionMessage(name string, magnitude float64, duration time.Duration) (*Message, error) {
	return NewMessage(TypeEmotion, EmotionData{
		Name:      name,
		Magnitude: magnitude,
		Duration:  duration.Seconds(),
	})
}

// NewGestureMessage creates a gesture message
func NewGestureMessage(name string, repeat bool, speed, magnitude float64) (*Message, error) {
	return NewMessage(TypeGesture, GestureData{
		Name:      name,
		Repeat:    repeat,
		Speed:     speed,
		Magnitude: magnitude,
	})
}

// NewAnimationModeMessage creates an animation mode message
func NewAnimationModeMessage(mode uint8) (*Message, error) {
	return NewMessage(TypeAnimationMode, AnimationModeData{Mode: mode})
}

// NewBlendShapesMessage creates a blend-shape override message
func NewBlendShapesMessage(coeffs []string, values []float64) (*Message, error) {
	return NewMessage(TypeBlendShapes, BlendShapesData{Coeffs: coeffs, Values: values})
}

// NewSamplingRateMessage creates a channel sampling-rate message
func NewSamplingRateMessage(channel string, pipelineRate, detectRate float64) (*Message, error) {
	return NewMessage(TypeSamplingRate, SamplingRateData{
		Channel:      channel,
		PipelineRate: pipelineRate,
		DetectRate:   detectRate,
	})
}

// NewStateDisplayMessage creates a mode summary message
func NewStateDisplayMessage(d StateDisplayData) (*Message, error) {
	return NewMessage(TypeStateDisplay, d)
}

// NewHandEventMessage creates a hand notification message
func NewHandEventMessage(event string) (*Message, error) {
	return NewMessage(TypeHandEvent, HandEventData{Event: event})
}

// NewSayMessage creates a debug announcement message
func NewSayMessage(text string) (*Message, error) {
	return NewMessage(TypeSay, SayData{Text: text, Lang: "en-US"})
}

// NewPingMessage creates a ping message
func NewPingMessage(id string) (*Message, error) {
	return NewMessage(TypePing, PingData{
		ID:        id,
		Timestamp: time.Now().UnixMilli(),
	})
}

// NewPongMessage creates a pong response message
func NewPongMessage(id string, pingTS, pongTS int64) (*Message, error) {
	return NewMessage(TypePong, PongData{
		ID:        id,
		PingTS:    pingTS,
		PongTS:    pongTS,
		LatencyMs: pongTS - pingTS,
	})
}

// NewErrorMessage creates an error report for a rejected message
func NewErrorMessage(t MessageType, err error) (*Message, error) {
	return NewMessage(TypeError, ErrorData{Type: t, Message: err.Error()})
}

// =============================================================================
// Helper functions for parsing messages
// =============================================================================

// Face converts a face payload to a sample, stamping it with now when it has no timestamp.
func (d FaceData) Face(now time.Time) perception.Face {
	return perception.Face{
		ID:          perception.FaceID(d.ID),
		Position:    d.Position,
		Timestamp:   Time(d.TS, now),
		BrowLeft:    d.BrowLeft,
		BrowRight:   d.BrowRight,
		EyelidLeft:  d.EyelidLeft,
		EyelidRight: d.EyelidRight,
		MouthOpen:   d.MouthOpen,
	}
}

// Hand converts a hand payload to a sample.
func (d HandData) Hand(now time.Time) perception.Hand {
	return perception.Hand{Position: d.Position, Timestamp: Time(d.TS, now)}
}

// Saliency converts a saliency payload to a vector.
func (d SaliencyData) Saliency(now time.Time) perception.Saliency {
	return perception.Saliency{Direction: d.Direction, Timestamp: Time(d.TS, now)}
}

// GetFaceData extracts face data from a message
func (m *Message) GetFaceData() (*FaceData, error) {
	var data FaceData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetHandData extracts hand data from a message
func (m *Message) GetHandData() (*HandData, error) {
	var data HandData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetSaliencyData extracts saliency data from a message
func (m *Message) GetSaliencyData() (*SaliencyData, error) {
	var data SaliencyData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetAudioDirectionData extracts audio direction data from a message
func (m *Message) GetAudioDirectionData() (*AudioDirectionData, error) {
	var data AudioDirectionData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetMotionData extracts motion data from a message
func (m *Message) GetMotionData() (*MotionData, error) {
	var data MotionData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetSpeechData extracts speech data from a message
func (m *Message) GetSpeechData() (*SpeechData, error) {
	var data SpeechData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetSayData extracts an announcement from a message
func (m *Message) GetSayData() (*SayData, error) {
	var data SayData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetTargetData extracts a gaze or head target from a message
func (m *Message) GetTargetData() (*TargetData, error) {
	var data TargetData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetGestureData extracts gesture data from a message
func (m *Message) GetGestureData() (*GestureData, error) {
	var data GestureData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetStateDisplayData extracts a mode summary from a message
func (m *Message) GetStateDisplayData() (*StateDisplayData, error) {
	var data StateDisplayData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetPingData extracts ping data from a message
func (m *Message) GetPingData() (*PingData, error) {
	var data PingData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetPongData extracts pong data from a message
func (m *Message) GetPongData() (*PongData, error) {
	var data PongData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}
