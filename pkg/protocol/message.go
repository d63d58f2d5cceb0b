// Package protocol defines the WebSocket message types exchanged with the
// behavior engine: perception sightings and control events flowing in, actuator
// and notification commands flowing out.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/teslashibe/go-behavior/pkg/perception"
)

// ErrUnknownType is returned for a message type the receiving side does not handle.
var ErrUnknownType = errors.New("unknown message type")

// MessageType identifies the type of WebSocket message
type MessageType string

const (
	// Perception → engine
	TypeFace           MessageType = "face"            // Face sighting
	TypeHand           MessageType = "hand"            // Hand sighting
	TypeSaliency       MessageType = "saliency"        // Saliency vector
	TypeAudioDirection MessageType = "audio_direction" // Sound direction estimate
	TypeMotion         MessageType = "motion"          // Motion detection

	// Control → engine
	TypeChat   MessageType = "chat"   // Conversation started
	TypeSpeech MessageType = "speech" // Speech started/stopped
	TypeConfig MessageType = "config" // Live parameter update

	// Engine → robot
	TypeGaze          MessageType = "gaze"           // Gaze target
	TypeHead          MessageType = "head"           // Head target
	TypeEmotion       MessageType = "emotion"        // Facial expression
	TypeGesture       MessageType = "gesture"        // Gesture animation
	TypeAnimationMode MessageType = "animation_mode" // Blend-shape override on/off
	TypeBlendShapes   MessageType = "blend_shapes"   // Blend-shape coefficients
	TypeSamplingRate  MessageType = "sampling_rate"  // Perception channel rates
	TypeStateDisplay  MessageType = "state_display"  // Mode summary
	TypeHandEvent     MessageType = "hand_event"     // Hand notification

	// Bidirectional
	TypeSay   MessageType = "say"   // Debug announcement
	TypePing  MessageType = "ping"  // Health check
	TypePong  MessageType = "pong"  // Health check response
	TypeError MessageType = "error" // Rejected inbound message
)

// Inbound lists the types the engine accepts on its ingest stream.
var Inbound = []MessageType{
	TypeFace, TypeHand, TypeSaliency, TypeAudioDirection, TypeMotion,
	TypeChat, TypeSpeech, TypeConfig, TypeSay, TypePing,
}

// Outbound lists the types the engine publishes on its command stream.
var Outbound = []MessageType{
	TypeGaze, TypeHead, TypeEmotion, TypeGesture, TypeAnimationMode, TypeBlendShapes,
	TypeSamplingRate, TypeStateDisplay, TypeHandEvent, TypeSay,
}

// Message is the base wrapper for all WebSocket messages
type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp int64           `json:"ts,omitempty"` // Unix milliseconds
	Data      json.RawMessage `json:"data,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(msgType MessageType, data interface{}) (*Message, error) {
	var rawData json.RawMessage
	if data != nil {
		var err error
		rawData, err = json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal message data: %w", err)
		}
	}

	return &Message{
		Type:      msgType,
		Timestamp: time.Now().UnixMilli(),
		Data:      rawData,
	}, nil
}

// ParseData unmarshals the message data into the provided struct
func (m *Message) ParseData(v interface{}) error {
	if m.Data == nil {
		return nil
	}
	return json.Unmarshal(m.Data, v)
}

// Bytes returns the JSON-encoded message
func (m *Message) Bytes() ([]byte, error) {
	return json.Marshal(m)
}

// ParseMessage parses a JSON message from bytes
func ParseMessage(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}
	if msg.Type == "" {
		return nil, fmt.Errorf("failed to parse message: %w: missing type", ErrUnknownType)
	}
	return &msg, nil
}

// Millis converts t to Unix milliseconds, with the zero time mapping to 0.
func Millis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

// Time converts Unix milliseconds to a time, using fallback when ms is 0.
func Time(ms int64, fallback time.Time) time.Time {
	if ms == 0 {
		return fallback
	}
	return time.UnixMilli(ms).UTC()
}

// =============================================================================
// Perception → Engine Message Types
// =============================================================================

// FaceData is one face sample. Facial action values are in [0,1].
type FaceData struct {
	ID          int64           `json:"id"`
	Position    perception.Vec3 `json:"position"`
	TS          int64           `json:"ts,omitempty"` // Unix ms, 0 means "now"
	BrowLeft    float64         `json:"brow_left"`
	BrowRight   float64         `json:"brow_right"`
	EyelidLeft  float64         `json:"eyelid_left"`
	EyelidRight float64         `json:"eyelid_right"`
	MouthOpen   float64         `json:"mouth_open"`
}

// HandData is one hand sample
type HandData struct {
	Position perception.Vec3 `json:"position"`
	TS       int64           `json:"ts,omitempty"`
}

// SaliencyData is a direction of visual interest
type SaliencyData struct {
	Direction perception.Vec3 `json:"direction"`
	TS        int64           `json:"ts,omitempty"`
}

// AudioDirectionData is a sound direction estimate
type AudioDirectionData struct {
	Direction perception.Vec3 `json:"direction"`
	TS        int64           `json:"ts,omitempty"`
}

// MotionData is a motion detection
type MotionData struct {
	Direction perception.Vec3 `json:"direction"`
	Magnitude float64         `json:"magnitude"`
	TS        int64           `json:"ts,omitempty"`
}

// SpeechData reports the robot starting or stopping speech
type SpeechData struct {
	Phase string `json:"phase"` // "start" or "stop"
}

// =============================================================================
// Engine → Robot Message Types
// =============================================================================

// TargetData is a gaze or head target
type TargetData struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
	Speed float64 `json:"speed"`
}

// EmotionData starts a facial expression
type EmotionData struct {
	Name      string  `json:"name"`
	Magnitude float64 `json:"magnitude"`
	Duration  float64 `json:"duration"` // seconds
}

// GestureData starts a gesture animation
type GestureData struct {
	Name      string  `json:"name"`
	Repeat    bool    `json:"repeat"`
	Speed     float64 `json:"speed"`
	Magnitude float64 `json:"magnitude"`
}

// AnimationModeData switches the face between default animation and blend-shape override
type AnimationModeData struct {
	Mode uint8 `json:"mode"`
}

// BlendShapesData carries coefficient names and values as parallel arrays
type BlendShapesData struct {
	Coeffs []string  `json:"coeffs"`
	Values []float64 `json:"values"`
}

// SamplingRateData configures one perception channel
type SamplingRateData struct {
	Channel      string  `json:"channel"`
	PipelineRate float64 `json:"pipeline_rate"`
	DetectRate   float64 `json:"detect_rate"`
}

// StateDisplayData summarizes the active modes
type StateDisplayData struct {
	State      string `json:"state"`
	LookAt     string `json:"lookat"`
	EyeContact string `json:"eyecontact"`
	Mirroring  string `json:"mirroring"`
	Gaze       string `json:"gaze"`
}

// HandEventData is a hand notification
type HandEventData struct {
	Event string `json:"event"`
}

// =============================================================================
// Bidirectional Message Types
// =============================================================================

// SayData is a debug text announcement
type SayData struct {
	Text string `json:"text"`
	Lang string `json:"lang,omitempty"`
}

// PingData contains ping information
type PingData struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"ts"`
}

// PongData contains pong response
type PongData struct {
	ID        string `json:"id"`
	PingTS    int64  `json:"ping_ts"`
	PongTS    int64  `json:"pong_ts"`
	LatencyMs int64  `json:"latency_ms"`
}

// ErrorData reports a rejected inbound message
type ErrorData struct {
	Type    MessageType `json:"type,omitempty"`
	Message string      `json:"message"`
}
