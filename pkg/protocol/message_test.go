package protocol

import (
	"errors"
	"testing"
	"time"

	"github.com/teslashibe/go-behavior/pkg/perception"
)

func TestNewMessage(t *testing.T) {
	tests := []struct {
		name    string
		msgType MessageType
		data    interface{}
		wantErr bool
	}{
		{
			name:    "gaze message",
			msgType: TypeGaze,
			data:    TargetData{X: 1, Speed: 5},
		},
		{
			name:    "speech message",
			msgType: TypeSpeech,
			data:    SpeechData{Phase: "start"},
		},
		{
			name:    "nil data",
			msgType: TypeChat,
			data:    nil,
		},
		{
			name:    "unencodable data",
			msgType: TypeConfig,
			data:    make(chan int),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := NewMessage(tt.msgType, tt.data)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewMessage() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if msg.Type != tt.msgType {
				t.Errorf("NewMessage() type = %v, want %v", msg.Type, tt.msgType)
			}
			if msg.Timestamp == 0 {
				t.Error("NewMessage() timestamp should be set")
			}
			if tt.data == nil && msg.Data != nil {
				t.Errorf("nil data encoded as %s", msg.Data)
			}
		})
	}
}

func TestFaceMessageRoundTrip(t *testing.T) {
	ts := time.Date(2024, 5, 1, 10, 0, 0, 250_000_000, time.UTC)
	face := perception.Face{
		ID:          17,
		Position:    perception.Vec3{X: 1.1, Y: -0.2, Z: 0.3},
		Timestamp:   ts,
		BrowLeft:    0.4,
		EyelidRight: 0.9,
		MouthOpen:   0.2,
	}

	msg, err := NewFaceMessage(face)
	if err != nil {
		t.Fatalf("NewFaceMessage() error = %v", err)
	}
	raw, err := msg.Bytes()
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}

	parsed, err := ParseMessage(raw)
	if err != nil {
		t.Fatalf("ParseMessage() error = %v", err)
	}
	if parsed.Type != TypeFace {
		t.Errorf("Type = %v, want %v", parsed.Type, TypeFace)
	}
	data, err := parsed.GetFaceData()
	if err != nil {
		t.Fatalf("GetFaceData() error = %v", err)
	}

	got := data.Face(time.Time{})
	if got != face {
		t.Errorf("face = %+v, want %+v", got, face)
	}
}

func TestMissingTimestampUsesNow(t *testing.T) {
	msg, err := ParseMessage([]byte(`{"type":"hand","data":{"position":{"x":0.5,"y":0,"z":0.1}}}`))
	if err != nil {
		t.Fatal(err)
	}
	data, err := msg.GetHandData()
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	h := data.Hand(now)
	if !h.Timestamp.Equal(now) {
		t.Errorf("Timestamp = %v, want %v", h.Timestamp, now)
	}
	if h.Position.X != 0.5 || h.Position.Z != 0.1 {
		t.Errorf("Position = %+v", h.Position)
	}
}

func TestParseMessageErrors(t *testing.T) {
	if _, err := ParseMessage([]byte(`{"type":`)); err == nil {
		t.Error("expected an error for truncated JSON")
	}
	if _, err := ParseMessage([]byte(`{"data":{}}`)); !errors.Is(err, ErrUnknownType) {
		t.Errorf("missing type error = %v, want ErrUnknownType", err)
	}
}

func TestEmotionMessageDuration(t *testing.T) {
	msg, err := NewEmotionMessage("happy", 0.3, 1500*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	var data EmotionData
	if err := msg.ParseData(&data); err != nil {
		t.Fatal(err)
	}
	if data.Name != "happy" || data.Magnitude != 0.3 || data.Duration != 1.5 {
		t.Errorf("emotion = %+v", data)
	}
}

func TestBlendShapesMessage(t *testing.T) {
	msg, err := NewBlendShapesMessage([]string{"lip-JAW.DN"}, []float64{0.7})
	if err != nil {
		t.Fatal(err)
	}
	want := `{"coeffs":["lip-JAW.DN"],"values":[0.7]}`
	if string(msg.Data) != want {
		t.Errorf("data = %s, want %s", msg.Data, want)
	}
}

func TestPingPong(t *testing.T) {
	ping, err := NewPingMessage("abc")
	if err != nil {
		t.Fatal(err)
	}
	pd, err := ping.GetPingData()
	if err != nil {
		t.Fatal(err)
	}
	if pd.ID != "abc" || pd.Timestamp == 0 {
		t.Errorf("ping = %+v", pd)
	}

	pong, err := NewPongMessage(pd.ID, 1000, 1042)
	if err != nil {
		t.Fatal(err)
	}
	po, err := pong.GetPongData()
	if err != nil {
		t.Fatal(err)
	}
	if po.LatencyMs != 42 {
		t.Errorf("LatencyMs = %d, want 42", po.LatencyMs)
	}
}

func TestDirections(t *testing.T) {
	for _, typ := range []MessageType{TypeFace, TypeConfig, TypeSay} {
		if !IsInbound(typ) {
			t.Errorf("%s should be inbound", typ)
		}
	}
	for _, typ := range []MessageType{TypeGaze, TypeStateDisplay, TypeSay} {
		if !IsOutbound(typ) {
			t.Errorf("%s should be outbound", typ)
		}
	}
	if IsInbound(TypeGaze) {
		t.Error("gaze should not be inbound")
	}
}
