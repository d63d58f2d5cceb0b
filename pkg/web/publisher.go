package web

import (
	"time"

	"github.com/teslashibe/go-behavior/pkg/behavior"
	"github.com/teslashibe/go-behavior/pkg/hub"
	"github.com/teslashibe/go-behavior/pkg/perception"
	"github.com/teslashibe/go-behavior/pkg/protocol"
)

// Publisher broadcasts engine commands to command stream subscribers.
type Publisher struct {
	hub *hub.Hub
}

var _ behavior.Output = (*Publisher)(nil)

// NewPublisher creates a publisher on h.
func NewPublisher(h *hub.Hub) *Publisher {
	return &Publisher{hub: h}
}

func (p *Publisher) send(msg *protocol.Message, err error) error {
	if err != nil {
		return err
	}
	data, err := msg.Bytes()
	if err != nil {
		return err
	}
	p.hub.Broadcast(hub.NewMessage(string(msg.Type), data))
	return nil
}

func (p *Publisher) GazeTarget(pos perception.Vec3, speed float64) error {
	return p.send(protocol.NewGazeMessage(pos, speed))
}

func (p *Publisher) HeadTarget(pos perception.Vec3, speed float64) error {
	return p.send(protocol.NewHeadMessage(pos, speed))
}

func (p *Publisher) Emotion(name string, magnitude float64, duration time.Duration) error {
	return p.send(protocol.NewEmotionMessage(name, magnitude, duration))
}

func (p *Publisher) Gesture(name string, repeat bool, speed, magnitude float64) error {
	return p.send(protocol.NewGestureMessage(name, repeat, speed, magnitude))
}

func (p *Publisher) AnimationMode(mode uint8) error {
	return p.send(protocol.NewAnimationModeMessage(mode))
}

func (p *Publisher) BlendShapes(names []string, values []float64) error {
	return p.send(protocol.NewBlendShapesMessage(names, values))
}

func (p *Publisher) SamplingRate(channel string, rate behavior.SamplingRate) error {
	return p.send(protocol.NewSamplingRateMessage(channel, rate.PipelineRate, rate.DetectRate))
}

func (p *Publisher) Say(text string) error {
	return p.send(protocol.NewSayMessage(text))
}

func (p *Publisher) StateDisplay(d behavior.StateDisplay) error {
	return p.send(protocol.NewStateDisplayMessage(displayData(d)))
}

func (p *Publisher) HandEvent(event string) error {
	return p.send(protocol.NewHandEventMessage(event))
}

func displayData(d behavior.StateDisplay) protocol.StateDisplayData {
	return protocol.StateDisplayData{
		State:      d.State.String(),
		LookAt:     d.LookAt.String(),
		EyeContact: d.EyeContact.String(),
		Mirroring:  d.Mirroring.String(),
		Gaze:       d.Gaze.String(),
	}
}
