package web

import (
	"fmt"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"

	"github.com/teslashibe/go-behavior/pkg/behavior"
	"github.com/teslashibe/go-behavior/pkg/hub"
	"github.com/teslashibe/go-behavior/pkg/protocol"
)

// Decode converts an inbound message into an engine event. Samples without a
// timestamp are stamped with now.
func Decode(msg *protocol.Message, now time.Time) (behavior.Event, error) {
	switch msg.Type {
	case protocol.TypeFace:
		d, err := msg.GetFaceData()
		if err != nil {
			return nil, err
		}
		return behavior.FaceSighting{Face: d.Face(now)}, nil

	case protocol.TypeHand:
		d, err := msg.GetHandData()
		if err != nil {
			return nil, err
		}
		return behavior.HandSighting{Hand: d.Hand(now)}, nil

	case protocol.TypeSaliency:
		d, err := msg.GetSaliencyData()
		if err != nil {
			return nil, err
		}
		return behavior.SaliencySighting{Saliency: d.Saliency(now)}, nil

	case protocol.TypeAudioDirection:
		d, err := msg.GetAudioDirectionData()
		if err != nil {
			return nil, err
		}
		return behavior.AudioDirection{Direction: d.Direction, Timestamp: protocol.Time(d.TS, now)}, nil

	case protocol.TypeMotion:
		d, err := msg.GetMotionData()
		if err != nil {
			return nil, err
		}
		return behavior.MotionVector{
			Direction: d.Direction,
			Magnitude: d.Magnitude,
			Timestamp: protocol.Time(d.TS, now),
		}, nil

	case protocol.TypeChat:
		return behavior.ConversationStarted{}, nil

	case protocol.TypeSpeech:
		d, err := msg.GetSpeechData()
		if err != nil {
			return nil, err
		}
		return behavior.SpeechEvent{Phase: d.Phase}, nil

	case protocol.TypeSay:
		d, err := msg.GetSayData()
		if err != nil {
			return nil, err
		}
		return behavior.Announce{Text: d.Text}, nil

	case protocol.TypeConfig:
		var u behavior.ParamUpdate
		if err := msg.ParseData(&u); err != nil {
			return nil, err
		}
		return u, nil
	}
	return nil, fmt.Errorf("%w: %q", protocol.ErrUnknownType, msg.Type)
}

// ingest handles one inbound frame and returns the reply to send, if any.
func (s *Server) ingest(data []byte) *protocol.Message {
	msg, err := protocol.ParseMessage(data)
	if err != nil {
		return s.reject("", err)
	}

	if msg.Type == protocol.TypePing {
		ping, err := msg.GetPingData()
		if err != nil {
			return s.reject(msg.Type, err)
		}
		pong, _ := protocol.NewPongMessage(ping.ID, ping.Timestamp, s.now().UnixMilli())
		return pong
	}

	ev, err := Decode(msg, s.now())
	if err != nil {
		return s.reject(msg.Type, err)
	}
	if err := s.engine.Submit(ev); err != nil {
		return s.reject(msg.Type, err)
	}
	return nil
}

func (s *Server) reject(t protocol.MessageType, err error) *protocol.Message {
	s.logger.Debug("rejected inbound message", "type", t, "error", err)
	reply, _ := protocol.NewErrorMessage(t, err)
	return reply
}

// handlePerceptionWS feeds sightings and control events into the engine
func (s *Server) handlePerceptionWS(c *websocket.Conn) {
	id := uuid.NewString()
	logger := s.logger.With("conn", id, "stream", "perception")
	logger.Info("stream connected")
	defer logger.Info("stream disconnected")

	for {
		_, data, err := c.ReadMessage()
		if err != nil {
			return
		}
		reply := s.ingest(data)
		if reply == nil {
			continue
		}
		out, err := reply.Bytes()
		if err != nil {
			continue
		}
		if err := c.WriteMessage(websocket.TextMessage, out); err != nil {
			return
		}
	}
}

// handleCommandsWS streams engine commands, optionally filtered with ?topics=gaze,head
func (s *Server) handleCommandsWS(c *websocket.Conn) {
	// Join the broadcast first so no transition is lost while the current
	// modes are sent. The pumps are not running yet, so this is the only writer.
	client := hub.NewClient(s.commands, c, topics(c.Query("topics"))...)

	msg, err := protocol.NewStateDisplayMessage(displayData(s.engine.Snapshot().StateDisplay))
	if err == nil {
		var data []byte
		if data, err = msg.Bytes(); err == nil {
			err = c.WriteMessage(websocket.TextMessage, data)
		}
	}
	if err != nil {
		s.logger.Warn("command stream closed before the first frame", "client", client.ID, "error", err)
		client.Close()
		return
	}

	client.Run()
}
