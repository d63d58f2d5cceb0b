package web

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/teslashibe/go-behavior/pkg/behavior"
	"github.com/teslashibe/go-behavior/pkg/protocol"
)

// HealthResponse is returned by GET /api/health.
type HealthResponse struct {
	Status   string `json:"status"`
	Robot    string `json:"robot"`
	State    string `json:"state"`
	Ticks    uint64 `json:"ticks"`
	Clients  int    `json:"clients"`
	Catalog  string `json:"catalog"`
	Gestures string `json:"gestures"`
}

// handleHealth reports liveness plus a few headline numbers
func (s *Server) handleHealth(c *fiber.Ctx) error {
	snap := s.engine.Snapshot()
	clients := 0
	if s.commands != nil {
		clients = s.commands.ClientCount()
	}
	return c.JSON(HealthResponse{
		Status:   "ok",
		Robot:    s.robot,
		State:    snap.State.String(),
		Ticks:    snap.Ticks,
		Clients:  clients,
		Catalog:  snap.Catalog,
		Gestures: snap.Gestures,
	})
}

// handleState returns the full engine snapshot
func (s *Server) handleState(c *fiber.Ctx) error {
	return c.JSON(s.engine.Snapshot())
}

// handleSetState forces the activity state
func (s *Server) handleSetState(c *fiber.Ctx) error {
	state, err := behavior.ParseActivityState(c.Params("name"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if err := s.engine.Configure(behavior.ParamUpdate{State: &state}); err != nil {
		return s.submitError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"state": state,
	})
}

// handleGetParams returns the live parameters
func (s *Server) handleGetParams(c *fiber.Ctx) error {
	return c.JSON(s.engine.Snapshot().Params)
}

// handlePutParams applies a partial parameter update
func (s *Server) handlePutParams(c *fiber.Ctx) error {
	var u behavior.ParamUpdate
	if err := json.Unmarshal(c.Body(), &u); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if err := s.engine.Configure(u); err != nil {
		return s.submitError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"status": "queued",
	})
}

// handleReloadCatalog reloads the animation catalog from disk
func (s *Server) handleReloadCatalog(c *fiber.Ctx) error {
	if err := s.engine.Configure(behavior.ParamUpdate{ReloadAnimations: true}); err != nil {
		return s.submitError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"status": "queued",
	})
}

// EventRequest is the optional body of POST /api/events/:type
type EventRequest struct {
	Phase string `json:"phase"`
	Text  string `json:"text"`
}

// handleEvent injects a control event: chat, speech or say
func (s *Server) handleEvent(c *fiber.Ctx) error {
	var req EventRequest
	if len(c.Body()) > 0 {
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
	}

	var ev behavior.Event
	switch t := protocol.MessageType(c.Params("type")); t {
	case protocol.TypeChat:
		ev = behavior.ConversationStarted{}
	case protocol.TypeSpeech:
		ev = behavior.SpeechEvent{Phase: req.Phase}
	case protocol.TypeSay:
		ev = behavior.Announce{Text: req.Text}
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": protocol.ErrUnknownType.Error() + ": " + string(t),
		})
	}

	if err := s.engine.Submit(ev); err != nil {
		return s.submitError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"status": "queued",
	})
}

func (s *Server) submitError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	if errors.Is(err, behavior.ErrStopped) {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}
