package behavior

import (
	"time"

	"github.com/teslashibe/go-behavior/pkg/perception"
)

// Snapshot is a read-only view of the engine taken after the last event or tick.
type Snapshot struct {
	StateDisplay

	Ticks       uint64         `json:"ticks"`
	Counters    map[string]int `json:"counters"`
	Gestures    string         `json:"gestures"`
	Expressions string         `json:"expressions"`
	Catalog     string         `json:"catalog"`

	Faces           int                `json:"faces"`
	Saliencies      int                `json:"saliencies"`
	CurrentFace     *perception.FaceID `json:"current_face,omitempty"`
	CurrentSaliency *perception.Vec3   `json:"current_saliency,omitempty"`
	Hand            *perception.Vec3   `json:"hand,omitempty"`
	GazeTarget      *perception.Vec3   `json:"gaze_target,omitempty"`

	LastHand time.Time `json:"last_hand"`
	LastTalk time.Time `json:"last_talk"`

	Params  Params       `json:"params"`
	History []Transition `json:"history"`
}

// Snapshot returns the latest published view. It is safe to call from any goroutine.
func (e *Engine) Snapshot() Snapshot {
	if s := e.snapshot.Load(); s != nil {
		return *s
	}
	return Snapshot{}
}

// State returns the current activity state.
func (e *Engine) State() ActivityState {
	return e.Snapshot().State
}

// Params returns the current parameters.
func (e *Engine) Params() Params {
	return e.Snapshot().Params
}

func (e *Engine) publish() {
	s := &Snapshot{
		StateDisplay: e.stateDisplay(),
		Ticks:        e.ticks,
		Counters:     make(map[string]int, numCounters),
		Gestures:     e.gestures,
		Expressions:  e.expressions,
		Faces:        e.store.FaceCount(),
		Saliencies:   e.store.SaliencyCount(),
		LastHand:     e.lastHand,
		LastTalk:     e.lastTalk,
		Params:       e.params,
		History:      e.activity.History(),
	}
	for id, c := range e.counters {
		s.Counters[counterID(id).String()] = c.Remaining
	}
	if e.catalog != nil {
		s.Catalog = e.catalog.Source()
	}
	if f, ok := e.store.CurrentFace(); ok {
		s.CurrentFace = &f.ID
	}
	if v, ok := e.store.CurrentSaliency(); ok {
		s.CurrentSaliency = &v.Direction
	}
	if h, ok := e.store.Hand(); ok {
		s.Hand = &h.Position
	}
	if pos, ok := e.gaze.Target(); ok {
		s.GazeTarget = &pos
	}
	e.snapshot.Store(s)
}
