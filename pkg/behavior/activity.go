package behavior

import (
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/statekit"
)

// Activity events. The SET_* events are direct overrides and are accepted in
// every state; the others are guarded by the transition table.
const (
	evHandSeen      statekit.EventType = "HAND_SEEN"
	evSaliencySeen  statekit.EventType = "SALIENCY_SEEN"
	evConversation  statekit.EventType = "CONVERSATION_STARTED"
	evSpeechStarted statekit.EventType = "SPEECH_STARTED"
	evSpeechStopped statekit.EventType = "SPEECH_STOPPED"
	evHandLost      statekit.EventType = "HAND_LOST"
	evTalkTimeout   statekit.EventType = "TALK_TIMEOUT"
	evSetSleeping   statekit.EventType = "SET_SLEEPING"
	evSetIdle       statekit.EventType = "SET_IDLE"
	evSetInterested statekit.EventType = "SET_INTERESTED"
	evSetFocused    statekit.EventType = "SET_FOCUSED"
	evSetSpeaking   statekit.EventType = "SET_SPEAKING"
	evSetListening  statekit.EventType = "SET_LISTENING"
	evSetPresenting statekit.EventType = "SET_PRESENTING"
)

// maxHistoryLength bounds the recorded transition history.
const maxHistoryLength = 32

func stateID(s ActivityState) statekit.StateID { return statekit.StateID(s.String()) }

func setEvent(s ActivityState) statekit.EventType {
	return statekit.EventType("SET_" + strings.ToUpper(s.String()))
}

// transitions is the guarded part of the activity machine: for each event, the
// source states that accept it and the resulting state.
var transitions = map[statekit.EventType]map[ActivityState]ActivityState{
	evHandSeen: {
		StateIdle:       StateFocused,
		StateInterested: StateFocused,
	},
	evSaliencySeen: {
		StateIdle: StateInterested,
	},
	evConversation: {
		StateIdle:       StateListening,
		StateInterested: StateListening,
		StateFocused:    StateListening,
	},
	evSpeechStarted: {
		StateIdle:       StateSpeaking,
		StateInterested: StateSpeaking,
		StateFocused:    StateSpeaking,
		StateListening:  StateSpeaking,
	},
	evSpeechStopped: {
		StateSpeaking: StateIdle,
	},
	evHandLost: {
		StateFocused: StateIdle,
	},
	evTalkTimeout: {
		StateSpeaking:  StateIdle,
		StateListening: StateIdle,
	},
}

// Transition is one recorded state change.
type Transition struct {
	From   ActivityState `json:"from"`
	To     ActivityState `json:"to"`
	Reason string        `json:"reason"`
	At     time.Time     `json:"at"`
}

type activityContext struct {
	history []Transition
}

type transitionPayload struct {
	Transition
}

func recordTransition(ctx **activityContext, ev statekit.Event) {
	if ctx == nil || *ctx == nil {
		return
	}
	p, ok := ev.Payload.(transitionPayload)
	if !ok {
		return
	}
	c := *ctx
	c.history = append(c.history, p.Transition)
	if len(c.history) > maxHistoryLength {
		c.history = c.history[len(c.history)-maxHistoryLength:]
	}
}

// guardedEvents fixes the order in which guarded events are declared on each state.
var guardedEvents = []statekit.EventType{
	evHandSeen, evSaliencySeen, evConversation, evSpeechStarted,
	evSpeechStopped, evHandLost, evTalkTimeout,
}

type edge struct {
	ev statekit.EventType
	to ActivityState
}

// edgesFrom lists the events s accepts: its guarded events from transitions,
// then the overrides to every other state.
func edgesFrom(s ActivityState) []edge {
	var edges []edge
	for _, ev := range guardedEvents {
		if to, ok := transitions[ev][s]; ok {
			edges = append(edges, edge{ev, to})
		}
	}
	for _, to := range AllActivityStates {
		if to != s {
			edges = append(edges, edge{setEvent(to), to})
		}
	}
	return edges
}

// newActivityMachine builds the activity statechart from transitions and the
// SET_* overrides.
func newActivityMachine() (*statekit.MachineConfig[*activityContext], error) {
	b := statekit.NewMachine[*activityContext]("activity").
		WithInitial(stateID(StateSleeping)).
		WithContext(&activityContext{}).
		WithAction("record", recordTransition)

	for _, s := range AllActivityStates {
		edges := edgesFrom(s)
		t := b.State(stateID(s)).
			On(edges[0].ev).Target(stateID(edges[0].to)).Do("record")
		for _, e := range edges[1:] {
			t = t.On(e.ev).Target(stateID(e.to)).Do("record")
		}
		b = t.Done()
	}
	return b.Build()
}

// Activity tracks the top-level state on a statekit interpreter.
type Activity struct {
	interp *statekit.Interpreter[*activityContext]
	ctx    *activityContext
	byID   map[statekit.StateID]ActivityState
}

// NewActivity builds and starts the activity machine in Sleeping.
func NewActivity() (*Activity, error) {
	machine, err := newActivityMachine()
	if err != nil {
		return nil, fmt.Errorf("build activity machine: %w", err)
	}
	ctx := &activityContext{}
	interp := statekit.NewInterpreter(machine)
	interp.UpdateContext(func(c **activityContext) {
		*c = ctx
	})
	interp.Start()

	a := &Activity{interp: interp, ctx: ctx, byID: make(map[statekit.StateID]ActivityState)}
	for _, s := range AllActivityStates {
		a.byID[stateID(s)] = s
	}
	return a, nil
}

// State returns the current state.
func (a *Activity) State() ActivityState {
	return a.byID[a.interp.State().Value]
}

// Is reports whether the machine is in s.
func (a *Activity) Is(s ActivityState) bool {
	return a.interp.Matches(stateID(s))
}

// Fire sends a guarded event. Events the current state does not accept are
// ignored. It returns the transition and whether one happened.
func (a *Activity) Fire(ev statekit.EventType, reason string, at time.Time) (Transition, bool) {
	from := a.State()
	to, ok := transitions[ev][from]
	if !ok {
		return Transition{}, false
	}
	return a.send(ev, from, to, reason, at), true
}

// Set moves directly to target. Setting the current state is a no-op.
func (a *Activity) Set(target ActivityState, reason string, at time.Time) (Transition, bool) {
	from := a.State()
	if from == target {
		return Transition{}, false
	}
	return a.send(setEvent(target), from, target, reason, at), true
}

func (a *Activity) send(ev statekit.EventType, from, to ActivityState, reason string, at time.Time) Transition {
	t := Transition{From: from, To: to, Reason: reason, At: at}
	a.interp.Send(statekit.Event{Type: ev, Payload: transitionPayload{t}})
	return t
}

// History returns the most recent transitions, oldest first.
func (a *Activity) History() []Transition {
	return append([]Transition(nil), a.ctx.history...)
}

// Accepts reports whether the current state reacts to ev.
func (a *Activity) Accepts(ev statekit.EventType) bool {
	_, ok := transitions[ev][a.State()]
	return ok
}
