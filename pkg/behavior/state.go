package behavior

import (
	"github.com/felixgeelhaar/statekit"
)

// fire sends a guarded activity event and enters the resulting state. It
// reports whether the state changed.
func (e *Engine) fire(ev statekit.EventType, reason string) bool {
	t, ok := e.activity.Fire(ev, reason, e.now())
	if !ok {
		return false
	}
	e.enter(t)
	return true
}

// setState moves directly to s. It is a no-op when s is already active.
func (e *Engine) setState(s ActivityState, reason string) bool {
	t, ok := e.activity.Set(s, reason, e.now())
	if !ok {
		return false
	}
	e.enter(t)
	return true
}

// enter applies the profile of the state just entered: animation lists,
// sensor sampling rates, the four subordinate modes and the talk stamp.
func (e *Engine) enter(t Transition) {
	e.logger.Info("state transition", "from", t.From, "to", t.To, "reason", t.Reason)
	e.metrics.transition(t.From, t.To)

	p := profiles[t.To]
	e.gestures = GestureList(t.To)
	e.expressions = ExpressionList(t.To)

	rates := p.samplingRates()
	for _, ch := range Channels {
		e.report("sampling_rate", e.out.SamplingRate(ch, rates[ch]))
	}

	e.setEyeContact(p.eyeContact)
	e.setLookAt(p.lookAt)
	e.setMirroring(p.mirroring)
	e.setGaze(p.gaze)

	if p.stampTalk {
		e.lastTalk = e.now()
	}
	if e.params.AnnounceStates {
		e.report("say", e.out.Say(t.To.String()))
	}
	e.display()
}

func (e *Engine) setEyeContact(m EyeContactMode) bool {
	if m == e.eyeContact {
		return false
	}
	e.eyeContact = m
	if m.alternates() {
		e.arm(counterEyes)
	}
	return true
}

func (e *Engine) setLookAt(m LookAtMode) bool {
	if m == e.lookAt {
		return false
	}
	e.lookAt = m
	switch m {
	case LookAtSaliency:
		e.arm(counterSaliency)
	case LookAtOneFace:
		e.arm(counterEyes)
	case LookAtAllFaces:
		e.arm(counterFaces)
		e.arm(counterEyes)
	case LookAtAudience:
		e.arm(counterAudience)
	}
	return true
}

// setMirroring switches the actuator between blend-shape override and default
// animation only when the change crosses the Idle boundary.
func (e *Engine) setMirroring(m MirroringMode) bool {
	if m == e.mirroring {
		return false
	}
	prev := e.mirroring
	e.mirroring = m
	switch {
	case prev == MirrorIdle:
		e.report("animation_mode", e.out.AnimationMode(AnimationModeBlendShape))
	case m == MirrorIdle:
		e.report("animation_mode", e.out.AnimationMode(AnimationModeDefault))
	}
	return true
}

func (e *Engine) setGaze(m GazeMode) bool {
	return e.gaze.SetMode(m, e.params.gazeDelayTicks())
}

// stateDisplay summarizes the active modes.
func (e *Engine) stateDisplay() StateDisplay {
	return StateDisplay{
		State:      e.activity.State(),
		LookAt:     e.lookAt,
		EyeContact: e.eyeContact,
		Mirroring:  e.mirroring,
		Gaze:       e.gaze.Mode(),
	}
}

func (e *Engine) display() {
	e.report("state_display", e.out.StateDisplay(e.stateDisplay()))
}
