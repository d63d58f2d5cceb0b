package behavior

import (
	"time"

	"github.com/teslashibe/go-behavior/pkg/perception"
)

// arm re-draws counter id from its configured range.
func (e *Engine) arm(id counterID) {
	e.counters[id].Arm(e.rng, *e.params.rangeFor(id), e.params.TickRate)
}

func (e *Engine) armAll() {
	for id := range numCounters {
		e.arm(id)
	}
}

// countdown ticks counter id and re-arms it when it fires.
func (e *Engine) countdown(id counterID) bool {
	if !e.counters[id].Tick() {
		return false
	}
	e.arm(id)
	return true
}

func (e *Engine) updateGaze(pos perception.Vec3) {
	e.report("gaze", e.gaze.Update(pos))
}

// evaluateLookAt steers gaze for the active look-at mode. The face modes also
// run eye contact and mirroring on the selected face.
func (e *Engine) evaluateLookAt() {
	if e.lookAt.runsEyeContact() {
		e.lookAtFaces()
		return
	}

	switch e.lookAt {
	case LookAtIdle, LookAtAvoid, LookAtSpeaker:
	case LookAtSaliency:
		if e.countdown(counterSaliency) {
			e.store.SelectNextSaliency()
		}
		if v, ok := e.store.CurrentSaliency(); ok {
			e.updateGaze(v.Direction)
		}
	case LookAtHand:
		if h, ok := e.store.Hand(); ok {
			e.updateGaze(h.Position)
		}
	case LookAtAudience:
		// rotation runs but no audience regions are tracked yet
		e.countdown(counterAudience)
	}
}

// lookAtFaces runs eye contact and mirroring on the selected face, rotating
// through the faces in LookAtAllFaces.
func (e *Engine) lookAtFaces() {
	if e.lookAt == LookAtAllFaces && e.countdown(counterFaces) {
		e.store.SelectNextFace()
	}
	f, ok := e.store.CurrentFace()
	if !ok {
		return
	}
	e.updateGaze(e.eyeContactTarget(f))
	e.mirror(f)
}

func (e *Engine) prune(now time.Time) {
	res := e.store.Prune(now, e.params.retention())
	if res.Faces > 0 || res.Saliencies > 0 || res.Hand {
		e.logger.Debug("pruned stale perception",
			"faces", res.Faces, "saliencies", res.Saliencies, "hand", res.Hand)
	}
}

// checkDecay drops back to Idle when the hand or the conversation went quiet.
func (e *Engine) checkDecay(now time.Time) {
	if e.activity.Is(StateFocused) && e.lastHand.Before(now.Add(-seconds(e.params.HandStateDecay))) {
		e.fire(evHandLost, "hand decay")
	}
	if (e.activity.Is(StateSpeaking) || e.activity.Is(StateListening)) &&
		e.lastTalk.Before(now.Add(-seconds(e.params.FaceStateDecay))) {
		e.fire(evTalkTimeout, "talk decay")
	}
}

// rotateSpeakingGaze alternates between averting and scanning the faces while
// the robot speaks.
func (e *Engine) rotateSpeakingGaze() {
	if !e.activity.Is(StateSpeaking) {
		return
	}
	switch e.lookAt {
	case LookAtAvoid:
		if e.countdown(counterAllFacesStart) && e.setLookAt(LookAtAllFaces) {
			e.display()
		}
	case LookAtAllFaces:
		if e.countdown(counterAllFacesDuration) && e.setLookAt(LookAtAvoid) {
			e.display()
		}
	}
}

// resetPipelines puts every sensor channel back to the resting rate.
func (e *Engine) resetPipelines() {
	for _, ch := range Channels {
		e.report("sampling_rate", e.out.SamplingRate(ch, restingRate))
	}
}
