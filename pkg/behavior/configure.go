package behavior

import "github.com/teslashibe/go-behavior/pkg/catalog"

// configure applies a live parameter update. Numeric parameters go first, then
// the mode overrides through their idempotent setters, and the activity state
// last.
func (e *Engine) configure(u ParamUpdate) {
	if u.ReloadAnimations {
		e.reloadCatalog()
	}
	if u.Enabled != nil {
		e.params.Enabled = *u.Enabled
	}

	if u.TickRate != nil {
		switch rate := *u.TickRate; {
		case !validTickRate(rate):
			e.logger.Warn("ignoring invalid tick rate", "rate_hz", rate)
		case rate != e.params.TickRate:
			e.params.TickRate = rate
			e.rescheduled = true
			e.armAll()
			e.gaze.Reset(e.params.gazeDelayTicks())
		}
	}

	if u.Retention != nil {
		if !validRetention(*u.Retention) {
			e.logger.Warn("ignoring invalid retention", "seconds", *u.Retention)
		} else {
			e.params.Retention = *u.Retention
		}
	}

	for _, ru := range u.rangeUpdates() {
		if ru.r == nil {
			continue
		}
		next := ru.r.Clamped()
		cur := e.params.rangeFor(ru.id)
		if next == *cur {
			continue
		}
		*cur = next
		e.arm(ru.id)
	}

	if u.HandStateDecay != nil {
		e.params.HandStateDecay = *u.HandStateDecay
	}
	if u.FaceStateDecay != nil {
		e.params.FaceStateDecay = *u.FaceStateDecay
	}
	if u.GazeDelay != nil {
		e.params.GazeDelay = *u.GazeDelay
	}
	if u.GazeSpeed != nil {
		e.params.GazeSpeed = *u.GazeSpeed
	}
	if u.AnnounceStates != nil {
		e.params.AnnounceStates = *u.AnnounceStates
	}

	changed := false
	if u.EyeContact != nil {
		changed = e.setEyeContact(*u.EyeContact) || changed
	}
	if u.LookAt != nil {
		changed = e.setLookAt(*u.LookAt) || changed
	}
	if u.Mirroring != nil {
		changed = e.setMirroring(*u.Mirroring) || changed
	}
	if u.Gaze != nil {
		changed = e.setGaze(*u.Gaze) || changed
	}
	if u.State != nil && e.setState(*u.State, "override") {
		return
	}
	if changed {
		e.display()
	}
}

// reloadCatalog loads the catalog file, or the built-in catalog when no file is
// set or the file is unusable.
func (e *Engine) reloadCatalog() {
	c, err := catalog.LoadOrDefault(e.catalogPath, e.logger)
	e.catalog = c
	if err != nil {
		return
	}
	e.logger.Info("animation catalog loaded", "source", c.Source(), "lists", c.Count())
}
