// Package perception holds the transient entities the behavior engine reacts to:
// faces keyed by a stable candidate id, a single hand, and saliency vectors keyed
// by their own timestamp.
//
// Entities arrive fully formed from upstream vision pipelines. The store only keeps
// the latest sample per key, ages them out, and rotates a selection through them in
// a stable order.
package perception

import (
	"slices"
	"time"
)

// Vec3 is a position or direction in the robot frame (meters, x forward, y left, z up).
type Vec3 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// Add returns v offset by dx, dy, dz.
func (v Vec3) Add(dx, dy, dz float64) Vec3 {
	return Vec3{X: v.X + dx, Y: v.Y + dy, Z: v.Z + dz}
}

// FaceID identifies a face candidate across sightings.
type FaceID int64

// Face is the latest sample of a tracked face.
type Face struct {
	ID        FaceID
	Position  Vec3
	Timestamp time.Time

	// Facial action values, all in [0,1].
	BrowLeft    float64
	BrowRight   float64
	EyelidLeft  float64 // openness
	EyelidRight float64 // openness
	MouthOpen   float64
}

// Hand is the latest hand sample.
type Hand struct {
	Position  Vec3
	Timestamp time.Time
}

// Saliency is a direction of visual interest. Its timestamp doubles as its key.
type Saliency struct {
	Direction Vec3
	Timestamp time.Time
}

// PruneResult reports what a Prune call removed.
type PruneResult struct {
	Faces      int
	Saliencies int
	Hand       bool
}

// Store keeps faces, the hand and saliency vectors for the behavior engine.
//
// Store is not safe for concurrent use. It is owned by a single goroutine (the
// engine loop) and every mutation happens there.
type Store struct {
	faces     map[FaceID]Face
	faceOrder []FaceID
	face      FaceID
	hasFace   bool

	hand *Hand

	saliencies    map[int64]Saliency
	saliencyOrder []int64
	saliency      int64
	hasSaliency   bool
}

// NewStore returns an empty store with nothing selected.
func NewStore() *Store {
	return &Store{
		faces:      make(map[FaceID]Face),
		saliencies: make(map[int64]Saliency),
	}
}

// UpsertFace stores the sample, replacing any previous sample with the same id.
// A new face becomes current when no face is selected.
// It reports whether the id was previously unseen.
func (s *Store) UpsertFace(f Face) bool {
	_, exists := s.faces[f.ID]
	s.faces[f.ID] = f
	if !exists {
		s.faceOrder = append(s.faceOrder, f.ID)
	}
	if !s.hasFace {
		s.face = f.ID
		s.hasFace = true
	}
	return !exists
}

// UpsertHand overwrites the hand slot.
func (s *Store) UpsertHand(h Hand) {
	s.hand = &h
}

// UpsertSaliency stores the vector under its timestamp.
// A new vector becomes current when no vector is selected; the return value reports that case.
func (s *Store) UpsertSaliency(v Saliency) bool {
	key := v.Timestamp.UnixNano()
	if _, exists := s.saliencies[key]; !exists {
		s.saliencyOrder = append(s.saliencyOrder, key)
	}
	s.saliencies[key] = v
	if s.hasSaliency {
		return false
	}
	s.saliency = key
	s.hasSaliency = true
	return true
}

// Prune drops every entity whose timestamp precedes now-retention. A stale hand
// clears the hand slot. If a removed face or saliency vector was selected, the
// selection moves on before Prune returns.
func (s *Store) Prune(now time.Time, retention time.Duration) PruneResult {
	cutoff := now.Add(-retention)
	var res PruneResult

	lostFace := false
	s.faceOrder = slices.DeleteFunc(s.faceOrder, func(id FaceID) bool {
		if !s.faces[id].Timestamp.Before(cutoff) {
			return false
		}
		delete(s.faces, id)
		res.Faces++
		if s.hasFace && s.face == id {
			lostFace = true
		}
		return true
	})
	if lostFace {
		s.SelectNextFace()
	}

	if s.hand != nil && s.hand.Timestamp.Before(cutoff) {
		s.hand = nil
		res.Hand = true
	}

	lostSaliency := false
	s.saliencyOrder = slices.DeleteFunc(s.saliencyOrder, func(key int64) bool {
		if !s.saliencies[key].Timestamp.Before(cutoff) {
			return false
		}
		delete(s.saliencies, key)
		res.Saliencies++
		if s.hasSaliency && s.saliency == key {
			lostSaliency = true
		}
		return true
	})
	if lostSaliency {
		s.SelectNextSaliency()
	}

	return res
}

// SelectNextFace advances the face selection to the next face in insertion order,
// wrapping at the end. With no faces the selection becomes none; if the current
// face is gone (or nothing was selected) the first face is chosen.
func (s *Store) SelectNextFace() {
	id, ok := nextKey(s.faceOrder, s.face, s.hasFace)
	s.face, s.hasFace = id, ok
}

// SelectNextSaliency is SelectNextFace for saliency vectors.
func (s *Store) SelectNextSaliency() {
	key, ok := nextKey(s.saliencyOrder, s.saliency, s.hasSaliency)
	s.saliency, s.hasSaliency = key, ok
}

func nextKey[K comparable](order []K, current K, selected bool) (K, bool) {
	var zero K
	if len(order) == 0 {
		return zero, false
	}
	if !selected {
		return order[0], true
	}
	i := slices.Index(order, current)
	if i < 0 || i+1 >= len(order) {
		return order[0], true
	}
	return order[i+1], true
}

// CurrentFace returns the selected face.
func (s *Store) CurrentFace() (Face, bool) {
	if !s.hasFace {
		return Face{}, false
	}
	f, ok := s.faces[s.face]
	return f, ok
}

// CurrentSaliency returns the selected saliency vector.
func (s *Store) CurrentSaliency() (Saliency, bool) {
	if !s.hasSaliency {
		return Saliency{}, false
	}
	v, ok := s.saliencies[s.saliency]
	return v, ok
}

// Hand returns the hand sample if one is held.
func (s *Store) Hand() (Hand, bool) {
	if s.hand == nil {
		return Hand{}, false
	}
	return *s.hand, true
}

// Faces returns the held faces in selection order.
func (s *Store) Faces() []Face {
	out := make([]Face, 0, len(s.faceOrder))
	for _, id := range s.faceOrder {
		out = append(out, s.faces[id])
	}
	return out
}

// FaceCount returns the number of held faces.
func (s *Store) FaceCount() int { return len(s.faceOrder) }

// SaliencyCount returns the number of held saliency vectors.
func (s *Store) SaliencyCount() int { return len(s.saliencyOrder) }

// Clear drops everything and resets both selections.
func (s *Store) Clear() {
	clear(s.faces)
	clear(s.saliencies)
	s.faceOrder = s.faceOrder[:0]
	s.saliencyOrder = s.saliencyOrder[:0]
	s.hasFace, s.hasSaliency = false, false
	s.hand = nil
}
