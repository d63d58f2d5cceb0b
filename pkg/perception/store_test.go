package perception

import (
	"testing"
	"time"
)

var t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func face(id FaceID, at time.Time) Face {
	return Face{ID: id, Position: Vec3{X: 1, Y: float64(id), Z: 0}, Timestamp: at}
}

func TestUpsertFaceSelectsFirst(t *testing.T) {
	s := NewStore()

	if _, ok := s.CurrentFace(); ok {
		t.Fatal("empty store should have no current face")
	}

	if !s.UpsertFace(face(7, t0)) {
		t.Error("first sighting should report a new face")
	}
	s.UpsertFace(face(3, t0))

	cur, ok := s.CurrentFace()
	if !ok || cur.ID != 7 {
		t.Errorf("current face = %v (%v), want 7", cur.ID, ok)
	}

	// Refresh keeps the order and the selection.
	if s.UpsertFace(face(7, t0.Add(time.Second))) {
		t.Error("repeat sighting should not report a new face")
	}
	if got := s.Faces(); len(got) != 2 || got[0].ID != 7 || got[1].ID != 3 {
		t.Errorf("Faces() order = %v, want [7 3]", got)
	}
	cur, _ = s.CurrentFace()
	if !cur.Timestamp.Equal(t0.Add(time.Second)) {
		t.Errorf("face not overwritten in place, ts = %v", cur.Timestamp)
	}
}

func TestSelectNextFaceRotates(t *testing.T) {
	s := NewStore()
	for _, id := range []FaceID{10, 20, 30} {
		s.UpsertFace(face(id, t0))
	}

	want := []FaceID{20, 30, 10, 20}
	for i, w := range want {
		s.SelectNextFace()
		cur, ok := s.CurrentFace()
		if !ok || cur.ID != w {
			t.Errorf("step %d: current = %v, want %v", i, cur.ID, w)
		}
	}
}

func TestSelectNextOnEmptyStore(t *testing.T) {
	s := NewStore()
	s.SelectNextFace()
	s.SelectNextSaliency()

	if _, ok := s.CurrentFace(); ok {
		t.Error("expected no face selection")
	}
	if _, ok := s.CurrentSaliency(); ok {
		t.Error("expected no saliency selection")
	}
}

func TestPruneReselectsFace(t *testing.T) {
	s := NewStore()
	s.UpsertFace(face(1, t0)) // stale, selected
	s.UpsertFace(face(2, t0)) // stale
	s.UpsertFace(face(3, t0.Add(2*time.Second)))
	s.UpsertFace(face(4, t0.Add(2500*time.Millisecond)))

	res := s.Prune(t0.Add(3*time.Second), time.Second+500*time.Millisecond)

	if res.Faces != 2 {
		t.Errorf("pruned %d faces, want 2", res.Faces)
	}
	cur, ok := s.CurrentFace()
	if !ok || cur.ID != 3 {
		t.Errorf("current after prune = %v (%v), want 3", cur.ID, ok)
	}
	if s.FaceCount() != 2 {
		t.Errorf("FaceCount = %d, want 2", s.FaceCount())
	}
}

func TestPruneEverythingLeavesNone(t *testing.T) {
	s := NewStore()
	s.UpsertFace(face(1, t0))
	s.UpsertHand(Hand{Position: Vec3{X: 0.5}, Timestamp: t0})
	s.UpsertSaliency(Saliency{Direction: Vec3{X: 1}, Timestamp: t0})

	res := s.Prune(t0.Add(10*time.Second), time.Second)

	if !res.Hand || res.Faces != 1 || res.Saliencies != 1 {
		t.Errorf("unexpected prune result %+v", res)
	}
	if _, ok := s.CurrentFace(); ok {
		t.Error("stale face still selected")
	}
	if _, ok := s.CurrentSaliency(); ok {
		t.Error("stale saliency still selected")
	}
	if _, ok := s.Hand(); ok {
		t.Error("stale hand not cleared")
	}
}

func TestPruneKeepsFreshEntries(t *testing.T) {
	s := NewStore()
	now := t0.Add(5 * time.Second)
	s.UpsertFace(face(1, now.Add(-time.Second))) // exactly at the cutoff
	s.UpsertHand(Hand{Timestamp: now})

	res := s.Prune(now, time.Second)

	if res.Faces != 0 || res.Hand {
		t.Errorf("fresh entries pruned: %+v", res)
	}
}

func TestSaliencyRotationAndPrune(t *testing.T) {
	s := NewStore()
	a := Saliency{Direction: Vec3{X: 1}, Timestamp: t0}
	b := Saliency{Direction: Vec3{Y: 1}, Timestamp: t0.Add(time.Second)}
	c := Saliency{Direction: Vec3{Z: 1}, Timestamp: t0.Add(2 * time.Second)}

	if !s.UpsertSaliency(a) {
		t.Error("first vector should become current")
	}
	if s.UpsertSaliency(b) {
		t.Error("second vector should not replace the selection")
	}
	s.UpsertSaliency(c)

	s.SelectNextSaliency()
	cur, _ := s.CurrentSaliency()
	if cur.Direction != b.Direction {
		t.Errorf("current = %v, want %v", cur.Direction, b.Direction)
	}

	// b is now stale; selection jumps to the first live vector.
	s.Prune(t0.Add(2500*time.Millisecond), time.Second)
	cur, ok := s.CurrentSaliency()
	if !ok || cur.Direction != c.Direction {
		t.Errorf("current after prune = %v (%v), want %v", cur.Direction, ok, c.Direction)
	}
	if s.SaliencyCount() != 1 {
		t.Errorf("SaliencyCount = %d, want 1", s.SaliencyCount())
	}
}

func TestSelectionNeverStale(t *testing.T) {
	s := NewStore()
	for i := 0; i < 20; i++ {
		s.UpsertFace(face(FaceID(i+1), t0.Add(time.Duration(i)*100*time.Millisecond)))
	}

	for step := 0; step < 25; step++ {
		now := t0.Add(time.Duration(step) * 100 * time.Millisecond)
		s.SelectNextFace()
		s.Prune(now, 500*time.Millisecond)

		cur, ok := s.CurrentFace()
		if !ok {
			if s.FaceCount() != 0 {
				t.Fatalf("step %d: no selection with %d faces held", step, s.FaceCount())
			}
			continue
		}
		if cur.Timestamp.Before(now.Add(-500 * time.Millisecond)) {
			t.Fatalf("step %d: selected face %d is stale", step, cur.ID)
		}
	}
}

func TestClear(t *testing.T) {
	s := NewStore()
	s.UpsertFace(face(1, t0))
	s.UpsertSaliency(Saliency{Timestamp: t0})
	s.UpsertHand(Hand{Timestamp: t0})

	s.Clear()

	if s.FaceCount() != 0 || s.SaliencyCount() != 0 {
		t.Error("Clear left entities behind")
	}
	if _, ok := s.Hand(); ok {
		t.Error("Clear left the hand")
	}
	if !s.UpsertFace(face(2, t0)) {
		t.Error("store unusable after Clear")
	}
}
