package behavior

import (
	"math"
	"slices"
	"testing"

	"github.com/teslashibe/go-behavior/pkg/perception"
)

var browNames = []string{
	"brow_outer_UP.L", "brow_inner_UP.L", "brow_outer_DN.L",
	"brow_outer_up.R", "brow_inner_UP.R", "brow_outer_DN.R",
}

var lidNames = []string{"eye-blink.UP.R", "eye-blink.UP.L", "eye-blink.LO.R", "eye-blink.LO.L"}

func TestMirrorCoefficientGroups(t *testing.T) {
	f := perception.Face{BrowLeft: 0.5, BrowRight: 1, EyelidLeft: 0.8, EyelidRight: 0.6, MouthOpen: 0.7}

	tests := []struct {
		mode  MirroringMode
		names []string
	}{
		{MirrorIdle, nil},
		{MirrorEyebrows, browNames},
		{MirrorEyelids, lidNames},
		{MirrorEyes, slices.Concat(browNames, lidNames)},
		{MirrorMouth, []string{"lip-JAW.DN"}},
		{MirrorMouthEyebrows, slices.Concat(browNames, []string{"lip-JAW.DN"})},
		{MirrorMouthEyelids, slices.Concat(lidNames, []string{"lip-JAW.DN"})},
		{MirrorAll, slices.Concat(browNames, lidNames)},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			names, values := MirrorCoefficients(tt.mode, f)
			if !slices.Equal(names, tt.names) {
				t.Errorf("names = %v, want %v", names, tt.names)
			}
			if len(values) != len(names) {
				t.Errorf("%d values for %d names", len(values), len(names))
			}
		})
	}
}

func TestMirrorCoefficientValues(t *testing.T) {
	f := perception.Face{BrowLeft: 0.5, BrowRight: 1, EyelidLeft: 0.8, EyelidRight: 0.6, MouthOpen: 0.7}

	_, brows := MirrorCoefficients(MirrorEyebrows, f)
	wantBrows := []float64{0.5, 0.4, 0.5, 1, 0.8, 0}
	for i := range wantBrows {
		if math.Abs(brows[i]-wantBrows[i]) > 1e-9 {
			t.Errorf("brow %s = %v, want %v", browNames[i], brows[i], wantBrows[i])
		}
	}

	_, lids := MirrorCoefficients(MirrorEyelids, f)
	for i, v := range lids {
		if math.Abs(v-0.3) > 1e-9 {
			t.Errorf("lid %s = %v, want 0.3", lidNames[i], v)
		}
	}

	_, mouth := MirrorCoefficients(MirrorMouth, f)
	if len(mouth) != 1 || mouth[0] != 0.7 {
		t.Errorf("mouth = %v, want [0.7]", mouth)
	}
}

func TestMirroringActuatorModeOnlyAtIdleBoundary(t *testing.T) {
	h := newHarness(t, 1)
	h.out.reset()

	h.set(ParamUpdate{Mirroring: ptr(MirrorEyebrows)})
	h.set(ParamUpdate{Mirroring: ptr(MirrorAll)})
	h.set(ParamUpdate{Mirroring: ptr(MirrorAll)})
	h.set(ParamUpdate{Mirroring: ptr(MirrorIdle)})

	want := []uint8{AnimationModeBlendShape, AnimationModeDefault}
	if !slices.Equal(h.out.modes, want) {
		t.Errorf("actuator modes = %v, want %v", h.out.modes, want)
	}
}

func TestMirroringRunsOnlyForFaceModes(t *testing.T) {
	h := newHarness(t, 1)
	h.Step(FaceSighting{Face: perception.Face{ID: 1, Timestamp: h.clock.Now(), MouthOpen: 0.4}})
	h.set(ParamUpdate{Mirroring: ptr(MirrorMouth), LookAt: ptr(LookAtHand)})
	h.out.reset()

	h.ticks(3)
	if len(h.out.blends) != 0 {
		t.Fatalf("mirrored while looking at the hand: %v", h.out.blends)
	}

	h.set(ParamUpdate{LookAt: ptr(LookAtOneFace)})
	h.ticks(3)
	if len(h.out.blends) != 3 {
		t.Errorf("got %d blend-shape messages, want 3", len(h.out.blends))
	}
}
