package behavior

import (
	"testing"

	"github.com/teslashibe/go-behavior/pkg/perception"
)

func TestGazeUpdateByMode(t *testing.T) {
	pos := perception.Vec3{X: 1, Y: 0.2, Z: 0.1}
	tests := []struct {
		mode GazeMode
		want []motionCmd
	}{
		{GazeOnly, []motionCmd{{pos: pos, speed: 5}}},
		{HeadOnly, []motionCmd{{head: true, pos: pos, speed: 3}}},
		{GazeAndHead, []motionCmd{{pos: pos, speed: 5}, {head: true, pos: pos, speed: 3}}},
		{GazeLeadsHead, []motionCmd{{pos: pos, speed: 5}}},
		{HeadLeadsGaze, []motionCmd{{head: true, pos: pos, speed: 3}}},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			out := &recorder{}
			g := NewGazeCoordinator(out)
			g.SetMode(tt.mode, 5)
			if err := g.Update(pos); err != nil {
				t.Fatal(err)
			}
			if len(out.motion) != len(tt.want) {
				t.Fatalf("got %d commands, want %d: %+v", len(out.motion), len(tt.want), out.motion)
			}
			for i := range tt.want {
				if out.motion[i] != tt.want[i] {
					t.Errorf("command %d = %+v, want %+v", i, out.motion[i], tt.want[i])
				}
			}
		})
	}
}

func TestGazeLeadsHeadFollowsAndRearms(t *testing.T) {
	pos := perception.Vec3{X: 2}
	tests := []struct {
		mode   GazeMode
		follow motionCmd
	}{
		{GazeLeadsHead, motionCmd{head: true, pos: pos, speed: 0.5}},
		{HeadLeadsGaze, motionCmd{pos: pos, speed: 0.5}},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			out := &recorder{}
			g := NewGazeCoordinator(out)
			if !g.SetMode(tt.mode, 3) {
				t.Fatal("SetMode should report a change")
			}

			// No target yet: the delay does not run.
			for range 5 {
				g.Tick(3, 0.5)
			}
			if g.Delay() != 3 || len(out.motion) != 0 {
				t.Fatalf("delay ran without a target: delay=%d cmds=%d", g.Delay(), len(out.motion))
			}

			g.Update(pos)
			out.reset()

			for round := 0; round < 2; round++ {
				g.Tick(3, 0.5)
				g.Tick(3, 0.5)
				if len(out.motion) != 0 {
					t.Fatalf("round %d: follower moved before the delay expired", round)
				}
				g.Tick(3, 0.5)
				if len(out.motion) != 1 || out.motion[0] != tt.follow {
					t.Fatalf("round %d: got %+v, want [%+v]", round, out.motion, tt.follow)
				}
				if g.Delay() != 3 {
					t.Errorf("round %d: delay = %d, want re-armed 3", round, g.Delay())
				}
				out.reset()
			}
		})
	}
}

func TestGazeSetModeIdempotent(t *testing.T) {
	g := NewGazeCoordinator(&recorder{})
	g.SetMode(HeadLeadsGaze, 10)
	g.Update(perception.Vec3{})
	g.Tick(10, 1)
	if g.Delay() != 9 {
		t.Fatalf("delay = %d, want 9", g.Delay())
	}
	if g.SetMode(HeadLeadsGaze, 10) {
		t.Error("same mode reported a change")
	}
	if g.Delay() != 9 {
		t.Errorf("same mode re-armed the delay to %d", g.Delay())
	}

	// Entering a non-lagging mode leaves the delay alone and no follow fires.
	g.SetMode(GazeAndHead, 10)
	out := &recorder{}
	g.out = out
	for range 20 {
		g.Tick(10, 1)
	}
	if len(out.motion) != 0 {
		t.Errorf("follow command in GazeAndHead: %+v", out.motion)
	}
}
