package behavior

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/teslashibe/go-behavior/pkg/catalog"
	"github.com/teslashibe/go-behavior/pkg/perception"
)

var t0 = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

type motionCmd struct {
	head  bool
	pos   perception.Vec3
	speed float64
}

type rateCmd struct {
	channel string
	rate    SamplingRate
}

// recorder is an Output that keeps every command.
type recorder struct {
	mu       sync.Mutex
	motion   []motionCmd
	gestures []string
	emotions []string
	modes    []uint8
	blends   [][]string
	rates    []rateCmd
	said     []string
	displays []StateDisplay
	hands    []string
}

func (r *recorder) GazeTarget(pos perception.Vec3, speed float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.motion = append(r.motion, motionCmd{pos: pos, speed: speed})
	return nil
}

func (r *recorder) HeadTarget(pos perception.Vec3, speed float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.motion = append(r.motion, motionCmd{head: true, pos: pos, speed: speed})
	return nil
}

func (r *recorder) Emotion(name string, magnitude float64, duration time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.emotions = append(r.emotions, fmt.Sprintf("%s %.4f %s", name, magnitude, duration))
	return nil
}

func (r *recorder) Gesture(name string, repeat bool, speed, magnitude float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gestures = append(r.gestures, fmt.Sprintf("%s %v %.4f %.4f", name, repeat, speed, magnitude))
	return nil
}

func (r *recorder) AnimationMode(mode uint8) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modes = append(r.modes, mode)
	return nil
}

func (r *recorder) BlendShapes(names []string, values []float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.blends = append(r.blends, names)
	return nil
}

func (r *recorder) SamplingRate(channel string, rate SamplingRate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rates = append(r.rates, rateCmd{channel, rate})
	return nil
}

func (r *recorder) Say(text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.said = append(r.said, text)
	return nil
}

func (r *recorder) StateDisplay(d StateDisplay) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.displays = append(r.displays, d)
	return nil
}

func (r *recorder) HandEvent(event string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hands = append(r.hands, event)
	return nil
}

// total counts every recorded command.
func (r *recorder) total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.motion) + len(r.gestures) + len(r.emotions) + len(r.modes) +
		len(r.blends) + len(r.rates) + len(r.said) + len(r.displays) + len(r.hands)
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.motion, r.gestures, r.emotions, r.modes = nil, nil, nil, nil
	r.blends, r.rates, r.said, r.displays, r.hands = nil, nil, nil, nil, nil
}

func (r *recorder) lastMotion(t *testing.T) motionCmd {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.motion) == 0 {
		t.Fatal("no motion command recorded")
	}
	return r.motion[len(r.motion)-1]
}

var _ Output = (*recorder)(nil)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type harness struct {
	*Engine
	out   *recorder
	clock *fakeClock
}

// newHarness builds a seeded engine on a fake clock with the built-in catalog.
func newHarness(t *testing.T, seed int64, opts ...Option) *harness {
	t.Helper()
	h := &harness{out: &recorder{}, clock: &fakeClock{now: t0}}
	base := []Option{
		WithLogger(quietLogger()),
		WithOutput(h.out),
		WithSeed(seed),
		WithClock(h.clock.Now),
		WithCatalog(catalog.Default()),
	}
	e, err := New(append(base, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	h.Engine = e
	return h
}

func (h *harness) ticks(n int) {
	for range n {
		h.Tick()
	}
}

func (h *harness) set(u ParamUpdate) { h.Step(u) }

func ptr[T any](v T) *T { return &v }
