// Package behavior arbitrates the moment-to-moment physical behavior of a social
// robot: where it looks, whether it makes eye contact, whether it mirrors a face,
// how head and gaze coordinate, and which idle animations fire.
//
// A top-level activity state machine configures four subordinate machines
// (look-at, eye contact, mirroring, gaze). A fixed-rate tick drives them, fires
// randomized gestures and expressions, ages out perceived entities and applies
// decay transitions.
//
// All state is owned by one goroutine. Perception callbacks and live
// reconfiguration are queued as Events and applied between ticks, so a tick and
// an event never interleave.
package behavior

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/teslashibe/go-behavior/pkg/catalog"
	"github.com/teslashibe/go-behavior/pkg/perception"
)

// ErrStopped is returned by Submit once the engine loop has exited.
var ErrStopped = errors.New("behavior engine stopped")

// heartbeatPeriod is how often the loop logs a debug heartbeat.
const heartbeatPeriod = 30 * time.Second

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithOutput sets the command sink.
func WithOutput(out Output) Option {
	return func(e *Engine) { e.out = out }
}

// WithRand sets the random source used for countdowns and animation draws.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

// WithSeed seeds a private random source.
func WithSeed(seed int64) Option {
	return func(e *Engine) { e.rng = rand.New(rand.NewSource(seed)) }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithParams sets the initial parameters.
func WithParams(p Params) Option {
	return func(e *Engine) { e.params = p }
}

// WithCatalog sets the animation catalog.
func WithCatalog(c *catalog.Catalog) Option {
	return func(e *Engine) { e.catalog = c }
}

// WithCatalogPath sets the file reloaded on reload requests.
func WithCatalogPath(path string) Option {
	return func(e *Engine) { e.catalogPath = path }
}

// WithMetrics sets the metric instruments.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithEventBuffer sets the event queue capacity.
func WithEventBuffer(n int) Option {
	return func(e *Engine) { e.bufferSize = n }
}

// Engine is the behavior arbitration engine.
type Engine struct {
	logger  *slog.Logger
	out     Output
	rng     *rand.Rand
	now     func() time.Time
	metrics *Metrics

	params   Params
	store    *perception.Store
	activity *Activity
	gaze     *GazeCoordinator

	lookAt     LookAtMode
	eyeContact EyeContactMode
	mirroring  MirroringMode
	eye        int
	counters   [numCounters]Countdown

	lastHand time.Time
	lastTalk time.Time

	catalogPath string
	catalog     *catalog.Catalog
	gestures    string
	expressions string

	bufferSize  int
	events      chan Event
	stop        chan struct{}
	done        chan struct{}
	stopOnce    sync.Once
	running     atomic.Bool
	rescheduled bool
	ticks       uint64

	snapshot atomic.Pointer[Snapshot]
}

// New builds an engine in the Sleeping state with every countdown armed.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		out:         NopOutput{},
		now:         time.Now,
		params:      DefaultParams(),
		store:       perception.NewStore(),
		gestures:    GestureList(StateIdle),
		expressions: ExpressionList(StateIdle),
		bufferSize:  1024,
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	e.logger = e.logger.With("component", "behavior")
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if err := e.params.Validate(); err != nil {
		return nil, fmt.Errorf("behavior: %w", err)
	}

	activity, err := NewActivity()
	if err != nil {
		return nil, fmt.Errorf("behavior: %w", err)
	}
	e.activity = activity
	e.gaze = NewGazeCoordinator(e.out)
	e.events = make(chan Event, e.bufferSize)

	if e.catalog == nil {
		e.reloadCatalog()
	}
	e.armAll()
	e.publish()
	return e, nil
}

// Submit queues an event for the engine loop. It blocks while the queue is full
// and fails with ErrStopped once the loop has exited.
func (e *Engine) Submit(ev Event) error {
	select {
	case <-e.done:
		return ErrStopped
	default:
	}
	select {
	case e.events <- ev:
		return nil
	case <-e.done:
		return ErrStopped
	}
}

// Configure queues a live parameter update.
func (e *Engine) Configure(u ParamUpdate) error {
	return e.Submit(u)
}

// Run resets the perception pipelines and then runs the tick loop until ctx is
// done or Stop is called. Queued events are drained before each tick.
func (e *Engine) Run(ctx context.Context) error {
	if !e.running.CompareAndSwap(false, true) {
		return errors.New("behavior: engine already running")
	}
	defer close(e.done)

	e.resetPipelines()

	ticker := time.NewTicker(e.params.Interval())
	defer ticker.Stop()

	e.logger.Info("engine started",
		"rate_hz", e.params.TickRate,
		"state", e.activity.State(),
		"catalog", e.catalog.Source())

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("engine stopped", "ticks", e.ticks, "reason", ctx.Err())
			return ctx.Err()
		case <-e.stop:
			e.logger.Info("engine stopped", "ticks", e.ticks)
			return nil
		case ev := <-e.events:
			e.Step(ev)
		case <-ticker.C:
			e.drain()
			e.Tick()
		}
		if e.rescheduled {
			e.rescheduled = false
			ticker.Reset(e.params.Interval())
			e.logger.Info("tick rate changed", "rate_hz", e.params.TickRate)
		}
	}
}

// Stop ends Run.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() { close(e.stop) })
}

// Done is closed when Run returns.
func (e *Engine) Done() <-chan struct{} {
	return e.done
}

func (e *Engine) drain() {
	for {
		select {
		case ev := <-e.events:
			e.Step(ev)
		default:
			return
		}
	}
}

// Step applies one event synchronously. It must not be called while Run is
// active; it exists for driving the engine directly (tests, replays).
func (e *Engine) Step(ev Event) {
	e.metrics.event(ev.kind())
	ev.apply(e)
	e.publish()
}

// Tick runs one scheduler cycle synchronously. Like Step, it is not for use
// while Run is active.
func (e *Engine) Tick() {
	start := time.Now()
	now := e.now()
	e.ticks++

	e.evaluateLookAt()
	e.fireGesture()
	e.fireExpression()
	e.prune(now)
	e.checkDecay(now)
	e.report("gaze_follow", e.gaze.Tick(e.params.gazeDelayTicks(), e.params.GazeSpeed))
	e.rotateSpeakingGaze()

	e.publish()
	e.metrics.tick(time.Since(start))

	if every := uint64(max(1, int(heartbeatPeriod.Seconds()*e.params.TickRate))); e.ticks%every == 0 {
		e.logger.Debug("heartbeat",
			"ticks", e.ticks,
			"state", e.activity.State(),
			"faces", e.store.FaceCount(),
			"saliencies", e.store.SaliencyCount())
	}
}

// ---- perception and event handlers ----

func (e *Engine) onFace(f perception.Face) {
	e.store.UpsertFace(f)
	e.lastTalk = f.Timestamp
}

func (e *Engine) onHand(h perception.Hand) {
	e.store.UpsertHand(h)
	e.lastHand = h.Timestamp
	if e.fire(evHandSeen, "hand seen") {
		e.report("hand_event", e.out.HandEvent("seen"))
	}
}

func (e *Engine) onSaliency(v perception.Saliency) {
	if e.store.UpsertSaliency(v) {
		// look at the new vector on the next tick
		e.counters[counterSaliency].Remaining = 1
	}
	e.fire(evSaliencySeen, "saliency seen")
}

func (e *Engine) onConversation() {
	e.lastTalk = e.now()
	e.fire(evConversation, "conversation started")
}

func (e *Engine) onSpeech(phase string) {
	e.lastTalk = e.now()
	switch phase {
	case SpeechStart:
		e.fire(evSpeechStarted, "speech started")
	case SpeechStop:
		e.fire(evSpeechStopped, "speech stopped")
	}
}

// ---- submission helpers ----

// Face queues a face sighting.
func (e *Engine) Face(f perception.Face) error { return e.Submit(FaceSighting{Face: f}) }

// Hand queues a hand sighting.
func (e *Engine) Hand(h perception.Hand) error { return e.Submit(HandSighting{Hand: h}) }

// Saliency queues a saliency vector.
func (e *Engine) Saliency(v perception.Saliency) error {
	return e.Submit(SaliencySighting{Saliency: v})
}

// AudioDirection queues a sound direction estimate.
func (e *Engine) AudioDirection(dir perception.Vec3, at time.Time) error {
	return e.Submit(AudioDirection{Direction: dir, Timestamp: at})
}

// Motion queues a motion detection.
func (e *Engine) Motion(dir perception.Vec3, magnitude float64, at time.Time) error {
	return e.Submit(MotionVector{Direction: dir, Magnitude: magnitude, Timestamp: at})
}

// Chat queues a conversation-started signal.
func (e *Engine) Chat() error { return e.Submit(ConversationStarted{}) }

// Speech queues a speech start or stop.
func (e *Engine) Speech(phase string) error { return e.Submit(SpeechEvent{Phase: phase}) }

// Say queues a debug announcement.
func (e *Engine) Say(text string) error { return e.Submit(Announce{Text: text}) }

// SetState queues a direct activity override.
func (e *Engine) SetState(s ActivityState) error { return e.Configure(ParamUpdate{State: &s}) }

// SetLookAt queues a look-at override.
func (e *Engine) SetLookAt(m LookAtMode) error { return e.Configure(ParamUpdate{LookAt: &m}) }

// SetEyeContact queues an eye-contact override.
func (e *Engine) SetEyeContact(m EyeContactMode) error {
	return e.Configure(ParamUpdate{EyeContact: &m})
}

// SetMirroring queues a mirroring override.
func (e *Engine) SetMirroring(m MirroringMode) error {
	return e.Configure(ParamUpdate{Mirroring: &m})
}

// SetGaze queues a gaze-mode override.
func (e *Engine) SetGaze(m GazeMode) error { return e.Configure(ParamUpdate{Gaze: &m}) }

// ReloadCatalog queues a catalog reload.
func (e *Engine) ReloadCatalog() error { return e.Configure(ParamUpdate{ReloadAnimations: true}) }

// report logs and counts a rejected output command. Commands are never retried.
func (e *Engine) report(cmd string, err error) {
	if err == nil {
		return
	}
	e.metrics.outputError(cmd)
	e.logger.Debug("output command failed", "command", cmd, "error", err)
}
