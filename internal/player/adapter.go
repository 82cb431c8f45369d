package player

import (
	"log/slog"
	"sync"
	"time"
)

const DefaultPollInterval = time.Second

type Options struct {
	Autoplay bool
	// Origin is passed to the widget as the embedding origin.
	Origin             string
	PollInterval       time.Duration
	FullscreenVariants []FullscreenVariant
	// OnChange receives every new snapshot. It is called without the
	// adapter lock held.
	OnChange func(PlaybackState)
	Logger   *slog.Logger
}

// Adapter owns at most one widget instance and mirrors its playback state.
// Widget events carry the generation they were created for; events from a
// destroyed instance are dropped.
type Adapter struct {
	loader    *Loader
	factory   Factory
	container Container
	opts      Options
	log       *slog.Logger

	mu       sync.Mutex
	mounted  bool
	videoID  string
	gen      uint64
	widget   Widget
	state    PlaybackState
	stopPoll chan struct{}
	// creating is set while the factory builds the widget for gen. A ready
	// event that arrives before NewWidget returns is parked in readyEarly.
	creating   bool
	readyEarly bool
}

func NewAdapter(loader *Loader, factory Factory, container Container, opts Options) *Adapter {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if len(opts.FullscreenVariants) == 0 {
		opts.FullscreenVariants = DefaultFullscreenVariants
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Adapter{
		loader:    loader,
		factory:   factory,
		container: container,
		opts:      opts,
		log:       log,
		state:     initialState(opts.Autoplay),
	}
}

// Snapshot returns a copy of the current playback state.
func (a *Adapter) Snapshot() PlaybackState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *Adapter) VideoID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.videoID
}

// Mount marks the container as present and constructs the widget once the
// player API is ready.
func (a *Adapter) Mount() {
	a.mu.Lock()
	a.mounted = true
	a.mu.Unlock()
	a.whenAPIReady()
}

// Unmount destroys the widget and stops polling.
func (a *Adapter) Unmount() {
	a.mu.Lock()
	a.mounted = false
	old := a.teardownLocked()
	snap := a.state
	a.mu.Unlock()
	a.destroy(old)
	a.notify(snap)
}

// Load switches to videoID, destroying any previous widget first.
func (a *Adapter) Load(videoID string) {
	a.mu.Lock()
	if videoID == a.videoID && (a.widget != nil || a.creating) {
		a.mu.Unlock()
		return
	}
	old := a.teardownLocked()
	a.videoID = videoID
	snap := a.state
	a.mu.Unlock()

	a.destroy(old)
	a.notify(snap)
	a.whenAPIReady()
}

func (a *Adapter) whenAPIReady() {
	a.loader.Install()
	a.loader.OnReady(a.construct)
}

// construct builds the widget without holding the lock. If the adapter
// moved on while the factory ran, the new widget is destroyed and
// construction starts over for the current video.
func (a *Adapter) construct() {
	a.mu.Lock()
	if !a.mounted || a.videoID == "" || a.widget != nil || a.creating {
		a.mu.Unlock()
		return
	}
	gen, videoID := a.gen, a.videoID
	a.creating = true
	a.mu.Unlock()

	w, err := a.factory.NewWidget(videoID, NewVars(a.opts.Autoplay, a.opts.Origin), a.eventsFor(gen))

	a.mu.Lock()
	a.creating = false
	stale := gen != a.gen
	if err != nil {
		a.mu.Unlock()
		a.log.Error("failed to create player", "video_id", videoID, "error", err)
		if stale {
			a.construct()
		}
		return
	}
	if stale {
		a.mu.Unlock()
		a.destroy(w)
		a.construct()
		return
	}
	a.widget = w
	early := a.readyEarly
	a.readyEarly = false
	a.mu.Unlock()

	if early {
		a.handleReady(gen)
	}
}

func (a *Adapter) eventsFor(gen uint64) Events {
	return Events{
		OnReady:       func() { a.handleReady(gen) },
		OnStateChange: func(s WidgetState) { a.handleStateChange(gen, s) },
		OnError:       func(code int) { a.handleError(gen, code) },
	}
}

// teardownLocked detaches the current instance and resets the state. The
// caller destroys the returned widget after releasing the lock.
func (a *Adapter) teardownLocked() Widget {
	a.stopPollingLocked()
	old := a.widget
	a.widget = nil
	a.readyEarly = false
	a.gen++
	a.state = initialState(a.opts.Autoplay)
	return old
}

// destroy ignores errors; w may be nil.
func (a *Adapter) destroy(w Widget) {
	if w == nil {
		return
	}
	if err := w.Destroy(); err != nil {
		a.log.Debug("destroy player", "error", err)
	}
}

// currentLocked returns the widget when gen is still current.
func (a *Adapter) currentLocked(gen uint64) (Widget, bool) {
	if gen != a.gen || a.widget == nil {
		return nil, false
	}
	return a.widget, true
}

func (a *Adapter) handleReady(gen uint64) {
	a.mu.Lock()
	w, ok := a.currentLocked(gen)
	if !ok {
		if gen == a.gen && a.creating {
			a.readyEarly = true
			a.mu.Unlock()
			return
		}
		a.mu.Unlock()
		a.log.Debug("ignoring ready from stale player")
		return
	}
	a.state.Ready = true
	if d, err := w.Duration(); err == nil {
		a.state.Duration = d
	} else {
		a.log.Debug("read duration", "error", err)
	}
	if v, err := w.Volume(); err == nil {
		a.state.Volume = v
	} else {
		a.log.Debug("read volume", "error", err)
	}
	var calls []widgetCall
	if a.opts.Autoplay {
		calls = append(calls, widgetCall{"mute", w.Mute})
		a.state.Muted = true
		a.state.OverlayVisible = false
		a.setPlayingLocked(true)
	}
	snap := a.state
	a.mu.Unlock()
	a.run(calls)
	a.notify(snap)
}

func (a *Adapter) handleStateChange(gen uint64, s WidgetState) {
	a.mu.Lock()
	if _, ok := a.currentLocked(gen); !ok || !a.state.Ready {
		a.mu.Unlock()
		a.log.Debug("ignoring player state", "state", s.String())
		return
	}
	switch s {
	case StatePlaying:
		a.state.OverlayVisible = false
		a.state.Buffering = false
		a.setPlayingLocked(true)
	case StatePaused:
		a.state.Buffering = false
		a.setPlayingLocked(false)
	case StateEnded:
		a.state.OverlayVisible = true
		a.state.Buffering = false
		a.setPlayingLocked(false)
	case StateBuffering:
		a.state.Buffering = true
	case StateCued:
		a.state.Buffering = false
	default:
		a.mu.Unlock()
		return
	}
	snap := a.state
	a.mu.Unlock()
	a.notify(snap)
}

func (a *Adapter) handleError(gen uint64, code int) {
	a.mu.Lock()
	if _, ok := a.currentLocked(gen); !ok {
		a.mu.Unlock()
		return
	}
	a.log.Warn("player error", "video_id", a.videoID, "code", code)
	a.state.Buffering = false
	snap := a.state
	a.mu.Unlock()
	a.notify(snap)
}

func (a *Adapter) setPlayingLocked(playing bool) {
	a.state.Playing = playing
	if playing {
		a.startPollingLocked()
	} else {
		a.stopPollingLocked()
	}
}

// widgetCall is a widget command collected under the lock and run after it
// is released.
type widgetCall struct {
	op string
	fn func() error
}

func (a *Adapter) run(calls []widgetCall) {
	for _, c := range calls {
		if err := c.fn(); err != nil {
			a.log.Debug("player call failed", "op", c.op, "error", err)
		}
	}
}

func (a *Adapter) notify(s PlaybackState) {
	if a.opts.OnChange != nil {
		a.opts.OnChange(s)
	}
}
