package player

import (
	"errors"
	"sync"
)

type fakeWidget struct {
	mu          sync.Mutex
	calls       []string
	volume      int
	currentTime float64
	duration    float64
	destroyErr  error
	destroyed   bool
	sampled     int
}

func (w *fakeWidget) record(c string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls = append(w.calls, c)
}

func (w *fakeWidget) Calls() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.calls...)
}

func (w *fakeWidget) Play() error   { w.record("play"); return nil }
func (w *fakeWidget) Pause() error  { w.record("pause"); return nil }
func (w *fakeWidget) Mute() error   { w.record("mute"); return nil }
func (w *fakeWidget) Unmute() error { w.record("unmute"); return nil }

func (w *fakeWidget) Volume() (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.volume, nil
}

func (w *fakeWidget) SetVolume(v int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls = append(w.calls, "set_volume")
	w.volume = v
	return nil
}

func (w *fakeWidget) CurrentTime() (float64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.currentTime, nil
}

func (w *fakeWidget) Duration() (float64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.duration, nil
}

func (w *fakeWidget) SeekTo(seconds float64, _ bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls = append(w.calls, "seek")
	w.currentTime = seconds
	return nil
}

func (w *fakeWidget) Destroy() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.destroyed = true
	return w.destroyErr
}

// samplingWidget answers getters from the same fields but only counts
// Sample requests, like a widget reading cached telemetry.
type samplingWidget struct {
	*fakeWidget
}

func (w samplingWidget) Sample() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.sampled++
	return nil
}

// blockingWidget holds Play until release is closed, like a slow browser.
type blockingWidget struct {
	*fakeWidget
	entered chan struct{}
	release chan struct{}
}

func (w blockingWidget) Play() error {
	close(w.entered)
	<-w.release
	return w.fakeWidget.Play()
}

func (w *fakeWidget) sampleCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sampled
}

func (w *fakeWidget) setTime(t float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.currentTime = t
}

func (w *fakeWidget) isDestroyed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.destroyed
}

// readyDuringCreate delivers OnReady from another goroutine before
// NewWidget returns.
type readyDuringCreate struct {
	fakeFactory
}

func (f *readyDuringCreate) NewWidget(videoID string, vars Vars, events Events) (Widget, error) {
	done := make(chan struct{})
	go func() {
		events.OnReady()
		close(done)
	}()
	<-done
	return f.fakeFactory.NewWidget(videoID, vars, events)
}

type created struct {
	videoID string
	vars    Vars
	events  Events
	widget  *fakeWidget
}

type fakeFactory struct {
	mu       sync.Mutex
	duration float64
	volume   int
	err      error
	// wrap, when set, decorates each new widget.
	wrap    func(*fakeWidget) Widget
	created []created
}

func (f *fakeFactory) NewWidget(videoID string, vars Vars, events Events) (Widget, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	w := &fakeWidget{duration: f.duration, volume: f.volume}
	f.created = append(f.created, created{videoID: videoID, vars: vars, events: events, widget: w})
	if f.wrap != nil {
		return f.wrap(w), nil
	}
	return w, nil
}

func (f *fakeFactory) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created)
}

func (f *fakeFactory) last() created {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.created[len(f.created)-1]
}

func (f *fakeFactory) at(i int) created {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.created[i]
}

var errUnsupported = errors.New("unsupported")

type fakeContainer struct {
	mu        sync.Mutex
	supported map[FullscreenVariant]bool
	tried     []FullscreenVariant
}

func (c *fakeContainer) RequestFullscreen(v FullscreenVariant) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tried = append(c.tried, v)
	if c.supported[v] {
		return nil
	}
	return errUnsupported
}

type recorder struct {
	mu    sync.Mutex
	snaps []PlaybackState
}

func (r *recorder) record(s PlaybackState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, s)
}

func (r *recorder) all() []PlaybackState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]PlaybackState(nil), r.snaps...)
}
