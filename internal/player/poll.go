package player

import "time"

func (a *Adapter) startPollingLocked() {
	if a.stopPoll != nil {
		return
	}
	stop := make(chan struct{})
	a.stopPoll = stop
	go a.poll(a.gen, stop)
}

// stopPollingLocked is safe to call when no poll is running.
func (a *Adapter) stopPollingLocked() {
	if a.stopPoll == nil {
		return
	}
	close(a.stopPoll)
	a.stopPoll = nil
}

func (a *Adapter) poll(gen uint64, stop <-chan struct{}) {
	ticker := time.NewTicker(a.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			a.sample(gen, stop)
		}
	}
}

// sample runs one poll tick. A Sampler is only asked for a new reading; the
// snapshot follows from Refresh once that reading arrives.
func (a *Adapter) sample(gen uint64, stop <-chan struct{}) {
	a.mu.Lock()
	select {
	case <-stop:
		a.mu.Unlock()
		return
	default:
	}
	w, ok := a.currentLocked(gen)
	if !ok || !a.state.Playing {
		a.mu.Unlock()
		return
	}
	if s, ok := w.(Sampler); ok {
		a.mu.Unlock()
		a.run([]widgetCall{{"sample", s.Sample}})
		return
	}
	a.readTelemetryLocked(w)
	snap := a.state
	a.mu.Unlock()
	a.notify(snap)
}

// Refresh re-reads the widget getters and publishes the result. Widgets
// that implement Sampler call for it when a requested reading arrives.
func (a *Adapter) Refresh() {
	a.mu.Lock()
	w, err := a.readyLocked()
	if err != nil {
		a.mu.Unlock()
		return
	}
	a.readTelemetryLocked(w)
	snap := a.state
	a.mu.Unlock()
	a.notify(snap)
}

func (a *Adapter) readTelemetryLocked(w Widget) {
	if t, err := w.CurrentTime(); err == nil {
		a.state.CurrentTime = t
	}
	if d, err := w.Duration(); err == nil {
		a.state.Duration = d
	}
	if v, err := w.Volume(); err == nil {
		a.state.Volume = v
	}
}
