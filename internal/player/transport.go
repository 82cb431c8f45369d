package player

// readyLocked returns the widget when one exists and has signalled ready.
func (a *Adapter) readyLocked() (Widget, error) {
	if a.widget == nil || !a.state.Ready {
		return nil, ErrNotReady
	}
	return a.widget, nil
}

// control applies edit under the lock, then runs the widget calls it returns
// and publishes the new state. Controls before ready are dropped.
func (a *Adapter) control(op string, edit func(w Widget) []widgetCall) {
	a.mu.Lock()
	w, err := a.readyLocked()
	if err != nil {
		a.mu.Unlock()
		a.log.Debug("player control ignored", "op", op, "error", err)
		return
	}
	calls := edit(w)
	if calls == nil {
		a.mu.Unlock()
		return
	}
	snap := a.state
	a.mu.Unlock()

	a.run(calls)
	a.notify(snap)
}

// TogglePlayPause pauses a playing video, otherwise starts it and hides the
// overlay without waiting for the playing event.
func (a *Adapter) TogglePlayPause() {
	a.control("toggle_play", func(w Widget) []widgetCall {
		if a.state.Playing {
			return []widgetCall{{"pause", w.Pause}}
		}
		a.state.OverlayVisible = false
		return []widgetCall{{"play", w.Play}}
	})
}

// ToggleMute flips the muted flag. Unmuting at volume 0 restores volume 50.
func (a *Adapter) ToggleMute() {
	a.control("toggle_mute", func(w Widget) []widgetCall {
		a.state.Muted = !a.state.Muted
		if a.state.Muted {
			return []widgetCall{{"mute", w.Mute}}
		}
		calls := []widgetCall{{"unmute", w.Unmute}}
		if a.state.Volume == 0 {
			a.state.Volume = 50
			calls = append(calls, widgetCall{"set_volume", func() error { return w.SetVolume(50) }})
		}
		return calls
	})
}

// SetVolume forwards v, clamped to [0, 100]. Volume 0 counts as muted.
func (a *Adapter) SetVolume(v int) {
	v = min(max(v, 0), 100)

	a.control("set_volume", func(w Widget) []widgetCall {
		calls := []widgetCall{{"set_volume", func() error { return w.SetVolume(v) }}}
		a.state.Volume = v
		if v == 0 {
			a.state.Muted = true
		} else if a.state.Muted {
			a.state.Muted = false
			calls = append(calls, widgetCall{"unmute", w.Unmute})
		}
		return calls
	})
}

// SeekToFraction seeks to f of the known duration, f clamped to [0, 1].
// Without a duration there is nothing to seek into.
func (a *Adapter) SeekToFraction(f float64) {
	f = min(max(f, 0), 1)

	a.control("seek", func(w Widget) []widgetCall {
		if a.state.Duration <= 0 {
			return nil
		}
		t := f * a.state.Duration
		a.state.CurrentTime = t
		return []widgetCall{{"seek", func() error { return w.SeekTo(t, true) }}}
	})
}

// Restart seeks to the start and plays.
func (a *Adapter) Restart() {
	a.control("restart", func(w Widget) []widgetCall {
		a.state.CurrentTime = 0
		a.state.OverlayVisible = false
		return []widgetCall{
			{"seek", func() error { return w.SeekTo(0, true) }},
			{"play", w.Play},
		}
	})
}

// RequestFullscreen tries each variant on the container until one succeeds.
// It reports whether any variant was accepted.
func (a *Adapter) RequestFullscreen() bool {
	a.mu.Lock()
	mounted := a.mounted
	a.mu.Unlock()
	if !mounted || a.container == nil {
		return false
	}

	for _, v := range a.opts.FullscreenVariants {
		err := a.container.RequestFullscreen(v)
		if err == nil {
			return true
		}
		a.log.Debug("fullscreen variant failed", "variant", string(v), "error", err)
	}
	return false
}
