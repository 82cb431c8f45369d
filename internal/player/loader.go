package player

import "sync"

// Loader tracks readiness of the player script for one page. Install runs
// the injection at most once; subscribers registered before MarkReady are
// queued and released together.
type Loader struct {
	install     func()
	installOnce sync.Once

	mu      sync.Mutex
	ready   bool
	waiting []func()
}

func NewLoader(install func()) *Loader {
	return &Loader{install: install}
}

func (l *Loader) Install() {
	l.installOnce.Do(func() {
		if l.install != nil {
			l.install()
		}
	})
}

func (l *Loader) Ready() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ready
}

// OnReady runs fn now if the script is ready, otherwise once it becomes ready.
func (l *Loader) OnReady(fn func()) {
	l.mu.Lock()
	if !l.ready {
		l.waiting = append(l.waiting, fn)
		l.mu.Unlock()
		return
	}
	l.mu.Unlock()
	fn()
}

func (l *Loader) MarkReady() {
	l.mu.Lock()
	if l.ready {
		l.mu.Unlock()
		return
	}
	l.ready = true
	waiting := l.waiting
	l.waiting = nil
	l.mu.Unlock()

	for _, fn := range waiting {
		fn()
	}
}
