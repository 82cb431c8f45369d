package bridge

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/brandedtube/brandedtube/internal/player"
)

var ErrUnsupported = errors.New("fullscreen variant not supported by browser")

// RemoteFactory creates widgets that live in the browser at the other end
// of conn. It keeps the registry used to route widget events back.
type RemoteFactory struct {
	conn *Conn

	mu      sync.Mutex
	widgets map[string]*RemoteWidget
}

func NewRemoteFactory(conn *Conn) *RemoteFactory {
	return &RemoteFactory{conn: conn, widgets: make(map[string]*RemoteWidget)}
}

func (f *RemoteFactory) NewWidget(videoID string, vars player.Vars, events player.Events) (player.Widget, error) {
	w := &RemoteWidget{
		id:      uuid.NewString(),
		conn:    f.conn,
		events:  events,
		factory: f,
	}
	if err := f.conn.Send(TypeCommand, Command{
		Name:     CmdCreate,
		Instance: w.id,
		VideoID:  videoID,
		Vars:     &vars,
	}); err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.widgets[w.id] = w
	f.mu.Unlock()
	return w, nil
}

// Lookup returns the live widget with the given instance id.
func (f *RemoteFactory) Lookup(id string) (*RemoteWidget, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.widgets[id]
	return w, ok
}

func (f *RemoteFactory) forget(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.widgets, id)
}

// RemoteWidget forwards calls as commands. Getters answer from the last
// telemetry the browser reported.
type RemoteWidget struct {
	id      string
	conn    *Conn
	events  player.Events
	factory *RemoteFactory

	mu        sync.Mutex
	telemetry Telemetry
	destroyed bool
}

func (w *RemoteWidget) ID() string { return w.id }

func (w *RemoteWidget) Events() player.Events { return w.events }

func (w *RemoteWidget) Update(t Telemetry) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.telemetry = t
}

func (w *RemoteWidget) send(cmd Command) error {
	w.mu.Lock()
	destroyed := w.destroyed
	w.mu.Unlock()
	if destroyed {
		return ErrClosed
	}
	cmd.Instance = w.id
	return w.conn.Send(TypeCommand, cmd)
}

func (w *RemoteWidget) Play() error   { return w.send(Command{Name: CmdPlay}) }
func (w *RemoteWidget) Pause() error  { return w.send(Command{Name: CmdPause}) }
func (w *RemoteWidget) Mute() error   { return w.send(Command{Name: CmdMute}) }
func (w *RemoteWidget) Unmute() error { return w.send(Command{Name: CmdUnmute}) }
func (w *RemoteWidget) Sample() error { return w.send(Command{Name: CmdSample}) }

func (w *RemoteWidget) SetVolume(v int) error {
	if err := w.send(Command{Name: CmdSetVolume, Volume: &v}); err != nil {
		return err
	}
	w.mu.Lock()
	w.telemetry.Volume = v
	w.mu.Unlock()
	return nil
}

func (w *RemoteWidget) SeekTo(seconds float64, allowSeekAhead bool) error {
	if err := w.send(Command{Name: CmdSeek, Seconds: &seconds, AllowSeekAhead: allowSeekAhead}); err != nil {
		return err
	}
	w.mu.Lock()
	w.telemetry.CurrentTime = seconds
	w.mu.Unlock()
	return nil
}

func (w *RemoteWidget) Volume() (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.telemetry.Volume, nil
}

func (w *RemoteWidget) CurrentTime() (float64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.telemetry.CurrentTime, nil
}

func (w *RemoteWidget) Duration() (float64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.telemetry.Duration, nil
}

// Destroy is idempotent.
func (w *RemoteWidget) Destroy() error {
	w.mu.Lock()
	if w.destroyed {
		w.mu.Unlock()
		return nil
	}
	w.destroyed = true
	w.mu.Unlock()

	w.factory.forget(w.id)
	return w.conn.Send(TypeCommand, Command{Name: CmdDestroy, Instance: w.id})
}

// RemoteContainer is the browser element hosting the widget. It only
// forwards variants the browser reported as available.
type RemoteContainer struct {
	conn *Conn

	mu        sync.Mutex
	supported map[player.FullscreenVariant]bool
}

func NewRemoteContainer(conn *Conn) *RemoteContainer {
	return &RemoteContainer{conn: conn, supported: map[player.FullscreenVariant]bool{}}
}

func (c *RemoteContainer) SetSupported(names []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.supported = make(map[player.FullscreenVariant]bool, len(names))
	for _, n := range names {
		if v, ok := player.ParseFullscreenVariant(n); ok {
			c.supported[v] = true
		}
	}
}

func (c *RemoteContainer) RequestFullscreen(v player.FullscreenVariant) error {
	c.mu.Lock()
	ok := c.supported[v]
	c.mu.Unlock()
	if !ok {
		return ErrUnsupported
	}
	return c.conn.Send(TypeCommand, Command{Name: CmdFullscreen, Variant: string(v)})
}
