package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/brandedtube/brandedtube/internal/player"
	"github.com/brandedtube/brandedtube/internal/youtube"
)

type SessionConfig struct {
	VideoID      string
	Autoplay     bool
	Origin       string
	UserAgent    string
	PollInterval time.Duration
	Logger       *slog.Logger
}

// Session drives one player page. Each connection owns its own loader,
// adapter and widget; nothing is shared between sessions.
type Session struct {
	id        string
	conn      *Conn
	loader    *player.Loader
	factory   *RemoteFactory
	container *RemoteContainer
	adapter   *player.Adapter
	videoID   string
	logger    *slog.Logger
}

func NewSession(conn *Conn, cfg SessionConfig) *Session {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{
		id:        uuid.NewString(),
		conn:      conn,
		factory:   NewRemoteFactory(conn),
		container: NewRemoteContainer(conn),
		videoID:   cfg.VideoID,
	}
	s.logger = logger.With("session_id", s.id)
	s.loader = player.NewLoader(func() {
		if err := conn.Send(TypeCommand, Command{Name: CmdLoadAPI}); err != nil {
			s.logger.Debug("failed to request player api", "error", err)
		}
	})
	s.adapter = player.NewAdapter(s.loader, s.factory, s.container, player.Options{
		Autoplay:           cfg.Autoplay,
		Origin:             cfg.Origin,
		PollInterval:       cfg.PollInterval,
		FullscreenVariants: player.VariantsForUserAgent(cfg.UserAgent),
		OnChange:           s.pushSnapshot,
		Logger:             s.logger,
	})
	return s
}

func (s *Session) ID() string { return s.id }

func (s *Session) Adapter() *player.Adapter { return s.adapter }

// Run serves the connection until it closes. The widget is destroyed on
// return.
func (s *Session) Run(ctx context.Context) error {
	defer s.conn.Close()
	defer s.adapter.Unmount()
	stop := context.AfterFunc(ctx, func() { s.conn.Close() })
	defer stop()

	s.logger.InfoContext(ctx, "player session started", "video_id", s.videoID)
	s.adapter.Load(s.videoID)

	err := s.router().Serve(ctx, s.conn)
	s.logger.InfoContext(ctx, "player session ended", "error", err)
	return err
}

func (s *Session) router() *Router {
	r := NewRouter(s.logger)
	r.Handle(TypeMounted, s.handleMounted)
	r.Handle(TypeUnmounted, func(context.Context, json.RawMessage) error {
		s.adapter.Unmount()
		return nil
	})
	r.Handle(TypeAPIReady, func(context.Context, json.RawMessage) error {
		s.loader.MarkReady()
		return nil
	})
	r.Handle(TypeReady, s.widgetEvent(func(w *RemoteWidget, _ WidgetEventPayload) {
		w.Events().OnReady()
	}))
	r.Handle(TypeState, s.widgetEvent(func(w *RemoteWidget, p WidgetEventPayload) {
		w.Events().OnStateChange(player.WidgetState(p.State))
	}))
	r.Handle(TypeWidgetErr, s.widgetEvent(func(w *RemoteWidget, p WidgetEventPayload) {
		w.Events().OnError(p.Code)
	}))
	r.Handle(TypeTelemetry, s.widgetEvent(func(*RemoteWidget, WidgetEventPayload) {
		s.adapter.Refresh()
	}))
	r.Handle(TypeAction, s.handleAction)
	r.Handle(TypeLoad, s.handleLoad)
	return r
}

func (s *Session) pushSnapshot(state player.PlaybackState) {
	if err := s.conn.Send(TypeSnapshot, state); err != nil && !errors.Is(err, ErrClosed) {
		s.logger.Debug("failed to push snapshot", "error", err)
	}
}

func (s *Session) handleMounted(_ context.Context, payload json.RawMessage) error {
	var p MountedPayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &p); err != nil {
			return fmt.Errorf("decode mounted: %w", err)
		}
	}
	s.container.SetSupported(p.Fullscreen)
	s.adapter.Mount()
	return nil
}

// widgetEvent routes a widget event to the instance it names, refreshing
// the cached telemetry before dispatch.
func (s *Session) widgetEvent(dispatch func(*RemoteWidget, WidgetEventPayload)) HandlerFunc {
	return func(_ context.Context, payload json.RawMessage) error {
		var p WidgetEventPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return fmt.Errorf("decode widget event: %w", err)
		}
		w, ok := s.factory.Lookup(p.Instance)
		if !ok {
			s.logger.Debug("event for unknown player instance", "instance", p.Instance)
			return nil
		}
		if p.Telemetry != nil {
			w.Update(*p.Telemetry)
		}
		if dispatch != nil {
			dispatch(w, p)
		}
		return nil
	}
}

func (s *Session) handleAction(_ context.Context, payload json.RawMessage) error {
	var p ActionPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("decode action: %w", err)
	}
	switch p.Name {
	case ActionTogglePlay:
		s.adapter.TogglePlayPause()
	case ActionToggleMute:
		s.adapter.ToggleMute()
	case ActionVolume:
		s.adapter.SetVolume(int(p.Value))
	case ActionSeek:
		s.adapter.SeekToFraction(p.Value)
	case ActionRestart:
		s.adapter.Restart()
	case ActionFullscreen:
		if !s.adapter.RequestFullscreen() {
			s.logger.Debug("no fullscreen variant available")
		}
	default:
		return fmt.Errorf("unknown action %q", p.Name)
	}
	return nil
}

func (s *Session) handleLoad(_ context.Context, payload json.RawMessage) error {
	var p LoadPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("decode load: %w", err)
	}
	id, err := youtube.ParseVideoID(p.VideoID)
	if err != nil {
		return err
	}
	s.videoID = id
	s.adapter.Load(id)
	return nil
}
