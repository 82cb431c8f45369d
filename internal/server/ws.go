package server

import (
	"net/http"

	"github.com/brandedtube/brandedtube/internal/bridge"
	"github.com/brandedtube/brandedtube/internal/embed"
	"github.com/brandedtube/brandedtube/internal/httputil"
)

// handlePlayerSocket takes the player page's own query string, so the session
// plays exactly what the page was rendered for.
func (s *Server) handlePlayerSocket(w http.ResponseWriter, r *http.Request) {
	cfg, err := embed.ParsePlayerQuery(r.URL.Query())
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	conn, err := bridge.Upgrade(w, r)
	if err != nil {
		s.logger.Warn("player websocket upgrade failed", "error", err)
		return
	}

	session := bridge.NewSession(conn, bridge.SessionConfig{
		VideoID:      cfg.VideoID,
		Autoplay:     cfg.Autoplay,
		Origin:       s.origin(r),
		UserAgent:    r.UserAgent(),
		PollInterval: s.pollInterval,
		Logger:       s.logger.With("remote_addr", httputil.ClientIP(r)),
	})
	if err := session.Run(r.Context()); err != nil {
		s.logger.Debug("player session closed", "session_id", session.ID(), "error", err)
	}
}
