package server

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/brandedtube/brandedtube/internal/embed"
	"github.com/brandedtube/brandedtube/internal/httputil"
)

// Origins the YouTube IFrame API loads scripts, frames and thumbnails from.
const (
	youtubeScriptSrc = "https://www.youtube.com https://s.ytimg.com"
	youtubeFrameSrc  = "https://www.youtube.com https://www.youtube-nocookie.com"
	youtubeImgSrc    = "https://i.ytimg.com"
)

type SecurityConfig struct {
	BaseURL string
	// PlayerFrameAncestors is the frame-ancestors source list for the
	// player page. Every other page may only be framed by itself.
	PlayerFrameAncestors string
}

func securityHeaders(cfg SecurityConfig) func(http.Handler) http.Handler {
	strictTransport := hasHTTPS(cfg.BaseURL)
	connectSrc := "'self'"
	if ws := websocketOrigin(cfg.BaseURL); ws != "" {
		connectSrc += " " + ws
	}
	playerAncestors := strings.TrimSpace(cfg.PlayerFrameAncestors)
	if playerAncestors == "" {
		playerAncestors = "*"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r, nonce := httputil.WithNonce(r)

			ancestors := "'self'"
			if r.URL.Path == embed.PlayerPath {
				ancestors = playerAncestors
			} else {
				w.Header().Set("X-Frame-Options", "SAMEORIGIN")
			}

			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("Permissions-Policy", "camera=(), microphone=(), geolocation=(), fullscreen=(self)")

			csp := fmt.Sprintf(
				"default-src 'self'; img-src 'self' data: %s; script-src 'self' 'nonce-%s' %s; style-src 'self' 'nonce-%s'; frame-src 'self' %s; connect-src %s; frame-ancestors %s;",
				youtubeImgSrc, nonce, youtubeScriptSrc, nonce, youtubeFrameSrc, connectSrc, ancestors,
			)
			w.Header().Set("Content-Security-Policy", csp)

			if strictTransport {
				w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}

			next.ServeHTTP(w, r)
		})
	}
}

func hasHTTPS(baseURL string) bool {
	return strings.HasPrefix(baseURL, "https://")
}

// websocketOrigin maps the public base URL to its ws(s) origin.
func websocketOrigin(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return ""
	}
	switch u.Scheme {
	case "https":
		return "wss://" + u.Host
	case "http":
		return "ws://" + u.Host
	}
	return ""
}
