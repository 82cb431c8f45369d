package server

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/brandedtube/brandedtube/internal/embed"
	"github.com/brandedtube/brandedtube/internal/httputil"
	"github.com/brandedtube/brandedtube/internal/ratelimit"
	"github.com/brandedtube/brandedtube/internal/validate"
	"github.com/brandedtube/brandedtube/internal/youtube"
)

const defaultMetadataTimeout = 2 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

// MetadataLookup resolves the title shown on the player page.
type MetadataLookup interface {
	Lookup(ctx context.Context, videoID string) (*youtube.VideoData, error)
}

type Config struct {
	// BaseURL is the public origin used in generated links. When empty the
	// request's own scheme and host are used.
	BaseURL         string
	FrameAncestors  string
	PollInterval    time.Duration
	Metadata        MetadataLookup
	MetadataTimeout time.Duration
	Pinger          Pinger
	WSLimiter       *ratelimit.Limiter
	APILimiter      *ratelimit.Limiter
	AssetsFS        fs.FS
	Logger          *slog.Logger
}

type Server struct {
	router          chi.Router
	baseURL         string
	pollInterval    time.Duration
	metadata        MetadataLookup
	metadataTimeout time.Duration
	pinger          Pinger
	wsLimiter       *ratelimit.Limiter
	apiLimiter      *ratelimit.Limiter
	assetsFS        fs.FS
	validator       *validate.Validator
	logger          *slog.Logger
}

func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.MetadataTimeout
	if timeout <= 0 {
		timeout = defaultMetadataTimeout
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(slogMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(securityHeaders(SecurityConfig{
		BaseURL:              cfg.BaseURL,
		PlayerFrameAncestors: cfg.FrameAncestors,
	}))

	s := &Server{
		router:          r,
		baseURL:         strings.TrimSuffix(cfg.BaseURL, "/"),
		pollInterval:    cfg.PollInterval,
		metadata:        cfg.Metadata,
		metadataTimeout: timeout,
		pinger:          cfg.Pinger,
		wsLimiter:       cfg.WSLimiter,
		apiLimiter:      cfg.APILimiter,
		assetsFS:        cfg.AssetsFS,
		validator:       validate.New(),
		logger:          logger,
	}
	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Get("/api/health", s.handleHealth)
	s.router.Get("/api/limits", s.handleLimits)

	s.router.Group(func(r chi.Router) {
		if s.apiLimiter != nil {
			r.Use(s.apiLimiter.Middleware)
		}
		r.Post("/api/embed", s.handleEmbed)
		r.Get("/oembed", s.handleOEmbed)
	})

	s.router.Get("/", s.handleEditor)
	s.router.Get(embed.PlayerPath, s.handlePlayerPage)

	s.router.Group(func(r chi.Router) {
		if s.wsLimiter != nil {
			r.Use(s.wsLimiter.Middleware)
		}
		r.Get(embed.PlayerPath+"/ws", s.handlePlayerSocket)
	})

	if s.assetsFS != nil {
		s.router.Handle(assetPrefix+"*", newAssetServer(s.assetsFS))
	}
}

// origin is the scheme and host generated links point at.
func (s *Server) origin(r *http.Request) string {
	if s.baseURL != "" {
		return s.baseURL
	}
	return httputil.RequestOrigin(r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.pinger != nil {
		if err := s.pinger.Ping(r.Context()); err != nil {
			s.logger.Warn("health check failed", "error", err)
			httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unhealthy",
				"error":  "cache unreachable",
			})
			return
		}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type limitsResponse struct {
	Fields        map[string]int `json:"fields"`
	PlaySizeMin   int            `json:"playSizeMin"`
	PlaySizeMax   int            `json:"playSizeMax"`
	WidthMin      int            `json:"widthMin"`
	WidthMax      int            `json:"widthMax"`
	HeightMin     int            `json:"heightMin"`
	HeightMax     int            `json:"heightMax"`
	SizePresets   []embed.Size   `json:"sizePresets"`
	DefaultWidth  int            `json:"defaultWidth"`
	DefaultHeight int            `json:"defaultHeight"`
}

func (s *Server) handleLimits(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, limitsResponse{
		Fields:        validate.FieldLimits(),
		PlaySizeMin:   embed.MinPlayButtonSize,
		PlaySizeMax:   embed.MaxPlayButtonSize,
		WidthMin:      embed.MinWidth,
		WidthMax:      embed.MaxWidth,
		HeightMin:     embed.MinHeight,
		HeightMax:     embed.MaxHeight,
		SizePresets:   embed.SizePresets,
		DefaultWidth:  embed.DefaultWidth,
		DefaultHeight: embed.DefaultHeight,
	})
}
