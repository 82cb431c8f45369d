package server

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"net/url"

	"github.com/brandedtube/brandedtube/internal/embed"
	"github.com/brandedtube/brandedtube/internal/httputil"
	"github.com/brandedtube/brandedtube/internal/validate"
	"github.com/brandedtube/brandedtube/internal/youtube"
)

// watermarkAlpha is appended to the brand color for the watermark background.
const watermarkAlpha = "80"

type playerPageData struct {
	Nonce        string
	Title        string
	BrandName    string
	BrandColor   template.CSS
	PlayColor    template.CSS
	WatermarkBG  template.CSS
	PlaySize     int
	Controls     bool
	CanonicalURL string
	OEmbedURL    string
	ThumbnailURL string
}

var playerPageTemplate = template.Must(template.New("player").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <title>{{.Title}}</title>
    <meta property="og:title" content="{{.Title}}">
    <meta property="og:type" content="video.other">
    <meta property="og:url" content="{{.CanonicalURL}}">
    <meta property="og:image" content="{{.ThumbnailURL}}">
    <link rel="alternate" type="application/json+oembed" href="{{.OEmbedURL}}" title="{{.Title}}">
    <link rel="stylesheet" href="/assets/player.css">
    <style nonce="{{.Nonce}}">
        :root {
            --play-color: {{.PlayColor}};
            --play-size: {{.PlaySize}}px;
            --brand-color: {{.BrandColor}};
        }
        .watermark { background: {{.WatermarkBG}}; }
    </style>
</head>
<body>
<div class="stage">
    <div id="player" class="player" data-controls="{{if .Controls}}1{{else}}0{{end}}">
        <div id="player-frame" class="player-frame"></div>
        <div class="player-loading">
            <div class="spinner"></div>
            <span>Loading video...</span>
        </div>
        <div class="player-overlay hidden">
            <button type="button" class="play-overlay-btn" data-action="toggle_play" aria-label="Play">
                <svg viewBox="0 0 24 24" aria-hidden="true"><path d="M8 5v14l11-7z"/></svg>
            </button>
        </div>
        <div class="player-controls hidden">
            <button type="button" class="center-toggle" data-action="toggle_play" aria-label="Play or pause">▶</button>
            <div class="control-bar hidden">
                <div class="progress"><div class="progress-fill"></div></div>
                <div class="control-row">
                    <div class="left">
                        <button type="button" data-action="toggle_play" aria-label="Play or pause">▶</button>
                        <button type="button" data-action="toggle_mute" aria-label="Mute">🔊</button>
                        <div class="volume">
                            <div class="volume-fill"></div>
                            <input type="range" min="0" max="100" value="100" aria-label="Volume">
                        </div>
                        <span class="time">0:00 / 0:00</span>
                    </div>
                    <div class="right">
                        <button type="button" data-action="restart" aria-label="Restart">↺</button>
                        <button type="button" data-action="fullscreen" aria-label="Fullscreen">⛶</button>
                    </div>
                </div>
            </div>
        </div>
    </div>
    <div class="watermark">Powered by {{.BrandName}}</div>
</div>
<script nonce="{{.Nonce}}" src="/assets/player.js"></script>
</body>
</html>`))

type noticePageData struct {
	Nonce   string
	Message string
}

var noticePageTemplate = template.Must(template.New("notice").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <title>Video unavailable</title>
    <link rel="stylesheet" href="/assets/player.css">
</head>
<body>
<div class="notice">
    <p>{{.Message}}</p>
    <p><a href="/">Create a player</a></p>
</div>
</body>
</html>`))

func (s *Server) handlePlayerPage(w http.ResponseWriter, r *http.Request) {
	cfg, err := embed.ParsePlayerQuery(r.URL.Query())
	if errors.Is(err, embed.ErrMissingVideoID) {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	nonce := httputil.NonceFromContext(r.Context())
	if err != nil {
		httputil.RenderHTML(w, http.StatusBadRequest, noticePageTemplate, noticePageData{
			Nonce:   nonce,
			Message: "This player link does not point at a YouTube video.",
		})
		return
	}

	origin := s.origin(r)
	canonical := embed.BuildPlayerURL(origin, cfg.VideoID, cfg.Settings())
	brandColor := validate.ColorOr(cfg.BrandColor, embed.DefaultColor)

	httputil.RenderHTML(w, http.StatusOK, playerPageTemplate, playerPageData{
		Nonce:        nonce,
		Title:        s.videoTitle(r.Context(), cfg),
		BrandName:    cfg.BrandName,
		BrandColor:   template.CSS(brandColor),
		PlayColor:    template.CSS(validate.ColorOr(cfg.PlayButtonColor, embed.DefaultColor)),
		WatermarkBG:  template.CSS(brandColor + watermarkAlpha),
		PlaySize:     cfg.PlayButtonSize,
		Controls:     cfg.ShowControls,
		CanonicalURL: canonical,
		OEmbedURL:    origin + "/oembed?url=" + url.QueryEscape(canonical),
		ThumbnailURL: youtube.ThumbnailURL(cfg.VideoID),
	})
}

// videoTitle falls back to the brand name; the page never waits longer than
// the metadata timeout.
func (s *Server) videoTitle(ctx context.Context, cfg embed.PlayerConfig) string {
	if data := s.lookupMetadata(ctx, cfg.VideoID); data != nil && data.Title != "" {
		return data.Title
	}
	return cfg.BrandName
}

// lookupMetadata returns nil when metadata is disabled or unavailable.
func (s *Server) lookupMetadata(ctx context.Context, videoID string) *youtube.VideoData {
	if s.metadata == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.metadataTimeout)
	defer cancel()

	data, err := s.metadata.Lookup(ctx, videoID)
	if err != nil {
		s.logger.Debug("video metadata unavailable", "video_id", videoID, "error", err)
		return nil
	}
	return data
}
