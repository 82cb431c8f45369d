package server

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/brandedtube/brandedtube/internal/embed"
	"github.com/brandedtube/brandedtube/internal/httputil"
	"github.com/brandedtube/brandedtube/internal/youtube"
)

const (
	thumbnailWidth  = 480
	thumbnailHeight = 360
)

type oEmbedResponse struct {
	Type            string `json:"type"`
	Version         string `json:"version"`
	Title           string `json:"title"`
	AuthorName      string `json:"author_name,omitempty"`
	ProviderName    string `json:"provider_name"`
	ProviderURL     string `json:"provider_url"`
	ThumbnailURL    string `json:"thumbnail_url"`
	ThumbnailWidth  int    `json:"thumbnail_width"`
	ThumbnailHeight int    `json:"thumbnail_height"`
	HTML            string `json:"html"`
	Width           int    `json:"width"`
	Height          int    `json:"height"`
}

func (s *Server) handleOEmbed(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if format := query.Get("format"); format != "" && format != "json" {
		httputil.WriteError(w, http.StatusNotImplemented, "only json is supported")
		return
	}

	target, err := url.Parse(query.Get("url"))
	if err != nil || target.Path != embed.PlayerPath {
		httputil.WriteError(w, http.StatusNotFound, "not a player url")
		return
	}
	cfg, err := embed.ParsePlayerQuery(target.Query())
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "not a player url")
		return
	}

	width, height := oEmbedSize(atoi(query.Get("maxwidth")), atoi(query.Get("maxheight")))
	origin := s.origin(r)
	playerURL := embed.BuildPlayerURL(origin, cfg.VideoID, cfg.Settings())

	resp := oEmbedResponse{
		Type:            "video",
		Version:         "1.0",
		Title:           cfg.BrandName,
		ProviderName:    cfg.BrandName,
		ProviderURL:     origin,
		ThumbnailURL:    youtube.ThumbnailURL(cfg.VideoID),
		ThumbnailWidth:  thumbnailWidth,
		ThumbnailHeight: thumbnailHeight,
		HTML:            embed.BuildSnippet(playerURL, width, height),
		Width:           width,
		Height:          height,
	}
	if data := s.lookupMetadata(r.Context(), cfg.VideoID); data != nil {
		if data.Title != "" {
			resp.Title = data.Title
		}
		resp.AuthorName = data.AuthorName
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}

// oEmbedSize fits the default 16:9 frame inside the consumer's bounds.
// Zero bounds are ignored.
func oEmbedSize(maxWidth, maxHeight int) (int, int) {
	width, height := embed.DefaultWidth, embed.DefaultHeight
	if maxWidth > 0 && width > maxWidth {
		width = maxWidth
		height = width * 9 / 16
	}
	if maxHeight > 0 && height > maxHeight {
		height = maxHeight
		width = height * 16 / 9
	}
	return width, height
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
