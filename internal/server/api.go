package server

import (
	"errors"
	"net/http"

	"github.com/brandedtube/brandedtube/internal/embed"
	"github.com/brandedtube/brandedtube/internal/httputil"
)

type embedRequest struct {
	URL             string `json:"url" validate:"required,max=2048"`
	Autoplay        bool   `json:"autoplay"`
	Controls        bool   `json:"controls"`
	ShowInfo        bool   `json:"showInfo"`
	DisableKeyboard *bool  `json:"disableKeyboard"`
	BrandName       string `json:"brandName" validate:"max=100"`
	BrandColor      string `json:"brandColor" validate:"omitempty,rgbhex"`
	PlayButtonColor string `json:"playButtonColor" validate:"omitempty,rgbhex"`
	PlayButtonSize  int    `json:"playButtonSize" validate:"omitempty,min=32,max=128"`
	Width           int    `json:"width" validate:"omitempty,min=200,max=1920"`
	Height          int    `json:"height" validate:"omitempty,min=150,max=1080"`
}

func (req embedRequest) settings() embed.Settings {
	return embed.DefaultSettings().With(func(s *embed.Settings) {
		s.SourceURL = req.URL
		s.Autoplay = req.Autoplay
		s.ShowControls = req.Controls
		s.ShowInfo = req.ShowInfo
		if req.DisableKeyboard != nil {
			s.DisableKeyboard = *req.DisableKeyboard
		}
		if req.BrandName != "" {
			s.BrandName = req.BrandName
		}
		if req.BrandColor != "" {
			s.BrandColor = req.BrandColor
		}
		if req.PlayButtonColor != "" {
			s.PlayButtonColor = req.PlayButtonColor
		}
		if req.PlayButtonSize != 0 {
			s.PlayButtonSize = req.PlayButtonSize
		}
	})
}

type embedResponse struct {
	VideoID   string             `json:"videoId"`
	PlayerURL string             `json:"playerUrl"`
	EmbedCode string             `json:"embedCode"`
	Width     int                `json:"width"`
	Height    int                `json:"height"`
	Config    embed.PlayerConfig `json:"config"`
}

func (s *Server) handleEmbed(w http.ResponseWriter, r *http.Request) {
	var req embedRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		if errors.Is(err, httputil.ErrBodyTooLarge) {
			httputil.WriteError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if errs := s.validator.Struct(req); len(errs) > 0 {
		httputil.WriteFieldErrors(w, errs)
		return
	}

	c := embed.Compose(s.origin(r), req.settings(), req.Width, req.Height)
	if !c.Valid {
		httputil.WriteError(w, http.StatusUnprocessableEntity, "unrecognised YouTube URL")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, embedResponse{
		VideoID:   c.VideoID,
		PlayerURL: c.PlayerURL,
		EmbedCode: c.Snippet,
		Width:     c.Width,
		Height:    c.Height,
		Config:    c.Config,
	})
}
