package embed

import (
	"net/url"
	"strconv"

	"github.com/brandedtube/brandedtube/internal/youtube"
)

const (
	DefaultBrandName      = "Your Brand"
	DefaultColor          = "#3B82F6"
	DefaultPlayButtonSize = 64
	MinPlayButtonSize     = 32
	MaxPlayButtonSize     = 128

	sampleVideoURL = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
)

// Settings is the editor's configuration record. It is a value: every edit
// produces a new Settings.
type Settings struct {
	SourceURL       string `json:"url" yaml:"url"`
	Autoplay        bool   `json:"autoplay" yaml:"autoplay"`
	ShowControls    bool   `json:"controls" yaml:"controls"`
	ShowInfo        bool   `json:"showInfo" yaml:"showInfo"`
	DisableKeyboard bool   `json:"disableKeyboard" yaml:"disableKeyboard"`
	PlayButtonColor string `json:"playButtonColor" yaml:"playButtonColor"`
	PlayButtonSize  int    `json:"playButtonSize" yaml:"playButtonSize"`
	BrandName       string `json:"brandName" yaml:"brandName"`
	BrandColor      string `json:"brandColor" yaml:"brandColor"`
}

func DefaultSettings() Settings {
	return Settings{
		SourceURL:       sampleVideoURL,
		Autoplay:        false,
		ShowControls:    false,
		ShowInfo:        false,
		DisableKeyboard: true,
		PlayButtonColor: DefaultColor,
		PlayButtonSize:  DefaultPlayButtonSize,
		BrandName:       DefaultBrandName,
		BrandColor:      DefaultColor,
	}
}

// With returns a copy of s with edit applied; s itself is left untouched.
func (s Settings) With(edit func(*Settings)) Settings {
	edit(&s)
	return s
}

// PlayerConfig is Settings projected for one resolved video.
type PlayerConfig struct {
	VideoID         string `json:"videoId" yaml:"videoId"`
	Autoplay        bool   `json:"autoplay" yaml:"autoplay"`
	ShowControls    bool   `json:"controls" yaml:"controls"`
	ShowInfo        bool   `json:"showInfo" yaml:"showInfo"`
	DisableKeyboard bool   `json:"disableKeyboard" yaml:"disableKeyboard"`
	PlayButtonColor string `json:"playButtonColor" yaml:"playButtonColor"`
	PlayButtonSize  int    `json:"playButtonSize" yaml:"playButtonSize"`
	BrandName       string `json:"brandName" yaml:"brandName"`
	BrandColor      string `json:"brandColor" yaml:"brandColor"`
}

// Config resolves the video ID; ok is false when the source URL is not recognised.
func (s Settings) Config() (PlayerConfig, bool) {
	videoID, ok := youtube.ExtractVideoID(s.SourceURL)
	if !ok {
		return PlayerConfig{}, false
	}
	return PlayerConfig{
		VideoID:         videoID,
		Autoplay:        s.Autoplay,
		ShowControls:    s.ShowControls,
		ShowInfo:        s.ShowInfo,
		DisableKeyboard: s.DisableKeyboard,
		PlayButtonColor: s.PlayButtonColor,
		PlayButtonSize:  s.PlayButtonSize,
		BrandName:       s.BrandName,
		BrandColor:      s.BrandColor,
	}, true
}

// SettingsFromForm reads the editor form. A request without the url field
// yields the defaults; unchecked boxes are absent from a submitted form and read as false.
func SettingsFromForm(form url.Values) Settings {
	if _, submitted := form["url"]; !submitted {
		return DefaultSettings()
	}

	s := DefaultSettings()
	s.SourceURL = form.Get("url")
	s.Autoplay = isChecked(form.Get("autoplay"))
	s.ShowControls = isChecked(form.Get("controls"))
	s.ShowInfo = isChecked(form.Get("showInfo"))
	s.DisableKeyboard = isChecked(form.Get("disableKeyboard"))
	s.BrandName = form.Get("brand")
	if v := form.Get("brandColor"); v != "" {
		s.BrandColor = v
	}
	if v := form.Get("playColor"); v != "" {
		s.PlayButtonColor = v
	}
	if size, err := strconv.Atoi(form.Get("playSize")); err == nil {
		s.PlayButtonSize = clampSize(size)
	}
	return s
}

func isChecked(v string) bool {
	return v == "1" || v == "on" || v == "true"
}

func clampSize(size int) int {
	if size < MinPlayButtonSize {
		return MinPlayButtonSize
	}
	if size > MaxPlayButtonSize {
		return MaxPlayButtonSize
	}
	return size
}

// Settings rebuilds an editor record that links back to this configuration.
func (c PlayerConfig) Settings() Settings {
	return Settings{
		SourceURL:       youtube.WatchURL(c.VideoID),
		Autoplay:        c.Autoplay,
		ShowControls:    c.ShowControls,
		ShowInfo:        c.ShowInfo,
		DisableKeyboard: c.DisableKeyboard,
		PlayButtonColor: c.PlayButtonColor,
		PlayButtonSize:  c.PlayButtonSize,
		BrandName:       c.BrandName,
		BrandColor:      c.BrandColor,
	}
}
