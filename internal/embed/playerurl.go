package embed

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/brandedtube/brandedtube/internal/youtube"
)

const PlayerPath = "/player"

var (
	ErrMissingVideoID = errors.New("missing video id")
	ErrInvalidVideoID = errors.New("invalid video id")
)

// BuildPlayerURL renders the shareable link for the /player route. Parameter
// order is fixed so the same settings always produce the same bytes.
func BuildPlayerURL(origin, videoID string, s Settings) string {
	params := [][2]string{
		{"v", videoID},
		{"autoplay", flag(s.Autoplay)},
		{"controls", flag(s.ShowControls)},
		{"brand", orDefault(s.BrandName, DefaultBrandName)},
		{"brandColor", orDefault(s.BrandColor, DefaultColor)},
		{"playColor", orDefault(s.PlayButtonColor, DefaultColor)},
		{"playSize", strconv.Itoa(sizeOrDefault(s.PlayButtonSize))},
	}

	var b strings.Builder
	b.WriteString(strings.TrimSuffix(origin, "/"))
	b.WriteString(PlayerPath)
	for i, p := range params {
		if i == 0 {
			b.WriteByte('?')
		} else {
			b.WriteByte('&')
		}
		b.WriteString(p[0])
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p[1]))
	}
	return b.String()
}

// ParsePlayerQuery is the inverse of BuildPlayerURL. Omitted parameters take
// their defaults. The player page never shows video info and always disables
// keyboard shortcuts.
func ParsePlayerQuery(query url.Values) (PlayerConfig, error) {
	v := query.Get("v")
	if v == "" {
		return PlayerConfig{}, ErrMissingVideoID
	}
	videoID, ok := youtube.ExtractVideoID(v)
	if !ok {
		return PlayerConfig{}, ErrInvalidVideoID
	}

	size := DefaultPlayButtonSize
	if parsed, err := strconv.Atoi(query.Get("playSize")); err == nil && parsed > 0 {
		size = clampSize(parsed)
	}

	return PlayerConfig{
		VideoID:         videoID,
		Autoplay:        query.Get("autoplay") == "1",
		ShowControls:    query.Get("controls") == "1",
		ShowInfo:        false,
		DisableKeyboard: true,
		PlayButtonColor: orDefault(query.Get("playColor"), DefaultColor),
		PlayButtonSize:  size,
		BrandName:       orDefault(query.Get("brand"), DefaultBrandName),
		BrandColor:      orDefault(query.Get("brandColor"), DefaultColor),
	}, nil
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func sizeOrDefault(size int) int {
	if size <= 0 {
		return DefaultPlayButtonSize
	}
	return size
}
