package player

import "github.com/mssola/useragent"

// FullscreenVariant names one vendor flavour of the fullscreen request.
type FullscreenVariant string

const (
	FullscreenStandard FullscreenVariant = "requestFullscreen"
	FullscreenWebkit   FullscreenVariant = "webkitRequestFullscreen"
	FullscreenMS       FullscreenVariant = "msRequestFullscreen"
)

var DefaultFullscreenVariants = []FullscreenVariant{
	FullscreenStandard,
	FullscreenWebkit,
	FullscreenMS,
}

// VariantsForUserAgent orders the variants so the one the browser most
// likely supports is tried first.
func VariantsForUserAgent(ua string) []FullscreenVariant {
	if ua == "" {
		return DefaultFullscreenVariants
	}
	name, _ := useragent.New(ua).Browser()
	switch name {
	case "Safari":
		return []FullscreenVariant{FullscreenWebkit, FullscreenStandard, FullscreenMS}
	case "Internet Explorer":
		return []FullscreenVariant{FullscreenMS, FullscreenStandard, FullscreenWebkit}
	default:
		return DefaultFullscreenVariants
	}
}

// ParseFullscreenVariant reports whether s names a known variant.
func ParseFullscreenVariant(s string) (FullscreenVariant, bool) {
	switch v := FullscreenVariant(s); v {
	case FullscreenStandard, FullscreenWebkit, FullscreenMS:
		return v, true
	}
	return "", false
}
