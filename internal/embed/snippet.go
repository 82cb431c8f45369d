package embed

import "fmt"

const (
	DefaultWidth  = 560
	DefaultHeight = 315

	MinWidth  = 200
	MaxWidth  = 1920
	MinHeight = 150
	MaxHeight = 1080
)

// AllowList is part of the snippet's compatibility contract; pages pasting
// the snippet rely on it verbatim.
const AllowList = "accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture; web-share"

const snippetTemplate = `<iframe 
  width="%d" 
  height="%d" 
  src="%s"
  title="Video player"
  frameborder="0"
  allow="` + AllowList + `"
  referrerpolicy="strict-origin-when-cross-origin"
  allowfullscreen
  style="border-radius: 12px; box-shadow: 0 25px 50px -12px rgba(0, 0, 0, 0.25);">
</iframe>`

type Size struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Label  string `json:"label"`
}

var SizePresets = []Size{
	{Width: 560, Height: 315, Label: "560×315 (16:9)"},
	{Width: 640, Height: 360, Label: "640×360 (16:9)"},
	{Width: 854, Height: 480, Label: "854×480 (16:9)"},
	{Width: 1280, Height: 720, Label: "1280×720 (HD)"},
}

func BuildSnippet(playerURL string, width, height int) string {
	return fmt.Sprintf(snippetTemplate, width, height, playerURL)
}

// ClampSize keeps editor-supplied dimensions inside the form's bounds.
// Zero means "use the default".
func ClampSize(width, height int) (int, int) {
	if width == 0 {
		width = DefaultWidth
	}
	if height == 0 {
		height = DefaultHeight
	}
	return clampInt(width, MinWidth, MaxWidth), clampInt(height, MinHeight, MaxHeight)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
