package player

import "errors"

// ErrNotReady is logged when a control arrives before the widget is ready.
var ErrNotReady = errors.New("player not ready")

// Widget is one externally owned player instance. Implementations must not
// invoke Events handlers from inside these methods. The getters are called
// with the adapter lock held and must not block.
type Widget interface {
	Play() error
	Pause() error
	Mute() error
	Unmute() error
	Volume() (int, error)
	SetVolume(v int) error
	CurrentTime() (float64, error)
	Duration() (float64, error)
	SeekTo(seconds float64, allowSeekAhead bool) error
	Destroy() error
}

// Sampler is implemented by widgets whose getters answer from cached
// telemetry. Each poll tick calls Sample instead of reading the getters; the
// owner calls Adapter.Refresh when the new reading has landed.
type Sampler interface {
	Sample() error
}

// Events are the callbacks a widget delivers. They may arrive on any
// goroutine, in any order, and after the widget was destroyed.
type Events struct {
	OnReady       func()
	OnStateChange func(WidgetState)
	OnError       func(code int)
}

// Factory constructs widgets once the player API is available.
type Factory interface {
	NewWidget(videoID string, vars Vars, events Events) (Widget, error)
}

// Container is the element hosting the widget.
type Container interface {
	RequestFullscreen(variant FullscreenVariant) error
}

// Vars are the player parameters handed to the widget constructor.
type Vars struct {
	Autoplay       int    `json:"autoplay"`
	Controls       int    `json:"controls"`
	ShowInfo       int    `json:"showinfo"`
	DisableKB      int    `json:"disablekb"`
	ModestBranding int    `json:"modestbranding"`
	Rel            int    `json:"rel"`
	FS             int    `json:"fs"`
	IVLoadPolicy   int    `json:"iv_load_policy"`
	CCLoadPolicy   int    `json:"cc_load_policy"`
	PlaysInline    int    `json:"playsinline"`
	EnableJSAPI    int    `json:"enablejsapi"`
	Origin         string `json:"origin,omitempty"`
}

// NewVars hides every native control; the overlay and custom controls
// replace them.
func NewVars(autoplay bool, origin string) Vars {
	v := Vars{
		Controls:       0,
		ShowInfo:       0,
		DisableKB:      1,
		ModestBranding: 1,
		Rel:            0,
		FS:             0,
		IVLoadPolicy:   3,
		CCLoadPolicy:   0,
		PlaysInline:    1,
		EnableJSAPI:    1,
		Origin:         origin,
	}
	if autoplay {
		v.Autoplay = 1
	}
	return v
}
