package bridge

import "github.com/brandedtube/brandedtube/internal/player"

// Inbound frame types.
const (
	TypeMounted   = "mounted"
	TypeUnmounted = "unmounted"
	TypeAPIReady  = "api_ready"
	TypeReady     = "ready"
	TypeState     = "state"
	TypeWidgetErr = "widget_error"
	TypeTelemetry = "telemetry"
	TypeAction    = "action"
	TypeLoad      = "load"
)

// Outbound frame types.
const (
	TypeCommand  = "command"
	TypeSnapshot = "snapshot"
	TypeError    = "error"
)

// Command names sent to the browser.
const (
	CmdLoadAPI    = "load_api"
	CmdCreate     = "create"
	CmdPlay       = "play"
	CmdPause      = "pause"
	CmdMute       = "mute"
	CmdUnmute     = "unmute"
	CmdSetVolume  = "set_volume"
	CmdSeek       = "seek"
	CmdDestroy    = "destroy"
	CmdSample     = "sample"
	CmdFullscreen = "fullscreen"
)

// Actions the viewer can trigger from the custom controls.
const (
	ActionTogglePlay = "toggle_play"
	ActionToggleMute = "toggle_mute"
	ActionVolume     = "volume"
	ActionSeek       = "seek"
	ActionRestart    = "restart"
	ActionFullscreen = "fullscreen"
)

type Command struct {
	Name           string       `json:"name"`
	Instance       string       `json:"instance,omitempty"`
	VideoID        string       `json:"videoId,omitempty"`
	Vars           *player.Vars `json:"vars,omitempty"`
	Volume         *int         `json:"volume,omitempty"`
	Seconds        *float64     `json:"seconds,omitempty"`
	AllowSeekAhead bool         `json:"allowSeekAhead,omitempty"`
	Variant        string       `json:"variant,omitempty"`
}

type Telemetry struct {
	CurrentTime float64 `json:"currentTime"`
	Duration    float64 `json:"duration"`
	Volume      int     `json:"volume"`
}

type MountedPayload struct {
	Fullscreen []string `json:"fullscreen"`
}

type WidgetEventPayload struct {
	Instance  string     `json:"instance"`
	State     int        `json:"state,omitempty"`
	Code      int        `json:"code,omitempty"`
	Telemetry *Telemetry `json:"telemetry,omitempty"`
}

type ActionPayload struct {
	Name  string  `json:"name"`
	Value float64 `json:"value,omitempty"`
}

type LoadPayload struct {
	VideoID string `json:"videoId"`
}

// ErrorPayload names the rejected frame type.
type ErrorPayload struct {
	Type    string `json:"type,omitempty"`
	Message string `json:"message"`
}
