package player

// WidgetState mirrors the state codes reported by the IFrame player.
type WidgetState int

const (
	StateUnstarted WidgetState = -1
	StateEnded     WidgetState = 0
	StatePlaying   WidgetState = 1
	StatePaused    WidgetState = 2
	StateBuffering WidgetState = 3
	StateCued      WidgetState = 5
)

func (s WidgetState) String() string {
	switch s {
	case StateUnstarted:
		return "unstarted"
	case StateEnded:
		return "ended"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateBuffering:
		return "buffering"
	case StateCued:
		return "cued"
	default:
		return "unknown"
	}
}

// PlaybackState is the adapter's mirror of the widget, used to drive the
// overlay and the custom controls.
type PlaybackState struct {
	Ready          bool    `json:"ready"`
	Playing        bool    `json:"playing"`
	Buffering      bool    `json:"buffering"`
	Muted          bool    `json:"muted"`
	Volume         int     `json:"volume"`
	CurrentTime    float64 `json:"currentTime"`
	Duration       float64 `json:"duration"`
	OverlayVisible bool    `json:"overlayVisible"`
}

const defaultVolume = 100

func initialState(autoplay bool) PlaybackState {
	return PlaybackState{
		Muted:          autoplay,
		Volume:         defaultVolume,
		OverlayVisible: true,
	}
}

// Progress returns the played percentage in [0, 100].
func (s PlaybackState) Progress() float64 {
	if s.Duration <= 0 {
		return 0
	}
	p := s.CurrentTime / s.Duration * 100
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
