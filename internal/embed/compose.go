package embed

type View int

const (
	ViewEmpty View = iota
	ViewInvalid
	ViewPlayer
)

func (v View) String() string {
	switch v {
	case ViewEmpty:
		return "empty"
	case ViewInvalid:
		return "invalid"
	case ViewPlayer:
		return "player"
	default:
		return "unknown"
	}
}

// Composition is everything the editor renders for one Settings value.
type Composition struct {
	Settings  Settings
	View      View
	VideoID   string
	Valid     bool
	Config    PlayerConfig
	PlayerURL string
	Snippet   string
	Width     int
	Height    int
}

// Compose derives the editor view from settings. It is pure: equal inputs
// give equal outputs.
func Compose(origin string, s Settings, width, height int) Composition {
	c := Composition{Settings: s}
	c.Width, c.Height = ClampSize(width, height)

	if s.SourceURL == "" {
		c.View = ViewEmpty
		return c
	}

	cfg, ok := s.Config()
	if !ok {
		c.View = ViewInvalid
		return c
	}

	c.View = ViewPlayer
	c.Valid = true
	c.VideoID = cfg.VideoID
	c.Config = cfg
	c.PlayerURL = BuildPlayerURL(origin, cfg.VideoID, s)
	c.Snippet = BuildSnippet(c.PlayerURL, c.Width, c.Height)
	return c
}
