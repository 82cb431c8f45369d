package server

import (
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"github.com/brandedtube/brandedtube/internal/embed"
	"github.com/brandedtube/brandedtube/internal/httputil"
	"github.com/brandedtube/brandedtube/internal/validate"
)

const (
	tabIframe = "iframe"
	tabURL    = "url"

	emptyURLMessage   = "Enter a YouTube URL to get started"
	invalidURLMessage = "Invalid YouTube URL. Paste a youtube.com or youtu.be link, or an 11-character video ID."
)

type sizePresetLink struct {
	Label  string
	Href   string
	Active bool
}

type editorPageData struct {
	Nonce       string
	Composition embed.Composition
	Tab         string
	Message     string
	MessageKind string
	Presets     []sizePresetLink
	PlaySizeMin int
	PlaySizeMax int
	MaxURLLen   int
	MaxBrandLen int
	MinWidth    int
	MaxWidth    int
	MinHeight   int
	MaxHeight   int
}

var editorPageTemplate = template.Must(template.New("editor").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <title>Branded Player</title>
    <link rel="stylesheet" href="/assets/app.css">
</head>
<body>
<div class="layout">
    <form id="settings" class="panel" method="get" action="/">
        <h2>Player settings</h2>
        <input type="hidden" id="tab-field" name="tab" value="{{.Tab}}">
        {{with .Composition.Settings}}
        <label class="field">YouTube URL
            <input type="url" name="url" value="{{.SourceURL}}" maxlength="{{$.MaxURLLen}}" placeholder="https://www.youtube.com/watch?v=...">
        </label>
        <div>
            <h3>Playback</h3>
            <label class="toggle">Autoplay <input type="checkbox" name="autoplay" value="1"{{if .Autoplay}} checked{{end}}></label>
            <label class="toggle">Show controls <input type="checkbox" name="controls" value="1"{{if .ShowControls}} checked{{end}}></label>
            <label class="toggle">Show video info <input type="checkbox" name="showInfo" value="1"{{if .ShowInfo}} checked{{end}}></label>
            <label class="toggle">Disable keyboard <input type="checkbox" name="disableKeyboard" value="1"{{if .DisableKeyboard}} checked{{end}}></label>
        </div>
        <div>
            <h3>Branding</h3>
            <label class="field">Brand name
                <input type="text" name="brand" value="{{.BrandName}}" maxlength="{{$.MaxBrandLen}}">
            </label>
            <label class="field">Brand color
                <input type="color" name="brandColor" value="{{.BrandColor}}">
            </label>
            <label class="field">Play button color
                <input type="color" name="playColor" value="{{.PlayButtonColor}}">
            </label>
            <label class="field">Play button size: {{.PlayButtonSize}}px
                <input type="range" name="playSize" min="{{$.PlaySizeMin}}" max="{{$.PlaySizeMax}}" value="{{.PlayButtonSize}}">
            </label>
        </div>
        {{end}}
        <div>
            <h3>Embed size</h3>
            <div class="dims">
                <label class="field">Width (px)
                    <input type="number" name="width" min="{{.MinWidth}}" max="{{.MaxWidth}}" value="{{.Composition.Width}}">
                </label>
                <label class="field">Height (px)
                    <input type="number" name="height" min="{{.MinHeight}}" max="{{.MaxHeight}}" value="{{.Composition.Height}}">
                </label>
            </div>
            <div class="sizes">
                {{range .Presets}}<a href="{{.Href}}"{{if .Active}} class="active"{{end}}>{{.Label}}</a>{{end}}
            </div>
        </div>
        <noscript><button type="submit">Update</button></noscript>
    </form>
    <main class="main">
        {{if .Message}}
        <div class="message {{.MessageKind}}">{{.Message}}</div>
        {{else}}
        <div class="preview">
            <iframe src="{{.Composition.PlayerURL}}" title="Player preview" allow="autoplay; encrypted-media; picture-in-picture" allowfullscreen></iframe>
        </div>
        <section class="code">
            <div class="tabs">
                <button type="button" data-tab="iframe"{{if eq .Tab "iframe"}} class="active"{{end}}>Embed code</button>
                <button type="button" data-tab="url"{{if eq .Tab "url"}} class="active"{{end}}>Direct URL</button>
                <a href="{{.Composition.PlayerURL}}" target="_blank" rel="noopener noreferrer">Open player</a>
            </div>
            <div data-pane="iframe"{{if ne .Tab "iframe"}} class="hidden"{{end}}>
                <pre id="code-iframe">{{.Composition.Snippet}}</pre>
                <button type="button" class="copy-btn" data-copy="code-iframe">Copy code</button>
            </div>
            <div data-pane="url"{{if ne .Tab "url"}} class="hidden"{{end}}>
                <pre id="code-url">{{.Composition.PlayerURL}}</pre>
                <button type="button" class="copy-btn" data-copy="code-url">Copy URL</button>
            </div>
        </section>
        {{end}}
    </main>
</div>
<script nonce="{{.Nonce}}" src="/assets/editor.js"></script>
</body>
</html>`))

func (s *Server) handleEditor(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	settings := embed.SettingsFromForm(query)
	width, _ := strconv.Atoi(query.Get("width"))
	height, _ := strconv.Atoi(query.Get("height"))

	c := embed.Compose(s.origin(r), settings, width, height)

	data := editorPageData{
		Nonce:       httputil.NonceFromContext(r.Context()),
		Composition: c,
		Tab:         editorTab(query.Get("tab")),
		Presets:     presetLinks(query, c.Width, c.Height),
		PlaySizeMin: embed.MinPlayButtonSize,
		PlaySizeMax: embed.MaxPlayButtonSize,
		MaxURLLen:   validate.MaxSourceURLLength,
		MaxBrandLen: validate.MaxBrandNameLength,
		MinWidth:    embed.MinWidth,
		MaxWidth:    embed.MaxWidth,
		MinHeight:   embed.MinHeight,
		MaxHeight:   embed.MaxHeight,
	}
	switch c.View {
	case embed.ViewEmpty:
		data.Message, data.MessageKind = emptyURLMessage, "warn"
	case embed.ViewInvalid:
		data.Message, data.MessageKind = invalidURLMessage, "error"
	}
	if msg := lengthMessage(settings); msg != "" {
		data.Message, data.MessageKind = msg, "error"
	}

	httputil.RenderHTML(w, http.StatusOK, editorPageTemplate, data)
}

// lengthMessage reports the first over-long text field. The form enforces
// maxlength, but a hand-edited query string does not.
func lengthMessage(s embed.Settings) string {
	if msg := validate.SourceURL(s.SourceURL); msg != "" {
		return msg
	}
	return validate.BrandName(s.BrandName)
}

func editorTab(tab string) string {
	if tab == tabURL {
		return tabURL
	}
	return tabIframe
}

// presetLinks keeps every other editor field and swaps in the preset's dimensions.
func presetLinks(query url.Values, width, height int) []sizePresetLink {
	links := make([]sizePresetLink, 0, len(embed.SizePresets))
	for _, p := range embed.SizePresets {
		q := url.Values{}
		for k, v := range query {
			q[k] = v
		}
		q.Set("width", strconv.Itoa(p.Width))
		q.Set("height", strconv.Itoa(p.Height))
		links = append(links, sizePresetLink{
			Label:  p.Label,
			Href:   "/?" + q.Encode(),
			Active: p.Width == width && p.Height == height,
		})
	}
	return links
}
