package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/gorilla/websocket"

	"github.com/brandedtube/brandedtube/internal/bridge"
	"github.com/brandedtube/brandedtube/internal/ratelimit"
	"github.com/brandedtube/brandedtube/internal/server"
	"github.com/brandedtube/brandedtube/internal/youtube"
)

const testBaseURL = "https://player.test"

// --- Mock types ---

type mockPinger struct{ err error }

func (m *mockPinger) Ping(ctx context.Context) error { return m.err }

type mockMetadata struct {
	data  *youtube.VideoData
	err   error
	calls int
}

func (m *mockMetadata) Lookup(ctx context.Context, videoID string) (*youtube.VideoData, error) {
	m.calls++
	return m.data, m.err
}

// --- Helpers ---

func newServer() *server.Server {
	return server.New(server.Config{BaseURL: testBaseURL})
}

func executeRequest(srv http.Handler, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func executeRequestWithBody(srv http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to decode body %q: %v", rec.Body.String(), err)
	}
}

// --- Health ---

func TestHealthEndpointReturnsOK(t *testing.T) {
	rec := executeRequest(newServer(), http.MethodGet, "/api/health")

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"status":"ok"}` {
		t.Errorf("expected body %q, got %q", `{"status":"ok"}`, got)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type %q, got %q", "application/json", ct)
	}
}

func TestHealthEndpointWithPingFailure(t *testing.T) {
	srv := server.New(server.Config{Pinger: &mockPinger{err: errors.New("connection refused")}})
	rec := executeRequest(srv, http.MethodGet, "/api/health")

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", rec.Code)
	}
	var body map[string]string
	decodeBody(t, rec, &body)
	if body["status"] != "unhealthy" {
		t.Errorf("expected status unhealthy, got %q", body["status"])
	}
}

func TestLimitsEndpoint(t *testing.T) {
	rec := executeRequest(newServer(), http.MethodGet, "/api/limits")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var body struct {
		Fields      map[string]int `json:"fields"`
		PlaySizeMin int            `json:"playSizeMin"`
		PlaySizeMax int            `json:"playSizeMax"`
	}
	decodeBody(t, rec, &body)
	if body.Fields["url"] != 2048 || body.Fields["brandName"] != 100 {
		t.Errorf("unexpected field limits: %v", body.Fields)
	}
	if body.PlaySizeMin != 32 || body.PlaySizeMax != 128 {
		t.Errorf("expected play size bounds 32..128, got %d..%d", body.PlaySizeMin, body.PlaySizeMax)
	}
}

// --- Editor ---

func TestEditorDefaultsShowSamplePlayer(t *testing.T) {
	rec := executeRequest(newServer(), http.MethodGet, "/")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `src="https://player.test/player?v=dQw4w9WgXcQ&amp;autoplay=0&amp;controls=0`) {
		t.Errorf("expected preview iframe for the sample video, got: %s", body)
	}
	if !strings.Contains(body, "&lt;iframe") {
		t.Error("expected escaped embed snippet in the page")
	}
}

func TestEditorViews(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    string
		notWant string
	}{
		{"empty url", "/?url=", "Enter a YouTube URL to get started", "code-iframe"},
		{"invalid url", "/?url=not+a+url", "Invalid YouTube URL", "code-iframe"},
		{"short link", "/?url=" + url.QueryEscape("https://youtu.be/dQw4w9WgXcQ"), "code-iframe", "Invalid YouTube URL"},
		{"brand too long", "/?url=dQw4w9WgXcQ&brand=" + strings.Repeat("x", 101), "brand name must be 100 characters or fewer", "code-iframe"},
		{"multibyte brand", "/?url=dQw4w9WgXcQ&brand=" + url.QueryEscape(strings.Repeat("é", 60)), "code-iframe", "characters or fewer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := executeRequest(newServer(), http.MethodGet, tt.query)
			body := rec.Body.String()
			if !strings.Contains(body, tt.want) {
				t.Errorf("expected page to contain %q", tt.want)
			}
			if strings.Contains(body, tt.notWant) {
				t.Errorf("expected page not to contain %q", tt.notWant)
			}
		})
	}
}

func TestEditorUsesSubmittedSettings(t *testing.T) {
	q := url.Values{
		"url":       {"https://youtu.be/dQw4w9WgXcQ"},
		"brand":     {"Acme"},
		"controls":  {"1"},
		"width":     {"640"},
		"height":    {"360"},
		"tab":       {"url"},
		"playSize":  {"96"},
		"playColor": {"#FF0000"},
	}
	rec := executeRequest(newServer(), http.MethodGet, "/?"+q.Encode())
	body := rec.Body.String()

	for _, want := range []string{
		"controls=1",
		"brand=Acme",
		"playColor=%23FF0000",
		"playSize=96",
		`value="640"`,
		`<a href="/?brand=Acme&amp;controls=1&amp;height=360`,
		`data-tab="url" class="active"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected page to contain %q", want)
		}
	}
	if !strings.Contains(body, `class="active">640×360 (16:9)</a>`) {
		t.Error("expected the matching size preset to be active")
	}
}

func TestEditorNonceOnScript(t *testing.T) {
	rec := executeRequest(newServer(), http.MethodGet, "/")

	csp := rec.Header().Get("Content-Security-Policy")
	start := strings.Index(csp, "'nonce-")
	if start < 0 {
		t.Fatalf("expected nonce in CSP, got: %s", csp)
	}
	nonce := csp[start+len("'nonce-"):]
	nonce = nonce[:strings.Index(nonce, "'")]
	if !strings.Contains(rec.Body.String(), `<script nonce="`+nonce+`"`) {
		t.Error("expected editor script to carry the request nonce")
	}
}

// --- Player page ---

func TestPlayerPageMissingVideoRedirects(t *testing.T) {
	rec := executeRequest(newServer(), http.MethodGet, "/player")

	if rec.Code != http.StatusFound {
		t.Errorf("expected status 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("expected redirect to /, got %q", loc)
	}
}

func TestPlayerPageInvalidVideo(t *testing.T) {
	rec := executeRequest(newServer(), http.MethodGet, "/player?v=short")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "does not point at a YouTube video") {
		t.Error("expected notice page")
	}
}

func TestPlayerPageRendersBranding(t *testing.T) {
	rec := executeRequest(newServer(), http.MethodGet,
		"/player?v=dQw4w9WgXcQ&autoplay=1&controls=1&brand=Acme&brandColor=%23FF0000&playColor=%2300FF00&playSize=96")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"<title>Acme</title>",
		"Powered by Acme",
		`data-controls="1"`,
		"--brand-color: #FF0000;",
		"--play-color: #00FF00;",
		"--play-size: 96px;",
		".watermark { background: #FF000080; }",
		`type="application/json+oembed"`,
		"https://i.ytimg.com/vi/dQw4w9WgXcQ/hqdefault.jpg",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected player page to contain %q", want)
		}
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "" {
		t.Errorf("expected player page to be frameable, got X-Frame-Options %q", got)
	}
}

func TestPlayerPageRejectsInjectedColors(t *testing.T) {
	rec := executeRequest(newServer(), http.MethodGet,
		"/player?v=dQw4w9WgXcQ&brandColor="+url.QueryEscape("red;}</style><script>"))

	body := rec.Body.String()
	if strings.Contains(body, "<script>") {
		t.Error("expected injected markup to be dropped")
	}
	if !strings.Contains(body, "--brand-color: #3B82F6;") {
		t.Error("expected the default brand color")
	}
}

func TestPlayerPageTitleFromMetadata(t *testing.T) {
	meta := &mockMetadata{data: &youtube.VideoData{Title: "Never Gonna Give You Up"}}
	srv := server.New(server.Config{BaseURL: testBaseURL, Metadata: meta})

	rec := executeRequest(srv, http.MethodGet, "/player?v=dQw4w9WgXcQ&brand=Acme")

	if !strings.Contains(rec.Body.String(), "<title>Never Gonna Give You Up</title>") {
		t.Error("expected video title from metadata")
	}
	if meta.calls != 1 {
		t.Errorf("expected 1 metadata lookup, got %d", meta.calls)
	}
}

func TestPlayerPageTitleFallsBackToBrand(t *testing.T) {
	meta := &mockMetadata{err: youtube.ErrVideoNotFound}
	srv := server.New(server.Config{BaseURL: testBaseURL, Metadata: meta})

	rec := executeRequest(srv, http.MethodGet, "/player?v=dQw4w9WgXcQ&brand=Acme")

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "<title>Acme</title>") {
		t.Error("expected brand name as title")
	}
}

// --- API ---

func TestEmbedAPI(t *testing.T) {
	rec := executeRequestWithBody(newServer(), http.MethodPost, "/api/embed",
		`{"url":"https://youtu.be/dQw4w9WgXcQ","brandName":"Acme","width":640,"height":360}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		VideoID   string `json:"videoId"`
		PlayerURL string `json:"playerUrl"`
		EmbedCode string `json:"embedCode"`
	}
	decodeBody(t, rec, &body)

	if body.VideoID != "dQw4w9WgXcQ" {
		t.Errorf("expected videoId dQw4w9WgXcQ, got %q", body.VideoID)
	}
	want := "https://player.test/player?v=dQw4w9WgXcQ&autoplay=0&controls=0&brand=Acme&brandColor=%233B82F6&playColor=%233B82F6&playSize=64"
	if body.PlayerURL != want {
		t.Errorf("expected playerUrl %q, got %q", want, body.PlayerURL)
	}
	if !strings.Contains(body.EmbedCode, `width="640"`) || !strings.Contains(body.EmbedCode, want) {
		t.Errorf("unexpected embed code: %s", body.EmbedCode)
	}
}

func TestEmbedAPIValidation(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		field  string
	}{
		{"missing url", `{}`, http.StatusBadRequest, "url"},
		{"bad color", `{"url":"dQw4w9WgXcQ","brandColor":"red"}`, http.StatusBadRequest, "brandColor"},
		{"play size too big", `{"url":"dQw4w9WgXcQ","playButtonSize":500}`, http.StatusBadRequest, "playButtonSize"},
		{"width too small", `{"url":"dQw4w9WgXcQ","width":10}`, http.StatusBadRequest, "width"},
		{"brand too long", `{"url":"dQw4w9WgXcQ","brandName":"` + strings.Repeat("x", 101) + `"}`, http.StatusBadRequest, "brandName"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := executeRequestWithBody(newServer(), http.MethodPost, "/api/embed", tt.body)
			if rec.Code != tt.status {
				t.Fatalf("expected status %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
			var body struct {
				Errors []struct {
					Field string `json:"field"`
				} `json:"errors"`
			}
			decodeBody(t, rec, &body)
			if len(body.Errors) == 0 || body.Errors[0].Field != tt.field {
				t.Errorf("expected error on %q, got %+v", tt.field, body.Errors)
			}
		})
	}
}

func TestEmbedAPIAcceptsMultibyteBrandName(t *testing.T) {
	brand := strings.Repeat("é", 60)
	rec := executeRequestWithBody(newServer(), http.MethodPost, "/api/embed", `{"url":"dQw4w9WgXcQ","brandName":"`+brand+`"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Config struct {
			BrandName string `json:"brandName"`
		} `json:"config"`
	}
	decodeBody(t, rec, &body)
	if body.Config.BrandName != brand {
		t.Errorf("expected brand name %q, got %q", brand, body.Config.BrandName)
	}
}

func TestEmbedAPIUnrecognisedURL(t *testing.T) {
	rec := executeRequestWithBody(newServer(), http.MethodPost, "/api/embed", `{"url":"not a url"}`)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected status 422, got %d", rec.Code)
	}
}

func TestEmbedAPIRejectsUnknownFields(t *testing.T) {
	rec := executeRequestWithBody(newServer(), http.MethodPost, "/api/embed", `{"url":"dQw4w9WgXcQ","extra":true}`)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
}

func TestAPIRateLimit(t *testing.T) {
	srv := server.New(server.Config{BaseURL: testBaseURL, APILimiter: ratelimit.NewLimiter(0.001, 1)})

	first := executeRequestWithBody(srv, http.MethodPost, "/api/embed", `{"url":"dQw4w9WgXcQ"}`)
	second := executeRequestWithBody(srv, http.MethodPost, "/api/embed", `{"url":"dQw4w9WgXcQ"}`)

	if first.Code != http.StatusOK {
		t.Errorf("expected first request 200, got %d", first.Code)
	}
	if second.Code != http.StatusTooManyRequests {
		t.Errorf("expected second request 429, got %d", second.Code)
	}
}

// --- oEmbed ---

func TestOEmbed(t *testing.T) {
	meta := &mockMetadata{data: &youtube.VideoData{Title: "Song", AuthorName: "Rick"}}
	srv := server.New(server.Config{BaseURL: testBaseURL, Metadata: meta})
	target := testBaseURL + "/player?v=dQw4w9WgXcQ&brand=Acme"

	rec := executeRequest(srv, http.MethodGet, "/oembed?maxwidth=320&url="+url.QueryEscape(target))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body map[string]any
	decodeBody(t, rec, &body)

	if body["type"] != "video" || body["version"] != "1.0" {
		t.Errorf("unexpected type/version: %v %v", body["type"], body["version"])
	}
	if body["title"] != "Song" || body["author_name"] != "Rick" || body["provider_name"] != "Acme" {
		t.Errorf("unexpected metadata: %v", body)
	}
	if body["width"] != float64(320) || body["height"] != float64(180) {
		t.Errorf("expected 320x180, got %vx%v", body["width"], body["height"])
	}
	if html, _ := body["html"].(string); !strings.Contains(html, `width="320"`) {
		t.Errorf("expected snippet sized to maxwidth, got %q", html)
	}
}

func TestOEmbedErrors(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		status int
	}{
		{"not a player url", "/oembed?url=" + url.QueryEscape("https://player.test/other"), http.StatusNotFound},
		{"invalid video", "/oembed?url=" + url.QueryEscape("https://player.test/player?v=bad"), http.StatusNotFound},
		{"xml format", "/oembed?format=xml&url=" + url.QueryEscape("https://player.test/player?v=dQw4w9WgXcQ"), http.StatusNotImplemented},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := executeRequest(newServer(), http.MethodGet, tt.query)
			if rec.Code != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, rec.Code)
			}
		})
	}
}

// --- Assets ---

func TestAssets(t *testing.T) {
	srv := server.New(server.Config{AssetsFS: fstest.MapFS{
		"player.js": {Data: []byte("console.log('player')")},
	}})

	rec := executeRequest(srv, http.MethodGet, "/assets/player.js")
	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "console.log") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "public, max-age=3600" {
		t.Errorf("expected cache header, got %q", cc)
	}

	rec = executeRequest(srv, http.MethodGet, "/assets/missing.js")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}
}

// --- Websocket ---

func TestPlayerSocketRejectsInvalidQuery(t *testing.T) {
	rec := executeRequest(newServer(), http.MethodGet, "/player/ws?v=nope")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
}

func TestPlayerSocketRateLimit(t *testing.T) {
	srv := server.New(server.Config{WSLimiter: ratelimit.NewLimiter(0.001, 1)})

	executeRequest(srv, http.MethodGet, "/player/ws?v=dQw4w9WgXcQ")
	rec := executeRequest(srv, http.MethodGet, "/player/ws?v=dQw4w9WgXcQ")

	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("expected status 429, got %d", rec.Code)
	}
}

func TestPlayerSocketRequestsAPI(t *testing.T) {
	ts := httptest.NewServer(server.New(server.Config{PollInterval: time.Hour}))
	t.Cleanup(ts.Close)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/player/ws?v=dQw4w9WgXcQ&autoplay=1"
	ws, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}
	t.Cleanup(func() { _ = ws.Close() })
	_ = ws.SetReadDeadline(time.Now().Add(5 * time.Second))

	for i := 0; i < 5; i++ {
		var frame bridge.Frame
		if err := ws.ReadJSON(&frame); err != nil {
			t.Fatalf("failed to read frame: %v", err)
		}
		if frame.Type != bridge.TypeCommand {
			continue
		}
		var cmd bridge.Command
		if err := json.Unmarshal(frame.Payload, &cmd); err != nil {
			t.Fatalf("failed to decode command: %v", err)
		}
		if cmd.Name != bridge.CmdLoadAPI {
			t.Errorf("expected first command %q, got %q", bridge.CmdLoadAPI, cmd.Name)
		}
		return
	}
	t.Fatal("expected a load_api command")
}
