package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/brandedtube/brandedtube/internal/youtube"
)

const expectedLink = "https://player.example.com/player?v=dQw4w9WgXcQ&autoplay=0&controls=0&brand=Your+Brand&brandColor=%233B82F6&playColor=%233B82F6&playSize=64"

func loadFromArgs(t *testing.T, args []string, configFile string) (serveConfig, error) {
	t.Helper()
	fs := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	registerServeFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("failed to parse flags: %v", err)
	}
	v, err := newViper(fs, configFile)
	if err != nil {
		return serveConfig{}, err
	}
	return loadServeConfig(v)
}

func TestLoadServeConfigDefaults(t *testing.T) {
	cfg, err := loadFromArgs(t, nil, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Addr() != "0.0.0.0:8080" {
		t.Errorf("expected addr 0.0.0.0:8080, got %q", cfg.Addr())
	}
	if cfg.PollInterval != time.Second {
		t.Errorf("expected poll interval 1s, got %s", cfg.PollInterval)
	}
	if !cfg.MetadataEnabled {
		t.Error("expected metadata lookups enabled by default")
	}
	if cfg.FrameAncestors != "*" {
		t.Errorf("expected frame ancestors *, got %q", cfg.FrameAncestors)
	}
}

func TestLoadServeConfigFromEnv(t *testing.T) {
	t.Setenv("BRANDEDTUBE_PORT", "9090")
	t.Setenv("BRANDEDTUBE_BASE_URL", "https://videos.example.com/")
	t.Setenv("BRANDEDTUBE_POLL_INTERVAL", "250ms")

	cfg, err := loadFromArgs(t, nil, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Port)
	}
	if cfg.BaseURL != "https://videos.example.com" {
		t.Errorf("expected trailing slash trimmed, got %q", cfg.BaseURL)
	}
	if cfg.PollInterval != 250*time.Millisecond {
		t.Errorf("expected poll interval 250ms, got %s", cfg.PollInterval)
	}
}

func TestFlagsOverrideEnv(t *testing.T) {
	t.Setenv("BRANDEDTUBE_PORT", "9090")

	cfg, err := loadFromArgs(t, []string{"--port=7070"}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != 7070 {
		t.Errorf("expected flag to win with port 7070, got %d", cfg.Port)
	}
}

func TestLoadServeConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brandedtube.yaml")
	content := "port: 6060\nredis-addr: localhost:6379\nmetadata-ttl: 1h\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := loadFromArgs(t, nil, path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != 6060 {
		t.Errorf("expected port 6060, got %d", cfg.Port)
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Errorf("expected redis addr from file, got %q", cfg.RedisAddr)
	}
	if cfg.MetadataTTL != time.Hour {
		t.Errorf("expected metadata ttl 1h, got %s", cfg.MetadataTTL)
	}
}

func TestLoadServeConfigMissingFile(t *testing.T) {
	if _, err := loadFromArgs(t, nil, filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoadServeConfigRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"zero port", []string{"--port=0"}},
		{"port out of range", []string{"--port=70000"}},
		{"zero poll interval", []string{"--poll-interval=0s"}},
		{"unknown log level", []string{"--log-level=loud"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := loadFromArgs(t, tt.args, ""); err == nil {
				t.Errorf("expected error for %v", tt.args)
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := parseLogLevel(tt.input)
		if err != nil {
			t.Errorf("parseLogLevel(%q) returned error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseLogLevel(%q): expected %s, got %s", tt.input, tt.want, got)
		}
	}
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestLinkCommandText(t *testing.T) {
	out, err := runCLI(t, "link", "https://youtu.be/dQw4w9WgXcQ", "--base-url", "https://player.example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != expectedLink+"\n" {
		t.Errorf("expected %q, got %q", expectedLink+"\n", out)
	}
}

func TestLinkCommandJSON(t *testing.T) {
	out, err := runCLI(t, "link", "dQw4w9WgXcQ", "--base-url", "https://player.example.com", "--format", "json", "--controls", "--brand", "Acme")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got linkOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("failed to decode %q: %v", out, err)
	}
	if got.VideoID != "dQw4w9WgXcQ" {
		t.Errorf("expected video id dQw4w9WgXcQ, got %q", got.VideoID)
	}
	if !got.Config.ShowControls || got.Config.BrandName != "Acme" {
		t.Errorf("expected flags in config, got %+v", got.Config)
	}
	if !strings.Contains(got.PlayerURL, "controls=1&brand=Acme") {
		t.Errorf("unexpected player url %q", got.PlayerURL)
	}
}

func TestLinkCommandYAML(t *testing.T) {
	out, err := runCLI(t, "link", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "--base-url", "https://player.example.com", "-f", "yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got linkOutput
	if err := yaml.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("failed to decode %q: %v", out, err)
	}
	if got.PlayerURL != expectedLink {
		t.Errorf("expected %q, got %q", expectedLink, got.PlayerURL)
	}
	if got.Config.PlayButtonSize != 64 {
		t.Errorf("expected play button size 64, got %d", got.Config.PlayButtonSize)
	}
}

func TestLinkCommandErrors(t *testing.T) {
	_, err := runCLI(t, "link", "not a url")
	if !errors.Is(err, youtube.ErrInvalidURL) {
		t.Errorf("expected ErrInvalidURL, got %v", err)
	}

	_, err = runCLI(t, "link", "dQw4w9WgXcQ", "--format", "xml")
	if err == nil || !strings.Contains(err.Error(), "unknown format") {
		t.Errorf("expected unknown format error, got %v", err)
	}
}

func TestEmbedCommand(t *testing.T) {
	out, err := runCLI(t, "embed", "https://youtu.be/dQw4w9WgXcQ", "--base-url", "https://player.example.com", "--width", "640", "--height", "360")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"<iframe \n  width=\"640\" \n  height=\"360\" ",
		`src="` + expectedLink + `"`,
		"allowfullscreen",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got: %s", want, out)
		}
	}
}

func TestEmbedCommandClampsSize(t *testing.T) {
	out, err := runCLI(t, "embed", "dQw4w9WgXcQ", "--width", "5000", "--height", "10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `width="1920"`) || !strings.Contains(out, `height="150"`) {
		t.Errorf("expected clamped dimensions, got: %s", out)
	}
}
