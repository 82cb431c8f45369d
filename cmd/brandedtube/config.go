package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "BRANDEDTUBE"

type configVar[T any] struct {
	key          string
	defaultValue T
	usage        string
}

var (
	host = configVar[string]{
		key:          "host",
		defaultValue: "0.0.0.0",
		usage:        "Listen host",
	}
	port = configVar[int]{
		key:          "port",
		defaultValue: 8080,
		usage:        "Listen port",
	}
	baseURL = configVar[string]{
		key:          "base-url",
		defaultValue: "http://localhost:8080",
		usage:        "Public origin used in generated player links",
	}
	logLevel = configVar[string]{
		key:          "log-level",
		defaultValue: "info",
		usage:        "Logging level (debug, info, warn, error)",
	}
	frameAncestors = configVar[string]{
		key:          "frame-ancestors",
		defaultValue: "*",
		usage:        "frame-ancestors sources allowed to embed the player",
	}
	pollInterval = configVar[time.Duration]{
		key:          "poll-interval",
		defaultValue: time.Second,
		usage:        "Playback progress sampling interval",
	}
	metadataEnabled = configVar[bool]{
		key:          "metadata-enabled",
		defaultValue: true,
		usage:        "Look up video titles for the player page",
	}
	metadataTTL = configVar[time.Duration]{
		key:          "metadata-ttl",
		defaultValue: 6 * time.Hour,
		usage:        "How long video metadata is cached",
	}
	redisAddr = configVar[string]{
		key:          "redis-addr",
		defaultValue: "",
		usage:        "Redis address for the metadata cache; in-memory when empty",
	}
	redisPassword = configVar[string]{
		key:          "redis-password",
		defaultValue: "",
		usage:        "Redis password",
	}
	wsRate = configVar[float64]{
		key:          "ws-rate",
		defaultValue: 1,
		usage:        "Player connections per second per client",
	}
	wsBurst = configVar[int]{
		key:          "ws-burst",
		defaultValue: 10,
		usage:        "Player connection burst per client",
	}
	apiRate = configVar[float64]{
		key:          "api-rate",
		defaultValue: 2,
		usage:        "API requests per second per client",
	}
	apiBurst = configVar[int]{
		key:          "api-burst",
		defaultValue: 20,
		usage:        "API request burst per client",
	}
)

type serveConfig struct {
	Host            string        `json:"host"`
	Port            int           `json:"port"`
	BaseURL         string        `json:"baseUrl"`
	LogLevel        string        `json:"logLevel"`
	FrameAncestors  string        `json:"frameAncestors"`
	PollInterval    time.Duration `json:"pollInterval"`
	MetadataEnabled bool          `json:"metadataEnabled"`
	MetadataTTL     time.Duration `json:"metadataTtl"`
	RedisAddr       string        `json:"redisAddr"`
	RedisPassword   string        `json:"-"`
	WSRate          float64       `json:"wsRate"`
	WSBurst         int           `json:"wsBurst"`
	APIRate         float64       `json:"apiRate"`
	APIBurst        int           `json:"apiBurst"`
}

func (c serveConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func registerServeFlags(fs *pflag.FlagSet) {
	fs.String(host.key, host.defaultValue, host.usage)
	fs.Int(port.key, port.defaultValue, port.usage)
	fs.String(baseURL.key, baseURL.defaultValue, baseURL.usage)
	fs.String(logLevel.key, logLevel.defaultValue, logLevel.usage)
	fs.String(frameAncestors.key, frameAncestors.defaultValue, frameAncestors.usage)
	fs.Duration(pollInterval.key, pollInterval.defaultValue, pollInterval.usage)
	fs.Bool(metadataEnabled.key, metadataEnabled.defaultValue, metadataEnabled.usage)
	fs.Duration(metadataTTL.key, metadataTTL.defaultValue, metadataTTL.usage)
	fs.String(redisAddr.key, redisAddr.defaultValue, redisAddr.usage)
	fs.String(redisPassword.key, redisPassword.defaultValue, redisPassword.usage)
	fs.Float64(wsRate.key, wsRate.defaultValue, wsRate.usage)
	fs.Int(wsBurst.key, wsBurst.defaultValue, wsBurst.usage)
	fs.Float64(apiRate.key, apiRate.defaultValue, apiRate.usage)
	fs.Int(apiBurst.key, apiBurst.defaultValue, apiBurst.usage)
}

// newViper layers flags over BRANDEDTUBE_* environment variables over the
// optional config file over defaults.
func newViper(fs *pflag.FlagSet, configFile string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}
	return v, nil
}

func loadServeConfig(v *viper.Viper) (serveConfig, error) {
	cfg := serveConfig{
		Host:            v.GetString(host.key),
		Port:            v.GetInt(port.key),
		BaseURL:         strings.TrimSuffix(v.GetString(baseURL.key), "/"),
		LogLevel:        v.GetString(logLevel.key),
		FrameAncestors:  v.GetString(frameAncestors.key),
		PollInterval:    v.GetDuration(pollInterval.key),
		MetadataEnabled: v.GetBool(metadataEnabled.key),
		MetadataTTL:     v.GetDuration(metadataTTL.key),
		RedisAddr:       v.GetString(redisAddr.key),
		RedisPassword:   v.GetString(redisPassword.key),
		WSRate:          v.GetFloat64(wsRate.key),
		WSBurst:         v.GetInt(wsBurst.key),
		APIRate:         v.GetFloat64(apiRate.key),
		APIBurst:        v.GetInt(apiBurst.key),
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return serveConfig{}, fmt.Errorf("invalid port %d", cfg.Port)
	}
	if cfg.PollInterval <= 0 {
		return serveConfig{}, fmt.Errorf("poll interval must be positive, got %s", cfg.PollInterval)
	}
	if _, err := parseLogLevel(cfg.LogLevel); err != nil {
		return serveConfig{}, err
	}
	return cfg, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}
