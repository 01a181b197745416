package config

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/retained/internal/errors"
)

const (
	// JSONFileName and YAMLFileName are the file names Load looks for, in order.
	JSONFileName = "retained.json"
	YAMLFileName = "retained.yaml"

	DefaultHost = "localhost"
	DefaultPort = 4000
)

// Debounce modes.
const (
	DebounceMicrotask = "microtask"
	DebounceImmediate = "immediate"
)

// Config is the complete configuration file.
type Config struct {
	Server  ServerConfig  `json:"server" yaml:"server"`
	Render  RenderConfig  `json:"render" yaml:"render"`
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`
	Tracing TracingConfig `json:"tracing" yaml:"tracing"`
	Log     LogConfig     `json:"log" yaml:"log"`

	configPath string
}

// ServerConfig configures the live HTTP server.
type ServerConfig struct {
	Host string `json:"host,omitempty" yaml:"host,omitempty"`
	Port int    `json:"port,omitempty" yaml:"port,omitempty"`

	// ReadBufferSize and WriteBufferSize size the websocket buffers.
	ReadBufferSize  int `json:"readBufferSize,omitempty" yaml:"readBufferSize,omitempty"`
	WriteBufferSize int `json:"writeBufferSize,omitempty" yaml:"writeBufferSize,omitempty"`

	// AllowedOrigins lists origins accepted on upgrade. Empty means same
	// origin only; "*" accepts any.
	AllowedOrigins []string `json:"allowedOrigins,omitempty" yaml:"allowedOrigins,omitempty"`

	// ReadTimeout closes a session idle for longer than this duration.
	ReadTimeout string `json:"readTimeout,omitempty" yaml:"readTimeout,omitempty"`
}

// RenderConfig configures the reconciler of each session.
type RenderConfig struct {
	AsyncPropUpdates bool `json:"asyncPropUpdates,omitempty" yaml:"asyncPropUpdates,omitempty"`

	// Debounce is "microtask" (flush after the current task) or
	// "immediate" (flush inside the setState call).
	Debounce string `json:"debounce,omitempty" yaml:"debounce,omitempty"`
}

// MetricsConfig configures the Prometheus collector.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Path      string `json:"path,omitempty" yaml:"path,omitempty"`
}

// TracingConfig configures OpenTelemetry spans.
type TracingConfig struct {
	TracerName string `json:"tracerName,omitempty" yaml:"tracerName,omitempty"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level  string `json:"level,omitempty" yaml:"level,omitempty"`
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// New returns a configuration with every default applied.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            DefaultHost,
			Port:            DefaultPort,
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			ReadTimeout:     "60s",
		},
		Render: RenderConfig{
			Debounce: DebounceMicrotask,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: "retained",
			Path:      "/metrics",
		},
		Tracing: TracingConfig{
			TracerName: "github.com/vango-dev/retained/pkg/live",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads retained.json, or retained.yaml when there is no JSON file,
// from dir.
func Load(dir string) (*Config, error) {
	for _, name := range []string{JSONFileName, YAMLFileName} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, errors.New("C001").
		WithDetail("No " + JSONFileName + " or " + YAMLFileName + " found in " + dir).
		WithSuggestion("Create one, or run without --config to use the defaults")
}

// LoadFile reads a configuration file, choosing the decoder by extension.
// Missing fields keep their defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("C001").WithDetail(path).Wrap(err)
	}

	cfg := New()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		return nil, errors.New("C003").
			WithDetail(filepath.Base(path)).
			WithSuggestion("Use a .json, .yaml or .yml file")
	}
	if err != nil {
		return nil, errors.New("C001").
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error())
	}

	cfg.configPath = path
	cfg.applyDefaults()
	return cfg, nil
}

// Exists reports whether dir holds a configuration file.
func Exists(dir string) bool {
	for _, name := range []string{JSONFileName, YAMLFileName} {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// SaveTo writes the configuration, choosing the encoder by extension.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		return errors.New("C003").WithDetail(filepath.Base(path))
	}
	if err != nil {
		return errors.New("C002").Wrap(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.New("C001").WithDetail(path).Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the file the configuration was loaded from, if any.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults restores defaults for values a file set to empty.
func (c *Config) applyDefaults() {
	d := New()
	if c.Server.Host == "" {
		c.Server.Host = d.Server.Host
	}
	if c.Server.ReadTimeout == "" {
		c.Server.ReadTimeout = d.Server.ReadTimeout
	}
	if c.Render.Debounce == "" {
		c.Render.Debounce = d.Render.Debounce
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = d.Metrics.Path
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = d.Tracing.TracerName
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
}

// Validate checks value ranges and enumerations. Every failure is a C002
// error naming the offending field.
func (c *Config) Validate() error {
	invalid := func(field, detail string) error {
		return errors.New("C002").WithDetail(field + ": " + detail)
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return invalid("server.port", "must be between 0 and 65535")
	}
	if c.Server.ReadBufferSize < 0 || c.Server.WriteBufferSize < 0 {
		return invalid("server buffer sizes", "must not be negative")
	}
	if d, err := time.ParseDuration(c.Server.ReadTimeout); err != nil || d < 0 {
		return invalid("server.readTimeout", "must be a duration such as 60s")
	}
	switch c.Render.Debounce {
	case DebounceMicrotask, DebounceImmediate:
	default:
		return invalid("render.debounce", "must be microtask or immediate")
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return invalid("metrics.path", "must start with /")
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return invalid("log.level", "must be debug, info, warn or error")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return invalid("log.format", "must be text or json")
	}
	return nil
}

// Addr returns the host:port listen address.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// ReadTimeout returns server.readTimeout, or zero when it does not parse.
func (c *Config) ReadTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Server.ReadTimeout)
	return d
}

// Logger builds a slog logger writing to w with the configured level and
// format.
func (l LogConfig) Logger(w io.Writer) *slog.Logger {
	var lvl slog.Level
	_ = lvl.UnmarshalText([]byte(l.Level))
	opts := &slog.HandlerOptions{Level: lvl}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
