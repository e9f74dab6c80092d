// Package config loads the settings shared by the inquiry CLI and server.
// Values are layered: defaults, an optional YAML file, an optional .env file,
// then INQUIRY_* environment variables. Command-line flags are applied on top
// by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "INQUIRY_"

// Defaults.
const (
	DefaultTemplatePath = "/api/inquiry-templates/share/{token}"
	DefaultSubmitPath   = "/api/inquiries"
	DefaultAddr         = ":8080"
	DefaultLocale       = "ko"
)

// ErrInvalid wraps validation failures.
var ErrInvalid = errors.New("config: invalid configuration")

// Config is the complete runtime configuration.
type Config struct {
	Backend  Backend  `yaml:"backend"`
	Server   Server   `yaml:"server"`
	Log      Log      `yaml:"log"`
	Render   Render   `yaml:"render"`
	Contract Contract `yaml:"contract"`
}

// Backend locates the CRM REST API.
type Backend struct {
	BaseURL      string `yaml:"base_url"`
	TemplatePath string `yaml:"template_path"`
	SubmitPath   string `yaml:"submit_path"`
}

// Server configures the HTTP front-end.
type Server struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Render selects presentation defaults.
type Render struct {
	Locale  string `yaml:"locale"`
	Theme   string `yaml:"theme"`
	Variant string `yaml:"variant"`
	// ThemeFile is a go-theme manifest (YAML) loaded at start-up.
	ThemeFile string `yaml:"theme_file"`
}

type Contract struct {
	Validate bool `yaml:"validate"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Backend: Backend{
			TemplatePath: DefaultTemplatePath,
			SubmitPath:   DefaultSubmitPath,
		},
		Server: Server{
			Addr:            DefaultAddr,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Log: Log{
			Level:  "info",
			Format: "json",
		},
		Render: Render{
			Locale: DefaultLocale,
		},
	}
}

// Option customises Load.
type Option func(*loader)

type loader struct {
	file    string
	envFile string
	lookup  func(string) (string, bool)
}

// WithFile reads a YAML file. A missing file is an error.
func WithFile(path string) Option {
	return func(l *loader) {
		l.file = path
	}
}

// WithEnvFile reads a .env file. A missing file is ignored.
func WithEnvFile(path string) Option {
	return func(l *loader) {
		l.envFile = path
	}
}

// WithLookup replaces os.LookupEnv.
func WithLookup(fn func(string) (string, bool)) Option {
	return func(l *loader) {
		if fn != nil {
			l.lookup = fn
		}
	}
}

// Load builds a Config from the configured layers and validates it.
func Load(opts ...Option) (Config, error) {
	l := loader{lookup: os.LookupEnv}
	for _, opt := range opts {
		if opt != nil {
			opt(&l)
		}
	}

	cfg := Default()
	if l.file != "" {
		data, err := os.ReadFile(l.file)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", l.file, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", l.file, err)
		}
	}

	dotenv := map[string]string{}
	if l.envFile != "" {
		values, err := godotenv.Read(l.envFile)
		switch {
		case err == nil:
			dotenv = values
		case errors.Is(err, fs.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("config: read %s: %w", l.envFile, err)
		}
	}

	lookup := func(key string) (string, bool) {
		if value, ok := l.lookup(EnvPrefix + key); ok {
			return value, true
		}
		value, ok := dotenv[EnvPrefix+key]
		return value, ok
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"BACKEND_BASE_URL":      &c.Backend.BaseURL,
		"BACKEND_TEMPLATE_PATH": &c.Backend.TemplatePath,
		"BACKEND_SUBMIT_PATH":   &c.Backend.SubmitPath,
		"SERVER_ADDR":           &c.Server.Addr,
		"LOG_LEVEL":             &c.Log.Level,
		"LOG_FORMAT":            &c.Log.Format,
		"RENDER_LOCALE":         &c.Render.Locale,
		"RENDER_THEME":          &c.Render.Theme,
		"RENDER_VARIANT":        &c.Render.Variant,
		"RENDER_THEME_FILE":     &c.Render.ThemeFile,
	}
	for key, target := range strs {
		if value, ok := lookup(key); ok {
			*target = strings.TrimSpace(value)
		}
	}

	durations := map[string]*time.Duration{
		"SERVER_READ_TIMEOUT":     &c.Server.ReadTimeout,
		"SERVER_WRITE_TIMEOUT":    &c.Server.WriteTimeout,
		"SERVER_SHUTDOWN_TIMEOUT": &c.Server.ShutdownTimeout,
	}
	for key, target := range durations {
		value, ok := lookup(key)
		if !ok {
			continue
		}
		d, err := time.ParseDuration(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%w: %s%s: %v", ErrInvalid, EnvPrefix, key, err)
		}
		*target = d
	}

	if value, ok := lookup("CONTRACT_VALIDATE"); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%w: %sCONTRACT_VALIDATE: %v", ErrInvalid, EnvPrefix, err)
		}
		c.Contract.Validate = b
	}
	return nil
}

// Validate checks the loaded values. An empty backend URL is allowed so that
// file-only commands work without one; RequireBackend enforces it.
func (c Config) Validate() error {
	if c.Backend.BaseURL != "" {
		if _, err := c.BackendURL(); err != nil {
			return err
		}
	}
	if !strings.Contains(c.Backend.TemplatePath, "{token}") {
		return fmt.Errorf("%w: backend.template_path must contain {token}", ErrInvalid)
	}
	if strings.TrimSpace(c.Backend.SubmitPath) == "" {
		return fmt.Errorf("%w: backend.submit_path is required", ErrInvalid)
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("%w: server timeouts must not be negative", ErrInvalid)
	}
	return nil
}

// RequireBackend reports an error when no backend URL is configured.
func (c Config) RequireBackend() error {
	if strings.TrimSpace(c.Backend.BaseURL) == "" {
		return fmt.Errorf("%w: backend.base_url is required (set --backend or %sBACKEND_BASE_URL)", ErrInvalid, EnvPrefix)
	}
	return nil
}

// BackendURL parses the backend base URL.
func (c Config) BackendURL() (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(c.Backend.BaseURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: backend.base_url %q is not an absolute URL", ErrInvalid, c.Backend.BaseURL)
	}
	return u, nil
}
