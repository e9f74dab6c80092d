package server

import (
	"io/fs"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-inquiry/pkg/form"
	"github.com/goliatone/go-inquiry/pkg/messages"
)

const (
	// DefaultMaxUploadBytes bounds multipart bodies kept in memory.
	DefaultMaxUploadBytes = 32 << 20
	// DefaultTemplateFresh is how long a fetched template serves submissions
	// without a refetch.
	DefaultTemplateFresh = 5 * time.Minute
	// DefaultTemplateRetain is how long a fetched template stays available as
	// a fallback when a refetch fails.
	DefaultTemplateRetain = 24 * time.Hour
)

// Option customises a Server.
type Option func(*config)

type config struct {
	logger          *zap.Logger
	renderer        HTMLRenderer
	translator      messages.Translator
	locale          string
	themeName       string
	themeVariant    string
	assets          fs.FS
	sessionOptions  []form.Option
	maxUploadBytes  int64
	readTimeout     time.Duration
	writeTimeout    time.Duration
	shutdownTimeout time.Duration
	templateFresh   time.Duration
	templateRetain  time.Duration
}

// WithLogger sets the server logger.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithRenderer replaces the HTML renderer.
func WithRenderer(renderer HTMLRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.renderer = renderer
		}
	}
}

// WithMessages sets the catalog and default locale of user-facing text.
func WithMessages(t messages.Translator, locale string) Option {
	return func(cfg *config) {
		if t != nil {
			cfg.translator = t
		}
		if locale != "" {
			cfg.locale = locale
		}
	}
}

// WithTheme selects the theme passed to the renderer.
func WithTheme(name, variant string) Option {
	return func(cfg *config) {
		cfg.themeName = name
		cfg.themeVariant = variant
	}
}

// WithAssets replaces the files served under /assets/.
func WithAssets(assets fs.FS) Option {
	return func(cfg *config) {
		if assets != nil {
			cfg.assets = assets
		}
	}
}

// WithSessionOptions adds options to every form session the server creates,
// e.g. a custom field registry or contact resolver.
func WithSessionOptions(opts ...form.Option) Option {
	return func(cfg *config) {
		cfg.sessionOptions = append(cfg.sessionOptions, opts...)
	}
}

// WithMaxUploadBytes bounds multipart parsing.
func WithMaxUploadBytes(n int64) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.maxUploadBytes = n
		}
	}
}

// WithTimeouts configures the http.Server built by Serve.
func WithTimeouts(read, write, shutdown time.Duration) Option {
	return func(cfg *config) {
		cfg.readTimeout = read
		cfg.writeTimeout = write
		if shutdown > 0 {
			cfg.shutdownTimeout = shutdown
		}
	}
}

// WithTemplateCache tunes how submissions reuse templates fetched for the
// form page. Within fresh a POST submits against the cached copy without a
// backend fetch; after that it refetches and falls back to the cached copy
// if the fetch fails. Entries older than retain are dropped.
func WithTemplateCache(fresh, retain time.Duration) Option {
	return func(cfg *config) {
		if fresh >= 0 {
			cfg.templateFresh = fresh
		}
		if retain > 0 {
			cfg.templateRetain = retain
		}
	}
}

func defaultConfig() config {
	return config{
		logger:          zap.NewNop(),
		translator:      messages.Default(),
		locale:          messages.DefaultLocale,
		maxUploadBytes:  DefaultMaxUploadBytes,
		readTimeout:     10 * time.Second,
		writeTimeout:    30 * time.Second,
		shutdownTimeout: 10 * time.Second,
		templateFresh:   DefaultTemplateFresh,
		templateRetain:  DefaultTemplateRetain,
	}
}
