package form

import (
	"go.uber.org/zap"

	"github.com/goliatone/go-inquiry/pkg/fields"
	"github.com/goliatone/go-inquiry/pkg/messages"
)

// Option customises a Session.
type Option func(*config)

type config struct {
	registry   *fields.Registry
	submitter  Submitter
	logger     *zap.Logger
	translator messages.Translator
	locale     string
	contact    ContactResolver
	sessionID  string
}

// WithRegistry overrides the field controller registry.
func WithRegistry(registry *fields.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.registry = registry
		}
	}
}

// WithSubmitter sets the collaborator that receives the assembled submission.
func WithSubmitter(submitter Submitter) Option {
	return func(cfg *config) {
		cfg.submitter = submitter
	}
}

// WithLogger attaches a logger; the session id is added to every entry.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithTranslator overrides the message catalog used for validation messages.
func WithTranslator(t messages.Translator) Option {
	return func(cfg *config) {
		if t != nil {
			cfg.translator = t
		}
	}
}

// WithLocale selects the locale used for validation messages.
func WithLocale(locale string) Option {
	return func(cfg *config) {
		cfg.locale = locale
	}
}

// WithContactResolver overrides how the contact question is located.
func WithContactResolver(resolver ContactResolver) Option {
	return func(cfg *config) {
		if resolver != nil {
			cfg.contact = resolver
		}
	}
}

// WithSessionID forces the session id instead of generating one.
func WithSessionID(id string) Option {
	return func(cfg *config) {
		cfg.sessionID = id
	}
}

func defaultConfig() config {
	return config{
		registry:   fields.NewDefaultRegistry(),
		logger:     zap.NewNop(),
		translator: messages.Default(),
		locale:     messages.DefaultLocale,
		contact:    DefaultContactResolver(),
	}
}
