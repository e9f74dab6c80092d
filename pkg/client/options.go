package client

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/goliatone/go-inquiry/pkg/contract"
	"github.com/goliatone/go-inquiry/pkg/messages"
)

// Default endpoint paths. {token} is replaced with the escaped share token.
const (
	DefaultTemplatePath = "/api/inquiry-templates/share/{token}"
	DefaultSubmitPath   = "/api/inquiries"
)

// Option customises a Client.
type Option func(*config)

type config struct {
	httpClient   *http.Client
	logger       *zap.Logger
	templatePath string
	submitPath   string
	contract     *contract.Contract
	userAgent    string
	translator   messages.Translator
	locale       string
}

// WithHTTPClient injects the HTTP client used for every call. The client is
// used as given; no timeout is added.
func WithHTTPClient(client *http.Client) Option {
	return func(cfg *config) {
		if client != nil {
			cfg.httpClient = client
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithTemplatePath overrides the template-by-share-token path.
func WithTemplatePath(path string) Option {
	return func(cfg *config) {
		if path != "" {
			cfg.templatePath = path
		}
	}
}

// WithSubmitPath overrides the inquiry submission path.
func WithSubmitPath(path string) Option {
	return func(cfg *config) {
		if path != "" {
			cfg.submitPath = path
		}
	}
}

// WithContract validates outgoing submissions before they are sent.
func WithContract(c *contract.Contract) Option {
	return func(cfg *config) {
		cfg.contract = c
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(agent string) Option {
	return func(cfg *config) {
		cfg.userAgent = agent
	}
}

// WithMessages selects the catalog and locale for fallback messages.
func WithMessages(t messages.Translator, locale string) Option {
	return func(cfg *config) {
		if t != nil {
			cfg.translator = t
		}
		cfg.locale = locale
	}
}

func defaultConfig() config {
	return config{
		httpClient:   http.DefaultClient,
		logger:       zap.NewNop(),
		templatePath: DefaultTemplatePath,
		submitPath:   DefaultSubmitPath,
		userAgent:    "go-inquiry",
		translator:   messages.Default(),
		locale:       messages.DefaultLocale,
	}
}
