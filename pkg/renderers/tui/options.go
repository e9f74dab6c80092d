package tui

import (
	"io/fs"
	"os"

	"github.com/AlecAivazis/survey/v2/terminal"
	"go.uber.org/zap"
)

// OutputFormat controls how the collected submission is serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits the submission payload as JSON.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatPrettyText emits a human-friendly summary.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// Theme holds optional message prefixes.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// StatFunc resolves a path picked for a FILE question.
type StatFunc func(path string) (fs.FileInfo, error)

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithStdio points the default survey driver at the given terminal.
func WithStdio(in terminal.FileReader, out terminal.FileWriter) Option {
	return func(r *Renderer) {
		r.stdin = in
		r.stdout = out
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithTheme applies message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}

// WithMaxAttempts bounds the validation rounds. Zero means unlimited.
func WithMaxAttempts(n int) Option {
	return func(r *Renderer) {
		if n >= 0 {
			r.maxAttempts = n
		}
	}
}

// WithStat replaces os.Stat for FILE answers.
func WithStat(fn StatFunc) Option {
	return func(r *Renderer) {
		if fn != nil {
			r.stat = fn
		}
	}
}

// WithLogger sets the renderer logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func defaultStat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}
