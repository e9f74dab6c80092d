// Package source resolves inquiry templates from the CRM backend or from local
// JSON/YAML files.
package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-inquiry/pkg/model"
)

// Format identifies a template encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Source yields a Template.
type Source interface {
	Load(ctx context.Context) (model.Template, error)
}

// Fetcher is the subset of the REST client used by Remote.
type Fetcher interface {
	FetchTemplate(ctx context.Context, token string) (model.Template, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (model.Template, error)

// Load implements Source.
func (f SourceFunc) Load(ctx context.Context) (model.Template, error) {
	return f(ctx)
}

// Remote loads the template shared under token. Backend errors are returned
// unchanged so callers can surface their messages.
func Remote(fetcher Fetcher, token string) Source {
	return SourceFunc(func(ctx context.Context) (model.Template, error) {
		if fetcher == nil {
			return model.Template{}, errors.New("source: fetcher is nil")
		}
		return fetcher.FetchTemplate(ctx, token)
	})
}

// File loads a template from disk. The extension selects the decoder.
func File(path string) Source {
	return SourceFunc(func(ctx context.Context) (model.Template, error) {
		if path == "" {
			return model.Template{}, errors.New("source: file path is required")
		}
		if err := ctx.Err(); err != nil {
			return model.Template{}, err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return model.Template{}, fmt.Errorf("source: read %s: %w", path, err)
		}
		return Decode(data, FormatFromPath(path))
	})
}

// FS loads a template from a path inside fsys.
func FS(fsys fs.FS, name string) Source {
	return SourceFunc(func(ctx context.Context) (model.Template, error) {
		if fsys == nil {
			return model.Template{}, errors.New("source: filesystem is not configured")
		}
		if name == "" {
			return model.Template{}, errors.New("source: fs path is required")
		}
		if err := ctx.Err(); err != nil {
			return model.Template{}, err
		}
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return model.Template{}, fmt.Errorf("source: read %s: %w", name, err)
		}
		return Decode(data, FormatFromPath(name))
	})
}

// FormatFromPath picks YAML for .yaml/.yml and JSON otherwise.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// document accepts both a bare template and the backend envelope.
type document struct {
	model.Template `yaml:",inline"`
	Success        *bool           `json:"success,omitempty" yaml:"success,omitempty"`
	Data           *model.Template `json:"data,omitempty" yaml:"data,omitempty"`
}

// Decode parses a template payload. Envelopes of the form
// {"success": true, "data": {...}} are unwrapped.
func Decode(data []byte, format Format) (model.Template, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return model.Template{}, errors.New("source: template payload is empty")
	}

	var doc document
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return model.Template{}, fmt.Errorf("source: decode yaml: %w", err)
		}
	default:
		var envelope struct {
			Success *bool           `json:"success"`
			Data    *model.Template `json:"data"`
		}
		if err := json.Unmarshal(data, &envelope); err != nil {
			return model.Template{}, fmt.Errorf("source: decode json: %w", err)
		}
		if envelope.Data == nil {
			if err := json.Unmarshal(data, &doc.Template); err != nil {
				return model.Template{}, fmt.Errorf("source: decode json: %w", err)
			}
		}
		doc.Success, doc.Data = envelope.Success, envelope.Data
	}

	tpl := doc.Template
	if doc.Data != nil {
		if doc.Success != nil && !*doc.Success {
			return model.Template{}, errors.New("source: envelope reports failure")
		}
		tpl = *doc.Data
	}
	if err := tpl.Validate(); err != nil {
		return model.Template{}, fmt.Errorf("source: %w", err)
	}
	return tpl, nil
}

// Encode writes tpl in the requested format.
func Encode(tpl model.Template, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		out, err := yaml.Marshal(tpl)
		if err != nil {
			return nil, fmt.Errorf("source: encode yaml: %w", err)
		}
		return out, nil
	default:
		out, err := json.MarshalIndent(tpl, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("source: encode json: %w", err)
		}
		return append(out, '\n'), nil
	}
}
