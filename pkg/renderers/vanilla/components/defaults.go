package components

import (
	"bytes"
	"fmt"
	"strings"
)

const templatePrefix = "templates/components/"

// NewDefaultRegistry returns a registry with a template-backed component for
// every built-in widget. The typed text widgets share the input template.
func NewDefaultRegistry() *Registry {
	registry := New()

	for _, name := range []string{NameInput, NameEmail, NameTel, NameNumber, NameDate} {
		registry.MustRegister(name, Descriptor{
			Renderer: TemplateRenderer("forms."+name, templatePrefix+"input.tmpl"),
		})
	}
	for _, name := range []string{NameTextarea, NameSelect, NameRadio, NameCheckbox, NameFile, NameRegion} {
		registry.MustRegister(name, Descriptor{
			Renderer: TemplateRenderer("forms."+name, templatePrefix+name+".tmpl"),
		})
	}
	return registry
}

// TemplateRenderer renders templateName with {field, chrome}. A theme partial
// registered under partialKey replaces the template.
func TemplateRenderer(partialKey, templateName string) Renderer {
	return func(buf *bytes.Buffer, field Field, data ComponentData) error {
		if data.Template == nil {
			return fmt.Errorf("components: template renderer not configured for %q", templateName)
		}

		resolved := templateName
		if candidate := strings.TrimSpace(data.ThemePartials[partialKey]); candidate != "" {
			resolved = candidate
		}

		rendered, err := data.Template.RenderTemplate(resolved, map[string]any{
			"field":  field,
			"chrome": data.Chrome,
		})
		if err != nil {
			return fmt.Errorf("components: render template %q: %w", resolved, err)
		}
		buf.WriteString(rendered)
		return nil
	}
}
