package render

import (
	"fmt"
	"sort"
	"strings"
)

// TemplateTokenField is the hidden input carrying the share token back to the
// submit handler.
const TemplateTokenField = "templateToken"

// SessionIDField is the hidden input carrying the form session id, so that a
// server can recognise repeated posts of the same rendered form.
const SessionIDField = "sessionId"

// HiddenField is a hidden form input emitted before the visible fields.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// TemplateToken carries the share token under TemplateTokenField.
func TemplateToken(token string) HiddenField {
	return Hidden(TemplateTokenField, token)
}

// SessionID carries a form session id under SessionIDField.
func SessionID(id string) HiddenField {
	return Hidden(SessionIDField, id)
}

// CSRFToken carries a CSRF token under the name the backend expects, for
// example "_csrf".
func CSRFToken(name, token string) HiddenField {
	return Hidden(name, token)
}

// MergeHiddenFields returns a copy of base with fields applied. Empty names are
// ignored; later fields win on collisions.
func MergeHiddenFields(base map[string]string, fields ...HiddenField) map[string]string {
	out := make(map[string]string, len(base)+len(fields))
	for key, value := range base {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			out[trimmed] = value
		}
	}
	for _, field := range fields {
		if field.Name == "" {
			continue
		}
		out[field.Name] = field.Value
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// SortedHiddenFields returns the fields ordered by name.
func SortedHiddenFields(fields map[string]string) []HiddenField {
	if len(fields) == 0 {
		return nil
	}
	result := make([]HiddenField, 0, len(fields))
	for name, value := range fields {
		if key := strings.TrimSpace(name); key != "" {
			result = append(result, HiddenField{Name: key, Value: value})
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	if len(result) == 0 {
		return nil
	}
	return result
}
