package render

// RenderOptions carry per-request data. The session supplies values and
// questions; options only decorate the output.
type RenderOptions struct {
	// Action is the form submit URL. Empty means the current URL.
	Action string
	// Method defaults to POST.
	Method string
	// Locale selects the chrome strings; empty falls back to the session locale.
	Locale string
	// Errors holds inline messages keyed by question id.
	Errors map[int][]string
	// FormErrors are shown above the fields, e.g. the contact rule or a
	// backend message.
	FormErrors []string
	// Notice is an informational banner.
	Notice string
	// Hidden inputs emitted before the fields, sorted by name.
	Hidden map[string]string
	// ThemeName and ThemeVariant select a registered theme.
	ThemeName    string
	ThemeVariant string
}

// PageKind identifies a full-page state.
type PageKind string

const (
	PageError    PageKind = "error"
	PageComplete PageKind = "complete"
)

// Page describes a full-page state rendered instead of the form.
type Page struct {
	Kind    PageKind
	Title   string
	Message string
	// RetryURL re-issues the template fetch; only used by error pages.
	RetryURL     string
	Locale       string
	ThemeName    string
	ThemeVariant string
}

// WithValidation folds a validation failure into the options.
func (o RenderOptions) WithValidation(fields map[int][]string, formErrors []string) RenderOptions {
	if len(fields) > 0 {
		merged := make(map[int][]string, len(o.Errors)+len(fields))
		for id, msgs := range o.Errors {
			merged[id] = append([]string(nil), msgs...)
		}
		for id, msgs := range fields {
			merged[id] = normalizeMessages(append(merged[id], msgs...))
		}
		o.Errors = merged
	}
	o.FormErrors = MergeFormErrors(o.FormErrors, formErrors...)
	return o
}
