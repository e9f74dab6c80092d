package render

import (
	"strings"

	"github.com/goliatone/go-inquiry/pkg/form"
	"github.com/goliatone/go-inquiry/pkg/messages"
)

// Chrome holds the localized strings renderers place around the fields.
type Chrome struct {
	Locale        string
	Submit        string
	Submitting    string
	Retry         string
	RemoveFile    string
	LoadFailed    string
	InvalidLink   string
	SubmitSuccess string
}

// LocalizedChrome resolves the chrome strings for locale.
func LocalizedChrome(t messages.Translator, locale string) Chrome {
	if strings.TrimSpace(locale) == "" {
		locale = messages.DefaultLocale
	}
	text := func(key string) string {
		return messages.Text(t, locale, key)
	}
	return Chrome{
		Locale:        locale,
		Submit:        text(messages.KeyActionSubmit),
		Submitting:    text(messages.KeySubmitInFlight),
		Retry:         text(messages.KeyActionRetry),
		RemoveFile:    text(messages.KeyFileRemove),
		LoadFailed:    text(messages.KeyTemplateLoadFailed),
		InvalidLink:   text(messages.KeyTemplateInvalid),
		SubmitSuccess: text(messages.KeySubmitSuccess),
	}
}

// SessionLocale picks the render locale: explicit option first, then the
// session's locale, then the default.
func SessionLocale(session *form.Session, opts RenderOptions) string {
	if locale := strings.TrimSpace(opts.Locale); locale != "" {
		return locale
	}
	if session != nil {
		if locale := strings.TrimSpace(session.Locale()); locale != "" {
			return locale
		}
	}
	return messages.DefaultLocale
}
