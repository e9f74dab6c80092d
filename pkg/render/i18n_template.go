package render

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-inquiry/pkg/messages"
)

// TemplateI18nConfig configures template-level translation helpers.
type TemplateI18nConfig struct {
	// LocaleKey selects the key used to read the locale when templates pass a
	// map instead of a raw string. Defaults to "locale".
	LocaleKey string
	// FuncName customizes the translator helper name (defaults to "translate").
	FuncName string
}

// TemplateI18nFuncs returns helpers for template engines:
//
//	translate(localeSrc, key, ...args) string
//	current_locale(localeSrc) string
//
// localeSrc is a locale string ("ko", "en-US") or a map holding one under
// cfg.LocaleKey. Missing keys resolve through messages.Text so a string is
// always produced.
func TemplateI18nFuncs(t messages.Translator, cfg TemplateI18nConfig) map[string]any {
	localeKey := strings.TrimSpace(cfg.LocaleKey)
	if localeKey == "" {
		localeKey = "locale"
	}
	translateName := strings.TrimSpace(cfg.FuncName)
	if translateName == "" {
		translateName = "translate"
	}

	return map[string]any{
		translateName: func(localeSrc any, key string, params ...any) string {
			key = strings.TrimSpace(key)
			if key == "" {
				return ""
			}
			return messages.Text(t, resolveLocale(localeSrc, localeKey), key, params...)
		},
		"current_locale": func(localeSrc any) string {
			return resolveLocale(localeSrc, localeKey)
		},
	}
}

func resolveLocale(src any, key string) string {
	switch data := src.(type) {
	case nil:
		return ""
	case string:
		return data
	case map[string]any:
		if v, ok := data[key]; ok && v != nil {
			return strings.TrimSpace(fmt.Sprint(v))
		}
	case map[string]string:
		return data[key]
	case Chrome:
		return data.Locale
	}
	return ""
}
