// Package messages holds the user-facing strings surfaced by the form session,
// the REST client and the renderers. Korean is the default locale; English is
// provided for operators and tests.
package messages

import (
	"errors"
	"fmt"
	"strings"
)

// Message keys.
const (
	KeyFieldRequired      = "field.required"
	KeyContactRequired    = "contact.required"
	KeyTemplateInvalid    = "template.invalid_link"
	KeyTemplateLoadFailed = "template.load_failed"
	KeySubmitFailed       = "submit.failed"
	KeySubmitSuccess      = "submit.success"
	KeyNetworkUnknown     = "network.unknown"
	KeySubmitInFlight     = "submit.in_flight"
	KeyActionRetry        = "action.retry"
	KeyActionSubmit       = "action.submit"
	KeyFileRemove         = "action.file_remove"
)

// DefaultLocale is used when callers do not specify one.
const DefaultLocale = "ko"

// ErrMissingTranslation is returned when a key has no entry for a locale.
var ErrMissingTranslation = errors.New("messages: missing translation")

// Translator resolves a message key for a locale. Args are applied with
// fmt.Sprintf semantics.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// Catalog is a static Translator keyed by locale then message key.
type Catalog map[string]map[string]string

var defaultCatalog = Catalog{
	"ko": {
		KeyFieldRequired:      "%s은(는) 필수 항목입니다.",
		KeyContactRequired:    "연락처는 필수 입력 항목입니다.",
		KeyTemplateInvalid:    "유효하지 않은 공유 링크입니다.",
		KeyTemplateLoadFailed: "문의 양식을 불러오지 못했습니다.",
		KeySubmitFailed:       "문의 접수 중 오류가 발생했습니다.",
		KeySubmitSuccess:      "문의가 정상적으로 접수되었습니다.",
		KeyNetworkUnknown:     "알 수 없는 오류가 발생했습니다. 잠시 후 다시 시도해주세요.",
		KeySubmitInFlight:     "문의를 접수하는 중입니다.",
		KeyActionRetry:        "다시 시도",
		KeyActionSubmit:       "문의하기",
		KeyFileRemove:         "삭제",
	},
	"en": {
		KeyFieldRequired:      "%s is required.",
		KeyContactRequired:    "A contact number is required.",
		KeyTemplateInvalid:    "This share link is not valid.",
		KeyTemplateLoadFailed: "The inquiry form could not be loaded.",
		KeySubmitFailed:       "The inquiry could not be submitted.",
		KeySubmitSuccess:      "Your inquiry has been received.",
		KeyNetworkUnknown:     "An unknown error occurred. Please try again shortly.",
		KeySubmitInFlight:     "Your inquiry is being submitted.",
		KeyActionRetry:        "Retry",
		KeyActionSubmit:       "Submit",
		KeyFileRemove:         "Remove",
	},
}

// Default returns the built-in catalog.
func Default() Translator {
	return defaultCatalog
}

// Translate implements Translator.
func (c Catalog) Translate(locale, key string, args ...any) (string, error) {
	table, ok := c[normalizeLocale(locale)]
	if !ok {
		return "", fmt.Errorf("%w: locale %q", ErrMissingTranslation, locale)
	}
	format, ok := table[key]
	if !ok {
		return "", fmt.Errorf("%w: %s/%s", ErrMissingTranslation, locale, key)
	}
	if len(args) == 0 {
		return format, nil
	}
	return fmt.Sprintf(format, args...), nil
}

// Text resolves key for locale using t, falling back to the default Korean
// catalog and finally to the key itself so a message is always produced.
func Text(t Translator, locale, key string, args ...any) string {
	if strings.TrimSpace(locale) == "" {
		locale = DefaultLocale
	}
	if t != nil {
		if msg, err := t.Translate(locale, key, args...); err == nil && strings.TrimSpace(msg) != "" {
			return msg
		}
	}
	if msg, err := defaultCatalog.Translate(locale, key, args...); err == nil {
		return msg
	}
	if msg, err := defaultCatalog.Translate(DefaultLocale, key, args...); err == nil {
		return msg
	}
	return key
}

// FieldRequired formats the required-field message for label.
func FieldRequired(t Translator, locale, label string) string {
	return Text(t, locale, KeyFieldRequired, label)
}

func normalizeLocale(locale string) string {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if locale == "" {
		return DefaultLocale
	}
	if idx := strings.IndexAny(locale, "-_"); idx > 0 {
		locale = locale[:idx]
	}
	return locale
}
