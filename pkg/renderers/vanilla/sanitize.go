package vanilla

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policyOnce sync.Once
	textPolicy *bluemonday.Policy
	richPolicy *bluemonday.Policy
)

func policies() (*bluemonday.Policy, *bluemonday.Policy) {
	policyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()

		rich := bluemonday.UGCPolicy()
		rich.RequireNoFollowOnLinks(true)
		rich.AddTargetBlankToFullyQualifiedLinks(true)
		richPolicy = rich
	})
	return textPolicy, richPolicy
}

// sanitizeText strips every tag from backend-supplied text such as labels and
// option captions. The result is HTML-escaped and safe to emit as-is.
func sanitizeText(raw string) string {
	text, _ := policies()
	return strings.TrimSpace(text.Sanitize(raw))
}

// sanitizeRich keeps basic formatting in descriptions.
func sanitizeRich(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	_, rich := policies()
	return strings.TrimSpace(rich.Sanitize(trimmed))
}
