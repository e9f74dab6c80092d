package render

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-inquiry/pkg/form"
	"github.com/goliatone/go-inquiry/pkg/model"
)

// ErrorMapping splits a backend validation payload into per-question and
// form-level messages.
type ErrorMapping struct {
	Fields map[int][]string
	Form   []string
}

// MergeFormErrors concatenates form-level messages, trimming whitespace and
// removing duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// MapErrorPayload resolves backend error keys to question ids of session.
//
// Accepted keys:
//
//	answers[2], answers.2, /body/answers/2   index into the submitted answer list
//	answers[2].answerText                     same
//	questionId:7, q-7, 7                      question id
//	phone                                     the contact question
//
// Anything else, including keys naming unknown questions, becomes a form-level
// message so nothing is lost.
func MapErrorPayload(session *form.Session, payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{Fields: make(map[int][]string)}
	if len(payload) == 0 || session == nil {
		mapping.Fields = nil
		return mapping
	}

	answers := session.Answers()
	for rawKey, messages := range payload {
		normalized := normalizeMessages(messages)
		if len(normalized) == 0 {
			continue
		}

		id, ok := resolveKey(session, answers, rawKey)
		if !ok {
			mapping.Form = append(mapping.Form, normalized...)
			continue
		}
		mapping.Fields[id] = normalizeMessages(append(mapping.Fields[id], normalized...))
	}

	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

func resolveKey(session *form.Session, answers []model.Answer, raw string) (int, bool) {
	key := strings.TrimSpace(raw)
	if isFormLevelKey(key) {
		return 0, false
	}

	segments := dropWrapperSegments(parsePathSegments(key))
	if len(segments) == 0 {
		return 0, false
	}

	head := strings.ToLower(segments[0])
	switch {
	case head == "phone" || head == "contact":
		if field, ok := session.ContactField(); ok {
			return field.Question.ID, true
		}
		return 0, false
	case head == "answers" && len(segments) > 1:
		idx, err := strconv.Atoi(segments[1])
		if err != nil || idx < 0 || idx >= len(answers) {
			return 0, false
		}
		return answers[idx].QuestionID, true
	}

	if id, ok := form.ParseFieldName(segments[0]); ok {
		return knownQuestion(session, id)
	}
	if rest, found := strings.CutPrefix(head, "questionid:"); found {
		if id, err := strconv.Atoi(strings.TrimSpace(rest)); err == nil {
			return knownQuestion(session, id)
		}
		return 0, false
	}
	if id, err := strconv.Atoi(segments[0]); err == nil {
		return knownQuestion(session, id)
	}
	return 0, false
}

func knownQuestion(session *form.Session, id int) (int, bool) {
	if _, ok := session.Field(id); ok {
		return id, true
	}
	return 0, false
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

func parsePathSegments(path string) []string {
	clean := strings.TrimSpace(path)
	clean = strings.TrimPrefix(clean, "#/")
	clean = strings.TrimPrefix(clean, "$.")
	clean = strings.TrimLeft(clean, "#/.$")

	replacer := strings.NewReplacer("[", ".", "]", "")
	clean = strings.Trim(replacer.Replace(clean), "./")
	if clean == "" {
		return nil
	}

	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if segment := strings.TrimSpace(part); segment != "" {
			out = append(out, segment)
		}
	}
	return out
}

func dropWrapperSegments(segments []string) []string {
	for len(segments) > 0 {
		switch strings.ToLower(segments[0]) {
		case "body", "request", "payload", "data":
			segments = segments[1:]
			continue
		}
		break
	}
	return segments
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "templatetoken", "__all__", "non_field_errors", "non-field-errors":
		return true
	default:
		return false
	}
}
