package form

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrSubmitInFlight is returned when Submit is called while a previous
	// submission has not completed. The submitter is not invoked.
	ErrSubmitInFlight = errors.New("form: submission already in progress")
	// ErrAlreadySubmitted is returned once a session completed successfully.
	ErrAlreadySubmitted = errors.New("form: session already submitted")
	// ErrNoSubmitter is returned when Submit runs without a Submitter.
	ErrNoSubmitter = errors.New("form: submitter is not configured")
	// ErrUnknownQuestion is returned when addressing a question id the
	// template does not contain.
	ErrUnknownQuestion = errors.New("form: unknown question")
)

// ValidationError reports local validation failures. Form holds messages that
// are not tied to a single control (the contact rule); Fields holds inline
// messages keyed by question id.
type ValidationError struct {
	Form   []string
	Fields map[int][]string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if len(e.Form) > 0 {
		return e.Form[0]
	}
	ids := e.fieldIDs()
	if len(ids) > 0 {
		if msgs := e.Fields[ids[0]]; len(msgs) > 0 {
			return msgs[0]
		}
	}
	return "form: validation failed"
}

// Messages returns every message, form-level first, then fields by id.
func (e *ValidationError) Messages() []string {
	if e == nil {
		return nil
	}
	out := append([]string(nil), e.Form...)
	for _, id := range e.fieldIDs() {
		out = append(out, e.Fields[id]...)
	}
	return out
}

// FieldErrors returns the inline messages for question id.
func (e *ValidationError) FieldErrors(id int) []string {
	if e == nil || e.Fields == nil {
		return nil
	}
	return e.Fields[id]
}

func (e *ValidationError) addForm(msg string) {
	if strings.TrimSpace(msg) == "" {
		return
	}
	e.Form = append(e.Form, msg)
}

func (e *ValidationError) addField(id int, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[int][]string)
	}
	e.Fields[id] = append(e.Fields[id], msg)
}

func (e *ValidationError) empty() bool {
	return len(e.Form) == 0 && len(e.Fields) == 0
}

func (e *ValidationError) fieldIDs() []int {
	ids := make([]int, 0, len(e.Fields))
	for id := range e.Fields {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// AsValidationError unwraps err into a ValidationError.
func AsValidationError(err error) (*ValidationError, bool) {
	var target *ValidationError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

func unknownQuestion(id int) error {
	return fmt.Errorf("%w: %d", ErrUnknownQuestion, id)
}
