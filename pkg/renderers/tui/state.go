package tui

import (
	"sort"

	"github.com/goliatone/go-inquiry/pkg/form"
)

// State tracks the messages that still need the user's attention between
// validation rounds: inline messages keyed by question id and form-level
// messages such as the contact rule.
type State struct {
	fields map[int][]string
	form   []string
}

// NewState seeds the state with messages carried in from a previous attempt,
// usually a backend rejection mapped through render.MapErrorPayload.
func NewState(fieldErrs map[int][]string, formErrs []string) *State {
	s := &State{}
	s.replace(fieldErrs, formErrs)
	return s
}

// ErrorsFor returns the inline messages for question id.
func (s *State) ErrorsFor(id int) []string {
	if s == nil {
		return nil
	}
	return s.fields[id]
}

// FormErrors returns the messages not tied to a single question.
func (s *State) FormErrors() []string {
	if s == nil {
		return nil
	}
	return s.form
}

// Apply replaces the tracked messages with the result of a validation round.
func (s *State) Apply(verr *form.ValidationError) {
	if verr == nil {
		s.replace(nil, nil)
		return
	}
	s.replace(verr.Fields, verr.Form)
}

// Empty reports whether nothing is pending.
func (s *State) Empty() bool {
	return s == nil || (len(s.fields) == 0 && len(s.form) == 0)
}

// Pending returns the fields to prompt again, in display order. Form-level
// messages re-prompt the contact field.
func (s *State) Pending(session *form.Session) []*form.Field {
	if s.Empty() || session == nil {
		return nil
	}
	ids := make(map[int]struct{}, len(s.fields)+1)
	for id := range s.fields {
		ids[id] = struct{}{}
	}
	if len(s.form) > 0 {
		if contact, ok := session.ContactField(); ok {
			ids[contact.Question.ID] = struct{}{}
		}
	}

	var out []*form.Field
	for _, field := range session.Fields() {
		if _, ok := ids[field.Question.ID]; ok {
			out = append(out, field)
		}
	}
	return out
}

// IDs returns the question ids with inline messages, sorted.
func (s *State) IDs() []int {
	if s == nil {
		return nil
	}
	ids := make([]int, 0, len(s.fields))
	for id := range s.fields {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (s *State) replace(fieldErrs map[int][]string, formErrs []string) {
	s.fields = make(map[int][]string, len(fieldErrs))
	for id, msgs := range fieldErrs {
		if len(msgs) == 0 {
			continue
		}
		s.fields[id] = append([]string(nil), msgs...)
	}
	s.form = append([]string(nil), formErrs...)
}
