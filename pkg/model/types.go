package model

import (
	"fmt"
	"strings"
)

// QuestionType is the type tag carried by each question. Unknown tags are kept
// verbatim so renderers can fall back to a plain text control.
type QuestionType string

const (
	QuestionTypeText     QuestionType = "TEXT"
	QuestionTypeTextarea QuestionType = "TEXTAREA"
	QuestionTypeSelect   QuestionType = "SELECT"
	QuestionTypeRadio    QuestionType = "RADIO"
	QuestionTypeCheckbox QuestionType = "CHECKBOX"
	QuestionTypeDate     QuestionType = "DATE"
	QuestionTypeFile     QuestionType = "FILE"
	QuestionTypeEmail    QuestionType = "EMAIL"
	QuestionTypePhone    QuestionType = "PHONE"
	QuestionTypeNumber   QuestionType = "NUMBER"
	QuestionTypeRegion   QuestionType = "REGION"
)

// QuestionTypes lists the recognised tags in declaration order.
func QuestionTypes() []QuestionType {
	return []QuestionType{
		QuestionTypeText,
		QuestionTypeTextarea,
		QuestionTypeSelect,
		QuestionTypeRadio,
		QuestionTypeCheckbox,
		QuestionTypeDate,
		QuestionTypeFile,
		QuestionTypeEmail,
		QuestionTypePhone,
		QuestionTypeNumber,
		QuestionTypeRegion,
	}
}

// Known reports whether the tag is one of the recognised question types.
func (t QuestionType) Known() bool {
	for _, candidate := range QuestionTypes() {
		if candidate == t {
			return true
		}
	}
	return false
}

// HasOptions reports whether the type is an enumerated type that reads its
// choices from Question.Options.
func (t QuestionType) HasOptions() bool {
	switch t {
	case QuestionTypeSelect, QuestionTypeRadio, QuestionTypeCheckbox:
		return true
	default:
		return false
	}
}

// Role marks the business meaning of a question independent of its position.
type Role string

const (
	RoleGeneric Role = "generic"
	RoleName    Role = "name"
	RoleContact Role = "contact"
)

// Question describes one form field of a Template.
type Question struct {
	ID          int          `json:"id" yaml:"id"`
	Label       string       `json:"label" yaml:"label"`
	Type        QuestionType `json:"type" yaml:"type"`
	Required    bool         `json:"required" yaml:"required"`
	Order       int          `json:"order" yaml:"order"`
	Options     []string     `json:"options,omitempty" yaml:"options,omitempty"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	Placeholder string       `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Role        Role         `json:"role,omitempty" yaml:"role,omitempty"`
}

// Template is the ordered question set shared through a share token.
type Template struct {
	ID          int        `json:"id,omitempty" yaml:"id,omitempty"`
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	ShareToken  string     `json:"shareToken,omitempty" yaml:"shareToken,omitempty"`
	Questions   []Question `json:"questions" yaml:"questions"`
}

// Validate checks structural invariants: question ids must be unique within
// the template.
func (t Template) Validate() error {
	seen := make(map[int]struct{}, len(t.Questions))
	for idx, q := range t.Questions {
		if _, exists := seen[q.ID]; exists {
			return fmt.Errorf("model: duplicate question id %d at position %d", q.ID, idx)
		}
		seen[q.ID] = struct{}{}
	}
	return nil
}

// Question returns the question with the supplied id.
func (t Template) Question(id int) (Question, bool) {
	for _, q := range t.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// Clone returns a deep copy of the template.
func (t Template) Clone() Template {
	out := t
	if t.Questions != nil {
		out.Questions = make([]Question, len(t.Questions))
		for i, q := range t.Questions {
			out.Questions[i] = q.Clone()
		}
	}
	return out
}

// Clone returns a copy of the question that does not share the options slice.
func (q Question) Clone() Question {
	if q.Options != nil {
		q.Options = append([]string(nil), q.Options...)
	}
	return q
}

// HasOption reports whether value is one of the question's options.
func (q Question) HasOption(value string) bool {
	for _, option := range q.Options {
		if option == value {
			return true
		}
	}
	return false
}

// DisplayLabel returns the trimmed label, falling back to a generated one when
// the backend sent an empty label.
func (q Question) DisplayLabel() string {
	if label := strings.TrimSpace(q.Label); label != "" {
		return label
	}
	return fmt.Sprintf("Q%d", q.ID)
}

// Answer is a single (questionId, answerText) pair.
type Answer struct {
	QuestionID int    `json:"questionId" yaml:"questionId"`
	AnswerText string `json:"answerText" yaml:"answerText"`
}

// Submission is the payload posted to the inquiry endpoint.
type Submission struct {
	TemplateToken string   `json:"templateToken" yaml:"templateToken"`
	Phone         string   `json:"phone" yaml:"phone"`
	Answers       []Answer `json:"answers" yaml:"answers"`
}

// SubmitResult carries the backend acknowledgement of a submission.
type SubmitResult struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// Envelope is the response wrapper used by the CRM backend.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}
