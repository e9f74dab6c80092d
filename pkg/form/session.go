package form

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-inquiry/pkg/fields"
	"github.com/goliatone/go-inquiry/pkg/messages"
	"github.com/goliatone/go-inquiry/pkg/model"
)

// Field is a question bound to its controller.
type Field struct {
	Question   model.Question
	Descriptor fields.Descriptor
	Controller fields.Controller
	// Position is the question's index in the template as fetched.
	Position int
}

// Widget returns the widget name the renderer should emit.
func (f *Field) Widget() string {
	return f.Descriptor.Widget
}

// Session holds the state of one form render/submit cycle.
type Session struct {
	id       string
	template model.Template
	token    string
	cfg      config
	logger   *zap.Logger

	fields []*Field
	byID   map[int]*Field

	inFlight  atomic.Bool
	completed atomic.Bool
}

// NewSession binds tpl to a new session. The template is copied; questions are
// ordered ascending by Order with ties kept in template order. An empty
// question list is valid and yields a session without fields.
func NewSession(tpl model.Template, token string, options ...Option) *Session {
	cfg := defaultConfig()
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.sessionID == "" {
		cfg.sessionID = uuid.NewString()
	}

	s := &Session{
		id:       cfg.sessionID,
		template: tpl.Clone(),
		token:    token,
		cfg:      cfg,
		byID:     make(map[int]*Field, len(tpl.Questions)),
	}
	s.logger = cfg.logger.With(
		zap.String("session", s.id),
		zap.String("token", model.ShortToken(token)),
	)

	positions := make(map[int]int, len(tpl.Questions))
	for idx, q := range s.template.Questions {
		if _, seen := positions[q.ID]; !seen {
			positions[q.ID] = idx
		}
	}

	for _, q := range s.template.SortedQuestions() {
		if _, dup := s.byID[q.ID]; dup {
			s.logger.Warn("duplicate question id ignored", zap.Int("question", q.ID))
			continue
		}
		ctrl, descriptor := cfg.registry.Bind(q)
		if !q.Type.Known() {
			s.logger.Debug("unknown question type rendered as text",
				zap.Int("question", q.ID), zap.String("type", string(q.Type)))
		}
		field := &Field{
			Question:   q,
			Descriptor: descriptor,
			Controller: ctrl,
			Position:   positions[q.ID],
		}
		s.fields = append(s.fields, field)
		s.byID[q.ID] = field
	}

	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Token returns the share token the session submits with.
func (s *Session) Token() string { return s.token }

// Template returns a copy of the bound template.
func (s *Session) Template() model.Template { return s.template.Clone() }

// Locale returns the locale used for messages.
func (s *Session) Locale() string { return s.cfg.locale }

// Translator returns the message translator.
func (s *Session) Translator() messages.Translator { return s.cfg.translator }

// Fields returns the bound fields in display order.
func (s *Session) Fields() []*Field {
	return append([]*Field(nil), s.fields...)
}

// Field returns the bound field for question id.
func (s *Session) Field(id int) (*Field, bool) {
	field, ok := s.byID[id]
	return field, ok
}

// Set writes value into the controller of question id.
func (s *Session) Set(id int, value any) error {
	field, ok := s.byID[id]
	if !ok {
		return unknownQuestion(id)
	}
	return field.Controller.Set(value)
}

// Values returns the current controller values keyed by question id.
func (s *Session) Values() map[int]any {
	out := make(map[int]any, len(s.fields))
	for _, field := range s.fields {
		out[field.Question.ID] = field.Controller.Value()
	}
	return out
}

// Submitting reports whether a submission is outstanding.
func (s *Session) Submitting() bool { return s.inFlight.Load() }

// Completed reports whether the session was submitted successfully.
func (s *Session) Completed() bool { return s.completed.Load() }

// ContactField returns the field whose value is submitted as the phone.
func (s *Session) ContactField() (*Field, bool) {
	sorted := make([]model.Question, 0, len(s.fields))
	for _, field := range s.fields {
		sorted = append(sorted, field.Question)
	}
	q, ok := s.cfg.contact(s.template, sorted)
	if !ok {
		return nil, false
	}
	return s.Field(q.ID)
}

// Phone returns the normalized contact value, or "" when absent.
func (s *Session) Phone() string {
	field, ok := s.ContactField()
	if !ok {
		return ""
	}
	return field.Controller.Normalize()
}

// Validate runs the on-submit checks: the contact rule and required fields.
// It returns nil or a *ValidationError.
func (s *Session) Validate() error {
	verr := &ValidationError{}

	if s.Phone() == "" {
		verr.addForm(messages.Text(s.cfg.translator, s.cfg.locale, messages.KeyContactRequired))
	}

	for _, field := range s.fields {
		if field.Question.Required && field.Controller.Empty() {
			verr.addField(field.Question.ID,
				messages.FieldRequired(s.cfg.translator, s.cfg.locale, field.Question.DisplayLabel()))
		}
	}

	if verr.empty() {
		return nil
	}
	return verr
}

// Answers returns one Answer per question with a non-empty value, in display
// order.
func (s *Session) Answers() []model.Answer {
	answers := make([]model.Answer, 0, len(s.fields))
	for _, field := range s.fields {
		text := field.Controller.Normalize()
		if text == "" {
			continue
		}
		answers = append(answers, model.Answer{
			QuestionID: field.Question.ID,
			AnswerText: text,
		})
	}
	return answers
}

// Submission assembles the payload without validating it.
func (s *Session) Submission() model.Submission {
	return model.Submission{
		TemplateToken: s.token,
		Phone:         s.Phone(),
		Answers:       s.Answers(),
	}
}

// Submit validates the session and hands the submission to the Submitter. A
// call made while another is outstanding returns ErrSubmitInFlight without
// reaching the submitter. Submitter errors are returned unchanged and the
// values are kept so the caller can resubmit; on success the values are
// discarded and the session is marked completed.
func (s *Session) Submit(ctx context.Context) (model.SubmitResult, error) {
	if s.completed.Load() {
		return model.SubmitResult{}, ErrAlreadySubmitted
	}
	if !s.inFlight.CompareAndSwap(false, true) {
		s.logger.Debug("submit ignored while in flight")
		return model.SubmitResult{}, ErrSubmitInFlight
	}
	defer s.inFlight.Store(false)

	if err := s.Validate(); err != nil {
		s.logger.Debug("submission rejected locally", zap.Error(err))
		return model.SubmitResult{}, err
	}
	if s.cfg.submitter == nil {
		return model.SubmitResult{}, ErrNoSubmitter
	}

	submission := s.Submission()
	s.logger.Info("submitting inquiry", zap.Int("answers", len(submission.Answers)))

	result, err := s.cfg.submitter.SubmitInquiry(ctx, submission)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			s.logger.Warn("inquiry submission failed", zap.Error(err))
		}
		return model.SubmitResult{}, err
	}

	s.completed.Store(true)
	for _, field := range s.fields {
		field.Controller.Reset()
	}
	s.logger.Info("inquiry submitted", zap.String("code", result.Code))
	return result, nil
}
