// Package tui fills an inquiry session interactively in a terminal and emits
// the resulting submission payload.
package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io/fs"
	"mime"
	"path/filepath"
	"strings"
	"sync"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/goliatone/go-inquiry/pkg/fields"
	"github.com/goliatone/go-inquiry/pkg/form"
	"github.com/goliatone/go-inquiry/pkg/model"
	"github.com/goliatone/go-inquiry/pkg/render"
)

// Name is the registry name of the renderer.
const Name = "tui"

// SkipOption is offered first on optional single-choice questions and leaves
// the answer empty.
const SkipOption = "-"

const filesHelp = "쉼표로 구분된 파일 경로"

var (
	textPolicy     *bluemonday.Policy
	textPolicyOnce sync.Once
)

// Renderer implements render.Renderer for terminal-driven sessions.
type Renderer struct {
	driver       PromptDriver
	stdin        terminal.FileReader
	stdout       terminal.FileWriter
	outputFormat OutputFormat
	theme        Theme
	maxAttempts  int
	stat         StatFunc
	logger       *zap.Logger
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		stat:         defaultStat,
		logger:       zap.NewNop(),
		theme:        Theme{ErrorPrefix: "! "},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = newSurveyDriver(r.stdin, r.stdout)
	}
	switch r.outputFormat {
	case OutputFormatJSON, OutputFormatPrettyText:
	default:
		return nil, fmt.Errorf("tui: unsupported output format %q", r.outputFormat)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return Name
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	if r.outputFormat == OutputFormatPrettyText {
		return "text/plain; charset=utf-8"
	}
	return "application/json"
}

// Render prompts every field in display order and writes the answers into
// session. Validation runs once all fields were visited; failing fields (and
// the contact field for the contact rule) are prompted again until the
// session validates. The returned bytes are the submission payload.
func (r *Renderer) Render(ctx context.Context, session *form.Session, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if session == nil {
		return nil, errors.New("tui: session is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	state := NewState(opts.Errors, opts.FormErrors)
	if opts.Notice != "" {
		if err := r.info(ctx, opts.Notice); err != nil {
			return nil, err
		}
	}
	if err := r.reportErrors(ctx, state.FormErrors()); err != nil {
		return nil, err
	}

	pending := session.Fields()
	for round := 1; ; round++ {
		for _, field := range pending {
			if err := r.reportErrors(ctx, state.ErrorsFor(field.Question.ID)); err != nil {
				return nil, err
			}
			if err := r.promptField(ctx, session, field); err != nil {
				return nil, err
			}
		}

		err := session.Validate()
		if err == nil {
			break
		}
		verr, ok := form.AsValidationError(err)
		if !ok {
			return nil, err
		}
		r.logger.Debug("tui validation round failed",
			zap.Int("round", round),
			zap.Strings("messages", verr.Messages()),
		)
		if r.maxAttempts > 0 && round >= r.maxAttempts {
			return nil, fmt.Errorf("%w: %w", ErrTooManyAttempts, verr)
		}

		state.Apply(verr)
		if err := r.reportErrors(ctx, state.FormErrors()); err != nil {
			return nil, err
		}
		pending = state.Pending(session)
		if len(pending) == 0 {
			// Nothing the user can change fixes this round.
			return nil, verr
		}
	}

	return r.serialize(session)
}

func (r *Renderer) promptField(ctx context.Context, session *form.Session, field *form.Field) error {
	switch field.Controller.Kind() {
	case fields.KindStrings:
		return r.promptCheckbox(ctx, session, field)
	case fields.KindFiles:
		return r.promptFiles(ctx, session, field)
	case fields.KindRegion:
		return r.promptRegion(ctx, session, field)
	}

	switch field.Widget() {
	case fields.WidgetSelect, fields.WidgetRadio:
		if len(field.Question.Options) > 0 {
			return r.promptChoice(ctx, session, field)
		}
	case fields.WidgetTextarea:
		return r.promptTextArea(ctx, session, field)
	}
	return r.promptText(ctx, session, field)
}

func (r *Renderer) promptText(ctx context.Context, session *form.Session, field *form.Field) error {
	current, _ := field.Controller.Value().(string)
	for {
		response, err := r.driver.Input(ctx, InputConfig{
			Message: promptLabel(field.Question),
			Default: current,
			Help:    plainText(field.Question.Description),
		})
		if err != nil {
			return err
		}
		if err := r.set(ctx, session, field, response); err != nil {
			continue
		}
		return nil
	}
}

func (r *Renderer) promptTextArea(ctx context.Context, session *form.Session, field *form.Field) error {
	current, _ := field.Controller.Value().(string)
	for {
		response, err := r.driver.TextArea(ctx, TextAreaConfig{
			Message: promptLabel(field.Question),
			Default: current,
			Help:    plainText(field.Question.Description),
		})
		if err != nil {
			return err
		}
		if err := r.set(ctx, session, field, response); err != nil {
			continue
		}
		return nil
	}
}

func (r *Renderer) promptChoice(ctx context.Context, session *form.Session, field *form.Field) error {
	q := field.Question
	options := append([]string(nil), q.Options...)
	offset := 0
	if !q.Required {
		options = append([]string{SkipOption}, options...)
		offset = 1
	}
	current, _ := field.Controller.Value().(string)
	defaultIndex := 0
	if idx := indexOf(q.Options, current); idx >= 0 {
		defaultIndex = idx + offset
	}

	for {
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      promptLabel(q),
			Options:      options,
			DefaultIndex: defaultIndex,
			Help:         plainText(q.Description),
		})
		if err != nil {
			return err
		}
		value := ""
		if idx >= offset && idx < len(options) {
			value = options[idx]
		}
		if err := r.set(ctx, session, field, value); err != nil {
			continue
		}
		return nil
	}
}

func (r *Renderer) promptCheckbox(ctx context.Context, session *form.Session, field *form.Field) error {
	q := field.Question
	current, _ := field.Controller.Value().([]string)
	defaults := make([]int, 0, len(current))
	for _, value := range current {
		if idx := indexOf(q.Options, value); idx >= 0 {
			defaults = append(defaults, idx)
		}
	}

	for {
		picked, err := r.driver.MultiSelect(ctx, SelectConfig{
			Message:  promptLabel(q),
			Options:  q.Options,
			Defaults: defaults,
			Help:     plainText(q.Description),
		})
		if err != nil {
			return err
		}
		if err := r.set(ctx, session, field, defaultsFromIndices(q.Options, picked)); err != nil {
			continue
		}
		return nil
	}
}

func (r *Renderer) promptFiles(ctx context.Context, session *form.Session, field *form.Field) error {
	help := filesHelp
	if desc := plainText(field.Question.Description); desc != "" {
		help = desc + " (" + filesHelp + ")"
	}

	for {
		response, err := r.driver.Input(ctx, InputConfig{
			Message: promptLabel(field.Question),
			Help:    help,
		})
		if err != nil {
			return err
		}
		paths := splitPaths(response)
		if len(paths) == 0 {
			// An empty answer keeps whatever was attached before.
			return nil
		}
		refs, err := r.fileRefs(paths)
		if err != nil {
			if err := r.reportErrors(ctx, []string{err.Error()}); err != nil {
				return err
			}
			continue
		}
		if err := r.set(ctx, session, field, refs); err != nil {
			continue
		}
		return nil
	}
}

func (r *Renderer) promptRegion(ctx context.Context, session *form.Session, field *form.Field) error {
	var current model.Region
	if region, ok := field.Controller.Value().(*model.Region); ok && region != nil {
		current = *region
	}
	label := promptLabel(field.Question)

	parts := []struct {
		name   string
		target *string
	}{
		{name: "시/도", target: &current.Sido},
		{name: "시/군/구", target: &current.Sigungu},
		{name: "읍/면/동", target: &current.Dong},
	}
	for _, part := range parts {
		response, err := r.driver.Input(ctx, InputConfig{
			Message: label + " " + part.name,
			Default: *part.target,
			Help:    plainText(field.Question.Description),
		})
		if err != nil {
			return err
		}
		*part.target = strings.TrimSpace(response)
	}
	return r.set(ctx, session, field, current)
}

func (r *Renderer) set(ctx context.Context, session *form.Session, field *form.Field, value any) error {
	err := session.Set(field.Question.ID, value)
	if err == nil {
		return nil
	}
	if reportErr := r.reportErrors(ctx, []string{err.Error()}); reportErr != nil {
		return reportErr
	}
	return err
}

func (r *Renderer) fileRefs(paths []string) ([]model.FileRef, error) {
	refs := make([]model.FileRef, 0, len(paths))
	for _, path := range paths {
		info, err := r.stat(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%w: %s is a directory", ErrFileNotFound, path)
		}
		refs = append(refs, fileRef(path, info))
	}
	return refs, nil
}

func fileRef(path string, info fs.FileInfo) model.FileRef {
	return model.FileRef{
		Name:        filepath.Base(path),
		Size:        info.Size(),
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
	}
}

func (r *Renderer) reportErrors(ctx context.Context, msgs []string) error {
	for _, msg := range msgs {
		if err := r.driver.Info(ctx, r.theme.ErrorPrefix+msg); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) info(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, r.theme.InfoPrefix+msg)
}

func (r *Renderer) serialize(session *form.Session) ([]byte, error) {
	submission := session.Submission()
	if r.outputFormat == OutputFormatPrettyText {
		return prettySubmission(session, submission), nil
	}
	out, err := json.MarshalIndent(submission, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("tui: encode submission: %w", err)
	}
	return out, nil
}

func prettySubmission(session *form.Session, submission model.Submission) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "templateToken: %s\n", submission.TemplateToken)
	fmt.Fprintf(&b, "phone: %s\n", submission.Phone)
	for _, answer := range submission.Answers {
		label := fmt.Sprintf("#%d", answer.QuestionID)
		if field, ok := session.Field(answer.QuestionID); ok {
			label = plainText(field.Question.DisplayLabel())
		}
		fmt.Fprintf(&b, "%s: %s\n", label, answer.AnswerText)
	}
	return []byte(b.String())
}

func promptLabel(q model.Question) string {
	label := plainText(q.DisplayLabel())
	if q.Required {
		label += " *"
	}
	return label
}

// plainText strips markup from backend-provided text for terminal output.
func plainText(value string) string {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(value)))
}

func splitPaths(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
