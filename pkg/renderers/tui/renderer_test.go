package tui

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-inquiry/pkg/form"
	"github.com/goliatone/go-inquiry/pkg/model"
	"github.com/goliatone/go-inquiry/pkg/render"
	"github.com/goliatone/go-inquiry/pkg/testsupport"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	multiIdx     [][]int
	textAreas    []string
	infoMessages []string
	prompts      []string
	inputPos     int
	selectPos    int
	multiPos     int
	textPos      int
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) MultiSelect(_ context.Context, cfg SelectConfig) ([]int, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if s.multiPos >= len(s.multiIdx) {
		return nil, errors.New("no multiselect scripted")
	}
	val := s.multiIdx[s.multiPos]
	s.multiPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, cfg TextAreaConfig) (string, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func newTestRenderer(t *testing.T, driver PromptDriver, opts ...Option) *Renderer {
	t.Helper()
	r, err := New(append([]Option{WithPromptDriver(driver)}, opts...)...)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return r
}

func decodeSubmission(t *testing.T, out []byte) model.Submission {
	t.Helper()
	var sub model.Submission
	if err := json.Unmarshal(out, &sub); err != nil {
		t.Fatalf("decode submission: %v\n%s", err, out)
	}
	return sub
}

func TestRender_PromptsInDisplayOrder(t *testing.T) {
	driver := &stubDriver{inputs: []string{"010-1234-5678", "홍길동"}}
	r := newTestRenderer(t, driver)
	session := form.NewSession(testsupport.ContactTemplate(), testsupport.ShareToken)

	out, err := r.Render(context.Background(), session, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	if diff := cmp.Diff([]string{"연락처 *", "이름"}, driver.prompts); diff != "" {
		t.Fatalf("prompt order mismatch (-want +got):\n%s", diff)
	}

	want := model.Submission{
		TemplateToken: testsupport.ShareToken,
		Phone:         "010-1234-5678",
		Answers: []model.Answer{
			{QuestionID: 2, AnswerText: "010-1234-5678"},
			{QuestionID: 1, AnswerText: "홍길동"},
		},
	}
	if diff := cmp.Diff(want, decodeSubmission(t, out)); diff != "" {
		t.Fatalf("submission mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_KeepsTypedTextVerbatim(t *testing.T) {
	driver := &stubDriver{inputs: []string{" 010-1234-5678", "  홍길동 "}}
	r := newTestRenderer(t, driver)
	session := form.NewSession(testsupport.ContactTemplate(), testsupport.ShareToken)

	out, err := r.Render(context.Background(), session, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	want := model.Submission{
		TemplateToken: testsupport.ShareToken,
		Phone:         " 010-1234-5678",
		Answers: []model.Answer{
			{QuestionID: 2, AnswerText: " 010-1234-5678"},
			{QuestionID: 1, AnswerText: "  홍길동 "},
		},
	}
	if diff := cmp.Diff(want, decodeSubmission(t, out)); diff != "" {
		t.Fatalf("submission mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_RepromptsFailingFields(t *testing.T) {
	driver := &stubDriver{inputs: []string{"", "홍길동", "010-1"}}
	r := newTestRenderer(t, driver)
	session := form.NewSession(testsupport.ContactTemplate(), testsupport.ShareToken)

	out, err := r.Render(context.Background(), session, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	if diff := cmp.Diff([]string{"연락처 *", "이름", "연락처 *"}, driver.prompts); diff != "" {
		t.Fatalf("prompt order mismatch (-want +got):\n%s", diff)
	}
	joined := strings.Join(driver.infoMessages, "\n")
	if !strings.Contains(joined, "연락처는 필수 입력 항목입니다.") {
		t.Fatalf("expected contact message, got %q", joined)
	}
	if !strings.Contains(joined, "연락처은(는) 필수 항목입니다.") {
		t.Fatalf("expected required message, got %q", joined)
	}
	if got := decodeSubmission(t, out).Phone; got != "010-1" {
		t.Fatalf("phone = %q", got)
	}
}

func TestRender_EveryQuestionType(t *testing.T) {
	dir := t.TempDir()
	plan := filepath.Join(dir, "plan.pdf")
	if err := os.WriteFile(plan, []byte("0123456789"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	driver := &stubDriver{
		inputs: []string{
			"홍길동", "010-2222-3333", "a@example.com", "3", "2026-01-01",
			plan,
			"서울특별시", "강남구", "",
			"sig",
		},
		textAreas: []string{"남향 선호"},
		selectIdx: []int{2, 0},
		multiIdx:  [][]int{{2, 0}},
	}
	r := newTestRenderer(t, driver)
	session := form.NewSession(testsupport.KitchenSinkTemplate(), testsupport.ShareToken)

	out, err := r.Render(context.Background(), session, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	want := []model.Answer{
		{QuestionID: 1, AnswerText: "홍길동"},
		{QuestionID: 2, AnswerText: "010-2222-3333"},
		{QuestionID: 3, AnswerText: "a@example.com"},
		{QuestionID: 4, AnswerText: "3"},
		{QuestionID: 5, AnswerText: "2026-01-01"},
		{QuestionID: 6, AnswerText: "남향 선호"},
		{QuestionID: 7, AnswerText: "오피스텔"},
		{QuestionID: 9, AnswerText: "반려동물, 주차"},
		{QuestionID: 10, AnswerText: "plan.pdf"},
		{QuestionID: 11, AnswerText: "서울특별시 강남구"},
		{QuestionID: 12, AnswerText: "sig"},
	}
	sub := decodeSubmission(t, out)
	if diff := cmp.Diff(want, sub.Answers); diff != "" {
		t.Fatalf("answers mismatch (-want +got):\n%s", diff)
	}
	if sub.Phone != "010-2222-3333" {
		t.Fatalf("phone = %q", sub.Phone)
	}

	field, _ := session.Field(10)
	files, _ := field.Controller.Value().([]model.FileRef)
	if len(files) != 1 || files[0].Size != 10 || files[0].ContentType != "application/pdf" {
		t.Fatalf("unexpected file refs: %+v", files)
	}
}

type fakeInfo struct{ fs.FileInfo }

func (fakeInfo) IsDir() bool { return false }
func (fakeInfo) Size() int64 { return 42 }

func TestRender_FileStatFailureReprompts(t *testing.T) {
	tpl := model.Template{Questions: []model.Question{
		{ID: 1, Order: 1, Type: model.QuestionTypeText, Label: "이름"},
		{ID: 2, Order: 2, Type: model.QuestionTypePhone, Label: "연락처"},
		{ID: 3, Order: 3, Type: model.QuestionTypeFile, Label: "첨부"},
	}}
	stat := func(path string) (fs.FileInfo, error) {
		if path == "ok.png" {
			return fakeInfo{}, nil
		}
		return nil, fs.ErrNotExist
	}
	driver := &stubDriver{inputs: []string{"", "010", "missing.png", "ok.png"}}
	r := newTestRenderer(t, driver, WithStat(stat))

	out, err := r.Render(context.Background(), form.NewSession(tpl, "tok"), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(driver.infoMessages) != 1 || !strings.Contains(driver.infoMessages[0], "missing.png") {
		t.Fatalf("expected stat failure message, got %v", driver.infoMessages)
	}
	want := []model.Answer{
		{QuestionID: 2, AnswerText: "010"},
		{QuestionID: 3, AnswerText: "ok.png"},
	}
	if diff := cmp.Diff(want, decodeSubmission(t, out).Answers); diff != "" {
		t.Fatalf("answers mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_MaxAttempts(t *testing.T) {
	driver := &stubDriver{inputs: []string{"", ""}}
	r := newTestRenderer(t, driver, WithMaxAttempts(1))

	_, err := r.Render(context.Background(), form.NewSession(testsupport.ContactTemplate(), "tok"), render.RenderOptions{})
	if !errors.Is(err, ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
	if _, ok := form.AsValidationError(err); !ok {
		t.Fatalf("expected wrapped validation error, got %v", err)
	}
}

func TestRender_SeedsBackendErrors(t *testing.T) {
	driver := &stubDriver{inputs: []string{"010-9", "김철수"}}
	r := newTestRenderer(t, driver, WithOutputFormat(OutputFormatPrettyText))

	out, err := r.Render(context.Background(), form.NewSession(testsupport.ContactTemplate(), "tok"), render.RenderOptions{
		FormErrors: []string{"잠시 후 다시 시도해주세요."},
		Errors:     map[int][]string{1: {"이름 형식이 올바르지 않습니다."}},
		Notice:     "다시 입력해주세요.",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	wantInfo := []string{
		"다시 입력해주세요.",
		"! 잠시 후 다시 시도해주세요.",
		"! 이름 형식이 올바르지 않습니다.",
	}
	if diff := cmp.Diff(wantInfo, driver.infoMessages); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
	wantOut := "templateToken: tok\nphone: 010-9\n연락처: 010-9\n이름: 김철수\n"
	if diff := cmp.Diff(wantOut, string(out)); diff != "" {
		t.Fatalf("pretty output mismatch (-want +got):\n%s", diff)
	}
	if r.ContentType() != "text/plain; charset=utf-8" {
		t.Fatalf("content type = %q", r.ContentType())
	}
}

func TestRender_PropagatesAbort(t *testing.T) {
	r := newTestRenderer(t, &abortDriver{})
	_, err := r.Render(context.Background(), form.NewSession(testsupport.ContactTemplate(), "tok"), render.RenderOptions{})
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

type abortDriver struct{ stubDriver }

func (*abortDriver) Input(context.Context, InputConfig) (string, error) { return "", ErrAborted }

func TestPlainText(t *testing.T) {
	got := plainText(`<p>문의 &amp; <strong>상담</strong></p><script>x()</script>`)
	if got != "문의 & 상담" {
		t.Fatalf("plainText = %q", got)
	}
}
