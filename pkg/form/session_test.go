package form_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-inquiry/pkg/form"
	"github.com/goliatone/go-inquiry/pkg/model"
)

type recordingSubmitter struct {
	mu    sync.Mutex
	calls []model.Submission
	err   error
}

func (r *recordingSubmitter) SubmitInquiry(_ context.Context, sub model.Submission) (model.SubmitResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, sub)
	if r.err != nil {
		return model.SubmitResult{}, r.err
	}
	return model.SubmitResult{Code: "SUCCESS"}, nil
}

func exampleTemplate() model.Template {
	return model.Template{
		Name: "매물 문의",
		Questions: []model.Question{
			{ID: 1, Order: 2, Type: model.QuestionTypeText, Label: "이름", Required: false},
			{ID: 2, Order: 1, Type: model.QuestionTypePhone, Label: "연락처", Required: true},
		},
	}
}

func fieldIDs(session *form.Session) []int {
	ids := []int{}
	for _, field := range session.Fields() {
		ids = append(ids, field.Question.ID)
	}
	return ids
}

func TestSession_ExampleScenario(t *testing.T) {
	submitter := &recordingSubmitter{}
	session := form.NewSession(exampleTemplate(), "share-token-1", form.WithSubmitter(submitter))

	if diff := cmp.Diff([]int{2, 1}, fieldIDs(session)); diff != "" {
		t.Fatalf("display order mismatch (-want +got):\n%s", diff)
	}

	_, err := session.Submit(context.Background())
	verr, ok := form.AsValidationError(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	if verr.Error() != "연락처는 필수 입력 항목입니다." {
		t.Fatalf("unexpected contact error %q", verr.Error())
	}
	if len(submitter.calls) != 0 {
		t.Fatalf("expected no network call, got %d", len(submitter.calls))
	}

	if err := session.Set(2, "010-1111-2222"); err != nil {
		t.Fatalf("set phone: %v", err)
	}
	result, err := session.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Code != "SUCCESS" {
		t.Fatalf("unexpected result %+v", result)
	}

	want := model.Submission{
		TemplateToken: "share-token-1",
		Phone:         "010-1111-2222",
		Answers:       []model.Answer{{QuestionID: 2, AnswerText: "010-1111-2222"}},
	}
	if len(submitter.calls) != 1 {
		t.Fatalf("expected exactly one call, got %d", len(submitter.calls))
	}
	if diff := cmp.Diff(want, submitter.calls[0]); diff != "" {
		t.Fatalf("submission mismatch (-want +got):\n%s", diff)
	}
	if !session.Completed() {
		t.Fatalf("expected completed session")
	}
	if _, err := session.Submit(context.Background()); !errors.Is(err, form.ErrAlreadySubmitted) {
		t.Fatalf("expected ErrAlreadySubmitted, got %v", err)
	}
}

func TestSession_ContactRuleIgnoresRequiredFlag(t *testing.T) {
	tpl := model.Template{
		Questions: []model.Question{
			{ID: 10, Order: 1, Type: model.QuestionTypeText, Label: "이름"},
			{ID: 11, Order: 2, Type: model.QuestionTypeText, Label: "연락 수단", Required: false},
		},
	}
	session := form.NewSession(tpl, "t")
	if err := session.Set(10, "홍길동"); err != nil {
		t.Fatalf("set: %v", err)
	}

	verr, ok := form.AsValidationError(session.Validate())
	if !ok {
		t.Fatalf("expected validation error")
	}
	if diff := cmp.Diff([]string{"연락처는 필수 입력 항목입니다."}, verr.Form); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
	if len(verr.Fields) != 0 {
		t.Fatalf("expected no field errors, got %v", verr.Fields)
	}
}

func TestSession_RequiredFieldMessages(t *testing.T) {
	tpl := model.Template{
		Questions: []model.Question{
			{ID: 1, Order: 1, Type: model.QuestionTypeText, Label: "이름", Required: true},
			{ID: 2, Order: 2, Type: model.QuestionTypePhone, Label: "연락처", Required: true},
			{ID: 3, Order: 3, Type: model.QuestionTypeCheckbox, Label: "관심 지역", Required: true, Options: []string{"강남", "분당"}},
			{ID: 4, Order: 4, Type: model.QuestionTypeFile, Label: "첨부", Required: true},
			{ID: 5, Order: 5, Type: model.QuestionTypeRegion, Label: "지역", Required: true},
		},
	}
	session := form.NewSession(tpl, "t")
	_ = session.Set(2, "010-0000-0000")

	verr, ok := form.AsValidationError(session.Validate())
	if !ok {
		t.Fatalf("expected validation error")
	}
	want := map[int][]string{
		1: {"이름은(는) 필수 항목입니다."},
		3: {"관심 지역은(는) 필수 항목입니다."},
		4: {"첨부은(는) 필수 항목입니다."},
		5: {"지역은(는) 필수 항목입니다."},
	}
	if diff := cmp.Diff(want, verr.Fields); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}
	if len(verr.Form) != 0 {
		t.Fatalf("unexpected form errors %v", verr.Form)
	}
	if verr.Error() != "이름은(는) 필수 항목입니다." {
		t.Fatalf("unexpected first message %q", verr.Error())
	}
}

func TestSession_AnswersSkipEmptyValues(t *testing.T) {
	tpl := model.Template{
		Questions: []model.Question{
			{ID: 1, Order: 3, Type: model.QuestionTypeText, Label: "이름"},
			{ID: 2, Order: 1, Type: model.QuestionTypePhone, Label: "연락처"},
			{ID: 3, Order: 2, Type: model.QuestionTypeCheckbox, Label: "옵션", Options: []string{"a", "b", "c"}},
			{ID: 4, Order: 4, Type: model.QuestionTypeRegion, Label: "지역"},
			{ID: 5, Order: 5, Type: model.QuestionTypeFile, Label: "첨부"},
			{ID: 6, Order: 6, Type: "SIGNATURE", Label: "서명"},
			{ID: 7, Order: 7, Type: model.QuestionTypeTextarea, Label: "메모"},
		},
	}
	submitter := &recordingSubmitter{}
	session := form.NewSession(tpl, "tok", form.WithSubmitter(submitter))

	mustSet(t, session, 2, "010-1234-5678")
	mustSet(t, session, 3, []string{"c", "a"})
	mustSet(t, session, 4, model.Region{Sido: "경기도", Sigungu: "성남시", Dong: "정자동"})
	mustSet(t, session, 5, []model.FileRef{{Name: "a.pdf"}, {Name: "b.png"}})
	mustSet(t, session, 6, "홍길동 서명")
	mustSet(t, session, 7, "")

	if _, err := session.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	want := []model.Answer{
		{QuestionID: 2, AnswerText: "010-1234-5678"},
		{QuestionID: 3, AnswerText: "c, a"},
		{QuestionID: 4, AnswerText: "경기도 성남시 정자동"},
		{QuestionID: 5, AnswerText: "a.pdf, b.png"},
		{QuestionID: 6, AnswerText: "홍길동 서명"},
	}
	if diff := cmp.Diff(want, submitter.calls[0].Answers); diff != "" {
		t.Fatalf("answers mismatch (-want +got):\n%s", diff)
	}
}

func TestSession_EmptyTemplate(t *testing.T) {
	session := form.NewSession(model.Template{Name: "empty"}, "tok")
	if len(session.Fields()) != 0 {
		t.Fatalf("expected no fields")
	}
	if got := session.Answers(); len(got) != 0 {
		t.Fatalf("expected no answers, got %v", got)
	}
	if _, ok := form.AsValidationError(session.Validate()); !ok {
		t.Fatalf("expected contact validation error for template without a contact question")
	}
}

func TestSession_RoleOverridesPosition(t *testing.T) {
	tpl := model.Template{
		Questions: []model.Question{
			{ID: 1, Order: 1, Type: model.QuestionTypeText, Label: "이름"},
			{ID: 2, Order: 2, Type: model.QuestionTypeText, Label: "메모"},
			{ID: 3, Order: 3, Type: model.QuestionTypePhone, Label: "휴대폰", Role: model.RoleContact},
		},
	}
	session := form.NewSession(tpl, "tok")
	mustSet(t, session, 3, "010-9999-0000")

	if got := session.Phone(); got != "010-9999-0000" {
		t.Fatalf("expected role-tagged contact, got %q", got)
	}
	if err := session.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestSession_DisplayPositionResolver(t *testing.T) {
	session := form.NewSession(exampleTemplate(), "tok",
		form.WithContactResolver(form.ContactAtDisplayPosition(1)))
	mustSet(t, session, 1, "홍길동")

	if got := session.Phone(); got != "홍길동" {
		t.Fatalf("expected second displayed question as contact, got %q", got)
	}
}

func TestSession_SubmitFailureKeepsValues(t *testing.T) {
	backendErr := errors.New("이미 접수된 문의입니다.")
	submitter := &recordingSubmitter{err: backendErr}
	session := form.NewSession(exampleTemplate(), "tok", form.WithSubmitter(submitter))
	mustSet(t, session, 2, "010-1111-2222")

	_, err := session.Submit(context.Background())
	if !errors.Is(err, backendErr) {
		t.Fatalf("expected backend error verbatim, got %v", err)
	}
	if session.Completed() {
		t.Fatalf("session must not complete on failure")
	}
	if got := session.Phone(); got != "010-1111-2222" {
		t.Fatalf("expected values kept after failure, got %q", got)
	}

	submitter.err = nil
	if _, err := session.Submit(context.Background()); err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if len(submitter.calls) != 2 {
		t.Fatalf("expected two calls, got %d", len(submitter.calls))
	}
}

func TestSession_SubmitInFlightGuard(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	var calls atomic.Int32

	submitter := form.SubmitterFunc(func(ctx context.Context, _ model.Submission) (model.SubmitResult, error) {
		calls.Add(1)
		close(entered)
		<-release
		return model.SubmitResult{Code: "SUCCESS"}, nil
	})

	session := form.NewSession(exampleTemplate(), "tok", form.WithSubmitter(submitter))
	mustSet(t, session, 2, "010-1111-2222")

	done := make(chan error, 1)
	go func() {
		_, err := session.Submit(context.Background())
		done <- err
	}()

	<-entered
	if !session.Submitting() {
		t.Fatalf("expected in-flight flag")
	}
	for i := 0; i < 3; i++ {
		if _, err := session.Submit(context.Background()); !errors.Is(err, form.ErrSubmitInFlight) {
			t.Fatalf("expected ErrSubmitInFlight, got %v", err)
		}
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected submitter invoked once, got %d", got)
	}
}

func TestSession_NoSubmitter(t *testing.T) {
	session := form.NewSession(exampleTemplate(), "tok")
	mustSet(t, session, 2, "010")
	if _, err := session.Submit(context.Background()); !errors.Is(err, form.ErrNoSubmitter) {
		t.Fatalf("expected ErrNoSubmitter, got %v", err)
	}
}

func TestSession_SetUnknownQuestion(t *testing.T) {
	session := form.NewSession(exampleTemplate(), "tok")
	if err := session.Set(99, "x"); !errors.Is(err, form.ErrUnknownQuestion) {
		t.Fatalf("expected ErrUnknownQuestion, got %v", err)
	}
}

func mustSet(t *testing.T, session *form.Session, id int, value any) {
	t.Helper()
	if err := session.Set(id, value); err != nil {
		t.Fatalf("set %d: %v", id, err)
	}
}
