package form_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-inquiry/pkg/form"
	"github.com/goliatone/go-inquiry/pkg/model"
)

func TestFieldName_RoundTrip(t *testing.T) {
	if got := form.FieldName(12); got != "q-12" {
		t.Fatalf("unexpected field name %q", got)
	}
	if got := form.RegionPartName(12, form.RegionPartSido); got != "q-12-sido" {
		t.Fatalf("unexpected region part name %q", got)
	}
	for name, want := range map[string]int{"q-12": 12, "q-12-sigungu": 12, " q-3 ": 3} {
		id, ok := form.ParseFieldName(name)
		if !ok || id != want {
			t.Fatalf("ParseFieldName(%q) = %d, %v", name, id, ok)
		}
	}
	if _, ok := form.ParseFieldName("phone"); ok {
		t.Fatalf("expected non-field name to be rejected")
	}
}

func TestSession_BindPostedValues(t *testing.T) {
	tpl := model.Template{
		Questions: []model.Question{
			{ID: 1, Order: 1, Type: model.QuestionTypeText, Label: "이름"},
			{ID: 2, Order: 2, Type: model.QuestionTypePhone, Label: "연락처"},
			{ID: 3, Order: 3, Type: model.QuestionTypeCheckbox, Label: "옵션", Options: []string{"주차", "베란다"}},
			{ID: 4, Order: 4, Type: model.QuestionTypeRegion, Label: "지역"},
			{ID: 5, Order: 5, Type: model.QuestionTypeFile, Label: "첨부"},
			{ID: 6, Order: 6, Type: model.QuestionTypeRadio, Label: "거래", Options: []string{"매매", "전세"}},
		},
	}
	session := form.NewSession(tpl, "tok")

	values := map[string][]string{
		"q-1":         {"홍길동"},
		"q-2":         {"010-2222-3333"},
		"q-3":         {"베란다", "주차"},
		"q-4-sido":    {"서울특별시"},
		"q-4-sigungu": {"송파구"},
		"q-6":         {"전세"},
	}
	files := map[int][]model.FileRef{5: {{Name: "plan.pdf", Size: 10}}}

	if err := session.Bind(values, files); err != nil {
		t.Fatalf("bind: %v", err)
	}

	want := []model.Answer{
		{QuestionID: 1, AnswerText: "홍길동"},
		{QuestionID: 2, AnswerText: "010-2222-3333"},
		{QuestionID: 3, AnswerText: "베란다, 주차"},
		{QuestionID: 4, AnswerText: "서울특별시 송파구"},
		{QuestionID: 5, AnswerText: "plan.pdf"},
		{QuestionID: 6, AnswerText: "전세"},
	}
	if diff := cmp.Diff(want, session.Answers()); diff != "" {
		t.Fatalf("answers mismatch (-want +got):\n%s", diff)
	}
}

func TestSession_BindReportsForgedOptions(t *testing.T) {
	tpl := model.Template{
		Questions: []model.Question{
			{ID: 1, Order: 1, Type: model.QuestionTypeSelect, Label: "유형", Options: []string{"아파트"}},
			{ID: 2, Order: 2, Type: model.QuestionTypePhone, Label: "연락처"},
		},
	}
	session := form.NewSession(tpl, "tok")

	err := session.Bind(map[string][]string{"q-1": {"빌딩"}, "q-2": {"010"}}, nil)
	if err == nil {
		t.Fatalf("expected bind error for unknown option")
	}
	if got := session.Phone(); got != "010" {
		t.Fatalf("expected other fields to bind, got %q", got)
	}
}

func TestSession_BindKeepsEarlierFiles(t *testing.T) {
	tpl := model.Template{
		Questions: []model.Question{
			{ID: 1, Order: 1, Type: model.QuestionTypeFile, Label: "첨부"},
			{ID: 2, Order: 2, Type: model.QuestionTypePhone, Label: "연락처"},
		},
	}
	session := form.NewSession(tpl, "tok")

	values := map[string][]string{form.KeptFilesName(1): {"a.pdf"}}
	files := map[int][]model.FileRef{1: {{Name: "b.png", Size: 3}}}
	if err := session.Bind(values, files); err != nil {
		t.Fatalf("bind: %v", err)
	}

	want := []model.Answer{{QuestionID: 1, AnswerText: "a.pdf, b.png"}}
	if diff := cmp.Diff(want, session.Answers()); diff != "" {
		t.Fatalf("answers mismatch (-want +got):\n%s", diff)
	}
}
