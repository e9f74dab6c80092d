// Package testsupport carries fixtures, golden helpers and a fake CRM backend
// shared by the package tests.
package testsupport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-inquiry/pkg/model"
)

// ShareToken is the token the fixtures are published under.
const ShareToken = "share-token-0001"

// ContactTemplate returns the two-question template used across tests: the
// phone question sorts first even though it is second in the list.
func ContactTemplate() model.Template {
	return model.Template{
		ID:         7,
		Name:       "상담 문의",
		ShareToken: ShareToken,
		Questions: []model.Question{
			{ID: 1, Order: 2, Type: model.QuestionTypeText, Label: "이름", Required: false},
			{ID: 2, Order: 1, Type: model.QuestionTypePhone, Label: "연락처", Required: true},
		},
	}
}

// KitchenSinkTemplate returns a template carrying every known question type
// plus one unknown tag.
func KitchenSinkTemplate() model.Template {
	return model.Template{
		ID:          9,
		Name:        "매물 문의",
		Description: "<p>문의 내용을 <strong>자세히</strong> 적어주세요.</p>",
		ShareToken:  ShareToken,
		Questions: []model.Question{
			{ID: 1, Order: 1, Type: model.QuestionTypeText, Label: "이름", Required: true, Placeholder: "홍길동"},
			{ID: 2, Order: 2, Type: model.QuestionTypePhone, Label: "연락처", Required: true},
			{ID: 3, Order: 3, Type: model.QuestionTypeEmail, Label: "이메일"},
			{ID: 4, Order: 4, Type: model.QuestionTypeNumber, Label: "예산"},
			{ID: 5, Order: 5, Type: model.QuestionTypeDate, Label: "입주 희망일"},
			{ID: 6, Order: 6, Type: model.QuestionTypeTextarea, Label: "요청 사항", Description: "자유롭게 작성해주세요."},
			{ID: 7, Order: 7, Type: model.QuestionTypeSelect, Label: "매물 유형", Options: []string{"아파트", "오피스텔", "상가"}},
			{ID: 8, Order: 8, Type: model.QuestionTypeRadio, Label: "거래 방식", Options: []string{"매매", "전세", "월세"}},
			{ID: 9, Order: 9, Type: model.QuestionTypeCheckbox, Label: "관심 옵션", Options: []string{"주차", "엘리베이터", "반려동물"}},
			{ID: 10, Order: 10, Type: model.QuestionTypeFile, Label: "첨부 파일"},
			{ID: 11, Order: 11, Type: model.QuestionTypeRegion, Label: "희망 지역"},
			{ID: 12, Order: 12, Type: model.QuestionType("SIGNATURE"), Label: "서명"},
		},
	}
}

// LoadTemplate reads a JSON template fixture.
func LoadTemplate(path string) (model.Template, error) {
	if path == "" {
		return model.Template{}, errors.New("testsupport: template path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Template{}, fmt.Errorf("testsupport: read template: %w", err)
	}
	var out model.Template
	if err := json.Unmarshal(data, &out); err != nil {
		return model.Template{}, fmt.Errorf("testsupport: unmarshal template: %w", err)
	}
	return out, nil
}

// MustLoadTemplate is LoadTemplate for tests.
func MustLoadTemplate(t *testing.T, path string) model.Template {
	t.Helper()

	tpl, err := LoadTemplate(path)
	if err != nil {
		t.Fatalf("load template: %v", err)
	}
	return tpl
}

// WriteGolden writes arbitrary data to a golden file when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents. Tests can assert
// the renderer returns and writes the same payload without duplicating buffer
// setup.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
