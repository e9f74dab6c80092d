package messages_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-inquiry/pkg/messages"
)

type stubTranslator map[string]string

func (s stubTranslator) Translate(_ string, key string, _ ...any) (string, error) {
	if msg, ok := s[key]; ok {
		return msg, nil
	}
	return "", errors.New("missing translation")
}

func TestFieldRequired_DefaultKorean(t *testing.T) {
	got := messages.FieldRequired(nil, "", "이름")
	if got != "이름은(는) 필수 항목입니다." {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestText_FallsBackToCatalogAndKey(t *testing.T) {
	custom := stubTranslator{messages.KeyActionSubmit: "보내기"}

	if got := messages.Text(custom, "ko", messages.KeyActionSubmit); got != "보내기" {
		t.Fatalf("expected custom translation, got %q", got)
	}
	if got := messages.Text(custom, "ko", messages.KeyContactRequired); got != "연락처는 필수 입력 항목입니다." {
		t.Fatalf("expected catalog fallback, got %q", got)
	}
	if got := messages.Text(custom, "fr", messages.KeyTemplateInvalid); got != "유효하지 않은 공유 링크입니다." {
		t.Fatalf("expected default locale fallback, got %q", got)
	}
	if got := messages.Text(nil, "ko", "unknown.key"); got != "unknown.key" {
		t.Fatalf("expected key fallback, got %q", got)
	}
}

func TestCatalog_LocaleNormalisation(t *testing.T) {
	got, err := messages.Default().Translate("en-US", messages.KeyActionRetry)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if got != "Retry" {
		t.Fatalf("unexpected translation %q", got)
	}

	if _, err := messages.Default().Translate("de", messages.KeyActionRetry); !errors.Is(err, messages.ErrMissingTranslation) {
		t.Fatalf("expected ErrMissingTranslation, got %v", err)
	}
}
