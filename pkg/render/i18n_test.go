package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-inquiry/pkg/form"
	"github.com/goliatone/go-inquiry/pkg/messages"
	"github.com/goliatone/go-inquiry/pkg/render"
	"github.com/goliatone/go-inquiry/pkg/testsupport"
)

func TestTemplateI18nFuncs(t *testing.T) {
	funcs := render.TemplateI18nFuncs(messages.Default(), render.TemplateI18nConfig{})

	translate, ok := funcs["translate"].(func(any, string, ...any) string)
	if !ok {
		t.Fatalf("translate helper missing or wrong type: %T", funcs["translate"])
	}
	if got := translate("en-US", messages.KeyActionSubmit); got != "Submit" {
		t.Fatalf("translate en = %q", got)
	}
	if got := translate(map[string]any{"locale": "ko"}, messages.KeyFieldRequired, "이름"); got != "이름은(는) 필수 항목입니다." {
		t.Fatalf("translate ko = %q", got)
	}
	if got := translate("fr", "no.such.key"); got != "no.such.key" {
		t.Fatalf("missing key = %q", got)
	}

	current := funcs["current_locale"].(func(any) string)
	if got := current(map[string]string{"locale": "en"}); got != "en" {
		t.Fatalf("current_locale = %q", got)
	}
}

func TestLocalizedChrome(t *testing.T) {
	got := render.LocalizedChrome(messages.Default(), "")
	want := render.Chrome{
		Locale:        "ko",
		Submit:        "문의하기",
		Submitting:    "문의를 접수하는 중입니다.",
		Retry:         "다시 시도",
		RemoveFile:    "삭제",
		LoadFailed:    "문의 양식을 불러오지 못했습니다.",
		InvalidLink:   "유효하지 않은 공유 링크입니다.",
		SubmitSuccess: "문의가 정상적으로 접수되었습니다.",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("chrome mismatch (-want +got):\n%s", diff)
	}
}

func TestSessionLocale(t *testing.T) {
	session := form.NewSession(testsupport.ContactTemplate(), "tok", form.WithLocale("en"))
	if got := render.SessionLocale(session, render.RenderOptions{}); got != "en" {
		t.Fatalf("session locale = %q", got)
	}
	if got := render.SessionLocale(session, render.RenderOptions{Locale: "ko"}); got != "ko" {
		t.Fatalf("option locale = %q", got)
	}
	if got := render.SessionLocale(nil, render.RenderOptions{}); got != "ko" {
		t.Fatalf("default locale = %q", got)
	}
}
