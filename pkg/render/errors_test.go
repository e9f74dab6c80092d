package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-inquiry/pkg/form"
	"github.com/goliatone/go-inquiry/pkg/render"
	"github.com/goliatone/go-inquiry/pkg/testsupport"
)

func TestMapErrorPayload(t *testing.T) {
	session := form.NewSession(testsupport.KitchenSinkTemplate(), testsupport.ShareToken)
	for id, value := range map[int]string{1: "홍길동", 2: "010-1111-2222", 6: "주차 가능 여부"} {
		if err := session.Set(id, value); err != nil {
			t.Fatalf("set %d: %v", id, err)
		}
	}

	payload := map[string][]string{
		"answers[2].answerText": {"too long"},
		"/body/answers/0":       {"name looks odd"},
		"phone":                 {"invalid phone"},
		"questionId:3":          {"bad email"},
		"q-4":                   {" budget ", "budget"},
		"5":                     {"date in the past"},
		"99":                    {"unknown question"},
		"answers[40]":           {"out of range"},
		"non_field_errors":      {"duplicate inquiry"},
		"":                      {"  "},
	}

	mapped := render.MapErrorPayload(session, payload)

	wantFields := map[int][]string{
		6: {"too long"},
		1: {"name looks odd"},
		2: {"invalid phone"},
		3: {"bad email"},
		4: {"budget"},
		5: {"date in the past"},
	}
	if diff := cmp.Diff(wantFields, mapped.Fields); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}

	wantForm := []string{"duplicate inquiry", "out of range", "unknown question"}
	if diff := cmp.Diff(wantForm, mapped.Form, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
}

func TestMapErrorPayload_Empty(t *testing.T) {
	session := form.NewSession(testsupport.ContactTemplate(), testsupport.ShareToken)
	mapped := render.MapErrorPayload(session, nil)
	if mapped.Fields != nil || mapped.Form != nil {
		t.Fatalf("expected empty mapping, got %+v", mapped)
	}
}

func TestMergeFormErrors(t *testing.T) {
	merged := render.MergeFormErrors([]string{" First ", "Second"}, "Second", "third", "  ")
	want := []string{"First", "Second", "third"}

	if diff := cmp.Diff(want, merged); diff != "" {
		t.Fatalf("merged form errors mismatch (-want +got):\n%s", diff)
	}
}

func TestWithValidation(t *testing.T) {
	opts := render.RenderOptions{Errors: map[int][]string{1: {"a"}}, FormErrors: []string{"x"}}
	got := opts.WithValidation(map[int][]string{1: {"b", "a"}, 2: {"c"}}, []string{"y", "x"})

	want := render.RenderOptions{
		Errors:     map[int][]string{1: {"a", "b"}, 2: {"c"}},
		FormErrors: []string{"x", "y"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[int][]string{1: {"a"}}, opts.Errors); diff != "" {
		t.Fatalf("original options mutated:\n%s", diff)
	}
}
