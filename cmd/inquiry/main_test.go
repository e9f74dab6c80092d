package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-inquiry/pkg/renderers/tui"
	"github.com/goliatone/go-inquiry/pkg/testsupport"
)

type scriptedInputs struct {
	answers []string
	pos     int
}

func (s *scriptedInputs) Input(_ context.Context, _ tui.InputConfig) (string, error) {
	if s.pos >= len(s.answers) {
		return "", errors.New("no input scripted")
	}
	v := s.answers[s.pos]
	s.pos++
	return v, nil
}

func (s *scriptedInputs) Select(context.Context, tui.SelectConfig) (int, error) {
	return -1, errors.New("unexpected select")
}

func (s *scriptedInputs) MultiSelect(context.Context, tui.SelectConfig) ([]int, error) {
	return nil, errors.New("unexpected multiselect")
}

func (s *scriptedInputs) TextArea(context.Context, tui.TextAreaConfig) (string, error) {
	return "", errors.New("unexpected textarea")
}

func (s *scriptedInputs) Info(context.Context, string) error { return nil }

func run(t *testing.T, a *app, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(a)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	base := []string{"--env-file", filepath.Join(t.TempDir(), "missing.env"), "--log-level", "error"}
	cmd.SetArgs(append(args, base...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestFetch_YAML(t *testing.T) {
	backend := testsupport.NewBackend(t)
	backend.AddTemplate(testsupport.ShareToken, testsupport.ContactTemplate())

	out, err := run(t, &app{}, "fetch", testsupport.ShareToken, "--format", "yaml", "--backend", backend.URL())
	require.NoError(t, err)
	require.Contains(t, out, "shareToken: "+testsupport.ShareToken)
	require.Contains(t, out, "연락처")
	require.Equal(t, 1, backend.Fetches(testsupport.ShareToken))
}

func TestFetch_RejectsUnknownFormat(t *testing.T) {
	_, err := run(t, &app{}, "fetch", "abc", "--format", "xml", "--backend", "http://127.0.0.1:1")
	require.ErrorContains(t, err, "unsupported format")
}

func TestFetch_RequiresBackend(t *testing.T) {
	t.Setenv("INQUIRY_BACKEND_BASE_URL", "")
	_, err := run(t, &app{}, "fetch", "abc")
	require.Error(t, err)
}

func TestRender_FromFile(t *testing.T) {
	file := filepath.Join("..", "..", "pkg", "source", "testdata", "contact.yaml")
	out, err := run(t, &app{}, "render", "--file", file, "--fragment")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(strings.TrimSpace(out), "<form"), out)
	require.Less(t, strings.Index(out, "연락처"), strings.Index(out, "이름"))
	require.Contains(t, out, testsupport.ShareToken)
}

func TestRender_WritesOutputFile(t *testing.T) {
	file := filepath.Join("..", "..", "pkg", "source", "testdata", "contact.yaml")
	target := filepath.Join(t.TempDir(), "form.html")

	_, err := run(t, &app{}, "render", "--file", file, "-o", target, "--locale", "en")
	require.NoError(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	require.Contains(t, string(data), "<html")
}

func TestRender_UnknownRenderer(t *testing.T) {
	file := filepath.Join("..", "..", "pkg", "source", "testdata", "contact.yaml")
	_, err := run(t, &app{}, "render", "--file", file, "--renderer", "preact")
	require.Error(t, err)
}

func TestFill_DryRun(t *testing.T) {
	file := filepath.Join("..", "..", "pkg", "source", "testdata", "contact.yaml")
	a := &app{prompts: &scriptedInputs{answers: []string{"010-1234-5678", "홍길동"}}}

	out, err := run(t, a, "fill", "--file", file, "--dry-run")
	require.NoError(t, err)
	require.Contains(t, out, `"templateToken": "`+testsupport.ShareToken+`"`)
	require.Contains(t, out, "010-1234-5678")
	require.Contains(t, out, "홍길동")
}

func TestFill_Submits(t *testing.T) {
	backend := testsupport.NewBackend(t)
	backend.AddTemplate(testsupport.ShareToken, testsupport.ContactTemplate())
	a := &app{prompts: &scriptedInputs{answers: []string{"010-1234-5678", "홍길동"}}}

	out, err := run(t, a, "fill", testsupport.ShareToken, "--backend", backend.URL())
	require.NoError(t, err)
	require.Contains(t, out, "접수되었습니다.")

	subs := backend.Submissions()
	require.Len(t, subs, 1)
	require.Equal(t, testsupport.ShareToken, subs[0].TemplateToken)
	require.NotEmpty(t, subs[0].Phone)
}
