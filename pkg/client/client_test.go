package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-inquiry/pkg/client"
	"github.com/goliatone/go-inquiry/pkg/contract"
	"github.com/goliatone/go-inquiry/pkg/form"
	"github.com/goliatone/go-inquiry/pkg/model"
	"github.com/goliatone/go-inquiry/pkg/testsupport"
)

func newClient(t *testing.T, backend *testsupport.Backend, opts ...client.Option) *client.Client {
	t.Helper()
	opts = append([]client.Option{client.WithHTTPClient(backend.Client())}, opts...)
	c, err := client.New(backend.URL(), opts...)
	require.NoError(t, err)
	return c
}

func TestNew_RequiresAbsoluteURL(t *testing.T) {
	_, err := client.New("")
	require.Error(t, err)

	_, err = client.New("/relative")
	require.Error(t, err)
}

func TestFetchTemplate(t *testing.T) {
	backend := testsupport.NewBackend(t)
	backend.AddTemplate(testsupport.ShareToken, testsupport.ContactTemplate())
	c := newClient(t, backend)

	first, err := c.FetchTemplate(context.Background(), testsupport.ShareToken)
	require.NoError(t, err)
	second, err := c.FetchTemplate(context.Background(), testsupport.ShareToken)
	require.NoError(t, err)

	if diff := cmp.Diff(testsupport.ContactTemplate(), first); diff != "" {
		t.Fatalf("template mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("repeated fetch differs (-first +second):\n%s", diff)
	}
}

func TestFetchTemplate_NotFound(t *testing.T) {
	backend := testsupport.NewBackend(t)
	c := newClient(t, backend)

	_, err := c.FetchTemplate(context.Background(), "missing")
	require.Error(t, err)
	require.True(t, errors.Is(err, client.ErrInvalidShareLink))
	require.Equal(t, "유효하지 않은 공유 링크입니다.", err.Error())

	apiErr, ok := client.AsAPIError(err)
	require.True(t, ok)
	require.Equal(t, http.StatusNotFound, apiErr.Status)
}

func TestFetchTemplate_ServerMessage(t *testing.T) {
	backend := testsupport.NewBackend(t)
	backend.FailFetch("closed", testsupport.Failure{Status: http.StatusForbidden, Code: "CLOSED", Message: "마감된 양식입니다."})
	c := newClient(t, backend)

	_, err := c.FetchTemplate(context.Background(), "closed")
	apiErr, ok := client.AsAPIError(err)
	require.True(t, ok)
	require.Equal(t, "마감된 양식입니다.", apiErr.Message)
	require.Equal(t, "CLOSED", apiErr.Code)
	require.False(t, errors.Is(err, client.ErrInvalidShareLink))
}

func TestFetchTemplate_GenericFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer srv.Close()

	c, err := client.New(srv.URL, client.WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	_, err = c.FetchTemplate(context.Background(), "tok")
	apiErr, ok := client.AsAPIError(err)
	require.True(t, ok)
	require.Equal(t, "문의 양식을 불러오지 못했습니다.", apiErr.Message)
	require.Equal(t, client.CodeUnknown, apiErr.Code)
}

func TestFetchTemplate_Coalesced(t *testing.T) {
	backend := testsupport.NewBackend(t)
	backend.AddTemplate(testsupport.ShareToken, testsupport.ContactTemplate())
	c := newClient(t, backend)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tpl, err := c.FetchTemplate(context.Background(), testsupport.ShareToken)
			if err != nil || len(tpl.Questions) != 2 {
				t.Errorf("fetch: %v (%d questions)", err, len(tpl.Questions))
			}
		}()
	}
	wg.Wait()

	require.GreaterOrEqual(t, backend.Fetches(testsupport.ShareToken), 1)
	require.LessOrEqual(t, backend.Fetches(testsupport.ShareToken), 8)
}

func TestSubmitInquiry(t *testing.T) {
	backend := testsupport.NewBackend(t)
	backend.AddTemplate(testsupport.ShareToken, testsupport.ContactTemplate())
	c := newClient(t, backend)

	sub := model.Submission{
		TemplateToken: testsupport.ShareToken,
		Phone:         "010-1111-2222",
		Answers:       []model.Answer{{QuestionID: 2, AnswerText: "010-1111-2222"}},
	}
	result, err := c.SubmitInquiry(context.Background(), sub)
	require.NoError(t, err)
	require.Equal(t, "CREATED", result.Code)

	if diff := cmp.Diff([]model.Submission{sub}, backend.Submissions()); diff != "" {
		t.Fatalf("submissions mismatch (-want +got):\n%s", diff)
	}
}

func TestSubmitInquiry_ErrorBodyVerbatim(t *testing.T) {
	backend := testsupport.NewBackend(t)
	backend.AddTemplate(testsupport.ShareToken, testsupport.ContactTemplate())
	backend.FailSubmit(&testsupport.Failure{Status: http.StatusConflict, Code: "DUPLICATE", Message: "이미 접수된 연락처입니다."})
	c := newClient(t, backend)

	_, err := c.SubmitInquiry(context.Background(), model.Submission{TemplateToken: testsupport.ShareToken, Phone: "010"})
	apiErr, ok := client.AsAPIError(err)
	require.True(t, ok)
	require.Equal(t, &client.APIError{Status: http.StatusConflict, Code: "DUPLICATE", Message: "이미 접수된 연락처입니다."}, apiErr)
	require.Empty(t, backend.Submissions())
}

func TestSubmitInquiry_FieldErrors(t *testing.T) {
	backend := testsupport.NewBackend(t)
	backend.AddTemplate(testsupport.ShareToken, testsupport.ContactTemplate())
	backend.FailSubmit(&testsupport.Failure{
		Status:  http.StatusBadRequest,
		Code:    "VALIDATION",
		Message: "연락처 형식이 올바르지 않습니다.",
		Field:   "phone",
		Errors:  map[string][]string{"answers[1]": {"이름이 너무 깁니다."}},
	})
	c := newClient(t, backend)

	_, err := c.SubmitInquiry(context.Background(), model.Submission{TemplateToken: testsupport.ShareToken, Phone: "010"})
	apiErr, ok := client.AsAPIError(err)
	require.True(t, ok)
	require.Equal(t, map[string][]string{
		"phone":      {"연락처 형식이 올바르지 않습니다."},
		"answers[1]": {"이름이 너무 깁니다."},
	}, apiErr.Fields)
}

func TestSubmitInquiry_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := client.New(url)
	require.NoError(t, err)

	_, err = c.SubmitInquiry(context.Background(), model.Submission{TemplateToken: "tok", Phone: "010"})
	apiErr, ok := client.AsAPIError(err)
	require.True(t, ok)
	require.Equal(t, client.CodeUnknown, apiErr.Code)
	require.Equal(t, "알 수 없는 오류가 발생했습니다. 잠시 후 다시 시도해주세요.", apiErr.Message)
	require.True(t, client.IsNetwork(err))
}

func TestSubmitInquiry_Contract(t *testing.T) {
	backend := testsupport.NewBackend(t)
	backend.AddTemplate(testsupport.ShareToken, testsupport.ContactTemplate())
	doc, err := contract.Default()
	require.NoError(t, err)
	c := newClient(t, backend, client.WithContract(doc))

	_, err = c.SubmitInquiry(context.Background(), model.Submission{TemplateToken: testsupport.ShareToken})
	require.Error(t, err)
	require.Empty(t, backend.Submissions())
}

func TestClient_DrivesSession(t *testing.T) {
	backend := testsupport.NewBackend(t)
	backend.AddTemplate(testsupport.ShareToken, testsupport.ContactTemplate())
	c := newClient(t, backend)

	tpl, err := c.FetchTemplate(context.Background(), testsupport.ShareToken)
	require.NoError(t, err)

	session := form.NewSession(tpl, testsupport.ShareToken, form.WithSubmitter(c))
	require.NoError(t, session.Set(2, "010-1111-2222"))
	_, err = session.Submit(context.Background())
	require.NoError(t, err)

	want := []model.Submission{{
		TemplateToken: testsupport.ShareToken,
		Phone:         "010-1111-2222",
		Answers:       []model.Answer{{QuestionID: 2, AnswerText: "010-1111-2222"}},
	}}
	if diff := cmp.Diff(want, backend.Submissions()); diff != "" {
		t.Fatalf("submissions mismatch (-want +got):\n%s", diff)
	}
}
