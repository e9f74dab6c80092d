package testsupport

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/goliatone/go-inquiry/pkg/model"
)

// Failure is a canned error reply of the fake backend.
type Failure struct {
	Status  int
	Code    string
	Message string
	Field   string
	Errors  map[string][]string
}

// Backend is an in-memory CRM backend serving the template and inquiry
// endpoints. It is closed automatically when the test finishes.
type Backend struct {
	server *httptest.Server

	mu          sync.Mutex
	templates   map[string]model.Template
	fetches     map[string]int
	submissions []model.Submission
	fetchFail   map[string]Failure
	submitFail  *Failure
	submitGate  chan struct{}
	submitSeen  chan struct{}
}

// NewBackend starts a fake backend.
func NewBackend(t testing.TB) *Backend {
	t.Helper()

	b := &Backend{
		templates: make(map[string]model.Template),
		fetches:   make(map[string]int),
		fetchFail: make(map[string]Failure),
	}

	r := chi.NewRouter()
	r.Get("/api/inquiry-templates/share/{token}", b.handleTemplate)
	r.Post("/api/inquiries", b.handleSubmit)

	b.server = httptest.NewServer(r)
	t.Cleanup(b.Close)
	return b
}

// URL returns the backend root URL.
func (b *Backend) URL() string {
	return b.server.URL
}

// Client returns an HTTP client bound to the backend.
func (b *Backend) Client() *http.Client {
	return b.server.Client()
}

// Close stops the server. Any blocked submission is released first.
func (b *Backend) Close() {
	b.mu.Lock()
	if b.submitGate != nil {
		close(b.submitGate)
		b.submitGate = nil
	}
	b.mu.Unlock()
	b.server.Close()
}

// AddTemplate publishes tpl under token.
func (b *Backend) AddTemplate(token string, tpl model.Template) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.templates[token] = tpl.Clone()
}

// FailFetch makes template fetches for token reply with f.
func (b *Backend) FailFetch(token string, f Failure) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fetchFail[token] = f
}

// FailSubmit makes every submission reply with f. A nil value restores
// successful submissions.
func (b *Backend) FailSubmit(f *Failure) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if f == nil {
		b.submitFail = nil
		return
	}
	copied := *f
	b.submitFail = &copied
}

// HoldSubmissions blocks submit handlers until the returned release func is
// called. The returned channel receives once per submission that reached the
// backend.
func (b *Backend) HoldSubmissions() (release func(), seen <-chan struct{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	gate := make(chan struct{})
	b.submitGate = gate
	b.submitSeen = make(chan struct{}, 16)
	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			if b.submitGate == gate {
				close(gate)
				b.submitGate = nil
			}
			b.mu.Unlock()
		})
	}, b.submitSeen
}

// Submissions returns the submissions accepted so far.
func (b *Backend) Submissions() []model.Submission {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]model.Submission, len(b.submissions))
	copy(out, b.submissions)
	return out
}

// Fetches reports how many template requests reached the backend for token.
func (b *Backend) Fetches(token string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.fetches[token]
}

func (b *Backend) handleTemplate(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	b.mu.Lock()
	b.fetches[token]++
	failure, failing := b.fetchFail[token]
	tpl, found := b.templates[token]
	b.mu.Unlock()

	if failing {
		writeFailure(w, r, failure)
		return
	}
	if !found {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, map[string]any{"success": false, "message": "template not found", "code": "NOT_FOUND"})
		return
	}
	render.JSON(w, r, model.Envelope[model.Template]{Success: true, Data: tpl})
}

func (b *Backend) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var sub model.Submission
	if err := render.DecodeJSON(r.Body, &sub); err != nil {
		writeFailure(w, r, Failure{Status: http.StatusBadRequest, Code: "BAD_REQUEST", Message: err.Error()})
		return
	}

	b.mu.Lock()
	gate, seen := b.submitGate, b.submitSeen
	b.mu.Unlock()
	if seen != nil {
		seen <- struct{}{}
	}
	if gate != nil {
		select {
		case <-gate:
		case <-r.Context().Done():
			return
		}
	}

	b.mu.Lock()
	failure := b.submitFail
	_, known := b.templates[sub.TemplateToken]
	if failure == nil && known {
		b.submissions = append(b.submissions, sub)
	}
	b.mu.Unlock()

	switch {
	case failure != nil:
		writeFailure(w, r, *failure)
	case !known:
		writeFailure(w, r, Failure{Status: http.StatusBadRequest, Code: "INVALID_TOKEN", Message: "존재하지 않는 양식입니다."})
	default:
		render.Status(r, http.StatusCreated)
		render.JSON(w, r, map[string]any{"success": true, "code": "CREATED", "message": "접수되었습니다."})
	}
}

func writeFailure(w http.ResponseWriter, r *http.Request, f Failure) {
	status := f.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	body := map[string]any{"success": false, "message": f.Message, "code": f.Code}
	if f.Field != "" {
		body["field"] = f.Field
	}
	if len(f.Errors) > 0 {
		body["errors"] = f.Errors
	}
	render.Status(r, status)
	render.JSON(w, r, body)
}
