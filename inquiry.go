// Package inquiry is the top-level entry point for rendering and submitting
// CRM inquiry forms shared by token. The helpers here wire the client, the
// form session and the HTML renderer for the common cases; the packages under
// pkg/ expose the full surface.
package inquiry

import (
	"context"
	"fmt"

	"github.com/goliatone/go-inquiry/pkg/client"
	"github.com/goliatone/go-inquiry/pkg/form"
	"github.com/goliatone/go-inquiry/pkg/model"
	"github.com/goliatone/go-inquiry/pkg/render"
	"github.com/goliatone/go-inquiry/pkg/renderers/vanilla"
	"github.com/goliatone/go-inquiry/pkg/source"
)

// Template is the inquiry form definition served by the backend.
type Template = model.Template

// Submission is the payload posted to the backend.
type Submission = model.Submission

// Session holds the state of one filled-in form.
type Session = form.Session

// RenderOptions describes per-request overrides such as inline errors,
// notices and the theme to use.
type RenderOptions = render.RenderOptions

// NewClient constructs a backend client rooted at baseURL.
func NewClient(baseURL string, options ...client.Option) (*client.Client, error) {
	return client.New(baseURL, options...)
}

// NewSession binds a template to a fresh session. Submissions go through
// form.WithSubmitter.
func NewSession(tpl Template, token string, options ...form.Option) *Session {
	return form.NewSession(tpl, token, options...)
}

// OpenSession fetches the template shared under token and binds it to a
// session that submits through the same client.
func OpenSession(ctx context.Context, c *client.Client, token string, options ...form.Option) (*Session, error) {
	if c == nil {
		return nil, fmt.Errorf("inquiry: client is required")
	}
	tpl, err := source.Remote(c, token).Load(ctx)
	if err != nil {
		return nil, err
	}
	options = append([]form.Option{form.WithSubmitter(c)}, options...)
	return form.NewSession(tpl, token, options...), nil
}

// RenderHTML renders the session with the built-in vanilla renderer.
func RenderHTML(ctx context.Context, session *Session, opts RenderOptions, options ...vanilla.Option) ([]byte, error) {
	r, err := vanilla.New(options...)
	if err != nil {
		return nil, err
	}
	return r.Render(ctx, session, opts)
}
