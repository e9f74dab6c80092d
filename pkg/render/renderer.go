// Package render defines the renderer seam shared by the HTML and terminal
// front-ends together with helpers for error mapping, hidden fields and
// localized page chrome.
package render

import (
	"context"

	"github.com/goliatone/go-inquiry/pkg/form"
)

// Renderer turns a form session into a byte representation (HTML, text).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, session *form.Session, options RenderOptions) ([]byte, error)
}

// PageRenderer is implemented by renderers that can also produce the full-page
// states around a form: the load failure page and the completion page.
type PageRenderer interface {
	RenderPage(ctx context.Context, page Page) ([]byte, error)
}
