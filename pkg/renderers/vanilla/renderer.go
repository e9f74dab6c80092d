// Package vanilla renders inquiry sessions as server-side HTML forms that work
// without client-side scripts.
package vanilla

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-inquiry/pkg/form"
	"github.com/goliatone/go-inquiry/pkg/messages"
	"github.com/goliatone/go-inquiry/pkg/render"
	rendertemplate "github.com/goliatone/go-inquiry/pkg/render/template"
	"github.com/goliatone/go-inquiry/pkg/render/template/gotemplate"
	"github.com/goliatone/go-inquiry/pkg/renderers/vanilla/components"
)

// Name is the registry name of the renderer.
const Name = "vanilla"

// Option customises the renderer.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	components       *components.Registry
	themes           theme.ThemeSelector
	translator       messages.Translator
	stylesheets      []string
	inlineStyles     bool
	scripts          []string
	inlineScripts    bool
	fragment         bool
}

// WithTemplatesFS supplies an alternate template bundle.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a template engine.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithComponents replaces the widget component registry.
func WithComponents(registry *components.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.components = registry
		}
	}
}

// WithThemeSelector enables go-theme lookups through RenderOptions.ThemeName.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(cfg *config) {
		cfg.themes = selector
	}
}

// WithTranslator overrides the chrome message catalog.
func WithTranslator(t messages.Translator) Option {
	return func(cfg *config) {
		if t != nil {
			cfg.translator = t
		}
	}
}

// WithStylesheets links external stylesheets instead of inlining the default
// one.
func WithStylesheets(hrefs ...string) Option {
	return func(cfg *config) {
		cfg.stylesheets = append(cfg.stylesheets, hrefs...)
		cfg.inlineStyles = false
	}
}

// WithScripts links external scripts on form pages instead of inlining the
// default submit guard.
func WithScripts(srcs ...string) Option {
	return func(cfg *config) {
		cfg.scripts = append(cfg.scripts, srcs...)
		cfg.inlineScripts = false
	}
}

// WithFragment renders only the <form> (or page section) without the HTML
// document around it.
func WithFragment(enabled bool) Option {
	return func(cfg *config) {
		cfg.fragment = enabled
	}
}

// Renderer is the HTML renderer.
type Renderer struct {
	templates  rendertemplate.TemplateRenderer
	components *components.Registry
	themes     theme.ThemeSelector
	translator messages.Translator
	stylesheet []string
	inlineCSS  bool
	scripts    []string
	inlineJS   bool
	fragment   bool
}

var (
	_ render.Renderer     = (*Renderer)(nil)
	_ render.PageRenderer = (*Renderer)(nil)
)

// New constructs the renderer.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS:    TemplatesFS(),
		translator:    messages.Default(),
		inlineStyles:  true,
		inlineScripts: true,
	}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.components == nil {
		cfg.components = components.NewDefaultRegistry()
	}

	engine := cfg.templateRenderer
	if engine == nil {
		built, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
			gotemplate.WithTemplateFunc(render.TemplateI18nFuncs(cfg.translator, render.TemplateI18nConfig{})),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		engine = built
	}

	return &Renderer{
		templates:  engine,
		components: cfg.components,
		themes:     cfg.themes,
		translator: cfg.translator,
		stylesheet: cfg.stylesheets,
		inlineCSS:  cfg.inlineStyles,
		scripts:    cfg.scripts,
		inlineJS:   cfg.inlineScripts,
		fragment:   cfg.fragment,
	}, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render emits the form for session. Fields appear in display order; each is
// rendered through the component registered for its widget.
func (r *Renderer) Render(ctx context.Context, session *form.Session, opts render.RenderOptions) ([]byte, error) {
	if session == nil {
		return nil, fmt.Errorf("vanilla renderer: session is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	locale := render.SessionLocale(session, opts)
	chrome := render.LocalizedChrome(r.translator, locale)
	themeCfg, err := render.ResolveTheme(r.themes, opts.ThemeName, opts.ThemeVariant)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: resolve theme: %w", err)
	}

	data := components.ComponentData{
		Template: r.templates,
		Chrome:   chromeMap(chrome),
	}
	if themeCfg != nil {
		data.ThemePartials = themeCfg.Partials
	}

	classes := defaultClasses()
	markup := make([]string, 0, len(session.Fields()))
	used := make([]string, 0, len(session.Fields()))
	for _, field := range session.Fields() {
		view := buildFieldView(field, opts.Errors[field.Question.ID])
		descriptor, ok := r.components.Resolve(view.Widget)
		if !ok {
			return nil, fmt.Errorf("vanilla renderer: no component for widget %q", view.Widget)
		}

		var control bytes.Buffer
		if err := descriptor.Renderer(&control, view, data); err != nil {
			return nil, fmt.Errorf("vanilla renderer: question %d: %w", view.ID, err)
		}
		wrapped, err := r.templates.RenderTemplate("templates/field.tmpl", map[string]any{
			"field":   view,
			"control": control.String(),
			"classes": classes,
		})
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: question %d: %w", view.ID, err)
		}
		markup = append(markup, wrapped)
		used = append(used, descriptor.Name)
	}

	tpl := session.Template()
	hidden := render.MergeHiddenFields(opts.Hidden,
		render.TemplateToken(session.Token()),
		render.SessionID(session.ID()),
	)
	view := formView{
		SessionID:   session.ID(),
		Title:       sanitizeText(tpl.Name),
		Description: sanitizeRich(tpl.Description),
		Action:      strings.TrimSpace(opts.Action),
		Method:      formMethod(opts.Method),
		Notice:      opts.Notice,
		Errors:      render.MergeFormErrors(nil, opts.FormErrors...),
		Hidden:      render.SortedHiddenFields(hidden),
	}

	body, err := r.templates.RenderTemplate("templates/form.tmpl", map[string]any{
		"form":    view,
		"fields":  markup,
		"chrome":  data.Chrome,
		"classes": classes,
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render form: %w", err)
	}

	return r.wrap(body, pageView{
		Title:       view.Title,
		Locale:      locale,
		Stylesheets: append(append([]string(nil), r.stylesheet...), r.components.Stylesheets(used)...),
		Scripts:     append([]string(nil), r.scripts...),
		InlineJS:    r.inlineScript(),
	}, themeCfg)
}

// RenderPage emits the load-failure or completion page.
func (r *Renderer) RenderPage(ctx context.Context, page render.Page) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	locale := page.Locale
	if strings.TrimSpace(locale) == "" {
		locale = messages.DefaultLocale
	}
	chrome := render.LocalizedChrome(r.translator, locale)
	themeCfg, err := render.ResolveTheme(r.themes, page.ThemeName, page.ThemeVariant)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: resolve theme: %w", err)
	}

	view := pageView{
		Title:       page.Title,
		Message:     page.Message,
		RetryURL:    page.RetryURL,
		Locale:      locale,
		Stylesheets: append([]string(nil), r.stylesheet...),
	}

	var name string
	switch page.Kind {
	case render.PageError:
		name = "templates/error.tmpl"
		if view.Title == "" {
			view.Title = chrome.LoadFailed
		}
	case render.PageComplete:
		name = "templates/complete.tmpl"
		if view.Title == "" {
			view.Title = chrome.SubmitSuccess
		}
	default:
		return nil, fmt.Errorf("vanilla renderer: unknown page kind %q", page.Kind)
	}

	body, err := r.templates.RenderTemplate(name, map[string]any{
		"page":    view,
		"chrome":  chromeMap(chrome),
		"classes": defaultClasses(),
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render %s page: %w", page.Kind, err)
	}
	return r.wrap(body, view, themeCfg)
}

func (r *Renderer) wrap(body string, page pageView, themeCfg *theme.RendererConfig) ([]byte, error) {
	if r.fragment {
		return []byte(body), nil
	}
	if r.inlineCSS {
		page.InlineCSS = defaultStylesheet()
	}
	if themeCfg != nil {
		page.Theme = themeCfg.Theme
		page.Variant = themeCfg.Variant
		page.ThemeStyle = render.CSSVarsStyle(themeCfg.CSSVars)
		if themeCfg.AssetURL != nil {
			if href := themeCfg.AssetURL("stylesheet"); href != "" {
				page.Stylesheets = append(page.Stylesheets, href)
			}
		}
	}

	out, err := r.templates.RenderTemplate("templates/layout.tmpl", map[string]any{
		"page": page,
		"body": body,
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render layout: %w", err)
	}
	return []byte(out), nil
}

func (r *Renderer) inlineScript() string {
	if !r.inlineJS {
		return ""
	}
	return defaultScript()
}

func formMethod(method string) string {
	if strings.EqualFold(strings.TrimSpace(method), "get") {
		return "get"
	}
	return "post"
}

func chromeMap(c render.Chrome) map[string]string {
	return map[string]string{
		"locale":     c.Locale,
		"submit":     c.Submit,
		"submitting": c.Submitting,
		"retry":      c.Retry,
		"remove":     c.RemoveFile,
	}
}
