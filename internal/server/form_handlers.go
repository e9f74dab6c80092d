package server

import (
	"errors"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/goliatone/go-inquiry/pkg/client"
	"github.com/goliatone/go-inquiry/pkg/form"
	"github.com/goliatone/go-inquiry/pkg/messages"
	"github.com/goliatone/go-inquiry/pkg/model"
	"github.com/goliatone/go-inquiry/pkg/render"
)

func (s *Server) handleShowForm(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	locale := s.locale(r)

	tpl, err := s.fetchTemplate(r.Context(), token)
	if err != nil {
		s.writeLoadFailure(w, r, locale, err)
		return
	}

	session := s.newSession(tpl, token, locale, "")
	s.writeForm(w, r, http.StatusOK, session, s.renderOptions(r, locale))
}

func (s *Server) handleSubmitForm(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	locale := s.locale(r)
	opts := s.renderOptions(r, locale)

	values, files, bodyErr := s.parseBody(w, r)
	if posted := firstValue(values, render.TemplateTokenField); posted != "" && posted != token {
		s.writeLoadFailure(w, r, locale, client.ErrInvalidShareLink)
		return
	}

	tpl, err := s.submitTemplate(r.Context(), token)
	if err != nil {
		s.writeLoadFailure(w, r, locale, err)
		return
	}
	session := s.newSession(tpl, token, locale, sessionID(firstValue(values, render.SessionIDField)))

	if bodyErr != nil {
		s.logger.Debug("unreadable form body", zap.Error(bodyErr))
		opts.FormErrors = render.MergeFormErrors(opts.FormErrors, s.text(locale, messages.KeySubmitFailed))
		s.writeForm(w, r, http.StatusBadRequest, session, opts)
		return
	}
	if err := session.Bind(values, files); err != nil {
		s.logger.Debug("form values rejected", zap.Error(err))
		opts.FormErrors = render.MergeFormErrors(opts.FormErrors, s.text(locale, messages.KeySubmitFailed))
		s.writeForm(w, r, http.StatusUnprocessableEntity, session, opts)
		return
	}

	result, err := session.Submit(r.Context())
	if err != nil {
		status, failed := s.submitFailure(session, locale, err, opts)
		s.writeForm(w, r, status, session, failed)
		return
	}

	page := render.Page{
		Kind:         render.PageComplete,
		Message:      result.Message,
		Locale:       locale,
		ThemeName:    s.cfg.themeName,
		ThemeVariant: s.cfg.themeVariant,
	}
	s.writePage(w, r, http.StatusOK, page)
}

// submitFailure turns a Submit error into a status and the options used to
// re-render the populated form.
func (s *Server) submitFailure(session *form.Session, locale string, err error, opts render.RenderOptions) (int, render.RenderOptions) {
	if verr, ok := form.AsValidationError(err); ok {
		return http.StatusUnprocessableEntity, opts.WithValidation(verr.Fields, verr.Form)
	}
	if apiErr, ok := client.AsAPIError(err); ok {
		mapping := render.MapErrorPayload(session, apiErr.Fields)
		opts = opts.WithValidation(mapping.Fields, append([]string{apiErr.Message}, mapping.Form...))
		return backendStatus(apiErr), opts
	}

	status := http.StatusBadGateway
	if errors.Is(err, form.ErrSubmitInFlight) {
		status = http.StatusConflict
		opts.Notice = s.text(locale, messages.KeySubmitInFlight)
		return status, opts
	}
	s.logger.Error("inquiry submission failed", zap.Error(err))
	opts.FormErrors = render.MergeFormErrors(opts.FormErrors, s.text(locale, messages.KeySubmitFailed))
	return status, opts
}

func backendStatus(apiErr *client.APIError) int {
	if apiErr.Status >= 400 && apiErr.Status < 500 {
		return apiErr.Status
	}
	return http.StatusBadGateway
}

func (s *Server) writeLoadFailure(w http.ResponseWriter, r *http.Request, locale string, err error) {
	status := http.StatusBadGateway
	message := s.text(locale, messages.KeyTemplateLoadFailed)
	if errors.Is(err, client.ErrInvalidShareLink) {
		status = http.StatusNotFound
		message = s.text(locale, messages.KeyTemplateInvalid)
	}
	if apiErr, ok := client.AsAPIError(err); ok && apiErr.Message != "" {
		message = apiErr.Message
	}
	s.logger.Warn("template unavailable", zap.Int("status", status), zap.Error(err))

	s.writePage(w, r, status, render.Page{
		Kind:         render.PageError,
		Message:      message,
		RetryURL:     r.URL.RequestURI(),
		Locale:       locale,
		ThemeName:    s.cfg.themeName,
		ThemeVariant: s.cfg.themeVariant,
	})
}

func (s *Server) writeForm(w http.ResponseWriter, r *http.Request, status int, session *form.Session, opts render.RenderOptions) {
	out, err := s.cfg.renderer.Render(r.Context(), session, opts)
	if err != nil {
		s.logger.Error("render form", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	s.writeHTML(w, status, s.cfg.renderer.ContentType(), out)
}

func (s *Server) writePage(w http.ResponseWriter, r *http.Request, status int, page render.Page) {
	out, err := s.cfg.renderer.RenderPage(r.Context(), page)
	if err != nil {
		s.logger.Error("render page", zap.String("kind", string(page.Kind)), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	s.writeHTML(w, status, s.cfg.renderer.ContentType(), out)
}

func (s *Server) writeHTML(w http.ResponseWriter, status int, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		s.logger.Debug("write response", zap.Error(err))
	}
}

func (s *Server) renderOptions(r *http.Request, locale string) render.RenderOptions {
	return render.RenderOptions{
		Action:       r.URL.Path,
		Method:       http.MethodPost,
		Locale:       locale,
		ThemeName:    s.cfg.themeName,
		ThemeVariant: s.cfg.themeVariant,
	}
}

// parseBody decodes an urlencoded or multipart body. Uploaded files are
// reduced to their metadata; the bytes are not kept.
func (s *Server) parseBody(w http.ResponseWriter, r *http.Request) (map[string][]string, map[int][]model.FileRef, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.maxUploadBytes)
		if err := r.ParseForm(); err != nil {
			return nil, nil, err
		}
		return r.PostForm, nil, nil
	}

	if err := r.ParseMultipartForm(s.cfg.maxUploadBytes); err != nil {
		return nil, nil, err
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	files := make(map[int][]model.FileRef)
	for key, headers := range r.MultipartForm.File {
		if !strings.HasPrefix(key, "q-") {
			continue
		}
		id, ok := form.ParseFieldName(key)
		if !ok || key != form.FieldName(id) {
			continue
		}
		for _, header := range headers {
			if header.Filename == "" {
				continue
			}
			files[id] = append(files[id], model.FileRef{
				Name:        header.Filename,
				Size:        header.Size,
				ContentType: header.Header.Get("Content-Type"),
			})
		}
	}
	return r.MultipartForm.Value, files, nil
}

func (s *Server) text(locale, key string) string {
	return messages.Text(s.cfg.translator, locale, key)
}

func firstValue(values map[string][]string, key string) string {
	if list := values[key]; len(list) > 0 {
		return list[0]
	}
	return ""
}
