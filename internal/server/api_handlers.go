package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/goliatone/go-inquiry/pkg/client"
	"github.com/goliatone/go-inquiry/pkg/contract"
	"github.com/goliatone/go-inquiry/pkg/form"
	"github.com/goliatone/go-inquiry/pkg/messages"
	"github.com/goliatone/go-inquiry/pkg/model"
)

// Error codes of the JSON API.
const (
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeBadRequest       = "BAD_REQUEST"
	CodeSubmitInFlight   = "SUBMIT_IN_FLIGHT"
)

// FormErrorsKey holds form-level messages in APIErrorBody.Errors.
const FormErrorsKey = "form"

// SubmitRequest is the body of POST /api/inquiries/{token}. Values use the
// same names as the HTML form (q-<id>, q-<id>-sido, ...).
type SubmitRequest struct {
	// SessionID identifies the client's form session; concurrent posts with
	// the same id reach the backend once.
	SessionID string                  `json:"sessionId,omitempty"`
	Values    map[string][]string     `json:"values"`
	Files     map[int][]model.FileRef `json:"files,omitempty"`
}

// SubmitResponse is returned on success.
type SubmitResponse struct {
	Success    bool             `json:"success"`
	Code       string           `json:"code,omitempty"`
	Message    string           `json:"message"`
	Submission model.Submission `json:"data"`
}

// APIErrorBody is the error reply of the JSON API.
type APIErrorBody struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Code    string              `json:"code"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

func (s *Server) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	if _, err := w.Write(contract.Document()); err != nil {
		s.logger.Debug("write openapi document", zap.Error(err))
	}
}

func (s *Server) handleAPITemplate(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	tpl, err := s.fetchTemplate(r.Context(), token)
	if err != nil {
		s.writeAPIError(w, r, loadStatus(err), s.apiErrorBody(s.locale(r), err, messages.KeyTemplateLoadFailed))
		return
	}
	render.JSON(w, r, model.Envelope[model.Template]{Success: true, Data: tpl})
}

func (s *Server) handleAPISubmit(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	locale := s.locale(r)

	var req SubmitRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		s.writeAPIError(w, r, http.StatusBadRequest, APIErrorBody{
			Message: s.text(locale, messages.KeySubmitFailed),
			Code:    CodeBadRequest,
		})
		return
	}

	tpl, err := s.submitTemplate(r.Context(), token)
	if err != nil {
		s.writeAPIError(w, r, loadStatus(err), s.apiErrorBody(locale, err, messages.KeyTemplateLoadFailed))
		return
	}
	session := s.newSession(tpl, token, locale, sessionID(req.SessionID))

	if err := session.Bind(req.Values, req.Files); err != nil {
		s.writeAPIError(w, r, http.StatusUnprocessableEntity, APIErrorBody{
			Message: s.text(locale, messages.KeySubmitFailed),
			Code:    CodeValidationFailed,
			Errors:  map[string][]string{FormErrorsKey: {err.Error()}},
		})
		return
	}

	submission := session.Submission()
	result, err := session.Submit(r.Context())
	if err != nil {
		if verr, ok := form.AsValidationError(err); ok {
			s.writeAPIError(w, r, http.StatusUnprocessableEntity, APIErrorBody{
				Message: verr.Error(),
				Code:    CodeValidationFailed,
				Errors:  validationErrors(verr),
			})
			return
		}
		if apiErr, ok := client.AsAPIError(err); ok {
			s.writeAPIError(w, r, backendStatus(apiErr), APIErrorBody{
				Message: apiErr.Message,
				Code:    apiErr.Code,
				Errors:  apiErr.Fields,
			})
			return
		}
		if errors.Is(err, form.ErrSubmitInFlight) {
			s.writeAPIError(w, r, http.StatusConflict, APIErrorBody{
				Message: s.text(locale, messages.KeySubmitInFlight),
				Code:    CodeSubmitInFlight,
			})
			return
		}
		s.logger.Error("inquiry submission failed", zap.Error(err))
		s.writeAPIError(w, r, http.StatusBadGateway, APIErrorBody{
			Message: s.text(locale, messages.KeySubmitFailed),
			Code:    client.CodeUnknown,
		})
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, SubmitResponse{
		Success:    true,
		Code:       result.Code,
		Message:    result.Message,
		Submission: submission,
	})
}

func (s *Server) apiErrorBody(locale string, err error, fallbackKey string) APIErrorBody {
	body := APIErrorBody{Message: s.text(locale, fallbackKey), Code: client.CodeUnknown}
	if errors.Is(err, client.ErrInvalidShareLink) {
		body.Message = s.text(locale, messages.KeyTemplateInvalid)
		body.Code = client.CodeInvalidShareLink
	}
	if apiErr, ok := client.AsAPIError(err); ok {
		if apiErr.Message != "" {
			body.Message = apiErr.Message
		}
		if apiErr.Code != "" {
			body.Code = apiErr.Code
		}
	}
	return body
}

func (s *Server) writeAPIError(w http.ResponseWriter, r *http.Request, status int, body APIErrorBody) {
	body.Success = false
	render.Status(r, status)
	render.JSON(w, r, body)
}

func loadStatus(err error) int {
	if errors.Is(err, client.ErrInvalidShareLink) {
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}

func validationErrors(verr *form.ValidationError) map[string][]string {
	out := make(map[string][]string, len(verr.Fields)+1)
	for id, msgs := range verr.Fields {
		out[form.FieldName(id)] = append([]string(nil), msgs...)
	}
	if len(verr.Form) > 0 {
		out[FormErrorsKey] = append([]string(nil), verr.Form...)
	}
	return out
}
