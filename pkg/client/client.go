// Package client talks to the CRM backend: it fetches inquiry templates by
// share token and submits assembled inquiries.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/goliatone/go-inquiry/pkg/form"
	"github.com/goliatone/go-inquiry/pkg/messages"
	"github.com/goliatone/go-inquiry/pkg/model"
)

const maxErrorBody = 64 << 10

// Client is safe for concurrent use.
type Client struct {
	baseURL *url.URL
	cfg     config
	logger  *zap.Logger
	group   singleflight.Group
}

var _ form.Submitter = (*Client)(nil)

// New constructs a Client for the backend rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		return nil, errors.New("client: base URL is required")
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("client: parse base URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("client: base URL %q must be absolute", baseURL)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return &Client{
		baseURL: parsed,
		cfg:     cfg,
		logger:  cfg.logger.Named("client"),
	}, nil
}

// BaseURL returns the backend root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// FetchTemplate loads the template shared under token. Concurrent calls for
// the same token share one request; each caller receives its own copy.
func (c *Client) FetchTemplate(ctx context.Context, token string) (model.Template, error) {
	v, err, shared := c.group.Do(token, func() (any, error) {
		return c.fetchTemplate(ctx, token)
	})
	if err != nil {
		return model.Template{}, err
	}
	tpl := v.(model.Template)
	if shared {
		c.logger.Debug("template fetch coalesced", zap.String("token", model.ShortToken(token)))
	}
	return tpl.Clone(), nil
}

func (c *Client) fetchTemplate(ctx context.Context, token string) (model.Template, error) {
	endpoint := c.endpoint(strings.ReplaceAll(c.cfg.templatePath, "{token}", url.PathEscape(token)))
	logger := c.logger.With(zap.String("token", model.ShortToken(token)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return model.Template{}, fmt.Errorf("client: build template request: %w", err)
	}
	c.decorate(req)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.cfg.httpClient.Do(req)
	if err != nil {
		logger.Warn("template fetch failed", zap.Error(err))
		return model.Template{}, c.networkError(err)
	}
	defer resp.Body.Close()

	logger.Info("template fetched",
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode == http.StatusNotFound {
		return model.Template{}, &APIError{
			Status:  resp.StatusCode,
			Code:    CodeInvalidShareLink,
			Message: c.text(messages.KeyTemplateInvalid),
			cause:   ErrInvalidShareLink,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.Template{}, c.networkError(err)
	}

	var envelope model.Envelope[model.Template]
	decodeErr := json.Unmarshal(body, &envelope)
	if resp.StatusCode < 200 || resp.StatusCode > 299 || decodeErr != nil || !envelope.Success {
		apiErr := c.failure(resp.StatusCode, body, messages.KeyTemplateLoadFailed)
		if decodeErr != nil && resp.StatusCode >= 200 && resp.StatusCode <= 299 {
			apiErr.cause = fmt.Errorf("client: decode template: %w", decodeErr)
		}
		logger.Warn("template fetch rejected", zap.String("detail", apiErr.Detail()))
		return model.Template{}, apiErr
	}

	tpl := envelope.Data
	if tpl.ShareToken == "" {
		tpl.ShareToken = token
	}
	return tpl, nil
}

// SubmitInquiry posts sub to the backend.
func (c *Client) SubmitInquiry(ctx context.Context, sub model.Submission) (model.SubmitResult, error) {
	logger := c.logger.With(
		zap.String("token", model.ShortToken(sub.TemplateToken)),
		zap.Int("answers", len(sub.Answers)),
	)

	if c.cfg.contract != nil {
		if err := c.cfg.contract.ValidateSubmission(sub); err != nil {
			return model.SubmitResult{}, fmt.Errorf("client: submission rejected by contract: %w", err)
		}
	}
	if sub.Answers == nil {
		sub.Answers = []model.Answer{}
	}

	payload, err := json.Marshal(sub)
	if err != nil {
		return model.SubmitResult{}, fmt.Errorf("client: encode submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(c.cfg.submitPath), bytes.NewReader(payload))
	if err != nil {
		return model.SubmitResult{}, fmt.Errorf("client: build submit request: %w", err)
	}
	c.decorate(req)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.cfg.httpClient.Do(req)
	if err != nil {
		logger.Warn("submit failed", zap.Error(err))
		return model.SubmitResult{}, c.networkError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return model.SubmitResult{}, c.networkError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := c.failure(resp.StatusCode, body, messages.KeySubmitFailed)
		logger.Warn("submit rejected", zap.String("detail", apiErr.Detail()))
		return model.SubmitResult{}, apiErr
	}

	var envelope model.Envelope[json.RawMessage]
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &envelope); err == nil && !envelope.Success && envelope.Message != "" {
			apiErr := c.failure(resp.StatusCode, body, messages.KeySubmitFailed)
			logger.Warn("submit rejected", zap.String("detail", apiErr.Detail()))
			return model.SubmitResult{}, apiErr
		}
	}

	logger.Info("submit accepted",
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	result := model.SubmitResult{Code: envelope.Code, Message: envelope.Message}
	if result.Message == "" {
		result.Message = c.text(messages.KeySubmitSuccess)
	}
	return result, nil
}

// endpoint joins path onto the base URL. path is treated as already escaped.
func (c *Client) endpoint(path string) string {
	return c.baseURL.JoinPath(path).String()
}

func (c *Client) decorate(req *http.Request) {
	if c.cfg.userAgent != "" {
		req.Header.Set("User-Agent", c.cfg.userAgent)
	}
}

func (c *Client) networkError(err error) *APIError {
	return &APIError{
		Code:    CodeUnknown,
		Message: c.text(messages.KeyNetworkUnknown),
		cause:   err,
	}
}

// failure builds an APIError from an error body. The backend message and code
// are kept verbatim; fallbackKey is used when the body carries no message.
func (c *Client) failure(status int, body []byte, fallbackKey string) *APIError {
	var payload struct {
		Message string              `json:"message"`
		Code    string              `json:"code"`
		Field   string              `json:"field"`
		Errors  map[string][]string `json:"errors"`
	}
	_ = json.Unmarshal(body, &payload)

	apiErr := &APIError{Status: status, Code: payload.Code, Message: payload.Message}
	if len(payload.Errors) > 0 || payload.Field != "" {
		apiErr.Fields = make(map[string][]string, len(payload.Errors)+1)
		for key, msgs := range payload.Errors {
			apiErr.Fields[key] = append([]string(nil), msgs...)
		}
		if payload.Field != "" && payload.Message != "" {
			apiErr.Fields[payload.Field] = append(apiErr.Fields[payload.Field], payload.Message)
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = c.text(fallbackKey)
	}
	if apiErr.Code == "" {
		apiErr.Code = CodeUnknown
	}
	return apiErr
}

func (c *Client) text(key string) string {
	return messages.Text(c.cfg.translator, c.cfg.locale, key)
}
