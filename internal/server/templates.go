package server

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-inquiry/pkg/model"
)

type cachedTemplate struct {
	tpl     model.Template
	fetched time.Time
}

// fetchTemplate always asks the backend and remembers the result for later
// submissions of the same token.
func (s *Server) fetchTemplate(ctx context.Context, token string) (model.Template, error) {
	tpl, err := s.backend.FetchTemplate(ctx, token)
	if err != nil {
		return model.Template{}, err
	}
	s.remember(token, tpl)
	return tpl, nil
}

// submitTemplate resolves the template a POST binds against. A fresh cached
// copy is used as is; otherwise the backend is asked again and a cached copy
// of any age within the retain window stands in when that fails.
func (s *Server) submitTemplate(ctx context.Context, token string) (model.Template, error) {
	entry, cached := s.cached(token)
	if cached && s.now().Sub(entry.fetched) < s.cfg.templateFresh {
		return entry.tpl.Clone(), nil
	}

	tpl, err := s.fetchTemplate(ctx, token)
	if err == nil {
		return tpl, nil
	}
	if !cached {
		return model.Template{}, err
	}
	s.logger.Warn("template refetch failed, using cached copy",
		zap.String("token", model.ShortToken(token)),
		zap.Duration("age", s.now().Sub(entry.fetched)),
		zap.Error(err),
	)
	return entry.tpl.Clone(), nil
}

func (s *Server) cached(token string) (*cachedTemplate, bool) {
	v, ok := s.templates.Load(token)
	if !ok {
		return nil, false
	}
	entry := v.(*cachedTemplate)
	if s.now().Sub(entry.fetched) >= s.cfg.templateRetain {
		s.templates.CompareAndDelete(token, entry)
		return nil, false
	}
	return entry, true
}

func (s *Server) remember(token string, tpl model.Template) {
	now := s.now()
	s.templates.Store(token, &cachedTemplate{tpl: tpl.Clone(), fetched: now})
	s.templates.Range(func(key, v any) bool {
		if now.Sub(v.(*cachedTemplate).fetched) >= s.cfg.templateRetain {
			s.templates.CompareAndDelete(key, v)
		}
		return true
	})
}
