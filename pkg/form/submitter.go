package form

import (
	"context"

	"github.com/goliatone/go-inquiry/pkg/model"
)

// Submitter hands a validated submission to the backend.
type Submitter interface {
	SubmitInquiry(ctx context.Context, submission model.Submission) (model.SubmitResult, error)
}

// SubmitterFunc adapts a function into a Submitter.
type SubmitterFunc func(ctx context.Context, submission model.Submission) (model.SubmitResult, error)

// SubmitInquiry calls the underlying function.
func (fn SubmitterFunc) SubmitInquiry(ctx context.Context, submission model.Submission) (model.SubmitResult, error) {
	return fn(ctx, submission)
}
