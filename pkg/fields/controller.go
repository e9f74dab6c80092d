package fields

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-inquiry/pkg/model"
)

// Kind is the primitive shape a controller stores.
type Kind string

const (
	KindString  Kind = "string"
	KindStrings Kind = "strings"
	KindFiles   Kind = "files"
	KindRegion  Kind = "region"
)

var (
	// ErrUnsupportedValue is returned when Set receives a value of the wrong shape.
	ErrUnsupportedValue = errors.New("fields: unsupported value")
	// ErrUnknownOption is returned when a value is not one of the question options.
	ErrUnknownOption = errors.New("fields: unknown option")
	// ErrFileIndex is returned when removing a file index that does not exist.
	ErrFileIndex = errors.New("fields: file index out of range")
)

// Controller owns the value of one bound question for the lifetime of a form
// session.
type Controller interface {
	Question() model.Question
	Kind() Kind
	// Value returns the current value in its primitive shape: string,
	// []string, []model.FileRef or *model.Region.
	Value() any
	Set(value any) error
	// Normalize serialises the current value to the answer text.
	Normalize() string
	// Empty reports whether the value counts as missing for required checks.
	Empty() bool
	Reset()
}

func unsupported(q model.Question, value any) error {
	return fmt.Errorf("%w: %T for question %d (%s)", ErrUnsupportedValue, value, q.ID, q.Type)
}
