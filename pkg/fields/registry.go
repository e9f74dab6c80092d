package fields

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/goliatone/go-inquiry/pkg/model"
)

// Canonical widget names used by the renderers.
const (
	WidgetInput    = "input"
	WidgetEmail    = "email"
	WidgetTel      = "tel"
	WidgetNumber   = "number"
	WidgetDate     = "date"
	WidgetTextarea = "textarea"
	WidgetSelect   = "select"
	WidgetRadio    = "radio"
	WidgetCheckbox = "checkbox"
	WidgetFile     = "file"
	WidgetRegion   = "region"
)

// Factory builds a controller bound to a question.
type Factory func(model.Question) Controller

// Descriptor bundles the widget a renderer should emit with the controller
// factory that owns the value.
type Descriptor struct {
	Type   model.QuestionType
	Widget string
	Kind   Kind
	New    Factory
}

// Fallback is the descriptor used for tags without a registration.
var Fallback = Descriptor{Widget: WidgetInput, Kind: KindString, New: NewText}

// Registry maps question type tags to descriptors. Lookups for unknown tags
// return Fallback, never an error.
type Registry struct {
	mu          sync.RWMutex
	descriptors map[model.QuestionType]Descriptor
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		descriptors: make(map[model.QuestionType]Descriptor),
	}
}

// NewDefaultRegistry returns a registry with every built-in question type.
func NewDefaultRegistry() *Registry {
	registry := New()

	registry.MustRegister(model.QuestionTypeText, Descriptor{Widget: WidgetInput, Kind: KindString, New: NewText})
	registry.MustRegister(model.QuestionTypeEmail, Descriptor{Widget: WidgetEmail, Kind: KindString, New: NewText})
	registry.MustRegister(model.QuestionTypePhone, Descriptor{Widget: WidgetTel, Kind: KindString, New: NewText})
	registry.MustRegister(model.QuestionTypeNumber, Descriptor{Widget: WidgetNumber, Kind: KindString, New: NewText})
	registry.MustRegister(model.QuestionTypeDate, Descriptor{Widget: WidgetDate, Kind: KindString, New: NewText})
	registry.MustRegister(model.QuestionTypeTextarea, Descriptor{Widget: WidgetTextarea, Kind: KindString, New: NewText})
	registry.MustRegister(model.QuestionTypeSelect, Descriptor{Widget: WidgetSelect, Kind: KindString, New: NewChoice})
	registry.MustRegister(model.QuestionTypeRadio, Descriptor{Widget: WidgetRadio, Kind: KindString, New: NewChoice})
	registry.MustRegister(model.QuestionTypeCheckbox, Descriptor{Widget: WidgetCheckbox, Kind: KindStrings, New: NewCheckbox})
	registry.MustRegister(model.QuestionTypeFile, Descriptor{Widget: WidgetFile, Kind: KindFiles, New: NewFile})
	registry.MustRegister(model.QuestionTypeRegion, Descriptor{Widget: WidgetRegion, Kind: KindRegion, New: NewRegion})

	return registry
}

// Register associates a descriptor with a type tag. Existing entries are
// replaced so callers can override built-ins.
func (r *Registry) Register(typ model.QuestionType, descriptor Descriptor) error {
	typ = normalize(typ)
	if typ == "" {
		return fmt.Errorf("fields: question type is required")
	}
	if descriptor.New == nil {
		return fmt.Errorf("fields: factory for %q is nil", typ)
	}
	if strings.TrimSpace(descriptor.Widget) == "" {
		descriptor.Widget = WidgetInput
	}
	if descriptor.Kind == "" {
		descriptor.Kind = KindString
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	descriptor.Type = typ
	r.descriptors[typ] = descriptor
	return nil
}

// MustRegister mirrors Register but panics on error.
func (r *Registry) MustRegister(typ model.QuestionType, descriptor Descriptor) {
	if err := r.Register(typ, descriptor); err != nil {
		panic(err)
	}
}

// Lookup returns the descriptor registered for typ, if any.
func (r *Registry) Lookup(typ model.QuestionType) (Descriptor, bool) {
	if r == nil {
		return Descriptor{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	descriptor, ok := r.descriptors[normalize(typ)]
	return descriptor, ok
}

// Resolve returns the descriptor for typ or Fallback when the tag is unknown.
func (r *Registry) Resolve(typ model.QuestionType) Descriptor {
	if descriptor, ok := r.Lookup(typ); ok {
		return descriptor
	}
	fallback := Fallback
	fallback.Type = typ
	return fallback
}

// Bind builds the controller for q.
func (r *Registry) Bind(q model.Question) (Controller, Descriptor) {
	descriptor := r.Resolve(q.Type)
	return descriptor.New(q), descriptor
}

// Types returns the registered tags sorted alphabetically.
func (r *Registry) Types() []model.QuestionType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]model.QuestionType, 0, len(r.descriptors))
	for typ := range r.descriptors {
		types = append(types, typ)
	}
	slices.Sort(types)
	return types
}

// Clone returns a copy that can be mutated independently.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cloned := New()
	for typ, descriptor := range r.descriptors {
		cloned.descriptors[typ] = descriptor
	}
	return cloned
}

func normalize(typ model.QuestionType) model.QuestionType {
	return model.QuestionType(strings.ToUpper(strings.TrimSpace(string(typ))))
}
