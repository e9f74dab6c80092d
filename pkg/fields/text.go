package fields

import (
	"fmt"

	"github.com/goliatone/go-inquiry/pkg/model"
)

// TextController stores a single string exactly as typed. It backs TEXT,
// TEXTAREA, EMAIL, PHONE, NUMBER, DATE and any unrecognised tag; no format is
// enforced for email, phone or number input.
type TextController struct {
	question model.Question
	value    string
}

// NewText constructs a text controller.
func NewText(q model.Question) Controller {
	return &TextController{question: q}
}

func (c *TextController) Question() model.Question { return c.question }
func (c *TextController) Kind() Kind               { return KindString }
func (c *TextController) Value() any               { return c.value }
func (c *TextController) Normalize() string        { return c.value }
func (c *TextController) Empty() bool              { return c.value == "" }
func (c *TextController) Reset()                   { c.value = "" }

func (c *TextController) Set(value any) error {
	switch v := value.(type) {
	case nil:
		c.value = ""
	case string:
		c.value = v
	case []string:
		// form posts can deliver repeated keys; the last one wins
		if len(v) == 0 {
			c.value = ""
			return nil
		}
		c.value = v[len(v)-1]
	default:
		return unsupported(c.question, value)
	}
	return nil
}

// ChoiceController stores one option for SELECT and RADIO questions.
type ChoiceController struct {
	question model.Question
	value    string
}

// NewChoice constructs a single-choice controller.
func NewChoice(q model.Question) Controller {
	return &ChoiceController{question: q}
}

func (c *ChoiceController) Question() model.Question { return c.question }
func (c *ChoiceController) Kind() Kind               { return KindString }
func (c *ChoiceController) Value() any               { return c.value }
func (c *ChoiceController) Normalize() string        { return c.value }
func (c *ChoiceController) Empty() bool              { return c.value == "" }
func (c *ChoiceController) Reset()                   { c.value = "" }

func (c *ChoiceController) Set(value any) error {
	var next string
	switch v := value.(type) {
	case nil:
	case string:
		next = v
	case []string:
		if len(v) > 0 {
			next = v[len(v)-1]
		}
	default:
		return unsupported(c.question, value)
	}
	if next != "" && len(c.question.Options) > 0 && !c.question.HasOption(next) {
		return fmt.Errorf("%w: %q for question %d", ErrUnknownOption, next, c.question.ID)
	}
	c.value = next
	return nil
}
