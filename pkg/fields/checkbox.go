package fields

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-inquiry/pkg/model"
)

// AnswerSeparator joins multi-valued answers into answer text.
const AnswerSeparator = ", "

// CheckboxController stores the set of checked options in toggle order.
type CheckboxController struct {
	question model.Question
	values   []string
}

// NewCheckbox constructs a checkbox controller.
func NewCheckbox(q model.Question) Controller {
	return &CheckboxController{question: q}
}

func (c *CheckboxController) Question() model.Question { return c.question }
func (c *CheckboxController) Kind() Kind               { return KindStrings }
func (c *CheckboxController) Empty() bool              { return len(c.values) == 0 }
func (c *CheckboxController) Reset()                   { c.values = nil }

func (c *CheckboxController) Value() any {
	return append([]string(nil), c.values...)
}

func (c *CheckboxController) Normalize() string {
	return strings.Join(c.values, AnswerSeparator)
}

// Toggle adds option when absent and removes it when present. Options that are
// not part of the question are rejected.
func (c *CheckboxController) Toggle(option string) error {
	if !c.question.HasOption(option) {
		return fmt.Errorf("%w: %q for question %d", ErrUnknownOption, option, c.question.ID)
	}
	for idx, existing := range c.values {
		if existing == option {
			c.values = append(c.values[:idx], c.values[idx+1:]...)
			return nil
		}
	}
	c.values = append(c.values, option)
	return nil
}

// Checked reports whether option is currently selected.
func (c *CheckboxController) Checked(option string) bool {
	for _, existing := range c.values {
		if existing == option {
			return true
		}
	}
	return false
}

// Set replaces the selection. The supplied order becomes the toggle order;
// duplicates are dropped.
func (c *CheckboxController) Set(value any) error {
	var next []string
	switch v := value.(type) {
	case nil:
	case string:
		if v != "" {
			next = []string{v}
		}
	case []string:
		next = v
	default:
		return unsupported(c.question, value)
	}

	c.values = nil
	for _, option := range next {
		if option == "" || c.Checked(option) {
			continue
		}
		if err := c.Toggle(option); err != nil {
			c.values = nil
			return err
		}
	}
	return nil
}
