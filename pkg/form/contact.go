package form

import "github.com/goliatone/go-inquiry/pkg/model"

// ContactResolver picks the question whose value is submitted as the contact
// phone. It receives the template in its original (unsorted) order and the
// questions in display order.
type ContactResolver func(tpl model.Template, sorted []model.Question) (model.Question, bool)

// DefaultContactPosition is the template position treated as the contact
// question when no question declares the contact role.
const DefaultContactPosition = 1

// ContactAtTemplatePosition resolves the question at index of the template's
// original question list.
func ContactAtTemplatePosition(index int) ContactResolver {
	return func(tpl model.Template, _ []model.Question) (model.Question, bool) {
		if index < 0 || index >= len(tpl.Questions) {
			return model.Question{}, false
		}
		return tpl.Questions[index], true
	}
}

// ContactAtDisplayPosition resolves the question at index of the display
// (sorted) order.
func ContactAtDisplayPosition(index int) ContactResolver {
	return func(_ model.Template, sorted []model.Question) (model.Question, bool) {
		if index < 0 || index >= len(sorted) {
			return model.Question{}, false
		}
		return sorted[index], true
	}
}

// ContactByRole resolves the first question tagged with model.RoleContact and
// defers to fallback when none is tagged.
func ContactByRole(fallback ContactResolver) ContactResolver {
	return func(tpl model.Template, sorted []model.Question) (model.Question, bool) {
		for _, q := range tpl.Questions {
			if q.Role == model.RoleContact {
				return q, true
			}
		}
		if fallback == nil {
			return model.Question{}, false
		}
		return fallback(tpl, sorted)
	}
}

// DefaultContactResolver prefers an explicit contact role and otherwise uses
// the second question of the template.
func DefaultContactResolver() ContactResolver {
	return ContactByRole(ContactAtTemplatePosition(DefaultContactPosition))
}
