package components

import "github.com/goliatone/go-inquiry/pkg/fields"

// Component names match the widget names published by fields.Registry.
const (
	NameInput    = fields.WidgetInput
	NameEmail    = fields.WidgetEmail
	NameTel      = fields.WidgetTel
	NameNumber   = fields.WidgetNumber
	NameDate     = fields.WidgetDate
	NameTextarea = fields.WidgetTextarea
	NameSelect   = fields.WidgetSelect
	NameRadio    = fields.WidgetRadio
	NameCheckbox = fields.WidgetCheckbox
	NameFile     = fields.WidgetFile
	NameRegion   = fields.WidgetRegion
)
