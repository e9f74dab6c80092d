package vanilla

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-inquiry/pkg/fields"
	"github.com/goliatone/go-inquiry/pkg/form"
	"github.com/goliatone/go-inquiry/pkg/model"
	"github.com/goliatone/go-inquiry/pkg/render"
	"github.com/goliatone/go-inquiry/pkg/renderers/vanilla/components"
)

type formView struct {
	SessionID   string
	Title       string
	Description string
	Action      string
	Method      string
	Notice      string
	Errors      []string
	Hidden      []render.HiddenField
}

type pageView struct {
	Title       string
	Message     string
	RetryURL    string
	Locale      string
	Stylesheets []string
	InlineCSS   string
	Scripts     []string
	InlineJS    string
	Theme       string
	Variant     string
	ThemeStyle  string
}

var inputTypes = map[string]string{
	fields.WidgetInput:  "text",
	fields.WidgetEmail:  "email",
	fields.WidgetTel:    "tel",
	fields.WidgetNumber: "number",
	fields.WidgetDate:   "date",
}

func controlID(id int) string {
	return "inquiry-" + form.FieldName(id)
}

func buildFieldView(field *form.Field, errs []string) components.Field {
	q := field.Question
	id := q.ID

	view := components.Field{
		ID:          id,
		Name:        form.FieldName(id),
		ControlID:   controlID(id),
		Widget:      field.Widget(),
		Type:        string(q.Type),
		InputType:   inputTypes[field.Widget()],
		Label:       sanitizeText(q.DisplayLabel()),
		Description: sanitizeRich(q.Description),
		Placeholder: strings.TrimSpace(q.Placeholder),
		Required:    q.Required,
		Errors:      render.MergeFormErrors(nil, errs...),
		ErrorID:     controlID(id) + "-error",
	}
	view.Invalid = len(view.Errors) > 0
	if view.InputType == "" {
		view.InputType = "text"
	}

	switch value := field.Controller.Value().(type) {
	case string:
		view.Value = value
	case []string:
		view.Options = buildOptions(id, q.Options, value)
	case []model.FileRef:
		for _, ref := range value {
			view.Files = append(view.Files, components.File{Name: ref.Name, Size: ref.Size})
		}
	case *model.Region:
		if value != nil {
			view.Region = components.Region{Sido: value.Sido, Sigungu: value.Sigungu, Dong: value.Dong, Code: value.Code}
		}
	}

	switch view.Widget {
	case fields.WidgetSelect, fields.WidgetRadio:
		view.Options = buildOptions(id, q.Options, []string{view.Value})
	case fields.WidgetCheckbox:
		if view.Options == nil {
			view.Options = buildOptions(id, q.Options, nil)
		}
	}
	if field.Controller.Kind() == fields.KindRegion {
		view.Region.SidoName = form.RegionPartName(id, form.RegionPartSido)
		view.Region.SigunguName = form.RegionPartName(id, form.RegionPartSigungu)
		view.Region.DongName = form.RegionPartName(id, form.RegionPartDong)
		view.Region.CodeName = form.RegionPartName(id, form.RegionPartCode)
	}
	return view
}

func buildOptions(id int, options []string, selected []string) []components.Option {
	chosen := make(map[string]struct{}, len(selected))
	for _, value := range selected {
		if value != "" {
			chosen[value] = struct{}{}
		}
	}
	out := make([]components.Option, 0, len(options))
	for idx, option := range options {
		_, isSelected := chosen[option]
		out = append(out, components.Option{
			Index:    idx,
			Value:    option,
			Label:    sanitizeText(option),
			Selected: isSelected,
			ID:       fmt.Sprintf("%s-%d", controlID(id), idx),
		})
	}
	return out
}
