package form

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-inquiry/pkg/fields"
	"github.com/goliatone/go-inquiry/pkg/model"
)

const fieldNamePrefix = "q-"

// Region part suffixes used by FieldName-derived inputs.
const (
	RegionPartSido    = "sido"
	RegionPartSigungu = "sigungu"
	RegionPartDong    = "dong"
	RegionPartCode    = "code"
)

// FieldName returns the input name used for question id in HTML forms.
func FieldName(id int) string {
	return fieldNamePrefix + strconv.Itoa(id)
}

// RegionPartName returns the input name of one region part.
func RegionPartName(id int, part string) string {
	return FieldName(id) + "-" + part
}

// KeptFilesName returns the input name listing files attached by an earlier
// request. Each value is a file name that should stay attached.
func KeptFilesName(id int) string {
	return FieldName(id) + "-kept"
}

// ParseFieldName extracts the question id from an input name produced by
// FieldName. Region part names resolve to their question id as well.
func ParseFieldName(name string) (int, bool) {
	name = strings.TrimSpace(name)
	if !strings.HasPrefix(name, fieldNamePrefix) {
		return 0, false
	}
	rest := strings.TrimPrefix(name, fieldNamePrefix)
	if idx := strings.IndexByte(rest, '-'); idx > 0 {
		rest = rest[:idx]
	}
	id, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Bind loads posted values into the session controllers. values holds the
// decoded form fields; files holds the picked files keyed by question id. All
// controller errors are collected and returned joined.
func (s *Session) Bind(values map[string][]string, files map[int][]model.FileRef) error {
	var errs []error
	for _, field := range s.fields {
		if err := bindField(field, values, files); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func bindField(field *Field, values map[string][]string, files map[int][]model.FileRef) error {
	id := field.Question.ID
	name := FieldName(id)

	switch field.Controller.Kind() {
	case fields.KindFiles:
		kept := values[KeptFilesName(id)]
		picked := files[id]
		if len(kept) == 0 && len(picked) == 0 {
			return nil
		}
		refs := make([]model.FileRef, 0, len(kept)+len(picked))
		for _, name := range kept {
			refs = append(refs, model.FileRef{Name: name})
		}
		refs = append(refs, picked...)
		if fc, ok := field.Controller.(*fields.FileController); ok {
			fc.Append(refs...)
			return nil
		}
		return field.Controller.Set(refs)
	case fields.KindRegion:
		region := model.Region{
			Sido:    firstValue(values, RegionPartName(id, RegionPartSido)),
			Sigungu: firstValue(values, RegionPartName(id, RegionPartSigungu)),
			Dong:    firstValue(values, RegionPartName(id, RegionPartDong)),
			Code:    firstValue(values, RegionPartName(id, RegionPartCode)),
		}
		return field.Controller.Set(region)
	case fields.KindStrings:
		raw, ok := values[name]
		if !ok {
			return field.Controller.Set(nil)
		}
		if err := field.Controller.Set(raw); err != nil {
			return fmt.Errorf("form: bind question %d: %w", id, err)
		}
		return nil
	default:
		raw, ok := values[name]
		if !ok {
			return nil
		}
		if err := field.Controller.Set(raw); err != nil {
			return fmt.Errorf("form: bind question %d: %w", id, err)
		}
		return nil
	}
}

func firstValue(values map[string][]string, key string) string {
	if list := values[key]; len(list) > 0 {
		return list[0]
	}
	return ""
}
