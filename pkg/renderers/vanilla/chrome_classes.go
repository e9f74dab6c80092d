package vanilla

// ChromeClass is a semantic CSS class emitted around the fields.
type ChromeClass string

const (
	ClassForm    ChromeClass = "inquiry-form"
	ClassHeader  ChromeClass = "inquiry-header"
	ClassFields  ChromeClass = "inquiry-fields"
	ClassField   ChromeClass = "inquiry-field"
	ClassActions ChromeClass = "inquiry-actions"
	ClassErrors  ChromeClass = "inquiry-errors"
	ClassState   ChromeClass = "inquiry-state"
)

func defaultClasses() map[string]string {
	return map[string]string{
		"form":    string(ClassForm),
		"header":  string(ClassHeader),
		"fields":  string(ClassFields),
		"field":   string(ClassField),
		"actions": string(ClassActions),
		"errors":  string(ClassErrors),
		"state":   string(ClassState),
	}
}
