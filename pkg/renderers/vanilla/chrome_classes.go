package vanilla

// ChromeClass is a typed identifier for semantic chrome CSS classes.
type ChromeClass string

const (
	ClassForm    ChromeClass = "regform-form"
	ClassHeader  ChromeClass = "regform-header"
	ClassField   ChromeClass = "regform-field"
	ClassActions ChromeClass = "regform-actions"
	ClassErrors  ChromeClass = "regform-errors"
	ClassSuccess ChromeClass = "regform-success"
)

func chromeClasses() map[string]string {
	return map[string]string{
		"form":    string(ClassForm),
		"header":  string(ClassHeader),
		"field":   string(ClassField),
		"actions": string(ClassActions),
		"errors":  string(ClassErrors),
		"success": string(ClassSuccess),
	}
}
