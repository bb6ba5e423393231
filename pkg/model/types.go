package model

import "github.com/goliatone/go-regform/pkg/registration"

// InputType is the control kind a renderer should use for a field.
type InputType string

const (
	InputText   InputType = "text"
	InputEmail  InputType = "email"
	InputTel    InputType = "tel"
	InputDate   InputType = "date"
	InputSelect InputType = "select"
)

// Option is one choice of a select field.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// ValidationRule mirrors a registration.Rule without its predicate.
type ValidationRule struct {
	Kind    string            `json:"kind"`
	Params  map[string]string `json:"params,omitempty"`
	Message string            `json:"message"`
}

// Field models one input of the form.
type Field struct {
	Name        registration.FieldName `json:"name"`
	Label       string                 `json:"label"`
	Placeholder string                 `json:"placeholder,omitempty"`
	Description string                 `json:"description,omitempty"`
	InputType   InputType              `json:"inputType"`
	Icon        string                 `json:"icon,omitempty"`
	IconMarkup  string                 `json:"iconMarkup,omitempty"`
	Required    bool                   `json:"required"`
	Options     []Option               `json:"options,omitempty"`
	Validations []ValidationRule       `json:"validations,omitempty"`
}

// FormModel is the top-level structure renderers consume.
type FormModel struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Description     string  `json:"description,omitempty"`
	SubmitLabel     string  `json:"submitLabel"`
	SubmittingLabel string  `json:"submittingLabel"`
	ResetLabel      string  `json:"resetLabel"`
	SuccessTitle    string  `json:"successTitle"`
	SuccessMessage  string  `json:"successMessage"`
	Fields          []Field `json:"fields"`
}

// Field returns the field descriptor for name.
func (f FormModel) Field(name registration.FieldName) (Field, bool) {
	for _, field := range f.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}
