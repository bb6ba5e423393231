package model

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-regform/pkg/registration"
)

//go:embed definitions/*.yaml
var embeddedDefinitions embed.FS

// DefaultDefinitionPath locates the embedded registration definition.
const DefaultDefinitionPath = "definitions/registration.yaml"

var (
	errDefinitionEmpty = errors.New("model: definition is empty")

	defaultOnce  sync.Once
	defaultForm  FormModel
	defaultError error
)

type definitionDocument struct {
	ID              string          `yaml:"id"`
	Title           string          `yaml:"title"`
	Description     string          `yaml:"description"`
	SubmitLabel     string          `yaml:"submitLabel"`
	SubmittingLabel string          `yaml:"submittingLabel"`
	ResetLabel      string          `yaml:"resetLabel"`
	Success         successDocument `yaml:"success"`
	Fields          []fieldDocument `yaml:"fields"`
}

type successDocument struct {
	Title   string `yaml:"title"`
	Message string `yaml:"message"`
}

type fieldDocument struct {
	Name        string   `yaml:"name"`
	Label       string   `yaml:"label"`
	Placeholder string   `yaml:"placeholder"`
	Description string   `yaml:"description"`
	InputType   string   `yaml:"inputType"`
	Icon        string   `yaml:"icon"`
	Options     []Option `yaml:"options"`
}

// DefinitionsFS exposes the embedded definitions bundle.
func DefinitionsFS() fs.FS {
	return embeddedDefinitions
}

// Default returns the form built from the embedded definition. The result is
// cached; callers receive their own copy of the field slice.
func Default() (FormModel, error) {
	defaultOnce.Do(func() {
		defaultForm, defaultError = Load(embeddedDefinitions, DefaultDefinitionPath)
	})
	if defaultError != nil {
		return FormModel{}, defaultError
	}
	return cloneForm(defaultForm), nil
}

// MustDefault panics when the embedded definition is broken.
func MustDefault() FormModel {
	form, err := Default()
	if err != nil {
		panic(err)
	}
	return form
}

// Load reads and builds the definition at path inside fsys.
func Load(fsys fs.FS, path string) (FormModel, error) {
	if fsys == nil {
		return FormModel{}, errors.New("model: filesystem is nil")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return FormModel{}, fmt.Errorf("model: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes a YAML definition and builds the form model. source is only
// used in error messages.
func Parse(data []byte, source string) (FormModel, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return FormModel{}, fmt.Errorf("%w (%s)", errDefinitionEmpty, source)
	}
	var doc definitionDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return FormModel{}, fmt.Errorf("model: parse %s: %w", source, err)
	}
	form, err := build(doc)
	if err != nil {
		return FormModel{}, fmt.Errorf("model: %s: %w", source, err)
	}
	return form, nil
}

func build(doc definitionDocument) (FormModel, error) {
	form := FormModel{
		ID:              fallback(doc.ID, "registration"),
		Title:           fallback(doc.Title, "Registration"),
		Description:     strings.TrimSpace(doc.Description),
		SubmitLabel:     fallback(doc.SubmitLabel, "Register"),
		SubmittingLabel: fallback(doc.SubmittingLabel, "Processing..."),
		ResetLabel:      fallback(doc.ResetLabel, "Register Another"),
		SuccessTitle:    fallback(doc.Success.Title, "Success!"),
		SuccessMessage:  fallback(doc.Success.Message, "Registration completed successfully."),
	}

	seen := make(map[registration.FieldName]struct{}, len(doc.Fields))
	for _, raw := range doc.Fields {
		name, ok := registration.ParseFieldName(raw.Name)
		if !ok {
			return FormModel{}, fmt.Errorf("unknown field %q", raw.Name)
		}
		if _, dup := seen[name]; dup {
			return FormModel{}, fmt.Errorf("duplicate field %q", name)
		}
		seen[name] = struct{}{}

		field, err := buildField(name, raw)
		if err != nil {
			return FormModel{}, err
		}
		form.Fields = append(form.Fields, field)
	}

	for _, name := range registration.Fields() {
		if _, ok := seen[name]; !ok {
			return FormModel{}, fmt.Errorf("missing field %q", name)
		}
	}
	return form, nil
}

func buildField(name registration.FieldName, raw fieldDocument) (Field, error) {
	field := Field{
		Name:        name,
		Label:       fallback(raw.Label, string(name)),
		Placeholder: strings.TrimSpace(raw.Placeholder),
		Description: strings.TrimSpace(raw.Description),
		InputType:   InputType(fallback(raw.InputType, string(defaultInputType(name)))),
	}
	if isIconMarkup(raw.Icon) {
		field.IconMarkup = sanitizeIconMarkup(raw.Icon)
		if field.IconMarkup == "" {
			return Field{}, fmt.Errorf("field %q: icon markup is empty after sanitising", name)
		}
	} else {
		field.Icon = strings.TrimSpace(raw.Icon)
	}

	switch field.InputType {
	case InputText, InputEmail, InputTel, InputDate, InputSelect:
	default:
		return Field{}, fmt.Errorf("field %q: unsupported input type %q", name, field.InputType)
	}

	for _, rule := range registration.Rules(name) {
		if rule.Kind == registration.RuleRequired {
			field.Required = true
		}
		field.Validations = append(field.Validations, ValidationRule{
			Kind:    rule.Kind,
			Params:  cloneParams(rule.Params),
			Message: rule.Message,
		})
	}

	if name == registration.FieldTimeSlot {
		options, err := timeSlotOptions(raw.Options)
		if err != nil {
			return Field{}, fmt.Errorf("field %q: %w", name, err)
		}
		field.Options = options
	} else if len(raw.Options) > 0 {
		return Field{}, fmt.Errorf("field %q: options are only supported on %s", name, registration.FieldTimeSlot)
	}
	return field, nil
}

// timeSlotOptions merges label overrides from the definition into the fixed
// option list. Values are part of the contract and cannot be added or removed.
func timeSlotOptions(overrides []Option) ([]Option, error) {
	labels := make(map[string]string, len(overrides))
	for _, opt := range overrides {
		value := strings.TrimSpace(opt.Value)
		if !registration.IsTimeSlot(value) {
			return nil, fmt.Errorf("unknown time slot %q", opt.Value)
		}
		labels[value] = strings.TrimSpace(opt.Label)
	}

	base := registration.TimeSlotOptions()
	out := make([]Option, 0, len(base))
	for _, opt := range base {
		label := opt.Label
		if override := labels[opt.Value]; override != "" {
			label = override
		}
		out = append(out, Option{Value: opt.Value, Label: label})
	}
	return out, nil
}

func defaultInputType(name registration.FieldName) InputType {
	switch name {
	case registration.FieldEmail:
		return InputEmail
	case registration.FieldPhoneNumber:
		return InputTel
	case registration.FieldDateOfJoining:
		return InputDate
	case registration.FieldTimeSlot:
		return InputSelect
	default:
		return InputText
	}
}

func fallback(value, def string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return def
}

func cloneParams(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

func cloneForm(form FormModel) FormModel {
	out := form
	out.Fields = make([]Field, len(form.Fields))
	copy(out.Fields, form.Fields)
	return out
}
