package render

import (
	"strings"

	"github.com/goliatone/go-regform/pkg/controller"
	"github.com/goliatone/go-regform/pkg/model"
	"github.com/goliatone/go-regform/pkg/registration"
)

// OptionView is one select option with its selection flag resolved.
type OptionView struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// FieldView merges a field descriptor with its session value and the error the
// user should currently see.
type FieldView struct {
	Name        string       `json:"name"`
	Label       string       `json:"label"`
	Placeholder string       `json:"placeholder,omitempty"`
	Description string       `json:"description,omitempty"`
	InputType   string       `json:"inputType"`
	Icon        string       `json:"icon,omitempty"`
	IconMarkup  string       `json:"iconMarkup,omitempty"`
	Required    bool         `json:"required"`
	Value       string       `json:"value"`
	Error       string       `json:"error,omitempty"`
	Min         string       `json:"min,omitempty"`
	Options     []OptionView `json:"options,omitempty"`
}

// View is the template-friendly projection of a form session.
type View struct {
	ID              string      `json:"id"`
	Title           string      `json:"title"`
	Description     string      `json:"description,omitempty"`
	SubmitLabel     string      `json:"submitLabel"`
	SubmittingLabel string      `json:"submittingLabel"`
	ResetLabel      string      `json:"resetLabel"`
	SuccessTitle    string      `json:"successTitle"`
	SuccessMessage  string      `json:"successMessage"`
	Action          string      `json:"action"`
	ResetAction     string      `json:"resetAction"`
	RefreshSeconds  int         `json:"refreshSeconds,omitempty"`
	Submission      string      `json:"submission"`
	Submitting      bool        `json:"submitting"`
	Submitted       bool        `json:"submitted"`
	FormErrors      []string    `json:"formErrors,omitempty"`
	AckID           string      `json:"ackId,omitempty"`
	Fields          []FieldView `json:"fields"`
}

// NewView projects form and state into a View. Values are copied verbatim;
// escaping is the renderer's job.
func NewView(form model.FormModel, state controller.State, opts RenderOptions) View {
	view := View{
		ID:              form.ID,
		Title:           form.Title,
		Description:     form.Description,
		SubmitLabel:     form.SubmitLabel,
		SubmittingLabel: form.SubmittingLabel,
		ResetLabel:      form.ResetLabel,
		SuccessTitle:    form.SuccessTitle,
		SuccessMessage:  form.SuccessMessage,
		Action:          opts.Action,
		ResetAction:     opts.ResetAction,
		Submission:      string(state.Submission),
		Submitting:      state.Submission == controller.Submitting,
		Submitted:       state.Submission == controller.Submitted,
		FormErrors:      MergeFormErrors(nil, state.SubmitError),
	}
	if view.Submitting {
		view.RefreshSeconds = opts.RefreshSeconds
	}
	if state.Ack != nil {
		view.AckID = state.Ack.ID
	}

	minDate := registration.StartOfDay(opts.now()).Format(registration.DateLayout)
	for _, field := range form.Fields {
		value := state.Data.Get(field.Name)
		fv := FieldView{
			Name:        string(field.Name),
			Label:       field.Label,
			Placeholder: field.Placeholder,
			Description: field.Description,
			InputType:   string(field.InputType),
			Icon:        field.Icon,
			IconMarkup:  field.IconMarkup,
			Required:    field.Required,
			Value:       value,
			Error:       state.VisibleError(field.Name),
		}
		if field.InputType == model.InputDate {
			fv.Min = minDate
		}
		for _, opt := range field.Options {
			fv.Options = append(fv.Options, OptionView{
				Value:    opt.Value,
				Label:    opt.Label,
				Selected: opt.Value == value,
			})
		}
		view.Fields = append(view.Fields, fv)
	}
	return view
}

// MergeFormErrors concatenates form-level messages, trimming whitespace and
// dropping blanks and duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)

	out := make([]string, 0, len(combined))
	seen := make(map[string]struct{}, len(combined))
	for _, message := range combined {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
