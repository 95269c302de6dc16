package render

import (
	"html"
	"strings"

	"github.com/goliatone/go-userdesk/pkg/form"
	"github.com/goliatone/go-userdesk/pkg/schema"
)

// FieldView is one form control ready for the template: the descriptor's
// presentation data plus the draft value and any validation error.
type FieldView struct {
	Name        string `json:"name"`
	Label       string `json:"label"`
	InputType   string `json:"inputType"`
	Value       string `json:"value"`
	Placeholder string `json:"placeholder,omitempty"`
	Required    bool   `json:"required"`
	Error       string `json:"error,omitempty"`
	Touched     bool   `json:"touched"`
	Markup      string `json:"markup"`
}

// FormView is the full create/edit page payload.
type FormView struct {
	Title       string      `json:"title"`
	Action      string      `json:"action"`
	SubmitLabel string      `json:"submitLabel"`
	CancelURL   string      `json:"cancelUrl"`
	Mode        string      `json:"mode"`
	Fields      []FieldView `json:"fields"`
	Submittable bool        `json:"submittable"`
	Flash       string      `json:"flash,omitempty"`
	FlashError  string      `json:"flashError,omitempty"`
}

// BuildFormView flattens a controller snapshot into template data. Every
// field error the controller holds is shown; the caller decides when that is
// (typically after a failed submit, when all fields are touched).
func BuildFormView(fields schema.Fields, controller *form.Controller, action, cancelURL string) FormView {
	view := FormView{
		Action:    action,
		CancelURL: cancelURL,
		Mode:      string(controller.Mode()),
		Fields:    make([]FieldView, 0, len(fields)),
	}

	switch controller.Mode() {
	case form.ModeEdit:
		view.Title = "Edit User"
		view.SubmitLabel = "Save Changes"
	default:
		view.Title = "New User"
		view.SubmitLabel = "Create User"
	}

	for _, field := range fields {
		fv := FieldView{
			Name:        field.Name,
			Label:       field.Label,
			InputType:   inputType(field.Kind),
			Value:       controller.Value(field.Name),
			Placeholder: field.Placeholder,
			Required:    field.Required,
			Error:       controller.Error(field.Name),
			Touched:     controller.Touched(field.Name),
		}
		fv.Markup = buildFieldMarkup(fv)
		view.Fields = append(view.Fields, fv)
	}

	view.Submittable = controller.Submittable()
	return view
}

func inputType(kind schema.FieldKind) string {
	switch kind {
	case schema.FieldEmail:
		return "email"
	case schema.FieldTel:
		return "tel"
	case schema.FieldDate:
		return "date"
	default:
		return "text"
	}
}

// buildFieldMarkup emits the label/control/error block for one field. All
// dynamic values are escaped; the template injects the result with |safe.
func buildFieldMarkup(field FieldView) string {
	var builder strings.Builder
	builder.Grow(512)

	builder.WriteString(`<div class="field`)
	if field.Error != "" {
		builder.WriteString(` field-invalid`)
	}
	builder.WriteString(`" data-field="`)
	builder.WriteString(html.EscapeString(field.Name))
	builder.WriteString(`">`)

	builder.WriteString(`<label for="`)
	builder.WriteString(html.EscapeString(field.Name))
	builder.WriteString(`">`)
	builder.WriteString(html.EscapeString(field.Label))
	if field.Required {
		builder.WriteString(`<span class="required" aria-hidden="true">*</span>`)
	}
	builder.WriteString(`</label>`)

	builder.WriteString(`<input type="`)
	builder.WriteString(field.InputType)
	builder.WriteString(`" id="`)
	builder.WriteString(html.EscapeString(field.Name))
	builder.WriteString(`" name="`)
	builder.WriteString(html.EscapeString(field.Name))
	builder.WriteString(`" value="`)
	builder.WriteString(html.EscapeString(field.Value))
	builder.WriteString(`"`)

	if field.Placeholder != "" {
		builder.WriteString(` placeholder="`)
		builder.WriteString(html.EscapeString(field.Placeholder))
		builder.WriteString(`"`)
	}
	if field.Required {
		builder.WriteString(` required`)
	}
	if field.Error != "" {
		builder.WriteString(` aria-invalid="true" aria-describedby="`)
		builder.WriteString(html.EscapeString(field.Name))
		builder.WriteString(`-error"`)
	}
	builder.WriteString(`>`)

	if field.Error != "" {
		builder.WriteString(`<p class="field-error" id="`)
		builder.WriteString(html.EscapeString(field.Name))
		builder.WriteString(`-error" role="alert">`)
		builder.WriteString(html.EscapeString(field.Error))
		builder.WriteString(`</p>`)
	}

	builder.WriteString(`</div>`)
	return builder.String()
}
