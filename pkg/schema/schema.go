// Package schema defines the declarative field list that drives form
// rendering, default drafts, and validation. The field list is the single
// source of truth for which fields exist on a record: adding a field means
// inserting one descriptor here, and every other package picks it up.
package schema

import (
	"fmt"
	"strings"
)

// FieldKind is the simplified enum for form-friendly input kinds.
type FieldKind string

const (
	FieldText  FieldKind = "text"
	FieldEmail FieldKind = "email"
	FieldTel   FieldKind = "tel"
	FieldDate  FieldKind = "date"
)

// Validator kind identifiers referenced by descriptors. The actual validator
// implementations live in pkg/validate; descriptors only carry the key.
const (
	ValidatorName  = "name"
	ValidatorEmail = "email"
	ValidatorPhone = "phone"
	ValidatorDate  = "date"
)

// FieldDescriptor describes a single form field: its record key, display
// label, input kind, whether it is required, the validator kind routed to it,
// and an optional placeholder.
type FieldDescriptor struct {
	Name        string    `json:"name" yaml:"name"`
	Label       string    `json:"label" yaml:"label"`
	Kind        FieldKind `json:"kind" yaml:"kind"`
	Required    bool      `json:"required" yaml:"required"`
	Validator   string    `json:"validator,omitempty" yaml:"validator"`
	Placeholder string    `json:"placeholder,omitempty" yaml:"placeholder"`
}

// Fields is an ordered field list. The slice order is the canonical display,
// default-construction, and validation order. Fields values are treated as
// immutable once built; none of the methods mutate the receiver.
type Fields []FieldDescriptor

// Find returns the descriptor registered under name.
func (f Fields) Find(name string) (FieldDescriptor, bool) {
	for _, field := range f {
		if field.Name == name {
			return field, true
		}
	}
	return FieldDescriptor{}, false
}

// Has reports whether a descriptor with the given name exists.
func (f Fields) Has(name string) bool {
	_, ok := f.Find(name)
	return ok
}

// Names returns the field names in declaration order.
func (f Fields) Names() []string {
	names := make([]string, 0, len(f))
	for _, field := range f {
		names = append(names, field.Name)
	}
	return names
}

// DefaultDraft builds an all-empty draft with exactly one key per field.
func (f Fields) DefaultDraft() Draft {
	draft := make(Draft, len(f))
	for _, field := range f {
		draft[field.Name] = ""
	}
	return draft
}

// Validate checks the structural invariants a schema must satisfy: at least
// one field, non-empty names, and name uniqueness.
func (f Fields) Validate() error {
	if len(f) == 0 {
		return fmt.Errorf("schema: field list is empty")
	}
	seen := make(map[string]struct{}, len(f))
	for _, field := range f {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			return fmt.Errorf("schema: field with empty name (label %q)", field.Label)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("schema: duplicate field name %q", name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

// Draft holds the in-progress string values for a create or edit operation,
// keyed by field name. A well-formed draft carries exactly the schema's keys.
type Draft map[string]string

// Clone returns an independent copy of the draft.
func (d Draft) Clone() Draft {
	if d == nil {
		return nil
	}
	out := make(Draft, len(d))
	for name, value := range d {
		out[name] = value
	}
	return out
}

// Value returns the draft value for name, or "" when absent.
func (d Draft) Value(name string) string {
	if d == nil {
		return ""
	}
	return d[name]
}

// UserFields returns the canonical user-record schema. This is the only place
// the default form's shape is declared.
func UserFields() Fields {
	return Fields{
		{
			Name:        "firstName",
			Label:       "First Name",
			Kind:        FieldText,
			Required:    true,
			Validator:   ValidatorName,
			Placeholder: "Jane",
		},
		{
			Name:        "lastName",
			Label:       "Last Name",
			Kind:        FieldText,
			Required:    true,
			Validator:   ValidatorName,
			Placeholder: "Doe",
		},
		{
			Name:        "email",
			Label:       "Email",
			Kind:        FieldEmail,
			Required:    true,
			Validator:   ValidatorEmail,
			Placeholder: "jane@example.com",
		},
		{
			Name:        "phone",
			Label:       "Phone",
			Kind:        FieldTel,
			Required:    true,
			Validator:   ValidatorPhone,
			Placeholder: "(555) 123-4567",
		},
	}
}
