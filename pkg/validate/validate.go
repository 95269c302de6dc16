// Package validate holds the pure field validators and the schema-routed
// record validator. Validators map a raw string value to a user-facing error
// message; an empty message means the value is valid. New validator kinds are
// added here once and activated by referencing them from a field descriptor.
package validate

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/goliatone/go-userdesk/pkg/schema"
)

// Validator kinds understood by ByKind. These mirror the schema.Validator*
// constants so descriptors stay plain strings.
const (
	KindName  = schema.ValidatorName
	KindEmail = schema.ValidatorEmail
	KindPhone = schema.ValidatorPhone
	KindDate  = schema.ValidatorDate
)

const dateLayout = "2006-01-02"

var (
	// Deliberately permissive email shape: local@domain.tld without spaces.
	// TLD length and multi-dot domains are not checked strictly.
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	// Names allow letters, spaces, hyphens, and apostrophes only.
	namePattern = regexp.MustCompile(`^[A-Za-z '-]+$`)

	// Phone numbers after stripping formatting: optional +, 10+ digits.
	phonePattern = regexp.MustCompile(`^\+?[0-9]{10,}$`)

	phoneStripper = strings.NewReplacer(" ", "", "(", "", ")", "", "-", "")
)

// Errors maps field names to error messages. An absent key or empty message
// both mean the field has no error.
type Errors map[string]string

// Valid reports whether the mapping carries no non-empty message.
func (e Errors) Valid() bool {
	for _, message := range e {
		if message != "" {
			return false
		}
	}
	return true
}

// ByKind routes a raw value to the validator registered for kind. Unknown or
// absent kinds fall back to a generic required check.
func ByKind(kind, raw string) string {
	switch kind {
	case KindName:
		return Name(raw)
	case KindEmail:
		return Email(raw)
	case KindPhone:
		return Phone(raw)
	case KindDate:
		return Date(raw)
	default:
		return Required(raw)
	}
}

// Required rejects empty or whitespace-only values.
func Required(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return "This field is required"
	}
	return ""
}

// Name validates a person-name component: required, 2-50 characters, letters
// plus spaces, hyphens, and apostrophes.
func Name(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "Name is required"
	}
	length := utf8.RuneCountInString(trimmed)
	if length < 2 {
		return "Name must be at least 2 characters"
	}
	if length > 50 {
		return "Name must be 50 characters or less"
	}
	if !namePattern.MatchString(trimmed) {
		return "Name can only contain letters, spaces, hyphens, and apostrophes"
	}
	return ""
}

// Email validates a required email address against the simplified shape.
func Email(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "Email is required"
	}
	if !emailPattern.MatchString(trimmed) {
		return "Please enter a valid email address"
	}
	return ""
}

// Phone validates a required phone number. Spaces, parentheses, and hyphens
// are stripped before matching, so formatted input like "(555) 123-4567" is
// accepted.
func Phone(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "Phone number is required"
	}
	cleaned := phoneStripper.Replace(trimmed)
	if !phonePattern.MatchString(cleaned) {
		return "Please enter a valid phone number (at least 10 digits)"
	}
	return ""
}

// Date accepts an empty value or a parseable YYYY-MM-DD calendar date. Unlike
// the other kinds it is not a required check; pair it with Required via the
// descriptor when the field is mandatory.
func Date(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if _, err := time.Parse(dateLayout, trimmed); err != nil {
		return "Please enter a valid date"
	}
	return ""
}

// Record validates a whole draft against the schema, in schema order. Draft
// keys outside the schema are ignored; the schema is authoritative. Fields
// with no validator and no required flag are skipped so that optional,
// unvalidated fields never produce entries.
func Record(fields schema.Fields, draft schema.Draft) Errors {
	errs := make(Errors)
	for _, field := range fields {
		if field.Validator == "" && !field.Required {
			continue
		}
		if message := ByKind(field.Validator, draft.Value(field.Name)); message != "" {
			errs[field.Name] = message
		}
	}
	return errs
}
