// Package form implements the state machine behind a schema-driven form: the
// current draft, per-field touched flags, and per-field errors. Validation is
// routed through pkg/validate on change, blur, and submit; the controller
// never talks to a backend itself.
package form

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-userdesk/pkg/schema"
	"github.com/goliatone/go-userdesk/pkg/validate"
)

// Mode distinguishes a fresh create draft from one seeded off an existing
// record. The controller behaves identically in both; the mode exists so
// callers can label the form and route the eventual submit.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// ErrUnknownField is returned when an event references a field the schema
// does not declare.
var ErrUnknownField = errors.New("form: unknown field")

// ErrInvalidDraft is returned by Submit when validation blocks the handler.
var ErrInvalidDraft = errors.New("form: draft has validation errors")

// Controller owns the draft, errors, and touched flags for one form session.
// It is not safe for concurrent use; callers own one controller per session
// and drive it from a single goroutine.
type Controller struct {
	fields  schema.Fields
	mode    Mode
	draft   schema.Draft
	errors  validate.Errors
	touched map[string]bool
}

// NewController builds a controller in create mode with a schema-default
// empty draft.
func NewController(fields schema.Fields) *Controller {
	c := &Controller{fields: fields}
	c.Init(ModeCreate, nil)
	return c
}

// Init resets the controller for a new session. When seed is non-nil the
// draft takes the seed's values for every schema field (absent keys become
// empty); otherwise the draft is schema-default empty. Errors and touched
// flags always reset.
func (c *Controller) Init(mode Mode, seed schema.Draft) {
	c.mode = mode
	c.draft = c.fields.DefaultDraft()
	if seed != nil {
		for _, field := range c.fields {
			c.draft[field.Name] = seed.Value(field.Name)
		}
	}
	c.errors = make(validate.Errors)
	c.touched = make(map[string]bool)
}

// Mode returns the current mode.
func (c *Controller) Mode() Mode {
	return c.mode
}

// Draft returns a copy of the current draft. The controller retains exclusive
// ownership of its internal state.
func (c *Controller) Draft() schema.Draft {
	return c.draft.Clone()
}

// Value returns the current value for a single field.
func (c *Controller) Value(name string) string {
	return c.draft.Value(name)
}

// Errors returns a copy of the current error mapping.
func (c *Controller) Errors() validate.Errors {
	out := make(validate.Errors, len(c.errors))
	for name, message := range c.errors {
		out[name] = message
	}
	return out
}

// Error returns the stored message for a single field, "" when clean.
func (c *Controller) Error(name string) string {
	return c.errors[name]
}

// Touched reports whether the field has been blurred at least once.
func (c *Controller) Touched(name string) bool {
	return c.touched[name]
}

// Change updates a field's value. Fields already touched are re-validated
// immediately; untouched fields get no live feedback until their first blur.
func (c *Controller) Change(name, value string) error {
	field, ok := c.fields.Find(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	c.draft[name] = value
	if c.touched[name] {
		c.errors[name] = validate.ByKind(field.Validator, value)
	}
	return nil
}

// Blur marks the field touched (idempotent) and re-validates it.
func (c *Controller) Blur(name string) error {
	field, ok := c.fields.Find(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	c.touched[name] = true
	c.errors[name] = validate.ByKind(field.Validator, c.draft[name])
	return nil
}

// Submit validates the whole draft. On any error it stores the full error
// mapping, marks every field touched so all violations render, and returns
// ErrInvalidDraft without invoking the handler. On a clean draft it hands a
// copy of the draft to the handler and returns the handler's error; clearing
// and mode transitions stay with the caller.
func (c *Controller) Submit(handler func(schema.Draft) error) error {
	errs := validate.Record(c.fields, c.draft)
	if !errs.Valid() {
		c.errors = errs
		for _, field := range c.fields {
			c.touched[field.Name] = true
		}
		return ErrInvalidDraft
	}
	if handler == nil {
		return nil
	}
	return handler(c.draft.Clone())
}

// Clear resets the draft to schema-default empty and wipes errors and touched
// flags. Mode is preserved; calling Clear twice yields the same state as
// calling it once.
func (c *Controller) Clear() {
	c.draft = c.fields.DefaultDraft()
	c.errors = make(validate.Errors)
	c.touched = make(map[string]bool)
}

// Submittable reports whether the form can be submitted: no stored non-empty
// error and every draft value non-empty after trimming. The emptiness check
// runs independently of validation so a never-touched (and therefore never
// validated) field still blocks submission while empty. Both gates are kept
// even though they can disagree for optional format-only validators; callers
// rely on the combined behavior.
func (c *Controller) Submittable() bool {
	if !c.errors.Valid() {
		return false
	}
	for _, field := range c.fields {
		if strings.TrimSpace(c.draft[field.Name]) == "" {
			return false
		}
	}
	return true
}
