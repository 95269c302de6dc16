package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-userdesk/pkg/crud"
	"github.com/goliatone/go-userdesk/pkg/form"
	"github.com/goliatone/go-userdesk/pkg/schema"
	"github.com/goliatone/go-userdesk/pkg/validate"
)

// Store is the persistence surface the prompt flows need.
type Store interface {
	crud.Backend
	Get(ctx context.Context, id string) (crud.Record, error)
}

const (
	menuList   = "List users"
	menuCreate = "Create user"
	menuEdit   = "Edit user"
	menuDelete = "Delete user"
	menuQuit   = "Quit"
)

// Option configures a Runner.
type Option func(*Runner)

// WithDriver overrides the prompt driver, for tests and alternate frontends.
func WithDriver(driver Driver) Option {
	return func(r *Runner) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// Runner loops a main menu and dispatches CRUD flows over the store.
type Runner struct {
	fields schema.Fields
	store  Store
	driver Driver
}

// NewRunner builds a Runner. Without options it prompts on the real terminal.
func NewRunner(fields schema.Fields, store Store, opts ...Option) *Runner {
	r := &Runner{
		fields: fields,
		store:  store,
		driver: NewSurveyDriver(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// Run shows the menu until the user quits or aborts. An abort (Ctrl+C) exits
// cleanly; other errors propagate.
func (r *Runner) Run(ctx context.Context) error {
	options := []string{menuList, menuCreate, menuEdit, menuDelete, menuQuit}

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		choice, err := r.driver.Select(ctx, SelectConfig{
			Message: "User Manager",
			Options: options,
		})
		if err != nil {
			return quietAbort(err)
		}
		if choice < 0 || choice >= len(options) {
			continue
		}

		switch options[choice] {
		case menuList:
			err = r.listFlow(ctx)
		case menuCreate:
			err = r.createFlow(ctx)
		case menuEdit:
			err = r.editFlow(ctx)
		case menuDelete:
			err = r.deleteFlow(ctx)
		case menuQuit:
			return nil
		}
		if err != nil {
			return quietAbort(err)
		}
	}
}

func (r *Runner) listFlow(ctx context.Context) error {
	records, err := r.store.List(ctx)
	if err != nil {
		return fmt.Errorf("prompt: list users: %w", err)
	}
	if len(records) == 0 {
		return r.driver.Info(ctx, "No users yet.")
	}
	for i, record := range records {
		if err := r.driver.Info(ctx, fmt.Sprintf("%d. %s", i+1, summarize(r.fields, record))); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) createFlow(ctx context.Context) error {
	controller := form.NewController(r.fields)
	controller.Init(form.ModeCreate, nil)

	if err := r.collect(ctx, controller); err != nil {
		return err
	}
	return r.persist(ctx, controller, func(facade *crud.Facade, draft schema.Draft) bool {
		_, ok := facade.CreateUser(ctx, draft)
		return ok
	})
}

func (r *Runner) editFlow(ctx context.Context) error {
	record, ok, err := r.pickRecord(ctx, "Which user do you want to edit?")
	if err != nil || !ok {
		return err
	}

	controller := form.NewController(r.fields)
	controller.Init(form.ModeEdit, record.Values)

	if err := r.collect(ctx, controller); err != nil {
		return err
	}
	return r.persist(ctx, controller, func(facade *crud.Facade, draft schema.Draft) bool {
		_, ok := facade.UpdateUser(ctx, record.ID, draft)
		return ok
	})
}

func (r *Runner) deleteFlow(ctx context.Context) error {
	record, ok, err := r.pickRecord(ctx, "Which user do you want to delete?")
	if err != nil || !ok {
		return err
	}

	confirmed, err := r.driver.Confirm(ctx, ConfirmConfig{
		Message: fmt.Sprintf("Delete %s?", summarize(r.fields, record)),
	})
	if err != nil {
		return err
	}
	if !confirmed {
		return nil
	}

	var failure string
	facade := crud.NewFacade(r.store, crud.Callbacks{
		OnFailure: func(message string) { failure = message },
	})
	if !facade.DeleteUser(ctx, record.ID) {
		return r.driver.Info(ctx, failure)
	}
	return r.driver.Info(ctx, crud.MsgUserDeleted)
}

// collect walks the schema in order, prompting for each field. Each answer
// passes through the controller's change/blur cycle so the draft ends up in
// the same state a form session would produce.
func (r *Runner) collect(ctx context.Context, controller *form.Controller) error {
	for _, field := range r.fields {
		value, err := r.driver.Input(ctx, InputConfig{
			Message:     field.Label,
			Default:     controller.Value(field.Name),
			Placeholder: field.Placeholder,
			Validator:   fieldValidator(field),
		})
		if err != nil {
			return err
		}
		if err := controller.Change(field.Name, value); err != nil {
			return err
		}
		if err := controller.Blur(field.Name); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) persist(ctx context.Context, controller *form.Controller, op func(*crud.Facade, schema.Draft) bool) error {
	var failure string
	facade := crud.NewFacade(r.store, crud.Callbacks{
		OnFailure: func(message string) { failure = message },
	})

	err := controller.Submit(func(draft schema.Draft) error {
		if !op(facade, draft) {
			return errors.New(facade.LastError())
		}
		return nil
	})

	switch {
	case err == nil:
		if controller.Mode() == form.ModeEdit {
			return r.driver.Info(ctx, crud.MsgUserUpdated)
		}
		return r.driver.Info(ctx, crud.MsgUserCreated)
	case errors.Is(err, form.ErrInvalidDraft):
		for _, field := range r.fields {
			if msg := controller.Error(field.Name); msg != "" {
				if infoErr := r.driver.Info(ctx, fmt.Sprintf("%s: %s", field.Label, msg)); infoErr != nil {
					return infoErr
				}
			}
		}
		return nil
	default:
		return r.driver.Info(ctx, failure)
	}
}

// pickRecord lists stored users in a select prompt. ok is false when there is
// nothing to pick from.
func (r *Runner) pickRecord(ctx context.Context, message string) (crud.Record, bool, error) {
	records, err := r.store.List(ctx)
	if err != nil {
		return crud.Record{}, false, fmt.Errorf("prompt: list users: %w", err)
	}
	if len(records) == 0 {
		if err := r.driver.Info(ctx, "No users yet."); err != nil {
			return crud.Record{}, false, err
		}
		return crud.Record{}, false, nil
	}

	options := make([]string, 0, len(records))
	for _, record := range records {
		options = append(options, summarize(r.fields, record))
	}

	choice, err := r.driver.Select(ctx, SelectConfig{
		Message: message,
		Options: options,
	})
	if err != nil {
		return crud.Record{}, false, err
	}
	if choice < 0 || choice >= len(records) {
		return crud.Record{}, false, nil
	}
	return records[choice], true, nil
}

// fieldValidator adapts the schema's validator so survey rejects bad input
// before it ever reaches the controller. Optional fields without a validator
// accept anything.
func fieldValidator(field schema.FieldDescriptor) func(string) error {
	if field.Validator == "" && !field.Required {
		return nil
	}
	return func(value string) error {
		if msg := validate.ByKind(field.Validator, value); msg != "" {
			return errors.New(msg)
		}
		return nil
	}
}

func summarize(fields schema.Fields, record crud.Record) string {
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		if value := record.Values.Value(field.Name); value != "" {
			parts = append(parts, value)
		}
	}
	if len(parts) == 0 {
		return record.ID
	}
	return strings.Join(parts, " · ")
}

func quietAbort(err error) error {
	if errors.Is(err, ErrAborted) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
