// Package crud exposes create, update, and delete as simple calls over a
// pluggable backend, keeping per-operation in-flight flags and a single
// last-error slot. Outcomes flow to the caller through success/failure
// callbacks; the façade never mutates record lists itself.
package crud

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/goliatone/go-userdesk/pkg/schema"
)

// Record is a persisted entity: the schema's field values plus identity and
// creation timestamp. The façade treats Values as opaque data round-tripped
// through drafts.
type Record struct {
	ID        string       `json:"id"`
	CreatedAt time.Time    `json:"createdAt"`
	Values    schema.Draft `json:"values"`
}

// Clone returns a copy with an independent value map.
func (r Record) Clone() Record {
	r.Values = r.Values.Clone()
	return r
}

// Backend is the storage collaborator the façade drives. Implementations
// report business-rule violations (not found, duplicate email, missing
// required field) as errors whose messages are safe to show users.
type Backend interface {
	List(ctx context.Context) ([]Record, error)
	Create(ctx context.Context, values schema.Draft) (Record, error)
	Update(ctx context.Context, id string, values schema.Draft) (Record, error)
	Delete(ctx context.Context, id string) error
}

// State mirrors the façade's operation flags. Creating and Updating are
// booleans; Deleting carries the id of the record mid-delete so a UI can
// disable just that row.
type State struct {
	Creating bool
	Updating bool
	Deleting string
}

// Callbacks receive the outcome of each operation. Nil callbacks are skipped.
type Callbacks struct {
	OnSuccess func(message string)
	OnFailure func(message string)
}

// Fixed messages reported through the success callback.
const (
	MsgUserCreated = "User created successfully"
	MsgUserUpdated = "User updated successfully"
	MsgUserDeleted = "User deleted successfully"
)

// Fallback messages for failures that carry no usable detail.
const (
	fallbackCreate = "Failed to create user"
	fallbackUpdate = "Failed to update user"
	fallbackDelete = "Failed to delete user"
)

var errBackendPanic = errors.New("crud: backend panicked")

// Facade wraps a Backend with in-flight bookkeeping. Instantiate one per
// form/CRUD session. The state is mutex-guarded so a delete and an update can
// be outstanding at once without trampling each other's flags.
type Facade struct {
	backend   Backend
	callbacks Callbacks

	mu      sync.Mutex
	state   State
	lastErr string
}

// NewFacade builds a façade over the given backend.
func NewFacade(backend Backend, callbacks Callbacks) *Facade {
	return &Facade{backend: backend, callbacks: callbacks}
}

// State returns a snapshot of the operation flags.
func (f *Facade) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// LastError returns the retained error message, "" when clear.
func (f *Facade) LastError() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

// ClearError drops the retained error without side effects.
func (f *Facade) ClearError() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastErr = ""
}

// CreateUser asks the backend to persist a new record. The creating flag is
// set for the duration of the call and always cleared on return. On success
// the stored error is cleared, the success callback fires with a fixed
// message, and the created record is returned with ok=true. On failure the
// backend's message (or a generic fallback) is retained and the failure
// callback fires.
func (f *Facade) CreateUser(ctx context.Context, values schema.Draft) (Record, bool) {
	f.setCreating(true)
	defer f.setCreating(false)

	record, err := f.guardCreate(ctx, values)
	if err != nil {
		f.fail(messageFor(err, fallbackCreate))
		return Record{}, false
	}
	f.succeed(MsgUserCreated)
	return record, true
}

// UpdateUser asks the backend to overwrite the record with the given id.
// Not-found and uniqueness-conflict messages are surfaced verbatim.
func (f *Facade) UpdateUser(ctx context.Context, id string, values schema.Draft) (Record, bool) {
	f.setUpdating(true)
	defer f.setUpdating(false)

	record, err := f.guardUpdate(ctx, id, values)
	if err != nil {
		f.fail(messageFor(err, fallbackUpdate))
		return Record{}, false
	}
	f.succeed(MsgUserUpdated)
	return record, true
}

// DeleteUser removes the record with the given id. While the call is in
// flight Deleting holds the id; it is always reset on return.
func (f *Facade) DeleteUser(ctx context.Context, id string) bool {
	f.setDeleting(id)
	defer f.setDeleting("")

	if err := f.guardDelete(ctx, id); err != nil {
		f.fail(messageFor(err, fallbackDelete))
		return false
	}
	f.succeed(MsgUserDeleted)
	return true
}

func (f *Facade) guardCreate(ctx context.Context, values schema.Draft) (record Record, err error) {
	defer recoverBackendPanic("create", &err)
	return f.backend.Create(ctx, values)
}

func (f *Facade) guardUpdate(ctx context.Context, id string, values schema.Draft) (record Record, err error) {
	defer recoverBackendPanic("update", &err)
	return f.backend.Update(ctx, id, values)
}

func (f *Facade) guardDelete(ctx context.Context, id string) (err error) {
	defer recoverBackendPanic("delete", &err)
	return f.backend.Delete(ctx, id)
}

// recoverBackendPanic converts a backend panic into errBackendPanic so the
// caller reports only the generic per-operation message. Internal detail is
// logged, never surfaced.
func recoverBackendPanic(op string, err *error) {
	if r := recover(); r != nil {
		log.Printf("crud: recovered %s panic: %v", op, r)
		*err = errBackendPanic
	}
}

func messageFor(err error, fallback string) string {
	if err == nil || errors.Is(err, errBackendPanic) {
		return fallback
	}
	message := err.Error()
	if message == "" {
		return fallback
	}
	return message
}

func (f *Facade) setCreating(on bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Creating = on
}

func (f *Facade) setUpdating(on bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Updating = on
}

func (f *Facade) setDeleting(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Deleting = id
}

func (f *Facade) fail(message string) {
	f.mu.Lock()
	f.lastErr = message
	cb := f.callbacks.OnFailure
	f.mu.Unlock()
	if cb != nil {
		cb(message)
	}
}

func (f *Facade) succeed(message string) {
	f.mu.Lock()
	f.lastErr = ""
	cb := f.callbacks.OnSuccess
	f.mu.Unlock()
	if cb != nil {
		cb(message)
	}
}
