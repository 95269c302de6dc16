package crud_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-userdesk/pkg/crud"
	"github.com/goliatone/go-userdesk/pkg/schema"
)

// stubBackend scripts per-operation behavior and records observed façade
// state at the moment each call runs.
type stubBackend struct {
	mu sync.Mutex

	createErr error
	updateErr error
	deleteErr error
	panicOn   string

	observed []crud.State
	facade   *crud.Facade

	deleteStarted chan string
	deleteRelease chan struct{}
}

func (b *stubBackend) observe() {
	if b.facade == nil {
		return
	}
	b.mu.Lock()
	b.observed = append(b.observed, b.facade.State())
	b.mu.Unlock()
}

func (b *stubBackend) List(context.Context) ([]crud.Record, error) { return nil, nil }

func (b *stubBackend) Create(_ context.Context, values schema.Draft) (crud.Record, error) {
	b.observe()
	if b.panicOn == "create" {
		panic("backend exploded")
	}
	if b.createErr != nil {
		return crud.Record{}, b.createErr
	}
	return crud.Record{ID: "new-id", Values: values.Clone()}, nil
}

func (b *stubBackend) Update(_ context.Context, id string, values schema.Draft) (crud.Record, error) {
	b.observe()
	if b.panicOn == "update" {
		panic("backend exploded")
	}
	if b.updateErr != nil {
		return crud.Record{}, b.updateErr
	}
	return crud.Record{ID: id, Values: values.Clone()}, nil
}

func (b *stubBackend) Delete(_ context.Context, id string) error {
	b.observe()
	if b.deleteStarted != nil {
		b.deleteStarted <- id
		<-b.deleteRelease
	}
	if b.panicOn == "delete" {
		panic("backend exploded")
	}
	return b.deleteErr
}

func draft() schema.Draft {
	return schema.Draft{
		"firstName": "Alice",
		"lastName":  "Johnson",
		"email":     "alice@example.com",
		"phone":     "1234567890",
	}
}

func TestCreateUserSuccess(t *testing.T) {
	backend := &stubBackend{}
	var successMsg, failureMsg string
	facade := crud.NewFacade(backend, crud.Callbacks{
		OnSuccess: func(m string) { successMsg = m },
		OnFailure: func(m string) { failureMsg = m },
	})
	backend.facade = facade

	record, ok := facade.CreateUser(context.Background(), draft())

	require.True(t, ok)
	assert.Equal(t, "new-id", record.ID)
	assert.Equal(t, crud.MsgUserCreated, successMsg)
	assert.Empty(t, failureMsg)
	assert.Empty(t, facade.LastError())

	// The creating flag was observed true inside the backend call and is
	// cleared once the call returns.
	require.Len(t, backend.observed, 1)
	assert.True(t, backend.observed[0].Creating)
	assert.False(t, facade.State().Creating)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	backend := &stubBackend{createErr: errors.New("email is already in use")}
	var successCalled bool
	var failureMsg string
	facade := crud.NewFacade(backend, crud.Callbacks{
		OnSuccess: func(string) { successCalled = true },
		OnFailure: func(m string) { failureMsg = m },
	})
	backend.facade = facade

	record, ok := facade.CreateUser(context.Background(), draft())

	require.False(t, ok)
	assert.Empty(t, record.ID)
	assert.False(t, successCalled)
	assert.Equal(t, "email is already in use", failureMsg)
	assert.Equal(t, "email is already in use", facade.LastError())
	assert.False(t, facade.State().Creating)
}

func TestUpdateUserSurfacesBackendErrorVerbatim(t *testing.T) {
	backend := &stubBackend{updateErr: errors.New("user not found")}
	facade := crud.NewFacade(backend, crud.Callbacks{})
	backend.facade = facade

	_, ok := facade.UpdateUser(context.Background(), "missing", draft())

	require.False(t, ok)
	assert.Equal(t, "user not found", facade.LastError())
	assert.False(t, facade.State().Updating)
}

func TestBackendPanicCollapsesToGenericMessage(t *testing.T) {
	backend := &stubBackend{panicOn: "create"}
	facade := crud.NewFacade(backend, crud.Callbacks{})
	backend.facade = facade

	_, ok := facade.CreateUser(context.Background(), draft())

	require.False(t, ok)
	assert.Equal(t, "Failed to create user", facade.LastError())
	assert.False(t, facade.State().Creating)
}

func TestDeleteUserTracksRowID(t *testing.T) {
	backend := &stubBackend{}
	facade := crud.NewFacade(backend, crud.Callbacks{})
	backend.facade = facade

	ok := facade.DeleteUser(context.Background(), "row-7")

	require.True(t, ok)
	require.Len(t, backend.observed, 1)
	assert.Equal(t, "row-7", backend.observed[0].Deleting)
	assert.Empty(t, facade.State().Deleting)
}

func TestSuccessClearsRetainedError(t *testing.T) {
	backend := &stubBackend{deleteErr: errors.New("user not found")}
	facade := crud.NewFacade(backend, crud.Callbacks{})
	backend.facade = facade

	require.False(t, facade.DeleteUser(context.Background(), "1"))
	require.Equal(t, "user not found", facade.LastError())

	backend.deleteErr = nil
	require.True(t, facade.DeleteUser(context.Background(), "1"))
	assert.Empty(t, facade.LastError())
}

func TestClearError(t *testing.T) {
	backend := &stubBackend{deleteErr: errors.New("user not found")}
	facade := crud.NewFacade(backend, crud.Callbacks{})
	backend.facade = facade

	facade.DeleteUser(context.Background(), "1")
	require.NotEmpty(t, facade.LastError())
	facade.ClearError()
	assert.Empty(t, facade.LastError())
}

func TestConcurrentDeleteAndUpdateFlagsAreIndependent(t *testing.T) {
	backend := &stubBackend{
		deleteStarted: make(chan string),
		deleteRelease: make(chan struct{}),
		updateErr:     errors.New("user not found"),
	}
	facade := crud.NewFacade(backend, crud.Callbacks{})
	backend.facade = facade

	done := make(chan bool)
	go func() {
		done <- facade.DeleteUser(context.Background(), "1")
	}()

	// Wait until the delete is mid-flight, then run an update targeting a
	// different record. Its failure must not disturb the delete's flag.
	<-backend.deleteStarted
	assert.Equal(t, "1", facade.State().Deleting)

	_, ok := facade.UpdateUser(context.Background(), "2", draft())
	require.False(t, ok)
	assert.Equal(t, "1", facade.State().Deleting, "delete flag still held")
	assert.False(t, facade.State().Updating, "update flag cleared")

	close(backend.deleteRelease)
	require.True(t, <-done)

	state := facade.State()
	assert.Empty(t, state.Deleting)
	assert.False(t, state.Updating)
	assert.False(t, state.Creating)
}
