// Package userdesk wires the schema, validation, form, and CRUD layers into
// convenient entry points for the HTTP server and the terminal client.
package userdesk

import (
	"context"
	"time"

	internalopenapi "github.com/goliatone/go-userdesk/internal/openapi"
	"github.com/goliatone/go-userdesk/internal/store"
	"github.com/goliatone/go-userdesk/pkg/crud"
	"github.com/goliatone/go-userdesk/pkg/schema"
)

// Record aliases the persisted record type exported via the root package for
// convenience.
type Record = crud.Record

// Backend aliases the storage contract the CRUD façade drives.
type Backend = crud.Backend

// DefaultFields returns the built-in user schema: first name, last name,
// email, and phone.
func DefaultFields() schema.Fields {
	return schema.UserFields()
}

// LoadFieldsFromOpenAPI derives the field schema from an OpenAPI document's
// operation request body, keeping the record shape next to the API contract.
func LoadFieldsFromOpenAPI(ctx context.Context, path, operationID string) (schema.Fields, error) {
	return internalopenapi.LoadFields(ctx, path, operationID)
}

// NewMemoryBackend constructs the in-memory store used by the demo binaries,
// hiding the concrete type from consumers.
func NewMemoryBackend(fields schema.Fields, latency time.Duration, seed []schema.Draft) *store.MemoryStore {
	return store.NewMemoryStore(fields,
		store.WithLatency(latency),
		store.WithSeedValues(seed),
	)
}

// NewFacade exposes the CRUD façade constructor from the top-level module.
func NewFacade(backend Backend, callbacks crud.Callbacks) *crud.Facade {
	return crud.NewFacade(backend, callbacks)
}
