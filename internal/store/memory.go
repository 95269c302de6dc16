// Package store provides the in-memory backend used by the demo server and
// CLI. It enforces the business rules a real persistence layer would:
// required fields, email uniqueness, and not-found reporting.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-userdesk/pkg/crud"
	"github.com/goliatone/go-userdesk/pkg/schema"
)

// Sentinel errors for the store's business rules. Their messages are shown
// to users verbatim, so keep them presentable.
var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email is already in use")
	ErrMissingField   = errors.New("missing required field")
)

// Option configures a MemoryStore.
type Option func(*MemoryStore)

// WithLatency makes every operation sleep for d before touching data,
// simulating a remote backend. Zero disables the delay.
func WithLatency(d time.Duration) Option {
	return func(s *MemoryStore) {
		s.latency = d
	}
}

// WithSeedValues preloads records from raw drafts. Seeds that violate the
// store's rules (missing required field, duplicate email) are skipped.
func WithSeedValues(seeds []schema.Draft) Option {
	return func(s *MemoryStore) {
		s.seeds = seeds
	}
}

// WithClock overrides the timestamp source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *MemoryStore) {
		s.now = now
	}
}

// MemoryStore keeps records in a map guarded by a read-write mutex. It is
// safe for concurrent use.
type MemoryStore struct {
	fields  schema.Fields
	latency time.Duration
	now     func() time.Time
	seeds   []schema.Draft

	mu      sync.RWMutex
	records map[string]crud.Record
}

// NewMemoryStore builds a store scoped to the given schema. Values outside
// the schema are dropped on write, so the store never accumulates fields the
// form cannot edit.
func NewMemoryStore(fields schema.Fields, opts ...Option) *MemoryStore {
	s := &MemoryStore{
		fields:  fields,
		now:     time.Now,
		records: make(map[string]crud.Record),
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, seed := range s.seeds {
		record := crud.Record{
			ID:        uuid.NewString(),
			CreatedAt: s.now(),
			Values:    s.filter(seed),
		}
		if err := s.checkRules(record.Values, ""); err != nil {
			continue
		}
		s.records[record.ID] = record
	}
	s.seeds = nil
	return s
}

// List returns all records ordered by creation time, oldest first.
func (s *MemoryStore) List(ctx context.Context) ([]crud.Record, error) {
	if err := s.simulateLatency(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]crud.Record, 0, len(s.records))
	for _, record := range s.records {
		out = append(out, record.Clone())
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// Get returns the record with the given id.
func (s *MemoryStore) Get(ctx context.Context, id string) (crud.Record, error) {
	if err := s.simulateLatency(ctx); err != nil {
		return crud.Record{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[id]
	if !ok {
		return crud.Record{}, ErrNotFound
	}
	return record.Clone(), nil
}

// Create stores a new record and assigns it an id.
func (s *MemoryStore) Create(ctx context.Context, values schema.Draft) (crud.Record, error) {
	if err := s.simulateLatency(ctx); err != nil {
		return crud.Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	filtered := s.filter(values)
	if err := s.checkRules(filtered, ""); err != nil {
		return crud.Record{}, err
	}

	record := crud.Record{
		ID:        uuid.NewString(),
		CreatedAt: s.now(),
		Values:    filtered,
	}
	s.records[record.ID] = record
	return record.Clone(), nil
}

// Update overwrites the values of an existing record. The id and creation
// timestamp are preserved.
func (s *MemoryStore) Update(ctx context.Context, id string, values schema.Draft) (crud.Record, error) {
	if err := s.simulateLatency(ctx); err != nil {
		return crud.Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.records[id]
	if !ok {
		return crud.Record{}, ErrNotFound
	}

	filtered := s.filter(values)
	if err := s.checkRules(filtered, id); err != nil {
		return crud.Record{}, err
	}

	existing.Values = filtered
	s.records[id] = existing
	return existing.Clone(), nil
}

// Delete removes the record with the given id.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	if err := s.simulateLatency(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return ErrNotFound
	}
	delete(s.records, id)
	return nil
}

// Len reports the number of stored records.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// filter keeps only values for fields the schema declares, trimmed.
func (s *MemoryStore) filter(values schema.Draft) schema.Draft {
	out := make(schema.Draft, len(s.fields))
	for _, field := range s.fields {
		out[field.Name] = strings.TrimSpace(values.Value(field.Name))
	}
	return out
}

// checkRules validates required fields and email uniqueness. selfID
// identifies the record being updated so it does not collide with itself;
// pass "" for creates.
func (s *MemoryStore) checkRules(values schema.Draft, selfID string) error {
	for _, field := range s.fields {
		if field.Required && values.Value(field.Name) == "" {
			return fmt.Errorf("%w: %s", ErrMissingField, field.Name)
		}
	}
	for _, field := range s.fields {
		if field.Kind != schema.FieldEmail {
			continue
		}
		email := strings.ToLower(values.Value(field.Name))
		if email == "" {
			continue
		}
		for id, record := range s.records {
			if id == selfID {
				continue
			}
			if strings.ToLower(record.Values.Value(field.Name)) == email {
				if selfID != "" {
					return fmt.Errorf("%w by another user", ErrDuplicateEmail)
				}
				return ErrDuplicateEmail
			}
		}
	}
	return nil
}

// simulateLatency blocks for the configured delay, returning early if the
// context is canceled first.
func (s *MemoryStore) simulateLatency(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.latency)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
