package store

import (
	"context"
	"sync"

	"github.com/viant/sanction/service/dao"
	"github.com/viant/sanction/service/dao/criteria"
)

// MemoryStore is a generic in-memory implementation of dao.Service.
// It keeps copies of entities of type T mapped by a comparable key K;
// callers never share memory with stored records.
type MemoryStore[K comparable, T any] struct {
	mu          sync.RWMutex
	records     map[K]T
	order       []K
	keySelector func(*T) K
	fields      func(*T) criteria.Field
}

// Option customises a MemoryStore.
type Option[K comparable, T any] func(*MemoryStore[K, T])

// WithFields enables List parameter filtering using the supplied field accessor.
func WithFields[K comparable, T any](fields func(*T) criteria.Field) Option[K, T] {
	return func(s *MemoryStore[K, T]) { s.fields = fields }
}

// NewMemoryStore creates a new MemoryStore.
// keySelector extracts the entity key (usually the ID field) from a value.
func NewMemoryStore[K comparable, T any](keySelector func(*T) K, options ...Option[K, T]) *MemoryStore[K, T] {
	ret := &MemoryStore[K, T]{
		records:     make(map[K]T),
		keySelector: keySelector,
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// Save stores or overwrites a record.
func (s *MemoryStore[K, T]) Save(_ context.Context, v *T) error {
	if v == nil {
		return dao.ErrNilEntity
	}
	key := s.keySelector(v)
	var zero K
	if key == zero {
		return dao.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[key]; !ok {
		s.order = append(s.order, key)
	}
	s.records[key] = *v
	return nil
}

// Insert stores v only when its key is not yet taken, reporting whether it did.
func (s *MemoryStore[K, T]) Insert(_ context.Context, v *T) (bool, error) {
	if v == nil {
		return false, dao.ErrNilEntity
	}
	key := s.keySelector(v)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[key]; ok {
		return false, nil
	}
	s.order = append(s.order, key)
	s.records[key] = *v
	return true, nil
}

// Load returns a copy of the record stored under key.
func (s *MemoryStore[K, T]) Load(_ context.Context, key K) (*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.records[key]
	if !ok {
		return nil, dao.ErrNotFound
	}
	return &v, nil
}

// Update applies fn to the record under key while holding the write lock.
// The record is replaced only when fn returns nil.
func (s *MemoryStore[K, T]) Update(_ context.Context, key K, fn func(*T) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.records[key]
	if !ok {
		return dao.ErrNotFound
	}
	if err := fn(&v); err != nil {
		return err
	}
	s.records[key] = v
	return nil
}

// Delete removes a record. Deleting a missing key is not an error.
func (s *MemoryStore[K, T]) Delete(_ context.Context, key K) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[key]; !ok {
		return nil
	}
	delete(s.records, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// List returns copies of stored records in insertion order.
func (s *MemoryStore[K, T]) List(_ context.Context, parameters ...*dao.Parameter) ([]*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*T, 0, len(s.records))
	for _, key := range s.order {
		v := s.records[key]
		if s.fields != nil && !criteria.Match(s.fields(&v), parameters) {
			continue
		}
		out = append(out, &v)
	}
	return out, nil
}

var _ dao.Service[string, struct{ ID string }] = (*MemoryStore[string, struct{ ID string }])(nil)
