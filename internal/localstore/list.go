package localstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// JSONList is a capped, newest-first list of T stored as one JSON array under a key.
// Read-modify-write cycles are serialized by mu; a process owns its local store.
type JSONList[T any] struct {
	store Store
	key   string
	limit int
	mu    sync.Mutex
}

func NewJSONList[T any](store Store, key string, limit int) *JSONList[T] {
	return &JSONList[T]{store: store, key: key, limit: limit}
}

// Load returns the stored items. A missing key reads as empty; a document that
// does not decode is an error so the next write cannot overwrite it.
func (l *JSONList[T]) Load(ctx context.Context) ([]T, error) {
	raw, found, err := l.store.Get(ctx, l.key)
	if err != nil {
		return nil, err
	}
	if !found || len(raw) == 0 {
		return []T{}, nil
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", l.key, err)
	}
	return items, nil
}

// Prepend inserts item at the head and trims the list to its cap.
func (l *JSONList[T]) Prepend(ctx context.Context, item T) error {
	return l.Update(ctx, func(items []T) ([]T, error) {
		return append([]T{item}, items...), nil
	})
}

// Update runs fn on the current list and stores its result, trimmed to the cap.
func (l *JSONList[T]) Update(ctx context.Context, fn func([]T) ([]T, error)) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	items, err := l.Load(ctx)
	if err != nil {
		return err
	}
	next, err := fn(items)
	if err != nil {
		return err
	}
	if l.limit > 0 && len(next) > l.limit {
		next = next[:l.limit]
	}
	raw, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode %s: %w", l.key, err)
	}
	return l.store.Put(ctx, l.key, raw)
}

// Clear removes every item.
func (l *JSONList[T]) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.Put(ctx, l.key, []byte("[]"))
}

// JSONLists hands out one JSONList per key under a shared prefix, so each user
// gets an independent list and cap.
type JSONLists[T any] struct {
	store  Store
	prefix string
	limit  int

	mu    sync.Mutex
	lists map[string]*JSONList[T]
}

func NewJSONLists[T any](store Store, prefix string, limit int) *JSONLists[T] {
	return &JSONLists[T]{store: store, prefix: prefix, limit: limit, lists: make(map[string]*JSONList[T])}
}

// For returns the list stored under prefix+id.
func (s *JSONLists[T]) For(id string) *JSONList[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.lists[id]
	if !ok {
		l = NewJSONList[T](s.store, s.prefix+id, s.limit)
		s.lists[id] = l
	}
	return l
}
