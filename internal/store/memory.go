package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"grn-daily/internal/model"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store used by tests and the dependency-free
// dev mode. It keeps documents in insertion order per collection and models
// the remote store's composite-index requirement with an explicit registry.
type MemoryStore struct {
	mu      sync.RWMutex
	docs    map[string]map[string]model.Article
	order   map[string][]string
	indexes map[string]bool
	subs    []model.Subscriber
}

func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		docs:    make(map[string]map[string]model.Article),
		order:   make(map[string][]string),
		indexes: make(map[string]bool),
	}
	// The one composite index the category pages depend on.
	s.AddIndex("category", "createdAt")
	return s
}

func indexKey(field, sortBy string) string { return field + "/" + sortBy }

func (s *MemoryStore) AddIndex(field, sortBy string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.indexes[indexKey(field, sortBy)] = true
}

// DropIndex removes a composite index so tests can exercise the
// ErrIndexRequired path.
func (s *MemoryStore) DropIndex(field, sortBy string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.indexes, indexKey(field, sortBy))
}

func (s *MemoryStore) Insert(ctx context.Context, collection string, a *model.Article) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	s.put(collection, a.ID, *a)
	return a.ID, nil
}

func (s *MemoryStore) Put(ctx context.Context, collection, id string, a *model.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a.ID = id
	s.put(collection, id, *a)
	return nil
}

// put assumes the lock is held. New ids go to the back of the collection's
// insertion order; replacing keeps the original slot.
func (s *MemoryStore) put(collection, id string, a model.Article) {
	if s.docs[collection] == nil {
		s.docs[collection] = make(map[string]model.Article)
	}
	if _, exists := s.docs[collection][id]; !exists {
		s.order[collection] = append(s.order[collection], id)
	}
	s.docs[collection][id] = a
}

func (s *MemoryStore) Get(ctx context.Context, collection, id string) (*model.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.docs[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (s *MemoryStore) List(ctx context.Context, collection string) ([]model.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []model.Article
	for _, id := range s.order[collection] {
		if a, ok := s.docs[collection][id]; ok {
			results = append(results, a)
		}
	}
	return results, nil
}

func (s *MemoryStore) Find(ctx context.Context, collection string, q Query) ([]model.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.indexes[indexKey(q.Field, q.SortBy)] {
		return nil, fmt.Errorf("%w: %s ascending, %s", ErrIndexRequired, q.Field, q.SortBy)
	}

	var results []model.Article
	for _, id := range s.order[collection] {
		a, ok := s.docs[collection][id]
		if !ok {
			continue
		}
		match, err := fieldValue(&a, q.Field)
		if err != nil {
			return nil, err
		}
		if match == q.Equals {
			results = append(results, a)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := sortValue(&results[i], q.SortBy), sortValue(&results[j], q.SortBy)
		if q.Descending {
			return b.Before(a)
		}
		return a.Before(b)
	})
	return results, nil
}

func sortValue(a *model.Article, field string) time.Time {
	switch field {
	case "archivedAt":
		if a.ArchivedAt != nil {
			return *a.ArchivedAt
		}
		return time.Time{}
	default:
		return a.CreatedAt
	}
}

func fieldValue(a *model.Article, field string) (string, error) {
	switch field {
	case "category":
		return string(a.Category), nil
	case "placement":
		return string(a.Placement), nil
	default:
		return "", fmt.Errorf("memory store: unsupported filter field %q", field)
	}
}

func (s *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[collection][id]; !ok {
		return ErrNotFound
	}
	delete(s.docs[collection], id)
	for i, existing := range s.order[collection] {
		if existing == id {
			s.order[collection] = append(s.order[collection][:i], s.order[collection][i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemoryStore) AddSubscriber(ctx context.Context, sub *model.Subscriber) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	s.subs = append(s.subs, *sub)
	return nil
}

func (s *MemoryStore) Subscribers(ctx context.Context) ([]model.Subscriber, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Subscriber, len(s.subs))
	copy(out, s.subs)
	return out, nil
}

func (s *MemoryStore) Close(ctx context.Context) error { return nil }
