package mystore

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"
)

type InMemoryStore[T any] struct {
	sync.Mutex
	Items map[string]T
}

// Each in-memory store holds its own lock, so the transaction marker is keyed per store.
type inMemoryTransactionKey struct {
	store any
}

func NewInMemoryStore[T any](c context.Context) (*InMemoryStore[T], func(), error) {
	return &InMemoryStore[T]{
		Items: make(map[string]T),
	}, func() {}, nil
}

func (s *InMemoryStore[T]) RunInTransaction(c context.Context, f func(c context.Context) error) error {
	if s.inTransaction(c) {
		return f(c)
	}

	// Start transaction
	s.Lock()
	defer s.Unlock()

	snapshot := make(map[string]T, len(s.Items))
	for k, v := range s.Items {
		snapshot[k] = v
	}

	err := f(context.WithValue(c, inMemoryTransactionKey{store: s}, true))
	if err != nil {
		// Rollback
		s.Items = snapshot
		return err
	}

	return nil
}

func (s *InMemoryStore[T]) inTransaction(c context.Context) bool {
	return c.Value(inMemoryTransactionKey{store: s}) != nil
}

func (s *InMemoryStore[T]) locked(c context.Context, f func()) {
	if !s.inTransaction(c) {
		s.Lock()
		defer s.Unlock()
	}
	f()
}

func (s *InMemoryStore[T]) Put(c context.Context, uid string, value T) error {
	s.locked(c, func() {
		s.Items[uid] = value
	})
	return nil
}

func (s *InMemoryStore[T]) Get(c context.Context, uid string) (T, bool, error) {
	var result T
	var exists bool
	s.locked(c, func() {
		result, exists = s.Items[uid]
	})
	return result, exists, nil
}

func (s *InMemoryStore[T]) Delete(c context.Context, uid string) error {
	s.locked(c, func() {
		delete(s.Items, uid)
	})
	return nil
}

func (s *InMemoryStore[T]) List(c context.Context) ([]T, error) {
	result := []T{}
	s.locked(c, func() {
		for _, v := range s.Items {
			result = append(result, v)
		}
	})
	return result, nil
}

// Query supports equality filters and ordering on exported top-level fields.
func (s *InMemoryStore[T]) Query(c context.Context, filters []Filter, orderByField string) ([]T, error) {
	all, err := s.List(c)
	if err != nil {
		return nil, err
	}

	result := []T{}
	for _, item := range all {
		matches, err := matchesAll(item, filters)
		if err != nil {
			return nil, err
		}
		if matches {
			result = append(result, item)
		}
	}

	if orderByField != "" {
		sort.SliceStable(result, func(i, j int) bool {
			return less(fieldOf(result[i], orderByField), fieldOf(result[j], orderByField))
		})
	}

	return result, nil
}

func matchesAll(item any, filters []Filter) (bool, error) {
	for _, f := range filters {
		if f.Compare != "=" {
			return false, fmt.Errorf("in-memory store only supports '=', got '%s'", f.Compare)
		}
		value := fieldOf(item, f.Field)
		if !value.IsValid() || !reflect.DeepEqual(value.Interface(), f.Value) {
			return false, nil
		}
	}
	return true, nil
}

func fieldOf(item any, name string) reflect.Value {
	v := reflect.Indirect(reflect.ValueOf(item))
	if v.Kind() != reflect.Struct {
		return reflect.Value{}
	}
	return v.FieldByName(name)
}

func less(a, b reflect.Value) bool {
	if !a.IsValid() || !b.IsValid() {
		return false
	}
	switch a.Kind() {
	case reflect.String:
		return a.String() < b.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return a.Int() < b.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return a.Uint() < b.Uint()
	case reflect.Float32, reflect.Float64:
		return a.Float() < b.Float()
	}
	if ta, ok := a.Interface().(time.Time); ok {
		return ta.Before(b.Interface().(time.Time))
	}
	return false
}
