package mystore

import (
	"context"
	"os"
)

type ctxTransactionKey struct{}

// Filter selects items whose Field compares to Value. The in-memory store only supports "=".
type Filter struct {
	Field   string
	Compare string
	Value   any
}

// Store keeps values of one type by uid. Calls made with the context handed to a
// RunInTransaction callback are part of that transaction.
//
//go:generate mockgen -source=api.go -package mystore -destination store_mock.go Store
type Store[T any] interface {
	RunInTransaction(c context.Context, f func(c context.Context) error) error
	Put(c context.Context, uid string, value T) error
	Get(c context.Context, uid string) (T, bool, error)
	Delete(c context.Context, uid string) error
	List(c context.Context) ([]T, error)
	Query(c context.Context, filters []Filter, orderByField string) ([]T, error)
}

// New returns a datastore backed store on Google Cloud and an in-memory one elsewhere.
func New[T any](c context.Context) (Store[T], func(), error) {
	if os.Getenv("GOOGLE_CLOUD_PROJECT") != "" {
		return newGcloudStore[T](c)
	}

	return NewInMemoryStore[T](c)
}
