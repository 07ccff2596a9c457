package myvault

import (
	"context"
	"time"

	"github.com/MarcGrol/equipmentshop/lib/mystore"
)

// Token is the backend bearer token handed to us by the login screens.
type Token struct {
	SessionUID  string
	AccessToken string `datastore:",noindex"`
	CreatedAt   time.Time
}

//go:generate mockgen -source=api.go -package myvault -destination vault_read_writer_mock.go VaultReadWriter
type VaultReadWriter[T any] interface {
	Get(c context.Context, uid string) (T, bool, error)
	Put(c context.Context, uid string, value T) error
	Delete(c context.Context, uid string) error
}

func New[T any](c context.Context) (VaultReadWriter[T], func(), error) {
	return mystore.New[T](c)
}
