package mystore

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type visitor struct {
	UID       string
	Name      string
	Published bool
	CreatedAt time.Time
}

var (
	marc = visitor{UID: "123", Name: "Marc", CreatedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}
	eva  = visitor{UID: "456", Name: "Eva", Published: true, CreatedAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)}
	pien = visitor{UID: "789", Name: "Pien", CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
)

func TestStore(t *testing.T) {
	c := context.TODO()
	vs, cleanup, err := NewInMemoryStore[visitor](c)
	assert.NoError(t, err)
	defer cleanup()

	t.Run("Get not found", func(t *testing.T) {
		_, found, err := vs.Get(c, marc.UID)
		assert.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("Put", func(t *testing.T) {
		err = vs.Put(c, marc.UID, marc)
		assert.NoError(t, err)
	})

	t.Run("Get found", func(t *testing.T) {
		v, found, err := vs.Get(c, marc.UID)
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, marc, v)
	})

	t.Run("List", func(t *testing.T) {
		all, err := vs.List(c)
		assert.NoError(t, err)
		assert.Equal(t, []visitor{marc}, all)
	})

	t.Run("Delete", func(t *testing.T) {
		err := vs.Delete(c, marc.UID)
		assert.NoError(t, err)

		_, found, err := vs.Get(c, marc.UID)
		assert.NoError(t, err)
		assert.False(t, found)
	})
}

func TestQuery(t *testing.T) {
	c := context.TODO()
	vs, _, _ := NewInMemoryStore[visitor](c)
	_ = vs.Put(c, marc.UID, marc)
	_ = vs.Put(c, eva.UID, eva)
	_ = vs.Put(c, pien.UID, pien)

	t.Run("Filter and order", func(t *testing.T) {
		result, err := vs.Query(c, []Filter{{Field: "Published", Compare: "=", Value: false}}, "CreatedAt")
		assert.NoError(t, err)
		assert.Equal(t, []visitor{pien, marc}, result)
	})

	t.Run("Order only", func(t *testing.T) {
		result, err := vs.Query(c, nil, "Name")
		assert.NoError(t, err)
		assert.Equal(t, []visitor{eva, marc, pien}, result)
	})

	t.Run("Unsupported compare", func(t *testing.T) {
		_, err := vs.Query(c, []Filter{{Field: "Name", Compare: ">", Value: "A"}}, "")
		assert.Error(t, err)
	})
}

func TestTransaction(t *testing.T) {
	c := context.TODO()
	vs, _, _ := NewInMemoryStore[visitor](c)

	t.Run("Commit", func(t *testing.T) {
		err := vs.RunInTransaction(c, func(c context.Context) error {
			return vs.Put(c, marc.UID, marc)
		})
		assert.NoError(t, err)

		_, found, _ := vs.Get(c, marc.UID)
		assert.True(t, found)
	})

	t.Run("Rollback", func(t *testing.T) {
		err := vs.RunInTransaction(c, func(c context.Context) error {
			_ = vs.Put(c, eva.UID, eva)
			_ = vs.Delete(c, marc.UID)
			return fmt.Errorf("error")
		})
		assert.Error(t, err)

		_, found, _ := vs.Get(c, eva.UID)
		assert.False(t, found)
		_, found, _ = vs.Get(c, marc.UID)
		assert.True(t, found)
	})

	t.Run("Nested stores do not share a lock", func(t *testing.T) {
		other, _, _ := NewInMemoryStore[visitor](c)
		err := vs.RunInTransaction(c, func(c context.Context) error {
			return other.RunInTransaction(c, func(c context.Context) error {
				return other.Put(c, pien.UID, pien)
			})
		})
		assert.NoError(t, err)

		_, found, _ := other.Get(c, pien.UID)
		assert.True(t, found)
	})
}
