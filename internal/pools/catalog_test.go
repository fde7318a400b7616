package pools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveDefaultsWhenEmpty(t *testing.T) {
	catalog := NewStaticCatalog()

	pool, err := catalog.Resolve(context.Background(), "")

	assert.NoError(t, err)
	assert.Equal(t, DefaultPoolID, pool.ID)
}

func TestResolveUnknownPool(t *testing.T) {
	catalog := NewStaticCatalog()

	pool, err := catalog.Resolve(context.Background(), "offshore-eur")

	assert.Nil(t, pool)
	assert.Error(t, err)
}

func TestResolveInactivePool(t *testing.T) {
	catalog := NewStaticCatalog()
	catalog.Upsert(Pool{ID: "legacy-usd", Name: "Legacy USD Pool", Currency: "USD", Active: false})

	pool, err := catalog.Resolve(context.Background(), "legacy-usd")

	assert.Nil(t, pool)
	assert.Error(t, err)
}

func TestListReturnsSeededPools(t *testing.T) {
	catalog := NewStaticCatalog()

	pools, err := catalog.List(context.Background())

	assert.NoError(t, err)
	assert.Len(t, pools, 3)
}
