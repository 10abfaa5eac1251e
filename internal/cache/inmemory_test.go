package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCache(Options{Enabled: true})

	c.Set(ctx, GenerateKey(PrefixProduct, "prod_1"), "hosting", 0)
	c.Set(ctx, GenerateKey(PrefixProduct, "prod_2"), "domain", time.Minute)
	c.Set(ctx, GenerateKey(PrefixSession, "prop_1"), "session", time.Minute)

	v, ok := c.Get(ctx, "product:v1::prod_1")
	assert.True(t, ok)
	assert.Equal(t, "hosting", v)

	c.DeleteByPrefix(ctx, PrefixProduct)
	_, ok = c.Get(ctx, GenerateKey(PrefixProduct, "prod_2"))
	assert.False(t, ok)
	_, ok = c.Get(ctx, GenerateKey(PrefixSession, "prop_1"))
	assert.True(t, ok)

	c.Flush(ctx)
	assert.Equal(t, 0, c.ItemCount())
}

func TestInMemoryCache_Disabled(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCache(Options{Enabled: false})

	c.Set(ctx, "k", "v", 0)
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestInMemoryCache_OnEvicted(t *testing.T) {
	ctx := context.Background()
	evicted := make(chan string, 1)
	c := NewInMemoryCache(Options{
		Enabled: true,
		OnEvicted: func(key string, _ interface{}) {
			evicted <- key
		},
	})

	c.Set(ctx, "k", "v", 0)
	c.Delete(ctx, "k")

	assert.Equal(t, "k", <-evicted)
}
