package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSetGetInvalidate(t *testing.T) {
	c := New(time.Minute)

	_, ok := c.Get("/courses/go#u1")
	assert.False(t, ok)

	c.Set("/courses/go#u1", "payload-a")
	c.Set("/dashboard#u1", "payload-b")
	c.Set("/courses/go#u2", "payload-c")

	v, ok := c.Get("/courses/go#u1")
	assert.True(t, ok)
	assert.Equal(t, "payload-a", v)

	// Invalidation is per key: u2's view of the same course survives.
	c.Invalidate("/courses/go#u1", "/dashboard#u1", "/missing")

	_, ok = c.Get("/courses/go#u1")
	assert.False(t, ok)
	_, ok = c.Get("/dashboard#u1")
	assert.False(t, ok)
	_, ok = c.Get("/courses/go#u2")
	assert.True(t, ok)
}

func TestExpiry(t *testing.T) {
	c := New(-time.Second)
	c.Set("k", "v")

	_, ok := c.Get("k")
	assert.False(t, ok)
}
