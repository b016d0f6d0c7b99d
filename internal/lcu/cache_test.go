package lcu

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBoundedCacheTTL(t *testing.T) {
	c := newBoundedCache("test", 50*time.Millisecond, 10)
	c.Put("k", "v")

	got, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", got)

	time.Sleep(80 * time.Millisecond)
	_, ok = c.Get("k")
	assert.False(t, ok)
}

func TestBoundedCacheEvictsOldestInserted(t *testing.T) {
	c := newBoundedCache("test", time.Minute, 3)
	for i := 0; i < 5; i++ {
		c.Put(fmt.Sprintf("k%d", i), i)
	}

	assert.LessOrEqual(t, c.Len(), 3)

	// The oldest insertions are gone, the newest survive.
	_, ok := c.Get("k0")
	assert.False(t, ok)
	_, ok = c.Get("k1")
	assert.False(t, ok)
	_, ok = c.Get("k4")
	assert.True(t, ok)
}

func TestBoundedCacheOverwriteKeepsOneEntry(t *testing.T) {
	c := newBoundedCache("test", time.Minute, 5)
	c.Put("k", 1)
	c.Put("k", 2)

	got, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, 2, got)
	assert.Equal(t, 1, c.Len())
}
