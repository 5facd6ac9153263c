package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTTLCacheExpiry(t *testing.T) {
	c := NewTTLCache[uint, bool](2, 20*time.Millisecond)

	c.Set(1, true)
	v, ok := c.Get(1)
	assert.True(t, ok)
	assert.True(t, v)

	time.Sleep(30 * time.Millisecond)
	_, ok = c.Get(1)
	assert.False(t, ok)
}

func TestTTLCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewTTLCache[string, int](2, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	_, _ = c.Get("a")
	c.Set("c", 3)

	_, ok := c.Get("b")
	assert.False(t, ok)
	_, ok = c.Get("a")
	assert.True(t, ok)

	c.Delete("a")
	_, ok = c.Get("a")
	assert.False(t, ok)
}

func TestTokenDenylist(t *testing.T) {
	d := NewTokenDenylist(time.Minute)

	d.Revoke("expired-token", time.Now().Add(-time.Second))
	assert.False(t, d.IsRevoked("expired-token"))

	d.Revoke("live-token", time.Now().Add(time.Hour))
	assert.True(t, d.IsRevoked("live-token"))
	assert.False(t, d.IsRevoked("other-token"))
}

func TestHashTokenIsStable(t *testing.T) {
	assert.Equal(t, HashToken("abc"), HashToken("abc"))
	assert.NotEqual(t, HashToken("abc"), HashToken("abd"))
	assert.Len(t, HashToken("abc"), 64)
}
