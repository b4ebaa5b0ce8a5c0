package auth_test

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/fne-client/internal/auth"
)

func TestCache_PutAndGet(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := auth.NewCache(clock)

	c.Put("reference", "FNE-001", time.Hour)

	value, ok := c.Get("reference")
	require.True(t, ok)
	assert.Equal(t, "FNE-001", value)
}

func TestCache_MissingKey(t *testing.T) {
	c := auth.NewCache(clockwork.NewFakeClock())

	value, ok := c.Get("absent")
	assert.False(t, ok)
	assert.Nil(t, value)
}

func TestCache_ExpiryEvictsLazily(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := auth.NewCache(clock)

	c.Put("reference", "FNE-001", time.Hour)

	// Still alive just before expiry
	clock.Advance(time.Hour - time.Second)
	_, ok := c.Get("reference")
	assert.True(t, ok)

	// Expired after the deadline passes; Get evicts
	clock.Advance(2 * time.Second)
	value, ok := c.Get("reference")
	assert.False(t, ok)
	assert.Nil(t, value)
	assert.Equal(t, 0, c.Len())
}

func TestCache_ZeroTTLImmediatelyExpired(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := auth.NewCache(clock)

	c.Put("reference", "FNE-001", 0)
	clock.Advance(time.Nanosecond)

	_, ok := c.Get("reference")
	assert.False(t, ok)
}

func TestCache_NegativeTTLSelectsDefault(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := auth.NewCache(clock)

	c.Put("reference", "FNE-001", -1)

	clock.Advance(auth.DefaultCacheTTL - time.Second)
	_, ok := c.Get("reference")
	assert.True(t, ok)

	clock.Advance(2 * time.Second)
	_, ok = c.Get("reference")
	assert.False(t, ok)
}

func TestCache_Remove(t *testing.T) {
	c := auth.NewCache(clockwork.NewFakeClock())
	c.Put("a", 1, time.Hour)
	c.Put("b", 2, time.Hour)

	c.Remove("a")

	_, ok := c.Get("a")
	assert.False(t, ok)
	_, ok = c.Get("b")
	assert.True(t, ok)
}

func TestCache_Clear(t *testing.T) {
	c := auth.NewCache(clockwork.NewFakeClock())
	c.Put("a", 1, time.Hour)
	c.Put("b", 2, time.Hour)

	c.Clear()

	assert.Equal(t, 0, c.Len())
}

func TestCache_SweepExpired(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := auth.NewCache(clock)

	c.Put("short", 1, time.Minute)
	c.Put("long", 2, time.Hour)

	clock.Advance(2 * time.Minute)
	c.SweepExpired()

	// Sweep removed only the expired entry, without going through Get
	assert.Equal(t, 1, c.Len())
	_, ok := c.Get("long")
	assert.True(t, ok)
}

func TestCache_NilClockUsesRealClock(t *testing.T) {
	c := auth.NewCache(nil)
	c.Put("k", "v", time.Hour)

	_, ok := c.Get("k")
	assert.True(t, ok)
}
