package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, ttl time.Duration) (*Cache[string], *time.Time) {
	t.Helper()
	c, err := New[string](ttl)
	require.NoError(t, err)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c.WithClock(func() time.Time { return now })
	return c, &now
}

func TestNewRejectsNonPositiveTTL(t *testing.T) {
	for _, ttl := range []time.Duration{0, -5 * time.Second} {
		if _, err := New[string](ttl); err == nil {
			t.Fatalf("expected configuration error for ttl %s", ttl)
		}
	}
}

func TestGetBeforeAndAfterExpiry(t *testing.T) {
	c, now := newTestCache(t, time.Minute)

	c.Set("fixtures", "payload", 0)

	got, ok := c.Get("fixtures")
	require.True(t, ok)
	assert.Equal(t, "payload", got)

	*now = now.Add(59 * time.Second)
	_, ok = c.Get("fixtures")
	assert.True(t, ok, "entry should survive until the ttl elapses")

	*now = now.Add(2 * time.Second)
	_, ok = c.Get("fixtures")
	assert.False(t, ok, "entry should expire after the ttl")
}

func TestPerEntryTTLOverridesDefault(t *testing.T) {
	c, now := newTestCache(t, time.Hour)

	c.Set("search", "payload", 2*time.Minute)

	*now = now.Add(3 * time.Minute)
	if _, ok := c.Get("search"); ok {
		t.Fatal("per-entry ttl should win over the default")
	}
}

func TestGetEvictsExpiredEntry(t *testing.T) {
	c, now := newTestCache(t, time.Minute)

	c.Set("k", "v", 0)
	*now = now.Add(2 * time.Minute)

	_, ok := c.Get("k")
	require.False(t, ok)
	assert.Equal(t, 0, c.Len(), "expired entry should be evicted by the read")

	// A second read stays absent and must not panic.
	_, ok = c.Get("k")
	assert.False(t, ok)
}

func TestSetOverwritesUnconditionally(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)

	c.Set("k", "old", 0)
	c.Set("k", "new", 0)

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "new", got)
}

func TestDeleteAndClear(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)

	c.Set("a", "1", 0)
	c.Set("b", "2", 0)

	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Fatal("deleted key should be absent")
	}

	c.Clear()
	if _, ok := c.Get("b"); ok {
		t.Fatal("cleared cache should be empty")
	}
	assert.Equal(t, 0, c.Len())
}

func TestQueryKeyOrderIndependent(t *testing.T) {
	a := QueryKey("fixtures", map[string]string{"b": "2", "a": "1"})
	b := QueryKey("fixtures", map[string]string{"a": "1", "b": "2"})
	assert.Equal(t, a, b)
	assert.Equal(t, "fixtures?a=1&b=2", a)
}

func TestQueryKeyDropsEmptyValues(t *testing.T) {
	key := QueryKey("leagues", map[string]string{"country": "", "season": "2026"})
	assert.Equal(t, "leagues?season=2026", key)

	assert.Equal(t, "leagues", QueryKey("leagues", nil))
	assert.Equal(t, "leagues", QueryKey("leagues", map[string]string{"country": " "}))
}
