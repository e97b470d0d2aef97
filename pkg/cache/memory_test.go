package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func TestEntry_IsExpired(t *testing.T) {
	inserted := time.Date(2024, 1, 15, 9, 15, 0, 0, time.UTC)
	entry := Entry[int]{Value: 1, InsertedAt: inserted}

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"same instant", inserted, false},
		{"inside window", inserted.Add(9 * time.Minute), false},
		{"at boundary", inserted.Add(10 * time.Minute), true},
		{"past window", inserted.Add(time.Hour), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, entry.IsExpired(tt.now, 10*time.Minute))
		})
	}
}

func TestMemory_GetSetExpiry(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 15, 9, 15, 0, 0, time.UTC)}
	c := NewMemory[string](time.Minute).WithClock(clock.Now)

	_, ok := c.Get("TCS")
	assert.False(t, ok)

	c.Set("TCS", "tata")
	got, ok := c.Get("TCS")
	assert.True(t, ok)
	assert.Equal(t, "tata", got)

	clock.Advance(59 * time.Second)
	_, ok = c.Get("TCS")
	assert.True(t, ok)

	clock.Advance(time.Second)
	_, ok = c.Get("TCS")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())

	assert.Equal(t, 1, c.Purge())
	assert.Equal(t, 0, c.Len())
}

func TestMemory_OverwriteRefreshesTimestamp(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 15, 9, 15, 0, 0, time.UTC)}
	c := NewMemory[int](time.Minute).WithClock(clock.Now)

	c.Set("k", 1)
	clock.Advance(50 * time.Second)
	c.Set("k", 2)
	clock.Advance(50 * time.Second)

	got, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, 2, got)
}

func TestMemory_Delete(t *testing.T) {
	c := NewMemory[int](time.Minute)
	c.Set("k", 1)
	c.Delete("k")

	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, time.Minute, c.TTL())
}
