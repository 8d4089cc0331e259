// Kahani - Hybrid Media Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Srijan272002/Kahani-sub000

package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestMemory(capacity int) (*Memory, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	m := NewMemory(MemoryConfig{Capacity: capacity})
	m.now = clock.Now
	return m, clock
}

func TestMemoryBasicOperations(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m, _ := newTestMemory(10)

	if err := m.Set(ctx, "key1", []byte("value1"), time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	value, ok, err := m.Get(ctx, "key1")
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v; want hit", ok, err)
	}
	if string(value) != "value1" {
		t.Errorf("Get() = %q, want value1", value)
	}

	if _, ok, _ := m.Get(ctx, "key2"); ok {
		t.Error("Expected key2 to not exist")
	}

	// Set always overwrites.
	_ = m.Set(ctx, "key1", []byte("value2"), time.Minute)
	if value, _, _ := m.Get(ctx, "key1"); string(value) != "value2" {
		t.Errorf("Get() after overwrite = %q, want value2", value)
	}
}

func TestMemoryExpiration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m, clock := newTestMemory(10)

	_ = m.Set(ctx, "key1", []byte("v"), time.Minute)

	clock.Advance(59 * time.Second)
	if _, ok, _ := m.Get(ctx, "key1"); !ok {
		t.Error("entry expired before its ttl")
	}

	clock.Advance(time.Second)
	if _, ok, _ := m.Get(ctx, "key1"); ok {
		t.Error("entry readable at its ttl")
	}
	if m.Len() != 0 {
		t.Errorf("Len() = %d, want expired entry removed", m.Len())
	}
}

func TestMemoryNonPositiveTTL(t *testing.T) {
	t.Parallel()
	m, _ := newTestMemory(10)

	_ = m.Set(context.Background(), "key", []byte("v"), 0)
	if m.Len() != 0 {
		t.Error("zero ttl stored an entry")
	}
}

func TestMemoryNonPositiveTTLOverwrites(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m, _ := newTestMemory(10)

	if err := m.Set(ctx, "key", []byte("old"), time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := m.Set(ctx, "key", []byte("new"), 0); err != nil {
		t.Fatalf("Set(ttl=0) error = %v", err)
	}
	if v, ok, _ := m.Get(ctx, "key"); ok {
		t.Errorf("Get() = %q, want stale entry removed", v)
	}
	if m.Len() != 0 {
		t.Errorf("Len() = %d, want 0", m.Len())
	}
}

func TestMemoryDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m, _ := newTestMemory(10)

	for _, k := range []string{"a", "b", "c"} {
		_ = m.Set(ctx, k, []byte(k), time.Minute)
	}
	if err := m.Delete(ctx, "a", "c", "missing"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if m.Len() != 1 {
		t.Errorf("Len() = %d, want 1", m.Len())
	}
	if _, ok, _ := m.Get(ctx, "b"); !ok {
		t.Error("unrelated key deleted")
	}
}

func TestMemoryLRUEviction(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m, _ := newTestMemory(3)

	_ = m.Set(ctx, "a", []byte("a"), time.Minute)
	_ = m.Set(ctx, "b", []byte("b"), time.Minute)
	_ = m.Set(ctx, "c", []byte("c"), time.Minute)

	// Touch "a" so "b" becomes least recently used.
	_, _, _ = m.Get(ctx, "a")
	_ = m.Set(ctx, "d", []byte("d"), time.Minute)

	if _, ok, _ := m.Get(ctx, "b"); ok {
		t.Error("least recently used entry survived eviction")
	}
	for _, k := range []string{"a", "c", "d"} {
		if _, ok, _ := m.Get(ctx, k); !ok {
			t.Errorf("entry %q evicted", k)
		}
	}
	if m.GetStats().Evictions != 1 {
		t.Errorf("Evictions = %d, want 1", m.GetStats().Evictions)
	}
}

func TestMemoryValuesAreCopied(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m, _ := newTestMemory(10)

	in := []byte("original")
	_ = m.Set(ctx, "k", in, time.Minute)
	in[0] = 'X'

	out, _, _ := m.Get(ctx, "k")
	if string(out) != "original" {
		t.Errorf("stored value aliased caller slice: %q", out)
	}
	out[0] = 'Y'
	again, _, _ := m.Get(ctx, "k")
	if string(again) != "original" {
		t.Errorf("returned value aliased stored slice: %q", again)
	}
}

func TestMemoryCleanup(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m, clock := newTestMemory(10)

	_ = m.Set(ctx, "short", []byte("1"), time.Second)
	_ = m.Set(ctx, "long", []byte("2"), time.Hour)

	clock.Advance(time.Minute)
	if removed := m.Cleanup(); removed != 1 {
		t.Errorf("Cleanup() removed %d, want 1", removed)
	}
	if m.Len() != 1 {
		t.Errorf("Len() = %d, want 1", m.Len())
	}
	if !m.GetStats().LastCleanup.Equal(clock.Now()) {
		t.Error("LastCleanup not updated")
	}
}

func TestMemoryStats(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m, _ := newTestMemory(10)

	_ = m.Set(ctx, "k", []byte("v"), time.Minute)
	_, _, _ = m.Get(ctx, "k")
	_, _, _ = m.Get(ctx, "k")
	_, _, _ = m.Get(ctx, "missing")

	stats := m.GetStats()
	if stats.Hits != 2 || stats.Misses != 1 || stats.TotalKeys != 1 {
		t.Errorf("Stats = %+v", stats)
	}
	if rate := m.HitRate(); rate < 66.6 || rate > 66.7 {
		t.Errorf("HitRate() = %v, want ~66.67", rate)
	}
}

func TestMemoryClosed(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m, _ := newTestMemory(10)

	_ = m.Set(ctx, "k", []byte("v"), time.Minute)
	if err := m.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, _, err := m.Get(ctx, "k"); !errors.Is(err, ErrClosed) {
		t.Errorf("Get() after Close error = %v, want ErrClosed", err)
	}
	if err := m.Set(ctx, "k", nil, time.Minute); !errors.Is(err, ErrClosed) {
		t.Errorf("Set() after Close error = %v, want ErrClosed", err)
	}
}

func TestMemoryServeStopsOnCancel(t *testing.T) {
	t.Parallel()
	m := NewMemory(MemoryConfig{CleanupInterval: 10 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Serve(ctx) }()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Serve() did not return after cancel")
	}
}

func TestMemoryConcurrentAccess(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewMemory(MemoryConfig{Capacity: 50})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("key-%d-%d", id, j%20)
				_ = m.Set(ctx, key, []byte(key), time.Minute)
				_, _, _ = m.Get(ctx, key)
				if j%10 == 0 {
					_ = m.Delete(ctx, key)
				}
			}
		}(i)
	}
	wg.Wait()

	if m.Len() > 50 {
		t.Errorf("Len() = %d exceeds capacity 50", m.Len())
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Config
		wantNil bool
		wantErr bool
	}{
		{"default is memory", Config{}, false, false},
		{"memory", Config{Backend: BackendMemory}, false, false},
		{"none disables", Config{Backend: BackendNone}, true, false},
		{"badger in memory", Config{Backend: BackendBadger, Badger: BadgerConfig{InMemory: true}}, false, false},
		{"badger without path", Config{Backend: BackendBadger}, true, true},
		{"redis without address", Config{Backend: BackendRedis}, true, true},
		{"unknown backend", Config{Backend: "memcached"}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			store, err := New(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if (store == nil) != tt.wantNil {
				t.Errorf("New() store = %v, wantNil %v", store, tt.wantNil)
			}
			if store != nil {
				_ = store.Close()
			}
		})
	}
}
