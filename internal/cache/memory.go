// Kahani - Hybrid Media Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Srijan272002/Kahani-sub000

package cache

import (
	"context"
	"sync"
	"time"

	"github.com/Srijan272002/Kahani-sub000/internal/metrics"
)

// MemoryConfig configures the in-process store.
type MemoryConfig struct {
	// Capacity is the maximum number of entries. The least recently used
	// entry is evicted when it is exceeded.
	// Default: 10000.
	Capacity int

	// CleanupInterval is how often Serve sweeps expired entries.
	// Default: 1m.
	CleanupInterval time.Duration
}

// memoryEntry is a node of the LRU list.
type memoryEntry struct {
	key       string
	value     []byte
	expiresAt time.Time
	prev      *memoryEntry
	next      *memoryEntry
}

// Stats tracks cache performance metrics
type Stats struct {
	Hits        int64
	Misses      int64
	Evictions   int64
	TotalKeys   int64
	LastCleanup time.Time
}

// Memory is a thread-safe LRU store with per-entry TTL.
//
// Entries expire lazily on Get and in bulk when Serve runs its cleanup loop.
// Values are copied on the way in and out so callers can never alias cached
// data.
type Memory struct {
	mu       sync.Mutex
	capacity int
	interval time.Duration
	items    map[string]*memoryEntry

	// head.next is the most recently used, tail.prev the least.
	head *memoryEntry
	tail *memoryEntry

	stats  Stats
	now    func() time.Time
	closed bool
}

// NewMemory creates an in-process store.
func NewMemory(cfg MemoryConfig) *Memory {
	if cfg.Capacity <= 0 {
		cfg.Capacity = 10000
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = time.Minute
	}

	m := &Memory{
		capacity: cfg.Capacity,
		interval: cfg.CleanupInterval,
		items:    make(map[string]*memoryEntry, min(cfg.Capacity, 1024)),
		head:     &memoryEntry{},
		tail:     &memoryEntry{},
		now:      time.Now,
	}
	m.head.next = m.tail
	m.tail.prev = m.head
	m.stats.LastCleanup = m.now()
	return m
}

// Get implements Store.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, false, ErrClosed
	}

	entry, ok := m.items[key]
	if !ok {
		m.stats.Misses++
		return nil, false, nil
	}
	if !m.now().Before(entry.expiresAt) {
		m.removeEntry(entry)
		m.stats.Misses++
		m.stats.Evictions++
		metrics.CacheEvictions.WithLabelValues(string(BackendMemory)).Inc()
		return nil, false, nil
	}

	m.moveToFront(entry)
	m.stats.Hits++
	return append([]byte(nil), entry.value...), true, nil
}

// Set implements Store. A non-positive ttl removes any existing entry and
// stores nothing.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if ttl <= 0 {
		if entry, ok := m.items[key]; ok {
			m.removeEntry(entry)
			m.updateSize()
		}
		return nil
	}

	data := append([]byte(nil), value...)
	expiresAt := m.now().Add(ttl)

	if entry, ok := m.items[key]; ok {
		entry.value = data
		entry.expiresAt = expiresAt
		m.moveToFront(entry)
		return nil
	}

	entry := &memoryEntry{key: key, value: data, expiresAt: expiresAt}
	m.addToFront(entry)
	m.items[key] = entry

	for len(m.items) > m.capacity {
		m.evictOldest()
	}
	m.updateSize()
	return nil
}

// Delete implements Store.
func (m *Memory) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	for _, key := range keys {
		if entry, ok := m.items[key]; ok {
			m.removeEntry(entry)
		}
	}
	m.updateSize()
	return nil
}

// Close implements Store. Entries are dropped.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.items = make(map[string]*memoryEntry)
	m.head.next = m.tail
	m.tail.prev = m.head
	m.updateSize()
	return nil
}

// Len returns the number of stored entries, including expired ones not yet
// swept.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// GetStats returns a snapshot of current cache performance statistics.
func (m *Memory) GetStats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.stats
	s.TotalKeys = int64(len(m.items))
	return s
}

// HitRate returns the cache hit rate as a percentage
func (m *Memory) HitRate() float64 {
	stats := m.GetStats()
	total := stats.Hits + stats.Misses
	if total == 0 {
		return 0.0
	}
	return float64(stats.Hits) / float64(total) * 100.0
}

// Serve runs the periodic cleanup loop until ctx is cancelled. It implements
// suture.Service.
func (m *Memory) Serve(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			m.Cleanup()
		}
	}
}

// String returns the service name for the supervisor.
func (m *Memory) String() string {
	return "cache-memory-cleanup"
}

// Cleanup removes all expired entries and returns how many were removed.
func (m *Memory) Cleanup() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for _, entry := range m.items {
		if !now.Before(entry.expiresAt) {
			m.removeEntry(entry)
			removed++
		}
	}

	m.stats.Evictions += int64(removed)
	m.stats.LastCleanup = now
	if removed > 0 {
		metrics.CacheEvictions.WithLabelValues(string(BackendMemory)).Add(float64(removed))
	}
	m.updateSize()
	return removed
}

// The helpers below must be called with m.mu held.

func (m *Memory) addToFront(entry *memoryEntry) {
	entry.prev = m.head
	entry.next = m.head.next
	m.head.next.prev = entry
	m.head.next = entry
}

func (m *Memory) unlink(entry *memoryEntry) {
	entry.prev.next = entry.next
	entry.next.prev = entry.prev
}

func (m *Memory) moveToFront(entry *memoryEntry) {
	m.unlink(entry)
	m.addToFront(entry)
}

func (m *Memory) removeEntry(entry *memoryEntry) {
	m.unlink(entry)
	delete(m.items, entry.key)
}

func (m *Memory) evictOldest() {
	oldest := m.tail.prev
	if oldest == m.head {
		return
	}
	m.removeEntry(oldest)
	m.stats.Evictions++
	metrics.CacheEvictions.WithLabelValues(string(BackendMemory)).Inc()
}

func (m *Memory) updateSize() {
	metrics.CacheSize.WithLabelValues(string(BackendMemory)).Set(float64(len(m.items)))
}
