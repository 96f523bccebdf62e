package ratelimit

import (
	"context"
	"sync"
	"time"
)

const defaultMaxKeys = 10000

type memoryBucket struct {
	count     int
	windowEnd time.Time
}

// MemoryLimiter keeps counters in a map guarded by a mutex. When the map
// holds maxKeys entries, expired buckets are collected before a new one is
// added; if none expired the oldest window is dropped.
type MemoryLimiter struct {
	mu      sync.Mutex
	now     func() time.Time
	limit   int
	window  time.Duration
	maxKeys int
	data    map[string]*memoryBucket
}

func NewMemoryLimiter(limit int, window time.Duration, now func() time.Time) *MemoryLimiter {
	if now == nil {
		now = time.Now
	}
	return &MemoryLimiter{
		now:     now,
		limit:   limit,
		window:  window,
		maxKeys: defaultMaxKeys,
		data:    make(map[string]*memoryBucket),
	}
}

// live returns the bucket for key if its window is still open.
func (m *MemoryLimiter) live(key string, now time.Time) (*memoryBucket, bool) {
	b, ok := m.data[key]
	if !ok {
		return nil, false
	}
	if !now.Before(b.windowEnd) {
		delete(m.data, key)
		return nil, false
	}
	return b, true
}

func (m *MemoryLimiter) Allowed(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.live(key, m.now())
	return !ok || b.count < m.limit, nil
}

func (m *MemoryLimiter) Fail(_ context.Context, key string) error {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.live(key, now)
	if !ok {
		if len(m.data) >= m.maxKeys {
			m.gc(now)
		}
		b = &memoryBucket{windowEnd: now.Add(m.window)}
		m.data[key] = b
	}
	b.count++
	return nil
}

func (m *MemoryLimiter) Reset(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
	return nil
}

func (m *MemoryLimiter) gc(now time.Time) {
	var (
		oldestKey string
		oldest    time.Time
	)
	for key, b := range m.data {
		if !now.Before(b.windowEnd) {
			delete(m.data, key)
			continue
		}
		if oldestKey == "" || b.windowEnd.Before(oldest) {
			oldestKey, oldest = key, b.windowEnd
		}
	}
	if len(m.data) >= m.maxKeys && oldestKey != "" {
		delete(m.data, oldestKey)
	}
}
