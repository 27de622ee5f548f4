package cache

import (
	"sync"
	"time"
)

type ttlItem struct {
	value     []byte
	expiresAt time.Time
}

func (i ttlItem) expired(now time.Time) bool {
	return !i.expiresAt.IsZero() && !now.Before(i.expiresAt)
}

// ttlMap is a mutex-guarded map whose entries expire. A janitor goroutine
// sweeps expired entries until close is called.
type ttlMap struct {
	mu      sync.Mutex
	items   map[string]ttlItem
	stop    chan struct{}
	wg      sync.WaitGroup
	stopped sync.Once
}

func newTTLMap(sweepEvery time.Duration) *ttlMap {
	m := &ttlMap{
		items: make(map[string]ttlItem),
		stop:  make(chan struct{}),
	}
	m.wg.Add(1)
	go m.janitor(sweepEvery)
	return m
}

// setNX stores value unless a live entry exists and reports whether it did
func (m *ttlMap) setNX(key string, value []byte, ttl time.Duration) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	if it, ok := m.items[key]; ok && !it.expired(now) {
		return false
	}
	m.items[key] = ttlItem{value: value, expiresAt: expiry(now, ttl)}
	return true
}

func (m *ttlMap) set(key string, value []byte, ttl time.Duration) {
	m.mu.Lock()
	m.items[key] = ttlItem{value: value, expiresAt: expiry(time.Now(), ttl)}
	m.mu.Unlock()
}

func (m *ttlMap) get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	it, ok := m.items[key]
	if !ok || it.expired(time.Now()) {
		return nil, false
	}
	return it.value, true
}

func (m *ttlMap) delete(keys ...string) {
	m.mu.Lock()
	for _, k := range keys {
		delete(m.items, k)
	}
	m.mu.Unlock()
}

func (m *ttlMap) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

func (m *ttlMap) sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for k, it := range m.items {
		if it.expired(now) {
			delete(m.items, k)
		}
	}
}

func (m *ttlMap) janitor(every time.Duration) {
	defer m.wg.Done()

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.sweep()
		}
	}
}

func (m *ttlMap) close() {
	m.stopped.Do(func() {
		close(m.stop)
		m.wg.Wait()
	})
}

// expiry returns the zero time for ttl <= 0, meaning the entry never expires
func expiry(now time.Time, ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return now.Add(ttl)
}
