package storage

import (
	"context"
	"net/url"
	"sync"
	"time"
)

// MemoryStorage keeps objects in process. It backs exports when S3 is not
// configured and in tests.
type MemoryStorage struct {
	mu      sync.RWMutex
	objects map[string]Object
	baseURL string
}

// Object is one stored file
type Object struct {
	Data        []byte
	ContentType string
}

// NewMemoryStorage creates an empty store whose download URLs start with baseURL
func NewMemoryStorage(baseURL string) *MemoryStorage {
	if baseURL == "" {
		baseURL = "memory://reports"
	}
	return &MemoryStorage{objects: make(map[string]Object), baseURL: baseURL}
}

// Upload stores a copy of data
func (m *MemoryStorage) Upload(_ context.Context, key string, data []byte, contentType string) (string, error) {
	if key == "" {
		return "", ErrKeyRequired
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	m.mu.Lock()
	m.objects[key] = Object{Data: cp, ContentType: contentType}
	m.mu.Unlock()
	return key, nil
}

// DownloadURL returns a URL naming the key. Nothing serves it.
func (m *MemoryStorage) DownloadURL(_ context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, ErrKeyRequired
	}
	if expiresIn <= 0 {
		expiresIn = defaultPresignExpiration
	}
	expiresAt := time.Now().Add(expiresIn)
	return m.baseURL + "/" + url.PathEscape(key) + "?expires=" + expiresAt.Format(time.RFC3339), expiresAt, nil
}

// Get returns a stored object
func (m *MemoryStorage) Get(key string) (Object, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	return obj, ok
}

var _ ObjectStorage = (*MemoryStorage)(nil)
