package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

// MemoryStorage is an in-process Storage for tests and dev runs.
type MemoryStorage struct {
	mu    sync.RWMutex
	files map[string]memoryObject
}

type memoryObject struct {
	data     []byte
	modified time.Time
}

// NewMemoryStorage creates an empty in-memory object store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{files: make(map[string]memoryObject)}
}

func (m *MemoryStorage) Store(_ context.Context, reader io.Reader, key string) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[key] = memoryObject{data: data, modified: time.Now()}
	return key, nil
}

func (m *MemoryStorage) Get(_ context.Context, key string) (io.ReadCloser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.files[key]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", key)
	}
	return io.NopCloser(bytes.NewReader(obj.data)), nil
}

func (m *MemoryStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, key)
	return nil
}

func (m *MemoryStorage) CleanupBefore(_ context.Context, threshold time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, obj := range m.files {
		if obj.modified.Before(threshold) {
			delete(m.files, key)
		}
	}
	return nil
}
