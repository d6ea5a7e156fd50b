package publish

import (
	"context"
	"sync"
)

// MemoryPublisher keeps the last published page in process memory.
type MemoryPublisher struct {
	mu      sync.RWMutex
	content []byte
}

func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{}
}

func (m *MemoryPublisher) Publish(_ context.Context, content []byte, _ string) error {
	buf := make([]byte, len(content))
	copy(buf, content)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.content = buf
	return nil
}

func (m *MemoryPublisher) Current(_ context.Context) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.content == nil {
		return nil, ErrNotPublished
	}
	return m.content, nil
}
