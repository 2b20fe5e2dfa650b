package store

import (
	"sort"
	"sync"
	"time"
)

// Memory is an in-memory store for testing.
type Memory struct {
	mu       sync.RWMutex
	history  []HistoryEntry
	nextID   int64
	snippets map[string]string
	metadata map[string]string
}

// NewMemory creates a new in-memory store.
func NewMemory() *Memory {
	return &Memory{
		nextID:   1,
		snippets: make(map[string]string),
		metadata: make(map[string]string),
	}
}

// AppendHistory records one REPL input line.
func (m *Memory) AppendHistory(line string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = append(m.history, HistoryEntry{
		ID:   m.nextID,
		Line: line,
		Ts:   time.Now().UTC().Format(time.RFC3339),
	})
	m.nextID++
	return nil
}

// History returns the most recent entries, oldest first.
func (m *Memory) History(limit int) ([]HistoryEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	start := 0
	if limit > 0 && len(m.history) > limit {
		start = len(m.history) - limit
	}
	out := make([]HistoryEntry, len(m.history)-start)
	copy(out, m.history[start:])
	return out, nil
}

// SaveSnippet stores source under a name.
func (m *Memory) SaveSnippet(name, source string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snippets[name] = source
	return nil
}

// GetSnippet retrieves a snippet by name.
func (m *Memory) GetSnippet(name string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	src, ok := m.snippets[name]
	return src, ok, nil
}

// DeleteSnippet removes a snippet by name.
func (m *Memory) DeleteSnippet(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snippets, name)
	return nil
}

// ListSnippets returns all snippet names, sorted.
func (m *Memory) ListSnippets() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.snippets))
	for name := range m.snippets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// GetMetadata retrieves a metadata value by key.
func (m *Memory) GetMetadata(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.metadata[key], nil
}

// SetMetadata stores a metadata value by key.
func (m *Memory) SetMetadata(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metadata[key] = value
	return nil
}

// Close is a no-op for memory store.
func (m *Memory) Close() error {
	return nil
}
