// Package store provides persistence for REPL history and named source
// snippets.
package store

// HistoryEntry is one recorded REPL input line.
type HistoryEntry struct {
	ID   int64
	Line string
	Ts   string
}

// Store is the interface for session persistence.
type Store interface {
	// AppendHistory records one REPL input line.
	AppendHistory(line string) error
	// History returns the most recent entries, oldest first. A limit of
	// zero or less returns everything.
	History(limit int) ([]HistoryEntry, error)

	// SaveSnippet stores source under a name, overwriting if it exists.
	SaveSnippet(name, source string) error
	// GetSnippet retrieves a snippet by name. Returns "" and false if
	// not found.
	GetSnippet(name string) (string, bool, error)
	// DeleteSnippet removes a snippet by name.
	DeleteSnippet(name string) error
	// ListSnippets returns all snippet names, sorted.
	ListSnippets() ([]string, error)

	// GetMetadata retrieves a metadata value by key. Missing keys
	// yield "".
	GetMetadata(key string) (string, error)
	// SetMetadata stores a metadata value by key.
	SetMetadata(key, value string) error

	// Close releases resources.
	Close() error
}
