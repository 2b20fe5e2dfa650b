package store

import (
	"path/filepath"
	"testing"
)

// stores returns one of each Store implementation for shared scenarios.
func stores(t *testing.T) map[string]Store {
	t.Helper()
	sqlite, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("sqlite: %v", err)
	}
	t.Cleanup(func() { sqlite.Close() })
	return map[string]Store{
		"memory": NewMemory(),
		"sqlite": sqlite,
	}
}

func TestHistoryRoundTrip(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			for _, line := range []string{"let x = 1;", "x + 1", "println(x)"} {
				if err := s.AppendHistory(line); err != nil {
					t.Fatalf("append: %v", err)
				}
			}

			entries, err := s.History(0)
			if err != nil {
				t.Fatalf("history: %v", err)
			}
			if len(entries) != 3 {
				t.Fatalf("got %d entries", len(entries))
			}
			if entries[0].Line != "let x = 1;" || entries[2].Line != "println(x)" {
				t.Errorf("order wrong: %v", entries)
			}

			recent, err := s.History(2)
			if err != nil {
				t.Fatalf("history limit: %v", err)
			}
			if len(recent) != 2 || recent[0].Line != "x + 1" {
				t.Errorf("limit: got %v", recent)
			}
		})
	}
}

func TestSnippetRoundTrip(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if _, ok, _ := s.GetSnippet("fib"); ok {
				t.Fatal("unexpected snippet")
			}

			if err := s.SaveSnippet("fib", "fun fib(n) { n }"); err != nil {
				t.Fatalf("save: %v", err)
			}
			src, ok, err := s.GetSnippet("fib")
			if err != nil || !ok {
				t.Fatalf("get: %v, %v", ok, err)
			}
			if src != "fun fib(n) { n }" {
				t.Errorf("got %q", src)
			}

			// Overwrite
			if err := s.SaveSnippet("fib", "fun fib(n) { n + 1 }"); err != nil {
				t.Fatalf("overwrite: %v", err)
			}
			src, _, _ = s.GetSnippet("fib")
			if src != "fun fib(n) { n + 1 }" {
				t.Errorf("after overwrite: got %q", src)
			}

			if err := s.SaveSnippet("abs", "fun abs(x) { x }"); err != nil {
				t.Fatalf("save second: %v", err)
			}
			names, err := s.ListSnippets()
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(names) != 2 || names[0] != "abs" || names[1] != "fib" {
				t.Errorf("list: got %v", names)
			}

			if err := s.DeleteSnippet("abs"); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if _, ok, _ := s.GetSnippet("abs"); ok {
				t.Error("snippet survived delete")
			}
		})
	}
}

func TestMetadata(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.SetMetadata("k", "v1"); err != nil {
				t.Fatalf("set: %v", err)
			}
			if err := s.SetMetadata("k", "v2"); err != nil {
				t.Fatalf("overwrite: %v", err)
			}
			v, err := s.GetMetadata("k")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if v != "v2" {
				t.Errorf("got %q", v)
			}
			if v, _ := s.GetMetadata("missing"); v != "" {
				t.Errorf("missing key: got %q", v)
			}
		})
	}
}

func TestSQLiteSchemaVersionPersisted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.db")
	s, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.AppendHistory("1 + 1"); err != nil {
		t.Fatalf("append: %v", err)
	}
	s.Close()

	// Reopen: data and schema version must survive.
	s2, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	version, err := s2.GetMetadata("schema_version")
	if err != nil {
		t.Fatalf("metadata: %v", err)
	}
	if version != SchemaVersion {
		t.Errorf("schema version: got %q", version)
	}
	entries, err := s2.History(0)
	if err != nil || len(entries) != 1 {
		t.Fatalf("history after reopen: %v, %v", entries, err)
	}
}
