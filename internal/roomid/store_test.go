package roomid

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "room.yaml")
	s := NewFileStore(path)

	id, err := s.Load()
	if err != nil {
		t.Fatalf("load empty: %v", err)
	}
	if id != "" {
		t.Fatalf("expected empty id, got %q", id)
	}

	want := "room-aaaaaaaaaaaaaaaaaaaaaaaa"
	if err := s.Save(want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.Load()
	if err != nil || got != want {
		t.Fatalf("expected %q, got %q (%v)", want, got, err)
	}

	// A fresh store on the same path simulates a reload.
	reloaded := NewFileStore(path)
	got, err = reloaded.Load()
	if err != nil || got != want {
		t.Fatalf("after reload expected %q, got %q (%v)", want, got, err)
	}

	if err := reloaded.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	got, err = s.Load()
	if err != nil || got != "" {
		t.Fatalf("expected empty after clear, got %q (%v)", got, err)
	}

	// Clearing twice is fine.
	if err := s.Clear(); err != nil {
		t.Fatalf("second clear: %v", err)
	}
}

func TestFileStorePreservesExactValue(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "room.yaml"))

	for _, id := range []string{"  padded  ", "yes", "123", "room: tricky # not a comment"} {
		if err := s.Save(id); err != nil {
			t.Fatalf("save %q: %v", id, err)
		}
		got, err := s.Load()
		if err != nil {
			t.Fatalf("load %q: %v", id, err)
		}
		if got != id {
			t.Fatalf("expected %q, got %q", id, got)
		}
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "room.yaml")
	if err := os.WriteFile(path, []byte("- a\n- b\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := NewFileStore(path).Load(); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore("")
	if id, _ := s.Load(); id != "" {
		t.Fatalf("expected empty, got %q", id)
	}
	_ = s.Save("r1")
	if id, _ := s.Load(); id != "r1" {
		t.Fatalf("expected r1, got %q", id)
	}
	_ = s.Clear()
	if id, _ := s.Load(); id != "" {
		t.Fatalf("expected empty after clear, got %q", id)
	}
}

func TestGenerate(t *testing.T) {
	pattern := regexp.MustCompile(`^room-[a-z0-9]{24}$`)

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id, err := Generate()
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if !pattern.MatchString(id) {
			t.Fatalf("unexpected id format %q", id)
		}
		if !strings.HasPrefix(id, Prefix) {
			t.Fatalf("missing prefix in %q", id)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = struct{}{}
	}
}
