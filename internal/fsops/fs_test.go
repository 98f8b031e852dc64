package fsops

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestRealFS_ValidateIdentifier(t *testing.T) {
	fs := NewRealFS()

	tests := []struct {
		name      string
		id        string
		wantError bool
	}{
		{"simple session", "default", false},
		{"with dashes and digits", "trip-2024_lisbon", false},
		{"empty", "", true},
		{"current directory", ".", true},
		{"parent directory", "..", true},
		{"traversal prefix", "../etc", true},
		{"forward slash", "a/b", true},
		{"backslash", `a\b`, true},
		{"absolute path", "/etc/hosts", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fs.ValidateIdentifier(tt.id)
			if (err != nil) != tt.wantError {
				t.Errorf("ValidateIdentifier(%q) error = %v, wantError %v", tt.id, err, tt.wantError)
			}
		})
	}
}

func TestRealFS_AtomicWrite(t *testing.T) {
	fs := NewRealFS()
	dir := t.TempDir()

	t.Run("creates parent directories", func(t *testing.T) {
		path := filepath.Join(dir, "sessions", "default.json")
		if err := fs.AtomicWrite(path, []byte(`{"a":1}`), 0644); err != nil {
			t.Fatalf("AtomicWrite failed: %v", err)
		}
		got, err := fs.ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile failed: %v", err)
		}
		if string(got) != `{"a":1}` {
			t.Errorf("content = %q", got)
		}
	})

	t.Run("overwrites and leaves no temp files", func(t *testing.T) {
		path := filepath.Join(dir, "overwrite.json")
		if err := os.WriteFile(path, []byte("initial"), 0644); err != nil {
			t.Fatalf("failed to seed file: %v", err)
		}
		if err := fs.AtomicWrite(path, []byte("replaced"), 0600); err != nil {
			t.Fatalf("AtomicWrite failed: %v", err)
		}

		got, _ := os.ReadFile(path)
		if string(got) != "replaced" {
			t.Errorf("content = %q, want replaced", got)
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat failed: %v", err)
		}
		if info.Mode().Perm() != 0600 {
			t.Errorf("perm = %v, want 0600", info.Mode().Perm())
		}

		entries, _ := os.ReadDir(dir)
		for _, e := range entries {
			if filepath.Ext(e.Name()) != ".json" && !e.IsDir() {
				t.Errorf("unexpected leftover file %s", e.Name())
			}
		}
	})
}

func TestRealFS_ExistsAndRemove(t *testing.T) {
	fs := NewRealFS()
	path := filepath.Join(t.TempDir(), "snap.json")

	exists, err := fs.Exists(path)
	if err != nil || exists {
		t.Fatalf("Exists before write = %v, %v", exists, err)
	}

	if err := os.WriteFile(path, []byte("{}"), 0644); err != nil {
		t.Fatalf("failed to write: %v", err)
	}
	exists, err = fs.Exists(path)
	if err != nil || !exists {
		t.Fatalf("Exists after write = %v, %v", exists, err)
	}

	if err := fs.Remove(path); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := fs.ReadFile(path); !os.IsNotExist(err) {
		t.Errorf("ReadFile after remove error = %v, want not exist", err)
	}
}

func TestRealFS_ListNames(t *testing.T) {
	fs := NewRealFS()
	dir := t.TempDir()

	t.Run("missing directory", func(t *testing.T) {
		names, err := fs.ListNames(filepath.Join(dir, "nope"), ".json")
		if err != nil {
			t.Fatalf("ListNames failed: %v", err)
		}
		if len(names) != 0 {
			t.Errorf("expected empty list, got %v", names)
		}
	})

	t.Run("filters by extension and hidden files", func(t *testing.T) {
		for _, name := range []string{"b.json", "a.json", "notes.txt", ".previewdeck-tmp-1.json"} {
			if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0644); err != nil {
				t.Fatalf("failed to write %s: %v", name, err)
			}
		}
		if err := fs.MkdirAll(filepath.Join(dir, "sub.json"), 0755); err != nil {
			t.Fatalf("MkdirAll failed: %v", err)
		}

		names, err := fs.ListNames(dir, ".json")
		if err != nil {
			t.Fatalf("ListNames failed: %v", err)
		}
		if want := []string{"a", "b"}; !reflect.DeepEqual(names, want) {
			t.Errorf("ListNames = %v, want %v", names, want)
		}
	})
}
