package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDiskStoreSave(t *testing.T) {
	root := t.TempDir()
	store, err := NewDiskStore(root)
	if err != nil {
		t.Fatalf("NewDiskStore returned error: %v", err)
	}

	rel, err := store.Save("events", "banner.png", strings.NewReader("image-bytes"))
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	if !strings.HasPrefix(rel, "events/") {
		t.Errorf("expected path under events/, got %q", rel)
	}
	if !strings.HasSuffix(rel, "banner.png") {
		t.Errorf("expected original filename retained, got %q", rel)
	}

	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatalf("stored file unreadable: %v", err)
	}
	if string(data) != "image-bytes" {
		t.Errorf("stored content mismatch: %q", data)
	}
}

func TestDiskStoreUniqueNames(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore returned error: %v", err)
	}

	first, err := store.Save("events", "banner.png", strings.NewReader("a"))
	if err != nil {
		t.Fatalf("first Save returned error: %v", err)
	}
	second, err := store.Save("events", "banner.png", strings.NewReader("b"))
	if err != nil {
		t.Fatalf("second Save returned error: %v", err)
	}

	if first == second {
		t.Errorf("expected distinct paths for identical filenames, got %q twice", first)
	}
}

func TestDiskStoreSanitizesFilename(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore returned error: %v", err)
	}

	rel, err := store.Save("events", "../../weird name!.png", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if strings.Contains(rel, " ") || strings.Contains(rel, "!") {
		t.Errorf("filename not sanitized: %q", rel)
	}
	// The only separator is the prefix; path traversal in the upload name
	// cannot escape the media root.
	if !strings.HasPrefix(rel, "events/") || strings.Count(rel, "/") != 1 {
		t.Errorf("unexpected path shape: %q", rel)
	}
}
