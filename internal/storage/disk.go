package storage

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Store persists uploaded files and returns the path they were stored under,
// relative to the media root.
type Store interface {
	Save(prefix, filename string, r io.Reader) (string, error)
}

type DiskStore struct {
	root string
}

func NewDiskStore(root string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &DiskStore{root: root}, nil
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9.\-_]+`)

func uniqueFilename(original string) string {
	safe := unsafeChars.ReplaceAllString(original, "_")
	return fmt.Sprintf("%s-%s-%s", time.Now().Format("20060102"), uuid.New().String(), safe)
}

// Save writes the file under prefix with a collision-free name and returns
// the relative path, e.g. "events/20250101-<uuid>-banner.png".
func (s *DiskStore) Save(prefix, filename string, r io.Reader) (string, error) {
	rel := path.Join(prefix, uniqueFilename(filename))

	dst := filepath.Join(s.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("write upload: %w", err)
	}

	return rel, nil
}
