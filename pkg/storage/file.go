package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore persists snapshots as one JSON file per namespace inside a data
// directory. It is the closest server-side analogue to the browser
// localStorage medium the stores were designed around.
type FileStore struct {
	dir string
}

// NewFileStore creates a file-backed snapshot store rooted at dir, creating
// the directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(namespace string) string {
	return filepath.Join(s.dir, namespace+".json")
}

func (s *FileStore) Load(_ context.Context, namespace string) ([]byte, bool, error) {
	payload, err := os.ReadFile(s.path(namespace))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read snapshot %s: %w", namespace, err)
	}
	return payload, true, nil
}

func (s *FileStore) Save(_ context.Context, namespace string, payload []byte) error {
	// Write to a temp file and rename so readers never see a torn snapshot.
	tmp, err := os.CreateTemp(s.dir, namespace+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot: %w", err)
	}

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write snapshot %s: %w", namespace, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close snapshot %s: %w", namespace, err)
	}

	if err := os.Rename(tmp.Name(), s.path(namespace)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace snapshot %s: %w", namespace, err)
	}
	return nil
}
