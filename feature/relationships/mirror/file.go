package mirror

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"relationship-manager/feature/relationships/models"
)

// FileMirror is the local JSON fixture consumed by the client app.
type FileMirror struct {
	path string
}

// NewFileMirror creates a mirror over the fixture at path.
func NewFileMirror(path string) *FileMirror {
	return &FileMirror{path: path}
}

func (m *FileMirror) Name() string { return SourceFile }

// Path returns the fixture location.
func (m *FileMirror) Path() string { return m.path }

func (m *FileMirror) Load(ctx context.Context) (models.Dataset, error) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return models.Dataset{}, fmt.Errorf("failed to read fixture %s: %w", m.path, err)
	}
	return decodeFixture(data)
}

// Save writes the fixture through a temp file and a rename so readers never see
// a partial file.
func (m *FileMirror) Save(ctx context.Context, ds models.Dataset) error {
	data, err := encodeFixture(ds)
	if err != nil {
		return err
	}
	dir := filepath.Dir(m.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create fixture dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".fixture-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, m.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
