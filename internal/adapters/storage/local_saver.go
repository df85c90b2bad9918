package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/SscSPs/order_export_app/internal/core/ports"
)

// LocalFileSaver writes exports into a directory on local disk.
type LocalFileSaver struct {
	dir string
}

// NewLocalFileSaver creates a saver rooted at dir. The directory is created
// on first save.
func NewLocalFileSaver(dir string) *LocalFileSaver {
	return &LocalFileSaver{dir: dir}
}

var _ ports.FileSaver = (*LocalFileSaver)(nil)

// Save writes content to dir/filename atomically: readers never see a
// partially written export. Only the base name of filename is used.
func (s *LocalFileSaver) Save(ctx context.Context, filename string, content []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	name, err := cleanFilename(filename)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", s.dir, err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+name+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", name, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", name, err)
	}
	if err := os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", name, err)
	}
	return nil
}

// Path returns where filename ends up.
func (s *LocalFileSaver) Path(filename string) string {
	return filepath.Join(s.dir, filepath.Base(filename))
}

func cleanFilename(filename string) (string, error) {
	name := filepath.Base(strings.TrimSpace(filename))
	if name == "." || name == string(filepath.Separator) || name == "" {
		return "", fmt.Errorf("invalid export filename %q", filename)
	}
	return name, nil
}
