package publish

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DirPublisher writes the page to index.html inside a local directory, for
// serving by any static web server.
type DirPublisher struct {
	dir string
}

func NewDirPublisher(dir string) (*DirPublisher, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create publish dir: %w", err)
	}
	return &DirPublisher{dir: dir}, nil
}

// Publish replaces index.html atomically via a temp file and rename.
func (d *DirPublisher) Publish(_ context.Context, content []byte, _ string) error {
	tmp, err := os.CreateTemp(d.dir, ".index-*.html")
	if err != nil {
		return fmt.Errorf("publish page: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return fmt.Errorf("publish page: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("publish page: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("publish page: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(d.dir, PageName)); err != nil {
		return fmt.Errorf("publish page: %w", err)
	}
	return nil
}

func (d *DirPublisher) Current(_ context.Context) ([]byte, error) {
	content, err := os.ReadFile(filepath.Join(d.dir, PageName))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotPublished
	}
	if err != nil {
		return nil, fmt.Errorf("read published page: %w", err)
	}
	return content, nil
}
