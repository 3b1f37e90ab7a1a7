package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Local stores blobs below a base directory.
type Local struct {
	baseDir string
}

func NewLocal(baseDir string) *Local {
	if baseDir == "" {
		baseDir = "storage"
	}
	return &Local{baseDir: baseDir}
}

func (l *Local) Put(_ context.Context, prefix, filename, _ string, data []byte) (Object, error) {
	dir := filepath.Join(l.baseDir, prefix)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Object{}, fmt.Errorf("failed to create storage dir: %w", err)
	}
	name, sum := objectName(filename, data)
	finalPath := filepath.Join(dir, name)

	// objects appear atomically via rename
	tmp, err := os.CreateTemp(dir, "put-*.tmp")
	if err != nil {
		return Object{}, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return Object{}, fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return Object{}, fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmp.Name(), finalPath); err != nil {
		return Object{}, fmt.Errorf("failed to finalize file: %w", err)
	}
	return Object{Path: finalPath, SHA256: sum, Size: int64(len(data))}, nil
}

// URL returns the absolute filesystem path of the object.
func (l *Local) URL(_ context.Context, path string) (string, error) {
	return filepath.Abs(path)
}
