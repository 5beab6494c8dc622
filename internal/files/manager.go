package files

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// AtomicFile is a temporary file that replaces its target on Commit. Readers
// of the target never see a partial write.
type AtomicFile struct {
	*os.File
	target string
	closed bool
}

// CreateAtomic opens a temporary file next to path, creating the directory
// if needed.
func CreateAtomic(path string) (*AtomicFile, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	return &AtomicFile{File: f, target: path}, nil
}

// Target returns the path the file is committed to.
func (a *AtomicFile) Target() string {
	return a.target
}

// Commit flushes the temporary file and renames it over the target.
func (a *AtomicFile) Commit() error {
	if a.closed {
		return fmt.Errorf("atomic file %s already closed", a.target)
	}
	a.closed = true

	if err := a.File.Sync(); err != nil {
		a.File.Close()
		os.Remove(a.File.Name())
		return fmt.Errorf("failed to sync %s: %w", a.target, err)
	}
	if err := a.File.Close(); err != nil {
		os.Remove(a.File.Name())
		return fmt.Errorf("failed to close %s: %w", a.target, err)
	}
	if err := os.Chmod(a.File.Name(), 0644); err != nil {
		os.Remove(a.File.Name())
		return fmt.Errorf("failed to set permissions on %s: %w", a.target, err)
	}
	if err := os.Rename(a.File.Name(), a.target); err != nil {
		os.Remove(a.File.Name())
		return fmt.Errorf("failed to replace %s: %w", a.target, err)
	}
	return nil
}

// Abort discards the temporary file and leaves the target untouched. It is
// safe to call after Commit.
func (a *AtomicFile) Abort() error {
	if a.closed {
		return nil
	}
	a.closed = true
	a.File.Close()
	return os.Remove(a.File.Name())
}

// WriteAtomic writes path through fn. The target is replaced only if fn
// succeeds.
func WriteAtomic(path string, fn func(w io.Writer) error) error {
	f, err := CreateAtomic(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Abort()
		return err
	}
	return f.Commit()
}
