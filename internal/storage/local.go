package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nconklindev/barcoder/internal/export"
)

// Local writes artifacts into a directory on disk
type Local struct {
	dir string
}

// NewLocal creates the output directory if needed
func NewLocal(dir string) (*Local, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	return &Local{dir: dir}, nil
}

func (s *Local) Dir() string {
	return s.dir
}

// PutAll writes every artifact or none of them. Each payload goes to a
// temp file in the output directory first; only when all temp files are
// complete are they renamed into place. Existing files with the same name
// are moved aside first and restored if a later rename fails, so a failed
// run leaves the previous output as it was.
func (s *Local) PutAll(ctx context.Context, artifacts []export.Artifact) ([]string, error) {
	temps := make([]string, 0, len(artifacts))
	cleanup := func() {
		for _, t := range temps {
			os.Remove(t)
		}
	}

	for _, a := range artifacts {
		if err := ctx.Err(); err != nil {
			cleanup()
			return nil, err
		}
		tmp, err := s.writeTemp(a)
		if err != nil {
			cleanup()
			return nil, err
		}
		temps = append(temps, tmp)
	}

	var (
		paths   = make([]string, 0, len(artifacts))
		backups = make(map[string]string)
	)
	rollback := func(pending []string) {
		for _, p := range paths {
			os.Remove(p)
		}
		for dest, bak := range backups {
			os.Rename(bak, dest)
		}
		for _, t := range pending {
			os.Remove(t)
		}
	}

	for i, a := range artifacts {
		dest := filepath.Join(s.dir, filepath.Base(a.Name))
		bak, err := s.moveAside(dest)
		if err != nil {
			rollback(temps[i:])
			return nil, err
		}
		if bak != "" {
			backups[dest] = bak
		}
		if err := os.Rename(temps[i], dest); err != nil {
			rollback(temps[i:])
			return nil, fmt.Errorf("failed to move %s into place: %w", a.Name, err)
		}
		paths = append(paths, dest)
	}

	for _, bak := range backups {
		os.Remove(bak)
	}
	return paths, nil
}

// moveAside renames an existing regular file at dest to a backup name in
// the same directory and returns that name. It returns "" when there is
// nothing to move.
func (s *Local) moveAside(dest string) (string, error) {
	info, err := os.Lstat(dest)
	if err != nil || !info.Mode().IsRegular() {
		return "", nil
	}

	f, err := os.CreateTemp(s.dir, ".barcoder-*.bak")
	if err != nil {
		return "", fmt.Errorf("failed to reserve backup for %s: %w", dest, err)
	}
	bak := f.Name()
	f.Close()

	if err := os.Rename(dest, bak); err != nil {
		os.Remove(bak)
		return "", fmt.Errorf("failed to move aside %s: %w", dest, err)
	}
	return bak, nil
}

func (s *Local) writeTemp(a export.Artifact) (string, error) {
	f, err := os.CreateTemp(s.dir, ".barcoder-*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file for %s: %w", a.Name, err)
	}
	name := f.Name()

	if _, err := f.Write(a.Data); err != nil {
		f.Close()
		os.Remove(name)
		return "", fmt.Errorf("failed to write %s: %w", a.Name, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(name)
		return "", fmt.Errorf("failed to close %s: %w", a.Name, err)
	}
	if err := os.Chmod(name, 0644); err != nil {
		os.Remove(name)
		return "", fmt.Errorf("failed to set permissions on %s: %w", a.Name, err)
	}
	return name, nil
}
