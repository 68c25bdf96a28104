// Package memstore provides validated filesystem access to the memory
// tree. Every path is checked by pathval before it is read, copied or
// deleted; higher components never touch the tree directly.
package memstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/edelzer/memory-toolkit/internal/model"
	"github.com/edelzer/memory-toolkit/internal/pathval"
)

// Store is read/write access to one workspace's memory tree.
type Store struct {
	workspaceRoot string
	memoryRoot    string
}

// New creates a store rooted at the workspace directory. The memories
// directory must already exist; a missing tree is a precondition
// failure, not something the maintenance tools create.
func New(workspaceRoot string) (*Store, error) {
	memRoot := filepath.Join(workspaceRoot, model.MemoryDirName)
	info, err := os.Stat(memRoot)
	if err != nil {
		return nil, fmt.Errorf("memories directory not found at %s: %w", memRoot, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", memRoot)
	}
	return &Store{workspaceRoot: workspaceRoot, memoryRoot: memRoot}, nil
}

// WorkspaceRoot returns the workspace directory the store was opened on.
func (s *Store) WorkspaceRoot() string { return s.workspaceRoot }

// MemoryRoot returns the absolute path of the memories directory.
func (s *Store) MemoryRoot() string { return s.memoryRoot }

// resolve validates a memories-relative record path and returns its
// absolute location.
func (s *Store) resolve(rel string) (string, error) {
	res, err := pathval.Validate(filepath.Join(model.MemoryDirName, rel), s.workspaceRoot)
	if err != nil {
		return "", err
	}
	return res.AbsPath, nil
}

// Exists reports whether a record exists at the validated path.
func (s *Store) Exists(rel string) (bool, error) {
	abs, err := s.resolve(rel)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(abs)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Read returns a record's content.
func (s *Store) Read(rel string) ([]byte, error) {
	abs, err := s.resolve(rel)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(abs)
}

// Stat returns a record's metadata.
func (s *Store) Stat(rel string) (*model.FileInfo, error) {
	abs, err := s.resolve(rel)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	return &model.FileInfo{
		RelPath:  filepath.ToSlash(rel),
		Category: strings.SplitN(filepath.ToSlash(rel), "/", 2)[0],
		Size:     info.Size(),
		Modified: info.ModTime(),
	}, nil
}

// Remove deletes a record.
func (s *Store) Remove(rel string) error {
	abs, err := s.resolve(rel)
	if err != nil {
		return err
	}
	return os.Remove(abs)
}

// archiveDest checks that an archive destination stays inside the
// memories root. Bundle paths are built from validated sources plus
// fixed components, but the containment invariant is enforced here too.
func (s *Store) archiveDest(dest string) error {
	rel, err := filepath.Rel(s.memoryRoot, filepath.Clean(dest))
	if err != nil || strings.HasPrefix(rel, "..") {
		return fmt.Errorf("archive destination %s escapes the memories root", dest)
	}
	if !strings.HasPrefix(filepath.ToSlash(rel), model.ArchiveDirName+"/") {
		return fmt.Errorf("archive destination %s is outside %s/", dest, model.ArchiveDirName)
	}
	return nil
}

// CopyToArchive copies a record into an archive directory, preserving
// its category sub-path. The destination directory is created as needed.
func (s *Store) CopyToArchive(rel, archiveDir string) (int64, error) {
	abs, err := s.resolve(rel)
	if err != nil {
		return 0, err
	}
	dest := filepath.Join(archiveDir, filepath.FromSlash(rel))
	if err := s.archiveDest(dest); err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return 0, fmt.Errorf("create archive dir: %w", err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return 0, err
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return 0, err
	}
	return int64(len(data)), nil
}

// ArchivePath returns the absolute path of a directory under
// memories/archives.
func (s *Store) ArchivePath(parts ...string) string {
	elems := append([]string{s.memoryRoot, model.ArchiveDirName}, parts...)
	return filepath.Join(elems...)
}

// WriteArchiveFile writes a generated file (such as a report) into an
// archive directory.
func (s *Store) WriteArchiveFile(archiveDir, name string, data []byte) error {
	dest := filepath.Join(archiveDir, name)
	rel, err := filepath.Rel(s.memoryRoot, filepath.Clean(dest))
	if err != nil || strings.HasPrefix(rel, "..") {
		return fmt.Errorf("archive file %s escapes the memories root", dest)
	}
	if err := os.MkdirAll(archiveDir, 0o755); err != nil {
		return fmt.Errorf("create archive dir: %w", err)
	}
	return os.WriteFile(dest, data, 0o644)
}
