package file

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/moedit/pkg/domain"
)

// DefaultExtension is the file extension listed by default.
const DefaultExtension = ".mo"

// Store implements ports.DocumentStore using the local filesystem.
// Document IDs are slash-separated paths relative to BasePath.
type Store struct {
	BasePath  string
	Extension string
}

// New creates a new Store rooted at basePath.
// If basePath is empty, it defaults to the current directory.
func New(basePath string) *Store {
	if basePath == "" {
		basePath = "."
	}
	return &Store{BasePath: basePath, Extension: DefaultExtension}
}

// path maps a document ID to a file path inside BasePath.
// Absolute IDs and IDs escaping the base directory are rejected.
func (s *Store) path(id string) (string, error) {
	if id == "" {
		return "", fmt.Errorf("document id cannot be empty")
	}
	clean := filepath.Clean(filepath.FromSlash(id))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("document id %q escapes the store root", id)
	}
	return filepath.Join(s.BasePath, clean), nil
}

// Save writes the document atomically.
// It writes to a temporary file first, syncs via fsync, and then renames it to the destination.
func (s *Store) Save(ctx context.Context, doc domain.Document) error {
	destPath, err := s.path(doc.ID)
	if err != nil {
		return err
	}

	dir := filepath.Dir(destPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to ensure document directory: %w", err)
	}

	// 1. Create Temp File
	// Same directory, so the rename stays on one filesystem.
	tmpFile, err := os.CreateTemp(dir, ".tmp-"+filepath.Base(destPath)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath) // No-op once renamed
	}()

	// 2. Write Data
	if _, err := tmpFile.WriteString(doc.Text); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}

	// 3. Fsync to ensure durability
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}

	// 4. Close File (cannot rename open file on Windows)
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// 5. Keep the permissions of the file being replaced.
	mode := os.FileMode(0644)
	if info, err := os.Stat(destPath); err == nil {
		mode = info.Mode().Perm()
		// On Windows, os.Rename fails if dest exists.
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to remove existing document for overwrite: %w", err)
		}
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		return fmt.Errorf("failed to set document permissions: %w", err)
	}

	// 6. Atomic Rename
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file to document: %w", err)
	}
	return nil
}

// Load reads the document from disk.
func (s *Store) Load(ctx context.Context, id string) (domain.Document, error) {
	filePath, err := s.path(id)
	if err != nil {
		return domain.Document{}, err
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Document{}, fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, id)
		}
		return domain.Document{}, fmt.Errorf("failed to read document: %w", err)
	}
	return domain.Document{ID: id, Text: string(data)}, nil
}

// Delete removes the document file.
func (s *Store) Delete(ctx context.Context, id string) error {
	filePath, err := s.path(id)
	if err != nil {
		return err
	}

	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

// List returns the IDs of all files with the store's extension below BasePath.
// An empty Extension lists every regular file.
func (s *Store) List(ctx context.Context) ([]string, error) {
	var ids []string
	err := filepath.WalkDir(s.BasePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == s.BasePath {
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() {
			if path != s.BasePath && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") || (s.Extension != "" && filepath.Ext(path) != s.Extension) {
			return nil
		}
		rel, err := filepath.Rel(s.BasePath, path)
		if err != nil {
			return err
		}
		ids = append(ids, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	sort.Strings(ids)
	return ids, nil
}
