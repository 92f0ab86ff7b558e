package config

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/firefly-engineering/bountybridge/internal/errors"
	"github.com/firefly-engineering/bountybridge/internal/system"
)

// Store reads and writes documents through a FileSystem.
type Store struct {
	FS system.FileSystem
}

// NewStore creates a store on the real file system.
func NewStore() *Store {
	return &Store{FS: system.DefaultFS()}
}

// Exists reports whether a document exists at path.
func (s *Store) Exists(path string) bool {
	return s.FS.Exists(path)
}

// Load reads the document at path. A missing file is a DocumentNotFound
// error.
func (s *Store) Load(path string) (*Document, error) {
	data, err := s.FS.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.DocumentNotFound(path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	doc, err := Decode(data, FormatOf(path))
	if err != nil {
		return nil, errors.Wrap(errors.ExitValidation, fmt.Sprintf("invalid document %s", path), err)
	}
	return doc, nil
}

// Save writes doc to path, readable by the owner only since it may hold
// secrets.
func (s *Store) Save(path string, doc *Document) error {
	data, err := Encode(doc, FormatOf(path))
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := s.FS.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	if err := s.FS.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
