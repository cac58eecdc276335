/* Copyright 2025 UAVLog Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package storage provides durable storage for attached documents
package storage

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/uavlog/uavlog/pkg/server/log"
)

// Store is an interface for reading and writing attached documents.
// Paths are relative, slash-separated and unique within the store.
type Store interface {
	// Save writes the content under the given path and returns the path
	// at which the content was stored.
	Save(path string, r io.Reader) (string, error)
	// Open opens the document at the given path for reading.
	Open(path string) (io.ReadCloser, error)
	// Exists reports whether a document exists at the given path.
	Exists(path string) bool
	// Delete removes the document at the given path.
	Delete(path string) error
}

// FileStore is a Store backed by the local filesystem, rooted at Root.
type FileStore struct {
	Root string
}

// NewFileStore creates a file store rooted at the given directory
func NewFileStore(root string) *FileStore {
	return &FileStore{Root: root}
}

func (s *FileStore) fullPath(path string) string {
	return filepath.Join(s.Root, filepath.FromSlash(path))
}

// Save is an implementation of Store.Save
func (s *FileStore) Save(path string, r io.Reader) (string, error) {
	full := s.fullPath(path)

	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return "", errors.Wrap(err, "creating document directory")
	}

	f, err := os.Create(full)
	if err != nil {
		return "", errors.Wrap(err, "creating document")
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", errors.Wrap(err, "writing document")
	}

	return path, nil
}

// Open is an implementation of Store.Open
func (s *FileStore) Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(s.fullPath(path))
	if err != nil {
		return nil, errors.Wrap(err, "opening document")
	}

	return f, nil
}

// Exists is an implementation of Store.Exists
func (s *FileStore) Exists(path string) bool {
	info, err := os.Stat(s.fullPath(path))

	return err == nil && !info.IsDir()
}

// Delete is an implementation of Store.Delete
func (s *FileStore) Delete(path string) error {
	full := s.fullPath(path)

	info, err := os.Stat(full)
	if os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return errors.Wrap(err, "checking document")
	}
	if info.IsDir() {
		return errors.Errorf("refusing to delete directory %s", path)
	}

	if err := os.Remove(full); err != nil {
		return errors.Wrap(err, "removing document")
	}

	return nil
}

// DeleteQuiet removes the document at the given path, logging any failure
// instead of returning it. Missing documents are not an error.
func DeleteQuiet(s Store, path string) {
	if path == "" {
		return
	}

	if err := s.Delete(path); err != nil {
		log.WithFields(log.Fields{
			"path": path,
		}).ErrorWrap(err, "deleting document")
	}
}

// CleanupEmptyDirs removes, bottom-up, every empty directory under the
// store's root. Failures are logged and never returned.
func (s *FileStore) CleanupEmptyDirs() {
	var dirs []string

	err := filepath.Walk(s.Root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() && path != s.Root {
			dirs = append(dirs, path)
		}
		return nil
	})
	if err != nil {
		log.ErrorWrap(err, "walking media root")
		return
	}

	// Deepest first so that a chain of empty directories collapses
	sort.Slice(dirs, func(i, j int) bool {
		return strings.Count(dirs[i], string(os.PathSeparator)) > strings.Count(dirs[j], string(os.PathSeparator))
	})

	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			continue
		}
		if err := os.Remove(dir); err != nil {
			// The directory may have been filled meanwhile
			continue
		}
	}
}
