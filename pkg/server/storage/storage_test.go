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

package storage

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/uavlog/uavlog/pkg/assert"
)

func TestFileStoreSaveOpen(t *testing.T) {
	s := NewFileStore(t.TempDir())

	saved, err := s.Save("maintenance/user_1/report.pdf", strings.NewReader("report body"))
	if err != nil {
		t.Fatal(errors.Wrap(err, "saving"))
	}
	assert.Equal(t, saved, "maintenance/user_1/report.pdf", "saved path mismatch")

	f, err := s.Open(saved)
	if err != nil {
		t.Fatal(errors.Wrap(err, "opening"))
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatal(errors.Wrap(err, "reading"))
	}
	assert.Equal(t, string(data), "report body", "content mismatch")
}

func TestFileStoreSaveOverwrites(t *testing.T) {
	s := NewFileStore(t.TempDir())

	if _, err := s.Save("configs/user_1/diff.txt", strings.NewReader("old")); err != nil {
		t.Fatal(errors.Wrap(err, "saving"))
	}
	if _, err := s.Save("configs/user_1/diff.txt", strings.NewReader("new")); err != nil {
		t.Fatal(errors.Wrap(err, "saving again"))
	}

	f, err := s.Open("configs/user_1/diff.txt")
	if err != nil {
		t.Fatal(errors.Wrap(err, "opening"))
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatal(errors.Wrap(err, "reading"))
	}
	assert.Equal(t, string(data), "new", "content mismatch")
}

func TestFileStoreExists(t *testing.T) {
	s := NewFileStore(t.TempDir())

	assert.Equal(t, s.Exists("missing.txt"), false, "missing file should not exist")

	if _, err := s.Save("present.txt", strings.NewReader("x")); err != nil {
		t.Fatal(errors.Wrap(err, "saving"))
	}
	assert.Equal(t, s.Exists("present.txt"), true, "saved file should exist")

	// A directory is not a document
	if _, err := s.Save("nested/file.txt", strings.NewReader("x")); err != nil {
		t.Fatal(errors.Wrap(err, "saving"))
	}
	assert.Equal(t, s.Exists("nested"), false, "directory should not count as a document")
}

func TestFileStoreDelete(t *testing.T) {
	s := NewFileStore(t.TempDir())

	if _, err := s.Save("doc.txt", strings.NewReader("x")); err != nil {
		t.Fatal(errors.Wrap(err, "saving"))
	}

	if err := s.Delete("doc.txt"); err != nil {
		t.Fatal(errors.Wrap(err, "deleting"))
	}
	assert.Equal(t, s.Exists("doc.txt"), false, "file should be gone")

	// Deleting a missing path is not an error
	if err := s.Delete("doc.txt"); err != nil {
		t.Fatal(errors.Wrap(err, "deleting missing file"))
	}

	// Directories are refused
	if _, err := s.Save("dir/file.txt", strings.NewReader("x")); err != nil {
		t.Fatal(errors.Wrap(err, "saving"))
	}
	if err := s.Delete("dir"); err == nil {
		t.Fatal("expected an error deleting a directory")
	}
}

func TestDeleteQuiet(t *testing.T) {
	s := NewFileStore(t.TempDir())

	if _, err := s.Save("doc.txt", strings.NewReader("x")); err != nil {
		t.Fatal(errors.Wrap(err, "saving"))
	}

	DeleteQuiet(s, "doc.txt")
	assert.Equal(t, s.Exists("doc.txt"), false, "file should be gone")

	// Neither empty paths nor missing files should panic or log fatally
	DeleteQuiet(s, "")
	DeleteQuiet(s, "missing.txt")
}

func TestCleanupEmptyDirs(t *testing.T) {
	root := t.TempDir()
	s := NewFileStore(root)

	if _, err := s.Save("maintenance/user_1/report.pdf", strings.NewReader("x")); err != nil {
		t.Fatal(errors.Wrap(err, "saving"))
	}
	if _, err := s.Save("configs/user_2/a/deep/diff.txt", strings.NewReader("x")); err != nil {
		t.Fatal(errors.Wrap(err, "saving"))
	}
	if err := s.Delete("configs/user_2/a/deep/diff.txt"); err != nil {
		t.Fatal(errors.Wrap(err, "deleting"))
	}

	s.CleanupEmptyDirs()

	if _, err := os.Stat(filepath.Join(root, "configs")); !os.IsNotExist(err) {
		t.Fatal("empty directory chain should have been removed")
	}
	assert.Equal(t, s.Exists("maintenance/user_1/report.pdf"), true, "occupied directory should be untouched")
}
