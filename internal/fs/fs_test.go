// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIsDir(t *testing.T) {
	root := t.TempDir()
	if ok, err := IsDir(root); err != nil || !ok {
		t.Errorf("IsDir(%s) = %v, %v; want true, nil", root, ok, err)
	}

	file := filepath.Join(root, "f.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if ok, err := IsDir(file); err != nil || ok {
		t.Errorf("IsDir(%s) = %v, %v; want false, nil", file, ok, err)
	}

	if ok, err := IsDir(filepath.Join(root, "missing")); err != nil || ok {
		t.Errorf("IsDir(missing) = %v, %v; want false, nil", ok, err)
	}
}

func TestExists(t *testing.T) {
	root := t.TempDir()
	if Exists(filepath.Join(root, "nope")) {
		t.Error("Exists should be false for a missing path")
	}

	file := filepath.Join(root, "f.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if !Exists(file) {
		t.Error("Exists should be true for a present file")
	}
}

func TestIsEmptyDir(t *testing.T) {
	root := t.TempDir()

	empty := filepath.Join(root, "empty")
	if err := os.Mkdir(empty, 0o755); err != nil {
		t.Fatal(err)
	}
	if ok, err := IsEmptyDir(empty); err != nil || !ok {
		t.Errorf("IsEmptyDir(empty) = %v, %v; want true, nil", ok, err)
	}

	nonEmpty := filepath.Join(root, "nonempty")
	if err := os.Mkdir(nonEmpty, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(nonEmpty, "f.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if ok, err := IsEmptyDir(nonEmpty); err != nil || ok {
		t.Errorf("IsEmptyDir(nonempty) = %v, %v; want false, nil", ok, err)
	}
}

func TestRenameWithFallback(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src.txt")
	dst := filepath.Join(root, "dst.txt")
	if err := os.WriteFile(src, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := RenameWithFallback(src, dst); err != nil {
		t.Fatalf("RenameWithFallback: %v", err)
	}
	if Exists(src) {
		t.Error("src should no longer exist after rename")
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hello" {
		t.Errorf("dst content = %q, want hello", data)
	}
}

func TestRenameWithFallbackMissingSrc(t *testing.T) {
	root := t.TempDir()
	err := RenameWithFallback(filepath.Join(root, "missing"), filepath.Join(root, "dst.txt"))
	if err == nil {
		t.Fatal("expected an error when src does not exist")
	}
}

func TestWriteFileAtomic(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "out.json")

	if err := WriteFileAtomic(path, []byte(`{"a":1}`)); err != nil {
		t.Fatalf("WriteFileAtomic: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"a":1}` {
		t.Errorf("content = %q, want {\"a\":1}", data)
	}

	if Exists(path + ".tmp") {
		t.Error("temp file should not survive a successful write")
	}

	if err := WriteFileAtomic(path, []byte(`{"a":2}`)); err != nil {
		t.Fatalf("WriteFileAtomic overwrite: %v", err)
	}
	data, err = os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"a":2}` {
		t.Errorf("content after overwrite = %q, want {\"a\":2}", data)
	}
}

func TestEnsureDir(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b", "c")

	if err := EnsureDir(nested); err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}
	if ok, _ := IsDir(nested); !ok {
		t.Error("nested directory should exist after EnsureDir")
	}

	if err := EnsureDir(nested); err != nil {
		t.Errorf("EnsureDir should be idempotent, got %v", err)
	}
}
