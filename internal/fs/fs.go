// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fs holds the small set of filesystem primitives the
// installer and journal need: existence checks and an atomic
// write-then-rename helper. Adapted from golang-dep's internal/fs
// package, trimmed to what this domain exercises — a single package
// directory per install, never a merged vendor tree, so the
// cross-filesystem case-sensitivity detection and recursive directory
// copy the teacher needed for `dep ensure`'s vendor tree do not apply
// here (see DESIGN.md).
package fs

import (
	"io"
	"os"

	"github.com/pkg/errors"
)

// IsDir determines whether path exists and is a directory.
func IsDir(path string) (bool, error) {
	fi, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Wrapf(err, "stat %s", path)
	}
	return fi.IsDir(), nil
}

// Exists reports whether path exists at all, regardless of type.
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// IsEmptyDir reports whether path is a directory containing no entries.
func IsEmptyDir(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	_, err = f.Readdirnames(1)
	if err == io.EOF {
		return true, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "reading %s", path)
	}
	return false, nil
}

// RenameWithFallback attempts to rename src to dst, falling back to a
// copy-then-remove if the rename fails (e.g. a cross-device link
// error). Mirrors golang-dep's fs.RenameWithFallback, used here at file
// granularity for the journal's atomic seal-and-write (spec §4.3 step
// 5's durability requirement).
func RenameWithFallback(src, dst string) error {
	if _, err := os.Stat(src); err != nil {
		return errors.Wrapf(err, "cannot stat %s", src)
	}

	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	if err := copyFile(src, dst); err != nil {
		return errors.Wrapf(err, "rename fallback failed: cannot rename %s to %s", src, dst)
	}
	return errors.Wrapf(os.Remove(src), "cannot delete %s after copy fallback", src)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrapf(err, "opening %s", src)
	}
	defer in.Close()

	fi, err := in.Stat()
	if err != nil {
		return errors.Wrapf(err, "stat %s", src)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fi.Mode())
	if err != nil {
		return errors.Wrapf(err, "creating %s", dst)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return errors.Wrapf(err, "copying %s to %s", src, dst)
	}
	return out.Sync()
}

// WriteFileAtomic writes data to path by first writing to a sibling
// temp file, fsyncing it, then renaming it into place — the same
// write-to-temp-then-rename discipline golang-dep's SafeWriter uses for
// manifest/lock/vendor, applied here to a single file.
func WriteFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return errors.Wrapf(err, "creating %s", tmp)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return errors.Wrapf(err, "writing %s", tmp)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return errors.Wrapf(err, "syncing %s", tmp)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return errors.Wrapf(err, "closing %s", tmp)
	}
	return RenameWithFallback(tmp, path)
}

// EnsureDir creates path (and any missing parents) if it does not
// already exist.
func EnsureDir(path string) error {
	return errors.Wrapf(os.MkdirAll(path, 0o755), "creating %s", path)
}
