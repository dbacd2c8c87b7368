package supplier

import (
	"archive/tar"
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"

	fsutil "github.com/forgekit/pkgcore/internal/fs"
)

// writeFile durably writes data to destPath, shared by every supplier's
// Store implementation.
func writeFile(destPath string, data []byte) error {
	return fsutil.WriteFileAtomic(destPath, data)
}

// tarGzDir archives dir into an in-memory .tar.gz, giving the VCS
// supplier a way to hand the installer the same archive-shaped Store
// contract every other supplier uses, even though a working copy on
// disk has no natural archive form of its own.
func tarGzDir(dir string) ([]byte, error) {
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(rel)
		if info.IsDir() {
			hdr.Name += "/"
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(tw, f)
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "archiving export directory")
	}

	if err := tw.Close(); err != nil {
		return nil, err
	}
	if err := gw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
