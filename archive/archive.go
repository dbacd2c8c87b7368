// Package archive defines the Archive Driver interface consumed by the
// installer (spec §6): a directory of members plus a member-bytes
// extractor, path separators normalized to forward slashes. This
// package also ships the one concrete driver the module needs,
// TarGz, since real archive decoding is otherwise out of the core's
// scope per spec §1.
package archive

import (
	"path"
	"path/filepath"
)

// MemberKind distinguishes a file from a directory entry within an
// archive.
type MemberKind int

const (
	File MemberKind = iota
	Dir
)

// Member is one entry of an archive, with its path already normalized
// to forward slashes (spec §6).
type Member struct {
	Path string
	Kind MemberKind
}

// Driver exposes an archive's structure and contents. Path separators
// in member names are normalized to forward slashes.
type Driver interface {
	Members() ([]Member, error)
	Expand(m Member) ([]byte, error)
}

func normalizePath(p string) string {
	return path.Clean(filepath.ToSlash(p))
}
