// Package installer implements the Installer and Uninstaller of spec
// §4.3/§4.4 (C8): download, verify, unpack, and journal a single
// package; or load a journal and erase what it recorded.
package installer

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/forgekit/pkgcore/archive"
	fsutil "github.com/forgekit/pkgcore/internal/fs"
	"github.com/forgekit/pkgcore/internal/pkglog"
	"github.com/forgekit/pkgcore/journal"
	"github.com/forgekit/pkgcore/pkgerrors"
	"github.com/forgekit/pkgcore/supplier"
	"github.com/forgekit/pkgcore/version"
)

// Result reports what an install actually wrote (SPEC_FULL §5.2);
// purely observational, never behavior-affecting.
type Result struct {
	Journal      *journal.Journal
	FilesWritten int
	DirsCreated  int
	BytesWritten int64
}

// OpenArchive abstracts over how a downloaded file becomes an
// archive.Driver, so tests can swap in an in-memory archive without
// touching disk.
type OpenArchive func(path string) (archive.Driver, error)

// DefaultOpenArchive decodes a downloaded file as a .tar.gz archive.
func DefaultOpenArchive(path string) (archive.Driver, error) {
	return archive.Open(path)
}

// Install executes spec §4.3's steps for one package: download,
// parse, find the archive's package prefix, materialize every member,
// and seal the journal. Destination root must not already contain
// <root>/modules/<name>, and the download temp path must not pre-exist.
func Install(root, name string, constraint version.Constraint, sup supplier.Supplier, open OpenArchive, log *pkglog.Logger) (*Result, error) {
	if log == nil {
		log = pkglog.New(nil)
	}
	if open == nil {
		open = DefaultOpenArchive
	}

	destDir := filepath.Join(root, "modules", name)
	if fsutil.Exists(destDir) {
		return nil, &pkgerrors.AlreadyInstalled{Package: name, Path: destDir}
	}

	tempPath := filepath.Join(root, "temp", "downloads", name+".archive")
	if fsutil.Exists(tempPath) {
		return nil, &pkgerrors.TempOccupied{Path: tempPath}
	}
	if err := fsutil.EnsureDir(filepath.Dir(tempPath)); err != nil {
		return nil, err
	}
	defer os.Remove(tempPath)

	if err := sup.Store(tempPath, name, constraint); err != nil {
		log.Warnf("storing archive for %s: %v", name, err)
		return nil, &pkgerrors.SupplierError{Kind: pkgerrors.NetworkError, Package: name, Err: err}
	}

	drv, err := open(tempPath)
	if err != nil {
		return nil, &pkgerrors.ArchiveInvalidError{Path: tempPath, Err: err}
	}

	members, err := drv.Members()
	if err != nil {
		return nil, &pkgerrors.ArchiveInvalidError{Path: tempPath, Err: err}
	}

	prefix := findPrefix(members)

	if err := fsutil.EnsureDir(destDir); err != nil {
		return nil, err
	}

	j := journal.New()
	res := &Result{Journal: j}

	for _, m := range members {
		rel, ok := stripPrefix(m.Path, prefix)
		if !ok || rel == "" {
			continue
		}

		switch m.Kind {
		case archive.Dir:
			before := len(j.Dirs())
			if err := materializeDirs(destDir, rel, j); err != nil {
				return res, installInterrupted(name, j, err)
			}
			res.DirsCreated += len(j.Dirs()) - before
		case archive.File:
			if err := materializeParentDirs(destDir, rel, j, res); err != nil {
				return res, installInterrupted(name, j, err)
			}
			data, err := drv.Expand(m)
			if err != nil {
				return res, installInterrupted(name, j, &pkgerrors.ArchiveInvalidError{Path: tempPath, Err: err})
			}
			fullPath := filepath.Join(destDir, filepath.FromSlash(rel))
			if err := os.WriteFile(fullPath, data, 0o644); err != nil {
				return res, installInterrupted(name, j, errors.Wrapf(err, "writing %s", fullPath))
			}
			j.Append(journal.RegularFile, rel)
			res.FilesWritten++
			res.BytesWritten += int64(len(data))
		}
	}

	j.Seal()
	raw, err := marshalJournal(j)
	if err != nil {
		return res, installInterrupted(name, j, err)
	}
	if err := fsutil.WriteFileAtomic(filepath.Join(destDir, journal.Name), raw); err != nil {
		return res, installInterrupted(name, j, err)
	}
	res.FilesWritten++ // journal.json itself
	log.Logf("installed %s: %d file(s), %d dir(s), %d byte(s)\n", name, res.FilesWritten, res.DirsCreated, res.BytesWritten)

	return res, nil
}

// installInterrupted wraps a mid-install failure as
// *pkgerrors.InstallInterrupted carrying the partial journal, per spec
// §4.3: a failure during materialization leaves the journal as the
// authoritative record of what was actually written so far.
func installInterrupted(name string, j *journal.Journal, cause error) error {
	paths := make([]string, len(j.Entries))
	for i, e := range j.Entries {
		paths[i] = string(e.Kind) + ":" + e.Path
	}
	return errors.Wrap(&pkgerrors.InstallInterrupted{Package: name, Journal: paths}, cause.Error())
}

// materializeDirs ensures every segment of rel, rel itself included,
// exists, appending an idempotent Directory journal entry for each
// (spec §4.3 step 4).
func materializeDirs(destDir, rel string, j *journal.Journal) error {
	segments := strings.Split(rel, "/")
	var cur string
	for _, seg := range segments {
		if seg == "" {
			continue
		}
		if cur == "" {
			cur = seg
		} else {
			cur = cur + "/" + seg
		}
		if err := fsutil.EnsureDir(filepath.Join(destDir, filepath.FromSlash(cur))); err != nil {
			return err
		}
		if !j.HasDir(cur) {
			j.Append(journal.Directory, cur)
		}
	}
	return nil
}

// materializeParentDirs does the same as materializeDirs but for the
// parent directories of a file member (excludes rel itself).
func materializeParentDirs(destDir, rel string, j *journal.Journal, res *Result) error {
	dir := path_Dir(rel)
	if dir == "." || dir == "" {
		return nil
	}
	before := len(j.Dirs())
	if err := materializeDirs(destDir, dir, j); err != nil {
		return err
	}
	res.DirsCreated += len(j.Dirs()) - before
	return nil
}

func path_Dir(p string) string {
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		return p[:i]
	}
	return "."
}

// findPrefix locates the archive's package prefix (spec §4.3 step 3):
// the parent of the unique member whose basename is package.json, or
// failing that, the deepest common ancestor of all path-bearing
// members.
func findPrefix(members []archive.Member) string {
	var candidate string
	matches := 0
	for _, m := range members {
		if m.Kind == archive.File && filepath.Base(m.Path) == "package.json" {
			matches++
			candidate = path_Dir(m.Path)
		}
	}
	if matches == 1 {
		if candidate == "." {
			return ""
		}
		return candidate
	}

	return deepestCommonAncestor(members)
}

func deepestCommonAncestor(members []archive.Member) string {
	var common []string
	first := true
	for _, m := range members {
		segs := strings.Split(strings.Trim(m.Path, "/"), "/")
		if len(segs) > 0 {
			segs = segs[:len(segs)-1] // drop the leaf
		}
		if first {
			common = segs
			first = false
			continue
		}
		common = commonPrefixOf(common, segs)
	}
	if len(common) == 0 {
		return ""
	}
	return strings.Join(common, "/")
}

func commonPrefixOf(a, b []string) []string {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:n]
}

// stripPrefix removes prefix from p, returning false if p does not
// begin with prefix (spec §4.3 step 4's "skip" policy).
func stripPrefix(p, prefix string) (string, bool) {
	if prefix == "" {
		return strings.Trim(p, "/"), true
	}
	p = strings.Trim(p, "/")
	prefix = strings.Trim(prefix, "/")
	if p == prefix {
		return "", true
	}
	if strings.HasPrefix(p, prefix+"/") {
		return strings.TrimPrefix(p, prefix+"/"), true
	}
	return "", false
}

func marshalJournal(j *journal.Journal) ([]byte, error) {
	var buf strings.Builder
	if err := j.Save(&buf); err != nil {
		return nil, err
	}
	return []byte(buf.String()), nil
}
