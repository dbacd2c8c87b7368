package supplier

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/Masterminds/vcs"
	"github.com/pkg/errors"

	"github.com/forgekit/pkgcore/descriptor"
	"github.com/forgekit/pkgcore/pkgerrors"
	"github.com/forgekit/pkgcore/version"
)

// VCS is a version-control-backed Supplier: it clones or updates a
// working copy under a local cache directory, checks out the tag
// matching the resolved version, and reads package.json straight out
// of the working tree. Grounded on golang-dep's gps/cmd.go and the
// vendored Masterminds/vcs package it wraps for exactly this
// clone/update/checkout sequence.
type VCS struct {
	// Remote maps a package name to its repository URL.
	Remote map[string]string
	// CacheDir holds one working copy per package name.
	CacheDir string
}

// NewVCS returns a VCS supplier using remote as its name->URL map and
// cacheDir as the local working-copy root.
func NewVCS(remote map[string]string, cacheDir string) *VCS {
	return &VCS{Remote: remote, CacheDir: cacheDir}
}

func (s *VCS) repo(name string) (vcs.Repo, error) {
	url, ok := s.Remote[name]
	if !ok {
		return nil, &pkgerrors.SupplierError{Kind: pkgerrors.NotFound, Package: name, Err: errors.Errorf("no remote configured for %s", name)}
	}
	local := filepath.Join(s.CacheDir, name)
	return vcs.NewRepo(url, local)
}

func (s *VCS) checkout(name string, constraint version.Constraint) (vcs.Repo, error) {
	r, err := s.repo(name)
	if err != nil {
		return nil, err
	}

	if r.CheckLocal() {
		if err := r.Update(); err != nil {
			return nil, &pkgerrors.SupplierError{Kind: pkgerrors.NetworkError, Package: name, Err: err}
		}
	} else {
		if err := r.Get(); err != nil {
			return nil, &pkgerrors.SupplierError{Kind: pkgerrors.NetworkError, Package: name, Err: err}
		}
	}

	tags, err := r.Tags()
	if err != nil {
		return nil, &pkgerrors.SupplierError{Kind: pkgerrors.NetworkError, Package: name, Err: err}
	}

	best, ref, err := bestTag(tags, constraint)
	if err != nil {
		return nil, &pkgerrors.SupplierError{Kind: pkgerrors.NotFound, Package: name, Err: err}
	}
	_ = best

	if err := r.UpdateVersion(ref); err != nil {
		return nil, &pkgerrors.SupplierError{Kind: pkgerrors.NetworkError, Package: name, Err: err}
	}
	return r, nil
}

func bestTag(tags []string, constraint version.Constraint) (version.Version, string, error) {
	var bestV version.Version
	var bestRef string
	found := false
	for _, tag := range tags {
		v, err := version.New(tag)
		if err != nil {
			continue
		}
		if !constraint.Matches(v) {
			continue
		}
		if !found || bestV.LessThan(v) {
			bestV, bestRef, found = v, tag, true
		}
	}
	if !found {
		return version.Version{}, "", errors.New("no tag satisfies constraint")
	}
	return bestV, bestRef, nil
}

func (s *VCS) Manifest(name string, constraint version.Constraint) (*descriptor.Package, error) {
	r, err := s.checkout(name, constraint)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(r.LocalPath(), "package.json"))
	if err != nil {
		return nil, &pkgerrors.SupplierError{Kind: pkgerrors.NotFound, Package: name, Err: err}
	}
	defer f.Close()
	desc, err := descriptor.Parse(f)
	if err != nil {
		return nil, &pkgerrors.SupplierError{Kind: pkgerrors.ArchiveInvalid, Package: name, Err: err}
	}
	return desc, nil
}

// Store exports the checked-out working tree to a temporary directory,
// packs that export as a .tar.gz, and writes the archive to destPath, so
// the installer reads it through the same archive.Driver as any other
// supplier's archive.
func (s *VCS) Store(destPath, name string, constraint version.Constraint) error {
	r, err := s.checkout(name, constraint)
	if err != nil {
		return err
	}

	exportDir, err := ioutil.TempDir("", "pkgcore-vcs-export-")
	if err != nil {
		return errors.Wrap(err, "creating export dir")
	}
	defer os.RemoveAll(exportDir)

	if err := r.ExportDir(exportDir); err != nil {
		return &pkgerrors.SupplierError{Kind: pkgerrors.NetworkError, Package: name, Err: err}
	}

	data, err := tarGzDir(exportDir)
	if err != nil {
		return &pkgerrors.SupplierError{Kind: pkgerrors.ArchiveInvalid, Package: name, Err: err}
	}
	return writeFile(destPath, data)
}
