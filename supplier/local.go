package supplier

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"

	"github.com/karrick/godirwalk"

	"github.com/forgekit/pkgcore/descriptor"
	"github.com/forgekit/pkgcore/pkgerrors"
	"github.com/forgekit/pkgcore/version"
)

// Local is a filesystem-backed Supplier reading from a catalog laid
// out as <root>/<name>/<version>/package.json with the archive beside it
// at <root>/<name>/<version>/archive.tar.gz. Grounded on golang-dep's project.go, which
// resolves dependencies against a local GOPATH tree rather than a
// network registry; here the tree is a purpose-built catalog directory
// instead of GOPATH.
type Local struct {
	Root string
}

// NewLocal returns a Local supplier rooted at root.
func NewLocal(root string) *Local { return &Local{Root: root} }

func (s *Local) versions(name string) ([]string, error) {
	dir := filepath.Join(s.Root, name)
	entries, err := godirwalk.ReadDirents(dir, nil)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			out = append(out, e.Name())
		}
	}
	return out, nil
}

func (s *Local) best(name string, constraint version.Constraint) (version.Version, string, error) {
	versions, err := s.versions(name)
	if err != nil {
		return version.Version{}, "", &pkgerrors.SupplierError{Kind: pkgerrors.NetworkError, Package: name, Err: err}
	}

	var candidates []version.Version
	for _, raw := range versions {
		v, err := version.New(raw)
		if err != nil {
			continue
		}
		if constraint.Matches(v) {
			candidates = append(candidates, v)
		}
	}
	if len(candidates) == 0 {
		return version.Version{}, "", &pkgerrors.SupplierError{Kind: pkgerrors.NotFound, Package: name, Err: errNotFound(name)}
	}

	sort.Slice(candidates, func(i, k int) bool { return candidates[i].LessThan(candidates[k]) })
	best := candidates[len(candidates)-1]
	return best, filepath.Join(s.Root, name, best.String()), nil
}

func (s *Local) Manifest(name string, constraint version.Constraint) (*descriptor.Package, error) {
	_, dir, err := s.best(name, constraint)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(dir, "package.json"))
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

func (s *Local) Store(destPath, name string, constraint version.Constraint) error {
	_, dir, err := s.best(name, constraint)
	if err != nil {
		return err
	}
	data, err := ioutil.ReadFile(filepath.Join(dir, "archive.tar.gz"))
	if err != nil {
		return &pkgerrors.SupplierError{Kind: pkgerrors.NotFound, Package: name, Err: err}
	}
	return writeFile(destPath, data)
}
