package supplier

import (
	"sort"

	"github.com/forgekit/pkgcore/descriptor"
	"github.com/forgekit/pkgcore/pkgerrors"
	"github.com/forgekit/pkgcore/version"
)

// Entry is one version of one package a Memory supplier knows about.
type Entry struct {
	Descriptor *descriptor.Package
	Archive    []byte
}

// Memory is an in-memory Supplier test double: a fixed catalog of
// package versions, queried by picking the highest version satisfying
// a constraint. Grounded on golang-dep's memory-backed SourceManager
// test fixtures, which play the same role for vsolver's solver tests.
type Memory struct {
	catalog map[string][]Entry
}

// NewMemory builds a Memory supplier from a name -> versions catalog.
func NewMemory(catalog map[string][]Entry) *Memory {
	return &Memory{catalog: catalog}
}

func (m *Memory) best(name string, constraint version.Constraint) (*Entry, error) {
	entries := m.catalog[name]
	if len(entries) == 0 {
		return nil, &pkgerrors.SupplierError{Kind: pkgerrors.NotFound, Package: name, Err: errNotFound(name)}
	}

	matches := make([]*Entry, 0, len(entries))
	for i := range entries {
		if constraint.Matches(entries[i].Descriptor.Version) {
			matches = append(matches, &entries[i])
		}
	}
	if len(matches) == 0 {
		return nil, &pkgerrors.SupplierError{Kind: pkgerrors.NotFound, Package: name, Err: errNotFound(name)}
	}

	sort.Slice(matches, func(i, k int) bool {
		return matches[i].Descriptor.Version.LessThan(matches[k].Descriptor.Version)
	})
	return matches[len(matches)-1], nil
}

func (m *Memory) Manifest(name string, constraint version.Constraint) (*descriptor.Package, error) {
	e, err := m.best(name, constraint)
	if err != nil {
		return nil, err
	}
	return e.Descriptor, nil
}

func (m *Memory) Store(destPath, name string, constraint version.Constraint) error {
	e, err := m.best(name, constraint)
	if err != nil {
		return err
	}
	return writeFile(destPath, e.Archive)
}

type notFoundErr string

func (e notFoundErr) Error() string { return "no version of " + string(e) + " satisfies constraint" }

func errNotFound(name string) error { return notFoundErr(name) }
