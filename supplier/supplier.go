// Package supplier defines the Package Supplier interface consumed by
// the resolver and installer (spec §6), plus several concrete
// implementations covering the variants the spec names: registry-
// backed (HTTP), VCS-backed, filesystem-backed, and a test double.
package supplier

import (
	"github.com/forgekit/pkgcore/descriptor"
	"github.com/forgekit/pkgcore/version"
)

// Supplier is the external package-supplier collaborator of spec §6.
// Implementations may fail with a *pkgerrors.SupplierError carrying
// NotFound, NetworkError, or ArchiveInvalid.
type Supplier interface {
	// Manifest returns the best descriptor satisfying constraint for
	// name.
	Manifest(name string, constraint version.Constraint) (*descriptor.Package, error)
	// Store writes the archive bytes for the version selected to
	// satisfy constraint to destPath, atomically.
	Store(destPath, name string, constraint version.Constraint) error
}
