// Package descriptor is the in-memory form of a manifest: name, version,
// and declared dependencies (spec §3's Package descriptor, C2).
package descriptor

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"

	"github.com/forgekit/pkgcore/version"
)

// Package is a package descriptor.
type Package struct {
	Name         string
	Version      version.Version
	Dependencies map[string]version.Constraint
	// Overrides is only meaningful on the root application descriptor;
	// see SPEC_FULL.md §5.1. Non-root descriptors that set it are
	// ignored by the graph.
	Overrides map[string]version.Constraint
	// SourceRoot is the filesystem path this descriptor was loaded
	// from, or "" if it did not come from disk (e.g. a supplier
	// response prior to install).
	SourceRoot string
}

// Valid reports whether every declared dependency has a non-empty
// constraint, per spec §3's "A Dependency is valid iff its constraint
// is non-empty."
func (p *Package) Valid() bool {
	for _, c := range p.Dependencies {
		if c.Empty() {
			return false
		}
	}
	return true
}

type rawPackage struct {
	Name         string            `json:"name"`
	Version      string            `json:"version"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
	Overrides    map[string]string `json:"overrides,omitempty"`
}

// Parse reads a package.json document (§6). Unknown keys are ignored,
// per the manifest format's contract.
func Parse(r io.Reader) (*Package, error) {
	var raw rawPackage
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, errors.Wrap(err, "decoding package.json")
	}

	if raw.Name == "" {
		return nil, errors.New("package.json: \"name\" is required")
	}
	if raw.Version == "" {
		return nil, errors.New("package.json: \"version\" is required")
	}

	v, err := version.New(raw.Version)
	if err != nil {
		return nil, errors.Wrapf(err, "package.json: invalid version for %s", raw.Name)
	}

	pkg := &Package{
		Name:    raw.Name,
		Version: v,
	}

	if len(raw.Dependencies) > 0 {
		pkg.Dependencies = make(map[string]version.Constraint, len(raw.Dependencies))
		for name, cs := range raw.Dependencies {
			c, err := version.Parse(cs)
			if err != nil {
				return nil, errors.Wrapf(err, "package.json: dependency %q", name)
			}
			pkg.Dependencies[name] = c
		}
	}

	if len(raw.Overrides) > 0 {
		pkg.Overrides = make(map[string]version.Constraint, len(raw.Overrides))
		for name, cs := range raw.Overrides {
			c, err := version.Parse(cs)
			if err != nil {
				return nil, errors.Wrapf(err, "package.json: override %q", name)
			}
			pkg.Overrides[name] = c
		}
	}

	return pkg, nil
}

// Marshal serializes p back into the package.json form. Marshal(Parse(r))
// round-trips on the recognized subset, per spec §8.
func (p *Package) Marshal() ([]byte, error) {
	raw := rawPackage{
		Name:    p.Name,
		Version: p.Version.String(),
	}
	if len(p.Dependencies) > 0 {
		raw.Dependencies = make(map[string]string, len(p.Dependencies))
		for name, c := range p.Dependencies {
			raw.Dependencies[name] = c.String()
		}
	}
	if len(p.Overrides) > 0 {
		raw.Overrides = make(map[string]string, len(p.Overrides))
		for name, c := range p.Overrides {
			raw.Overrides[name] = c.String()
		}
	}
	return json.MarshalIndent(&raw, "", "  ")
}
