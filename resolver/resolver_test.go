package resolver

import (
	"testing"

	"github.com/forgekit/pkgcore/descriptor"
	"github.com/forgekit/pkgcore/pkgerrors"
	"github.com/forgekit/pkgcore/supplier"
	"github.com/forgekit/pkgcore/version"
)

func desc(name, ver string, deps map[string]string) *descriptor.Package {
	p := &descriptor.Package{Name: name, Version: version.MustNew(ver)}
	if len(deps) > 0 {
		p.Dependencies = map[string]version.Constraint{}
		for depName, c := range deps {
			p.Dependencies[depName] = mustParse(c)
		}
	}
	return p
}

func mustParse(s string) version.Constraint {
	c, err := version.Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

type fakeSupplier struct {
	catalog map[string]*descriptor.Package
}

func (s *fakeSupplier) Manifest(name string, constraint version.Constraint) (*descriptor.Package, error) {
	d, ok := s.catalog[name]
	if !ok {
		return nil, &pkgerrors.SupplierError{Kind: pkgerrors.NotFound, Package: name}
	}
	if !constraint.Matches(d.Version) {
		return nil, &pkgerrors.SupplierError{Kind: pkgerrors.NotFound, Package: name}
	}
	return d, nil
}

func (s *fakeSupplier) Store(destPath, name string, constraint version.Constraint) error {
	return nil
}

var _ supplier.Supplier = &fakeSupplier{}

func TestResolveReachesFixpoint(t *testing.T) {
	main := desc("app", "1.0.0", map[string]string{"gadget": ">=1.0.0"})
	sup := &fakeSupplier{catalog: map[string]*descriptor.Package{
		"gadget": desc("gadget", "1.5.0", map[string]string{"widget": ">=1.0.0"}),
		"widget": desc("widget", "1.0.0", nil),
	}}

	res := Resolve(main, sup, nil)
	if res.GatherFailed {
		t.Fatal("resolution should have succeeded")
	}
	if len(res.Graph.Missing()) != 0 {
		t.Errorf("missing set should be empty at fixpoint, got %+v", res.Graph.Missing())
	}
	if len(res.Graph.Needed()) != 3 {
		t.Errorf("expected 3 needed packages (app, gadget, widget), got %+v", res.Graph.Needed())
	}
}

func TestResolveReportsGatherFailedWhenSupplierCannotSatisfy(t *testing.T) {
	main := desc("app", "1.0.0", map[string]string{"gadget": ">=1.0.0"})
	sup := &fakeSupplier{catalog: map[string]*descriptor.Package{}}

	res := Resolve(main, sup, nil)
	if !res.GatherFailed {
		t.Fatal("resolution should have stalled with no supplier data")
	}
	if _, ok := res.Graph.Missing()["gadget"]; !ok {
		t.Error("gadget should remain missing")
	}
}

func TestResolveSkipsInvalidConstraintWithoutLooping(t *testing.T) {
	main := desc("app", "1.0.0", nil)
	main.Dependencies = map[string]version.Constraint{
		"gadget": mustParse(">=2.0.0").Intersect(mustParse("<1.0.0")), // empty
	}
	sup := &fakeSupplier{catalog: map[string]*descriptor.Package{
		"gadget": desc("gadget", "1.0.0", nil),
	}}

	res := Resolve(main, sup, nil)
	// An individually invalid constraint is a conflict, not a missing
	// entry, so it should never appear in Missing and should not force a
	// GatherFailed stall — the resolver converges immediately.
	if _, ok := res.Graph.Missing()["gadget"]; ok {
		t.Error("an empty constraint on gadget should classify as conflicted, not missing")
	}
	if _, ok := res.Graph.Conflicted()["gadget"]; !ok {
		t.Error("gadget should be conflicted")
	}
}
