// Package resolver implements the fixpoint loop of spec §4.1 (C6): it
// interleaves constraint propagation with network-fetched manifest
// retrieval, growing the dependency graph until no further progress is
// possible, then reports whether the missing set ever emptied.
//
// Grounded on golang-dep/solver.go's iterative selection loop, but
// without backtracking: per spec §9's design note, this resolver is
// intentionally first-fit and trusts the supplier to return a single
// best manifest per (name, constraint) query.
package resolver

import (
	"github.com/forgekit/pkgcore/descriptor"
	"github.com/forgekit/pkgcore/graph"
	"github.com/forgekit/pkgcore/internal/pkglog"
	"github.com/forgekit/pkgcore/pkgerrors"
	"github.com/forgekit/pkgcore/supplier"
)

// Result is the outcome of a Resolve call.
type Result struct {
	Graph *graph.Graph
	// GatherFailed is true iff the loop reached a fixpoint with a
	// non-empty missing set it could make no further progress on.
	GatherFailed bool
	Iterations   int
}

// snapshot captures one iteration's missing set well enough to detect
// lack of progress: same names, same constraints.
type snapshot map[string]string // name -> constraint.String()

func takeSnapshot(missing map[string]graph.MissingInfo) snapshot {
	s := make(snapshot, len(missing))
	for name, info := range missing {
		s[name] = info.Constraint.String()
	}
	return s
}

func (s snapshot) equal(other snapshot) bool {
	if len(s) != len(other) {
		return false
	}
	for name, c := range s {
		if oc, ok := other[name]; !ok || oc != c {
			return false
		}
	}
	return true
}

// Resolve seeds a graph with main and iteratively queries sup for every
// missing name until the graph reaches a fixpoint (spec §4.1's
// pseudocode), logging advisory failures on log rather than aborting.
func Resolve(main *descriptor.Package, sup supplier.Supplier, log *pkglog.Logger) Result {
	if log == nil {
		log = pkglog.New(nil)
	}

	g := graph.New(main.Name)
	g.Insert(main)

	var prev snapshot
	res := Result{Graph: g}

	for {
		res.Iterations++
		missing := g.Missing()
		if len(missing) == 0 {
			break
		}

		cur := takeSnapshot(missing)
		if prev != nil && cur.equal(prev) {
			res.GatherFailed = true
			break
		}
		prev = cur

		for name, info := range missing {
			desc, err := sup.Manifest(name, info.Constraint)
			if err != nil {
				log.Warnf("fetching manifest for %s: %v", name, wrapSupplierErr(name, err))
				continue
			}
			g.Insert(desc)
		}

		g.ClearUnused()
	}

	// Names whose combined constraint is empty are never in Missing, so
	// they were never fetched; say so rather than skipping them silently.
	for name := range g.Conflicted() {
		log.Warnf("not fetching %s: its combined constraint is empty", name)
	}

	return res
}

func wrapSupplierErr(name string, err error) error {
	if _, ok := err.(*pkgerrors.SupplierError); ok {
		return err
	}
	return &pkgerrors.SupplierError{Kind: pkgerrors.NetworkError, Package: name, Err: err}
}
