// Package planner implements the Planner of spec §4.2 (C7): it diffs
// the graph's needed set against the application's installed set and
// produces an ordered, deterministic list of Actions for the installer
// to carry out.
//
// Grounded on golang-dep's diffLocks (txn_writer.go), which compares a
// desired lock against the on-disk vendor tree to decide what to write
// and what to prune; here the comparison is against the graph's needed
// set rather than a lock file.
package planner

import (
	"sort"

	"github.com/forgekit/pkgcore/appview"
	"github.com/forgekit/pkgcore/graph"
	"github.com/forgekit/pkgcore/version"
)

// Kind distinguishes the four action types of spec §4.2.
type Kind int

const (
	InstallUpdate Kind = iota
	Uninstall
	Conflict
	Failure
)

func (k Kind) String() string {
	switch k {
	case InstallUpdate:
		return "InstallUpdate"
	case Uninstall:
		return "Uninstall"
	case Conflict:
		return "Conflict"
	case Failure:
		return "Failure"
	default:
		return "Unknown"
	}
}

// Action is one planned step, per spec §4.2's tagged-record shape.
type Action struct {
	Kind       Kind
	Name       string
	Constraint version.Constraint
	Issuers    map[string]version.Constraint
}

// Plan implements spec §4.2's three rules in order: Failure-only when
// the resolver stalled, Conflict-only when the fixpoint graph has
// conflicts, else a sorted uninstall-then-install diff between needed
// and installed.
func Plan(g *graph.Graph, state *appview.State, gatherFailed bool) []Action {
	if gatherFailed {
		return failures(g)
	}

	if conflicts := g.Conflicted(); len(conflicts) > 0 {
		return conflictActions(conflicts)
	}

	needed := g.Needed()
	installed := state.Installed

	var actions []Action

	uninstallNames := make([]string, 0)
	for name, existing := range installed {
		if name == state.Main.Name {
			continue
		}
		if _, ok := needed[name]; !ok {
			uninstallNames = append(uninstallNames, name)
			continue
		}
		// An installed version the constraint no longer admits is removed
		// before its replacement is installed.
		if c, _ := g.Combined(name); !c.Matches(existing.Version) {
			uninstallNames = append(uninstallNames, name)
		}
	}
	sort.Strings(uninstallNames)
	for _, name := range uninstallNames {
		actions = append(actions, Action{Kind: Uninstall, Name: name})
	}

	installNames := make([]string, 0)
	for name := range needed {
		if name == state.Main.Name {
			continue
		}
		existing, ok := installed[name]
		c, _ := g.Combined(name)
		if !ok || !c.Matches(existing.Version) {
			installNames = append(installNames, name)
		}
	}
	sort.Strings(installNames)
	for _, name := range installNames {
		c, issuers := g.Combined(name)
		actions = append(actions, Action{
			Kind:       InstallUpdate,
			Name:       name,
			Constraint: c,
			Issuers:    issuersMap(g, name, issuers),
		})
	}

	return actions
}

func failures(g *graph.Graph) []Action {
	names := make([]string, 0)
	for name := range g.Missing() {
		names = append(names, name)
	}
	sort.Strings(names)

	actions := make([]Action, 0, len(names))
	for _, name := range names {
		c, issuers := g.Combined(name)
		actions = append(actions, Action{
			Kind:       Failure,
			Name:       name,
			Constraint: c,
			Issuers:    issuersMap(g, name, issuers),
		})
	}
	return actions
}

func conflictActions(conflicts map[string]graph.ConflictInfo) []Action {
	names := make([]string, 0, len(conflicts))
	for name := range conflicts {
		names = append(names, name)
	}
	sort.Strings(names)

	actions := make([]Action, 0, len(names))
	for _, name := range names {
		actions = append(actions, Action{
			Kind:    Conflict,
			Name:    name,
			Issuers: conflicts[name].Issuers,
		})
	}
	return actions
}

func issuersMap(g *graph.Graph, name string, issuers []string) map[string]version.Constraint {
	node := g.Node(name)
	if node == nil {
		return nil
	}
	out := make(map[string]version.Constraint, len(issuers))
	for _, issuer := range issuers {
		out[issuer] = node.Incoming[issuer]
	}
	return out
}
