// Package graph maintains the evolving dependency resolution state of
// spec §3/§4.1 (C5): nodes keyed by package name, edges recorded as
// (issuer, Constraint) pairs on the edge's target node, and the four
// derived views (missing, conflicted, needed, unused) computed fresh
// from the node set on every call — never cached — so the resolver's
// progress check (comparing two consecutive snapshots) is trustworthy.
//
// Nodes are represented by name rather than by pointer to make the
// graph's natural cyclicity harmless: removing a node is a single map
// delete, never an ownership-graph traversal (spec §9's "Cyclic graph"
// design note).
package graph

import (
	"sort"

	"github.com/forgekit/pkgcore/descriptor"
	"github.com/forgekit/pkgcore/version"
)

// Node is one package name's resolution state: the descriptor attached
// to it (nil if unresolved) and every constraint an issuer has placed
// on it.
type Node struct {
	Name       string
	Descriptor *descriptor.Package
	// Incoming maps issuer package name to the constraint that issuer
	// declared on Name.
	Incoming map[string]version.Constraint
}

// Graph is the resolver-owned dependency graph.
type Graph struct {
	RootName string
	nodes    map[string]*Node
	// overrides holds the root application's override map (SPEC_FULL
	// §5.1); populated when the root descriptor is inserted.
	overrides map[string]version.Constraint
}

// New returns an empty graph rooted at rootName.
func New(rootName string) *Graph {
	return &Graph{
		RootName: rootName,
		nodes:    map[string]*Node{},
	}
}

func (g *Graph) nodeFor(name string) *Node {
	n, ok := g.nodes[name]
	if !ok {
		n = &Node{Name: name, Incoming: map[string]version.Constraint{}}
		g.nodes[name] = n
	}
	return n
}

// Node returns the node for name, or nil if the graph has never seen it.
func (g *Graph) Node(name string) *Node { return g.nodes[name] }

// Insert attaches desc to its node, creating the node if absent, and
// adds/updates one outgoing edge per declared dependency. Re-inserting
// the same (name, version) is a no-op; a different version replaces the
// descriptor and re-intersects outgoing edges (spec §4.1).
func (g *Graph) Insert(desc *descriptor.Package) {
	node := g.nodeFor(desc.Name)

	if node.Descriptor != nil && node.Descriptor.Version.Equal(desc.Version) {
		return
	}

	if node.Descriptor != nil {
		// Replacing: this issuer's previously declared edges may no
		// longer apply to the new version's dependency set, so drop
		// them before re-adding from desc.Dependencies below.
		g.removeEdgesFrom(desc.Name)
	}
	node.Descriptor = desc

	for depName, c := range desc.Dependencies {
		target := g.nodeFor(depName)
		target.Incoming[desc.Name] = c
	}

	if desc.Name == g.RootName {
		g.overrides = desc.Overrides
	}
}

func (g *Graph) removeEdgesFrom(issuer string) {
	for _, n := range g.nodes {
		delete(n.Incoming, issuer)
	}
}

// reachable returns the set of names reachable from RootName by
// following outgoing edges, i.e. the set built by transitively
// expanding each reached node's declared dependencies.
func (g *Graph) reachable() map[string]bool {
	visited := map[string]bool{g.RootName: true}
	queue := []string{g.RootName}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for name, node := range g.nodes {
			if visited[name] {
				continue
			}
			if _, ok := node.Incoming[cur]; ok {
				visited[name] = true
				queue = append(queue, name)
			}
		}
	}
	return visited
}

// Combined returns the intersection of every incoming edge on name,
// together with the sorted list of issuer names that contributed, with
// a root-declared override (SPEC_FULL §5.1) applied last. A name with
// no incoming edges (the root itself) combines to the universal
// constraint.
func (g *Graph) Combined(name string) (version.Constraint, []string) {
	node := g.nodes[name]
	if node == nil || len(node.Incoming) == 0 {
		if c, ok := g.overrides[name]; ok {
			return c, nil
		}
		return version.Any(), nil
	}

	issuers := make([]string, 0, len(node.Incoming))
	for issuer := range node.Incoming {
		issuers = append(issuers, issuer)
	}
	sort.Strings(issuers)

	c := node.Incoming[issuers[0]]
	for _, issuer := range issuers[1:] {
		c = c.Intersect(node.Incoming[issuer])
	}

	if ov, ok := g.overrides[name]; ok {
		c = ov
	}
	return c, issuers
}

// MissingInfo describes one unresolved name: the constraint issuers
// have intersected onto it and the issuers that contributed.
type MissingInfo struct {
	Constraint version.Constraint
	Issuers    []string
}

// Missing returns every reachable name with no descriptor attached and
// a satisfiable (non-empty) combined constraint, mapped to that
// constraint and its issuers (spec §3).
func (g *Graph) Missing() map[string]MissingInfo {
	out := map[string]MissingInfo{}
	for name := range g.reachable() {
		node := g.nodes[name]
		if node != nil && node.Descriptor != nil {
			continue
		}
		c, issuers := g.Combined(name)
		if c.Empty() {
			continue // classified as Conflicted instead
		}
		out[name] = MissingInfo{Constraint: c, Issuers: issuers}
	}
	return out
}

// ConflictInfo describes one conflicted name: the issuers whose
// constraints intersect to empty, keyed by issuer name.
type ConflictInfo struct {
	Issuers map[string]version.Constraint
}

// Conflicted returns every reachable name whose incoming edges
// intersect to an empty constraint (spec §3). A dependency inserted
// with an individually-invalid constraint surfaces here too, per spec
// §4.1's "remains in the graph as a marker" edge-case policy.
func (g *Graph) Conflicted() map[string]ConflictInfo {
	out := map[string]ConflictInfo{}
	for name := range g.reachable() {
		c, _ := g.Combined(name)
		if !c.Empty() {
			continue
		}
		node := g.nodes[name]
		info := ConflictInfo{Issuers: map[string]version.Constraint{}}
		if node != nil {
			for issuer, ec := range node.Incoming {
				info.Issuers[issuer] = ec
			}
		}
		out[name] = info
	}
	return out
}

// Needed returns every reachable name whose descriptor is present and
// whose combined constraint is satisfied by that descriptor's version
// (spec §3).
func (g *Graph) Needed() map[string]*descriptor.Package {
	out := map[string]*descriptor.Package{}
	for name := range g.reachable() {
		node := g.nodes[name]
		if node == nil || node.Descriptor == nil {
			continue
		}
		c, _ := g.Combined(name)
		if c.Matches(node.Descriptor.Version) {
			out[name] = node.Descriptor
		}
	}
	return out
}

// Unused returns the names of nodes not reachable from the root.
func (g *Graph) Unused() []string {
	reach := g.reachable()
	var out []string
	for name := range g.nodes {
		if !reach[name] {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// ClearUnused removes nodes not reachable from the root, and strips any
// edge whose issuer was one of the removed nodes. Idempotent (spec
// §4.1): a second call with nothing newly unreachable is a no-op.
func (g *Graph) ClearUnused() {
	reach := g.reachable()
	for name := range g.nodes {
		if !reach[name] {
			delete(g.nodes, name)
		}
	}
	for _, node := range g.nodes {
		for issuer := range node.Incoming {
			if !reach[issuer] {
				delete(node.Incoming, issuer)
			}
		}
	}
}
