// Package journal implements the per-installed-package ledger of spec
// §3/§6: an append-only, ordered list of filesystem effects, persisted
// as JSON at <pkg>/journal.json. The journal, not the filesystem, is
// authoritative about what an install created (spec §9).
//
// Grounded on golang-dep's txn_writer.go SafeWriter, which applies the
// same "write what you did, trust it over the disk" discipline at the
// manifest/lock/vendor granularity; here it is scoped to one package.
package journal

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

// EntryKind distinguishes a regular file from a directory.
type EntryKind string

const (
	RegularFile EntryKind = "RegularFile"
	Directory   EntryKind = "Directory"
)

// Entry is one filesystem effect, recorded with a path relative to the
// installed package's root.
type Entry struct {
	Kind EntryKind `json:"type"`
	Path string    `json:"path"`
}

// Name is the well-known journal filename, per spec §6's on-disk layout.
const Name = "journal.json"

// Journal is an ordered sequence of entries. Order is preservation-
// significant for uninstall logging but not for correctness (spec §6).
type Journal struct {
	Entries []Entry
}

// New returns an empty journal.
func New() *Journal { return &Journal{} }

// Append adds an entry, preserving insertion order.
func (j *Journal) Append(kind EntryKind, path string) {
	j.Entries = append(j.Entries, Entry{Kind: kind, Path: path})
}

// HasDir reports whether a Directory entry for path was already
// recorded, so installer materialization can append directory entries
// idempotently (spec §4.3 step 4).
func (j *Journal) HasDir(path string) bool {
	for _, e := range j.Entries {
		if e.Kind == Directory && e.Path == path {
			return true
		}
	}
	return false
}

// Sealed reports whether the journal's last entry is the well-formed
// terminator {RegularFile, "journal.json"}, per spec §3's invariant.
func (j *Journal) Sealed() bool {
	if len(j.Entries) == 0 {
		return false
	}
	last := j.Entries[len(j.Entries)-1]
	return last.Kind == RegularFile && last.Path == Name
}

// Seal appends the terminating entry required by spec §3/§4.3 step 5.
func (j *Journal) Seal() {
	j.Append(RegularFile, Name)
}

// Files returns the relative paths of every RegularFile entry, in
// journal order, excluding journal.json itself.
func (j *Journal) Files() []string {
	var out []string
	for _, e := range j.Entries {
		if e.Kind == RegularFile && e.Path != Name {
			out = append(out, e.Path)
		}
	}
	return out
}

// Dirs returns the relative paths of every Directory entry, in journal
// order.
func (j *Journal) Dirs() []string {
	var out []string
	for _, e := range j.Entries {
		if e.Kind == Directory {
			out = append(out, e.Path)
		}
	}
	return out
}

// Save serializes the journal as structured JSON text (spec §6).
func (j *Journal) Save(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(j.Entries); err != nil {
		return errors.Wrap(err, "encoding journal")
	}
	return nil
}

// Load parses a journal previously written by Save. Load ∘ Save is the
// identity, per spec §8's round-trip property.
func Load(r io.Reader) (*Journal, error) {
	var entries []Entry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, errors.Wrap(err, "decoding journal")
	}
	return &Journal{Entries: entries}, nil
}
