// Package version implements the Version and Constraint model of spec
// §3 and the constraint grammar of §6. Numeric versions are backed by
// github.com/Masterminds/semver/v3, the same library the teacher
// (golang-dep) vendors for its own version comparisons.
package version

import (
	"encoding/json"
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/pkg/errors"
)

// Version is a totally ordered identifier: either a semantic version
// triple (with optional pre-release tag) or the distinguished symbol
// Head, denoting "latest trunk". Head orders above every numeric
// version.
type Version struct {
	head bool
	sv   *semver.Version
}

// Head is the distinguished "latest trunk" version.
var Head = Version{head: true}

// New parses a version string. The literal "head" (case-insensitive is
// not accepted; the grammar is case-sensitive per spec) yields Head.
// Anything else is parsed as a semantic version.
func New(s string) (Version, error) {
	if s == "head" {
		return Head, nil
	}
	sv, err := semver.NewVersion(s)
	if err != nil {
		return Version{}, errors.Wrapf(err, "invalid version %q", s)
	}
	return Version{sv: sv}, nil
}

// MustNew parses s and panics on error. Intended for tests and constants.
func MustNew(s string) Version {
	v, err := New(s)
	if err != nil {
		panic(err)
	}
	return v
}

// IsHead reports whether v is the distinguished Head version.
func (v Version) IsHead() bool { return v.head }

// Semver returns the underlying semantic version, or nil if v is Head.
func (v Version) Semver() *semver.Version { return v.sv }

func (v Version) String() string {
	if v.head {
		return "head"
	}
	if v.sv == nil {
		return ""
	}
	return v.sv.String()
}

// Compare returns -1, 0, or +1 as v is less than, equal to, or greater
// than other. Head compares greater than any numeric version and equal
// to itself.
func (v Version) Compare(other Version) int {
	if v.head && other.head {
		return 0
	}
	if v.head {
		return 1
	}
	if other.head {
		return -1
	}
	return v.sv.Compare(other.sv)
}

func (v Version) LessThan(other Version) bool    { return v.Compare(other) < 0 }
func (v Version) Equal(other Version) bool       { return v.Compare(other) == 0 }
func (v Version) GreaterThan(other Version) bool { return v.Compare(other) > 0 }

// Zero reports whether v is the zero value (neither Head nor a parsed
// semver). Used to distinguish "no version" from a real version.
func (v Version) Zero() bool { return !v.head && v.sv == nil }

// MarshalJSON renders the version the way it would appear in a
// package.json version field.
func (v Version) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", v.String())), nil
}

// UnmarshalJSON parses the version field of a package.json.
func (v *Version) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := New(s)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
