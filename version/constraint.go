package version

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/pkg/errors"
)

// Constraint is a half- or fully-bounded interval of versions, per spec
// §3. Implementations intersect commutatively and associatively; the
// invalid (empty) constraint is absorbing.
type Constraint interface {
	fmt.Stringer
	// Matches reports whether v is admitted by the constraint.
	Matches(v Version) bool
	// Intersect computes the intersection of c with other.
	Intersect(other Constraint) Constraint
	// Empty reports whether the constraint admits no version at all —
	// spec's "invalid empty constraint".
	Empty() bool
}

// Any is the universal constraint, spelled "*" in the manifest grammar.
func Any() Constraint { return interval{raw: "*"} }

// None is the invalid, empty constraint — the absorbing element of
// Intersect.
func None() Constraint { return interval{empty: true} }

// interval is the sole Constraint implementation: a (possibly
// half-open, possibly empty) range [min, max] over the Version order,
// where a nil bound is unbounded in that direction. An unbounded upper
// bound admits Head; a finite upper bound never does, matching the
// intuition that "latest trunk" is newer than any numbered release.
type interval struct {
	min, max         *Version
	minExcl, maxExcl bool
	empty            bool
	exactHead        bool // true for the literal constraint "==head"
	// raw is the original single-op grammar string this interval was
	// parsed from, if any. Preserved so Marshal/Parse round-trip
	// exactly on manifest-declared constraints (spec §8); intervals
	// produced purely by Intersect have no single-op form and leave
	// this empty, falling back to the general interval rendering.
	raw string
}

func (c interval) Empty() bool { return c.empty }

func (c interval) Matches(v Version) bool {
	if c.empty {
		return false
	}
	if c.exactHead {
		return v.IsHead()
	}
	if v.IsHead() {
		// Head satisfies any constraint with no finite upper bound.
		return c.max == nil
	}
	if c.min != nil {
		cmp := v.Compare(*c.min)
		if cmp < 0 || (cmp == 0 && c.minExcl) {
			return false
		}
	}
	if c.max != nil {
		cmp := v.Compare(*c.max)
		if cmp > 0 || (cmp == 0 && c.maxExcl) {
			return false
		}
	}
	return true
}

func (c interval) String() string {
	if c.raw != "" {
		return c.raw
	}
	if c.empty {
		return "<none>"
	}
	if c.exactHead {
		return "==head"
	}
	if c.min == nil && c.max == nil {
		return "*"
	}
	var b strings.Builder
	if c.min != nil {
		if c.minExcl {
			b.WriteString("> ")
		} else {
			b.WriteString(">= ")
		}
		b.WriteString(c.min.String())
	}
	if c.max != nil {
		if c.min != nil {
			b.WriteString(", ")
		}
		if c.maxExcl {
			b.WriteString("< ")
		} else {
			b.WriteString("<= ")
		}
		b.WriteString(c.max.String())
	}
	return b.String()
}

// Intersect computes the intersection of two intervals. Intersection is
// commutative and associative; None() is absorbing; Any() is the
// identity.
func (c interval) Intersect(other Constraint) Constraint {
	o, ok := other.(interval)
	if !ok {
		// Unknown Constraint implementation: treated as empty. Every
		// Constraint in this package is an interval, so this path is
		// unreachable in practice.
		return None()
	}
	if c.empty || o.empty {
		return None()
	}
	if c.exactHead || o.exactHead {
		if c.Matches(Head) && o.Matches(Head) {
			return interval{exactHead: true}
		}
		return None()
	}

	result := interval{}

	// Lower bound: the greater (stricter) of the two.
	switch {
	case c.min == nil:
		result.min, result.minExcl = o.min, o.minExcl
	case o.min == nil:
		result.min, result.minExcl = c.min, c.minExcl
	default:
		switch c.min.Compare(*o.min) {
		case 1:
			result.min, result.minExcl = c.min, c.minExcl
		case -1:
			result.min, result.minExcl = o.min, o.minExcl
		default:
			result.min = c.min
			result.minExcl = c.minExcl || o.minExcl
		}
	}

	// Upper bound: the lesser (stricter) of the two.
	switch {
	case c.max == nil:
		result.max, result.maxExcl = o.max, o.maxExcl
	case o.max == nil:
		result.max, result.maxExcl = c.max, c.maxExcl
	default:
		switch c.max.Compare(*o.max) {
		case -1:
			result.max, result.maxExcl = c.max, c.maxExcl
		case 1:
			result.max, result.maxExcl = o.max, o.maxExcl
		default:
			result.max = c.max
			result.maxExcl = c.maxExcl || o.maxExcl
		}
	}

	if result.min != nil && result.max != nil {
		cmp := result.min.Compare(*result.max)
		if cmp > 0 || (cmp == 0 && (result.minExcl || result.maxExcl)) {
			return None()
		}
	}
	return result
}

var constraintGrammar = regexp.MustCompile(`^\s*(==|>=|<=|>|<|~>)\s*(\S+)\s*$`)

// Parse parses the constraint grammar of spec §6: `op ws? version`,
// where op is one of ==, >=, <=, >, <, ~> (compatible-with), or the
// literal "*" for the universal constraint.
func Parse(s string) (Constraint, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "*" {
		return Any(), nil
	}

	m := constraintGrammar.FindStringSubmatch(s)
	if m == nil {
		return nil, errors.Errorf("malformed constraint %q", s)
	}
	op, vs := m[1], m[2]

	v, err := New(vs)
	if err != nil {
		return nil, errors.Wrapf(err, "malformed constraint %q", s)
	}

	canonical := op + vs

	switch op {
	case "==":
		if v.IsHead() {
			return interval{exactHead: true, raw: canonical}, nil
		}
		return interval{min: &v, max: &v, raw: canonical}, nil
	case ">=":
		return interval{min: &v, raw: canonical}, nil
	case "<=":
		return interval{max: &v, raw: canonical}, nil
	case ">":
		return interval{min: &v, minExcl: true, raw: canonical}, nil
	case "<":
		return interval{max: &v, maxExcl: true, raw: canonical}, nil
	case "~>":
		if v.IsHead() {
			return nil, errors.Errorf("~> is not defined for head in %q", s)
		}
		upper, err := compatibleUpperBound(*v.Semver())
		if err != nil {
			return nil, errors.Wrapf(err, "malformed constraint %q", s)
		}
		return interval{min: &v, max: &upper, maxExcl: true, raw: canonical}, nil
	default:
		return nil, errors.Errorf("unknown constraint operator %q", op)
	}
}

// compatibleUpperBound implements Open Question 1's resolution of `~>`:
// `~> x.y.z` means `>= x.y.z, < x.(y+1).0`.
func compatibleUpperBound(v semver.Version) (Version, error) {
	next, err := semver.NewVersion(fmt.Sprintf("%d.%d.0", v.Major(), v.Minor()+1))
	if err != nil {
		return Version{}, err
	}
	return Version{sv: next}, nil
}
