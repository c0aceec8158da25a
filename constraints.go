package depsolver

import (
	"fmt"

	"github.com/pkg/errors"
)

// ConstraintOp names the shape of a Constraint: unconstrained, equal, the
// four comparison operators, the pessimistic operator, and the closed
// interval.
type ConstraintOp uint8

const (
	// OpAny matches any version of Package -- the unconstrained shape.
	OpAny ConstraintOp = iota
	// OpEqual matches exactly V.
	OpEqual
	// OpGTE matches >= V.
	OpGTE
	// OpLTE matches <= V.
	OpLTE
	// OpGT matches > V.
	OpGT
	// OpLT matches < V.
	OpLT
	// OpPessimistic is the "~>" operator: >= V and < (V with its
	// least-significant specified component bumped).
	OpPessimistic
	// OpBetween matches the closed interval [V1, V2].
	OpBetween
)

// precision records which component of a raw version string used by a
// pessimistic constraint was the least-significant one explicitly
// specified: the upper bound bumps that rightmost explicit component and
// zeroes every component below it.
type precision uint8

const (
	precisionMajor precision = iota
	precisionMinor
	precisionPatch
)

// Constraint is a predicate over (package name, version): one of
// unconstrained, equal, a comparison operator, pessimistic, or a closed
// interval, always scoped to the dependency package it constrains.
//
// Two Constraints parsed from equal text are not == to each other, because
// Version holds a pointer to its parsed semver value. DepGraph's duplicate
// detection ("structural equality over the canonicalized constraint form")
// therefore compares the strings returned by the key() method below.
type Constraint struct {
	Package PackageName
	op      ConstraintOp
	v1, v2  Version
	prec    precision
}

// AnyConstraint returns the unconstrained "any version of pkg" predicate.
func AnyConstraint(pkg RawPackageName) Constraint {
	return Constraint{Package: canonicalizeName(pkg), op: OpAny}
}

// Matches reports whether v satisfies c.
func (c Constraint) Matches(v Version) bool {
	switch c.op {
	case OpAny:
		return true
	case OpEqual:
		return v.Equal(c.v1)
	case OpGTE:
		return !v.Less(c.v1)
	case OpLTE:
		return !c.v1.Less(v)
	case OpGT:
		return c.v1.Less(v)
	case OpLT:
		return v.Less(c.v1)
	case OpPessimistic:
		lo, hi := c.pessimisticBounds()
		return !v.Less(lo) && v.Less(hi)
	case OpBetween:
		return !v.Less(c.v1) && !c.v2.Less(v)
	default:
		return false
	}
}

// pessimisticBounds returns [lo, hi) for an OpPessimistic constraint: lo is
// the declared version; hi is lo with its least-significant explicitly
// specified component bumped by one and every component below it zeroed.
func (c Constraint) pessimisticBounds() (lo, hi Version) {
	lo = c.v1
	switch c.prec {
	case precisionMajor:
		hi = synthesizeVersion(lo.Major()+1, 0, 0)
	case precisionMinor:
		hi = synthesizeVersion(lo.Major(), lo.Minor()+1, 0)
	default: // precisionPatch
		hi = synthesizeVersion(lo.Major(), lo.Minor(), lo.Patch()+1)
	}
	return lo, hi
}

func synthesizeVersion(major, minor, patch uint64) Version {
	return MustParseVersion(fmt.Sprintf("%d.%d.%d", major, minor, patch))
}

// key returns a string equal for (and only for) structurally equal
// constraints, scoped to the same dependency package. DepGraph's merge
// step uses this for the "already present" set-membership test.
func (c Constraint) key() string {
	switch c.op {
	case OpAny:
		return fmt.Sprintf("%s|any", c.Package)
	case OpBetween:
		return fmt.Sprintf("%s|between|%s|%s", c.Package, c.v1.key(), c.v2.key())
	case OpPessimistic:
		return fmt.Sprintf("%s|~>|%s|%d", c.Package, c.v1.key(), c.prec)
	default:
		return fmt.Sprintf("%s|%d|%s", c.Package, c.op, c.v1.key())
	}
}

func (c Constraint) String() string {
	switch c.op {
	case OpAny:
		return fmt.Sprintf("%s", c.Package)
	case OpEqual:
		return fmt.Sprintf("%s = %s", c.Package, c.v1)
	case OpGTE:
		return fmt.Sprintf("%s >= %s", c.Package, c.v1)
	case OpLTE:
		return fmt.Sprintf("%s <= %s", c.Package, c.v1)
	case OpGT:
		return fmt.Sprintf("%s > %s", c.Package, c.v1)
	case OpLT:
		return fmt.Sprintf("%s < %s", c.Package, c.v1)
	case OpPessimistic:
		return fmt.Sprintf("%s ~> %s", c.Package, c.v1)
	case OpBetween:
		return fmt.Sprintf("%s between %s and %s", c.Package, c.v1, c.v2)
	default:
		return fmt.Sprintf("%s <invalid constraint>", c.Package)
	}
}

// RawConstraint is the boundary (raw) shape of a Constraint, covering every
// tuple shape a caller can build with the constructors below: bare package
// name; (package, version); (package, version, operator); and the
// between-two-versions form. Version1/Version2 hold raw version text (not
// a parsed Version) specifically so the pessimistic operator can recover
// how many components were explicitly specified, which a parsed semver
// tuple always pads with zeroes.
type RawConstraint struct {
	Package  RawPackageName
	Op       ConstraintOp
	Version1 RawVersion
	Version2 RawVersion
}

// Eq returns the exact-match RawConstraint (Pkg, V).
func Eq(pkg RawPackageName, v RawVersion) RawConstraint {
	return RawConstraint{Package: pkg, Op: OpEqual, Version1: v}
}

// GTE, LTE, GT, and LT return the corresponding comparison RawConstraint.
func GTE(pkg RawPackageName, v RawVersion) RawConstraint {
	return RawConstraint{Package: pkg, Op: OpGTE, Version1: v}
}
func LTE(pkg RawPackageName, v RawVersion) RawConstraint {
	return RawConstraint{Package: pkg, Op: OpLTE, Version1: v}
}
func GT(pkg RawPackageName, v RawVersion) RawConstraint {
	return RawConstraint{Package: pkg, Op: OpGT, Version1: v}
}
func LT(pkg RawPackageName, v RawVersion) RawConstraint {
	return RawConstraint{Package: pkg, Op: OpLT, Version1: v}
}

// Pessimistic returns the "~> v" RawConstraint.
func Pessimistic(pkg RawPackageName, v RawVersion) RawConstraint {
	return RawConstraint{Package: pkg, Op: OpPessimistic, Version1: v}
}

// Between returns the closed-interval [v1, v2] RawConstraint.
func Between(pkg RawPackageName, v1, v2 RawVersion) RawConstraint {
	return RawConstraint{Package: pkg, Op: OpBetween, Version1: v1, Version2: v2}
}

// Any returns the unconstrained RawConstraint.
func Any(pkg RawPackageName) RawConstraint {
	return RawConstraint{Package: pkg, Op: OpAny}
}

// canonicalize parses the raw version text in rc into a Constraint,
// resolving the pessimistic precision from the raw text of Version1 when
// Op is OpPessimistic.
func (rc RawConstraint) canonicalize() (Constraint, error) {
	c := Constraint{Package: canonicalizeName(rc.Package), op: rc.Op}

	if rc.Op == OpAny {
		return c, nil
	}

	v1, err := ParseVersion(rc.Version1)
	if err != nil {
		return Constraint{}, errors.Wrapf(err, "constraint on %s", rc.Package)
	}
	c.v1 = v1

	if rc.Op == OpBetween {
		v2, err := ParseVersion(rc.Version2)
		if err != nil {
			return Constraint{}, errors.Wrapf(err, "constraint on %s", rc.Package)
		}
		c.v2 = v2
	}

	if rc.Op == OpPessimistic {
		c.prec = precisionOf(rc.Version1)
	}

	return c, nil
}

// precisionOf inspects the raw (pre-parse) version text to determine
// which component was the least-significant one explicitly specified:
// "2" -> major, "2.2" -> minor, "2.2.3" (or more) -> patch. A pre-parsed
// Version or non-string raw value is assumed fully specified (patch).
func precisionOf(raw RawVersion) precision {
	s, ok := raw.(string)
	if !ok {
		return precisionPatch
	}
	n := 0
	for _, r := range s {
		if r == '.' {
			n++
		}
		if r == '-' || r == '+' {
			break
		}
	}
	switch n {
	case 0:
		return precisionMajor
	case 1:
		return precisionMinor
	default:
		return precisionPatch
	}
}
