// Package fd defines the narrow interface between depsolver's
// ProblemBuilder and a pluggable finite-domain constraint solver, and
// ships one reference implementation (a small backtracking search) good
// enough to exercise the interface in tests without pulling in a C
// solver. depsolver's core treats Session as a black box: it never
// inspects a concrete Session's internals, only the Solution it returns.
package fd

import "context"

// Disposition records whether a Session should be recycled (Ok) or
// retired (Fail) by its pool after use.
type Disposition uint8

const (
	// Ok means the session completed an ordinary solve and can be reused.
	Ok Disposition = iota
	// Fail means the session hit a timeout (or other abnormal exit) and
	// the pool should not hand it out again.
	Fail
)

// Outcome classifies a Solution.
type Outcome uint8

const (
	// Valid means every package in Assignments got a consistent value
	// with nothing disabled.
	Valid Outcome = iota
	// Invalid means at least one package had to be disabled -- forced to
	// the unused sentinel even though some other package's posted
	// constraint wanted it present -- to find any solution at all.
	Invalid
	// None means no solution could be found by any relaxation, and the
	// solver has no further diagnostic information to offer.
	None
)

// Assignment is one package's outcome in a Solution.
type Assignment struct {
	PkgIndex  int
	VersionID int // -1 means "unused"
	Disabled  bool
}

// Solution is what Session.Solve returns on success (Valid or Invalid) or
// exhaustion (None).
type Solution struct {
	Outcome     Outcome
	Assignments []Assignment
}

// Session is one finite-domain solver session, encoding exactly one
// problem between NewProblem and Solve. A Session is rented from a pool
// for the duration of one depsolver solve (or one culprit-search
// iteration) and is not safe for concurrent use.
type Session interface {
	// NewProblem resets the session for a new problem with the given
	// label (used only for diagnostics/tracing) and package count.
	NewProblem(label string, packageCount int) error

	// AddPackage registers the next package in index order, with domain
	// [min,max]. If required is true, the solver must not assign it the
	// unused sentinel -1. AddPackage must be called exactly packageCount
	// times per problem, in index order; it returns the index assigned
	// (0, 1, 2, ... in call order).
	AddPackage(min, max int, required bool) (pkgIndex int, err error)

	// MarkPackageRequired marks an already-added package as required,
	// for sessions that want to add all packages before fixing the
	// run-list package's required flag.
	MarkPackageRequired(pkgIndex int) error

	// AddVersionConstraint posts: if package pkgIndex takes version
	// versionID, then package depPkgIndex must lie in [min,max].
	AddVersionConstraint(pkgIndex, versionID, depPkgIndex, min, max int) error

	// Solve runs the search and returns a Solution, or an error if ctx is
	// canceled/expired or the solver fails for an internal reason. A
	// context error must be returned verbatim (not wrapped) so callers
	// can detect timeout with errors.Is.
	Solve(ctx context.Context) (Solution, error)
}
