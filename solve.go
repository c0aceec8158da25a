package depsolver

import (
	"context"

	"github.com/chef/depsolver/fd"
	"github.com/chef/depsolver/pool"
)

// Assignment is a successful solve result: the version chosen for every
// package that ended up present. Packages left unused
// are simply absent from the map.
type Assignment map[PackageName]Version

// Solve finds a version for every package g's goals transitively require,
// honoring every dependency constraint declared in g. goals is the
// run-list: the set of top-level packages the caller wants present, each
// with its own constraint.
//
// If every goal can be satisfied at once, Solve returns a Valid
// Assignment. If not, it runs a culprit search: a linear scan over
// shrinking prefixes of goals to find the shortest leading run-list that
// still fails, returning a *NoSolutionError naming that prefix and the
// packages that would have to be disabled to route around it.
func Solve(g *DepGraph, rawGoals []RawConstraint, opts ...SolveOption) (Assignment, error) {
	cfg := newSolveConfig(opts)

	goals := make([]Constraint, 0, len(rawGoals))
	for _, rg := range rawGoals {
		c, err := rg.canonicalize()
		if err != nil {
			cfg.logger.Infof("ERROR: %s", err)
			return nil, err
		}
		goals = append(goals, c)
	}

	p, owned, err := cfg.resolvePool()
	if err != nil {
		cfg.logger.Infof("ERROR: %s", err)
		return nil, err
	}
	if owned {
		defer p.Close()
	}

	ctx := context.Background()
	if cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.timeout)
		defer cancel()
	}

	sol, vm, err := solveOnce(ctx, p, g, goals, cfg.logger)
	if err != nil {
		derr := asDepsolverError(err)
		cfg.logger.Infof("ERROR: %s", derr)
		return nil, derr
	}
	if sol.Outcome == fd.Valid {
		assignment := assignmentFromSolution(vm, sol)
		cfg.logger.Infof("solved: %d packages assigned", len(assignment))
		return assignment, nil
	}

	cfg.logger.Debugf("full run-list unsatisfiable (outcome=%s); entering CULPRIT_SEARCH", outcomeName(sol.Outcome))
	assignment, err := culpritSearch(ctx, p, g, goals, cfg.logger)
	if err != nil {
		cfg.logger.Infof("ERROR: %s", err)
		return nil, err
	}
	return assignment, nil
}

// solveOnce trims g to what goals can reach, encodes one problem, and
// runs a single session to completion. It returns the VersionManager used
// for the encoding so the caller can translate the Solution back to
// package names. It logs one Debugf line per state-machine transition
// (TRIMMED, ENCODED, SOLVED) and returns unreachable_package the moment
// trimming finds a goal or dependency naming a package the graph never
// declared, before any encoding is attempted.
func solveOnce(ctx context.Context, p pool.Pool, g *DepGraph, goals []Constraint, logger Logger) (fd.Solution, *VersionManager, error) {
	trimmed := reachable(g, goals)
	logger.Debugf("TRIMMED: %d packages reachable from %d goals", trimmed.Len(), len(goals))

	if name, via, found := firstMissingReference(trimmed); found {
		err := &UnreachablePackageError{Package: name, Via: via}
		logger.Debugf("ERROR: %s", err)
		return fd.Solution{}, nil, err
	}

	vm := newVersionManager(trimmed, goals)

	sess, sessCtx, err := p.Take(ctx)
	if err != nil {
		logger.Debugf("ERROR: %s", err)
		return fd.Solution{}, nil, err
	}

	if err := buildProblem(sess, trimmed, vm, goals); err != nil {
		p.Return(sess, fd.Fail)
		logger.Debugf("ERROR: %s", err)
		return fd.Solution{}, nil, err
	}
	logger.Debugf("ENCODED: %d packages posted to the solver session", vm.packageCount())

	sol, err := sess.Solve(sessCtx)
	if err != nil {
		p.Return(sess, fd.Fail)
		logger.Debugf("ERROR: %s", err)
		return fd.Solution{}, nil, err
	}

	p.Return(sess, fd.Ok)
	logger.Debugf("SOLVED(%s)", outcomeName(sol.Outcome))
	return sol, vm, nil
}

func outcomeName(o fd.Outcome) string {
	switch o {
	case fd.Valid:
		return "valid"
	case fd.Invalid:
		return "invalid"
	default:
		return "none"
	}
}

// culpritSearch re-encodes and re-solves with shrinking prefixes of
// goals, from the full list down to a single goal. Adding goals can only
// add constraints, never remove them, so failure is monotonic in prefix
// length: once a prefix fails, every longer prefix fails too. The search
// therefore walks prefixes from longest to shortest, remembering the
// shortest one seen so far that still failed, and stops as soon as a
// shorter prefix solves cleanly (or there are no shorter prefixes left).
func culpritSearch(ctx context.Context, p pool.Pool, g *DepGraph, goals []Constraint, logger Logger) (Assignment, error) {
	var (
		worstK   int
		worstSol fd.Solution
		worstVM  *VersionManager
		found    bool
	)

	for k := len(goals); k >= 1; k-- {
		sol, vm, err := solveOnce(ctx, p, g, goals[:k], logger)
		if err != nil {
			return nil, asDepsolverError(err)
		}
		if sol.Outcome == fd.Valid {
			logger.Debugf("CULPRIT_SEARCH: prefix of length %d solves cleanly; culprit lies beyond it", k)
			break
		}
		logger.Debugf("CULPRIT_SEARCH: prefix of length %d still fails (outcome=%s)", k, outcomeName(sol.Outcome))
		worstK, worstSol, worstVM, found = k, sol, vm, true
	}

	if !found {
		// The full run-list solved cleanly after all, which contradicts
		// Solve having called into culprit search in the first place.
		return nil, &NoSolutionError{}
	}

	return nil, &NoSolutionError{
		Prefix:   goals[:worstK],
		Disabled: disabledPackages(worstVM, worstSol),
	}
}

func assignmentFromSolution(vm *VersionManager, sol fd.Solution) Assignment {
	out := make(Assignment, len(sol.Assignments))
	for _, a := range sol.Assignments {
		if a.PkgIndex == 0 || a.VersionID < 0 {
			continue
		}
		name, v := vm.unmap(a.PkgIndex, a.VersionID)
		out[name] = v
	}
	return out
}

func disabledPackages(vm *VersionManager, sol fd.Solution) []PackageName {
	var out []PackageName
	for _, a := range sol.Assignments {
		if a.Disabled {
			out = append(out, vm.name(a.PkgIndex))
		}
	}
	return out
}

func asDepsolverError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(DepsolverError); ok {
		return err
	}
	if err == context.DeadlineExceeded || err == context.Canceled {
		return &TimeoutError{}
	}
	return err
}
