package depsolver

import "github.com/chef/depsolver/fd"

// buildProblem encodes g and goals into sess, using vm for the
// symbolic<->numeric translation. It is the only place that knows the
// posting order a fd.Session expects:
//
//  1. every package, in VersionManager order, with its domain -- index 0
//     (the run-list) first, required, forced to [0,0];
//  2. every real package's own version-scoped dependency clauses;
//  3. the run-list's goal constraints, posted as index 0's single
//     synthetic version's dependency list.
//
// buildProblem assumes g has already passed the firstMissingReference check
// in solveOnce: every name any constraint in g mentions has a non-missing
// entry in vm. The g.IsMissing skip below and postConstraint's !ok branch
// are therefore defense-in-depth, not the mechanism that reports a missing
// reference -- that happens earlier, as unreachable_package, before this
// function is ever called.
func buildProblem(sess fd.Session, g *DepGraph, vm *VersionManager, goals []Constraint) error {
	if err := sess.NewProblem("depsolver", vm.packageCount()); err != nil {
		return err
	}

	for i := 0; i < vm.packageCount(); i++ {
		n := vm.numRealVersions(i)
		min, max := -1, n-1
		required := i == 0
		if required {
			min, max = 0, 0
		}
		idx, err := sess.AddPackage(min, max, required)
		if err != nil {
			return err
		}
		if idx != i {
			// VersionManager and the session disagree on index assignment;
			// this only happens if a Session implementation doesn't hand
			// out indices in call order, which violates the Session
			// contract.
			return &NoSolutionError{}
		}
	}

	for i := 1; i < vm.packageCount(); i++ {
		name := vm.name(i)
		if g.IsMissing(name) {
			continue
		}
		for versionID, ve := range g.Versions(name) {
			for _, c := range ve.Constraints {
				if err := postConstraint(sess, vm, i, versionID, c); err != nil {
					return err
				}
			}
		}
	}

	for _, goal := range goals {
		if err := postConstraint(sess, vm, 0, 0, goal); err != nil {
			return err
		}
	}

	return nil
}

func postConstraint(sess fd.Session, vm *VersionManager, pkgIndex, versionID int, c Constraint) error {
	depIdx, min, max, ok := vm.mapConstraint(c)
	if !ok {
		// Should not happen: solveOnce's firstMissingReference check already
		// rejected any graph with an unmapped constraint target. Kept as a
		// guard against a future caller of buildProblem that skips it.
		return &UnreachablePackageError{Package: c.Package, Via: vm.name(pkgIndex)}
	}
	return sess.AddVersionConstraint(pkgIndex, versionID, depIdx, min, max)
}
