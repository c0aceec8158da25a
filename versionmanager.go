package depsolver

// runListPackage is the reserved name for the synthetic run-list
// pseudo-package. It can never collide with a caller-supplied PackageName
// because it contains a NUL byte, which canonicalizeName never produces
// from ordinary input.
const runListPackage PackageName = "\x00run-list"

// VersionManager is the bidirectional map between symbolic
// (PackageName, Version) and numeric (package-index, version-id) that
// ProblemBuilder needs to encode a DepGraph into the finite-domain solver.
//
// Package-index 0 is always the synthetic run-list package; every other
// package in the trimmed graph is assigned an index in the graph's
// iteration order (ascending PackageName, since DepGraph is backed by a
// sorted radix tree). Within a package, version ids 0..N-1 are assigned in
// the graph's stored (declaration) order -- VersionManager never sorts a
// package's version list.
//
// Version-id range lookups for comparison constraints (>=, <=, ~>,
// between) assume a package's declared version order is non-decreasing in
// version precedence, so that the set of ids matching the constraint forms
// a contiguous [min,max] range; this is a caller contract, not something
// VersionManager enforces. Equality constraints need no such assumption:
// they always resolve to at most one id.
type VersionManager struct {
	order    []PackageName
	index    map[PackageName]int
	versions [][]Version // per package index, in declared order
	missing  []bool      // per package index
}

// newVersionManager builds a VersionManager from a reachability-trimmed
// graph and the run-list goals.
func newVersionManager(g *DepGraph, goals []Constraint) *VersionManager {
	names := g.Packages()

	vm := &VersionManager{
		index: make(map[PackageName]int, len(names)+1),
	}

	vm.order = append(vm.order, runListPackage)
	vm.index[runListPackage] = 0
	vm.versions = append(vm.versions, []Version{syntheticRunListVersion()})
	vm.missing = append(vm.missing, false)

	for _, name := range names {
		idx := len(vm.order)
		vm.index[name] = idx
		vm.order = append(vm.order, name)

		e, _ := g.entry(name)
		var vs []Version
		if !e.missing {
			for _, ve := range e.versions {
				vs = append(vs, ve.Version)
			}
		}
		vm.versions = append(vm.versions, vs)
		vm.missing = append(vm.missing, e.missing)
	}

	return vm
}

// packageCount is |graph|+1 -- the number of packages ProblemBuilder must
// tell the solver session to expect.
func (vm *VersionManager) packageCount() int {
	return len(vm.order)
}

// numRealVersions returns N, the number of real version ids assigned to
// pkgIndex.
func (vm *VersionManager) numRealVersions(pkgIndex int) int {
	return len(vm.versions[pkgIndex])
}

// name returns the PackageName at pkgIndex.
func (vm *VersionManager) name(pkgIndex int) PackageName {
	return vm.order[pkgIndex]
}

// packageIndex returns the index assigned to name, if any.
func (vm *VersionManager) packageIndex(name PackageName) (int, bool) {
	idx, ok := vm.index[name]
	return idx, ok
}

// unmap returns the (PackageName, Version) denoted by (pkgIndex,
// versionID).
func (vm *VersionManager) unmap(pkgIndex, versionID int) (PackageName, Version) {
	return vm.order[pkgIndex], vm.versions[pkgIndex][versionID]
}

// mapConstraint returns the package index assigned to c.Package and the
// inclusive [min,max] range of version ids matching c. If no version
// matches, it returns an empty range (min > max) that forces the solver to
// exclude the package from any solution requiring it. ok is false only
// when c.Package has no entry in the VersionManager at all -- which should
// never happen for a constraint buildProblem posts, since solveOnce checks
// firstMissingReference (reachability.go) against the trimmed graph before
// building the VersionManager at all and fails the solve as
// unreachable_package there instead.
func (vm *VersionManager) mapConstraint(c Constraint) (pkgIndex, min, max int, ok bool) {
	idx, present := vm.index[c.Package]
	if !present {
		return 0, 0, -1, false
	}

	vs := vm.versions[idx]
	first, last := -1, -1
	for i, v := range vs {
		if c.Matches(v) {
			if first == -1 {
				first = i
			}
			last = i
		}
	}
	if first == -1 {
		return idx, 0, -1, true
	}
	return idx, first, last, true
}
