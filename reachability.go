package depsolver

// reachable computes the subgraph of g containing exactly the packages
// transitively referenced from goals, injecting a single sentinel
// no-real-versions entry for any referenced-but-undefined package: a
// package with one unreachable sentinel version and no real versions.
// Keeping a version entry (rather than an entirely empty package) lets the
// package still be named and walked by the rest of the pipeline;
// VersionManager is what actually guarantees the package can never be
// selected, by assigning it zero real version ids (see versionmanager.go).
//
// The algorithm never removes versions that reference a missing package --
// keeping them yields more informative culprit output.
//
// Termination follows from visiting each package at most once.
func reachable(g *DepGraph, goals []Constraint) *DepGraph {
	out := NewGraph()
	visited := make(map[PackageName]bool)

	var visit func(name PackageName)
	visit = func(name PackageName) {
		if visited[name] {
			return
		}
		visited[name] = true

		entry, ok := g.entry(name)
		if !ok {
			out.t.Insert(string(name), packageEntry{
				missing:  true,
				versions: []VersionEntry{{Version: NoVersion}},
			})
			return
		}
		out.t.Insert(string(name), entry)

		for _, ve := range entry.versions {
			for _, c := range ve.Constraints {
				visit(c.Package)
			}
		}
	}

	for _, goal := range goals {
		visit(goal.Package)
	}

	return out
}

// firstMissingReference reports the first sentinel package reachability
// injected for a referenced-but-undeclared name, together with the
// reachable package whose constraint named it (runListPackage if the name
// came directly from a goal, since goals have no enclosing package). ok is
// false if g has no missing entries at all. Checked once per trimmed graph
// immediately after reachable() returns, this is what turns a missing
// reference into unreachable_package instead of letting it flow silently
// into the finite-domain encoding as an always-empty domain.
func firstMissingReference(g *DepGraph) (name, via PackageName, ok bool) {
	for _, n := range g.Packages() {
		if !g.IsMissing(n) {
			continue
		}
		for _, referrer := range g.Packages() {
			if g.IsMissing(referrer) {
				continue
			}
			for _, ve := range g.Versions(referrer) {
				for _, c := range ve.Constraints {
					if c.Package == n {
						return n, referrer, true
					}
				}
			}
		}
		return n, runListPackage, true
	}
	return "", "", false
}
