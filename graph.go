package depsolver

import "github.com/armon/go-radix"

// PackageName is a byte-string package identity. Equality and lookup are
// always performed on this canonical form; callers may supply names as
// either a PackageName or a plain string, coerced to PackageName at the
// DepGraph/Solve boundary.
type PackageName string

// RawPackageName is anything that canonicalizes to a PackageName: a
// PackageName itself or a plain string.
type RawPackageName interface{}

func canonicalizeName(raw RawPackageName) PackageName {
	switch t := raw.(type) {
	case PackageName:
		return t
	case string:
		return PackageName(t)
	default:
		return PackageName("")
	}
}

// VersionEntry is one (version, constraint-list) pair declared for a
// package: the set of constraints that version places on its
// dependencies.
type VersionEntry struct {
	Version     Version
	Constraints []Constraint
}

// packageEntry is the DepGraph's per-package value: an ordered, append-only
// list of VersionEntry. Order matters -- it drives the solver's preference
// heuristic, so DepGraph never re-sorts it.
type packageEntry struct {
	versions []VersionEntry
	// missing marks a sentinel entry injected by reachability trimming for
	// a package name that was referenced by a constraint but never
	// declared. Such a package carries exactly one VersionEntry (for
	// debuggability) but zero real version ids in the solver encoding.
	missing bool
}

// DepGraph is an ordered mapping from PackageName to its version list.
// Every mutator returns a new DepGraph value; the receiver is never
// modified, so callers can share a DepGraph across goroutines and branch
// off variants without synchronization.
//
// The mapping is backed by a radix tree (github.com/armon/go-radix) keyed
// on the canonical PackageName, giving the stable, in-order iteration that
// VersionManager relies on for package-index assignment. Because go-radix
// trees are not persistent, each mutation clones the tree via a fresh
// Insert pass over a shallow copy of the previous entries -- acceptable
// because graph construction is not on the hot path and graphs are small.
type DepGraph struct {
	t *radix.Tree
}

// NewGraph returns an empty DepGraph.
func NewGraph() *DepGraph {
	return &DepGraph{t: radix.New()}
}

func (g *DepGraph) clone() *DepGraph {
	t2 := radix.New()
	if g != nil && g.t != nil {
		g.t.Walk(func(k string, v interface{}) bool {
			t2.Insert(k, v)
			return false
		})
	}
	return &DepGraph{t: t2}
}

func (g *DepGraph) entry(name PackageName) (packageEntry, bool) {
	if g == nil || g.t == nil {
		return packageEntry{}, false
	}
	v, ok := g.t.Get(string(name))
	if !ok {
		return packageEntry{}, false
	}
	return v.(packageEntry), true
}

// Has reports whether name is present in the graph.
func (g *DepGraph) Has(name PackageName) bool {
	_, ok := g.entry(name)
	return ok
}

// IsMissing reports whether name is a sentinel entry injected by
// reachability trimming for a referenced-but-undefined package.
func (g *DepGraph) IsMissing(name PackageName) bool {
	e, ok := g.entry(name)
	return ok && e.missing
}

// Versions returns the declared version list for name, in declaration
// order, or nil if name is absent.
func (g *DepGraph) Versions(name PackageName) []VersionEntry {
	e, ok := g.entry(name)
	if !ok {
		return nil
	}
	out := make([]VersionEntry, len(e.versions))
	copy(out, e.versions)
	return out
}

// Packages returns every package name in the graph, in the radix tree's
// sorted order.
func (g *DepGraph) Packages() []PackageName {
	if g == nil || g.t == nil {
		return nil
	}
	var out []PackageName
	g.t.Walk(func(k string, v interface{}) bool {
		out = append(out, PackageName(k))
		return false
	})
	return out
}

// Len returns the number of distinct packages in the graph.
func (g *DepGraph) Len() int {
	if g == nil || g.t == nil {
		return 0
	}
	return g.t.Len()
}

// RawVersionSpec is one (raw_version, [raw_constraint]) pair as accepted by
// AddPackage.
type RawVersionSpec struct {
	Version     RawVersion
	Constraints []RawConstraint
}

// RawPackageSpec is one (name, [(raw_version, [raw_constraint])]) entry as
// accepted by AddPackages.
type RawPackageSpec struct {
	Name     RawPackageName
	Versions []RawVersionSpec
}

// AddPackageVersion inserts or merges a single (name, version) entry. When
// the (package, version) pair already exists, every incoming constraint not
// already present (by canonicalized structural equality) is appended to the
// existing list, preserving the original order; existing constraints are
// never reordered or dropped.
func (g *DepGraph) AddPackageVersion(name RawPackageName, version RawVersion, constraints ...RawConstraint) *DepGraph {
	cname := canonicalizeName(name)
	v, err := ParseVersion(version)
	if err != nil {
		panic(err)
	}
	cs := make([]Constraint, 0, len(constraints))
	for _, rc := range constraints {
		c, err := rc.canonicalize()
		if err != nil {
			panic(err)
		}
		cs = append(cs, c)
	}
	return g.addVersion(cname, v, cs)
}

// AddPackage inserts or merges every (version, constraint-list) entry for
// name.
func (g *DepGraph) AddPackage(name RawPackageName, versions []RawVersionSpec) *DepGraph {
	out := g
	for _, vs := range versions {
		out = out.AddPackageVersion(name, vs.Version, vs.Constraints...)
	}
	return out
}

// AddPackages inserts or merges every package described by specs.
func (g *DepGraph) AddPackages(specs []RawPackageSpec) *DepGraph {
	out := g
	for _, spec := range specs {
		out = out.AddPackage(spec.Name, spec.Versions)
	}
	return out
}

func (g *DepGraph) addVersion(name PackageName, v Version, cs []Constraint) *DepGraph {
	ng := g.clone()
	e, _ := ng.entry(name)
	// e.versions still shares its backing array with g's entry; copy it so
	// the merge below never writes into the receiver.
	e.versions = append([]VersionEntry{}, e.versions...)

	merged := false
	for i, existing := range e.versions {
		if existing.Version.Equal(v) {
			e.versions[i].Constraints = mergeConstraints(existing.Constraints, cs)
			merged = true
			break
		}
	}
	if !merged {
		e.versions = append(e.versions, VersionEntry{
			Version:     v,
			Constraints: append([]Constraint{}, cs...),
		})
	}

	ng.t.Insert(string(name), e)
	return ng
}

// mergeConstraints appends every constraint in incoming that is not
// already present in existing (by canonical structural equality),
// preserving the order of existing in front.
func mergeConstraints(existing, incoming []Constraint) []Constraint {
	out := append([]Constraint{}, existing...)
	seen := make(map[string]bool, len(existing))
	for _, c := range existing {
		seen[c.key()] = true
	}
	for _, c := range incoming {
		k := c.key()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, c)
	}
	return out
}
