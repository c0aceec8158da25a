// Package depsolver solves package dependency constraint problems.
//
// Given a universe of packages, each with a set of versions and per-version
// constraints on other packages, and a run-list of top-level goals, Solve
// returns either a concrete assignment of one version per package that
// jointly satisfies every constraint, or a minimal failing prefix of the
// run-list together with the packages that could not be satisfied.
//
// The package builds an in-memory DepGraph incrementally, trims it to the
// packages reachable from the goals, encodes the result into a finite-domain
// constraint model, and hands that model to a pluggable solver (package fd)
// rented from a worker pool (package pool). Neither the solver's search
// strategy nor the pool's scheduling policy is this package's concern; both
// are narrow external collaborators.
package depsolver
