// Command depsolve reads a package universe and a run-list from a JSON
// file and prints the resulting version assignment, exercising the
// depsolver package from the command line.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"

	"github.com/chef/depsolver"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("depsolve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	timeout := fs.Duration("timeout", 0, "overall time budget for the solve (0 means no timeout)")
	workers := fs.Int("workers", 1, "number of concurrent solver sessions")
	verbose := fs.Bool("v", false, "print culprit-search progress to stderr")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: depsolve [flags] <universe.json>\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	logger := log.New(stderr, "depsolve: ", 0)

	f, err := os.Open(fs.Arg(0))
	if err != nil {
		logger.Println(err)
		return 1
	}
	defer f.Close()

	in, err := decodeInput(f)
	if err != nil {
		logger.Println(err)
		return 1
	}

	g, goals, err := in.toGraph()
	if err != nil {
		logger.Println(err)
		return 1
	}

	opts := []depsolver.SolveOption{depsolver.WithWorkers(*workers)}
	if *timeout > 0 {
		opts = append(opts, depsolver.WithTimeout(*timeout))
	}
	if *verbose {
		opts = append(opts, depsolver.WithLogger(depsolver.StderrLogger()))
	}

	assignment, err := depsolver.Solve(g, goals, opts...)
	if err != nil {
		logger.Println(depsolver.FormatError(err))
		return 1
	}

	printAssignment(stdout, assignment)
	return 0
}

func printAssignment(w io.Writer, a depsolver.Assignment) {
	names := make([]string, 0, len(a))
	for name := range a {
		names = append(names, string(name))
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "%s %s\n", name, a[depsolver.PackageName(name)])
	}
}

// jsonConstraint is the on-disk shape of a dependency constraint: "op" is
// one of any, eq, gte, lte, gt, lt, pessimistic, between.
type jsonConstraint struct {
	Package  string `json:"package"`
	Op       string `json:"op"`
	Version1 string `json:"version1,omitempty"`
	Version2 string `json:"version2,omitempty"`
}

func (jc jsonConstraint) toRaw() (depsolver.RawConstraint, error) {
	switch jc.Op {
	case "", "any":
		return depsolver.Any(jc.Package), nil
	case "eq":
		return depsolver.Eq(jc.Package, jc.Version1), nil
	case "gte":
		return depsolver.GTE(jc.Package, jc.Version1), nil
	case "lte":
		return depsolver.LTE(jc.Package, jc.Version1), nil
	case "gt":
		return depsolver.GT(jc.Package, jc.Version1), nil
	case "lt":
		return depsolver.LT(jc.Package, jc.Version1), nil
	case "pessimistic":
		return depsolver.Pessimistic(jc.Package, jc.Version1), nil
	case "between":
		return depsolver.Between(jc.Package, jc.Version1, jc.Version2), nil
	default:
		return depsolver.RawConstraint{}, fmt.Errorf("depsolve: unknown constraint op %q", jc.Op)
	}
}

type jsonVersionEntry struct {
	Version     string           `json:"version"`
	Constraints []jsonConstraint `json:"constraints,omitempty"`
}

type jsonPackage struct {
	Name     string             `json:"name"`
	Versions []jsonVersionEntry `json:"versions"`
}

type jsonInput struct {
	Packages []jsonPackage    `json:"packages"`
	Goals    []jsonConstraint `json:"goals"`
}

func decodeInput(r io.Reader) (*jsonInput, error) {
	var in jsonInput
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("depsolve: parse input: %w", err)
	}
	return &in, nil
}

func (in *jsonInput) toGraph() (*depsolver.DepGraph, []depsolver.RawConstraint, error) {
	g := depsolver.NewGraph()
	for _, pkg := range in.Packages {
		for _, ve := range pkg.Versions {
			cs := make([]depsolver.RawConstraint, 0, len(ve.Constraints))
			for _, jc := range ve.Constraints {
				rc, err := jc.toRaw()
				if err != nil {
					return nil, nil, err
				}
				cs = append(cs, rc)
			}
			g = g.AddPackageVersion(pkg.Name, ve.Version, cs...)
		}
	}

	goals := make([]depsolver.RawConstraint, 0, len(in.Goals))
	for _, jc := range in.Goals {
		rc, err := jc.toRaw()
		if err != nil {
			return nil, nil, err
		}
		goals = append(goals, rc)
	}

	return g, goals, nil
}
