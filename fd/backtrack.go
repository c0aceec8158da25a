package fd

import "context"

const unassigned = -2

type implication struct {
	depPkg, min, max int
}

type pkgDef struct {
	min, max int
	required bool
}

// Backtracking is a reference Session implementation: a small depth-first
// search with forward checking over the implications ProblemBuilder
// posts. It is not meant to compete with a real CSP/SAT engine on search
// strategy -- it exists so this module is runnable and testable end to
// end without an external solver dependency.
//
// It searches packages in index order. Assigning a package a real version
// id fires every implication keyed on (package, version): if the target
// package is already assigned, the implication is checked; if not, the
// target's domain is narrowed and it is marked "touched," meaning it can
// no longer be left unused once the search reaches it. If no fully
// consistent assignment exists, a second pass allows touched, non-root
// packages to fall back to the unused sentinel anyway, recording them as
// disabled -- mirroring how a real finite-domain dependency solver reports
// a best-effort solution when the hard requirements are jointly
// unsatisfiable.
type Backtracking struct {
	label string
	pkgs  []pkgDef
	impls map[[2]int][]implication
}

// NewBacktracking returns a ready-to-use reference Session.
func NewBacktracking() *Backtracking {
	return &Backtracking{}
}

func (s *Backtracking) NewProblem(label string, packageCount int) error {
	s.label = label
	s.pkgs = make([]pkgDef, 0, packageCount)
	s.impls = make(map[[2]int][]implication)
	return nil
}

func (s *Backtracking) AddPackage(min, max int, required bool) (int, error) {
	idx := len(s.pkgs)
	s.pkgs = append(s.pkgs, pkgDef{min: min, max: max, required: required})
	return idx, nil
}

func (s *Backtracking) MarkPackageRequired(pkgIndex int) error {
	s.pkgs[pkgIndex].required = true
	return nil
}

func (s *Backtracking) AddVersionConstraint(pkgIndex, versionID, depPkgIndex, min, max int) error {
	key := [2]int{pkgIndex, versionID}
	s.impls[key] = append(s.impls[key], implication{depPkg: depPkgIndex, min: min, max: max})
	return nil
}

func (s *Backtracking) Solve(ctx context.Context) (Solution, error) {
	n := len(s.pkgs)

	if sol, ok := s.search(ctx, n, false); ok {
		return sol, nil
	}
	if err := ctx.Err(); err != nil {
		return Solution{}, err
	}

	if sol, ok := s.search(ctx, n, true); ok {
		return sol, nil
	}
	if err := ctx.Err(); err != nil {
		return Solution{}, err
	}

	return Solution{Outcome: None}, nil
}

// search runs one full backtracking pass. allowDisable controls whether a
// touched, non-root package may fall back to the unused sentinel.
func (s *Backtracking) search(ctx context.Context, n int, allowDisable bool) (Solution, bool) {
	domMin := make([]int, n)
	domMax := make([]int, n)
	touched := make([]bool, n)
	assigned := make([]int, n)
	for i, p := range s.pkgs {
		domMin[i], domMax[i] = p.min, p.max
		touched[i] = p.required
		assigned[i] = unassigned
	}

	if !s.backtrack(ctx, 0, n, allowDisable, domMin, domMax, touched, assigned) {
		return Solution{}, false
	}

	assignments := make([]Assignment, n)
	for i := 0; i < n; i++ {
		assignments[i] = Assignment{
			PkgIndex:  i,
			VersionID: assigned[i],
			Disabled:  touched[i] && assigned[i] == -1,
		}
	}

	outcome := Valid
	for _, a := range assignments {
		if a.Disabled {
			outcome = Invalid
			break
		}
	}

	return Solution{Outcome: outcome, Assignments: assignments}, true
}

func (s *Backtracking) backtrack(ctx context.Context, i, n int, allowDisable bool, domMin, domMax []int, touched []bool, assigned []int) bool {
	if ctx.Err() != nil {
		return false
	}
	if i == n {
		return true
	}

	saveMin := append([]int(nil), domMin...)
	saveMax := append([]int(nil), domMax...)
	saveTouched := append([]bool(nil), touched...)

	try := func(v int) bool {
		assigned[i] = v
		ok := true
		if v >= 0 {
			for _, impl := range s.impls[[2]int{i, v}] {
				d := impl.depPkg
				touched[d] = true
				if assigned[d] != unassigned {
					if assigned[d] < impl.min || assigned[d] > impl.max {
						ok = false
						break
					}
					continue
				}
				domMin[d] = max(domMin[d], impl.min)
				domMax[d] = min(domMax[d], impl.max)
			}
		}
		if ok && s.backtrack(ctx, i+1, n, allowDisable, domMin, domMax, touched, assigned) {
			return true
		}
		assigned[i] = unassigned
		copy(domMin, saveMin)
		copy(domMax, saveMax)
		copy(touched, saveTouched)
		return false
	}

	lo, hi := max(domMin[i], 0), domMax[i]

	if !touched[i] {
		if try(-1) {
			return true
		}
		for v := lo; v <= hi; v++ {
			if try(v) {
				return true
			}
		}
		return false
	}

	for v := lo; v <= hi; v++ {
		if try(v) {
			return true
		}
	}
	if allowDisable && i != 0 {
		if try(-1) {
			return true
		}
	}
	return false
}
