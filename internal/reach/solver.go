package reach

import (
	"github.com/mypop/reachability/internal/domain"
	"github.com/mypop/reachability/internal/dtg"
)

// TupleResult is one solution to a support-tuple search: a set of facts,
// one per precondition atom, together with the parameter binding they
// impose (spec.md §4.4, "Support Tuple").
type TupleResult struct {
	Facts []*Fact
	Bound map[dtg.ParamRef]EOGID
}

// Solver performs the backtracking search for support tuples described in
// spec.md §4.4: for a DTG node or transition's precondition atoms, find
// every assignment of facts that agrees on shared parameters and on each
// parameter's declared type. Because every term is already canonicalized
// to its union-find root EOGID, a shared ParamRef is narrowed by plain
// root-equality comparison rather than the object-set intersection
// internal/unify.Bindings performs for the abstracted Facade — that
// set-intersection narrowing is exercised at the Facade level instead (see
// internal/unify/bindings.go's CanUnify), and by the ExternalResolver
// below, consulted only for parameters no precondition atom in the DTG
// itself constrains.
type Solver struct {
	store *Store
	mgr   *Manager
}

// NewSolver builds a Solver over store and mgr.
func NewSolver(store *Store, mgr *Manager) *Solver {
	return &Solver{store: store, mgr: mgr}
}

func cloneBound(b map[dtg.ParamRef]EOGID) map[dtg.ParamRef]EOGID {
	out := make(map[dtg.ParamRef]EOGID, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

// Solve returns every support tuple satisfying atoms, given a seed binding
// (e.g. the DTG node's own parameters already fixed by the transition
// being fired) and paramTypes, the declared type of each ParamRef atoms'
// Params index into (a Node's own Parameters or a Transition's
// ActionParams). A nil or empty seed searches unconstrained.
//
// Two predicates sharing the same *domain.Predicate across different DTG
// nodes (this domain's "at" appears on both the truck-location and
// package-location nodes) would otherwise let a candidate fact for one
// node's atom bind a ParamRef declared for a different, incompatible type
// — spec.md §4.1/§4.4's "each fᵢ unifies with aᵢ" requires the term's type
// to be checked, not just its predicate and shared-variable root-equality.
func (s *Solver) Solve(atoms []dtg.Atom, paramTypes []*domain.Type, seed map[dtg.ParamRef]EOGID) []TupleResult {
	var results []TupleResult
	bound := cloneBound(seed)
	s.backtrack(atoms, paramTypes, 0, bound, nil, &results)
	return results
}

func (s *Solver) backtrack(atoms []dtg.Atom, paramTypes []*domain.Type, idx int, bound map[dtg.ParamRef]EOGID, facts []*Fact, results *[]TupleResult) {
	if idx == len(atoms) {
		*results = append(*results, TupleResult{
			Facts: append([]*Fact(nil), facts...),
			Bound: cloneBound(bound),
		})
		return
	}

	atom := atoms[idx]
	for _, f := range s.store.ByPredicate(atom.Predicate) {
		terms := f.Terms()
		if len(terms) != len(atom.Params) {
			continue
		}
		trial := cloneBound(bound)
		ok := true
		for i, p := range atom.Params {
			root := s.mgr.Root(terms[i])
			if !s.termMatchesType(root, paramTypeAt(paramTypes, p)) {
				ok = false
				break
			}
			if existing, has := trial[p]; has {
				if existing != root {
					ok = false
					break
				}
			} else {
				trial[p] = root
			}
		}
		if !ok {
			continue
		}
		s.backtrack(atoms, paramTypes, idx+1, trial, append(facts, f), results)
	}
}

func paramTypeAt(paramTypes []*domain.Type, p dtg.ParamRef) *domain.Type {
	if int(p) < 0 || int(p) >= len(paramTypes) {
		return nil
	}
	return paramTypes[p]
}

// termMatchesType reports whether every current member of id's root EOG is
// a subtype of want. A nil want (an out-of-range ParamRef) is treated as
// unconstrained rather than a match failure.
func (s *Solver) termMatchesType(id EOGID, want *domain.Type) bool {
	if want == nil {
		return true
	}
	for _, obj := range s.mgr.CurrentMembers(id) {
		if !obj.Type().IsSubtypeOf(want) {
			return false
		}
	}
	return true
}
