package reach

import (
	"github.com/mypop/reachability/internal/dtg"
	"github.com/mypop/reachability/internal/unify"
)

// ExternalResolver resolves transitions that depend on parameters no
// precondition atom local to the DTG node binds on its own (spec.md §4.6,
// "External Dependencies") — typically an action parameter shared with
// another DTG that must already have reached a compatible value.
type ExternalResolver struct {
	store  *Store
	mgr    *Manager
	facade unify.Facade
}

// NewExternalResolver builds a resolver over store and mgr. facade may be
// nil; when set, it is consulted as a fallback candidate source for an
// external parameter the local fact store cannot constrain at all — e.g. a
// value published by another DTG's analysis under the shared Unifier
// service rather than derived from this graph's own facts.
func NewExternalResolver(store *Store, mgr *Manager, facade unify.Facade) *ExternalResolver {
	return &ExternalResolver{store: store, mgr: mgr, facade: facade}
}

// Resolve extends bound with a value for every one of trans's external
// parameters, drawn from whichever live fact's matching term position
// supplies it, falling back to the Unifier facade (if one is configured)
// when the local store has no candidate at all. It returns ok=false if a
// parameter is left with no candidate from either source, or if none of
// its candidates agree with the rest of bound. An external parameter that
// no precondition atom mentions is left unbound, the facade is not
// consulted for it, and it does not make the resolve fail.
//
// Per spec.md §9, every candidate list — store-derived or facade-derived —
// is explicitly guarded by emptiness before use, in place of the original
// source's unchecked end()-1 access into what it assumed was a non-empty
// list of matching DTG nodes.
func (r *ExternalResolver) Resolve(trans *dtg.Transition, bound map[dtg.ParamRef]EOGID) (map[dtg.ParamRef]EOGID, bool) {
	if len(trans.ExternalParams) == 0 {
		return bound, true
	}
	out := cloneBound(bound)
	for _, p := range trans.ExternalParams {
		atom, ok := findAtomBinding(trans.Preconditions, p)
		if !ok {
			// No precondition atom mentions this parameter; there is
			// nothing to resolve it against.
			continue
		}
		candidates := r.store.ByPredicate(atom.Predicate)
		matched := false
		for _, f := range candidates {
			terms := f.Terms()
			if len(terms) != len(atom.Params) {
				continue
			}
			for i, q := range atom.Params {
				if q != p {
					continue
				}
				root := r.mgr.Root(terms[i])
				if existing, has := out[p]; has && existing != root {
					continue
				}
				out[p] = root
				matched = true
			}
		}
		if !matched && r.facade != nil {
			for _, obj := range r.facade.Domain(unify.VarRef(p), unify.AtomID(trans.ID)) {
				root := r.mgr.EOGOf(obj)
				if existing, has := out[p]; has && existing != root {
					continue
				}
				out[p] = root
				matched = true
			}
		}
		if !matched {
			return nil, false
		}
	}
	return out, true
}

func findAtomBinding(atoms []dtg.Atom, p dtg.ParamRef) (dtg.Atom, bool) {
	for _, a := range atoms {
		for _, q := range a.Params {
			if q == p {
				return a, true
			}
		}
	}
	return dtg.Atom{}, false
}
