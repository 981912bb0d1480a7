package unify

import "github.com/mypop/reachability/internal/domain"

// key scopes a VarRef to the atom occurrence it belongs to, exactly as
// gokando's substitution map scopes a binding to a Var's identity rather
// than its name.
type key struct {
	id   AtomID
	term VarRef
}

// Bindings is the concrete, in-memory Facade exercised by this package's
// tests. It holds, per atom occurrence, the current
// candidate-object set for each of its variables.
type Bindings struct {
	domains map[key][]domain.Object
}

// NewBindings creates an empty binding environment.
func NewBindings() *Bindings {
	return &Bindings{domains: make(map[key][]domain.Object)}
}

func (b *Bindings) Domain(term VarRef, id AtomID) []domain.Object {
	return b.domains[key{id, term}]
}

func (b *Bindings) SetDomain(term VarRef, id AtomID, objects []domain.Object) {
	b.domains[key{id, term}] = objects
}

// CanUnify reports whether, for every position i, the domain of termsA[i]
// (within idA) intersects the domain of termsB[i] (within idB). An unset
// domain on either side is treated as "unconstrained" (matches anything),
// mirroring a fresh logic variable in gokando that hasn't been walked to a
// bound value yet.
func (b *Bindings) CanUnify(termsA []VarRef, idA AtomID, termsB []VarRef, idB AtomID) bool {
	if len(termsA) != len(termsB) {
		return false
	}
	for i := range termsA {
		da := b.Domain(termsA[i], idA)
		db := b.Domain(termsB[i], idB)
		if da == nil || db == nil {
			continue
		}
		if len(Intersect(da, db)) == 0 {
			return false
		}
	}
	return true
}

// AreEquivalent requires every position's two domains to be identical as
// sets (spec.md §3: "each termwise EOG pair is ... identical"). An unset
// domain compares as an empty set, so two unset domains match and an unset
// domain never matches a set one.
func (b *Bindings) AreEquivalent(termsA []VarRef, idA AtomID, termsB []VarRef, idB AtomID) bool {
	if len(termsA) != len(termsB) {
		return false
	}
	for i := range termsA {
		da := b.Domain(termsA[i], idA)
		db := b.Domain(termsB[i], idB)
		if !sameSet(da, db) {
			return false
		}
	}
	return true
}

func sameSet(a, b []domain.Object) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]struct{}, len(a))
	for _, o := range a {
		set[o.Name()] = struct{}{}
	}
	for _, o := range b {
		if _, ok := set[o.Name()]; !ok {
			return false
		}
	}
	return true
}

// Intersect computes the set intersection of two object slices, preserving
// a's order. Used by CanUnify to test whether two variable-domains
// overlap (spec.md §4.4: "shared variable-domains take set intersection").
func Intersect(a, b []domain.Object) []domain.Object {
	if a == nil {
		return append([]domain.Object(nil), b...)
	}
	if b == nil {
		return append([]domain.Object(nil), a...)
	}
	set := make(map[string]struct{}, len(b))
	for _, o := range b {
		set[o.Name()] = struct{}{}
	}
	var out []domain.Object
	for _, o := range a {
		if _, ok := set[o.Name()]; ok {
			out = append(out, o)
		}
	}
	return out
}
