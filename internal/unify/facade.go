// Package unify is the "opaque Unifier service" spec.md §1 and §4.1
// abstract away: it tests whether lifted atoms can unify under their
// variable environments, and exposes/narrows per-variable domains.
//
// The binding-environment and unification logic below is grounded on
// gitrdm-gokando's pkg/minikanren substitution-map idiom (a Var is bound to
// a domain of candidate values in a constraint store rather than to a
// single Term, matching how gokando's finite-domain constraints — see
// fd_ineq.go, constraints.go — narrow a variable's candidate set rather
// than unifying it with one ground value).
package unify

import "github.com/mypop/reachability/internal/domain"

// AtomID names one occurrence of an atom during solving — a specific DTG
// node instance or a specific transition precondition-list instance. Two
// calls with the same AtomID share a variable-domain scope; two different
// AtomIDs never do, even for syntactically identical atoms.
type AtomID uint64

// VarRef names a variable within the parameter space of whatever owns the
// atom at AtomID (a dtg.Node's Parameters or a dtg.Transition's
// ActionParams — this package is agnostic to which).
type VarRef int

// Facade is the unification service the Reachability Driver's
// ExternalResolver consults (through Domain) for external parameters; the
// Support-Tuple Solver does not use it. Implementations are total on
// well-formed atoms (spec.md §4.1: "No error paths; total on well-formed
// atoms").
type Facade interface {
	// CanUnify tests pairwise compatibility of two atom occurrences' terms
	// under their current variable-domain bindings: a weaker check than
	// AreEquivalent.
	CanUnify(termsA []VarRef, idA AtomID, termsB []VarRef, idB AtomID) bool

	// AreEquivalent is the stronger, termwise domain-equality check
	// (spec.md §3, "Two facts are Equivalent iff..."). The engine's own
	// fact equivalence is decided by reach.Store.IsEquivalent, not here.
	AreEquivalent(termsA []VarRef, idA AtomID, termsB []VarRef, idB AtomID) bool

	// Domain returns the objects currently consistent with term within the
	// given atom occurrence.
	Domain(term VarRef, id AtomID) []domain.Object

	// SetDomain narrows term's candidate set within the given atom
	// occurrence to objects.
	SetDomain(term VarRef, id AtomID, objects []domain.Object)
}
