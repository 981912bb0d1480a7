// Package reach is the core reachability engine: the Reachable-Fact Store,
// the Equivalent Object Group structure and its Manager, the Support-Tuple
// Solver, the Reachability Driver's fixed-point loop, and the memory pools
// backing all of the above (spec.md §2-§5).
package reach

import (
	"github.com/mitchellh/hashstructure"
	"github.com/pkg/errors"

	"github.com/mypop/reachability/internal/domain"
)

// Fact is a Reachable Fact (spec.md §3): a lifted fact after object
// abstraction, whose terms are EOG references rather than concrete
// objects.
type Fact struct {
	id         int
	predicate  *domain.Predicate
	terms      []EOGID
	replacedBy *Fact
}

// ID is the fact's arena index, stable for the engine's lifetime.
func (f *Fact) ID() int { return f.id }

// Predicate is the fact's lifted relation symbol.
func (f *Fact) Predicate() *domain.Predicate { return f.predicate }

// Terms returns the fact's current term EOG references. Callers that need
// the canonical (root) terms should call Store.UpdateTermsToRoot first, or
// compare facts via Store.IsIdentical/IsEquivalent, which resolve roots
// internally, per RF-2.
func (f *Fact) Terms() []EOGID { return append([]EOGID(nil), f.terms...) }

// Live reports whether this fact has not been subsumed by a merge
// (RF-1: "once replaced_by is set, the fact is considered removed").
func (f *Fact) Live() bool { return f.replacedBy == nil }

// Resolve follows the replaced_by chain to its terminal, live fact.
// Invariant: the chain is acyclic (Testable Property 3's sibling for
// facts; enforced by Store.Redirect).
func (f *Fact) Resolve() *Fact {
	cur := f
	for cur.replacedBy != nil {
		cur = cur.replacedBy
	}
	return cur
}

// Store creates, looks up, and rewrites Reachable Facts (spec.md §4.2).
// It is arena-backed: facts are allocated from a single growable slice and
// referenced by stable index, never individually freed (spec.md §5,
// §9 "arena + index").
type Store struct {
	pool      *factPool
	byHash    map[uint64][]*Fact // canonical-signature bucket, for intern's identity lookup
	zeroArity EOGID              // the well-known sentinel EOG for 0-arity predicates (spec.md §4.2 edge case)
	resolveRoot func(EOGID) EOGID
}

// NewStore creates an empty fact store. resolveRoot must return the
// current union-find root of an EOGID; the Store calls it whenever it
// needs each term's canonical identity (e.g. to compute an intern key).
func NewStore(zeroArity EOGID, resolveRoot func(EOGID) EOGID) *Store {
	return &Store{
		pool:        newFactPool(),
		byHash:      make(map[uint64][]*Fact),
		zeroArity:   zeroArity,
		resolveRoot: resolveRoot,
	}
}

func (s *Store) rootTerms(terms []EOGID) []EOGID {
	out := make([]EOGID, len(terms))
	for i, t := range terms {
		out[i] = s.resolveRoot(t)
	}
	return out
}

func signatureHash(pred *domain.Predicate, rootTerms []EOGID) uint64 {
	type sig struct {
		Pred  string
		Terms []EOGID
	}
	h, err := hashstructure.Hash(sig{Pred: pred.Name(), Terms: rootTerms}, nil)
	if err != nil {
		// hashstructure only fails on unhashable types (channels, funcs);
		// Pred/Terms are neither, so this is an invariant violation.
		panic(errors.Wrap(err, "reach: fact signature is unhashable"))
	}
	return h
}

// Intern returns the existing identical fact for (predicate, terms) if one
// is live, or creates and stores a new one. Terms are resolved to their
// current root before the lookup, per RF-2.
func (s *Store) Intern(predicate *domain.Predicate, terms []EOGID) (fact *Fact, created bool) {
	if predicate.Arity() == 0 {
		terms = []EOGID{s.zeroArity}
	}
	root := s.rootTerms(terms)
	h := signatureHash(predicate, root)
	for _, cand := range s.byHash[h] {
		live := cand.Resolve()
		if live.predicate == predicate && sameEOGs(s.rootTerms(live.terms), root) {
			return live, false
		}
	}
	f := s.pool.alloc(predicate, terms)
	s.byHash[h] = append(s.byHash[h], f)
	return f, true
}

func sameEOGs(a, b []EOGID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Redirect marks rf as subsumed by newRF. Idempotent: redirecting an
// already-redirected fact to the same terminal is a no-op; redirecting it
// to a different terminal would create a diverging chain, and redirecting
// it onto a chain that leads back to rf would create a cycle; both are
// invariant violations (spec.md §7).
func (s *Store) Redirect(rf, newRF *Fact) {
	if rf == newRF {
		return
	}
	if rf.replacedBy != nil {
		if rf.replacedBy.Resolve() != newRF.Resolve() {
			panic(errors.Errorf("reach: fact %d already redirected to a different terminal", rf.id))
		}
		return
	}
	if newRF.Resolve() == rf {
		panic(errors.Errorf("reach: redirecting fact %d would create a cycle", rf.id))
	}
	rf.replacedBy = newRF
}

// UpdateTermsToRoot rewrites every term of rf to its current root EOG,
// returning true iff any term actually changed. A second call with no
// intervening merges is a no-op (idempotence law, spec.md §8).
func (s *Store) UpdateTermsToRoot(rf *Fact) bool {
	changed := false
	for i, t := range rf.terms {
		root := s.resolveRoot(t)
		if root != t {
			rf.terms[i] = root
			changed = true
		}
	}
	return changed
}

// IsIdentical reports whether a and b are the same predicate with termwise
// identical roots (spec.md §3: "Identical").
func (s *Store) IsIdentical(a, b *Fact) bool {
	a, b = a.Resolve(), b.Resolve()
	if a.predicate != b.predicate {
		return false
	}
	return sameEOGs(s.rootTerms(a.terms), s.rootTerms(b.terms))
}

// IsEquivalent reports whether a and b are Equivalent per spec.md §3: same
// predicate, and each termwise EOG pair is identical, except at positions
// named in nonInvariant (the DTG's non-invariant term positions), where any
// pairing is permitted. A nil nonInvariant requires identity everywhere,
// the spec's default ("we require identical unless the DTG position is
// flagged as non-invariant").
func (s *Store) IsEquivalent(a, b *Fact, nonInvariant []bool) bool {
	a, b = a.Resolve(), b.Resolve()
	if a.predicate != b.predicate {
		return false
	}
	ra, rb := s.rootTerms(a.terms), s.rootTerms(b.terms)
	if len(ra) != len(rb) {
		return false
	}
	for i := range ra {
		if i < len(nonInvariant) && nonInvariant[i] {
			continue
		}
		if ra[i] != rb[i] {
			return false
		}
	}
	return true
}

// Signature returns a hash over (predicate, termwise-root EOGs) suitable
// as a dedup key for support tuples (SUP-1) and for comparing facts across
// two independent Analyze runs (idempotence, spec.md §8).
func (s *Store) Signature(f *Fact) uint64 {
	f = f.Resolve()
	return signatureHash(f.predicate, s.rootTerms(f.terms))
}

// AllLive returns every currently-live fact, in allocation order
// (monotone: spec.md Testable Property 1).
func (s *Store) AllLive() []*Fact {
	var out []*Fact
	s.pool.each(func(f *Fact) {
		if f.Live() {
			out = append(out, f)
		}
	})
	return out
}

// ByPredicate returns every live fact with the given predicate, in
// allocation order — the Support-Tuple Solver draws its candidates in
// this order (spec.md §4.4: "candidates are drawn in the order facts
// were interned").
func (s *Store) ByPredicate(p *domain.Predicate) []*Fact {
	var out []*Fact
	s.pool.each(func(f *Fact) {
		if f.Live() && f.predicate == p {
			out = append(out, f)
		}
	})
	return out
}
