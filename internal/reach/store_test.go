package reach

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mypop/reachability/internal/domain"
)

// TestFactStoreInternDedupesIdenticalFacts checks the Store.Intern identity
// half of spec.md §4.2: interning the same (predicate, termwise-root EOGs)
// twice must return the same live fact rather than allocating a duplicate.
func TestFactStoreInternDedupesIdenticalFacts(t *testing.T) {
	loc := domain.NewRootType("location")
	l1 := domain.NewGroundedObject("l1", loc)
	l2 := domain.NewGroundedObject("l2", loc)
	terms, err := domain.NewTermManager(l1, l2)
	require.NoError(t, err)

	mgr, store := newTestManagerAndStore(t, terms)
	pred := domain.NewPredicate("at", loc, loc)

	f1, created1 := store.Intern(pred, []EOGID{mgr.EOGOf(l1), mgr.EOGOf(l2)})
	require.True(t, created1)
	f2, created2 := store.Intern(pred, []EOGID{mgr.EOGOf(l1), mgr.EOGOf(l2)})
	require.False(t, created2)
	require.Same(t, f1, f2)
	require.Len(t, store.AllLive(), 1)
}

// TestFactStoreZeroArityUsesSentinel exercises spec.md §4.2's edge case:
// zero-arity facts are interned under the well-known zero-arity EOG rather
// than an empty term list.
func TestFactStoreZeroArityUsesSentinel(t *testing.T) {
	loc := domain.NewRootType("location")
	l1 := domain.NewGroundedObject("l1", loc)
	terms, err := domain.NewTermManager(l1)
	require.NoError(t, err)

	mgr, store := newTestManagerAndStore(t, terms)
	handOver := domain.NewPredicate("handover-in-progress")

	f, created := store.Intern(handOver, nil)
	require.True(t, created)
	require.Equal(t, []EOGID{mgr.ZeroArity()}, f.Terms())

	f2, created2 := store.Intern(handOver, []EOGID{99})
	require.False(t, created2, "arity-0 predicates always resolve to the sentinel term regardless of what's passed")
	require.Same(t, f, f2)
}

// TestFactStoreRedirectIsIdempotent covers RF-1 and the idempotence law of
// spec.md §8: redirecting a fact to the same terminal twice is a no-op, and
// live facts follow the chain via Resolve.
func TestFactStoreRedirectIsIdempotent(t *testing.T) {
	loc := domain.NewRootType("location")
	l1 := domain.NewGroundedObject("l1", loc)
	l2 := domain.NewGroundedObject("l2", loc)
	terms, err := domain.NewTermManager(l1, l2)
	require.NoError(t, err)

	mgr, store := newTestManagerAndStore(t, terms)
	pred := domain.NewPredicate("at", loc, loc)

	f1, _ := store.Intern(pred, []EOGID{mgr.EOGOf(l1), mgr.EOGOf(l2)})
	f2 := &Fact{id: -1, predicate: pred, terms: f1.Terms()}

	require.True(t, f2.Live())
	store.Redirect(f2, f1)
	require.False(t, f2.Live())
	require.Same(t, f1, f2.Resolve())

	store.Redirect(f2, f1) // idempotent: same terminal, no panic
	require.Same(t, f1, f2.Resolve())
}

// TestFactStoreRedirectToDifferentTerminalPanics guards the invariant that a
// fact's replaced_by chain never diverges (spec.md §7, "cycle in
// replaced_by" is an invariant violation).
func TestFactStoreRedirectToDifferentTerminalPanics(t *testing.T) {
	loc := domain.NewRootType("location")
	l1 := domain.NewGroundedObject("l1", loc)
	l2 := domain.NewGroundedObject("l2", loc)
	terms, err := domain.NewTermManager(l1, l2)
	require.NoError(t, err)

	mgr, store := newTestManagerAndStore(t, terms)
	pred := domain.NewPredicate("at", loc, loc)

	f1, _ := store.Intern(pred, []EOGID{mgr.EOGOf(l1), mgr.EOGOf(l2)})
	f3, _ := store.Intern(pred, []EOGID{mgr.EOGOf(l2), mgr.EOGOf(l1)})
	f2 := &Fact{id: -1, predicate: pred, terms: f1.Terms()}

	store.Redirect(f2, f1)
	require.Panics(t, func() { store.Redirect(f2, f3) })
}

// TestFactStoreIsEquivalentHonorsNonInvariantMask checks spec.md §3's
// Equivalent definition: identical unless a position is flagged
// non-invariant, in which case any pairing there is permitted.
func TestFactStoreIsEquivalentHonorsNonInvariantMask(t *testing.T) {
	pkgType := domain.NewRootType("package")
	locType := domain.NewRootType("location")
	p1 := domain.NewObject("p1", pkgType)
	p2 := domain.NewObject("p2", pkgType)
	l1 := domain.NewGroundedObject("l1", locType)
	terms, err := domain.NewTermManager(p1, p2, l1)
	require.NoError(t, err)

	mgr, store := newTestManagerAndStore(t, terms)
	pred := domain.NewPredicate("at", pkgType, locType)

	fa, _ := store.Intern(pred, []EOGID{mgr.EOGOf(p1), mgr.EOGOf(l1)})
	fb, _ := store.Intern(pred, []EOGID{mgr.EOGOf(p2), mgr.EOGOf(l1)})

	require.False(t, store.IsEquivalent(fa, fb, nil), "default mask requires identity everywhere")
	require.True(t, store.IsEquivalent(fa, fb, []bool{true, false}), "position 0 (the package) is marked non-invariant")
	require.False(t, store.IsIdentical(fa, fb), "IsIdentical never consults a mask")
}
