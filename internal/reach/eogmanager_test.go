package reach

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mypop/reachability/internal/domain"
	"github.com/mypop/reachability/internal/dtg"
)

func TestEOGManagerGroundedObjectNeverMerges(t *testing.T) {
	pkgType := domain.NewRootType("package")
	locType := domain.NewRootType("location")
	p1 := domain.NewObject("p1", pkgType)
	p2 := domain.NewGroundedObject("p2", pkgType)
	l1 := domain.NewGroundedObject("l1", locType)
	terms, err := domain.NewTermManager(p1, p2, l1)
	require.NoError(t, err)

	node := &dtg.Node{
		ID:             0,
		Parameters:     []*domain.Type{pkgType, locType},
		InvariantIndex: 1,
	}
	pred := domain.NewPredicate("at", pkgType, locType)
	node.Atoms = []dtg.Atom{{Predicate: pred, Params: []dtg.ParamRef{0, 1}}}
	graph, err := dtg.NewGraph([]*dtg.Node{node}, nil)
	require.NoError(t, err)

	mgr := NewManager(graph, terms)
	store := NewStore(mgr.ZeroArity(), mgr.Root)
	mgr.Bind(store)

	f, _ := store.Intern(pred, []EOGID{mgr.EOGOf(p1), mgr.EOGOf(l1)})
	mgr.AddReachableFact(mgr.EOGOf(p1), f)
	mgr.rootGroup(mgr.EOGOf(p1)).addInitialFact(p1, f)

	f2, _ := store.Intern(pred, []EOGID{mgr.EOGOf(p2), mgr.EOGOf(l1)})
	mgr.AddReachableFact(mgr.EOGOf(p2), f2)
	mgr.rootGroup(mgr.EOGOf(p2)).addInitialFact(p2, f2)

	sweep := make(map[EOGID]*eog)
	merged := mgr.tryMerge(mgr.EOGOf(p1), mgr.EOGOf(p2), 0, sweep)
	require.False(t, merged, "a grounded EOG must never merge (EOG-3)")
}

func TestEOGManagerUnionFindSoundness(t *testing.T) {
	pkgType := domain.NewRootType("package")
	locType := domain.NewRootType("location")
	p1 := domain.NewObject("p1", pkgType)
	p2 := domain.NewObject("p2", pkgType)
	p3 := domain.NewObject("p3", pkgType)
	l1 := domain.NewGroundedObject("l1", locType)
	terms, err := domain.NewTermManager(p1, p2, p3, l1)
	require.NoError(t, err)

	node := &dtg.Node{ID: 0, Parameters: []*domain.Type{pkgType, locType}, InvariantIndex: 1}
	pred := domain.NewPredicate("at", pkgType, locType)
	node.Atoms = []dtg.Atom{{Predicate: pred, Params: []dtg.ParamRef{0, 1}}}
	graph, err := dtg.NewGraph([]*dtg.Node{node}, nil)
	require.NoError(t, err)

	mgr := NewManager(graph, terms)
	store := NewStore(mgr.ZeroArity(), mgr.Root)
	mgr.Bind(store)

	seed := func(obj domain.Object) *Fact {
		f, _ := store.Intern(pred, []EOGID{mgr.EOGOf(obj), mgr.EOGOf(l1)})
		mgr.AddReachableFact(mgr.EOGOf(obj), f)
		mgr.rootGroup(mgr.EOGOf(obj)).addInitialFact(obj, f)
		return f
	}
	seed(p1)
	seed(p2)
	seed(p3)

	sweep := make(map[EOGID]*eog)
	require.True(t, mgr.tryMerge(mgr.EOGOf(p1), mgr.EOGOf(p2), 0, sweep))
	require.True(t, mgr.tryMerge(mgr.EOGOf(p2), mgr.EOGOf(p3), 0, sweep))

	root1 := mgr.EOGOf(p1)
	root2 := mgr.EOGOf(p2)
	root3 := mgr.EOGOf(p3)
	require.Equal(t, root1, root2)
	require.Equal(t, root2, root3)
	require.True(t, mgr.groups[mgr.Root(root1)].isRoot())
	require.Equal(t, 3, len(mgr.CurrentMembers(root1)))
}

func TestEOGManagerFingerprintMismatchBlocksMerge(t *testing.T) {
	pkgType := domain.NewRootType("package")
	truckType := domain.NewRootType("truck")
	locType := domain.NewRootType("location")
	p := domain.NewObject("p", pkgType)
	tr := domain.NewObject("t", truckType)
	l1 := domain.NewGroundedObject("l1", locType)
	terms, err := domain.NewTermManager(p, tr, l1)
	require.NoError(t, err)

	pkgNode := &dtg.Node{ID: 0, Parameters: []*domain.Type{pkgType, locType}, InvariantIndex: 1}
	pkgPred := domain.NewPredicate("at-pkg", pkgType, locType)
	pkgNode.Atoms = []dtg.Atom{{Predicate: pkgPred, Params: []dtg.ParamRef{0, 1}}}

	truckNode := &dtg.Node{ID: 1, Parameters: []*domain.Type{truckType, locType}, InvariantIndex: 1}
	truckPred := domain.NewPredicate("at-truck", truckType, locType)
	truckNode.Atoms = []dtg.Atom{{Predicate: truckPred, Params: []dtg.ParamRef{0, 1}}}

	graph, err := dtg.NewGraph([]*dtg.Node{pkgNode, truckNode}, nil)
	require.NoError(t, err)

	mgr := NewManager(graph, terms)
	store := NewStore(mgr.ZeroArity(), mgr.Root)
	mgr.Bind(store)

	fp, _ := store.Intern(pkgPred, []EOGID{mgr.EOGOf(p), mgr.EOGOf(l1)})
	mgr.AddReachableFact(mgr.EOGOf(p), fp)
	mgr.rootGroup(mgr.EOGOf(p)).addInitialFact(p, fp)

	ft, _ := store.Intern(truckPred, []EOGID{mgr.EOGOf(tr), mgr.EOGOf(l1)})
	mgr.AddReachableFact(mgr.EOGOf(tr), ft)
	mgr.rootGroup(mgr.EOGOf(tr)).addInitialFact(tr, ft)

	sweep := make(map[EOGID]*eog)
	require.False(t, mgr.tryMerge(mgr.EOGOf(p), mgr.EOGOf(tr), 0, sweep),
		"distinct types occupy distinct DTG term positions, so fingerprints differ")
}

func TestEOGManagerHistoricalContainment(t *testing.T) {
	pkgType := domain.NewRootType("package")
	locType := domain.NewRootType("location")
	p1 := domain.NewObject("p1", pkgType)
	p2 := domain.NewObject("p2", pkgType)
	l1 := domain.NewGroundedObject("l1", locType)
	terms, err := domain.NewTermManager(p1, p2, l1)
	require.NoError(t, err)

	node := &dtg.Node{ID: 0, Parameters: []*domain.Type{pkgType, locType}, InvariantIndex: 1}
	pred := domain.NewPredicate("at", pkgType, locType)
	node.Atoms = []dtg.Atom{{Predicate: pred, Params: []dtg.ParamRef{0, 1}}}
	graph, err := dtg.NewGraph([]*dtg.Node{node}, nil)
	require.NoError(t, err)

	mgr := NewManager(graph, terms)
	store := NewStore(mgr.ZeroArity(), mgr.Root)
	mgr.Bind(store)

	seed := func(obj domain.Object) {
		f, _ := store.Intern(pred, []EOGID{mgr.EOGOf(obj), mgr.EOGOf(l1)})
		mgr.AddReachableFact(mgr.EOGOf(obj), f)
		mgr.rootGroup(mgr.EOGOf(obj)).addInitialFact(obj, f)
	}

	// Iteration 0: only p1 has an initial fact, so p1 and p2 are not yet
	// mutually reachable and UpdateEquivalences must not merge them.
	seed(p1)
	require.False(t, mgr.UpdateEquivalences(0))

	// Iteration 1: p2 gains the matching initial fact, making the pair
	// eligible; this is the "merge iteration" (spec.md §8, scenario S6).
	seed(p2)
	require.True(t, mgr.UpdateEquivalences(1))

	root := mgr.EOGOf(p1)
	require.Equal(t, root, mgr.EOGOf(p2), "p1 and p2 must have merged by iteration 1")

	require.False(t, mgr.Contains(root, p2, 0), "p2 must not be visible in the partition as it stood before the merge")
	require.True(t, mgr.Contains(root, p1, 0))
	require.True(t, mgr.Contains(root, p2, 1), "p2 is visible once the merge iteration has been recorded")
	require.Equal(t, []domain.Object{p1}, mgr.Membership(root, 0))
	require.ElementsMatch(t, []domain.Object{p1, p2}, mgr.Membership(root, 1))
}
