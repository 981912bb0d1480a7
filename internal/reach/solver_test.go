package reach

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mypop/reachability/internal/domain"
	"github.com/mypop/reachability/internal/dtg"
)

// TestSolverRejectsCandidateOfWrongParamType reproduces the logistics domain
// shape that motivated the fix: "at" is a single *domain.Predicate shared by
// a truck-location DTG node and a package-location DTG node. Without a
// per-parameter type check, solving the truck node's own atom against the
// fact store would happily bind a package fact too, since ByPredicate can't
// tell the two nodes' atoms apart.
func TestSolverRejectsCandidateOfWrongParamType(t *testing.T) {
	truckType := domain.NewRootType("truck")
	pkgType := domain.NewRootType("package")
	locType := domain.NewRootType("location")

	truck := domain.NewObject("t", truckType)
	pkg := domain.NewObject("p", pkgType)
	l1 := domain.NewGroundedObject("l1", locType)
	terms, err := domain.NewTermManager(truck, pkg, l1)
	require.NoError(t, err)

	at := domain.NewPredicate("at", domain.NewRootType("locatable"), locType)

	nodeAtTruck := &dtg.Node{ID: 0, Parameters: []*domain.Type{truckType, locType}, InvariantIndex: 1}
	nodeAtTruck.Atoms = []dtg.Atom{{Predicate: at, Params: []dtg.ParamRef{0, 1}}}
	nodeAtPackage := &dtg.Node{ID: 1, Parameters: []*domain.Type{pkgType, locType}, InvariantIndex: 1}
	nodeAtPackage.Atoms = []dtg.Atom{{Predicate: at, Params: []dtg.ParamRef{0, 1}}}

	graph, err := dtg.NewGraph([]*dtg.Node{nodeAtTruck, nodeAtPackage}, nil)
	require.NoError(t, err)

	mgr := NewManager(graph, terms)
	store := NewStore(mgr.ZeroArity(), mgr.Root)
	mgr.Bind(store)

	// Only the package is ever placed at l1 — no truck fact exists at all.
	store.Intern(at, []EOGID{mgr.EOGOf(pkg), mgr.EOGOf(l1)})

	solver := NewSolver(store, mgr)
	results := solver.Solve(nodeAtTruck.Atoms, nodeAtTruck.Parameters, nil)
	require.Empty(t, results, "a package fact must never satisfy the truck-typed node's atom")

	results = solver.Solve(nodeAtPackage.Atoms, nodeAtPackage.Parameters, nil)
	require.Len(t, results, 1, "the same fact must still satisfy the package-typed node's atom")
}

// TestSolverAcceptsMatchingParamType is the positive counterpart: a fact
// whose bound object really is a subtype of the declared parameter type
// must still be found.
func TestSolverAcceptsMatchingParamType(t *testing.T) {
	truckType := domain.NewRootType("truck")
	locType := domain.NewRootType("location")
	truck := domain.NewObject("t", truckType)
	l1 := domain.NewGroundedObject("l1", locType)
	terms, err := domain.NewTermManager(truck, l1)
	require.NoError(t, err)

	at := domain.NewPredicate("at", truckType, locType)
	node := &dtg.Node{ID: 0, Parameters: []*domain.Type{truckType, locType}, InvariantIndex: 1}
	node.Atoms = []dtg.Atom{{Predicate: at, Params: []dtg.ParamRef{0, 1}}}
	graph, err := dtg.NewGraph([]*dtg.Node{node}, nil)
	require.NoError(t, err)

	mgr := NewManager(graph, terms)
	store := NewStore(mgr.ZeroArity(), mgr.Root)
	mgr.Bind(store)
	store.Intern(at, []EOGID{mgr.EOGOf(truck), mgr.EOGOf(l1)})

	solver := NewSolver(store, mgr)
	results := solver.Solve(node.Atoms, node.Parameters, nil)
	require.Len(t, results, 1)
	require.Equal(t, mgr.EOGOf(truck), results[0].Bound[0])
	require.Equal(t, mgr.EOGOf(l1), results[0].Bound[1])
}
