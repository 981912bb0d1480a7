package logistics

import (
	"github.com/mypop/reachability/internal/domain"
	"github.com/mypop/reachability/internal/dtg"
)

// base holds the pieces every scenario in this package assembles from: a
// fresh type lattice and predicate set (scenarios don't share objects, so
// each gets its own, even though the shapes are identical).
type base struct {
	types Types
	preds Predicates
}

func newBase() base {
	t := newTypes()
	return base{types: t, preds: newPredicates(t)}
}

func must(f domain.BoundedFact, err error) domain.BoundedFact {
	if err != nil {
		panic(err)
	}
	return f
}

func locationFacts(p Predicates, locs ...domain.Object) []domain.BoundedFact {
	facts := make([]domain.BoundedFact, 0, len(locs))
	for _, l := range locs {
		facts = append(facts, must(domain.NewBoundedFact(p.Location, l)))
	}
	return facts
}

// TwoPackagesOneTruck is scenario (S1): two identical packages, one truck,
// two locations. Expected: after the fixed point, p1 and p2 merge into one
// equivalence class, and at(p1,l2), at(p2,l2), in(p1,t), in(p2,t) are all
// reachable; four equivalence classes remain overall (the grounded truck
// and the two grounded locations each stay singleton).
type TwoPackagesOneTruck struct{ base }

// NewTwoPackagesOneTruck builds scenario (S1).
func NewTwoPackagesOneTruck() *TwoPackagesOneTruck { return &TwoPackagesOneTruck{newBase()} }

func (s *TwoPackagesOneTruck) Name() string { return "S1: two packages, one truck" }

func (s *TwoPackagesOneTruck) Build() (*dtg.Graph, *domain.TermManager, []domain.BoundedFact, error) {
	t, p := s.types, s.preds
	p1 := domain.NewObject("p1", t.Package)
	p2 := domain.NewObject("p2", t.Package)
	truck := domain.NewGroundedObject("t", t.Truck)
	l1 := domain.NewGroundedObject("l1", t.Location)
	l2 := domain.NewGroundedObject("l2", t.Location)

	terms, err := domain.NewTermManager(p1, p2, truck, l1, l2)
	if err != nil {
		return nil, nil, nil, err
	}
	graph, err := buildGraph(t, p)
	if err != nil {
		return nil, nil, nil, err
	}

	initial := []domain.BoundedFact{
		must(domain.NewBoundedFact(p.At, p1, l1)),
		must(domain.NewBoundedFact(p.At, p2, l1)),
		must(domain.NewBoundedFact(p.At, truck, l1)),
	}
	initial = append(initial, locationFacts(p, l1, l2)...)
	return graph, terms, initial, nil
}

// AsymmetricInitialState is scenario (S2): as (S1), but the packages start
// at different locations, so their initial-fact sets can never be made
// equivalent. Expected: p1 and p2 never merge.
type AsymmetricInitialState struct{ base }

// NewAsymmetricInitialState builds scenario (S2).
func NewAsymmetricInitialState() *AsymmetricInitialState {
	return &AsymmetricInitialState{newBase()}
}

func (s *AsymmetricInitialState) Name() string { return "S2: asymmetric initial state blocks merge" }

func (s *AsymmetricInitialState) Build() (*dtg.Graph, *domain.TermManager, []domain.BoundedFact, error) {
	t, p := s.types, s.preds
	p1 := domain.NewObject("p1", t.Package)
	p2 := domain.NewObject("p2", t.Package)
	truck := domain.NewGroundedObject("t", t.Truck)
	l1 := domain.NewGroundedObject("l1", t.Location)
	l2 := domain.NewGroundedObject("l2", t.Location)

	terms, err := domain.NewTermManager(p1, p2, truck, l1, l2)
	if err != nil {
		return nil, nil, nil, err
	}
	graph, err := buildGraph(t, p)
	if err != nil {
		return nil, nil, nil, err
	}

	initial := []domain.BoundedFact{
		must(domain.NewBoundedFact(p.At, p1, l1)),
		must(domain.NewBoundedFact(p.At, p2, l2)),
		must(domain.NewBoundedFact(p.At, truck, l1)),
	}
	initial = append(initial, locationFacts(p, l1, l2)...)
	return graph, terms, initial, nil
}

// ExternalDependencyCarry is scenario (S3): a package starts inside the
// truck, which then drives through a chain of locations. The package's
// own DTG node never mentions the truck's location, so every at(p,*) fact
// this scenario reaches is only derivable through the truck's location at
// unload time (spec.md §4.6).
type ExternalDependencyCarry struct{ base }

// NewExternalDependencyCarry builds scenario (S3).
func NewExternalDependencyCarry() *ExternalDependencyCarry {
	return &ExternalDependencyCarry{newBase()}
}

func (s *ExternalDependencyCarry) Name() string { return "S3: external dependency (carry)" }

func (s *ExternalDependencyCarry) Build() (*dtg.Graph, *domain.TermManager, []domain.BoundedFact, error) {
	t, p := s.types, s.preds
	pkg := domain.NewObject("p", t.Package)
	truck := domain.NewGroundedObject("t", t.Truck)
	l1 := domain.NewGroundedObject("l1", t.Location)
	l2 := domain.NewGroundedObject("l2", t.Location)
	l3 := domain.NewGroundedObject("l3", t.Location)

	terms, err := domain.NewTermManager(pkg, truck, l1, l2, l3)
	if err != nil {
		return nil, nil, nil, err
	}
	graph, err := buildGraph(t, p)
	if err != nil {
		return nil, nil, nil, err
	}

	initial := []domain.BoundedFact{
		must(domain.NewBoundedFact(p.In, pkg, truck)),
		must(domain.NewBoundedFact(p.At, truck, l1)),
	}
	initial = append(initial, locationFacts(p, l1, l2, l3)...)
	return graph, terms, initial, nil
}

// FingerprintMismatch is scenario (S4): a truck and a package that each
// start with a single, structurally identical at(x,l1) fact. Their
// initial facts are pairwise equivalent, but their fingerprints differ
// (one is a subtype of truck, the other of package), so they must never
// merge despite the equivalence check alone passing.
type FingerprintMismatch struct{ base }

// NewFingerprintMismatch builds scenario (S4).
func NewFingerprintMismatch() *FingerprintMismatch {
	return &FingerprintMismatch{newBase()}
}

func (s *FingerprintMismatch) Name() string { return "S4: fingerprint mismatch prevents merge" }

func (s *FingerprintMismatch) Build() (*dtg.Graph, *domain.TermManager, []domain.BoundedFact, error) {
	t, p := s.types, s.preds
	truck := domain.NewObject("t2", t.Truck)
	pkg := domain.NewObject("p3", t.Package)
	l1 := domain.NewGroundedObject("l1", t.Location)

	terms, err := domain.NewTermManager(truck, pkg, l1)
	if err != nil {
		return nil, nil, nil, err
	}
	graph, err := buildGraph(t, p)
	if err != nil {
		return nil, nil, nil, err
	}

	initial := []domain.BoundedFact{
		must(domain.NewBoundedFact(p.At, truck, l1)),
		must(domain.NewBoundedFact(p.At, pkg, l1)),
	}
	initial = append(initial, locationFacts(p, l1)...)
	return graph, terms, initial, nil
}
