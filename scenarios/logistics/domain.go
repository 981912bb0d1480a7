// Package logistics is the worked planning domain behind spec.md §8's
// scenarios (S1)-(S6): packages carried between locations by a truck.
// Each exported constructor builds one scenario's DTG, term universe,
// and initial state.
package logistics

import (
	"github.com/mypop/reachability/internal/domain"
	"github.com/mypop/reachability/internal/dtg"
)

// Types is the domain's type lattice, shared by every scenario.
type Types struct {
	Object    *domain.Type
	Location  *domain.Type
	Locatable *domain.Type
	Truck     *domain.Type
	Package   *domain.Type
}

// Predicates is the domain's predicate set, shared by every scenario.
type Predicates struct {
	At       *domain.Predicate // at(locatable, location)
	In       *domain.Predicate // in(package, truck)
	Location *domain.Predicate // location(location) — type-membership fact, lets drive enumerate destinations
}

func newTypes() Types {
	obj := domain.NewRootType("object")
	loc := domain.NewSubtype("location", obj)
	locatable := domain.NewSubtype("locatable", obj)
	return Types{
		Object:    obj,
		Location:  loc,
		Locatable: locatable,
		Truck:     domain.NewSubtype("truck", locatable),
		Package:   domain.NewSubtype("package", locatable),
	}
}

func newPredicates(t Types) Predicates {
	return Predicates{
		At:       domain.NewPredicate("at", t.Locatable, t.Location),
		In:       domain.NewPredicate("in", t.Package, t.Truck),
		Location: domain.NewPredicate("location", t.Location),
	}
}

// DTG node ids, shared across every scenario built from this package.
const (
	nodeAtTruck dtg.NodeID = iota
	nodeAtPackage
	nodeIn
)

// Transition ids.
const (
	transDrive dtg.TransitionID = iota
	transLoad
	transUnload
)

// buildGraph constructs the combined DTG every scenario in this package
// shares: a truck-location node, a package-location node, and a
// package-in-truck node, connected by drive/load/unload.
//
// load and unload's preconditions reference the truck's location even
// though the package-location node's own atoms never mention a truck —
// the solver resolves this by searching the fact store directly for a
// matching at(truck, location) fact, which is exactly the externally
// dependent term spec.md §4.6 describes (S3).
func buildGraph(t Types, p Predicates) (*dtg.Graph, error) {
	nodes := []*dtg.Node{
		{
			ID:             nodeAtTruck,
			Parameters:     []*domain.Type{t.Truck, t.Location},
			Atoms:          []dtg.Atom{{Predicate: p.At, Params: []dtg.ParamRef{0, 1}}},
			InvariantIndex: 1, // location is the property value; the truck is the merging subject
		},
		{
			ID:             nodeAtPackage,
			Parameters:     []*domain.Type{t.Package, t.Location},
			Atoms:          []dtg.Atom{{Predicate: p.At, Params: []dtg.ParamRef{0, 1}}},
			InvariantIndex: 1, // location is the property value; the package is the merging subject
		},
		{
			ID:             nodeIn,
			Parameters:     []*domain.Type{t.Package, t.Truck},
			Atoms:          []dtg.Atom{{Predicate: p.In, Params: []dtg.ParamRef{0, 1}}},
			InvariantIndex: 1, // truck is the property value; the package is the merging subject
		},
	}

	transitions := []*dtg.Transition{
		{
			ID:           transDrive,
			From:         nodeAtTruck,
			To:           nodeAtTruck,
			ActionParams: []*domain.Type{t.Truck, t.Location, t.Location}, // truck, from, to
			Preconditions: []dtg.Atom{
				{Predicate: p.At, Params: []dtg.ParamRef{0, 1}},
				{Predicate: p.Location, Params: []dtg.ParamRef{2}},
			},
			FromBindings: []dtg.ParamRef{0, 1},
			ToBindings:   []dtg.ParamRef{0, 2},
		},
		{
			ID:           transLoad,
			From:         nodeAtPackage,
			To:           nodeIn,
			ActionParams: []*domain.Type{t.Package, t.Truck, t.Location},
			Preconditions: []dtg.Atom{
				{Predicate: p.At, Params: []dtg.ParamRef{0, 2}},
				{Predicate: p.At, Params: []dtg.ParamRef{1, 2}},
			},
			FromBindings: []dtg.ParamRef{0, 2},
			ToBindings:   []dtg.ParamRef{0, 1},
		},
		{
			ID:           transUnload,
			From:         nodeIn,
			To:           nodeAtPackage,
			ActionParams: []*domain.Type{t.Package, t.Truck, t.Location},
			Preconditions: []dtg.Atom{
				{Predicate: p.In, Params: []dtg.ParamRef{0, 1}},
				{Predicate: p.At, Params: []dtg.ParamRef{1, 2}},
			},
			FromBindings: []dtg.ParamRef{0, 1},
			ToBindings:   []dtg.ParamRef{0, 2},
		},
	}

	return dtg.NewGraph(nodes, transitions)
}
