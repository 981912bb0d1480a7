// Package dtg holds the concrete, read-only Domain Transition Graph inputs
// the reachability engine consumes: nodes (lifted fact sets / state-variable
// values), transitions between them, and the atoms that make up their
// preconditions and effects (spec.md §1, §3, glossary "DTG").
//
// As with internal/domain, the engine treats values of this package as
// borrowed, immutable inputs — it never mutates a Graph, Node, or
// Transition.
package dtg

import (
	"fmt"

	"github.com/mypop/reachability/internal/domain"
)

// NodeID identifies a DomainTransitionGraphNode within a Graph.
type NodeID int

// TransitionID identifies a Transition within a Graph.
type TransitionID int

// ParamRef indexes into a parameter list: a Node's own Parameters, or a
// Transition's ActionParams. Which list a ParamRef indexes into is
// determined by context (it is never a global index across the whole
// graph) — this mirrors the original source's BoundedAtom, whose terms are
// indices into the owning atom-set's variable domain table
// (original_source/SAS/reachable_fact.h).
type ParamRef int

// Atom is one lifted literal inside a Node or a Transition's precondition
// list: a predicate applied to ParamRefs within the owner's parameter space.
type Atom struct {
	Predicate *domain.Predicate
	Params    []ParamRef
}

// Node is a DomainTransitionGraphNode: a lifted fact set representing one
// value a state variable can take, plus the type of each local parameter
// and which parameter is the node's invariant ("property") index (glossary:
// "Property / Invariable index").
type Node struct {
	ID             NodeID
	Atoms          []Atom
	Parameters     []*domain.Type
	InvariantIndex int
}

func (n *Node) String() string {
	return fmt.Sprintf("node#%d", n.ID)
}

// Edge is a directed DTG edge: a transition may fire from From to To.
type Edge struct {
	From, To NodeID
	Via      TransitionID
}

// Transition is an operator schema's effect on one DTG: it consumes the
// From node's value and produces the To node's value, subject to a full
// precondition atom list (which may reference parameters never appearing
// in the From node's own atoms — see ExternalParams and spec.md §4.6).
type Transition struct {
	ID   TransitionID
	From NodeID
	To   NodeID

	// ActionParams is the transition's own parameter space; atoms in
	// Preconditions and the From/To bindings below are expressed as
	// ParamRefs into this slice.
	ActionParams []*domain.Type

	// Preconditions is the full set of atoms that must be supported for
	// this transition to fire, in the transition's own ParamRef space.
	Preconditions []Atom

	// FromBindings maps the From node's own ParamRef space into this
	// transition's ActionParams space: FromBindings[i] is the ActionParams
	// index feeding the From node's Parameters[i].
	FromBindings []ParamRef

	// ToBindings maps the To node's own ParamRef space into this
	// transition's ActionParams space, analogous to FromBindings.
	ToBindings []ParamRef

	// ExternalParams names the ActionParams indices that are grounded
	// operator parameters not mentioned by the From node's own Atoms —
	// the "externally dependent terms" of spec.md §4.6.
	ExternalParams []ParamRef
}

func (t *Transition) String() string {
	return fmt.Sprintf("transition#%d(%d->%d)", t.ID, t.From, t.To)
}

// Graph is the combined DTG graph the engine reasons over (spec.md §4.5:
// "The combined DTG graph we are working on").
type Graph struct {
	nodes       map[NodeID]*Node
	order       []NodeID
	transitions map[TransitionID]*Transition
	outgoing    map[NodeID][]TransitionID
}

// NewGraph builds a Graph from nodes and transitions, indexing outgoing
// transitions per node. It fails fast (spec.md §7, "inconsistent input") if
// a transition references an unknown node.
func NewGraph(nodes []*Node, transitions []*Transition) (*Graph, error) {
	g := &Graph{
		nodes:       make(map[NodeID]*Node, len(nodes)),
		transitions: make(map[TransitionID]*Transition, len(transitions)),
		outgoing:    make(map[NodeID][]TransitionID),
	}
	for _, n := range nodes {
		if _, exists := g.nodes[n.ID]; exists {
			return nil, fmt.Errorf("dtg: duplicate node id %d", n.ID)
		}
		g.nodes[n.ID] = n
		g.order = append(g.order, n.ID)
	}
	for _, t := range transitions {
		if _, ok := g.nodes[t.From]; !ok {
			return nil, fmt.Errorf("dtg: transition %d references unknown from-node %d", t.ID, t.From)
		}
		if _, ok := g.nodes[t.To]; !ok {
			return nil, fmt.Errorf("dtg: transition %d references unknown to-node %d", t.ID, t.To)
		}
		if _, exists := g.transitions[t.ID]; exists {
			return nil, fmt.Errorf("dtg: duplicate transition id %d", t.ID)
		}
		g.transitions[t.ID] = t
		g.outgoing[t.From] = append(g.outgoing[t.From], t.ID)
	}
	return g, nil
}

// Nodes returns every node, in the order passed to NewGraph. Iteration
// order here is the "fixed iteration order over DTG nodes" spec.md §5
// requires for deterministic transition firing.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id])
	}
	return out
}

// Node looks up a node by id.
func (g *Graph) Node(id NodeID) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Transition looks up a transition by id.
func (g *Graph) Transition(id TransitionID) (*Transition, bool) {
	t, ok := g.transitions[id]
	return t, ok
}

// OutgoingTransitions returns the transitions whose From node is id, in
// registration order.
func (g *Graph) OutgoingTransitions(id NodeID) []*Transition {
	ids := g.outgoing[id]
	out := make([]*Transition, 0, len(ids))
	for _, tid := range ids {
		out = append(out, g.transitions[tid])
	}
	return out
}

// AllAtomTypes returns, for every term position across every DTG node's
// atoms in registration order, that position's declared parameter type —
// one entry per fingerprint bit contributed by that position (spec.md §3).
func (g *Graph) AllAtomTypes() []*domain.Type {
	var types []*domain.Type
	for _, id := range g.order {
		n := g.nodes[id]
		for _, a := range n.Atoms {
			for _, p := range a.Params {
				types = append(types, n.Parameters[p])
			}
		}
	}
	return types
}
