package reach

import (
	"sort"

	"github.com/mitchellh/hashstructure"
	"github.com/sirupsen/logrus"

	"github.com/mypop/reachability/internal/dtg"
	"github.com/mypop/reachability/internal/metrics"
)

// tuple is a node-local support tuple: a binding from the node or
// transition's own ParamRef space to EOGIDs (spec.md §4.4). Callers must
// pass only root-resolved EOGIDs (see canon) — a stale, since-merged EOGID
// would let the same tuple hash to two different signatures and violate
// SUP-1's per-node uniqueness guarantee.
type tuple map[dtg.ParamRef]EOGID

// tupleSignature hashes a tuple's bindings for SUP-1 dedup. t must already
// be root-resolved (see canon); it is not re-resolved here.
func tupleSignature(node dtg.NodeID, t tuple) uint64 {
	type pair struct {
		Ref dtg.ParamRef
		EOG EOGID
	}
	pairs := make([]pair, 0, len(t))
	for k, v := range t {
		pairs = append(pairs, pair{k, v})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Ref < pairs[j].Ref })
	h, err := hashstructure.Hash(struct {
		Node  dtg.NodeID
		Pairs []pair
	}{node, pairs}, nil)
	invariantf(err == nil, "reach: tuple signature is unhashable: %v", err)
	return h
}

// Driver is the Reachability Driver (spec.md §4.5): the outer fixed-point
// loop that alternates propagating reachable DTG nodes with refining
// object equivalences until neither produces anything new.
type Driver struct {
	graph    *dtg.Graph
	store    *Store
	mgr      *Manager
	solver   *Solver
	external *ExternalResolver
	log      *logrus.Logger
	metrics  *metrics.Collector

	maxIterations int

	reachable map[dtg.NodeID]map[uint64]tuple // node -> tuple signature -> tuple
	refPool   *eogRefPool                     // per-arity EOG-reference arrays for each derived atom's terms (spec.md §5)
}

// NewDriver wires together a Driver over an already-initialised store and
// manager. mc may be nil to disable metrics.
func NewDriver(graph *dtg.Graph, store *Store, mgr *Manager, solver *Solver, external *ExternalResolver, log *logrus.Logger, mc *metrics.Collector, maxIterations int) *Driver {
	return &Driver{
		graph:         graph,
		store:         store,
		mgr:           mgr,
		solver:        solver,
		external:      external,
		log:           log,
		metrics:       mc,
		maxIterations: maxIterations,
		reachable:     make(map[dtg.NodeID]map[uint64]tuple),
		refPool:       newEOGRefPool(),
	}
}

// canon resolves every binding in t through the manager's current
// union-find roots, so two tuples that only differ by a since-merged EOGID
// collapse onto the same signature (spec.md §8, SUP-1).
func (d *Driver) canon(t tuple) tuple {
	out := make(tuple, len(t))
	for k, v := range t {
		out[k] = d.mgr.Root(v)
	}
	return out
}

// makeReachable records a new support tuple for node, interning the
// node's own atoms under it so the fact store reflects the tuple's
// consequences (spec.md §4.5, "make_reachable"). It returns true iff the
// tuple was new.
func (d *Driver) makeReachable(node dtg.NodeID, t tuple) bool {
	t = d.canon(t)
	sig := tupleSignature(node, t)
	set, ok := d.reachable[node]
	if !ok {
		set = make(map[uint64]tuple)
		d.reachable[node] = set
	}
	if _, seen := set[sig]; seen {
		return false
	}
	set[sig] = t
	if d.metrics != nil {
		d.metrics.Tuples.Inc()
	}

	n, ok := d.graph.Node(node)
	invariantf(ok, "reach: unknown node %d", node)
	for _, atom := range n.Atoms {
		terms := d.refPool.Get(len(atom.Params))
		complete := true
		for i, p := range atom.Params {
			v, has := t[p]
			if !has {
				complete = false
				break
			}
			terms[i] = v
		}
		if complete {
			fact, _ := d.store.Intern(atom.Predicate, terms)
			for _, term := range fact.Terms() {
				d.mgr.AddReachableFact(term, fact)
			}
		}
		d.refPool.Put(terms)
	}
	return true
}

// propagateReachableNodes performs one worklist-closure pass over the
// DTG: every node's own atoms are checked against the current fact store
// for newly supported tuples, and every reachable node's outgoing
// transitions are fired to extend reachability to their target node
// (spec.md §4.5, "propagate_reachable_nodes"). It returns whether
// anything new was discovered this pass.
func (d *Driver) propagateReachableNodes() bool {
	changed := false

	for _, n := range d.graph.Nodes() {
		for _, t := range d.solver.Solve(n.Atoms, n.Parameters, nil) {
			if d.makeReachable(n.ID, tuple(t.Bound)) {
				changed = true
			}
		}
	}

	for _, n := range d.graph.Nodes() {
		fromTuples := d.reachable[n.ID]
		if len(fromTuples) == 0 {
			continue
		}
		for _, trans := range d.graph.OutgoingTransitions(n.ID) {
			for _, fromBound := range fromTuples {
				if d.fireTransition(trans, fromBound) {
					changed = true
				}
			}
		}
	}

	return changed
}

func (d *Driver) fireTransition(trans *dtg.Transition, fromBound tuple) bool {
	// FromBindings[i] is the ActionParams ref fed by the From node's own
	// ParamRef i (dtg.Transition doc comment); translate fromBound from
	// the From node's param space into the transition's own param space.
	seed := make(map[dtg.ParamRef]EOGID)
	for i, actionRef := range trans.FromBindings {
		if v, ok := fromBound[dtg.ParamRef(i)]; ok {
			seed[actionRef] = v
		}
	}

	changed := false
	for _, solved := range d.solver.Solve(trans.Preconditions, trans.ActionParams, seed) {
		bound, ok := d.external.Resolve(trans, solved.Bound)
		if !ok {
			continue
		}
		toBound := make(tuple)
		for i, actionRef := range trans.ToBindings {
			if v, ok := bound[actionRef]; ok {
				toBound[dtg.ParamRef(i)] = v
			}
		}
		if d.makeReachable(trans.To, toBound) {
			changed = true
		}
	}
	return changed
}

// canonicalizeTuples re-resolves every recorded tuple's bindings to their
// current union-find roots and re-keys it by the resulting signature,
// dropping the loser when a merge makes two previously-distinct tuples
// collide. Manager.Initialise's seeded baseline occupies iteration 0 of
// every EOG's history, so a merge discovered on the pass labeled iteration
// k here is the k-th entry appended after that baseline — the pass
// numbering below starts at 1 to keep that alignment exact.
func (d *Driver) canonicalizeTuples() {
	for node, set := range d.reachable {
		fresh := make(map[uint64]tuple, len(set))
		for _, t := range set {
			canon := d.canon(t)
			sig := tupleSignature(node, canon)
			if _, exists := fresh[sig]; !exists {
				fresh[sig] = canon
			}
		}
		d.reachable[node] = fresh
	}
}

// Run executes the fixed-point loop: alternate propagation and
// equivalence refinement until neither changes anything (quiescence), or
// the iteration budget is exhausted. It returns the iteration count
// reached and an error if the budget was exhausted first. Iteration
// numbering starts at 1 — iteration 0 is reserved for the state
// Manager.Initialise seeds before the loop ever runs (spec.md §8,
// "Historical containment").
func (d *Driver) Run() (iterations int, err error) {
	for iterations = 1; ; iterations++ {
		if d.maxIterations > 0 && iterations > d.maxIterations {
			return iterations, ErrResourceExhausted
		}
		propagated := d.propagateReachableNodes()
		classesBefore := d.mgr.NumEquivalenceClasses()
		merged := d.mgr.UpdateEquivalences(iterations)
		if merged {
			d.canonicalizeTuples()
		}
		if d.metrics != nil {
			d.metrics.Iterations.Inc()
			if merged {
				// every merge joins two roots, removing exactly one class
				d.metrics.Merges.Add(float64(classesBefore - d.mgr.NumEquivalenceClasses()))
			}
			d.metrics.Facts.Set(float64(len(d.store.AllLive())))
			d.metrics.Classes.Set(float64(d.mgr.NumEquivalenceClasses()))
		}
		if d.log != nil {
			d.log.WithFields(logrus.Fields{
				"iteration": iterations,
				"propagated": propagated,
				"merged":    merged,
				"classes":   d.mgr.NumEquivalenceClasses(),
				"facts":     len(d.store.AllLive()),
			}).Debug("reach: iteration complete")
		}
		if !propagated && !merged {
			return iterations, nil
		}
	}
}

// ReachableNodes returns every DTG node with at least one support tuple.
func (d *Driver) ReachableNodes() []dtg.NodeID {
	var out []dtg.NodeID
	for _, n := range d.graph.Nodes() {
		if len(d.reachable[n.ID]) > 0 {
			out = append(out, n.ID)
		}
	}
	return out
}

// Tuples returns every distinct support tuple discovered for node.
func (d *Driver) Tuples(node dtg.NodeID) []tuple {
	var out []tuple
	for _, t := range d.reachable[node] {
		out = append(out, t)
	}
	return out
}
