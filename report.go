package reachability

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mypop/reachability/internal/domain"
	"github.com/mypop/reachability/internal/dtg"
	"github.com/mypop/reachability/internal/reach"
)

// Report is the result of a completed Analyze run (spec.md §6).
type Report struct {
	graph      *dtg.Graph
	store      *reach.Store
	mgr        *reach.Manager
	driver     *reach.Driver
	iterations int
}

// Iterations returns how many outer fixed-point iterations the run took.
func (r *Report) Iterations() int { return r.iterations }

// AllReachableFacts returns every lifted fact the engine proved reachable,
// in allocation order.
func (r *Report) AllReachableFacts() []*reach.Fact {
	return r.store.AllLive()
}

// Supports returns every support tuple discovered for node, each as the
// ordered list of facts that satisfied the node's atoms.
func (r *Report) Supports(node dtg.NodeID) [][]*reach.Fact {
	var out [][]*reach.Fact
	for _, t := range r.driver.Tuples(node) {
		n, ok := r.graph.Node(node)
		if !ok {
			continue
		}
		facts := make([]*reach.Fact, 0, len(n.Atoms))
		for _, atom := range n.Atoms {
			terms := make([]reach.EOGID, len(atom.Params))
			complete := true
			for i, p := range atom.Params {
				v, has := t[p]
				if !has {
					complete = false
					break
				}
				terms[i] = v
			}
			if !complete {
				continue
			}
			f, _ := r.store.Intern(atom.Predicate, terms)
			facts = append(facts, f)
		}
		out = append(out, facts)
	}
	return out
}

// ReachableNodes returns the set of DTG nodes, reachable in this run, that
// are structurally downstream of node (including node itself).
func (r *Report) ReachableNodes(node dtg.NodeID) map[dtg.NodeID]struct{} {
	reachableSet := make(map[dtg.NodeID]bool)
	for _, id := range r.driver.ReachableNodes() {
		reachableSet[id] = true
	}

	out := make(map[dtg.NodeID]struct{})
	visited := map[dtg.NodeID]bool{}
	queue := []dtg.NodeID{node}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if visited[cur] {
			continue
		}
		visited[cur] = true
		if reachableSet[cur] {
			out[cur] = struct{}{}
		}
		for _, trans := range r.graph.OutgoingTransitions(cur) {
			if !visited[trans.To] {
				queue = append(queue, trans.To)
			}
		}
	}
	return out
}

// EOGOf returns the equivalence class obj currently belongs to.
func (r *Report) EOGOf(obj domain.Object) reach.EOGID {
	return r.mgr.EOGOf(obj)
}

// EOGMembership returns the objects that belonged to id's partition as of
// the end of the given iteration.
func (r *Report) EOGMembership(id reach.EOGID, iteration int) []domain.Object {
	return r.mgr.Membership(id, iteration)
}

// NumEquivalenceClasses returns the final count of distinct object
// equivalence classes.
func (r *Report) NumEquivalenceClasses() int {
	return r.mgr.NumEquivalenceClasses()
}

// EquivalenceClasses returns the final object partition, keyed by each
// class's representative member name, in a shape internal/visualize's
// PartitionToFile renders directly.
func (r *Report) EquivalenceClasses() map[string][]string {
	out := make(map[string][]string)
	for _, id := range r.mgr.Roots() {
		members := r.mgr.CurrentMembers(id)
		if len(members) == 0 {
			continue
		}
		names := make([]string, len(members))
		for i, m := range members {
			names[i] = m.Name()
		}
		out[names[0]] = names
	}
	return out
}

// HasReachableFact reports whether some live fact has predicateName and,
// for each position, a current EOG member named termNames[i] — a
// convenience for tests and the CLI that want to ask about facts the way
// spec.md's scenarios are written (e.g. "at(p1,l2)").
func (r *Report) HasReachableFact(predicateName string, termNames ...string) bool {
	for _, f := range r.store.AllLive() {
		if f.Predicate().Name() != predicateName {
			continue
		}
		terms := f.Terms()
		if len(terms) != len(termNames) {
			continue
		}
		match := true
		for i, want := range termNames {
			if !hasMemberNamed(r.mgr.CurrentMembers(terms[i]), want) {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func hasMemberNamed(members []domain.Object, name string) bool {
	for _, m := range members {
		if m.Name() == name {
			return true
		}
	}
	return false
}

// FactSignatures returns every live fact as a sorted "pred(term1,term2)"
// string, naming each term by its current representative member. Used to
// compare two independent Analyze runs for idempotence (spec.md §8, S5)
// without depending on arena-index identity.
func (r *Report) FactSignatures() []string {
	facts := r.store.AllLive()
	out := make([]string, 0, len(facts))
	for _, f := range facts {
		terms := f.Terms()
		names := make([]string, len(terms))
		for i, t := range terms {
			members := r.mgr.CurrentMembers(t)
			if len(members) == 0 {
				names[i] = "<empty>"
				continue
			}
			names[i] = members[0].Name()
		}
		out = append(out, fmt.Sprintf("%s(%s)", f.Predicate().Name(), strings.Join(names, ",")))
	}
	sort.Strings(out)
	return out
}

// Dump renders a short plain-text debug summary of the report.
func (r *Report) Dump() string {
	facts := r.store.AllLive()
	var b strings.Builder
	fmt.Fprintf(&b, "reachability report:\n")
	fmt.Fprintf(&b, "  iterations: %d\n", r.iterations)
	fmt.Fprintf(&b, "  live facts: %d\n", len(facts))
	fmt.Fprintf(&b, "  equivalence classes: %d\n", r.mgr.NumEquivalenceClasses())
	for _, f := range facts {
		fmt.Fprintf(&b, "    %s\n", f.Predicate().Name())
	}
	return b.String()
}
