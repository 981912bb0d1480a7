package reach

import (
	"github.com/mypop/reachability/internal/domain"
	"github.com/mypop/reachability/internal/dtg"
)

// Manager owns every EquivalentObjectGroup created for a problem instance,
// drives the per-iteration equivalence-refinement pass, and answers
// historical partition queries (spec.md §4.3, "EOG Manager").
type Manager struct {
	groups    []*eog
	byObject  map[string]EOGID
	zeroArity EOGID
	store     *Store

	// nonInvariant maps each predicate to a per-position mask: true at
	// every atom position except a node's InvariantIndex. spec.md §3/§4.4
	// require the equivalence test to allow the object's own position to
	// differ while still demanding the invariant ("property") position
	// match, or no two distinct objects could ever become equivalent.
	nonInvariant map[*domain.Predicate][]bool
}

// sentinelEOGID is always index 0: every Manager reserves it for the
// zero-arity fact sentinel before any object EOGs are created.
const sentinelEOGID EOGID = 0

// NewManager creates one EOG per object in terms, computing each one's
// fingerprint against every term position of every atom in graph
// (spec.md §3, §4.3 "Construction").
func NewManager(graph *dtg.Graph, terms *domain.TermManager) *Manager {
	m := &Manager{byObject: make(map[string]EOGID), nonInvariant: make(map[*domain.Predicate][]bool)}
	sentinel := newSentinelEOG(sentinelEOGID)
	sentinel.isSentinel = true
	m.groups = append(m.groups, sentinel)
	m.zeroArity = sentinelEOGID

	atomTypes := graph.AllAtomTypes()
	for _, obj := range terms.Objects() {
		fp := make([]bool, len(atomTypes))
		for i, t := range atomTypes {
			fp[i] = obj.Type().IsSubtypeOf(t)
		}
		id := EOGID(len(m.groups))
		m.groups = append(m.groups, newEOG(id, obj, fp))
		m.byObject[obj.Name()] = id
	}

	for _, n := range graph.Nodes() {
		for _, a := range n.Atoms {
			mask := make([]bool, len(a.Params))
			for j, ref := range a.Params {
				mask[j] = int(ref) != n.InvariantIndex
			}
			if existing, ok := m.nonInvariant[a.Predicate]; ok {
				invariantf(maskEqual(existing, mask), "reach: predicate %q has inconsistent invariant-index masks across DTG nodes", a.Predicate.Name())
			} else {
				m.nonInvariant[a.Predicate] = mask
			}
		}
	}
	return m
}

func maskEqual(a, b []bool) bool {
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

// nonInvariantMask returns the per-position equivalence mask for pred, or
// nil if pred never appears in a DTG node atom (every position then
// requires strict identity).
func (m *Manager) nonInvariantMask(pred *domain.Predicate) []bool {
	return m.nonInvariant[pred]
}

// Bind attaches the Store this manager's facts are tracked in. Store and
// Manager are mutually referential (the Store needs Root() to canonicalize
// terms; the Manager needs the Store to compare reachable facts during
// merge eligibility checks), so construction wires them together after
// both exist.
func (m *Manager) Bind(store *Store) { m.store = store }

// ZeroArity is the sentinel EOG id used as the sole term of every
// zero-arity fact (spec.md §4.2 edge case).
func (m *Manager) ZeroArity() EOGID { return m.zeroArity }

// Root returns id's current union-find root, path-compressing as it goes.
func (m *Manager) Root(id EOGID) EOGID {
	e := m.groups[id]
	if e.isRoot() {
		return id
	}
	r := m.Root(e.link)
	e.link = r
	return r
}

func (m *Manager) rootGroup(id EOGID) *eog {
	return m.groups[m.Root(id)]
}

// EOGOf returns the current root EOG id that obj belongs to.
func (m *Manager) EOGOf(obj domain.Object) EOGID {
	id, ok := m.byObject[obj.Name()]
	invariantf(ok, "reach: unknown object %q", obj.Name())
	return m.Root(id)
}

// CurrentMembers returns the root's current member objects, in insertion
// order.
func (m *Manager) CurrentMembers(id EOGID) []domain.Object {
	g := m.rootGroup(id)
	return append([]domain.Object(nil), g.members...)
}

// Grounded reports whether id's root EOG is frozen.
func (m *Manager) Grounded(id EOGID) bool {
	return m.rootGroup(id).grounded
}

// AddReachableFact records f as reachable via the root EOG at id,
// extending that group's reachable_facts set (spec.md §3: "the set of
// facts in which at least one member appears as a term"). Called both at
// seeding time and as the Reachability Driver's delete-relaxed closure
// derives new facts. reachable_facts backs merge()'s consolidated
// bookkeeping and dead-fact sweeping, but merge eligibility itself
// (someMemberCovered) only ever consults initialFacts — see
// anyInitialEquivalent below.
func (m *Manager) AddReachableFact(id EOGID, f *Fact) {
	g := m.rootGroup(id)
	g.reachableFacts[f.id] = f
}

// Initialise seeds the store and every touched EOG from the initial world
// state (spec.md §4.3, "Seeding").
func (m *Manager) Initialise(facts []domain.BoundedFact) {
	for _, bf := range facts {
		terms := make([]EOGID, len(bf.Terms))
		for i, obj := range bf.Terms {
			terms[i] = m.EOGOf(obj)
		}
		fact, _ := m.store.Intern(bf.Predicate, terms)
		if bf.Predicate.Arity() == 0 {
			m.AddReachableFact(m.zeroArity, fact)
			continue
		}
		for _, obj := range bf.Terms {
			id := m.EOGOf(obj)
			m.AddReachableFact(id, fact)
			m.rootGroup(id).addInitialFact(obj, fact)
		}
	}
	m.seedSizeHistory()
}

// seedSizeHistory records the seeded, all-singleton partition as iteration
// 0 of every group's history, before any refinement pass has run. Without
// this baseline, a merge eligible immediately after seeding (spec.md
// scenario S1, where the initial state alone already satisfies mutual
// reachability) would land in sizePerIteration[0], leaving no recorded
// state for "before the merge" and breaking historical containment
// queries at iteration 0.
func (m *Manager) seedSizeHistory() {
	for _, g := range m.groups {
		if g.isSentinel {
			continue
		}
		g.sizePerIteration = append(g.sizePerIteration, len(g.members))
	}
}

// anyInitialEquivalent reports whether f is equivalent (store.IsEquivalent
// under f's predicate's non-invariant mask, so non-invariant positions may
// differ) to one of g's members' own initial facts.
// This is anchored to g's initial state rather than its ever-growing
// reachable_facts: under delete-relaxation, two objects that started at
// different locations both eventually reach every location a connected DTG
// lets them, so comparing against reachable_facts would make S2's
// asymmetric-initial-state pair merge anyway once the closure completes.
// Only the initial facts stay a permanent record of "where this object
// actually started" (spec.md §8, S2).
func (m *Manager) anyInitialEquivalent(f *Fact, g *eog) bool {
	mask := m.nonInvariantMask(f.Predicate())
	for _, facts := range g.initialFacts {
		for _, other := range facts {
			if m.store.IsEquivalent(f, other, mask) {
				return true
			}
		}
	}
	return false
}

// someMemberCovered reports whether some member of group has every one of
// its initial facts equivalent to some initial fact of reachableIn (spec.md
// §4.3 step 4, the "some member... AND symmetrically" bidirectional check —
// existential over members, universal over that member's initial facts).
func (m *Manager) someMemberCovered(group, reachableIn *eog) bool {
	for _, obj := range group.members {
		facts := group.initialFacts[obj.Name()]
		if len(facts) == 0 {
			// An object seeded with no initial facts of its own has nothing
			// to check equivalence against, so it can't satisfy coverage —
			// otherwise it would vacuously cover any candidate group.
			continue
		}
		allCovered := true
		for _, f := range facts {
			if !m.anyInitialEquivalent(f, reachableIn) {
				allCovered = false
				break
			}
		}
		if allCovered {
			return true
		}
	}
	return false
}

// mutuallyReachable is the single symmetric reachability check spec.md §9
// mandates in place of the original source's asymmetric branch.
func (m *Manager) mutuallyReachable(a, b *eog) bool {
	return m.someMemberCovered(b, a) && m.someMemberCovered(a, b)
}

// tryMerge attempts to merge the EOGs rooted at aID and bID, returning
// true iff they are (now) the same group (spec.md §4.3, "Merge
// Eligibility"). sweep accumulates groups whose reachable_facts need a
// mark-and-sweep pass once the caller's whole refinement pass completes.
func (m *Manager) tryMerge(aID, bID EOGID, iteration int, sweep map[EOGID]*eog) bool {
	a, b := m.rootGroup(aID), m.rootGroup(bID)
	if a.grounded || b.grounded {
		return false
	}
	if a == b {
		return true
	}
	if !a.sameFingerprint(b) {
		return false
	}
	if !m.mutuallyReachable(a, b) {
		return false
	}
	m.merge(a, b, iteration, sweep)
	return true
}

// merge folds b into a (spec.md §4.3, "Merge Procedure"). a and b must
// both be roots.
func (m *Manager) merge(a, b *eog, iteration int, sweep map[EOGID]*eog) {
	invariantf(a.isRoot() && b.isRoot(), "reach: merge requires two roots")
	invariantf(a != b, "reach: merge requires distinct groups")

	a.members = append(a.members, b.members...)
	for obj, facts := range b.initialFacts {
		a.initialFacts[obj] = append(a.initialFacts[obj], facts...)
	}
	b.link = a.id
	b.mergedAtIteration = iteration

	removed := make(map[int]bool)
	sigSeen := make(map[uint64]*Fact, len(a.reachableFacts))

	// Prune a's own facts that now reference a non-root term (b, just
	// demoted) — "this prunes facts that must be rewritten" (spec.md §4.3).
	for id, f := range a.reachableFacts {
		stale := false
		for _, t := range f.terms {
			if t != m.Root(t) {
				stale = true
				break
			}
		}
		if stale {
			delete(a.reachableFacts, id)
			removed[id] = true
			for _, t := range f.terms {
				g := m.rootGroup(t)
				if g != a {
					sweep[g.id] = g
				}
			}
			continue
		}
		sigSeen[m.store.Signature(f)] = f
	}

	for id, f := range b.reachableFacts {
		if removed[id] {
			continue
		}
		m.store.UpdateTermsToRoot(f)
		sig := m.store.Signature(f)
		if existing, collide := sigSeen[sig]; collide && existing != f {
			m.store.Redirect(f, existing)
			for _, t := range f.terms {
				g := m.rootGroup(t)
				if g != a {
					sweep[g.id] = g
				}
			}
			continue
		}
		sigSeen[sig] = f
		a.reachableFacts[f.id] = f
	}
	b.reachableFacts = nil
}

// removeDeadFacts drops entries whose fact has been redirected away,
// applied once per affected group at the end of a refinement pass
// ("After all merges in the iteration, sweep each affected root EOG's
// reachable_facts to drop entries marked for removal" — spec.md §4.3).
func removeDeadFacts(g *eog) {
	for id, f := range g.reachableFacts {
		if !f.Live() {
			delete(g.reachableFacts, id)
		}
	}
}

// UpdateEquivalences runs one equivalence-refinement pass (spec.md §4.3,
// "Refinement Pass"): every pair of same-fingerprint roots attempts a
// merge, then every EOG still root at the end of the pass records its
// current size into its history. Resolves the first Open Question of
// spec.md §9: mark-and-sweep, no in-place slice erasure.
func (m *Manager) UpdateEquivalences(iteration int) (anyMerge bool) {
	byFingerprint := make(map[string][]EOGID)
	for _, g := range m.groups {
		if g.isSentinel || !g.isRoot() {
			continue
		}
		key := fingerprintKey(g.fingerprint)
		byFingerprint[key] = append(byFingerprint[key], g.id)
	}

	sweep := make(map[EOGID]*eog)
	for _, ids := range byFingerprint {
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				if m.Root(ids[i]) == m.Root(ids[j]) {
					continue
				}
				if m.tryMerge(ids[i], ids[j], iteration, sweep) {
					anyMerge = true
				}
			}
		}
	}

	for _, g := range sweep {
		removeDeadFacts(g)
	}

	for _, g := range m.groups {
		if g.isSentinel || !g.isRoot() {
			continue
		}
		g.sizePerIteration = append(g.sizePerIteration, len(g.members))
	}
	return anyMerge
}

func fingerprintKey(fp []bool) string {
	b := make([]byte, len(fp))
	for i, v := range fp {
		if v {
			b[i] = '1'
		} else {
			b[i] = '0'
		}
	}
	return string(b)
}

// Contains answers the historical query of spec.md §4.3: was obj a member
// of id's partition as of the end of iteration k?
func (m *Manager) Contains(id EOGID, obj domain.Object, iteration int) bool {
	return m.containsAt(m.groups[id], obj, iteration)
}

func (m *Manager) containsAt(e *eog, obj domain.Object, iteration int) bool {
	if e.mergedAtIteration <= iteration {
		return m.containsAt(m.groups[e.link], obj, iteration)
	}
	invariantf(iteration < len(e.sizePerIteration), "reach: iteration %d beyond history for eog %d", iteration, e.id)
	limit := e.sizePerIteration[iteration]
	for i := 0; i < limit && i < len(e.members); i++ {
		if e.members[i].Name() == obj.Name() {
			return true
		}
	}
	return false
}

// Membership returns the objects that belonged to id's partition as of
// the end of iteration k (spec.md §6, eog_membership).
func (m *Manager) Membership(id EOGID, iteration int) []domain.Object {
	return m.membershipAt(m.groups[id], iteration)
}

func (m *Manager) membershipAt(e *eog, iteration int) []domain.Object {
	if e.mergedAtIteration <= iteration {
		return m.membershipAt(m.groups[e.link], iteration)
	}
	invariantf(iteration < len(e.sizePerIteration), "reach: iteration %d beyond history for eog %d", iteration, e.id)
	limit := e.sizePerIteration[iteration]
	if limit > len(e.members) {
		limit = len(e.members)
	}
	out := make([]domain.Object, limit)
	copy(out, e.members[:limit])
	return out
}

// NumEquivalenceClasses counts the distinct object-holding roots (the
// zero-arity sentinel is not an object group and is excluded).
func (m *Manager) NumEquivalenceClasses() int {
	seen := make(map[EOGID]bool)
	count := 0
	for _, g := range m.groups {
		if g.isSentinel {
			continue
		}
		r := m.Root(g.id)
		if !seen[r] {
			seen[r] = true
			count++
		}
	}
	return count
}

// Roots returns every currently-root, non-sentinel EOG id, in creation
// order — used by the Driver/Report to enumerate equivalence classes
// deterministically.
func (m *Manager) Roots() []EOGID {
	var out []EOGID
	for _, g := range m.groups {
		if g.isSentinel || !g.isRoot() {
			continue
		}
		out = append(out, g.id)
	}
	return out
}
