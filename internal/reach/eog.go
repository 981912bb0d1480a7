package reach

import (
	"math"

	"github.com/pkg/errors"

	"github.com/mypop/reachability/internal/domain"
)

// EOGID is a stable arena index for an EquivalentObjectGroup (spec.md §9:
// "Union-find links are indices, not owning pointers").
type EOGID int

// unmergedIteration is the merged_at_iteration sentinel for a root EOG
// (spec.md: "∞ while still a root").
const unmergedIteration = math.MaxInt32

// eog is an Equivalent Object Group (spec.md §3). Only the root reached by
// path compression is externally meaningful (EOG-1); methods on a non-root
// either panic (true invariant violations) or silently resolve to root,
// depending on which the call site needs.
type eog struct {
	id          EOGID
	members     []domain.Object
	fingerprint []bool
	link        EOGID // self if root
	grounded    bool
	isSentinel  bool // the well-known zero-arity EOG; never an object group

	reachableFacts map[int]*Fact // keyed by Fact.id, values always live at the end of a sweep

	// initialFacts records, per member object, the facts it participated
	// in at seeding time (spec.md §4.3 "Seeding"). Used by the
	// bidirectional reachability check in try_merge.
	initialFacts map[string][]*Fact // keyed by Object.Name()

	mergedAtIteration int
	sizePerIteration  []int
}

func newEOG(id EOGID, obj domain.Object, fingerprint []bool) *eog {
	e := &eog{
		id:                id,
		members:           []domain.Object{obj},
		fingerprint:       fingerprint,
		link:              id,
		grounded:          obj.Grounded(),
		reachableFacts:    make(map[int]*Fact),
		initialFacts:      make(map[string][]*Fact),
		mergedAtIteration: unmergedIteration,
	}
	return e
}

func newSentinelEOG(id EOGID) *eog {
	e := &eog{
		id:                id,
		link:              id,
		grounded:          true,
		reachableFacts:    make(map[int]*Fact),
		initialFacts:      make(map[string][]*Fact),
		mergedAtIteration: unmergedIteration,
	}
	return e
}

func (e *eog) isRoot() bool { return e.link == e.id }

// sameFingerprint reports bit-identical fingerprints (spec.md §3, EOG-2).
func (e *eog) sameFingerprint(o *eog) bool {
	if len(e.fingerprint) != len(o.fingerprint) {
		return false
	}
	for i := range e.fingerprint {
		if e.fingerprint[i] != o.fingerprint[i] {
			return false
		}
	}
	return true
}

func (e *eog) addInitialFact(obj domain.Object, f *Fact) {
	e.initialFacts[obj.Name()] = append(e.initialFacts[obj.Name()], f)
}

// invariantf panics on true invariant violations (spec.md §7): the only
// assertion mechanism the engine uses, reserved for bugs rather than
// recoverable runtime conditions.
func invariantf(cond bool, format string, args ...interface{}) {
	if !cond {
		panic(errors.Errorf(format, args...))
	}
}
