package reach

import "github.com/mypop/reachability/internal/domain"

// factPool is the size-classed slab allocator for Reachable Facts
// (spec.md §5: "one pool for facts"). Facts are never individually freed;
// the whole pool is dropped at engine teardown, so allocation is a simple
// append into a growable backing slice — deallocation is a no-op in
// normal operation, matching spec.md's resource model exactly.
type factPool struct {
	slab []*Fact
}

func newFactPool() *factPool {
	return &factPool{}
}

func (p *factPool) alloc(predicate *domain.Predicate, terms []EOGID) *Fact {
	f := &Fact{
		id:        len(p.slab),
		predicate: predicate,
		terms:     append([]EOGID(nil), terms...),
	}
	p.slab = append(p.slab, f)
	return f
}

func (p *factPool) each(fn func(*Fact)) {
	for _, f := range p.slab {
		fn(f)
	}
}

// eogRefPool is the size-classed slab allocator for EOG-reference arrays,
// one size class per arity (spec.md §5: "one pool per arity for
// EOG-reference arrays"). The Reachability Driver draws a node atom's
// term array from here on every support-tuple discovery and returns it
// once the derived fact has been interned (factPool.alloc copies the
// terms it needs, so the array is dead the moment Intern returns) —
// mirroring the arena-per-arity discipline of the original C++ source's
// term-array allocation; Go's runtime already reuses same-capacity slice
// backing arrays well, so this wraps a per-arity free list rather than
// hand-managing raw memory.
type eogRefPool struct {
	freeLists map[int][][]EOGID
}

func newEOGRefPool() *eogRefPool {
	return &eogRefPool{freeLists: make(map[int][][]EOGID)}
}

// Get returns a zeroed []EOGID of length n, reusing a previously Put slice
// of the same arity when one is available.
func (p *eogRefPool) Get(n int) []EOGID {
	free := p.freeLists[n]
	if len(free) == 0 {
		return make([]EOGID, n)
	}
	last := free[len(free)-1]
	p.freeLists[n] = free[:len(free)-1]
	for i := range last {
		last[i] = 0
	}
	return last
}

// Put returns a slice to its arity's free list for reuse. Callers must not
// read or write s after calling Put.
func (p *eogRefPool) Put(s []EOGID) {
	n := len(s)
	p.freeLists[n] = append(p.freeLists[n], s)
}
