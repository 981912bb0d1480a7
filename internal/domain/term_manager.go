package domain

import "fmt"

// TermManager is the read-only registry of every object known to the
// problem instance (spec.md §1: "predicate/term/type managers — treated as
// read-only inputs"). The engine borrows it for the lifetime of an Analyze
// call; it never mutates it.
type TermManager struct {
	objects []Object
	byName  map[string]Object
}

// NewTermManager builds a registry over the given objects. Duplicate names
// are an inconsistent-input error.
func NewTermManager(objects ...Object) (*TermManager, error) {
	tm := &TermManager{
		objects: objects,
		byName:  make(map[string]Object, len(objects)),
	}
	for _, o := range objects {
		if _, exists := tm.byName[o.Name()]; exists {
			return nil, fmt.Errorf("domain: duplicate object name %q", o.Name())
		}
		tm.byName[o.Name()] = o
	}
	return tm, nil
}

// Objects returns every object in insertion order. Insertion order is load
// bearing: EOG construction assigns EOG identity in this order, and
// EOG-member "insertion order defines stable identity for history queries"
// (spec.md §3).
func (tm *TermManager) Objects() []Object {
	return tm.objects
}

// ObjectByName looks up an object by its unique name.
func (tm *TermManager) ObjectByName(name string) (Object, bool) {
	o, ok := tm.byName[name]
	return o, ok
}
