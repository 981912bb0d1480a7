package domain

import "fmt"

// BoundedFact is a fully-ground lifted fact: a predicate applied to concrete
// objects. The engine's caller supplies a set of these as the initial world
// state (spec.md §1, "a set of ground facts"); the engine never constructs a
// BoundedFact on its own — reachable facts are tracked over EOGs instead
// (see internal/reach.Fact).
type BoundedFact struct {
	Predicate *Predicate
	Terms     []Object
}

// NewBoundedFact builds a ground fact, validating arity against the
// predicate. Construction-time inconsistency here is the "inconsistent
// input" error kind of spec.md §7.
func NewBoundedFact(pred *Predicate, terms ...Object) (BoundedFact, error) {
	if pred.Arity() != len(terms) {
		return BoundedFact{}, &ArityError{Predicate: pred.Name(), Want: pred.Arity(), Got: len(terms)}
	}
	return BoundedFact{Predicate: pred, Terms: terms}, nil
}

// ArityError is returned when a fact's term count doesn't match its
// predicate's declared arity.
type ArityError struct {
	Predicate string
	Want, Got int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("domain: predicate %s expects %d terms, got %d", e.Predicate, e.Want, e.Got)
}
