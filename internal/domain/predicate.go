package domain

// Predicate is a lifted relation symbol: a name plus the type of each
// argument position. DTG node atoms and reachable facts both reference a
// Predicate and an array of terms of this arity (spec.md §3, "Reachable
// Fact").
type Predicate struct {
	name     string
	argTypes []*Type
}

// NewPredicate creates a predicate of the given name and argument types.
// Arity is len(argTypes); a zero-arity predicate is legal (spec.md §4.2
// edge case: "zero-arity facts are interned under a special sentinel EOG").
func NewPredicate(name string, argTypes ...*Type) *Predicate {
	return &Predicate{name: name, argTypes: argTypes}
}

func (p *Predicate) Name() string { return p.name }

func (p *Predicate) Arity() int { return len(p.argTypes) }

// ArgType returns the declared type of argument position i.
func (p *Predicate) ArgType(i int) *Type { return p.argTypes[i] }

func (p *Predicate) String() string { return p.name }
