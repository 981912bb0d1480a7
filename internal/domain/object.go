package domain

// Object is an immutable, typed ground term from the planning problem
// instance. Objects are never created by the engine; they are supplied by
// the caller as part of the problem instance (spec.md §3, "Object (external)").
type Object struct {
	name string
	typ  *Type
	// grounded marks an object that stands for a constant parameter of the
	// domain (e.g. a specific truck or location) rather than a value the
	// relaxed reachability analysis is trying to merge with others. Grounded
	// objects seed grounded EOGs (spec.md §4.3, EOG-3).
	grounded bool
}

// NewObject creates a non-grounded object of the given type.
func NewObject(name string, typ *Type) Object {
	return Object{name: name, typ: typ}
}

// NewGroundedObject creates an object whose EOG will never merge with
// another (e.g. a specific location or vehicle named directly in the
// problem instance).
func NewGroundedObject(name string, typ *Type) Object {
	return Object{name: name, typ: typ, grounded: true}
}

// Name is the object's identifier, unique within a problem instance.
func (o Object) Name() string { return o.name }

// Type returns the object's static type.
func (o Object) Type() *Type { return o.typ }

// Grounded reports whether this object's EOG is frozen (spec.md EOG-3).
func (o Object) Grounded() bool { return o.grounded }

func (o Object) String() string { return o.name }
