// Package types implements the interned ObjectType descriptors, the
// PyType wrapper AST nodes carry, and the global type registry (C5).
//
// The id-with-string-table idiom is grounded on the teacher's
// src/ir/lir/types/types.go (DataType/ArithmeticOperation enums with
// parallel [...]string name tables), widened here from a closed 5-value
// enum to an open, interned registry since this spec's type lattice
// includes unbounded parameterised containers (list<T>, dict<K,V>).
package types

import "fmt"

// Category classifies an ObjectType for dispatch purposes.
type Category int

const (
	Primitive Category = iota
	Container
	FunctionCat
	AnyCat
)

// Stable type-id namespace (spec §6): used in LLVM IR metadata and by
// the runtime ABI, so these numbers must never be renumbered.
const (
	NoneID     = 0
	IntID      = 1
	DoubleID   = 2
	BoolID     = 3
	StringID   = 4
	ListID     = 5
	DictID     = 6
	TupleID    = 7
	SetID      = 8
	FunctionID = 9
	ModuleID   = 10
	ClassID    = 11

	AnyID = 50

	ListBase    = 100 // Parameterised list<T> ids start here: ListBase + elemID.
	DictBase    = 200 // Parameterised dict<K,V> ids: DictBase + keyID*100 + valID; can run past PointerBase (see BaseID).
	PointerBase = 400
)

// Feature names used by feature predicates (spec §4.5).
const (
	FeatReference = "reference"
	FeatContainer = "container"
	FeatSequence  = "sequence"
	FeatNumeric   = "numeric"
	FeatIterable  = "iterable"
)

// ObjectType is an immutable, interned type descriptor. Equality is by
// ID, never by deep structural comparison.
type ObjectType struct {
	ID       int
	Name     string
	Category Category
	Features map[string]bool
	// Elem/Key/Val are set for parameterised container types; nil for
	// primitives and non-parameterised container bases.
	Elem *ObjectType
	Key  *ObjectType
	Val  *ObjectType
}

func (t *ObjectType) HasFeature(f string) bool {
	if t == nil || t.Features == nil {
		return false
	}
	return t.Features[f]
}

func (t *ObjectType) String() string {
	if t == nil {
		return "<nil type>"
	}
	return t.Name
}

// BaseID collapses a parameterised type id to its container base id,
// per spec §3 ("the function base-id(id) collapses parameterised ids to
// their base").
func BaseID(id int) int {
	// Parameterised ids can leave their band (a dict keyed by string
	// already lands above PointerBase), so a registered container type
	// is classified by its own components first.
	if t := Global().ByID(id); t != nil {
		switch {
		case t.Key != nil:
			return DictID
		case t.Elem != nil:
			return ListID
		}
	}
	switch {
	case id >= PointerBase:
		return PointerBase
	case id >= DictBase && id < PointerBase:
		return DictID
	case id >= ListBase && id < DictBase:
		return ListID
	default:
		return id
	}
}

// Registry is the process-wide, lazily-initialised, read-only-after-init
// store of interned ObjectType instances (spec §5's "three process-wide
// singletons").
type Registry struct {
	byID       map[int]*ObjectType
	byName     map[string]*ObjectType
	listCache  map[int]*ObjectType
	dictCache  map[[2]int]*ObjectType
	funcByName map[string]*FunctionSig
}

// FunctionSig records a function's resolved parameter/return types so
// later call sites in the code generator can type-check calls, populated
// by the code generator as each function is emitted (spec §4.5).
type FunctionSig struct {
	Name       string
	ParamTypes []*ObjectType
	ReturnType *ObjectType
	// ReturnsFunc is the name of the function this one's body always
	// returns a bare reference to (e.g. `def g(): return h`), when that
	// can be determined statically; empty otherwise. It lets the code
	// generator resolve a chained call like g()() to h's own call site
	// without any runtime indirection (spec §4 chained-call supplement).
	ReturnsFunc string
}

var global *Registry

// Global returns the process-wide type registry, initialising it on
// first use.
func Global() *Registry {
	if global == nil {
		global = newRegistry()
	}
	return global
}

func newRegistry() *Registry {
	r := &Registry{
		byID:       make(map[int]*ObjectType),
		byName:     make(map[string]*ObjectType),
		listCache:  make(map[int]*ObjectType),
		dictCache:  make(map[[2]int]*ObjectType),
		funcByName: make(map[string]*FunctionSig),
	}
	prim := func(id int, name string, features ...string) {
		t := &ObjectType{ID: id, Name: name, Category: Primitive, Features: featSet(features...)}
		r.byID[id] = t
		r.byName[name] = t
	}
	prim(NoneID, "none")
	prim(IntID, "int", FeatNumeric)
	prim(DoubleID, "double", FeatNumeric)
	prim(BoolID, "bool")
	prim(StringID, "string", FeatReference, FeatSequence, FeatIterable)

	cont := func(id int, name string, features ...string) {
		t := &ObjectType{ID: id, Name: name, Category: Container, Features: featSet(features...)}
		r.byID[id] = t
		r.byName[name] = t
	}
	cont(ListID, "list", FeatReference, FeatContainer, FeatSequence, FeatIterable)
	cont(DictID, "dict", FeatReference, FeatContainer, FeatIterable)
	cont(TupleID, "tuple", FeatReference, FeatContainer, FeatSequence, FeatIterable)
	cont(SetID, "set", FeatReference, FeatContainer, FeatIterable)

	r.byID[FunctionID] = &ObjectType{ID: FunctionID, Name: "function", Category: FunctionCat, Features: featSet(FeatReference)}
	r.byName["function"] = r.byID[FunctionID]
	r.byID[ModuleID] = &ObjectType{ID: ModuleID, Name: "module", Category: FunctionCat, Features: featSet(FeatReference)}
	r.byName["module"] = r.byID[ModuleID]
	r.byID[ClassID] = &ObjectType{ID: ClassID, Name: "class", Category: FunctionCat, Features: featSet(FeatReference)}
	r.byName["class"] = r.byID[ClassID]

	any := &ObjectType{ID: AnyID, Name: "any", Category: AnyCat, Features: featSet(FeatReference)}
	r.byID[AnyID] = any
	r.byName["any"] = any

	return r
}

func featSet(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

// ByName returns the interned type with the given name, or nil.
func (r *Registry) ByName(name string) *ObjectType {
	return r.byName[name]
}

// ByID returns the interned type with the given id, or nil.
func (r *Registry) ByID(id int) *ObjectType {
	return r.byID[id]
}

// ListOf returns the interned list<elem> type, constructing and caching
// it on first request.
func (r *Registry) ListOf(elem *ObjectType) *ObjectType {
	if elem == nil {
		elem = r.byID[AnyID]
	}
	if t, ok := r.listCache[elem.ID]; ok {
		return t
	}
	t := &ObjectType{
		ID:       ListBase + elem.ID,
		Name:     fmt.Sprintf("list[%s]", elem.Name),
		Category: Container,
		Features: featSet(FeatReference, FeatContainer, FeatSequence, FeatIterable),
		Elem:     elem,
	}
	r.listCache[elem.ID] = t
	r.byID[t.ID] = t
	return t
}

// DictOf returns the interned dict<key,val> type, constructing and
// caching it on first request. Component ids are assumed small (spec's
// "small integer range" builtin bands), matching the teacher's
// fixed-size assumption in ir/lir/types.
func (r *Registry) DictOf(key, val *ObjectType) *ObjectType {
	if key == nil {
		key = r.byID[AnyID]
	}
	if val == nil {
		val = r.byID[AnyID]
	}
	k := [2]int{key.ID, val.ID}
	if t, ok := r.dictCache[k]; ok {
		return t
	}
	t := &ObjectType{
		ID:       DictBase + key.ID*100 + val.ID,
		Name:     fmt.Sprintf("dict[%s,%s]", key.Name, val.Name),
		Category: Container,
		Features: featSet(FeatReference, FeatContainer, FeatIterable),
		Key:      key,
		Val:      val,
	}
	r.dictCache[k] = t
	r.byID[t.ID] = t
	return t
}

// RegisterFunction records fn's signature so later call sites can look
// it up by name (spec §4.5: "populated by the code generator when a
// function is emitted so later call sites see the signature").
func (r *Registry) RegisterFunction(sig *FunctionSig) {
	r.funcByName[sig.Name] = sig
}

// FunctionSignature looks up a previously registered function signature.
func (r *Registry) FunctionSignature(name string) (*FunctionSig, bool) {
	sig, ok := r.funcByName[name]
	return sig, ok
}
