package types

import "strings"

// PyType is the thin wrapper AST nodes hold in their type slot. It
// delegates to the underlying interned ObjectType for every predicate,
// per spec §4.5.
type PyType struct {
	obj *ObjectType
}

// Of wraps an interned ObjectType in a PyType.
func Of(obj *ObjectType) *PyType {
	if obj == nil {
		return nil
	}
	return &PyType{obj: obj}
}

// Any returns the PyType for the "any" type, the default type slot a
// freshly constructed expression node carries until the parser or code
// generator narrows it.
func Any() *PyType {
	return Of(Global().ByID(AnyID))
}

func (t *PyType) Obj() *ObjectType {
	if t == nil {
		return nil
	}
	return t.obj
}

func (t *PyType) ID() int {
	if t == nil || t.obj == nil {
		return AnyID
	}
	return t.obj.ID
}

func (t *PyType) Name() string {
	if t == nil || t.obj == nil {
		return "any"
	}
	return t.obj.Name
}

func (t *PyType) IsInt() bool    { return t.ID() == IntID }
func (t *PyType) IsDouble() bool { return t.ID() == DoubleID }
func (t *PyType) IsBool() bool   { return t.ID() == BoolID }
func (t *PyType) IsString() bool { return t.ID() == StringID }
func (t *PyType) IsNone() bool   { return t.ID() == NoneID }
func (t *PyType) IsAny() bool    { return t.ID() == AnyID }

func (t *PyType) IsReference() bool { return t.obj.HasFeature(FeatReference) || t.IsAny() }
func (t *PyType) IsContainer() bool { return t.obj.HasFeature(FeatContainer) }
func (t *PyType) IsNumeric() bool   { return t.obj.HasFeature(FeatNumeric) }
func (t *PyType) IsIterable() bool  { return t.obj.HasFeature(FeatIterable) }

// Equals compares two PyTypes by their underlying ObjectType id.
func (t *PyType) Equals(other *PyType) bool {
	return t.ID() == other.ID()
}

// CanAssignTo implements the assignability relation of spec §4.5:
// id equality, target is `any`, int->double widening, or structurally
// compatible containers.
func (t *PyType) CanAssignTo(target *PyType) bool {
	if t.ID() == target.ID() {
		return true
	}
	if target.IsAny() {
		return true
	}
	if t.IsInt() && target.IsDouble() {
		return true
	}
	if t.IsContainer() && target.IsContainer() {
		to, tt := t.Obj(), target.Obj()
		if to.Elem != nil && tt.Elem != nil {
			return Of(to.Elem).CanAssignTo(Of(tt.Elem))
		}
		if to.Key != nil && tt.Key != nil {
			return Of(to.Key).CanAssignTo(Of(tt.Key)) && Of(to.Val).CanAssignTo(Of(tt.Val))
		}
		return BaseID(t.ID()) == BaseID(target.ID())
	}
	return false
}

// FromString parses a type annotation using the same grammar as the
// parser's type-annotation sub-parser (spec §4.4): bare identifiers, and
// the recursive generic forms list[T] and dict[K, V]. Unknown names
// resolve to `any`.
func FromString(s string) *PyType {
	s = strings.TrimSpace(s)
	if s == "" {
		return Any()
	}
	reg := Global()
	if strings.HasPrefix(s, "list[") && strings.HasSuffix(s, "]") {
		inner := s[len("list[") : len(s)-1]
		elem := FromString(inner)
		return Of(reg.ListOf(elem.Obj()))
	}
	if strings.HasPrefix(s, "dict[") && strings.HasSuffix(s, "]") {
		inner := s[len("dict[") : len(s)-1]
		parts := splitTopLevelComma(inner)
		if len(parts) != 2 {
			return Any()
		}
		key := FromString(parts[0])
		val := FromString(parts[1])
		return Of(reg.DictOf(key.Obj(), val.Obj()))
	}
	if obj := reg.ByName(s); obj != nil {
		return Of(obj)
	}
	return Any()
}

// splitTopLevelComma splits s on commas that are not nested inside
// brackets, so "dict[list[int], int]" splits correctly.
func splitTopLevelComma(s string) []string {
	depth := 0
	start := 0
	var parts []string
	for i, r := range s {
		switch r {
		case '[':
			depth++
		case ']':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	parts = append(parts, strings.TrimSpace(s[start:]))
	return parts
}
