// Package typeops is the type-operation registry of spec §6: a table
// mapping (operator, operand-type, operand-type) to a descriptor naming
// the result type and the runtime ABI helper the code generator must
// call, plus a fast-path flag for operand pairs the generator can lower
// directly to an LLVM instruction instead of a runtime call.
//
// The table shape is grounded on the teacher's ir/validate.go lutExp /
// lutAssign boolean lookup tables, generalized from a fixed 2x2
// int/float array to an open map since this spec's type lattice
// includes parameterised containers and `any`.
package typeops

import "pyilc/src/types"

// BinaryDescriptor describes how to lower one (op, lhs, rhs) triple.
type BinaryDescriptor struct {
	ResultID int    // Type id of the expression's result.
	Runtime  string // Runtime ABI helper name, e.g. "py_object_add".
	Fast     bool   // True if the op may be lowered inline when both operands are unboxed primitives (int/double mixes included).
}

type binKey struct {
	Op  string
	LHS int
	RHS int
}

var binaryTable = map[binKey]BinaryDescriptor{}

func reg(op string, lhs, rhs int, d BinaryDescriptor) {
	binaryTable[binKey{op, lhs, rhs}] = d
}

func init() {
	arith := []string{"+", "-", "*", "/", "//", "%"}
	runtimeName := map[string]string{
		"+": "py_object_add", "-": "py_object_subtract", "*": "py_object_multiply",
		"/": "py_object_divide", "//": "py_object_floordiv", "%": "py_object_modulo",
	}
	numeric := []int{types.IntID, types.DoubleID}
	for _, op := range arith {
		for _, l := range numeric {
			for _, r := range numeric {
				result := types.IntID
				if l == types.DoubleID || r == types.DoubleID || op == "/" {
					result = types.DoubleID
				}
				reg(op, l, r, BinaryDescriptor{ResultID: result, Runtime: runtimeName[op], Fast: true})
			}
		}
		// String concatenation overloads `+` only (SPEC_FULL.md §4:
		// (PLUS, string, string) -> py_object_add, the same generic
		// runtime entry point the numeric cases above already use).
		if op == "+" {
			reg(op, types.StringID, types.StringID, BinaryDescriptor{ResultID: types.StringID, Runtime: "py_object_add"})
		}
	}

	relational := []string{"<", ">", "<=", ">=", "==", "!="}
	for _, op := range relational {
		for _, l := range numeric {
			for _, r := range numeric {
				reg(op, l, r, BinaryDescriptor{ResultID: types.BoolID, Runtime: "py_object_compare", Fast: true})
			}
		}
		reg(op, types.StringID, types.StringID, BinaryDescriptor{ResultID: types.BoolID, Runtime: "py_object_compare"})
		reg(op, types.BoolID, types.BoolID, BinaryDescriptor{ResultID: types.BoolID, Runtime: "py_object_compare", Fast: true})
	}
	// `==`/`!=` are defined for any reference-type pair by identity or
	// structural comparison dispatch at the runtime layer.
	reg("==", types.AnyID, types.AnyID, BinaryDescriptor{ResultID: types.BoolID, Runtime: "py_object_compare"})
	reg("!=", types.AnyID, types.AnyID, BinaryDescriptor{ResultID: types.BoolID, Runtime: "py_object_compare"})

	for _, op := range []string{"is", "is not"} {
		reg(op, types.AnyID, types.AnyID, BinaryDescriptor{ResultID: types.BoolID, Runtime: "py_object_is"})
	}
	for _, op := range []string{"in", "not in"} {
		reg(op, types.AnyID, types.ListID, BinaryDescriptor{ResultID: types.BoolID, Runtime: "py_container_contains"})
		reg(op, types.AnyID, types.DictID, BinaryDescriptor{ResultID: types.BoolID, Runtime: "py_container_contains"})
		reg(op, types.AnyID, types.SetID, BinaryDescriptor{ResultID: types.BoolID, Runtime: "py_container_contains"})
	}

	reg("and", types.BoolID, types.BoolID, BinaryDescriptor{ResultID: types.BoolID, Fast: true})
	reg("or", types.BoolID, types.BoolID, BinaryDescriptor{ResultID: types.BoolID, Fast: true})
}

// Lookup resolves a binary operator applied to (lhs, rhs) concrete type
// ids. If neither the exact pair nor its base-id pair is registered,
// the op's (any, any) entry is used whatever the operand types, so
// boxed/dynamically typed operands still get a runtime dispatch path
// (spec §5: any-typed operands are boxed and dispatched at the call
// site). An op with no (any, any) entry fails the lookup.
func Lookup(op string, lhsID, rhsID int) (BinaryDescriptor, bool) {
	if d, ok := binaryTable[binKey{op, lhsID, rhsID}]; ok {
		return d, true
	}
	lb, rb := types.BaseID(lhsID), types.BaseID(rhsID)
	if d, ok := binaryTable[binKey{op, lb, rb}]; ok {
		return d, true
	}
	if d, ok := binaryTable[binKey{op, types.AnyID, types.AnyID}]; ok {
		return d, true
	}
	return BinaryDescriptor{}, false
}

// FindOperablePath reports the common numeric type ids should be
// widened to before lhsID/rhsID can be combined by op, following the
// int->double widening rule of spec §4.5. Returns (0, false) when no
// widening applies (the pair is either already directly operable or
// not numeric at all).
func FindOperablePath(op string, lhsID, rhsID int) (commonID int, ok bool) {
	if lhsID == rhsID {
		return 0, false
	}
	isNum := func(id int) bool { return id == types.IntID || id == types.DoubleID }
	if isNum(lhsID) && isNum(rhsID) {
		return types.DoubleID, true
	}
	return 0, false
}
