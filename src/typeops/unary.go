package typeops

import "pyilc/src/types"

// UnaryDescriptor describes how to lower a unary operator applied to
// one operand type.
type UnaryDescriptor struct {
	ResultID int
	Runtime  string
	Fast     bool
}

type unKey struct {
	Op      string
	Operand int
}

var unaryTable = map[unKey]UnaryDescriptor{}

func init() {
	unaryTable[unKey{"-", types.IntID}] = UnaryDescriptor{ResultID: types.IntID, Fast: true}
	unaryTable[unKey{"-", types.DoubleID}] = UnaryDescriptor{ResultID: types.DoubleID, Fast: true}
	unaryTable[unKey{"+", types.IntID}] = UnaryDescriptor{ResultID: types.IntID, Fast: true}
	unaryTable[unKey{"+", types.DoubleID}] = UnaryDescriptor{ResultID: types.DoubleID, Fast: true}
	unaryTable[unKey{"not", types.BoolID}] = UnaryDescriptor{ResultID: types.BoolID, Fast: true}
	unaryTable[unKey{"not", types.AnyID}] = UnaryDescriptor{ResultID: types.BoolID, Runtime: "py_object_truthy"}
}

// LookupUnary resolves a unary operator applied to operandID.
func LookupUnary(op string, operandID int) (UnaryDescriptor, bool) {
	if d, ok := unaryTable[unKey{op, operandID}]; ok {
		return d, true
	}
	if d, ok := unaryTable[unKey{op, types.BaseID(operandID)}]; ok {
		return d, true
	}
	return UnaryDescriptor{}, false
}
