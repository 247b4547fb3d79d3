package typeops

import "pyilc/src/types"

// ConvertDescriptor names the runtime helper that converts a value of
// type FromID to ToID, and whether the conversion can be lowered
// directly to an LLVM cast instruction instead.
type ConvertDescriptor struct {
	Runtime string
	Fast    bool
}

type convKey struct{ From, To int }

var convertTable = map[convKey]ConvertDescriptor{
	{types.IntID, types.DoubleID}:  {Runtime: "py_convert_int_to_double", Fast: true},
	{types.DoubleID, types.IntID}:  {Runtime: "py_convert_double_to_int", Fast: true},
	{types.IntID, types.BoolID}:    {Runtime: "py_convert_int_to_bool"},
	{types.BoolID, types.IntID}:    {Runtime: "py_convert_bool_to_int", Fast: true},
	{types.IntID, types.StringID}:  {Runtime: "py_convert_int_to_string"},
	{types.DoubleID, types.StringID}: {Runtime: "py_convert_double_to_string"},
	{types.BoolID, types.StringID}: {Runtime: "py_convert_bool_to_string"},
}

// LookupConvert resolves the conversion from fromID to toID, consulting
// the container-agnostic BaseID when no exact entry is found for a
// parameterised pair.
func LookupConvert(fromID, toID int) (ConvertDescriptor, bool) {
	if fromID == toID {
		return ConvertDescriptor{Fast: true}, true
	}
	if d, ok := convertTable[convKey{fromID, toID}]; ok {
		return d, true
	}
	if d, ok := convertTable[convKey{types.BaseID(fromID), types.BaseID(toID)}]; ok {
		return d, true
	}
	if toID == types.AnyID {
		return ConvertDescriptor{Runtime: "py_box"}, true
	}
	return ConvertDescriptor{}, false
}

// CompareCode enumerates the comparison codes py_object_compare takes
// as its third argument: 0=eq,1=ne,2=lt,3=le,4=gt,5=ge, per the runtime
// ABI table.
type CompareCode int

const (
	CmpEQ CompareCode = iota
	CmpNE
	CmpLT
	CmpLE
	CmpGT
	CmpGE
)

var compareCodes = map[string]CompareCode{
	"==": CmpEQ, "!=": CmpNE, "<": CmpLT, "<=": CmpLE, ">": CmpGT, ">=": CmpGE,
}

// LookupCompareCode maps a relational operator's text to the
// py_object_compare code argument.
func LookupCompareCode(op string) (CompareCode, bool) {
	c, ok := compareCodes[op]
	return c, ok
}
