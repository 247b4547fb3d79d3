// Tests the (op, lhs-id, rhs-id) -> descriptor registry grounded on the
// teacher's lutExp/lutAssign tables (DESIGN.md "types (C5) / typeops
// (C6)"), in the pack's testify style.
package typeops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pyilc/src/types"
)

func TestLookupIntPlusIntFastPath(t *testing.T) {
	d, ok := Lookup("+", types.IntID, types.IntID)
	require.True(t, ok)
	assert.True(t, d.Fast)
	assert.Equal(t, types.IntID, d.ResultID)
}

// TestLookupIntPlusDoubleWidensResult checks spec §4.5 int/double mixed
// arithmetic promotes to double.
func TestLookupIntPlusDoubleWidensResult(t *testing.T) {
	d, ok := Lookup("+", types.IntID, types.DoubleID)
	require.True(t, ok)
	assert.Equal(t, types.DoubleID, d.ResultID)
}

func TestLookupDivisionAlwaysProducesDouble(t *testing.T) {
	d, ok := Lookup("/", types.IntID, types.IntID)
	require.True(t, ok)
	assert.Equal(t, types.DoubleID, d.ResultID)
}

func TestLookupStringConcat(t *testing.T) {
	d, ok := Lookup("+", types.StringID, types.StringID)
	require.True(t, ok)
	assert.Equal(t, types.StringID, d.ResultID)
	assert.Equal(t, "py_object_add", d.Runtime)
}

func TestLookupRelationalProducesBool(t *testing.T) {
	d, ok := Lookup("<", types.IntID, types.DoubleID)
	require.True(t, ok)
	assert.Equal(t, types.BoolID, d.ResultID)
}

// TestLookupFallsBackToAnyAny checks an unregistered concrete pair
// (e.g. two different class instances) still resolves via the `any`
// fallback, since spec §5 boxes and dispatches unknown pairs at
// runtime.
func TestLookupFallsBackToAnyAny(t *testing.T) {
	d, ok := Lookup("==", 12345, 67890)
	require.True(t, ok, "expected any/any fallback to resolve")
	assert.Equal(t, "py_object_compare", d.Runtime)
}

func TestLookupUnknownOperatorFails(t *testing.T) {
	_, ok := Lookup("@@@", types.IntID, types.IntID)
	assert.False(t, ok)
}

func TestLookupContainsOperators(t *testing.T) {
	d, ok := Lookup("in", types.AnyID, types.ListID)
	require.True(t, ok)
	assert.Equal(t, types.BoolID, d.ResultID)
	assert.Equal(t, "py_container_contains", d.Runtime)
}

func TestLookupUnaryNegation(t *testing.T) {
	d, ok := LookupUnary("-", types.IntID)
	require.True(t, ok)
	assert.True(t, d.Fast)
	assert.Equal(t, types.IntID, d.ResultID)
}

func TestLookupUnaryNotOnAnyUsesRuntime(t *testing.T) {
	d, ok := LookupUnary("not", types.AnyID)
	require.True(t, ok)
	assert.False(t, d.Fast)
	assert.Equal(t, "py_object_truthy", d.Runtime)
}

func TestLookupConvertIdentity(t *testing.T) {
	d, ok := LookupConvert(types.IntID, types.IntID)
	require.True(t, ok)
	assert.True(t, d.Fast)
}

func TestLookupConvertIntToDouble(t *testing.T) {
	d, ok := LookupConvert(types.IntID, types.DoubleID)
	require.True(t, ok)
	assert.True(t, d.Fast)
	assert.Equal(t, "py_convert_int_to_double", d.Runtime)
}

func TestLookupConvertToAnyFallsBackToBox(t *testing.T) {
	d, ok := LookupConvert(types.IntID, types.AnyID)
	require.True(t, ok)
	assert.Equal(t, "py_box", d.Runtime)
}

// TestCompareCodeMatchesRuntimeABI checks the numeric encoding spec §6
// fixes for py_object_compare's third argument.
func TestCompareCodeMatchesRuntimeABI(t *testing.T) {
	cases := map[string]CompareCode{
		"==": CmpEQ, "!=": CmpNE, "<": CmpLT, "<=": CmpLE, ">": CmpGT, ">=": CmpGE,
	}
	for op, want := range cases {
		got, ok := LookupCompareCode(op)
		require.True(t, ok, "missing compare code for %q", op)
		assert.Equal(t, want, got, "compare code for %q", op)
	}
	assert.Equal(t, CompareCode(0), CmpEQ)
	assert.Equal(t, CompareCode(1), CmpNE)
	assert.Equal(t, CompareCode(2), CmpLT)
	assert.Equal(t, CompareCode(3), CmpLE)
	assert.Equal(t, CompareCode(4), CmpGT)
	assert.Equal(t, CompareCode(5), CmpGE)
}
