// Tests the interned type registry and PyType assignability relation
// of spec §4.5/§6, in the pack's testify style (DESIGN.md "Test
// tooling").
package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStableTypeIDNamespace(t *testing.T) {
	assert.Equal(t, 0, NoneID)
	assert.Equal(t, 1, IntID)
	assert.Equal(t, 2, DoubleID)
	assert.Equal(t, 3, BoolID)
	assert.Equal(t, 4, StringID)
	assert.Equal(t, 5, ListID)
	assert.Equal(t, 6, DictID)
	assert.Equal(t, 7, TupleID)
	assert.Equal(t, 8, SetID)
	assert.Equal(t, 9, FunctionID)
	assert.Equal(t, 10, ModuleID)
	assert.Equal(t, 11, ClassID)
	assert.Equal(t, 50, AnyID)
}

func TestRegistryInterningIsIdempotent(t *testing.T) {
	reg := Global()
	intObj := reg.ByID(IntID)
	listA := reg.ListOf(intObj)
	listB := reg.ListOf(intObj)
	assert.Same(t, listA, listB, "ListOf(int) must return the same interned instance every call")
	assert.Equal(t, ListBase+IntID, listA.ID)
}

func TestBaseIDCollapsesParameterisedIDs(t *testing.T) {
	reg := Global()
	listOfInt := reg.ListOf(reg.ByID(IntID))
	assert.Equal(t, ListID, BaseID(listOfInt.ID))

	dictOfIntInt := reg.DictOf(reg.ByID(IntID), reg.ByID(IntID))
	assert.Equal(t, DictID, BaseID(dictOfIntInt.ID))

	assert.Equal(t, NoneID, BaseID(NoneID))
}

func TestCanAssignToIdentity(t *testing.T) {
	i := Of(Global().ByID(IntID))
	assert.True(t, i.CanAssignTo(i))
}

func TestCanAssignToAnyIsUniversalTarget(t *testing.T) {
	i := Of(Global().ByID(IntID))
	any := Any()
	assert.True(t, i.CanAssignTo(any))
}

// TestCanAssignToIntWidensToDouble checks spec §4.5's int->double
// widening rule.
func TestCanAssignToIntWidensToDouble(t *testing.T) {
	i := Of(Global().ByID(IntID))
	d := Of(Global().ByID(DoubleID))
	assert.True(t, i.CanAssignTo(d))
	assert.False(t, d.CanAssignTo(i), "double must not narrow to int")
}

func TestCanAssignToRejectsUnrelatedTypes(t *testing.T) {
	s := Of(Global().ByID(StringID))
	i := Of(Global().ByID(IntID))
	assert.False(t, s.CanAssignTo(i))
}

// TestCanAssignToListOfCompatibleElements checks container
// compatibility per spec §4.5: list[int] can assign to list[any] since
// int can assign to any, but not vice versa.
func TestCanAssignToListOfCompatibleElements(t *testing.T) {
	reg := Global()
	listOfInt := Of(reg.ListOf(reg.ByID(IntID)))
	listOfAny := Of(reg.ListOf(reg.ByID(AnyID)))
	assert.True(t, listOfInt.CanAssignTo(listOfAny))
	assert.False(t, listOfAny.CanAssignTo(listOfInt))
}

func TestFromStringParsesNestedGenerics(t *testing.T) {
	pt := FromString("dict[string, list[int]]")
	require.NotNil(t, pt)
	assert.Equal(t, DictID, BaseID(pt.ID()))
	obj := pt.Obj()
	require.NotNil(t, obj.Key)
	require.NotNil(t, obj.Val)
	assert.Equal(t, StringID, obj.Key.ID)
	assert.Equal(t, ListID, BaseID(obj.Val.ID))
}

func TestFromStringUnknownNameResolvesToAny(t *testing.T) {
	pt := FromString("NotARealType")
	assert.True(t, pt.IsAny())
}
