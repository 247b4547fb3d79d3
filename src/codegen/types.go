package codegen

import (
	"pyilc/src/types"

	"tinygo.org/x/go-llvm"
)

// llvmType resolves pt to the LLVM type used to hold it in a stack slot
// or parameter: unboxed native types for int/double/bool, an opaque
// i8* pointer for every reference type, and void for none (only valid
// as a return type), per spec §4.7/§6.
func llvmType(pt *types.PyType) llvm.Type {
	switch {
	case pt.IsInt():
		return llvm.Int64Type()
	case pt.IsDouble():
		return llvm.DoubleType()
	case pt.IsBool():
		return llvm.Int1Type()
	case pt.IsNone():
		return llvm.VoidType()
	default:
		return llvm.PointerType(llvm.Int8Type(), 0)
	}
}

// isPrimitive reports whether pt is lowered to a native LLVM scalar
// rather than a boxed heap pointer.
func isPrimitive(pt *types.PyType) bool {
	return pt.IsInt() || pt.IsDouble() || pt.IsBool()
}
