package codegen

import (
	"pyilc/src/types"

	"tinygo.org/x/go-llvm"
)

// ensurePythonObject upgrades v (of static type pt) to a heap object
// pointer if it is not one already, per spec §4.7's
// `ensure-python-object(value, type)`. Idempotent: a value that is
// already a pointer is returned unchanged.
func (g *Generator) ensurePythonObject(v llvm.Value, pt *types.PyType) llvm.Value {
	if isPrimitive(pt) && !v.IsNil() && v.Type().TypeKind() == llvm.PointerTypeKind {
		return v
	}
	switch {
	case pt.IsInt():
		boxed := g.b.CreateCall(g.runtimeFunc("py_create_int"), []llvm.Value{v}, "")
		g.attachTypeID(boxed, types.IntID)
		g.trackTemp(boxed)
		return boxed
	case pt.IsDouble():
		boxed := g.b.CreateCall(g.runtimeFunc("py_create_double"), []llvm.Value{v}, "")
		g.attachTypeID(boxed, types.DoubleID)
		g.trackTemp(boxed)
		return boxed
	case pt.IsBool():
		boxed := g.b.CreateCall(g.runtimeFunc("py_create_bool"), []llvm.Value{v}, "")
		g.attachTypeID(boxed, types.BoolID)
		g.trackTemp(boxed)
		return boxed
	default:
		// Already a reference: boxing is a no-op.
		return v
	}
}

// extractPrimitive is the inverse of ensurePythonObject: it lowers a
// boxed value back to a native register value of static type pt.
// Idempotent: an already-primitive value is returned unchanged.
func (g *Generator) extractPrimitive(v llvm.Value, pt *types.PyType) llvm.Value {
	switch {
	case pt.IsInt():
		if v.Type().TypeKind() == llvm.IntegerTypeKind {
			return v
		}
		return g.b.CreateCall(g.runtimeFunc("py_extract_int"), []llvm.Value{v}, "")
	case pt.IsDouble():
		if v.Type().TypeKind() == llvm.DoubleTypeKind {
			return v
		}
		return g.b.CreateCall(g.runtimeFunc("py_extract_double"), []llvm.Value{v}, "")
	case pt.IsBool():
		if v.Type().TypeKind() == llvm.IntegerTypeKind && v.Type().IntTypeWidth() == 1 {
			return v
		}
		return g.b.CreateCall(g.runtimeFunc("py_extract_bool"), []llvm.Value{v}, "")
	default:
		return v
	}
}

// coerce converts v (of static type from) to static type to, used at
// assignment, parameter-binding, and return sites (spec §4.5
// assignability / §4.7 parameter and return coercion).
func (g *Generator) coerce(v llvm.Value, from, to *types.PyType) llvm.Value {
	if from.Equals(to) {
		return v
	}
	if to.IsAny() {
		boxed := g.ensurePythonObject(v, from)
		converted := g.b.CreateCall(g.runtimeFunc("py_convert_any_preserve_type"), []llvm.Value{boxed}, "")
		if !from.IsAny() {
			g.attachPtrType(converted, from.ID())
		}
		return converted
	}
	if from.IsInt() && to.IsDouble() {
		if isPrimitive(from) && isPrimitive(to) {
			return g.b.CreateSIToFP(v, llvm.DoubleType(), "")
		}
	}
	if isPrimitive(from) && isPrimitive(to) {
		return v
	}
	// Mixed primitive/reference: box the primitive side down to a
	// pointer, or extract the reference side's primitive payload.
	if isPrimitive(from) && !isPrimitive(to) {
		return g.ensurePythonObject(v, from)
	}
	if !isPrimitive(from) && isPrimitive(to) {
		return g.extractPrimitive(v, to)
	}
	return v
}
