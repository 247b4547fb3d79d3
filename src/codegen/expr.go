package codegen

import (
	"strconv"

	"pyilc/src/ast"
	"pyilc/src/types"
	"pyilc/src/typeops"

	"tinygo.org/x/go-llvm"
)

// genExpr dispatches on the AST expression's concrete kind, grounded on
// the teacher's genExpression but generalized from the teacher's single
// arithmetic-expression node to the full closed Expr union (spec §4.7:
// "a dispatch table maps each AST node kind to a visitor").
func (g *Generator) genExpr(fn llvm.Value, e ast.Expr) (llvm.Value, *types.PyType) {
	switch n := e.(type) {
	case *ast.Number:
		return g.genNumber(n)
	case *ast.String:
		return g.genString(n)
	case *ast.Bool:
		return llvm.ConstInt(llvm.Int1Type(), boolToUint(n.Value), false), n.Type()
	case *ast.None:
		v := g.b.CreateCall(g.runtimeFunc("py_get_none"), nil, "")
		return v, n.Type()
	case *ast.Variable:
		return g.genVariable(n)
	case *ast.Unary:
		return g.genUnary(fn, n)
	case *ast.Binary:
		return g.genBinary(fn, n)
	case *ast.Call:
		return g.genCall(fn, n)
	case *ast.Index:
		return g.genIndex(fn, n)
	case *ast.List:
		return g.genListLiteral(fn, n)
	case *ast.Dict:
		return g.genDictLiteral(fn, n)
	default:
		g.errorf(e.Position(), "unsupported expression node %T", e)
		return llvm.Value{}, types.Any()
	}
}

func boolToUint(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

func (g *Generator) genNumber(n *ast.Number) (llvm.Value, *types.PyType) {
	if n.Kind == ast.FloatKind {
		f, _ := strconv.ParseFloat(n.Text, 64)
		return llvm.ConstFloat(llvm.DoubleType(), f), n.Type()
	}
	i, _ := strconv.ParseInt(n.Text, 10, 64)
	return llvm.ConstInt(llvm.Int64Type(), uint64(i), true), n.Type()
}

func (g *Generator) genString(n *ast.String) (llvm.Value, *types.PyType) {
	gs := g.b.CreateGlobalStringPtr(n.Value, "")
	v := g.b.CreateCall(g.runtimeFunc("py_create_string"), []llvm.Value{gs}, "")
	g.attachTypeID(v, types.StringID)
	g.trackTemp(v)
	return v, n.Type()
}

func (g *Generator) genVariable(n *ast.Variable) (llvm.Value, *types.PyType) {
	slot, pt, ok := g.lookupVar(n.Name)
	if !ok {
		g.errorf(n.Position(), "undeclared variable %q", n.Name)
		return llvm.Value{}, types.Any()
	}
	return g.b.CreateLoad(slot, ""), pt
}

// genUnary lowers a unary +/-/not, consulting the unary-op registry for
// the fast-path-vs-runtime-helper decision (spec §4.6/§4.7).
func (g *Generator) genUnary(fn llvm.Value, n *ast.Unary) (llvm.Value, *types.PyType) {
	operand, operandType := g.genExpr(fn, n.Operand)
	desc, ok := typeops.LookupUnary(n.Op, operandType.ID())
	if !ok {
		g.errorf(n.Position(), "unsupported operand type %q for unary %q", operandType.Name(), n.Op)
		return llvm.Value{}, types.Any()
	}
	resultType := types.Of(types.Global().ByID(desc.ResultID))
	if desc.Fast {
		switch n.Op {
		case "-":
			if operandType.IsInt() {
				return g.b.CreateNeg(operand, ""), resultType
			}
			return g.b.CreateFNeg(operand, ""), resultType
		case "+":
			return operand, resultType
		case "not":
			return g.b.CreateNot(operand, ""), resultType
		}
	}
	boxed := g.ensurePythonObject(operand, operandType)
	res := g.b.CreateCall(g.runtimeFunc(desc.Runtime), []llvm.Value{boxed}, "")
	if n.Op == "not" {
		// The runtime helper yields the operand's truth value; `not` negates it.
		return g.b.CreateNot(res, ""), resultType
	}
	g.attachTypeID(res, desc.ResultID)
	g.trackTemp(res)
	return res, resultType
}

// genBinary lowers a binary operator, including short-circuiting
// and/or (phi-merged) and the fast-path-vs-runtime dispatch the type
// operation registry selects (spec §4.7).
func (g *Generator) genBinary(fn llvm.Value, n *ast.Binary) (llvm.Value, *types.PyType) {
	if n.Op == "and" || n.Op == "or" {
		return g.genShortCircuit(fn, n)
	}

	lhs, lhsType := g.genExpr(fn, n.LHS)
	rhs, rhsType := g.genExpr(fn, n.RHS)

	desc, ok := typeops.Lookup(n.Op, lhsType.ID(), rhsType.ID())
	if !ok {
		g.errorf(n.Position(), "unsupported operand combination %q %s %q", lhsType.Name(), n.Op, rhsType.Name())
		return llvm.Value{}, types.Any()
	}
	resultType := types.Of(types.Global().ByID(desc.ResultID))

	if desc.Fast && isPrimitive(lhsType) && isPrimitive(rhsType) {
		if v, ok := g.genFastBinary(n.Op, lhs, rhs, lhsType, rhsType); ok {
			return v, resultType
		}
	}

	lboxed := g.ensurePythonObject(lhs, lhsType)
	rboxed := g.ensurePythonObject(rhs, rhsType)

	if code, ok := typeops.LookupCompareCode(n.Op); ok {
		res := g.b.CreateCall(g.runtimeFunc("py_object_compare"), []llvm.Value{
			lboxed, rboxed, llvm.ConstInt(llvm.Int32Type(), uint64(code), false),
		}, "")
		g.attachTypeID(res, types.BoolID)
		g.attachIsReference(res, true)
		g.trackTemp(res)
		return g.extractPrimitive(res, resultType), resultType
	}

	res := g.b.CreateCall(g.runtimeFunc(desc.Runtime), []llvm.Value{lboxed, rboxed}, "")
	g.attachTypeID(res, desc.ResultID)
	g.attachIsReference(res, !isPrimitive(resultType))
	g.trackTemp(res)
	return res, resultType
}

// genFastBinary lowers an all-primitive binary op directly to native
// LLVM instructions, grounded on the teacher's genRelation int/float
// dual dispatch.
func (g *Generator) genFastBinary(op string, lhs, rhs llvm.Value, lt, rt *types.PyType) (llvm.Value, bool) {
	isFloat := lt.IsDouble() || rt.IsDouble()
	if isFloat {
		if lt.IsInt() {
			lhs = g.b.CreateSIToFP(lhs, llvm.DoubleType(), "")
		}
		if rt.IsInt() {
			rhs = g.b.CreateSIToFP(rhs, llvm.DoubleType(), "")
		}
	}
	switch op {
	case "+":
		if isFloat {
			return g.b.CreateFAdd(lhs, rhs, ""), true
		}
		return g.b.CreateAdd(lhs, rhs, ""), true
	case "-":
		if isFloat {
			return g.b.CreateFSub(lhs, rhs, ""), true
		}
		return g.b.CreateSub(lhs, rhs, ""), true
	case "*":
		if isFloat {
			return g.b.CreateFMul(lhs, rhs, ""), true
		}
		return g.b.CreateMul(lhs, rhs, ""), true
	case "/":
		// True division: int operands are widened so the result is the
		// double the descriptor declares.
		if !isFloat {
			lhs = g.b.CreateSIToFP(lhs, llvm.DoubleType(), "")
			rhs = g.b.CreateSIToFP(rhs, llvm.DoubleType(), "")
		}
		return g.b.CreateFDiv(lhs, rhs, ""), true
	case "//":
		if !isFloat {
			return g.b.CreateSDiv(lhs, rhs, ""), true
		}
		return llvm.Value{}, false
	case "%":
		if isFloat {
			return g.b.CreateFRem(lhs, rhs, ""), true
		}
		return g.b.CreateSRem(lhs, rhs, ""), true
	case "<", ">", "<=", ">=", "==", "!=":
		if isFloat {
			return g.b.CreateFCmp(floatPred(op), lhs, rhs, ""), true
		}
		return g.b.CreateICmp(intPred(op), lhs, rhs, ""), true
	}
	return llvm.Value{}, false
}

func intPred(op string) llvm.IntPredicate {
	switch op {
	case "<":
		return llvm.IntSLT
	case ">":
		return llvm.IntSGT
	case "<=":
		return llvm.IntSLE
	case ">=":
		return llvm.IntSGE
	case "==":
		return llvm.IntEQ
	default:
		return llvm.IntNE
	}
}

func floatPred(op string) llvm.FloatPredicate {
	switch op {
	case "<":
		return llvm.FloatOLT
	case ">":
		return llvm.FloatOGT
	case "<=":
		return llvm.FloatOLE
	case ">=":
		return llvm.FloatOGE
	case "==":
		return llvm.FloatOEQ
	default:
		return llvm.FloatONE
	}
}

// genShortCircuit lowers `and`/`or` as control flow with a phi node
// merging the left short-circuit value and the right-hand boolean
// (spec §4.7).
func (g *Generator) genShortCircuit(fn llvm.Value, n *ast.Binary) (llvm.Value, *types.PyType) {
	lhs, lhsType := g.genExpr(fn, n.LHS)
	lhsBool := lhs
	if !lhsType.IsBool() {
		lhsBool = g.extractPrimitive(g.ensurePythonObject(lhs, lhsType), types.Of(types.Global().ByID(types.BoolID)))
	}

	rhsBlock := llvm.AddBasicBlock(fn, "")
	mergeBlock := llvm.AddBasicBlock(fn, "")
	startBlock := g.b.GetInsertBlock()

	if n.Op == "and" {
		g.b.CreateCondBr(lhsBool, rhsBlock, mergeBlock)
	} else {
		g.b.CreateCondBr(lhsBool, mergeBlock, rhsBlock)
	}

	g.b.SetInsertPointAtEnd(rhsBlock)
	rhs, rhsType := g.genExpr(fn, n.RHS)
	rhsBool := rhs
	if !rhsType.IsBool() {
		rhsBool = g.extractPrimitive(g.ensurePythonObject(rhs, rhsType), types.Of(types.Global().ByID(types.BoolID)))
	}
	rhsEnd := g.b.GetInsertBlock()
	g.b.CreateBr(mergeBlock)

	g.b.SetInsertPointAtEnd(mergeBlock)
	phi := g.b.CreatePHI(llvm.Int1Type(), "")
	phi.AddIncoming([]llvm.Value{lhsBool, rhsBool}, []llvm.BasicBlock{startBlock, rhsEnd})
	return phi, types.Of(types.Global().ByID(types.BoolID))
}

// genCall resolves the callee — a named function, or a chained call
// whose own callee always returns a named function (spec §4's g()()
// supplement) — coerces arguments to their declared parameter types,
// increfs reference-typed arguments at the call site, and tracks a
// reference-typed return as a temporary (spec §4.7).
func (g *Generator) genCall(fn llvm.Value, n *ast.Call) (llvm.Value, *types.PyType) {
	target, sig, ok := g.resolveCallee(fn, n.Callee)
	if !ok {
		return llvm.Value{}, types.Any()
	}

	args := make([]llvm.Value, len(n.Args))
	for i, a := range n.Args {
		v, at := g.genExpr(fn, a)
		if sig != nil && i < len(sig.ParamTypes) {
			pt := types.Of(sig.ParamTypes[i])
			v = g.coerce(v, at, pt)
			if !isPrimitive(pt) {
				g.b.CreateCall(g.runtimeFunc("py_incref"), []llvm.Value{v}, "")
			}
		}
		args[i] = v
	}

	res := g.b.CreateCall(target, args, "")
	var retType *types.PyType
	if sig != nil {
		retType = types.Of(sig.ReturnType)
	} else {
		retType = types.Any()
	}
	if !isPrimitive(retType) && !retType.IsNone() {
		g.attachIsReference(res, true)
		g.trackTemp(res)
	}
	return res, retType
}

// resolveCallee resolves an expression in call position to the LLVM
// function value to invoke and its registered signature. A bare name
// resolves directly. A nested call (`g()()`) first emits the inner
// call for its side effects, then resolves the outer call's target via
// the inner function's statically known ReturnsFunc — not the inner
// call's dynamic result — since the type system never gives an
// arbitrary expression "function" type with a runtime-resolvable
// target (spec §4).
func (g *Generator) resolveCallee(fn llvm.Value, callee ast.Expr) (llvm.Value, *types.FunctionSig, bool) {
	switch c := callee.(type) {
	case *ast.Variable:
		target, ok := g.funcs[c.Name]
		if !ok {
			g.errorf(c.Position(), "undeclared function %q", c.Name)
			return llvm.Value{}, nil, false
		}
		sig, _ := types.Global().FunctionSignature(c.Name)
		return target, sig, true
	case *ast.Call:
		g.genCall(fn, c)
		name := ""
		if sig, ok := types.Global().FunctionSignature(innerCalleeName(c.Callee)); ok {
			name = sig.ReturnsFunc
		}
		if name == "" {
			g.errorf(c.Position(), "call target must resolve to a named function")
			return llvm.Value{}, nil, false
		}
		target, ok := g.funcs[name]
		if !ok {
			g.errorf(c.Position(), "undeclared function %q", name)
			return llvm.Value{}, nil, false
		}
		sig, _ := types.Global().FunctionSignature(name)
		return target, sig, true
	default:
		g.errorf(callee.Position(), "call target must be a named function")
		return llvm.Value{}, nil, false
	}
}

// innerCalleeName reports the function name a (possibly nested) call
// expression's own callee resolves to, or "" if it isn't a bare name.
func innerCalleeName(callee ast.Expr) string {
	if v, ok := callee.(*ast.Variable); ok {
		return v.Name
	}
	return ""
}

// genIndex lowers `target[idx]` to the runtime helper selected by the
// target's static type id; `any`-typed targets get a runtime type-test
// cascade (spec §4.7). Every index expression produces a boxed value
// tagged with a type-id metadata attribute; when the element or value
// type is int, double or bool, that boxed value is then unboxed so the
// result matches its static type.
func (g *Generator) genIndex(fn llvm.Value, n *ast.Index) (llvm.Value, *types.PyType) {
	target, targetType := g.genExpr(fn, n.Target)
	idx, idxType := g.genExpr(fn, n.Idx)

	base := types.BaseID(targetType.ID())
	switch base {
	case types.ListID:
		res := g.b.CreateCall(g.runtimeFunc("py_list_get_item"), []llvm.Value{target, g.indexAsInt32(idx, idxType)}, "")
		elemType := types.Any()
		if targetType.Obj() != nil && targetType.Obj().Elem != nil {
			elemType = types.Of(targetType.Obj().Elem)
		}
		g.attachTypeID(res, elemType.ID())
		g.attachIsReference(res, true)
		g.trackTemp(res)
		return g.extractPrimitive(res, elemType), elemType
	case types.DictID:
		keyBoxed := g.ensurePythonObject(idx, idxType)
		res := g.b.CreateCall(g.runtimeFunc("py_dict_get_item"), []llvm.Value{target, keyBoxed}, "")
		valType := types.Any()
		if targetType.Obj() != nil && targetType.Obj().Val != nil {
			valType = types.Of(targetType.Obj().Val)
		}
		g.attachTypeID(res, valType.ID())
		g.attachIsReference(res, true)
		g.trackTemp(res)
		return g.extractPrimitive(res, valType), valType
	case types.StringID:
		res := g.b.CreateCall(g.runtimeFunc("py_string_get_char"), []llvm.Value{target, g.indexAsInt32(idx, idxType)}, "")
		strType := types.Of(types.Global().ByID(types.StringID))
		g.attachTypeID(res, types.StringID)
		g.attachIsReference(res, true)
		g.trackTemp(res)
		return res, strType
	case types.AnyID:
		res := g.genIndexAnyCascade(fn, target, idx, idxType)
		g.attachTypeID(res, types.AnyID)
		g.attachIsReference(res, true)
		g.trackTemp(res)
		return res, types.Any()
	default:
		g.errorf(n.Position(), "non-indexable target of type %q", targetType.Name())
		return llvm.Value{}, types.Any()
	}
}

// indexAsInt32 coerces idx (of static type idxType) down to the i32
// register value every list/string runtime indexing helper expects.
func (g *Generator) indexAsInt32(idx llvm.Value, idxType *types.PyType) llvm.Value {
	v := g.extractPrimitive(g.ensurePythonObject(idx, idxType), types.Of(types.Global().ByID(types.IntID)))
	if v.Type() != llvm.Int32Type() {
		v = g.b.CreateTrunc(v, llvm.Int32Type(), "")
	}
	return v
}

// genIndexAnyCascade implements the "any"-typed-target runtime type-test
// cascade spec §4.7 calls for: read the boxed target's runtime type id,
// then branch to the list/dict/string getter matching it, merging the
// three results (and a type-error fallback) with a phi node. Per spec
// §5.1's metadata-first-then-fallback discipline, target's own
// py_type_id metadata (when this same SSA value was tagged list, dict or
// string earlier in this function) is consulted before falling back to
// the py_get_object_type_id runtime call.
func (g *Generator) genIndexAnyCascade(fn llvm.Value, target, idx llvm.Value, idxType *types.PyType) llvm.Value {
	if known, ok := g.typeIDOf(target); ok {
		switch known {
		case types.ListID:
			return g.b.CreateCall(g.runtimeFunc("py_list_get_item"), []llvm.Value{target, g.indexAsInt32(idx, idxType)}, "")
		case types.DictID:
			return g.b.CreateCall(g.runtimeFunc("py_dict_get_item"), []llvm.Value{target, g.ensurePythonObject(idx, idxType)}, "")
		case types.StringID:
			return g.b.CreateCall(g.runtimeFunc("py_string_get_char"), []llvm.Value{target, g.indexAsInt32(idx, idxType)}, "")
		}
	}

	// Convert the index once, before branching, so the values the getters
	// use (and any temporaries they create) dominate the merge block.
	intIdx := g.indexAsInt32(idx, idxType)
	keyIdx := g.ensurePythonObject(idx, idxType)

	tid := g.b.CreateCall(g.runtimeFunc("py_get_object_type_id"), []llvm.Value{target}, "")

	listBB := llvm.AddBasicBlock(fn, "")
	dictBB := llvm.AddBasicBlock(fn, "")
	strBB := llvm.AddBasicBlock(fn, "")
	errBB := llvm.AddBasicBlock(fn, "")
	mergeBB := llvm.AddBasicBlock(fn, "")

	isList := g.b.CreateICmp(llvm.IntEQ, tid, llvm.ConstInt(llvm.Int32Type(), uint64(types.ListID), false), "")
	checkDictBB := llvm.AddBasicBlock(fn, "")
	g.b.CreateCondBr(isList, listBB, checkDictBB)

	g.b.SetInsertPointAtEnd(checkDictBB)
	isDict := g.b.CreateICmp(llvm.IntEQ, tid, llvm.ConstInt(llvm.Int32Type(), uint64(types.DictID), false), "")
	checkStrBB := llvm.AddBasicBlock(fn, "")
	g.b.CreateCondBr(isDict, dictBB, checkStrBB)

	g.b.SetInsertPointAtEnd(checkStrBB)
	isStr := g.b.CreateICmp(llvm.IntEQ, tid, llvm.ConstInt(llvm.Int32Type(), uint64(types.StringID), false), "")
	g.b.CreateCondBr(isStr, strBB, errBB)

	g.b.SetInsertPointAtEnd(listBB)
	listRes := g.b.CreateCall(g.runtimeFunc("py_list_get_item"), []llvm.Value{target, intIdx}, "")
	g.b.CreateBr(mergeBB)

	g.b.SetInsertPointAtEnd(dictBB)
	dictRes := g.b.CreateCall(g.runtimeFunc("py_dict_get_item"), []llvm.Value{target, keyIdx}, "")
	g.b.CreateBr(mergeBB)

	g.b.SetInsertPointAtEnd(strBB)
	strRes := g.b.CreateCall(g.runtimeFunc("py_string_get_char"), []llvm.Value{target, intIdx}, "")
	g.b.CreateBr(mergeBB)

	g.b.SetInsertPointAtEnd(errBB)
	expected := llvm.ConstInt(llvm.Int32Type(), uint64(types.ListID), false)
	got := tid
	g.b.CreateCall(g.runtimeFunc("py_raise_type_error"), []llvm.Value{expected, got}, "")
	errRes := g.b.CreateCall(g.runtimeFunc("py_get_none"), nil, "")
	g.b.CreateBr(mergeBB)

	g.b.SetInsertPointAtEnd(mergeBB)
	phi := g.b.CreatePHI(llvm.PointerType(llvm.Int8Type(), 0), "")
	phi.AddIncoming(
		[]llvm.Value{listRes, dictRes, strRes, errRes},
		[]llvm.BasicBlock{listBB, dictBB, strBB, errBB},
	)
	return phi
}

// genListLiteral emits every element exactly once, infers the element
// type id from the first one, then builds the list via py_create_list
// and per-element py_list_set_item (spec §4.7). Elements are emitted
// before py_create_list so a side-effecting element expression (a call)
// never runs more than once.
func (g *Generator) genListLiteral(fn llvm.Value, n *ast.List) (llvm.Value, *types.PyType) {
	elemID := types.AnyID
	var elemObj *types.ObjectType
	boxed := make([]llvm.Value, len(n.Elements))
	for i, el := range n.Elements {
		v, vt := g.genExpr(fn, el)
		if i == 0 {
			elemID = vt.ID()
			elemObj = vt.Obj()
		}
		boxed[i] = g.ensurePythonObject(v, vt)
	}

	size := llvm.ConstInt(llvm.Int32Type(), uint64(len(n.Elements)), false)
	list := g.b.CreateCall(g.runtimeFunc("py_create_list"),
		[]llvm.Value{size, llvm.ConstInt(llvm.Int32Type(), uint64(elemID), false)}, "")
	g.attachTypeID(list, types.ListID)
	g.attachContainerType(list, elemID)
	g.trackTemp(list)

	for i, b := range boxed {
		g.b.CreateCall(g.runtimeFunc("py_incref"), []llvm.Value{b}, "")
		g.b.CreateCall(g.runtimeFunc("py_list_set_item"), []llvm.Value{
			list, llvm.ConstInt(llvm.Int32Type(), uint64(i), false), b,
		}, "")
	}

	listObj := types.Global().ListOf(orAny(elemObj))
	return list, types.Of(listObj)
}

// genDictLiteral emits every key/value pair exactly once, infers the
// key/value type ids from the first pair, then builds the dict via
// py_create_dict and per-pair py_dict_set_item (spec §4.7).
func (g *Generator) genDictLiteral(fn llvm.Value, n *ast.Dict) (llvm.Value, *types.PyType) {
	keyID := types.AnyID
	var keyObj, valObj *types.ObjectType
	type boxedPair struct{ key, val llvm.Value }
	pairs := make([]boxedPair, len(n.Pairs))
	for i, pair := range n.Pairs {
		kv, kt := g.genExpr(fn, pair.Key)
		vv, vt := g.genExpr(fn, pair.Value)
		if i == 0 {
			keyID = kt.ID()
			keyObj = kt.Obj()
			valObj = vt.Obj()
		}
		pairs[i] = boxedPair{key: g.ensurePythonObject(kv, kt), val: g.ensurePythonObject(vv, vt)}
	}

	cap := llvm.ConstInt(llvm.Int32Type(), uint64(len(n.Pairs)), false)
	dict := g.b.CreateCall(g.runtimeFunc("py_create_dict"),
		[]llvm.Value{cap, llvm.ConstInt(llvm.Int32Type(), uint64(keyID), false)}, "")
	g.attachTypeID(dict, types.DictID)
	g.trackTemp(dict)

	for _, p := range pairs {
		g.b.CreateCall(g.runtimeFunc("py_incref"), []llvm.Value{p.val}, "")
		g.b.CreateCall(g.runtimeFunc("py_dict_set_item"), []llvm.Value{dict, p.key, p.val}, "")
	}

	dictObj := types.Global().DictOf(orAny(keyObj), orAny(valObj))
	return dict, types.Of(dictObj)
}

func orAny(o *types.ObjectType) *types.ObjectType {
	if o == nil {
		return types.Global().ByID(types.AnyID)
	}
	return o
}
