package codegen

import (
	"fmt"

	"pyilc/src/ast"
	"pyilc/src/types"

	"tinygo.org/x/go-llvm"
)

// reservedFunctionNames cannot be used as Python-level function names,
// mirroring the teacher's reservedFunctionNames guard against
// colliding with the runtime's own entry points.
var reservedFunctionNames = map[string]bool{
	"main":    true,
	"printf":  true,
	"atoi":    true,
	"atof":    true,
}

// resolveReturnType resolves fn's declared return annotation. A missing
// annotation resolves to `none`, so the function returns LLVM void. An
// explicit `-> None` never reaches here: `None` lexes as a NONE token and
// the parser's annotation grammar accepts identifiers only.
func resolveReturnType(fn *ast.Function) *types.PyType {
	if fn.ReturnAnno == "" {
		return types.Of(types.Global().ByID(types.NoneID))
	}
	return fn.ReturnType
}

// genFunctionHeader declares fn's LLVM function type and registers it,
// grounded on the teacher's genFuncHeader: resolve parameter/return
// types, build the function type, reject duplicates and reserved
// names, declare the function in the module.
func (g *Generator) genFunctionHeader(fn *ast.Function) (llvm.Value, error) {
	name := fn.Name
	if reservedFunctionNames[name] {
		g.errorf(fn.Position(), "function name %q is reserved by the runtime", name)
		return llvm.Value{}, fmt.Errorf("reserved function name %q", name)
	}
	if _, ok := g.funcs[name]; ok {
		g.errorf(fn.Position(), "duplicate function definition %q", name)
		return llvm.Value{}, fmt.Errorf("duplicate function %q", name)
	}

	retType := resolveReturnType(fn)
	ret := llvmType(retType)

	paramTypes := make([]llvm.Type, len(fn.Params))
	paramPyTypes := make([]*types.PyType, len(fn.Params))
	for i, p := range fn.Params {
		pt := p.Type
		if pt == nil {
			pt = types.Any()
		}
		paramPyTypes[i] = pt
		paramTypes[i] = llvmType(pt)
	}

	ftyp := llvm.FunctionType(ret, paramTypes, false)
	llvmFn := llvm.AddFunction(g.m, name, ftyp)
	for i, p := range llvmFn.Params() {
		p.SetName(fn.Params[i].Name)
	}

	g.funcs[name] = llvmFn
	returnsFunc := ""
	if retType.ID() == types.FunctionID {
		returnsFunc = bareReturnedFunctionName(fn.Body)
	}
	types.Global().RegisterFunction(&types.FunctionSig{
		Name: name, ParamTypes: paramObjTypes(paramPyTypes), ReturnType: retType.Obj(), ReturnsFunc: returnsFunc,
	})
	return llvmFn, nil
}

// bareReturnedFunctionName walks fn's body, including nested if/while/for
// blocks, and inspects every `return` statement. If each one returns a
// bare name and all of them name the same function, that name is the
// function this one always hands back; a bare `return`, a return of any
// other expression, or two different names yield "". Used to resolve a
// chained call like g()() to the returned function's own call site
// (spec §4 chained-call supplement).
func bareReturnedFunctionName(body *ast.Block) string {
	var name string
	seen, conflict := false, false
	var walk func(stmts []ast.Stmt)
	walk = func(stmts []ast.Stmt) {
		for _, s := range stmts {
			switch st := s.(type) {
			case *ast.Return:
				v, ok := st.Value.(*ast.Variable)
				if !ok || (seen && v.Name != name) {
					conflict = true
					continue
				}
				name, seen = v.Name, true
			case *ast.If:
				walk(st.Then.Stmts)
				switch e := st.Else.(type) {
				case *ast.Block:
					walk(e.Stmts)
				case *ast.If:
					walk([]ast.Stmt{e})
				}
			case *ast.While:
				walk(st.Body.Stmts)
			case *ast.For:
				walk(st.Body.Stmts)
			}
		}
	}
	walk(body.Stmts)
	if conflict || !seen {
		return ""
	}
	return name
}

func paramObjTypes(pts []*types.PyType) []*types.ObjectType {
	out := make([]*types.ObjectType, len(pts))
	for i, p := range pts {
		out[i] = p.Obj()
	}
	return out
}

// genFunctionBody emits fn's body into the previously declared LLVM
// function, grounded on the teacher's genFuncBody: allocate a stack
// slot per parameter, store the incoming argument, push a fresh scope,
// emit the body, synthesise a default return if control falls off the
// end (spec §4.7, §8 invariant 5).
func (g *Generator) genFunctionBody(fn *ast.Function) error {
	llvmFn, ok := g.funcs[fn.Name]
	if !ok {
		return fmt.Errorf("function %q was never declared", fn.Name)
	}
	retType := resolveReturnType(fn)

	entry := llvm.AddBasicBlock(llvmFn, "entry")
	g.b.SetInsertPointAtEnd(entry)

	s := g.pushScope()
	defer g.popScope()

	for i, p := range fn.Params {
		pt := p.Type
		if pt == nil {
			pt = types.Any()
		}
		arg := llvmFn.Param(i)
		slot := g.b.CreateAlloca(llvmType(pt), p.Name)
		g.b.CreateStore(arg, slot)
		s.vars[p.Name] = slot
		s.types[p.Name] = pt
	}

	for _, stmt := range fn.Body.Stmts {
		g.genStmt(llvmFn, retType, stmt)
		if g.failed {
			return g.lastError()
		}
	}

	if !blockHasTerminator(g.b.GetInsertBlock()) {
		g.emitDefaultReturn(retType)
	}
	return nil
}

// emitDefaultReturn synthesises `ret <default of declared type>` when
// control falls off the end of a function body without an explicit
// return (spec §4.7, §8 invariant 5).
func (g *Generator) emitDefaultReturn(retType *types.PyType) {
	switch {
	case retType.IsNone():
		g.b.CreateRetVoid()
	case retType.IsInt():
		g.b.CreateRet(llvm.ConstInt(llvm.Int64Type(), 0, false))
	case retType.IsDouble():
		g.b.CreateRet(llvm.ConstFloat(llvm.DoubleType(), 0))
	case retType.IsBool():
		g.b.CreateRet(llvm.ConstInt(llvm.Int1Type(), 0, false))
	default:
		none := g.b.CreateCall(g.runtimeFunc("py_get_none"), nil, "")
		g.b.CreateRet(none)
	}
}
