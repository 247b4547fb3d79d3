// Tests the parser against the precedence/associativity table and
// statement grammar of spec §4.4, in the pack's testify style
// (clarete-langlang's parser/grammar tests — see DESIGN.md "Test
// tooling") since tree-shape assertions read far better with
// require/assert than repeated manual nil checks.
package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pyilc/src/ast"
	"pyilc/src/lexer"
)

func mustParse(t *testing.T, src string) *ast.Module {
	t.Helper()
	toks, err := lexer.Lex(src, lexer.DefaultConfig())
	require.NoError(t, err, "lex error for %q", src)
	mod, perr := Parse(toks, "test")
	require.Nil(t, perr, "parse error for %q: %v", src, perr)
	return mod
}

func TestParseSimpleAssign(t *testing.T) {
	mod := mustParse(t, "x = 1\n")
	require.Len(t, mod.Stmts, 1)
	asn, ok := mod.Stmts[0].(*ast.Assign)
	require.True(t, ok, "expected *ast.Assign, got %T", mod.Stmts[0])
	assert.Equal(t, "x", asn.Name)
	num, ok := asn.Value.(*ast.Number)
	require.True(t, ok)
	assert.Equal(t, "1", num.Text)
}

// TestPrecedenceArithmetic checks `+`/`*` binding per spec §4.4: `1 + 2 * 3`
// parses as `1 + (2 * 3)`, not `(1 + 2) * 3`.
func TestPrecedenceArithmetic(t *testing.T) {
	mod := mustParse(t, "x = 1 + 2 * 3\n")
	asn := mod.Stmts[0].(*ast.Assign)
	top, ok := asn.Value.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, "+", top.Op)
	lhs, ok := top.LHS.(*ast.Number)
	require.True(t, ok)
	assert.Equal(t, "1", lhs.Text)
	rhs, ok := top.RHS.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, "*", rhs.Op)
}

// TestPrecedenceAndOr checks `and` binds tighter than `or` (spec §4.4:
// or=4, and=5).
func TestPrecedenceAndOr(t *testing.T) {
	mod := mustParse(t, "x = a or b and c\n")
	asn := mod.Stmts[0].(*ast.Assign)
	top, ok := asn.Value.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, "or", top.Op)
	rhs, ok := top.RHS.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, "and", rhs.Op)
}

// TestPowerRightAssociative checks `**` is right-associative (spec §4.4,
// §8 invariant 4's special case): `2 ** 3 ** 2` == `2 ** (3 ** 2)`.
func TestPowerRightAssociative(t *testing.T) {
	mod := mustParse(t, "x = 2 ** 3 ** 2\n")
	asn := mod.Stmts[0].(*ast.Assign)
	top, ok := asn.Value.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, "**", top.Op)
	lhs, ok := top.LHS.(*ast.Number)
	require.True(t, ok)
	assert.Equal(t, "2", lhs.Text)
	rhs, ok := top.RHS.(*ast.Binary)
	require.True(t, ok, "expected RHS to itself be a ** node (right-assoc)")
	assert.Equal(t, "**", rhs.Op)
}

// TestMinusLeftAssociative checks `-` is left-associative: `10 - 3 - 2`
// == `(10 - 3) - 2`, not `10 - (3 - 2)`.
func TestMinusLeftAssociative(t *testing.T) {
	mod := mustParse(t, "x = 10 - 3 - 2\n")
	asn := mod.Stmts[0].(*ast.Assign)
	top, ok := asn.Value.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, "-", top.Op)
	_, ok = top.LHS.(*ast.Binary)
	assert.True(t, ok, "expected LHS to be a nested binary (left-assoc)")
	rhsNum, ok := top.RHS.(*ast.Number)
	require.True(t, ok)
	assert.Equal(t, "2", rhsNum.Text)
}

func TestIsNotAndNotInParse(t *testing.T) {
	mod := mustParse(t, "x = a is not b\n")
	asn := mod.Stmts[0].(*ast.Assign)
	bin, ok := asn.Value.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, "is not", bin.Op)

	mod = mustParse(t, "x = a not in b\n")
	asn = mod.Stmts[0].(*ast.Assign)
	bin, ok = asn.Value.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, "not in", bin.Op)
}

func TestParseCompoundAssign(t *testing.T) {
	mod := mustParse(t, "x += 1\n")
	asn, ok := mod.Stmts[0].(*ast.Assign)
	require.True(t, ok)
	bin, ok := asn.Value.(*ast.Binary)
	require.True(t, ok, "compound assign desugars to x = x + 1")
	assert.Equal(t, "+", bin.Op)
	v, ok := bin.LHS.(*ast.Variable)
	require.True(t, ok)
	assert.Equal(t, "x", v.Name)
}

func TestParseIndexAssign(t *testing.T) {
	mod := mustParse(t, "a[0] = 1\n")
	ia, ok := mod.Stmts[0].(*ast.IndexAssign)
	require.True(t, ok, "expected *ast.IndexAssign, got %T", mod.Stmts[0])
	v, ok := ia.Target.Target.(*ast.Variable)
	require.True(t, ok)
	assert.Equal(t, "a", v.Name)
}

func TestParseCompoundIndexAssignRejected(t *testing.T) {
	toks, err := lexer.Lex("a[0] += 1\n", lexer.DefaultConfig())
	require.NoError(t, err)
	_, perr := Parse(toks, "test")
	require.NotNil(t, perr, "expected compound assignment to an indexed target to be rejected")
}

func TestParseIfElifElse(t *testing.T) {
	src := "if a:\n    x = 1\nelif b:\n    x = 2\nelse:\n    x = 3\n"
	mod := mustParse(t, src)
	top, ok := mod.Stmts[0].(*ast.If)
	require.True(t, ok)
	require.Len(t, top.Then.Stmts, 1)

	elif, ok := top.Else.(*ast.If)
	require.True(t, ok, "expected elif to parse as nested *ast.If, got %T", top.Else)
	require.Len(t, elif.Then.Stmts, 1)

	elseBlk, ok := elif.Else.(*ast.Block)
	require.True(t, ok, "expected final else to parse as *ast.Block, got %T", elif.Else)
	require.Len(t, elseBlk.Stmts, 1)
}

func TestParseWhileWithElse(t *testing.T) {
	src := "while a:\n    x = 1\nelse:\n    y = 2\n"
	mod := mustParse(t, src)
	w, ok := mod.Stmts[0].(*ast.While)
	require.True(t, ok)
	require.Len(t, w.Body.Stmts, 1)
	require.NotNil(t, w.Else)
	require.Len(t, w.Else.Stmts, 1)
}

func TestParseForLoop(t *testing.T) {
	src := "for x in items:\n    print(x)\n"
	mod := mustParse(t, src)
	f, ok := mod.Stmts[0].(*ast.For)
	require.True(t, ok)
	assert.Equal(t, "x", f.VarName)
	_, ok = f.Iterable.(*ast.Variable)
	require.True(t, ok)
	require.Len(t, f.Body.Stmts, 1)
}

func TestParseFunctionDef(t *testing.T) {
	src := "def add(a: int, b: int) -> int:\n    return a + b\n"
	mod := mustParse(t, src)
	fd, ok := mod.Stmts[0].(*ast.FunctionDef)
	require.True(t, ok)
	assert.Equal(t, "add", fd.Fn.Name)
	require.Len(t, fd.Fn.Params, 2)
	assert.Equal(t, "a", fd.Fn.Params[0].Name)
	assert.Equal(t, "int", fd.Fn.Params[0].AnnotText)
	assert.Equal(t, "int", fd.Fn.ReturnAnno)
	require.Len(t, fd.Fn.Body.Stmts, 1)
	_, ok = fd.Fn.Body.Stmts[0].(*ast.Return)
	assert.True(t, ok)
}

func TestParseClassWithMethods(t *testing.T) {
	src := "class Counter:\n    def inc(self):\n        return 1\n"
	mod := mustParse(t, src)
	cls, ok := mod.Stmts[0].(*ast.Class)
	require.True(t, ok)
	assert.Equal(t, "Counter", cls.Name)
	require.Len(t, cls.Methods, 1)
	assert.Equal(t, "inc", cls.Methods[0].Name)
	assert.Equal(t, "Counter", cls.Methods[0].ClassName)
}

func TestParseImportWithAlias(t *testing.T) {
	mod := mustParse(t, "import math as m\n")
	imp, ok := mod.Stmts[0].(*ast.Import)
	require.True(t, ok)
	assert.Equal(t, "math", imp.Module)
	assert.Equal(t, "m", imp.Alias)
}

func TestParseListAndDictLiterals(t *testing.T) {
	mod := mustParse(t, "x = [1, 2, 3]\n")
	asn := mod.Stmts[0].(*ast.Assign)
	lst, ok := asn.Value.(*ast.List)
	require.True(t, ok)
	assert.Len(t, lst.Elements, 3)

	mod = mustParse(t, `x = {"a": 1, "b": 2}` + "\n")
	asn = mod.Stmts[0].(*ast.Assign)
	d, ok := asn.Value.(*ast.Dict)
	require.True(t, ok)
	assert.Len(t, d.Pairs, 2)
}

func TestParseCallAndIndexChaining(t *testing.T) {
	mod := mustParse(t, "x = f(1)[0]\n")
	asn := mod.Stmts[0].(*ast.Assign)
	idx, ok := asn.Value.(*ast.Index)
	require.True(t, ok)
	call, ok := idx.Target.(*ast.Call)
	require.True(t, ok)
	require.Len(t, call.Args, 1)
}

func TestParseBreakContinuePass(t *testing.T) {
	src := "while a:\n    break\n    continue\n    pass\n"
	mod := mustParse(t, src)
	w := mod.Stmts[0].(*ast.While)
	require.Len(t, w.Body.Stmts, 3)
	_, ok := w.Body.Stmts[0].(*ast.Break)
	assert.True(t, ok)
	_, ok = w.Body.Stmts[1].(*ast.Continue)
	assert.True(t, ok)
	_, ok = w.Body.Stmts[2].(*ast.Pass)
	assert.True(t, ok)
}
