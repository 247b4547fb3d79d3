package parser

import "pyilc/src/token"

// assoc is an operator's associativity.
type assoc int

const (
	leftAssoc assoc = iota
	rightAssoc
)

// opInfo is one row of the operator table of spec §4.4 — the single
// source of truth for expression-parser precedence and associativity.
type opInfo struct {
	prec  int
	assoc assoc
}

// binaryOps maps each binary operator token kind to its precedence and
// associativity, exactly as tabulated in spec §4.4.
var binaryOps = map[token.Kind]opInfo{
	token.OR:      {4, leftAssoc},
	token.AND:     {5, leftAssoc},
	token.LT:      {10, leftAssoc},
	token.GT:      {10, leftAssoc},
	token.LE:      {10, leftAssoc},
	token.GE:      {10, leftAssoc},
	token.EQ:      {10, leftAssoc},
	token.NE:      {10, leftAssoc},
	token.IS:      {10, leftAssoc},
	token.IN:      {10, leftAssoc},
	// token.NOT here is only ever the leading word of the two-word
	// `not in` operator (plain `not` is a prefix handled by
	// parsePrefix); it shares `in`'s row so parseInfix's lookup
	// succeeds after infixOpText has expanded it to "not in".
	token.NOT:     {10, leftAssoc},
	token.PLUS:    {20, leftAssoc},
	token.MINUS:   {20, leftAssoc},
	token.STAR:    {40, leftAssoc},
	token.SLASH:   {40, leftAssoc},
	token.DSLASH:  {40, leftAssoc},
	token.PERCENT: {40, leftAssoc},
	token.DSTAR:   {60, rightAssoc},
}

// Precedence levels that are not keyed by a single token kind.
const (
	precNot      = 8
	precUnary    = 55
	precPostfix  = 70
)

// compoundAssignOps maps a compound-assignment operator token to the
// plain binary operator it desugars to (spec §4.4: "x op= e ⇒ x = x op e").
var compoundAssignOps = map[token.Kind]string{
	token.PLUSEQ:    "+",
	token.MINUSEQ:   "-",
	token.STAREQ:    "*",
	token.SLASHEQ:   "/",
	token.PERCENTEQ: "%",
	token.DSTAREQ:   "**",
	token.DSLASHEQ:  "//",
}
