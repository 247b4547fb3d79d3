package token

// registry is the single global, read-only (after init) lookup table for
// keywords and operators. It is initialised once by init() and never
// mutated afterwards, matching the "three process-wide singletons" model
// of spec §5.

// reservedWord pairs a keyword's text with its Kind. Bucketed by length,
// mirroring the teacher's rw table, so lookup narrows to a short slice
// before a linear scan.
type reservedWord struct {
	text string
	kind Kind
}

// keywordsByLen indexes keywordsByLen[len(word)-1] -> words of that length.
var keywordsByLen [][]reservedWord

// operators3, operators2, operators1 hold multi-/single-character
// operator lookups, tried longest-prefix-first by the lexer.
var operators3 map[string]Kind
var operators2 map[string]Kind
var operators1 map[rune]Kind

func init() {
	words := []reservedWord{
		{"if", IF}, {"in", IN}, {"is", IS}, {"or", OR}, {"as", AS},
		{"def", DEF}, {"for", FOR}, {"not", NOT}, {"and", AND}, {"pass", PASS},
		{"elif", ELIF}, {"else", ELSE}, {"True", BOOL}, {"None", NONE},
		{"break", BREAK}, {"class", CLASS}, {"False", BOOL}, {"print", PRINT},
		{"while", WHILE}, {"import", IMPORT}, {"return", RETURN},
		{"continue", CONTINUE},
	}
	maxLen := 0
	for _, w := range words {
		if len(w.text) > maxLen {
			maxLen = len(w.text)
		}
	}
	keywordsByLen = make([][]reservedWord, maxLen)
	for _, w := range words {
		i := len(w.text) - 1
		keywordsByLen[i] = append(keywordsByLen[i], w)
	}

	operators3 = map[string]Kind{
		"**=": DSTAREQ,
		"//=": DSLASHEQ,
	}
	operators2 = map[string]Kind{
		"//": DSLASH,
		"**": DSTAR,
		"+=": PLUSEQ,
		"-=": MINUSEQ,
		"*=": STAREQ,
		"/=": SLASHEQ,
		"%=": PERCENTEQ,
		"==": EQ,
		"!=": NE,
		"<=": LE,
		">=": GE,
		"->": ARROW,
	}
	operators1 = map[rune]Kind{
		'+': PLUS,
		'-': MINUS,
		'*': STAR,
		'/': SLASH,
		'%': PERCENT,
		'=': ASSIGN,
		'<': LT,
		'>': GT,
		'(': LPAREN,
		')': RPAREN,
		'[': LBRACKET,
		']': RBRACKET,
		'{': LBRACE,
		'}': RBRACE,
		',': COMMA,
		':': COLON,
		'.': DOT,
	}
}

// Lookup reports whether s is a reserved keyword, and if so its Kind.
// True/False/None resolve to BOOL/NONE rather than generic keywords so
// the parser's literal-atom dispatch can handle them directly.
func Lookup(s string) (Kind, bool) {
	if len(s) == 0 || len(s) > len(keywordsByLen) {
		return IDENTIFIER, false
	}
	for _, w := range keywordsByLen[len(s)-1] {
		if w.text == s {
			return w.kind, true
		}
	}
	return IDENTIFIER, false
}

// Operator3 looks up a three-character operator prefix.
func Operator3(s string) (Kind, bool) {
	k, ok := operators3[s]
	return k, ok
}

// Operator2 looks up a two-character operator prefix.
func Operator2(s string) (Kind, bool) {
	k, ok := operators2[s]
	return k, ok
}

// Operator1 looks up a single-character operator.
func Operator1(r rune) (Kind, bool) {
	k, ok := operators1[r]
	return k, ok
}

// NeedsSpaceBetween reports whether two adjacent token kinds must be
// separated by whitespace when re-rendering a token stream back into
// approximate source text (used only by the debug source-recovery
// routine, spec §4.2).
func NeedsSpaceBetween(prev, next Kind) bool {
	alnumLike := func(k Kind) bool {
		switch k {
		case IDENTIFIER, INTEGER, FLOAT, STRING, BOOL, NONE:
			return true
		}
		_, isKeyword := names[k]
		return isKeyword && k >= DEF && k <= IS
	}
	if alnumLike(prev) && alnumLike(next) {
		return true
	}
	switch next {
	case LPAREN, LBRACKET, RPAREN, RBRACKET, COMMA, COLON, DOT:
		return false
	}
	switch prev {
	case LPAREN, LBRACKET, DOT:
		return false
	}
	return true
}
