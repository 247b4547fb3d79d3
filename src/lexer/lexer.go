// Package lexer converts Python-subset source text into a vector of
// token.Token values, synthesising INDENT/DEDENT/NEWLINE tokens from
// whitespace the way Python itself does.
//
// The rune-cursor scanning primitives (next/backup/peek/accept) are
// carried over from the teacher's hand-written scanner; unlike the
// teacher this lexer has no concurrent state-machine goroutine because
// spec §4.2 requires the entire input to be eagerly tokenised into a
// vector before the parser ever runs.
package lexer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"pyilc/src/token"
)

const eof = 0

// Config controls lexer behaviour. The zero value is not valid; use
// DefaultConfig.
type Config struct {
	TabWidth             int  // Columns a tab expands to when computing indent width. Default 4.
	AllowTabIndent       bool // Not consulted: tabs in leading indentation are always accepted. Default false.
	StrictIndentation    bool // Reject a line whose own indentation mixes tabs and spaces; separate lines are not compared. Default true.
	IgnoreComments       bool // Not consulted: '#' comments are always discarded. Default true.
	SupportTypeAnnots    bool // Not consulted: ':' and '->' are always tokenised. Default true.
}

// DefaultConfig returns the lexer's default configuration.
func DefaultConfig() Config {
	return Config{
		TabWidth:          4,
		AllowTabIndent:    false,
		StrictIndentation: true,
		IgnoreComments:    true,
		SupportTypeAnnots: true,
	}
}

// Error reports a lexical failure with its source position.
type Error struct {
	Kind string // "InvalidChar", "UnterminatedString", "InconsistentIndent".
	Line int
	Col  int
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at line %d:%d: %s", e.Kind, e.Line, e.Col, e.Msg)
}

// lexer holds the scanning state for one source file.
type lexer struct {
	input string
	start int
	pos   int
	width int
	line  int
	col   int // Column of l.start on the current line, 1-indexed.

	cfg Config

	tokens      []token.Token
	atLineStart bool // True immediately after a NEWLINE, before indent has been measured.
	indents     []int
	err         *Error
}

// Lex tokenises src under cfg and returns the full token vector,
// terminated by a trailing EOF token. On lexical failure it returns the
// tokens produced so far (ending in an ERROR token) and a non-nil error.
func Lex(src string, cfg Config) ([]token.Token, error) {
	l := &lexer{
		input:       src,
		line:        1,
		col:         1,
		atLineStart: true,
		indents:     []int{0},
		cfg:         cfg,
		tokens:      make([]token.Token, 0, len(src)/4+16),
	}
	l.run()
	if l.err != nil {
		return l.tokens, l.err
	}
	return l.tokens, nil
}

func (l *lexer) run() {
	for l.err == nil {
		if l.atLineStart {
			if !l.scanIndent() {
				break
			}
			continue
		}
		if !l.scanToken() {
			break
		}
	}
}

// next returns the next rune in the input, advancing the cursor.
func (l *lexer) next() rune {
	if l.pos >= len(l.input) {
		l.width = 0
		return eof
	}
	r, w := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += w
	l.width = w
	return r
}

func (l *lexer) backup() {
	if l.pos > 0 {
		l.pos -= l.width
	}
}

func (l *lexer) peek() rune {
	r := l.next()
	l.backup()
	return r
}

func (l *lexer) peekAt(offset int) rune {
	p := l.pos
	for i := 0; i < offset; i++ {
		if p >= len(l.input) {
			return eof
		}
		_, w := utf8.DecodeRuneInString(l.input[p:])
		p += w
	}
	if p >= len(l.input) {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(l.input[p:])
	return r
}

func (l *lexer) errorf(kind string, format string, args ...interface{}) {
	l.err = &Error{Kind: kind, Line: l.line, Col: l.col, Msg: fmt.Sprintf(format, args...)}
	l.tokens = append(l.tokens, token.Token{Kind: token.ERROR, Text: l.err.Msg, Line: l.line, Col: l.col})
}

func (l *lexer) emit(k token.Kind, text string) {
	l.tokens = append(l.tokens, token.Token{Kind: k, Text: text, Line: l.line, Col: l.col})
	l.col += len(text)
}

// scanIndent measures the indentation of a freshly started line, skips
// blank/comment-only lines, and pushes/pops the indent stack, emitting
// INDENT/DEDENT tokens as required by spec §4.2.3. Returns false when
// EOF has been fully drained (DEDENTs + EOF emitted).
func (l *lexer) scanIndent() bool {
	for {
		width, sawTab, sawSpace, ok := l.measureIndent()
		if !ok {
			// EOF reached while measuring indentation: unwind the stack.
			for len(l.indents) > 1 {
				l.indents = l.indents[:len(l.indents)-1]
				l.emit(token.DEDENT, "")
			}
			l.emit(token.EOF, "")
			return false
		}

		// Blank or comment-only line: no INDENT/DEDENT, keep scanning.
		r := l.peek()
		if r == '\n' || r == eof || r == '#' {
			if r == '#' {
				l.skipComment()
			}
			if l.peek() == '\n' {
				l.next()
			}
			l.line++
			l.col = 1
			if r == eof {
				for len(l.indents) > 1 {
					l.indents = l.indents[:len(l.indents)-1]
					l.emit(token.DEDENT, "")
				}
				l.emit(token.EOF, "")
				return false
			}
			continue
		}

		if l.cfg.StrictIndentation && sawTab && sawSpace {
			l.errorf("InconsistentIndent", "mixed tabs and spaces in indentation")
			return false
		}

		top := l.indents[len(l.indents)-1]
		switch {
		case width > top:
			l.indents = append(l.indents, width)
			l.emit(token.INDENT, "")
		case width < top:
			for len(l.indents) > 0 && l.indents[len(l.indents)-1] > width {
				l.indents = l.indents[:len(l.indents)-1]
				l.emit(token.DEDENT, "")
			}
			if len(l.indents) == 0 || l.indents[len(l.indents)-1] != width {
				l.errorf("InconsistentIndent", "dedent to column %d does not match any outer indentation level", width)
				return false
			}
		}

		l.atLineStart = false
		return true
	}
}

// measureIndent consumes leading spaces/tabs on the current line and
// returns the computed column width. ok is false at EOF.
func (l *lexer) measureIndent() (width int, sawTab, sawSpace bool, ok bool) {
	for {
		r := l.next()
		switch r {
		case ' ':
			width++
			sawSpace = true
		case '\t':
			width += l.cfg.TabWidth
			sawTab = true
		case eof:
			l.backup()
			return width, sawTab, sawSpace, false
		default:
			l.backup()
			return width, sawTab, sawSpace, true
		}
	}
}

func (l *lexer) skipComment() {
	for {
		r := l.next()
		if r == '\n' || r == eof {
			l.backup()
			return
		}
	}
}

// scanToken scans exactly one token (or NEWLINE) from mid-line position.
// Returns false once EOF has been fully emitted.
func (l *lexer) scanToken() bool {
	for {
		r := l.next()
		switch {
		case r == eof:
			l.backup()
			l.atLineStart = true
			return true
		case r == '\n':
			l.emit(token.NEWLINE, "\n")
			l.line++
			l.col = 1
			l.atLineStart = true
			return true
		case r == ' ' || r == '\t':
			l.col++
			continue
		case r == '\r':
			// Normalise \r\n and lone \r to \n.
			if l.peek() == '\n' {
				l.next()
			}
			l.emit(token.NEWLINE, "\n")
			l.line++
			l.col = 1
			l.atLineStart = true
			return true
		case r == '#':
			l.skipComment()
			continue
		case isAlpha(r):
			l.backup()
			return l.scanWord()
		case isDigit(r):
			l.backup()
			return l.scanNumber()
		case r == '"' || r == '\'':
			return l.scanString(r)
		default:
			l.backup()
			return l.scanOperator()
		}
	}
}

func (l *lexer) scanWord() bool {
	start := l.pos
	for {
		r := l.next()
		if !isAlpha(r) && !isDigit(r) && r != '_' {
			l.backup()
			break
		}
	}
	text := l.input[start:l.pos]
	if kind, ok := token.Lookup(text); ok {
		l.emit(kind, text)
	} else {
		l.emit(token.IDENTIFIER, text)
	}
	return true
}

func (l *lexer) scanNumber() bool {
	start := l.pos
	isFloat := false
	for r := l.next(); isDigit(r); r = l.next() {
	}
	l.backup()
	if l.peek() == '.' {
		isFloat = true
		l.next()
		for r := l.next(); isDigit(r); r = l.next() {
		}
		l.backup()
	}
	if r := l.peek(); r == 'e' || r == 'E' {
		save := l.pos
		l.next()
		if r2 := l.peek(); r2 == '+' || r2 == '-' {
			l.next()
		}
		digits := 0
		for r3 := l.next(); isDigit(r3); r3 = l.next() {
			digits++
		}
		l.backup()
		if digits > 0 {
			isFloat = true
		} else {
			l.pos = save
		}
	}
	text := l.input[start:l.pos]
	if isFloat {
		l.emit(token.FLOAT, text)
	} else {
		l.emit(token.INTEGER, text)
	}
	return true
}

func (l *lexer) scanString(quote rune) bool {
	start := l.pos
	var sb strings.Builder
	for {
		r := l.next()
		if r == eof {
			l.errorf("UnterminatedString", "unterminated string literal starting at line %d:%d", l.line, l.col)
			return false
		}
		if r == '\\' {
			e := l.next()
			switch e {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '\\':
				sb.WriteByte('\\')
			case '"':
				sb.WriteByte('"')
			case '\'':
				sb.WriteByte('\'')
			default:
				sb.WriteRune('\\')
				sb.WriteRune(e)
			}
			continue
		}
		if r == quote {
			break
		}
		sb.WriteRune(r)
	}
	_ = start
	tok := token.Token{Kind: token.STRING, Text: sb.String(), Line: l.line, Col: l.col, Quote: quote}
	l.tokens = append(l.tokens, tok)
	l.col += l.pos - start
	return true
}

func (l *lexer) scanOperator() bool {
	// Try 3-, then 2-, then 1-character operators, longest match first.
	if l.pos+3 <= len(l.input) {
		if k, ok := token.Operator3(l.input[l.pos : l.pos+3]); ok {
			l.pos += 3
			l.emit(k, l.input[l.pos-3:l.pos])
			return true
		}
	}
	if l.pos+2 <= len(l.input) {
		if k, ok := token.Operator2(l.input[l.pos : l.pos+2]); ok {
			l.pos += 2
			l.emit(k, l.input[l.pos-2:l.pos])
			return true
		}
	}
	r := l.next()
	if k, ok := token.Operator1(r); ok {
		l.emit(k, string(r))
		return true
	}
	l.errorf("InvalidChar", "unexpected character %q", r)
	return false
}

func isAlpha(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// Render reconstructs an approximate source text from a token stream,
// using token.NeedsSpaceBetween to decide where whitespace belongs. Used
// only by the CLI's debug `-ts` dump (spec §4.2).
func Render(toks []token.Token) string {
	var sb strings.Builder
	indent := 0
	prevKind := token.Kind(-1)
	lineStart := true
	for _, t := range toks {
		switch t.Kind {
		case token.EOF:
			continue
		case token.NEWLINE:
			sb.WriteByte('\n')
			lineStart = true
			prevKind = t.Kind
			continue
		case token.INDENT:
			indent++
			continue
		case token.DEDENT:
			indent--
			continue
		}
		if lineStart {
			sb.WriteString(strings.Repeat("    ", indent))
			lineStart = false
		} else if token.NeedsSpaceBetween(prevKind, t.Kind) {
			sb.WriteByte(' ')
		}
		switch t.Kind {
		case token.STRING:
			q := t.Quote
			if q == 0 {
				q = '"'
			}
			fmt.Fprintf(&sb, "%c%s%c", q, t.Text, q)
		default:
			sb.WriteString(t.Text)
		}
		prevKind = t.Kind
	}
	return sb.String()
}
