package expressions

import (
	"strconv"
	"strings"
	"unicode"
)

type rawToken struct {
	text string
	kind rawKind
	// call is set on identifiers immediately followed by an open bracket.
	call bool
	pos  int
}

func (t rawToken) String() string {
	s := t.kind.String() + ":" + t.text + "@" + strconv.Itoa(t.pos)
	if t.call {
		s += "()"
	}
	return s
}

type rawKind int8

const (
	rawNone rawKind = iota
	// rawNum is a decimal numeral.
	rawNum
	// rawIdent is a variable or function name, possibly module-qualified.
	rawIdent
	// rawOp is an operator, bracket, or argument separator.
	rawOp
	// rawStr is the contents of a quoted string literal.
	rawStr
)

func (k rawKind) String() string {
	switch k {
	case rawNone:
		return "None"
	case rawNum:
		return "Num"
	case rawIdent:
		return "Ident"
	case rawOp:
		return "Op"
	case rawStr:
		return "Str"
	default:
		return "rawKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Operators contains the runes which are binary or unary operators.
const Operators = "+-*/^&|=><"

const (
	// Comment is dropped from the source outside string literals.
	Comment = '#'
	// Separator splits module and member in a qualified name.
	Separator = ':'
)

// punct contains every rune that ends an identifier.
const punct = Operators + "()," + `"'`

// srcRune is a rune of the source with its 1-based column.
type srcRune struct {
	r   rune
	col int
}

// strip drops whitespace and comment markers outside string literals.
func strip(src string) []srcRune {
	v := make([]srcRune, 0, len(src))
	var quote, prev rune
	col := 0
	for _, r := range src {
		col++
		switch {
		case quote != 0:
			if r == quote && prev != '\\' {
				quote = 0
			}
		case r == '"', r == '\'':
			quote = r
		case unicode.IsSpace(r), r == Comment:
			continue
		}
		v = append(v, srcRune{r, col})
		prev = r
	}
	return v
}

type lexer struct {
	src []srcRune
	i   int
	out []rawToken
}

// lex splits source text into raw tokens.
func lex(src string) ([]rawToken, error) {
	l := lexer{src: strip(src)}
	for l.i < len(l.src) {
		r := l.src[l.i].r
		var err error
		switch {
		case r == '"', r == '\'':
			err = l.scanString()
		case '0' <= r && r <= '9', r == '.':
			err = l.scanNum()
		case strings.ContainsRune(Operators+"(),", r):
			l.emit(rawOp, l.i, l.i+1)
			l.i++
		default:
			err = l.scanIdent()
		}
		if err != nil {
			return nil, err
		}
	}
	return l.out, nil
}

func (l *lexer) emit(kind rawKind, start, end int) {
	l.out = append(l.out, rawToken{
		text: l.text(start, end),
		kind: kind,
		pos:  l.col(start),
	})
}

func (l *lexer) text(start, end int) string {
	var b strings.Builder
	for _, s := range l.src[start:end] {
		b.WriteRune(s.r)
	}
	return b.String()
}

// col gets the source column of the rune at index i of the stripped source.
func (l *lexer) col(i int) int {
	if i >= len(l.src) {
		if len(l.src) == 0 {
			return 1
		}
		return l.src[len(l.src)-1].col + 1
	}
	return l.src[i].col
}

func (l *lexer) scanNum() error {
	start := l.i
	dot := false
	for ; l.i < len(l.src); l.i++ {
		r := l.src[l.i].r
		if r == '.' {
			if dot {
				return &ParseError{Kind: MultiplePeriodsInNumber, Text: l.text(start, l.i+1), Col: l.col(l.i)}
			}
			dot = true
			continue
		}
		if r < '0' || '9' < r {
			break
		}
	}
	l.emit(rawNum, start, l.i)
	return nil
}

func (l *lexer) scanIdent() error {
	start := l.i
	for l.i < len(l.src) && !strings.ContainsRune(punct, l.src[l.i].r) && l.src[l.i].r != '.' {
		l.i++
	}
	if l.i < len(l.src) && l.src[l.i].r == '.' {
		return &ParseError{Kind: Unclassifiable, Text: l.text(start, l.i+1), Col: l.col(l.i)}
	}
	l.emit(rawIdent, start, l.i)
	// Whitespace is already gone, so "f (x)" is a call like "f(x)".
	if l.i < len(l.src) && l.src[l.i].r == '(' {
		l.out[len(l.out)-1].call = true
	}
	return nil
}

// scanString scans a quoted literal. The closer is the same quote rune unless
// a backslash precedes it; escapes are otherwise kept verbatim.
func (l *lexer) scanString() error {
	start := l.i
	quote := l.src[start].r
	for l.i = start + 1; l.i < len(l.src); l.i++ {
		if l.src[l.i].r == quote && l.src[l.i-1].r != '\\' {
			l.out = append(l.out, rawToken{
				text: l.text(start+1, l.i),
				kind: rawStr,
				pos:  l.col(start),
			})
			l.i++
			return nil
		}
	}
	return &ParseError{Kind: UnterminatedString, Text: l.text(start, len(l.src)), Col: l.col(start)}
}
