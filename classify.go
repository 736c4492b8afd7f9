package expressions

import (
	"strconv"
	"strings"
)

// token is a classified token.
type token struct {
	text string
	// name is the function name of a call opener or nullary call. It is empty
	// for a bracket that only groups.
	name string
	kind tokenKind
	pos  int
}

func (t token) String() string {
	s := t.kind.String() + ":" + t.text
	if t.name != "" {
		s += "[" + t.name + "]"
	}
	return s + "@" + strconv.Itoa(t.pos)
}

type tokenKind int8

const (
	tokenNone tokenKind = iota
	// tokenConst is a numeric literal.
	tokenConst
	// tokenVariable is a name to resolve as a module variable.
	tokenVariable
	// tokenNullary is a call with an empty argument list, e.g. random().
	tokenNullary
	// tokenUnary is a negation.
	tokenUnary
	// tokenBinary is an infix operator.
	tokenBinary
	// tokenOpen opens a group or a call's argument list.
	tokenOpen
	// tokenClose closes a group or argument list.
	tokenClose
	// tokenSep separates call arguments.
	tokenSep
	// tokenString is a string literal.
	tokenString
)

func (k tokenKind) String() string {
	switch k {
	case tokenNone:
		return "None"
	case tokenConst:
		return "Const"
	case tokenVariable:
		return "Variable"
	case tokenNullary:
		return "Nullary"
	case tokenUnary:
		return "Unary"
	case tokenBinary:
		return "Binary"
	case tokenOpen:
		return "Open"
	case tokenClose:
		return "Close"
	case tokenSep:
		return "Sep"
	case tokenString:
		return "String"
	default:
		return "tokenKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// classify assigns each raw token its syntactic role. A function name and
// the bracket after it become one opener token.
func classify(raw []rawToken) ([]token, error) {
	out := make([]token, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		t := raw[i]
		tok := token{text: t.text, pos: t.pos}
		switch t.kind {
		case rawNum:
			tok.kind = tokenConst
		case rawStr:
			tok.kind = tokenString
		case rawIdent:
			if !t.call {
				tok.kind = tokenVariable
				break
			}
			if i+1 >= len(raw) || raw[i+1].kind != rawOp || raw[i+1].text != "(" {
				return nil, &ParseError{Kind: Unclassifiable, Text: t.text, Col: t.pos}
			}
			tok.name = t.text
			if i+2 < len(raw) && raw[i+2].kind == rawOp && raw[i+2].text == ")" {
				tok.kind = tokenNullary
				tok.text = "()"
				i += 2
			} else {
				tok.kind = tokenOpen
				tok.text = "("
				i++
			}
		case rawOp:
			switch t.text {
			case "(":
				tok.kind = tokenOpen
			case ")":
				tok.kind = tokenClose
			case ",":
				tok.kind = tokenSep
			case "-":
				tok.kind = tokenBinary
				if len(out) == 0 {
					tok.kind = tokenUnary
					break
				}
				switch out[len(out)-1].kind {
				case tokenBinary, tokenOpen, tokenUnary, tokenSep:
					tok.kind = tokenUnary
				}
			default:
				if len(t.text) != 1 || !strings.Contains(Operators, t.text) {
					return nil, &ParseError{Kind: Unclassifiable, Text: t.text, Col: t.pos}
				}
				tok.kind = tokenBinary
			}
		default:
			return nil, &ParseError{Kind: Unclassifiable, Text: t.text, Col: t.pos}
		}
		out = append(out, tok)
	}
	return out, nil
}
