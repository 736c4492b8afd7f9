package expressions

import "strconv"

// ParseErrorKind is the reason a ParseError occurred.
type ParseErrorKind int8

const (
	// MultiplePeriodsInNumber is a numeral with two or more decimal points.
	MultiplePeriodsInNumber ParseErrorKind = iota + 1
	// Unclassifiable is a character run that cannot become a token.
	Unclassifiable
	// UnterminatedString is a string literal missing its closing quote.
	UnterminatedString
)

func (k ParseErrorKind) String() string {
	switch k {
	case MultiplePeriodsInNumber:
		return "MultiplePeriodsInNumber"
	case Unclassifiable:
		return "Unclassifiable"
	case UnterminatedString:
		return "UnterminatedString"
	default:
		return "ParseErrorKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// ParseError indicates source text that the lexer or token classifier could
// not turn into tokens. It implements InputError.
type ParseError struct {
	// Kind is the reason for the error.
	Kind ParseErrorKind
	// Text is the token text scanned up to and including the offending rune.
	Text string
	// Col is the rune column of the offending rune.
	Col int
}

func (err *ParseError) Error() string {
	switch err.Kind {
	case MultiplePeriodsInNumber:
		return errpos(err.Col, "multiple periods in one decimal number "+strconv.Quote(err.Text))
	case UnterminatedString:
		return errpos(err.Col, "unterminated string literal "+strconv.Quote(err.Text))
	default:
		return errpos(err.Col, "cannot classify token "+strconv.Quote(err.Text))
	}
}

func (err *ParseError) Pos() int {
	return err.Col
}

// ExpressionErrorKind is the reason an InvalidExpressionError occurred.
type ExpressionErrorKind int8

const (
	// UnbalancedGrouping means the parentheses do not pair up.
	UnbalancedGrouping ExpressionErrorKind = iota + 1
	// EmptySource is a source, group, or function argument with no tokens.
	EmptySource
	// ArityMismatch is a call with the wrong number of arguments.
	ArityMismatch
	// MissingOperand is a binary operator with nothing on one side.
	MissingOperand
)

func (k ExpressionErrorKind) String() string {
	switch k {
	case UnbalancedGrouping:
		return "UnbalancedGrouping"
	case EmptySource:
		return "EmptySource"
	case ArityMismatch:
		return "ArityMismatch"
	case MissingOperand:
		return "MissingOperand"
	default:
		return "ExpressionErrorKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// InvalidExpressionError indicates a token sequence that cannot be assembled
// into an expression tree. It implements InputError.
type InvalidExpressionError struct {
	// Kind is the reason for the error.
	Kind ExpressionErrorKind
	// Col is the position of the token that caused the error.
	Col int
	// Op is the operator missing an operand, for MissingOperand.
	Op string
	// Func is the called function name, for ArityMismatch.
	Func string
	// Want and Got are the declared and supplied argument counts, for
	// ArityMismatch.
	Want, Got int
}

func (err *InvalidExpressionError) Error() string {
	switch err.Kind {
	case UnbalancedGrouping:
		return errpos(err.Col, "grouping symbols are not balanced")
	case EmptySource:
		return errpos(err.Col, "expression must have a value")
	case ArityMismatch:
		return errpos(err.Col, "function "+strconv.Quote(err.Func)+" takes "+plural(err.Want, "parameter")+", but "+strconv.Itoa(err.Got)+wasWere(err.Got)+" provided")
	case MissingOperand:
		return errpos(err.Col, "operator "+strconv.Quote(err.Op)+" is missing an operand")
	default:
		return errpos(err.Col, "invalid expression")
	}
}

func (err *InvalidExpressionError) Pos() int {
	return err.Col
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}

func wasWere(n int) string {
	if n == 1 {
		return " was"
	}
	return " were"
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// malformed source text implements InputError. Name resolution errors do not.
type InputError interface {
	error
	// Pos returns the position of the error as the number of runes up to and
	// including the start of the token that caused the error.
	Pos() int
}

var (
	_ InputError = (*ParseError)(nil)
	_ InputError = (*InvalidExpressionError)(nil)
)
