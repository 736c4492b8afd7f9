package expressions

import (
	"errors"
	"testing"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name  string
		src   string
		kinds []tokenKind
	}{
		{"const", "1", []tokenKind{tokenConst}},
		{"var", "x", []tokenKind{tokenVariable}},
		{"string", `"x"`, []tokenKind{tokenString}},
		{"sub", "3-2", []tokenKind{tokenConst, tokenBinary, tokenConst}},
		{"neg-first", "-3", []tokenKind{tokenUnary, tokenConst}},
		{"neg-binary", "3*-2", []tokenKind{tokenConst, tokenBinary, tokenUnary, tokenConst}},
		{"neg-neg", "--2", []tokenKind{tokenUnary, tokenUnary, tokenConst}},
		{"neg-open", "(-2)", []tokenKind{tokenOpen, tokenUnary, tokenConst, tokenClose}},
		{"neg-sep", "f(1,-2)", []tokenKind{tokenOpen, tokenConst, tokenSep, tokenUnary, tokenConst, tokenClose}},
		{"sub-close", "(1)-2", []tokenKind{tokenOpen, tokenConst, tokenClose, tokenBinary, tokenConst}},
		{"sub-var", "x-2", []tokenKind{tokenVariable, tokenBinary, tokenConst}},
		{"call", "f(x)", []tokenKind{tokenOpen, tokenVariable, tokenClose}},
		{"nullary", "f()", []tokenKind{tokenNullary}},
		{"nullary-mul", "f()x", []tokenKind{tokenNullary, tokenVariable}},
		{"sub-nullary", "f()-1", []tokenKind{tokenNullary, tokenBinary, tokenConst}},
		{"compare", "1=1>0<2&1|0", []tokenKind{
			tokenConst, tokenBinary, tokenConst, tokenBinary, tokenConst, tokenBinary,
			tokenConst, tokenBinary, tokenConst, tokenBinary, tokenConst,
		}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			raw, err := lex(c.src)
			if err != nil {
				t.Fatalf("lexing %q: %v", c.src, err)
			}
			toks, err := classify(raw)
			if err != nil {
				t.Fatalf("classifying %q: %v", c.src, err)
			}
			if len(toks) != len(c.kinds) {
				t.Fatalf("classifying %q: want %v, got %v", c.src, c.kinds, toks)
			}
			for i, k := range c.kinds {
				if toks[i].kind != k {
					t.Errorf("classifying %q: token %d: want %v, got %v", c.src, i, k, toks[i])
				}
			}
		})
	}
}

func TestClassifyNames(t *testing.T) {
	raw, err := lex("f(g(), (x))")
	if err != nil {
		t.Fatal(err)
	}
	toks, err := classify(raw)
	if err != nil {
		t.Fatal(err)
	}
	want := []token{
		{text: "(", name: "f", kind: tokenOpen, pos: 1},
		{text: "()", name: "g", kind: tokenNullary, pos: 3},
		{text: ",", kind: tokenSep, pos: 6},
		{text: "(", kind: tokenOpen, pos: 8},
		{text: "x", kind: tokenVariable, pos: 9},
		{text: ")", kind: tokenClose, pos: 10},
		{text: ")", kind: tokenClose, pos: 11},
	}
	if len(toks) != len(want) {
		t.Fatalf("want %v, got %v", want, toks)
	}
	for i := range want {
		if toks[i] != want[i] {
			t.Errorf("token %d: want %v, got %v", i, want[i], toks[i])
		}
	}
}

func TestClassifyErrors(t *testing.T) {
	cases := []struct {
		name string
		raw  []rawToken
	}{
		{"call-no-open", []rawToken{{text: "f", kind: rawIdent, call: true, pos: 1}}},
		{"unknown-op", []rawToken{{text: "%", kind: rawOp, pos: 1}}},
		{"none", []rawToken{{text: "?", pos: 1}}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := classify(c.raw)
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("want ParseError, got %v", err)
			}
			if pe.Kind != Unclassifiable {
				t.Errorf("want Unclassifiable, got %v", pe.Kind)
			}
		})
	}
}
