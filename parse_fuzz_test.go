package expressions

import "testing"

func FuzzCompile(f *testing.F) {
	f.Add("x")
	f.Add("2(3+4)")
	f.Add("-two(x,-y)^--z")
	f.Add(`one("s") # 'q'`)
	f.Add("((,))")
	ctx := testctx()
	f.Fuzz(func(t *testing.T, s string) {
		a, err := Compile(s, ctx)
		if err != nil {
			return
		}
		if a.n.haskind(nodeNone) {
			t.Errorf("%q compiled with an empty node: %v", s, a.n)
		}
	})
}
