package expressions

// AnyArity is the Arity of a function that accepts any number of arguments.
const AnyArity = -1

// Function is a host function that expressions can call. Functions are
// registered in a module under a name and their arity; the same name may be
// registered once per arity.
type Function struct {
	// Arity is the number of arguments the function takes, or AnyArity.
	Arity int

	call func(args []Value) (float64, error)
}

// Call invokes the function. The arguments are not checked against Arity;
// the compiler does that when it resolves a call.
func (f *Function) Call(args ...Value) (float64, error) {
	if f == nil || f.call == nil {
		panic("expressions: call of uninitialized Function")
	}
	return f.call(args)
}

// Func wraps a function of numbers into a Function with the given arity.
// Passing a string to it is an evaluation error.
func Func(arity int, f func(args []float64) float64) *Function {
	return &Function{
		Arity: arity,
		call: func(args []Value) (float64, error) {
			x, err := floats(args)
			if err != nil {
				return 0, err
			}
			return f(x), nil
		},
	}
}

// Variadic wraps a function of any number of numbers into a Function.
func Variadic(f func(args []float64) float64) *Function {
	return Func(AnyArity, f)
}

// Monadic wraps a function of one number into a Function.
func Monadic(f func(x float64) float64) *Function {
	return Func(1, func(args []float64) float64 { return f(args[0]) })
}

// Niladic wraps a function of no arguments into a Function. Niladic
// functions are called as name().
func Niladic(f func() float64) *Function {
	return Func(0, func([]float64) float64 { return f() })
}

// StringFunc wraps a function of one string into a Function. Passing a
// number to it is an evaluation error.
func StringFunc(f func(s string) float64) *Function {
	return &Function{
		Arity: 1,
		call: func(args []Value) (float64, error) {
			if !args[0].IsString() {
				return 0, &EvalError{Kind: NotAString, Text: args[0].String()}
			}
			return f(args[0].String()), nil
		},
	}
}

// ValueFunc creates a Function that receives its arguments unconverted and
// may fail. Errors it returns abort evaluation.
func ValueFunc(arity int, f func(args []Value) (float64, error)) *Function {
	return &Function{Arity: arity, call: f}
}

// floats converts arguments to numbers.
func floats(args []Value) ([]float64, error) {
	x := make([]float64, len(args))
	for i, v := range args {
		if v.IsString() {
			return nil, &EvalError{Kind: NotANumber, Text: v.String()}
		}
		x[i] = v.Float()
	}
	return x, nil
}
