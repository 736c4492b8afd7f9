package expressions

import (
	"log/slog"
	"math"
	"math/big"
	"math/rand"
	"time"

	"github.com/zephyrtronium/bigfloat"
)

// StdName is the name of the standard module.
const StdName = "std"

// Standard is the standard module. Every context searches it first.
//
// Trigonometric functions take and return degrees; the variants suffixed with
// r use radians. Time variables read the local clock on every evaluation.
var Standard = stdModule()

// now is the clock for time variables.
var now = time.Now

func stdModule() *Module {
	b := NewModule(StdName)
	vars := map[string]*Expr{
		"PI":         Const(math.Pi),
		"pi":         Const(math.Pi),
		"e":          Const(math.E),
		"E":          Const(math.E),
		"maxInteger": Const(math.MaxInt32),
		"minInteger": Const(math.MinInt32),
		"maxDouble":  Const(math.MaxFloat64),
		"minDouble":  Const(math.SmallestNonzeroFloat64),

		"localDayOfYear":    clock(func(t time.Time) int { return t.YearDay() }),
		"localDayOfMonth":   clock(func(t time.Time) int { return t.Day() }),
		"localDayOfWeek":    clock(isoWeekday),
		"localMonth":        clock(func(t time.Time) int { return int(t.Month()) }),
		"localYear":         clock(func(t time.Time) int { return t.Year() }),
		"localSecondOfHour": clock(func(t time.Time) int { return t.Minute()*60 + t.Second() }),
		"localMinuteOfHour": clock(func(t time.Time) int { return t.Minute() }),
		"localSecondOfDay":  clock(func(t time.Time) int { return t.Hour()*3600 + t.Minute()*60 + t.Second() }),
		"localMinuteOfDay":  clock(func(t time.Time) int { return t.Hour()*60 + t.Minute() }),
		"localHour":         clock(func(t time.Time) int { return t.Hour() }),
		"epochMilli":        Supplier(func() float64 { return float64(now().UnixMilli()) }),
		"random":            Supplier(rand.Float64),
	}
	for name, v := range vars {
		must(b.AddVariable(name, v))
	}
	funcs := map[string]*Function{
		"sin":     Monadic(func(x float64) float64 { return math.Sin(radians(x)) }),
		"sinr":    Monadic(math.Sin),
		"cos":     Monadic(func(x float64) float64 { return math.Cos(radians(x)) }),
		"cosr":    Monadic(math.Cos),
		"tan":     Monadic(func(x float64) float64 { return math.Tan(radians(x)) }),
		"tanr":    Monadic(math.Tan),
		"asin":    Monadic(func(x float64) float64 { return degrees(math.Asin(x)) }),
		"asinr":   Monadic(math.Asin),
		"acos":    Monadic(func(x float64) float64 { return degrees(math.Acos(x)) }),
		"acosr":   Monadic(math.Acos),
		"atan":    Monadic(func(x float64) float64 { return degrees(math.Atan(x)) }),
		"atanr":   Monadic(math.Atan),
		"radians": Monadic(radians),
		"deg":     Monadic(degrees),
		"floor":   Monadic(math.Floor),
		"ceil":    Monadic(math.Ceil),
		"round":   Monadic(func(x float64) float64 { return math.Floor(x + 0.5) }),
		"abs":     Monadic(math.Abs),
		"sqrt":    Monadic(math.Sqrt),
		"exp":     Monadic(exp),
		"ln":      Monadic(ln),
		"min":     Variadic(minimum),
		"max":     Variadic(maximum),
		"ifElse": Func(3, func(x []float64) float64 {
			if x[0] != 0 {
				return x[1]
			}
			return x[2]
		}),
		"consoleLog": ValueFunc(1, func(args []Value) (float64, error) {
			slog.Info("consoleLog", slog.String("value", args[0].String()))
			return 0, nil
		}),
	}
	for name, fn := range funcs {
		must(b.AddFunction(name, fn))
	}
	// log has a one-argument and a two-argument form.
	must(b.AddFunction("log", Monadic(log10)))
	must(b.AddFunction("log", Func(2, func(x []float64) float64 { return ln(x[0]) / ln(x[1]) })))
	return b.Build()
}

func must(err error) {
	if err != nil {
		panic("expressions: building standard module: " + err.Error())
	}
}

func clock(f func(time.Time) int) *Expr {
	return Supplier(func() float64 { return float64(f(now())) })
}

// isoWeekday numbers Monday as 1 through Sunday as 7.
func isoWeekday(t time.Time) int {
	d := int(t.Weekday())
	if d == 0 {
		return 7
	}
	return d
}

func radians(x float64) float64 {
	return x * math.Pi / 180
}

func degrees(x float64) float64 {
	return x * 180 / math.Pi
}

func minimum(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	r := x[0]
	for _, v := range x[1:] {
		r = math.Min(r, v)
	}
	return r
}

func maximum(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	r := x[0]
	for _, v := range x[1:] {
		r = math.Max(r, v)
	}
	return r
}

// precision is the working precision in bits for exp and logarithms.
const precision = 128

// precise computes f at extended precision and rounds to the nearest float64.
// f must panic with an error of type big.ErrNaN outside its domain.
func precise(x float64, f func(out, in *big.Float) *big.Float) (r float64) {
	defer func() {
		err := recover()
		if err == nil {
			return
		}
		if _, ok := err.(big.ErrNaN); ok {
			r = math.NaN()
			return
		}
		panic(err)
	}()
	in := new(big.Float).SetPrec(precision).SetFloat64(x)
	out := new(big.Float).SetPrec(precision)
	r, _ = f(out, in).Float64()
	return r
}

func exp(x float64) float64 {
	switch {
	case math.IsNaN(x):
		return x
	case x > 710:
		return math.Inf(1)
	case x < -746:
		return 0
	}
	return precise(x, bigfloat.Exp)
}

func ln(x float64) float64 {
	switch {
	case math.IsNaN(x), x < 0:
		return math.NaN()
	case x == 0:
		return math.Inf(-1)
	case math.IsInf(x, 1):
		return x
	}
	return precise(x, bigfloat.Log)
}

func log10(x float64) float64 {
	switch {
	case math.IsNaN(x), x < 0:
		return math.NaN()
	case x == 0:
		return math.Inf(-1)
	case math.IsInf(x, 1):
		return x
	}
	return precise(x, func(out, in *big.Float) *big.Float {
		bigfloat.Log(out, in)
		in.SetFloat64(10).SetPrec(out.Prec())
		bigfloat.Log(in, in)
		return out.Quo(out, in)
	})
}
