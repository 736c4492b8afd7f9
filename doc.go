// Package expressions compiles infix formulas into trees that can be
// evaluated repeatedly.
//
// Formulas are written the way a spreadsheet user would: "1 + sin(angle) * 2".
// Whitespace is insignificant and juxtaposed terms multiply, so "2pi" and
// "(a)(b)" are products. Operators fold in four tiers, each left to right:
// "^"; then "*" and "/"; then "+" and "-"; then "&", "|", "=", ">" and "<". So
// "2^3^2" is 64 and "a > b > c" compares the result of "a > b" against c.
// Comparisons and the logical operators produce 1 for true and 0 for false.
//
// Names resolve at compile time against a Context, an ordered list of
// modules that always begins with the Standard module. A name defined by more
// than one module in the context is ambiguous. Qualifying it as "m:name"
// makes module m ignore it, so the definition from some other module wins.
// Functions resolve by name and argument count; a variadic definition
// accepts any count.
//
// Variables are shared, not copied. Evaluating a compiled expression
// evaluates each variable's registered supplier again, so a variable like
// epochMilli changes between evaluations.
package expressions
