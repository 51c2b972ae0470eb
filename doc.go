/*
Package jmespath compiles and evaluates JMESPath expressions against
JSON-shaped data.

A JMESPath expression selects and reshapes data out of a JSON document:

	people[?age > `20`].name

selects the name field of every element of the people array whose age
field is greater than 20. Compile turns expression source text into a
Program: a flat bytecode sequence, a constant pool, and a name pool.
Evaluate runs a Program against an input Value and returns the
resulting Value, which may itself be an array, object, scalar, or null.

	program, err := jmespath.Compile("people[?age > `20`].name")
	if err != nil {
		// syntax error
	}
	result, err := jmespath.Evaluate(program, input)

A compiled Program is immutable and safe to evaluate repeatedly,
including concurrently from multiple goroutines; each call to Evaluate
runs its own VM instance against it. Search combines Compile and
Evaluate for callers that only need to run an expression once.

# Compiler and VM

The compiler (internal/compiler) is a Pratt-style recursive-descent
parser that emits bytecode directly rather than building an
intermediate AST: each token type has a nud (prefix) and/or led
(infix) handler that appends instructions to a flat, append-only
buffer, patching forward jump targets once they're known. The VM
(internal/vm) is a small stack machine: a "current" focus register
holds the in-progress result, a value stack holds operands saved
across sub-expressions, and an "each" instruction drives projection
loops (`*`, filters, flatten) by iterating a container and collecting
non-null per-element results.

# Functions

Function calls (`length(@)`, `sort(items)`, ...) are resolved through a
pluggable registry (internal/registry): each function declares its own
arity bounds and per-argument type contract, checked uniformly before
the function body runs. jmespath.Evaluate and Search use the standard
registry; jmespath.EvaluateExtended uses the extended registry, which
adds a uuid(namespace, name) function to the standard library.
*/
package jmespath
