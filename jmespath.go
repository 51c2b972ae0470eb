package jmespath

import (
	"github.com/flavioheleno/go-jmespath/internal/compiler"
	"github.com/flavioheleno/go-jmespath/internal/registry"
	"github.com/flavioheleno/go-jmespath/internal/value"
	"github.com/flavioheleno/go-jmespath/internal/vm"
)

// Program is a compiled JMESPath expression. It is immutable and safe
// to evaluate repeatedly, including concurrently, once Compile returns
// (spec §5).
type Program struct {
	prog *compiler.Program
}

// Value is the JSON-shaped result type: null, boolean, number, string,
// an ordered array, or an object with insertion order preserved.
type Value = value.Value

// SyntaxError is returned by Compile when expr cannot be parsed.
type SyntaxError = compiler.SyntaxError

// RuntimeError is returned by Evaluate when a function call in the
// expression fails its arity or type contract.
type RuntimeError = registry.RuntimeError

// standardFunctions is the registry Evaluate and Search use: the
// standard JMESPath function library only. The uuid extension in
// registry.NewExtended is an opt-in dialect addition (SPEC_FULL §3.1)
// and is never reached through these package-level entry points.
var standardFunctions = registry.NewStandard()
var extendedFunctions = registry.NewExtended()

// Compile parses and compiles expr into a reusable Program.
func Compile(expr string) (*Program, error) {
	prog, err := compiler.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &Program{prog: prog}, nil
}

// Evaluate runs program against input and returns the resulting value,
// using the standard JMESPath function library.
func Evaluate(program *Program, input Value) (Value, error) {
	m := vm.New(standardFunctions)
	return m.Run(program.prog, input)
}

// EvaluateExtended runs program against input using the extended
// function library, which additionally provides uuid(namespace, name).
func EvaluateExtended(program *Program, input Value) (Value, error) {
	m := vm.New(extendedFunctions)
	return m.Run(program.prog, input)
}

// Search compiles expr and evaluates it against input in one step, for
// callers that don't need to reuse the compiled Program.
func Search(expr string, input Value) (Value, error) {
	program, err := Compile(expr)
	if err != nil {
		return Value{}, err
	}
	return Evaluate(program, input)
}

// FromInterface converts a generic Go value (as produced by
// encoding/json, or hand-built from map[string]interface{} /
// []interface{} / primitives) into a Value.
func FromInterface(v interface{}) Value { return value.FromInterface(v) }

// ParseJSON decodes a single JSON document into a Value, preserving
// object key order.
func ParseJSON(text string) (Value, error) { return value.ParseJSON(text) }
