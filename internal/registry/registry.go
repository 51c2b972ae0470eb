// Package registry implements the function registry spec §4.3
// describes: a name-keyed table of callable built-ins, each declaring
// its own arity and per-argument type contract, checked uniformly
// before the function body ever runs. Grounded on the shape of
// mcgru-funxy's evaluator.Builtin (name + Fn + declared signature,
// checked once centrally rather than by each function body).
package registry

import (
	"fmt"

	"github.com/flavioheleno/go-jmespath/internal/value"
)

// RuntimeError is raised when a call fails arity or argument-type
// validation, or when the function body itself reports a domain
// error (spec §7).
type RuntimeError struct {
	Func     string
	ArgIndex int
	Expected string
	Actual   string
}

func (e *RuntimeError) Error() string {
	if e.ArgIndex < 0 {
		return fmt.Sprintf("jmespath: %s(): %s", e.Func, e.Expected)
	}
	return fmt.Sprintf("jmespath: %s(): argument %d: expected %s, got %s", e.Func, e.ArgIndex, e.Expected, e.Actual)
}

// ArgType is one accepted shape for an argument slot: Kinds lists the
// value.Kind values accepted (empty means "any"), and ArrayOf further
// restricts an Array argument to one whose elements are all of a
// single kind (used by sum/avg's "array of numbers" and join's "array
// of strings").
type ArgType struct {
	Kinds      []value.Kind
	ArrayOf    value.Kind
	HasArrayOf bool

	// Failure is the policy spec §4.3 requires per argument: "null"
	// substitutes a null result for the whole call on mismatch instead
	// of raising. Any other value (including "") raises.
	Failure string
}

func (a ArgType) describe() string {
	if a.HasArrayOf {
		return "array of " + a.ArrayOf.String()
	}
	if len(a.Kinds) == 0 {
		return "any"
	}
	s := a.Kinds[0].String()
	for _, k := range a.Kinds[1:] {
		s += " or " + k.String()
	}
	return s
}

func (a ArgType) accepts(v value.Value) bool {
	if a.HasArrayOf {
		if v.Kind() != value.Array {
			return false
		}
		for _, e := range v.Array() {
			if e.Kind() != a.ArrayOf {
				return false
			}
		}
		return true
	}
	if len(a.Kinds) == 0 {
		return true
	}
	for _, k := range a.Kinds {
		if v.Kind() == k {
			return true
		}
	}
	return false
}

// Evaluator invokes an expression reference (a value.Expr-kind Value
// produced by compiling `&expr`) against a single input value. Only
// vm.VM can actually execute the referenced instructions; Apply
// functions that accept an expression reference (map, sort_by, max_by,
// min_by) receive one as a plain parameter rather than importing vm.
type Evaluator func(ref value.Value, input value.Value) (value.Value, error)

// Function is one registered built-in: its name (for error messages),
// its arity bounds (Max == -1 means unbounded), a declared ArgType per
// fixed slot (variadic slots beyond len(ArgTypes) are unchecked), and
// the Go function that implements it. Exactly one of Apply and
// ApplyWithEval is set: ApplyWithEval is for the handful of built-ins
// that take an expression-reference argument and need the VM's
// Evaluator to invoke it per element.
type Function struct {
	Name          string
	MinArgs       int
	MaxArgs       int
	ArgTypes      []ArgType
	Apply         func(args []value.Value) (value.Value, error)
	ApplyWithEval func(args []value.Value, eval Evaluator) (value.Value, error)
}

// Call validates args against f's declared contract and, if they
// pass, invokes Apply or ApplyWithEval. eval is unused (and may be
// nil) for functions that declare Apply instead.
func (f *Function) Call(args []value.Value, eval Evaluator) (value.Value, error) {
	if len(args) < f.MinArgs || (f.MaxArgs >= 0 && len(args) > f.MaxArgs) {
		return value.Value{}, &RuntimeError{Func: f.Name, ArgIndex: -1, Expected: fmt.Sprintf("between %d and %d arguments", f.MinArgs, f.MaxArgs)}
	}
	for i, at := range f.ArgTypes {
		if i >= len(args) {
			break
		}
		if !at.accepts(args[i]) {
			if at.Failure == "null" {
				return value.NullValue(), nil
			}
			return value.Value{}, &RuntimeError{Func: f.Name, ArgIndex: i, Expected: at.describe(), Actual: args[i].Kind().String()}
		}
	}
	if f.ApplyWithEval != nil {
		return f.ApplyWithEval(args, eval)
	}
	return f.Apply(args)
}

// Registry is a name-keyed, read-only-after-construction table of
// Functions (spec §4.3, §5: shared safely across concurrent VM runs).
type Registry struct {
	funcs map[string]*Function
}

// Lookup returns the function registered under name, if any.
func (r *Registry) Lookup(name string) (*Function, bool) {
	fn, ok := r.funcs[name]
	return fn, ok
}

func newRegistry(fns ...*Function) *Registry {
	r := &Registry{funcs: make(map[string]*Function, len(fns))}
	for _, fn := range fns {
		r.funcs[fn.Name] = fn
	}
	return r
}
