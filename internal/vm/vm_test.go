package vm

import (
	"testing"

	"github.com/flavioheleno/go-jmespath/internal/compiler"
	"github.com/flavioheleno/go-jmespath/internal/registry"
	"github.com/flavioheleno/go-jmespath/internal/value"
)

func run(t *testing.T, expr string, input value.Value) value.Value {
	t.Helper()
	prog, err := compiler.Compile(expr)
	if err != nil {
		t.Fatalf("Compile(%q): %v", expr, err)
	}
	m := New(registry.NewStandard())
	got, err := m.Run(prog, input)
	if err != nil {
		t.Fatalf("Run(%q): %v", expr, err)
	}
	return got
}

func TestFieldOnNonObjectYieldsNull(t *testing.T) {
	got := run(t, "a.b", value.NewString("not an object"))
	if !got.IsNull() {
		t.Errorf("a.b on a string = %v, want null", got.Inspect())
	}
}

func TestNegativeIndex(t *testing.T) {
	in := value.NewArray([]value.Value{value.NewNumber(1), value.NewNumber(2), value.NewNumber(3)})
	got := run(t, "@[-1]", in)
	if got.Number() != 3 {
		t.Errorf("@[-1] = %v, want 3", got.Inspect())
	}
}

func TestOutOfRangeIndexYieldsNull(t *testing.T) {
	in := value.NewArray([]value.Value{value.NewNumber(1)})
	got := run(t, "@[5]", in)
	if !got.IsNull() {
		t.Errorf("@[5] on a 1-element array = %v, want null", got.Inspect())
	}
}

func TestSliceDefaults(t *testing.T) {
	in := value.NewArray([]value.Value{value.NewNumber(1), value.NewNumber(2), value.NewNumber(3), value.NewNumber(4)})
	got := run(t, "@[1:]", in)
	want := value.NewArray([]value.Value{value.NewNumber(2), value.NewNumber(3), value.NewNumber(4)})
	if !got.Equal(want) {
		t.Errorf("@[1:] = %v, want %v", got.Inspect(), want.Inspect())
	}
}

func TestSliceNegativeStep(t *testing.T) {
	in := value.NewArray([]value.Value{value.NewNumber(1), value.NewNumber(2), value.NewNumber(3)})
	got := run(t, "@[::-1]", in)
	want := value.NewArray([]value.Value{value.NewNumber(3), value.NewNumber(2), value.NewNumber(1)})
	if !got.Equal(want) {
		t.Errorf("@[::-1] = %v, want %v", got.Inspect(), want.Inspect())
	}
}

func TestComparisonOnMismatchedKindsYieldsNull(t *testing.T) {
	got := run(t, "a > b", value.NewObject([]value.Pair{
		{Key: "a", Value: value.NewNumber(1)},
		{Key: "b", Value: value.NewString("x")},
	}))
	if !got.IsNull() {
		t.Errorf("1 > \"x\" = %v, want null", got.Inspect())
	}
}

func TestComparisonDirection(t *testing.T) {
	in := value.NewObject([]value.Pair{{Key: "age", Value: value.NewNumber(25)}})
	if got := run(t, "age > `20`", in); !got.Bool() {
		t.Errorf("age(25) > `20` = %v, want true", got.Inspect())
	}
	if got := run(t, "age < `20`", in); got.Bool() {
		t.Errorf("age(25) < `20` = %v, want false", got.Inspect())
	}
}

func TestEqualityIsStructural(t *testing.T) {
	in := value.NewObject([]value.Pair{
		{Key: "a", Value: value.NewArray([]value.Value{value.NewNumber(1), value.NewNumber(2)})},
		{Key: "b", Value: value.NewArray([]value.Value{value.NewNumber(1), value.NewNumber(2)})},
	})
	if got := run(t, "a == b", in); !got.Bool() {
		t.Errorf("a == b (equal arrays) = %v, want true", got.Inspect())
	}
}

func TestRuntimeErrorOnFunctionArity(t *testing.T) {
	prog, err := compiler.Compile("length(a, b)")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	m := New(registry.NewStandard())
	_, err = m.Run(prog, value.NewObject(nil))
	if err == nil {
		t.Fatalf("expected a runtime error for length/2")
	}
	if _, ok := err.(*registry.RuntimeError); !ok {
		t.Fatalf("got error %T, want *registry.RuntimeError", err)
	}
}

func TestUnknownFunctionIsRuntimeError(t *testing.T) {
	prog, err := compiler.Compile("nonexistent(a)")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	m := New(registry.NewStandard())
	_, err = m.Run(prog, value.NewObject(nil))
	if err == nil {
		t.Fatalf("expected a runtime error for an unregistered function")
	}
}

func TestNotNullFallback(t *testing.T) {
	got := run(t, "not_null(missing, present)", value.NewObject([]value.Pair{
		{Key: "present", Value: value.NewString("x")},
	}))
	if got.String() != "x" {
		t.Errorf("not_null(missing, present) = %v, want \"x\"", got.Inspect())
	}
}

func newPeople() value.Value {
	person := func(name string, age float64) value.Value {
		return value.NewObject([]value.Pair{
			{Key: "name", Value: value.NewString(name)},
			{Key: "age", Value: value.NewNumber(age)},
		})
	}
	return value.NewObject([]value.Pair{
		{Key: "people", Value: value.NewArray([]value.Value{
			person("a", 3), person("b", 1), person("c", 2),
		})},
	})
}

func TestMapExprRefEndToEnd(t *testing.T) {
	got := run(t, "map(&name, people)", newPeople())
	want := value.NewArray([]value.Value{value.NewString("a"), value.NewString("b"), value.NewString("c")})
	if !got.Equal(want) {
		t.Errorf("map(&name, people) = %v, want %v", got.Inspect(), want.Inspect())
	}
}

func TestSortByExprRefEndToEnd(t *testing.T) {
	got := run(t, "sort_by(people, &age)", newPeople())
	ages := got.Array()
	if len(ages) != 3 {
		t.Fatalf("sort_by(people, &age) = %v, want 3 elements", got.Inspect())
	}
	for i, want := range []float64{1, 2, 3} {
		age, _ := ages[i].Get("age")
		if age.Number() != want {
			t.Errorf("sort_by(people, &age)[%d].age = %v, want %v", i, age.Inspect(), want)
		}
	}
}

func TestMaxByMinByExprRefEndToEnd(t *testing.T) {
	max := run(t, "max_by(people, &age)", newPeople())
	if name, _ := max.Get("name"); name.String() != "a" {
		t.Errorf("max_by(people, &age) = %v, want the age=3 element", max.Inspect())
	}
	min := run(t, "min_by(people, &age)", newPeople())
	if name, _ := min.Get("name"); name.String() != "b" {
		t.Errorf("min_by(people, &age) = %v, want the age=1 element", min.Inspect())
	}
}

func TestSortByDoesNotLeakExprRefVMState(t *testing.T) {
	// Regression for evalExprRef: a nested sort_by call must restore the
	// VM's own ip/stack/saved/current after evaluating each element,
	// otherwise the multi-select item that follows it reads garbage.
	in, _ := newPeople().Get("people")
	got := run(t, "[sort_by(people, &age)[0].name, a]", value.NewObject([]value.Pair{
		{Key: "a", Value: value.NewString("ok")},
		{Key: "people", Value: in},
	}))
	items := got.Array()
	if len(items) != 2 {
		t.Fatalf("got %v, want a 2-element array", got.Inspect())
	}
	if items[0].String() != "b" {
		t.Errorf("sort_by(people, &age)[0].name = %v, want \"b\"", items[0].Inspect())
	}
	if items[1].String() != "ok" {
		t.Errorf("a = %v, want \"ok\" (VM state leaked across the expr-ref call)", items[1].Inspect())
	}
}
