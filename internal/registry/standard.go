package registry

import (
	"math"
	"sort"
	"strings"

	"github.com/flavioheleno/go-jmespath/internal/value"
)

func anyType() ArgType { return ArgType{} }

func kindType(raise bool, kinds ...value.Kind) ArgType {
	at := ArgType{Kinds: kinds}
	if !raise {
		at.Failure = "null"
	}
	return at
}

func arrayOfType(raise bool, k value.Kind) ArgType {
	at := ArgType{HasArrayOf: true, ArrayOf: k}
	if !raise {
		at.Failure = "null"
	}
	return at
}

// NewStandard returns the standard JMESPath function library
// (SPEC_FULL §4): the registry's own external contract (spec §4.3)
// doesn't name a single function, so this set is the supplemented
// standard library a complete implementation needs to be useful.
func NewStandard() *Registry {
	return newRegistry(
		&Function{Name: "length", MinArgs: 1, MaxArgs: 1,
			ArgTypes: []ArgType{kindType(true, value.String, value.Array, value.Object)},
			Apply: func(a []value.Value) (value.Value, error) {
				return value.NewNumber(float64(a[0].Len())), nil
			},
		},
		&Function{Name: "type", MinArgs: 1, MaxArgs: 1,
			Apply: func(a []value.Value) (value.Value, error) {
				return value.NewString(a[0].Kind().String()), nil
			},
		},
		&Function{Name: "not_null", MinArgs: 1, MaxArgs: -1,
			Apply: func(a []value.Value) (value.Value, error) {
				for _, v := range a {
					if !v.IsNull() {
						return v, nil
					}
				}
				return value.NullValue(), nil
			},
		},
		&Function{Name: "to_string", MinArgs: 1, MaxArgs: 1,
			Apply: func(a []value.Value) (value.Value, error) {
				if a[0].Kind() == value.String {
					return a[0], nil
				}
				return value.NewString(a[0].Inspect()), nil
			},
		},
		&Function{Name: "to_number", MinArgs: 1, MaxArgs: 1,
			Apply: func(a []value.Value) (value.Value, error) {
				switch a[0].Kind() {
				case value.Number:
					return a[0], nil
				case value.String:
					if v, err := value.ParseJSON(a[0].String()); err == nil && v.Kind() == value.Number {
						return v, nil
					}
				}
				return value.NullValue(), nil
			},
		},
		&Function{Name: "to_array", MinArgs: 1, MaxArgs: 1,
			Apply: func(a []value.Value) (value.Value, error) {
				if a[0].Kind() == value.Array {
					return a[0], nil
				}
				return value.NewArray([]value.Value{a[0]}), nil
			},
		},
		&Function{Name: "keys", MinArgs: 1, MaxArgs: 1,
			ArgTypes: []ArgType{kindType(true, value.Object)},
			Apply: func(a []value.Value) (value.Value, error) {
				fields := a[0].Fields()
				out := make([]value.Value, len(fields))
				for i, p := range fields {
					out[i] = value.NewString(p.Key)
				}
				return value.NewArray(out), nil
			},
		},
		&Function{Name: "values", MinArgs: 1, MaxArgs: 1,
			ArgTypes: []ArgType{kindType(true, value.Object)},
			Apply: func(a []value.Value) (value.Value, error) {
				fields := a[0].Fields()
				out := make([]value.Value, len(fields))
				for i, p := range fields {
					out[i] = p.Value
				}
				return value.NewArray(out), nil
			},
		},
		&Function{Name: "merge", MinArgs: 0, MaxArgs: -1,
			Apply: func(a []value.Value) (value.Value, error) {
				var pairs []value.Pair
				for _, v := range a {
					if v.Kind() != value.Object {
						continue
					}
					for _, p := range v.Fields() {
						pairs = mergeSet(pairs, p)
					}
				}
				return value.NewObject(pairs), nil
			},
		},
		&Function{Name: "reverse", MinArgs: 1, MaxArgs: 1,
			ArgTypes: []ArgType{kindType(true, value.Array, value.String)},
			Apply: func(a []value.Value) (value.Value, error) {
				if a[0].Kind() == value.String {
					r := []rune(a[0].String())
					for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
						r[i], r[j] = r[j], r[i]
					}
					return value.NewString(string(r)), nil
				}
				src := a[0].Array()
				out := make([]value.Value, len(src))
				for i, v := range src {
					out[len(src)-1-i] = v
				}
				return value.NewArray(out), nil
			},
		},
		&Function{Name: "sort", MinArgs: 1, MaxArgs: 1,
			ArgTypes: []ArgType{kindType(true, value.Array)},
			Apply: func(a []value.Value) (value.Value, error) {
				return sortValues(a[0].Array())
			},
		},
		&Function{Name: "join", MinArgs: 2, MaxArgs: 2,
			ArgTypes: []ArgType{kindType(true, value.String), arrayOfType(true, value.String)},
			Apply: func(a []value.Value) (value.Value, error) {
				parts := make([]string, len(a[1].Array()))
				for i, v := range a[1].Array() {
					parts[i] = v.String()
				}
				return value.NewString(strings.Join(parts, a[0].String())), nil
			},
		},
		&Function{Name: "starts_with", MinArgs: 2, MaxArgs: 2,
			ArgTypes: []ArgType{kindType(true, value.String), kindType(true, value.String)},
			Apply: func(a []value.Value) (value.Value, error) {
				return value.NewBool(strings.HasPrefix(a[0].String(), a[1].String())), nil
			},
		},
		&Function{Name: "ends_with", MinArgs: 2, MaxArgs: 2,
			ArgTypes: []ArgType{kindType(true, value.String), kindType(true, value.String)},
			Apply: func(a []value.Value) (value.Value, error) {
				return value.NewBool(strings.HasSuffix(a[0].String(), a[1].String())), nil
			},
		},
		&Function{Name: "contains", MinArgs: 2, MaxArgs: 2,
			ArgTypes: []ArgType{kindType(true, value.String, value.Array)},
			Apply: func(a []value.Value) (value.Value, error) {
				if a[0].Kind() == value.String {
					needle, ok := stringOf(a[1])
					return value.NewBool(ok && strings.Contains(a[0].String(), needle)), nil
				}
				for _, v := range a[0].Array() {
					if v.Equal(a[1]) {
						return value.NewBool(true), nil
					}
				}
				return value.NewBool(false), nil
			},
		},
		&Function{Name: "abs", MinArgs: 1, MaxArgs: 1,
			ArgTypes: []ArgType{kindType(true, value.Number)},
			Apply: func(a []value.Value) (value.Value, error) {
				return value.NewNumber(math.Abs(a[0].Number())), nil
			},
		},
		&Function{Name: "floor", MinArgs: 1, MaxArgs: 1,
			ArgTypes: []ArgType{kindType(true, value.Number)},
			Apply: func(a []value.Value) (value.Value, error) {
				return value.NewNumber(math.Floor(a[0].Number())), nil
			},
		},
		&Function{Name: "ceil", MinArgs: 1, MaxArgs: 1,
			ArgTypes: []ArgType{kindType(true, value.Number)},
			Apply: func(a []value.Value) (value.Value, error) {
				return value.NewNumber(math.Ceil(a[0].Number())), nil
			},
		},
		&Function{Name: "sum", MinArgs: 1, MaxArgs: 1,
			ArgTypes: []ArgType{arrayOfType(true, value.Number)},
			Apply: func(a []value.Value) (value.Value, error) {
				var s float64
				for _, v := range a[0].Array() {
					s += v.Number()
				}
				return value.NewNumber(s), nil
			},
		},
		&Function{Name: "avg", MinArgs: 1, MaxArgs: 1,
			ArgTypes: []ArgType{arrayOfType(true, value.Number)},
			Apply: func(a []value.Value) (value.Value, error) {
				arr := a[0].Array()
				if len(arr) == 0 {
					return value.NullValue(), nil
				}
				var s float64
				for _, v := range arr {
					s += v.Number()
				}
				return value.NewNumber(s / float64(len(arr))), nil
			},
		},
		&Function{Name: "max", MinArgs: 1, MaxArgs: 1,
			ArgTypes: []ArgType{kindType(true, value.Array)},
			Apply: func(a []value.Value) (value.Value, error) { return extremum(a[0].Array(), true) },
		},
		&Function{Name: "min", MinArgs: 1, MaxArgs: 1,
			ArgTypes: []ArgType{kindType(true, value.Array)},
			Apply: func(a []value.Value) (value.Value, error) { return extremum(a[0].Array(), false) },
		},
		&Function{Name: "map", MinArgs: 2, MaxArgs: 2,
			ArgTypes: []ArgType{kindType(true, value.Expr), kindType(true, value.Array)},
			ApplyWithEval: func(a []value.Value, eval Evaluator) (value.Value, error) {
				src := a[1].Array()
				out := make([]value.Value, len(src))
				for i, elem := range src {
					v, err := eval(a[0], elem)
					if err != nil {
						return value.Value{}, err
					}
					out[i] = v
				}
				return value.NewArray(out), nil
			},
		},
		&Function{Name: "sort_by", MinArgs: 2, MaxArgs: 2,
			ArgTypes: []ArgType{kindType(true, value.Array), kindType(true, value.Expr)},
			ApplyWithEval: func(a []value.Value, eval Evaluator) (value.Value, error) {
				return sortByKey(a[0].Array(), a[1], eval)
			},
		},
		&Function{Name: "max_by", MinArgs: 2, MaxArgs: 2,
			ArgTypes: []ArgType{kindType(true, value.Array), kindType(true, value.Expr)},
			ApplyWithEval: func(a []value.Value, eval Evaluator) (value.Value, error) {
				return extremumByKey(a[0].Array(), a[1], eval, true)
			},
		},
		&Function{Name: "min_by", MinArgs: 2, MaxArgs: 2,
			ArgTypes: []ArgType{kindType(true, value.Array), kindType(true, value.Expr)},
			ApplyWithEval: func(a []value.Value, eval Evaluator) (value.Value, error) {
				return extremumByKey(a[0].Array(), a[1], eval, false)
			},
		},
	)
}

func stringOf(v value.Value) (string, bool) {
	if v.Kind() != value.String {
		return "", false
	}
	return v.String(), true
}

func mergeSet(pairs []value.Pair, p value.Pair) []value.Pair {
	for i, existing := range pairs {
		if existing.Key == p.Key {
			pairs[i].Value = p.Value
			return pairs
		}
	}
	return append(pairs, p)
}

func sortValues(items []value.Value) (value.Value, error) {
	out := append([]value.Value{}, items...)
	var sortErr error
	sort.SliceStable(out, func(i, j int) bool {
		cmp, ok := out[i].Compare(out[j])
		if !ok {
			sortErr = &RuntimeError{Func: "sort", ArgIndex: 0, Expected: "an array of comparable values", Actual: "mixed or unorderable element types"}
			return false
		}
		return cmp < 0
	})
	if sortErr != nil {
		return value.Value{}, sortErr
	}
	return value.NewArray(out), nil
}

func extremum(items []value.Value, wantMax bool) (value.Value, error) {
	if len(items) == 0 {
		return value.NullValue(), nil
	}
	best := items[0]
	for _, v := range items[1:] {
		cmp, ok := v.Compare(best)
		if !ok {
			return value.Value{}, &RuntimeError{Func: "max/min", ArgIndex: 0, Expected: "an array of comparable values", Actual: "mixed or unorderable element types"}
		}
		if (wantMax && cmp > 0) || (!wantMax && cmp < 0) {
			best = v
		}
	}
	return best, nil
}

// sortByKey implements sort_by: each element's sort key is computed by
// evaluating ref against it, exactly once, up front (real JMESPath
// implementations guarantee a single evaluation per element so a key
// expression with side effects, e.g. a function call, isn't re-run on
// every comparison).
func sortByKey(items []value.Value, ref value.Value, eval Evaluator) (value.Value, error) {
	type keyed struct {
		value value.Value
		key   value.Value
	}
	pairs := make([]keyed, len(items))
	for i, elem := range items {
		k, err := eval(ref, elem)
		if err != nil {
			return value.Value{}, err
		}
		pairs[i] = keyed{value: elem, key: k}
	}
	var sortErr error
	sort.SliceStable(pairs, func(i, j int) bool {
		cmp, ok := pairs[i].key.Compare(pairs[j].key)
		if !ok {
			sortErr = &RuntimeError{Func: "sort_by", ArgIndex: 1, Expected: "an expression producing comparable values", Actual: "mixed or unorderable key types"}
			return false
		}
		return cmp < 0
	})
	if sortErr != nil {
		return value.Value{}, sortErr
	}
	out := make([]value.Value, len(pairs))
	for i, p := range pairs {
		out[i] = p.value
	}
	return value.NewArray(out), nil
}

// extremumByKey implements max_by/min_by: like extremum, but compares
// each element's evaluated key rather than the element itself, and
// returns the original element.
func extremumByKey(items []value.Value, ref value.Value, eval Evaluator, wantMax bool) (value.Value, error) {
	if len(items) == 0 {
		return value.NullValue(), nil
	}
	funcName := "min_by"
	if wantMax {
		funcName = "max_by"
	}
	best := items[0]
	bestKey, err := eval(ref, best)
	if err != nil {
		return value.Value{}, err
	}
	for _, v := range items[1:] {
		k, err := eval(ref, v)
		if err != nil {
			return value.Value{}, err
		}
		cmp, ok := k.Compare(bestKey)
		if !ok {
			return value.Value{}, &RuntimeError{Func: funcName, ArgIndex: 1, Expected: "an expression producing comparable values", Actual: "mixed or unorderable key types"}
		}
		if (wantMax && cmp > 0) || (!wantMax && cmp < 0) {
			best, bestKey = v, k
		}
	}
	return best, nil
}
