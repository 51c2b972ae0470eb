// Package value defines the JSON-shaped domain value the compiler's
// literals carry and the VM evaluates against. Spec §1 treats "the JSON
// value representation itself" as an external, given concern; this
// package is the concrete shape that assumption resolves to, modeled as
// a tagged union the way the pack's own JSON library (mcvoid/json)
// represents a decoded document, extended with an ordered object so
// multi-select and object projection preserve insertion order (spec §3).
package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Kind discriminates the variant held by a Value.
type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object

	// Expr holds a compiled expression-reference (`&expr`): not JSON
	// data, but an opaque pair of instruction offsets the compiler
	// assigns and only vm.VM knows how to invoke. It exists purely to
	// move through a Function's args like any other Value; it can
	// never appear in JMESPath's own output.
	Expr
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	case Expr:
		return "expression"
	default:
		return "unknown"
	}
}

// Pair is one key/value entry of an Object, kept in insertion order.
type Pair struct {
	Key   string
	Value Value
}

// Value is a JSON-domain value: null, boolean, number, string, an
// ordered array of values, or an object mapping strings to values with
// insertion order preserved. The zero Value is null.
type Value struct {
	kind   Kind
	bl     bool
	num    float64
	str    string
	arr    []Value
	fields []Pair

	exprStart, exprEnd int // Expr only: instruction offsets, see Kind.Expr
}

// NullValue returns the null value.
func NullValue() Value { return Value{kind: Null} }

// NewBool wraps a boolean.
func NewBool(b bool) Value { return Value{kind: Bool, bl: b} }

// NewNumber wraps a float64 (JMESPath numbers are not integer/float
// distinct at the value level; VM arithmetic, where needed, narrows).
func NewNumber(n float64) Value { return Value{kind: Number, num: n} }

// NewString wraps a string.
func NewString(s string) Value { return Value{kind: String, str: s} }

// NewArray wraps an ordered sequence of values. The slice is not
// copied; callers should not mutate it afterwards.
func NewArray(items []Value) Value { return Value{kind: Array, arr: items} }

// NewObject wraps an ordered set of key/value pairs. The slice is not
// copied; callers should not mutate it afterwards.
func NewObject(pairs []Pair) Value { return Value{kind: Object, fields: pairs} }

// NewExprRef wraps an expression reference: start and end are
// instruction offsets into the Program that compiled it (the half-open
// range a VM re-enters to evaluate the referenced sub-expression
// against a caller-supplied root, one element at a time).
func NewExprRef(start, end int) Value { return Value{kind: Expr, exprStart: start, exprEnd: end} }

// ExprRef returns the instruction offsets an Expr-kind Value carries.
func (v Value) ExprRef() (start, end int) { return v.exprStart, v.exprEnd }

// Kind reports the value's discriminant.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is the null value.
func (v Value) IsNull() bool { return v.kind == Null }

// Bool returns the boolean payload; only valid when Kind() == Bool.
func (v Value) Bool() bool { return v.bl }

// Number returns the numeric payload; only valid when Kind() == Number.
func (v Value) Number() float64 { return v.num }

// String returns the string payload; only valid when Kind() == String.
func (v Value) String() string {
	switch v.kind {
	case String:
		return v.str
	default:
		return v.Inspect()
	}
}

// Array returns the element slice; only valid when Kind() == Array.
func (v Value) Array() []Value { return v.arr }

// Fields returns the ordered key/value pairs; only valid when
// Kind() == Object.
func (v Value) Fields() []Pair { return v.fields }

// Get returns the value for key in an object, and whether it was
// present. Returns (Null, false) for any non-object value.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != Object {
		return Value{}, false
	}
	for _, p := range v.fields {
		if p.Key == key {
			return p.Value, true
		}
	}
	return Value{}, false
}

// Len returns the number of elements (array), fields (object) or runes
// (string); 0 for null, bool and number.
func (v Value) Len() int {
	switch v.kind {
	case Array:
		return len(v.arr)
	case Object:
		return len(v.fields)
	case String:
		return len([]rune(v.str))
	default:
		return 0
	}
}

// Truthy implements JMESPath truthiness (spec §4.2): false, null, and
// empty arrays/objects/strings are falsy; everything else is truthy.
func (v Value) Truthy() bool {
	switch v.kind {
	case Null:
		return false
	case Bool:
		return v.bl
	case Number:
		return true
	case String:
		return v.str != ""
	case Array:
		return len(v.arr) > 0
	case Object:
		return len(v.fields) > 0
	default:
		return false
	}
}

// Equal reports structural equality, as required by spec §3 ("Equality
// is structural") and used by the VM's `eq`/`neq` opcodes.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case Null:
		return true
	case Bool:
		return v.bl == o.bl
	case Number:
		return v.num == o.num
	case String:
		return v.str == o.str
	case Array:
		if len(v.arr) != len(o.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(o.arr[i]) {
				return false
			}
		}
		return true
	case Object:
		if len(v.fields) != len(o.fields) {
			return false
		}
		for _, p := range v.fields {
			ov, ok := o.Get(p.Key)
			if !ok || !p.Value.Equal(ov) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Compare orders two values for the VM's `gt`/`gte`/`lt`/`lte`
// opcodes. Only numbers and strings have a total order in JMESPath;
// mismatched or unordered kinds return (0, false) and the caller must
// treat the comparison as null, per spec §7.
func (v Value) Compare(o Value) (cmp int, ok bool) {
	if v.kind != o.kind {
		return 0, false
	}
	switch v.kind {
	case Number:
		switch {
		case v.num < o.num:
			return -1, true
		case v.num > o.num:
			return 1, true
		default:
			return 0, true
		}
	case String:
		switch {
		case v.str < o.str:
			return -1, true
		case v.str > o.str:
			return 1, true
		default:
			return 0, true
		}
	default:
		return 0, false
	}
}

// Inspect renders v as JSON text, primarily for debugging and the CLI.
func (v Value) Inspect() string {
	var buf bytes.Buffer
	v.writeJSON(&buf)
	return buf.String()
}

func (v Value) writeJSON(buf *bytes.Buffer) {
	switch v.kind {
	case Null, Expr:
		buf.WriteString("null")
	case Bool:
		if v.bl {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case Number:
		enc, _ := json.Marshal(v.num)
		buf.Write(enc)
	case String:
		enc, _ := json.Marshal(v.str)
		buf.Write(enc)
	case Array:
		buf.WriteByte('[')
		for i, e := range v.arr {
			if i > 0 {
				buf.WriteByte(',')
			}
			e.writeJSON(buf)
		}
		buf.WriteByte(']')
	case Object:
		buf.WriteByte('{')
		for i, p := range v.fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			keyEnc, _ := json.Marshal(p.Key)
			buf.Write(keyEnc)
			buf.WriteByte(':')
			p.Value.writeJSON(buf)
		}
		buf.WriteByte('}')
	}
}

// MarshalJSON lets a Value round-trip through encoding/json directly.
func (v Value) MarshalJSON() ([]byte, error) {
	return []byte(v.Inspect()), nil
}

// FromInterface converts a generic Go value (as decoded by
// encoding/json with UseNumber, or hand-built from map[string]interface{}
// / []interface{} / primitives) into a Value. Object key order for a
// plain map[string]interface{} is not preserved by Go's map type; callers
// that need a deterministic order should build the Value directly with
// NewObject instead of routing through a map.
func FromInterface(in interface{}) Value {
	switch t := in.(type) {
	case nil:
		return NullValue()
	case bool:
		return NewBool(t)
	case float64:
		return NewNumber(t)
	case json.Number:
		f, _ := t.Float64()
		return NewNumber(f)
	case int:
		return NewNumber(float64(t))
	case string:
		return NewString(t)
	case []interface{}:
		items := make([]Value, len(t))
		for i, e := range t {
			items[i] = FromInterface(e)
		}
		return NewArray(items)
	case []Value:
		return NewArray(t)
	case map[string]interface{}:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]Pair, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, Pair{Key: k, Value: FromInterface(t[k])})
		}
		return NewObject(pairs)
	case Value:
		return t
	default:
		return NullValue()
	}
}

// ToInterface converts a Value back to the generic Go
// map[string]interface{}/[]interface{} shape, for callers (e.g. the CLI)
// that want to hand the result to encoding/json directly. Object key
// order is lost, matching map[string]interface{}'s own lack of order.
func (v Value) ToInterface() interface{} {
	switch v.kind {
	case Null:
		return nil
	case Bool:
		return v.bl
	case Number:
		return v.num
	case String:
		return v.str
	case Array:
		out := make([]interface{}, len(v.arr))
		for i, e := range v.arr {
			out[i] = e.ToInterface()
		}
		return out
	case Object:
		out := make(map[string]interface{}, len(v.fields))
		for _, p := range v.fields {
			out[p.Key] = p.Value.ToInterface()
		}
		return out
	default:
		return nil
	}
}

// ParseJSON decodes a single JSON document into a Value, preserving
// object key order (unlike encoding/json's map[string]interface{}).
func ParseJSON(text string) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	dec.UseNumber()
	v, err := parseJSONValue(dec)
	if err != nil {
		return Value{}, err
	}
	return v, nil
}

func parseJSONValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	return parseJSONToken(dec, tok)
}

func parseJSONToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '[':
			items := []Value{}
			for dec.More() {
				v, err := parseJSONValue(dec)
				if err != nil {
					return Value{}, err
				}
				items = append(items, v)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return Value{}, err
			}
			return NewArray(items), nil
		case '{':
			pairs := []Pair{}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Value{}, fmt.Errorf("expected object key, got %v", keyTok)
				}
				v, err := parseJSONValue(dec)
				if err != nil {
					return Value{}, err
				}
				pairs = append(pairs, Pair{Key: key, Value: v})
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return Value{}, err
			}
			return NewObject(pairs), nil
		}
	case nil:
		return NullValue(), nil
	case bool:
		return NewBool(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Value{}, err
		}
		return NewNumber(f), nil
	case string:
		return NewString(t), nil
	}
	return Value{}, fmt.Errorf("unexpected JSON token %v", tok)
}
