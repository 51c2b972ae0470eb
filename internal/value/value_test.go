package value

import "testing"

func TestTruthy(t *testing.T) {
	cases := []struct {
		name string
		v    Value
		want bool
	}{
		{"null", NullValue(), false},
		{"false", NewBool(false), false},
		{"true", NewBool(true), true},
		{"zero number", NewNumber(0), true},
		{"empty string", NewString(""), false},
		{"non-empty string", NewString("x"), true},
		{"empty array", NewArray(nil), false},
		{"non-empty array", NewArray([]Value{NewNumber(1)}), true},
		{"empty object", NewObject(nil), false},
		{"non-empty object", NewObject([]Pair{{Key: "a", Value: NewNumber(1)}}), true},
	}
	for _, tc := range cases {
		if got := tc.v.Truthy(); got != tc.want {
			t.Errorf("%s: Truthy() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestEqual(t *testing.T) {
	cases := []struct {
		name string
		a, b Value
		want bool
	}{
		{"equal numbers", NewNumber(1), NewNumber(1), true},
		{"different numbers", NewNumber(1), NewNumber(2), false},
		{"different kinds", NewNumber(1), NewString("1"), false},
		{
			"equal arrays", NewArray([]Value{NewNumber(1), NewNumber(2)}),
			NewArray([]Value{NewNumber(1), NewNumber(2)}), true,
		},
		{
			"objects equal regardless of field order",
			NewObject([]Pair{{Key: "a", Value: NewNumber(1)}, {Key: "b", Value: NewNumber(2)}}),
			NewObject([]Pair{{Key: "b", Value: NewNumber(2)}, {Key: "a", Value: NewNumber(1)}}),
			true,
		},
		{
			"objects with different field counts",
			NewObject([]Pair{{Key: "a", Value: NewNumber(1)}}),
			NewObject([]Pair{{Key: "a", Value: NewNumber(1)}, {Key: "b", Value: NewNumber(2)}}),
			false,
		},
	}
	for _, tc := range cases {
		if got := tc.a.Equal(tc.b); got != tc.want {
			t.Errorf("%s: Equal() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestCompare(t *testing.T) {
	if cmp, ok := NewNumber(1).Compare(NewNumber(2)); !ok || cmp >= 0 {
		t.Errorf("1 vs 2: got (%d, %v)", cmp, ok)
	}
	if cmp, ok := NewString("a").Compare(NewString("b")); !ok || cmp >= 0 {
		t.Errorf(`"a" vs "b": got (%d, %v)`, cmp, ok)
	}
	if _, ok := NewNumber(1).Compare(NewString("1")); ok {
		t.Errorf("mismatched kinds should not be ordered")
	}
	if _, ok := NewBool(true).Compare(NewBool(false)); ok {
		t.Errorf("booleans are not ordered in JMESPath")
	}
}

func TestParseJSONPreservesObjectKeyOrder(t *testing.T) {
	v, err := ParseJSON(`{"z":1,"a":2,"m":3}`)
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	fields := v.Fields()
	wantKeys := []string{"z", "a", "m"}
	if len(fields) != len(wantKeys) {
		t.Fatalf("got %d fields, want %d", len(fields), len(wantKeys))
	}
	for i, k := range wantKeys {
		if fields[i].Key != k {
			t.Errorf("field %d: got key %q, want %q", i, fields[i].Key, k)
		}
	}
}

func TestParseJSONRoundTripsNestedStructures(t *testing.T) {
	v, err := ParseJSON(`{"a":[1,2.5,"s",true,null],"b":{"c":1}}`)
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	a, ok := v.Get("a")
	if !ok || a.Kind() != Array || a.Len() != 5 {
		t.Fatalf(`"a" = %v, want a 5-element array`, a.Inspect())
	}
	if a.Array()[0].Number() != 1 {
		t.Errorf(`a[0] = %v, want 1`, a.Array()[0].Inspect())
	}
	if !a.Array()[4].IsNull() {
		t.Errorf("a[4] should be null")
	}
	b, ok := v.Get("b")
	if !ok || b.Kind() != Object {
		t.Fatalf(`"b" = %v, want an object`, b.Inspect())
	}
}

func TestFromInterfaceSortsMapKeys(t *testing.T) {
	v := FromInterface(map[string]interface{}{"z": 1.0, "a": 2.0, "m": 3.0})
	fields := v.Fields()
	wantKeys := []string{"a", "m", "z"}
	for i, k := range wantKeys {
		if fields[i].Key != k {
			t.Errorf("field %d: got key %q, want %q", i, fields[i].Key, k)
		}
	}
}

func TestToInterfaceRoundTrip(t *testing.T) {
	v := NewObject([]Pair{{Key: "a", Value: NewArray([]Value{NewNumber(1), NewString("x")})}})
	out, ok := v.ToInterface().(map[string]interface{})
	if !ok {
		t.Fatalf("ToInterface() = %#v, want map[string]interface{}", v.ToInterface())
	}
	arr, ok := out["a"].([]interface{})
	if !ok || len(arr) != 2 {
		t.Fatalf(`out["a"] = %#v, want a 2-element slice`, out["a"])
	}
}
