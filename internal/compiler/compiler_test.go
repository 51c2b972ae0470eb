package compiler

import "testing"

func TestCompileValid(t *testing.T) {
	exprs := []string{
		"a.b.c",
		"foo[*].bar",
		"foo[].bar",
		"foo[?bar>`1`].baz",
		"{first: a, rest: b[1:]}",
		"[a, b, c]",
		"a || b",
		"a == b",
		"length(a)",
		"!a",
		"a[0]",
		"a[1:3:2]",
		"@",
		"foo[?@==`2`]",
		"sort_by(people, &age)",
		"map(&info.name, people)",
	}
	for _, expr := range exprs {
		if _, err := Compile(expr); err != nil {
			t.Errorf("Compile(%q): unexpected error: %v", expr, err)
		}
	}
}

func TestCompileSyntaxErrors(t *testing.T) {
	cases := []struct {
		expr string
		code ErrorCode
	}{
		{"a[1:2:3:4]", ErrInvalidSlice},
		{"a.[1]", ErrIndexOnObject},
		{"a ++ b", ErrUnexpectedToken},
		{"[a, b", ErrUnexpectedToken},
		{"length(a", ErrUnexpectedToken},
		{"{a: }", ErrUnexpectedToken},
	}
	for _, tc := range cases {
		_, err := Compile(tc.expr)
		se, ok := err.(*SyntaxError)
		if !ok {
			t.Errorf("Compile(%q): got error %v (%T), want *SyntaxError", tc.expr, err, err)
			continue
		}
		if se.Code != tc.code {
			t.Errorf("Compile(%q): got code %s, want %s", tc.expr, se.Code, tc.code)
		}
	}
}

func TestCompileProducesStopTerminatedProgram(t *testing.T) {
	prog, err := Compile("a.b")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(prog.Instructions) == 0 {
		t.Fatalf("expected at least one instruction")
	}
	last := prog.Instructions[len(prog.Instructions)-1]
	if last.Op != OpStop {
		t.Errorf("last instruction = %s, want OpStop", last.Op)
	}
}

// TestExprRefJumpsPastItsOperand asserts OpPushExprRef's B target skips
// straight over its inlined operand instructions, so ordinary sequential
// execution of `sort_by(people, &age)` never runs `&age`'s own code.
func TestExprRefJumpsPastItsOperand(t *testing.T) {
	prog, err := Compile("sort_by(people, &age)")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	var ref *Instruction
	for i := range prog.Instructions {
		if prog.Instructions[i].Op == OpPushExprRef {
			ref = &prog.Instructions[i]
			break
		}
	}
	if ref == nil {
		t.Fatalf("expected an OpPushExprRef instruction, found none")
	}
	if !ref.HasA || !ref.HasB {
		t.Fatalf("OpPushExprRef missing A/B operand range: %+v", ref)
	}
	if ref.B <= ref.A {
		t.Errorf("OpPushExprRef range [%d,%d) is empty, want at least one operand instruction", ref.A, ref.B)
	}
	if ref.B >= len(prog.Instructions) {
		t.Errorf("OpPushExprRef.B = %d out of range for %d instructions", ref.B, len(prog.Instructions))
	}
}
