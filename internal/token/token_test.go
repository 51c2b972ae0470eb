package token

import "testing"

func TestTypeString(t *testing.T) {
	if got := IDENTIFIER.String(); got != "identifier" {
		t.Errorf("IDENTIFIER.String() = %q, want %q", got, "identifier")
	}
	if got := Type(9999).String(); got != "type(9999)" {
		t.Errorf("out-of-range Type.String() = %q, want %q", got, "type(9999)")
	}
}

func TestTokenString(t *testing.T) {
	cases := []struct {
		tok  Token
		want string
	}{
		{Token{Type: DOT}, "dot"},
		{Token{Type: IDENTIFIER, Value: "foo"}, "identifier(foo)"},
		{Token{Type: NUMBER, Value: 5}, "number(5)"},
	}
	for _, tc := range cases {
		if got := tc.tok.String(); got != tc.want {
			t.Errorf("Token{%v}.String() = %q, want %q", tc.tok.Type, got, tc.want)
		}
	}
}

func TestNewEOF(t *testing.T) {
	tok := NewEOF(7)
	if tok.Type != EOF || tok.Position != 7 || tok.Value != nil {
		t.Errorf("NewEOF(7) = %+v, want {Type: EOF, Position: 7, Value: nil}", tok)
	}
}
