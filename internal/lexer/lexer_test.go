package lexer

import (
	"testing"

	"github.com/flavioheleno/go-jmespath/internal/token"
	"github.com/flavioheleno/go-jmespath/internal/value"
)

func TestNextToken(t *testing.T) {
	cases := []struct {
		input string
		types []token.Type
	}{
		{"foo.bar", []token.Type{token.IDENTIFIER, token.DOT, token.IDENTIFIER, token.EOF}},
		{"foo[*]", []token.Type{token.IDENTIFIER, token.LBRACKET, token.STAR, token.RBRACKET, token.EOF}},
		{"foo[]", []token.Type{token.IDENTIFIER, token.FLATTEN, token.EOF}},
		{"foo[?bar]", []token.Type{token.IDENTIFIER, token.FILTER, token.IDENTIFIER, token.RBRACKET, token.EOF}},
		{"a || b", []token.Type{token.IDENTIFIER, token.OR, token.IDENTIFIER, token.EOF}},
		{"a | b", []token.Type{token.IDENTIFIER, token.PIPE, token.IDENTIFIER, token.EOF}},
		{"a == b", []token.Type{token.IDENTIFIER, token.OPERATOR, token.IDENTIFIER, token.EOF}},
		{"a != b", []token.Type{token.IDENTIFIER, token.OPERATOR, token.IDENTIFIER, token.EOF}},
		{"a <= b", []token.Type{token.IDENTIFIER, token.OPERATOR, token.IDENTIFIER, token.EOF}},
		{"!a", []token.Type{token.NOT, token.IDENTIFIER, token.EOF}},
		{"length(a)", []token.Type{token.FUNCTION, token.LPAREN, token.IDENTIFIER, token.RPAREN, token.EOF}},
		{"`42`", []token.Type{token.LITERAL, token.EOF}},
		{"'raw'", []token.Type{token.RAWSTRING, token.EOF}},
		{`"quoted id"`, []token.Type{token.IDENTIFIER, token.EOF}},
		{"-5", []token.Type{token.NUMBER, token.EOF}},
		{"{a: b}", []token.Type{token.LBRACE, token.IDENTIFIER, token.COLON, token.IDENTIFIER, token.RBRACE, token.EOF}},
		{"@", []token.Type{token.AT, token.EOF}},
		{"&foo", []token.Type{token.EXPREF, token.IDENTIFIER, token.EOF}},
		{"a && b", []token.Type{token.IDENTIFIER, token.AND, token.IDENTIFIER, token.EOF}},
	}

	for _, tc := range cases {
		lx := New(tc.input)
		for i, want := range tc.types {
			got := lx.NextToken()
			if got.Type != want {
				t.Errorf("%q: token %d = %s, want %s", tc.input, i, got.Type, want)
				break
			}
		}
	}
}

func TestLexLiteralDecodesJSON(t *testing.T) {
	lx := New("`{\"a\":1}`")
	tok := lx.NextToken()
	if tok.Type != token.LITERAL {
		t.Fatalf("got token type %s, want LITERAL", tok.Type)
	}
	v, ok := tok.Value.(value.Value)
	if !ok {
		t.Fatalf("got value %#v, want a decoded value.Value", tok.Value)
	}
	if a, found := v.Get("a"); !found || a.Number() != 1 {
		t.Errorf("got %s, want {\"a\":1}", v.Inspect())
	}
}

func TestLexNumberValue(t *testing.T) {
	lx := New("-12")
	tok := lx.NextToken()
	if tok.Type != token.NUMBER {
		t.Fatalf("got token type %s, want NUMBER", tok.Type)
	}
	n, ok := tok.Value.(int)
	if !ok || n != -12 {
		t.Errorf("got value %#v, want -12", tok.Value)
	}
}

func TestLexRawStringValue(t *testing.T) {
	lx := New(`'hello'`)
	tok := lx.NextToken()
	s, ok := tok.Value.(string)
	if !ok || s != "hello" {
		t.Errorf("got value %#v, want %q", tok.Value, "hello")
	}
}

func TestEOFRepeatsAtEndOfInput(t *testing.T) {
	lx := New("a")
	lx.NextToken() // consume the identifier
	for i := 0; i < 3; i++ {
		if tok := lx.NextToken(); tok.Type != token.EOF {
			t.Fatalf("NextToken() past end of input = %s, want EOF", tok.Type)
		}
	}
}
