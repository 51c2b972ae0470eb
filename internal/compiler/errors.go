package compiler

import (
	"fmt"
	"strings"

	"github.com/flavioheleno/go-jmespath/internal/token"
)

// ErrorCode stably identifies a class of syntax error (SPEC_FULL §2.1),
// grounded on funxy/internal/diagnostics' {Phase, ErrorCode, template}
// layering, scaled down to the two-phase (syntax/runtime) split spec §7
// describes.
type ErrorCode string

const (
	ErrUnexpectedToken ErrorCode = "E_SYNTAX_UNEXPECTED_TOKEN"
	ErrInvalidSlice    ErrorCode = "E_SYNTAX_INVALID_SLICE"
	ErrBadOperator     ErrorCode = "E_SYNTAX_BAD_OPERATOR"
	ErrIndexOnObject   ErrorCode = "E_SYNTAX_INDEX_ON_OBJECT"
	ErrUnexpectedStart ErrorCode = "E_SYNTAX_UNEXPECTED_START"
)

// SyntaxError is raised by compile and carries enough context to build
// a precise diagnostic: the source text, the offending token, its
// position, and (when applicable) the set of token types that would
// have been accepted instead (spec §7).
type SyntaxError struct {
	Code     ErrorCode
	Source   string
	Token    token.Token
	Expected []token.Type
	Msg      string
}

func (e *SyntaxError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "jmespath: syntax error at position %d: %s", e.Token.Position, e.Msg)
	if len(e.Expected) > 0 {
		sb.WriteString(" (expected one of: ")
		for i, t := range e.Expected {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(t.String())
		}
		sb.WriteByte(')')
	}
	return sb.String()
}

func (c *Compiler) errorf(code ErrorCode, tok token.Token, expected []token.Type, format string, args ...interface{}) *SyntaxError {
	return &SyntaxError{
		Code:     code,
		Source:   c.source,
		Token:    tok,
		Expected: expected,
		Msg:      fmt.Sprintf(format, args...),
	}
}
