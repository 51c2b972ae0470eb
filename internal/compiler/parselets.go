package compiler

import (
	"github.com/flavioheleno/go-jmespath/internal/token"
	"github.com/flavioheleno/go-jmespath/internal/value"
)

type nudFunc func(c *Compiler, tok token.Token) error
type ledFunc func(c *Compiler, tok token.Token) error

var nudTable map[token.Type]nudFunc
var ledTable map[token.Type]ledFunc

func init() {
	nudTable = map[token.Type]nudFunc{
		token.IDENTIFIER: nudIdentifier,
		token.STAR:       nudStar,
		token.LITERAL:    nudLiteral,
		token.RAWSTRING:  nudRawString,
		token.NUMBER:     nudNumber,
		token.FUNCTION:   nudFunction,
		token.LBRACKET:   nudBracket,
		token.LBRACE:     nudBrace,
		token.FILTER:     nudFilter,
		token.AT:         nudAt,
		token.NOT:        nudNot,
		token.EXPREF:     nudExprRef,
		token.EOF:        nudEOF,
		// DOT has no nud of its own elsewhere: a projection body that
		// continues with a field access (`[*].bar`) hands DOT to
		// parseExpression as its first token, not as a continuation of
		// an existing nud. Reusing ledDot works unchanged because
		// parseExpression already advances past the current token
		// before dispatching, for nud and led alike.
		token.DOT: ledDot,
	}
	ledTable = map[token.Type]ledFunc{
		token.DOT:      ledDot,
		token.OR:       ledOr,
		token.OPERATOR: ledOperator,
		token.PIPE:     ledPipe,
		token.LBRACKET: ledBracket,
		token.FILTER:   ledFilter,
		token.FLATTEN:  ledFlatten,
	}
}

var identifierFollowSet = []token.Type{
	token.FLATTEN, token.LBRACE, token.LBRACKET, token.RBRACE, token.RBRACKET,
	token.COMMA, token.EOF, token.DOT, token.OR, token.OPERATOR, token.RPAREN,
	token.PIPE, token.FILTER,
}

func nudIdentifier(c *Compiler, tok token.Token) error {
	name, _ := tok.Value.(string)
	c.emitA(OpField, c.addName(name))
	c.markPushed()
	return c.peekMatch(identifierFollowSet)
}

// nudStar compiles a `*` projection: spec.4.1's each/mark_current/jump
// recipe, with the loop-back jump targeting `each` itself rather than
// `mark_current` (see DESIGN.md "projection loop" entry for why: the
// literal recipe's jump target leaves `each` unreachable on subsequent
// iterations, so it cannot drive the loop or collect results; pointing
// the jump at each makes it the authoritative, re-entrant loop driver).
func nudStar(c *Compiler, tok token.Token) error {
	containerKind := 0
	if c.context() == "object" {
		containerKind = 1
	}
	eachIdx := c.emitAB(OpEach, 0, containerKind)
	// A token with no nud (COMMA, RBRACE, RPAREN, RBRACKET, PIPE, OR, ...)
	// means the projection has no further body: each element passes
	// through unchanged. Only attempt the body parse when the next
	// token could actually start one.
	if _, ok := nudTable[c.cur.Type]; ok {
		if err := c.parseExpression(3); err != nil {
			return err
		}
	}
	c.emitA(OpJump, eachIdx)
	c.patch(eachIdx, c.pos())
	c.markPushed()
	return nil
}

// nudLiteral compiles a backtick JSON literal. Its value must end up in
// current like every other nud's result does — both so the literal
// evaluates correctly as a standalone expression, and so a comparison
// or `||` whose operand is a bare literal sees the same stack/current
// arrangement as one whose operand reads a field (see DESIGN.md "every
// nud writes current").
func nudLiteral(c *Compiler, tok token.Token) error {
	v, _ := tok.Value.(value.Value)
	c.emitA(OpPush, c.addConstant(v))
	c.emit(OpPopCurrent)
	c.markPushed()
	return nil
}

func nudRawString(c *Compiler, tok token.Token) error {
	s, _ := tok.Value.(string)
	c.emitA(OpPush, c.addConstant(value.NewString(s)))
	c.emit(OpPopCurrent)
	c.markPushed()
	return nil
}

var numberFollowSet = []token.Type{
	token.RBRACE, token.RBRACKET, token.RPAREN, token.COMMA, token.OR,
	token.OPERATOR, token.EOF, token.PIPE,
}

func nudNumber(c *Compiler, tok token.Token) error {
	if err := c.peekMatch(numberFollowSet); err != nil {
		return err
	}
	n, _ := tok.Value.(int)
	c.emitA(OpIndex, n)
	c.markPushed()
	return nil
}

// nudAt compiles `@`: current already holds the right value, so there
// is nothing to emit, but it must still mark itself as having
// "produced" current so a comparison/|| against `@` keeps its saved
// left-hand operand on the stack instead of eliding it (see DESIGN.md
// "every nud writes current").
func nudAt(c *Compiler, tok token.Token) error {
	c.markPushed()
	return nil
}

func nudEOF(c *Compiler, tok token.Token) error { return nil }

// nudNot compiles a `!expr` prefix negation (SPEC_FULL §4 supplement).
func nudNot(c *Compiler, tok token.Token) error {
	if err := c.parseExpression(3); err != nil {
		return err
	}
	c.emit(OpLogicalNot)
	c.markPushed()
	return nil
}

// nudExprRef compiles `&expr`, an expression reference (SPEC_FULL §4's
// `map`/`sort_by`/`max_by`/`min_by`). The operand is not evaluated now:
// its instructions are compiled inline but guarded by OpPushExprRef,
// which pushes a value.Value carrying the operand's instruction range
// and jumps straight past it, so ordinary sequential execution never
// runs it. Only vm.execCall, for a function whose declared ArgTypes
// marks a slot as an expression reference, re-enters the program at
// that range per element.
func nudExprRef(c *Compiler, tok token.Token) error {
	refIdx := c.emitAB(OpPushExprRef, 0, 0)
	subStart := c.pos()
	if err := c.withFrame("", func() error {
		return c.parseExpression(0)
	}); err != nil {
		return err
	}
	c.program.Instructions[refIdx].A = subStart
	c.program.Instructions[refIdx].HasA = true
	c.program.Instructions[refIdx].B = c.pos()
	c.program.Instructions[refIdx].HasB = true
	c.emit(OpPopCurrent)
	c.markPushed()
	return nil
}

func ledDot(c *Compiler, tok token.Token) error {
	if err := c.peekMatch([]token.Type{token.IDENTIFIER, token.NUMBER, token.STAR, token.LBRACE, token.LBRACKET, token.FILTER}); err != nil {
		return err
	}
	c.pushFrame("object")
	err := c.parseExpression(0)
	c.popFrame()
	return err
}

// ledOr compiles `e1 || e2`: short-circuits on non-null e1 (spec §4.1,
// §8's quantified property "|| short-circuits"). The value on top of
// the stack at this point is whatever `current` held right before e1
// started (pushed by the enclosing withFrame/leadIdx push_current);
// e2 must start from that same value, not from e1's (null) result, so
// the fallthrough path restores it with pop_current rather than
// discarding it.
func ledOr(c *Compiler, tok token.Token) error {
	c.emit(OpIsNull)
	jmp := c.emitA(OpJumpIfFalse, 0)
	c.emit(OpPopCurrent)
	if err := c.withFrame("", func() error {
		return c.parseExpression(1)
	}); err != nil {
		return err
	}
	c.patch(jmp, c.pos())
	return nil
}

var compareOps = map[string]Opcode{
	"==": OpEq, "!=": OpNeq, ">": OpGt, ">=": OpGte, "<": OpLt, "<=": OpLte,
}

// ledOperator compiles a comparison `lhs OP rhs`. lhs is saved on the
// stack before rhs is parsed; whichever side does NOT consume `current`
// leaves it untouched, so exactly one operand ends up on the stack and
// the other in `current` regardless of elision (see DESIGN.md).
func ledOperator(c *Compiler, tok token.Token) error {
	opName, _ := tok.Value.(string)
	op, ok := compareOps[opName]
	if !ok {
		return c.errorf(ErrBadOperator, tok, nil, "unknown operator %q", opName)
	}
	if err := c.withFrame("", func() error {
		return c.parseExpression(3)
	}); err != nil {
		return err
	}
	c.emit(op)
	c.markPushed()
	return nil
}

func ledPipe(c *Compiler, tok token.Token) error {
	c.emit(OpMarkCurrent)
	c.emit(OpPopCurrent)
	return nil
}

func ledFlatten(c *Compiler, tok token.Token) error {
	c.emit(OpMerge)
	c.pushFrame("array")
	var err error
	if c.cur.Type != token.EOF {
		err = nudStar(c, tok)
	}
	c.popFrame()
	c.markPushed()
	return err
}

var bracketStartSet = []token.Type{
	token.IDENTIFIER, token.NUMBER, token.STAR, token.LBRACKET, token.RBRACKET,
	token.LITERAL, token.FUNCTION, token.FILTER, token.COLON,
}

func nudBracket(c *Compiler, tok token.Token) error { return parseBracket(c) }
func ledBracket(c *Compiler, tok token.Token) error { return parseBracket(c) }

// parseBracket disambiguates `[`, spec §4.1: one token of lookahead
// resolves index/slice vs star-projection vs multi-select-list.
func parseBracket(c *Compiler) error {
	if err := c.peekMatch(bracketStartSet); err != nil {
		return err
	}
	ctx := c.context()

	switch {
	case c.cur.Type == token.NUMBER || c.cur.Type == token.COLON:
		if ctx == "object" {
			return c.errorf(ErrIndexOnObject, c.cur, nil, "cannot index object by number")
		}
		return parseArrayIndexExpression(c)
	case c.cur.Type == token.STAR && ctx != "object":
		c.advance() // consume '*'
		if c.cur.Type == token.RBRACKET {
			c.pushFrame("array")
			c.advance() // consume ']'
			tok := token.Token{Type: token.STAR}
			err := nudStar(c, tok)
			c.popFrame()
			return err
		}
		return parseMultiSelectList(c)
	default:
		return parseMultiSelectList(c)
	}
}

// parseArrayIndexExpression handles `[a]`, `[a:b]`, `[a:b:c]`.
func parseArrayIndexExpression(c *Compiler) error {
	var parts []int
	var has []bool
	colons := 0

	readPart := func() {
		if c.cur.Type == token.NUMBER {
			n, _ := c.cur.Value.(int)
			parts = append(parts, n)
			has = append(has, true)
			c.advance()
		} else {
			parts = append(parts, 0)
			has = append(has, false)
		}
	}

	readPart()
	for c.cur.Type == token.COLON {
		colons++
		c.advance()
		readPart()
	}
	if err := c.expect(token.RBRACKET); err != nil {
		return err
	}

	switch colons {
	case 0:
		c.emitA(OpIndex, parts[0])
	case 1, 2:
		a, b, cc := 0, 0, 0
		ha, hb, hc := false, false, false
		if len(parts) > 0 {
			a, ha = parts[0], has[0]
		}
		if len(parts) > 1 {
			b, hb = parts[1], has[1]
		}
		if len(parts) > 2 {
			cc, hc = parts[2], has[2]
		}
		c.emitSlice(a, b, cc, ha, hb, hc)
	default:
		return c.errorf(ErrInvalidSlice, c.cur, nil, "invalid slice")
	}
	c.markPushed()
	return nil
}

// prepareMultiBranch emits the guard + container-init prologue shared
// by multi-select lists and hashes (spec §4.1). The guard tests
// null-ness rather than array-ness (DESIGN.md): an is-array guard
// would incorrectly reject valid object/scalar inputs, contradicting
// spec §8's own `{first: a, rest: b[1:]}` example evaluated against a
// plain object.
//
// Every item in a multi-select is evaluated against the same source
// value, not against whatever the previous item left in current, so
// the source is parked on the VM's saved stack (OpSaveCurrent) right
// here, before the loop body can clobber current; each item restores
// it (OpRestoreCurrent) before compiling its own sub-expression, and
// finishMultiBranch discards the parked copy once the loop is done.
func (c *Compiler) prepareMultiBranch(empty value.Value) int {
	c.emit(OpIsNull)
	jmp := c.emitA(OpJumpIfTrue, 0)
	c.emitA(OpPush, c.addConstant(empty))
	c.emit(OpSaveCurrent)
	return jmp
}

func (c *Compiler) finishMultiBranch(jmp int) {
	c.emit(OpDiscardSaved)
	altJmp := c.emitA(OpJump, 0)
	c.patch(jmp, c.pos())
	c.emitA(OpPush, c.addConstant(value.NullValue()))
	c.patch(altJmp, c.pos())
	c.emit(OpPopCurrent)
	c.markPushed()
}

func parseMultiSelectList(c *Compiler) error {
	jmp := c.prepareMultiBranch(value.NewArray(nil))
	for c.cur.Type != token.RBRACKET {
		if c.cur.Type == token.EOF {
			return c.errorf(ErrUnexpectedToken, c.cur, []token.Type{token.RBRACKET}, "unexpected end of expression in multi-select list")
		}
		c.emit(OpRestoreCurrent)
		if err := c.compileValue("", func() error {
			return c.parseExpression(0)
		}); err != nil {
			return err
		}
		c.emit(OpStoreKey)
		if c.cur.Type == token.COMMA {
			c.advance()
		}
	}
	if err := c.expect(token.RBRACKET); err != nil {
		return err
	}
	c.finishMultiBranch(jmp)
	return nil
}

func nudBrace(c *Compiler, tok token.Token) error {
	ctx := c.context()
	jmp := c.prepareMultiBranch(value.NewObject(nil))
	for c.cur.Type != token.RBRACE {
		if c.cur.Type != token.IDENTIFIER {
			return c.errorf(ErrUnexpectedToken, c.cur, []token.Type{token.IDENTIFIER}, "expected key")
		}
		key, _ := c.cur.Value.(string)
		c.advance()
		if err := c.expect(token.COLON); err != nil {
			return err
		}
		if ctx == "array" && c.cur.Type == token.IDENTIFIER {
			return c.errorf(ErrUnexpectedToken, c.cur, nil, "identifier not valid here")
		}
		if ctx == "object" && c.cur.Type == token.NUMBER {
			return c.errorf(ErrUnexpectedToken, c.cur, nil, "number not valid here")
		}
		c.emit(OpRestoreCurrent)
		if err := c.compileValue(ctx, func() error {
			return c.parseExpression(0)
		}); err != nil {
			return err
		}
		c.emitA(OpStoreKey, c.addName(key))
		if c.cur.Type == token.COMMA {
			c.advance()
		}
	}
	if err := c.expect(token.RBRACE); err != nil {
		return err
	}
	c.finishMultiBranch(jmp)
	return nil
}

// nudFunction compiles a call `name(arg, arg, ...)`. Every argument is
// evaluated against the same source value, not threaded through the
// previous argument's result, so it parks that source on the saved
// stack for the duration of the argument list exactly as a multi-select
// does (see prepareMultiBranch).
func nudFunction(c *Compiler, tok token.Token) error {
	name, _ := tok.Value.(string)
	if err := c.expect(token.LPAREN); err != nil {
		return err
	}
	c.emit(OpSaveCurrent)
	argc := 0
	for c.cur.Type != token.RPAREN {
		if c.cur.Type == token.EOF {
			return c.errorf(ErrUnexpectedToken, c.cur, []token.Type{token.RPAREN}, "unexpected end of expression in function call arguments")
		}
		c.emit(OpRestoreCurrent)
		if err := c.compileValue("", func() error {
			return c.parseExpression(0)
		}); err != nil {
			return err
		}
		argc++
		if c.cur.Type == token.COMMA {
			c.advance()
		}
	}
	c.emit(OpDiscardSaved)
	if err := c.expect(token.RPAREN); err != nil {
		return err
	}
	c.emitAB(OpCall, c.addName(name), argc)
	c.markPushed()
	return nil
}

// nudFilter / ledFilter compile `[?predicate]transform` (spec §4.1).
// The loop-back jump targets `each` itself, for the same reason as
// nudStar (see DESIGN.md). The predicate's own withFrame already saves
// the element (its speculative push_current) and restores it via
// pop_current/pop on the accept/reject paths below; an earlier version
// of this function pushed the element a second time before withFrame,
// which never got popped on either path and leaked one stack slot per
// iteration.
func nudFilter(c *Compiler, tok token.Token) error {
	eachIdx := c.emitAB(OpEach, 0, 0)
	if err := c.withFrame("", func() error {
		return c.parseExpression(0)
	}); err != nil {
		return err
	}
	c.emit(OpTruthy)
	rejectJmp := c.emitA(OpJumpIfFalse, 0)

	c.emit(OpPopCurrent) // restore the saved element for the transform
	if err := c.expect(token.RBRACKET); err != nil {
		return err
	}
	if _, ok := nudTable[c.cur.Type]; ok {
		if err := c.parseExpression(3); err != nil {
			return err
		}
	}
	acceptDone := c.emitA(OpJump, eachIdx)

	c.patch(rejectJmp, c.pos())
	c.emit(OpPop) // discard the saved element
	c.emitA(OpPush, c.addConstant(value.NullValue()))
	c.emit(OpPopCurrent)
	c.emitA(OpJump, eachIdx)
	_ = acceptDone

	c.patch(eachIdx, c.pos())
	c.markPushed()
	return nil
}

func ledFilter(c *Compiler, tok token.Token) error { return nudFilter(c, tok) }
