package compiler

import (
	"github.com/flavioheleno/go-jmespath/internal/lexer"
	"github.com/flavioheleno/go-jmespath/internal/token"
	"github.com/flavioheleno/go-jmespath/internal/value"
)

// ParseState is the per-sub-expression frame spec §3 describes:
// context_type records the container the current sub-expression is
// nested inside (affects bracket disambiguation and key/index
// validation), pushed records whether the sub-expression's own code
// consumed the speculative push_current the compiler emits ahead of it.
type ParseState struct {
	ContextType string // "", "object" or "array"
	Pushed      bool
}

// Compiler holds all state mutated while compiling one expression; it
// is owned solely by compile and discarded once Compile returns (spec
// §3's "Compiler state").
type Compiler struct {
	lex    *lexer.Lexer
	cur    token.Token
	peek   token.Token
	source string

	program *Program
	frames  []*ParseState
}

// precedence, higher value binds tighter. Spec §4.1's table uses the
// opposite convention (lower number = binds tighter); this is the
// standard Pratt-loop direction instead — see DESIGN.md for why the
// polarity was inverted rather than copied literally: spec's own loop
// condition ("rbp >= peek_precedence") only ever admits tokens at the
// same level as the initial call when rbp starts at 0, which would
// never let `|` or `||` be reached from inside a nested parse. The
// relative ordering (pipe loosest, or next, then everything else
// equally tight) is preserved exactly; only the numeric direction used
// to implement the loop changed.
func precedenceOf(t token.Type) int {
	switch t {
	case token.EOF, token.RPAREN, token.RBRACKET, token.RBRACE, token.COMMA, token.COLON:
		return 0
	case token.PIPE:
		return 1
	case token.OR:
		return 2
	default:
		return 3
	}
}

// Compile compiles a JMESPath expression into a bytecode Program
// (spec §4.1's Entry + Pratt loop).
func Compile(expr string) (*Program, error) {
	c := &Compiler{
		lex:     lexer.New(expr),
		source:  expr,
		program: &Program{},
	}
	c.advance()
	c.advance()

	c.pushFrame("")
	leadIdx := c.emit(OpPushCurrent)

	for c.cur.Type != token.EOF {
		if err := c.parseExpression(0); err != nil {
			return nil, err
		}
	}

	c.emit(OpStop)

	root := c.popFrame()
	if !root.Pushed {
		c.program.Instructions[leadIdx].Removed = true
	}

	return c.program, nil
}

func (c *Compiler) advance() {
	c.cur = c.peek
	c.peek = c.lex.NextToken()
}

// emit appends an instruction with no immediates and returns its index.
func (c *Compiler) emit(op Opcode) int {
	c.program.Instructions = append(c.program.Instructions, Instruction{Op: op})
	return len(c.program.Instructions) - 1
}

func (c *Compiler) emitA(op Opcode, a int) int {
	c.program.Instructions = append(c.program.Instructions, Instruction{Op: op, A: a, HasA: true})
	return len(c.program.Instructions) - 1
}

func (c *Compiler) emitAB(op Opcode, a, b int) int {
	c.program.Instructions = append(c.program.Instructions, Instruction{Op: op, A: a, HasA: true, B: b, HasB: true})
	return len(c.program.Instructions) - 1
}

func (c *Compiler) emitSlice(a, b, cc int, hasA, hasB, hasC bool) int {
	c.program.Instructions = append(c.program.Instructions, Instruction{
		Op: OpSlice, A: a, B: b, C: cc, HasA: hasA, HasB: hasB, HasC: hasC,
	})
	return len(c.program.Instructions) - 1
}

// patch sets instr[idx].A to target, resolving a forward jump (spec §9:
// "Forward jump patching" via an explicit label-like abstraction).
func (c *Compiler) patch(idx, target int) {
	c.program.Instructions[idx].A = target
	c.program.Instructions[idx].HasA = true
}

func (c *Compiler) pos() int { return len(c.program.Instructions) }

func (c *Compiler) pushFrame(ctx string) {
	c.frames = append(c.frames, &ParseState{ContextType: ctx})
}

func (c *Compiler) popFrame() *ParseState {
	n := len(c.frames) - 1
	f := c.frames[n]
	c.frames = c.frames[:n]
	return f
}

func (c *Compiler) markPushed() {
	if len(c.frames) > 0 {
		c.frames[len(c.frames)-1].Pushed = true
	}
}

func (c *Compiler) context() string {
	if len(c.frames) == 0 {
		return ""
	}
	return c.frames[len(c.frames)-1].ContextType
}

// compileValue parses a sub-expression within a fresh context frame and
// unconditionally pushes its computed value onto the stack afterward.
// Use this wherever the caller always needs the value explicitly on the
// stack regardless of what the sub-expression did internally — multi-
// select list/hash items feeding OpStoreKey, function arguments feeding
// OpCall — as opposed to withFrame's elision, which is only correct when
// the caller needs exactly one of {stack-top, current} depending on
// whether the sub-expression touched current (comparisons, ||, filter
// predicates restoring their saved element).
//
// compileValue itself only knows about one sub-expression; it does not
// restore current beforehand. Callers that compile several sibling
// values against the same source (multi-select items, function
// arguments) must emit OpRestoreCurrent before each call themselves —
// see prepareMultiBranch and nudFunction.
func (c *Compiler) compileValue(ctx string, parse func() error) error {
	c.pushFrame(ctx)
	err := parse()
	c.popFrame()
	if err != nil {
		return err
	}
	c.emit(OpPushCurrent)
	return nil
}

// withFrame implements the "speculative push_current with elision" rule
// (spec §4.1, §9): it emits a push_current, runs parse inside a fresh
// frame pushed onto the parse-state stack, and deletes the speculative
// push if the frame's own code never consumed it.
func (c *Compiler) withFrame(ctx string, parse func() error) error {
	idx := c.emit(OpPushCurrent)
	c.pushFrame(ctx)
	err := parse()
	frame := c.popFrame()
	if err != nil {
		return err
	}
	if !frame.Pushed {
		c.program.Instructions[idx].Removed = true
	}
	return nil
}

func (c *Compiler) addConstant(v value.Value) int { return c.program.addConstant(v) }
func (c *Compiler) addName(name string) int       { return c.program.addName(name) }

// expect consumes the current token if it matches want, else raises a
// syntax error naming the single expected type.
func (c *Compiler) expect(want token.Type) error {
	if c.cur.Type != want {
		return c.errorf(ErrUnexpectedToken, c.cur, []token.Type{want}, "unexpected %s", c.cur)
	}
	c.advance()
	return nil
}

// peekMatch raises a syntax error unless the current token's type is
// one of allowed; it does not consume.
func (c *Compiler) peekMatch(allowed []token.Type) error {
	for _, t := range allowed {
		if c.cur.Type == t {
			return nil
		}
	}
	return c.errorf(ErrUnexpectedToken, c.cur, allowed, "unexpected %s", c.cur)
}

// parseExpression is the Pratt loop (spec §4.1): one nud dispatch
// followed by zero or more led dispatches while the next token binds at
// least as tightly as rbp permits.
func (c *Compiler) parseExpression(rbp int) error {
	tok := c.cur
	nud, ok := nudTable[tok.Type]
	if !ok {
		return c.errorf(ErrUnexpectedToken, tok, nil, "unexpected token %s", tok)
	}
	c.advance()
	if err := nud(c, tok); err != nil {
		return err
	}

	for rbp < precedenceOf(c.cur.Type) {
		tok = c.cur
		led, ok := ledTable[tok.Type]
		if !ok {
			return nil
		}
		c.advance()
		if err := led(c, tok); err != nil {
			return err
		}
	}
	return nil
}
