// Package compiler implements the Pratt-style recursive-descent
// compiler that turns a JMESPath token stream into a flat bytecode
// Program (spec §4.1). Opcode naming and the append-only instruction
// buffer with later jump-patching are adapted from the teacher's own
// packed-instruction VM (vm/ops.go's ϡop enum and forward references),
// reshaped here as a plain tagged struct per instruction instead of a
// bit-packed uint64: JMESPath immediates are heterogeneous (constant-pool
// indices, jump targets, small ints, strings) rather than pigeon's
// homogeneous instruction-index operands, so a struct is the clearer fit.
package compiler

import "github.com/flavioheleno/go-jmespath/internal/value"

// Opcode identifies one VM instruction (spec §4.2's instruction table).
type Opcode byte

const (
	OpPushCurrent Opcode = iota
	OpPopCurrent
	OpMarkCurrent
	OpSaveCurrent    // push current onto the VM's side "saved" stack
	OpRestoreCurrent // current = top of the "saved" stack, without popping it
	OpDiscardSaved   // pop the "saved" stack
	OpPop
	OpPush // A = index into Program.Constants
	OpField // A = index into Program.Names
	OpIndex // A = signed index
	OpSlice // A,B,C = start,stop,step; absence encoded via HasA/HasB/HasC
	OpStoreKey // A = index into Program.Names; HasA false for a null (append) key
	OpMerge
	OpEach // A = jump patch target, B = 1 if container kind is "object", else 0
	OpJump
	OpJumpIfTrue
	OpJumpIfFalse
	OpIsNull
	OpIsArray
	OpEq
	OpNeq
	OpGt
	OpGte
	OpLt
	OpLte
	OpLogicalNot // unary `!`: current = bool(!current.Truthy())
	OpTruthy     // push Bool(current.Truthy()) onto the stack
	OpCall       // A = index into Program.Names (function name), B = argc
	OpPushExprRef // A,B = start,end instruction offsets of an inline `&expr` operand; jumps to B
	OpStop
)

var opcodeNames = [...]string{
	OpPushCurrent:    "push_current",
	OpPopCurrent:     "pop_current",
	OpMarkCurrent:    "mark_current",
	OpSaveCurrent:    "save_current",
	OpRestoreCurrent: "restore_current",
	OpDiscardSaved:   "discard_saved",
	OpPop:            "pop",
	OpPush:           "push",
	OpField:          "field",
	OpIndex:          "index",
	OpSlice:          "slice",
	OpStoreKey:       "store_key",
	OpMerge:          "merge",
	OpEach:           "each",
	OpJump:           "jump",
	OpJumpIfTrue:     "jump_if_true",
	OpJumpIfFalse:    "jump_if_false",
	OpIsNull:         "is_null",
	OpIsArray:        "is_array",
	OpEq:             "eq",
	OpNeq:            "neq",
	OpGt:             "gt",
	OpGte:            "gte",
	OpLt:             "lt",
	OpLte:            "lte",
	OpLogicalNot:     "not",
	OpTruthy:         "truthy",
	OpCall:           "call",
	OpPushExprRef:    "push_expr_ref",
	OpStop:           "stop",
}

func (op Opcode) String() string {
	if int(op) < len(opcodeNames) && opcodeNames[op] != "" {
		return opcodeNames[op]
	}
	return "unknown"
}

// Instruction is one tagged bytecode instruction with up to three
// small-integer immediates (spec §3). Jump-carrying opcodes (each,
// jump, jump_if_true, jump_if_false) use A as the jump target, an
// instruction index patched during compilation.
type Instruction struct {
	Op   Opcode
	A, B, C int
	HasA, HasB, HasC bool

	// Removed marks a gap left by push_current elision (SPEC's "pushed"
	// rule, spec §4.1/§9): the VM must treat it as a no-op rather than
	// renumber every jump target that follows it.
	Removed bool
}

// Program is the compiler's output: a dense, append-only instruction
// sequence plus the constant and name pools instructions index into.
// It is immutable and safe to evaluate repeatedly and concurrently
// (spec §5) once compile returns.
type Program struct {
	Instructions []Instruction
	Constants    []value.Value
	Names        []string
}

// Len returns the number of instructions, including any Removed gaps.
func (p *Program) Len() int { return len(p.Instructions) }

func (p *Program) addConstant(v value.Value) int {
	p.Constants = append(p.Constants, v)
	return len(p.Constants) - 1
}

func (p *Program) addName(name string) int {
	for i, n := range p.Names {
		if n == name {
			return i
		}
	}
	p.Names = append(p.Names, name)
	return len(p.Names) - 1
}
