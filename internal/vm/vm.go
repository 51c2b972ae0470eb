// Package vm executes a compiled bytecode Program against an input
// value (spec §4.2). The instruction set is carried over from the
// compiler package's vocabulary; this package is the only place that
// actually interprets it. There is no separate mark stack: mark_current
// pushes onto the value stack, and projection loop state lives in
// loopFrame.
package vm

import (
	"fmt"

	"github.com/flavioheleno/go-jmespath/internal/compiler"
	"github.com/flavioheleno/go-jmespath/internal/registry"
	"github.com/flavioheleno/go-jmespath/internal/value"
)

// RuntimeError is an alias for registry.RuntimeError, kept here so
// callers evaluating a program don't need to import the registry
// package just to type-assert on the error this package returns.
type RuntimeError = registry.RuntimeError

// loopFrame tracks one active projection's iteration state, keyed by
// the IP of the `each` instruction that owns it (spec §3's "mark
// stack", reworked here as an explicit per-loop accumulator; see
// DESIGN.md "projection loop" entry for why `each` — not mark_current —
// is the loop's re-entry point).
type loopFrame struct {
	ip     int
	items  []value.Value
	idx    int
	result []value.Value
}

// VM evaluates one Program against one root value. A VM is not safe
// for concurrent reuse; callers evaluate concurrently by running
// distinct programs (or the same Program, which is immutable) each
// against its own VM (spec §5).
type VM struct {
	program *compiler.Program
	funcs   *registry.Registry

	ip      int
	current value.Value
	stack   []value.Value
	saved   []value.Value // container values parked by multi-select (OpSaveCurrent/OpRestoreCurrent/OpDiscardSaved)
	loops   []*loopFrame
}

// New creates a VM bound to reg for function calls.
func New(reg *registry.Registry) *VM {
	return &VM{funcs: reg}
}

// Run evaluates program against root and returns the resulting value.
func (m *VM) Run(program *compiler.Program, root value.Value) (value.Value, error) {
	m.program = program
	m.ip = 0
	m.current = root
	m.stack = m.stack[:0]
	m.saved = m.saved[:0]
	m.loops = m.loops[:0]

	for {
		if m.ip < 0 || m.ip >= len(program.Instructions) {
			return value.Value{}, fmt.Errorf("jmespath: instruction pointer %d out of range", m.ip)
		}
		instr := program.Instructions[m.ip]
		if instr.Removed {
			m.ip++
			continue
		}
		if instr.Op == compiler.OpStop {
			return m.current, nil
		}
		if err := m.dispatch(instr); err != nil {
			return value.Value{}, err
		}
	}
}

// dispatch executes one instruction, advancing m.ip itself (either
// sequentially or via a jump). It is shared by Run's top-level loop
// and evalExprRef's re-entrant evaluation of an `&expr` operand, which
// never contains OpStop (Compile only ever emits one, at the very end
// of the whole program).
func (m *VM) dispatch(instr compiler.Instruction) error {
	switch instr.Op {
	case compiler.OpPushCurrent, compiler.OpMarkCurrent:
		m.push(m.current)
		m.ip++

	case compiler.OpPopCurrent:
		m.current = m.pop()
		m.ip++

	case compiler.OpSaveCurrent:
		m.saved = append(m.saved, m.current)
		m.ip++

	case compiler.OpRestoreCurrent:
		m.current = m.saved[len(m.saved)-1]
		m.ip++

	case compiler.OpDiscardSaved:
		m.saved = m.saved[:len(m.saved)-1]
		m.ip++

	case compiler.OpPop:
		m.pop()
		m.ip++

	case compiler.OpPush:
		m.push(m.program.Constants[instr.A])
		m.ip++

	case compiler.OpField:
		m.current = fieldOf(m.current, m.program.Names[instr.A])
		m.ip++

	case compiler.OpIndex:
		m.current = indexOf(m.current, instr.A)
		m.ip++

	case compiler.OpSlice:
		m.current = sliceOf(m.current, instr)
		m.ip++

	case compiler.OpStoreKey:
		v := m.pop()
		container := m.stack[len(m.stack)-1]
		if instr.HasA {
			m.stack[len(m.stack)-1] = setField(container, m.program.Names[instr.A], v)
		} else {
			m.stack[len(m.stack)-1] = value.NewArray(append(append([]value.Value{}, container.Array()...), v))
		}
		m.ip++

	case compiler.OpMerge:
		m.current = flatten(m.current)
		m.ip++

	case compiler.OpEach:
		m.execEach(instr)

	case compiler.OpJump:
		m.ip = instr.A

	case compiler.OpJumpIfTrue:
		if m.pop().Truthy() {
			m.ip = instr.A
		} else {
			m.ip++
		}

	case compiler.OpJumpIfFalse:
		if !m.pop().Truthy() {
			m.ip = instr.A
		} else {
			m.ip++
		}

	case compiler.OpIsNull:
		m.push(value.NewBool(m.current.IsNull()))
		m.ip++

	case compiler.OpIsArray:
		k := m.current.Kind()
		m.push(value.NewBool(k == value.Array || k == value.Object))
		m.ip++

	case compiler.OpTruthy:
		m.push(value.NewBool(m.current.Truthy()))
		m.ip++

	case compiler.OpEq, compiler.OpNeq, compiler.OpGt, compiler.OpGte, compiler.OpLt, compiler.OpLte:
		lhs := m.pop()
		m.current = compare(instr.Op, lhs, m.current)
		m.ip++

	case compiler.OpLogicalNot:
		m.current = value.NewBool(!m.current.Truthy())
		m.ip++

	case compiler.OpPushExprRef:
		m.push(value.NewExprRef(instr.A, instr.B))
		m.ip = instr.B

	case compiler.OpCall:
		if err := m.execCall(instr); err != nil {
			return err
		}
		m.ip++

	default:
		return fmt.Errorf("jmespath: unimplemented opcode %s", instr.Op)
	}
	return nil
}

func (m *VM) push(v value.Value) { m.stack = append(m.stack, v) }

func (m *VM) pop() value.Value {
	n := len(m.stack) - 1
	v := m.stack[n]
	m.stack = m.stack[:n]
	return v
}

func fieldOf(v value.Value, name string) value.Value {
	fv, ok := v.Get(name)
	if !ok {
		return value.NullValue()
	}
	return fv
}

func indexOf(v value.Value, n int) value.Value {
	if v.Kind() != value.Array {
		return value.NullValue()
	}
	arr := v.Array()
	if n < 0 {
		n += len(arr)
	}
	if n < 0 || n >= len(arr) {
		return value.NullValue()
	}
	return arr[n]
}

func sliceOf(v value.Value, instr compiler.Instruction) value.Value {
	if v.Kind() != value.Array {
		return value.NullValue()
	}
	arr := v.Array()
	n := len(arr)

	step := 1
	if instr.HasC {
		step = instr.C
	}
	if step == 0 {
		return value.NullValue()
	}

	var start, stop int
	if step > 0 {
		start, stop = 0, n
	} else {
		start, stop = n-1, -n-1
	}
	if instr.HasA {
		start = clampSliceIndex(instr.A, n, step)
	}
	if instr.HasB {
		stop = clampSliceIndex(instr.B, n, step)
	}

	out := []value.Value{}
	if step > 0 {
		for i := start; i < stop && i < n; i += step {
			if i >= 0 {
				out = append(out, arr[i])
			}
		}
	} else {
		for i := start; i > stop && i >= 0; i += step {
			if i < n {
				out = append(out, arr[i])
			}
		}
	}
	return value.NewArray(out)
}

func clampSliceIndex(i, n, step int) int {
	if i < 0 {
		i += n
	}
	if step > 0 {
		if i < 0 {
			return 0
		}
		if i > n {
			return n
		}
		return i
	}
	if i < -1 {
		return -1
	}
	if i >= n {
		return n - 1
	}
	return i
}

func setField(container value.Value, name string, v value.Value) value.Value {
	pairs := append([]value.Pair{}, container.Fields()...)
	for i, p := range pairs {
		if p.Key == name {
			pairs[i].Value = v
			return value.NewObject(pairs)
		}
	}
	return value.NewObject(append(pairs, value.Pair{Key: name, Value: v}))
}

func flatten(v value.Value) value.Value {
	if v.Kind() != value.Array {
		return value.NullValue()
	}
	out := []value.Value{}
	for _, e := range v.Array() {
		if e.Kind() == value.Array {
			out = append(out, e.Array()...)
		} else {
			out = append(out, e)
		}
	}
	return value.NewArray(out)
}

func compare(op compiler.Opcode, lhs, rhs value.Value) value.Value {
	switch op {
	case compiler.OpEq:
		return value.NewBool(lhs.Equal(rhs))
	case compiler.OpNeq:
		return value.NewBool(!lhs.Equal(rhs))
	}
	cmp, ok := lhs.Compare(rhs)
	if !ok {
		return value.NullValue()
	}
	switch op {
	case compiler.OpGt:
		return value.NewBool(cmp > 0)
	case compiler.OpGte:
		return value.NewBool(cmp >= 0)
	case compiler.OpLt:
		return value.NewBool(cmp < 0)
	case compiler.OpLte:
		return value.NewBool(cmp <= 0)
	}
	return value.NullValue()
}

// execEach drives one step of a projection loop. The loop re-enters at
// the `each` instruction itself on every iteration (not at
// mark_current, see DESIGN.md), so all of the loop's bookkeeping lives
// here rather than being spread across mark_current/pop_current.
func (m *VM) execEach(instr compiler.Instruction) {
	var top *loopFrame
	if len(m.loops) > 0 && m.loops[len(m.loops)-1].ip == m.ip {
		top = m.loops[len(m.loops)-1]
	}

	if top == nil {
		items := iterable(m.current, instr.B == 1)
		top = &loopFrame{ip: m.ip, items: items}
		m.loops = append(m.loops, top)
	} else {
		if !m.current.IsNull() {
			top.result = append(top.result, m.current)
		}
		top.idx++
	}

	if top.idx < len(top.items) {
		m.current = top.items[top.idx]
		m.ip++
		return
	}

	m.loops = m.loops[:len(m.loops)-1]
	m.current = value.NewArray(top.result)
	m.ip = instr.A
}

func iterable(v value.Value, objectToo bool) []value.Value {
	switch v.Kind() {
	case value.Array:
		return append([]value.Value{}, v.Array()...)
	case value.Object:
		if !objectToo {
			return nil
		}
		fields := v.Fields()
		out := make([]value.Value, len(fields))
		for i, p := range fields {
			out[i] = p.Value
		}
		return out
	default:
		return nil
	}
}

func (m *VM) execCall(instr compiler.Instruction) error {
	name := m.program.Names[instr.A]
	argc := instr.B
	args := make([]value.Value, argc)
	for i := argc - 1; i >= 0; i-- {
		args[i] = m.pop()
	}
	fn, ok := m.funcs.Lookup(name)
	if !ok {
		return &registry.RuntimeError{Func: name, ArgIndex: -1, Expected: "a registered function"}
	}
	result, err := fn.Call(args, m.evalExprRef)
	if err != nil {
		return err
	}
	m.current = result
	return nil
}

// evalExprRef invokes an expression reference (value.Expr kind, from
// compiling `&expr`) against input: it re-enters program at the
// referenced instruction range with fresh stack/saved state, restoring
// the VM's real run state before returning. Passed to the registry as
// an Evaluator so map/sort_by/max_by/min_by can use it once per element
// without the registry package importing vm.
func (m *VM) evalExprRef(ref value.Value, input value.Value) (value.Value, error) {
	start, end := ref.ExprRef()

	savedIP, savedCurrent := m.ip, m.current
	savedStack, savedSaved := m.stack, m.saved
	defer func() {
		m.ip, m.current = savedIP, savedCurrent
		m.stack, m.saved = savedStack, savedSaved
	}()

	m.ip = start
	m.current = input
	m.stack = nil
	m.saved = nil

	for m.ip < end {
		instr := m.program.Instructions[m.ip]
		if instr.Removed {
			m.ip++
			continue
		}
		if err := m.dispatch(instr); err != nil {
			return value.Value{}, err
		}
	}
	return m.current, nil
}
