package vm

import (
	"fmt"

	"github.com/rami3l/tallow/debug"
	e "github.com/rami3l/tallow/errors"
	"github.com/sirupsen/logrus"
)

// stackMax is the VM's operand stack capacity. §5 leaves the bound to
// the reimplementation; 256 matches the source's own compile-time
// constant, but here overflow is a RuntimeError rather than undefined
// behavior.
const stackMax = 256

// VM owns an operand stack and an instruction pointer into a Chunk. One
// VM can run many chunks in sequence via Interpret, never concurrently.
type VM struct {
	chunk *Chunk
	ip    int
	stack []Value
}

func NewVM() *VM { return &VM{stack: make([]Value, 0, stackMax)} }

func (vm *VM) push(val Value) error {
	if len(vm.stack) >= stackMax {
		return &e.RuntimeError{Line: vm.currentLine(), Reason: "stack overflow"}
	}
	vm.stack = append(vm.stack, val)
	return nil
}

func (vm *VM) pop() (last Value) {
	len_ := len(vm.stack)
	vm.stack, last = vm.stack[:len_-1], vm.stack[len_-1]
	return
}

func (vm *VM) resetStack() { vm.stack = vm.stack[:0] }

// Interpret compiles src and, on success, runs it to completion. It
// returns the Value produced by the expression's RETURN as well as any
// compile or runtime error; on RETURN the VM also prints the value to
// stdout, independent of the returned Value.
func (vm *VM) Interpret(src string) (Value, error) {
	parser := NewParser()
	chunk, err := parser.Compile(src)
	if err != nil {
		return nil, err
	}
	vm.chunk = chunk
	vm.ip = 0
	vm.resetStack()
	return vm.run()
}

func (vm *VM) currentLine() int {
	if vm.chunk == nil || vm.ip == 0 || vm.ip > len(vm.chunk.lines) {
		return -1
	}
	return vm.chunk.lines[vm.ip-1]
}

// numericBinary factors the "typecheck two Values, pop both, push the
// combined result" pattern shared by every arithmetic/comparison
// instruction (§9's "macro-expanded binary op kernel"), so run's
// dispatch switch stays a single flat match.
func (vm *VM) numericBinary(combine func(v, w Value) (Value, bool), errReason string) error {
	rhs, lhs := vm.pop(), vm.pop()
	res, ok := combine(lhs, rhs)
	if !ok {
		vm.resetStack()
		return &e.RuntimeError{Line: vm.currentLine(), Reason: errReason}
	}
	return vm.push(res)
}

func (vm *VM) run() (Value, error) {
	if vm.chunk == nil {
		return nil, &e.RuntimeError{Line: -1, Reason: "chunk uninitialized"}
	}

	readByte := func() (res byte) {
		res = vm.chunk.code[vm.ip]
		vm.ip++
		return
	}

	for {
		if debug.DEBUG {
			logrus.Debugln(vm.stackTrace())
			instDump, _ := vm.chunk.DisassembleInst(vm.ip)
			logrus.Debugln(instDump)
		}

		switch inst := OpCode(readByte()); inst {
		case OpConst:
			const_ := vm.chunk.consts[readByte()]
			if err := vm.push(const_); err != nil {
				return nil, err
			}
		case OpNil:
			if err := vm.push(VNil{}); err != nil {
				return nil, err
			}
		case OpTrue:
			if err := vm.push(VBool(true)); err != nil {
				return nil, err
			}
		case OpFalse:
			if err := vm.push(VBool(false)); err != nil {
				return nil, err
			}
		case OpEqual:
			rhs, lhs := vm.pop(), vm.pop()
			if err := vm.push(VEq(lhs, rhs)); err != nil {
				return nil, err
			}
		case OpGreater:
			if err := vm.numericBinary(VGreater, "Operands must be numbers."); err != nil {
				return nil, err
			}
		case OpLess:
			if err := vm.numericBinary(VLess, "Operands must be numbers."); err != nil {
				return nil, err
			}
		case OpAdd:
			if err := vm.numericBinary(VAdd, "Operands must be numbers."); err != nil {
				return nil, err
			}
		case OpSub:
			if err := vm.numericBinary(VSub, "Operands must be numbers."); err != nil {
				return nil, err
			}
		case OpMul:
			if err := vm.numericBinary(VMul, "Operands must be numbers."); err != nil {
				return nil, err
			}
		case OpDiv:
			if err := vm.numericBinary(VDiv, "Operands must be numbers."); err != nil {
				return nil, err
			}
		case OpNot:
			if err := vm.push(!VTruthy(vm.pop())); err != nil {
				return nil, err
			}
		case OpNeg:
			res, ok := VNeg(vm.pop())
			if !ok {
				vm.resetStack()
				return nil, &e.RuntimeError{Line: vm.currentLine(), Reason: "Operand must be a number."}
			}
			if err := vm.push(res); err != nil {
				return nil, err
			}
		case OpReturn:
			val := vm.pop()
			fmt.Println(val)
			return val, nil
		default:
			vm.resetStack()
			return nil, &e.RuntimeError{
				Line:   vm.currentLine(),
				Reason: fmt.Sprintf("unknown instruction '%d'", inst),
			}
		}
	}
}

func (vm *VM) stackTrace() string {
	res := "          "
	for _, slot := range vm.stack {
		res += fmt.Sprintf("[ %s ]", slot)
	}
	return res
}
