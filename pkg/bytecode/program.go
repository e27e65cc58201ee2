package bytecode

import (
	"errors"
	"fmt"
)

// FormatVersion is the current program format version.
// Increment when making incompatible changes to the instruction encoding.
const FormatVersion uint16 = 1

// Placeholder is the jump target of an emitted but not yet patched jump.
const Placeholder = -1

// Program is a flat, addressable instruction sequence. Addresses are
// positions in Code and are resolved when the program is built; nothing is
// relocated at load time.
type Program struct {
	Version   uint16        `cbor:"1,keyasint"`
	Optimized bool          `cbor:"2,keyasint"` // simplifiable loops were reduced to ADD/CLR
	Code      []Instruction `cbor:"3,keyasint"`
}

// NewProgram creates a new empty program with the current version.
func NewProgram() *Program {
	return &Program{
		Version: FormatVersion,
		Code:    make([]Instruction, 0, 64),
	}
}

// Emit appends an instruction and returns its address.
func (p *Program) Emit(ins Instruction) int {
	addr := len(p.Code)
	p.Code = append(p.Code, ins)
	return addr
}

// EmitDjz emits a DJZ on v with a placeholder target.
// Returns the address of the DJZ for later patching.
func (p *Program) EmitDjz(v Var) int {
	return p.Emit(Djz(v, Placeholder))
}

// PatchTarget resolves the jump target of the instruction at addr.
// Panics if addr does not hold an unpatched jump.
func (p *Program) PatchTarget(addr int, target int) {
	ins := &p.Code[addr]
	if !ins.Op.IsJump() {
		panic(fmt.Sprintf("bytecode: patch of non-jump %s at %d", ins.Op, addr))
	}
	if ins.Addr != Placeholder {
		panic(fmt.Sprintf("bytecode: jump at %d already patched to %d", addr, ins.Addr))
	}
	ins.Addr = target
}

// CurrentAddr returns the address the next emitted instruction will get.
func (p *Program) CurrentAddr() int {
	return len(p.Code)
}

// Len returns the number of instructions.
func (p *Program) Len() int {
	return len(p.Code)
}

// At returns the instruction at addr.
func (p *Program) At(addr int) Instruction {
	return p.Code[addr]
}

// ErrMissingHalt is reported for programs that do not end with HLT.
var ErrMissingHalt = errors.New("program does not end with HLT")

// ValidationError describes an instruction that breaks a program invariant.
type ValidationError struct {
	Addr   int
	Instr  Instruction
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid instruction %d (%s): %s", e.Addr, GetOpcodeInfo(e.Instr.Op).Name, e.Reason)
}

// Validate checks that every operand is a valid counter, every jump target
// lies within the program (one past the end included), no placeholder is
// left unpatched and the program ends with HLT.
func (p *Program) Validate() error {
	for addr, ins := range p.Code {
		info, ok := opcodeInfoTable[ins.Op]
		if !ok {
			return &ValidationError{Addr: addr, Instr: ins, Reason: "unknown opcode"}
		}
		switch info.Operands {
		case OperandsVar, OperandsVarAddr:
			if !ins.A.Valid() {
				return &ValidationError{Addr: addr, Instr: ins, Reason: fmt.Sprintf("bad counter %s", ins.A)}
			}
		case OperandsVarVar:
			if !ins.A.Valid() || !ins.B.Valid() {
				return &ValidationError{Addr: addr, Instr: ins, Reason: fmt.Sprintf("bad counters %s, %s", ins.A, ins.B)}
			}
		}
		if ins.Op.IsJump() {
			if ins.Addr == Placeholder {
				return &ValidationError{Addr: addr, Instr: ins, Reason: "unpatched jump"}
			}
			if ins.Addr < 0 || ins.Addr > len(p.Code) {
				return &ValidationError{Addr: addr, Instr: ins, Reason: fmt.Sprintf("target %d out of range", ins.Addr)}
			}
		}
	}
	if len(p.Code) == 0 || p.Code[len(p.Code)-1].Op != OpHlt {
		return ErrMissingHalt
	}
	return nil
}
