package bytecode

import "fmt"

// NumVars is the size of the counter alphabet.
const NumVars = 26

// Var names one of the 26 counters, 'a' through 'z'.
type Var byte

// IsVar reports whether r names a counter. Only lowercase ASCII letters do.
func IsVar(r rune) bool {
	return r >= 'a' && r <= 'z'
}

// VarAt returns the counter for bank index i.
func VarAt(i int) Var {
	return Var('a' + i)
}

// Index returns the bank slot for v.
func (v Var) Index() int {
	return int(v) - 'a'
}

// Valid reports whether v is inside the alphabet.
func (v Var) Valid() bool {
	return v >= 'a' && v <= 'z'
}

func (v Var) String() string {
	if !v.Valid() {
		return fmt.Sprintf("Var(%d)", byte(v))
	}
	return string(rune(v))
}

// Instruction is a single decoded counter-machine instruction. Which fields
// are meaningful depends on Op (see OpcodeInfo.Operands): A is the target
// counter, B the source counter of ADD, Addr the jump target.
type Instruction struct {
	Op   Opcode `cbor:"1,keyasint"`
	A    Var    `cbor:"2,keyasint,omitempty"`
	B    Var    `cbor:"3,keyasint,omitempty"`
	Addr int    `cbor:"4,keyasint,omitempty"`
}

func Inc(v Var) Instruction { return Instruction{Op: OpInc, A: v} }

func Dec(v Var) Instruction { return Instruction{Op: OpDec, A: v} }

func Clr(v Var) Instruction { return Instruction{Op: OpClr, A: v} }

func Prt(v Var) Instruction { return Instruction{Op: OpPrt, A: v} }

func Jmp(addr int) Instruction { return Instruction{Op: OpJmp, Addr: addr} }

func Hlt() Instruction { return Instruction{Op: OpHlt} }

// Add adds the value of src into dst.
func Add(dst, src Var) Instruction { return Instruction{Op: OpAdd, A: dst, B: src} }

// Djz decrements v and jumps to addr when v was already zero.
func Djz(v Var, addr int) Instruction { return Instruction{Op: OpDjz, A: v, Addr: addr} }

// String renders the instruction the way listings print it: the mnemonic
// followed by its operands separated by spaces.
func (ins Instruction) String() string {
	info := GetOpcodeInfo(ins.Op)
	switch info.Operands {
	case OperandsVar:
		return fmt.Sprintf("%s %s", info.Name, ins.A)
	case OperandsVarVar:
		return fmt.Sprintf("%s %s %s", info.Name, ins.A, ins.B)
	case OperandsAddr:
		return fmt.Sprintf("%s %d", info.Name, ins.Addr)
	case OperandsVarAddr:
		return fmt.Sprintf("%s %s %d", info.Name, ins.A, ins.Addr)
	default:
		return info.Name
	}
}
