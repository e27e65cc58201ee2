package bytecode

import "fmt"

// Opcode represents a counter-machine instruction.
type Opcode byte

const (
	// ========================================================================
	// Counter arithmetic (0x00-0x0F)
	// ========================================================================

	OpInc Opcode = 0x00 // Increment counter: INC <var>
	OpDec Opcode = 0x01 // Decrement counter, no-op at zero: DEC <var>
	OpAdd Opcode = 0x02 // Add src into dst: ADD <dst> <src>
	OpClr Opcode = 0x03 // Reset counter to zero: CLR <var>

	// ========================================================================
	// Control flow (0x10-0x1F)
	// ========================================================================

	OpJmp Opcode = 0x10 // Unconditional jump: JMP <addr>
	OpDjz Opcode = 0x11 // Decrement, jump if it was already zero: DJZ <var> <addr>

	// ========================================================================
	// Output and termination (0xF0-0xFF)
	// ========================================================================

	OpPrt Opcode = 0xF0 // Print counter in decimal: PRT <var>
	OpHlt Opcode = 0xFF // Stop execution
)

// OperandKind describes which operand fields an opcode uses.
type OperandKind uint8

const (
	OperandsNone    OperandKind = iota // HLT
	OperandsVar                        // INC, DEC, CLR, PRT
	OperandsVarVar                     // ADD
	OperandsAddr                       // JMP
	OperandsVarAddr                    // DJZ
)

// OpcodeInfo provides metadata about each opcode for listings and validation.
type OpcodeInfo struct {
	Name     string      // Mnemonic used in listings
	Operands OperandKind // Operand shape
}

var opcodeInfoTable = map[Opcode]OpcodeInfo{
	OpInc: {"INC", OperandsVar},
	OpDec: {"DEC", OperandsVar},
	OpAdd: {"ADD", OperandsVarVar},
	OpClr: {"CLR", OperandsVar},
	OpJmp: {"JMP", OperandsAddr},
	OpDjz: {"DJZ", OperandsVarAddr},
	OpPrt: {"PRT", OperandsVar},
	OpHlt: {"HLT", OperandsNone},
}

// GetOpcodeInfo returns metadata for an opcode.
// Returns a zero OpcodeInfo with name "UNKNOWN" if the opcode is not recognized.
func GetOpcodeInfo(op Opcode) OpcodeInfo {
	if info, ok := opcodeInfoTable[op]; ok {
		return info
	}
	return OpcodeInfo{Name: fmt.Sprintf("UNKNOWN(0x%02X)", byte(op))}
}

// String returns the mnemonic of an opcode.
func (op Opcode) String() string {
	return GetOpcodeInfo(op).Name
}

// IsValid reports whether op is a defined opcode.
func (op Opcode) IsValid() bool {
	_, ok := opcodeInfoTable[op]
	return ok
}

// IsJump returns true if this opcode carries an address operand.
func (op Opcode) IsJump() bool {
	return op == OpJmp || op == OpDjz
}

// AllOpcodes returns a slice of all defined opcodes.
func AllOpcodes() []Opcode {
	opcodes := make([]Opcode, 0, len(opcodeInfoTable))
	for op := range opcodeInfoTable {
		opcodes = append(opcodes, op)
	}
	return opcodes
}

// OpcodeCount returns the number of defined opcodes.
func OpcodeCount() int {
	return len(opcodeInfoTable)
}
