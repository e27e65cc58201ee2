// Package bytecode defines the instruction set of the petlik counter
// machine: 26 unbounded counters named 'a' through 'z' and eight opcodes
// operating on them.
//
// # Instructions
//
//   - INC v, DEC v: add or remove one (DEC at zero does nothing)
//   - ADD d s: add the value of s into d
//   - CLR v: reset v to zero
//   - JMP addr: continue at addr
//   - DJZ v addr: decrement v, or jump to addr when v was already zero
//   - PRT v: print v in decimal
//   - HLT: stop
//
// # Programs
//
// A Program is a flat instruction slice; addresses are indices into it. The
// compiler emits forward jumps with a placeholder target and resolves them
// with PatchTarget once the jumped-over code is out. Validate checks the
// invariants every executable program satisfies.
//
// Programs can be printed as a numbered listing (WriteListing) and stored
// as CBOR images (EncodeImage, DecodeImage).
package bytecode
