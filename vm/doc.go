// Package vm implements the petlik execution engine.
//
// This package contains:
//   - Counter, a base 1_000_000 arbitrary-precision non-negative integer
//   - Bank, the 26 counters a program operates on
//   - Interpreter, a fetch-decode-execute loop whose Step returns an
//     explicit continue/jump/halt result
package vm
