package compiler

import (
	"errors"
	"fmt"
)

// ErrInvalidEncoding is returned for source that is not valid UTF-8.
var ErrInvalidEncoding = errors.New("source is not valid UTF-8")

// CompileError reports malformed program structure at a source position.
type CompileError struct {
	Pos Position
	Msg string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("line %d:%d: %s", e.Pos.Line, e.Pos.Column, e.Msg)
}

func errorf(pos Position, format string, args ...interface{}) *CompileError {
	return &CompileError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}
