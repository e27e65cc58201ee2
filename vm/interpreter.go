package vm

import (
	"fmt"
	"io"

	"github.com/tliron/commonlog"

	"github.com/chazu/petlik/pkg/bytecode"
)

var log = commonlog.GetLogger("petlik.vm")

// ---------------------------------------------------------------------------
// StepResult: outcome of executing one instruction
// ---------------------------------------------------------------------------

// StepKind tells the dispatch loop where execution continues.
type StepKind uint8

const (
	StepContinue StepKind = iota // fall through to the next instruction
	StepJump                     // continue at Target
	StepHalt                     // stop the run
)

func (k StepKind) String() string {
	switch k {
	case StepContinue:
		return "continue"
	case StepJump:
		return "jump"
	case StepHalt:
		return "halt"
	default:
		return fmt.Sprintf("StepKind(%d)", k)
	}
}

// StepResult is returned by Step.
type StepResult struct {
	Kind   StepKind
	Target int // valid when Kind is StepJump
}

var (
	continueResult = StepResult{Kind: StepContinue}
	haltResult     = StepResult{Kind: StepHalt}
)

func jumpTo(addr int) StepResult {
	return StepResult{Kind: StepJump, Target: addr}
}

// RunStats summarizes a finished run.
type RunStats struct {
	Steps   uint64 // instructions executed, HLT included
	Printed uint64 // PRT instructions executed
}

// ---------------------------------------------------------------------------
// Interpreter: fetch-decode-execute over a Program
// ---------------------------------------------------------------------------

// Interpreter executes a Program against a Bank of counters. It is not
// safe for concurrent use; one interpreter serves one run at a time.
type Interpreter struct {
	Bank *Bank

	prog  *bytecode.Program
	pc    int
	out   io.Writer
	stats RunStats

	// Trace logs every executed instruction at debug level.
	Trace bool
}

// NewInterpreter creates an interpreter that prints to out.
func NewInterpreter(out io.Writer) *Interpreter {
	return &Interpreter{
		Bank: NewBank(),
		out:  out,
	}
}

// Load makes p the current program and rewinds the program counter.
// Counter values are kept; call Bank.Reset to start from zero.
func (i *Interpreter) Load(p *bytecode.Program) {
	i.prog = p
	i.pc = 0
	i.stats = RunStats{}
}

// PC returns the address of the next instruction to execute.
func (i *Interpreter) PC() int {
	return i.pc
}

// Stats returns the statistics of the current run so far.
func (i *Interpreter) Stats() RunStats {
	return i.stats
}

// Run loads p and executes it until HLT or until the program counter
// leaves the program. The only possible error is a failed write of PRT
// output.
func (i *Interpreter) Run(p *bytecode.Program) (RunStats, error) {
	i.Load(p)

	for {
		res, err := i.Step()
		if err != nil {
			return i.stats, err
		}

		switch res.Kind {
		case StepContinue:
			i.pc++
		case StepJump:
			i.pc = res.Target
		case StepHalt:
			log.Debugf("halted at %d after %d steps", i.pc, i.stats.Steps)
			return i.stats, nil
		}
	}
}

// Step executes the instruction at the program counter and reports where
// execution continues. It does not move the program counter; Run applies
// the result. Running off the end of the program reports StepHalt.
func (i *Interpreter) Step() (StepResult, error) {
	if i.prog == nil || i.pc < 0 || i.pc >= len(i.prog.Code) {
		return haltResult, nil
	}

	ins := i.prog.Code[i.pc]
	i.stats.Steps++

	if i.Trace {
		log.Debugf("[%d] %s", i.pc, ins)
	}

	switch ins.Op {
	case bytecode.OpInc:
		i.Bank.Get(ins.A).Increment()

	case bytecode.OpDec:
		i.Bank.Get(ins.A).Decrement()

	case bytecode.OpAdd:
		i.Bank.Get(ins.A).Add(i.Bank.Get(ins.B))

	case bytecode.OpClr:
		i.Bank.Get(ins.A).Clear()

	case bytecode.OpJmp:
		return jumpTo(ins.Addr), nil

	case bytecode.OpDjz:
		if !i.Bank.Get(ins.A).Decrement() {
			return jumpTo(ins.Addr), nil
		}

	case bytecode.OpPrt:
		i.stats.Printed++
		if _, err := io.WriteString(i.out, i.Bank.Get(ins.A).String()+"\n"); err != nil {
			return haltResult, fmt.Errorf("vm: print %s at %d: %w", ins.A, i.pc, err)
		}

	case bytecode.OpHlt:
		return haltResult, nil

	default:
		// Validated programs never get here.
		return haltResult, fmt.Errorf("vm: unknown opcode %s at %d", ins.Op, i.pc)
	}

	return continueResult, nil
}
