package compiler

import (
	"unicode/utf8"

	"github.com/tliron/commonlog"

	"github.com/chazu/petlik/pkg/bytecode"
)

var log = commonlog.GetLogger("petlik.compiler")

// ---------------------------------------------------------------------------
// Codegen: compile tokens to a flat instruction sequence
// ---------------------------------------------------------------------------

// Options controls code generation.
type Options struct {
	// Optimize compiles simplifiable loops to ADD/CLR instead of a
	// DJZ/JMP iteration.
	Optimize bool
}

// DefaultOptions returns the options used by Compile.
func DefaultOptions() Options {
	return Options{Optimize: true}
}

// Stats describes what a compilation produced.
type Stats struct {
	Instructions int
	Loops        int
	Simplified   int
}

// Compiler translates petlik tokens to a bytecode.Program.
type Compiler struct {
	tokens  []Token
	partner []int
	prog    *bytecode.Program
	opts    Options
	stats   Stats
}

// Compile compiles source with the default options.
func Compile(source string) (*bytecode.Program, error) {
	return CompileWithOptions(source, DefaultOptions())
}

// CompileWithOptions compiles source with the given options.
func CompileWithOptions(source string, opts Options) (*bytecode.Program, error) {
	prog, _, err := CompileWithStats(source, opts)
	return prog, err
}

// CompileBytes compiles raw program text, rejecting input that is not
// valid UTF-8.
func CompileBytes(source []byte, opts Options) (*bytecode.Program, error) {
	if !utf8.Valid(source) {
		return nil, ErrInvalidEncoding
	}
	return CompileWithOptions(string(source), opts)
}

// CompileWithStats compiles source and reports compilation statistics.
func CompileWithStats(source string, opts Options) (*bytecode.Program, Stats, error) {
	tokens := Tokenize(source)
	partner, err := matchParens(tokens)
	if err != nil {
		return nil, Stats{}, err
	}

	c := &Compiler{
		tokens:  tokens,
		partner: partner,
		prog:    bytecode.NewProgram(),
		opts:    opts,
	}
	c.prog.Optimized = opts.Optimize

	if err := c.compileProgram(); err != nil {
		return nil, Stats{}, err
	}

	c.stats.Instructions = c.prog.Len()
	log.Debugf("compiled %d tokens to %d instructions (%d loops, %d simplified)",
		len(tokens), c.stats.Instructions, c.stats.Loops, c.stats.Simplified)

	return c.prog, c.stats, nil
}

// compileProgram compiles the top-level statement list and appends HLT.
func (c *Compiler) compileProgram() error {
	for i := 0; i < len(c.tokens); {
		tok := c.tokens[i]
		switch tok.Type {
		case TokenVar:
			c.prog.Emit(bytecode.Inc(tok.Var()))
			i++

		case TokenMinus, TokenEquals:
			v, err := c.operand(i)
			if err != nil {
				return err
			}
			if tok.Type == TokenMinus {
				c.prog.Emit(bytecode.Dec(v))
			} else {
				c.prog.Emit(bytecode.Prt(v))
			}
			i += 2

		case TokenLParen:
			if _, err := c.compileLoop(i); err != nil {
				return err
			}
			i = c.partner[i] + 1

		default:
			// ')' is consumed together with its '('.
			i++
		}
	}

	c.prog.Emit(bytecode.Hlt())
	return nil
}

// operand returns the counter following the '-' or '=' at index i.
func (c *Compiler) operand(i int) (bytecode.Var, error) {
	tok := c.tokens[i]
	if i+1 >= len(c.tokens) || c.tokens[i+1].Type != TokenVar {
		return 0, errorf(tok.Pos, "expected counter after '%c'", tok.Literal)
	}
	return c.tokens[i+1].Var(), nil
}

// compileLoop compiles the loop whose '(' is at index open and returns the
// number of instructions emitted.
func (c *Compiler) compileLoop(open int) (int, error) {
	closing := c.partner[open]
	if closing == open+1 {
		// "()" has no header and compiles to nothing.
		return 0, nil
	}

	header := c.tokens[open+1]
	if header.Type != TokenVar {
		return 0, errorf(header.Pos, "loop must start with a counter, got %s", header.Type)
	}
	v := header.Var()
	lo, hi := open+2, closing

	c.stats.Loops++
	if c.opts.Optimize && c.canSimplify(v, lo, hi) {
		c.stats.Simplified++
		return c.compileSimplified(v, lo, hi), nil
	}

	djz := c.prog.EmitDjz(v)
	body, err := c.compileBody(lo, hi)
	if err != nil {
		return 0, err
	}
	c.prog.Emit(bytecode.Jmp(djz))
	c.prog.PatchTarget(djz, djz+1+body+1)

	return 1 + body + 1, nil
}

// compileBody compiles the loop body tokens in [lo, hi) and returns the
// number of instructions emitted. Only letters and nested loops are
// significant inside a body.
func (c *Compiler) compileBody(lo, hi int) (int, error) {
	count := 0
	for i := lo; i < hi; {
		tok := c.tokens[i]
		switch tok.Type {
		case TokenVar:
			c.prog.Emit(bytecode.Inc(tok.Var()))
			count++
			i++

		case TokenLParen:
			n, err := c.compileLoop(i)
			if err != nil {
				return 0, err
			}
			count += n
			i = c.partner[i] + 1

		default:
			i++
		}
	}
	return count, nil
}

// canSimplify reports whether the body in [lo, hi) neither nests a loop
// nor mentions the loop counter v.
func (c *Compiler) canSimplify(v bytecode.Var, lo, hi int) bool {
	for _, tok := range c.tokens[lo:hi] {
		if tok.Type == TokenLParen {
			return false
		}
		if tok.Type == TokenVar && tok.Var() == v {
			return false
		}
	}
	return true
}

// compileSimplified emits one ADD t v per letter t of the body, repeats
// included, followed by CLR v. Returns the number of instructions emitted.
func (c *Compiler) compileSimplified(v bytecode.Var, lo, hi int) int {
	count := 0
	for _, tok := range c.tokens[lo:hi] {
		if tok.Type == TokenVar {
			c.prog.Emit(bytecode.Add(tok.Var(), v))
			count++
		}
	}
	c.prog.Emit(bytecode.Clr(v))
	return count + 1
}
