package compiler

import (
	"strings"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/chazu/petlik/pkg/bytecode"
	"github.com/chazu/petlik/vm"
)

// Integration tests: compile petlik source and execute it

func run(t *testing.T, source string, opts Options) (string, *vm.Interpreter) {
	t.Helper()
	g := NewWithT(t)

	prog, err := CompileWithOptions(source, opts)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(prog.Validate()).To(Succeed())

	var out strings.Builder
	interp := vm.NewInterpreter(&out)
	_, err = interp.Run(prog)
	g.Expect(err).NotTo(HaveOccurred())

	return out.String(), interp
}

func value(interp *vm.Interpreter, v bytecode.Var) string {
	return interp.Bank.Get(v).String()
}

func TestIntegrationSimplifiedLoopMovesValue(t *testing.T) {
	g := NewWithT(t)

	out, interp := run(t, "a a a ( a b ) =a =b", DefaultOptions())
	g.Expect(out).To(Equal("0\n3\n"))
	g.Expect(value(interp, 'a')).To(Equal("0"))
	g.Expect(value(interp, 'b')).To(Equal("3"))
}

func TestIntegrationNestedLoopDrainsCounter(t *testing.T) {
	g := NewWithT(t)

	_, interp := run(t, "a a ( a ( a b ) )", DefaultOptions())
	g.Expect(value(interp, 'a')).To(Equal("0"))
	g.Expect(value(interp, 'b')).To(Equal("1"))
}

func TestIntegrationDecrementAtZero(t *testing.T) {
	g := NewWithT(t)

	out, _ := run(t, "-a =a a =a", DefaultOptions())
	g.Expect(out).To(Equal("0\n1\n"))
}

func TestIntegrationMultiplication(t *testing.T) {
	g := NewWithT(t)

	// c = a * b, keeping b intact through d.
	out, interp := run(t, "aaa bbbb (a (b c d) (d b)) =c", DefaultOptions())
	g.Expect(out).To(Equal("12\n"))
	g.Expect(value(interp, 'b')).To(Equal("4"))
	g.Expect(value(interp, 'd')).To(Equal("0"))
}

func doubling(times int) string {
	return strings.Repeat("n", times) + " b (n (b c c) (c b)) =b"
}

func TestIntegrationBignumDoubling(t *testing.T) {
	g := NewWithT(t)

	out, _ := run(t, doubling(64), DefaultOptions())
	g.Expect(out).To(Equal("18446744073709551616\n"))

	out, _ = run(t, doubling(100), DefaultOptions())
	g.Expect(out).To(Equal("1267650600228229401496703205376\n"))
}

func TestIntegrationOptimizationPreservesResults(t *testing.T) {
	programs := []string{
		"",
		"a b c =a =b =c",
		"a a a ( a b ) =a =b",
		"a a ( a ( a b ) ) =a =b",
		"aaa bbbb (a (b c d) (d b)) =c =d",
		"(a b a)",
		"-a -a b (b -a) =a",
		"xxxxx (x y y z) (y x) =x =y =z",
		"(c d d e d) ccc (c d d e d) =c =d =e",
		doubling(10),
	}

	for _, src := range programs {
		t.Run(src, func(t *testing.T) {
			g := NewWithT(t)

			fast, fastInterp := run(t, src, DefaultOptions())
			slow, slowInterp := run(t, src, Options{Optimize: false})

			g.Expect(fast).To(Equal(slow))
			g.Expect(fastInterp.Bank.Values()).To(Equal(slowInterp.Bank.Values()))
		})
	}
}

func TestIntegrationOptimizationSavesSteps(t *testing.T) {
	g := NewWithT(t)
	src := strings.Repeat("a", 1000) + " (a b)"

	fast, err := Compile(src)
	g.Expect(err).NotTo(HaveOccurred())
	slow, err := CompileWithOptions(src, Options{Optimize: false})
	g.Expect(err).NotTo(HaveOccurred())

	fastStats, err := vm.NewInterpreter(&strings.Builder{}).Run(fast)
	g.Expect(err).NotTo(HaveOccurred())
	slowStats, err := vm.NewInterpreter(&strings.Builder{}).Run(slow)
	g.Expect(err).NotTo(HaveOccurred())

	// 1000 INC, ADD, CLR, HLT against 1000 INC plus 1000 DJZ/INC/JMP
	// rounds, the final DJZ and HLT.
	g.Expect(fastStats.Steps).To(Equal(uint64(1003)))
	g.Expect(slowStats.Steps).To(Equal(uint64(1000 + 3*1000 + 2)))
}

func TestIntegrationListing(t *testing.T) {
	g := NewWithT(t)

	prog, err := Compile("a - b = c")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(prog.Listing()).To(Equal(
		"INSTRUCTIONS:\n" +
			"      0: INC a\n" +
			"      1: DEC b\n" +
			"      2: PRT c\n" +
			"      3: HLT\n"))
}
