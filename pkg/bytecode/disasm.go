package bytecode

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	// DefaultListingHeader is the first line of an instruction listing.
	DefaultListingHeader = "INSTRUCTIONS:"

	// DefaultListingIndent is the number of spaces before each numbered line.
	DefaultListingIndent = 6
)

// ListingOptions controls the instruction listing layout.
type ListingOptions struct {
	Header string
	Indent int
}

// DefaultListingOptions returns the standard listing layout.
func DefaultListingOptions() ListingOptions {
	return ListingOptions{Header: DefaultListingHeader, Indent: DefaultListingIndent}
}

// Listing returns the instruction listing with the default layout.
func (p *Program) Listing() string {
	var sb strings.Builder
	_ = p.WriteListing(&sb, DefaultListingOptions())
	return sb.String()
}

// WriteListing writes a header line followed by one line per instruction.
// Each index is right-aligned to the width of the largest index so all
// labels take the same number of columns.
func (p *Program) WriteListing(w io.Writer, opts ListingOptions) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintln(bw, opts.Header); err != nil {
		return err
	}

	indent := strings.Repeat(" ", max(opts.Indent, 0))
	width := len(strconv.Itoa(max(len(p.Code)-1, 0)))
	for addr, ins := range p.Code {
		if _, err := fmt.Fprintf(bw, "%s%*d: %s\n", indent, width, addr, ins); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// DisassembleToLines returns the listing body as a slice of lines, without
// header or indent.
func (p *Program) DisassembleToLines() []string {
	width := len(strconv.Itoa(max(len(p.Code)-1, 0)))
	lines := make([]string, 0, len(p.Code))
	for addr, ins := range p.Code {
		lines = append(lines, fmt.Sprintf("%*d: %s", width, addr, ins))
	}
	return lines
}

// CountOpcodes returns how many instructions of each opcode the program has.
func (p *Program) CountOpcodes() map[Opcode]int {
	counts := make(map[Opcode]int)
	for _, ins := range p.Code {
		counts[ins.Op]++
	}
	return counts
}
