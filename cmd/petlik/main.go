// Petlik CLI - compiles a petlik program from standard input and runs it
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/tebeka/atexit"
	"github.com/tliron/commonlog"
	"github.com/tliron/commonlog/simple"
)

// newLogBackend returns the stderr backend. It writes unbuffered: the
// process leaves through atexit.Exit, which never flushes commonlog.
func newLogBackend() *simple.Backend {
	b := simple.NewBackend()
	b.Buffered = false
	return b
}

func main() {
	workDir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "petlik: %v\n", err)
		os.Exit(1)
	}

	commonlog.SetBackend(newLogBackend())

	// PRT output is buffered; every exit path flushes it.
	stdout := bufio.NewWriter(os.Stdout)
	atexit.Register(func() {
		if err := stdout.Flush(); err != nil {
			fmt.Fprintf(os.Stderr, "petlik: writing output: %v\n", err)
		}
	})

	c := &cli{
		stdin:   bufio.NewReader(os.Stdin),
		stdout:  stdout,
		stderr:  os.Stderr,
		workDir: workDir,
	}
	atexit.Exit(c.run(os.Args[1:]))
}
