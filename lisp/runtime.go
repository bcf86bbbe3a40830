// Copyright © 2018 The ELPS authors

package lisp

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sync/atomic"
)

// Runtime is an object underlying a family of tree of LEnv values.  It is
// responsible for holding shared environment state, generating identifiers,
// and connecting programs to their input and output streams.
type Runtime struct {
	Stderr   io.Writer
	Stdout   io.Writer
	Stdin    io.Reader
	Stack    *CallStack
	Reader   Reader
	Profiler Profiler
	// Exit is called by the exit builtin.  Exit must not return when the
	// program is expected to stop.
	Exit   func(code int)
	stdin  *bufio.Reader
	numenv atomicCounter
	numsym atomicCounter
}

// StandardRuntime returns a new Runtime connected to the process's standard
// streams.
func StandardRuntime() *Runtime {
	return &Runtime{
		Stderr: os.Stderr,
		Stdout: os.Stdout,
		Stdin:  os.Stdin,
		Stack:  &CallStack{},
		Exit:   os.Exit,
	}
}

func (r *Runtime) GenEnvID() uint {
	return r.numenv.Add(1)
}

func (r *Runtime) GenSym() string {
	return fmt.Sprintf("gen%08d", r.numsym.Add(1))
}

func (r *Runtime) getStderr() io.Writer {
	if r.Stderr == nil {
		return os.Stderr
	}
	return r.Stderr
}

func (r *Runtime) getStdout() io.Writer {
	if r.Stdout == nil {
		return os.Stdout
	}
	return r.Stdout
}

// readLine returns the next line of program input without its terminating
// newline.  At the end of input readLine returns io.EOF.
func (r *Runtime) readLine() (string, error) {
	if r.stdin == nil {
		in := r.Stdin
		if in == nil {
			in = os.Stdin
		}
		r.stdin = bufio.NewReader(in)
	}
	line, err := r.stdin.ReadString('\n')
	if err == io.EOF && line != "" {
		err = nil
	}
	if err != nil {
		return "", err
	}
	line = line[:len(line)-trailingNewline(line)]
	return line, nil
}

func trailingNewline(line string) int {
	n := 0
	if len(line) > 0 && line[len(line)-1] == '\n' {
		n++
		if len(line) > 1 && line[len(line)-2] == '\r' {
			n++
		}
	}
	return n
}

type atomicCounter uint64

func (c *atomicCounter) Add(n uint) uint {
	return uint(atomic.AddUint64((*uint64)(c), uint64(n)))
}
