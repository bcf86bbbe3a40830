// Copyright © 2018 The ELPS authors

package lisp

import (
	"fmt"
	"io"

	"github.com/luthersystems/lsp/parser/token"
)

// CallStack is a function call stack.
type CallStack struct {
	Frames            []CallFrame
	MaxHeightPhysical int
}

// CallFrame is one frame in the CallStack
type CallFrame struct {
	Source *token.Location
	FID    string
	Name   string
}

// FunName returns the name of the function called in f, falling back to its
// FID for anonymous functions.
func (f *CallFrame) FunName() string {
	if f == nil {
		return ""
	}
	if f.Name == "" {
		return f.FID
	}
	return f.Name
}

func (f *CallFrame) String() string {
	if f.Source != nil {
		return fmt.Sprintf("%s: %s", f.Source, f.FunName())
	}
	return f.FunName()
}

// Copy creates a copy of the current stack so that it can be attach to a
// runtime error.
func (s *CallStack) Copy() *CallStack {
	frames := make([]CallFrame, len(s.Frames))
	copy(frames, s.Frames)
	return &CallStack{
		Frames: frames,
	}
}

// Top returns the CallFrame at the top of the stack or nil if none exists.
func (s *CallStack) Top() *CallFrame {
	if s == nil || len(s.Frames) == 0 {
		return nil
	}
	return &s.Frames[len(s.Frames)-1]
}

// Height returns the number of frames in s.
func (s *CallStack) Height() int {
	return len(s.Frames)
}

// PushFID pushes a new stack frame with the given FID onto s.
func (s *CallStack) PushFID(src *token.Location, fid string, name string) error {
	err := s.checkHeightPhysical()
	if err != nil {
		return err
	}
	s.Frames = append(s.Frames, CallFrame{
		Source: src,
		FID:    fid,
		Name:   name,
	})
	return nil
}

// checkHeightPhysical performs an inclusive check against s.MaxHeightPhysical
// because it is assumed to be called preemptively, before a new frame is
// pushed onto the stack.  To account for this checkHeightPhysical adds one to
// the current physical height in any error produced.
func (s *CallStack) checkHeightPhysical() error {
	if s.MaxHeightPhysical <= 0 {
		return nil
	}
	if s.MaxHeightPhysical <= len(s.Frames) {
		return &PhysicalStackOverflowError{len(s.Frames) + 1}
	}
	return nil
}

// Pop removes the top CallFrame from the stack and returns it.  Pop panics if
// the stack is empty.
func (s *CallStack) Pop() CallFrame {
	if len(s.Frames) < 1 {
		panic("pop called on an empty stack")
	}
	f := s.Frames[len(s.Frames)-1]
	s.Frames[len(s.Frames)-1] = CallFrame{}
	s.Frames = s.Frames[:len(s.Frames)-1]
	return f
}

// DebugPrint prints s
func (s *CallStack) DebugPrint(w io.Writer) (int, error) {
	n, err := fmt.Fprintf(w, "Stack Trace [%d frames -- entrypoint last]:\n", len(s.Frames))
	if err != nil {
		return n, err
	}
	indent := "  "
	for i := len(s.Frames) - 1; i >= 0; i-- {
		fstr := s.Frames[i].String()
		_n, err := fmt.Fprintf(w, "%sheight %d: %s\n", indent, i, fstr)
		n += _n
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

type PhysicalStackOverflowError struct {
	Height int
}

func (e *PhysicalStackOverflowError) Error() string {
	return fmt.Sprintf("physical stack height exceeded maximum: %v", e.Height)
}
