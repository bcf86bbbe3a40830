// Copyright © 2018 The ELPS authors

package lisp

import (
	"io"
)

// Config is a function that configures a root environment or its runtime.
type Config func(env *LEnv) *LVal

// WithMaximumPhysicalStackHeight returns a Config that will prevent an
// execution environment from allowing the physical stack height to exceed n.
// The physical stack height is the literal number of frames in the call
// stack.  Exceeding the height produces a stack-overflow error.
func WithMaximumPhysicalStackHeight(n int) Config {
	return func(env *LEnv) *LVal {
		env.Runtime.Stack.MaxHeightPhysical = n
		return Nil()
	}
}

// WithReader returns a Config that makes environments use r to parse source
// streams.  There is no default Reader for an environment.
func WithReader(r Reader) Config {
	return func(env *LEnv) *LVal {
		env.Runtime.Reader = r
		return Nil()
	}
}

// WithStderr returns a Config that makes environments write debugging output
// to w instead of the default, os.Stderr.
func WithStderr(w io.Writer) Config {
	return func(env *LEnv) *LVal {
		env.Runtime.Stderr = w
		return Nil()
	}
}

// WithStdout returns a Config that makes print and println write to w
// instead of the default, os.Stdout.
func WithStdout(w io.Writer) Config {
	return func(env *LEnv) *LVal {
		env.Runtime.Stdout = w
		return Nil()
	}
}

// WithStdin returns a Config that makes input read lines from r instead of
// the default, os.Stdin.
func WithStdin(r io.Reader) Config {
	return func(env *LEnv) *LVal {
		env.Runtime.Stdin = r
		env.Runtime.stdin = nil
		return Nil()
	}
}

// WithExit returns a Config that makes the exit builtin call fn instead of
// os.Exit.
func WithExit(fn func(code int)) Config {
	return func(env *LEnv) *LVal {
		env.Runtime.Exit = fn
		return Nil()
	}
}

// WithProfiler returns a Config that installs p on the runtime.  The
// profiler observes every function call made in the environment.
func WithProfiler(p Profiler) Config {
	return func(env *LEnv) *LVal {
		env.Runtime.Profiler = p
		return Nil()
	}
}
