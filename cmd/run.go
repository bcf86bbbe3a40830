// Copyright © 2018 The ELPS authors

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"strings"

	"github.com/luthersystems/lsp/lisp"
	"github.com/luthersystems/lsp/lisp/x/profiler"
	"github.com/spf13/cobra"
)

// CommandSourceName is the source name of expressions given with run -c.
const CommandSourceName = "<command-line>"

var (
	runCommand    string
	runPrint      bool
	runCPUProfile string
	runCallgrind  string
	runTraceDocs  bool
)

// errRunFailed is returned once an evaluation error has been reported.
var errRunFailed = errors.New("evaluation failed")

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [flags] [FILE...]",
	Short: "Run lisp code",
	Long: `Run lisp code supplied via files or the command line.

Files are evaluated in order in a single environment so later files see
the definitions of earlier ones.  An argument ending in /... names every
.lsp file below a directory.  An expression given with -c is evaluated
after the files and its value is printed.

Examples:
  lsp run main.lsp
  lsp run lib/... main.lsp
  lsp run -c '(map inc (list 1 2 3))'
  lsp run --callgrind out.callgrind main.lsp`,
	Run: func(cmd *cobra.Command, args []string) {
		if runCommand == "" && len(args) == 0 {
			_ = cmd.Help()
			os.Exit(1)
		}
		err := runExec(cmd.OutOrStdout(), cmd.ErrOrStderr(), args)
		if err != nil {
			if !errors.Is(err, errRunFailed) {
				fmt.Fprintln(os.Stderr, err)
			}
			os.Exit(1)
		}
	},
}

func runExec(stdout, stderr io.Writer, args []string) error {
	files, err := expandArgs(args)
	if err != nil {
		return err
	}
	env, err := newEnv(lisp.WithStdout(stdout), lisp.WithStderr(stderr))
	if err != nil {
		return err
	}
	stop, err := startProfiler(env)
	if err != nil {
		return err
	}
	defer func() {
		if err := stop(); err != nil {
			fmt.Fprintln(stderr, err)
		}
	}()

	r := newRenderer()
	for _, path := range files {
		res := env.LoadFile(path)
		if res.Type == lisp.LError {
			renderError(stderr, r, lisp.GoError(res))
			return errRunFailed
		}
		if runPrint {
			fmt.Fprintln(stdout, res)
		}
	}
	if runCommand != "" {
		r.AddSource(CommandSourceName, runCommand)
		res := env.Load(CommandSourceName, strings.NewReader(runCommand))
		if res.Type == lisp.LError {
			renderError(stderr, r, lisp.GoError(res))
			return errRunFailed
		}
		fmt.Fprintln(stdout, res)
	}
	return nil
}

// startProfiler installs the profiler selected by flags on env and returns
// a function that completes the profile.
func startProfiler(env *lisp.LEnv) (func() error, error) {
	var opts []profiler.Option
	if runTraceDocs {
		opts = append(opts, profiler.WithDocFilter(), profiler.WithDocLabeler())
	}
	switch {
	case runCallgrind != "":
		p := profiler.NewCallgrindProfiler(env.Runtime, opts...)
		if err := p.SetFile(runCallgrind); err != nil {
			return nil, err
		}
		if err := p.Enable(); err != nil {
			return nil, err
		}
		return p.Complete, nil
	case runCPUProfile != "":
		f, err := os.Create(runCPUProfile)
		if err != nil {
			return nil, err
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return nil, err
		}
		p := profiler.NewPprofAnnotator(env.Runtime, context.Background(), opts...)
		if err := p.Enable(); err != nil {
			pprof.StopCPUProfile()
			_ = f.Close()
			return nil, err
		}
		return func() error {
			err := p.Complete()
			pprof.StopCPUProfile()
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			return err
		}, nil
	}
	return func() error { return nil }, nil
}

func init() {
	rootCmd.AddCommand(runCmd)

	// Here flags for the run command are defined
	runCmd.Flags().StringVarP(&runCommand, "command", "c", "",
		"Evaluate an expression after any files and print its value")
	runCmd.Flags().BoolVarP(&runPrint, "print", "p", false,
		"Print the value of each file to stdout")
	runCmd.Flags().StringVar(&runCPUProfile, "cpuprofile", "",
		"Write a CPU profile labeled with lisp function names to a file")
	runCmd.Flags().StringVar(&runCallgrind, "callgrind", "",
		"Write a callgrind profile of lisp function calls to a file")
	runCmd.Flags().BoolVar(&runTraceDocs, "trace-docs", false,
		"Only profile functions whose docstring contains @trace")
	runCmd.MarkFlagsMutuallyExclusive("cpuprofile", "callgrind")
}
