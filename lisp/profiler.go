package lisp

// Version is the version of the lsp language and its runtime.
const Version = "0.3"

// Profiler observes function calls made by an environment.
type Profiler interface {
	// Is the profiler enabled?
	IsEnabled() bool
	// Enable the profiler
	Enable() error
	// End the profiling session and output summary lines
	Complete() error
	// Start marks the start of a call to function and returns a function
	// marking its end.
	Start(function *LVal) func()
}
