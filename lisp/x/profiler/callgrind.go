package profiler

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/luthersystems/lsp/lisp"
	"github.com/luthersystems/lsp/parser/token"
)

// errWriter wraps an io.Writer and captures the first write error,
// short-circuiting subsequent writes after a failure.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) print(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = io.WriteString(ew.w, s)
}

// CallgrindProfiler writes a profile in the callgrind format, which can be
// opened in KCacheGrind or QCacheGrind.  Each function call records its
// wall time and the memory allocated during the call.
type CallgrindProfiler struct {
	profiler
	sync.Mutex
	writer    io.Writer
	closer    io.Closer
	writeErr  error
	startTime time.Time
	refs      map[string]int
	refCount  int
	current   *callRef
}

var _ lisp.Profiler = &CallgrindProfiler{}

// NewCallgrindProfiler returns a callgrind profiler installed on runtime.
// An output must be set with SetFile or SetWriter before it is enabled.
func NewCallgrindProfiler(runtime *lisp.Runtime, opts ...Option) *CallgrindProfiler {
	p := new(CallgrindProfiler)
	p.runtime = runtime
	runtime.Profiler = p
	p.applyConfigs(opts...)
	return p
}

// callRef is an in-progress or completed function call.
type callRef struct {
	start       time.Time
	prev        *callRef
	name        string
	children    []*callRef
	duration    time.Duration
	startMemory uint64
	file        string
	line        int
}

func (p *CallgrindProfiler) Enable() error {
	p.Lock()
	if p.writer == nil {
		p.Unlock()
		return errors.New("no output set in profiler")
	}
	w := &errWriter{w: p.writer}
	w.printf("version: 1\ncreator: lsp %s (Go %s)\n", lisp.Version, runtime.Version())
	w.print("cmd: Eval\npart: 1\npositions: line\n\n")
	w.print("events: Time_(ns) Memory_(bytes)\n\n")
	if w.err != nil {
		p.Unlock()
		return w.err
	}
	p.startTime = time.Now()
	p.refs = make(map[string]int)
	p.refCount = 0
	p.current = nil
	p.Unlock()
	p.pushCallRef("ENTRYPOINT", &token.Location{File: "-", Path: "-"})
	return p.profiler.Enable()
}

// SetFile creates the file at filename and writes the profile to it.  The
// file is closed by Complete.
func (p *CallgrindProfiler) SetFile(filename string) error {
	f, err := os.Create(filename) //#nosec G304
	if err != nil {
		return err
	}
	err = p.SetWriter(f)
	if err != nil {
		_ = f.Close()
		return err
	}
	p.closer = f
	return nil
}

// SetWriter sets the destination of the profile.
func (p *CallgrindProfiler) SetWriter(w io.Writer) error {
	p.Lock()
	defer p.Unlock()
	if p.enabled {
		return errors.New("profiler already enabled")
	}
	p.writer = w
	return nil
}

func (p *CallgrindProfiler) Complete() error {
	p.Lock()
	defer p.Unlock()
	if !p.enabled {
		return errors.New("profiler not enabled")
	}
	p.enabled = false
	if p.writeErr != nil {
		return p.writeErr
	}
	ref := p.popCallRef()
	for ref.prev != nil {
		ref = p.popCallRef()
	}
	ref.duration = time.Since(ref.start)
	w := &errWriter{w: p.writer}
	w.printf("fl=%s\n", p.getRef(ref.file))
	w.printf("fn=%s\n", p.getRef(ref.name))
	w.printf("%d %d %d\n", 0, ref.duration, 0)
	p.writeChildren(w, ref, 0)
	w.print("\n")
	ms := &runtime.MemStats{}
	runtime.ReadMemStats(ms)
	w.printf("summary: %d %d\n\n", time.Since(p.startTime).Nanoseconds(), ms.TotalAlloc)
	if w.err != nil {
		return w.err
	}
	if p.closer != nil {
		return p.closer.Close()
	}
	return nil
}

func (p *CallgrindProfiler) getRef(name string) string {
	if ref, ok := p.refs[name]; ok {
		return fmt.Sprintf("(%d)", ref)
	}
	p.refCount++
	p.refs[name] = p.refCount
	return fmt.Sprintf("(%d) %s", p.refCount, name)
}

func (p *CallgrindProfiler) Start(fun *lisp.LVal) func() {
	if p.skipTrace(fun) {
		return func() {}
	}
	prettyLabel, _ := p.prettyFunName(fun)
	p.Lock()
	p.pushCallRefLocked(prettyLabel, getSourceLoc(fun))
	p.Unlock()
	return func() {
		p.end(fun)
	}
}

func (p *CallgrindProfiler) pushCallRef(name string, loc *token.Location) {
	p.Lock()
	defer p.Unlock()
	p.pushCallRefLocked(name, loc)
}

func (p *CallgrindProfiler) pushCallRefLocked(name string, loc *token.Location) {
	ref := &callRef{name: name, prev: p.current}
	if loc != nil {
		ref.file = loc.File
		ref.line = loc.Line
	}
	if ref.prev != nil {
		ref.prev.children = append(ref.prev.children, ref)
	}
	ms := &runtime.MemStats{}
	runtime.ReadMemStats(ms)
	ref.startMemory = ms.TotalAlloc
	ref.start = time.Now()
	p.current = ref
}

func (p *CallgrindProfiler) popCallRef() *callRef {
	ref := p.current
	if ref == nil {
		panic("callgrind profiler call stack underflow")
	}
	p.current = ref.prev
	return ref
}

func (p *CallgrindProfiler) end(fun *lisp.LVal) {
	p.Lock()
	defer p.Unlock()
	if !p.enabled || p.writeErr != nil {
		return
	}
	ref := p.popCallRef()
	ref.duration = time.Since(ref.start)
	if ref.duration == 0 {
		ref.duration = 1
	}
	ms := &runtime.MemStats{}
	runtime.ReadMemStats(ms)
	memory := ms.TotalAlloc - ref.startMemory

	w := &errWriter{w: p.writer}
	w.printf("fl=%s\n", p.getRef(ref.file))
	w.printf("fn=%s\n", p.getRef(ref.name))
	w.printf("%d %d %d\n", ref.line, ref.duration, memory)
	p.writeChildren(w, ref, memory)
	w.print("\n")
	if w.err != nil {
		p.writeErr = w.err
	}
}

func (p *CallgrindProfiler) writeChildren(w *errWriter, ref *callRef, memory uint64) {
	for _, entry := range ref.children {
		w.printf("cfl=%s\n", p.getRef(entry.file))
		w.printf("cfn=%s\n", p.getRef(entry.name))
		w.print("calls=1 0 0\n")
		w.printf("%d %d %d\n", entry.line, entry.duration, memory)
	}
}
