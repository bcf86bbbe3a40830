// Copyright © 2018 The ELPS authors

package lisp

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/luthersystems/lsp/parser/token"
)

// InitializeUserEnv creates the default user environment.  The special
// operators are registered in the macro table of env and the builtin
// functions are bound in its scope before config is applied.
func InitializeUserEnv(env *LEnv, config ...Config) *LVal {
	env.AddSpecialOps()
	env.AddBuiltins()
	for _, fn := range config {
		lerr := fn(env)
		if lerr.Type == LError {
			return lerr
		}
	}
	return Nil()
}

// LEnv is a lisp environment.
type LEnv struct {
	Loc     *token.Location
	Scope   map[string]*LVal
	Macros  *MacroTable
	Parent  *LEnv
	Runtime *Runtime
	ID      uint
}

// MacroTable maps names to special operators and macros.  Lookups which miss
// in a table continue in its Parent.
type MacroTable struct {
	Parent *MacroTable
	Defs   map[string]*LVal
}

// NewMacroTable returns an empty table chained to parent, which may be nil.
func NewMacroTable(parent *MacroTable) *MacroTable {
	return &MacroTable{
		Parent: parent,
		Defs:   make(map[string]*LVal),
	}
}

// Get returns the macro bound to name or nil if there is no such macro.
func (t *MacroTable) Get(name string) *LVal {
	for ; t != nil; t = t.Parent {
		if mac, ok := t.Defs[name]; ok {
			return mac
		}
	}
	return nil
}

// Put binds name to mac in t.
func (t *MacroTable) Put(name string, mac *LVal) {
	t.Defs[name] = mac
}

// Names returns the names of all macros visible from t.
func (t *MacroTable) Names() []string {
	seen := make(map[string]bool)
	var names []string
	for ; t != nil; t = t.Parent {
		for name := range t.Defs {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}

// NewEnvRuntime initializes a new root LEnv, like NewEnv, but it explicitly
// specifies the runtime to use.  When rt is nil StandardRuntime() called to
// create a new Runtime for the returned LEnv.  It is an error to use the same
// runtime object in multiple calls to NewEnvRuntime.
func NewEnvRuntime(rt *Runtime) *LEnv {
	if rt == nil {
		rt = StandardRuntime()
	}
	return &LEnv{
		ID:      rt.GenEnvID(),
		Loc:     nativeSource(),
		Scope:   make(map[string]*LVal),
		Macros:  NewMacroTable(nil),
		Runtime: rt,
	}
}

// NewEnv returns a new LEnv whose parent is parent.  The returned environment
// shares the macro table of parent.  When parent is nil a root environment
// with a new Runtime is returned.
func NewEnv(parent *LEnv) *LEnv {
	if parent == nil {
		return NewEnvRuntime(nil)
	}
	return &LEnv{
		ID:      parent.Runtime.GenEnvID(),
		Loc:     parent.Loc,
		Scope:   make(map[string]*LVal),
		Macros:  parent.Macros,
		Parent:  parent,
		Runtime: parent.Runtime,
	}
}

// NewEnvMacros returns a new LEnv whose parent is parent and which uses
// macros as its macro table.  When macros is nil a new table chained to the
// macro table of parent is created.
func NewEnvMacros(parent *LEnv, macros *MacroTable) *LEnv {
	env := NewEnv(parent)
	if macros == nil {
		macros = NewMacroTable(env.Macros)
		if parent == nil {
			macros = env.Macros
		}
	}
	env.Macros = macros
	return env
}

func (env *LEnv) GenSym() *LVal {
	return Symbol(env.Runtime.GenSym())
}

func (env *LEnv) genFID() string {
	return fmt.Sprintf("_fun%d", env.Runtime.GenEnvID())
}

// LoadString evaluates the expressions in exprs.  See Load.
func (env *LEnv) LoadString(name, exprs string) *LVal {
	return env.Load(name, strings.NewReader(exprs))
}

// LoadFile reads the file at path and evaluates the expressions it contains.
// See Load.
func (env *LEnv) LoadFile(path string) *LVal {
	f, err := os.Open(path)
	if err != nil {
		return env.Error(err)
	}
	defer f.Close()
	return env.LoadLocation(path, path, f)
}

// Load reads LVals from r and evaluates them as if in a do.  The value
// returned by the last evaluated LVal will be retured.  Nothing is evaluated
// when r contains a syntax error.  If env.Runtime.Reader has not been set
// then an error will be returned by Load.
func (env *LEnv) Load(name string, r io.Reader) *LVal {
	if env.Runtime.Reader == nil {
		return env.Errorf("no reader for environment runtime")
	}

	exprs, err := env.Runtime.Reader.Read(name, r)
	if err != nil {
		return env.readError(err)
	}

	return env.load(exprs)
}

// LoadLocation is like Load but specifies the physical location of the
// stream explicitly when the runtime Reader is a LocationReader.
func (env *LEnv) LoadLocation(name string, loc string, r io.Reader) *LVal {
	if env.Runtime.Reader == nil {
		return env.Errorf("no reader for environment runtime")
	}

	reader, ok := env.Runtime.Reader.(LocationReader)
	if !ok {
		return env.Load(name, r)
	}
	exprs, err := reader.ReadLocation(name, loc, r)
	if err != nil {
		return env.readError(err)
	}

	return env.load(exprs)
}

func (env *LEnv) load(exprs []*LVal) *LVal {
	ret := Nil()
	for _, expr := range exprs {
		ret = env.Eval(expr)
		if ret.Type == LError {
			return ret
		}
	}
	return ret
}

// SourceError is implemented by reader errors which occur at a known
// location in source text.
type SourceError interface {
	error
	Condition() string
	Location() *token.Location
	Message() string
}

func (env *LEnv) readError(err error) *LVal {
	var serr SourceError
	if errors.As(err, &serr) {
		lerr := env.ErrorConditionf(serr.Condition(), "%s", serr.Message())
		if loc := serr.Location(); loc != nil {
			lerr.Source = loc
		}
		return lerr
	}
	return env.ErrorCondition(CondSyntaxError, err)
}

// Get takes an LSymbol k and returns the LVal it is bound to in env or one
// of its ancestors.
func (env *LEnv) Get(k *LVal) *LVal {
	if k.Type != LSymbol {
		return env.ErrorConditionf(CondTypeError, "expected symbol, got: %v", k)
	}
	for e := env; e != nil; e = e.Parent {
		if v, ok := e.Scope[k.Str]; ok {
			return v
		}
	}
	return env.ErrorConditionf(CondUnboundSymbol, "%s", k.Str)
}

// Lookup returns the value bound to name and true when name is bound in env
// or one of its ancestors.
func (env *LEnv) Lookup(name string) (*LVal, bool) {
	for e := env; e != nil; e = e.Parent {
		if v, ok := e.Scope[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// GetMacro returns the special operator or macro bound to symbol k or nil
// if k does not name one.
func (env *LEnv) GetMacro(k *LVal) *LVal {
	if k.Type != LSymbol || env.Macros == nil {
		return nil
	}
	return env.Macros.Get(k.Str)
}

// Put takes an LSymbol k and binds it to v in env.  Bindings in ancestors of
// env are never modified.
func (env *LEnv) Put(k, v *LVal) *LVal {
	if k.Type != LSymbol {
		return env.ErrorConditionf(CondSyntaxError, "expected symbol, got: %v", k)
	}
	if v == nil {
		panic("nil value")
	}
	env.Scope[k.Str] = v
	return Nil()
}

// PutMacro takes an LSymbol k and binds it to the macro mac in the macro
// table of env.
func (env *LEnv) PutMacro(k, mac *LVal) *LVal {
	if k.Type != LSymbol {
		return env.ErrorConditionf(CondSyntaxError, "expected symbol, got: %v", k)
	}
	if !mac.IsSpecialFun() {
		return env.ErrorConditionf(CondTypeError, "not a macro: %v", mac)
	}
	env.Macros.Put(k.Str, mac)
	return Nil()
}

// Lambda returns a new closure which captures env.  When self is not empty
// the closure is bound to self during each of its calls.
func (env *LEnv) Lambda(self string, formals *LVal, body []*LVal) *LVal {
	params, rest, err := parseFormals(formals)
	if err != nil {
		return env.ErrorConditionf(CondSyntaxError, "%v", err)
	}
	cells := make([]*LVal, 0, len(body)+1)
	cells = append(cells, formals)
	cells = append(cells, body...)
	return &LVal{
		Type:   LFun,
		Source: env.Loc,
		Str:    self,
		Native: &LFunData{
			FID:    env.genFID(),
			Env:    env,
			Params: params,
			Rest:   rest,
			Self:   self,
		},
		Cells: cells,
	}
}

func (env *LEnv) root() *LEnv {
	for env.Parent != nil {
		env = env.Parent
	}
	return env
}

// AddSpecialOps binds the given special operators to their names in the
// macro table of env.  When called with no arguments AddSpecialOps adds the
// DefaultSpecialOps to env.
func (env *LEnv) AddSpecialOps(ops ...LBuiltinDef) {
	if len(ops) == 0 {
		ops = DefaultSpecialOps()
	}
	for _, op := range ops {
		if env.Macros.Get(op.Name()) != nil {
			panic(fmt.Sprintf("macro already defined: %v", op.Name()))
		}
		id := fmt.Sprintf("<special-op ``%s''>", op.Name())
		fn := SpecialOp(id, op.Formals(), op.Eval)
		fn.Str = op.Name()
		fn.FunData().Doc = builtinDocstring(op)
		env.Macros.Put(op.Name(), fn)
	}
}

// AddMacros binds the given Go macros to their names in the macro table of
// env.  The value returned by a Go macro is evaluated in the caller's
// environment.
func (env *LEnv) AddMacros(macs ...LBuiltinDef) {
	for _, mac := range macs {
		if env.Macros.Get(mac.Name()) != nil {
			panic(fmt.Sprintf("macro already defined: %v", mac.Name()))
		}
		id := fmt.Sprintf("<builtin-macro ``%s''>", mac.Name())
		fn := Macro(id, mac.Formals(), mac.Eval)
		fn.Str = mac.Name()
		fn.FunData().Doc = builtinDocstring(mac)
		env.Macros.Put(mac.Name(), fn)
	}
}

// AddBuiltins binds the given funs to their names in env.  When called with no
// arguments AddBuiltins adds the DefaultBuiltins to env.
func (env *LEnv) AddBuiltins(funs ...LBuiltinDef) {
	if len(funs) == 0 {
		funs = DefaultBuiltins()
	}
	for _, f := range funs {
		if _, ok := env.Scope[f.Name()]; ok {
			panic("symbol already defined: " + f.Name())
		}
		id := fmt.Sprintf("<builtin-function ``%s''>", f.Name())
		v := Fun(id, f.Formals(), f.Eval)
		v.Str = f.Name()
		v.FunData().Doc = builtinDocstring(f)
		env.Scope[f.Name()] = v
	}
}

// Error returns an LError value with an error message given by rendering msg.
//
// Error may be called either with an error or with any number of *LVal values.
// It is invalid to pass an error argument with any other values and doing so
// will result in a runtime panic.
//
// Unlike the exported function, the Error method returns LVal with a copy
// env.Runtime.Stack.
func (env *LEnv) Error(msg ...interface{}) *LVal {
	return env.ErrorCondition(CondError, msg...)
}

// ErrorCondition returns an LError the given condition type and an error
// message computed by rendering msg.
//
// ErrorCondition may be called either with an error or with any number of
// *LVal values.  It is invalid to pass ErrorCondition an error argument with
// any other values and doing so will result in a runtime panic.
func (env *LEnv) ErrorCondition(condition string, msg ...interface{}) *LVal {
	cells := make([]*LVal, 0, len(msg))
	for _, v := range msg {
		switch v := v.(type) {
		case *LVal:
			cells = append(cells, v)
		case error:
			if len(msg) > 1 {
				panic("invalid error argument")
			}
			cells = append(cells, String(v.Error()))
		case string:
			cells = append(cells, String(v))
		default:
			cells = append(cells, String(fmt.Sprint(v)))
		}
	}
	return &LVal{
		Type:   LError,
		Source: env.Loc,
		Str:    condition,
		Native: env.Runtime.Stack.Copy(),
		Cells:  cells,
	}
}

// Errorf returns an LError value with a formatted error message.
//
// Unlike the exported function, the Errorf method returns an LVal with a copy
// env.Runtime.Stack.
func (env *LEnv) Errorf(format string, v ...interface{}) *LVal {
	return env.ErrorConditionf(CondError, format, v...)
}

// ErrorConditionf returns an LError value with the given condition type and a
// a formatted error message rendered using fmt.Sprintf.
func (env *LEnv) ErrorConditionf(condition string, format string, v ...interface{}) *LVal {
	return &LVal{
		Source: env.Loc,
		Type:   LError,
		Str:    condition,
		Native: env.Runtime.Stack.Copy(),
		Cells:  []*LVal{String(fmt.Sprintf(format, v...))},
	}
}

// ErrorAssociate associates the LError value lerr with env's current call
// stack and source location.  ErrorAssociate panics if lerr is not LError.
func (env *LEnv) ErrorAssociate(lerr *LVal) {
	if lerr.Type != LError {
		panic("not an error: " + lerr.Type.String())
	}
	if lerr.CallStack() == nil {
		lerr.SetCallStack(env.Runtime.Stack)
	}
	if lerr.Source == nil || lerr.Source.Pos < 0 {
		lerr.Source = env.Loc
	}
}

// Eval evaluates v in the context (scope) of env and returns the resulting
// LVal.  Eval does not modify v.
func (env *LEnv) Eval(v *LVal) *LVal {
	if v.Source != nil && v.Source.Pos >= 0 {
		env.Loc = v.Source
	}
	switch v.Type {
	case LSymbol:
		return env.Get(v)
	case LList:
		res := env.EvalList(v)
		if res.Type == LError {
			env.ErrorAssociate(res)
		}
		return res
	default:
		return v
	}
}

// EvalList evaluates the list s as a special operator call, a macro call, or
// a function call.
func (env *LEnv) EvalList(s *LVal) *LVal {
	if s.Type != LList {
		return env.ErrorConditionf(CondTypeError, "not a list: %v", s)
	}
	if len(s.Cells) == 0 {
		return env.Errorf("missing function expression")
	}
	loc := env.Loc
	if mac := env.GetMacro(s.Cells[0]); mac != nil {
		args := List(s.Cells[1:])
		if mac.IsSpecialOp() {
			return env.SpecialOpCall(mac, args)
		}
		return env.MacroCall(mac, args)
	}
	cells := make([]*LVal, len(s.Cells))
	for i, c := range s.Cells {
		cells[i] = env.Eval(c)
		if cells[i].Type == LError {
			return cells[i]
		}
	}
	env.Loc = loc
	fun := cells[0]
	if fun.Type != LFun || fun.IsSpecialFun() {
		return env.ErrorConditionf(CondTypeError, "expected function, got: %v", fun)
	}
	return env.FunCall(fun, List(cells[1:]))
}

// MacroCall invokes macro fun with the unevaluated argument list args and
// evaluates the resulting expansion in env.
func (env *LEnv) MacroCall(fun, args *LVal) *LVal {
	expansion := env.MacroExpand(fun, args)
	if expansion.Type == LError {
		return expansion
	}
	return env.Eval(expansion)
}

// MacroExpand invokes macro fun with the unevaluated argument list args and
// returns the expansion without evaluating it.
func (env *LEnv) MacroExpand(fun, args *LVal) *LVal {
	if !fun.IsMacro() {
		return env.ErrorConditionf(CondTypeError, "not a macro: %v", fun)
	}

	// Push a frame onto the stack to represent the function's execution.
	err := env.Runtime.Stack.PushFID(env.Loc, fun.FID(), fun.Str)
	if err != nil {
		return env.ErrorCondition(CondStackOverflow, err)
	}
	defer env.Runtime.Stack.Pop()

	return env.call(fun, args)
}

// SpecialOpCall invokes special operator fun with the argument list args.
func (env *LEnv) SpecialOpCall(fun, args *LVal) *LVal {
	if !fun.IsSpecialOp() {
		return env.ErrorConditionf(CondTypeError, "not a special operator: %v", fun)
	}

	// Push a frame onto the stack to represent the function's execution.
	err := env.Runtime.Stack.PushFID(env.Loc, fun.FID(), fun.Str)
	if err != nil {
		return env.ErrorCondition(CondStackOverflow, err)
	}
	defer env.Runtime.Stack.Pop()

	r := fun.Builtin()(env, args)
	if r == nil {
		_, _ = env.Runtime.Stack.DebugPrint(env.Runtime.getStderr())
		panic("nil LVal returned from special operator")
	}
	return r
}

// FunCall invokes regular function fun with the argument list args.
func (env *LEnv) FunCall(fun, args *LVal) *LVal {
	if fun.Type != LFun {
		return env.ErrorConditionf(CondTypeError, "expected function, got: %v", fun)
	}
	if fun.IsSpecialFun() {
		return env.ErrorConditionf(CondTypeError, "not a regular function: %v", fun)
	}

	if env.Runtime.Profiler != nil {
		defer env.trace(fun)()
	}

	// Push a frame onto the stack to represent the function's execution.
	err := env.Runtime.Stack.PushFID(env.Loc, fun.FID(), fun.Str)
	if err != nil {
		return env.ErrorCondition(CondStackOverflow, err)
	}
	defer env.Runtime.Stack.Pop()

	return env.call(fun, args)
}

func (env *LEnv) trace(fun *LVal) func() {
	if env.Runtime.Profiler == nil {
		return func() {}
	}
	return env.Runtime.Profiler.Start(fun)
}

func (env *LEnv) call(fun *LVal, args *LVal) *LVal {
	lerr := env.checkArity(fun, len(args.Cells))
	if lerr != nil {
		return lerr
	}
	if fun.Builtin() != nil {
		r := fun.Builtin()(env, args)
		if r == nil {
			_, _ = env.Runtime.Stack.DebugPrint(env.Runtime.getStderr())
			panic("nil LVal returned from function call")
		}
		return r
	}
	return env.bind(fun, args).evalBody(fun.Body())
}

func (env *LEnv) checkArity(fun *LVal, nargs int) *LVal {
	fd := fun.FunData()
	if fd.Rest != "" {
		if nargs < len(fd.Params) {
			return env.ErrorConditionf(CondArityError, "%s expected at least %d args, got %d", funName(fun), len(fd.Params), nargs)
		}
		return nil
	}
	if nargs != len(fd.Params) {
		return env.ErrorConditionf(CondArityError, "%s expected %d args, got %d", funName(fun), len(fd.Params), nargs)
	}
	return nil
}

// bind returns a new environment, a child of the defining environment of
// fun, with the arguments of a call bound to the formals of fun.
func (env *LEnv) bind(fun, args *LVal) *LEnv {
	fd := fun.FunData()
	fenv := NewEnv(fd.Env)
	for i, name := range fd.Params {
		fenv.Scope[name] = args.Cells[i]
	}
	if fd.Rest != "" {
		rest := make([]*LVal, len(args.Cells)-len(fd.Params))
		copy(rest, args.Cells[len(fd.Params):])
		fenv.Scope[fd.Rest] = List(rest)
	}
	if fd.Self != "" {
		fenv.Scope[fd.Self] = fun
	}
	return fenv
}

// evalBody evaluates exprs in order and returns the value of the last one.
func (env *LEnv) evalBody(exprs []*LVal) *LVal {
	ret := Nil()
	for _, expr := range exprs {
		ret = env.Eval(expr)
		if ret.Type == LError {
			return ret
		}
	}
	return ret
}

func funName(fun *LVal) string {
	if fun.Str != "" {
		return fun.Str
	}
	return "function"
}
