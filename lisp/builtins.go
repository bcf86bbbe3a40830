// Copyright © 2018 The ELPS authors

package lisp

import (
	"bytes"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

// LBuiltin is a function that performs executes a lisp function.
type LBuiltin func(env *LEnv, args *LVal) *LVal

// LBuiltinDef is a built-in function
type LBuiltinDef interface {
	Name() string
	Formals() *LVal
	Eval(env *LEnv, args *LVal) *LVal
}

// LBuiltinDocDef is an LBuiltinDef which has a docstring.
type LBuiltinDocDef interface {
	LBuiltinDef
	Docstring() string
}

func builtinDocstring(f LBuiltinDef) string {
	if d, ok := f.(LBuiltinDocDef); ok {
		return cleanDocstring(d.Docstring())
	}
	return ""
}

// cleanDocstring joins the lines of a docstring written in an indented Go
// raw string literal.
func cleanDocstring(doc string) string {
	return strings.Join(strings.Fields(doc), " ")
}

type langBuiltin struct {
	name    string
	formals *LVal
	fun     LBuiltin
	docs    string
}

func (fun *langBuiltin) Name() string {
	return fun.name
}

func (fun *langBuiltin) Formals() *LVal {
	return fun.formals
}

func (fun *langBuiltin) Eval(env *LEnv, args *LVal) *LVal {
	return fun.fun(env, args)
}

func (fun *langBuiltin) Docstring() string {
	return fun.docs
}

var langBuiltins = []*langBuiltin{
	{"+", Formals(VarArgSymbol, "nums"), builtinAdd,
		`Returns the sum of its arguments. Returns 0 with no arguments.`},
	{"-", Formals("num", VarArgSymbol, "rest"), builtinSub,
		`Subtracts the remaining arguments from the first. With a single
		argument returns its negation.`},
	{"*", Formals(VarArgSymbol, "nums"), builtinMul,
		`Returns the product of its arguments. Returns 1 with no
		arguments.`},
	{"/", Formals("num1", "num2", VarArgSymbol, "rest"), builtinDiv,
		`Divides the first argument by each of the remaining arguments.
		Division is exact: dividing integers which do not divide evenly
		produces a rational.`},
	{"<", Formals("a", "b", VarArgSymbol, "rest"), builtinLT,
		`Returns true if each argument is less than the next.`},
	{"<=", Formals("a", "b", VarArgSymbol, "rest"), builtinLEq,
		`Returns true if each argument is less than or equal to the next.`},
	{">", Formals("a", "b", VarArgSymbol, "rest"), builtinGT,
		`Returns true if each argument is greater than the next.`},
	{">=", Formals("a", "b", VarArgSymbol, "rest"), builtinGEq,
		`Returns true if each argument is greater than or equal to the
		next.`},
	{"=", Formals("a", VarArgSymbol, "rest"), builtinEqual,
		`Returns true if all arguments are equal. Collections are compared
		structurally.`},
	{"not=", Formals("a", VarArgSymbol, "rest"), builtinNotEqual,
		`Returns true unless all arguments are equal.`},
	{"not", Formals("expr"), builtinNot,
		`Returns true if expr is false or nil, and false otherwise.`},
	{"nil?", Formals("expr"), builtinIsNil,
		`Returns true if expr is nil.`},
	{"list", Formals(VarArgSymbol, "items"), builtinList,
		`Returns a list containing the arguments.`},
	{"vector", Formals(VarArgSymbol, "items"), builtinVector,
		`Returns a vector containing the arguments.`},
	{"hash-map", Formals(VarArgSymbol, "pairs"), builtinHashMap,
		`Returns a map built from alternating keys and values. An odd
		trailing key is ignored.`},
	{"cons", Formals("item", "coll"), builtinCons,
		`Returns a list with item followed by the elements of coll.`},
	{"concat", Formals(VarArgSymbol, "colls"), builtinConcat,
		`Returns a list containing the elements of each collection in
		order.`},
	{"rest", Formals("coll"), builtinRest,
		`Returns a list of all elements of coll except the first.`},
	{"empty?", Formals("coll"), builtinIsEmpty,
		`Returns true if coll has no elements. Nil is empty.`},
	{"len", Formals("coll"), builtinLen,
		`Returns the number of elements in a list, vector, or map, or the
		number of bytes in a string.`},
	{"slice", Formals("coll", "start", "end", VarArgSymbol, "step"), builtinSlice,
		`Returns the elements of coll from index start up to, but not
		including, index end taking every step-th element. Negative
		indices count from the end of coll and nil for end means the end
		of coll. Indices out of range are clamped.`},
	{"nth", Formals("coll", "n"), builtinNth,
		`Returns the element of coll at index n.`},
	{"get", Formals("coll", "key", VarArgSymbol, "default"), builtinGet,
		`Returns the value associated with key in a map, or the element
		at index key in a sequence. Returns default, or nil, when there is
		no such value.`},
	{"apply", Formals("fun", VarArgSymbol, "args"), builtinApply,
		`Calls fun with the given arguments. The final argument must be a
		sequence and its elements are passed as individual arguments.`},
	{"eval", Formals("expr"), builtinEval,
		`Evaluates expr in the root environment.`},
	{"type", Formals("value"), builtinType,
		`Returns a symbol naming the type of value.`},
	{"str", Formals(VarArgSymbol, "values"), builtinStr,
		`Returns a string concatenating the printed form of each value.
		Strings are included without quotes.`},
	{"symbol", Formals("name"), builtinSymbol,
		`Returns the symbol with the given name.`},
	{"gensym", Formals(), builtinGensym,
		`Returns a new symbol which is not used anywhere else.`},
	{"macroexpand-1", Formals("form"), builtinMacroExpand1,
		`Expands form once if it is a macro call and returns the
		expansion without evaluating it.`},
	{"doc", Formals("fun"), builtinDoc,
		`Returns the docstring of a function. The argument may be a
		symbol naming a function, macro, or special operator.`},
	{"error", Formals(VarArgSymbol, "args"), builtinError,
		`Signals an error with a message formed from the arguments.`},
	{"print", Formals(VarArgSymbol, "values"), builtinPrint,
		`Writes values separated by spaces to standard output. Returns
		nil.`},
	{"println", Formals(VarArgSymbol, "values"), builtinPrintln,
		`Writes values separated by spaces to standard output followed by
		a newline. Returns nil.`},
	{"input", Formals(VarArgSymbol, "prompt"), builtinInput,
		`Writes prompt, if given, and returns a line read from standard
		input. Returns nil at the end of input.`},
	{"exit", Formals(VarArgSymbol, "code"), builtinExit,
		`Terminates the program with the given exit code, 0 by default.`},
}

// DefaultBuiltins returns the default set of LBuiltinDefs added to LEnv
// objects when LEnv.AddBuiltins is called without arguments.
func DefaultBuiltins() []LBuiltinDef {
	ops := make([]LBuiltinDef, len(langBuiltins))
	for i := range langBuiltins {
		ops[i] = langBuiltins[i]
	}
	return ops
}

func builtinAdd(env *LEnv, args *LVal) *LVal {
	if lerr := checkNumeric(env, args.Cells); lerr != nil {
		return lerr
	}
	if numericListType(args.Cells) == LInt {
		sum := 0
		for _, c := range args.Cells {
			sum += c.Int
		}
		return Int(sum)
	}
	sum := Int(0)
	for _, c := range args.Cells {
		sum = numAdd(sum, c)
	}
	return sum
}

func builtinSub(env *LEnv, args *LVal) *LVal {
	if lerr := checkNumeric(env, args.Cells); lerr != nil {
		return lerr
	}
	if len(args.Cells) == 1 {
		return numNeg(args.Cells[0])
	}
	diff := args.Cells[0]
	for _, c := range args.Cells[1:] {
		diff = numSub(diff, c)
	}
	return diff
}

func builtinMul(env *LEnv, args *LVal) *LVal {
	if lerr := checkNumeric(env, args.Cells); lerr != nil {
		return lerr
	}
	prod := Int(1)
	for _, c := range args.Cells {
		prod = numMul(prod, c)
	}
	return prod
}

func builtinDiv(env *LEnv, args *LVal) *LVal {
	if lerr := checkNumeric(env, args.Cells); lerr != nil {
		return lerr
	}
	quo := args.Cells[0]
	for _, c := range args.Cells[1:] {
		if numIsZero(c) {
			return env.ErrorConditionf(CondDivisionByZero, "division by zero")
		}
		quo = numDiv(quo, c)
	}
	return quo
}

func builtinLT(env *LEnv, args *LVal) *LVal {
	return compareChain(env, args, func(c int) bool { return c < 0 })
}

func builtinLEq(env *LEnv, args *LVal) *LVal {
	return compareChain(env, args, func(c int) bool { return c <= 0 })
}

func builtinGT(env *LEnv, args *LVal) *LVal {
	return compareChain(env, args, func(c int) bool { return c > 0 })
}

func builtinGEq(env *LEnv, args *LVal) *LVal {
	return compareChain(env, args, func(c int) bool { return c >= 0 })
}

// compareChain returns true if ok holds for the comparison of every pair of
// adjacent arguments.
func compareChain(env *LEnv, args *LVal, ok func(int) bool) *LVal {
	if lerr := checkNumeric(env, args.Cells); lerr != nil {
		return lerr
	}
	for i := 1; i < len(args.Cells); i++ {
		if !ok(numCmp(args.Cells[i-1], args.Cells[i])) {
			return Bool(false)
		}
	}
	return Bool(true)
}

func builtinEqual(env *LEnv, args *LVal) *LVal {
	return Bool(allEqual(args.Cells))
}

func builtinNotEqual(env *LEnv, args *LVal) *LVal {
	return Bool(!allEqual(args.Cells))
}

func allEqual(cells []*LVal) bool {
	for i := 1; i < len(cells); i++ {
		if !Equal(cells[0], cells[i]) {
			return false
		}
	}
	return true
}

func builtinNot(env *LEnv, args *LVal) *LVal {
	return Bool(!True(args.Cells[0]))
}

func builtinIsNil(env *LEnv, args *LVal) *LVal {
	return Bool(args.Cells[0].IsNil())
}

func builtinList(env *LEnv, args *LVal) *LVal {
	return List(copyCells(args.Cells))
}

func builtinVector(env *LEnv, args *LVal) *LVal {
	return Vector(copyCells(args.Cells))
}

func builtinHashMap(env *LEnv, args *LVal) *LVal {
	return Map(args.Cells)
}

func builtinCons(env *LEnv, args *LVal) *LVal {
	item, coll := args.Cells[0], args.Cells[1]
	cells, lerr := seqCells(env, coll)
	if lerr != nil {
		return lerr
	}
	out := make([]*LVal, 0, len(cells)+1)
	out = append(out, item)
	out = append(out, cells...)
	return List(out)
}

func builtinConcat(env *LEnv, args *LVal) *LVal {
	var out []*LVal
	for _, coll := range args.Cells {
		cells, lerr := seqCells(env, coll)
		if lerr != nil {
			return lerr
		}
		out = append(out, cells...)
	}
	if out == nil {
		out = []*LVal{}
	}
	return List(out)
}

func builtinRest(env *LEnv, args *LVal) *LVal {
	coll := args.Cells[0]
	if coll.Type == LString {
		_, size := utf8.DecodeRuneInString(coll.Str)
		return String(coll.Str[size:])
	}
	cells, lerr := seqCells(env, coll)
	if lerr != nil {
		return lerr
	}
	if len(cells) == 0 {
		return List([]*LVal{})
	}
	return List(copyCells(cells[1:]))
}

func builtinIsEmpty(env *LEnv, args *LVal) *LVal {
	coll := args.Cells[0]
	if coll.IsNil() {
		return Bool(true)
	}
	n := coll.Len()
	if n < 0 {
		return env.ErrorConditionf(CondTypeError, "not a collection: %v", coll)
	}
	return Bool(n == 0)
}

func builtinLen(env *LEnv, args *LVal) *LVal {
	coll := args.Cells[0]
	n := coll.Len()
	if n < 0 {
		return env.ErrorConditionf(CondTypeError, "object of type %v has no len", coll.Type)
	}
	return Int(n)
}

func builtinSlice(env *LEnv, args *LVal) *LVal {
	coll, start, end := args.Cells[0], args.Cells[1], args.Cells[2]
	step := Int(1)
	switch len(args.Cells) {
	case 3:
	case 4:
		step = args.Cells[3]
	default:
		return env.ErrorConditionf(CondArityError, "slice expected at most 4 args, got %d", len(args.Cells))
	}
	if step.Type != LInt || step.Int <= 0 {
		return env.ErrorConditionf(CondTypeError, "slice step must be a positive integer: %v", step)
	}
	n := coll.Len()
	if n < 0 || coll.Type == LMap {
		return env.ErrorConditionf(CondTypeError, "not a sequence: %v", coll)
	}
	i, lerr := sliceIndex(env, start, n, 0)
	if lerr != nil {
		return lerr
	}
	j, lerr := sliceIndex(env, end, n, n)
	if lerr != nil {
		return lerr
	}
	if coll.Type == LString {
		runes := []rune(coll.Str)
		var buf bytes.Buffer
		for k := i; k < j; k += step.Int {
			buf.WriteRune(runes[k])
		}
		return String(buf.String())
	}
	var cells []*LVal
	for k := i; k < j; k += step.Int {
		cells = append(cells, coll.Cells[k])
	}
	if cells == nil {
		cells = []*LVal{}
	}
	return copySeq(coll, cells)
}

// sliceIndex normalizes a slice bound for a sequence of length n.  Negative
// indices count from the end and out of range indices are clamped.
func sliceIndex(env *LEnv, idx *LVal, n int, dflt int) (int, *LVal) {
	if idx.IsNil() {
		return dflt, nil
	}
	if idx.Type != LInt {
		return 0, env.ErrorConditionf(CondTypeError, "slice index is not an integer: %v", idx)
	}
	i := idx.Int
	if i < 0 {
		i += n
	}
	if i < 0 {
		i = 0
	}
	if i > n {
		i = n
	}
	return i, nil
}

func builtinNth(env *LEnv, args *LVal) *LVal {
	coll, n := args.Cells[0], args.Cells[1]
	if n.Type != LInt {
		return env.ErrorConditionf(CondTypeError, "index is not an integer: %v", n)
	}
	switch coll.Type {
	case LList, LVector:
		if n.Int < 0 || n.Int >= len(coll.Cells) {
			return env.Errorf("index out of range: %d", n.Int)
		}
		return coll.Cells[n.Int]
	case LString:
		runes := []rune(coll.Str)
		if n.Int < 0 || n.Int >= len(runes) {
			return env.Errorf("index out of range: %d", n.Int)
		}
		return String(string(runes[n.Int]))
	}
	return env.ErrorConditionf(CondTypeError, "not a sequence: %v", coll)
}

func builtinGet(env *LEnv, args *LVal) *LVal {
	coll, key := args.Cells[0], args.Cells[1]
	dflt := Nil()
	switch len(args.Cells) {
	case 2:
	case 3:
		dflt = args.Cells[2]
	default:
		return env.ErrorConditionf(CondArityError, "get expected at most 3 args, got %d", len(args.Cells))
	}
	switch coll.Type {
	case LMap:
		v, ok := coll.Map().Get(key)
		if ok {
			return v
		}
		return dflt
	case LList, LVector, LString:
		if key.Type != LInt || key.Int < 0 || key.Int >= coll.Len() {
			return dflt
		}
		return builtinNth(env, List([]*LVal{coll, key}))
	case LNil:
		return dflt
	}
	return env.ErrorConditionf(CondTypeError, "not a collection: %v", coll)
}

func builtinApply(env *LEnv, args *LVal) *LVal {
	fun := args.Cells[0]
	cells := args.Cells[1:]
	if len(cells) > 0 {
		last, lerr := seqCells(env, cells[len(cells)-1])
		if lerr != nil {
			return lerr
		}
		spread := make([]*LVal, 0, len(cells)-1+len(last))
		spread = append(spread, cells[:len(cells)-1]...)
		spread = append(spread, last...)
		cells = spread
	}
	return env.FunCall(fun, List(cells))
}

func builtinEval(env *LEnv, args *LVal) *LVal {
	return env.root().Eval(args.Cells[0])
}

func builtinType(env *LEnv, args *LVal) *LVal {
	return GetType(args.Cells[0])
}

func builtinStr(env *LEnv, args *LVal) *LVal {
	var buf bytes.Buffer
	for _, c := range args.Cells {
		buf.WriteString(displayString(c))
	}
	return String(buf.String())
}

func builtinSymbol(env *LEnv, args *LVal) *LVal {
	name := args.Cells[0]
	if name.Type != LString && name.Type != LSymbol {
		return env.ErrorConditionf(CondTypeError, "symbol name is not a string: %v", name)
	}
	return Symbol(name.Str)
}

func builtinGensym(env *LEnv, args *LVal) *LVal {
	return env.GenSym()
}

func builtinMacroExpand1(env *LEnv, args *LVal) *LVal {
	return env.MacroExpand1(args.Cells[0])
}

func builtinDoc(env *LEnv, args *LVal) *LVal {
	fun := args.Cells[0]
	if fun.Type == LSymbol {
		if mac := env.GetMacro(fun); mac != nil {
			fun = mac
		} else {
			fun = env.Get(fun)
			if fun.Type == LError {
				return fun
			}
		}
	}
	if fun.Type != LFun {
		return env.ErrorConditionf(CondTypeError, "not a function: %v", fun)
	}
	return String(fun.Docstring())
}

func builtinError(env *LEnv, args *LVal) *LVal {
	msg := make([]interface{}, len(args.Cells))
	for i, c := range args.Cells {
		msg[i] = c
	}
	return env.Error(msg...)
}

func builtinPrint(env *LEnv, args *LVal) *LVal {
	return writeValues(env, args.Cells, "")
}

func builtinPrintln(env *LEnv, args *LVal) *LVal {
	return writeValues(env, args.Cells, "\n")
}

func writeValues(env *LEnv, vals []*LVal, term string) *LVal {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = displayString(v)
	}
	_, err := io.WriteString(env.Runtime.getStdout(), strings.Join(parts, " ")+term)
	if err != nil {
		return env.Error(err)
	}
	return Nil()
}

func builtinInput(env *LEnv, args *LVal) *LVal {
	switch len(args.Cells) {
	case 0:
	case 1:
		lerr := writeValues(env, args.Cells, "")
		if lerr.Type == LError {
			return lerr
		}
	default:
		return env.ErrorConditionf(CondArityError, "input expected at most 1 args, got %d", len(args.Cells))
	}
	line, err := env.Runtime.readLine()
	if err == io.EOF {
		return Nil()
	}
	if err != nil {
		return env.Error(err)
	}
	return String(line)
}

func builtinExit(env *LEnv, args *LVal) *LVal {
	code := 0
	switch len(args.Cells) {
	case 0:
	case 1:
		if args.Cells[0].Type != LInt {
			return env.ErrorConditionf(CondTypeError, "exit code is not an integer: %v", args.Cells[0])
		}
		code = args.Cells[0].Int
	default:
		return env.ErrorConditionf(CondArityError, "exit expected at most 1 args, got %d", len(args.Cells))
	}
	exit := env.Runtime.Exit
	if exit == nil {
		exit = os.Exit
	}
	exit(code)
	return Nil()
}

// seqCells returns the elements of a list or vector.  Nil is treated as an
// empty sequence.
func seqCells(env *LEnv, v *LVal) ([]*LVal, *LVal) {
	switch v.Type {
	case LList, LVector:
		return v.Cells, nil
	case LNil:
		return nil, nil
	}
	return nil, env.ErrorConditionf(CondTypeError, "not a list or vector: %v", v)
}

func copyCells(cells []*LVal) []*LVal {
	cp := make([]*LVal, len(cells))
	copy(cp, cells)
	return cp
}

// copySeq returns a sequence of the same type as seq containing cells.
func copySeq(seq *LVal, cells []*LVal) *LVal {
	if seq.Type == LVector {
		return Vector(cells)
	}
	return List(cells)
}

func reverseCells(cells []*LVal) []*LVal {
	rev := make([]*LVal, len(cells))
	for i, c := range cells {
		rev[len(cells)-1-i] = c
	}
	return rev
}
