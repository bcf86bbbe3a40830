// Copyright © 2018 The ELPS authors

package lisp

import (
	"bytes"
	"fmt"
	"math/big"
	"strconv"
	"unicode/utf8"

	"github.com/luthersystems/lsp/parser/token"
)

// LType is the type of an LVal
type LType uint

// Possible LValType values
const (
	// LInvalid (0) is not a valid lisp type.
	LInvalid LType = iota
	// LInt values store an int in the LVal.Int field.
	LInt
	// LRational values store a *big.Rat in the LVal.Native field.  The
	// denominator of a rational value is never 1, such values are LInt.
	LRational
	// LBool values store their truth value in the LVal.Bool field.
	LBool
	// LNil is the valueless marker.  Nil is distinct from the empty list.
	LNil
	// LString values store a string in the LVal.Str field.
	LString
	// LSymbol values store the name of the symbol in the LVal.Str field.
	LSymbol
	// LList values store their elements in LVal.Cells.  A non-empty list is
	// evaluated as a call.
	LList
	// LVector values store their elements in LVal.Cells.  Vectors are data
	// and evaluate to themselves.
	LVector
	// LMap values store a *MapData in the LVal.Native field.
	LMap
	// LFun values use the following fields in an LVal:
	// 		LVal.Str      The name of the function (if any)
	// 		LVal.Native   An LFunData object
	//
	// In addition to these fields, a function defined in lisp (with fn or
	// defmacro) uses the LVal.Cells field to store the following items:
	//		[0]  a list describing the function's arguments
	//		[1:] body expressions of the function
	//
	// Go functions (builtins and special operators) only store their formal
	// argument list in Cells.
	LFun
	// LError values store a condition name in LVal.Str and the error message
	// in LVal.Cells.  A copy of the call stack at the time the error was
	// created is stored in LVal.Native.
	LError
	// LTypeMax is not a real type but represents a value numerically greater
	// than all valid LType values.
	LTypeMax
)

var lvalTypeStrings = []string{
	LInvalid:  "INVALID",
	LInt:      "int",
	LRational: "rational",
	LBool:     "bool",
	LNil:      "nil",
	LString:   "string",
	LSymbol:   "symbol",
	LList:     "list",
	LVector:   "vector",
	LMap:      "map",
	LFun:      "function",
	LError:    "error",
}

func (t LType) String() string {
	if t >= LType(len(lvalTypeStrings)) {
		return lvalTypeStrings[LInvalid]
	}
	return lvalTypeStrings[t]
}

// LFunType denotes special functions, either macros or special operators.
type LFunType uint8

// LFunType constants.  LFunNone indicates a normal function.
const (
	LFunNone LFunType = iota
	LFunMacro
	LFunSpecialOp
)

var lfunTypeStrings = []string{
	LFunNone:      "function",
	LFunMacro:     "macro",
	LFunSpecialOp: "operator",
}

func (ft LFunType) String() string {
	if ft >= LFunType(len(lfunTypeStrings)) {
		return "invalid-function-type"
	}
	return lfunTypeStrings[ft]
}

// LFunData holds the data shared by every kind of function value.
type LFunData struct {
	Builtin LBuiltin
	// Env is the defining environment of a closure or user macro.
	Env *LEnv
	FID string
	// Params are the names of required arguments and Rest is the name of the
	// rest argument, if the function is variadic.
	Params []string
	Rest   string
	// Self is bound to the function itself during each call.
	Self string
	// Doc is the docstring of a builtin function or special operator.
	Doc string
}

// LVal is a lisp value
type LVal struct {
	// Native is generic storage for data which cannot be represented as an
	// LVal (and thus can't be stored in Cells).
	Native interface{}

	// Source is the values originating location in source code.  Programs
	// should not modify the contents of Source as the reference may be shared
	// by multiple LVals.
	Source *token.Location

	// Str used by LSymbol and LString values
	Str string

	// Cells used by many values as a storage space for lisp objects.
	Cells []*LVal

	// Type is the native type for a value in lisp.
	Type LType

	Int  int
	Bool bool

	// FunType used to further classify LFun values.
	FunType LFunType
}

// Singletons are never mutated.
var (
	singletonNil   = &LVal{Source: nativeSource(), Type: LNil}
	singletonTrue  = &LVal{Source: nativeSource(), Type: LBool, Bool: true}
	singletonFalse = &LVal{Source: nativeSource(), Type: LBool}
)

// GetType returns a symbol denoting v's type.
func GetType(v *LVal) *LVal {
	return Symbol(v.Type.String())
}

// Value conveniently converts v to an LVal.  Types which can be represented
// directly in lisp will be converted to the appropriate LVal.
func Value(v interface{}) *LVal {
	switch v := v.(type) {
	case nil:
		return Nil()
	case bool:
		return Bool(v)
	case string:
		return String(v)
	case int:
		return Int(v)
	case *big.Rat:
		return Rational(v)
	case []*LVal:
		return List(v)
	case *LVal:
		return v
	default:
		return Errorf("cannot convert value to lisp: %T", v)
	}
}

// Bool returns an LVal with truthiness identical to b.
//
// The returned value is a shared singleton and callers must not mutate it.
func Bool(b bool) *LVal {
	if b {
		return singletonTrue
	}
	return singletonFalse
}

// Nil returns an LVal representing nil.
//
// The returned value is a shared singleton and callers must not mutate it.
func Nil() *LVal {
	return singletonNil
}

// Int returns an LVal representing the number x.
func Int(x int) *LVal {
	return &LVal{
		Source: nativeSource(),
		Type:   LInt,
		Int:    x,
	}
}

// Rational returns an LVal representing the exact fraction r.  When r is an
// integer representable by int the returned value is an LInt.
func Rational(r *big.Rat) *LVal {
	if r.IsInt() && r.Num().IsInt64() {
		n := r.Num().Int64()
		if int64(int(n)) == n {
			return Int(int(n))
		}
	}
	return &LVal{
		Source: nativeSource(),
		Type:   LRational,
		Native: new(big.Rat).Set(r),
	}
}

// String returns an LVal representing the string str.
func String(str string) *LVal {
	return &LVal{
		Source: nativeSource(),
		Type:   LString,
		Str:    str,
	}
}

// Symbol returns an LVal representing the symbol s
func Symbol(s string) *LVal {
	return &LVal{
		Source: nativeSource(),
		Type:   LSymbol,
		Str:    s,
	}
}

// List returns an LVal representing a list.  Provided cells are used as
// backing storage for the returned list and are not copied.
func List(cells []*LVal) *LVal {
	return &LVal{
		Source: nativeSource(),
		Type:   LList,
		Cells:  cells,
	}
}

// Vector returns an LVal representing a vector.  Provided cells are used as
// backing storage for the returned vector and are not copied.
func Vector(cells []*LVal) *LVal {
	return &LVal{
		Source: nativeSource(),
		Type:   LVector,
		Cells:  cells,
	}
}

// Map returns an LVal representing a map built from alternating keys and
// values in cells.  An odd trailing key is dropped.
func Map(cells []*LVal) *LVal {
	m := newMapData(len(cells) / 2)
	for i := 0; i+1 < len(cells); i += 2 {
		m.Set(cells[i], cells[i+1])
	}
	return MapFromData(m)
}

// MapFromData returns a map value backed by data.
func MapFromData(data *MapData) *LVal {
	return &LVal{
		Source: nativeSource(),
		Type:   LMap,
		Native: data,
	}
}

// Fun returns an LVal representing a builtin function
func Fun(fid string, formals *LVal, fn LBuiltin) *LVal {
	return builtinFun(LFunNone, fid, formals, fn)
}

// Macro returns an LVal representing a macro implemented in Go.  The value
// returned by fn is evaluated in the caller's environment.
func Macro(fid string, formals *LVal, fn LBuiltin) *LVal {
	return builtinFun(LFunMacro, fid, formals, fn)
}

// SpecialOp returns an LVal representing a special operator.  Special
// operators are function which receive unevaluated results, like macros.
// However values returned by special operations do not require further
// evaluation, unlike macros.
func SpecialOp(fid string, formals *LVal, fn LBuiltin) *LVal {
	return builtinFun(LFunSpecialOp, fid, formals, fn)
}

func builtinFun(ftype LFunType, fid string, formals *LVal, fn LBuiltin) *LVal {
	params, rest, err := parseFormals(formals)
	if err != nil {
		panic(fmt.Sprintf("invalid formals for %s: %v", fid, err))
	}
	return &LVal{
		Source:  nativeSource(),
		Type:    LFun,
		FunType: ftype,
		Native: &LFunData{
			FID:     fid,
			Builtin: fn,
			Params:  params,
			Rest:    rest,
		},
		Cells: []*LVal{formals},
	}
}

// Error returns an LError representing err.  Errors store their message in
// Cells and their condition type in Str.
//
// The Env.Error() method is typically the preferred method for creating
// error LVal objects because it initializes the call stack.
func Error(err error) *LVal {
	return ErrorCondition(CondError, err)
}

// ErrorCondition returns an LError representing err and having the given
// condition type.
func ErrorCondition(condition string, err error) *LVal {
	return &LVal{
		Source: nativeSource(),
		Type:   LError,
		Str:    condition,
		Cells:  []*LVal{String(err.Error())},
	}
}

// Errorf returns an LError with a formatted error message.
func Errorf(format string, v ...interface{}) *LVal {
	return ErrorConditionf(CondError, format, v...)
}

// ErrorConditionf returns an LError with a formatted error message and the
// given condition type.
func ErrorConditionf(condition string, format string, v ...interface{}) *LVal {
	return &LVal{
		Source: nativeSource(),
		Type:   LError,
		Str:    condition,
		Cells:  []*LVal{String(fmt.Sprintf(format, v...))},
	}
}

// Formals returns an LVal reprsenting a function's formal argument list
// containing symbols with the given names.
func Formals(argSymbols ...string) *LVal {
	s := List(make([]*LVal, len(argSymbols)))
	for i, name := range argSymbols {
		s.Cells[i] = Symbol(name)
	}
	return s
}

// parseFormals splits a formal argument list into the names of required
// arguments and the name of the rest argument.
func parseFormals(formals *LVal) (params []string, rest string, err error) {
	if formals.Type != LList && formals.Type != LVector {
		return nil, "", fmt.Errorf("expected argument list, got: %v", formals)
	}
	cells := formals.Cells
	for i, sym := range cells {
		if sym.Type != LSymbol {
			return nil, "", fmt.Errorf("expected symbol as argument, got: %v", sym)
		}
		if sym.Str != VarArgSymbol {
			params = append(params, sym.Str)
			continue
		}
		if i+1 >= len(cells) || cells[i+1].Type != LSymbol || cells[i+1].Str == VarArgSymbol {
			var got interface{} = "nothing"
			if i+1 < len(cells) {
				got = cells[i+1]
			}
			return nil, "", fmt.Errorf("expected symbol as rest argument, got: %v", got)
		}
		if i+2 != len(cells) {
			return nil, "", fmt.Errorf("unexpected arguments following rest argument: %v", cells[i+1])
		}
		return params, cells[i+1].Str, nil
	}
	return params, "", nil
}

func (v *LVal) CallStack() *CallStack {
	if v.Type != LError {
		panic("not an error: " + v.Type.String())
	}
	stack, ok := v.Native.(*CallStack)
	if !ok {
		return nil
	}
	return stack
}

func (v *LVal) SetCallStack(stack *CallStack) {
	if v.Type != LError {
		panic("not an error: " + v.Type.String())
	}
	v.Native = stack.Copy()
}

func (v *LVal) FunData() *LFunData {
	if v.Type != LFun {
		panic("not a function: " + v.Type.String())
	}
	return v.Native.(*LFunData)
}

func (v *LVal) Builtin() LBuiltin {
	return v.FunData().Builtin
}

func (v *LVal) FID() string {
	return v.FunData().FID
}

// Env returns the defining environment of a closure or user macro.
func (v *LVal) Env() *LEnv {
	return v.FunData().Env
}

// Formals returns the formal argument list of function v.
func (v *LVal) Formals() *LVal {
	return v.Cells[0]
}

// Body returns the body expressions of a function defined in lisp.
func (v *LVal) Body() []*LVal {
	return v.Cells[1:]
}

// Rat returns the exact fraction represented by numeric value v.
func (v *LVal) Rat() *big.Rat {
	switch v.Type {
	case LInt:
		return new(big.Rat).SetInt64(int64(v.Int))
	case LRational:
		return v.Native.(*big.Rat)
	}
	panic("not a number: " + v.Type.String())
}

// Map returns the backing data of map value v.
func (v *LVal) Map() *MapData {
	if v.Type != LMap {
		panic("not a map: " + v.Type.String())
	}
	return v.Native.(*MapData)
}

// Len returns the number of elements in a collection or the number of bytes
// in a string.  Len returns -1 for values which have no length.
func (v *LVal) Len() int {
	switch v.Type {
	case LList, LVector:
		return len(v.Cells)
	case LString:
		return utf8.RuneCountInString(v.Str)
	case LMap:
		return v.Map().Len()
	}
	return -1
}

func (v *LVal) IsSpecialFun() bool {
	return v.Type == LFun && v.FunType != LFunNone
}

func (v *LVal) IsMacro() bool {
	return v.Type == LFun && v.FunType == LFunMacro
}

func (v *LVal) IsSpecialOp() bool {
	return v.Type == LFun && v.FunType == LFunSpecialOp
}

func (v *LVal) IsNil() bool {
	return v.Type == LNil
}

func (v *LVal) IsNumeric() bool {
	return v.Type == LInt || v.Type == LRational
}

// IsSeq returns true if v is a list or a vector.
func (v *LVal) IsSeq() bool {
	return v.Type == LList || v.Type == LVector
}

// True returns false for the values false and nil.  Every other value is
// true, including 0 and empty collections.
func True(v *LVal) bool {
	switch v.Type {
	case LNil:
		return false
	case LBool:
		return v.Bool
	}
	return true
}

// Equal returns true when a and b are structurally equal.  Functions are
// only equal to themselves.
func Equal(a, b *LVal) bool {
	if a == b {
		return true
	}
	if a.IsNumeric() && b.IsNumeric() {
		if a.Type == LInt && b.Type == LInt {
			return a.Int == b.Int
		}
		return a.Rat().Cmp(b.Rat()) == 0
	}
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case LNil:
		return true
	case LBool:
		return a.Bool == b.Bool
	case LString, LSymbol:
		return a.Str == b.Str
	case LList, LVector:
		if len(a.Cells) != len(b.Cells) {
			return false
		}
		for i := range a.Cells {
			if !Equal(a.Cells[i], b.Cells[i]) {
				return false
			}
		}
		return true
	case LMap:
		return a.Map().Equal(b.Map())
	case LError:
		return a.Str == b.Str && errorCellMessage(a.Cells) == errorCellMessage(b.Cells)
	}
	return false
}

func (v *LVal) String() string {
	switch v.Type {
	case LInt:
		return strconv.Itoa(v.Int)
	case LRational:
		return v.Rat().RatString()
	case LBool:
		return strconv.FormatBool(v.Bool)
	case LNil:
		return "nil"
	case LString:
		return strconv.Quote(v.Str)
	case LSymbol:
		return v.Str
	case LList:
		return exprString(v.Cells, "(", " ", ")")
	case LVector:
		return exprString(v.Cells, "[", " ", "]")
	case LMap:
		return v.Map().String()
	case LFun:
		return funString(v)
	case LError:
		return GoError(v).Error()
	default:
		return fmt.Sprintf("#<%s>", v.Type)
	}
}

// Docstring returns the docstring of the function reference v.  If v is not
// a function Docstring returns the empty string.  A function defined in lisp
// is documented when its body begins with a string literal that is followed
// by at least one more expression.
func (v *LVal) Docstring() string {
	if v.Type != LFun {
		return ""
	}
	if v.Builtin() != nil {
		return v.FunData().Doc
	}
	if len(v.Cells) > 2 && v.Cells[1].Type == LString {
		return v.Cells[1].Str
	}
	return ""
}

func funString(v *LVal) string {
	kind := "fn"
	switch {
	case v.FunType == LFunSpecialOp:
		kind = "special-op"
	case v.FunType == LFunMacro:
		kind = "macro"
	case v.Builtin() != nil:
		kind = "builtin"
	}
	if v.Str == "" {
		return "#<" + kind + ">"
	}
	return "#<" + kind + " " + v.Str + ">"
}

func exprString(cells []*LVal, left string, sep string, right string) string {
	var buf bytes.Buffer
	buf.WriteString(left)
	for i, c := range cells {
		if i > 0 {
			buf.WriteString(sep)
		}
		buf.WriteString(c.String())
	}
	buf.WriteString(right)
	return buf.String()
}

// displayString renders v the way print does: strings are written without
// quotes, everything else uses its printed representation.
func displayString(v *LVal) string {
	if v.Type == LString {
		return v.Str
	}
	return v.String()
}

var defaultSourceLocation = &token.Location{
	File: "<native code>",
	Pos:  -1,
}

func nativeSource() *token.Location {
	return defaultSourceLocation
}
