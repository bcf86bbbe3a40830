// Copyright © 2018 The ELPS authors

package lisp

var langSpecialOps = []*langBuiltin{
	{"if", Formals("condition", "then", "else"), opIf,
		`Conditional branch. Evaluates condition; if truthy, evaluates
		and returns then, otherwise evaluates and returns else. All three
		arguments are required. Only false and nil are falsey.`},
	{"def", Formals("symbol", "expr"), opDef,
		`Binds symbol in the current environment. Expr is evaluated and
		its value is evaluated a second time, so (def a 'b) binds a to
		the value of b. Returns the bound value.`},
	{"fn", Formals(VarArgSymbol, "spec"), opFn,
		`Returns a function closing over the current environment. The
		optional leading symbol names the function within its own body,
		followed by a parameter list and body expressions. A & in the
		parameter list binds the following symbol to a list of surplus
		arguments.`},
	{"quote", Formals("expr"), opQuote,
		`Returns its argument unevaluated. This is the operator behind
		the ' prefix syntax.`},
	{"quasiquote", Formals("expr"), opQuasiquote,
		`Returns a template in which (unquote expr) forms are evaluated
		and (unquote-splicing expr) forms are evaluated and their
		elements spliced into the enclosing collection. All other
		subexpressions remain unevaluated.`},
	{"unquote", Formals("expr"), opUnquote,
		`Marks an expression to evaluate inside quasiquote. Using it
		anywhere else is an error.`},
	{"unquote-splicing", Formals("expr"), opUnquoteSplicing,
		`Marks a sequence to splice inside quasiquote. Using it anywhere
		else is an error.`},
	{"defmacro", Formals("name", "formals", VarArgSymbol, "body"), opDefmacro,
		`Defines a macro. When called the macro receives its arguments
		unevaluated, evaluates its body to produce an expansion, and the
		expansion is evaluated in the calling environment.`},
	{"do", Formals(VarArgSymbol, "expr"), opDo,
		`Evaluates its arguments in order and returns the value of the
		last one. Returns nil when given no arguments.`},
	{".", Formals("object", "method", VarArgSymbol, "args"), opMethod,
		`Calls a host method on object. A bare symbol method name is
		not evaluated; any other method expression is evaluated and must
		produce a symbol or a string. Object and arguments are evaluated. Strings support
		upper, lower, strip, split, startswith, endswith, replace, and
		join. Lists and vectors support index, count, and reverse. Maps
		support keys, values, get, and has.`},
}

// DefaultSpecialOps returns the default set of LBuiltinDef added to LEnv
// objects when LEnv.AddSpecialOps is called without arguments.
func DefaultSpecialOps() []LBuiltinDef {
	ops := make([]LBuiltinDef, len(langSpecialOps))
	for i := range langSpecialOps {
		ops[i] = langSpecialOps[i]
	}
	return ops
}

func opIf(env *LEnv, args *LVal) *LVal {
	if len(args.Cells) != 3 {
		return env.ErrorConditionf(CondSyntaxError, "if expects 3 parts, got %d", len(args.Cells))
	}
	test := env.Eval(args.Cells[0])
	if test.Type == LError {
		return test
	}
	if True(test) {
		return env.Eval(args.Cells[1])
	}
	return env.Eval(args.Cells[2])
}

func opDef(env *LEnv, args *LVal) *LVal {
	if len(args.Cells) != 2 {
		return env.ErrorConditionf(CondSyntaxError, "def expects 2 parts, got %d", len(args.Cells))
	}
	name := args.Cells[0]
	if name.Type != LSymbol {
		return env.ErrorConditionf(CondSyntaxError, "expected symbol, got: %v", name)
	}
	val := env.Eval(args.Cells[1])
	if val.Type == LError {
		return val
	}
	val = env.Eval(val)
	if val.Type == LError {
		return val
	}
	env.Put(name, val)
	return val
}

func opFn(env *LEnv, args *LVal) *LVal {
	cells := args.Cells
	self := ""
	if len(cells) > 0 && cells[0].Type == LSymbol {
		self = cells[0].Str
		cells = cells[1:]
	}
	if len(cells) == 0 {
		return env.ErrorConditionf(CondSyntaxError, "expected argument list, got nothing")
	}
	if cells[0].Type != LList {
		return env.ErrorConditionf(CondSyntaxError, "expected argument list, got: %v", cells[0])
	}
	return env.Lambda(self, cells[0], cells[1:])
}

func opQuote(env *LEnv, args *LVal) *LVal {
	if len(args.Cells) != 1 {
		return env.ErrorConditionf(CondSyntaxError, "quote expects 1 part, got %d", len(args.Cells))
	}
	return args.Cells[0]
}

func opQuasiquote(env *LEnv, args *LVal) *LVal {
	if len(args.Cells) != 1 {
		return env.ErrorConditionf(CondSyntaxError, "quasiquote expects 1 part, got %d", len(args.Cells))
	}
	return env.quasiquote(args.Cells[0])
}

func opUnquote(env *LEnv, args *LVal) *LVal {
	return env.ErrorConditionf(CondSyntaxError, "unquote only valid in quasiquote")
}

func opUnquoteSplicing(env *LEnv, args *LVal) *LVal {
	return env.ErrorConditionf(CondSyntaxError, "unquote-splicing only valid in quasiquote")
}

func opDefmacro(env *LEnv, args *LVal) *LVal {
	if len(args.Cells) < 2 {
		return env.ErrorConditionf(CondSyntaxError, "defmacro expects at least 2 parts, got %d", len(args.Cells))
	}
	name, formals := args.Cells[0], args.Cells[1]
	if name.Type != LSymbol {
		return env.ErrorConditionf(CondSyntaxError, "expected symbol, got: %v", name)
	}
	if formals.Type != LList {
		return env.ErrorConditionf(CondSyntaxError, "expected argument list, got: %v", formals)
	}
	mac := env.Lambda(name.Str, formals, args.Cells[2:])
	if mac.Type == LError {
		return mac
	}
	mac.FunType = LFunMacro
	mac.FunData().Self = ""
	env.Macros.Put(name.Str, mac)
	return Nil()
}

func opDo(env *LEnv, args *LVal) *LVal {
	return env.evalBody(args.Cells)
}

func opMethod(env *LEnv, args *LVal) *LVal {
	if len(args.Cells) < 2 {
		return env.ErrorConditionf(CondSyntaxError, "method call expects at least 2 parts, got %d", len(args.Cells))
	}
	loc := env.Loc
	vals := make([]*LVal, len(args.Cells))
	for i, expr := range args.Cells {
		if i == 1 && expr.Type == LSymbol {
			vals[i] = expr
			continue
		}
		vals[i] = env.Eval(expr)
		if vals[i].Type == LError {
			return vals[i]
		}
	}
	env.Loc = loc
	return env.CallMethod(vals[0], vals[1], vals[2:])
}
