// Copyright © 2018 The ELPS authors

package lisp

import (
	"strings"
)

// hostMethod is a method callable on host values with the . operator.
type hostMethod struct {
	minArgs int
	maxArgs int
	fn      func(env *LEnv, obj *LVal, args []*LVal) *LVal
}

var stringMethods = map[string]hostMethod{
	"upper": {0, 0, func(env *LEnv, s *LVal, args []*LVal) *LVal {
		return String(strings.ToUpper(s.Str))
	}},
	"lower": {0, 0, func(env *LEnv, s *LVal, args []*LVal) *LVal {
		return String(strings.ToLower(s.Str))
	}},
	"strip": {0, 1, methodStrip},
	"split": {0, 1, methodSplit},
	"startswith": {1, 1, func(env *LEnv, s *LVal, args []*LVal) *LVal {
		if args[0].Type != LString {
			return env.ErrorConditionf(CondTypeError, "startswith expects a string, got: %v", args[0])
		}
		return Bool(strings.HasPrefix(s.Str, args[0].Str))
	}},
	"endswith": {1, 1, func(env *LEnv, s *LVal, args []*LVal) *LVal {
		if args[0].Type != LString {
			return env.ErrorConditionf(CondTypeError, "endswith expects a string, got: %v", args[0])
		}
		return Bool(strings.HasSuffix(s.Str, args[0].Str))
	}},
	"replace": {2, 2, func(env *LEnv, s *LVal, args []*LVal) *LVal {
		if args[0].Type != LString || args[1].Type != LString {
			return env.ErrorConditionf(CondTypeError, "replace expects two strings")
		}
		return String(strings.ReplaceAll(s.Str, args[0].Str, args[1].Str))
	}},
	"join": {1, 1, func(env *LEnv, s *LVal, args []*LVal) *LVal {
		if !args[0].IsSeq() {
			return env.ErrorConditionf(CondTypeError, "join expects a list or vector, got: %v", args[0])
		}
		parts := make([]string, len(args[0].Cells))
		for i, c := range args[0].Cells {
			parts[i] = displayString(c)
		}
		return String(strings.Join(parts, s.Str))
	}},
}

var seqMethods = map[string]hostMethod{
	"index": {1, 1, func(env *LEnv, seq *LVal, args []*LVal) *LVal {
		for i, c := range seq.Cells {
			if Equal(c, args[0]) {
				return Int(i)
			}
		}
		return env.Errorf("%v is not in %v", args[0], seq)
	}},
	"count": {1, 1, func(env *LEnv, seq *LVal, args []*LVal) *LVal {
		n := 0
		for _, c := range seq.Cells {
			if Equal(c, args[0]) {
				n++
			}
		}
		return Int(n)
	}},
	"reverse": {0, 0, func(env *LEnv, seq *LVal, args []*LVal) *LVal {
		return copySeq(seq, reverseCells(seq.Cells))
	}},
}

var mapMethods = map[string]hostMethod{
	"keys": {0, 0, func(env *LEnv, m *LVal, args []*LVal) *LVal {
		return List(m.Map().Keys())
	}},
	"values": {0, 0, func(env *LEnv, m *LVal, args []*LVal) *LVal {
		return List(m.Map().Values())
	}},
	"get": {1, 2, func(env *LEnv, m *LVal, args []*LVal) *LVal {
		v, ok := m.Map().Get(args[0])
		if ok {
			return v
		}
		if len(args) > 1 {
			return args[1]
		}
		return Nil()
	}},
	"has": {1, 1, func(env *LEnv, m *LVal, args []*LVal) *LVal {
		_, ok := m.Map().Get(args[0])
		return Bool(ok)
	}},
}

// CallMethod calls the host method named by name on obj.
func (env *LEnv) CallMethod(obj, name *LVal, args []*LVal) *LVal {
	if name.Type != LSymbol && name.Type != LString {
		return env.ErrorConditionf(CondTypeError, "method name is not a symbol or string: %v", name)
	}
	var table map[string]hostMethod
	switch obj.Type {
	case LString:
		table = stringMethods
	case LList, LVector:
		table = seqMethods
	case LMap:
		table = mapMethods
	}
	meth, ok := table[name.Str]
	if !ok {
		return env.ErrorConditionf(CondTypeError, "%v has no method %s", obj.Type, name.Str)
	}
	if len(args) < meth.minArgs || len(args) > meth.maxArgs {
		if meth.minArgs == meth.maxArgs {
			return env.ErrorConditionf(CondArityError, "method %s expected %d args, got %d", name.Str, meth.minArgs, len(args))
		}
		return env.ErrorConditionf(CondArityError, "method %s expected %d to %d args, got %d", name.Str, meth.minArgs, meth.maxArgs, len(args))
	}
	return meth.fn(env, obj, args)
}

func methodStrip(env *LEnv, s *LVal, args []*LVal) *LVal {
	if len(args) == 0 {
		return String(strings.TrimSpace(s.Str))
	}
	if args[0].Type != LString {
		return env.ErrorConditionf(CondTypeError, "strip expects a string, got: %v", args[0])
	}
	return String(strings.Trim(s.Str, args[0].Str))
}

func methodSplit(env *LEnv, s *LVal, args []*LVal) *LVal {
	var parts []string
	if len(args) == 0 {
		parts = strings.Fields(s.Str)
	} else {
		if args[0].Type != LString || args[0].Str == "" {
			return env.ErrorConditionf(CondTypeError, "split expects a non-empty separator, got: %v", args[0])
		}
		parts = strings.Split(s.Str, args[0].Str)
	}
	cells := make([]*LVal, len(parts))
	for i := range parts {
		cells[i] = String(parts[i])
	}
	return List(cells)
}
