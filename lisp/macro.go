// Copyright © 2018 The ELPS authors

package lisp

// quasiquote rebuilds v without evaluating it, except for unquote and
// unquote-splicing forms which are replaced by the values they compute.
func (env *LEnv) quasiquote(v *LVal) *LVal {
	switch v.Type {
	case LList:
		if isForm(v, UnquoteSymbol) {
			return env.Eval(v.Cells[1])
		}
		cells, lerr := env.quasiquoteCells(v.Cells)
		if lerr != nil {
			return lerr
		}
		return withSource(List(cells), v)
	case LVector:
		cells, lerr := env.quasiquoteCells(v.Cells)
		if lerr != nil {
			return lerr
		}
		return withSource(Vector(cells), v)
	case LMap:
		m := v.Map()
		keys, vals := m.Keys(), m.Values()
		pairs := make([]*LVal, 0, 2*len(keys))
		for i := range keys {
			pairs = append(pairs, keys[i], vals[i])
		}
		cells, lerr := env.quasiquoteCells(pairs)
		if lerr != nil {
			return lerr
		}
		return withSource(Map(cells), v)
	default:
		return v
	}
}

func (env *LEnv) quasiquoteCells(cells []*LVal) ([]*LVal, *LVal) {
	out := make([]*LVal, 0, len(cells))
	for _, c := range cells {
		if isForm(c, UnquoteSplicingSymbol) {
			seq := env.Eval(c.Cells[1])
			switch {
			case seq.Type == LError:
				return nil, seq
			case seq.IsSeq():
				out = append(out, seq.Cells...)
			case seq.IsNil():
			default:
				return nil, env.ErrorConditionf(CondTypeError, "unquote-splicing expects a list or vector, got: %v", seq)
			}
			continue
		}
		c = env.quasiquote(c)
		if c.Type == LError {
			return nil, c
		}
		out = append(out, c)
	}
	return out, nil
}

// isForm returns true if v is a two element list whose head is the symbol
// name.
func isForm(v *LVal, name string) bool {
	return v.Type == LList &&
		len(v.Cells) == 2 &&
		v.Cells[0].Type == LSymbol &&
		v.Cells[0].Str == name
}

func withSource(v *LVal, orig *LVal) *LVal {
	v.Source = orig.Source
	return v
}

// MacroExpand1 expands form once when its head names a macro.  The expansion
// is returned unevaluated.  A form which is not a macro call is returned
// unchanged.
func (env *LEnv) MacroExpand1(form *LVal) *LVal {
	if form.Type != LList || len(form.Cells) == 0 {
		return form
	}
	mac := env.GetMacro(form.Cells[0])
	if mac == nil || !mac.IsMacro() {
		return form
	}
	return env.MacroExpand(mac, List(form.Cells[1:]))
}
