// Copyright © 2018 The ELPS authors

package lisp

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruthiness(t *testing.T) {
	assert.False(t, True(Nil()))
	assert.False(t, True(Bool(false)))
	for _, v := range []*LVal{
		Bool(true),
		Int(0),
		String(""),
		List(nil),
		Vector(nil),
		Map(nil),
		Symbol("x"),
	} {
		assert.True(t, True(v), "%v", v)
	}
}

func TestRational(t *testing.T) {
	v := Rational(big.NewRat(4, 2))
	assert.Equal(t, LInt, v.Type)
	assert.Equal(t, 2, v.Int)

	v = Rational(big.NewRat(1, 3))
	assert.Equal(t, LRational, v.Type)
	assert.Equal(t, "1/3", v.String())
	assert.True(t, Equal(Int(1), Rational(big.NewRat(3, 3))))
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(List([]*LVal{Int(1), String("a")}), List([]*LVal{Int(1), String("a")})))
	assert.False(t, Equal(List([]*LVal{Int(1)}), Vector([]*LVal{Int(1)})))
	assert.False(t, Equal(String("a"), Symbol("a")))
	assert.True(t, Equal(Nil(), Nil()))
	assert.False(t, Equal(Nil(), Bool(false)))
	m1 := Map([]*LVal{String("a"), Int(1), String("b"), Int(2)})
	m2 := Map([]*LVal{String("b"), Int(2), String("a"), Int(1)})
	assert.True(t, Equal(m1, m2), "map equality ignores order")
}

func TestMapData(t *testing.T) {
	m := Map([]*LVal{
		String("a"), Int(1),
		Symbol("a"), Int(2),
		Int(1), Int(3),
		List([]*LVal{Int(1)}), Int(4),
		String("dangling"),
	})
	data := m.Map()
	require.Equal(t, 4, data.Len())
	assert.Equal(t, `{"a" 1, a 2, 1 3, (1) 4}`, m.String())

	v, ok := data.Get(List([]*LVal{Int(1)}))
	assert.True(t, ok)
	assert.Equal(t, 4, v.Int)

	_, ok = data.Get(String("dangling"))
	assert.False(t, ok)

	data.Set(String("a"), Int(5))
	assert.Equal(t, `{"a" 5, a 2, 1 3, (1) 4}`, m.String())

	cp := data.Copy()
	cp.Set(String("z"), Nil())
	assert.Equal(t, 4, data.Len())
	assert.Equal(t, 5, cp.Len())
	assert.Len(t, cp.Keys(), 5)
	assert.Len(t, cp.Values(), 5)
}

func TestMapDataCompositeKeys(t *testing.T) {
	ab := Map([]*LVal{String("a"), Int(1), String("b"), Int(2)})
	ba := Map([]*LVal{String("b"), Int(2), String("a"), Int(1)})
	require.True(t, Equal(ab, ba))

	m := Map(nil).Map()
	m.Set(ab, String("first"))
	m.Set(ba, String("second"))
	assert.Equal(t, 1, m.Len())
	v, ok := m.Get(ba)
	require.True(t, ok)
	assert.Equal(t, "second", v.Str)

	m.Set(List([]*LVal{ab}), Int(1))
	v, ok = m.Get(List([]*LVal{ba}))
	assert.True(t, ok)
	assert.Equal(t, 1, v.Int)

	_, ok = m.Get(Vector([]*LVal{ab}))
	assert.False(t, ok)
	_, ok = m.Get(Map([]*LVal{String("a"), Int(1)}))
	assert.False(t, ok)
}

func TestParseFormals(t *testing.T) {
	tests := []struct {
		formals []string
		params  []string
		rest    string
		err     bool
	}{
		{nil, nil, "", false},
		{[]string{"x", "y"}, []string{"x", "y"}, "", false},
		{[]string{"x", "&", "xs"}, []string{"x"}, "xs", false},
		{[]string{"&", "xs"}, nil, "xs", false},
		{[]string{"x", "&"}, nil, "", true},
		{[]string{"&", "xs", "y"}, nil, "", true},
		{[]string{"&", "&"}, nil, "", true},
	}
	for i, test := range tests {
		params, rest, err := parseFormals(Formals(test.formals...))
		if test.err {
			assert.Error(t, err, "test %d", i)
			continue
		}
		if assert.NoError(t, err, "test %d", i) {
			assert.Equal(t, test.params, params, "test %d", i)
			assert.Equal(t, test.rest, rest, "test %d", i)
		}
	}
}

func TestFunString(t *testing.T) {
	env := NewEnv(nil)
	InitializeUserEnv(env)
	assert.Equal(t, "#<builtin +>", env.Get(Symbol("+")).String())
	assert.Equal(t, "#<special-op if>", env.GetMacro(Symbol("if")).String())
	fn := env.Lambda("", List(nil), nil)
	assert.Equal(t, "#<fn>", fn.String())
}
