// Copyright © 2018 The ELPS authors

package lisp_test

import (
	"testing"

	"github.com/luthersystems/lsp/elpstest"
)

func TestSpecialOps(t *testing.T) {
	tests := elpstest.TestSuite{
		{"if truthiness", elpstest.TestSequence{
			{"(if true 1 2)", "1", ""},
			{"(if 0 1 2)", "1", ""},
			{`(if "" 1 2)`, "1", ""},
			{"(if (list) 1 2)", "1", ""},
			{"(if [] 1 2)", "1", ""},
			{"(if false 1 2)", "2", ""},
			{"(if nil 1 2)", "2", ""},
			{"(if true 1)", "test:1:1: syntax-error: if expects 3 parts, got 2", ""},
		}},
		{"def", elpstest.TestSequence{
			{"(def a 1)", "1", ""},
			{"a", "1", ""},
			{"(def b 'a)", "1", ""},
			{"b", "1", ""},
			{"(def 1 2)", "test:1:1: syntax-error: expected symbol, got: 1", ""},
			{"(def c)", "test:1:1: syntax-error: def expects 2 parts, got 1", ""},
		}},
		{"unbound symbols", elpstest.TestSequence{
			{"x", "test:1:1: unbound-symbol: x", ""},
			{"(+ 1 y)", "test:1:6: unbound-symbol: y", ""},
		}},
		{"fn", elpstest.TestSequence{
			{"((fn (x) (+ x 1)) 1)", "2", ""},
			{"((fn () 1 2))", "2", ""},
			{"((fn ()))", "nil", ""},
			{"(fn fact (x) x)", "#<fn fact>", ""},
			{"((fn fact (x) (if (<= x 1) 1 (* x (fact (- x 1))))) 5)", "120", ""},
			{"(def make-adder (fn (n) (fn (x) (+ x n))))", "#<fn>", ""},
			{"((make-adder 2) 3)", "5", ""},
			{"(fn x)", "test:1:1: syntax-error: expected argument list, got nothing", ""},
			{"(fn (1) 1)", "test:1:1: syntax-error: expected symbol as argument, got: 1", ""},
			{"(fn (x &) 1)", "test:1:1: syntax-error: expected symbol as rest argument, got: nothing", ""},
		}},
		{"arity", elpstest.TestSequence{
			{"(def g (fn (x) x))", "#<fn>", ""},
			{"(g)", "test:1:1: arity-error: function expected 1 args, got 0", ""},
			{"(g 1 2)", "test:1:1: arity-error: function expected 1 args, got 2", ""},
			{"(def h (fn h (x) x))", "#<fn h>", ""},
			{"(h)", "test:1:1: arity-error: h expected 1 args, got 0", ""},
		}},
		{"rest arguments", elpstest.TestSequence{
			{"((fn (x & xs) xs) 1 2 3 4)", "(2 3 4)", ""},
			{"((fn (x & xs) xs) 1)", "()", ""},
			{"((fn (& xs) xs))", "()", ""},
			{"((fn (x & xs) xs))", "test:1:1: arity-error: function expected at least 1 args, got 0", ""},
		}},
		{"scope", elpstest.TestSequence{
			{"(def x 1)", "1", ""},
			{"((fn () (def x 2) x))", "2", ""},
			{"x", "1", ""},
			{"((fn (x) x) 3)", "3", ""},
			{"x", "1", ""},
			{"((fn () (def y 2) (+ x y)))", "3", ""},
			{"y", "test:1:1: unbound-symbol: y", ""},
		}},
		{"quote", elpstest.TestSequence{
			{"(quote (1 2))", "(1 2)", ""},
			{"'(a b)", "(a b)", ""},
			{"'x", "x", ""},
			{"(quote)", "test:1:1: syntax-error: quote expects 1 part, got 0", ""},
		}},
		{"quasiquote", elpstest.TestSequence{
			{"`(1 ~(+ 1 1) ~@(list 3 4))", "(1 2 3 4)", ""},
			{"`[1 ~(+ 1 1)]", "[1 2]", ""},
			{"`{\"a\" ~(+ 1 1)}", `{"a" 2}`, ""},
			{"`(1 ~@nil 2)", "(1 2)", ""},
			{"`(1 (2 ~(+ 1 2)))", "(1 (2 3))", ""},
			{"`x", "x", ""},
			{"~x", "test:1:1: syntax-error: unquote only valid in quasiquote", ""},
			{"~@x", "test:1:1: syntax-error: unquote-splicing only valid in quasiquote", ""},
		}},
		{"defmacro", elpstest.TestSequence{
			{"(defmacro foo (x) `(+ 1 ~x))", "nil", ""},
			{"(foo 2)", "3", ""},
			{"(defmacro bar (x) `(+ 1 ~@x))", "nil", ""},
			{"(bar (2 3))", "6", ""},
			{"(defmacro quoted (x) (quote x))", "nil", ""},
			{"(quoted (+ 1 2))", "test:1:29: unbound-symbol: x", ""},
			{"(foo)", "test:1:1: arity-error: foo expected 1 args, got 0", ""},
			{"(defmacro 1 (x) x)", "test:1:1: syntax-error: expected symbol, got: 1", ""},
		}},
		{"macros do not capture variables", elpstest.TestSequence{
			{"(defmacro twice (e) `(do ~e ~e))", "nil", ""},
			{`(twice (print "a"))`, "nil", "aa"},
			{"(def twice 1)", "1", ""},
			{"twice", "1", ""},
			{"(twice 2)", "2", ""},
		}},
		{"do", elpstest.TestSequence{
			{"(do 1 2 3)", "3", ""},
			{"(do)", "nil", ""},
			{"(do (def z 4) (+ z 1))", "5", ""},
		}},
		{"method calls", elpstest.TestSequence{
			{`(. "abc" 'upper)`, `"ABC"`, ""},
			{`(. "ABC" "lower")`, `"abc"`, ""},
			{`(. "  x " 'strip)`, `"x"`, ""},
			{`(. "a,b" 'split ",")`, `("a" "b")`, ""},
			{`(. "a b" 'split)`, `("a" "b")`, ""},
			{`(. "abc" 'startswith "ab")`, "true", ""},
			{`(. "abc" 'endswith "x")`, "false", ""},
			{`(. "abc" 'replace "b" "x")`, `"axc"`, ""},
			{`(. ", " 'join (list 1 "b"))`, `"1, b"`, ""},
			{"(. (list 1 2 3) 'index 2)", "1", ""},
			{"(. [1 2 1] 'count 1)", "2", ""},
			{"(. [1 2 3] 'reverse)", "[3 2 1]", ""},
			{`(. {"a" 1} 'keys)`, `("a")`, ""},
			{`(. {"a" 1} 'values)`, "(1)", ""},
			{`(. {"a" 1} 'get "b" 0)`, "0", ""},
			{`(. {"a" 1} 'has "a")`, "true", ""},
			{`(. "abc" 'nope)`, "test:1:1: type-error: string has no method nope", ""},
			{`(. "abc" 'upper 1)`, "test:1:1: arity-error: method upper expected 0 args, got 1", ""},
			{`(. "abc")`, "test:1:1: syntax-error: method call expects at least 2 parts, got 1", ""},
		}},
		{"bare method symbols", elpstest.TestSequence{
			{`(. "abc" upper)`, `"ABC"`, ""},
			{`(. "a-b" split "-")`, `("a" "b")`, ""},
			{`(defn shout (s) (. s upper))`, "#<fn shout>", ""},
			{`(shout "hi")`, `"HI"`, ""},
			{`(def m "lower")`, `"lower"`, ""},
			{`(. "ABC" m)`, "test:1:1: type-error: string has no method m", ""},
			{`(. "ABC" (str "low" "er"))`, `"abc"`, ""},
			{`(. "ABC" 1)`, "test:1:1: type-error: method name is not a symbol or string: 1", ""},
		}},
		{"calling non-functions", elpstest.TestSequence{
			{"(1 2)", "test:1:1: type-error: expected function, got: 1", ""},
			{"()", "test:1:1: missing function expression", ""},
		}},
	}
	elpstest.RunTestSuite(t, tests)
}
