// Copyright © 2018 The ELPS authors

package lisp

import (
	"math/big"
)

// numericListType returns LInt if every value in cells is an integer and
// LRational otherwise.  All cells must be numeric.
func numericListType(cells []*LVal) LType {
	for _, c := range cells {
		if c.Type != LInt {
			return LRational
		}
	}
	return LInt
}

func checkNumeric(env *LEnv, cells []*LVal) *LVal {
	for _, c := range cells {
		if !c.IsNumeric() {
			return env.ErrorConditionf(CondTypeError, "argument is not a number: %v", c)
		}
	}
	return nil
}

func numAdd(a, b *LVal) *LVal {
	if a.Type == LInt && b.Type == LInt {
		return Int(a.Int + b.Int)
	}
	return Rational(new(big.Rat).Add(a.Rat(), b.Rat()))
}

func numSub(a, b *LVal) *LVal {
	if a.Type == LInt && b.Type == LInt {
		return Int(a.Int - b.Int)
	}
	return Rational(new(big.Rat).Sub(a.Rat(), b.Rat()))
}

func numMul(a, b *LVal) *LVal {
	if a.Type == LInt && b.Type == LInt {
		return Int(a.Int * b.Int)
	}
	return Rational(new(big.Rat).Mul(a.Rat(), b.Rat()))
}

// numDiv performs exact division.  The caller must ensure b is not zero.
func numDiv(a, b *LVal) *LVal {
	if a.Type == LInt && b.Type == LInt && a.Int%b.Int == 0 {
		return Int(a.Int / b.Int)
	}
	return Rational(new(big.Rat).Quo(a.Rat(), b.Rat()))
}

func numNeg(a *LVal) *LVal {
	if a.Type == LInt {
		return Int(-a.Int)
	}
	return Rational(new(big.Rat).Neg(a.Rat()))
}

func numCmp(a, b *LVal) int {
	if a.Type == LInt && b.Type == LInt {
		switch {
		case a.Int < b.Int:
			return -1
		case a.Int > b.Int:
			return 1
		}
		return 0
	}
	return a.Rat().Cmp(b.Rat())
}

func numIsZero(a *LVal) bool {
	if a.Type == LInt {
		return a.Int == 0
	}
	return a.Rat().Sign() == 0
}
