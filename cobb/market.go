// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cobb describes a consumer with Cobb-Douglas preferences
// facing a linear budget.
//
// Given exponents 𝛂 with Σ𝛂ᵢ = 1, prices 𝐏 > 0 and income I > 0
//
//	maximize 𝑼(𝐱) = Π 𝐱ᵢ^𝛂ᵢ subject to 𝐏ᵀ𝐱 ≤ I, 𝐱 ≥ 0
//
// The maximizer is the Marshallian demand 𝐱ᵢ* = 𝛂ᵢI/𝐏ᵢ,
// which spends the fraction 𝛂ᵢ of income on good i.
package cobb

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

const (
	zero = 0.0
	one  = 1.0
)

// AlphaTolerance is the allowed deviation of Σ𝛂ᵢ from one.
const AlphaTolerance = 1e-9

var (
	ErrDimension = errors.New("cobb: dimension mismatch")
	ErrPrice     = errors.New("cobb: price must be positive and finite")
	ErrAlpha     = errors.New("cobb: exponent must lie in (0,1)")
	ErrAlphaSum  = errors.New("cobb: exponents must sum to 1")
	ErrIncome    = errors.New("cobb: income must be positive and finite")
)

// Market holds the exogenous data of a single consumer choice problem.
type Market struct {
	Income float64   // I
	Prices []float64 // 𝐏
	Alpha  []float64 // 𝛂
}

// Goods returns the number of goods M.
func (m *Market) Goods() int {
	return len(m.Prices)
}

// Validate checks the domain constraints on I, 𝐏 and 𝛂.
func (m *Market) Validate() (err error) {

	n := len(m.Prices)

	switch {
	case n == 0:
		err = fmt.Errorf("%w: no goods", ErrDimension)
	case len(m.Alpha) != n:
		err = fmt.Errorf("%w: %d exponents for %d prices", ErrDimension, len(m.Alpha), n)
	case !(m.Income > zero) || math.IsInf(m.Income, 0):
		err = fmt.Errorf("%w: %v", ErrIncome, m.Income)
	}
	if err != nil {
		return
	}

	for i, p := range m.Prices {
		if !(p > zero) || math.IsInf(p, 0) {
			return fmt.Errorf("%w: P[%d] = %v", ErrPrice, i, p)
		}
	}
	for i, a := range m.Alpha {
		if !(a > zero && a < one) {
			return fmt.Errorf("%w: α[%d] = %v", ErrAlpha, i, a)
		}
	}
	if s := floats.Sum(m.Alpha); math.Abs(s-one) > AlphaTolerance {
		return fmt.Errorf("%w: Σα = %v", ErrAlphaSum, s)
	}
	return
}

// Utility evaluates 𝑼(𝐱) = Π 𝐱ᵢ^𝛂ᵢ.
// Any component 𝐱ᵢ ≤ 0 yields zero, so the utility is never negative.
func (m *Market) Utility(x []float64) float64 {
	m.check(x)
	u := one
	for i, xi := range x {
		if !(xi > zero) {
			return zero
		}
		u *= math.Pow(xi, m.Alpha[i])
	}
	return u
}

// Cost returns the expenditure 𝐏ᵀ𝐱.
func (m *Market) Cost(x []float64) float64 {
	m.check(x)
	return floats.Dot(m.Prices, x)
}

// Leftover returns the unspent income I - 𝐏ᵀ𝐱.
func (m *Market) Leftover(x []float64) float64 {
	return m.Income - m.Cost(x)
}

// Affordable reports whether 𝐱 ≥ 0 and 𝐏ᵀ𝐱 ≤ I·(1+tol).
func (m *Market) Affordable(x []float64, tol float64) bool {
	m.check(x)
	for _, xi := range x {
		if xi < zero {
			return false
		}
	}
	return floats.Dot(m.Prices, x) <= m.Income*(one+tol)
}

// Shares returns the expenditure share 𝐏ᵢ𝐱ᵢ/I of every good.
func (m *Market) Shares(x []float64) []float64 {
	m.check(x)
	s := make([]float64, len(x))
	floats.MulTo(s, m.Prices, x)
	floats.Scale(one/m.Income, s)
	return s
}

// Demand returns the closed-form optimum 𝐱ᵢ* = 𝛂ᵢI/𝐏ᵢ.
func (m *Market) Demand() []float64 {
	x := make([]float64, len(m.Prices))
	floats.DivTo(x, m.Alpha, m.Prices)
	floats.Scale(m.Income, x)
	return x
}

// Scale moves an overspending bundle back to the budget line by the ratio I/𝐏ᵀ𝐱.
// The result is written to dst, which is allocated when nil.
func (m *Market) Scale(dst, x []float64) []float64 {
	m.check(x)
	if dst == nil {
		dst = make([]float64, len(x))
	}
	copy(dst, x)
	if c := floats.Dot(m.Prices, x); c > m.Income {
		floats.Scale(m.Income/c, dst)
	}
	return dst
}

func (m *Market) check(x []float64) {
	if len(x) != len(m.Prices) || len(x) != len(m.Alpha) {
		panic("bundle dimension not match market")
	}
}
