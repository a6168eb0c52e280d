// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package penalty maximizes Cobb-Douglas utility with a derivative-free
// optimizer applied to an unconstrained penalized objective.
//
// # Scaling
//
// The search runs in coordinates relative to the initial guess 𝐱⁰ᵢ = I/(M·𝐏ᵢ),
// which spends the income evenly over all goods:
//
//	𝐳ᵢ = 𝐱ᵢ / 𝐱⁰ᵢ
//
// Under this change of variable the utility ratio and the budget ratio become
//
//	𝑼(𝐱)/𝑼(𝐱⁰) = Π 𝐳ᵢ^𝛂ᵢ
//	𝐏ᵀ𝐱/I = (1/M) Σ 𝐳ᵢ
//
// Neither depends on 𝐏 or I, hence scaling all prices and income by the same
// factor leaves the computed allocation unchanged (homogeneity of degree zero).
//
// # Penalty
//
// The budget 𝐏ᵀ𝐱 ≤ I and the sign constraints 𝐱 ≥ 0 are moved into the objective
//
//	𝒇(𝐳) = -Π 𝐳ᵢ^𝛂ᵢ + 𝛒 · [ 𝚖𝚊𝚡(0, (1/M)Σ𝐳ᵢ - 1) + (1/M)Σ𝚖𝚊𝚡(0, -𝐳ᵢ) ]
//
// which is an exact L1 penalty: the optimum of 𝒇 coincides with the constrained
// optimum 𝐳ᵢ* = M·𝛂ᵢ as long as 𝛒 exceeds the multiplier of the budget,
// here 𝛌 = Π (M·𝛂ᵢ)^𝛂ᵢ ≤ M.
//
// # Solver
//
// 𝒇 is minimized by the Nelder-Mead simplex method of gonum, which needs no
// derivatives and tolerates the kink of the penalty on the budget line.
// The final point is clamped to 𝐱 ≥ 0 and scaled back onto the budget set,
// so the reported leftover income is never negative.
//
// # Reference
//
// J.A. Nelder and R. Mead: "A simplex method for function minimization".
// The Computer Journal 7(4), 1965
package penalty

import "math"

const (
	zero = 0.0
	one  = 1.0
)

type objective struct {
	alpha []float64
	rho   float64
}

// eval computes 𝒇(𝐳).
func (o *objective) eval(z []float64) float64 {
	m := float64(len(z))
	u, sum, neg := one, zero, zero
	for i, zi := range z {
		sum += zi
		if zi > zero {
			u *= math.Pow(zi, o.alpha[i])
		} else {
			u = zero
			neg -= zi
		}
	}
	return -u + o.rho*(max(zero, sum/m-one)+neg/m)
}
