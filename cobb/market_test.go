// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cobb

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func TestValidate(t *testing.T) {

	tests := []struct {
		name string
		m    Market
		err  error
	}{
		{"ok", Market{100, []float64{1, 2}, []float64{0.3, 0.7}}, nil},
		{"empty", Market{100, nil, nil}, ErrDimension},
		{"length", Market{100, []float64{1, 2}, []float64{1}}, ErrDimension},
		{"income", Market{0, []float64{1}, []float64{0.5}}, ErrIncome},
		{"income nan", Market{math.NaN(), []float64{1}, []float64{0.5}}, ErrIncome},
		{"price", Market{10, []float64{1, -1}, []float64{0.5, 0.5}}, ErrPrice},
		{"price inf", Market{10, []float64{1, math.Inf(1)}, []float64{0.5, 0.5}}, ErrPrice},
		{"alpha", Market{10, []float64{1, 1}, []float64{0, 1}}, ErrAlpha},
		{"alpha sum", Market{10, []float64{1, 1}, []float64{0.5, 0.4}}, ErrAlphaSum},
	}

	for _, tt := range tests {
		err := tt.m.Validate()
		switch {
		case tt.err == nil && err != nil:
			t.Errorf("%s: unexpected error %v", tt.name, err)
		case tt.err != nil && !errors.Is(err, tt.err):
			t.Errorf("%s: want %v got %v", tt.name, tt.err, err)
		}
	}
}

func TestUtilityNonNegative(t *testing.T) {

	rnd := rand.New(rand.NewSource(7))
	for k := 0; k < 200; k++ {
		n := 1 + rnd.Intn(5)
		m := randomMarket(rnd, n)
		x := make([]float64, n)
		// random point inside the budget simplex
		left := m.Income
		for i := range x {
			x[i] = rnd.Float64() * left / m.Prices[i]
			left -= x[i] * m.Prices[i]
		}
		if !m.Affordable(x, 1e-12) {
			t.Fatalf("bundle %v should be affordable", x)
		}
		if u := m.Utility(x); u < 0 || math.IsNaN(u) {
			t.Fatalf("utility %v for bundle %v", u, x)
		}
	}

	m := Market{10, []float64{1, 1}, []float64{0.5, 0.5}}
	if u := m.Utility([]float64{0, 5}); u != 0 {
		t.Errorf("zero component must give zero utility, got %v", u)
	}
	if u := m.Utility([]float64{-1, 5}); u != 0 {
		t.Errorf("negative component must give zero utility, got %v", u)
	}
}

func TestDemand(t *testing.T) {

	m := Market{100, []float64{1, 1}, []float64{0.5, 0.5}}
	x := m.Demand()
	if x[0] != 50 || x[1] != 50 {
		t.Fatalf("demand %v", x)
	}
	if l := m.Leftover(x); l != 0 {
		t.Errorf("leftover %v", l)
	}

	m = Market{120, []float64{2, 3, 4}, []float64{0.2, 0.3, 0.5}}
	x = m.Demand()
	s := m.Shares(x)
	for i := range s {
		if math.Abs(s[i]-m.Alpha[i]) > 1e-12 {
			t.Errorf("share %d: want %v got %v", i, m.Alpha[i], s[i])
		}
	}

	// demand dominates any other point on the budget line
	u := m.Utility(x)
	rnd := rand.New(rand.NewSource(11))
	for k := 0; k < 100; k++ {
		y := make([]float64, 3)
		for i := range y {
			y[i] = rnd.Float64() * 50
		}
		y = m.Scale(nil, y)
		if m.Utility(y) > u+1e-9 {
			t.Fatalf("bundle %v beats demand %v", y, x)
		}
	}
}

func TestScale(t *testing.T) {

	m := Market{10, []float64{1, 2}, []float64{0.5, 0.5}}

	in := []float64{2, 2}
	out := m.Scale(nil, in)
	if out[0] != 2 || out[1] != 2 {
		t.Errorf("affordable bundle changed: %v", out)
	}

	in = []float64{10, 5}
	out = m.Scale(nil, in)
	if math.Abs(m.Cost(out)-10) > 1e-12 {
		t.Errorf("scaled cost %v", m.Cost(out))
	}
	if in[0] != 10 {
		t.Error("input modified")
	}
	if math.Abs(out[0]/out[1]-2) > 1e-12 {
		t.Errorf("scaling changed proportions: %v", out)
	}
}

func TestAffordable(t *testing.T) {

	m := Market{10, []float64{1, 1}, []float64{0.5, 0.5}}
	switch {
	case !m.Affordable([]float64{5, 5}, 0):
		t.Error("budget line must be affordable")
	case m.Affordable([]float64{5, 5.1}, 0):
		t.Error("overspend must not be affordable")
	case !m.Affordable([]float64{5, 5.1}, 0.02):
		t.Error("tolerance ignored")
	case m.Affordable([]float64{-1, 1}, 0):
		t.Error("negative quantity must not be affordable")
	}
}

func randomMarket(rnd *rand.Rand, n int) *Market {
	m := &Market{
		Income: 1 + rnd.Float64()*1000,
		Prices: make([]float64, n),
		Alpha:  make([]float64, n),
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		m.Prices[i] = 0.1 + rnd.Float64()*10
		m.Alpha[i] = 0.05 + rnd.Float64()
		sum += m.Alpha[i]
	}
	for i := range m.Alpha {
		m.Alpha[i] /= sum
	}
	return m
}
