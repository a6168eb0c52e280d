// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package grid maximizes Cobb-Douglas utility by exhaustive enumeration.
//
// Every good i has a finite list of candidate quantities 𝐆ᵢ.
// The search visits each bundle of the product set 𝐆₁ × ··· × 𝐆ₘ
// in lexicographic order (the last good varies fastest),
// discards those with 𝐏ᵀ𝐱 > I and keeps the first bundle of highest utility.
//
// The cost is Π|𝐆ᵢ| evaluations, so the grid must stay coarse when M grows.
package grid

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/curioloop/consumer/cobb"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/combin"
)

// ErrInfeasible is returned when no candidate bundle satisfies the budget.
var ErrInfeasible = errors.New("grid: no affordable candidate bundle")

// Problem specifies a grid search.
type Problem struct {
	Market     cobb.Market // Preferences and budget
	Candidates [][]float64 // Candidate quantities of every good
}

// New validates the problem and creates a searcher for it.
func (p *Problem) New(logger *cobb.Logger) (searcher *Searcher, err error) {

	mkt, cand := p.Market, p.Candidates

	if err = mkt.Validate(); err != nil {
		return
	}

	switch {
	case len(cand) != mkt.Goods():
		err = fmt.Errorf("%w: %d candidate lists for %d goods", cobb.ErrDimension, len(cand), mkt.Goods())
	}

	total := 1
	for k, c := range cand {
		if err != nil {
			break
		}
		if len(c) == 0 {
			err = errors.New(fmt.Sprintf("empty candidate list at %d", k))
			break
		}
		for _, v := range c {
			if !(v >= 0) || math.IsInf(v, 0) {
				err = errors.New(fmt.Sprintf("candidate error at %d: %v", k, v))
				break
			}
		}
		if err == nil && total > math.MaxInt/len(c) {
			err = errors.New("candidate grid too large")
		}
		total *= len(c)
	}

	if err != nil {
		return
	}

	lens := make([]int, len(cand))
	grid := make([][]float64, len(cand))
	for k, c := range cand {
		lens[k] = len(c)
		grid[k] = slices.Clone(c)
	}

	searcher = &Searcher{
		market: cobb.Market{
			Income: mkt.Income,
			Prices: slices.Clone(mkt.Prices),
			Alpha:  slices.Clone(mkt.Alpha),
		},
		grid:   grid,
		lens:   lens,
		total:  total,
		logger: logger.Normalize(),
	}
	return
}

// Searcher enumerates the candidate grid of a validated problem.
type Searcher struct {
	market cobb.Market
	grid   [][]float64
	lens   []int
	total  int
	logger *cobb.Logger
}

// Size returns the number of bundles in the grid.
func (s *Searcher) Size() int {
	return s.total
}

// Workspace holds the buffers reused between searches.
// To avoid race conditions, separate workspaces need to be created for each goroutine.
// But multiple workspaces could share one searcher.
type Workspace struct {
	n    int
	idx  []int
	x    []float64
	best []float64
}

// Result contains the best bundle found.
type Result struct {
	OK      bool      // Whether an affordable bundle was found.
	U       float64   // Utility of the best bundle.
	X       []float64 // Best bundle, nil when none is affordable.
	Summary           // Search summary.
}

// Summary contains statistics of the enumeration.
type Summary struct {
	NumEval     int // Number of bundles evaluated.
	NumFeasible int // Number of affordable bundles.
}

// Init allocate the workspace for the searcher.
func (s *Searcher) Init() *Workspace {
	n := len(s.lens)
	return &Workspace{
		n:    n,
		idx:  make([]int, n),
		x:    make([]float64, n),
		best: make([]float64, n),
	}
}

// Fit enumerates the whole grid using workspace w.
func (s *Searcher) Fit(w *Workspace) *Result {

	if w.n != len(s.lens) {
		panic("workspace dimension not match searcher")
	}

	mkt, log := &s.market, s.logger
	gen := combin.NewCartesianGenerator(s.lens)

	res := &Result{U: math.Inf(-1)}
	for gen.Next() {
		w.idx = gen.Product(w.idx)
		for k, j := range w.idx {
			w.x[k] = s.grid[k][j]
		}
		res.NumEval++

		cost := floats.Dot(mkt.Prices, w.x)
		if cost > mkt.Income {
			if log.Enable(cobb.LogVerbose) {
				log.Log("skip x= %v    cost= %12.5e\n", w.x, cost)
			}
			continue
		}
		res.NumFeasible++

		u := mkt.Utility(w.x)
		if log.Enable(cobb.LogVerbose) {
			log.Log("eval x= %v    u= %12.5e    cost= %12.5e\n", w.x, u, cost)
		}
		if u > res.U {
			res.U = u
			copy(w.best, w.x)
			res.OK = true
			if log.Enable(cobb.LogEval) {
				log.Log("At bundle %8d    u= %12.5e    x= %v\n", res.NumEval, u, w.best)
			}
		}
	}

	if res.OK {
		res.X = slices.Clone(w.best)
	}

	if log.Enable(cobb.LogLast) {
		log.Print("grid: %d bundles, %d affordable\n", res.NumEval, res.NumFeasible)
		if res.OK {
			log.Print("grid: best utility %.6g at %v\n", res.U, res.X)
		} else {
			log.Print("grid: no affordable bundle\n")
		}
	}
	return res
}

// Search returns the best affordable bundle among the candidates and its utility.
func Search(income float64, prices, alpha []float64, candidates [][]float64) (float64, []float64, error) {
	p := Problem{
		Market:     cobb.Market{Income: income, Prices: prices, Alpha: alpha},
		Candidates: candidates,
	}
	s, err := p.New(nil)
	if err != nil {
		return 0, nil, err
	}
	r := s.Fit(s.Init())
	if !r.OK {
		return 0, nil, ErrInfeasible
	}
	return r.U, r.X, nil
}

// Linspace returns n evenly spaced values over [lo, hi].
func Linspace(lo, hi float64, n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}

// Budget returns n candidates per good spaced over [0, I/𝐏ᵢ].
func Budget(m *cobb.Market, n int) [][]float64 {
	c := make([][]float64, m.Goods())
	for i, p := range m.Prices {
		c[i] = Linspace(0, m.Income/p, n)
	}
	return c
}
