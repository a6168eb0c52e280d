// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package penalty

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/curioloop/consumer/cobb"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
)

// DefaultWeight is the penalty weight 𝛒 used when none is given.
const DefaultWeight = 1e3

// Termination specifies the stopping criteria for the simplex search.
type Termination struct {
	// The iteration will stop when |𝒇ₖ₊ₗ - 𝒇ₖ| ≤ 𝚝𝚘𝚕 for Stall consecutive iterations.
	Tolerance float64
	// The iteration stop when the number of iteration exceeds limit.
	MaxIterations int
	// Number of non-improving iterations before convergence is declared.
	// Zero means 20 × M.
	Stall int
	// Number of restarts from the best vertex after convergence.
	// Each restart rebuilds the simplex around the best vertex.
	Restarts int
}

// Problem specifies the penalized utility maximization.
type Problem struct {
	Market cobb.Market // Preferences and budget
	Stop   Termination // Stop condition
	Weight float64     // Penalty weight 𝛒, DefaultWeight when zero
	// Initial edge length of the simplex in scaled coordinates.
	// Zero means 0.1, i.e. ten percent of the initial guess.
	Simplex float64
}

// New creates a new optimizer for given problem.
func (p *Problem) New(logger *cobb.Logger) (optimizer *Optimizer, err error) {

	mkt, stop, rho, size := p.Market, p.Stop, p.Weight, p.Simplex

	if err = mkt.Validate(); err != nil {
		return
	}

	if rho == zero {
		rho = DefaultWeight
	}
	if size == zero {
		size = 0.1
	}
	if stop.Stall == 0 {
		stop.Stall = 20 * mkt.Goods()
	}

	switch {
	case !(stop.Tolerance > zero):
		err = errors.New("tolerance must greater than 0")
	case stop.MaxIterations <= 0:
		err = errors.New("max iteration must greater than 1")
	case stop.Stall < 0:
		err = errors.New("stall iteration must not less than 0")
	case stop.Restarts < 0:
		err = errors.New("restart number must not less than 0")
	case !(rho > zero) || math.IsInf(rho, 0):
		err = errors.New("penalty weight must greater than 0")
	case !(size > zero):
		err = errors.New("simplex size must greater than 0")
	}

	if err != nil {
		return
	}

	m := cobb.Market{
		Income: mkt.Income,
		Prices: slices.Clone(mkt.Prices),
		Alpha:  slices.Clone(mkt.Alpha),
	}

	optimizer = &Optimizer{
		market: m,
		stop:   stop,
		obj:    objective{alpha: m.Alpha, rho: rho},
		size:   size,
		origin: guess(&m),
		logger: logger.Normalize(),
	}
	return
}

// Optimizer maximizes utility by minimizing the penalized objective with Nelder-Mead.
// Fit does not mutate the optimizer, so it may be called from several goroutines.
type Optimizer struct {
	market cobb.Market
	stop   Termination
	obj    objective
	size   float64
	origin []float64
	logger *cobb.Logger
}

// Result contains the final allocation and its report.
type Result struct {
	OK       bool             // Whether the simplex search converged.
	X        []float64        // Affordable allocation.
	Shares   []float64        // Expenditure share of every good.
	Utility  float64          // Utility of the allocation.
	Leftover float64          // Unspent income.
	Raw      *optimize.Result // Solver result of the last run, in scaled coordinates.
	Summary                   // Optimization summary.
}

// Summary contains a summary of the optimization process.
type Summary struct {
	Status   optimize.Status // Final status of the last run.
	NumIter  int             // Number of iterations over all runs.
	NumEval  int             // Number of objective evaluations over all runs.
	NumRetry int             // Number of restarts performed.
}

// Guess returns the default initial guess 𝐱⁰ᵢ = I/(M·𝐏ᵢ).
func (o *Optimizer) Guess() []float64 {
	return slices.Clone(o.origin)
}

// Fit runs the optimization from the initial guess x, or from Guess when x is nil.
func (o *Optimizer) Fit(x []float64) (*Result, error) {

	mkt, log := &o.market, o.logger
	n := mkt.Goods()

	if x != nil && len(x) != n {
		panic("initial x dimension not match market")
	}

	z := make([]float64, n)
	if x == nil {
		floats.AddConst(one, z)
	} else {
		floats.DivTo(z, x, o.origin)
	}

	if log.Enable(cobb.LogEval) {
		log.Log("RUNNING THE NELDER-MEAD CODE\n")
		log.Log("M = %d    rho = %.3e    tol = %.3e\n", n, o.obj.rho, o.stop.Tolerance)
	}

	prob := optimize.Problem{Func: o.obj.eval}
	res := new(Result)

	for run := 0; ; run++ {
		settings := &optimize.Settings{
			MajorIterations: o.stop.MaxIterations - res.NumIter,
			Converger: &optimize.FunctionConverge{
				Absolute:   o.stop.Tolerance,
				Iterations: o.stop.Stall,
			},
			Recorder: &recorder{log: log, run: run, origin: o.origin},
		}
		method := &optimize.NelderMead{SimplexSize: o.size}

		raw, err := optimize.Minimize(prob, z, settings, method)
		if raw == nil {
			return nil, err
		}
		if err != nil && !raw.Status.Early() {
			return nil, fmt.Errorf("penalty: %w", err)
		}

		improve := o.obj.eval(z) - raw.F
		res.Raw = raw
		res.Status = raw.Status
		res.OK = err == nil && !raw.Status.Early()
		res.NumIter += raw.MajorIterations
		res.NumEval += raw.FuncEvaluations
		copy(z, raw.X)

		if !res.OK || run >= o.stop.Restarts || res.NumIter >= o.stop.MaxIterations || improve <= o.stop.Tolerance {
			break
		}
		res.NumRetry++
	}

	o.report(z, res)
	return res, nil
}

// report projects the scaled solution onto the budget set and prints it.
func (o *Optimizer) report(z []float64, res *Result) {

	mkt, log := &o.market, o.logger

	x := make([]float64, len(z))
	floats.MulTo(x, z, o.origin)
	for i := range x {
		x[i] = max(x[i], zero)
	}
	res.X = mkt.Scale(x, x)
	res.Shares = mkt.Shares(res.X)
	res.Utility = mkt.Utility(res.X)
	res.Leftover = mkt.Leftover(res.X)

	if log.Enable(cobb.LogLast) {
		for i, s := range res.Shares {
			log.Print("good %d: x= %.6g    share= %.4f\n", i, res.X[i], s)
		}
		log.Print("utility: %.6g\n", res.Utility)
		log.Print("leftover: %.6g\n", res.Leftover)
		if log.Enable(cobb.LogEval) {
			log.Log("status: %v    iterations: %d    evaluations: %d    restarts: %d\n",
				res.Status, res.NumIter, res.NumEval, res.NumRetry)
		}
	}
}

// Optimize maximizes utility with the default settings and prints the allocation,
// the total utility and the leftover income to standard output.
func Optimize(alpha, prices []float64, income, tol float64, maxIter int) (*Result, error) {
	p := Problem{
		Market: cobb.Market{Income: income, Prices: prices, Alpha: alpha},
		Stop: Termination{
			Tolerance:     tol,
			MaxIterations: maxIter,
			Restarts:      2,
		},
	}
	o, err := p.New(&cobb.Logger{Level: cobb.LogLast})
	if err != nil {
		return nil, err
	}
	return o.Fit(nil)
}

func guess(m *cobb.Market) []float64 {
	x := make([]float64, m.Goods())
	for i, p := range m.Prices {
		x[i] = m.Income / (float64(len(x)) * p)
	}
	return x
}

// recorder forwards the major iterations of gonum to the logger.
type recorder struct {
	log    *cobb.Logger
	run    int
	origin []float64
}

func (r *recorder) Init() error {
	return nil
}

func (r *recorder) Record(loc *optimize.Location, op optimize.Operation, stats *optimize.Stats) error {
	if op != optimize.MajorIteration || !r.log.Enable(cobb.LogEval) {
		return nil
	}
	r.log.Log("At run %2d iterate %5d    f= %12.5e\n", r.run, stats.MajorIterations, loc.F)
	if r.log.Enable(cobb.LogVerbose) {
		x := make([]float64, len(loc.X))
		floats.MulTo(x, loc.X, r.origin)
		r.log.Log("X = %v\n", x)
	}
	return nil
}
