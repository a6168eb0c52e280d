// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"time"

	"github.com/curioloop/consumer/cobb"
	"github.com/curioloop/consumer/grid"
	"github.com/curioloop/consumer/penalty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newGridCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Exhaustive search over evenly spaced candidate bundles",
		Long: `Builds --steps candidates per good spanning [0, I/P] and evaluates every
affordable combination. The grid has steps^M points.`,
		Args: cobra.NoArgs,
		RunE: runGrid,
	}
	cmd.Flags().Int("steps", 0, "Candidates per good")
	return cmd
}

func newSolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Nelder-Mead search on the penalized objective",
		Args:  cobra.NoArgs,
		RunE:  runSolve,
	}
	cmd.Flags().Float64("tol", 0, "Function tolerance")
	cmd.Flags().Int("max-iter", 0, "Maximum number of iterations")
	cmd.Flags().Int("restarts", 0, "Simplex restarts after convergence")
	return cmd
}

func newDemandCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demand",
		Short: "Closed-form Marshallian demand",
		Args:  cobra.NoArgs,
		RunE:  runDemand,
	}
}

// loadMarket merges the config file with the flags of cmd.
func loadMarket(cmd *cobra.Command) (Config, cobb.Market, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return cfg, cobb.Market{}, err
	}
	if err = cfg.Override(cmd.Flags()); err != nil {
		return cfg, cobb.Market{}, err
	}
	m, err := cfg.Market()
	if err != nil {
		return cfg, m, fmt.Errorf("invalid market: %w", err)
	}
	logger.Debug("market loaded",
		zap.String("config", configPath),
		zap.Float64("income", m.Income),
		zap.Float64s("prices", m.Prices),
		zap.Float64s("alpha", m.Alpha))
	return cfg, m, nil
}

func solverLogger(cmd *cobra.Command) *cobb.Logger {
	level := cobb.LogLast
	if verbose {
		level = cobb.LogEval
	}
	return &cobb.Logger{Level: level, Msg: cmd.ErrOrStderr(), Out: cmd.OutOrStdout()}
}

func runGrid(cmd *cobra.Command, args []string) error {
	cfg, m, err := loadMarket(cmd)
	if err != nil {
		return err
	}
	if cfg.Steps < 1 {
		return fmt.Errorf("steps must be positive, got %d", cfg.Steps)
	}

	p := grid.Problem{Market: m, Candidates: grid.Budget(&m, cfg.Steps)}
	s, err := p.New(solverLogger(cmd))
	if err != nil {
		return err
	}

	start := time.Now()
	r := s.Fit(s.Init())
	logger.Info("grid search finished",
		zap.Int("bundles", r.NumEval),
		zap.Int("affordable", r.NumFeasible),
		zap.Float64("utility", r.U),
		zap.Duration("elapsed", time.Since(start)))

	if !r.OK {
		return grid.ErrInfeasible
	}
	out := cmd.OutOrStdout()
	for i, x := range r.X {
		fmt.Fprintf(out, "good %d: x= %.6g\n", i, x)
	}
	fmt.Fprintf(out, "leftover: %.6g\n", m.Leftover(r.X))
	return nil
}

func runSolve(cmd *cobra.Command, args []string) error {
	cfg, m, err := loadMarket(cmd)
	if err != nil {
		return err
	}

	p := penalty.Problem{
		Market: m,
		Stop: penalty.Termination{
			Tolerance:     cfg.Tol,
			MaxIterations: cfg.MaxIter,
			Restarts:      cfg.Restarts,
		},
	}
	o, err := p.New(solverLogger(cmd))
	if err != nil {
		return err
	}

	start := time.Now()
	r, err := o.Fit(nil)
	if err != nil {
		return err
	}
	logger.Info("simplex search finished",
		zap.Bool("converged", r.OK),
		zap.Stringer("status", r.Status),
		zap.Int("iterations", r.NumIter),
		zap.Int("evaluations", r.NumEval),
		zap.Int("restarts", r.NumRetry),
		zap.Duration("elapsed", time.Since(start)))
	if !r.OK {
		logger.Warn("simplex search did not converge", zap.Int("max_iter", cfg.MaxIter))
	}
	return nil
}

func runDemand(cmd *cobra.Command, args []string) error {
	_, m, err := loadMarket(cmd)
	if err != nil {
		return err
	}
	x := m.Demand()
	out := cmd.OutOrStdout()
	for i := range x {
		fmt.Fprintf(out, "good %d: x= %.6g    share= %.4f\n", i, x[i], m.Alpha[i])
	}
	fmt.Fprintf(out, "utility: %.6g\n", m.Utility(x))
	return nil
}
