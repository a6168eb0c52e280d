// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command consumer solves Cobb-Douglas utility maximization from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	configPath string
	verbose    bool

	// Logger
	logger *zap.Logger
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "consumer",
		Short: "Maximize Cobb-Douglas utility under a budget",
		Long: `consumer finds the utility maximizing bundle of a Cobb-Douglas consumer
with income I facing prices P.

  grid    exhaustive search over evenly spaced candidate bundles
  solve   Nelder-Mead search on a penalized objective
  demand  closed-form Marshallian demand

The market is read from a YAML file (--config) and/or flags:
  consumer solve --income 100 --prices 1,1 --alpha 0.5,0.5`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if logger != nil {
				return nil
			}
			config := zap.NewProductionConfig()
			if verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			logger, err = config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "YAML file describing the market")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging and solver trace")
	pf.Float64("income", 0, "Income I")
	pf.Float64Slice("prices", nil, "Price of every good")
	pf.Float64Slice("alpha", nil, "Cobb-Douglas exponent of every good")

	root.AddCommand(newGridCmd(), newSolveCmd(), newDemandCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
