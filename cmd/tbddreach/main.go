// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

// Command tbddreach runs symbolic reachability analysis over a binary model
// file using one of four interchangeable strategies (spec.md §6.2).
package main

import (
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/spf13/cobra"

	"github.com/dalzilio/tbdd-reach/internal/orchestrator"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "tbddreach:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts orchestrator.Options
	var profilePath string

	cmd := &cobra.Command{
		Use:   "tbddreach <model>",
		Short: "Symbolic reachability analysis over interleaved TBDD state vectors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if profilePath != "" {
				f, err := os.Create(profilePath)
				if err != nil {
					return fmt.Errorf("opening profile output: %w", err)
				}
				defer f.Close()
				if err := pprof.StartCPUProfile(f); err != nil {
					return fmt.Errorf("starting profiler: %w", err)
				}
				defer pprof.StopCPUProfile()
			}
			_, err := orchestrator.Run(cmd.OutOrStdout(), args[0], opts)
			return err
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&opts.Workers, "workers", "w", 0, "worker thread count; 0 = autodetect")
	flags.StringVarP(&opts.Strategy, "strategy", "s", orchestrator.SAT, "strategy: bfs|par|sat|chaining")
	flags.BoolVar(&opts.Deadlocks, "deadlocks", false, "enable deadlock check (BFS/PAR only)")
	flags.BoolVar(&opts.CountStates, "count-states", false, "report per-level state count")
	flags.BoolVar(&opts.CountTable, "count-table", false, "report per-level node-table usage")
	flags.BoolVar(&opts.CountNodes, "count-nodes", false, "report per-partition node counts")
	flags.BoolVar(&opts.MergeRelations, "merge-relations", false, "extend to full domain and union into one relation")
	flags.BoolVar(&opts.PrintMatrix, "print-matrix", false, "print the read/write matrix before running the strategy")
	flags.StringVarP(&profilePath, "profile", "p", "", "optional CPU profiler output path")

	return cmd
}
