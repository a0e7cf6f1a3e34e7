package main

import (
	"github.com/spf13/cobra"

	"github.com/stochbio/genex/internal/genex"
	"github.com/stochbio/genex/internal/output"
)

func newRunCmd() *cobra.Command {
	var outputDir string
	var seed uint64

	cmd := &cobra.Command{
		Use:   "run <config.yml>",
		Short: "Run a simulation described by a YAML config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, _ := cmd.Flags().GetString("log-level")
			logger := NewLogger(level)
			if cmd.Flags().Changed("seed") {
				genex.Seed(seed)
			}
			return runSimulation(args[0], outputDir, logger)
		},
	}
	cmd.Flags().StringVarP(&outputDir, "output", "o", "results", "output directory for run artifacts")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed (overrides the config seed)")
	return cmd
}

func runSimulation(configPath, outputDir string, logger *Logger) error {
	cfg, err := genex.LoadConfig(configPath)
	if err != nil {
		return err
	}

	sim, err := genex.BuildSimulation(cfg, logger)
	if err != nil {
		return err
	}

	writer, err := output.NewWriter(outputDir)
	if err != nil {
		return err
	}

	logger.Infof("starting run %q: stop_time=%.2f time_step=%.2f", cfg.Name, cfg.StopTime, cfg.TimeStep)
	if err := sim.Run(writer.Append); err != nil {
		return err
	}
	if err := writer.Flush(); err != nil {
		return err
	}
	logger.Infof("run complete: %d iterations, artifacts in %s", sim.Iterations(), outputDir)
	return nil
}
