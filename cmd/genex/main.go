package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	root := &cobra.Command{
		Use:   "genex",
		Short: "Stochastic gene expression simulator",
		Long: `genex simulates coupled transcription and translation at
single-molecule resolution using the Gillespie stochastic simulation
algorithm. Simulations are described by a YAML config file and produce
CSV time series plus a final-state JSON document.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.AddCommand(newRunCmd(), newServeCmd(), newVersionCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the genex version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("genex", version)
		},
	}
}
