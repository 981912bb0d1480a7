// Command reachdemo runs one of the worked logistics scenarios through
// the reachability engine and prints the resulting report, in the
// teacher's single cobra-rooted CLI idiom (operator-cli's bundle
// subcommand) rather than the many narrow demo binaries it originally
// shipped one-per-example.
package main

import (
	"fmt"
	"os"

	"github.com/goccy/go-graphviz"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mypop/reachability"
	"github.com/mypop/reachability/internal/visualize"
	"github.com/mypop/reachability/scenarios"
	"github.com/mypop/reachability/scenarios/logistics"
)

func allScenarios() []scenarios.Scenario {
	return []scenarios.Scenario{
		logistics.NewTwoPackagesOneTruck(),
		logistics.NewAsymmetricInitialState(),
		logistics.NewExternalDependencyCarry(),
		logistics.NewFingerprintMismatch(),
	}
}

func findScenario(name string) (scenarios.Scenario, bool) {
	for _, s := range allScenarios() {
		if s.Name() == name {
			return s, true
		}
	}
	return nil, false
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list the available scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, s := range allScenarios() {
				fmt.Println(s.Name())
			}
			return nil
		},
	}
}

func newRunCmd() *cobra.Command {
	var dotGraphPath, dotPartitionPath string

	cmd := &cobra.Command{
		Use:   "run [scenario name]",
		Short: "analyze one scenario and print its reachability report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, ok := findScenario(args[0])
			if !ok {
				return fmt.Errorf("reachdemo: no scenario named %q (see `reachdemo list`)", args[0])
			}

			graph, terms, initial, err := s.Build()
			if err != nil {
				return err
			}

			logger := log.New()
			engine, err := reachability.New(graph, terms, reachability.WithLogger(logger))
			if err != nil {
				return err
			}
			report, err := engine.Analyze(initial)
			if err != nil {
				return err
			}
			fmt.Print(report.Dump())

			if dotGraphPath != "" {
				if err := visualize.DTGToFile(graph, graphviz.PNG, dotGraphPath); err != nil {
					return err
				}
			}
			if dotPartitionPath != "" {
				part := visualize.Partition{Classes: report.EquivalenceClasses()}
				if err := visualize.PartitionToFile(part, graphviz.PNG, dotPartitionPath); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dotGraphPath, "dot-graph", "", "render the scenario's DTG to this image file")
	cmd.Flags().StringVar(&dotPartitionPath, "dot-partition", "", "render the final EOG partition to this image file")
	return cmd
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "reachdemo",
		Short: "reachdemo",
		Long:  `A CLI for running delete-relaxed DTG reachability over worked logistics scenarios.`,
	}
	rootCmd.AddCommand(newListCmd(), newRunCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
