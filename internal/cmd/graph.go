package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/waveplan/internal/viz"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Validate and visualize the dependency graph",
}

var graphValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Report cycles and missing dependencies",
	Long: `Run structural validation over the dependency graph.

Findings are data, not errors: a cyclic or dangling graph is reported but
stays fully usable, and every planning command still produces a plan for it.`,
	Args: cobra.NoArgs,
	RunE: runGraphValidate,
}

var graphShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Render the graph's adjacency for the terminal",
	Args:  cobra.NoArgs,
	RunE:  runGraphShow,
}

var (
	graphStatsJSON bool
)

var graphStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show graph statistics and content fingerprint",
	Args:  cobra.NoArgs,
	RunE:  runGraphStats,
}

func init() {
	graphStatsCmd.Flags().BoolVar(&graphStatsJSON, "json", false, "output statistics as JSON")

	graphCmd.AddCommand(graphValidateCmd)
	graphCmd.AddCommand(graphShowCmd)
	graphCmd.AddCommand(graphStatsCmd)
	rootCmd.AddCommand(graphCmd)
}

func runGraphValidate(cmd *cobra.Command, args []string) error {
	return printJSON(planAPI.ValidateGraph())
}

func runGraphShow(cmd *cobra.Command, args []string) error {
	fmt.Print(viz.RenderGraph(planAPI.Store()))
	return nil
}

func runGraphStats(cmd *cobra.Command, args []string) error {
	stats, err := planAPI.Visualization()
	if err != nil {
		return err
	}
	if graphStatsJSON {
		return printJSON(stats)
	}
	fmt.Print(viz.RenderStatistics(stats))
	return nil
}
