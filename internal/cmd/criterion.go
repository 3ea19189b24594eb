package cmd

import (
	"github.com/spf13/cobra"
)

var criterionCmd = &cobra.Command{
	Use:   "criterion",
	Short: "Manage validation criteria and their dependencies",
	Long: `Add, remove, and inspect the validation criteria of the dependency graph.

A criterion config is a JSON object:
  {
    "description": "what the check does",
    "estimatedDuration": 15000,
    "parallelizable": true,
    "resourceRequirements": ["cpu", "memory"],
    "dependsOn": [{"criterion": "build-validation", "type": "strict"}]
  }

Dependency types: strict (hard prerequisite), weak (should precede,
non-blocking), optional (ordering hint only).

Examples:
  # Add a criterion with an inline config
  waveplan criterion add docs-validation '{"estimatedDuration": 8000}'

  # Remove a criterion (inbound references become missing_dependency issues)
  waveplan criterion remove docs-validation

  # Inspect one criterion or the whole graph
  waveplan criterion get build-validation
  waveplan criterion list
`,
}

var criterionAddCmd = &cobra.Command{
	Use:   "add <id> [configJSON]",
	Short: "Add or overwrite a criterion",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runCriterionAdd,
}

var criterionRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a criterion and its outgoing edges",
	Args:  cobra.ExactArgs(1),
	RunE:  runCriterionRemove,
}

var criterionGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a criterion and its dependencies",
	Args:  cobra.ExactArgs(1),
	RunE:  runCriterionGet,
}

var criterionListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the whole dependency graph as a document",
	Args:  cobra.NoArgs,
	RunE:  runCriterionList,
}

func init() {
	criterionCmd.AddCommand(criterionAddCmd)
	criterionCmd.AddCommand(criterionRemoveCmd)
	criterionCmd.AddCommand(criterionGetCmd)
	criterionCmd.AddCommand(criterionListCmd)
	rootCmd.AddCommand(criterionCmd)
}

func runCriterionAdd(cmd *cobra.Command, args []string) error {
	var rawConfig []byte
	if len(args) == 2 {
		rawConfig = []byte(args[1])
	}

	c, err := planAPI.AddDependency(args[0], rawConfig)
	if err != nil {
		return err
	}
	if err := persist(); err != nil {
		return err
	}
	return printJSON(c)
}

func runCriterionRemove(cmd *cobra.Command, args []string) error {
	if err := planAPI.RemoveDependency(args[0]); err != nil {
		return err
	}
	return persist()
}

func runCriterionGet(cmd *cobra.Command, args []string) error {
	detail, err := planAPI.GetDependency(args[0])
	if err != nil {
		return err
	}
	return printJSON(detail)
}

func runCriterionList(cmd *cobra.Command, args []string) error {
	return printJSON(planAPI.GraphDocument())
}
