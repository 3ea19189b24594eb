package cmd

import (
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Persist and restore the dependency graph",
	Long: `Persist the dependency graph to its config document and restore it.

Loading is all-or-nothing: a structurally invalid document is rejected in
full and the in-memory graph is left untouched.`,
}

var configSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Write the graph to the config document",
	Args:  cobra.NoArgs,
	RunE:  runConfigSave,
}

var configLoadCmd = &cobra.Command{
	Use:   "load [path]",
	Short: "Replace the graph from a config document",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigLoad,
}

func init() {
	configCmd.AddCommand(configSaveCmd)
	configCmd.AddCommand(configLoadCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigSave(cmd *cobra.Command, args []string) error {
	path, err := planAPI.SaveConfig()
	if err != nil {
		return err
	}
	return printJSON(map[string]string{"configPath": path})
}

func runConfigLoad(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) == 1 {
		path = args[0]
	}
	n, err := planAPI.LoadConfig(path)
	if err != nil {
		return err
	}
	return printJSON(map[string]int{"loadedCriteria": n})
}
