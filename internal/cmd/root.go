// Package cmd wires the planner's operations into a cobra command tree.
// Stdout carries command output (JSON or rendered text); all logging goes to
// stderr so envelopes stay machine-readable.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/waveplan/internal/api"
	"github.com/felixgeelhaar/waveplan/internal/config"
	"github.com/felixgeelhaar/waveplan/internal/graph"
	"github.com/felixgeelhaar/waveplan/internal/log"
)

var (
	flagConfigPath string
	flagTuningPath string
	flagLogLevel   string
	flagLogFormat  string

	planAPI *api.API
)

var rootCmd = &cobra.Command{
	Use:   "waveplan",
	Short: "Dependency-aware execution planner for validation pipelines",
	Long: `waveplan models validation criteria (lint, type check, build, tests, ...)
as a typed dependency graph and turns it into execution plans: a deterministic
linear order, a concurrency-bounded wave schedule, and a system-resource-aware
adaptive schedule. Cyclic or dangling graphs degrade into forced steps instead
of failing, so the pipeline always has a plan.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with a cancellable context
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", config.DefaultPath,
		"path of the dependency config document")
	rootCmd.PersistentFlags().StringVar(&flagTuningPath, "tuning", "",
		"path of the scheduling tuning policy (YAML)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info",
		"log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text",
		"log format (text, json)")
}

// setup builds the logger, tuning, and API shared by every subcommand. The
// store starts from the config document when one exists at the configured
// path, otherwise from the seeded default pipeline.
func setup(cmd *cobra.Command, args []string) error {
	logCfg := log.DefaultConfig()
	logCfg.Level = log.ParseLevel(flagLogLevel)
	logCfg.Format = log.ParseFormat(flagLogFormat)
	logger := log.New(logCfg)
	log.SetDefaultLogger(logger)

	tuning, err := config.LoadTuning(flagTuningPath)
	if err != nil {
		return err
	}

	store := graph.NewDefaultStore()
	if _, statErr := os.Stat(flagConfigPath); statErr == nil {
		loaded, loadErr := config.Load(flagConfigPath)
		if loadErr != nil {
			return loadErr
		}
		store = loaded
		logger.Debug("dependency config loaded at startup",
			"path", flagConfigPath, "criteria", store.Len())
	}

	planAPI = api.New(store, tuning, flagConfigPath, logger)
	return nil
}

// printJSON writes indented JSON to stdout.
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// persist writes the current graph back to the config path after a mutation.
func persist() error {
	_, err := planAPI.SaveConfig()
	return err
}
