package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/waveplan/internal/api"
	"github.com/felixgeelhaar/waveplan/internal/errors"
	"github.com/felixgeelhaar/waveplan/internal/planner"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Generate execution plans from the dependency graph",
	Long: `Generate execution plans over the current dependency graph.

All planning is total: cyclic graphs and dangling references degrade into
forced steps (reported per step and as a count) instead of failing.

Examples:
  # Deterministic linear order
  waveplan plan order

  # Wave schedule with an explicit width
  waveplan plan parallel --max-concurrency 4

  # Wave schedule shaped by a resource profile
  waveplan plan adaptive --profile '{"availableCPUs": 8, "availableMemoryMB": 16384}'
`,
}

var planOrderCmd = &cobra.Command{
	Use:   "order",
	Short: "Generate the linear execution order",
	Args:  cobra.NoArgs,
	RunE:  runPlanOrder,
}

var (
	planMaxConcurrency int
	planProfileJSON    string
)

var planParallelCmd = &cobra.Command{
	Use:   "parallel",
	Short: "Generate a concurrency-bounded wave schedule",
	Args:  cobra.NoArgs,
	RunE:  runPlanParallel,
}

var planAdaptiveCmd = &cobra.Command{
	Use:   "adaptive",
	Short: "Generate a wave schedule shaped by system resources",
	Long: `Generate a wave schedule whose concurrency is derived from a system
resource profile. Without --profile, the local CPU count is detected and the
remaining telemetry is treated as unknown.`,
	Args: cobra.NoArgs,
	RunE: runPlanAdaptive,
}

func init() {
	planParallelCmd.Flags().IntVar(&planMaxConcurrency, "max-concurrency", 0,
		"maximum criteria per wave (0 derives it from --profile or the default)")
	planParallelCmd.Flags().StringVar(&planProfileJSON, "profile", "",
		"resource profile JSON used when --max-concurrency is not set")
	planAdaptiveCmd.Flags().StringVar(&planProfileJSON, "profile", "",
		"resource profile JSON (defaults to the detected local profile)")

	planCmd.AddCommand(planOrderCmd)
	planCmd.AddCommand(planParallelCmd)
	planCmd.AddCommand(planAdaptiveCmd)
	rootCmd.AddCommand(planCmd)
}

func parseProfile(raw string) (*planner.ResourceProfile, error) {
	if raw == "" {
		return nil, nil
	}
	var profile planner.ResourceProfile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidProfile,
			"malformed resource profile", err).
			WithSuggestion(`pass JSON like {"availableCPUs": 8, "availableMemoryMB": 16384, "networkLatencyMs": 20, "diskIOLoad": 0.4}`)
	}
	return &profile, nil
}

func runPlanOrder(cmd *cobra.Command, args []string) error {
	return printJSON(planAPI.ExecutionOrder())
}

func runPlanParallel(cmd *cobra.Command, args []string) error {
	req := api.ParallelPlanRequest{}
	if planMaxConcurrency != 0 {
		req.MaxConcurrency = &planMaxConcurrency
	}
	profile, err := parseProfile(planProfileJSON)
	if err != nil {
		return err
	}
	req.ResourceProfile = profile

	plan, err := planAPI.ParallelPlan(req)
	if err != nil {
		return err
	}
	return printJSON(plan)
}

func runPlanAdaptive(cmd *cobra.Command, args []string) error {
	profile, err := parseProfile(planProfileJSON)
	if err != nil {
		return err
	}
	if profile == nil {
		detected := planner.DetectProfile()
		profile = &detected
	}
	return printJSON(planAPI.AdaptivePlan(*profile))
}
