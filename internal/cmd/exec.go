package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/waveplan/internal/api"
	"github.com/felixgeelhaar/waveplan/internal/errors"
)

var execCmd = &cobra.Command{
	Use:   "exec <command> [payloadJSON]",
	Short: "Run a raw planner command and print its JSON envelope",
	Long: `Run a planner command by name with an optional JSON payload. The
envelope printed to stdout is always valid JSON with a "success" field, which
makes this the surface for orchestrators that drive waveplan as a subprocess.

Commands:
  ` + strings.Join(api.CommandNames(), "\n  ") + `

Examples:
  waveplan exec validate-dependency-graph
  waveplan exec add-dependency '{"id": "docs", "config": {"estimatedDuration": 8000}}'
  waveplan exec generate-adaptive-execution-plan '{"systemInfo": {"availableCPUs": 8}}'
`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runExec,
}

func init() {
	rootCmd.AddCommand(execCmd)
}

func runExec(cmd *cobra.Command, args []string) error {
	var payload []byte
	if len(args) == 2 {
		payload = []byte(args[1])
	}

	envelope := planAPI.Dispatch(args[0], payload)
	fmt.Println(string(envelope))

	// Mirror the envelope's outcome in the exit code.
	var parsed struct {
		Success bool `json:"success"`
		Error   struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(envelope, &parsed); err == nil && !parsed.Success {
		return errors.New(errors.ErrorCode(parsed.Error.Code), parsed.Error.Message)
	}
	return nil
}
