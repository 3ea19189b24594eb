package api

import (
	"encoding/json"
	stderrors "errors"

	"github.com/felixgeelhaar/waveplan/internal/errors"
	"github.com/felixgeelhaar/waveplan/internal/planner"
)

// Command names accepted by Dispatch.
const (
	CmdAddDependency    = "add-dependency"
	CmdRemoveDependency = "remove-dependency"
	CmdGetDependency    = "get-dependency"
	CmdGetGraph         = "get-dependency-graph"
	CmdValidateGraph    = "validate-dependency-graph"
	CmdExecutionOrder   = "generate-validation-execution-plan"
	CmdParallelPlan     = "generate-parallel-execution-plan"
	CmdAdaptivePlan     = "generate-adaptive-execution-plan"
	CmdSaveConfig       = "save-dependency-config"
	CmdLoadConfig       = "load-dependency-config"
	CmdVisualization    = "get-dependency-visualization"
)

// CommandNames lists every dispatchable command, for usage output.
func CommandNames() []string {
	return []string{
		CmdAddDependency,
		CmdRemoveDependency,
		CmdGetDependency,
		CmdGetGraph,
		CmdValidateGraph,
		CmdExecutionOrder,
		CmdParallelPlan,
		CmdAdaptivePlan,
		CmdSaveConfig,
		CmdLoadConfig,
		CmdVisualization,
	}
}

type addRequest struct {
	ID     string          `json:"id"`
	Config json.RawMessage `json:"config,omitempty"`
}

type idRequest struct {
	ID string `json:"id"`
}

type pathRequest struct {
	Path string `json:"path,omitempty"`
}

type adaptiveRequest struct {
	SystemInfo *planner.ResourceProfile `json:"systemInfo,omitempty"`
}

// Dispatch runs a named command against the API and returns its JSON
// envelope: {"success": true, ...result fields} or {"success": false,
// "error": {code, message, suggestions}}. The envelope is always valid JSON.
func (a *API) Dispatch(name string, payload []byte) []byte {
	result, err := a.dispatch(name, payload)
	if err != nil {
		return errorEnvelope(err)
	}
	return successEnvelope(result)
}

func (a *API) dispatch(name string, payload []byte) (any, error) {
	switch name {
	case CmdAddDependency:
		var req addRequest
		if err := decodePayload(payload, &req); err != nil {
			return nil, err
		}
		c, err := a.AddDependency(req.ID, req.Config)
		if err != nil {
			return nil, err
		}
		return map[string]any{"criterion": c}, nil

	case CmdRemoveDependency:
		var req idRequest
		if err := decodePayload(payload, &req); err != nil {
			return nil, err
		}
		if err := a.RemoveDependency(req.ID); err != nil {
			return nil, err
		}
		return map[string]any{"removed": req.ID}, nil

	case CmdGetDependency:
		var req idRequest
		if err := decodePayload(payload, &req); err != nil {
			return nil, err
		}
		return a.GetDependency(req.ID)

	case CmdGetGraph:
		return a.GraphDocument(), nil

	case CmdValidateGraph:
		return a.ValidateGraph(), nil

	case CmdExecutionOrder:
		return a.ExecutionOrder(), nil

	case CmdParallelPlan:
		var req ParallelPlanRequest
		if err := decodePayload(payload, &req); err != nil {
			return nil, err
		}
		return a.ParallelPlan(req)

	case CmdAdaptivePlan:
		var req adaptiveRequest
		if err := decodePayload(payload, &req); err != nil {
			return nil, err
		}
		profile := planner.DetectProfile()
		if req.SystemInfo != nil {
			profile = *req.SystemInfo
		}
		return a.AdaptivePlan(profile), nil

	case CmdSaveConfig:
		path, err := a.SaveConfig()
		if err != nil {
			return nil, err
		}
		return map[string]any{"configPath": path}, nil

	case CmdLoadConfig:
		var req pathRequest
		if err := decodePayload(payload, &req); err != nil {
			return nil, err
		}
		n, err := a.LoadConfig(req.Path)
		if err != nil {
			return nil, err
		}
		return map[string]any{"loadedCriteria": n}, nil

	case CmdVisualization:
		stats, err := a.Visualization()
		if err != nil {
			return nil, err
		}
		return map[string]any{"statistics": stats}, nil

	default:
		return nil, errors.NewUnknownCommandError(name)
	}
}

// successEnvelope inlines the result's fields next to "success": true.
func successEnvelope(result any) []byte {
	fields := map[string]any{}
	if result != nil {
		data, err := json.Marshal(result)
		if err != nil {
			return errorEnvelope(err)
		}
		if err := json.Unmarshal(data, &fields); err != nil {
			return errorEnvelope(err)
		}
	}
	fields["success"] = true

	out, err := json.Marshal(fields)
	if err != nil {
		return errorEnvelope(err)
	}
	return out
}

type errorBody struct {
	Code        string   `json:"code"`
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions,omitempty"`
}

func errorEnvelope(err error) []byte {
	body := errorBody{Code: "INTERNAL", Message: err.Error()}
	var werr *errors.WaveplanError
	if stderrors.As(err, &werr) {
		body.Code = string(werr.Code)
		body.Message = werr.Message
		body.Suggestions = werr.Suggestions
	}

	out, _ := json.Marshal(map[string]any{
		"success": false,
		"error":   body,
	})
	return out
}
