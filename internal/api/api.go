// Package api is the command-style surface of the planner: every operation
// an orchestrator can invoke, with JSON envelopes on the way in and out.
// The API owns the store and serializes mutations; planners and the
// visualizer only read.
package api

import (
	"bytes"
	"encoding/json"

	"github.com/felixgeelhaar/waveplan/internal/config"
	"github.com/felixgeelhaar/waveplan/internal/errors"
	"github.com/felixgeelhaar/waveplan/internal/graph"
	"github.com/felixgeelhaar/waveplan/internal/log"
	"github.com/felixgeelhaar/waveplan/internal/planner"
	"github.com/felixgeelhaar/waveplan/internal/viz"
)

// API executes planner commands against a single dependency graph.
type API struct {
	store      *graph.Store
	tuning     planner.Tuning
	configPath string
	logger     *log.Logger
}

// New creates an API around a store. configPath is where save-dependency-config
// writes and load-dependency-config defaults to.
func New(store *graph.Store, tuning planner.Tuning, configPath string, logger *log.Logger) *API {
	if logger == nil {
		logger = log.DefaultLogger()
	}
	return &API{
		store:      store,
		tuning:     tuning,
		configPath: configPath,
		logger:     logger,
	}
}

// Store exposes the underlying graph for read-only collaborators.
func (a *API) Store() *graph.Store {
	return a.store
}

// CriterionDetail is the response of get-dependency.
type CriterionDetail struct {
	Criterion *graph.Criterion      `json:"criterion"`
	DependsOn []graph.DependencyRef `json:"dependsOn"`
}

// AddDependency inserts or overwrites a criterion from a raw JSON config.
func (a *API) AddDependency(id string, rawConfig []byte) (*graph.Criterion, error) {
	cfg, err := graph.ParseConfig(id, rawConfig)
	if err != nil {
		return nil, err
	}
	c, err := a.store.Add(id, cfg)
	if err != nil {
		return nil, err
	}
	a.logger.Info("criterion added", "id", id, "edges", len(cfg.DependsOn))
	return c, nil
}

// RemoveDependency deletes a criterion and its outgoing edges. Inbound
// references from other criteria are kept and surface through validation.
func (a *API) RemoveDependency(id string) error {
	if err := a.store.Remove(id); err != nil {
		return err
	}
	a.logger.Info("criterion removed", "id", id)
	return nil
}

// GetDependency returns one criterion with its outgoing dependency refs.
func (a *API) GetDependency(id string) (CriterionDetail, error) {
	c, ok := a.store.Get(id)
	if !ok {
		return CriterionDetail{}, errors.NewCriterionNotFoundError(id)
	}
	detail := CriterionDetail{Criterion: c, DependsOn: []graph.DependencyRef{}}
	for _, edge := range a.store.DependsOn(id) {
		detail.DependsOn = append(detail.DependsOn, graph.DependencyRef{
			Criterion: edge.To,
			Type:      string(edge.Type),
		})
	}
	return detail, nil
}

// GraphDocument returns the whole graph in its document form.
func (a *API) GraphDocument() config.Document {
	return config.Snapshot(a.store)
}

// ValidateGraph recomputes structural validation from scratch.
func (a *API) ValidateGraph() graph.Result {
	return graph.Validate(a.store)
}

// OrderResponse is the response of generate-validation-execution-plan.
// ForcedCount is surfaced so orchestrators notice degraded orders without
// scanning every step.
type OrderResponse struct {
	Steps       []planner.Step `json:"steps"`
	ForcedCount int            `json:"forcedCount"`
}

// ExecutionOrder produces the deterministic linear execution order.
func (a *API) ExecutionOrder() OrderResponse {
	steps := planner.ExecutionOrder(a.store)
	forced := planner.ForcedCount(steps)
	if forced > 0 {
		a.logger.Warn("execution order contains forced steps",
			"forcedCount", forced, "totalSteps", len(steps))
	}
	return OrderResponse{Steps: steps, ForcedCount: forced}
}

// ParallelPlanRequest is the input of generate-parallel-execution-plan. Both
// fields are optional; an explicit MaxConcurrency wins over the profile.
type ParallelPlanRequest struct {
	MaxConcurrency  *int                     `json:"maxConcurrency,omitempty"`
	ResourceProfile *planner.ResourceProfile `json:"resourceProfile,omitempty"`
}

// ParallelPlan generates a wave plan. Concurrency resolution: explicit
// maxConcurrency, else the profile's recommendation, else the stock default.
func (a *API) ParallelPlan(req ParallelPlanRequest) (planner.Plan, error) {
	if req.MaxConcurrency != nil {
		if *req.MaxConcurrency < 1 {
			return planner.Plan{}, errors.New(errors.ErrCodePlanInvalidConcurrency,
				"maxConcurrency must be at least 1").
				WithSuggestion("omit maxConcurrency to use the default")
		}
		return planner.ParallelPlan(a.store, *req.MaxConcurrency, a.tuning), nil
	}
	if req.ResourceProfile != nil {
		return planner.PlanAdaptive(a.store, *req.ResourceProfile, a.tuning).Plan, nil
	}
	return planner.ParallelPlan(a.store, planner.DefaultMaxConcurrency, a.tuning), nil
}

// AdaptivePlan generates a wave plan shaped by a system resource profile.
func (a *API) AdaptivePlan(profile planner.ResourceProfile) planner.AdaptivePlan {
	return planner.PlanAdaptive(a.store, profile, a.tuning)
}

// SaveConfig writes the graph document to the configured path and returns it.
func (a *API) SaveConfig() (string, error) {
	if err := config.Save(a.store, a.configPath); err != nil {
		return "", err
	}
	a.logger.Info("dependency config saved", "path", a.configPath)
	return a.configPath, nil
}

// LoadConfig replaces the store's contents from a document on disk. The load
// is all-or-nothing: on any error the store is untouched. An empty path
// falls back to the configured one.
func (a *API) LoadConfig(path string) (int, error) {
	if path == "" {
		path = a.configPath
	}
	loaded, err := config.Load(path)
	if err != nil {
		return 0, err
	}
	a.store.Replace(loaded)
	a.logger.Info("dependency config loaded", "path", path, "criteria", a.store.Len())
	return a.store.Len(), nil
}

// Visualization returns read-only graph statistics.
func (a *API) Visualization() (viz.Statistics, error) {
	return viz.Snapshot(a.store)
}

func decodePayload(payload []byte, v any) error {
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeBadPayload, "malformed command payload", err)
	}
	return nil
}
