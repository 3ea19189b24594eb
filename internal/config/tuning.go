package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/waveplan/internal/errors"
	"github.com/felixgeelhaar/waveplan/internal/planner"
)

// LoadTuning reads a scheduling tuning policy from a YAML file. Fields
// absent from the file keep their defaults. An empty path returns the stock
// policy.
func LoadTuning(path string) (planner.Tuning, error) {
	tuning := planner.DefaultTuning()
	if path == "" {
		return tuning, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return planner.Tuning{}, errors.New(errors.ErrCodeConfigNotFound,
				fmt.Sprintf("tuning file not found: %s", path))
		}
		return planner.Tuning{}, errors.Wrap(errors.ErrCodeConfigNotFound,
			fmt.Sprintf("failed to read tuning file: %s", path), err)
	}

	if err := yaml.Unmarshal(data, &tuning); err != nil {
		return planner.Tuning{}, errors.Wrap(errors.ErrCodeTuningInvalid,
			fmt.Sprintf("failed to parse tuning file: %s", path), err)
	}

	if err := validateTuning(tuning); err != nil {
		return planner.Tuning{}, err
	}
	return tuning, nil
}

// SaveTuning writes a tuning policy to a YAML file.
func SaveTuning(tuning planner.Tuning, path string) error {
	data, err := yaml.Marshal(tuning)
	if err != nil {
		return errors.Wrap(errors.ErrCodeConfigWriteFailed,
			fmt.Sprintf("failed to encode tuning file: %s", path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeConfigWriteFailed,
			fmt.Sprintf("failed to write tuning file: %s", path), err)
	}
	return nil
}

func validateTuning(t planner.Tuning) error {
	for tag, limit := range t.ResourceCaps {
		if limit < 0 {
			return errors.New(errors.ErrCodeTuningInvalid,
				fmt.Sprintf("resource cap for %s must not be negative", tag))
		}
	}
	if t.LoadBalanceMultiple < 0 {
		return errors.New(errors.ErrCodeTuningInvalid, "loadBalanceMultiple must not be negative")
	}
	if t.NetworkLatencyThresholdMs < 0 {
		return errors.New(errors.ErrCodeTuningInvalid, "networkLatencyThresholdMs must not be negative")
	}
	if t.MemoryFootprintMB < 0 {
		return errors.New(errors.ErrCodeTuningInvalid, "memoryFootprintMB must not be negative")
	}
	if t.NetworkMaxConcurrent < 1 {
		return errors.New(errors.ErrCodeTuningInvalid, "networkMaxConcurrent must be at least 1")
	}
	return nil
}
