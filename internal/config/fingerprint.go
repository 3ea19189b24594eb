package config

import (
	"encoding/json"
	"fmt"

	"github.com/zeebo/blake3"

	"github.com/felixgeelhaar/waveplan/internal/graph"
)

// Fingerprint computes a blake3 hash over the canonical document form of the
// graph. encoding/json emits map keys sorted, so two stores with the same
// criteria and edges hash identically regardless of insertion order.
func Fingerprint(s *graph.Store) (string, error) {
	canonical, err := json.Marshal(Snapshot(s))
	if err != nil {
		return "", fmt.Errorf("canonicalize graph: %w", err)
	}

	hasher := blake3.New()
	if _, err := hasher.Write(canonical); err != nil {
		return "", fmt.Errorf("hash graph: %w", err)
	}

	return fmt.Sprintf("%x", hasher.Sum(nil)), nil
}
