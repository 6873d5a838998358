package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Document bundles a loaded config value with the content hash and
// load timestamp spec.md §6 requires be computed and stored on every
// config load (mirrors the teacher's pairs_sync.go config-drift check and
// the Python original's range_scalping_config_loader.py).
type Document[T any] struct {
	Value     T
	Hash      string
	LoadedAt  time.Time
}

// loadJSON reads path, unmarshals it both into a generic map (for
// ContentHash) and into out, and returns the populated Document.
func loadJSON[T any](path string, out *T) (Document[T], error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document[T]{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Document[T]{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return Document[T]{}, fmt.Errorf("config: decode %s: %w", path, err)
	}

	return Document[T]{Value: *out, Hash: ContentHash(raw), LoadedAt: time.Now().UTC()}, nil
}

// LoadMainConfig reads and validates the main engine config at path.
func LoadMainConfig(path string) (Document[MainConfig], error) {
	var cfg MainConfig
	doc, err := loadJSON(path, &cfg)
	if err != nil {
		return doc, err
	}
	if err := doc.Value.Validate(); err != nil {
		return doc, err
	}
	return doc, nil
}

// LoadRiskRewardConfig reads and validates the risk:reward config (default
// SL/TP ATR multiples plus per-strategy overrides) at path.
func LoadRiskRewardConfig(path string) (Document[RiskRewardConfig], error) {
	var cfg RiskRewardConfig
	doc, err := loadJSON(path, &cfg)
	if err != nil {
		return doc, err
	}
	if err := doc.Value.Validate(); err != nil {
		return doc, err
	}
	return doc, nil
}

// LoadExitConfig reads and validates the exit-manager config at path.
func LoadExitConfig(path string) (Document[ExitConfig], error) {
	cfg := DefaultExitConfig()
	doc, err := loadJSON(path, &cfg)
	if err != nil {
		return doc, err
	}
	if err := doc.Value.Validate(); err != nil {
		return doc, err
	}
	return doc, nil
}
