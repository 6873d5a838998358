package config

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed weights.yaml
var defaultWeightsYAML []byte

// WeightTables is the parsed shape of weights.yaml: per-ADX-regime
// strategy multipliers, plus a per-timeframe multiplier, used by C7's
// scorer (spec §4.5's ADX-regime weighting and §4.6's multi-timeframe
// weighting) — embedded here following the teacher's internal/config/regime
// pattern of shipping a default weights asset that JSON config can override.
type WeightTables struct {
	Regimes    map[string]map[string]float64 `yaml:"regimes"`
	Timeframes map[string]float64            `yaml:"timeframes"`
}

// LoadDefaultWeights parses the embedded weights.yaml asset.
func LoadDefaultWeights() (WeightTables, error) {
	var wt WeightTables
	if err := yaml.Unmarshal(defaultWeightsYAML, &wt); err != nil {
		return WeightTables{}, fmt.Errorf("config: parse embedded weights.yaml: %w", err)
	}
	return wt, nil
}

// Merge returns a copy of wt with a JSON override map (WeightingCfg.Override)
// applied over its regime weights, wt itself left unchanged, overwriting only
// the named strategy entries the override supplies — it does not replace a whole regime's table, so an
// override naming one strategy leaves its siblings at their embedded
// default.
func (wt WeightTables) Merge(override map[string]map[string]float64) WeightTables {
	if len(override) == 0 {
		return wt
	}
	merged := WeightTables{
		Regimes:    make(map[string]map[string]float64, len(wt.Regimes)),
		Timeframes: wt.Timeframes,
	}
	for regime, strategies := range wt.Regimes {
		copyOf := make(map[string]float64, len(strategies))
		for k, v := range strategies {
			copyOf[k] = v
		}
		merged.Regimes[regime] = copyOf
	}
	for regime, strategies := range override {
		if merged.Regimes[regime] == nil {
			merged.Regimes[regime] = map[string]float64{}
		}
		for strategy, weight := range strategies {
			merged.Regimes[regime][strategy] = weight
		}
	}
	return merged
}
