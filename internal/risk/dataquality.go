package risk

// DataQualityGate rejects stale reads regardless of which fallback tier
// served them: a broker-fetch fallback that is itself stale is still
// stale (spec §4.4 — freshness is evaluated after the fallback chain has
// already run, not instead of it).
func DataQualityGate(report FreshnessReport) (bool, string) {
	if !report.Fresh() {
		return false, "data_quality: stale read from " + string(report.Tier)
	}
	return true, ""
}
