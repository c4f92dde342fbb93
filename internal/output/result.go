// Package output provides shared result serialization for mixdoctor JSON output.
package output

import (
	"github.com/soundry/mixdoctor"
	"github.com/soundry/mixdoctor/internal/types"
)

// ResultToMap converts an analysis result into the canonical map structure
// used for JSON and JSONL serialization.
func ResultToMap(result *mixdoctor.Result) map[string]any {
	worstTier := mixdoctor.TierLow
	if len(result.Issues) > 0 {
		worstTier = result.Issues[0].Tier
	}

	meta := map[string]any{
		"summary": map[string]any{
			"issue_count": len(result.Issues),
			"worst_tier":  worstTier.String(),
		},
	}

	// Ranked issues.
	issues := make([]any, 0, len(result.Issues))
	for _, issue := range result.Issues {
		entry := map[string]any{
			"category":       issue.Category.String(),
			"severity":       issue.Severity.String(),
			"message":        issue.Message,
			"priority_score": issue.PriorityScore,
			"tier":           issue.Tier.String(),
		}
		if issue.Recommendation != "" {
			entry["recommendation"] = issue.Recommendation
		}

		issues = append(issues, entry)
	}

	meta["issues"] = issues
	meta["recommendations"] = result.Recommendations

	// Raw analyzer results.
	if r := result.Clipping; r != nil {
		meta["clipping"] = map[string]any{
			"has_clipping":    r.HasClipping,
			"clipped_samples": r.ClippedSamples,
			"event_times":     r.EventTimes,
			"max_sample":      r.MaxSample,
			"severity":        r.Severity.String(),
		}
	}

	if r := result.Dynamics; r != nil {
		entry := map[string]any{
			"peak_db":            r.PeakDb,
			"rms_db":             r.RmsDb,
			"dynamic_range_db":   r.DynamicRangeDb,
			"is_over_compressed": r.IsOverCompressed,
			"rating":             r.Rating.String(),
			"dc_offset":          r.DCOffset,
			"dc_offset_db":       r.DCOffsetDb,
		}
		if r.RecommendedFix != "" {
			entry["recommended_fix"] = r.RecommendedFix
		}

		meta["dynamics"] = entry
	}

	if r := result.Frequency; r != nil {
		meta["frequency"] = FrequencyToMap(r)
	}

	if r := result.Stereo; r != nil {
		entry := map[string]any{
			"is_stereo":       r.IsStereo,
			"correlation":     r.Correlation,
			"width_percent":   r.WidthPercent,
			"mono_compatible": r.MonoCompatible,
			"phase_safe":      r.PhaseSafe,
			"category":        r.Category.String(),
			"issues":          r.Issues,
		}
		if r.Recommendation != "" {
			entry["recommendation"] = r.Recommendation
		}

		meta["stereo"] = entry
	}

	if r := result.Loudness; r != nil {
		meta["loudness"] = map[string]any{
			"integrated_lufs": r.IntegratedLUFS,
			"short_term_max":  r.ShortTermMax,
			"momentary_max":   r.MomentaryMax,
			"loudness_range":  r.LoudnessRange,
			"true_peak_db":    r.TruePeakDb,
			"platform_diffs":  r.PlatformDiffs,
			"target_platform": r.TargetPlatform,
			"used_fallback":   r.UsedFallback,
		}
	}

	if r := result.Transients; r != nil {
		meta["transients"] = map[string]any{
			"count":            r.Count,
			"per_second":       r.PerSecond,
			"average_strength": r.AverageStrength,
			"peak_strength":    r.PeakStrength,
			"timestamps":       r.Timestamps,
			"attack_quality":   r.AttackQuality.String(),
		}
	}

	if result.DetectedBPM > 0 {
		meta["tempo"] = map[string]any{
			"detected_bpm": result.DetectedBPM,
		}
	}

	return meta
}

// FrequencyToMap converts frequency balance results to a map.
func FrequencyToMap(result *types.FrequencyInfo) map[string]any {
	bands := make(map[string]any, len(result.BandEnergy))
	for name, percent := range result.BandEnergy {
		bands[string(name)] = percent
	}

	ranges := make([]any, 0, len(result.ProblemRanges))
	for _, problem := range result.ProblemRanges {
		ranges = append(ranges, map[string]any{
			"low_hz":  problem.LowHz,
			"high_hz": problem.HighHz,
			"kind":    problem.Kind,
		})
	}

	return map[string]any{
		"spectral_centroid": result.SpectralCentroid,
		"spectral_rolloff":  result.SpectralRolloff,
		"band_energy":       bands,
		"issues":            result.Issues,
		"problem_ranges":    ranges,
	}
}
