package mixdoctor

import (
	"fmt"
	"math"
	"sort"

	"github.com/soundry/mixdoctor/internal/types"
)

/*
Priority scoring

Each issue starts from a severity base score, gets multiplied by a
per-category weight reflecting real-world impact, and by a scope weight of
1.5 for critical/severe issues (those hurt the whole mix, not one band):

  priority_score = round(base * category_weight * scope_weight)

| Severity | Base | Category   | Weight |
|----------|------|------------|--------|
| critical | 100  | phase      | 3.0    |
| severe   | 70   | clipping   | 2.5    |
| warning  | 40   | low_end    | 2.5    |
| minor    | 15   | loudness   | 2.0    |
| info     | 5    | true_peak  | 2.0    |
|          |      | stereo     | 2.0    |
|          |      | frequency  | 1.5    |
|          |      | dynamics   | 1.5    |
|          |      | transients | 1.2    |
|          |      | tempo      | 1.0    |
|          |      | (default)  | 1.0    |

Tiers: CRITICAL > 200, HIGH >= 100, MEDIUM >= 50, LOW below. The final list
is sorted by score descending; ties keep seeding order, so the fixed
critical -> warning -> info seeding makes rankings reproducible.
*/

const truePeakCeilingDb = -1.0

const tempoMismatchBPM = 2.0

func severityBase(severity Severity) float64 {
	switch severity {
	case SeverityCritical:
		return 100
	case SeveritySevere:
		return 70
	case SeverityWarning:
		return 40
	case SeverityMinor:
		return 15
	case SeverityInfo:
		return 5
	}

	return 0
}

func categoryWeight(category Category) float64 {
	switch category {
	case CategoryPhase:
		return 3.0
	case CategoryClipping, CategoryLowEnd:
		return 2.5
	case CategoryLoudness, CategoryTruePeak, CategoryStereo:
		return 2.0
	case CategoryFrequency, CategoryDynamics:
		return 1.5
	case CategoryTransients:
		return 1.2
	case CategoryTempo, CategoryGeneral:
		return 1.0
	}

	return 1.0
}

func scopeWeight(severity Severity) float64 {
	if severity >= SeveritySevere {
		return 1.5
	}

	return 1.0
}

func tierFor(score int) PriorityTier {
	switch {
	case score > 200:
		return TierCritical
	case score >= 100:
		return TierHigh
	case score >= 50:
		return TierMedium
	default:
		return TierLow
	}
}

// compile seeds issues from every analyzer record, scores them, and sorts
// the final list. It never fails: a nil record contributes no issues.
func compile(result *Result, cfg Config) {
	var issues []Issue

	add := func(category Category, severity Severity, message, recommendation string) {
		issues = append(issues, Issue{
			Category:       category,
			Severity:       severity,
			Message:        message,
			Recommendation: recommendation,
		})
	}

	seedCritical(result, add)
	seedWarnings(result, add)
	seedInfo(result, cfg, add)

	for i := range issues {
		score := severityBase(issues[i].Severity) *
			categoryWeight(issues[i].Category) *
			scopeWeight(issues[i].Severity)

		issues[i].PriorityScore = int(math.Round(score))
		issues[i].Tier = tierFor(issues[i].PriorityScore)
	}

	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].PriorityScore > issues[j].PriorityScore
	})

	result.Issues = issues

	for _, issue := range issues {
		if issue.Recommendation != "" {
			result.Recommendations = append(result.Recommendations, issue.Recommendation)
		}
	}
}

type addFunc func(category Category, severity Severity, message, recommendation string)

func seedCritical(result *Result, add addFunc) {
	if result.Stereo != nil && result.Stereo.Category == types.WidthOutOfPhase {
		add(CategoryPhase, SeverityCritical,
			fmt.Sprintf("Out-of-phase stereo (correlation %.2f): content cancels in mono playback",
				result.Stereo.Correlation),
			result.Stereo.Recommendation)
	}

	if result.Clipping != nil {
		switch result.Clipping.Severity {
		case types.ClipSevere:
			add(CategoryClipping, SeverityCritical,
				fmt.Sprintf("Severe clipping: %d samples at or above full scale", result.Clipping.ClippedSamples),
				"Lower the master output or limiter ceiling until no samples clip")
		case types.ClipModerate:
			add(CategoryClipping, SeveritySevere,
				fmt.Sprintf("Moderate clipping: %d clipped samples", result.Clipping.ClippedSamples),
				"Back off the mix bus gain; aim for at least 1 dB of headroom")
		case types.ClipMinor:
			add(CategoryClipping, SeverityWarning,
				fmt.Sprintf("Minor clipping: %d clipped samples", result.Clipping.ClippedSamples),
				"Check the loudest sections; a small ceiling reduction removes these")
		case types.ClipNone:
		}
	}
}

func seedWarnings(result *Result, add addFunc) {
	if result.Dynamics != nil {
		switch result.Dynamics.Rating {
		case types.DynamicsOverCompressed:
			add(CategoryDynamics, SeverityWarning,
				fmt.Sprintf("Over-compressed: %.1f dB dynamic range", result.Dynamics.DynamicRangeDb),
				result.Dynamics.RecommendedFix)
		case types.DynamicsCompressed:
			add(CategoryDynamics, SeverityMinor,
				fmt.Sprintf("Compressed: %.1f dB dynamic range", result.Dynamics.DynamicRangeDb),
				"Ease the bus compressor if the mix feels lifeless")
		case types.DynamicsGood, types.DynamicsVeryDynamic:
		}

		if result.Dynamics.DCOffsetDb > -40 {
			add(CategoryDynamics, SeverityMinor,
				fmt.Sprintf("DC offset present (%.1f dB)", result.Dynamics.DCOffsetDb),
				"Add a high-pass or DC-removal filter on the master")
		}
	}

	if result.Loudness != nil {
		switch {
		case result.Loudness.TargetPlatform == "mastering_needed":
			add(CategoryLoudness, SeverityWarning,
				fmt.Sprintf("Mix is quiet: %.1f LUFS integrated, well below streaming targets",
					result.Loudness.IntegratedLUFS),
				"Master toward -14 LUFS integrated for streaming platforms")
		case result.Loudness.PlatformDiffs["spotify"] > 2:
			add(CategoryLoudness, SeverityWarning,
				fmt.Sprintf("Mix is hot: %.1f LUFS integrated, %.1f LU above the -14 LUFS streaming target",
					result.Loudness.IntegratedLUFS, result.Loudness.PlatformDiffs["spotify"]),
				"Platforms will turn this down; trading dynamics for loudness gains nothing")
		}

		if result.Loudness.TruePeakDb > truePeakCeilingDb {
			add(CategoryTruePeak, SeverityWarning,
				fmt.Sprintf("True peak %.2f dBTP exceeds the -1 dBTP ceiling", result.Loudness.TruePeakDb),
				"Set the limiter ceiling to -1 dBTP to avoid lossy-codec overs")
		}
	}

	if result.Stereo != nil && result.Stereo.IsStereo {
		switch result.Stereo.Category {
		case types.WidthMono, types.WidthNarrow, types.WidthVeryWide:
			add(CategoryStereo, SeverityWarning, result.Stereo.Issues[0], result.Stereo.Recommendation)
		case types.WidthWide:
			add(CategoryStereo, SeverityMinor, result.Stereo.Issues[0], result.Stereo.Recommendation)
		case types.WidthGood, types.WidthOutOfPhase:
			// Good needs nothing; out-of-phase already seeded as critical.
		}
	}

	if result.Frequency != nil {
		for i, message := range result.Frequency.Issues {
			category := CategoryFrequency
			recommendation := ""

			// Rules append Issues and ProblemRanges in lockstep.
			if i < len(result.Frequency.ProblemRanges) {
				problem := result.Frequency.ProblemRanges[i]
				if problem.HighHz <= 500 {
					category = CategoryLowEnd
				}

				recommendation = fmt.Sprintf("Revisit the %.0f-%.0f Hz range (%s)",
					problem.LowHz, problem.HighHz, problem.Kind)
			}

			add(category, SeverityWarning, message, recommendation)
		}
	}
}

func seedInfo(result *Result, cfg Config, add addFunc) {
	if result.Transients != nil && result.Transients.AttackQuality != types.AttackUnknown {
		add(CategoryTransients, SeverityInfo,
			fmt.Sprintf("%d transients (%.1f/s), %s attacks",
				result.Transients.Count, result.Transients.PerSecond, result.Transients.AttackQuality),
			"")
	}

	if result.Dynamics != nil {
		switch result.Dynamics.Rating {
		case types.DynamicsGood, types.DynamicsVeryDynamic:
			add(CategoryDynamics, SeverityInfo,
				fmt.Sprintf("Healthy dynamics: %.1f dB range (%s)",
					result.Dynamics.DynamicRangeDb, result.Dynamics.Rating),
				"")
		case types.DynamicsCompressed, types.DynamicsOverCompressed:
		}
	}

	if cfg.ReferenceBPM > 0 && result.DetectedBPM > 0 {
		if diff := math.Abs(result.DetectedBPM - cfg.ReferenceBPM); diff > tempoMismatchBPM {
			add(CategoryTempo, SeverityInfo,
				fmt.Sprintf("Detected tempo %.1f BPM differs from the project's %.1f BPM",
					result.DetectedBPM, cfg.ReferenceBPM),
				"")
		}
	}
}
