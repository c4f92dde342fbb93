package loudness

import (
	"log/slog"
	"sort"

	"github.com/soundry/mixdoctor/internal/feature"
	"github.com/soundry/mixdoctor/internal/types"
	"github.com/soundry/mixdoctor/internal/wave"
)

// kWeightingOffsetDb approximates K-weighting in the RMS fallback path.
const kWeightingOffsetDb = 0.691

// Streaming platform normalization targets in LUFS.
var platformTargets = map[string]float64{
	"spotify":      -14,
	"amazon_music": -14,
	"tidal":        -14,
	"soundcloud":   -14,
	"youtube":      -14,
	"apple_music":  -16,
}

// PlatformTargets returns a copy of the platform target table.
func PlatformTargets() map[string]float64 {
	targets := make(map[string]float64, len(platformTargets))
	for platform, lufs := range platformTargets {
		targets[platform] = lufs
	}

	return targets
}

// Analyze measures loudness with a K-weighted gated meter, falling back to a
// windowed RMS approximation when the signal is too short to meter. Neither
// path fails: the fallback handles anything with at least one sample.
func Analyze(buf *wave.Buffer) *types.LoudnessInfo {
	result := &types.LoudnessInfo{}

	meter, err := feature.MeasureLoudness(buf)
	if err == nil {
		result.IntegratedLUFS = meter.Integrated
		result.ShortTermMax = meter.ShortTermMax
		result.MomentaryMax = meter.MomentaryMax
		result.LoudnessRange = meter.Range
	} else {
		slog.Debug("loudness meter unavailable, using RMS approximation", "error", err)
		rmsApproximation(buf, result)
		result.UsedFallback = true
	}

	if buf.IsStereo() {
		result.TruePeakDb = feature.TruePeakDb(buf.Left, buf.Right)
	} else {
		result.TruePeakDb = feature.TruePeakDb(buf.Left)
	}

	result.PlatformDiffs = make(map[string]float64, len(platformTargets))
	for platform, target := range platformTargets {
		result.PlatformDiffs[platform] = result.IntegratedLUFS - target
	}

	result.TargetPlatform = targetFor(result.IntegratedLUFS)

	return result
}

func targetFor(integrated float64) string {
	switch {
	case integrated < -18:
		return "mastering_needed"
	case integrated < -16:
		return "apple_music"
	default:
		return "spotify"
	}
}

// rmsApproximation estimates the loudness figures from 400 ms RMS windows:
// integrated is the mean window level minus the K-weighting offset,
// short-term max comes from a 3 s moving average, momentary max is the
// loudest single window, and range is the 95th minus 10th percentile spread.
func rmsApproximation(buf *wave.Buffer, result *types.LoudnessInfo) {
	samples := buf.Mono()

	windowLen := buf.SampleRate * 400 / 1000
	if windowLen > len(samples) {
		windowLen = len(samples)
	}

	if windowLen == 0 {
		result.IntegratedLUFS = -120
		result.ShortTermMax = -120
		result.MomentaryMax = -120

		return
	}

	windows := feature.RMSEnvelope(samples, windowLen, windowLen)

	var sum float64

	momentary := -120.0

	for _, db := range windows {
		sum += db

		if db > momentary {
			momentary = db
		}
	}

	result.IntegratedLUFS = sum/float64(len(windows)) - kWeightingOffsetDb
	result.MomentaryMax = momentary - kWeightingOffsetDb
	result.ShortTermMax = shortTermMax(windows) - kWeightingOffsetDb

	if len(windows) >= 2 {
		sorted := make([]float64, len(windows))
		copy(sorted, windows)
		sort.Float64s(sorted)

		low := sorted[int(float64(len(sorted))*0.10)]
		high := sorted[int(float64(len(sorted))*0.95)]
		result.LoudnessRange = high - low
	}
}

// shortTermMax is the loudest 3 s moving average over the 400 ms windows.
func shortTermMax(windows []float64) float64 {
	const span = 7 // ceil(3s / 400ms)

	max := -120.0

	for i := range windows {
		end := i + span
		if end > len(windows) {
			end = len(windows)
		}

		var sum float64
		for _, db := range windows[i:end] {
			sum += db
		}

		if avg := sum / float64(end-i); avg > max {
			max = avg
		}
	}

	return max
}
