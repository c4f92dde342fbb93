package transient

import (
	"log/slog"

	"github.com/soundry/mixdoctor/internal/feature"
	"github.com/soundry/mixdoctor/internal/types"
	"github.com/soundry/mixdoctor/internal/wave"
)

// Options configures attack classification.
type Options struct {
	PunchyStrength  float64 `toml:"punchy_strength"  validate:"gtfield=AverageStrength,lte=1"` // average normalized strength at or above: punchy
	AverageStrength float64 `toml:"average_strength" validate:"gt=0"`                          // at or above: average; below: soft
	MaxTimestamps   int     `toml:"max_timestamps"   validate:"gte=1"`
}

func DefaultOptions() Options {
	return Options{
		PunchyStrength:  0.7,
		AverageStrength: 0.4,
		MaxTimestamps:   20,
	}
}

// Analyze detects transients on the mono downmix. Transient data is
// advisory, so any detection failure degrades to a zeroed record with
// AttackUnknown instead of an error.
func Analyze(buf *wave.Buffer, opts Options) *types.TransientInfo {
	onsets, envelope, err := feature.OnsetEvents(buf.Mono(), buf.SampleRate)
	if err != nil {
		slog.Debug("onset detection unavailable", "error", err)

		return &types.TransientInfo{AttackQuality: types.AttackUnknown}
	}

	result := &types.TransientInfo{
		Count:         len(onsets),
		AttackQuality: types.AttackUnknown,
	}

	if duration := buf.Duration(); duration > 0 {
		result.PerSecond = float64(len(onsets)) / duration
	}

	if len(onsets) == 0 {
		return result
	}

	var envelopeMax float64

	for _, v := range envelope {
		if v > envelopeMax {
			envelopeMax = v
		}
	}

	if envelopeMax <= 0 {
		return result
	}

	var sum float64

	for _, onset := range onsets {
		strength := onset.Strength / envelopeMax
		sum += strength

		if strength > result.PeakStrength {
			result.PeakStrength = strength
		}

		if len(result.Timestamps) < opts.MaxTimestamps {
			result.Timestamps = append(result.Timestamps, onset.TimeSec)
		}
	}

	result.AverageStrength = sum / float64(len(onsets))

	switch {
	case result.AverageStrength >= opts.PunchyStrength:
		result.AttackQuality = types.AttackPunchy
	case result.AverageStrength >= opts.AverageStrength:
		result.AttackQuality = types.AttackAverage
	default:
		result.AttackQuality = types.AttackSoft
	}

	return result
}
