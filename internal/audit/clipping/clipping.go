package clipping

import (
	"math"

	"github.com/soundry/mixdoctor/internal/types"
	"github.com/soundry/mixdoctor/internal/wave"
)

// Options configures clip detection.
type Options struct {
	Threshold     float64 `toml:"threshold"      validate:"gt=0,lte=1"` // fraction of full scale a sample must reach
	GroupWindow   float64 `toml:"group_window"   validate:"gt=0"`       // seconds; marks closer than this collapse into one event
	MaxEvents     int     `toml:"max_events"     validate:"gte=1"`      // cap on recorded event timestamps
	MinorLimit    uint64  `toml:"minor_limit"    validate:"gte=1"`      // clipped samples below this rate as minor
	ModerateLimit uint64  `toml:"moderate_limit" validate:"gtefield=MinorLimit"` // below this rate as moderate
}

func DefaultOptions() Options {
	return Options{
		Threshold:     0.99,
		GroupWindow:   0.1,
		MaxEvents:     50,
		MinorLimit:    100,
		ModerateLimit: 1000,
	}
}

// Detect scans the full-resolution buffer for clipped frames. It runs on the
// per-channel samples, not the mono downmix, so opposing-polarity peaks
// cannot mask each other.
func Detect(buf *wave.Buffer, opts Options) *types.ClippingInfo {
	result := &types.ClippingInfo{}

	window := opts.GroupWindow * float64(buf.SampleRate)
	lastEvent := math.Inf(-1)

	for f := range buf.Frames() {
		sample := math.Abs(buf.Left[f])
		if buf.IsStereo() {
			if r := math.Abs(buf.Right[f]); r > sample {
				sample = r
			}
		}

		if sample > result.MaxSample {
			result.MaxSample = sample
		}

		if sample < opts.Threshold {
			continue
		}

		result.ClippedSamples++

		if float64(f)-lastEvent > window {
			lastEvent = float64(f)

			if len(result.EventTimes) < opts.MaxEvents {
				result.EventTimes = append(result.EventTimes, float64(f)/float64(buf.SampleRate))
			}
		}
	}

	result.HasClipping = result.ClippedSamples > 0
	result.Severity = severityFor(result.ClippedSamples, opts)

	return result
}

func severityFor(clipped uint64, opts Options) types.ClipSeverity {
	switch {
	case clipped == 0:
		return types.ClipNone
	case clipped < opts.MinorLimit:
		return types.ClipMinor
	case clipped < opts.ModerateLimit:
		return types.ClipModerate
	default:
		return types.ClipSevere
	}
}
