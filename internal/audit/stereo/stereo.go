package stereo

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/soundry/mixdoctor/internal/types"
	"github.com/soundry/mixdoctor/internal/wave"
)

// Options holds the correlation thresholds for the width categories.
// They must be ordered Mono > Narrow > Good > Wide.
type Options struct {
	MonoCorr   float64 `toml:"mono_corr"   validate:"gtfield=NarrowCorr,lte=1"` // above: effectively mono
	NarrowCorr float64 `toml:"narrow_corr" validate:"gtfield=GoodCorr"`
	GoodCorr   float64 `toml:"good_corr"   validate:"gtfield=WideCorr"` // also the mono-compatibility boundary
	WideCorr   float64 `toml:"wide_corr"   validate:"gte=0"`            // below zero is out of phase
}

func DefaultOptions() Options {
	return Options{
		MonoCorr:   0.95,
		NarrowCorr: 0.7,
		GoodCorr:   0.3,
		WideCorr:   0.0,
	}
}

// Analyze measures the stereo field from L/R correlation. Mono input
// short-circuits to a fixed perfect-mono record with no issues.
func Analyze(buf *wave.Buffer, opts Options) *types.StereoInfo {
	if !buf.IsStereo() {
		return &types.StereoInfo{
			IsStereo:       false,
			Correlation:    1.0,
			WidthPercent:   0,
			MonoCompatible: true,
			PhaseSafe:      true,
			Category:       types.WidthMono,
		}
	}

	correlation := stat.Correlation(buf.Left, buf.Right, nil)
	if math.IsNaN(correlation) {
		// Constant channels (e.g. digital silence) have zero variance.
		correlation = 1.0
	}

	result := &types.StereoInfo{
		IsStereo:       true,
		Correlation:    correlation,
		WidthPercent:   (1 - math.Abs(correlation)) * 100,
		MonoCompatible: correlation > opts.GoodCorr,
		PhaseSafe:      correlation >= 0,
		Category:       categoryFor(correlation, opts),
	}

	switch result.Category {
	case types.WidthOutOfPhase:
		result.Issues = append(result.Issues, fmt.Sprintf(
			"Out-of-phase stereo content (correlation %.2f): the mix cancels when summed to mono", correlation))
		result.Recommendation = "Check for inverted polarity on a channel or heavy phase-based widening; " +
			"fix before anything else"
	case types.WidthVeryWide:
		result.Issues = append(result.Issues, fmt.Sprintf(
			"Very wide stereo image (correlation %.2f): mono playback loses significant content", correlation))
		result.Recommendation = "Narrow the widest elements or blend in mid signal to protect mono playback"
	case types.WidthWide:
		result.Issues = append(result.Issues, fmt.Sprintf(
			"Wide stereo image (correlation %.2f): verify the mix on a mono speaker", correlation))
		result.Recommendation = "Check mono compatibility; pull critical elements toward the center"
	case types.WidthGood:
		result.Recommendation = "Stereo width is in a healthy range"
	case types.WidthNarrow:
		result.Issues = append(result.Issues, fmt.Sprintf(
			"Narrow stereo image (correlation %.2f)", correlation))
		result.Recommendation = "Widen with panning, doubled parts, or stereo effects on non-bass elements"
	case types.WidthMono:
		result.Issues = append(result.Issues, fmt.Sprintf(
			"Effectively mono content in a stereo file (correlation %.2f)", correlation))
		result.Recommendation = "Widen via panning and stereo tools, or bounce to mono to save the space"
	}

	return result
}

func categoryFor(correlation float64, opts Options) types.WidthCategory {
	switch {
	case correlation < 0:
		return types.WidthOutOfPhase
	case correlation > opts.MonoCorr:
		return types.WidthMono
	case correlation > opts.NarrowCorr:
		return types.WidthNarrow
	case correlation > opts.GoodCorr:
		return types.WidthGood
	case correlation > opts.WideCorr:
		return types.WidthWide
	default:
		return types.WidthVeryWide
	}
}
