package frequency

import (
	"fmt"

	"github.com/soundry/mixdoctor/internal/feature"
	"github.com/soundry/mixdoctor/internal/types"
	"github.com/soundry/mixdoctor/internal/wave"
)

const (
	fftSize = 2048
	hopSize = 512

	rolloffFraction = 0.85
)

// band is one of the seven fixed analysis bands.
type band struct {
	name   types.BandName
	lowHz  float64
	highHz float64
}

var bands = []band{
	{types.BandSubBass, 20, 60},
	{types.BandBass, 60, 250},
	{types.BandLowMid, 250, 500},
	{types.BandMid, 500, 2000},
	{types.BandHighMid, 2000, 6000},
	{types.BandHigh, 6000, 10000},
	{types.BandAir, 10000, 20000},
}

// Options configures the balance rules. Percentages refer to a band's share
// of total energy; centroid thresholds are Hz.
type Options struct {
	ExcessBassPercent  float64 `toml:"excess_bass_percent"  validate:"gtfield=LackingBassPercent,lte=100"` // sub_bass + bass above this
	LackingBassPercent float64 `toml:"lacking_bass_percent" validate:"gt=0"`                               // sub_bass + bass below this
	MudPercent         float64 `toml:"mud_percent"          validate:"gt=0,lte=100"` // low_mid above this
	DullPercent        float64 `toml:"dull_percent"         validate:"gt=0"`         // high below this
	HarshPercent       float64 `toml:"harsh_percent"        validate:"gtfield=DullPercent,lte=100"` // high above this
	DarkCentroidHz     float64 `toml:"dark_centroid_hz"     validate:"gt=0"`
	BrightCentroidHz   float64 `toml:"bright_centroid_hz"   validate:"gtfield=DarkCentroidHz"`
}

func DefaultOptions() Options {
	return Options{
		ExcessBassPercent:  45,
		LackingBassPercent: 15,
		MudPercent:         25,
		DullPercent:        5,
		HarshPercent:       25,
		DarkCentroidHz:     1000,
		BrightCentroidHz:   4000,
	}
}

// Analyze computes the seven-band energy split of the mono downmix and
// applies the balance rules. Band energies are summed squared magnitude and
// deliberately not divided by band width; the thresholds are tuned against
// that behavior.
func Analyze(buf *wave.Buffer, opts Options) (*types.FrequencyInfo, error) {
	spectrum, err := feature.MagnitudeSpectrum(buf.Mono(), buf.SampleRate, fftSize, hopSize)
	if err != nil {
		return nil, fmt.Errorf("frequency balance: %w", err)
	}

	energies := make([]float64, len(bands))

	var total float64

	for _, frame := range spectrum.Frames {
		for bin, magnitude := range frame {
			hz := spectrum.Bins[bin]
			power := magnitude * magnitude

			for i, b := range bands {
				if hz >= b.lowHz && hz < b.highHz {
					energies[i] += power
					total += power

					break
				}
			}
		}
	}

	result := &types.FrequencyInfo{
		SpectralCentroid: spectrum.Centroid(),
		SpectralRolloff:  spectrum.Rolloff(rolloffFraction),
		BandEnergy:       make(map[types.BandName]float64, len(bands)),
	}

	if total <= 0 {
		for _, b := range bands {
			result.BandEnergy[b.name] = 0
		}

		return result, nil
	}

	for i, b := range bands {
		result.BandEnergy[b.name] = energies[i] / total * 100
	}

	applyRules(result, opts)

	return result, nil
}

func applyRules(result *types.FrequencyInfo, opts Options) {
	lowEnd := result.BandEnergy[types.BandSubBass] + result.BandEnergy[types.BandBass]
	lowMid := result.BandEnergy[types.BandLowMid]
	high := result.BandEnergy[types.BandHigh]

	if lowEnd > opts.ExcessBassPercent {
		result.Issues = append(result.Issues, fmt.Sprintf(
			"Excessive bass energy (%.1f%% of spectrum): cut roughly %.1f dB below 250 Hz",
			lowEnd, cutEstimate(lowEnd, opts.ExcessBassPercent)))
		result.ProblemRanges = append(result.ProblemRanges, types.ProblemRange{
			LowHz: 20, HighHz: 250, Kind: "excessive_bass",
		})
	} else if lowEnd < opts.LackingBassPercent {
		result.Issues = append(result.Issues, fmt.Sprintf(
			"Lacking bass energy (%.1f%% of spectrum): boost roughly %.1f dB below 250 Hz",
			lowEnd, cutEstimate(opts.LackingBassPercent, lowEnd)))
		result.ProblemRanges = append(result.ProblemRanges, types.ProblemRange{
			LowHz: 20, HighHz: 250, Kind: "lacking_bass",
		})
	}

	if lowMid > opts.MudPercent {
		result.Issues = append(result.Issues, fmt.Sprintf(
			"Low-mid buildup (%.1f%% in 250-500 Hz): the classic mud band, cut roughly %.1f dB",
			lowMid, cutEstimate(lowMid, opts.MudPercent)))
		result.ProblemRanges = append(result.ProblemRanges, types.ProblemRange{
			LowHz: 250, HighHz: 500, Kind: "mud_buildup",
		})
	}

	if high < opts.DullPercent {
		result.Issues = append(result.Issues, fmt.Sprintf(
			"Dull top end (%.1f%% in 6-10 kHz): boost roughly %.1f dB for presence",
			high, cutEstimate(opts.DullPercent, high)))
		result.ProblemRanges = append(result.ProblemRanges, types.ProblemRange{
			LowHz: 6000, HighHz: 10000, Kind: "dull",
		})
	} else if high > opts.HarshPercent {
		result.Issues = append(result.Issues, fmt.Sprintf(
			"Harsh top end (%.1f%% in 6-10 kHz): cut roughly %.1f dB or soften with saturation",
			high, cutEstimate(high, opts.HarshPercent)))
		result.ProblemRanges = append(result.ProblemRanges, types.ProblemRange{
			LowHz: 6000, HighHz: 10000, Kind: "harsh",
		})
	}

	if result.SpectralCentroid < opts.DarkCentroidHz {
		result.Issues = append(result.Issues, fmt.Sprintf(
			"Very dark mix (centroid %.0f Hz): overall brightness is low", result.SpectralCentroid))
		result.ProblemRanges = append(result.ProblemRanges, types.ProblemRange{
			LowHz: 2000, HighHz: 20000, Kind: "very_dark",
		})
	} else if result.SpectralCentroid > opts.BrightCentroidHz {
		result.Issues = append(result.Issues, fmt.Sprintf(
			"Very bright mix (centroid %.0f Hz): overall brightness is high", result.SpectralCentroid))
		result.ProblemRanges = append(result.ProblemRanges, types.ProblemRange{
			LowHz: 2000, HighHz: 20000, Kind: "very_bright",
		})
	}
}

// cutEstimate converts a percentage overshoot into a rough EQ move in dB.
// Every 5% past the threshold is about 1 dB, clamped to a sane 1-6 dB range.
func cutEstimate(value, threshold float64) float64 {
	db := (value - threshold) / 5

	if db < 1 {
		return 1
	}

	if db > 6 {
		return 6
	}

	return db
}
