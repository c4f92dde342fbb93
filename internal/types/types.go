//nolint:staticcheck // too dumb on Db vs. DB
package types

type BitDepth uint

const (
	Depth16 BitDepth = 16
	Depth24 BitDepth = 24
	Depth32 BitDepth = 32
)

const (
	MaxValue16 = 32768.0      // 2^15 — 16-bit signed PCM normalization divisor
	MaxValue24 = 8388608.0    // 2^23 — 24-bit signed PCM normalization divisor
	MaxValue32 = 2147483648.0 // 2^31 — 32-bit signed PCM normalization divisor
)

// PCMFormat describes the raw PCM stream handed to the decoder.
type PCMFormat struct {
	SampleRate int
	BitDepth   BitDepth
	Channels   uint
}

// ClipSeverity grades how much clipping a mix carries.
type ClipSeverity int

const (
	ClipNone ClipSeverity = iota
	ClipMinor
	ClipModerate
	ClipSevere
)

func (s ClipSeverity) String() string {
	switch s {
	case ClipNone:
		return "none"
	case ClipMinor:
		return "minor"
	case ClipModerate:
		return "moderate"
	case ClipSevere:
		return "severe"
	}

	return "unknown"
}

/*
Clipping Interpretation

| Clipped samples | Severity  | Typical cause                          |
|-----------------|-----------|----------------------------------------|
| 0               | none      | Healthy headroom                       |
| < 100           | minor     | Occasional overs, often inaudible      |
| 100-999         | moderate  | Hot mix bus or aggressive limiter      |
| >= 1000         | severe    | Sustained clipping, audible distortion |

Event timestamps are grouped: clipped samples closer together than the group
window (default 100 ms) count as one event. The event list is capped (default
50) but ClippedSamples always reflects the full count.
*/

// ClippingInfo contains clipping detection results.
type ClippingInfo struct {
	HasClipping    bool
	ClippedSamples uint64
	EventTimes     []float64 // grouped event timestamps in seconds, capped
	MaxSample      float64   // maximum absolute sample value seen
	Severity       ClipSeverity
}

// DynamicsRating classifies crest factor (peak minus RMS, dB).
type DynamicsRating int

const (
	DynamicsOverCompressed DynamicsRating = iota
	DynamicsCompressed
	DynamicsGood
	DynamicsVeryDynamic
)

func (r DynamicsRating) String() string {
	switch r {
	case DynamicsVeryDynamic:
		return "very_dynamic"
	case DynamicsGood:
		return "good"
	case DynamicsCompressed:
		return "compressed"
	case DynamicsOverCompressed:
		return "over_compressed"
	}

	return "unknown"
}

/*
Dynamics Interpretation

| Crest factor | Rating          | Meaning                             |
|--------------|-----------------|-------------------------------------|
| >= 18 dB     | very_dynamic    | Wide dynamics, classical/jazz range |
| >= 12 dB     | good            | Healthy modern master               |
| >= 8 dB      | compressed      | Dense but workable                  |
| < 8 dB       | over_compressed | Crushed, transients flattened       |

IsOverCompressed is a legacy flag with its own 6 dB threshold. It disagrees
with the rating in the 6-8 dB span on purpose: the flag marks only the
severe cases older tooling cared about.
*/

// DynamicsInfo contains crest factor analysis results.
type DynamicsInfo struct {
	PeakDb           float64
	RmsDb            float64
	DynamicRangeDb   float64 // crest factor: PeakDb - RmsDb
	IsOverCompressed bool    // legacy flag, crest < 6 dB
	Rating           DynamicsRating
	RecommendedFix   string  // empty when nothing to fix
	DCOffset         float64 // mean sample value; near 0 for healthy audio
	DCOffsetDb       float64
}

// BandName identifies one of the seven frequency bands.
type BandName string

const (
	BandSubBass BandName = "sub_bass" // 20-60 Hz
	BandBass    BandName = "bass"     // 60-250 Hz
	BandLowMid  BandName = "low_mid"  // 250-500 Hz
	BandMid     BandName = "mid"      // 500-2000 Hz
	BandHighMid BandName = "high_mid" // 2000-6000 Hz
	BandHigh    BandName = "high"     // 6000-10000 Hz
	BandAir     BandName = "air"      // 10000-20000 Hz
)

// ProblemRange marks a frequency span a balance rule fired on, for
// EQ-style recommendations downstream.
type ProblemRange struct {
	LowHz  float64
	HighHz float64
	Kind   string // "excessive_bass", "lacking_bass", "mud_buildup", "dull", "harsh"
}

/*
Frequency Balance Interpretation

| Finding        | Rule                        |
|----------------|-----------------------------|
| excessive bass | sub_bass + bass > 45 %      |
| lacking bass   | sub_bass + bass < 15 %      |
| mud buildup    | low_mid > 25 %              |
| dull           | high < 5 %                  |
| harsh          | high > 25 %                 |
| very dark      | spectral centroid < 1000 Hz |
| very bright    | spectral centroid > 4000 Hz |

Band percentages are summed squared magnitude per band over total energy.
Bands are unequal widths and are intentionally not width-normalized, so the
wide upper bands structurally carry more of the total. Thresholds are tuned
against that behavior; normalizing would break them.
*/

// FrequencyInfo contains spectral balance results.
type FrequencyInfo struct {
	SpectralCentroid float64              // Hz; brightness proxy
	SpectralRolloff  float64              // Hz below which 85 % of energy sits
	BandEnergy       map[BandName]float64 // percentage per band, sums to ~100
	Issues           []string
	ProblemRanges    []ProblemRange
}

// WidthCategory grades the stereo field from L/R correlation.
type WidthCategory int

const (
	WidthOutOfPhase WidthCategory = iota
	WidthVeryWide
	WidthWide
	WidthGood
	WidthNarrow
	WidthMono
)

func (w WidthCategory) String() string {
	switch w {
	case WidthOutOfPhase:
		return "out_of_phase"
	case WidthVeryWide:
		return "very_wide"
	case WidthWide:
		return "wide"
	case WidthGood:
		return "good"
	case WidthNarrow:
		return "narrow"
	case WidthMono:
		return "mono"
	}

	return "unknown"
}

/*
Stereo Interpretation

| Correlation | Category     | Mono compatible | Phase safe |
|-------------|--------------|-----------------|------------|
| > 0.95      | mono         | yes             | yes        |
| > 0.7       | narrow       | yes             | yes        |
| > 0.3       | good         | yes             | yes        |
| > 0.0       | wide         | no              | yes        |
| 0 to -1     | very_wide    | no              | at 0 only  |
| < 0         | out_of_phase | no              | no         |

Out-of-phase content cancels when the mix is summed to mono (clubs, phones,
broadcast chains). That is always the first thing to fix.
*/

// StereoInfo contains stereo field and phase results.
type StereoInfo struct {
	IsStereo       bool
	Correlation    float64 // Pearson correlation of L and R in [-1, 1]
	WidthPercent   float64 // (1 - |correlation|) * 100
	MonoCompatible bool    // correlation > 0.3
	PhaseSafe      bool    // correlation >= 0
	Category       WidthCategory
	Issues         []string
	Recommendation string
}

/*
Loudness Interpretation

| Platform     | Target LUFS |
|--------------|-------------|
| Spotify      | -14         |
| Amazon Music | -14         |
| Tidal        | -14         |
| SoundCloud   | -14         |
| YouTube      | -14         |
| Apple Music  | -16         |

| Integrated | Recommended target |
|------------|--------------------|
| < -18 LUFS | mastering_needed   |
| < -16 LUFS | apple_music        |
| otherwise  | spotify            |
*/

// LoudnessInfo contains loudness metering results.
type LoudnessInfo struct {
	IntegratedLUFS float64
	ShortTermMax   float64
	MomentaryMax   float64
	LoudnessRange  float64
	TruePeakDb     float64
	PlatformDiffs  map[string]float64 // platform -> integrated minus target
	TargetPlatform string
	UsedFallback   bool // true when the RMS approximation replaced the meter
}

// AttackQuality grades transient sharpness.
type AttackQuality int

const (
	AttackUnknown AttackQuality = iota
	AttackSoft
	AttackAverage
	AttackPunchy
)

func (a AttackQuality) String() string {
	switch a {
	case AttackPunchy:
		return "punchy"
	case AttackAverage:
		return "average"
	case AttackSoft:
		return "soft"
	case AttackUnknown:
		return "unknown"
	}

	return "unknown"
}

// TransientInfo contains onset/transient results. A zero value with
// AttackUnknown is the documented degraded record when onset detection fails.
type TransientInfo struct {
	Count           int
	PerSecond       float64
	AverageStrength float64 // normalized to [0, 1] by the envelope peak
	PeakStrength    float64
	Timestamps      []float64 // seconds, capped
	AttackQuality   AttackQuality
}
