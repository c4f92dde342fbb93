package mixdoctor

import (
	"github.com/soundry/mixdoctor/internal/audit/clipping"
	"github.com/soundry/mixdoctor/internal/audit/dynamics"
	"github.com/soundry/mixdoctor/internal/audit/frequency"
	"github.com/soundry/mixdoctor/internal/audit/stereo"
	"github.com/soundry/mixdoctor/internal/audit/transient"
	"github.com/soundry/mixdoctor/internal/types"
)

// Severity grades how bad a single issue is.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityMinor
	SeverityWarning
	SeveritySevere
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityMinor:
		return "minor"
	case SeverityWarning:
		return "warning"
	case SeveritySevere:
		return "severe"
	case SeverityCritical:
		return "critical"
	}

	return "unknown"
}

// Category tags which part of the mix an issue belongs to. The compiler
// weights categories by real-world impact when scoring.
type Category int

const (
	CategoryGeneral Category = iota
	CategoryPhase
	CategoryClipping
	CategoryLowEnd
	CategoryLoudness
	CategoryTruePeak
	CategoryStereo
	CategoryFrequency
	CategoryDynamics
	CategoryTransients
	CategoryTempo
)

func (c Category) String() string {
	switch c {
	case CategoryPhase:
		return "phase"
	case CategoryClipping:
		return "clipping"
	case CategoryLowEnd:
		return "low_end"
	case CategoryLoudness:
		return "loudness"
	case CategoryTruePeak:
		return "true_peak"
	case CategoryStereo:
		return "stereo"
	case CategoryFrequency:
		return "frequency"
	case CategoryDynamics:
		return "dynamics"
	case CategoryTransients:
		return "transients"
	case CategoryTempo:
		return "tempo"
	case CategoryGeneral:
		return "general"
	}

	return "unknown"
}

// PriorityTier buckets priority scores for display.
type PriorityTier int

const (
	TierLow PriorityTier = iota
	TierMedium
	TierHigh
	TierCritical
)

func (t PriorityTier) String() string {
	switch t {
	case TierCritical:
		return "CRITICAL"
	case TierHigh:
		return "HIGH"
	case TierMedium:
		return "MEDIUM"
	case TierLow:
		return "LOW"
	}

	return "UNKNOWN"
}

// Issue is one ranked finding. Issues are created once by the compiler and
// never mutated afterwards.
type Issue struct {
	Category       Category
	Severity       Severity
	Message        string
	Recommendation string // empty when there is nothing actionable
	PriorityScore  int
	Tier           PriorityTier
}

// Config carries every analyzer threshold. It is immutable once built:
// Analyze receives it by value and nothing mutates it afterwards.
type Config struct {
	Clipping  clipping.Options  `toml:"clipping"`
	Dynamics  dynamics.Options  `toml:"dynamics"`
	Frequency frequency.Options `toml:"frequency"`
	Stereo    stereo.Options    `toml:"stereo"`
	Transient transient.Options `toml:"transient"`

	// ReferenceBPM enables the tempo-mismatch check when set.
	ReferenceBPM float64 `toml:"reference_bpm" validate:"omitempty,gte=20,lte=300"`
}

// DefaultConfig returns the tuned default thresholds.
func DefaultConfig() Config {
	return Config{
		Clipping:  clipping.DefaultOptions(),
		Dynamics:  dynamics.DefaultOptions(),
		Frequency: frequency.DefaultOptions(),
		Stereo:    stereo.DefaultOptions(),
		Transient: transient.DefaultOptions(),
	}
}

// Result is the immutable output bundle of one analysis run. Metric records
// left nil mean the analyzer degraded; the issue list simply omits that
// category.
type Result struct {
	Clipping   *types.ClippingInfo
	Dynamics   *types.DynamicsInfo
	Frequency  *types.FrequencyInfo
	Stereo     *types.StereoInfo
	Loudness   *types.LoudnessInfo
	Transients *types.TransientInfo

	DetectedBPM float64 // 0 when tempo detection was off or failed

	Issues          []Issue  // sorted by priority score, descending
	Recommendations []string // actionable advice in the same priority order
}
