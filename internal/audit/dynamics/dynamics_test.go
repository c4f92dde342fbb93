package dynamics_test

import (
	"math"
	"testing"

	"github.com/soundry/mixdoctor/internal/audit/dynamics"
	"github.com/soundry/mixdoctor/internal/types"
	"github.com/soundry/mixdoctor/internal/wave"
)

const sampleRate = 44100

func TestAnalyzeSine(t *testing.T) {
	t.Parallel()

	// A steady sine has a 3.01 dB crest factor: deep over-compression
	// territory, legacy flag included.
	samples := make([]float64, sampleRate)
	for i := range samples {
		samples[i] = 0.5 * math.Sin(2*math.Pi*440*float64(i)/sampleRate)
	}

	result := dynamics.Analyze(wave.New(samples, nil, sampleRate), dynamics.DefaultOptions())

	if math.Abs(result.PeakDb+6.02) > 0.1 {
		t.Errorf("peak %f dB, want ~-6.02", result.PeakDb)
	}

	if math.Abs(result.DynamicRangeDb-3.01) > 0.1 {
		t.Errorf("crest %f dB, want ~3.01", result.DynamicRangeDb)
	}

	if result.Rating != types.DynamicsOverCompressed {
		t.Errorf("got rating %s, want over_compressed", result.Rating)
	}

	if !result.IsOverCompressed {
		t.Error("legacy flag not set below 6 dB crest")
	}

	if result.RecommendedFix == "" {
		t.Error("expected a recommended fix for over-compressed audio")
	}
}

func TestAnalyzeDynamic(t *testing.T) {
	t.Parallel()

	// Quiet bed with one full-scale hit: crest far above 18 dB.
	samples := make([]float64, sampleRate)
	for i := range samples {
		samples[i] = 0.01 * math.Sin(2*math.Pi*440*float64(i)/sampleRate)
	}

	samples[1000] = 1.0

	result := dynamics.Analyze(wave.New(samples, nil, sampleRate), dynamics.DefaultOptions())

	if result.Rating != types.DynamicsVeryDynamic {
		t.Errorf("got rating %s (crest %.1f dB), want very_dynamic", result.Rating, result.DynamicRangeDb)
	}

	if result.IsOverCompressed {
		t.Error("legacy flag set on dynamic audio")
	}

	if result.RecommendedFix != "" {
		t.Errorf("unexpected fix: %q", result.RecommendedFix)
	}
}

func TestLegacyFlagDisagreesWithRating(t *testing.T) {
	t.Parallel()

	// Crest ~7 dB: rated over_compressed, but above the legacy flag's
	// 6 dB threshold.
	samples := make([]float64, sampleRate)
	for i := range samples {
		samples[i] = 0.4467 // 10^(-7/20)
	}

	samples[100] = 1.0

	result := dynamics.Analyze(wave.New(samples, nil, sampleRate), dynamics.DefaultOptions())

	if result.Rating != types.DynamicsOverCompressed {
		t.Errorf("got rating %s (crest %.1f dB), want over_compressed", result.Rating, result.DynamicRangeDb)
	}

	if result.IsOverCompressed {
		t.Errorf("legacy flag set at %.1f dB crest, threshold is 6 dB", result.DynamicRangeDb)
	}
}

func TestAnalyzeSilence(t *testing.T) {
	t.Parallel()

	result := dynamics.Analyze(wave.New(make([]float64, sampleRate), nil, sampleRate), dynamics.DefaultOptions())

	if math.IsNaN(result.RmsDb) || math.IsInf(result.RmsDb, 0) {
		t.Fatalf("silence produced %f RMS dB", result.RmsDb)
	}

	if result.RmsDb != -120 {
		t.Errorf("got %f RMS dB, want the -120 floor", result.RmsDb)
	}
}

func TestDCOffset(t *testing.T) {
	t.Parallel()

	samples := make([]float64, sampleRate)
	for i := range samples {
		samples[i] = 0.1 + 0.05*math.Sin(2*math.Pi*440*float64(i)/sampleRate)
	}

	result := dynamics.Analyze(wave.New(samples, nil, sampleRate), dynamics.DefaultOptions())

	if math.Abs(result.DCOffset-0.1) > 0.001 {
		t.Errorf("got DC offset %f, want ~0.1", result.DCOffset)
	}

	if math.Abs(result.DCOffsetDb+20) > 0.1 {
		t.Errorf("got DC offset %f dB, want ~-20", result.DCOffsetDb)
	}
}
