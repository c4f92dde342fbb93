package frequency_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/soundry/mixdoctor/internal/audit/frequency"
	"github.com/soundry/mixdoctor/internal/feature"
	"github.com/soundry/mixdoctor/internal/types"
	"github.com/soundry/mixdoctor/internal/wave"
)

const sampleRate = 44100

func mixBuffer(seconds float64, tones map[float64]float64) *wave.Buffer {
	samples := make([]float64, int(seconds*sampleRate))
	for freq, amplitude := range tones {
		for i := range samples {
			samples[i] += amplitude * math.Sin(2*math.Pi*freq*float64(i)/sampleRate)
		}
	}

	return wave.New(samples, nil, sampleRate)
}

func TestBandPercentagesSum(t *testing.T) {
	t.Parallel()

	buf := mixBuffer(1, map[float64]float64{
		100:  0.2,
		400:  0.15,
		1000: 0.3,
		3000: 0.15,
		8000: 0.1,
	})

	result, err := frequency.Analyze(buf, frequency.DefaultOptions())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	var sum float64
	for _, percent := range result.BandEnergy {
		sum += percent
	}

	if math.Abs(sum-100) > 0.5 {
		t.Errorf("band percentages sum to %f, want ~100", sum)
	}
}

func TestExcessiveBass(t *testing.T) {
	t.Parallel()

	buf := mixBuffer(1, map[float64]float64{
		80:   0.6,
		1000: 0.1,
	})

	result, err := frequency.Analyze(buf, frequency.DefaultOptions())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	assertProblemKind(t, result, "excessive_bass")

	// Issues and ranges stay in lockstep for the compiler.
	if len(result.Issues) != len(result.ProblemRanges) {
		t.Errorf("%d issues but %d problem ranges", len(result.Issues), len(result.ProblemRanges))
	}
}

func TestLackingBassAndDull(t *testing.T) {
	t.Parallel()

	buf := mixBuffer(1, map[float64]float64{
		1000: 0.4,
		3000: 0.2,
	})

	result, err := frequency.Analyze(buf, frequency.DefaultOptions())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	assertProblemKind(t, result, "lacking_bass")
	assertProblemKind(t, result, "dull")
}

func TestMudBuildup(t *testing.T) {
	t.Parallel()

	buf := mixBuffer(1, map[float64]float64{
		100:  0.3,
		350:  0.5,
		1000: 0.3,
		7000: 0.15,
	})

	result, err := frequency.Analyze(buf, frequency.DefaultOptions())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	assertProblemKind(t, result, "mud_buildup")

	for _, problem := range result.ProblemRanges {
		if problem.Kind == "mud_buildup" {
			if problem.LowHz != 250 || problem.HighHz != 500 {
				t.Errorf("mud range %f-%f Hz, want 250-500", problem.LowHz, problem.HighHz)
			}
		}
	}
}

func TestBalancedMixNoBassIssues(t *testing.T) {
	t.Parallel()

	// Bass share between the 15% and 45% rails.
	buf := mixBuffer(1, map[float64]float64{
		120:  0.3,
		1000: 0.35,
		3000: 0.2,
		7000: 0.2,
	})

	result, err := frequency.Analyze(buf, frequency.DefaultOptions())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	for _, problem := range result.ProblemRanges {
		if problem.Kind == "excessive_bass" || problem.Kind == "lacking_bass" {
			t.Errorf("unexpected %s on a balanced mix (bands %v)", problem.Kind, result.BandEnergy)
		}
	}
}

func TestVeryDarkCentroid(t *testing.T) {
	t.Parallel()

	buf := mixBuffer(1, map[float64]float64{
		120: 0.4,
		300: 0.3,
	})

	result, err := frequency.Analyze(buf, frequency.DefaultOptions())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if result.SpectralCentroid >= 1000 {
		t.Fatalf("centroid %f Hz, expected below 1000", result.SpectralCentroid)
	}

	found := false

	for _, issue := range result.Issues {
		if strings.Contains(issue, "dark") {
			found = true
		}
	}

	if !found {
		t.Errorf("no dark-mix issue in %v", result.Issues)
	}
}

func TestShortSignal(t *testing.T) {
	t.Parallel()

	buf := wave.New(make([]float64, 100), nil, sampleRate)

	if _, err := frequency.Analyze(buf, frequency.DefaultOptions()); !errors.Is(err, feature.ErrShortSignal) {
		t.Errorf("got %v, want ErrShortSignal", err)
	}
}

func assertProblemKind(t *testing.T, result *types.FrequencyInfo, kind string) {
	t.Helper()

	for _, problem := range result.ProblemRanges {
		if problem.Kind == kind {
			return
		}
	}

	t.Errorf("no %s problem range (bands %v, issues %v)", kind, result.BandEnergy, result.Issues)
}
