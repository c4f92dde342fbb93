package mixdoctor_test

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/soundry/mixdoctor"
	"github.com/soundry/mixdoctor/internal/types"
	"github.com/soundry/mixdoctor/internal/wave"
)

const sampleRate = 44100

func sine(freq, amplitude, seconds float64) []float64 {
	samples := make([]float64, int(seconds*sampleRate))
	for i := range samples {
		samples[i] = amplitude * math.Sin(2*math.Pi*freq*float64(i)/sampleRate)
	}

	return samples
}

// shapedMix synthesizes a plausible healthy mix: a quiet 150 Hz bed with
// short loud 1 kHz bursts every half second. The bursts keep the crest
// factor in the good range and the peak safely under full scale.
func shapedMix(seconds float64) []float64 {
	samples := sine(150, 0.15, seconds)
	burstLen := int(0.05 * sampleRate)
	step := int(0.5 * sampleRate)

	for start := step / 2; start+burstLen < len(samples); start += step {
		for i := range burstLen {
			n := start + i
			samples[n] += 0.7 * math.Sin(2*math.Pi*1000*float64(n)/sampleRate)
		}
	}

	return samples
}

func TestAnalyzeHealthyMix(t *testing.T) {
	t.Parallel()

	buf := wave.New(shapedMix(3), nil, sampleRate)
	result := mixdoctor.Analyze(buf, mixdoctor.DefaultConfig())

	if result.Clipping == nil || result.Clipping.HasClipping {
		t.Errorf("clean signal reported clipping: %+v", result.Clipping)
	}

	if result.Dynamics == nil || result.Dynamics.Rating == types.DynamicsOverCompressed {
		t.Errorf("burst signal rated over-compressed: %+v", result.Dynamics)
	}

	for _, issue := range result.Issues {
		if issue.Tier == mixdoctor.TierCritical {
			t.Errorf("healthy mix raised a critical issue: %+v", issue)
		}
	}
}

func TestAnalyzeFakeStereo(t *testing.T) {
	t.Parallel()

	channel := sine(440, 0.5, 2)
	right := make([]float64, len(channel))
	copy(right, channel)

	result := mixdoctor.Analyze(wave.New(channel, right, sampleRate), mixdoctor.DefaultConfig())

	var found bool

	for _, issue := range result.Issues {
		if issue.Category == mixdoctor.CategoryStereo && strings.Contains(issue.Message, "mono") {
			found = true

			if issue.Severity != mixdoctor.SeverityWarning {
				t.Errorf("fake stereo severity = %v, want warning", issue.Severity)
			}
		}
	}

	if !found {
		t.Fatalf("no fake-stereo issue in %+v", result.Issues)
	}

	var recommended bool

	for _, rec := range result.Recommendations {
		if strings.Contains(rec, "Widen") {
			recommended = true
		}
	}

	if !recommended {
		t.Errorf("no widening recommendation in %v", result.Recommendations)
	}
}

func TestAnalyzeOutOfPhase(t *testing.T) {
	t.Parallel()

	left := sine(440, 0.5, 2)
	right := make([]float64, len(left))

	for i, sample := range left {
		right[i] = -sample
	}

	result := mixdoctor.Analyze(wave.New(left, right, sampleRate), mixdoctor.DefaultConfig())

	if len(result.Issues) == 0 {
		t.Fatal("no issues on an out-of-phase signal")
	}

	top := result.Issues[0]

	if top.Category != mixdoctor.CategoryPhase || top.Tier != mixdoctor.TierCritical {
		t.Errorf("top issue = %v/%v, want phase/CRITICAL", top.Category, top.Tier)
	}

	if top.PriorityScore != 450 {
		t.Errorf("phase score = %d, want 450", top.PriorityScore)
	}
}

func TestAnalyzeClipped(t *testing.T) {
	t.Parallel()

	samples := sine(440, 0.5, 2)
	for i := 10000; i < 12000; i++ {
		samples[i] = 1.0
	}

	result := mixdoctor.Analyze(wave.New(samples, nil, sampleRate), mixdoctor.DefaultConfig())

	if result.Clipping == nil || result.Clipping.Severity != types.ClipSevere {
		t.Fatalf("2000 clipped samples rated %+v, want severe", result.Clipping)
	}

	var found bool

	for _, issue := range result.Issues {
		if issue.Category == mixdoctor.CategoryClipping {
			found = true

			if issue.Severity != mixdoctor.SeverityCritical || issue.Tier != mixdoctor.TierCritical {
				t.Errorf("clipping issue = %v/%v, want critical/CRITICAL", issue.Severity, issue.Tier)
			}
		}
	}

	if !found {
		t.Errorf("no clipping issue in %+v", result.Issues)
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	t.Parallel()

	buf := wave.New(shapedMix(2), nil, sampleRate)
	cfg := mixdoctor.DefaultConfig()
	cfg.ReferenceBPM = 120

	first := mixdoctor.Analyze(buf, cfg)
	second := mixdoctor.Analyze(buf, cfg)

	if !reflect.DeepEqual(first, second) {
		t.Error("repeated analysis of the same buffer differs")
	}
}
