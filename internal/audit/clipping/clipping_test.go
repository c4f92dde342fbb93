package clipping_test

import (
	"math"
	"testing"

	"github.com/soundry/mixdoctor/internal/audit/clipping"
	"github.com/soundry/mixdoctor/internal/types"
	"github.com/soundry/mixdoctor/internal/wave"
)

const sampleRate = 44100

func sineBuffer(amplitude float64, seconds float64) *wave.Buffer {
	samples := make([]float64, int(seconds*sampleRate))
	for i := range samples {
		samples[i] = amplitude * math.Sin(2*math.Pi*440*float64(i)/sampleRate)
	}

	return wave.New(samples, nil, sampleRate)
}

func TestDetectSilence(t *testing.T) {
	t.Parallel()

	buf := wave.New(make([]float64, sampleRate), nil, sampleRate)

	result := clipping.Detect(buf, clipping.DefaultOptions())

	if result.HasClipping {
		t.Error("silence reported as clipping")
	}

	if result.ClippedSamples != 0 {
		t.Errorf("got %d clipped samples, want 0", result.ClippedSamples)
	}

	if result.Severity != types.ClipNone {
		t.Errorf("got severity %s, want none", result.Severity)
	}
}

func TestDetectSevere(t *testing.T) {
	t.Parallel()

	buf := sineBuffer(0.5, 1)
	for i := range 2000 {
		buf.Left[i] = 1.0
	}

	result := clipping.Detect(buf, clipping.DefaultOptions())

	if !result.HasClipping {
		t.Fatal("clipping not detected")
	}

	if result.ClippedSamples != 2000 {
		t.Errorf("got %d clipped samples, want 2000", result.ClippedSamples)
	}

	if result.Severity != types.ClipSevere {
		t.Errorf("got severity %s, want severe", result.Severity)
	}

	if result.MaxSample < 1.0 {
		t.Errorf("got max sample %f, want 1.0", result.MaxSample)
	}
}

func TestSeverityMonotonic(t *testing.T) {
	t.Parallel()

	opts := clipping.DefaultOptions()

	previous := types.ClipNone

	for _, clipped := range []int{0, 1, 50, 100, 999, 1000, 5000} {
		buf := wave.New(make([]float64, 10000), nil, sampleRate)
		for i := range clipped {
			buf.Left[i] = 1.0
		}

		result := clipping.Detect(buf, opts)

		if result.Severity < previous {
			t.Fatalf("severity decreased from %s to %s at %d clipped samples",
				previous, result.Severity, clipped)
		}

		previous = result.Severity
	}
}

func TestEventGrouping(t *testing.T) {
	t.Parallel()

	buf := wave.New(make([]float64, sampleRate), nil, sampleRate)

	// Two clusters 0.5 s apart, each with clips inside the 0.1 s window.
	for _, pos := range []int{1000, 1500, 2000, 24000, 24500} {
		buf.Left[pos] = 1.0
	}

	result := clipping.Detect(buf, clipping.DefaultOptions())

	if len(result.EventTimes) != 2 {
		t.Errorf("got %d events, want 2 (times %v)", len(result.EventTimes), result.EventTimes)
	}

	if result.ClippedSamples != 5 {
		t.Errorf("got %d clipped samples, want 5", result.ClippedSamples)
	}
}

func TestEventCap(t *testing.T) {
	t.Parallel()

	buf := wave.New(make([]float64, sampleRate), nil, sampleRate)

	// 10 clips each a full window apart.
	for i := range 10 {
		buf.Left[i*4410+100] = 1.0
	}

	opts := clipping.DefaultOptions()
	opts.MaxEvents = 3

	result := clipping.Detect(buf, opts)

	if len(result.EventTimes) != 3 {
		t.Errorf("got %d event times, want cap of 3", len(result.EventTimes))
	}

	// The cap drops timestamps, never the count.
	if result.ClippedSamples != 10 {
		t.Errorf("got %d clipped samples, want 10", result.ClippedSamples)
	}
}

func TestStereoFrameMarks(t *testing.T) {
	t.Parallel()

	left := make([]float64, 1000)
	right := make([]float64, 1000)
	right[500] = -1.0 // clip on the right channel only

	buf := wave.New(left, right, sampleRate)

	result := clipping.Detect(buf, clipping.DefaultOptions())

	if result.ClippedSamples != 1 {
		t.Errorf("got %d clipped samples, want 1", result.ClippedSamples)
	}
}
