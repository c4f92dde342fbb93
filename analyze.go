package mixdoctor

import (
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/soundry/mixdoctor/internal/audit/clipping"
	"github.com/soundry/mixdoctor/internal/audit/dynamics"
	"github.com/soundry/mixdoctor/internal/audit/frequency"
	"github.com/soundry/mixdoctor/internal/audit/loudness"
	"github.com/soundry/mixdoctor/internal/audit/stereo"
	"github.com/soundry/mixdoctor/internal/audit/transient"
	"github.com/soundry/mixdoctor/internal/feature"
	"github.com/soundry/mixdoctor/internal/wave"
)

/*
Usage:

buf, err := wave.FromPCM(data, format)
result := mixdoctor.Analyze(buf, mixdoctor.DefaultConfig())

for _, issue := range result.Issues {
    fmt.Printf("[%s] %s: %s\n", issue.Tier, issue.Category, issue.Message)
}

// Custom thresholds
cfg := mixdoctor.DefaultConfig()
cfg.Clipping.Threshold = 0.999
cfg.ReferenceBPM = 128
result := mixdoctor.Analyze(buf, cfg)

// Inspect raw metrics
if result.Stereo != nil {
    fmt.Printf("Correlation: %.3f\n", result.Stereo.Correlation)
}
*/

// Analyze runs the six analyzers over the buffer and compiles the ranked
// issue list. The analyzers are pure functions of the read-only buffer and
// run concurrently; a failing analyzer degrades to its documented neutral
// record and never aborts the run.
func Analyze(buf *wave.Buffer, cfg Config) *Result {
	result := &Result{}

	var group errgroup.Group

	group.Go(func() error {
		result.Clipping = clipping.Detect(buf, cfg.Clipping)

		return nil
	})

	group.Go(func() error {
		result.Dynamics = dynamics.Analyze(buf, cfg.Dynamics)

		return nil
	})

	group.Go(func() error {
		frequencyInfo, err := frequency.Analyze(buf, cfg.Frequency)
		if err != nil {
			slog.Warn("frequency analyzer degraded", "error", err)

			return nil
		}

		result.Frequency = frequencyInfo

		return nil
	})

	group.Go(func() error {
		result.Stereo = stereo.Analyze(buf, cfg.Stereo)

		return nil
	})

	group.Go(func() error {
		result.Loudness = loudness.Analyze(buf)

		return nil
	})

	group.Go(func() error {
		result.Transients = transient.Analyze(buf, cfg.Transient)

		return nil
	})

	if cfg.ReferenceBPM > 0 {
		group.Go(func() error {
			bpm, err := feature.DetectTempo(buf.Mono(), buf.SampleRate)
			if err != nil {
				slog.Warn("tempo detection degraded", "error", err)

				return nil
			}

			result.DetectedBPM = bpm

			return nil
		})
	}

	// Analyzer goroutines always return nil; errgroup is used purely as the
	// fan-out/join barrier before compilation.
	_ = group.Wait()

	compile(result, cfg)

	return result
}
