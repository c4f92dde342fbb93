package feature

import (
	"fmt"
	"math"
)

const (
	onsetFFTSize = 1024
	onsetHop     = 512
)

// Onset is a detected attack: a sudden rise in spectral energy.
type Onset struct {
	TimeSec  float64
	Strength float64 // raw onset-envelope value at the peak
}

// OnsetEvents detects onsets via positive spectral flux with local peak
// picking. It returns the onsets and the full onset-strength envelope
// (one value per hop) so callers can normalize against its global maximum.
func OnsetEvents(samples []float64, sampleRate int) ([]Onset, []float64, error) {
	spec, err := MagnitudeSpectrum(samples, sampleRate, onsetFFTSize, onsetHop)
	if err != nil {
		return nil, nil, fmt.Errorf("onset spectrum: %w", err)
	}

	envelope := fluxEnvelope(spec.Frames)
	if len(envelope) < 3 {
		return nil, envelope, nil
	}

	// Detection threshold: envelope mean plus half its spread above the mean.
	var sum float64
	for _, v := range envelope {
		sum += v
	}

	mean := sum / float64(len(envelope))

	var devSum float64

	for _, v := range envelope {
		d := v - mean
		devSum += d * d
	}

	threshold := mean + 0.5*math.Sqrt(devSum/float64(len(envelope)))

	frameSec := float64(onsetHop) / float64(sampleRate)

	var onsets []Onset

	for i := 1; i < len(envelope)-1; i++ {
		v := envelope[i]
		if v <= threshold {
			continue
		}

		if v < envelope[i-1] || v < envelope[i+1] {
			continue
		}

		onsets = append(onsets, Onset{
			TimeSec:  float64(i) * frameSec,
			Strength: v,
		})
	}

	return onsets, envelope, nil
}

// fluxEnvelope computes per-frame positive spectral flux: the sum of
// magnitude increases across bins between consecutive frames.
func fluxEnvelope(frames [][]float64) []float64 {
	if len(frames) < 2 {
		return nil
	}

	envelope := make([]float64, len(frames)-1)

	for t := 1; t < len(frames); t++ {
		var flux float64

		for bin, mag := range frames[t] {
			if d := mag - frames[t-1][bin]; d > 0 {
				flux += d
			}
		}

		envelope[t-1] = flux
	}

	return envelope
}

// DetectTempo estimates tempo in BPM by autocorrelating the onset-strength
// envelope over the 60-200 BPM lag range. Returns 0 when the signal is too
// short or has no periodicity worth reporting.
func DetectTempo(samples []float64, sampleRate int) (float64, error) {
	_, envelope, err := OnsetEvents(samples, sampleRate)
	if err != nil {
		return 0, err
	}

	if len(envelope) == 0 {
		return 0, fmt.Errorf("%w: empty onset envelope", ErrShortSignal)
	}

	frameRate := float64(sampleRate) / float64(onsetHop)

	// Lag bounds for 200 BPM (shortest beat) through 60 BPM (longest).
	minLag := int(frameRate * 60 / 200)
	maxLag := int(frameRate * 60 / 60)

	if minLag < 1 || maxLag >= len(envelope) {
		return 0, fmt.Errorf("%w: %d envelope frames", ErrShortSignal, len(envelope))
	}

	var (
		bestLag  int
		bestCorr float64
	)

	for lag := minLag; lag <= maxLag; lag++ {
		var corr float64
		for i := 0; i+lag < len(envelope); i++ {
			corr += envelope[i] * envelope[i+lag]
		}

		if corr > bestCorr {
			bestCorr = corr
			bestLag = lag
		}
	}

	if bestLag == 0 || bestCorr == 0 {
		return 0, nil
	}

	return 60 * frameRate / float64(bestLag), nil
}
