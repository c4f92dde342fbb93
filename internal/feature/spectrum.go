// Package feature is the signal feature provider: pure queries over a
// decoded waveform that the analyzers build on. Nothing here keeps state;
// every function is deterministic in its inputs.
package feature

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

var ErrShortSignal = errors.New("signal shorter than analysis window")

// Spectrum is an STFT magnitude grid: Frames[t][bin] over Bins Hz centers.
type Spectrum struct {
	Frames     [][]float64 // time frame -> magnitude per frequency bin
	Bins       []float64   // bin center frequencies in Hz
	BinHz      float64     // frequency resolution
	SampleRate int
	FFTSize    int
	Hop        int
}

// MagnitudeSpectrum computes a Hann-windowed STFT of the signal.
func MagnitudeSpectrum(samples []float64, sampleRate, fftSize, hop int) (*Spectrum, error) {
	if len(samples) < fftSize {
		return nil, fmt.Errorf("%w: %d < %d", ErrShortSignal, len(samples), fftSize)
	}

	window := makeHannWindow(fftSize)
	binCount := fftSize/2 + 1
	fft := fourier.NewFFT(fftSize)
	fftIn := make([]float64, fftSize)

	frameCount := 1 + (len(samples)-fftSize)/hop
	frames := make([][]float64, 0, frameCount)

	for pos := 0; pos+fftSize <= len(samples); pos += hop {
		for i := range fftSize {
			fftIn[i] = samples[pos+i] * window[i]
		}

		coeffs := fft.Coefficients(nil, fftIn)

		mags := make([]float64, binCount)
		for i, c := range coeffs {
			mags[i] = math.Sqrt(real(c)*real(c) + imag(c)*imag(c))
		}

		frames = append(frames, mags)
	}

	binHz := float64(sampleRate) / float64(fftSize)

	return &Spectrum{
		Frames:     frames,
		Bins:       FrequencyBins(sampleRate, fftSize),
		BinHz:      binHz,
		SampleRate: sampleRate,
		FFTSize:    fftSize,
		Hop:        hop,
	}, nil
}

// FrequencyBins returns the bin center frequencies for an FFT of the given size.
func FrequencyBins(sampleRate, fftSize int) []float64 {
	binCount := fftSize/2 + 1
	binHz := float64(sampleRate) / float64(fftSize)

	bins := make([]float64, binCount)
	for i := range bins {
		bins[i] = float64(i) * binHz
	}

	return bins
}

// AverageMagnitude collapses the grid to the mean magnitude per bin.
func (s *Spectrum) AverageMagnitude() []float64 {
	if len(s.Frames) == 0 {
		return nil
	}

	avg := make([]float64, len(s.Frames[0]))

	for _, frame := range s.Frames {
		for i, m := range frame {
			avg[i] += m
		}
	}

	for i := range avg {
		avg[i] /= float64(len(s.Frames))
	}

	return avg
}

// Centroid returns the energy-weighted center-of-mass frequency in Hz.
func (s *Spectrum) Centroid() float64 {
	avg := s.AverageMagnitude()

	var weightedSum, totalMag float64

	for i, mag := range avg {
		weightedSum += float64(i) * s.BinHz * mag
		totalMag += mag
	}

	if totalMag == 0 {
		return 0
	}

	return weightedSum / totalMag
}

// Rolloff returns the frequency below which the given fraction of total
// spectral energy sits. The conventional fraction is 0.85.
func (s *Spectrum) Rolloff(fraction float64) float64 {
	avg := s.AverageMagnitude()

	var total float64
	for _, m := range avg {
		total += m * m
	}

	if total == 0 {
		return 0
	}

	target := total * fraction

	var running float64

	for i, m := range avg {
		running += m * m
		if running >= target {
			return float64(i) * s.BinHz
		}
	}

	return float64(len(avg)-1) * s.BinHz
}

func makeHannWindow(size int) []float64 {
	window := make([]float64, size)
	for i := range window {
		window[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(size-1)))
	}

	return window
}
