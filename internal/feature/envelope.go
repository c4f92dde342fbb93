package feature

import "math"

const silenceFloorDb = -120.0

// RMSEnvelope returns the windowed RMS level of the signal in dB, one value
// per hop. Windows shorter than frameLen at the tail are dropped.
func RMSEnvelope(samples []float64, frameLen, hop int) []float64 {
	if frameLen <= 0 || hop <= 0 || len(samples) < frameLen {
		return nil
	}

	envelope := make([]float64, 0, 1+(len(samples)-frameLen)/hop)

	for pos := 0; pos+frameLen <= len(samples); pos += hop {
		var sum float64
		for _, s := range samples[pos : pos+frameLen] {
			sum += s * s
		}

		rms := math.Sqrt(sum / float64(frameLen))
		envelope = append(envelope, Db(rms))
	}

	return envelope
}

// Db converts a linear amplitude to dBFS, clamping silence to a finite floor.
func Db(amplitude float64) float64 {
	if amplitude <= 0 {
		return silenceFloorDb
	}

	db := 20 * math.Log10(amplitude)
	if db < silenceFloorDb {
		return silenceFloorDb
	}

	return db
}

// PeakAbs returns the maximum absolute sample value.
func PeakAbs(samples []float64) float64 {
	var peak float64

	for _, s := range samples {
		if abs := math.Abs(s); abs > peak {
			peak = abs
		}
	}

	return peak
}

// RMS returns the root mean square of the signal, 0 for empty input.
func RMS(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}

	var sum float64
	for _, s := range samples {
		sum += s * s
	}

	return math.Sqrt(sum / float64(len(samples)))
}
