package feature

import "math"

const (
	oversample   = 4  // 4x oversampling per ITU-R BS.1770
	tapsPerPhase = 12 // filter taps per phase
	totalTaps    = oversample * tapsPerPhase
)

// Polyphase filter coefficients for 4x oversampling
// Generated from windowed sinc with Kaiser window (beta=5)
var polyphaseCoeffs [oversample][tapsPerPhase]float64

func init() {
	// Lowpass at 0.25 normalized frequency (Nyquist of original signal)
	beta := 5.0 // Kaiser window parameter

	for phase := range oversample {
		for tap := range tapsPerPhase {
			n := tap*oversample + phase
			center := float64(totalTaps-1) / 2.0

			x := float64(n) - center

			var sinc float64
			if math.Abs(x) < 1e-10 {
				sinc = 1.0
			} else {
				sinc = math.Sin(math.Pi*x/float64(oversample)) / (math.Pi * x / float64(oversample))
			}

			alpha := (float64(n) - center) / center
			if math.Abs(alpha) <= 1.0 {
				window := bessel0(beta*math.Sqrt(1-alpha*alpha)) / bessel0(beta)
				polyphaseCoeffs[phase][tap] = sinc * window * float64(oversample)
			}
		}
	}

	// Normalize each phase
	for phase := range oversample {
		var sum float64
		for tap := range tapsPerPhase {
			sum += polyphaseCoeffs[phase][tap]
		}

		for tap := range tapsPerPhase {
			polyphaseCoeffs[phase][tap] /= sum
		}
	}
}

// Bessel function I0 (modified Bessel function of the first kind, order 0)
func bessel0(x float64) float64 {
	sum := 1.0
	term := 1.0

	for k := 1; k <= 25; k++ {
		term *= (x * x) / (4.0 * float64(k) * float64(k))
		sum += term

		if term < 1e-12 {
			break
		}
	}

	return sum
}

// TruePeakDb estimates the reconstructed inter-sample peak of the given
// channels in dBTP, via 4x polyphase oversampling. Values above 0 mean the
// analog waveform exceeds full scale even though no stored sample does.
func TruePeakDb(channels ...[]float64) float64 {
	var truePeak float64

	history := make([]float64, tapsPerPhase)

	for _, channel := range channels {
		if channel == nil {
			continue
		}

		for i := range history {
			history[i] = 0
		}

		for _, sample := range channel {
			copy(history[0:], history[1:])
			history[tapsPerPhase-1] = sample

			for phase := range oversample {
				var interp float64
				for tap := range tapsPerPhase {
					interp += history[tap] * polyphaseCoeffs[phase][tap]
				}

				if abs := math.Abs(interp); abs > truePeak {
					truePeak = abs
				}
			}
		}
	}

	return Db(truePeak)
}
