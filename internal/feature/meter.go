package feature

import (
	"fmt"
	"math"
	"sort"

	"github.com/soundry/mixdoctor/internal/wave"
)

// Biquad filter coefficients.
type biquad struct {
	b0, b1, b2 float64
	a1, a2     float64
}

// Biquad filter state.
type biquadState struct {
	z1, z2 float64
}

func (s *biquadState) process(b *biquad, in float64) float64 {
	out := b.b0*in + s.z1
	s.z1 = b.b1*in - b.a1*out + s.z2
	s.z2 = b.b2*in - b.a2*out

	return out
}

// K-weighting filter coefficients for the given sample rate.
// Pre-filter (high shelf) + RLB weighting (high pass), ITU-R BS.1770-4.
func kWeightingFilters(sampleRate int) (pre, rlb biquad) {
	fs := float64(sampleRate)

	// Pre-filter (high shelf), models the acoustic effects of the head.
	f0 := 1681.974450955533
	gain := 3.999843853973347
	q := 0.7071752369554196

	k := math.Tan(math.Pi * f0 / fs)
	vh := math.Pow(10, gain/20)
	vb := math.Pow(vh, 0.4996667741545416)

	a0 := 1 + k/q + k*k
	pre.b0 = (vh + vb*k/q + k*k) / a0
	pre.b1 = 2 * (k*k - vh) / a0
	pre.b2 = (vh - vb*k/q + k*k) / a0
	pre.a1 = 2 * (k*k - 1) / a0
	pre.a2 = (1 - k/q + k*k) / a0

	// RLB weighting (high pass).
	f0 = 38.13547087602444
	q = 0.5003270373238773

	k = math.Tan(math.Pi * f0 / fs)

	a0 = 1 + k/q + k*k
	rlb.b0 = 1 / a0
	rlb.b1 = -2 / a0
	rlb.b2 = 1 / a0
	rlb.a1 = 2 * (k*k - 1) / a0
	rlb.a2 = (1 - k/q + k*k) / a0

	return pre, rlb
}

// MeterResult carries EBU R128 style loudness measurements.
type MeterResult struct {
	Integrated   float64 // LUFS, gated
	ShortTermMax float64 // max 3 s window
	MomentaryMax float64 // max 400 ms window
	Range        float64 // LRA in LU
}

// MeasureLoudness runs a K-weighted, gated loudness measurement over the
// buffer. It needs at least one full 400 ms momentary window; shorter
// signals return ErrShortSignal so callers can fall back to an RMS
// approximation.
func MeasureLoudness(buf *wave.Buffer) (*MeterResult, error) {
	sampleRate := buf.SampleRate

	momentarySize := sampleRate * 400 / 1000 // 400ms
	shortTermSize := sampleRate * 3          // 3s
	hopSize := sampleRate * 100 / 1000       // 100ms hop

	if buf.Frames() < momentarySize || momentarySize == 0 {
		return nil, fmt.Errorf("%w: %d frames at %d Hz", ErrShortSignal, buf.Frames(), sampleRate)
	}

	channels := [][]float64{buf.Left}
	if buf.IsStereo() {
		channels = append(channels, buf.Right)
	}

	pre, rlb := kWeightingFilters(sampleRate)
	preState := make([]biquadState, len(channels))
	rlbState := make([]biquadState, len(channels))

	var momentaryPowers []float64 // for integrated calculation

	var shortTermPowers []float64 // for LRA calculation

	var (
		momentaryMax = -120.0
		shortTermMax = -120.0
	)

	momentaryBuf := make([]float64, momentarySize)
	shortTermBuf := make([]float64, shortTermSize)

	var (
		momentaryPos, shortTermPos       int
		momentarySum, shortTermSum       float64
		momentaryFilled, shortTermFilled int
	)

	for f := range buf.Frames() {
		var framePower float64

		for ch, channel := range channels {
			filtered := preState[ch].process(&pre, channel[f])
			filtered = rlbState[ch].process(&rlb, filtered)
			framePower += filtered * filtered
		}

		old := momentaryBuf[momentaryPos]
		momentaryBuf[momentaryPos] = framePower
		momentarySum = momentarySum - old + framePower

		momentaryPos = (momentaryPos + 1) % momentarySize
		if momentaryFilled < momentarySize {
			momentaryFilled++
		}

		old = shortTermBuf[shortTermPos]
		shortTermBuf[shortTermPos] = framePower
		shortTermSum = shortTermSum - old + framePower

		shortTermPos = (shortTermPos + 1) % shortTermSize
		if shortTermFilled < shortTermSize {
			shortTermFilled++
		}

		if (f+1)%hopSize == 0 {
			if momentaryFilled == momentarySize {
				power := momentarySum / float64(momentarySize)
				momentaryPowers = append(momentaryPowers, power)

				if loudness := powerToLUFS(power); loudness > momentaryMax {
					momentaryMax = loudness
				}
			}

			if shortTermFilled == shortTermSize {
				power := shortTermSum / float64(shortTermSize)
				shortTermPowers = append(shortTermPowers, power)

				if loudness := powerToLUFS(power); loudness > shortTermMax {
					shortTermMax = loudness
				}
			}
		}
	}

	// Short inputs may never hit a hop boundary with a full window; flush once.
	if len(momentaryPowers) == 0 && momentaryFilled == momentarySize {
		power := momentarySum / float64(momentarySize)
		momentaryPowers = append(momentaryPowers, power)
		momentaryMax = powerToLUFS(power)
	}

	return &MeterResult{
		Integrated:   gatedIntegrated(momentaryPowers),
		ShortTermMax: shortTermMax,
		MomentaryMax: momentaryMax,
		Range:        loudnessRange(shortTermPowers),
	}, nil
}

func powerToLUFS(power float64) float64 {
	if power <= 0 {
		return -120
	}

	return -0.691 + 10*math.Log10(power)
}

// gatedIntegrated applies the EBU R128 two-stage gate: absolute at -70 LUFS,
// then relative at -10 LU below the ungated mean.
func gatedIntegrated(powers []float64) float64 {
	if len(powers) == 0 {
		return -120
	}

	var (
		sum   float64
		count int
	)

	for _, p := range powers {
		if powerToLUFS(p) > -70 {
			sum += p
			count++
		}
	}

	if count == 0 {
		return -120
	}

	relativeThreshold := powerToLUFS(sum/float64(count)) - 10

	sum = 0
	count = 0

	for _, p := range powers {
		if powerToLUFS(p) > relativeThreshold {
			sum += p
			count++
		}
	}

	if count == 0 {
		return -120
	}

	return powerToLUFS(sum / float64(count))
}

// loudnessRange is the 95th minus 10th percentile of gated short-term values.
func loudnessRange(powers []float64) float64 {
	if len(powers) < 2 {
		return 0
	}

	var lufsValues []float64

	for _, p := range powers {
		if lufs := powerToLUFS(p); lufs > -70 {
			lufsValues = append(lufsValues, lufs)
		}
	}

	if len(lufsValues) < 2 {
		return 0
	}

	var sum float64
	for _, l := range lufsValues {
		sum += l
	}

	relativeThreshold := sum/float64(len(lufsValues)) - 20

	var gated []float64

	for _, l := range lufsValues {
		if l > relativeThreshold {
			gated = append(gated, l)
		}
	}

	if len(gated) < 2 {
		return 0
	}

	sort.Float64s(gated)
	low := gated[int(float64(len(gated))*0.10)]
	high := gated[int(float64(len(gated))*0.95)]

	return high - low
}
