// Package wave holds the decoded waveform passed to every analyzer.
//
// A Buffer is built exactly once per analysis run, from interleaved PCM, and
// is read-only from then on. Analyzers receive the same Buffer concurrently,
// so nothing in this package mutates it after construction.
package wave

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/soundry/mixdoctor/internal/types"
)

var (
	ErrNoSamples       = errors.New("no complete frames in PCM data")
	ErrChannelCount    = errors.New("unsupported channel count")
	ErrUnknownBitDepth = errors.New("unsupported bit depth")
)

// Buffer is a decoded waveform: one or two channels of normalized
// float64 samples in [-1, 1], plus the sample rate.
type Buffer struct {
	Left       []float64
	Right      []float64 // nil for mono
	SampleRate int

	mono []float64 // precomputed downmix; aliases Left for mono input
}

// IsStereo reports whether the buffer carries two channels.
func (b *Buffer) IsStereo() bool {
	return b.Right != nil
}

// Frames returns the per-channel sample count.
func (b *Buffer) Frames() int {
	return len(b.Left)
}

// Duration returns the buffer length in seconds.
func (b *Buffer) Duration() float64 {
	if b.SampleRate == 0 {
		return 0
	}

	return float64(len(b.Left)) / float64(b.SampleRate)
}

// Mono returns the mono downmix: (L+R)/2 for stereo, the single channel
// otherwise. The slice is shared; callers must not write to it.
func (b *Buffer) Mono() []float64 {
	return b.mono
}

// New builds a Buffer from already-decoded channels. right may be nil.
// Used by tests and by callers that synthesize signals directly.
func New(left, right []float64, sampleRate int) *Buffer {
	buf := &Buffer{
		Left:       left,
		Right:      right,
		SampleRate: sampleRate,
	}

	if right == nil {
		buf.mono = left

		return buf
	}

	n := min(len(left), len(right))
	buf.mono = make([]float64, n)

	for i := range n {
		buf.mono[i] = (left[i] + right[i]) / 2
	}

	return buf
}

// FromPCM decodes interleaved little-endian signed PCM into a Buffer.
// Only mono and stereo are supported; multichannel sources are expected to
// be downmixed during extraction.
func FromPCM(data []byte, format types.PCMFormat) (*Buffer, error) {
	numChannels := int(format.Channels)
	if numChannels < 1 || numChannels > 2 {
		return nil, fmt.Errorf("%w: %d", ErrChannelCount, numChannels)
	}

	bytesPerSample := int(format.BitDepth / 8)
	frameSize := bytesPerSample * numChannels

	if frameSize == 0 {
		return nil, fmt.Errorf("%w: %d", ErrUnknownBitDepth, format.BitDepth)
	}

	frames := len(data) / frameSize
	if frames == 0 {
		return nil, ErrNoSamples
	}

	data = data[:frames*frameSize]

	channels := make([][]float64, numChannels)
	for ch := range channels {
		channels[ch] = make([]float64, frames)
	}

	switch format.BitDepth {
	case types.Depth16:
		for f := range frames {
			base := f * frameSize
			for ch := range numChannels {
				sample := int16(binary.LittleEndian.Uint16(data[base+ch*2:]))
				channels[ch][f] = float64(sample) / types.MaxValue16
			}
		}
	case types.Depth24:
		for f := range frames {
			base := f * frameSize
			for ch := range numChannels {
				offset := base + ch*3

				raw := int32(data[offset]) | int32(data[offset+1])<<8 | int32(data[offset+2])<<16
				if raw&0x800000 != 0 {
					raw |= ^0xFFFFFF
				}

				channels[ch][f] = float64(raw) / types.MaxValue24
			}
		}
	case types.Depth32:
		for f := range frames {
			base := f * frameSize
			for ch := range numChannels {
				sample := int32(binary.LittleEndian.Uint32(data[base+ch*4:]))
				channels[ch][f] = float64(sample) / types.MaxValue32
			}
		}
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownBitDepth, format.BitDepth)
	}

	if numChannels == 1 {
		return New(channels[0], nil, format.SampleRate), nil
	}

	return New(channels[0], channels[1], format.SampleRate), nil
}
