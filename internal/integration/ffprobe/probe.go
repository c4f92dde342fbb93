//nolint:tagliatelle
package ffprobe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"

	"github.com/farcloser/primordium/fault"

	"github.com/soundry/mixdoctor/internal/integration/binary"
	"github.com/soundry/mixdoctor/internal/types"
)

var ErrNoAudioStream = errors.New("no audio stream in file")

// Result contains the marshalled output of ffprobe.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream describes one stream in the container. Only audio-relevant fields
// are kept.
type Stream struct {
	Index            int    `json:"index"`
	CodecName        string `json:"codec_name"`                    // flac
	CodecType        string `json:"codec_type"`                    // audio
	SampleRate       string `json:"sample_rate,omitempty"`         // 44100
	Channels         int    `json:"channels,omitempty"`            // 2
	ChannelLayout    string `json:"channel_layout,omitempty"`      // stereo
	Duration         string `json:"duration,omitempty"`            // 310.666667
	BitRate          string `json:"bit_rate,omitempty"`            // 956821
	SampleFmt        string `json:"sample_fmt,omitempty"`          // s16
	BitsPerSample    int    `json:"bits_per_sample,omitempty"`     // container-reported, often 0 for flac
	BitsPerRawSample string `json:"bits_per_raw_sample,omitempty"` // codec-reported, most reliable for flac
}

// Format represents container-level information.
type Format struct {
	Filename   string `json:"filename"`
	NbStreams  int    `json:"nb_streams"`
	FormatName string `json:"format_name"`        // e.g. "flac", "mov,mp4,m4a,3gp,3g2,mj2"
	Duration   string `json:"duration,omitempty"` // seconds as float string
	BitRate    string `json:"bit_rate,omitempty"`
	Size       string `json:"size,omitempty"`
	ProbeScore int    `json:"probe_score"` // format detection confidence, 100 = certain
}

// Probe runs ffprobe on the given file path and returns parsed metadata.
// It requires ffprobe to be available in the system PATH.
func Probe(ctx context.Context, filePath string) (*Result, error) {
	slog.Debug("ffprobe.Probe", "file path", filePath)

	ffprobePath, err := binary.Resolve(name)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	//nolint:gosec // filePath is intentionally user-provided input for probing media files
	cmd := exec.CommandContext(ctx, ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		filePath,
	)

	var stderr bytes.Buffer

	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: after %v", fault.ErrTimeout, timeout)
		}

		return nil, fmt.Errorf("%w: %s: %w", fault.ErrCommandFailure, stderr.String(), err)
	}

	var result Result
	if err = json.Unmarshal(output, &result); err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrInvalidJSON, err)
	}

	return &result, nil
}

// AudioStream returns the first audio stream, or ErrNoAudioStream.
func (r *Result) AudioStream() (*Stream, error) {
	for i := range r.Streams {
		if r.Streams[i].CodecType == "audio" {
			return &r.Streams[i], nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrNoAudioStream, r.Format.Filename)
}

// PCMFormat derives the decode format for a stream. Lossy codecs carry no
// bit depth; those decode at 32 bits to preserve full precision.
func (s *Stream) PCMFormat() (types.PCMFormat, error) {
	rate, err := strconv.Atoi(s.SampleRate)
	if err != nil || rate <= 0 {
		return types.PCMFormat{}, fmt.Errorf("%w: sample rate %q", fault.ErrInvalidJSON, s.SampleRate)
	}

	depth := types.Depth32

	switch {
	case s.BitsPerRawSample != "":
		if raw, convErr := strconv.Atoi(s.BitsPerRawSample); convErr == nil {
			depth = clampDepth(raw)
		}
	case s.BitsPerSample > 0:
		depth = clampDepth(s.BitsPerSample)
	}

	channels := s.Channels
	if channels > 2 {
		// Extraction downmixes multichannel sources to stereo.
		channels = 2
	}

	return types.PCMFormat{
		SampleRate: rate,
		BitDepth:   depth,
		Channels:   uint(channels),
	}, nil
}

func clampDepth(bits int) types.BitDepth {
	switch {
	case bits <= 16:
		return types.Depth16
	case bits <= 24:
		return types.Depth24
	default:
		return types.Depth32
	}
}
