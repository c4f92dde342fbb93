package ffmpeg

import "time"

const (
	name = "ffmpeg"
	// Decoding a full-length track through a pipe; generous for slow storage.
	timeout = 120 * time.Second
)
