package ffprobe

import "time"

const (
	name = "ffprobe"
	// Generous: probing network mounts or drives spinning up can stall.
	timeout = 60 * time.Second
)
