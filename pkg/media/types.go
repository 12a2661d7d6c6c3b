package media

import (
	"fmt"
	"time"
)

type Operation string

const (
	OpRemux   Operation = "remux"   // stream segments -> single mp4, stream copy
	OpSegment Operation = "segment" // raw file -> segmented hls + vod playlist
)

type Config struct {
	FFmpegBinary  string
	FFprobeBinary string

	ConvertTimeout time.Duration // upper bound for a single ffmpeg run
	SegmentLength  float64       // seconds per hls segment
}

func (c Config) withDefaultValues() Config {
	if c.FFmpegBinary == "" {
		c.FFmpegBinary = "ffmpeg"
	}
	if c.FFprobeBinary == "" {
		c.FFprobeBinary = "ffprobe"
	}
	if c.ConvertTimeout == 0 {
		c.ConvertTimeout = 10 * time.Minute
	}
	if c.SegmentLength == 0 {
		c.SegmentLength = 10
	}
	return c
}

type ConversionError struct {
	Asset   string
	Op      Operation
	Err     error
	Output  string // truncated stderr excerpt
	Timeout bool
}

func (e *ConversionError) Error() string {
	verb := "failed"
	if e.Timeout {
		verb = "timed out"
	}

	msg := fmt.Sprintf("conversion of %q (%s) %s: %v", e.Asset, e.Op, verb, e.Err)
	if e.Output != "" {
		msg += ": " + e.Output
	}
	return msg
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}
