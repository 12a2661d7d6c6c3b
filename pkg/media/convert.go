package media

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"path"
)

type RemuxConfig struct {
	InputFilePath  string // hls playlist of the source asset
	OutputFilePath string // single mp4 output
}

type SegmentConfig struct {
	InputFilePath string // raw video input
	OutputDirPath string // segments and playlist output path
	SegmentPrefix string // e.g. prefix-00001.ts
	SegmentLength float64
	PlaylistName  string // e.g. index.m3u8
}

// RemuxToMP4 copies all streams of a segmented asset into one contiguous mp4
// file, without re-encoding.
func RemuxToMP4(ctx context.Context, ffmpegBinary string, config RemuxConfig, stderr io.Writer) error {
	args := []string{
		"-y",
		"-loglevel", "warning",
		"-i", config.InputFilePath,
		"-c", "copy",
		"-bsf:a", "aac_adtstoasc", // adts -> mp4 audio packaging
		"-movflags", "+faststart",
		// the output lands on a temp path without a usable extension, so the
		// container must be explicit
		"-f", "mp4",
		config.OutputFilePath,
	}

	cmd := exec.CommandContext(ctx, ffmpegBinary, args...)
	cmd.Stderr = stderr

	return cmd.Run()
}

// SegmentToHLS transcodes a raw video file into a segmented hls asset with a
// vod playlist.
func SegmentToHLS(ctx context.Context, ffmpegBinary string, config SegmentConfig, stderr io.Writer) error {
	playlistName := config.PlaylistName
	if playlistName == "" {
		playlistName = "index.m3u8"
	}

	args := []string{
		"-y",
		"-loglevel", "warning",
		"-i", config.InputFilePath,

		// video specs
		"-c:v", "libx264",
		"-preset", "faster",
		"-profile:v", "high",
		"-level:v", "4.0",

		// audio specs
		"-c:a", "aac",

		"-sn", // no subtitles

		// segmenting specs
		"-f", "hls",
		"-hls_time", fmt.Sprintf("%.2f", config.SegmentLength),
		"-hls_playlist_type", "vod",
		"-hls_list_size", "0",
		"-hls_segment_filename", path.Join(config.OutputDirPath, fmt.Sprintf("%s-%%05d.ts", config.SegmentPrefix)),
		path.Join(config.OutputDirPath, playlistName),
	}

	cmd := exec.CommandContext(ctx, ffmpegBinary, args...)
	cmd.Stderr = stderr

	return cmd.Run()
}
