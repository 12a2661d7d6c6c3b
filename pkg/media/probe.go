package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

type ProbeMediaData struct {
	FormatName []string
	Duration   time.Duration

	HasVideo bool
	Width    int
	Height   int
}

// ProbeMedia asks ffprobe for container information about a media file.
func ProbeMedia(ctx context.Context, ffprobeBinary string, inputFilePath string) (*ProbeMediaData, error) {
	args := []string{
		"-v", "error", // hide debug information
		"-show_format",  // container information
		"-show_streams", // codec information
		"-of", "json",
		inputFilePath,
	}

	cmd := exec.CommandContext(ctx, ffprobeBinary, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	out := struct {
		Streams []struct {
			CodecType string `json:"codec_type"`
			Width     int    `json:"width"`
			Height    int    `json:"height"`
		} `json:"streams"`
		Format struct {
			FormatName string `json:"format_name"`
			Duration   string `json:"duration"`
		} `json:"format"`
	}{}

	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		return nil, err
	}

	data := ProbeMediaData{}
	for _, stream := range out.Streams {
		if stream.CodecType == "video" && !data.HasVideo {
			data.HasVideo = true
			data.Width = stream.Width
			data.Height = stream.Height
		}
	}

	if out.Format.FormatName != "" {
		data.FormatName = strings.Split(out.Format.FormatName, ",")
	}

	if out.Format.Duration != "" {
		duration, err := time.ParseDuration(out.Format.Duration + "s")
		if err != nil {
			return nil, fmt.Errorf("unable to parse format duration: %w", err)
		}
		data.Duration = duration
	}

	return &data, nil
}
