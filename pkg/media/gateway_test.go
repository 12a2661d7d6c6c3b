package media

import (
	"context"
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRemux_MissingBinary(t *testing.T) {
	outputPath := path.Join(t.TempDir(), "movie_a.mp4")

	gateway := NewGateway(&Config{
		FFmpegBinary: path.Join(t.TempDir(), "no-such-ffmpeg"),
	})

	err := gateway.Remux(context.Background(), "movie_a", "/media/movie_a/index.m3u8", outputPath)
	require.Error(t, err)

	var convErr *ConversionError
	require.ErrorAs(t, err, &convErr)
	require.Equal(t, "movie_a", convErr.Asset)
	require.Equal(t, OpRemux, convErr.Op)
	require.False(t, convErr.Timeout)

	// a failed start must not create anything at the output path
	_, err = os.Stat(outputPath)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestSegment_MissingBinary(t *testing.T) {
	gateway := NewGateway(&Config{
		FFmpegBinary: path.Join(t.TempDir(), "no-such-ffmpeg"),
	})

	err := gateway.Segment(context.Background(), "clip", "/uploads/clip.mov", t.TempDir())

	var convErr *ConversionError
	require.ErrorAs(t, err, &convErr)
	require.Equal(t, OpSegment, convErr.Op)
}

func TestConversionError_Format(t *testing.T) {
	err := &ConversionError{
		Asset: "movie_a",
		Op:    OpRemux,
		Err:   os.ErrNotExist,
	}
	require.Contains(t, err.Error(), `"movie_a"`)
	require.Contains(t, err.Error(), "remux")
	require.ErrorIs(t, err, os.ErrNotExist)

	// the captured stderr excerpt must travel with the message
	err.Output = "index.m3u8: Invalid data found when processing input"
	require.Contains(t, err.Error(), "Invalid data found")

	err.Timeout = true
	require.Contains(t, err.Error(), "timed out")
	require.Contains(t, err.Error(), "Invalid data found")
}

func TestConfig_Defaults(t *testing.T) {
	conf := Config{}.withDefaultValues()
	require.Equal(t, "ffmpeg", conf.FFmpegBinary)
	require.Equal(t, "ffprobe", conf.FFprobeBinary)
	require.NotZero(t, conf.ConvertTimeout)
	require.EqualValues(t, 10, conf.SegmentLength)
}
