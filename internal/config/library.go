package config

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type Library struct {
	MediaDir string
	CacheDir string

	FFmpegBinary  string
	FFprobeBinary string

	FreshFor       time.Duration
	SweepInterval  time.Duration
	ConvertTimeout time.Duration
	SegmentLength  float64
	SnapshotTTL    time.Duration
}

func (Library) Init(cmd *cobra.Command) error {
	cmd.PersistentFlags().String("media-dir", "./hls", "directory tree holding stream-ready assets")
	if err := viper.BindPFlag("media-dir", cmd.PersistentFlags().Lookup("media-dir")); err != nil {
		return err
	}

	cmd.PersistentFlags().String("cache-dir", "./cache", "directory holding derived single-file artifacts")
	if err := viper.BindPFlag("cache-dir", cmd.PersistentFlags().Lookup("cache-dir")); err != nil {
		return err
	}

	cmd.PersistentFlags().String("ffmpeg-binary", "ffmpeg", "path to the ffmpeg binary")
	if err := viper.BindPFlag("ffmpeg-binary", cmd.PersistentFlags().Lookup("ffmpeg-binary")); err != nil {
		return err
	}

	cmd.PersistentFlags().String("ffprobe-binary", "ffprobe", "path to the ffprobe binary")
	if err := viper.BindPFlag("ffprobe-binary", cmd.PersistentFlags().Lookup("ffprobe-binary")); err != nil {
		return err
	}

	cmd.PersistentFlags().Duration("fresh-for", time.Hour, "max age at which a derived artifact is reused")
	if err := viper.BindPFlag("fresh-for", cmd.PersistentFlags().Lookup("fresh-for")); err != nil {
		return err
	}

	cmd.PersistentFlags().Duration("sweep-interval", time.Hour, "how often expired artifacts are swept")
	if err := viper.BindPFlag("sweep-interval", cmd.PersistentFlags().Lookup("sweep-interval")); err != nil {
		return err
	}

	cmd.PersistentFlags().Duration("convert-timeout", 10*time.Minute, "upper bound for a single conversion")
	if err := viper.BindPFlag("convert-timeout", cmd.PersistentFlags().Lookup("convert-timeout")); err != nil {
		return err
	}

	cmd.PersistentFlags().Float64("segment-length", 10, "hls segment length in seconds used by ingest")
	if err := viper.BindPFlag("segment-length", cmd.PersistentFlags().Lookup("segment-length")); err != nil {
		return err
	}

	cmd.PersistentFlags().Duration("snapshot-ttl", 2*time.Second, "how long a built catalog snapshot is reused")
	if err := viper.BindPFlag("snapshot-ttl", cmd.PersistentFlags().Lookup("snapshot-ttl")); err != nil {
		return err
	}

	return nil
}

func (l *Library) Set() {
	l.MediaDir = viper.GetString("media-dir")
	l.CacheDir = viper.GetString("cache-dir")
	l.FFmpegBinary = viper.GetString("ffmpeg-binary")
	l.FFprobeBinary = viper.GetString("ffprobe-binary")
	l.FreshFor = viper.GetDuration("fresh-for")
	l.SweepInterval = viper.GetDuration("sweep-interval")
	l.ConvertTimeout = viper.GetDuration("convert-timeout")
	l.SegmentLength = viper.GetFloat64("segment-length")
	l.SnapshotTTL = viper.GetDuration("snapshot-ttl")
}
