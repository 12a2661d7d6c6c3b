package vodcache

import (
	"context"
	"errors"
	"time"
)

// ErrAssetNotReady is returned when the requested asset is unknown or has no
// manifest in the current library state.
var ErrAssetNotReady = errors.New("asset is not stream-ready")

// Converter produces a single-file artifact from a segmented asset.
type Converter interface {
	Remux(ctx context.Context, asset string, playlistPath string, outputPath string) error
}

// Library answers whether an asset is stream-ready right now.
type Library interface {
	PlaylistPath(name string) (string, bool)
}

type Config struct {
	CacheDir string

	FreshFor      time.Duration // max age at which an artifact is reused
	SweepInterval time.Duration // how often the retention sweep runs

	ArtifactExt string
}

func (c Config) withDefaultValues() Config {
	if c.FreshFor == 0 {
		c.FreshFor = time.Hour
	}
	if c.SweepInterval == 0 {
		c.SweepInterval = time.Hour
	}
	if c.ArtifactExt == "" {
		c.ArtifactExt = ".mp4"
	}
	return c
}
