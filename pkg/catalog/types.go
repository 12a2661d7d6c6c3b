package catalog

import (
	"time"
)

type Asset struct {
	Name           string    `json:"name"`
	TotalSizeBytes int64     `json:"totalSizeBytes"`
	LastModified   time.Time `json:"lastModified"`
	StreamReady    bool      `json:"isStreamReady"`
}

type Config struct {
	MediaDir     string
	PlaylistName string   // manifest expected inside every stream-ready asset
	VideoExts    []string // plain files with these extensions are catalogued too

	SnapshotTTL time.Duration // how long a built snapshot is reused
}

func (c Config) withDefaultValues() Config {
	if c.PlaylistName == "" {
		c.PlaylistName = "index.m3u8"
	}
	if len(c.VideoExts) == 0 {
		c.VideoExts = []string{".mp4", ".mkv", ".webm", ".mov", ".avi", ".m4v"}
	}
	if c.SnapshotTTL == 0 {
		c.SnapshotTTL = 2 * time.Second
	}
	return c
}
