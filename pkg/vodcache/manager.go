package vodcache

import (
	"context"
	"os"
	"path"
	"time"

	"github.com/google/renameio/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/dormhub/vodhub/internal/metrics"
)

type ManagerCtx struct {
	logger    zerolog.Logger
	config    Config
	library   Library
	converter Converter

	// coalesces concurrent regenerations of the same asset, so at most one
	// converter invocation per output path is in flight
	group singleflight.Group
}

func New(config *Config, library Library, converter Converter) *ManagerCtx {
	return &ManagerCtx{
		logger:    log.With().Str("module", "vodcache").Str("submodule", "manager").Logger(),
		config:    config.withDefaultValues(),
		library:   library,
		converter: converter,
	}
}

// ArtifactPath is the deterministic location of the derived artifact for an
// asset name.
func (m *ManagerCtx) ArtifactPath(name string) string {
	return path.Join(m.config.CacheDir, name+m.config.ArtifactExt)
}

// GetOrCreate returns the path of a fresh derived artifact for the asset,
// regenerating it through the converter when missing or stale. Concurrent
// callers for the same asset share one regeneration and its result.
func (m *ManagerCtx) GetOrCreate(ctx context.Context, name string) (string, error) {
	playlistPath, ok := m.library.PlaylistPath(name)
	if !ok {
		return "", ErrAssetNotReady
	}

	outputPath := m.ArtifactPath(name)

	if m.isFresh(outputPath) {
		metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
		return outputPath, nil
	}

	if _, err := os.Stat(outputPath); err == nil {
		metrics.CacheLookupsTotal.WithLabelValues("stale").Inc()
	} else {
		metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
	}

	_, err, _ := m.group.Do(name, func() (interface{}, error) {
		// a flight we joined late may have produced the artifact already
		if m.isFresh(outputPath) {
			return nil, nil
		}

		// the conversion outlives a disconnecting requester so the artifact
		// still lands in the cache for the next one
		if err := m.regenerate(context.WithoutCancel(ctx), name, playlistPath, outputPath); err != nil {
			return nil, err
		}

		m.logger.Debug().Str("asset", name).Msg("artifact regenerated")
		return nil, nil
	})

	if err != nil {
		return "", err
	}

	return outputPath, nil
}

func (m *ManagerCtx) isFresh(artifactPath string) bool {
	info, err := os.Stat(artifactPath)
	if err != nil {
		return false
	}

	return time.Since(info.ModTime()) < m.config.FreshFor
}

// regenerate runs the converter against a pending temp file and atomically
// replaces the canonical path on success, so readers never observe a
// half-written artifact.
func (m *ManagerCtx) regenerate(ctx context.Context, name string, playlistPath string, outputPath string) error {
	if err := os.MkdirAll(m.config.CacheDir, 0755); err != nil {
		return err
	}

	pending, err := renameio.NewPendingFile(outputPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := pending.Cleanup(); err != nil {
			m.logger.Debug().Err(err).Msg("cleanup pending artifact")
		}
	}()

	if err := m.converter.Remux(ctx, name, playlistPath, pending.Name()); err != nil {
		return err
	}

	return pending.CloseAtomicallyReplace()
}
