package vodcache

import (
	"os"
	"path"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dormhub/vodhub/internal/metrics"
)

// SweeperCtx periodically deletes derived artifacts past the freshness
// threshold. It shares no in-memory state with the cache manager, file
// timestamps are the single source of truth.
type SweeperCtx struct {
	logger zerolog.Logger
	config Config

	mu       sync.Mutex
	running  bool
	shutdown chan struct{}
}

func NewSweeper(config *Config) *SweeperCtx {
	return &SweeperCtx{
		logger: log.With().Str("module", "vodcache").Str("submodule", "sweeper").Logger(),
		config: config.withDefaultValues(),
	}
}

func (s *SweeperCtx) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	// if already running
	if s.running {
		return
	}

	s.running = true
	s.shutdown = make(chan struct{})

	go func() {
		s.logger.Debug().Msg("sweeper started")

		ticker := time.NewTicker(s.config.SweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-s.shutdown:
				return
			case <-ticker.C:
				s.Sweep()
			}
		}
	}()
}

func (s *SweeperCtx) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	// if not running
	if !s.running {
		return
	}

	s.running = false
	close(s.shutdown)

	s.logger.Debug().Msg("sweeper stopped")
}

// Sweep removes every expired artifact in the cache directory. A failure on
// one file is logged and skipped, it never aborts the rest of the sweep.
func (s *SweeperCtx) Sweep() {
	entries, err := os.ReadDir(s.config.CacheDir)
	if err != nil {
		s.logger.Warn().Err(err).Msg("unable to read cache directory")
		return
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			s.logger.Warn().Err(err).Str("entry", entry.Name()).Msg("sweep entry skipped")
			continue
		}

		if time.Since(info.ModTime()) <= s.config.FreshFor {
			continue
		}

		artifactPath := path.Join(s.config.CacheDir, entry.Name())
		if err := os.Remove(artifactPath); err != nil {
			s.logger.Warn().Err(err).Str("path", artifactPath).Msg("sweep entry skipped")
			continue
		}

		metrics.SweepRemovedTotal.Inc()
		removed++
	}

	s.logger.Info().Int("removed", removed).Msg("sweep finished")
}
