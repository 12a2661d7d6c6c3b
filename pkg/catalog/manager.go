package catalog

import (
	"fmt"
	"os"
	"path"
	"regexp"

	"github.com/jellydator/ttlcache/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dormhub/vodhub/internal/metrics"
)

const snapshotKey = "catalog"

// asset names can come from request input, so they must stay a single,
// non-hidden path element
var nameRegex = regexp.MustCompile(`^[0-9A-Za-z][0-9A-Za-z ._-]*$`)

type ManagerCtx struct {
	logger zerolog.Logger
	config Config

	snapshots *ttlcache.Cache[string, []Asset]
}

func New(config *Config) *ManagerCtx {
	conf := config.withDefaultValues()

	return &ManagerCtx{
		logger: log.With().Str("module", "catalog").Logger(),
		config: conf,
		snapshots: ttlcache.New(
			ttlcache.WithTTL[string, []Asset](conf.SnapshotTTL),
			ttlcache.WithDisableTouchOnHit[string, []Asset](),
		),
	}
}

func (m *ManagerCtx) Start() {
	go m.snapshots.Start()
}

func (m *ManagerCtx) Stop() {
	m.snapshots.Stop()
}

// Assets returns the current catalog snapshot. Snapshots are immutable and
// rebuilt wholesale; a snapshot younger than the configured TTL is reused.
func (m *ManagerCtx) Assets() ([]Asset, error) {
	if item := m.snapshots.Get(snapshotKey); item != nil {
		return item.Value(), nil
	}

	assets, err := m.scan()
	if err != nil {
		metrics.CatalogBuildsTotal.WithLabelValues("failure").Inc()
		return nil, fmt.Errorf("catalog unavailable: %w", err)
	}

	m.snapshots.Set(snapshotKey, assets, ttlcache.DefaultTTL)
	metrics.CatalogBuildsTotal.WithLabelValues("success").Inc()

	m.logger.Debug().Int("assets", len(assets)).Msg("catalog rebuilt")
	return assets, nil
}

// PlaylistPath reports whether the named asset is stream-ready right now and
// returns the path of its manifest.
func (m *ManagerCtx) PlaylistPath(name string) (string, bool) {
	if !nameRegex.MatchString(name) {
		return "", false
	}

	playlistPath := path.Join(m.config.MediaDir, name, m.config.PlaylistName)
	if _, err := os.Stat(playlistPath); err != nil {
		return "", false
	}

	return playlistPath, true
}

// AssetDir returns the directory a stream-ready asset of that name would
// occupy, without checking for its existence. Used by ingest.
func (m *ManagerCtx) AssetDir(name string) (string, bool) {
	if !nameRegex.MatchString(name) {
		return "", false
	}

	return path.Join(m.config.MediaDir, name), true
}
