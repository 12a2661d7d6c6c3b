package vodhub

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/dormhub/vodhub/internal/api"
	"github.com/dormhub/vodhub/internal/config"
	"github.com/dormhub/vodhub/internal/http"
	"github.com/dormhub/vodhub/pkg/catalog"
	"github.com/dormhub/vodhub/pkg/media"
	"github.com/dormhub/vodhub/pkg/vodcache"
)

var Service *Main

func init() {
	Service = &Main{
		ServerConfig:  &config.Server{},
		LibraryConfig: &config.Library{},
	}
}

type Main struct {
	ServerConfig  *config.Server
	LibraryConfig *config.Library

	logger     zerolog.Logger
	catalog    *catalog.ManagerCtx
	gateway    *media.GatewayCtx
	cache      *vodcache.ManagerCtx
	sweeper    *vodcache.SweeperCtx
	apiManager *api.ApiManagerCtx
	server     *http.HttpManagerCtx
}

func (main *Main) Preflight() {
	main.logger = log.With().Str("service", "main").Logger()
}

func (main *Main) Start() {
	lib := main.LibraryConfig

	main.catalog = catalog.New(&catalog.Config{
		MediaDir:    lib.MediaDir,
		SnapshotTTL: lib.SnapshotTTL,
	})
	main.catalog.Start()

	main.gateway = media.NewGateway(&media.Config{
		FFmpegBinary:   lib.FFmpegBinary,
		FFprobeBinary:  lib.FFprobeBinary,
		ConvertTimeout: lib.ConvertTimeout,
		SegmentLength:  lib.SegmentLength,
	})

	cacheConfig := &vodcache.Config{
		CacheDir:      lib.CacheDir,
		FreshFor:      lib.FreshFor,
		SweepInterval: lib.SweepInterval,
	}

	main.cache = vodcache.New(cacheConfig, main.catalog, main.gateway)

	main.sweeper = vodcache.NewSweeper(cacheConfig)
	main.sweeper.Start()

	main.apiManager = api.New(main.catalog, main.cache, lib.MediaDir)

	main.server = http.New(main.ServerConfig)
	main.server.Mount(main.apiManager.Mount)
	main.server.Start()
}

func (main *Main) Shutdown() {
	main.sweeper.Stop()
	main.catalog.Stop()

	if err := main.server.Shutdown(); err != nil {
		main.logger.Err(err).Msg("server shutdown with an error")
	} else {
		main.logger.Debug().Msg("server shutdown")
	}
}

func (main *Main) IngestCommand(cmd *cobra.Command, args []string) {
	lib := main.LibraryConfig

	inputPath := args[0]

	name := ""
	if len(args) > 1 {
		name = args[1]
	} else {
		base := filepath.Base(inputPath)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	library := catalog.New(&catalog.Config{
		MediaDir: lib.MediaDir,
	})

	assetDir, ok := library.AssetDir(name)
	if !ok {
		main.logger.Fatal().Str("name", name).Msg("invalid asset name")
	}

	if _, err := os.Stat(assetDir); err == nil {
		main.logger.Fatal().Str("name", name).Msg("asset already exists")
	}

	gateway := media.NewGateway(&media.Config{
		FFmpegBinary:   lib.FFmpegBinary,
		FFprobeBinary:  lib.FFprobeBinary,
		ConvertTimeout: lib.ConvertTimeout,
		SegmentLength:  lib.SegmentLength,
	})

	ctx := context.Background()

	data, err := gateway.Probe(ctx, inputPath)
	if err != nil {
		main.logger.Fatal().Err(err).Msg("unable to probe input")
	}
	if !data.HasVideo {
		main.logger.Fatal().Str("input", inputPath).Msg("input has no video stream")
	}

	main.logger.Info().
		Dur("duration", data.Duration).
		Strs("format", data.FormatName).
		Int("width", data.Width).
		Int("height", data.Height).
		Msg("probed input")

	// transcode into a staging dir so a failed run never leaves a half asset
	if err := os.MkdirAll(lib.MediaDir, 0755); err != nil {
		main.logger.Fatal().Err(err).Msg("unable to create media directory")
	}

	stagingDir, err := os.MkdirTemp(lib.MediaDir, ".ingest-*")
	if err != nil {
		main.logger.Fatal().Err(err).Msg("unable to create staging directory")
	}
	defer os.RemoveAll(stagingDir)

	if err := gateway.Segment(ctx, name, inputPath, stagingDir); err != nil {
		main.logger.Fatal().Err(err).Msg("ingest failed")
	}

	if err := os.Rename(stagingDir, assetDir); err != nil {
		main.logger.Fatal().Err(err).Msg("unable to move ingested asset into place")
	}

	main.logger.Info().Str("asset", name).Str("dir", assetDir).Msg("ingest complete")
}

func (main *Main) ServeCommand(cmd *cobra.Command, args []string) {
	main.logger.Info().Msg("starting main server")
	main.Start()
	main.logger.Info().Msg("main ready")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	sig := <-quit

	main.logger.Warn().Msgf("received %s, attempting graceful shutdown", sig)
	main.Shutdown()
	main.logger.Info().Msg("shutdown complete")
}
