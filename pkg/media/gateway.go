package media

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dormhub/vodhub/internal/metrics"
	"github.com/dormhub/vodhub/internal/utils"
)

// how much of the process stderr is kept for error reports
const stderrTailLimit = 4 * 1024

type GatewayCtx struct {
	logger zerolog.Logger
	config Config
}

func NewGateway(config *Config) *GatewayCtx {
	return &GatewayCtx{
		logger: log.With().Str("module", "media").Str("submodule", "gateway").Logger(),
		config: config.withDefaultValues(),
	}
}

// Remux repackages a segmented asset into a single mp4 at outputPath. The
// process is bounded by the configured conversion timeout, not by ctx
// cancellation alone.
func (g *GatewayCtx) Remux(ctx context.Context, asset string, playlistPath string, outputPath string) error {
	return g.run(ctx, asset, OpRemux, func(ctx context.Context, stderr io.Writer) error {
		return RemuxToMP4(ctx, g.config.FFmpegBinary, RemuxConfig{
			InputFilePath:  playlistPath,
			OutputFilePath: outputPath,
		}, stderr)
	})
}

// Segment transcodes a raw video file into a segmented asset under outputDir.
func (g *GatewayCtx) Segment(ctx context.Context, asset string, inputPath string, outputDir string) error {
	return g.run(ctx, asset, OpSegment, func(ctx context.Context, stderr io.Writer) error {
		return SegmentToHLS(ctx, g.config.FFmpegBinary, SegmentConfig{
			InputFilePath: inputPath,
			OutputDirPath: outputDir,
			SegmentPrefix: asset,
			SegmentLength: g.config.SegmentLength,
		}, stderr)
	})
}

// Probe returns container metadata of a raw video file.
func (g *GatewayCtx) Probe(ctx context.Context, inputPath string) (*ProbeMediaData, error) {
	return ProbeMedia(ctx, g.config.FFprobeBinary, inputPath)
}

func (g *GatewayCtx) run(ctx context.Context, asset string, op Operation, fn func(ctx context.Context, stderr io.Writer) error) error {
	id := uuid.NewString()
	logger := g.logger.With().
		Str("id", id).
		Str("asset", asset).
		Str("operation", string(op)).
		Logger()

	ctx, cancel := context.WithTimeout(ctx, g.config.ConvertTimeout)
	defer cancel()

	tail := utils.TailBuffer(stderrTailLimit)
	stderr := io.MultiWriter(utils.LogWriter(logger), tail)

	logger.Info().Msg("conversion started")

	if err := fn(ctx, stderr); err != nil {
		timeout := ctx.Err() == context.DeadlineExceeded
		logger.Err(err).Bool("timeout", timeout).Msg("conversion failed")
		metrics.ConversionsTotal.WithLabelValues(string(op), "failure").Inc()

		return &ConversionError{
			Asset:   asset,
			Op:      op,
			Err:     err,
			Output:  tail.String(),
			Timeout: timeout,
		}
	}

	logger.Info().Msg("conversion finished")
	metrics.ConversionsTotal.WithLabelValues(string(op), "success").Inc()
	return nil
}
