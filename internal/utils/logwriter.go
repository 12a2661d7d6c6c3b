package utils

import (
	"strings"

	"github.com/rs/zerolog"
)

// LogWriterCtx forwards converter process output to a zerolog logger, one log
// event per line, so child process diagnostics land in the service stream.
type LogWriterCtx struct {
	logger zerolog.Logger
}

func LogWriter(logger zerolog.Logger) *LogWriterCtx {
	return &LogWriterCtx{
		logger: logger,
	}
}

func (l *LogWriterCtx) Write(p []byte) (n int, err error) {
	for _, line := range strings.Split(string(p), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		l.logger.Warn().Msg(line)
	}
	return len(p), nil
}
