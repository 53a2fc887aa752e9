package otel

import (
	"context"
	"io"

	"github.com/bravo68web/repodash/internal/config"
	"github.com/bravo68web/repodash/pkg/logger"
)

// NewLogger builds the process logger from configuration. Local output
// always stays on; when OTEL is enabled entries are also exported.
func NewLogger(ctx context.Context, cfg *config.Config, version string) (*logger.Logger, error) {
	logCfg := logger.DefaultConfig()
	logCfg.Level = cfg.Logging.Level
	logCfg.Format = cfg.Logging.Format
	logCfg.FilePath = cfg.Logging.FilePath
	logCfg.Development = cfg.IsDevelopment()
	logCfg.Output = logger.OutputType(cfg.Logging.Output)
	if logCfg.Output == logger.OutputOTEL {
		logCfg.Output = logger.OutputConsole
	}

	local, closer := logger.LocalCore(logCfg)
	var closers []io.Closer
	if closer != nil {
		closers = append(closers, closer)
	}

	exportLogs := cfg.OTEL.Enabled || logger.OutputType(cfg.Logging.Output) == logger.OutputOTEL
	if !exportLogs {
		return logger.NewWithCore(logCfg, local, closers...), nil
	}

	otelCfg := cfg.OTEL
	otelCfg.Enabled = true
	provider, err := NewProvider(ctx, &otelCfg, version)
	if err != nil {
		for _, c := range closers {
			_ = c.Close()
		}
		return nil, err
	}

	core := Tee(local, provider, logger.ParseLevel(cfg.Logging.Level))
	return logger.NewWithCore(logCfg, core, append(closers, provider)...), nil
}
