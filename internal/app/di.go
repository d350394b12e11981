package app

import (
	"log/slog"
	"os"

	"github.com/google/wire"

	"fxi-data/internal/cache"
	"fxi-data/internal/calendar"
	"fxi-data/internal/paths"
	"fxi-data/internal/pipeline"
	"fxi-data/internal/provider"
	"fxi-data/internal/saver"
	"fxi-data/internal/slogx"
)

// Verbosity is the number of -v flags given on the command line.
type Verbosity int

// ProviderSet builds an App from a Verbosity (for Wire).
var ProviderSet = wire.NewSet(
	ProvideConfig,
	ProvideLogger,
	ProvideZone,
	ProvidePathCache,
	ProvideResolver,
	ProvideFileSource,
	wire.Bind(new(provider.BarSource), new(*provider.FileSource)),
	ProvideReader,
	ProvidePublisher,
	ProvideMetrics,
	ProvideRunner,
	wire.Struct(new(App), "*"),
)

// ProvideConfig loads config from environment (for Wire).
func ProvideConfig() (*Config, error) {
	return LoadConfig()
}

// ProvideLogger creates the stderr logger and installs it as default. A
// non-zero verbosity overrides the configured level.
func ProvideLogger(cfg *Config, v Verbosity) *slog.Logger {
	level := slogx.VerbosityLevel(int(v), slogx.ParseLevel(cfg.LogLevel))
	logger := slogx.New(os.Stderr, level)
	slog.SetDefault(logger)
	return logger
}

// ProvideZone loads the FXT reference zone (for Wire).
func ProvideZone(cfg *Config) (*calendar.Zone, error) {
	return calendar.NewZone(cfg.Timezone, cfg.FXTOffset)
}

// ProvidePathCache creates the bounded resolution cache (for Wire).
func ProvidePathCache(cfg *Config) *cache.FIFO[paths.Key, string] {
	return cache.New[paths.Key, string](cfg.PathCacheSize)
}

// ProvideResolver roots path resolution at DataDir (for Wire).
func ProvideResolver(cfg *Config, c *cache.FIFO[paths.Key, string]) *paths.Resolver {
	return paths.New(cfg.DataDir, c)
}

// ProvideFileSource opens the on-disk source history (for Wire).
// The returned cleanup closes the decoder.
func ProvideFileSource(r *paths.Resolver, logger *slog.Logger) (*provider.FileSource, func(), error) {
	src, err := provider.NewFileSource(r)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := src.Close(); err != nil {
			logger.Warn("close source", "provider", src.GetName(), "error", err)
		}
	}
	return src, cleanup, nil
}

// ProvideReader wires the bar reader over src (for Wire).
func ProvideReader(src provider.BarSource, logger *slog.Logger) *provider.Reader {
	return provider.NewReader(src, logger)
}

// ProvidePublisher creates the target publisher (for Wire).
func ProvidePublisher(r *paths.Resolver) *saver.Publisher {
	return saver.NewPublisher(r)
}

// ProvideMetrics creates the run metrics (for Wire).
func ProvideMetrics(cfg *Config) *Metrics {
	return NewMetrics(cfg.MetricsFile)
}

// ProvideRunner wires the pipeline (for Wire).
func ProvideRunner(reader *provider.Reader, pub *saver.Publisher, m *Metrics, logger *slog.Logger) *pipeline.Runner {
	return pipeline.NewRunner(reader, pub, calendar.Weekend{}, m, logger)
}
