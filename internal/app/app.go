// Package app wires configuration, logging and the pipeline components
// and implements the command operations on top of them.
package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"fxi-data/internal/calendar"
	"fxi-data/internal/history"
	"fxi-data/internal/index"
	"fxi-data/internal/model"
	"fxi-data/internal/paths"
	"fxi-data/internal/pipeline"
	"fxi-data/internal/saver"
)

// App holds application dependencies built by Wire.
type App struct {
	Config    *Config
	Logger    *slog.Logger
	Zone      *calendar.Zone
	Paths     *paths.Resolver
	Publisher *saver.Publisher
	Metrics   *Metrics
	Runner    *pipeline.Runner
}

// UpdateOptions are the update command arguments.
type UpdateOptions struct {
	Symbols []string
	From    time.Time
	Resume  bool
	Now     time.Time // defaults to time.Now
}

// ResolveSymbols upper-cases, de-duplicates and looks up symbols. Any
// unknown symbol fails the whole list.
func ResolveSymbols(symbols []string) ([]index.Definition, error) {
	if len(symbols) == 0 {
		return nil, fmt.Errorf("%w: no symbols given", model.ErrInvalidArgument)
	}
	seen := make(map[string]bool, len(symbols))
	var defs []index.Definition
	for _, s := range symbols {
		def, err := index.Lookup(s)
		if err != nil {
			return nil, err
		}
		if seen[def.Symbol] {
			continue
		}
		seen[def.Symbol] = true
		defs = append(defs, def)
	}
	return defs, nil
}

// Update builds the requested indices up to the current FXT day, writes
// the run report and metrics, and returns the run summary.
func (a *App) Update(ctx context.Context, opts UpdateOptions) (pipeline.Summary, error) {
	defs, err := ResolveSymbols(opts.Symbols)
	if err != nil {
		return pipeline.Summary{}, err
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	today := a.Zone.Today(now)
	a.Logger.Info("update", "symbols", len(defs), "today", today.Format(time.DateOnly), "dir", a.Paths.TargetRoot())

	sum := a.Runner.Run(ctx, defs, pipeline.Options{From: opts.From, Resume: opts.Resume, Today: today})

	if id, err := pipeline.WriteRunReport(a.Paths.TargetRoot(), sum); err != nil {
		a.Logger.Warn("could not write run report", "error", err)
	} else {
		a.Logger.Debug("run report saved", "run_id", id, "failed", len(sum.Failed()))
	}
	if err := a.Metrics.Flush(); err != nil {
		a.Logger.Warn("could not write metrics", "path", a.Config.MetricsFile, "error", err)
	}
	return sum, nil
}

// Export converts one published day of symbol into the given format and
// writes it to out. An empty out derives the file name from symbol and day.
func (a *App) Export(symbol string, day time.Time, format, out string) (string, error) {
	def, err := index.Lookup(symbol)
	if err != nil {
		return "", err
	}
	ps := saver.NewPacketSaver(format)
	if ps == nil {
		return "", fmt.Errorf("%w: unsupported format %q (use: csv, parquet, json)", model.ErrInvalidArgument, format)
	}
	day = calendar.Midnight(day)
	path, err := a.Paths.Resolve(paths.TargetRaw, def.Symbol, day)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s history for %s not published", model.ErrNotFound, def.Symbol, day.Format(model.DayLayout))
	}
	if err != nil {
		return "", fmt.Errorf("%w: read %s: %v", model.ErrIO, path, err)
	}
	bars, err := history.Unpack(data)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	if out == "" {
		out = fmt.Sprintf("%s_%s.%s", def.Symbol, day.Format("20060102"), ps.Extension())
	}
	if err := ps.Save(saver.FromHistory(bars, def.Formula.Digits), out); err != nil {
		return "", fmt.Errorf("%w: export %s: %v", model.ErrIO, out, err)
	}
	a.Logger.Info("exported", "symbol", def.Symbol, "day", day.Format(time.DateOnly), "path", out, "bars", len(bars))
	return out, nil
}
