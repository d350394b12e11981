package provider

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fxi-data/internal/history"
	"fxi-data/internal/model"
	"fxi-data/internal/slogx"
)

// Reader loads source days, preferring the compressed encoding.
type Reader struct {
	Source BarSource
	Logger *slog.Logger
}

// NewReader creates a Reader over src.
func NewReader(src BarSource, logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{Source: src, Logger: logger}
}

// LoadDay returns the M1 bars of inst for day. A day without any source
// file fails with model.ErrNotFound.
func (r *Reader) LoadDay(inst model.Instrument, day time.Time) ([]model.Bar, error) {
	for _, enc := range []Encoding{Compressed, Raw} {
		ok, err := r.Source.Exists(inst.Symbol, day, enc)
		if err != nil {
			return nil, fmt.Errorf("%s history for %s: %w", inst.Symbol, day.Format(model.DayLayout), err)
		}
		if !ok {
			continue
		}
		data, err := r.Source.Read(inst.Symbol, day, enc)
		if err != nil {
			return nil, fmt.Errorf("%s history for %s: %w", inst.Symbol, day.Format(model.DayLayout), err)
		}
		bars, err := history.Unpack(data)
		if err != nil {
			return nil, fmt.Errorf("%s history for %s (%s): %w", inst.Symbol, day.Format(model.DayLayout), enc, err)
		}
		r.Logger.Log(context.Background(), slogx.LevelFile, "source read",
			"symbol", inst.Symbol, "day", day.Format(time.DateOnly), "encoding", enc.String(), "bars", len(bars))
		return bars, nil
	}
	return nil, fmt.Errorf("%w: %s history for %s not found", model.ErrNotFound, inst.Symbol, day.Format(model.DayLayout))
}
