// Package pipeline drives the per-symbol day loop: read member bars,
// compute the index, validate, pack and publish.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fxi-data/internal/calendar"
	"fxi-data/internal/history"
	"fxi-data/internal/index"
	"fxi-data/internal/model"
	"fxi-data/internal/slogx"
)

// State is the terminal state of one symbol run.
type State int

const (
	Done State = iota + 1
	Aborted
	Interrupted
)

func (s State) String() string {
	switch s {
	case Done:
		return "done"
	case Aborted:
		return "aborted"
	case Interrupted:
		return "interrupted"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// DayLoader returns the source bars of one instrument day.
type DayLoader interface {
	LoadDay(inst model.Instrument, day time.Time) ([]model.Bar, error)
}

// DayPublisher stores finished index days.
type DayPublisher interface {
	Publish(symbol string, day time.Time, data []byte) error
	Latest(symbol string) (time.Time, bool, error)
}

// Recorder receives run counters. Implementations must be cheap; the
// runner calls them once per day.
type Recorder interface {
	DayPublished(symbol string, day time.Time)
	DaySkipped(symbol string)
	SymbolFinished(symbol string, state State)
}

type nopRecorder struct{}

func (nopRecorder) DayPublished(string, time.Time) {}
func (nopRecorder) DaySkipped(string)              {}
func (nopRecorder) SymbolFinished(string, State)   {}

// Result is the outcome of one symbol run.
type Result struct {
	Symbol    string
	From      time.Time
	State     State
	Published int
	Skipped   int
	Last      time.Time // last published day, zero if none
	Err       *model.DayError
}

// Runner processes index symbols one day at a time.
type Runner struct {
	Reader    DayLoader
	Publisher DayPublisher
	Oracle    calendar.Oracle
	Metrics   Recorder
	Logger    *slog.Logger
}

// NewRunner creates a Runner. oracle, metrics and logger may be nil.
func NewRunner(reader DayLoader, pub DayPublisher, oracle calendar.Oracle, metrics Recorder, logger *slog.Logger) *Runner {
	if oracle == nil {
		oracle = calendar.Weekend{}
	}
	if metrics == nil {
		metrics = nopRecorder{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{Reader: reader, Publisher: pub, Oracle: oracle, Metrics: metrics, Logger: logger}
}

// RunSymbol builds every day of def in [from, today). The first failing
// day aborts the symbol; a cancelled ctx stops it between days.
func (r *Runner) RunSymbol(ctx context.Context, def index.Definition, from, today time.Time) Result {
	res := Result{Symbol: def.Symbol, From: calendar.Midnight(from)}
	log := r.Logger.With("symbol", def.Symbol)

	for d := range calendar.Walk(from, today, r.Oracle) {
		if ctx.Err() != nil {
			res.State = Interrupted
			log.Warn("interrupted", "day", d.Time.Format(time.DateOnly), "published", res.Published)
			break
		}
		if d.MonthChanged {
			log.Debug("month", "month", d.Time.Format("Jan-2006"), "published", res.Published, "skipped", res.Skipped)
		}
		if d.NonTrading {
			res.Skipped++
			r.Metrics.DaySkipped(def.Symbol)
			log.Log(ctx, slogx.LevelTrace, "skip non-trading day", "day", d.Time.Format(model.DayLayout))
			continue
		}
		log.Log(ctx, slogx.LevelTrace, "day", "day", d.Time.Format(model.DayLayout))

		if err := r.processDay(def, d.Time); err != nil {
			res.State = Aborted
			res.Err = &model.DayError{Symbol: def.Symbol, Day: d.Time, Err: err}
			log.Error("[Error] aborted", "day", d.Time.Format(model.DayLayout), "error", err)
			break
		}
		res.Published++
		res.Last = d.Time
		r.Metrics.DayPublished(def.Symbol, d.Time)
	}
	if res.State == 0 {
		res.State = Done
		log.Info("[Ok] "+def.Symbol, "published", res.Published, "skipped", res.Skipped)
	}
	r.Metrics.SymbolFinished(def.Symbol, res.State)
	return res
}

func (r *Runner) processDay(def index.Definition, day time.Time) error {
	set := make(index.DayBarSet, len(def.Members))
	for _, m := range def.Members {
		bars, err := r.Reader.LoadDay(m, day)
		if err != nil {
			return err
		}
		set[m.Symbol] = bars
	}
	bars, err := index.Compute(def, day, set)
	if err != nil {
		return err
	}
	if err := history.ValidateDay(day, bars); err != nil {
		return err
	}
	return r.Publisher.Publish(def.Symbol, day, history.Pack(bars))
}

// Options control a multi-symbol run.
type Options struct {
	From   time.Time // overrides the history start when set
	Resume bool      // continue after the newest published day
	Today  time.Time // exclusive end day
}

// Summary collects the results of a run in processing order.
type Summary struct {
	Results []Result
}

// OK reports whether every symbol finished.
func (s Summary) OK() bool {
	for _, r := range s.Results {
		if r.State != Done {
			return false
		}
	}
	return true
}

// ExitCode is 0 when every symbol finished, 1 otherwise.
func (s Summary) ExitCode() int {
	if s.OK() {
		return 0
	}
	return 1
}

// Run processes defs strictly in sequence. A failing symbol does not stop
// the following ones; an interrupt does.
func (r *Runner) Run(ctx context.Context, defs []index.Definition, opts Options) Summary {
	var sum Summary
	for _, def := range defs {
		if ctx.Err() != nil {
			sum.Results = append(sum.Results, Result{Symbol: def.Symbol, State: Interrupted})
			r.Metrics.SymbolFinished(def.Symbol, Interrupted)
			continue
		}
		from, err := r.startDay(def, opts)
		if err != nil {
			res := Result{Symbol: def.Symbol, State: Aborted, Err: &model.DayError{Symbol: def.Symbol, Day: from, Err: err}}
			r.Logger.Error("[Error] start day", "symbol", def.Symbol, "error", err)
			r.Metrics.SymbolFinished(def.Symbol, Aborted)
			sum.Results = append(sum.Results, res)
			continue
		}
		r.Logger.Info("update", "symbol", def.Symbol, "from", from.Format(time.DateOnly), "today", opts.Today.Format(time.DateOnly))
		sum.Results = append(sum.Results, r.RunSymbol(ctx, def, from, opts.Today))
	}
	return sum
}

// startDay is the first day to build for def: the latest member history
// start unless overridden, moved past the newest published day on resume.
func (r *Runner) startDay(def index.Definition, opts Options) (time.Time, error) {
	from := opts.From
	if from.IsZero() {
		for _, m := range def.Members {
			if m.HistoryStart.IsZero() {
				return time.Time{}, fmt.Errorf("%w: no history start for %s", model.ErrInvalidArgument, m.Symbol)
			}
			if m.HistoryStart.After(from) {
				from = m.HistoryStart
			}
		}
	}
	from = calendar.Midnight(from)
	if !opts.Resume {
		return from, nil
	}
	last, ok, err := r.Publisher.Latest(def.Symbol)
	if err != nil {
		return from, fmt.Errorf("resume: %w", err)
	}
	if ok && !last.Before(from) {
		from = last.AddDate(0, 0, 1)
	}
	return from, nil
}

// Failed returns the results that did not finish.
func (s Summary) Failed() []Result {
	var out []Result
	for _, r := range s.Results {
		if r.State != Done {
			out = append(out, r)
		}
	}
	return out
}

// errorOf flattens a failed result into a reason string.
func errorOf(r Result) string {
	switch {
	case r.Err != nil:
		return r.Err.Error()
	case r.State == Interrupted:
		return "interrupted"
	}
	return ""
}
