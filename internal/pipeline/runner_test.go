package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fxi-data/internal/calendar"
	"fxi-data/internal/history"
	"fxi-data/internal/index"
	"fxi-data/internal/model"
	"fxi-data/internal/paths"
	"fxi-data/internal/provider"
	"fxi-data/internal/saver"
	"fxi-data/internal/slogx"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type fixture struct {
	paths  *paths.Resolver
	runner *Runner
	rec    *countingRecorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	r := paths.New(t.TempDir(), nil)
	src, err := provider.NewFileSource(r)
	require.NoError(t, err)
	t.Cleanup(func() { _ = src.Close() })

	rec := &countingRecorder{}
	reader := provider.NewReader(src, slogx.Discard())
	return &fixture{
		paths:  r,
		runner: NewRunner(reader, saver.NewPublisher(r), calendar.Weekend{}, rec, slogx.Discard()),
		rec:    rec,
	}
}

// writeSource stores a full flat day of bars for one member.
func (f *fixture) writeSource(t *testing.T, inst model.Instrument, day time.Time) {
	t.Helper()
	price := uint32(100000)
	if inst.Digits == 3 {
		price = 80000
	}
	bars := make([]model.Bar, model.MinutesPerDay)
	for i := range bars {
		bars[i] = model.Bar{Time: uint32(day.Unix()) + uint32(i*60), Open: price, High: price + 7, Low: price - 3, Close: price + 5, Ticks: 11}
	}
	path, err := f.paths.Resolve(paths.SourceRaw, inst.Symbol, day)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, history.Pack(bars), 0o644))
}

func (f *fixture) writeBasket(t *testing.T, def index.Definition, days ...time.Time) {
	t.Helper()
	for _, d := range days {
		for _, m := range def.Members {
			f.writeSource(t, m, d)
		}
	}
}

func (f *fixture) target(t *testing.T, symbol string, day time.Time) string {
	t.Helper()
	p, err := f.paths.Resolve(paths.TargetRaw, symbol, day)
	require.NoError(t, err)
	return p
}

func lookup(t *testing.T, symbol string) index.Definition {
	t.Helper()
	def, err := index.Lookup(symbol)
	require.NoError(t, err)
	return def
}

type countingRecorder struct {
	published map[string]int
	skipped   map[string]int
	finished  map[string]State
}

func (c *countingRecorder) DayPublished(symbol string, _ time.Time) {
	if c.published == nil {
		c.published = map[string]int{}
	}
	c.published[symbol]++
}

func (c *countingRecorder) DaySkipped(symbol string) {
	if c.skipped == nil {
		c.skipped = map[string]int{}
	}
	c.skipped[symbol]++
}

func (c *countingRecorder) SymbolFinished(symbol string, s State) {
	if c.finished == nil {
		c.finished = map[string]State{}
	}
	c.finished[symbol] = s
}

func TestRunSymbolPublishesAUDFX6Day(t *testing.T) {
	f := newFixture(t)
	def := lookup(t, "AUDFX6")
	day := date(2024, time.January, 3)
	f.writeBasket(t, def, day)

	res := f.runner.RunSymbol(context.Background(), def, day, day.AddDate(0, 0, 1))
	require.Nil(t, res.Err)
	assert.Equal(t, Done, res.State)
	assert.Equal(t, 1, res.Published)
	assert.Equal(t, day, res.Last)

	data, err := os.ReadFile(f.target(t, "AUDFX6", day))
	require.NoError(t, err)
	require.Len(t, data, history.DayFileSize)
	assert.Equal(t, 34560, len(data))

	bars, err := history.Unpack(data)
	require.NoError(t, err)
	assert.Equal(t, uint32(day.Unix()), bars[0].Time)
	assert.Equal(t, uint32(day.Unix())+86340, bars[len(bars)-1].Time)
	for _, b := range bars {
		assert.LessOrEqual(t, b.Low, b.High)
	}

	assert.Equal(t, 1, f.rec.published["AUDFX6"])
	assert.Equal(t, Done, f.rec.finished["AUDFX6"])
}

func TestRunSymbolAbortsOnMissingMember(t *testing.T) {
	f := newFixture(t)
	def := lookup(t, "AUDFX6")
	tue, wed, thu := date(2024, time.January, 2), date(2024, time.January, 3), date(2024, time.January, 4)
	f.writeBasket(t, def, tue, thu)
	for _, m := range def.Members {
		if m.Symbol != "AUDJPY" {
			f.writeSource(t, m, wed)
		}
	}

	res := f.runner.RunSymbol(context.Background(), def, tue, date(2024, time.January, 5))
	assert.Equal(t, Aborted, res.State)
	assert.Equal(t, 1, res.Published)
	require.NotNil(t, res.Err)
	assert.Equal(t, wed, res.Err.Day)
	assert.Equal(t, "AUDFX6", res.Err.Symbol)
	assert.ErrorIs(t, res.Err, model.ErrNotFound)
	assert.Contains(t, res.Err.Error(), "AUDJPY")

	_, err := os.Stat(f.target(t, "AUDFX6", thu))
	assert.True(t, os.IsNotExist(err), "days after an abort must not be attempted")
}

func TestRunSymbolSkipsWeekend(t *testing.T) {
	f := newFixture(t)
	def := lookup(t, "EURFX6")
	fri, mon := date(2024, time.January, 5), date(2024, time.January, 8)
	f.writeBasket(t, def, fri, mon)

	res := f.runner.RunSymbol(context.Background(), def, fri, date(2024, time.January, 9))
	require.Nil(t, res.Err)
	assert.Equal(t, Done, res.State)
	assert.Equal(t, 2, res.Published)
	assert.Equal(t, 2, res.Skipped)
	assert.Equal(t, 2, f.rec.skipped["EURFX6"])
}

type cancellingLoader struct {
	DayLoader
	cancel context.CancelFunc
}

func (c cancellingLoader) LoadDay(inst model.Instrument, day time.Time) ([]model.Bar, error) {
	c.cancel()
	return c.DayLoader.LoadDay(inst, day)
}

func TestRunSymbolInterruptFinishesInFlightDay(t *testing.T) {
	f := newFixture(t)
	def := lookup(t, "USDLFX")
	tue, wed := date(2024, time.January, 2), date(2024, time.January, 3)
	f.writeBasket(t, def, tue, wed)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f.runner.Reader = cancellingLoader{DayLoader: f.runner.Reader, cancel: cancel}

	res := f.runner.RunSymbol(ctx, def, tue, date(2024, time.January, 4))
	assert.Equal(t, Interrupted, res.State)
	assert.Equal(t, 1, res.Published)
	assert.Nil(t, res.Err)

	_, err := os.Stat(f.target(t, "USDLFX", tue))
	assert.NoError(t, err)
	_, err = os.Stat(f.target(t, "USDLFX", wed))
	assert.True(t, os.IsNotExist(err))
}

func TestRunKeepsSymbolsIndependent(t *testing.T) {
	f := newFixture(t)
	day := date(2024, time.January, 3)
	f.writeBasket(t, lookup(t, "EURFX6"), day)

	sum := f.runner.Run(context.Background(),
		[]index.Definition{lookup(t, "AUDFX6"), lookup(t, "EURFX6")},
		Options{From: day, Today: day.AddDate(0, 0, 1)})

	require.Len(t, sum.Results, 2)
	assert.Equal(t, Aborted, sum.Results[0].State)
	assert.Equal(t, Done, sum.Results[1].State)
	assert.Equal(t, 1, sum.Results[1].Published)
	assert.Equal(t, 1, sum.ExitCode())
	assert.Len(t, sum.Failed(), 1)
}

func TestRunResume(t *testing.T) {
	f := newFixture(t)
	def := lookup(t, "GBPLFX")
	tue, wed := date(2024, time.January, 2), date(2024, time.January, 3)
	f.writeBasket(t, def, tue, wed)
	opts := Options{From: tue, Today: date(2024, time.January, 4)}

	first := f.runner.RunSymbol(context.Background(), def, tue, wed)
	require.Equal(t, Done, first.State)

	again := f.runner.Run(context.Background(), []index.Definition{def}, opts)
	require.Len(t, again.Results, 1)
	assert.Equal(t, Aborted, again.Results[0].State)
	assert.ErrorIs(t, again.Results[0].Err, model.ErrAlreadyPublished)

	opts.Resume = true
	resumed := f.runner.Run(context.Background(), []index.Definition{def}, opts)
	require.Len(t, resumed.Results, 1)
	assert.Equal(t, Done, resumed.Results[0].State)
	assert.Equal(t, wed, resumed.Results[0].From)
	assert.Equal(t, 1, resumed.Results[0].Published)
	assert.Equal(t, 0, resumed.ExitCode())
}

func TestStartDayUsesLatestHistoryStart(t *testing.T) {
	f := newFixture(t)
	def := lookup(t, "NZDLFX")
	var want time.Time
	for _, m := range def.Members {
		if m.HistoryStart.After(want) {
			want = m.HistoryStart
		}
	}

	got, err := f.runner.startDay(def, Options{})
	require.NoError(t, err)
	assert.Equal(t, want, got)

	override := date(2020, time.June, 1)
	got, err = f.runner.startDay(def, Options{From: override})
	require.NoError(t, err)
	assert.Equal(t, override, got)
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	day := date(2024, time.January, 3)
	sum := f.runner.Run(ctx, []index.Definition{lookup(t, "AUDLFX"), lookup(t, "CADLFX")}, Options{From: day, Today: day.AddDate(0, 0, 1)})
	require.Len(t, sum.Results, 2)
	for _, r := range sum.Results {
		assert.Equal(t, Interrupted, r.State)
	}
	assert.Equal(t, 1, sum.ExitCode())
}

func TestWriteRunReport(t *testing.T) {
	dir := t.TempDir()
	day := date(2024, time.January, 3)
	sum := Summary{Results: []Result{
		{Symbol: "AUDFX6", From: day, State: Done, Published: 1, Last: day},
		{Symbol: "CADFX6", From: day, State: Aborted, Err: &model.DayError{Symbol: "CADFX6", Day: day, Err: model.ErrNotFound}},
		{Symbol: "CHFFX6", State: Interrupted},
	}}

	id, err := WriteRunReport(dir, sum)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	var ok []successEntry
	data, err := os.ReadFile(filepath.Join(dir, SuccessReport))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &ok))
	require.Len(t, ok, 1)
	assert.Equal(t, successEntry{RunID: id, Symbol: "AUDFX6", From: "2024-01-03", Last: "2024-01-03", Published: 1}, ok[0])

	var failed []failedEntry
	data, err = os.ReadFile(filepath.Join(dir, FailedReport))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &failed))
	require.Len(t, failed, 2)
	assert.Equal(t, "aborted", failed[0].State)
	assert.Equal(t, "2024-01-03", failed[0].Day)
	assert.Contains(t, failed[0].Reason, "not found")
	assert.Equal(t, "interrupted", failed[1].Reason)
}
