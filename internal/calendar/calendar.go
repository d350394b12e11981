// Package calendar walks FXT trading days.
//
// Days are represented as UTC time.Time values whose wall-clock fields equal
// the FXT wall clock, so Unix() of a day is always a multiple of 86400 and
// matches the bar times stored in history files.
package calendar

import (
	"fmt"
	"iter"
	"time"
)

// Day is one step of a calendar walk.
type Day struct {
	Time         time.Time
	NonTrading   bool
	MonthChanged bool
}

// Oracle reports whether an FXT wall-clock time falls into a non-trading period.
type Oracle interface {
	IsNonTradingPeriod(t time.Time) bool
}

// Weekend treats Saturday and Sunday (FXT) as non-trading.
type Weekend struct{}

func (Weekend) IsNonTradingPeriod(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// Midnight truncates an FXT wall-clock time to the start of its day.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Walk yields every day in [start, end), one day apart. The sequence is
// lazy and may be ranged over more than once.
func Walk(start, end time.Time, oracle Oracle) iter.Seq[Day] {
	if oracle == nil {
		oracle = Weekend{}
	}
	start, end = Midnight(start), Midnight(end)
	return func(yield func(Day) bool) {
		lastMonth := time.Month(0)
		for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
			day := Day{
				Time:         d,
				NonTrading:   oracle.IsNonTradingPeriod(d),
				MonthChanged: d.Month() != lastMonth,
			}
			lastMonth = d.Month()
			if !yield(day) {
				return
			}
		}
	}
}

// Zone converts real instants into FXT wall-clock time: the wall clock of a
// reference location shifted by a fixed offset (New York + 7h for FXT).
type Zone struct {
	loc    *time.Location
	offset time.Duration
}

// NewZone loads the reference location by name.
func NewZone(name string, offset time.Duration) (*Zone, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return &Zone{loc: loc, offset: offset}, nil
}

// Wall returns t as FXT wall-clock time encoded in UTC.
func (z *Zone) Wall(t time.Time) time.Time {
	w := t.In(z.loc)
	y, m, d := w.Date()
	hh, mm, ss := w.Clock()
	// Offset the wall clock, not the instant.
	return time.Date(y, m, d, hh, mm, ss, w.Nanosecond(), time.UTC).Add(z.offset)
}

// Today returns FXT midnight of the FXT day containing now.
func (z *Zone) Today(now time.Time) time.Time {
	return Midnight(z.Wall(now))
}
