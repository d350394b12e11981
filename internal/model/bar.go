package model

import "time"

// MinutesPerDay is the number of M1 bars in a complete trading day.
const MinutesPerDay = 1440

// Bar represents one M1 bar as stored in a MyFX history file.
// Time is FXT wall-clock epoch seconds; prices are fixed-point integers at
// the instrument's digit precision.
type Bar struct {
	Time  uint32
	Open  uint32
	High  uint32
	Low   uint32
	Close uint32
	Ticks uint32
}

// Instrument is immutable reference data for one currency pair.
type Instrument struct {
	Symbol string
	Digits int
	// HistoryStart is the first day with M1 history at the data vendor.
	HistoryStart time.Time
}

// Unix returns the bar time as a UTC time.Time carrying the FXT wall clock.
func (b Bar) Unix() time.Time {
	return time.Unix(int64(b.Time), 0).UTC()
}
