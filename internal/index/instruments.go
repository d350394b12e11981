package index

import (
	"strings"
	"time"

	"fxi-data/internal/model"
)

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

// historyStart holds the first day of M1 history per source instrument.
var historyStart = map[string]time.Time{
	"AUDCAD": d(2005, time.December, 26),
	"AUDCHF": d(2005, time.December, 26),
	"AUDJPY": d(2003, time.August, 3),
	"AUDUSD": d(2003, time.August, 3),
	"CADCHF": d(2005, time.December, 26),
	"CADJPY": d(2004, time.October, 20),
	"CHFJPY": d(2003, time.August, 3),
	"EURAUD": d(2005, time.October, 2),
	"EURCAD": d(2004, time.October, 20),
	"EURCHF": d(2003, time.August, 3),
	"EURGBP": d(2003, time.August, 3),
	"EURJPY": d(2003, time.August, 3),
	"EURUSD": d(2003, time.May, 4),
	"GBPAUD": d(2006, time.January, 1),
	"GBPCAD": d(2006, time.January, 1),
	"GBPCHF": d(2003, time.August, 3),
	"GBPJPY": d(2003, time.August, 3),
	"GBPUSD": d(2003, time.May, 4),
	"NZDUSD": d(2003, time.August, 3),
	"USDCAD": d(2003, time.August, 3),
	"USDCHF": d(2003, time.May, 4),
	"USDJPY": d(2003, time.May, 4),
}

// Instrument returns reference data for a source pair. JPY-quoted pairs
// carry 3 digits, everything else 5.
func Instrument(symbol string) model.Instrument {
	digits := 5
	if strings.HasSuffix(symbol, "JPY") {
		digits = 3
	}
	return model.Instrument{
		Symbol:       symbol,
		Digits:       digits,
		HistoryStart: historyStart[symbol],
	}
}
