package saver

import (
	"encoding/csv"
	"os"
	"strconv"
)

// CSVSaver exports bars as CSV (header: time,t,o,h,l,c,n).
type CSVSaver struct{}

func (CSVSaver) Extension() string { return "csv" }

func (CSVSaver) Save(bars []Bar, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)

	if err := w.Write([]string{"time", "t", "o", "h", "l", "c", "n"}); err != nil {
		return err
	}
	for _, b := range bars {
		if err := w.Write([]string{
			b.Time,
			strconv.FormatInt(b.Unix, 10),
			floatStr(b.Open),
			floatStr(b.High),
			floatStr(b.Low),
			floatStr(b.Close),
			strconv.FormatInt(b.Ticks, 10),
		}); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

func floatStr(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
