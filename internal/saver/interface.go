package saver

import (
	"strings"

	"github.com/shopspring/decimal"

	"fxi-data/internal/model"
)

// Bar is the export DTO of one M1 bar with decimal prices.
type Bar struct {
	Time  string  `json:"time" parquet:"time"` // FXT wall clock, RFC 3339 without offset
	Unix  int64   `json:"t" parquet:"t"`
	Open  float64 `json:"o" parquet:"o"`
	High  float64 `json:"h" parquet:"h"`
	Low   float64 `json:"l" parquet:"l"`
	Close float64 `json:"c" parquet:"c"`
	Ticks int64   `json:"n" parquet:"n"`
}

// FromHistory converts fixed-point bars at the given precision.
func FromHistory(bars []model.Bar, digits int) []Bar {
	exp := -int32(digits)
	price := func(p uint32) float64 {
		return decimal.New(int64(p), exp).InexactFloat64()
	}
	out := make([]Bar, len(bars))
	for i, b := range bars {
		out[i] = Bar{
			Time:  b.Unix().Format("2006-01-02T15:04:05"),
			Unix:  int64(b.Time),
			Open:  price(b.Open),
			High:  price(b.High),
			Low:   price(b.Low),
			Close: price(b.Close),
			Ticks: int64(b.Ticks),
		}
	}
	return out
}

// PacketSaver renders a published day for the export command.
type PacketSaver interface {
	Save(bars []Bar, path string) error
	Extension() string // default file extension of the export
}

// NewPacketSaver picks the export renderer for the -format flag value,
// case-insensitively. It returns nil for anything but csv, json or parquet.
func NewPacketSaver(format string) PacketSaver {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "csv":
		return CSVSaver{}
	case "parquet":
		return ParquetSaver{}
	case "json":
		return JSONSaver{}
	default:
		return nil
	}
}

