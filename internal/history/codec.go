// Package history encodes, decodes and validates MyFX M1 day files.
//
// A day file is a headerless stream of 24-byte little-endian records:
// time, open, high, low, close, ticks (uint32 each).
package history

import (
	"encoding/binary"
	"fmt"

	"fxi-data/internal/model"
)

const (
	RecordSize  = 24
	DayFileSize = model.MinutesPerDay * RecordSize
)

// Pack serializes bars in order. The result is exactly RecordSize*len(bars) bytes.
func Pack(bars []model.Bar) []byte {
	buf := make([]byte, 0, len(bars)*RecordSize)
	for _, b := range bars {
		buf = binary.LittleEndian.AppendUint32(buf, b.Time)
		buf = binary.LittleEndian.AppendUint32(buf, b.Open)
		buf = binary.LittleEndian.AppendUint32(buf, b.High)
		buf = binary.LittleEndian.AppendUint32(buf, b.Low)
		buf = binary.LittleEndian.AppendUint32(buf, b.Close)
		buf = binary.LittleEndian.AppendUint32(buf, b.Ticks)
	}
	return buf
}

// Unpack decodes a record stream produced by Pack.
func Unpack(data []byte) ([]model.Bar, error) {
	if len(data)%RecordSize != 0 {
		return nil, fmt.Errorf("%w: record stream of %d bytes is not a multiple of %d", model.ErrValidation, len(data), RecordSize)
	}
	bars := make([]model.Bar, len(data)/RecordSize)
	for i := range bars {
		rec := data[i*RecordSize : (i+1)*RecordSize]
		bars[i] = model.Bar{
			Time:  binary.LittleEndian.Uint32(rec[0:]),
			Open:  binary.LittleEndian.Uint32(rec[4:]),
			High:  binary.LittleEndian.Uint32(rec[8:]),
			Low:   binary.LittleEndian.Uint32(rec[12:]),
			Close: binary.LittleEndian.Uint32(rec[16:]),
			Ticks: binary.LittleEndian.Uint32(rec[20:]),
		}
	}
	return bars, nil
}
