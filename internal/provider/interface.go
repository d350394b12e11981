package provider

import (
	"fmt"
	"time"
)

// Encoding is the on-disk form of a source day file.
type Encoding int

const (
	Compressed Encoding = iota + 1
	Raw
)

func (e Encoding) String() string {
	switch e {
	case Compressed:
		return "compressed"
	case Raw:
		return "raw"
	}
	return fmt.Sprintf("Encoding(%d)", int(e))
}

// BarSource is the abstraction used by the pipeline when accessing source history.
// Exists fails only when the presence of a file cannot be determined.
// Read returns the decoded record stream regardless of the encoding.
// Implementations are responsible for their own resource cleanup.
type BarSource interface {
	GetName() string
	Exists(symbol string, day time.Time, enc Encoding) (bool, error)
	Read(symbol string, day time.Time, enc Encoding) ([]byte, error)
	Close() error
}
