// Package paths resolves source and target history file locations.
package paths

import (
	"fmt"
	"path/filepath"
	"time"

	"fxi-data/internal/cache"
	"fxi-data/internal/model"
)

// Kind selects which path is resolved.
type Kind int

const (
	DirDate Kind = iota + 1 // YYYY/MM/DD
	SourceDir
	TargetDir
	SourceRaw
	SourceCompressed
	TargetRaw
	TargetCompressed
	TargetSymbolDir
)

var kindNames = map[Kind]string{
	DirDate:          "dirDate",
	SourceDir:        "sourceDir",
	TargetDir:        "targetDir",
	SourceRaw:        "source.raw",
	SourceCompressed: "source.compressed",
	TargetRaw:        "target.raw",
	TargetCompressed: "target.compressed",
	TargetSymbolDir:  "targetSymbolDir",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

const (
	RawFile        = "M1.bin"
	CompressedFile = "M1.zst"
)

// Key identifies one cached resolution.
type Key struct {
	Kind   Kind
	Symbol string
	Day    int64
}

// Resolver computes paths below a fixed base directory.
type Resolver struct {
	base  string
	cache *cache.FIFO[Key, string]

	computed int // number of cache misses, for tests
}

// New returns a Resolver rooted at base. c may be nil, in which case every
// call recomputes.
func New(base string, c *cache.FIFO[Key, string]) *Resolver {
	return &Resolver{base: base, cache: c}
}

// SourceRoot is the directory holding per-instrument source history.
func (r *Resolver) SourceRoot() string {
	return filepath.Join(r.base, "history", "dukascopy")
}

// TargetRoot is the directory holding per-index published history.
func (r *Resolver) TargetRoot() string {
	return filepath.Join(r.base, "history", "myfx")
}

// Resolve returns the path of the given kind for symbol and day. day is an
// FXT midnight; it is ignored by TargetSymbolDir and symbol is ignored by
// DirDate.
func (r *Resolver) Resolve(kind Kind, symbol string, day time.Time) (string, error) {
	key := Key{Kind: kind, Symbol: symbol}
	if !day.IsZero() {
		key.Day = day.Unix()
	}
	if r.cache != nil {
		if p, ok := r.cache.Get(key); ok {
			return p, nil
		}
	}
	p, err := r.compute(kind, symbol, day)
	if err != nil {
		return "", err
	}
	r.computed++
	if r.cache != nil {
		r.cache.Put(key, p)
	}
	return p, nil
}

func (r *Resolver) compute(kind Kind, symbol string, day time.Time) (string, error) {
	switch kind {
	case DirDate:
		if day.IsZero() {
			return "", fmt.Errorf("%w: %s needs a day", model.ErrInvalidArgument, kind)
		}
		return filepath.Join(day.Format("2006"), day.Format("01"), day.Format("02")), nil

	case SourceDir, TargetDir:
		if symbol == "" {
			return "", fmt.Errorf("%w: %s needs a symbol", model.ErrInvalidArgument, kind)
		}
		dirDate, err := r.Resolve(DirDate, "", day)
		if err != nil {
			return "", err
		}
		root := r.SourceRoot()
		if kind == TargetDir {
			root = r.TargetRoot()
		}
		return filepath.Join(root, symbol, dirDate), nil

	case SourceRaw, SourceCompressed:
		dir, err := r.Resolve(SourceDir, symbol, day)
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, fileName(kind)), nil

	case TargetRaw, TargetCompressed:
		dir, err := r.Resolve(TargetDir, symbol, day)
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, fileName(kind)), nil

	case TargetSymbolDir:
		if symbol == "" {
			return "", fmt.Errorf("%w: %s needs a symbol", model.ErrInvalidArgument, kind)
		}
		return filepath.Join(r.TargetRoot(), symbol), nil
	}
	return "", fmt.Errorf("%w: unknown path kind %s", model.ErrInvalidArgument, kind)
}

func fileName(kind Kind) string {
	if kind == SourceCompressed || kind == TargetCompressed {
		return CompressedFile
	}
	return RawFile
}
