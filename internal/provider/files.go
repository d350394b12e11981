package provider

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/klauspost/compress/zstd"

	"fxi-data/internal/model"
	"fxi-data/internal/paths"
)

// FileSource is a BarSource backed by the local Dukascopy-derived history tree.
// Compressed day files are zstd frames around the raw record stream.
type FileSource struct {
	paths *paths.Resolver
	dec   *zstd.Decoder
}

// NewFileSource creates a FileSource resolving files through r.
// Caller must call Close when done.
func NewFileSource(r *paths.Resolver) (*FileSource, error) {
	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	return &FileSource{paths: r, dec: dec}, nil
}

// GetName returns provider name
func (s *FileSource) GetName() string { return "dukascopy" }

// Close releases the decoder.
func (s *FileSource) Close() error {
	s.dec.Close()
	return nil
}

// Path returns the file location for the encoding.
func (s *FileSource) Path(symbol string, day time.Time, enc Encoding) (string, error) {
	switch enc {
	case Compressed:
		return s.paths.Resolve(paths.SourceCompressed, symbol, day)
	case Raw:
		return s.paths.Resolve(paths.SourceRaw, symbol, day)
	}
	return "", fmt.Errorf("%w: unknown encoding %s", model.ErrInvalidArgument, enc)
}

// Exists reports whether a regular day file is present. Stat failures other
// than a missing file wrap model.ErrIO.
func (s *FileSource) Exists(symbol string, day time.Time, enc Encoding) (bool, error) {
	p, err := s.Path(symbol, day, enc)
	if err != nil {
		return false, err
	}
	fi, err := os.Stat(p)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: stat %s: %v", model.ErrIO, p, err)
	}
	return fi.Mode().IsRegular(), nil
}

func (s *FileSource) Read(symbol string, day time.Time, enc Encoding) ([]byte, error) {
	p, err := s.Path(symbol, day, enc)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", model.ErrNotFound, p)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", model.ErrIO, p, err)
	}
	if enc == Compressed {
		data, err = s.dec.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: decompress %s: %v", model.ErrValidation, p, err)
		}
	}
	return data, nil
}
