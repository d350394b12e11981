package saver

import (
	"fmt"

	"github.com/parquet-go/parquet-go"
)

// ParquetSaver exports one day as a single zstd-compressed row group.
type ParquetSaver struct{}

func (ParquetSaver) Extension() string { return "parquet" }

func (ParquetSaver) Save(bars []Bar, path string) error {
	if err := parquet.WriteFile(path, bars, parquet.Compression(&parquet.Zstd)); err != nil {
		return fmt.Errorf("write parquet %s: %w", path, err)
	}
	return nil
}
