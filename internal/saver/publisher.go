package saver

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"fxi-data/internal/model"
	"fxi-data/internal/paths"
)

// Publisher writes index day files into the target history tree. A file
// is visible at its final path only once it is complete.
type Publisher struct {
	paths *paths.Resolver

	// beforeRename runs after the temp file is closed and before it is
	// moved into place.
	beforeRename func(tmp string) error
}

// NewPublisher creates a Publisher resolving targets through r.
func NewPublisher(r *paths.Resolver) *Publisher {
	return &Publisher{paths: r}
}

// Publish writes data as the day file of symbol. An existing file is never
// overwritten.
func (p *Publisher) Publish(symbol string, day time.Time, data []byte) error {
	path, err := p.paths.Resolve(paths.TargetRaw, symbol, day)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil {
		return alreadyPublished(symbol, day, path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: stat %s: %v", model.ErrIO, path, err)
	}
	// The link refuses a file that appeared after the check.
	err = writeAtomic(path, data, p.beforeRename, linkNew)
	if errors.Is(err, model.ErrAlreadyPublished) {
		return alreadyPublished(symbol, day, path)
	}
	return err
}

func alreadyPublished(symbol string, day time.Time, path string) error {
	return fmt.Errorf("%w: %s history for %s: %s", model.ErrAlreadyPublished, symbol, day.Format(model.DayLayout), path)
}

// Latest returns the newest published day of symbol.
func (p *Publisher) Latest(symbol string) (time.Time, bool, error) {
	root, err := p.paths.Resolve(paths.TargetSymbolDir, symbol, time.Time{})
	if err != nil {
		return time.Time{}, false, err
	}
	// Walk YYYY/MM/DD newest first; the first directory holding a day file wins.
	years, err := numericDirs(root)
	if err != nil {
		return time.Time{}, false, err
	}
	for _, y := range years {
		months, err := numericDirs(filepath.Join(root, strconv.Itoa(y)))
		if err != nil {
			return time.Time{}, false, err
		}
		for _, m := range months {
			dir := filepath.Join(root, strconv.Itoa(y), fmt.Sprintf("%02d", m))
			days, err := numericDirs(dir)
			if err != nil {
				return time.Time{}, false, err
			}
			for _, d := range days {
				if _, err := os.Stat(filepath.Join(dir, fmt.Sprintf("%02d", d), paths.RawFile)); err == nil {
					return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC), true, nil
				}
			}
		}
	}
	return time.Time{}, false, nil
}

// numericDirs lists the numeric subdirectory names of dir, largest first.
func numericDirs(dir string) ([]int, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: list %s: %v", model.ErrIO, dir, err)
	}
	var out []int
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if n, err := strconv.Atoi(e.Name()); err == nil {
			out = append(out, n)
		}
	}
	slices.Sort(out)
	slices.Reverse(out)
	return out, nil
}
