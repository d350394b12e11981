package saver

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"fxi-data/internal/model"
)

// WriteFileAtomic replaces path with data via a temp file in the same
// directory and a rename.
func WriteFileAtomic(path string, data []byte) error {
	return writeAtomic(path, data, nil, os.Rename)
}

// linkNew moves tmp to path only if path does not exist yet.
func linkNew(tmp, path string) error {
	if err := os.Link(tmp, path); err != nil {
		return err
	}
	_ = os.Remove(tmp)
	return nil
}

// writeAtomic writes data to a temp file next to path and hands it to
// commit. A failed write never leaves anything at path.
func writeAtomic(path string, data []byte, beforeRename func(string) error, commit func(tmp, path string) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create %s: %v", model.ErrIO, dir, err)
	}
	f, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp file in %s: %v", model.ErrIO, dir, err)
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
		}
	}()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("%w: write %s: %v", model.ErrIO, tmp, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("%w: sync %s: %v", model.ErrIO, tmp, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", model.ErrIO, tmp, err)
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		return fmt.Errorf("%w: chmod %s: %v", model.ErrIO, tmp, err)
	}
	if beforeRename != nil {
		if err := beforeRename(tmp); err != nil {
			return fmt.Errorf("%w: %v", model.ErrIO, err)
		}
	}
	if err := commit(tmp, path); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", model.ErrAlreadyPublished, path)
		}
		return fmt.Errorf("%w: rename %s: %v", model.ErrIO, path, err)
	}
	syncDir(dir)
	return nil
}

// syncDir flushes the directory entry of a rename. Not every platform
// supports it, so errors are ignored.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}
