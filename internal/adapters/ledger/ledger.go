// Package ledger persists the games that have already been announced.
//
// The ledger is a pretty-printed JSON array of records. It is not safe for
// concurrent use by more than one process.
package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/okian/sackigami/internal/domain/model"
)

const (
	indent   = "    "
	filePerm = 0o644
	dirPerm  = 0o755
)

// File is a ledger stored at a path on disk. A missing file is an empty ledger.
type File struct {
	path string
}

// New returns the ledger stored at path.
func New(path string) *File {
	return &File{path: path}
}

// Path returns the backing file path.
func (f *File) Path() string { return f.path }

// Load returns every record in file order.
func (f *File) Load() ([]model.Record, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []model.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrLedgerIO, f.path, err)
	}

	var records []model.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrLedgerIO, f.path, err)
	}
	if records == nil {
		records = []model.Record{}
	}
	return records, nil
}

// Append adds records to the end of the ledger and rewrites the file.
func (f *File) Append(records ...model.Record) error {
	existing, err := f.Load()
	if err != nil {
		return err
	}
	return f.write(append(existing, records...))
}

// HasBeenPosted reports whether an identical record is already in the ledger.
func (f *File) HasBeenPosted(r model.Record) (bool, error) {
	records, err := f.Load()
	if err != nil {
		return false, err
	}
	return slices.Contains(records, r), nil
}

// write replaces the file atomically through a temp file.
func (f *File) write(records []model.Record) error {
	data, err := json.MarshalIndent(records, "", indent)
	if err != nil {
		return fmt.Errorf("%w: encode: %w", ErrLedgerIO, err)
	}

	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, dirPerm); err != nil {
			return fmt.Errorf("%w: %w", ErrLedgerIO, err)
		}
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, filePerm); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrLedgerIO, tmp, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%w: rename %s: %w", ErrLedgerIO, tmp, err)
	}
	return nil
}
