package source

import (
	"context"
	"fmt"
	"os"

	"github.com/okian/sackigami/internal/domain/dataset"
	"github.com/okian/sackigami/pkg/metrics"
)

// File loads the dataset from one local CSV in team-week format.
type File struct {
	path string
}

// NewFile returns a source reading path.
func NewFile(path string) *File {
	return &File{path: path}
}

// Load implements Source.
func (f *File) Load(ctx context.Context) (*dataset.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fh, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer fh.Close()

	rows, err := parseCSV(fh, []string{ColSeasonType})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.path, err)
	}
	metrics.RecordSeasonLoaded(metrics.OriginFile)
	return dataset.New(rows...), nil
}
