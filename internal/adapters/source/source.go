// Package source loads the historical team-game dataset.
package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/okian/sackigami/internal/domain/dataset"
)

// ColSeasonType is kept on every row so that callers can tell regular
// season from postseason games.
const ColSeasonType = "season_type"

// Source supplies the complete historical dataset in one call.
type Source interface {
	Load(ctx context.Context) (*dataset.Dataset, error)
}

// SeasonCache stores raw season files. Implemented by cache.Cache.
type SeasonCache interface {
	Get(ctx context.Context, season int) ([]byte, bool, error)
	Put(ctx context.Context, season int, body []byte) error
}

// parseCSV reads a team-week CSV. Columns are located by header name so that
// upstream column additions or reorders do not matter.
func parseCSV(r io.Reader, extras []string) ([]dataset.Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	hdr, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %w", ErrParse, err)
	}

	idx := make(map[string]int, len(hdr))
	for i, h := range hdr {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}

	var missing []string
	for _, c := range dataset.Columns {
		if _, ok := idx[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	var rows []dataset.Row
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrParse, line, err)
		}

		row, err := parseRecord(rec, idx, extras)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrParse, line, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRecord(rec []string, idx map[string]int, extras []string) (dataset.Row, error) {
	cell := func(name string) string {
		i, ok := idx[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var row dataset.Row
	row.Team = cell(dataset.ColTeam)
	row.OpponentTeam = cell(dataset.ColOpponentTeam)

	ints := []struct {
		name string
		dst  *int
	}{
		{dataset.ColSeason, &row.Season},
		{dataset.ColWeek, &row.Week},
		{dataset.ColSacksSuffered, &row.SacksSuffered},
		{dataset.ColSackYardsLost, &row.SackYardsLost},
		{dataset.ColSackFumbles, &row.SackFumbles},
		{dataset.ColSackFumblesLost, &row.SackFumblesLost},
	}
	for _, f := range ints {
		v, err := atoi(cell(f.name))
		if err != nil {
			return dataset.Row{}, fmt.Errorf("column %s: %w", f.name, err)
		}
		*f.dst = v
	}

	for _, name := range extras {
		if _, ok := idx[name]; ok {
			row = row.WithExtra(name, cell(name))
		}
	}
	return row, nil
}

// atoi parses an integer cell. Empty cells are zero; nflverse writes some
// counts as floats like "3.0".
func atoi(s string) (int, error) {
	if s == "" || s == "NA" {
		return 0, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || f < math.MinInt || f >= math.MaxInt {
		return 0, fmt.Errorf("not an integer: %q", s)
	}
	return int(f), nil
}
