// Package dataset wraps the historical team-game dataset and exposes the
// column selection, filtering and gameday primitives the pipeline is built on.
//
// A Dataset is an immutable snapshot: every operation returns a new
// projection and never touches the receiver's rows.
package dataset

import (
	"fmt"

	"github.com/okian/sackigami/internal/domain/model"
)

// Column names of the sack stat projection.
const (
	ColTeam            = "team"
	ColSeason          = "season"
	ColWeek            = "week"
	ColOpponentTeam    = "opponent_team"
	ColSacksSuffered   = "sacks_suffered"
	ColSackYardsLost   = "sack_yards_lost"
	ColSackFumbles     = "sack_fumbles"
	ColSackFumblesLost = "sack_fumbles_lost"
)

// Columns is the fixed projection every component depends on. Order matters.
var Columns = []string{
	ColTeam,
	ColSeason,
	ColWeek,
	ColOpponentTeam,
	ColSacksSuffered,
	ColSackYardsLost,
	ColSackFumbles,
	ColSackFumblesLost,
}

// Row is one team-game row. The sack columns are typed; any other upstream
// column is kept verbatim until the row is projected away by Select.
type Row struct {
	Team            string
	Season          int
	Week            int
	OpponentTeam    string
	SacksSuffered   int
	SackYardsLost   int
	SackFumbles     int
	SackFumblesLost int

	extra map[string]string
}

// NewRow builds a row from a canonical stat line.
func NewRow(line model.SackStatLine) Row {
	return Row{
		Team:            line.Team,
		Season:          line.GameDay.Season,
		Week:            line.GameDay.Week,
		OpponentTeam:    line.OpponentTeam,
		SacksSuffered:   line.SacksSuffered,
		SackYardsLost:   line.SackYardsLost,
		SackFumbles:     line.SackFumbles,
		SackFumblesLost: line.SackFumblesLost,
	}
}

// WithExtra returns a copy of r carrying an additional upstream column.
func (r Row) WithExtra(name, value string) Row {
	extra := make(map[string]string, len(r.extra)+1)
	for k, v := range r.extra {
		extra[k] = v
	}
	extra[name] = value
	r.extra = extra
	return r
}

// GameDay returns the row's season and week.
func (r Row) GameDay() model.GameDay {
	return model.GameDay{Season: r.Season, Week: r.Week}
}

// StatLine returns the row as a canonical stat line.
func (r Row) StatLine() model.SackStatLine {
	return model.SackStatLine{
		GameDay:         r.GameDay(),
		Team:            r.Team,
		OpponentTeam:    r.OpponentTeam,
		SacksSuffered:   r.SacksSuffered,
		SackYardsLost:   r.SackYardsLost,
		SackFumbles:     r.SackFumbles,
		SackFumblesLost: r.SackFumblesLost,
	}
}

// Key returns the row's identity tuple.
func (r Row) Key() model.Key {
	return model.Key{Team: r.Team, Season: r.Season, Week: r.Week}
}

// Value returns the cell stored under name. Sack columns come back as int or
// string, upstream extras as their raw string.
func (r Row) Value(name string) (any, bool) {
	switch name {
	case ColTeam:
		return r.Team, true
	case ColSeason:
		return r.Season, true
	case ColWeek:
		return r.Week, true
	case ColOpponentTeam:
		return r.OpponentTeam, true
	case ColSacksSuffered:
		return r.SacksSuffered, true
	case ColSackYardsLost:
		return r.SackYardsLost, true
	case ColSackFumbles:
		return r.SackFumbles, true
	case ColSackFumblesLost:
		return r.SackFumblesLost, true
	}
	v, ok := r.extra[name]
	return v, ok
}

// Dataset is an ordered collection of rows. Order is load order and is
// assumed chronological.
type Dataset struct {
	columns []string
	rows    []Row
}

// New creates a dataset holding rows in the given order.
func New(rows ...Row) *Dataset {
	return NewWithColumns(Columns, rows)
}

// NewWithColumns creates a dataset that advertises the given column header,
// e.g. the full header of an upstream CSV file.
func NewWithColumns(columns []string, rows []Row) *Dataset {
	cols := make([]string, len(columns))
	copy(cols, columns)
	rs := make([]Row, len(rows))
	copy(rs, rows)
	return &Dataset{columns: cols, rows: rs}
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.rows)
}

// Columns returns the column header of the dataset.
func (d *Dataset) Columns() []string {
	cols := make([]string, len(d.columns))
	copy(cols, d.columns)
	return cols
}

// Rows returns a copy of the rows in dataset order.
func (d *Dataset) Rows() []Row {
	if d == nil {
		return nil
	}
	rs := make([]Row, len(d.rows))
	copy(rs, d.rows)
	return rs
}

// Row returns the i-th row.
func (d *Dataset) Row(i int) Row {
	return d.rows[i]
}

// Last returns the final row in dataset order.
func (d *Dataset) Last() (Row, bool) {
	if d.Len() == 0 {
		return Row{}, false
	}
	return d.rows[len(d.rows)-1], true
}

// Select projects the dataset onto names, which must be exactly Columns in
// order. Upstream extras are dropped from the projection.
func (d *Dataset) Select(names ...string) (*Dataset, error) {
	if len(names) != len(Columns) {
		return nil, fmt.Errorf("%w: got %d columns, want %d", ErrColumnMismatch, len(names), len(Columns))
	}
	for i, n := range names {
		if n != Columns[i] {
			return nil, fmt.Errorf("%w: column %d is %q, want %q", ErrColumnMismatch, i, n, Columns[i])
		}
	}
	rows := make([]Row, len(d.rows))
	for i, r := range d.rows {
		r.extra = nil
		rows[i] = r
	}
	return &Dataset{columns: append([]string(nil), Columns...), rows: rows}, nil
}

// Filter returns the rows matching pred, preserving order.
func (d *Dataset) Filter(pred func(Row) bool) *Dataset {
	out := &Dataset{columns: append([]string(nil), d.columns...)}
	for _, r := range d.rows {
		if pred(r) {
			out.rows = append(out.rows, r)
		}
	}
	return out
}

// Append returns a new dataset with rows added after the existing ones.
// Loaders use it when concatenating seasons.
func (d *Dataset) Append(rows ...Row) *Dataset {
	out := &Dataset{columns: append([]string(nil), d.columns...)}
	out.rows = make([]Row, 0, len(d.rows)+len(rows))
	out.rows = append(out.rows, d.rows...)
	out.rows = append(out.rows, rows...)
	return out
}

// Validate checks that every (team, season, week) key is unique.
func (d *Dataset) Validate() error {
	seen := make(map[model.Key]int, len(d.rows))
	for i, r := range d.rows {
		if prev, ok := seen[r.Key()]; ok {
			return fmt.Errorf("%w: %s %d/%d at rows %d and %d", ErrDuplicateKey, r.Team, r.Season, r.Week, prev, i)
		}
		seen[r.Key()] = i
	}
	return nil
}
