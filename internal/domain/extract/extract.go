// Package extract turns a single game, given either as a dataset row or as an
// untyped key/value map, into a canonical model.SackStatLine.
package extract

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/okian/sackigami/internal/domain/dataset"
	"github.com/okian/sackigami/internal/domain/model"
)

// Source is the input of Extract. Only RowSource and MapSource implement it.
type Source interface {
	source()
}

// RowSource wraps a single-row tabular projection.
type RowSource struct {
	Row dataset.Row
}

// MapSource wraps an untyped string-keyed map, e.g. a decoded JSON object.
type MapSource struct {
	Values map[string]any
}

func (RowSource) source() {}
func (MapSource) source() {}

// lookup reads one named cell from a source.
type lookup func(name string) (any, bool)

// Extract builds the canonical stat line for src.
func Extract(src Source) (model.SackStatLine, error) {
	switch s := src.(type) {
	case RowSource:
		return build(s.Row.Value)
	case MapSource:
		if s.Values == nil {
			return model.SackStatLine{}, fmt.Errorf("%w: nil map", ErrTypeConversion)
		}
		return build(func(name string) (any, bool) {
			v, ok := s.Values[name]
			return v, ok
		})
	default:
		return model.SackStatLine{}, fmt.Errorf("%w: unsupported source %T", ErrTypeConversion, src)
	}
}

// FromDataset extracts every row of ds in dataset order.
func FromDataset(ds *dataset.Dataset) ([]model.SackStatLine, error) {
	lines := make([]model.SackStatLine, 0, ds.Len())
	for i, r := range ds.Rows() {
		line, err := Extract(RowSource{Row: r})
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func build(get lookup) (model.SackStatLine, error) {
	var line model.SackStatLine
	fields := []struct {
		name string
		set  func(any) error
	}{
		{dataset.ColTeam, stringInto(&line.Team)},
		{dataset.ColSeason, intInto(&line.GameDay.Season)},
		{dataset.ColWeek, intInto(&line.GameDay.Week)},
		{dataset.ColOpponentTeam, stringInto(&line.OpponentTeam)},
		{dataset.ColSacksSuffered, intInto(&line.SacksSuffered)},
		{dataset.ColSackYardsLost, intInto(&line.SackYardsLost)},
		{dataset.ColSackFumbles, intInto(&line.SackFumbles)},
		{dataset.ColSackFumblesLost, intInto(&line.SackFumblesLost)},
	}
	for _, f := range fields {
		v, ok := get(f.name)
		if !ok {
			return model.SackStatLine{}, fmt.Errorf("%w: missing field %q", ErrTypeConversion, f.name)
		}
		if err := f.set(v); err != nil {
			return model.SackStatLine{}, fmt.Errorf("%w: field %q: %v", ErrTypeConversion, f.name, err)
		}
	}
	return line, nil
}

func stringInto(dst *string) func(any) error {
	return func(v any) error {
		switch s := v.(type) {
		case string:
			*dst = s
		case []byte:
			*dst = string(s)
		default:
			return fmt.Errorf("cannot use %T as string", v)
		}
		return nil
	}
}

func intInto(dst *int) func(any) error {
	return func(v any) error {
		n, err := toInt(v)
		if err != nil {
			return err
		}
		*dst = n
		return nil
	}
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int8:
		return int(n), nil
	case int16:
		return int(n), nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case uint8:
		return int(n), nil
	case uint16:
		return int(n), nil
	case uint32:
		return int(n), nil
	case uint:
		return uintToInt(uint64(n))
	case uint64:
		return uintToInt(n)
	case uintptr:
		return uintToInt(uint64(n))
	case float32:
		return floatToInt(float64(n))
	case float64:
		return floatToInt(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), nil
		}
		f, err := n.Float64()
		if err != nil {
			return 0, err
		}
		return floatToInt(f)
	case string:
		s := strings.TrimSpace(n)
		if i, err := strconv.Atoi(s); err == nil {
			return i, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot parse %q as integer", n)
		}
		return floatToInt(f)
	}
	return 0, fmt.Errorf("cannot use %T as integer", v)
}

// floatToInt accepts integral floats only; JSON decodes every number as float64.
func floatToInt(f float64) (int, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("non-integral value %v", f)
	}
	if f < math.MinInt || f >= math.MaxInt {
		return 0, fmt.Errorf("value %v out of range", f)
	}
	return int(f), nil
}

func uintToInt(n uint64) (int, error) {
	if n > math.MaxInt {
		return 0, fmt.Errorf("value %d out of range", n)
	}
	return int(n), nil
}
