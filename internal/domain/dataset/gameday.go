package dataset

import (
	"fmt"

	"github.com/okian/sackigami/internal/domain/model"
)

// ResolveLatest returns the gameday of the dataset's last row.
func ResolveLatest(d *Dataset) (model.GameDay, error) {
	last, ok := d.Last()
	if !ok {
		return model.GameDay{}, fmt.Errorf("resolve latest gameday: %w", ErrEmptyDataset)
	}
	return last.GameDay(), nil
}

// SelectGameday returns every row played on gameday. A nil gameday selects
// the latest one in the dataset.
func SelectGameday(d *Dataset, gameday *model.GameDay) (*Dataset, error) {
	var target model.GameDay
	if gameday == nil {
		latest, err := ResolveLatest(d)
		if err != nil {
			return nil, err
		}
		target = latest
	} else {
		target = *gameday
	}

	return d.Filter(func(r Row) bool {
		return r.Season == target.Season && r.Week == target.Week
	}), nil
}
