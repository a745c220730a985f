// Package nosacks reports the teams that did not suffer a single sack on a
// gameday and how many such teams a season produces per week on average.
package nosacks

import (
	"fmt"

	"github.com/okian/sackigami/internal/domain/dataset"
	"github.com/okian/sackigami/internal/domain/extract"
	"github.com/okian/sackigami/internal/domain/model"
)

// Report is the no-sacks summary of one gameday.
type Report struct {
	GameDay model.GameDay
	// Teams are the gameday's zero-sack lines in dataset order.
	Teams []model.SackStatLine
	// SeasonCount is the number of zero-sack games in the season up to GameDay.
	SeasonCount   int
	SeasonAverage float64
}

// Build assembles the report for gameday, or for the latest gameday when nil.
//
// The average divides the season's zero-sack games by the week number, so
// it assumes exactly one gameday per week.
func Build(ds *dataset.Dataset, gameday *model.GameDay) (Report, error) {
	gd, err := resolve(ds, gameday)
	if err != nil {
		return Report{}, err
	}

	week, err := dataset.SelectGameday(ds, &gd)
	if err != nil {
		return Report{}, err
	}
	teams, err := extract.FromDataset(week.Filter(zeroSacks))
	if err != nil {
		return Report{}, err
	}

	count := seasonCount(ds, gd)
	avg, err := average(count, gd.Week)
	if err != nil {
		return Report{}, err
	}

	return Report{
		GameDay:       gd,
		Teams:         teams,
		SeasonCount:   count,
		SeasonAverage: avg,
	}, nil
}

// Average returns the season-to-date zero-sack teams per gameday for the
// latest gameday of ds.
func Average(ds *dataset.Dataset) (float64, error) {
	gd, err := dataset.ResolveLatest(ds)
	if err != nil {
		return 0, err
	}
	return average(seasonCount(ds, gd), gd.Week)
}

func resolve(ds *dataset.Dataset, gameday *model.GameDay) (model.GameDay, error) {
	if gameday != nil {
		return *gameday, nil
	}
	return dataset.ResolveLatest(ds)
}

func zeroSacks(r dataset.Row) bool {
	return r.SacksSuffered == 0
}

func seasonCount(ds *dataset.Dataset, gd model.GameDay) int {
	return ds.Filter(func(r dataset.Row) bool {
		return r.Season == gd.Season && r.Week <= gd.Week && zeroSacks(r)
	}).Len()
}

func average(count, week int) (float64, error) {
	if week <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidWeek, week)
	}
	return float64(count) / float64(week), nil
}
