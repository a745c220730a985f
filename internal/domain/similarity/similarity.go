// Package similarity finds the historical precedents of a sack stat line.
//
// Two lines are similar when sacks suffered, sack yards lost, sack fumbles
// and sack fumbles lost are all exactly equal. No tolerance is applied and
// the sign of the yardage is compared as is.
package similarity

import (
	"github.com/okian/sackigami/internal/domain/dataset"
	"github.com/okian/sackigami/internal/domain/model"
)

// Matches returns every row of ds with the same four stats as target,
// excluding the row that is target itself. Dataset order is preserved.
func Matches(ds *dataset.Dataset, target model.SackStatLine) *dataset.Dataset {
	self := target.Key()
	return ds.Filter(func(r dataset.Row) bool {
		return r.Key() != self && target.SameStats(r.StatLine())
	})
}

// FindSimilar reports how often target's stat line happened before and the
// gameday of its last occurrence in dataset order. It returns nil when the
// line never happened before.
func FindSimilar(ds *dataset.Dataset, target model.SackStatLine) *model.SimilarStatLines {
	matches := Matches(ds, target)
	last, ok := matches.Last()
	if !ok {
		return nil
	}
	return &model.SimilarStatLines{
		LastGameDay: last.GameDay(),
		Count:       matches.Len(),
	}
}
