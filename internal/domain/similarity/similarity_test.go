package similarity_test

import (
	"testing"

	"github.com/okian/sackigami/internal/domain/dataset"
	"github.com/okian/sackigami/internal/domain/model"
	"github.com/okian/sackigami/internal/domain/similarity"
	. "github.com/smartystreets/goconvey/convey"
)

func line(team, opp string, season, week, sacks, yards, fumbles, lost int) model.SackStatLine {
	return model.SackStatLine{
		GameDay:         model.GameDay{Season: season, Week: week},
		Team:            team,
		OpponentTeam:    opp,
		SacksSuffered:   sacks,
		SackYardsLost:   yards,
		SackFumbles:     fumbles,
		SackFumblesLost: lost,
	}
}

func datasetOf(lines ...model.SackStatLine) *dataset.Dataset {
	rows := make([]dataset.Row, len(lines))
	for i, l := range lines {
		rows[i] = dataset.NewRow(l)
	}
	return dataset.New(rows...)
}

// completeStats mirrors a history where the week 16 line already happened
// three times: in 1999, in week 13 of 2025 and for BUF in week 16 of 2025.
func completeStats() *dataset.Dataset {
	return datasetOf(
		line("ATL", "TB", 1999, 4, 7, -45, 3, 2),
		line("CAR", "ATL", 2000, 11, 2, -12, 1, 0),
		line("TB", "BUF", 2013, 6, 2, -13, 0, 0),
		line("BAL", "CAR", 2013, 15, 6, -20, 2, 1),
		line("WAS", "ATL", 2025, 13, 7, -45, 3, 2),
		line("BUF", "CAR", 2025, 16, 7, -45, 3, 2),
		line("WAS", "BAL", 2025, 16, 7, -45, 3, 2),
	)
}

func TestFindSimilar(t *testing.T) {
	Convey("Given a history with repeated stat lines", t, func() {
		ds := completeStats()
		target := line("WAS", "BAL", 2025, 16, 7, -45, 3, 2)

		Convey("When looking up the latest WAS game", func() {
			sim := similarity.FindSimilar(ds, target)

			Convey("Then every other identical line should be counted", func() {
				So(sim, ShouldNotBeNil)
				So(sim.Count, ShouldEqual, 3)
			})

			Convey("And the most recent precedent should win", func() {
				So(sim.LastGameDay, ShouldResemble, model.GameDay{Season: 2025, Week: 16})
			})
		})

		Convey("When the only match is the row itself", func() {
			unique := line("BAL", "CAR", 2013, 15, 6, -20, 2, 1)
			So(similarity.FindSimilar(ds, unique), ShouldBeNil)
			So(similarity.Matches(ds, unique).Len(), ShouldEqual, 0)
		})

		Convey("When a single stat differs by one", func() {
			off := target
			off.SackYardsLost = -44
			So(similarity.FindSimilar(ds, off), ShouldBeNil)
		})

		Convey("When the yardage has the opposite sign", func() {
			flipped := target
			flipped.SackYardsLost = 45
			So(similarity.FindSimilar(ds, flipped), ShouldBeNil)
		})
	})

	Convey("Given a dataset with two identical stat lines", t, func() {
		old := line("WAS", "DAL", 2002, 12, 7, -45, 3, 2)
		current := line("WAS", "BAL", 2025, 16, 7, -45, 3, 2)
		ds := datasetOf(old, current)

		Convey("Then the 2025 game should point back to 2002", func() {
			sim := similarity.FindSimilar(ds, current)
			So(sim, ShouldResemble, &model.SimilarStatLines{
				LastGameDay: model.GameDay{Season: 2002, Week: 12},
				Count:       1,
			})
		})

		Convey("And each line should count the other", func() {
			So(similarity.FindSimilar(ds, old).Count, ShouldEqual, 1)
			So(similarity.FindSimilar(ds, old).LastGameDay, ShouldResemble, model.GameDay{Season: 2025, Week: 16})
		})
	})

	Convey("Given every row of a dataset", t, func() {
		ds := completeStats()

		Convey("Then no row should ever count itself", func() {
			for _, r := range ds.Rows() {
				l := line(r.Team, r.OpponentTeam, r.Season, r.Week, r.SacksSuffered, r.SackYardsLost, r.SackFumbles, r.SackFumblesLost)
				for _, m := range similarity.Matches(ds, l).Rows() {
					So(m.Key(), ShouldNotResemble, l.Key())
				}
				sim := similarity.FindSimilar(ds, l)
				if sim != nil {
					So(sim.Count, ShouldBeGreaterThan, 0)
				}
			}
		})
	})

	Convey("Given a history without the target's stat line", t, func() {
		ds := datasetOf(
			line("ATL", "TB", 1999, 4, 7, -45, 1, 1),
			line("WAS", "ATL", 2025, 13, 8, -45, 2, 0),
			line("BUF", "CAR", 2025, 16, 6, -34, 3, 0),
			line("WAS", "BAL", 2025, 16, 7, -5, 2, 1),
		)

		Convey("Then the row itself should not make it a repeat", func() {
			So(similarity.FindSimilar(ds, line("WAS", "BAL", 2025, 16, 7, -5, 2, 1)), ShouldBeNil)
		})
	})
}
