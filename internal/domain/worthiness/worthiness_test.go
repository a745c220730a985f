package worthiness_test

import (
	"testing"
	"time"

	"github.com/okian/sackigami/internal/domain/model"
	"github.com/okian/sackigami/internal/domain/worthiness"
	. "github.com/smartystreets/goconvey/convey"
)

func fixedClock() time.Time {
	return time.Date(2025, time.December, 22, 12, 0, 0, 0, time.UTC)
}

func notPosted(model.SackStatLine) bool { return false }
func posted(model.SackStatLine) bool    { return true }

// quiet is a line below every extreme-value threshold.
func quiet() model.SackStatLine {
	return model.SackStatLine{
		GameDay:         model.GameDay{Season: 2025, Week: 16},
		Team:            "WAS",
		OpponentTeam:    "BAL",
		SacksSuffered:   2,
		SackYardsLost:   -11,
		SackFumbles:     0,
		SackFumblesLost: 0,
	}
}

func common(season int) *model.SimilarStatLines {
	return &model.SimilarStatLines{LastGameDay: model.GameDay{Season: season, Week: 3}, Count: 250}
}

func TestClassifier(t *testing.T) {
	Convey("Given a classifier with default thresholds", t, func() {
		c := worthiness.New(worthiness.WithClock(fixedClock))

		Convey("Then the cascade should be in the documented order", func() {
			var names []string
			for _, r := range c.Rules() {
				names = append(names, r.Name)
			}
			So(names, ShouldResemble, []string{
				worthiness.RuleAlreadyPosted,
				worthiness.RuleNeverHappened,
				worthiness.RuleRare,
				worthiness.RuleStalePrecedent,
				worthiness.RuleSacksWithoutYardage,
				worthiness.RuleExtremeValue,
				worthiness.RuleDefault,
			})
		})

		Convey("When the line was already posted", func() {
			v := c.Evaluate(quiet(), nil, posted)

			Convey("Then nothing else should matter", func() {
				So(v, ShouldResemble, worthiness.Verdict{Worth: false, Rule: worthiness.RuleAlreadyPosted})
				extreme := quiet()
				extreme.SacksSuffered = 10
				So(c.IsWorthAnnouncing(extreme, nil, posted), ShouldBeFalse)
			})
		})

		Convey("When the line never happened before", func() {
			v := c.Evaluate(quiet(), nil, notPosted)
			So(v, ShouldResemble, worthiness.Verdict{Worth: true, Rule: worthiness.RuleNeverHappened})

			Convey("And thresholds are unreachable", func() {
				strict := worthiness.New(worthiness.WithThresholds(worthiness.Thresholds{
					SacksSuffered: 100, SackYardsLost: -1000, SackFumbles: 100, SackFumblesLost: 100,
				}))
				So(strict.IsWorthAnnouncing(quiet(), nil, notPosted), ShouldBeTrue)
				So(strict.IsWorthAnnouncing(quiet(), nil, nil), ShouldBeTrue)
			})
		})

		Convey("When the line happened four times", func() {
			sim := common(2024)
			sim.Count = 4
			So(c.Evaluate(quiet(), sim, notPosted).Rule, ShouldEqual, worthiness.RuleRare)
		})

		Convey("When the line happened five times recently", func() {
			sim := common(2024)
			sim.Count = 5
			So(c.Evaluate(quiet(), sim, notPosted), ShouldResemble, worthiness.Verdict{Worth: false, Rule: worthiness.RuleDefault})
		})

		Convey("When the last precedent is exactly fifteen seasons old", func() {
			So(c.Evaluate(quiet(), common(2010), notPosted).Rule, ShouldEqual, worthiness.RuleStalePrecedent)
		})

		Convey("When the last precedent is fourteen seasons old", func() {
			So(c.IsWorthAnnouncing(quiet(), common(2011), notPosted), ShouldBeFalse)
		})

		Convey("When many sacks cost no yardage", func() {
			line := quiet()
			line.SacksSuffered = 5
			line.SackYardsLost = 0
			So(c.Evaluate(line, common(2024), notPosted).Rule, ShouldEqual, worthiness.RuleSacksWithoutYardage)
		})

		Convey("When a single stat reaches its threshold", func() {
			cases := []struct {
				name string
				edit func(*model.SackStatLine)
			}{
				{"sacks", func(l *model.SackStatLine) { l.SacksSuffered = 5; l.SackYardsLost = -30 }},
				{"yards", func(l *model.SackStatLine) { l.SackYardsLost = -25 }},
				{"fumbles", func(l *model.SackStatLine) { l.SacksSuffered = 2; l.SackFumbles = 2 }},
				{"fumbles lost", func(l *model.SackStatLine) { l.SackFumbles = 2; l.SackFumblesLost = 2 }},
			}
			for _, tc := range cases {
				Convey("Then the extreme "+tc.name+" should be announced", func() {
					line := quiet()
					tc.edit(&line)
					v := c.Evaluate(line, common(2024), notPosted)
					So(v.Worth, ShouldBeTrue)
					So(v.Rule, ShouldEqual, worthiness.RuleExtremeValue)
				})
			}
		})

		Convey("When yards are just below the threshold", func() {
			line := quiet()
			line.SackYardsLost = -24
			So(c.IsWorthAnnouncing(line, common(2024), notPosted), ShouldBeFalse)
		})
	})

	Convey("Given custom rare and stale settings", t, func() {
		c := worthiness.New(
			worthiness.WithClock(fixedClock),
			worthiness.WithRareCount(1),
			worthiness.WithStaleYears(5),
		)

		Convey("Then the cascade should use them", func() {
			sim := common(2021)
			sim.Count = 2
			So(c.Evaluate(quiet(), sim, notPosted).Rule, ShouldEqual, worthiness.RuleDefault)
			sim.LastGameDay.Season = 2020
			So(c.Evaluate(quiet(), sim, notPosted).Rule, ShouldEqual, worthiness.RuleStalePrecedent)
			sim.Count = 1
			So(c.Evaluate(quiet(), sim, notPosted).Rule, ShouldEqual, worthiness.RuleRare)
		})
	})
}
