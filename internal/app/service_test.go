package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/okian/sackigami/internal/adapters/poster"
	service "github.com/okian/sackigami/internal/app"
	"github.com/okian/sackigami/internal/domain/dataset"
	"github.com/okian/sackigami/internal/domain/model"
	"github.com/okian/sackigami/internal/domain/worthiness"
	. "github.com/smartystreets/goconvey/convey"
)

type staticSource struct {
	ds  *dataset.Dataset
	err error
}

func (s staticSource) Load(context.Context) (*dataset.Dataset, error) { return s.ds, s.err }

type memLedger struct {
	records []model.Record
	err     error
}

func (l *memLedger) Load() ([]model.Record, error) { return l.records, l.err }

func (l *memLedger) Append(records ...model.Record) error {
	if l.err != nil {
		return l.err
	}
	l.records = append(l.records, records...)
	return nil
}

func (l *memLedger) HasBeenPosted(r model.Record) (bool, error) {
	if l.err != nil {
		return false, l.err
	}
	for _, have := range l.records {
		if have == r {
			return true, nil
		}
	}
	return false, nil
}

type fakePoster struct {
	posts []string
	err   error
}

func (p *fakePoster) Post(_ context.Context, text string) (poster.Response, error) {
	if p.err != nil {
		return poster.Response{}, p.err
	}
	p.posts = append(p.posts, text)
	return poster.Response{ID: fmt.Sprintf("p%d", len(p.posts)), Text: text}, nil
}

type countingPacer struct{ waits int }

func (p *countingPacer) Wait(context.Context) error { p.waits++; return nil }

func row(team, opp string, season, week, sacks, yards, fumbles, lost int) dataset.Row {
	return dataset.Row{
		Team: team, OpponentTeam: opp, Season: season, Week: week,
		SacksSuffered: sacks, SackYardsLost: yards, SackFumbles: fumbles, SackFumblesLost: lost,
	}
}

// history holds one 2002 precedent for WAS and a common line for BAL,
// followed by the 2025 week 16 games.
func history() *dataset.Dataset {
	rows := []dataset.Row{
		row("WAS", "DAL", 2002, 12, 7, -45, 3, 2),
	}
	for w := 1; w <= 10; w++ {
		rows = append(rows, row("NYG", "PHI", 2024, w, 2, -11, 0, 0))
	}
	rows = append(rows,
		row("WAS", "BAL", 2025, 16, 7, -45, 3, 2), // one precedent from 2002: rare
		row("BAL", "WAS", 2025, 16, 2, -11, 0, 0), // common: default
		row("ATL", "TB", 2025, 16, 9, -77, 4, 3),  // never happened
		row("TB", "ATL", 2025, 16, 0, 0, 0, 0),    // never happened
	)
	return dataset.New(rows...)
}

func newService(src staticSource, l *memLedger, p *fakePoster, pacer service.Pacer) *service.Service {
	svc, err := service.New(
		service.WithSource(src),
		service.WithLedger(l),
		service.WithPoster(p),
		service.WithPacer(pacer),
		service.WithRunIDs(func() string { return "run-1" }),
	)
	So(err, ShouldBeNil)
	return svc
}

func TestService_New(t *testing.T) {
	Convey("Given missing collaborators", t, func() {
		_, err := service.New(service.WithLedger(&memLedger{}), service.WithPoster(&fakePoster{}))
		So(errors.Is(err, service.ErrMissingDependency), ShouldBeTrue)
		So(err.Error(), ShouldContainSubstring, "source")

		_, err = service.New(service.WithSource(staticSource{}), service.WithPoster(&fakePoster{}))
		So(err.Error(), ShouldContainSubstring, "ledger")

		_, err = service.New(service.WithSource(staticSource{}), service.WithLedger(&memLedger{}))
		So(err.Error(), ShouldContainSubstring, "poster")
	})
}

func TestService_GameByGame(t *testing.T) {
	Convey("Given a week of games", t, func() {
		ctx := context.Background()
		l := &memLedger{}
		p := &fakePoster{}
		pacer := &countingPacer{}
		svc := newService(staticSource{ds: history()}, l, p, pacer)

		Convey("When running the latest gameday", func() {
			sum, err := svc.GameByGame(ctx, nil)

			Convey("Then every game should be evaluated in order", func() {
				So(err, ShouldBeNil)
				So(sum.RunID, ShouldEqual, "run-1")
				So(sum.GameDay, ShouldResemble, model.GameDay{Season: 2025, Week: 16})
				So(sum.Evaluated, ShouldEqual, 4)
				So(sum.Verdicts[worthiness.RuleRare], ShouldEqual, 1)
				So(sum.Verdicts[worthiness.RuleNeverHappened], ShouldEqual, 2)
				So(sum.Verdicts[worthiness.RuleDefault], ShouldEqual, 1)
			})

			Convey("Then the worthy games should be posted and recorded", func() {
				So(len(sum.Announced), ShouldEqual, 3)
				So(sum.Announced[0].Line.Team, ShouldEqual, "WAS")
				So(p.posts[0], ShouldStartWith, "No Sackigami!\n\nThe Washington Commanders suffered 7 sacks")
				So(p.posts[0], ShouldEndWith, "This has happened 1 time before. Most recently in week 12 of the 2002 season.")
				So(p.posts[1], ShouldStartWith, "Sackigami!\n\nThe Atlanta Falcons")
				So(len(l.records), ShouldEqual, 3)
				So(l.records[0], ShouldResemble, sum.Announced[0].Line.Record())
			})

			Convey("Then the pacer should run between posts only", func() {
				So(pacer.waits, ShouldEqual, 2)
			})

			Convey("And the run is repeated", func() {
				again, err := svc.GameByGame(ctx, nil)

				Convey("Then nothing should be posted twice", func() {
					So(err, ShouldBeNil)
					So(again.Announced, ShouldBeEmpty)
					So(again.Verdicts[worthiness.RuleAlreadyPosted], ShouldEqual, 3)
					So(len(p.posts), ShouldEqual, 3)
				})
			})
		})

		Convey("When running an explicit earlier gameday", func() {
			sum, err := svc.GameByGame(ctx, &model.GameDay{Season: 2002, Week: 12})
			So(err, ShouldBeNil)
			So(sum.GameDay, ShouldResemble, model.GameDay{Season: 2002, Week: 12})
			So(sum.Evaluated, ShouldEqual, 1)
			So(sum.Announced[0].Similar, ShouldResemble, &model.SimilarStatLines{
				LastGameDay: model.GameDay{Season: 2025, Week: 16}, Count: 1,
			})
		})

		Convey("When posting fails", func() {
			p.err = fmt.Errorf("%w: 503", poster.ErrPosting)
			_, err := svc.GameByGame(ctx, nil)

			Convey("Then the error should surface and nothing be recorded", func() {
				So(errors.Is(err, poster.ErrPosting), ShouldBeTrue)
				So(l.records, ShouldBeEmpty)
			})
		})
	})

	Convey("Given failing collaborators", t, func() {
		ctx := context.Background()

		Convey("An empty dataset should abort", func() {
			svc := newService(staticSource{ds: dataset.New()}, &memLedger{}, &fakePoster{}, nil)
			_, err := svc.GameByGame(ctx, nil)
			So(errors.Is(err, dataset.ErrEmptyDataset), ShouldBeTrue)
		})

		Convey("A source error should abort", func() {
			boom := errors.New("boom")
			svc := newService(staticSource{err: boom}, &memLedger{}, &fakePoster{}, nil)
			_, err := svc.GameByGame(ctx, nil)
			So(errors.Is(err, boom), ShouldBeTrue)
		})

		Convey("A ledger error should abort before anything is posted", func() {
			ledgerErr := errors.New("disk gone")
			p := &fakePoster{}
			svc := newService(staticSource{ds: history()}, &memLedger{err: ledgerErr}, p, nil)
			_, err := svc.GameByGame(ctx, nil)
			So(errors.Is(err, ledgerErr), ShouldBeTrue)
			So(p.posts, ShouldBeEmpty)
		})
	})
}

func TestService_NoSacks(t *testing.T) {
	Convey("Given a week with one unsacked team", t, func() {
		ctx := context.Background()
		l := &memLedger{}
		p := &fakePoster{}
		svc := newService(staticSource{ds: history()}, l, p, nil)

		Convey("When running the report", func() {
			sum, err := svc.NoSacks(ctx, nil)

			Convey("Then it should be posted once", func() {
				So(err, ShouldBeNil)
				So(sum.Posted, ShouldBeTrue)
				So(sum.Report.Teams[0].Team, ShouldEqual, "TB")
				So(p.posts, ShouldResemble, []string{sum.Text})
				So(sum.Text, ShouldContainSubstring, "- The Tampa Bay Buccaneers against the Atlanta Falcons")
				So(len(l.records), ShouldEqual, 1)

				again, err := svc.NoSacks(ctx, nil)
				So(err, ShouldBeNil)
				So(again.Posted, ShouldBeFalse)
				So(again.SkipReason, ShouldEqual, service.SkipAlreadyPosted)
				So(len(p.posts), ShouldEqual, 1)
			})
		})

		Convey("When the week has no unsacked team", func() {
			sum, err := svc.NoSacks(ctx, &model.GameDay{Season: 2002, Week: 12})
			So(err, ShouldBeNil)
			So(sum.Posted, ShouldBeFalse)
			So(sum.SkipReason, ShouldEqual, service.SkipNoTeams)
			So(p.posts, ShouldBeEmpty)
		})
	})
}
