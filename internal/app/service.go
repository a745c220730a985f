// Package service runs the announcement pipelines: load the history, pick
// the gameday, classify every game and post the ones worth announcing.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/okian/sackigami/internal/adapters/poster"
	"github.com/okian/sackigami/internal/adapters/source"
	"github.com/okian/sackigami/internal/domain/dataset"
	"github.com/okian/sackigami/internal/domain/extract"
	"github.com/okian/sackigami/internal/domain/model"
	"github.com/okian/sackigami/internal/domain/narration"
	"github.com/okian/sackigami/internal/domain/nosacks"
	"github.com/okian/sackigami/internal/domain/similarity"
	"github.com/okian/sackigami/internal/domain/worthiness"
	"github.com/okian/sackigami/pkg/logger"
	"github.com/okian/sackigami/pkg/metrics"
)

// Ledger is the posted-games store. Implemented by ledger.File.
type Ledger interface {
	Load() ([]model.Record, error)
	Append(records ...model.Record) error
	HasBeenPosted(r model.Record) (bool, error)
}

// Pacer spaces consecutive posts. Implemented by poster.Pacer.
type Pacer interface {
	Wait(ctx context.Context) error
}

// Announcement is one game that was posted.
type Announcement struct {
	Line     model.SackStatLine
	Similar  *model.SimilarStatLines
	Verdict  worthiness.Verdict
	Text     string
	Response poster.Response
}

// GameByGameSummary describes a game-by-game run.
type GameByGameSummary struct {
	RunID     string
	GameDay   model.GameDay
	Evaluated int
	Announced []Announcement
	// Verdicts counts evaluated games by deciding rule.
	Verdicts map[string]int
}

// NoSacksSummary describes a no-sacks run.
type NoSacksSummary struct {
	RunID  string
	Report nosacks.Report
	Text   string
	Posted bool
	// SkipReason is set when nothing was posted.
	SkipReason string
	Response   poster.Response
}

// Skip reasons of a no-sacks run.
const (
	SkipNoTeams       = "no_teams"
	SkipAlreadyPosted = "already_posted"
)

type noopPacer struct{}

func (noopPacer) Wait(context.Context) error { return nil }

// Service wires the collaborators of both pipelines.
type Service struct {
	source     source.Source
	ledger     Ledger
	poster     poster.Poster
	pacer      Pacer
	classifier *worthiness.Classifier
	logger     logger.Logger
	newRunID   func() string
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSource sets the historical data source.
func WithSource(src source.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithLedger sets the posted-games ledger.
func WithLedger(l Ledger) Option {
	return func(s *Service) {
		if l != nil {
			s.ledger = l
		}
	}
}

// WithPoster sets the posting collaborator.
func WithPoster(p poster.Poster) Option {
	return func(s *Service) {
		if p != nil {
			s.poster = p
		}
	}
}

// WithPacer sets the delay between posts.
func WithPacer(p Pacer) Option {
	return func(s *Service) {
		if p != nil {
			s.pacer = p
		}
	}
}

// WithClassifier sets the worthiness classifier.
func WithClassifier(c *worthiness.Classifier) Option {
	return func(s *Service) {
		if c != nil {
			s.classifier = c
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRunIDs sets the run id generator.
func WithRunIDs(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newRunID = fn
		}
	}
}

// New constructs a Service. Source, ledger and poster are required.
func New(opts ...Option) (*Service, error) {
	s := &Service{
		pacer:      noopPacer{},
		classifier: worthiness.New(),
		logger:     logger.Nop(),
		newRunID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	switch {
	case s.source == nil:
		return nil, fmt.Errorf("%w: source", ErrMissingDependency)
	case s.ledger == nil:
		return nil, fmt.Errorf("%w: ledger", ErrMissingDependency)
	case s.poster == nil:
		return nil, fmt.Errorf("%w: poster", ErrMissingDependency)
	}
	return s, nil
}

// GameByGame announces the noteworthy games of gameday, or of the latest
// gameday when nil. Games are handled in dataset order; the first posting
// or ledger failure aborts the run.
func (s *Service) GameByGame(ctx context.Context, gameday *model.GameDay) (GameByGameSummary, error) {
	runID := s.newRunID()
	log := s.logger.With(logger.String("run_id", runID), logger.String("command", "gbg"))
	sum := GameByGameSummary{RunID: runID, Verdicts: map[string]int{}}

	ds, err := s.load(ctx, log)
	if err != nil {
		return sum, err
	}

	week, err := dataset.SelectGameday(ds, gameday)
	if err != nil {
		return sum, s.fail("dataset", "gameday", err)
	}
	sum.GameDay = resolved(ds, week, gameday)

	lines, err := extract.FromDataset(week)
	if err != nil {
		return sum, s.fail("extract", "type_conversion", err)
	}
	log.Info(ctx, "evaluating gameday",
		logger.String("gameday", sum.GameDay.String()),
		logger.Int("games", len(lines)))

	for _, line := range lines {
		if err := line.Validate(); err != nil {
			log.Warn(ctx, "inconsistent stat line", logger.String("team", line.Team), logger.Error(err))
		}

		start := time.Now()
		similar := similarity.FindSimilar(ds, line)
		metrics.RecordSimilarityLookup(time.Since(start))

		posted, err := s.ledger.HasBeenPosted(line.Record())
		if err != nil {
			return sum, s.fail("ledger", "read", err)
		}

		verdict := s.classifier.Evaluate(line, similar, func(model.SackStatLine) bool { return posted })
		sum.Evaluated++
		sum.Verdicts[verdict.Rule]++
		metrics.RecordGameEvaluated(verdict.Rule)

		fields := []logger.Field{
			logger.String("team", line.Team),
			logger.String("opponent", line.OpponentTeam),
			logger.String("rule", verdict.Rule),
		}
		if !verdict.Worth {
			metrics.RecordAnnouncement(metrics.ResultSkipped)
			log.Debug(ctx, "not worth announcing", fields...)
			continue
		}

		if len(sum.Announced) > 0 {
			if err := s.pacer.Wait(ctx); err != nil {
				return sum, err
			}
		}

		text := narration.Render(line, similar)
		resp, err := s.publish(ctx, text, line.Record())
		if err != nil {
			return sum, err
		}
		log.Info(ctx, "announced", append(fields, logger.String("post_id", resp.ID))...)

		sum.Announced = append(sum.Announced, Announcement{
			Line: line, Similar: similar, Verdict: verdict, Text: text, Response: resp,
		})
	}

	log.Info(ctx, "gameday done",
		logger.Int("evaluated", sum.Evaluated),
		logger.Int("announced", len(sum.Announced)))
	return sum, nil
}

// NoSacks posts the teams that were not sacked on gameday, or on the latest
// gameday when nil. The post is made once: it is skipped when every listed
// game is already in the ledger.
func (s *Service) NoSacks(ctx context.Context, gameday *model.GameDay) (NoSacksSummary, error) {
	runID := s.newRunID()
	log := s.logger.With(logger.String("run_id", runID), logger.String("command", "nosacks"))
	sum := NoSacksSummary{RunID: runID}

	ds, err := s.load(ctx, log)
	if err != nil {
		return sum, err
	}

	report, err := nosacks.Build(ds, gameday)
	if err != nil {
		return sum, s.fail("nosacks", "build", err)
	}
	sum.Report = report
	sum.Text = narration.RenderNoSacks(report)

	log.Info(ctx, "no-sacks report built",
		logger.String("gameday", report.GameDay.String()),
		logger.Int("teams", len(report.Teams)),
		logger.Float64("season_average", report.SeasonAverage))

	if len(report.Teams) == 0 {
		sum.SkipReason = SkipNoTeams
		metrics.RecordAnnouncement(metrics.ResultSkipped)
		return sum, nil
	}

	records := make([]model.Record, 0, len(report.Teams))
	fresh := false
	for _, t := range report.Teams {
		r := t.Record()
		records = append(records, r)
		posted, err := s.ledger.HasBeenPosted(r)
		if err != nil {
			return sum, s.fail("ledger", "read", err)
		}
		fresh = fresh || !posted
	}
	if !fresh {
		sum.SkipReason = SkipAlreadyPosted
		metrics.RecordAnnouncement(metrics.ResultSkipped)
		log.Info(ctx, "no-sacks report already posted")
		return sum, nil
	}

	resp, err := s.publish(ctx, sum.Text, records...)
	if err != nil {
		return sum, err
	}
	sum.Posted = true
	sum.Response = resp
	log.Info(ctx, "no-sacks report announced", logger.String("post_id", resp.ID))
	return sum, nil
}

func (s *Service) load(ctx context.Context, log logger.Logger) (*dataset.Dataset, error) {
	records, err := s.ledger.Load()
	if err != nil {
		return nil, s.fail("ledger", "read", err)
	}
	metrics.UpdateLedgerRecords(len(records))

	ds, err := s.source.Load(ctx)
	if err != nil {
		return nil, s.fail("source", "load", err)
	}
	if err := ds.Validate(); err != nil {
		log.Warn(ctx, "dataset has duplicate games", logger.Error(err))
	}
	metrics.UpdateDatasetRows(ds.Len())
	log.Info(ctx, "history loaded", logger.Int("rows", ds.Len()), logger.Int("ledger_records", len(records)))
	return ds, nil
}

// publish posts text and, only once the post went through, records it.
func (s *Service) publish(ctx context.Context, text string, records ...model.Record) (poster.Response, error) {
	resp, err := s.poster.Post(ctx, text)
	if err != nil {
		metrics.RecordAnnouncement(metrics.ResultFailed)
		return poster.Response{}, s.fail("poster", "post", err)
	}
	metrics.RecordAnnouncement(metrics.ResultPosted)

	if err := s.ledger.Append(records...); err != nil {
		return resp, s.fail("ledger", "write", fmt.Errorf("post %s went out but was not recorded: %w", resp.ID, err))
	}
	return resp, nil
}

func (s *Service) fail(component, kind string, err error) error {
	metrics.RecordErrorByComponent(component, kind)
	return err
}

// resolved returns the gameday a run worked on.
func resolved(ds, week *dataset.Dataset, gameday *model.GameDay) model.GameDay {
	if gameday != nil {
		return *gameday
	}
	if r, ok := week.Last(); ok {
		return r.GameDay()
	}
	gd, _ := dataset.ResolveLatest(ds)
	return gd
}
