package cli

import (
	"context"
	"io"
	"net/http"

	"github.com/okian/sackigami/internal/adapters/cache"
	"github.com/okian/sackigami/internal/adapters/ledger"
	"github.com/okian/sackigami/internal/adapters/poster"
	"github.com/okian/sackigami/internal/adapters/source"
	service "github.com/okian/sackigami/internal/app"
	"github.com/okian/sackigami/internal/domain/worthiness"
	"github.com/okian/sackigami/pkg/logger"
)

// newService wires the collaborators described by the config. The returned
// close func releases the season cache.
func (a *app) newService(ctx context.Context, out io.Writer) (*service.Service, func(), error) {
	cfg := a.cfg
	closeFn := func() {}

	var src source.Source
	if cfg.DataFile != "" {
		src = source.NewFile(cfg.DataFile)
	} else {
		opts := []source.Option{
			source.WithBaseURL(cfg.DataURL),
			source.WithFirstSeason(cfg.FirstSeason),
			source.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeoutDuration()}),
			source.WithLogger(a.log.Named("source")),
		}
		if cfg.CachePath != "" {
			c, err := cache.Open(cfg.CachePath)
			if err != nil {
				a.log.Warn(ctx, "season cache disabled", logger.String("path", cfg.CachePath), logger.Error(err))
			} else {
				opts = append(opts, source.WithCache(c))
				closeFn = func() { _ = c.Close() }
			}
		}
		src = source.NewNFLVerse(opts...)
	}

	var p poster.Poster
	if cfg.Offline {
		p = poster.NewConsole(out)
	} else {
		x, err := poster.NewX(poster.Credentials{
			APIKey:       cfg.APIKey,
			APISecret:    cfg.APISecret,
			AccessToken:  cfg.AccessToken,
			AccessSecret: cfg.AccessSecret,
		}, poster.WithTimeout(cfg.HTTPTimeoutDuration()))
		if err != nil {
			closeFn()
			return nil, nil, err
		}
		p = x
	}

	classifier := worthiness.New(worthiness.WithThresholds(worthiness.Thresholds{
		SacksSuffered:   cfg.SacksSuffered,
		SackYardsLost:   cfg.SackYardsLost,
		SackFumbles:     cfg.SackFumbles,
		SackFumblesLost: cfg.SackFumblesLost,
	}))

	svc, err := service.New(
		service.WithSource(src),
		service.WithLedger(ledger.New(cfg.LedgerFile())),
		service.WithPoster(p),
		service.WithPacer(poster.NewPacer(cfg.PostDelay())),
		service.WithClassifier(classifier),
		service.WithLogger(a.log),
	)
	if err != nil {
		closeFn()
		return nil, nil, err
	}

	a.log.Debug(ctx, "service wired",
		logger.Bool("offline", cfg.Offline),
		logger.String("ledger", cfg.LedgerFile()),
		logger.Duration("post_delay", cfg.PostDelay()))
	return svc, closeFn, nil
}
