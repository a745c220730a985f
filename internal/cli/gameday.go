package cli

import (
	"errors"

	"github.com/okian/sackigami/internal/domain/model"
	"github.com/spf13/cobra"
)

var errPartialGameDay = errors.New("--season and --week must be given together")

type gamedayFlags struct {
	season int
	week   int
}

func (f *gamedayFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.season, "season", 0, "Season to run (default: latest in the data)")
	cmd.Flags().IntVar(&f.week, "week", 0, "Week to run (default: latest in the data)")
}

// gameday returns nil when no gameday was requested.
func (f *gamedayFlags) gameday() (*model.GameDay, error) {
	switch {
	case f.season == 0 && f.week == 0:
		return nil, nil
	case f.season <= 0 || f.week <= 0:
		return nil, errPartialGameDay
	}
	return &model.GameDay{Season: f.season, Week: f.week}, nil
}
