package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/sackigami/internal/adapters/cache"
	"github.com/okian/sackigami/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

const history = `season,week,team,season_type,opponent_team,sacks_suffered,sack_yards_lost,sack_fumbles,sack_fumbles_lost
2002,12,WAS,REG,DAL,7,-45,3,2
2002,12,DAL,REG,WAS,2,-11,0,0
2025,16,WAS,REG,BAL,3,-20,1,0
2025,16,BAL,REG,WAS,0,0,0,0
`

func run(args ...string) (string, error) {
	var out, errOut bytes.Buffer
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGameDayFlags(t *testing.T) {
	Convey("Given gameday flags", t, func() {
		Convey("Then none should mean the latest gameday", func() {
			gd, err := (&gamedayFlags{}).gameday()
			So(err, ShouldBeNil)
			So(gd, ShouldBeNil)
		})

		Convey("Then both should select that gameday", func() {
			gd, err := (&gamedayFlags{season: 2002, week: 12}).gameday()
			So(err, ShouldBeNil)
			So(gd.String(), ShouldEqual, "2002/12")
		})

		Convey("Then only one should be rejected", func() {
			_, err := (&gamedayFlags{season: 2002}).gameday()
			So(errors.Is(err, errPartialGameDay), ShouldBeTrue)
			_, err = (&gamedayFlags{week: 12}).gameday()
			So(errors.Is(err, errPartialGameDay), ShouldBeTrue)
		})
	})
}

func TestCommands(t *testing.T) {
	Convey("Given an offline setup with a local history", t, func() {
		dir := t.TempDir()
		data := filepath.Join(dir, "weeks.csv")
		So(os.WriteFile(data, []byte(history), 0o644), ShouldBeNil)
		ledgerPath := filepath.Join(dir, "posted_offline.json")
		base := []string{"--offline", "--data-file", data, "--ledger", ledgerPath, "--log-level", "error"}

		Convey("When running gbg twice", func() {
			first, err := run(append([]string{"gbg"}, base...)...)
			So(err, ShouldBeNil)
			second, err := run(append([]string{"gbg"}, base...)...)
			So(err, ShouldBeNil)

			Convey("Then the first run should print the announcements", func() {
				So(first, ShouldContainSubstring, "Sackigami!")
				So(first, ShouldContainSubstring, "----")
				So(first, ShouldContainSubstring, "2025/16: evaluated 2 games, announced 2")
			})

			Convey("Then the ledger should keep the second run quiet", func() {
				_, err := os.Stat(ledgerPath)
				So(err, ShouldBeNil)
				So(second, ShouldContainSubstring, "announced 0")
				So(second, ShouldNotContainSubstring, "----")
			})
		})

		Convey("When running nosacks", func() {
			out, err := run(append([]string{"nosacks"}, base...)...)
			So(err, ShouldBeNil)
			So(out, ShouldContainSubstring, "Clean pockets!")
			So(out, ShouldContainSubstring, "- The Baltimore Ravens against the Washington Commanders")
			So(out, ShouldContainSubstring, "2025/16: posted 1 teams")

			again, err := run(append([]string{"nosacks"}, base...)...)
			So(err, ShouldBeNil)
			So(again, ShouldContainSubstring, "already posted")
		})

		Convey("When running nosacks on a gameday without clean pockets", func() {
			out, err := run(append([]string{"nosacks", "--season", "2002", "--week", "12"}, base...)...)
			So(err, ShouldBeNil)
			So(out, ShouldContainSubstring, "every team was sacked")
		})

		Convey("When only a season is given", func() {
			_, err := run(append([]string{"gbg", "--season", "2025"}, base...)...)
			So(errors.Is(err, errPartialGameDay), ShouldBeTrue)
		})
	})

	Convey("Given an online run without credentials", t, func() {
		_, err := run("gbg", "--offline=false", "--data-file", "unused.csv")
		So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
	})
}

func TestCacheCommand(t *testing.T) {
	Convey("Given a season cache with two seasons", t, func() {
		path := filepath.Join(t.TempDir(), "cache.db")
		t.Setenv(config.EnvPrefix+"CACHE_PATH", path)

		c, err := cache.Open(path)
		So(err, ShouldBeNil)
		So(c.Put(context.Background(), 2001, []byte("a")), ShouldBeNil)
		So(c.Put(context.Background(), 2002, []byte("b")), ShouldBeNil)
		So(c.Close(), ShouldBeNil)

		Convey("When listing it", func() {
			out, err := run("cache", "list", "--log-level", "error")
			So(err, ShouldBeNil)
			So(out, ShouldContainSubstring, "2 seasons (2001-2002)")
		})

		Convey("When clearing it", func() {
			out, err := run("cache", "clear", "--log-level", "error")
			So(err, ShouldBeNil)
			So(out, ShouldContainSubstring, "cleared")

			out, err = run("cache", "list", "--log-level", "error")
			So(err, ShouldBeNil)
			So(out, ShouldContainSubstring, "empty")
		})
	})
}

func TestExecute(t *testing.T) {
	Convey("Execute should hand command errors back to the caller", t, func() {
		err := Execute(context.Background(), []string{"gbg", "--season", "2025", "--log-level", "error"})
		So(errors.Is(err, errPartialGameDay), ShouldBeTrue)
	})
}
