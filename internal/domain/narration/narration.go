// Package narration renders announcement texts.
//
// Output depends only on its inputs, so identical stat lines always produce
// byte-identical posts.
package narration

import (
	"strconv"
	"strings"

	"github.com/okian/sackigami/internal/domain/model"
	"github.com/okian/sackigami/internal/domain/nosacks"
)

const (
	headerNovel    = "Sackigami!"
	headerRepeated = "No Sackigami!"
	closingNovel   = "This has never happened before."
)

// Render builds the announcement for target. A nil similar marks the stat
// line as never seen before.
func Render(target model.SackStatLine, similar *model.SimilarStatLines) string {
	var b strings.Builder

	if similar == nil {
		b.WriteString(headerNovel)
	} else {
		b.WriteString(headerRepeated)
	}
	b.WriteString("\n\n")

	b.WriteString("The ")
	b.WriteString(TeamName(target.Team))
	b.WriteString(" suffered ")
	b.WriteString(count(target.SacksSuffered, "sack"))
	b.WriteString(" in their game against the ")
	b.WriteString(TeamName(target.OpponentTeam))
	b.WriteString(". This led to a total of ")
	b.WriteString(count(abs(target.SackYardsLost), "yard"))
	b.WriteString(" lost.\n")

	b.WriteString(stripSacks(target))
	b.WriteString("\n\n")

	if similar == nil {
		b.WriteString(closingNovel)
	} else {
		b.WriteString("This has happened ")
		b.WriteString(count(similar.Count, "time"))
		b.WriteString(" before. Most recently in week ")
		b.WriteString(strconv.Itoa(similar.LastGameDay.Week))
		b.WriteString(" of the ")
		b.WriteString(strconv.Itoa(similar.LastGameDay.Season))
		b.WriteString(" season.")
	}

	return b.String()
}

// RenderNoSacks builds the no-sacks report post.
func RenderNoSacks(r nosacks.Report) string {
	var b strings.Builder
	gd := "week " + strconv.Itoa(r.GameDay.Week) + " of the " + strconv.Itoa(r.GameDay.Season) + " season"

	if len(r.Teams) == 0 {
		b.WriteString("Every team was sacked at least once in ")
		b.WriteString(gd)
		b.WriteString(".\n")
	} else {
		b.WriteString("Clean pockets!\n\n")
		b.WriteString(plural(len(r.Teams), "This team was", "These teams were"))
		b.WriteString(" not sacked once in ")
		b.WriteString(gd)
		b.WriteString(":\n")
		for _, t := range r.Teams {
			b.WriteString("- The ")
			b.WriteString(TeamName(t.Team))
			b.WriteString(" against the ")
			b.WriteString(TeamName(t.OpponentTeam))
			b.WriteString("\n")
		}
	}

	b.WriteString("\nSo far this season ")
	b.WriteString(strconv.FormatFloat(r.SeasonAverage, 'f', 2, 64))
	b.WriteString(" teams per week went without a sack.")
	return b.String()
}

func stripSacks(s model.SackStatLine) string {
	turnovers := count(s.SackFumblesLost, "turnover")
	if s.SackFumbles == 1 {
		return "That sack was a strip-sack, resulting in " + turnovers + "."
	}
	return strconv.Itoa(s.SackFumbles) + " of those sacks were strip-sacks, resulting in " + turnovers + "."
}

// count writes n next to word, pluralized unless n is exactly one.
func count(n int, word string) string {
	return strconv.Itoa(n) + " " + plural(n, word, word+"s")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
