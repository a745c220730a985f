package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
)

func newGameByGameCommand(a *app) *cobra.Command {
	var gd gamedayFlags

	cmd := &cobra.Command{
		Use:     "gbg",
		Aliases: []string{"game-by-game"},
		Short:   "Announce the noteworthy games of a gameday",
		Long: `Evaluates every game of the gameday against the full history and posts
one announcement per game whose sack stat line is new, rare, stale or
extreme. Games already in the ledger are skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gameday, err := gd.gameday()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			svc, closeFn, err := a.newService(ctx, out)
			if err != nil {
				return err
			}
			defer closeFn()
			defer a.flushMetrics(ctx)

			sum, err := svc.GameByGame(ctx, gameday)
			if err != nil {
				return fmt.Errorf("gbg: %w", err)
			}

			fmt.Fprintf(out, "%s: evaluated %d games, announced %d\n", sum.GameDay, sum.Evaluated, len(sum.Announced))
			rules := make([]string, 0, len(sum.Verdicts))
			for rule := range sum.Verdicts {
				rules = append(rules, rule)
			}
			slices.Sort(rules)
			for _, rule := range rules {
				fmt.Fprintf(out, "  %-16s %d\n", rule, sum.Verdicts[rule])
			}
			return nil
		},
	}

	gd.register(cmd)
	return cmd
}
