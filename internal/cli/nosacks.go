package cli

import (
	"fmt"

	service "github.com/okian/sackigami/internal/app"
	"github.com/spf13/cobra"
)

func newNoSacksCommand(a *app) *cobra.Command {
	var gd gamedayFlags

	cmd := &cobra.Command{
		Use:   "nosacks",
		Short: "Post the teams that were not sacked on a gameday",
		Long: `Lists every team that allowed zero sacks on the gameday together with the
season's average of sack-free teams per week, and posts it once.`,
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

			sum, err := svc.NoSacks(ctx, gameday)
			if err != nil {
				return fmt.Errorf("nosacks: %w", err)
			}

			switch sum.SkipReason {
			case service.SkipNoTeams:
				fmt.Fprintf(out, "%s: every team was sacked, nothing posted\n", sum.Report.GameDay)
			case service.SkipAlreadyPosted:
				fmt.Fprintf(out, "%s: already posted\n", sum.Report.GameDay)
			default:
				fmt.Fprintf(out, "%s: posted %d teams (%s)\n", sum.Report.GameDay, len(sum.Report.Teams), sum.Response.ID)
			}
			return nil
		},
	}

	gd.register(cmd)
	return cmd
}
