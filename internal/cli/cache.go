package cli

import (
	"fmt"

	"github.com/okian/sackigami/internal/adapters/cache"
	"github.com/spf13/cobra"
)

func newCacheCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or reset the season download cache",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the cached seasons",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := cache.Open(a.cfg.CachePath)
			if err != nil {
				return err
			}
			defer c.Close()

			seasons, err := c.Seasons(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(seasons) == 0 {
				fmt.Fprintf(out, "%s: empty\n", c.Path())
				return nil
			}
			fmt.Fprintf(out, "%s: %d seasons (%d-%d)\n", c.Path(), len(seasons), seasons[0], seasons[len(seasons)-1])
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached season",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := cache.Open(a.cfg.CachePath)
			if err != nil {
				return err
			}
			defer c.Close()

			if err := c.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: cleared\n", c.Path())
			return nil
		},
	}

	cmd.AddCommand(listCmd, clearCmd)
	return cmd
}
