package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"Exacldraw/internal/config"
)

func newDrawingsCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "drawings",
		Short: "List the drawings saved on the backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			client, tokens, err := openBackend(ctx, cfg, true)
			if err != nil {
				return err
			}
			list, err := client.ListDrawings(ctx)
			if err != nil {
				return dropExpiredToken(ctx, tokens, err)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "ID\tNAME\tURL")
			for _, d := range list {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", d.ID, d.Name, client.ImageURL(d))
			}
			return tw.Flush()
		},
	}
}
