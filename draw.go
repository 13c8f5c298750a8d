package main

import (
	"github.com/spf13/cobra"
	"pkt.systems/pslog"

	"Exacldraw/internal/config"
	"Exacldraw/internal/ui"
)

func newDrawCmd(cfgPath *string) *cobra.Command {
	var offline bool
	cmd := &cobra.Command{
		Use:   "draw",
		Short: "Open the drawing window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			logger := pslog.Ctx(ctx)
			opts := ui.Options{Config: cfg, Logger: logger}
			if !offline {
				client, tokens, err := openBackend(ctx, cfg, false)
				if err != nil {
					logger.Warn("drawing backend unavailable, saving disabled", "err", err)
				}
				opts.Client, opts.Tokens = client, tokens
			}
			return ui.RunApp(ctx, opts)
		},
	}
	cmd.Flags().BoolVar(&offline, "offline", false, "do not look for a drawing backend")
	return cmd
}
