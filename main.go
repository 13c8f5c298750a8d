package main

import (
	"context"
	"log"
	"os"

	"github.com/spf13/cobra"

	"pkt.systems/psi"
	"pkt.systems/pslog"
)

func main() {
	psi.Run(submain)
}

func submain(ctx context.Context) int {
	logger := pslog.LoggerFromEnv(
		pslog.WithEnvWriter(os.Stderr),
		pslog.WithEnvOptions(pslog.Options{Mode: pslog.ModeConsole}),
	)
	ctx = pslog.ContextWithLogger(ctx, logger)
	// fyne and the mdns library log through the standard logger.
	log.SetOutput(pslog.LogLogger(logger).Writer())
	log.SetFlags(0)

	root := newRootCmd()
	root.SetArgs(os.Args[1:])

	if err := root.ExecuteContext(ctx); err != nil {
		pslog.Ctx(ctx).With("err", err).Error("exacldraw command failed")
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var cfgPath string
	root := &cobra.Command{
		Use:           "exacldraw",
		Short:         "Whiteboard canvas with undo history and a drawing backend",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file")

	root.AddCommand(newDrawCmd(&cfgPath))
	root.AddCommand(newRenderCmd(&cfgPath))
	root.AddCommand(newSignUpCmd(&cfgPath))
	root.AddCommand(newSignInCmd(&cfgPath))
	root.AddCommand(newSignOutCmd(&cfgPath))
	root.AddCommand(newDrawingsCmd(&cfgPath))
	root.AddCommand(newConfigCmd(&cfgPath))

	return root
}
