package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"pkt.systems/pslog"

	"Exacldraw/internal/config"
	"Exacldraw/internal/export"
	"Exacldraw/internal/script"
	"Exacldraw/internal/state"
)

func newRenderCmd(cfgPath *string) *cobra.Command {
	var (
		output string
		format string
		upload bool
		name   string
	)
	cmd := &cobra.Command{
		Use:   "render <script.yaml>",
		Short: "Replay a gesture script and write the canvas to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			if output == "" && !upload {
				return fmt.Errorf("nothing to do: pass --output or --upload")
			}
			if format == "" && output != "" {
				format = strings.TrimPrefix(strings.ToLower(filepath.Ext(output)), ".")
			}
			if output != "" && format != "png" && format != "pdf" {
				return fmt.Errorf("unsupported output format %q", format)
			}

			ctx := cmd.Context()
			logger := pslog.Ctx(ctx)
			board, err := renderScript(cfg, args[0], logger)
			if err != nil {
				return err
			}
			defer board.Close()

			if output != "" {
				if format == "pdf" {
					err = export.WritePDFFile(output, board.Image())
				} else {
					err = export.WritePNGFile(output, board.Image())
				}
				if err != nil {
					return err
				}
				logger.Info("canvas written", "path", output, "format", format)
			}
			if !upload {
				return nil
			}

			if name == "" {
				name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			}
			client, tokens, err := openBackend(ctx, cfg, true)
			if err != nil {
				return err
			}
			data, err := board.ExportSnapshot()
			if err != nil {
				return err
			}
			if err := client.SaveDrawing(ctx, name, data); err != nil {
				return dropExpiredToken(ctx, tokens, err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", name)
			return err
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write (.png or .pdf)")
	cmd.Flags().StringVar(&format, "format", "", "output format, png or pdf (default from extension)")
	cmd.Flags().BoolVar(&upload, "upload", false, "save the result to the drawing backend")
	cmd.Flags().StringVar(&name, "name", "", "drawing name for --upload (default script file name)")
	return cmd
}

// renderScript replays the script at path on a fresh board sized by the
// script, or by the config when the script does not say.
func renderScript(cfg config.Config, path string, logger pslog.Logger) (*state.Board, error) {
	s, err := script.Load(path)
	if err != nil {
		return nil, err
	}
	_, style, err := cfg.Tools.Selection()
	if err != nil {
		return nil, err
	}
	width, height := cfg.Canvas.Width, cfg.Canvas.Height
	if s.Width > 0 {
		width = s.Width
	}
	if s.Height > 0 {
		height = s.Height
	}
	board, err := state.NewBoard(width, height, state.Options{
		HistoryLimit: cfg.History.Limit,
		Compress:     cfg.History.Compress,
		Logger:       logger,
	})
	if err != nil {
		return nil, err
	}
	if err := script.Replay(board, s, style); err != nil {
		board.Close()
		return nil, err
	}
	logger.Debug("script replayed", "path", path, "steps", len(s.Steps), "undo", board.UndoDepth())
	return board, nil
}
