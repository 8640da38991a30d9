package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"lumen/internal/linescan"
	"lumen/internal/render"
)

func newPrettyCommand(ctx *commandContext) *cobra.Command {
	var fileFlag string
	var colorFlag string
	var chunkFlag int

	cmd := &cobra.Command{
		Use:   "pretty",
		Short: "Render wire-format log lines from stdin or a file",
		Long: `Reads newline-delimited JSON log records and renders each as a tagged,
colorized header plus an indented context block. Lines that are not log
records pass through verbatim, so it is safe to pipe mixed process output.
Files ending in .zst are decompressed transparently.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			mode := cfg.Pretty.Color
			if colorFlag != "" {
				mode = colorFlag
			}
			chunk := cfg.Pretty.ChunkBytes
			if chunkFlag > 0 {
				chunk = chunkFlag
			}

			var in io.ReadCloser = io.NopCloser(cmd.InOrStdin())
			if fileFlag != "" {
				if in, err = openInput(fileFlag); err != nil {
					return err
				}
			}
			defer in.Close()

			out := cmd.OutOrStdout()
			colorize := resolveColor(mode, out)
			ctx.diagnostics().Debug(diagNamespace, "decoding stream", map[string]any{
				"file":        fileFlag,
				"chunk_bytes": chunk,
				"color":       colorize,
			})

			renderer := render.New(colorize)
			for line := range linescan.ChunkedLines(in, chunk) {
				if _, err := fmt.Fprintln(out, renderer.Render(line)); err != nil {
					return fmt.Errorf("write rendered line: %w", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&fileFlag, "file", "f", "", "Read from this file instead of stdin (.zst supported)")
	cmd.Flags().StringVar(&colorFlag, "color", "", "Color mode: auto, always, never (overrides config)")
	cmd.Flags().IntVar(&chunkFlag, "chunk-bytes", 0, "Read size for the stream decoder")

	return cmd
}
