package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"lumen/internal/follow"
	"lumen/internal/render"
)

func newTailCommand(ctx *commandContext) *cobra.Command {
	var linesFlag int
	var followFlag bool
	var colorFlag string

	cmd := &cobra.Command{
		Use:   "tail FILE",
		Short: "Render the newest records of a log file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			mode := cfg.Pretty.Color
			if colorFlag != "" {
				mode = colorFlag
			}

			out := cmd.OutOrStdout()
			renderer := render.New(resolveColor(mode, out))
			ctx.diagnostics().Debug(diagNamespace, "tailing log file", map[string]any{
				"file":   args[0],
				"lines":  linesFlag,
				"follow": followFlag,
			})

			runCtx := cmd.Context()
			res, err := follow.Tail(runCtx, args[0], follow.Options{Offset: -1, Limit: linesFlag})
			if err != nil {
				return fmt.Errorf("tail log: %w", err)
			}
			printed := len(res.Lines) > 0
			for _, line := range res.Lines {
				fmt.Fprintln(out, renderer.Render(line))
			}

			if !followFlag {
				if !printed {
					fmt.Fprintln(out, "No log entries available")
				}
				return nil
			}

			offset := res.Offset
			for {
				res, err := follow.Tail(runCtx, args[0], follow.Options{
					Offset: offset,
					Follow: true,
					Wait:   time.Second,
				})
				if err != nil {
					if runCtx.Err() != nil {
						return nil
					}
					return fmt.Errorf("tail log: %w", err)
				}
				for _, line := range res.Lines {
					fmt.Fprintln(out, renderer.Render(line))
				}
				offset = res.Offset

				select {
				case <-runCtx.Done():
					return nil
				default:
				}
			}
		},
	}

	cmd.Flags().IntVarP(&linesFlag, "lines", "n", 10, "Number of trailing records to show first")
	cmd.Flags().BoolVar(&followFlag, "follow", false, "Keep rendering as new records are appended")
	cmd.Flags().StringVar(&colorFlag, "color", "", "Color mode: auto, always, never (overrides config)")

	return cmd
}
