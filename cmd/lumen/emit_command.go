package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"lumen/internal/emit"
	"lumen/internal/level"
)

func newEmitCommand(ctx *commandContext) *cobra.Command {
	var fileFlag string
	var noTimestampFlag bool
	var stampFlag bool

	cmd := &cobra.Command{
		Use:   "emit LEVEL NAMESPACE MESSAGE [key=value ...]",
		Short: "Emit one wire-format log record",
		Long: `Builds a structured log record from the command line and writes it as a
single JSON line, so shell scripts can log in the same format as services.
Values in key=value pairs parse as JSON when possible and fall back to plain
strings.`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			sev, ok := level.Parse(args[0])
			if !ok {
				names := make([]string, 0, 6)
				for _, s := range level.All() {
					names = append(names, string(s))
				}
				return fmt.Errorf("unknown level %q (want one of %s)", args[0], strings.Join(names, ", "))
			}

			payload, err := parseContextArgs(args[3:])
			if err != nil {
				return err
			}
			if stampFlag {
				if payload == nil {
					payload = map[string]any{}
				}
				payload["event_id"] = uuid.NewString()
			}

			path := fileFlag
			if path == "" {
				path = cfg.Log.File
			}
			var sink emit.Sink = emit.NewWriterSink(cmd.OutOrStdout())
			if path != "" {
				sink = emit.NewFileSink(path)
			}

			opts := []emit.Option{emit.WithMinLevel(level.Severity(cfg.Log.Level))}
			if noTimestampFlag || !cfg.Log.Timestamps {
				opts = append(opts, emit.WithTimestamps(false))
			}

			return emit.New(sink, opts...).Emit(sev, args[1], args[2], payload)
		},
	}

	cmd.Flags().StringVarP(&fileFlag, "file", "f", "", "Append to this file instead of stdout")
	cmd.Flags().BoolVar(&noTimestampFlag, "no-timestamp", false, "Omit the timestamp field")
	cmd.Flags().BoolVar(&stampFlag, "stamp", false, "Add a generated event_id to the context")

	return cmd
}
