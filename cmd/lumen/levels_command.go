package main

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"lumen/internal/level"
)

func newLevelsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "levels",
		Short: "Show the severity table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := table.NewWriter()
			tw.SetStyle(table.StyleRounded)
			tw.AppendHeader(table.Row{"Level", "Rank", "Tag"})
			for _, s := range level.All() {
				tw.AppendRow(table.Row{string(s), strconv.Itoa(level.Rank(s)), level.Tag(s)})
			}
			tw.SetColumnConfigs([]table.ColumnConfig{
				{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
				{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
				{Number: 3, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
			})
			fmt.Fprintln(cmd.OutOrStdout(), tw.Render())
			return nil
		},
	}
}
