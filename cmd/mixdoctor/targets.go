package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/urfave/cli/v3"

	"github.com/soundry/mixdoctor/internal/audit/loudness"
)

func targetsCommand() *cli.Command {
	return &cli.Command{
		Name:  "targets",
		Usage: "Print the streaming platform loudness targets",
		Action: func(_ context.Context, _ *cli.Command) error {
			targets := loudness.PlatformTargets()

			platforms := make([]string, 0, len(targets))
			for platform := range targets {
				platforms = append(platforms, platform)
			}

			sort.Strings(platforms)

			tw := table.NewWriter()
			tw.SetStyle(table.StyleRounded)
			tw.AppendHeader(table.Row{"Platform", "Target"})
			tw.SetColumnConfigs([]table.ColumnConfig{
				{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
			})

			for _, platform := range platforms {
				tw.AppendRow(table.Row{platform, fmt.Sprintf("%.0f LUFS", targets[platform])})
			}

			fmt.Println(tw.Render())

			return nil
		},
	}
}
