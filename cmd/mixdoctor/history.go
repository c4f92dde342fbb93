//nolint:wrapcheck
package main

import (
	"context"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/urfave/cli/v3"

	"github.com/soundry/mixdoctor/internal/history"
)

func historyCommand() *cli.Command {
	return &cli.Command{
		Name:      "history",
		Usage:     "Show past analysis runs; with a file argument, show its latest result",
		ArgsUsage: "[file]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Number of runs to list",
				Value: 20,
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "History database path",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format for a file's latest result: console, json, markdown",
				Value:   "console",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			store, err := openHistory(cmd.String("db"))
			if err != nil {
				return err
			}
			defer store.Close()

			if cmd.NArg() == 0 {
				return listRuns(ctx, store, cmd.Int("limit"))
			}

			filePath := cmd.Args().First()

			contentHash, err := history.HashFile(filePath)
			if err != nil {
				return err
			}

			run, err := store.Latest(ctx, contentHash)
			if err != nil {
				return err
			}

			fmt.Printf("Run %s from %s\n\n", run.ID, run.CreatedAt.Format("2006-01-02 15:04:05"))

			return outputResult(run.Path, run.Result, cmd.String("format"), false)
		},
	}
}

func listRuns(ctx context.Context, store *history.Store, limit int) error {
	runs, err := store.List(ctx, limit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("No recorded runs")

		return nil
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"When", "File", "Issues", "Worst", "LUFS"})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 5, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})

	for _, run := range runs {
		tw.AppendRow(table.Row{
			run.CreatedAt.Format("2006-01-02 15:04"),
			run.Path,
			run.IssueCount,
			run.WorstTier,
			fmt.Sprintf("%.1f", run.IntegratedLUFS),
		})
	}

	fmt.Println(tw.Render())

	return nil
}
