//nolint:wrapcheck
package main

import (
	"fmt"
	"os"

	"github.com/farcloser/primordium/format"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/soundry/mixdoctor"
	"github.com/soundry/mixdoctor/internal/output"
)

func outputResult(filePath string, result *mixdoctor.Result, formatName string, debug bool) error {
	if formatName == "console" && !debug {
		printConsole(filePath, result)

		return nil
	}

	formatter, err := format.GetFormatter(formatName)
	if err != nil {
		return err
	}

	var meta map[string]any
	if debug {
		meta = output.ResultToMap(result)
	} else {
		meta = buildFriendlyOutput(result)
	}

	data := &format.Data{
		Object: filePath,
		Meta:   meta,
	}

	return formatter.PrintAll([]*format.Data{data}, os.Stdout)
}

// printConsole renders the ranked issue list and key metrics as tables.
func printConsole(filePath string, result *mixdoctor.Result) {
	fmt.Printf("%s: %d issues\n\n", filePath, len(result.Issues))

	if len(result.Issues) > 0 {
		tw := table.NewWriter()
		tw.SetStyle(table.StyleRounded)
		tw.AppendHeader(table.Row{"Tier", "Score", "Category", "Issue"})
		tw.SetColumnConfigs([]table.ColumnConfig{
			{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
			{Number: 4, WidthMax: 80},
		})

		for _, issue := range result.Issues {
			tw.AppendRow(table.Row{
				issue.Tier.String(),
				issue.PriorityScore,
				issue.Category.String(),
				issue.Message,
			})
		}

		fmt.Println(tw.Render())
	}

	if len(result.Recommendations) > 0 {
		fmt.Println("\nRecommendations:")

		for i, recommendation := range result.Recommendations {
			fmt.Printf("  %d. %s\n", i+1, recommendation)
		}
	}

	metrics := metricsRows(result)
	if len(metrics) > 0 {
		tw := table.NewWriter()
		tw.SetStyle(table.StyleRounded)
		tw.AppendHeader(table.Row{"Metric", "Value"})

		for _, row := range metrics {
			tw.AppendRow(row)
		}

		fmt.Println()
		fmt.Println(tw.Render())
	}
}

func metricsRows(result *mixdoctor.Result) []table.Row {
	var rows []table.Row

	if r := result.Loudness; r != nil {
		rows = append(rows,
			table.Row{"Integrated loudness", fmt.Sprintf("%.1f LUFS", r.IntegratedLUFS)},
			table.Row{"True peak", fmt.Sprintf("%.2f dBTP", r.TruePeakDb)},
			table.Row{"Loudness range", fmt.Sprintf("%.1f LU", r.LoudnessRange)},
			table.Row{"Target platform", r.TargetPlatform},
		)
	}

	if r := result.Dynamics; r != nil {
		rows = append(rows,
			table.Row{"Dynamic range", fmt.Sprintf("%.1f dB (%s)", r.DynamicRangeDb, r.Rating)},
		)
	}

	if r := result.Stereo; r != nil && r.IsStereo {
		rows = append(rows,
			table.Row{"Stereo correlation", fmt.Sprintf("%.2f (%s)", r.Correlation, r.Category)},
			table.Row{"Stereo width", fmt.Sprintf("%.0f%%", r.WidthPercent)},
		)
	}

	if r := result.Frequency; r != nil {
		rows = append(rows,
			table.Row{"Spectral centroid", fmt.Sprintf("%.0f Hz", r.SpectralCentroid)},
		)
	}

	if r := result.Transients; r != nil {
		rows = append(rows,
			table.Row{"Transients", fmt.Sprintf("%d (%.1f/s, %s)", r.Count, r.PerSecond, r.AttackQuality)},
		)
	}

	if result.DetectedBPM > 0 {
		rows = append(rows, table.Row{"Detected tempo", fmt.Sprintf("%.1f BPM", result.DetectedBPM)})
	}

	return rows
}

// buildFriendlyOutput creates a condensed summary for json/markdown output.
func buildFriendlyOutput(result *mixdoctor.Result) map[string]any {
	worstTier := mixdoctor.TierLow
	if len(result.Issues) > 0 {
		worstTier = result.Issues[0].Tier
	}

	meta := map[string]any{
		"summary": fmt.Sprintf("%d issues found (worst: %s)", len(result.Issues), worstTier),
	}

	issues := make([]any, 0, len(result.Issues))
	for _, issue := range result.Issues {
		issues = append(issues, fmt.Sprintf("[%s %d] %s: %s",
			issue.Tier, issue.PriorityScore, issue.Category, issue.Message))
	}

	if len(issues) > 0 {
		meta["issues"] = issues
	}

	if len(result.Recommendations) > 0 {
		meta["recommendations"] = result.Recommendations
	}

	if r := result.Loudness; r != nil {
		meta["loudness"] = fmt.Sprintf("%.1f LUFS, true peak %.2f dBTP, target %s",
			r.IntegratedLUFS, r.TruePeakDb, r.TargetPlatform)
	}

	return meta
}
