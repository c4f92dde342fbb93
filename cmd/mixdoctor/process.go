//nolint:wrapcheck
package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/soundry/mixdoctor"
	"github.com/soundry/mixdoctor/internal/config"
	"github.com/soundry/mixdoctor/internal/history"
	"github.com/soundry/mixdoctor/internal/integration/ffmpeg"
	"github.com/soundry/mixdoctor/internal/integration/ffprobe"
	"github.com/soundry/mixdoctor/internal/wave"
)

var errProcessArgs = errors.New("expected exactly one argument: file path")

func processCommand() *cli.Command {
	return &cli.Command{
		Name:      "process",
		Usage:     "Extract PCM from an audio file and analyze the mix",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "TOML file overriding analyzer thresholds",
			},
			&cli.IntFlag{
				Name:  "stream",
				Usage: "Audio stream index (0-based)",
				Value: 0,
			},
			&cli.FloatFlag{
				Name:  "reference-bpm",
				Usage: "Project tempo; enables the tempo-mismatch check",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: console, json, markdown",
				Value:   "console",
			},
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"D"},
				Usage:   "Include all raw analyzer data in output",
			},
			&cli.BoolFlag{
				Name:  "no-history",
				Usage: "Do not record this run in the history database",
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "History database path",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("%w: got %d", errProcessArgs, cmd.NArg())
			}

			filePath := cmd.Args().First()

			cfg, err := config.Load(cmd.String("config"))
			if err != nil {
				return err
			}

			if bpm := cmd.Float("reference-bpm"); bpm > 0 {
				cfg.ReferenceBPM = bpm
			}

			buf, err := decodeFile(ctx, filePath, cmd.Int("stream"))
			if err != nil {
				return err
			}

			result := mixdoctor.Analyze(buf, cfg)

			if !cmd.Bool("no-history") {
				recordRun(ctx, cmd.String("db"), filePath, result)
			}

			return outputResult(filePath, result, cmd.String("format"), cmd.Bool("debug"))
		},
	}
}

// decodeFile probes the file, extracts its audio stream as raw PCM via
// ffmpeg, and decodes it into an analysis buffer. Multichannel sources are
// downmixed to stereo during extraction.
func decodeFile(ctx context.Context, filePath string, streamIndex int) (*wave.Buffer, error) {
	probeResult, err := ffprobe.Probe(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("probing file: %w", err)
	}

	stream, err := findAudioStream(probeResult, streamIndex)
	if err != nil {
		return nil, err
	}

	format, err := stream.PCMFormat()
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filePath) //nolint:gosec // CLI tool opens user-specified audio files
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	var pcmBuf bytes.Buffer

	if err := ffmpeg.ExtractStream(ctx, file, &pcmBuf, streamIndex, &format); err != nil {
		return nil, fmt.Errorf("extracting PCM: %w", err)
	}

	buf, err := wave.FromPCM(pcmBuf.Bytes(), format)
	if err != nil {
		return nil, fmt.Errorf("decoding PCM: %w", err)
	}

	return buf, nil
}

func findAudioStream(result *ffprobe.Result, streamIndex int) (*ffprobe.Stream, error) {
	audioCount := 0

	for i := range result.Streams {
		if result.Streams[i].CodecType == "audio" {
			if audioCount == streamIndex {
				return &result.Streams[i], nil
			}

			audioCount++
		}
	}

	return nil, fmt.Errorf("audio stream index %d not found (file has %d audio streams)", streamIndex, audioCount)
}

// recordRun persists the result for the history command. History is a
// convenience; failures only warn.
func recordRun(ctx context.Context, dbPath, filePath string, result *mixdoctor.Result) {
	store, err := openHistory(dbPath)
	if err != nil {
		slog.Warn("history unavailable", "error", err)

		return
	}
	defer store.Close()

	contentHash, err := history.HashFile(filePath)
	if err != nil {
		slog.Warn("history unavailable", "error", err)

		return
	}

	if _, err := store.Record(ctx, filePath, contentHash, result); err != nil {
		slog.Warn("recording run failed", "error", err)
	}
}

func openHistory(dbPath string) (*history.Store, error) {
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home: %w", err)
		}

		dir := filepath.Join(home, ".local", "share", "mixdoctor")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating %s: %w", dir, err)
		}

		dbPath = filepath.Join(dir, "history.db")
	}

	return history.Open(dbPath)
}
