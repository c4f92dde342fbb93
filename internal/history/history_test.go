package history_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/soundry/mixdoctor"
	"github.com/soundry/mixdoctor/internal/history"
	"github.com/soundry/mixdoctor/internal/types"
)

func openStore(t *testing.T) *history.Store {
	t.Helper()

	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	t.Cleanup(func() { _ = store.Close() })

	return store
}

func sampleResult() *mixdoctor.Result {
	return &mixdoctor.Result{
		Loudness: &types.LoudnessInfo{
			IntegratedLUFS: -12.5,
			TruePeakDb:     -0.4,
			TargetPlatform: "spotify",
		},
		Issues: []mixdoctor.Issue{
			{
				Category:       mixdoctor.CategoryTruePeak,
				Severity:       mixdoctor.SeverityWarning,
				Message:        "True peak -0.40 dBTP exceeds the -1 dBTP ceiling",
				Recommendation: "Set the limiter ceiling to -1 dBTP",
				PriorityScore:  80,
				Tier:           mixdoctor.TierMedium,
			},
		},
		Recommendations: []string{"Set the limiter ceiling to -1 dBTP"},
	}
}

func TestRecordAndLatest(t *testing.T) {
	t.Parallel()

	store := openStore(t)
	ctx := context.Background()

	id, err := store.Record(ctx, "/mixes/demo.wav", "abc123", sampleResult())
	if err != nil {
		t.Fatalf("Record: %v", err)
	}

	if id == "" {
		t.Fatal("empty run id")
	}

	run, err := store.Latest(ctx, "abc123")
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}

	if run.ID != id || run.Path != "/mixes/demo.wav" {
		t.Errorf("run = %+v, want the recorded id and path", run)
	}

	if run.IssueCount != 1 || run.WorstTier != "MEDIUM" || run.IntegratedLUFS != -12.5 {
		t.Errorf("summary columns = %d/%s/%f", run.IssueCount, run.WorstTier, run.IntegratedLUFS)
	}

	if run.Result == nil || len(run.Result.Issues) != 1 {
		t.Fatalf("payload not round-tripped: %+v", run.Result)
	}

	if run.Result.Issues[0].Message != sampleResult().Issues[0].Message {
		t.Errorf("issue message lost: %+v", run.Result.Issues[0])
	}
}

func TestLatestNotFound(t *testing.T) {
	t.Parallel()

	store := openStore(t)

	if _, err := store.Latest(context.Background(), "missing"); !errors.Is(err, history.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestLatestPicksNewest(t *testing.T) {
	t.Parallel()

	store := openStore(t)
	ctx := context.Background()

	if _, err := store.Record(ctx, "/mixes/demo.wav", "abc123", sampleResult()); err != nil {
		t.Fatal(err)
	}

	// Keep the two timestamps clearly apart.
	time.Sleep(10 * time.Millisecond)

	second := sampleResult()
	second.Loudness.IntegratedLUFS = -14.0

	newest, err := store.Record(ctx, "/mixes/demo.wav", "abc123", second)
	if err != nil {
		t.Fatal(err)
	}

	run, err := store.Latest(ctx, "abc123")
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}

	if run.ID != newest || run.IntegratedLUFS != -14.0 {
		t.Errorf("latest run = %s (%f), want the second record", run.ID, run.IntegratedLUFS)
	}
}

func TestList(t *testing.T) {
	t.Parallel()

	store := openStore(t)
	ctx := context.Background()

	for _, path := range []string{"/a.wav", "/b.wav", "/c.wav"} {
		if _, err := store.Record(ctx, path, "hash-"+path, sampleResult()); err != nil {
			t.Fatal(err)
		}

		time.Sleep(10 * time.Millisecond)
	}

	runs, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	if len(runs) != 2 {
		t.Fatalf("%d runs, want the limit of 2", len(runs))
	}

	for _, run := range runs {
		if run.Result != nil {
			t.Errorf("list view carries a payload for %s", run.ID)
		}

		if !run.CreatedAt.After(time.Time{}) {
			t.Errorf("run %s has no timestamp", run.ID)
		}
	}

	// Newest first.
	if runs[0].Path != "/c.wav" {
		t.Errorf("first listed = %s, want the most recent", runs[0].Path)
	}
}

func TestHashFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "audio.raw")
	if err := os.WriteFile(path, []byte("pcm data"), 0o600); err != nil {
		t.Fatal(err)
	}

	first, err := history.HashFile(path)
	if err != nil {
		t.Fatalf("HashFile: %v", err)
	}

	second, err := history.HashFile(path)
	if err != nil {
		t.Fatalf("HashFile: %v", err)
	}

	if first != second || len(first) != 64 {
		t.Errorf("hash = %q / %q, want a stable sha256 hex digest", first, second)
	}

	if _, err := history.HashFile(filepath.Join(t.TempDir(), "gone")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
