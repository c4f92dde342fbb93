// Package history persists past analysis runs in a local SQLite database so
// a producer can track how a mix evolves between bounces. Runs are keyed by
// a content hash of the audio, which also lets callers skip re-analyzing
// unchanged files.
package history

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/soundry/mixdoctor"
)

var ErrNotFound = errors.New("no recorded run")

// Run is one persisted analysis.
type Run struct {
	ID             string
	Path           string
	ContentHash    string
	CreatedAt      time.Time
	IssueCount     int
	WorstTier      string
	IntegratedLUFS float64
	Result         *mixdoctor.Result // nil in list views
}

// Store manages run persistence backed by SQLite.
type Store struct {
	db *sql.DB
}

// Open initializes or connects to the history database.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()

			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	schema := `CREATE TABLE IF NOT EXISTS runs (
        id TEXT PRIMARY KEY,
        path TEXT NOT NULL,
        content_hash TEXT NOT NULL,
        created_at TEXT NOT NULL,
        issue_count INTEGER NOT NULL,
        worst_tier TEXT NOT NULL,
        integrated_lufs REAL NOT NULL,
        result_json TEXT NOT NULL
    );
    CREATE INDEX IF NOT EXISTS idx_runs_hash ON runs(content_hash);
    CREATE INDEX IF NOT EXISTS idx_runs_path ON runs(path, created_at);`

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}

	return s.db.Close()
}

// HashFile returns the content hash used to key runs.
func HashFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open for hashing: %w", err)
	}
	defer file.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// Record persists one analysis run and returns its generated ID.
func (s *Store) Record(ctx context.Context, path, contentHash string, result *mixdoctor.Result) (string, error) {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("marshal result: %w", err)
	}

	worstTier := "LOW"
	if len(result.Issues) > 0 {
		worstTier = result.Issues[0].Tier.String()
	}

	var integrated float64
	if result.Loudness != nil {
		integrated = result.Loudness.IntegratedLUFS
	}

	id := uuid.New().String()

	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO runs (
            id, path, content_hash, created_at,
            issue_count, worst_tier, integrated_lufs, result_json
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		path,
		contentHash,
		time.Now().UTC().Format(time.RFC3339Nano),
		len(result.Issues),
		worstTier,
		integrated,
		string(resultJSON),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	return id, nil
}

// List returns the most recent runs, newest first, without result payloads.
func (s *Store) List(ctx context.Context, limit int) ([]*Run, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, path, content_hash, created_at, issue_count, worst_tier, integrated_lufs
         FROM runs ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run

	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}

		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	return runs, nil
}

// Latest returns the most recent run for a content hash, with its full
// result payload, or ErrNotFound.
func (s *Store) Latest(ctx context.Context, contentHash string) (*Run, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, path, content_hash, created_at, issue_count, worst_tier, integrated_lufs, result_json
         FROM runs WHERE content_hash = ? ORDER BY created_at DESC LIMIT 1`,
		contentHash,
	)

	run := &Run{}

	var createdAt, resultJSON string

	err := row.Scan(
		&run.ID, &run.Path, &run.ContentHash, &createdAt,
		&run.IssueCount, &run.WorstTier, &run.IntegratedLUFS, &resultJSON,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: hash %s", ErrNotFound, contentHash)
	}

	if err != nil {
		return nil, fmt.Errorf("load run: %w", err)
	}

	run.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)

	result := &mixdoctor.Result{}
	if err := json.Unmarshal([]byte(resultJSON), result); err != nil {
		return nil, fmt.Errorf("unmarshal run %s: %w", run.ID, err)
	}

	run.Result = result

	return run, nil
}

func scanRun(rows *sql.Rows) (*Run, error) {
	run := &Run{}

	var createdAt string

	err := rows.Scan(
		&run.ID, &run.Path, &run.ContentHash, &createdAt,
		&run.IssueCount, &run.WorstTier, &run.IntegratedLUFS,
	)
	if err != nil {
		return nil, fmt.Errorf("scan run: %w", err)
	}

	run.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)

	return run, nil
}
