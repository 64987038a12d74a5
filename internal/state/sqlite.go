package state

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`PRAGMA foreign_keys = ON;`,
		`PRAGMA busy_timeout = 5000;`,
		`CREATE TABLE IF NOT EXISTS passage_runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			pack_id TEXT NOT NULL,
			passage_id TEXT NOT NULL,
			mode TEXT NOT NULL DEFAULT 'practice',
			answer_layout TEXT NOT NULL DEFAULT 'compact',
			start_ts TEXT NOT NULL,
			finish_ts TEXT NOT NULL,
			score INTEGER NOT NULL,
			max_score INTEGER NOT NULL,
			time_spent_ms INTEGER NOT NULL DEFAULT 0,
			overtime INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS blank_answers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL,
			blank_id INTEGER NOT NULL,
			expected TEXT NOT NULL,
			given TEXT NOT NULL,
			correct INTEGER NOT NULL,
			distance INTEGER NOT NULL DEFAULT 0,
			FOREIGN KEY(run_id) REFERENCES passage_runs(id) ON DELETE CASCADE
		);`,
		`CREATE INDEX IF NOT EXISTS blank_answers_run ON blank_answers(run_id);`,
		`CREATE TABLE IF NOT EXISTS passage_progress (
			pack_id TEXT NOT NULL,
			passage_id TEXT NOT NULL,
			attempts INTEGER NOT NULL DEFAULT 0,
			perfect_count INTEGER NOT NULL DEFAULT 0,
			best_score INTEGER NOT NULL DEFAULT 0,
			max_score INTEGER NOT NULL DEFAULT 0,
			best_time_ms INTEGER NOT NULL DEFAULT 0,
			last_played_ts TEXT NOT NULL DEFAULT '',
			last_perfect_ts TEXT NOT NULL DEFAULT '',
			PRIMARY KEY(pack_id, passage_id)
		);`,
		`CREATE TABLE IF NOT EXISTS app_settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// RecordResult stores the run, its per-blank answers and the progress roll-up
// in one transaction.
func (s *SQLiteStore) RecordResult(ctx context.Context, run RunResult) (runID int64, err error) {
	if strings.TrimSpace(run.PackID) == "" || strings.TrimSpace(run.PassageID) == "" {
		return 0, fmt.Errorf("record result: pack and passage ids are required")
	}
	finish := run.FinishTS
	if finish.IsZero() {
		finish = time.Now().UTC()
	}
	start := run.StartTS
	if start.IsZero() {
		start = finish.Add(-run.TimeSpent)
	}
	mode := strings.TrimSpace(run.Mode)
	if mode == "" {
		mode = "practice"
	}
	layout := strings.TrimSpace(run.Layout)
	if layout == "" {
		layout = "compact"
	}
	spentMS := max64(0, run.TimeSpent.Milliseconds())
	perfect := run.MaxScore > 0 && run.Score == run.MaxScore

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO passage_runs(session_id, pack_id, passage_id, mode, answer_layout, start_ts, finish_ts, score, max_score, time_spent_ms, overtime)
		VALUES(?,?,?,?,?,?,?,?,?,?,?)
	`,
		run.SessionID,
		run.PackID,
		run.PassageID,
		mode,
		layout,
		start.UTC().Format(timeLayout),
		finish.UTC().Format(timeLayout),
		max(0, run.Score),
		max(0, run.MaxScore),
		spentMS,
		ifThen(run.Overtime, 1, 0),
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	runID, err = res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, b := range run.Blanks {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO blank_answers(run_id, blank_id, expected, given, correct, distance) VALUES(?,?,?,?,?,?)`,
			runID, b.BlankID, b.Expected, b.Given, ifThen(b.Correct, 1, 0), max(0, b.Distance),
		); err != nil {
			return 0, fmt.Errorf("insert blank answer: %w", err)
		}
	}

	perfectTS := ""
	if perfect {
		perfectTS = finish.UTC().Format(timeLayout)
	}
	bestTime := int64(0)
	if perfect {
		bestTime = spentMS
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO passage_progress(pack_id, passage_id, attempts, perfect_count, best_score, max_score, best_time_ms, last_played_ts, last_perfect_ts)
		VALUES(?, ?, 1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(pack_id, passage_id) DO UPDATE SET
			attempts = passage_progress.attempts + 1,
			perfect_count = passage_progress.perfect_count + excluded.perfect_count,
			best_score = CASE
				WHEN excluded.best_score > passage_progress.best_score THEN excluded.best_score
				ELSE passage_progress.best_score
			END,
			max_score = excluded.max_score,
			best_time_ms = CASE
				WHEN excluded.best_time_ms > 0 AND (passage_progress.best_time_ms = 0 OR excluded.best_time_ms < passage_progress.best_time_ms) THEN excluded.best_time_ms
				ELSE passage_progress.best_time_ms
			END,
			last_played_ts = excluded.last_played_ts,
			last_perfect_ts = CASE
				WHEN excluded.last_perfect_ts <> '' THEN excluded.last_perfect_ts
				ELSE passage_progress.last_perfect_ts
			END
	`,
		run.PackID,
		run.PassageID,
		ifThen(perfect, 1, 0),
		max(0, run.Score),
		max(0, run.MaxScore),
		bestTime,
		finish.UTC().Format(timeLayout),
		perfectTS,
	)
	if err != nil {
		return 0, fmt.Errorf("upsert progress: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return runID, nil
}

func (s *SQLiteStore) GetRunAnswers(ctx context.Context, runID int64) ([]BlankAnswer, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT blank_id, expected, given, correct, distance
		FROM blank_answers
		WHERE run_id = ?
		ORDER BY blank_id
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]BlankAnswer, 0)
	for rows.Next() {
		var (
			b       BlankAnswer
			correct int
		)
		if err := rows.Scan(&b.BlankID, &b.Expected, &b.Given, &correct, &b.Distance); err != nil {
			return nil, err
		}
		b.Correct = correct == 1
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLiteStore) GetProgressMap(ctx context.Context) (map[string]PassageProgress, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT pack_id, passage_id, attempts, perfect_count, best_score, max_score, best_time_ms, last_played_ts, last_perfect_ts
		FROM passage_progress
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]PassageProgress{}
	for rows.Next() {
		var (
			p           PassageProgress
			lastPlayed  string
			lastPerfect string
		)
		if err := rows.Scan(&p.PackID, &p.PassageID, &p.Attempts, &p.PerfectCount, &p.BestScore, &p.MaxScore, &p.BestTimeMS, &lastPlayed, &lastPerfect); err != nil {
			return nil, err
		}
		if t, err := time.Parse(timeLayout, lastPlayed); err == nil {
			p.LastPlayedTS = t
		}
		if t, err := time.Parse(timeLayout, lastPerfect); err == nil {
			p.LastPerfectTS = t
		}
		out[ProgressKey(p.PackID, p.PassageID)] = p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLiteStore) SaveSettings(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	for key, value := range values {
		k := strings.TrimSpace(key)
		if k == "" {
			continue
		}
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO app_settings(key, value) VALUES(?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value
		`, k, value); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) LoadSettings(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM app_settings`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLiteStore) GetSummary(ctx context.Context) (Summary, error) {
	var (
		out     Summary
		spentMS int64
	)
	row := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN max_score > 0 AND score = max_score THEN 1 ELSE 0 END),0),
			COALESCE(SUM(max_score),0),
			COALESCE(SUM(score),0),
			COALESCE(SUM(time_spent_ms),0)
		FROM passage_runs
	`)
	if err := row.Scan(&out.Runs, &out.PerfectRuns, &out.BlanksTotal, &out.BlanksRight, &spentMS); err != nil {
		return Summary{}, err
	}
	out.TimeSpentSum = time.Duration(spentMS) * time.Millisecond
	return out, nil
}

func (s *SQLiteStore) GetLastRun(ctx context.Context) (*LastRun, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT pack_id, passage_id, mode, finish_ts, score, max_score, time_spent_ms
		FROM passage_runs
		ORDER BY id DESC
		LIMIT 1
	`)
	var (
		out       LastRun
		finishRaw string
		spentMS   int64
	)
	if err := row.Scan(&out.PackID, &out.PassageID, &out.Mode, &finishRaw, &out.Score, &out.MaxScore, &spentMS); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if t, err := time.Parse(timeLayout, finishRaw); err == nil {
		out.FinishTS = t
	}
	out.TimeSpent = time.Duration(spentMS) * time.Millisecond
	return &out, nil
}

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

const timeLayout = "2006-01-02T15:04:05Z07:00"

func ifThen(cond bool, yes, no int) int {
	if cond {
		return yes
	}
	return no
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
