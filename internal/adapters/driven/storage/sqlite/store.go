package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/leadbench/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/leadbench/internal/core/domain"
	"github.com/custodia-labs/leadbench/internal/core/ports/driven"
)

// DBFileName is the database file inside the data directory.
const DBFileName = "results.db"

// Store is a SQLite-backed store for analysis history.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.leadbench/data/results.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".leadbench", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DBFileName)

	// WAL lets `serve` write runs while the CLI reads history.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{db: db, path: dbPath}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// ResultStore returns a ResultStore backed by this store.
func (s *Store) ResultStore() driven.ResultStore {
	return &resultStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Result Store ====================

// resultStore implements driven.ResultStore.
type resultStore struct {
	store *Store
}

var _ driven.ResultStore = (*resultStore)(nil)

// SaveRun stores a report and its rankings in one transaction.
// Saving a run id twice replaces the earlier copy.
func (s *resultStore) SaveRun(ctx context.Context, report *domain.AnalysisReport) error {
	if report == nil || report.RunID == "" {
		return fmt.Errorf("%w: report needs a run id", domain.ErrInvalidInput)
	}
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", report.RunID); err != nil {
		return fmt.Errorf("replace run: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		"INSERT INTO runs (id, started_at, models, report) VALUES (?, ?, ?, ?)",
		report.RunID, formatTime(report.StartedAt), len(report.Order), string(data))
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for i, r := range report.Rankings {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO rankings (run_id, position, model, score, accuracy, total_contacts, benchmark_matches)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			report.RunID, i, r.Model, r.Score, r.Accuracy, r.TotalContacts, r.BenchmarkMatches)
		if err != nil {
			return fmt.Errorf("insert ranking: %w", err)
		}
	}

	return tx.Commit()
}

// GetRun returns a full report by id.
func (s *resultStore) GetRun(ctx context.Context, id string) (*domain.AnalysisReport, error) {
	row := s.store.db.QueryRowContext(ctx, "SELECT report FROM runs WHERE id = ?", id)
	return scanReport(row)
}

// LatestRun returns the most recently started report.
func (s *resultStore) LatestRun(ctx context.Context) (*domain.AnalysisReport, error) {
	row := s.store.db.QueryRowContext(ctx, "SELECT report FROM runs ORDER BY started_at DESC, rowid DESC LIMIT 1")
	return scanReport(row)
}

// ListRuns returns run summaries, most recent first.
func (s *resultStore) ListRuns(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	query := "SELECT id, started_at, models FROM runs ORDER BY started_at DESC, rowid DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var summaries []domain.RunSummary
	for rows.Next() {
		var (
			sum       domain.RunSummary
			startedAt string
		)
		if err := rows.Scan(&sum.ID, &startedAt, &sum.Models); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		sum.StartedAt = parseTime(startedAt)
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	for i := range summaries {
		rankings, err := s.rankings(ctx, summaries[i].ID)
		if err != nil {
			return nil, err
		}
		summaries[i].Rankings = rankings
		if len(rankings) > 0 {
			top := rankings[0]
			summaries[i].Top = &top
		}
	}
	return summaries, nil
}

func (s *resultStore) rankings(ctx context.Context, runID string) ([]domain.RankingEntry, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT model, score, accuracy, total_contacts, benchmark_matches
		FROM rankings WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("list rankings: %w", err)
	}
	defer rows.Close()

	var out []domain.RankingEntry
	for rows.Next() {
		var r domain.RankingEntry
		if err := rows.Scan(&r.Model, &r.Score, &r.Accuracy, &r.TotalContacts, &r.BenchmarkMatches); err != nil {
			return nil, fmt.Errorf("scan ranking: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close closes the underlying database.
func (s *resultStore) Close() error {
	return s.store.Close()
}

func scanReport(row *sql.Row) (*domain.AnalysisReport, error) {
	var data string
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan run: %w", err)
	}
	var report domain.AnalysisReport
	if err := json.Unmarshal([]byte(data), &report); err != nil {
		return nil, fmt.Errorf("decode run: %w", err)
	}
	return &report, nil
}

// Times are stored as fixed-width UTC text so they sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
