// Package sqlite provides the SQLite-backed audit store.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/Z3ROX-lab/ai-security-platform/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/Z3ROX-lab/ai-security-platform/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.AuditStore = (*Store)(nil)

// Store is an append-mostly SQLite audit trail for guardrail decisions
// and ingestion runs.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the audit database at the given path.
func NewStore(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	// WAL mode allows the scan path and the audit reader to overlap.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

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

// RecordScan appends a scan decision.
func (s *Store) RecordScan(ctx context.Context, ev driven.ScanEvent) error {
	scanners, err := json.Marshal(ev.Scanners)
	if err != nil {
		return fmt.Errorf("marshal scanners: %w", err)
	}

	createdAt := ev.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO scan_events (direction, valid, blocked, risk_score, scanners, failure, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, ev.Direction, ev.Valid, ev.Blocked, ev.RiskScore, string(scanners), ev.Failure, createdAt)
	if err != nil {
		return fmt.Errorf("inserting scan event: %w", err)
	}
	return nil
}

// RecordIngest appends an ingestion run.
func (s *Store) RecordIngest(ctx context.Context, ev driven.IngestEvent) error {
	createdAt := ev.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ingest_events (source, chunk_count, status, created_at)
		VALUES (?, ?, ?, ?)
	`, ev.Source, ev.ChunkCount, ev.Status, createdAt)
	if err != nil {
		return fmt.Errorf("inserting ingest event: %w", err)
	}
	return nil
}

// RecentScans returns the most recent scan decisions, newest first.
func (s *Store) RecentScans(ctx context.Context, limit int) ([]driven.ScanEvent, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT direction, valid, blocked, risk_score, scanners, failure, created_at
		FROM scan_events
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying scan events: %w", err)
	}
	defer rows.Close()

	var events []driven.ScanEvent
	for rows.Next() {
		var ev driven.ScanEvent
		var scanners string
		if err := rows.Scan(&ev.Direction, &ev.Valid, &ev.Blocked, &ev.RiskScore, &scanners, &ev.Failure, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning scan event: %w", err)
		}
		if err := json.Unmarshal([]byte(scanners), &ev.Scanners); err != nil {
			return nil, fmt.Errorf("unmarshal scanners: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating scan events: %w", err)
	}
	return events, nil
}

func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
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
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
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
