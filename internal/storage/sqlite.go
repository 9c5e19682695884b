// Package storage is the project-persistence collaborator: a sqlite
// live-job table plus a jsonl audit trail, adapted from the teacher's
// internal/persistence (sqlite.go's single-connection/WAL/schema-version
// pattern, jsonl.go's timestamped-file append-only log) to flowctl's
// domain: live-job records instead of findings/heals.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/flowctl/flowctl/internal/jobctl"
)

const currentSchemaVersion = 1

// Project is the sqlite-backed implementation of jobctl.Storage, one
// database per project under ~/.flowctl/projects/<project-id>.db.
type Project struct {
	db   *sql.DB
	path string
}

func projectDBPath(projectID string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	dir := filepath.Join(home, ".flowctl", "projects")
	return filepath.Join(dir, sanitizeFilename(projectID)+".db"), nil
}

func sanitizeFilename(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}

// Open opens (creating if necessary) the project's live-job database.
func Open(projectID string) (*Project, error) {
	dbPath, err := projectDBPath(projectID)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
		return nil, fmt.Errorf("creating project storage directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("executing %s: %w", p, err)
		}
	}

	proj := &Project{db: db, path: dbPath}
	if err := proj.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	if err := secureFile(dbPath); err != nil {
		_ = db.Close()
		return nil, err
	}
	return proj, nil
}

func secureFile(path string) error {
	if err := os.Chmod(path, 0o600); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	for _, suffix := range []string{"-wal", "-shm"} {
		if err := os.Chmod(path+suffix, 0o600); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("chmod %s: %w", path+suffix, err)
		}
	}
	return nil
}

func (p *Project) initSchema() error {
	if _, err := p.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY)`); err != nil {
		return err
	}
	var version int
	if err := p.db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&version); err != nil {
		return err
	}
	if version >= currentSchemaVersion {
		return nil
	}

	const liveJobsSchema = `
	CREATE TABLE IF NOT EXISTS live_jobs (
		job_id TEXT PRIMARY KEY,
		multi INTEGER NOT NULL,
		tags TEXT NOT NULL,
		updated_at INTEGER NOT NULL DEFAULT (strftime('%s','now'))
	);
	`
	if _, err := p.db.Exec(liveJobsSchema); err != nil {
		return err
	}
	_, err := p.db.Exec(`INSERT INTO schema_version(version) VALUES (?)`, currentSchemaVersion)
	return err
}

// PutLiveJob upserts the live-job record, implementing jobctl.Storage.
func (p *Project) PutLiveJob(ctx context.Context, rec jobctl.LiveJobRecord) error {
	tagsJSON, err := json.Marshal(rec.UserTags)
	if err != nil {
		return fmt.Errorf("encoding tags: %w", err)
	}
	_, err = p.db.ExecContext(ctx, `
		INSERT INTO live_jobs(job_id, multi, tags, updated_at) VALUES (?, ?, ?, strftime('%s','now'))
		ON CONFLICT(job_id) DO UPDATE SET multi=excluded.multi, tags=excluded.tags, updated_at=excluded.updated_at
	`, rec.JobID, boolToInt(rec.Multi), string(tagsJSON))
	if err != nil {
		return fmt.Errorf("upserting live job %q: %w", rec.JobID, err)
	}
	return nil
}

// ListLiveJobs returns every persisted live-job record, for crash-recovery
// `ps` passes that want to include jobs never confirmed by the remote.
func (p *Project) ListLiveJobs(ctx context.Context) ([]jobctl.LiveJobRecord, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT job_id, multi, tags FROM live_jobs ORDER BY job_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []jobctl.LiveJobRecord
	for rows.Next() {
		var rec jobctl.LiveJobRecord
		var multi int
		var tagsJSON string
		if err := rows.Scan(&rec.JobID, &multi, &tagsJSON); err != nil {
			return nil, err
		}
		rec.Multi = multi != 0
		if err := json.Unmarshal([]byte(tagsJSON), &rec.UserTags); err != nil {
			return nil, fmt.Errorf("decoding tags for %q: %w", rec.JobID, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Close releases the underlying database connection.
func (p *Project) Close() error {
	return p.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
