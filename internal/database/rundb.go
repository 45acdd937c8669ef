package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/Led-adel-pilot/CogniGuide/internal/model"
)

// FileName is the name of the database file inside the database directory.
const FileName = "history.db"

// ErrNotFound is returned when a run or snapshot does not exist.
var ErrNotFound = errors.New("run not found")

// RunDB stores finished runs and the taxonomy as it stood after each one.
type RunDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures RunDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a RunDB in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*RunDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s: %w", dbPath, err)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if err := os.MkdirAll(dbDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// mode=rw refuses to create a missing file; mode=rwc allows it.
	dsn := dbPath + "?mode=rw&_pragma=foreign_keys(1)"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc&_pragma=foreign_keys(1)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	rdb := &RunDB{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := rdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return rdb, nil
}

// Close closes the database connection.
func (rdb *RunDB) Close() error {
	return rdb.db.Close()
}

// Path returns the database file path.
func (rdb *RunDB) Path() string {
	return rdb.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (rdb *RunDB) createTables() error {
	schema := `
	-- One row per assign or audit run
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_uuid TEXT NOT NULL UNIQUE,
		mode TEXT NOT NULL,
		timestamp DATETIME NOT NULL,
		taxonomy_path TEXT,
		taxonomy_digest TEXT,
		dry_run INTEGER NOT NULL DEFAULT 0,
		assigned INTEGER NOT NULL DEFAULT 0,
		fallback INTEGER NOT NULL DEFAULT 0,
		low_confidence INTEGER NOT NULL DEFAULT 0,
		updates INTEGER NOT NULL DEFAULT 0,
		error TEXT,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp);
	CREATE INDEX IF NOT EXISTS idx_runs_digest ON runs(taxonomy_digest);

	-- Taxonomy after the run, usable as a later baseline
	CREATE TABLE IF NOT EXISTS taxonomy_snapshots (
		run_id INTEGER PRIMARY KEY REFERENCES runs(id) ON DELETE CASCADE,
		digest TEXT,
		snapshot_json TEXT NOT NULL
	);
	`

	_, err := rdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveRun stores run and, when snapshot is not nil, the taxonomy it left
// behind. It returns the database ID of the run.
func (rdb *RunDB) SaveRun(ctx context.Context, run *model.Run, snapshot *model.Taxonomy) (int64, error) {
	reportJSON, err := json.Marshal(run)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize run: %w", err)
	}

	var snapshotJSON []byte
	if snapshot != nil {
		if snapshotJSON, err = json.Marshal(snapshot); err != nil {
			return 0, fmt.Errorf("failed to serialize taxonomy: %w", err)
		}
	}

	tx, err := rdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT INTO runs (run_uuid, mode, timestamp, taxonomy_path, taxonomy_digest,
		dry_run, assigned, fallback, low_confidence, updates, error, report_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	res, err := tx.ExecContext(ctx, query,
		run.ID,
		string(run.Mode),
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.TaxonomyPath,
		run.TaxonomyDigest,
		run.DryRun,
		len(run.Assignments),
		run.FallbackCount(),
		len(run.LowConfidence),
		run.Updates,
		sql.NullString{String: run.ErrorMessage, Valid: run.ErrorMessage != ""},
		string(reportJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}

	if snapshotJSON != nil {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO taxonomy_snapshots (run_id, digest, snapshot_json) VALUES (?, ?, ?)`,
			id, run.TaxonomyDigest, string(snapshotJSON),
		)
		if err != nil {
			return 0, fmt.Errorf("failed to save taxonomy snapshot: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return id, nil
}

// RunMetadata summarises a stored run without loading its report.
type RunMetadata struct {
	ID             int64
	RunID          string
	Mode           model.Mode
	Timestamp      time.Time
	TaxonomyPath   string
	TaxonomyDigest string
	DryRun         bool
	Assigned       int
	Fallback       int
	LowConfidence  int
	Updates        int
	Error          string
	HasSnapshot    bool
}

// ListRuns returns the most recent runs first.
// A limit of zero or less returns every run.
func (rdb *RunDB) ListRuns(ctx context.Context, limit int) ([]RunMetadata, error) {
	query := `
	SELECT r.id, r.run_uuid, r.mode, r.timestamp, r.taxonomy_path, r.taxonomy_digest,
		r.dry_run, r.assigned, r.fallback, r.low_confidence, r.updates, r.error,
		s.run_id IS NOT NULL
	FROM runs r
	LEFT JOIN taxonomy_snapshots s ON s.run_id = r.id
	ORDER BY r.id DESC
	LIMIT ?
	`
	if limit <= 0 {
		limit = -1
	}

	rows, err := rdb.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var results []RunMetadata
	for rows.Next() {
		var (
			meta      RunMetadata
			mode      string
			timestamp string
			path      sql.NullString
			digest    sql.NullString
			errText   sql.NullString
		)
		if err := rows.Scan(&meta.ID, &meta.RunID, &mode, &timestamp, &path, &digest,
			&meta.DryRun, &meta.Assigned, &meta.Fallback, &meta.LowConfidence, &meta.Updates,
			&errText, &meta.HasSnapshot); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		meta.Mode = model.Mode(mode)
		meta.Timestamp = parseTimestamp(timestamp)
		meta.TaxonomyPath = path.String
		meta.TaxonomyDigest = digest.String
		meta.Error = errText.String
		results = append(results, meta)
	}

	return results, rows.Err()
}

// GetRun retrieves a stored run by its database ID.
func (rdb *RunDB) GetRun(ctx context.Context, id int64) (*model.Run, error) {
	var reportJSON string
	err := rdb.db.QueryRowContext(ctx, `SELECT report_json FROM runs WHERE id = ?`, id).Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	var run model.Run
	if err := json.Unmarshal([]byte(reportJSON), &run); err != nil {
		return nil, fmt.Errorf("failed to parse run: %w", err)
	}
	return &run, nil
}

// GetSnapshot retrieves the taxonomy stored with a run.
func (rdb *RunDB) GetSnapshot(ctx context.Context, id int64) (*model.Taxonomy, error) {
	var snapshotJSON string
	err := rdb.db.QueryRowContext(ctx,
		`SELECT snapshot_json FROM taxonomy_snapshots WHERE run_id = ?`, id,
	).Scan(&snapshotJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("snapshot for run %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	t := model.NewTaxonomy()
	if err := json.Unmarshal([]byte(snapshotJSON), t); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	return t, nil
}

// LatestDigest returns the taxonomy digest of the most recent run that
// stored one, or "" when there is none.
func (rdb *RunDB) LatestDigest(ctx context.Context) (string, error) {
	var digest string
	err := rdb.db.QueryRowContext(ctx, `
	SELECT taxonomy_digest FROM runs
	WHERE taxonomy_digest IS NOT NULL AND taxonomy_digest != ''
	ORDER BY id DESC
	LIMIT 1
	`).Scan(&digest)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get latest digest: %w", err)
	}
	return digest, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999",
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
