package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/bitblends/scalametrics-sub000/internal/rollup"
)

const (
	driverName  = "sqlite"
	maxAttempts = 5
)

// Snapshot is one persisted scan summary. Timestamps are stored as RFC3339
// UTC text so lexicographic ordering matches chronological ordering.
type Snapshot struct {
	ProjectKey        string
	RunID             string
	SchemaVersion     int
	Timestamp         time.Time
	FileCount         int
	SkippedCount      int
	DeclarationCount  int
	LOC               int
	MaxComplexity     int
	AvgComplexity     float64
	MaxNesting        int
	DocCoveragePct    float64
	ExplicitReturnPct float64
	FlaggedComplexity int
	FlaggedNesting    int
	FlaggedParams     int
}

// FromRollup lifts a project rollup into a snapshot with a fresh run id.
func FromRollup(projectKey string, r rollup.Rollup) Snapshot {
	return Snapshot{
		ProjectKey:        projectKey,
		RunID:             uuid.NewString(),
		SchemaVersion:     SchemaVersion,
		Timestamp:         time.Now().UTC(),
		FileCount:         r.Files,
		SkippedCount:      r.SkippedFiles,
		DeclarationCount:  r.Declarations,
		LOC:               r.LOC,
		MaxComplexity:     r.MaxComplexity,
		AvgComplexity:     r.AvgComplexity,
		MaxNesting:        r.MaxNesting,
		DocCoveragePct:    r.DocCoveragePct,
		ExplicitReturnPct: r.ExplicitReturnPct,
		FlaggedComplexity: r.Flags.OverComplexity,
		FlaggedNesting:    r.Flags.OverNesting,
		FlaggedParams:     r.Flags.OverParams,
	}
}

type Store struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

func Open(path string) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("history path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("history path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory %q: %w", dir, err)
		}
	}

	// busy_timeout + WAL reduce lock conflicts during watch-mode churn.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", cleanPath)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite history %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite history %q: %w", cleanPath, err)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize sqlite schema %q: %w", cleanPath, err)
	}

	return &Store{path: cleanPath, db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

func (s *Store) SaveSnapshot(snapshot Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(snapshot.ProjectKey) == "" {
		snapshot.ProjectKey = "default"
	}
	if snapshot.RunID == "" {
		snapshot.RunID = uuid.NewString()
	}
	if snapshot.Timestamp.IsZero() {
		snapshot.Timestamp = time.Now().UTC()
	}
	if snapshot.SchemaVersion == 0 {
		snapshot.SchemaVersion = SchemaVersion
	}
	if snapshot.SchemaVersion != SchemaVersion {
		return fmt.Errorf("unsupported snapshot schema version %d", snapshot.SchemaVersion)
	}

	query := `
INSERT INTO snapshots (
  project_key, run_id, schema_version, ts_utc, file_count, skipped_count,
  declaration_count, loc, max_complexity, avg_complexity, max_nesting,
  doc_coverage_pct, explicit_return_pct, flagged_complexity, flagged_nesting, flagged_params
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(project_key, ts_utc, run_id) DO UPDATE SET
  schema_version=excluded.schema_version,
  file_count=excluded.file_count,
  skipped_count=excluded.skipped_count,
  declaration_count=excluded.declaration_count,
  loc=excluded.loc,
  max_complexity=excluded.max_complexity,
  avg_complexity=excluded.avg_complexity,
  max_nesting=excluded.max_nesting,
  doc_coverage_pct=excluded.doc_coverage_pct,
  explicit_return_pct=excluded.explicit_return_pct,
  flagged_complexity=excluded.flagged_complexity,
  flagged_nesting=excluded.flagged_nesting,
  flagged_params=excluded.flagged_params
`
	return s.withRetry("save snapshot", func() error {
		_, err := s.db.Exec(
			query,
			snapshot.ProjectKey,
			snapshot.RunID,
			snapshot.SchemaVersion,
			snapshot.Timestamp.UTC().Format(time.RFC3339Nano),
			snapshot.FileCount,
			snapshot.SkippedCount,
			snapshot.DeclarationCount,
			snapshot.LOC,
			snapshot.MaxComplexity,
			snapshot.AvgComplexity,
			snapshot.MaxNesting,
			snapshot.DocCoveragePct,
			snapshot.ExplicitReturnPct,
			snapshot.FlaggedComplexity,
			snapshot.FlaggedNesting,
			snapshot.FlaggedParams,
		)
		return err
	})
}

func (s *Store) LoadSnapshots(projectKey string, since time.Time) ([]Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	projectKey = strings.TrimSpace(projectKey)
	if projectKey == "" {
		projectKey = "default"
	}

	base := `
SELECT
  project_key, run_id, schema_version, ts_utc, file_count, skipped_count,
  declaration_count, loc, max_complexity, avg_complexity, max_nesting,
  doc_coverage_pct, explicit_return_pct, flagged_complexity, flagged_nesting, flagged_params
FROM snapshots
 WHERE project_key = ?`
	args := make([]any, 0, 2)
	args = append(args, projectKey)
	if !since.IsZero() {
		base += " AND ts_utc >= ?"
		args = append(args, since.UTC().Format(time.RFC3339Nano))
	}
	base += " ORDER BY ts_utc ASC, run_id ASC"

	var rows *sql.Rows
	err := s.withRetry("load snapshots", func() error {
		var qErr error
		rows, qErr = s.db.Query(base, args...)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snapshots := make([]Snapshot, 0)
	for rows.Next() {
		var (
			tsRaw    string
			snapshot Snapshot
		)
		if err := rows.Scan(
			&snapshot.ProjectKey,
			&snapshot.RunID,
			&snapshot.SchemaVersion,
			&tsRaw,
			&snapshot.FileCount,
			&snapshot.SkippedCount,
			&snapshot.DeclarationCount,
			&snapshot.LOC,
			&snapshot.MaxComplexity,
			&snapshot.AvgComplexity,
			&snapshot.MaxNesting,
			&snapshot.DocCoveragePct,
			&snapshot.ExplicitReturnPct,
			&snapshot.FlaggedComplexity,
			&snapshot.FlaggedNesting,
			&snapshot.FlaggedParams,
		); err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}

		ts, err := time.Parse(time.RFC3339Nano, tsRaw)
		if err != nil {
			return nil, fmt.Errorf("parse snapshot timestamp %q: %w", tsRaw, err)
		}
		snapshot.Timestamp = ts.UTC()

		snapshots = append(snapshots, snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshot rows: %w", err)
	}

	return snapshots, nil
}

func (s *Store) withRetry(op string, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isLockError(err) || attempt == maxAttempts {
			break
		}
		time.Sleep(time.Duration(attempt*25) * time.Millisecond)
	}
	return fmt.Errorf("%s: %w", op, lastErr)
}

func isLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "busy")
}
