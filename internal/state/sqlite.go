package state

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// timeFormat is how timestamps are stored. The driver returns TEXT columns
// as strings, so times are formatted and parsed explicitly.
const timeFormat = time.RFC3339Nano

// SQLiteStore records invocation history in a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore creates a new store instance. Call Open before use.
func NewSQLiteStore() *SQLiteStore {
	return &SQLiteStore{}
}

// Open opens the SQLite database at path, creating it if missing.
// Use ":memory:" for an in-memory database.
func (s *SQLiteStore) Open(path string) error {
	dsn := path + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"
	if path == ":memory:" {
		dsn = ":memory:?_pragma=foreign_keys(1)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s.db = db
	s.path = path
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// generateID creates a new UUID.
func generateID() string {
	return uuid.New().String()
}

// CreateBuild records the start of an invocation.
func (s *SQLiteStore) CreateBuild(projectDir string, kind BuildKind) (*Build, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	build := &Build{
		ID:         generateID(),
		ProjectDir: projectDir,
		Kind:       kind,
		Status:     BuildStatusRunning,
		StartedAt:  time.Now().UTC(),
	}

	_, err := s.db.Exec(
		`INSERT INTO builds (id, project_dir, kind, status, started_at) VALUES (?, ?, ?, ?, ?)`,
		build.ID, build.ProjectDir, string(build.Kind), string(build.Status), build.StartedAt.Format(timeFormat),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create build record: %w", err)
	}

	return build, nil
}

// RecordSynthesis stores how much of the graph an invocation processed.
func (s *SQLiteStore) RecordSynthesis(id string, projects, targets int) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	result, err := s.db.Exec(
		`UPDATE builds SET projects = ?, targets = ? WHERE id = ?`,
		projects, targets, id,
	)
	if err != nil {
		return fmt.Errorf("failed to record synthesis: %w", err)
	}
	return requireRow(result, id)
}

// RecordTarget stores which app target a deployment launched.
func (s *SQLiteStore) RecordTarget(id, target string) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	result, err := s.db.Exec(`UPDATE builds SET target = ? WHERE id = ?`, target, id)
	if err != nil {
		return fmt.Errorf("failed to record target: %w", err)
	}
	return requireRow(result, id)
}

// CompleteBuild marks an invocation as finished with the given status.
func (s *SQLiteStore) CompleteBuild(id string, status BuildStatus, errMsg string) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	var errorPtr *string
	if errMsg != "" {
		errorPtr = &errMsg
	}

	result, err := s.db.Exec(
		`UPDATE builds SET status = ?, completed_at = ?, error = ? WHERE id = ?`,
		string(status), time.Now().UTC().Format(timeFormat), errorPtr, id,
	)
	if err != nil {
		return fmt.Errorf("failed to complete build record: %w", err)
	}
	return requireRow(result, id)
}

// GetBuild retrieves an invocation by ID.
func (s *SQLiteStore) GetBuild(id string) (*Build, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	row := s.db.QueryRow(
		`SELECT id, project_dir, kind, status, target, projects, targets, error, started_at, completed_at
		 FROM builds WHERE id = ?`, id)

	build, err := scanBuild(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("build record not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get build record: %w", err)
	}
	return build, nil
}

// GetLatestBuild retrieves the most recent invocation for a project, or
// nil if the project has never been built.
func (s *SQLiteStore) GetLatestBuild(projectDir string) (*Build, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	row := s.db.QueryRow(
		`SELECT id, project_dir, kind, status, target, projects, targets, error, started_at, completed_at
		 FROM builds WHERE project_dir = ? ORDER BY started_at DESC LIMIT 1`, projectDir)

	build, err := scanBuild(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest build record: %w", err)
	}
	return build, nil
}

// ListBuilds retrieves the most recent invocations, newest first.
func (s *SQLiteStore) ListBuilds(limit int) ([]*Build, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.Query(
		`SELECT id, project_dir, kind, status, target, projects, targets, error, started_at, completed_at
		 FROM builds ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list build records: %w", err)
	}
	defer rows.Close()

	var builds []*Build
	for rows.Next() {
		build, err := scanBuild(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan build record: %w", err)
		}
		builds = append(builds, build)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list build records: %w", err)
	}
	return builds, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanBuild(row scanner) (*Build, error) {
	build := &Build{}
	var kind, status, startedAt string
	var target, errMsg, completedAt sql.NullString

	err := row.Scan(&build.ID, &build.ProjectDir, &kind, &status, &target,
		&build.Projects, &build.Targets, &errMsg, &startedAt, &completedAt)
	if err != nil {
		return nil, err
	}

	build.Kind = BuildKind(kind)
	build.Status = BuildStatus(status)
	build.Target = target.String
	build.Error = errMsg.String

	build.StartedAt, err = time.Parse(timeFormat, startedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid started_at %q: %w", startedAt, err)
	}
	if completedAt.Valid {
		completed, err := time.Parse(timeFormat, completedAt.String)
		if err != nil {
			return nil, fmt.Errorf("invalid completed_at %q: %w", completedAt.String, err)
		}
		build.CompletedAt = &completed
	}
	return build, nil
}

func requireRow(result sql.Result, id string) error {
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("build record not found: %s", id)
	}
	return nil
}
