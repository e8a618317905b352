// Package stats answers aggregate questions about the whole log tree
// (session counts, last activity) with DuckDB's JSON reader. It is a
// read-only view beside the line-level decoder: duckdb's read_json wants
// well-formed input, so per-record tolerance stays in package jsonl and
// this path only serves statistics.
package stats

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/kaichen/claco/internal/claude"
)

var (
	dbInstance *sql.DB
	dbOnce     sync.Once
	dbErr      error
)

// getDB returns a singleton in-memory DuckDB connection with the JSON
// extension loaded.
func getDB() (*sql.DB, error) {
	dbOnce.Do(func() {
		dbInstance, dbErr = initialize()
	})
	return dbInstance, dbErr
}

func initialize() (*sql.DB, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("failed to open DuckDB: %w", err)
	}

	// DuckDB works best with a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("INSTALL json"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to install JSON extension: %w", err)
	}
	if _, err := db.Exec("LOAD json"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load JSON extension: %w", err)
	}

	return db, nil
}

// ProjectStats aggregates one project's sessions.
type ProjectStats struct {
	Path         string
	SessionCount int
	LastActivity time.Time
}

// ProjectAggregates scans every session file under the projects tree and
// groups by recorded cwd. Sessions that never recorded a cwd group under
// "Unknown".
func ProjectAggregates() (map[string]ProjectStats, error) {
	projectsDir, err := claude.ProjectsDir()
	if err != nil {
		return nil, err
	}
	return projectAggregates(filepath.Join(projectsDir, "**", "*.jsonl"))
}

func projectAggregates(globPattern string) (map[string]ProjectStats, error) {
	db, err := getDB()
	if err != nil {
		return nil, err
	}
	// The singleton connection stays open for the process lifetime.

	query := fmt.Sprintf(`
		SELECT
			COALESCE(cwd, 'Unknown') as project_path,
			COUNT(DISTINCT CAST(sessionId AS VARCHAR)) as session_count,
			MAX(timestamp) as last_activity
		FROM read_json('%s',
			format = 'newline_delimited',
			union_by_name = true,
			filename = true
		)
		WHERE sessionId IS NOT NULL
		GROUP BY cwd
		ORDER BY MAX(timestamp) DESC
		LIMIT 500
	`, globPattern)

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to execute aggregates query: %w", err)
	}
	defer rows.Close()

	out := make(map[string]ProjectStats)
	for rows.Next() {
		var stat ProjectStats
		var lastActivity sql.NullString

		if err := rows.Scan(&stat.Path, &stat.SessionCount, &lastActivity); err != nil {
			continue
		}
		if lastActivity.Valid {
			if t, err := time.Parse(time.RFC3339, lastActivity.String); err == nil {
				stat.LastActivity = t.Local()
			}
		}
		out[stat.Path] = stat
	}
	return out, rows.Err()
}
