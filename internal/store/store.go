// Package store keeps exported work blocks in a SQLite database so history
// can accumulate across runs.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/QuesmaOrg/worklog/internal/worklog"
)

// DB wraps the SQLite database connection
type DB struct {
	conn *sql.DB
	path string
}

// BlockRow is one stored work block
type BlockRow struct {
	Project       string
	Zone          string
	Day           string
	Index         int
	Start         time.Time
	End           time.Time
	ActiveMinutes float64
	Prompts       int
	AvgPromptGap  float64
	ExportedAt    time.Time
}

// Open opens or creates the database at path
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create db directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{
		conn: conn,
		path: path,
	}

	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, err
	}

	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// Path returns the database file path
func (db *DB) Path() string {
	return db.path
}

// initSchema creates tables if they don't exist
func (db *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS work_blocks (
		project TEXT NOT NULL,
		zone TEXT NOT NULL,
		day TEXT NOT NULL,
		block_index INTEGER NOT NULL,
		start_at TEXT NOT NULL,
		end_at TEXT NOT NULL,
		active_minutes REAL NOT NULL,
		prompts INTEGER NOT NULL,
		avg_prompt_gap_seconds REAL NOT NULL,
		exported_at TEXT NOT NULL,
		PRIMARY KEY (project, zone, day, block_index)
	);

	CREATE INDEX IF NOT EXISTS idx_work_blocks_start ON work_blocks(start_at);
	`

	if _, err := db.conn.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	return nil
}

// SaveReport replaces the stored blocks of every day in the report.
// Days not in the report are left alone. Returns the number of blocks written.
func (db *DB) SaveReport(rep *worklog.Report, exportedAt time.Time) (int, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	deleteSQL := `DELETE FROM work_blocks WHERE project = ? AND zone = ? AND day = ?`
	insertSQL := `
		INSERT INTO work_blocks (project, zone, day, block_index, start_at, end_at,
			active_minutes, prompts, avg_prompt_gap_seconds, exported_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	written := 0
	for _, day := range rep.Days {
		if _, err := tx.Exec(deleteSQL, rep.Project, rep.Zone, day.Date); err != nil {
			return 0, fmt.Errorf("failed to clear day %s: %w", day.Date, err)
		}
		for i, b := range day.Blocks {
			_, err := tx.Exec(insertSQL,
				rep.Project,
				rep.Zone,
				day.Date,
				i+1,
				b.Start.Format(time.RFC3339),
				b.End.Format(time.RFC3339),
				b.ActiveMinutes,
				b.Prompts,
				b.AvgPromptGap,
				exportedAt.UTC().Format(time.RFC3339),
			)
			if err != nil {
				return 0, fmt.Errorf("failed to insert block: %w", err)
			}
			written++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return written, nil
}

// Blocks returns the stored blocks of a project in start order
func (db *DB) Blocks(project string) ([]BlockRow, error) {
	query := `
		SELECT project, zone, day, block_index, start_at, end_at,
			active_minutes, prompts, avg_prompt_gap_seconds, exported_at
		FROM work_blocks
		WHERE project = ?
		ORDER BY start_at, zone
	`

	rows, err := db.conn.Query(query, project)
	if err != nil {
		return nil, fmt.Errorf("failed to query blocks: %w", err)
	}
	defer rows.Close()

	var blocks []BlockRow
	for rows.Next() {
		var b BlockRow
		var start, end, exported string
		if err := rows.Scan(
			&b.Project,
			&b.Zone,
			&b.Day,
			&b.Index,
			&start,
			&end,
			&b.ActiveMinutes,
			&b.Prompts,
			&b.AvgPromptGap,
			&exported,
		); err != nil {
			return nil, fmt.Errorf("failed to scan block: %w", err)
		}
		if b.Start, err = time.Parse(time.RFC3339, start); err != nil {
			return nil, fmt.Errorf("invalid start_at %q: %w", start, err)
		}
		if b.End, err = time.Parse(time.RFC3339, end); err != nil {
			return nil, fmt.Errorf("invalid end_at %q: %w", end, err)
		}
		if b.ExportedAt, err = time.Parse(time.RFC3339, exported); err != nil {
			return nil, fmt.Errorf("invalid exported_at %q: %w", exported, err)
		}
		blocks = append(blocks, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating blocks: %w", err)
	}

	return blocks, nil
}

// BlockCount returns the total number of stored blocks
func (db *DB) BlockCount() (int, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM work_blocks").Scan(&count)
	return count, err
}
