package storage

import (
	"database/sql"
	"time"

	"github.com/codewithboateng/wglint/internal/ir"
)

// ListRuns returns a lightweight list of runs with counts.
func (db *DB) ListRuns(limit, offset int) ([]RunRow, error) {
	const q = `
		SELECT r.id, r.started_at, r.source, r.ir_version,
		       (SELECT COUNT(1) FROM issues i WHERE i.run_id = r.id) AS issues
		  FROM runs r
		 ORDER BY r.started_at DESC, r.id DESC
		 LIMIT ? OFFSET ?`
	rows, err := db.conn.Query(q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRow
	for rows.Next() {
		var rr RunRow
		var startedAtStr string
		if err := rows.Scan(&rr.ID, &startedAtStr, &rr.Source, &rr.IRVersion, &rr.Issues); err != nil {
			return nil, err
		}
		// Parse RFC3339Nano first, fallback to RFC3339
		if t, err := time.Parse(time.RFC3339Nano, startedAtStr); err == nil {
			rr.StartedAt = t
		} else if t2, err2 := time.Parse(time.RFC3339, startedAtStr); err2 == nil {
			rr.StartedAt = t2
		} else {
			rr.StartedAt = time.Time{}
		}
		out = append(out, rr)
	}
	return out, rows.Err()
}

// ListIssues returns issues for a run at or above a minimum severity.
func (db *DB) ListIssues(runID, minSeverity string) ([]ir.LintIssue, error) {
	const q = `
		SELECT code, severity, message, file_path, line, col
		  FROM issues
		 WHERE run_id = ?
		   AND (CASE severity WHEN 'error' THEN 3 WHEN 'warning' THEN 2 ELSE 1 END)
		       >= (CASE ? WHEN 'error' THEN 3 WHEN 'warning' THEN 2 ELSE 1 END)
		 ORDER BY
		       (CASE severity WHEN 'error' THEN 3 WHEN 'warning' THEN 2 ELSE 1 END) DESC,
		       code, file_path, line, seq`
	rows, err := db.conn.Query(q, runID, minSeverity)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ir.LintIssue
	for rows.Next() {
		var issue ir.LintIssue
		if err := rows.Scan(&issue.Code, &issue.Severity, &issue.Message, &issue.FilePath, &issue.Line, &issue.Column); err != nil {
			return nil, err
		}
		out = append(out, issue)
	}
	return out, rows.Err()
}

// Optional helper used by future endpoints.
func (db *DB) HasRun(id string) (bool, error) {
	const q = `SELECT 1 FROM runs WHERE id = ? LIMIT 1`
	var one int
	err := db.conn.QueryRow(q, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}
