package db

import (
	"context"
	"database/sql"

	"dailyforge/internal/errors"
)

// Run statuses.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Run is one ledger record: a single invocation of the generator, successful
// or not. Successful runs point at their artifact directory.
type Run struct {
	ID              string  `json:"id"`
	RunDate         string  `json:"run_date"` // ISO date, e.g. "2026-08-25"
	Status          string  `json:"status"`   // ok | failed
	DirName         *string `json:"dir_name,omitempty"`
	DirPath         *string `json:"dir_path,omitempty"`
	Topic           *string `json:"topic,omitempty"`
	Model           string  `json:"model"`
	ErrorCode       *string `json:"error_code,omitempty"`
	ErrorMessage    *string `json:"error_message,omitempty"`
	PromptChars     int     `json:"prompt_chars"`
	CompletionChars int     `json:"completion_chars"`
	TokensEstimate  int     `json:"tokens_estimate"`
	DurationMs      int64   `json:"duration_ms"`
	CreatedAt       int64   `json:"created_at"`
}

const runColumns = `id, run_date, status, dir_name, dir_path, topic, model,
	error_code, error_message, prompt_chars, completion_chars,
	tokens_estimate, duration_ms, created_at`

// InsertRun stores a new run record.
func InsertRun(db *sql.DB, r *Run) error {
	query := `
		INSERT INTO runs (
			id, run_date, status, dir_name, dir_path, topic, model,
			error_code, error_message, prompt_chars, completion_chars,
			tokens_estimate, duration_ms, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := db.Exec(query,
		r.ID, r.RunDate, r.Status,
		toNullString(r.DirName), toNullString(r.DirPath), toNullString(r.Topic),
		r.Model, toNullString(r.ErrorCode), toNullString(r.ErrorMessage),
		r.PromptChars, r.CompletionChars, r.TokensEstimate,
		r.DurationMs, r.CreatedAt,
	)
	if err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// GetRunByID retrieves a run by its ULID.
func GetRunByID(db *sql.DB, id string) (*Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs WHERE id = ?`
	row := db.QueryRow(query, id)
	r, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return r, nil
}

// GetLatestRunForDate retrieves the most recent run for an ISO date,
// successful runs preferred over failed ones.
func GetLatestRunForDate(db *sql.DB, date string) (*Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs
		WHERE run_date = ?
		ORDER BY (status = 'ok') DESC, created_at DESC LIMIT 1`
	row := db.QueryRow(query, date)
	r, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(date)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return r, nil
}

// ListRuns retrieves runs newest first with pagination and an optional
// status filter ("" means all).
func ListRuns(db *sql.DB, status string, limit, offset int) ([]Run, int, error) {
	countQuery := `SELECT COUNT(*) FROM runs`
	listQuery := `SELECT ` + runColumns + ` FROM runs`
	var args []any
	if status != "" {
		countQuery += ` WHERE status = ?`
		listQuery += ` WHERE status = ?`
		args = append(args, status)
	}
	listQuery += ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`

	var total int
	if err := db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	rows, err := db.Query(listQuery, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, 0, errors.NewInternal(err)
		}
		runs = append(runs, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	return runs, total, nil
}

// GetLatestRun retrieves the most recent run, optionally restricted to
// successful runs. Returns (nil, nil) when the ledger is empty.
func GetLatestRun(db *sql.DB, onlyOK bool) (*Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs`
	if onlyOK {
		query += ` WHERE status = 'ok'`
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT 1`

	row := db.QueryRow(query)
	r, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return r, nil
}

// CountRunsForDate returns the number of runs recorded for an ISO date.
func CountRunsForDate(db *sql.DB, date string) (int, error) {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM runs WHERE run_date = ?`, date).Scan(&count); err != nil {
		return 0, errors.NewInternal(err)
	}
	return count, nil
}

// PurgeFailedRuns permanently deletes failed run records created at or
// before cutoffUnix. Successful runs are never deleted.
func PurgeFailedRuns(db *sql.DB, cutoffUnix int64) (int, error) {
	result, err := db.Exec(`DELETE FROM runs WHERE status = 'failed' AND created_at <= ?`, cutoffUnix)
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	return int(affected), nil
}

// StreamForExport returns rows over all runs, oldest first, for JSONL export.
// The caller owns the rows and must Close them; use ScanRunRow per row.
func StreamForExport(ctx context.Context, db *sql.DB) (*sql.Rows, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return rows, nil
}

// ScanRunRow scans a run from export rows.
func ScanRunRow(rows *sql.Rows) (*Run, error) {
	r, err := scanRun(rows)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return r, nil
}

// scanner abstracts sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanRun scans a run from a row in runColumns order.
func scanRun(row scanner) (*Run, error) {
	var r Run
	var dirName, dirPath, topic, errorCode, errorMessage sql.NullString

	err := row.Scan(
		&r.ID, &r.RunDate, &r.Status, &dirName, &dirPath, &topic, &r.Model,
		&errorCode, &errorMessage, &r.PromptChars, &r.CompletionChars,
		&r.TokensEstimate, &r.DurationMs, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	r.DirName = fromNullString(dirName)
	r.DirPath = fromNullString(dirPath)
	r.Topic = fromNullString(topic)
	r.ErrorCode = fromNullString(errorCode)
	r.ErrorMessage = fromNullString(errorMessage)

	return &r, nil
}

// toNullString converts *string to sql.NullString.
func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// fromNullString converts sql.NullString to *string.
func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
