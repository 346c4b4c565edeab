package ops

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"dailyforge/internal/db"
	"dailyforge/internal/errors"
)

// ExportInput contains parameters for the Export operation.
type ExportInput struct {
	Path string // required: destination JSONL file
}

// ExportOutput contains the result of the Export operation.
type ExportOutput struct {
	Path       string `json:"path"`
	Count      int    `json:"count"`
	ExportedAt int64  `json:"exported_at"`
}

// ExportHeader is the first line of a JSONL export file.
type ExportHeader struct {
	DailyforgeExport bool   `json:"_dailyforge_export"`
	SchemaVersion    string `json:"schema_version"`
	ExportedAt       int64  `json:"exported_at"`
}

// DefaultExportPath returns the default export destination under baseDir.
func DefaultExportPath(baseDir string, now time.Time) string {
	name := fmt.Sprintf("runs-%s.jsonl", now.Format("20060102-150405"))
	return filepath.Join(baseDir, "exports", name)
}

// Export writes the run ledger to a JSONL file: one header line followed by
// one run per line, oldest first. The file is written to a temp path and
// renamed so a failed export preserves any existing file.
func Export(ctx context.Context, database *sql.DB, input ExportInput) (*ExportOutput, error) {
	if input.Path == "" {
		return nil, errors.NewInvalidRequest("path is required")
	}

	exportedAt := time.Now().Unix()

	dir := filepath.Dir(input.Path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create export directory: %w", err))
	}

	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to generate temp file name: %w", err))
	}
	tempPath := input.Path + "." + hex.EncodeToString(randBytes) + ".tmp"
	file, err := os.OpenFile(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create export file: %w", err))
	}

	success := false
	defer func() {
		if file != nil {
			file.Close()
		}
		if !success {
			os.Remove(tempPath)
		}
	}()

	enc := json.NewEncoder(file)
	header := ExportHeader{
		DailyforgeExport: true,
		SchemaVersion:    "1.0",
		ExportedAt:       exportedAt,
	}
	if err := enc.Encode(header); err != nil {
		return nil, errors.NewInternal(err)
	}

	rows, err := db.StreamForExport(ctx, database)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, errors.NewCancelled("export")
		default:
		}

		run, err := db.ScanRunRow(rows)
		if err != nil {
			return nil, err
		}
		if err := enc.Encode(run); err != nil {
			return nil, errors.NewInternal(err)
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	if err := file.Close(); err != nil {
		file = nil
		return nil, errors.NewInternal(err)
	}
	file = nil

	if err := os.Rename(tempPath, input.Path); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to finalize export: %w", err))
	}
	success = true

	return &ExportOutput{
		Path:       input.Path,
		Count:      count,
		ExportedAt: exportedAt,
	}, nil
}
