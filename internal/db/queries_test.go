package db

import (
	"context"
	"testing"
	"time"

	"dailyforge/internal/errors"
)

func stringPtr(s string) *string { return &s }

func okRun(id, date string, createdAt int64) *Run {
	return &Run{
		ID:              id,
		RunDate:         date,
		Status:          StatusOK,
		DirName:         stringPtr("project-" + date),
		DirPath:         stringPtr("projects/project-" + date),
		Topic:           stringPtr("a simple game"),
		Model:           "llama-3-70b-8192",
		PromptChars:     500,
		CompletionChars: 1200,
		TokensEstimate:  300,
		DurationMs:      2400,
		CreatedAt:       createdAt,
	}
}

func failedRun(id, date string, createdAt int64) *Run {
	return &Run{
		ID:           id,
		RunDate:      date,
		Status:       StatusFailed,
		Model:        "llama-3-70b-8192",
		ErrorCode:    stringPtr("GENERATION_FAILED"),
		ErrorMessage: stringPtr("generation request failed: timeout"),
		PromptChars:  500,
		DurationMs:   120000,
		CreatedAt:    createdAt,
	}
}

func TestInsertAndGetRun(t *testing.T) {
	database := initTestDB(t)

	run := okRun("01RUN1", "2026-08-25", 100)
	if err := InsertRun(database, run); err != nil {
		t.Fatalf("InsertRun failed: %v", err)
	}

	got, err := GetRunByID(database, "01RUN1")
	if err != nil {
		t.Fatalf("GetRunByID failed: %v", err)
	}
	if got.RunDate != "2026-08-25" || got.Status != StatusOK {
		t.Errorf("got %+v", got)
	}
	if got.DirName == nil || *got.DirName != "project-2026-08-25" {
		t.Errorf("DirName = %v", got.DirName)
	}
	if got.ErrorCode != nil {
		t.Errorf("ErrorCode should be nil for ok runs, got %v", *got.ErrorCode)
	}
}

func TestGetRunByID_NotFound(t *testing.T) {
	database := initTestDB(t)

	_, err := GetRunByID(database, "missing")
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

func TestGetLatestRunForDate_PrefersOK(t *testing.T) {
	database := initTestDB(t)

	if err := InsertRun(database, okRun("01A", "2026-08-25", 100)); err != nil {
		t.Fatal(err)
	}
	if err := InsertRun(database, failedRun("01B", "2026-08-25", 200)); err != nil {
		t.Fatal(err)
	}

	got, err := GetLatestRunForDate(database, "2026-08-25")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != "01A" {
		t.Errorf("got %s, want the successful run 01A", got.ID)
	}
}

func TestListRuns_PaginationAndFilter(t *testing.T) {
	database := initTestDB(t)

	for i, r := range []*Run{
		okRun("01A", "2026-08-23", 100),
		failedRun("01B", "2026-08-24", 200),
		okRun("01C", "2026-08-25", 300),
	} {
		if err := InsertRun(database, r); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}

	runs, total, err := ListRuns(database, "", 2, 0)
	if err != nil {
		t.Fatal(err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	if len(runs) != 2 || runs[0].ID != "01C" || runs[1].ID != "01B" {
		t.Errorf("page 1 = %+v, want newest first", runs)
	}

	runs, _, err = ListRuns(database, "", 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].ID != "01A" {
		t.Errorf("page 2 = %+v", runs)
	}

	runs, total, err = ListRuns(database, StatusFailed, 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || len(runs) != 1 || runs[0].ID != "01B" {
		t.Errorf("failed filter = %+v (total %d)", runs, total)
	}
}

func TestGetLatestRun(t *testing.T) {
	database := initTestDB(t)

	got, err := GetLatestRun(database, false)
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Errorf("empty ledger should yield nil, got %+v", got)
	}

	if err := InsertRun(database, okRun("01A", "2026-08-24", 100)); err != nil {
		t.Fatal(err)
	}
	if err := InsertRun(database, failedRun("01B", "2026-08-25", 200)); err != nil {
		t.Fatal(err)
	}

	got, err = GetLatestRun(database, false)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != "01B" {
		t.Errorf("latest = %s, want 01B", got.ID)
	}

	got, err = GetLatestRun(database, true)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != "01A" {
		t.Errorf("latest ok = %s, want 01A", got.ID)
	}
}

func TestCountRunsForDate(t *testing.T) {
	database := initTestDB(t)

	if err := InsertRun(database, okRun("01A", "2026-08-25", 100)); err != nil {
		t.Fatal(err)
	}
	if err := InsertRun(database, okRun("01B", "2026-08-25", 200)); err != nil {
		t.Fatal(err)
	}

	count, err := CountRunsForDate(database, "2026-08-25")
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}

	count, err = CountRunsForDate(database, "2026-08-26")
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
}

func TestPurgeFailedRuns(t *testing.T) {
	database := initTestDB(t)

	now := time.Now().Unix()
	if err := InsertRun(database, failedRun("01OLD", "2026-07-01", now-60*86400)); err != nil {
		t.Fatal(err)
	}
	if err := InsertRun(database, failedRun("01NEW", "2026-08-25", now)); err != nil {
		t.Fatal(err)
	}
	if err := InsertRun(database, okRun("01OK", "2026-07-01", now-60*86400)); err != nil {
		t.Fatal(err)
	}

	purged, err := PurgeFailedRuns(database, now-30*86400)
	if err != nil {
		t.Fatal(err)
	}
	if purged != 1 {
		t.Errorf("purged = %d, want 1", purged)
	}

	// Successful runs are never purged
	if _, err := GetRunByID(database, "01OK"); err != nil {
		t.Errorf("ok run should survive purge: %v", err)
	}
	if _, err := GetRunByID(database, "01NEW"); err != nil {
		t.Errorf("recent failed run should survive purge: %v", err)
	}
	if _, err := GetRunByID(database, "01OLD"); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("old failed run should be purged, err = %v", err)
	}
}

func TestStreamForExport(t *testing.T) {
	database := initTestDB(t)

	if err := InsertRun(database, okRun("01A", "2026-08-24", 100)); err != nil {
		t.Fatal(err)
	}
	if err := InsertRun(database, okRun("01B", "2026-08-25", 200)); err != nil {
		t.Fatal(err)
	}

	rows, err := StreamForExport(context.Background(), database)
	if err != nil {
		t.Fatal(err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		r, err := ScanRunRow(rows)
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, r.ID)
	}
	if len(ids) != 2 || ids[0] != "01A" || ids[1] != "01B" {
		t.Errorf("ids = %v, want oldest first [01A 01B]", ids)
	}
}
