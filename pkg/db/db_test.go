package db

import (
	"testing"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	// Use in-memory database for tests
	database := &DB{path: ":memory:"}
	var err error
	database.DB, err = openDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := database.InitSchema(); err != nil {
		t.Fatalf("failed to initialize schema: %v", err)
	}

	return database
}

func TestBeginAndFinishRun(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	runID, err := db.BeginRun("parse")
	if err != nil {
		t.Fatalf("BeginRun() error = %v", err)
	}
	if runID == 0 {
		t.Error("BeginRun() returned 0 run ID")
	}

	if err := db.FinishRun(runID, "ok", 12, 2); err != nil {
		t.Fatalf("FinishRun() error = %v", err)
	}

	var status string
	var total, failed int
	err = db.QueryRow("SELECT status, items_total, items_failed FROM runs WHERE run_id = ?", runID).
		Scan(&status, &total, &failed)
	if err != nil {
		t.Fatalf("querying run: %v", err)
	}
	if status != "ok" {
		t.Errorf("run status = %q, want %q", status, "ok")
	}
	if total != 12 || failed != 2 {
		t.Errorf("run counts = (%d, %d), want (12, 2)", total, failed)
	}
}

func TestRecordFetch(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	runID, err := db.BeginRun("download")
	if err != nil {
		t.Fatalf("BeginRun() error = %v", err)
	}

	err = db.RecordFetch(runID, "https://example.com/results.pdf", "Desert Classic", 200, 45000, "", true)
	if err != nil {
		t.Fatalf("RecordFetch() error = %v", err)
	}
	err = db.RecordFetch(runID, "https://example.com/tiny.pdf", "Tiny Cup", 200, 120, "too_small", false)
	if err != nil {
		t.Fatalf("RecordFetch() error = %v", err)
	}

	failures, err := db.FetchFailures(runID)
	if err != nil {
		t.Fatalf("FetchFailures() error = %v", err)
	}
	if failures != 1 {
		t.Errorf("FetchFailures() = %d, want 1", failures)
	}
}

func TestRejectionCounts(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	runID, err := db.BeginRun("trends")
	if err != nil {
		t.Fatalf("BeginRun() error = %v", err)
	}

	rejections := []struct {
		stage, reason string
	}{
		{"normalize", "bad_time"},
		{"normalize", "bad_time"},
		{"normalize", "bad_distance"},
		{"extract", "unmatched_line"},
	}
	for _, r := range rejections {
		if err := db.RecordRejection(runID, r.stage, r.reason, "uss_pdf", "Desert Classic", "detail"); err != nil {
			t.Fatalf("RecordRejection() error = %v", err)
		}
	}

	counts, err := db.RejectionCounts(runID)
	if err != nil {
		t.Fatalf("RejectionCounts() error = %v", err)
	}
	if counts["bad_time"] != 2 {
		t.Errorf("counts[bad_time] = %d, want 2", counts["bad_time"])
	}
	if counts["bad_distance"] != 1 {
		t.Errorf("counts[bad_distance] = %d, want 1", counts["bad_distance"])
	}
	if counts["unmatched_line"] != 1 {
		t.Errorf("counts[unmatched_line] = %d, want 1", counts["unmatched_line"])
	}
}

func TestRejectionCountsScopedToRun(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	run1, _ := db.BeginRun("trends")
	run2, _ := db.BeginRun("trends")

	if err := db.RecordRejection(run1, "normalize", "bad_time", "stl", "", ""); err != nil {
		t.Fatalf("RecordRejection() error = %v", err)
	}

	counts, err := db.RejectionCounts(run2)
	if err != nil {
		t.Fatalf("RejectionCounts() error = %v", err)
	}
	if len(counts) != 0 {
		t.Errorf("RejectionCounts() for fresh run = %v, want empty", counts)
	}
}
