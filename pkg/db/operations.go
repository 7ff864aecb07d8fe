package db

import (
	"fmt"
)

// BeginRun inserts a runs row for a command invocation, returning the run_id.
func (db *DB) BeginRun(command string) (int64, error) {
	result, err := db.Exec(`
		INSERT INTO runs (command, status)
		VALUES (?, 'running')
	`, command)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}

	return runID, nil
}

// FinishRun marks a run as complete with its final counts.
func (db *DB) FinishRun(runID int64, status string, itemsTotal, itemsFailed int) error {
	_, err := db.Exec(`
		UPDATE runs
		SET finished_at = CURRENT_TIMESTAMP, status = ?, items_total = ?, items_failed = ?
		WHERE run_id = ?
	`, status, itemsTotal, itemsFailed, runID)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	return nil
}

// RecordFetch records a PDF download attempt in fetches.
func (db *DB) RecordFetch(runID int64, url, competition string, statusCode int, sizeBytes int64, errorType string, success bool) error {
	_, err := db.Exec(`
		INSERT INTO fetches (run_id, url, competition, status_code, size_bytes, error_type, success)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, runID, url, competition, statusCode, sizeBytes, errorType, success)
	if err != nil {
		return fmt.Errorf("failed to record fetch: %w", err)
	}
	return nil
}

// RecordRejection records a discarded line or observation.
func (db *DB) RecordRejection(runID int64, stage, reason, source, competition, detail string) error {
	_, err := db.Exec(`
		INSERT INTO rejections (run_id, stage, reason, source, competition, detail)
		VALUES (?, ?, ?, ?, ?, ?)
	`, runID, stage, reason, source, competition, detail)
	if err != nil {
		return fmt.Errorf("failed to record rejection: %w", err)
	}
	return nil
}

// RejectionCounts returns rejection counts by reason for a run.
func (db *DB) RejectionCounts(runID int64) (map[string]int, error) {
	rows, err := db.Query(`
		SELECT reason, COUNT(*)
		FROM rejections
		WHERE run_id = ?
		GROUP BY reason
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rejections: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var reason string
		var count int
		if err := rows.Scan(&reason, &count); err != nil {
			return nil, fmt.Errorf("failed to scan rejection count: %w", err)
		}
		counts[reason] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rejections: %w", err)
	}

	return counts, nil
}

// FetchFailures returns the failed fetch count for a run.
func (db *DB) FetchFailures(runID int64) (int, error) {
	var count int
	err := db.QueryRow(`
		SELECT COUNT(*) FROM fetches WHERE run_id = ? AND success = 0
	`, runID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count fetch failures: %w", err)
	}
	return count, nil
}
