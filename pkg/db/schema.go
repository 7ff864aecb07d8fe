package db

const schema = `
-- Performance and reliability settings
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;
PRAGMA temp_store = MEMORY;

-- Runs: one row per pipeline command invocation
CREATE TABLE IF NOT EXISTS runs (
    run_id INTEGER PRIMARY KEY AUTOINCREMENT,
    command TEXT NOT NULL,
    started_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    finished_at TIMESTAMP,
    status TEXT,                 -- ok, failed
    items_total INTEGER DEFAULT 0,
    items_failed INTEGER DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_runs_command ON runs(command);
CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

-- Fetches: every PDF download attempt tracked
CREATE TABLE IF NOT EXISTS fetches (
    fetch_id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL,
    url TEXT NOT NULL,
    competition TEXT,
    status_code INTEGER,
    size_bytes INTEGER,
    error_type TEXT,             -- http, too_small, not_pdf, network
    success BOOLEAN NOT NULL,
    fetched_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_fetches_run ON fetches(run_id);
CREATE INDEX IF NOT EXISTS idx_fetches_success ON fetches(success);

-- Rejections: lines and observations discarded during parsing or merging
CREATE TABLE IF NOT EXISTS rejections (
    rejection_id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL,
    stage TEXT NOT NULL,          -- extract, normalize, merge
    reason TEXT NOT NULL,         -- unmatched_line, bad_time, bad_distance, implausible_time
    source TEXT,
    competition TEXT,
    detail TEXT,
    rejected_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_rejections_run ON rejections(run_id);
CREATE INDEX IF NOT EXISTS idx_rejections_reason ON rejections(reason);
`
