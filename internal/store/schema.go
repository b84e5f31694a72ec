package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS runs (
    id                   INTEGER PRIMARY KEY AUTOINCREMENT,
    plan_key             TEXT NOT NULL,
    plan_title           TEXT NOT NULL,
    currency             TEXT NOT NULL,
    units                INTEGER NOT NULL,
    contingency_rate     REAL NOT NULL,
    exchange_rate        REAL,
    subtotal             INTEGER NOT NULL,
    contingency_amount   INTEGER NOT NULL,
    total                INTEGER NOT NULL,
    converted_estimate   REAL,
    mismatches           INTEGER NOT NULL DEFAULT 0,
    source               TEXT,
    computed_at          TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS run_items (
    run_id               INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    position             INTEGER NOT NULL,
    name                 TEXT NOT NULL,
    amount               INTEGER NOT NULL,
    PRIMARY KEY (run_id, position)
);

CREATE INDEX IF NOT EXISTS idx_runs_plan ON runs(plan_key);
CREATE INDEX IF NOT EXISTS idx_runs_computed ON runs(computed_at);
`
