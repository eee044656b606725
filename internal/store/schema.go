package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS usage (
    id                   INTEGER PRIMARY KEY CHECK (id = 1),
    scenarios            INTEGER NOT NULL DEFAULT 0,
    reports              INTEGER NOT NULL DEFAULT 0,
    updated_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS scenarios (
    id                   INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at           TEXT NOT NULL,
    hires                INTEGER NOT NULL,
    extra_spend          REAL NOT NULL,
    price_delta          REAL NOT NULL,
    revenue              REAL NOT NULL,
    expenses             REAL NOT NULL,
    profit               REAL NOT NULL,
    runway_months        REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS reports (
    id                   INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at           TEXT NOT NULL,
    scenario_id          INTEGER REFERENCES scenarios(id) ON DELETE SET NULL,
    size_bytes           INTEGER NOT NULL
);

INSERT OR IGNORE INTO usage (id, scenarios, reports, updated_at)
    VALUES (1, 0, 0, strftime('%Y-%m-%dT%H:%M:%SZ', 'now'));

CREATE INDEX IF NOT EXISTS idx_scenarios_created ON scenarios(created_at);
`
