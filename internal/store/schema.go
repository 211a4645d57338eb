package store

// SchemaSQL defines the database structure. Applied on every open; all
// statements are idempotent.
const SchemaSQL = `
-- Users: synced lazily from the identity provider on first save.
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Businesses: one row per (owner, name). Non-key fields are overwritten on
-- re-submission.
CREATE TABLE IF NOT EXISTS businesses (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id TEXT NOT NULL,
    name TEXT NOT NULL,
    industry TEXT NOT NULL,
    niche TEXT NOT NULL,
    audience TEXT NOT NULL,
    goals TEXT NOT NULL,
    challenges TEXT NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    UNIQUE(user_id, name),
    FOREIGN KEY(user_id) REFERENCES users(id)
);

-- Strategies: append-only history. Nested structures are stored as JSON
-- text; generated_at is unix milliseconds for a total ordering.
CREATE TABLE IF NOT EXISTS strategies (
    id TEXT PRIMARY KEY,
    business_id INTEGER NOT NULL,
    summary TEXT NOT NULL,
    growth_score INTEGER NOT NULL,
    target_audience TEXT,
    marketing_channels TEXT,
    sales_funnel TEXT,
    content_calendar TEXT,
    pricing_strategy TEXT,
    competitors TEXT,
    kpis TEXT,
    generated_at INTEGER NOT NULL,
    FOREIGN KEY(business_id) REFERENCES businesses(id)
);

CREATE INDEX IF NOT EXISTS idx_strategies_business ON strategies(business_id, generated_at);
CREATE INDEX IF NOT EXISTS idx_businesses_owner ON businesses(user_id, name);
`
