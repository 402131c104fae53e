package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS snapshots (
    user_id              TEXT PRIMARY KEY,
    data                 TEXT NOT NULL,
    last_updated         TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS users (
    user_id              TEXT PRIMARY KEY,
    name                 TEXT NOT NULL,
    email                TEXT NOT NULL UNIQUE,
    password_hash        BLOB NOT NULL,
    created_at           TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_snapshots_updated ON snapshots(last_updated);
`

const postgresSchemaSQL = `
CREATE TABLE IF NOT EXISTS snapshots (
    user_id              TEXT PRIMARY KEY,
    data                 JSONB NOT NULL,
    last_updated         TIMESTAMPTZ NOT NULL
);
`
