package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS properties (
    id                  TEXT PRIMARY KEY,
    name                TEXT NOT NULL,
    address             TEXT NOT NULL DEFAULT '',
    property_type       TEXT NOT NULL DEFAULT '',
    notes               TEXT NOT NULL DEFAULT '',
    property_source     TEXT NOT NULL DEFAULT 'DIRECT_ADDITION',
    subdivision_status  TEXT NOT NULL DEFAULT '',
    handover_status     TEXT NOT NULL DEFAULT '',
    created_at          TEXT NOT NULL,
    updated_at          TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS pipeline_stages (
    property_id     TEXT NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
    kind            TEXT NOT NULL,
    stage_id        INTEGER NOT NULL,
    status          TEXT NOT NULL,
    started_date    TEXT,
    completed_date  TEXT,
    notes           TEXT NOT NULL DEFAULT '',
    documents       TEXT NOT NULL DEFAULT '[]',
    PRIMARY KEY (property_id, kind, stage_id)
);

CREATE TABLE IF NOT EXISTS cost_entries (
    id           TEXT PRIMARY KEY,
    property_id  TEXT NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
    domain       TEXT NOT NULL,
    category     TEXT NOT NULL,
    label        TEXT NOT NULL DEFAULT '',
    amount       REAL NOT NULL,
    date         TEXT
);

CREATE TABLE IF NOT EXISTS payment_receipts (
    property_id     TEXT NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
    receipt_number  INTEGER NOT NULL,
    amount          REAL NOT NULL,
    date            TEXT,
    method          TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (property_id, receipt_number)
);

CREATE TABLE IF NOT EXISTS payment_installments (
    property_id         TEXT NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
    installment_number  INTEGER NOT NULL,
    amount              REAL NOT NULL,
    date                TEXT,
    method              TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (property_id, installment_number)
);

CREATE TABLE IF NOT EXISTS deal_prices (
    property_id  TEXT NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
    domain       TEXT NOT NULL,
    price        REAL NOT NULL,
    PRIMARY KEY (property_id, domain)
);

CREATE INDEX IF NOT EXISTS idx_stages_property ON pipeline_stages(property_id);
CREATE INDEX IF NOT EXISTS idx_costs_property ON cost_entries(property_id, domain);
`
