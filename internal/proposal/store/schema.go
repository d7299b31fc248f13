package store

// Schema is the DDL for the proposals table. Applied by deployment tooling in
// production and executed directly by integration tests.
const Schema = `
CREATE TABLE IF NOT EXISTS proposals (
	id         TEXT PRIMARY KEY,
	status     TEXT NOT NULL,
	payload    JSONB NOT NULL,
	analysis   JSONB,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_proposals_status ON proposals (status, created_at);
`
