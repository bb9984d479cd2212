package storage

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations. Versions start at 1 and
// increase by one.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS permission_decisions (
	backend    TEXT PRIMARY KEY,
	state      TEXT NOT NULL CHECK (state IN ('granted', 'denied')),
	decided_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS alerts (
	id                   TEXT PRIMARY KEY,
	platform             TEXT NOT NULL,
	handle_id            TEXT NOT NULL,
	category             TEXT NOT NULL,
	tag                  TEXT NOT NULL,
	title                TEXT NOT NULL,
	body                 TEXT NOT NULL DEFAULT '',
	requires_interaction INTEGER NOT NULL DEFAULT 0,
	created_at           DATETIME NOT NULL,
	superseded_at        DATETIME
);

CREATE INDEX IF NOT EXISTS idx_alerts_tag ON alerts(platform, tag, created_at);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE TABLE IF NOT EXISTS searches (
	id           TEXT PRIMARY KEY,
	query        TEXT NOT NULL,
	country      TEXT NOT NULL DEFAULT '',
	outcome      TEXT NOT NULL CHECK (outcome IN ('found', 'not-found', 'error')),
	latitude     REAL,
	longitude    REAL,
	display_name TEXT NOT NULL DEFAULT '',
	error        TEXT NOT NULL DEFAULT '',
	created_at   DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_searches_created ON searches(created_at);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
