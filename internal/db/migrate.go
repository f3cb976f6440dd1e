package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillItemKeys(db); err != nil {
		return fmt.Errorf("backfilling quote item keys: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		client      TEXT NOT NULL DEFAULT '',
		status      TEXT NOT NULL DEFAULT 'active'
		            CHECK(status IN ('active','done','archived')),
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS vendors (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL COLLATE NOCASE UNIQUE,
		contact     TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS vendor_quotes (
		id          TEXT PRIMARY KEY,
		vendor_id   TEXT NOT NULL REFERENCES vendors(id) ON DELETE CASCADE,
		item_name   TEXT NOT NULL,
		category    TEXT NOT NULL
		            CHECK(category IN ('materials','labor','tools','logistics')),
		unit        TEXT NOT NULL DEFAULT '',
		unit_price  TEXT NOT NULL,
		confidence  REAL NOT NULL DEFAULT 1.0 CHECK(confidence >= 0 AND confidence <= 1),
		is_quote    INTEGER NOT NULL DEFAULT 1,
		historical  INTEGER NOT NULL DEFAULT 0,
		fetched_at  TEXT NOT NULL,
		created_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_vendor_quotes_vendor ON vendor_quotes(vendor_id)`,

	`CREATE TABLE IF NOT EXISTS plans (
		id            TEXT PRIMARY KEY,
		project_id    TEXT REFERENCES projects(id) ON DELETE SET NULL,
		currency      TEXT NOT NULL,
		margin_target TEXT NOT NULL DEFAULT '0',
		state         TEXT NOT NULL DEFAULT 'editable'
		              CHECK(state IN ('editable','approved')),
		total         TEXT NOT NULL DEFAULT '0',
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL,
		approved_at   TEXT
	)`,

	`CREATE INDEX IF NOT EXISTS idx_plans_project ON plans(project_id)`,

	`CREATE TABLE IF NOT EXISTS plan_items (
		plan_id           TEXT NOT NULL REFERENCES plans(id) ON DELETE CASCADE,
		position          INTEGER NOT NULL,
		title             TEXT NOT NULL,
		description       TEXT NOT NULL DEFAULT '',
		category          TEXT NOT NULL
		                  CHECK(category IN ('materials','labor','tools','logistics')),
		quantity          TEXT NOT NULL,
		unit              TEXT NOT NULL DEFAULT '',
		unit_price        TEXT NOT NULL,
		subtotal          TEXT NOT NULL,
		details           TEXT NOT NULL DEFAULT '{}',
		source_vendor     TEXT,
		source_confidence REAL,
		source_fetched_at TEXT,
		source_sku        TEXT,
		source_is_quote   INTEGER,
		PRIMARY KEY (plan_id, position)
	)`,

	// Normalized lookup key and SKU on quotes
	`ALTER TABLE vendor_quotes ADD COLUMN item_key TEXT NOT NULL DEFAULT ''`,
	`ALTER TABLE vendor_quotes ADD COLUMN sku TEXT NOT NULL DEFAULT ''`,
	`CREATE INDEX IF NOT EXISTS idx_vendor_quotes_lookup ON vendor_quotes(item_key, category)`,
}

// ItemKey normalizes an item name for catalog matching: lowercase with
// collapsed whitespace.
func ItemKey(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// migrateBackfillItemKeys fills item_key for quotes stored before the column
// existed. Idempotent: rows that already have a key are skipped.
func migrateBackfillItemKeys(db *sql.DB) error {
	ctx := context.Background()

	rows, err := db.QueryContext(ctx, `SELECT id, item_name FROM vendor_quotes WHERE item_key = ''`)
	if err != nil {
		return fmt.Errorf("listing quotes without key: %w", err)
	}
	type pending struct{ id, key string }
	var todo []pending
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			rows.Close()
			return fmt.Errorf("scanning quote: %w", err)
		}
		todo = append(todo, pending{id: id, key: ItemKey(name)})
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("iterating quotes: %w", err)
	}
	rows.Close()

	for _, p := range todo {
		if _, err := db.ExecContext(ctx, `UPDATE vendor_quotes SET item_key = ? WHERE id = ?`, p.key, p.id); err != nil {
			return fmt.Errorf("updating quote %s: %w", p.id, err)
		}
	}
	return nil
}
